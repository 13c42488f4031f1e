package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"zrozum/internal/store"
)

const defaultServer = "https://app.zrozum-to.pl"

var rootCmd = &cobra.Command{
	Use:   "zrozum",
	Short: "Terminal client for the Zrozum lesson platform",
	Long:  "Zrozum: sign in, browse your lessons, and generate quizzes from recorded lectures, all from the terminal.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("server", "", "Backend base URL (overrides ZROZUM_SERVER env var)")
	rootCmd.PersistentFlags().String("db", "", "Path to local state file (overrides ZROZUM_DB env var)")

	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveServer returns the backend base URL using --server (highest
// priority), then ZROZUM_SERVER, then the default.
func resolveServer(cmd *cobra.Command) string {
	if s, _ := cmd.Flags().GetString("server"); s != "" {
		return s
	}
	if s := os.Getenv("ZROZUM_SERVER"); s != "" {
		return s
	}
	return defaultServer
}

// resolveDBPath returns the local state path using --db flag (highest
// priority), then ZROZUM_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}
