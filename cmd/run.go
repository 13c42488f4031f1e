package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"zrozum/internal/api"
	"zrozum/internal/app"
	"zrozum/internal/auth"
	"zrozum/internal/store"
)

// runApp opens the local store, wires dependencies, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return fmt.Errorf("resolve state path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open local store: %w", err)
	}
	defer st.Close()

	manager := auth.NewManager(st)
	client := api.New(resolveServer(cmd), manager.Token)
	gateway := auth.NewGateway(auth.NewBackendProvider(client), manager)

	// Restore a previous session without any network I/O; a stale token
	// surfaces later as a 401 and forces a fresh login.
	restored, err := manager.Restore()
	if err != nil {
		return fmt.Errorf("restore session: %w", err)
	}

	return app.Run(app.Options{
		Manager: manager,
		Gateway: gateway,
		Client:  client,
		Initial: restored,
	})
}
