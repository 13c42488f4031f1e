package screen

import (
	tea "charm.land/bubbletea/v2"

	"zrozum/internal/ui/layout"
)

// Screen defines the interface for all top-level views. Exactly one screen
// is visible at a time; which one is the client's entire view state.
type Screen interface {
	// Init returns an initial command when the screen becomes active.
	Init() tea.Cmd

	// Update handles messages and returns updated screen + command.
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the screen content (excluding header/footer).
	View(width, height int) string

	// Title returns the screen name for the header.
	Title() string
}

// KeyHintProvider is an optional interface screens implement to provide
// custom footer key hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}
