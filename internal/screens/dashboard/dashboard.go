package dashboard

import (
	"context"
	"errors"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"zrozum/internal/api"
	"zrozum/internal/auth"
	"zrozum/internal/lessons"
	"zrozum/internal/router"
	"zrozum/internal/screen"
	lessonscreen "zrozum/internal/screens/lesson"
	"zrozum/internal/ui/components"
	"zrozum/internal/ui/layout"
	"zrozum/internal/ui/theme"
)

// defaultDescription fills in when the user creates a lesson without one.
const defaultDescription = "Created from the terminal client"

// lessonsLoadedMsg settles the list fetch.
type lessonsLoadedMsg struct {
	list []lessons.Lesson
	err  error
}

// createDoneMsg settles a create-lesson request.
type createDoneMsg struct {
	lesson *lessons.Lesson
	err    error
}

// DashboardScreen shows the lesson list and the new-lesson form.
type DashboardScreen struct {
	client *api.Client

	menu    components.Menu
	list    []lessons.Lesson
	loading bool
	errMsg  string
	notice  string

	creating   bool
	createBusy bool
	titleInput components.TextInput
}

var _ screen.Screen = (*DashboardScreen)(nil)
var _ screen.KeyHintProvider = (*DashboardScreen)(nil)

// New creates the dashboard. Its Init fetches the lesson list, which is
// what makes the post-login list fetch implicit.
func New(client *api.Client) *DashboardScreen {
	return &DashboardScreen{
		client:     client,
		titleInput: components.NewTextInput("Lesson title", "e.g. Fractions, part 2", false),
	}
}

func (d *DashboardScreen) Title() string { return "Lessons" }

func (d *DashboardScreen) Init() tea.Cmd {
	return d.fetch()
}

func (d *DashboardScreen) KeyHints() []layout.KeyHint {
	if d.creating {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Create"},
			{Key: "Esc", Description: "Cancel"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Open"},
		{Key: "n", Description: "New lesson"},
		{Key: "r", Description: "Refresh"},
		{Key: "Ctrl+L", Description: "Log out"},
	}
}

// fetch loads the lesson list.
func (d *DashboardScreen) fetch() tea.Cmd {
	d.loading = true
	d.errMsg = ""
	return func() tea.Msg {
		list, err := d.client.Lessons(context.Background())
		return lessonsLoadedMsg{list: list, err: err}
	}
}

func (d *DashboardScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case lessonsLoadedMsg:
		d.loading = false
		if msg.err != nil {
			if errors.Is(msg.err, api.ErrUnauthorized) {
				return d, func() tea.Msg { return auth.ExpiredMsg{} }
			}
			// Inline placeholder in the list region; never fatal.
			d.errMsg = "Could not load lessons."
			return d, nil
		}
		d.setList(msg.list)
		return d, nil

	case createDoneMsg:
		d.createBusy = false
		if msg.err != nil {
			if errors.Is(msg.err, api.ErrUnauthorized) {
				return d, func() tea.Msg { return auth.ExpiredMsg{} }
			}
			d.errMsg = api.UserMessage(msg.err)
			return d, nil
		}
		d.creating = false
		d.titleInput.SetValue("")
		d.notice = "Lesson added: " + msg.lesson.Title
		return d, d.fetch()

	case tea.KeyMsg:
		if d.creating {
			return d.updateCreating(msg)
		}
		switch msg.String() {
		case "n":
			d.creating = true
			d.notice = ""
			return d, d.titleInput.Focus()
		case "r":
			return d, d.fetch()
		}
	}

	if !d.creating {
		var cmd tea.Cmd
		d.menu, cmd = d.menu.Update(msg)
		return d, cmd
	}
	return d, nil
}

func (d *DashboardScreen) updateCreating(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	if d.createBusy {
		return d, nil
	}
	switch msg.String() {
	case "esc":
		d.creating = false
		d.titleInput.SetValue("")
		return d, nil
	case "enter":
		title := strings.TrimSpace(d.titleInput.Value())
		if title == "" {
			// No title means no request at all.
			d.creating = false
			d.titleInput.SetValue("")
			return d, nil
		}
		d.createBusy = true
		return d, func() tea.Msg {
			created, err := d.client.CreateLesson(context.Background(), title, defaultDescription)
			return createDoneMsg{lesson: created, err: err}
		}
	}

	var cmd tea.Cmd
	d.titleInput, cmd = d.titleInput.Update(msg)
	return d, cmd
}

// setList rebuilds the menu from a fresh lesson snapshot.
func (d *DashboardScreen) setList(list []lessons.Lesson) {
	d.list = list
	items := make([]components.MenuItem, 0, len(list))
	for _, l := range list {
		lesson := l
		desc := lesson.Description
		if desc == "" {
			desc = "No description"
		}
		items = append(items, components.MenuItem{
			Label:       lesson.Title,
			Description: desc,
			Action: func() tea.Cmd {
				return func() tea.Msg {
					return router.PushScreenMsg{Screen: lessonscreen.New(d.client, lesson)}
				}
			},
		})
	}
	d.menu = components.NewMenu(items)
}

func (d *DashboardScreen) View(width, height int) string {
	var b []string

	if d.creating {
		b = append(b, theme.Title.Render("New lesson"))
		b = append(b, "")
		b = append(b, d.titleInput.View())
		if d.createBusy {
			b = append(b, "")
			b = append(b, theme.Hint.Render("Creating..."))
		}
		if d.errMsg != "" {
			b = append(b, "")
			b = append(b, theme.ErrorText.Render(d.errMsg))
		}
	} else {
		switch {
		case d.loading:
			b = append(b, theme.Hint.Render("Loading lessons..."))
		case d.errMsg != "":
			b = append(b, theme.ErrorText.Render(d.errMsg))
		case len(d.list) == 0:
			b = append(b, theme.Hint.Render("No lessons assigned yet."))
		default:
			b = append(b, d.menu.View())
		}
		if d.notice != "" {
			b = append(b, "")
			b = append(b, theme.Body.Render(d.notice))
		}
	}

	content := lipgloss.JoinVertical(lipgloss.Left, b...)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
