// Package tui provides a Bubble Tea browser for the movie catalog.
//
// The browser shows one movie at a time and steps through the catalog in
// ascending ID order, the same way the catalog's first, last, next and
// previous operations do.
package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vyrodovalexey/moviemanager/internal/model"
	"github.com/vyrodovalexey/moviemanager/internal/store"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B")).
			MarginBottom(1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ECDC4")).
			Width(15)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#95E1A3"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFE66D"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C757D"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#4ECDC4")).
			Padding(1, 2)
)

type keyMap struct {
	First    key.Binding
	Last     key.Binding
	Next     key.Binding
	Previous key.Binding
	Delete   key.Binding
	Reload   key.Binding
	Confirm  key.Binding
	Cancel   key.Binding
	Help     key.Binding
	Quit     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		First:    key.NewBinding(key.WithKeys("f", "home"), key.WithHelp("f/home", "first")),
		Last:     key.NewBinding(key.WithKeys("l", "end"), key.WithHelp("l/end", "last")),
		Next:     key.NewBinding(key.WithKeys("n", "right", "j"), key.WithHelp("n/→", "next")),
		Previous: key.NewBinding(key.WithKeys("p", "left", "k"), key.WithHelp("p/←", "previous")),
		Delete:   key.NewBinding(key.WithKeys("d", "delete"), key.WithHelp("d", "delete")),
		Reload:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload file")),
		Confirm:  key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "confirm")),
		Cancel:   key.NewBinding(key.WithKeys("n", "esc"), key.WithHelp("n/esc", "cancel")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more keys")),
		Quit:     key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.First, k.Previous, k.Next, k.Last, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.First, k.Previous, k.Next, k.Last},
		{k.Delete, k.Reload},
		{k.Help, k.Quit},
	}
}

// confirmKeys is shown while a delete waits for confirmation.
type confirmKeys struct {
	keyMap
}

func (k confirmKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Confirm, k.Cancel}
}

func (k confirmKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// Message types
type (
	// MovieMsg carries the result of a navigation command.
	MovieMsg struct {
		Movie  *model.Movie
		Count  int
		Status string
		Err    error
	}

	// DeletedMsg is sent after a movie was removed.
	DeletedMsg struct {
		ID    int
		Next  *model.Movie
		Count int
		Err   error
	}
)

// Model is the Bubble Tea model of the catalog browser.
type Model struct {
	ctx   context.Context
	store store.Store
	keys  keyMap
	help  help.Model

	current    *model.Movie
	count      int
	status     string
	err        error
	confirming bool
}

// NewModel creates a browser over s.
func NewModel(ctx context.Context, s store.Store) Model {
	return Model{
		ctx:   ctx,
		store: s,
		keys:  defaultKeyMap(),
		help:  help.New(),
	}
}

// Current returns the movie on screen, or nil when the catalog is empty.
func (m Model) Current() *model.Movie {
	return m.current
}

// Status returns the last status line.
func (m Model) Status() string {
	return m.status
}

// Init loads the first movie.
func (m Model) Init() tea.Cmd {
	return m.first()
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if m.confirming {
			return m.updateConfirm(msg)
		}
		return m.updateBrowse(msg)

	case MovieMsg:
		m.err = msg.Err
		m.status = msg.Status
		switch {
		case msg.Err == nil:
			m.current = msg.Movie
			m.count = msg.Count
		case errors.Is(msg.Err, store.ErrEmptyStore):
			m.current = nil
			m.count = 0
		}
		return m, nil

	case DeletedMsg:
		m.err = msg.Err
		if msg.Err != nil {
			return m, nil
		}
		m.current = msg.Next
		m.count = msg.Count
		m.status = fmt.Sprintf("Deleted movie %d", msg.ID)
		return m, nil
	}

	return m, nil
}

func (m Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.First):
		return m, m.first()
	case key.Matches(msg, m.keys.Last):
		return m, m.last()
	case key.Matches(msg, m.keys.Next):
		return m, m.step(1)
	case key.Matches(msg, m.keys.Previous):
		return m, m.step(-1)
	case key.Matches(msg, m.keys.Reload):
		return m, m.reload()
	case key.Matches(msg, m.keys.Delete):
		if m.current != nil {
			m.confirming = true
			m.status = fmt.Sprintf("Delete movie %d? (y/n)", m.current.ID)
			m.err = nil
		}
	}

	return m, nil
}

func (m Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		m.confirming = false
		return m, m.remove(m.current.ID)
	case key.Matches(msg, m.keys.Cancel):
		m.confirming = false
		m.status = ""
	case msg.String() == "ctrl+c":
		return m, tea.Quit
	}

	return m, nil
}

func (m Model) first() tea.Cmd {
	return m.lookup(func(ctx context.Context) (*model.Movie, error) {
		return m.store.First(ctx)
	})
}

func (m Model) last() tea.Cmd {
	return m.lookup(func(ctx context.Context) (*model.Movie, error) {
		return m.store.Last(ctx)
	})
}

// step moves one movie forward or back from the current one.
func (m Model) step(direction int) tea.Cmd {
	if m.current == nil {
		return m.first()
	}

	id := m.current.ID
	if direction > 0 {
		return m.lookup(func(ctx context.Context) (*model.Movie, error) {
			return m.store.Next(ctx, id)
		})
	}
	return m.lookup(func(ctx context.Context) (*model.Movie, error) {
		return m.store.Previous(ctx, id)
	})
}

func (m Model) reload() tea.Cmd {
	return func() tea.Msg {
		count, err := m.store.Load(m.ctx)
		if err != nil {
			return MovieMsg{Movie: m.current, Count: m.count, Err: err}
		}
		if count == 0 {
			return MovieMsg{Err: store.ErrEmptyStore, Status: "Reloaded an empty catalog"}
		}

		movie, err := m.store.First(m.ctx)
		return MovieMsg{
			Movie:  movie,
			Count:  count,
			Status: fmt.Sprintf("Reloaded %d movie(s)", count),
			Err:    err,
		}
	}
}

// remove deletes id and moves to its successor, or its predecessor when id
// was the last movie.
func (m Model) remove(id int) tea.Cmd {
	return func() tea.Msg {
		next, err := m.store.Next(m.ctx, id)
		if errors.Is(err, store.ErrNoNeighbor) {
			next, err = m.store.Previous(m.ctx, id)
		}
		if err != nil && !errors.Is(err, store.ErrNoNeighbor) {
			return DeletedMsg{ID: id, Err: err}
		}

		if err := m.store.Delete(m.ctx, id); err != nil {
			return DeletedMsg{ID: id, Err: err}
		}

		count, err := m.store.Count(m.ctx)
		return DeletedMsg{ID: id, Next: next, Count: count, Err: err}
	}
}

func (m Model) lookup(get func(context.Context) (*model.Movie, error)) tea.Cmd {
	return func() tea.Msg {
		movie, err := get(m.ctx)
		if err != nil {
			return MovieMsg{Movie: m.current, Count: m.count, Err: err}
		}

		count, err := m.store.Count(m.ctx)
		return MovieMsg{Movie: movie, Count: count, Err: err}
	}
}

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Movie Catalog"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("%s · %d movie(s)", m.store.Path(), m.count)))
	b.WriteString("\n\n")

	if m.current == nil {
		b.WriteString(warningStyle.Render("The catalog is empty."))
	} else {
		b.WriteString(boxStyle.Render(renderMovie(m.current)))
	}
	b.WriteString("\n\n")

	switch {
	case m.err != nil:
		b.WriteString(errorStyle.Render(describeError(m.err)))
	case m.confirming:
		b.WriteString(warningStyle.Render(m.status))
	case m.status != "":
		b.WriteString(successStyle.Render(m.status))
	}
	b.WriteString("\n\n")

	if m.confirming {
		b.WriteString(m.help.View(confirmKeys{m.keys}))
	} else {
		b.WriteString(m.help.View(m.keys))
	}

	return b.String()
}

func renderMovie(movie *model.Movie) string {
	year := "-"
	if movie.ReleasedYear != 0 {
		year = fmt.Sprintf("%d", movie.ReleasedYear)
	}

	rows := []struct {
		label string
		value string
	}{
		{"Movie ID:", fmt.Sprintf("%d", movie.ID)},
		{"Title:", movie.Title},
		{"Genre:", movie.Genre},
		{"Released Year:", year},
		{"Director:", movie.Director},
	}

	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		lines = append(lines, labelStyle.Render(row.label)+row.value)
	}

	return strings.Join(lines, "\n")
}

// describeError turns a catalog error into a status line.
func describeError(err error) string {
	switch {
	case errors.Is(err, store.ErrNoNeighbor):
		return "No more movies in that direction."
	case errors.Is(err, store.ErrEmptyStore):
		return "The catalog is empty."
	case errors.Is(err, store.ErrNotFound):
		return "The movie is no longer in the catalog."
	case errors.Is(err, store.ErrPersistence):
		return "Catalog file could not be read or written: " + err.Error()
	default:
		return "Error: " + err.Error()
	}
}

// Run starts the browser on in and out until the user quits or ctx ends.
func Run(ctx context.Context, s store.Store, in io.Reader, out io.Writer) error {
	p := tea.NewProgram(
		NewModel(ctx, s),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
		tea.WithInput(in),
		tea.WithOutput(out),
	)
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
