// Package ui implements the terminal interface: a searchable note list, an
// editor pane, and transient loading/saving/error states. All note state
// lives in the store; the model only reads it and dispatches intents.
package ui

import (
	"context"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/starford/ansuz/internal/models"
	"github.com/starford/ansuz/internal/store"
)

type mode int

const (
	modeList mode = iota
	modeEdit
)

// Healther is the slice of the remote client the UI needs for the startup
// health probe.
type Healther interface {
	Health(ctx context.Context) (*models.Health, error)
}

// Messages produced by background commands.
type (
	healthMsg    struct{ status string }
	refreshedMsg struct{}
	savedMsg     struct{ err error }
	deletedMsg   struct{ err error }
)

// StoreChangedMsg is sent by the store's change subscription so the UI
// re-renders the moment an optimistic mutation lands, not only when the
// remote call settles.
type StoreChangedMsg struct{}

// Model is the bubbletea model for the notes manager.
type Model struct {
	store  *store.Store
	remote Healther

	mode      mode
	health    string // "" until probed, then "ok" or "unavailable"
	loading   bool
	saving    bool
	searching bool
	status    string

	search  textinput.Model
	title   textinput.Model
	content textarea.Model
	editing int64 // id under edit; 0 composes a new note

	cursor int
	width  int
	height int
}

// New creates the UI model bound to a store and a health probe.
func New(st *store.Store, remote Healther) Model {
	search := textinput.New()
	search.Placeholder = "search"
	search.Prompt = "/"
	search.CharLimit = 128

	title := textinput.New()
	title.Placeholder = "Title"
	title.CharLimit = 256

	content := textarea.New()
	content.Placeholder = "Write something..."

	return Model{
		store:   st,
		remote:  remote,
		search:  search,
		title:   title,
		content: content,
		status:  "n new · enter edit · d delete · / search · r refresh · q quit",
	}
}

// Init probes health once and loads the initial collection.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.healthCmd(), m.refreshCmd(), textinput.Blink)
}

func (m Model) healthCmd() tea.Cmd {
	return func() tea.Msg {
		if _, err := m.remote.Health(context.Background()); err != nil {
			return healthMsg{status: "unavailable"}
		}
		return healthMsg{status: "ok"}
	}
}

func (m Model) refreshCmd() tea.Cmd {
	st := m.store
	return func() tea.Msg {
		_ = st.Refresh(context.Background())
		return refreshedMsg{}
	}
}

func (m Model) saveCmd(id int64, title, content string) tea.Cmd {
	st := m.store
	return func() tea.Msg {
		if id == 0 {
			return savedMsg{err: st.Create(context.Background(), title, content)}
		}
		patch := models.NotePatch{Title: &title, Content: &content}
		return savedMsg{err: st.Update(context.Background(), id, patch)}
	}
}

func (m Model) deleteCmd(id int64) tea.Cmd {
	st := m.store
	return func() tea.Msg {
		return deletedMsg{err: st.Delete(context.Background(), id)}
	}
}

// visible returns the collection filtered by the current search string.
func (m Model) visible() []models.Note {
	return filterNotes(m.store.Notes(), m.search.Value())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.content.SetWidth(m.editorWidth())
		m.content.SetHeight(max(3, m.height-10))
		return m, nil

	case healthMsg:
		m.health = msg.status
		return m, nil

	case refreshedMsg:
		m.loading = false
		m.clampCursor()
		return m, nil

	case StoreChangedMsg:
		m.clampCursor()
		return m, nil

	case savedMsg:
		m.saving = false
		if msg.err != nil {
			m.status = "save failed · ctrl+s retry · esc cancel"
			return m, nil
		}
		m.mode = modeList
		m.editing = 0
		m.status = "saved"
		m.clampCursor()
		return m, nil

	case deletedMsg:
		m.clampCursor()
		return m, nil

	case tea.KeyMsg:
		if m.mode == modeEdit {
			return m.updateEdit(msg)
		}
		if m.searching {
			return m.updateSearch(msg)
		}
		return m.updateList(msg)
	}
	return m, nil
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	notes := m.visible()
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "down", "j":
		if m.cursor < len(notes)-1 {
			m.cursor++
		}
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "/":
		m.searching = true
		m.search.Focus()
		m.status = "search: type to filter, enter or esc to close"
		return m, textinput.Blink
	case "esc":
		if m.search.Value() != "" {
			m.search.SetValue("")
			m.clampCursor()
		}
	case "r":
		m.loading = true
		return m, m.refreshCmd()
	case "n":
		m.store.Select(0)
		return m.enterEditor(models.Note{}), textinput.Blink
	case "enter":
		if m.cursor < len(notes) {
			n := notes[m.cursor]
			if n.Pending {
				m.status = "note is still being created"
				return m, nil
			}
			m.store.Select(n.ID)
			return m.enterEditor(n), textinput.Blink
		}
	case "d":
		if m.cursor < len(notes) {
			n := notes[m.cursor]
			if n.Pending {
				m.status = "note is still being created"
				return m, nil
			}
			return m, m.deleteCmd(n.ID)
		}
	}
	return m, nil
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "esc":
		m.searching = false
		m.search.Blur()
		m.clampCursor()
		return m, nil
	case "ctrl+c":
		return m, tea.Quit
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.clampCursor()
	return m, cmd
}

func (m Model) updateEdit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.mode = modeList
		m.editing = 0
		m.status = "cancelled"
		return m, nil
	case "tab":
		if m.title.Focused() {
			m.title.Blur()
			return m, m.content.Focus()
		}
		m.content.Blur()
		return m, m.title.Focus()
	case "ctrl+s":
		if m.saving {
			return m, nil
		}
		m.saving = true
		m.status = "saving..."
		return m, m.saveCmd(m.editing, m.title.Value(), m.content.Value())
	}
	var cmd tea.Cmd
	if m.title.Focused() {
		m.title, cmd = m.title.Update(msg)
	} else {
		m.content, cmd = m.content.Update(msg)
	}
	return m, cmd
}

// enterEditor switches to the editor pane bound to n. A zero note composes
// a new one.
func (m Model) enterEditor(n models.Note) Model {
	m.mode = modeEdit
	m.editing = n.ID
	m.title.SetValue(n.Title)
	m.content.SetValue(n.Content)
	m.title.Focus()
	m.content.Blur()
	if n.ID == 0 {
		m.status = "new note · ctrl+s save · esc cancel"
	} else {
		m.status = "edit note · ctrl+s save · esc cancel"
	}
	return m
}

func (m *Model) clampCursor() {
	n := len(m.visible())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m Model) editorWidth() int {
	w := m.width - 4
	if w < 20 {
		w = 20
	}
	return w
}
