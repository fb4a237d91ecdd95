// Package ui implements the interactive shelf browser.
//
// The TUI resolves the session, loads the joined my-list view, and lets the
// user browse their shelf, search the catalog with a debounced input, and
// update reading progress without leaving the terminal.
package ui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/softcover/shelf/internal/models"
	"github.com/softcover/shelf/internal/services"
	"github.com/softcover/shelf/internal/session"
	"github.com/softcover/shelf/internal/shared"
	"github.com/softcover/shelf/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	ShelfView ViewState = iota
	SearchView
	DetailView
	ProgressView
)

// Catalog is the slice of the catalog gateway the TUI needs.
// Implemented by [services.CatalogService].
type Catalog interface {
	List(ctx context.Context, params services.ListParams) ([]models.Book, error)
	UpdateProgress(ctx context.Context, id int, progress models.Progress) (*models.Book, error)
}

// Model represents the TUI application state.
type Model struct {
	ctx      context.Context
	view     ViewState
	session  *session.Manager
	engine   *tasks.ShelfEngine
	catalog  Catalog
	searcher *tasks.Searcher[[]models.Book]

	width  int
	height int

	shelfList     list.Model
	searchList    list.Model
	searchInput   textinput.Model
	progressInput textinput.Model

	shelf    *tasks.MyListResult
	selected *models.ShelfItem
	err      error
	help     help.Model
	keys     keyMap
}

type shelfFetchedMsg struct {
	result *tasks.MyListResult
	err    error
}

type searchResultMsg tasks.SearchResult[[]models.Book]

type progressSavedMsg struct {
	book *models.Book
	err  error
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, sess *session.Manager, engine *tasks.ShelfEngine, catalog Catalog, debounce int) *Model {
	searchInput := textinput.New()
	searchInput.Placeholder = "Search the catalog..."

	progressInput := textinput.New()
	progressInput.Placeholder = "Current page"
	progressInput.CharLimit = 6

	searcher := tasks.NewSearcher(func(ctx context.Context, query string) ([]models.Book, error) {
		return catalog.List(ctx, services.ListParams{Search: query})
	}, time.Duration(debounce)*time.Millisecond)

	return &Model{
		ctx:           ctx,
		view:          ShelfView,
		session:       sess,
		engine:        engine,
		catalog:       catalog,
		searcher:      searcher,
		searchInput:   searchInput,
		progressInput: progressInput,
		help:          help.New(),
		keys:          newKeyMap(),
	}
}

// Init resolves the session and loads the shelf.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.fetchShelf(), m.waitForSearch())
}

func (m *Model) fetchShelf() tea.Cmd {
	return func() tea.Msg {
		snap := m.session.Resolve(m.ctx)
		if !snap.Authenticated() {
			return shelfFetchedMsg{err: shared.ErrNotAuthenticated}
		}
		result, err := m.engine.MyList(m.ctx, nil, snap.User.ID)
		return shelfFetchedMsg{result: result, err: err}
	}
}

func (m *Model) waitForSearch() tea.Cmd {
	return func() tea.Msg {
		result, ok := <-m.searcher.Results()
		if !ok {
			return nil
		}
		return searchResultMsg(result)
	}
}

func (m *Model) saveProgress(bookID, current, total int) tea.Cmd {
	return func() tea.Msg {
		book, err := m.catalog.UpdateProgress(m.ctx, bookID, models.Progress{Current: current, Total: total})
		return progressSavedMsg{book: book, err: err}
	}
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.shelfList.Width() == 0 {
			m.shelfList.SetSize(msg.Width-4, msg.Height-8)
		}
		if m.searchList.Width() == 0 {
			m.searchList.SetSize(msg.Width-4, msg.Height-10)
		}
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case ShelfView:
			return m.handleShelfKeys(msg)
		case SearchView:
			return m.handleSearchKeys(msg)
		case DetailView:
			return m.handleDetailKeys(msg)
		case ProgressView:
			return m.handleProgressKeys(msg)
		}

	case shelfFetchedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.shelf = msg.result
		items := make([]list.Item, len(msg.result.Items))
		for i, item := range msg.result.Items {
			items[i] = shelfListItem{item: item}
		}
		m.shelfList = list.New(items, list.NewDefaultDelegate(), 0, 0)
		m.shelfList.Title = "My Shelf"
		m.shelfList.SetSize(m.width-4, m.height-8)
		return m, nil

	case searchResultMsg:
		if msg.Err != nil {
			m.err = msg.Err
			return m, m.waitForSearch()
		}
		m.err = nil
		items := make([]list.Item, len(msg.Data))
		for i, book := range msg.Data {
			items[i] = bookItem{book: book}
		}
		m.searchList = list.New(items, list.NewDefaultDelegate(), 0, 0)
		m.searchList.Title = fmt.Sprintf("Results for %q", msg.Query)
		m.searchList.SetSize(m.width-4, m.height-10)
		return m, m.waitForSearch()

	case progressSavedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		if m.selected != nil && msg.book != nil {
			m.selected.Book = *msg.book
		}
		m.view = DetailView
		return m, m.fetchShelf()
	}

	return m, nil
}

func (m *Model) handleShelfKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "/":
		m.view = SearchView
		m.searchInput.Focus()
		return m, textinput.Blink
	case "enter":
		if selected, ok := m.shelfList.SelectedItem().(shelfListItem); ok {
			item := selected.item
			m.selected = &item
			m.view = DetailView
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.shelfList, cmd = m.shelfList.Update(msg)
	return m, cmd
}

func (m *Model) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.view = ShelfView
		m.searchInput.Blur()
		m.searcher.Cancel()
		return m, nil
	case "enter":
		if selected, ok := m.searchList.SelectedItem().(bookItem); ok {
			item := models.ShelfItem{Book: selected.book}
			m.selected = &item
			m.view = DetailView
		}
		return m, nil
	case "down", "up":
		var cmd tea.Cmd
		m.searchList, cmd = m.searchList.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	before := m.searchInput.Value()
	m.searchInput, cmd = m.searchInput.Update(msg)
	if after := m.searchInput.Value(); after != before {
		m.searcher.Update(m.ctx, after)
	}
	return m, cmd
}

func (m *Model) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.view = ShelfView
		m.selected = nil
		return m, nil
	case "p":
		if m.selected != nil {
			m.progressInput.SetValue(strconv.Itoa(m.selected.Book.Progress.Current))
			m.progressInput.Focus()
			m.view = ProgressView
			return m, textinput.Blink
		}
	}
	return m, nil
}

func (m *Model) handleProgressKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.view = DetailView
		m.progressInput.Blur()
		return m, nil
	case "enter":
		if m.selected == nil {
			m.view = ShelfView
			return m, nil
		}
		current, err := strconv.Atoi(strings.TrimSpace(m.progressInput.Value()))
		if err != nil || current < 0 {
			m.err = fmt.Errorf("%w: page number must be a non-negative integer", shared.ErrInvalidInput)
			return m, nil
		}
		m.progressInput.Blur()
		return m, m.saveProgress(m.selected.Book.ID, current, m.selected.Book.Progress.Total)
	}

	var cmd tea.Cmd
	m.progressInput, cmd = m.progressInput.Update(msg)
	return m, cmd
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	var b strings.Builder

	if m.err != nil {
		b.WriteString(styles.err.Render(fmt.Sprintf("Error: %v", m.err)) + "\n\n")
	}

	switch m.view {
	case ShelfView:
		b.WriteString(m.renderShelf())
	case SearchView:
		b.WriteString(m.renderSearch())
	case DetailView:
		b.WriteString(m.renderDetail())
	case ProgressView:
		b.WriteString(m.renderProgress())
	}

	b.WriteString("\n" + m.help.View(m.keys))
	return b.String()
}

func (m *Model) renderShelf() string {
	if m.shelf == nil {
		return styles.help.Render("Loading your shelf...")
	}

	var b strings.Builder
	b.WriteString(m.shelfList.View())
	if m.shelf.Dropped > 0 {
		b.WriteString("\n" + styles.warn.Render(fmt.Sprintf("%d entries point at books no longer in the catalog", m.shelf.Dropped)))
	}
	return b.String()
}

func (m *Model) renderSearch() string {
	var b strings.Builder
	b.WriteString(styles.title.Render("Catalog Search") + "\n")
	b.WriteString(m.searchInput.View() + "\n\n")
	if len(m.searchList.Items()) > 0 {
		b.WriteString(m.searchList.View())
	} else {
		b.WriteString(styles.help.Render("Type to search; results follow your keystrokes."))
	}
	return b.String()
}

func (m *Model) renderDetail() string {
	if m.selected == nil {
		return ""
	}
	book := m.selected.Book

	var b strings.Builder
	b.WriteString(styles.title.Render(book.DisplayTitle()) + "\n")
	if line := book.CategoryLine(); line != "" {
		b.WriteString(fmt.Sprintf("Categories: %s\n", line))
	}
	if book.Publisher != "" {
		b.WriteString(fmt.Sprintf("Publisher: %s\n", book.Publisher))
	}
	if book.Year > 0 {
		b.WriteString(fmt.Sprintf("Published: %d\n", book.Year))
	}
	if book.ISBN != "" {
		b.WriteString(fmt.Sprintf("ISBN: %s\n", book.ISBN))
	}
	if m.selected.Entry.Status != "" {
		b.WriteString(fmt.Sprintf("Status: %s\n", m.selected.Entry.Status))
	}
	if book.Progress.Total > 0 {
		b.WriteString(fmt.Sprintf("Progress: %d/%d pages (%d%%)\n", book.Progress.Current, book.Progress.Total, book.Progress.Percent()))
	}
	if book.Description != "" {
		b.WriteString("\n" + book.Description + "\n")
	}
	return b.String()
}

func (m *Model) renderProgress() string {
	if m.selected == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString(styles.title.Render(fmt.Sprintf("Update progress for %s", m.selected.Book.Title)) + "\n")
	b.WriteString(fmt.Sprintf("Total pages: %d\n\n", m.selected.Book.Progress.Total))
	b.WriteString(m.progressInput.View())
	return b.String()
}
