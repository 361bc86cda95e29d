// Package ui provides the Bubble Tea terminal front end for dex.
package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/five82/dex/internal/feature/detail"
	"github.com/five82/dex/internal/feature/favorites"
	"github.com/five82/dex/internal/feature/list"
	"github.com/five82/dex/internal/feature/root"
	"github.com/five82/dex/internal/prefs"
)

// Store is the part of the engine the UI drives. *engine.Engine[root.State,
// root.Action] satisfies it.
type Store interface {
	Send(action root.Action) bool
	State() root.State
	Updates() <-chan struct{}
}

// Options configures the UI.
type Options struct {
	Context   context.Context
	Store     Store
	ThemeName string
	Logger    *zap.Logger
}

// Model is the root application state for Bubble Tea. It never changes the
// domain state itself; every intent becomes a root.Action sent to the Store.
type Model struct {
	ctx   context.Context
	store Store
	log   *zap.Logger

	// UI state
	theme    Theme
	keys     keyMap
	width    int
	height   int
	ready    bool
	showHelp bool

	// Last state published by the engine
	state root.State

	// Per-tab cursors
	listCursor int
	favCursor  int

	search   textinput.Model
	spinner  spinner.Model
	help     help.Model
	overlay  viewport.Model
	lastView overlayKey
}

// overlayKey identifies the overlay content currently in the viewport, so
// scrolling survives unrelated state updates.
type overlayKey struct {
	tag    string
	loaded bool
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	search := textinput.New()
	search.Placeholder = "search by name"
	search.Prompt = "/ "
	search.CharLimit = 64

	m := Model{
		ctx:     ctx,
		store:   opts.Store,
		log:     logger.Named("ui"),
		theme:   GetTheme(opts.ThemeName),
		keys:    DefaultKeyMap(),
		search:  search,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
		help:    help.New(),
	}
	if m.store != nil {
		m.state = m.store.State()
		m.search.SetValue(m.state.List.Query)
	}
	return m
}

// Prefs returns the preferences to persist for this session.
func (m Model) Prefs() prefs.Prefs {
	return prefs.Prefs{Theme: m.theme.Name, Tab: m.state.SelectedTab.String()}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		waitForUpdate(m.ctx, m.store),
		m.spinner.Tick,
	)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.search.Width = maxInt(msg.Width-4, 10)
		if !m.ready {
			m.overlay = viewport.New(m.overlayWidth(), m.overlayHeight())
		} else {
			m.overlay.Width = m.overlayWidth()
			m.overlay.Height = m.overlayHeight()
		}
		m.ready = true
		m.refreshOverlay(true)
		return m, nil

	case stateMsg:
		m.applyState(m.store.State())
		return m, waitForUpdate(m.ctx, m.store)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	return m.renderMain()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}
	if m.search.Focused() {
		return m.handleSearchKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.refreshOverlay(true)
		return m, nil

	case key.Matches(msg, m.keys.NextTab), key.Matches(msg, m.keys.PrevTab):
		m.selectTab(otherTab(m.state.SelectedTab))
		return m, nil

	case key.Matches(msg, m.keys.ListTab):
		m.selectTab(root.TabList)
		return m, nil

	case key.Matches(msg, m.keys.FavTab):
		m.selectTab(root.TabFavorites)
		return m, nil

	case key.Matches(msg, m.keys.Retry):
		m.retry()
		return m, nil
	}

	if m.activeDetail() != nil {
		return m.handleDetailKey(msg)
	}
	if m.state.SelectedTab == root.TabFavorites {
		return m.handleFavoritesKey(msg)
	}
	return m.handleListKey(msg)
}

// handleSearchKey routes keys to the search box while it has focus.
func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyCtrlC:
		return m, tea.Quit
	case key.Matches(msg, m.keys.Confirm):
		m.search.Blur()
		return m, nil
	case key.Matches(msg, m.keys.Cancel):
		m.search.Blur()
		m.setQuery("")
		return m, nil
	}

	before := m.search.Value()
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if after := m.search.Value(); after != before {
		m.send(root.List{Action: list.QueryChanged{Text: after}})
	}
	return m, cmd
}

func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Search):
		cmd := m.search.Focus()
		return m, cmd

	case key.Matches(msg, m.keys.Back):
		if m.state.List.Query != "" {
			m.setQuery("")
		}

	case key.Matches(msg, m.keys.Open):
		items := m.state.List.Items
		if len(items) == 0 {
			return m, nil
		}
		item := items[m.listCursor]
		m.send(root.List{Action: list.ItemTapped{Item: item}})
		m.send(root.List{Action: list.Detail{Action: detail.OnAppear{}}})

	default:
		m.listCursor = moveCursor(msg, m.keys, m.listCursor, len(m.state.List.Items))
	}
	return m, nil
}

func (m Model) handleFavoritesKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	saved := m.state.Favorites.Favorites
	switch {
	case key.Matches(msg, m.keys.Open):
		if len(saved) == 0 {
			return m, nil
		}
		m.send(root.Favorites{Action: favorites.ItemTapped{Item: saved[m.favCursor]}})
		m.send(root.Favorites{Action: favorites.Detail{Action: detail.OnAppear{}}})

	case key.Matches(msg, m.keys.Delete):
		if len(saved) == 0 {
			return m, nil
		}
		m.send(root.Favorites{Action: favorites.DeleteFavorite{ID: saved[m.favCursor].ID}})

	default:
		m.favCursor = moveCursor(msg, m.keys, m.favCursor, len(saved))
	}
	return m, nil
}

// handleDetailKey handles keys while the current tab shows an overlay.
func (m Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.dismissDetail()
	case key.Matches(msg, m.keys.Favorite):
		m.sendDetail(detail.ToggleFavorite{})
	case key.Matches(msg, m.keys.Up):
		m.overlay.LineUp(1)
	case key.Matches(msg, m.keys.Down):
		m.overlay.LineDown(1)
	case key.Matches(msg, m.keys.Top):
		m.overlay.GotoTop()
	case key.Matches(msg, m.keys.Bottom):
		m.overlay.GotoBottom()
	}
	return m, nil
}

func (m *Model) selectTab(tab root.Tab) {
	if m.search.Focused() {
		m.search.Blur()
	}
	m.send(root.TabSelected{Tab: tab})
}

// retry repeats whatever the current screen last failed to load.
func (m *Model) retry() {
	if m.activeDetail() != nil {
		m.sendDetail(detail.FetchDetail{})
		return
	}
	if m.state.SelectedTab == root.TabFavorites {
		m.send(root.Favorites{Action: favorites.LoadFavorites{}})
		return
	}
	if q := m.state.List.Query; q != "" {
		m.send(root.List{Action: list.Search{Text: q}})
		return
	}
	m.send(root.List{Action: list.FetchAll{}})
}

func (m *Model) setQuery(text string) {
	m.search.SetValue(text)
	m.send(root.List{Action: list.QueryChanged{Text: text}})
}

func (m *Model) dismissDetail() {
	if m.state.SelectedTab == root.TabFavorites {
		m.send(root.Favorites{Action: favorites.DismissDetail{}})
		return
	}
	m.send(root.List{Action: list.DismissDetail{}})
}

// sendDetail wraps a detail action for whichever tab owns the overlay.
func (m *Model) sendDetail(a detail.Action) {
	if m.state.SelectedTab == root.TabFavorites {
		m.send(root.Favorites{Action: favorites.Detail{Action: a}})
		return
	}
	m.send(root.List{Action: list.Detail{Action: a}})
}

func (m *Model) send(a root.Action) {
	if m.store == nil {
		return
	}
	if !m.store.Send(a) {
		m.log.Debug("engine stopped, dropping action", zap.String("action", fmt.Sprintf("%T", a)))
	}
}

// applyState adopts a newly published state and keeps cursors in range.
func (m *Model) applyState(s root.State) {
	m.state = s
	m.listCursor = clampCursor(m.listCursor, len(s.List.Items))
	m.favCursor = clampCursor(m.favCursor, len(s.Favorites.Favorites))
	if !m.search.Focused() && m.search.Value() != s.List.Query {
		m.search.SetValue(s.List.Query)
	}
	m.refreshOverlay(false)
}

// activeDetail returns the overlay of the selected tab, if any.
func (m Model) activeDetail() *detail.State {
	if m.state.SelectedTab == root.TabFavorites {
		return m.state.Favorites.Detail
	}
	return m.state.List.Detail
}

// refreshOverlay re-renders the overlay into the viewport. The scroll position
// resets only when a different overlay (or its first load) arrives.
func (m *Model) refreshOverlay(force bool) {
	if !m.ready {
		return
	}
	d := m.activeDetail()
	if d == nil {
		m.lastView = overlayKey{}
		return
	}
	k := overlayKey{tag: string(d.Tag()), loaded: d.Detail != nil}
	m.overlay.SetContent(m.renderDetailContent(*d))
	if force || k != m.lastView {
		m.overlay.GotoTop()
	}
	m.lastView = k
}

func moveCursor(msg tea.KeyMsg, keys keyMap, cursor, n int) int {
	if n == 0 {
		return 0
	}
	switch {
	case key.Matches(msg, keys.Up):
		cursor--
	case key.Matches(msg, keys.Down):
		cursor++
	case key.Matches(msg, keys.Top):
		cursor = 0
	case key.Matches(msg, keys.Bottom):
		cursor = n - 1
	}
	return clampCursor(cursor, n)
}

func clampCursor(cursor, n int) int {
	if cursor >= n {
		cursor = n - 1
	}
	if cursor < 0 {
		cursor = 0
	}
	return cursor
}

func otherTab(t root.Tab) root.Tab {
	if t == root.TabList {
		return root.TabFavorites
	}
	return root.TabList
}

// Messages

type stateMsg struct{}

// Commands

// waitForUpdate blocks until the engine publishes a new state.
func waitForUpdate(ctx context.Context, store Store) tea.Cmd {
	if store == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case <-store.Updates():
			return stateMsg{}
		case <-ctx.Done():
			return nil
		}
	}
}

// Run starts the Bubble Tea program and returns the preferences of the
// session once the user quits.
func Run(opts Options) (prefs.Prefs, error) {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	final, err := p.Run()
	if fm, ok := final.(Model); ok {
		return fm.Prefs(), err
	}
	return m.Prefs(), err
}

// itemLabel is how an entry is named across the UI.
func itemLabel(id int, name string) string {
	return padRight(formatID(id), 6) + name
}
