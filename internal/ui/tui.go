package ui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	yterrors "github.com/Aman-CERP/ytsearch/internal/errors"
	"github.com/Aman-CERP/ytsearch/internal/search"
	"github.com/Aman-CERP/ytsearch/internal/youtube"
)

// Searcher is what the TUI drives. *search.Orchestrator implements it.
type Searcher interface {
	SetQuery(text string)
	SetSort(order youtube.SortOrder)
	Submit()
	Snapshot() search.State
}

var _ Searcher = (*search.Orchestrator)(nil)

// TUI is the interactive search screen.
//
// Create it first, pass Observe to search.WithObserver, then Run it with the
// orchestrator.
type TUI struct {
	cfg Config
	box *stateBox
}

// NewTUI creates a TUI. It fails if cfg.Output is not a terminal.
func NewTUI(cfg Config) (*TUI, error) {
	if !IsTTY(cfg.Output) {
		return nil, fmt.Errorf("output is not a TTY")
	}
	return &TUI{cfg: cfg, box: newStateBox()}, nil
}

// Observe receives orchestrator snapshots. It never blocks, so it is safe to
// call from inside the program's own update loop.
func (t *TUI) Observe(s search.State) {
	t.box.put(s)
}

// Run shows the screen until the user quits or ctx is canceled.
func (t *TUI) Run(ctx context.Context, s Searcher) error {
	defer t.box.close()

	opts := []tea.ProgramOption{tea.WithContext(ctx), tea.WithAltScreen()}
	if f, ok := t.cfg.Output.(*os.File); ok {
		opts = append(opts, tea.WithOutput(f))
	}

	p := tea.NewProgram(newSearchModel(s, t.box, t.cfg.Styles()), opts...)
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

// stateBox hands the latest snapshot to the program. Older snapshots that
// were never picked up are overwritten.
type stateBox struct {
	mu     sync.Mutex
	latest search.State
	ready  chan struct{}
	done   chan struct{}
	once   sync.Once
}

func newStateBox() *stateBox {
	return &stateBox{ready: make(chan struct{}, 1), done: make(chan struct{})}
}

func (b *stateBox) put(s search.State) {
	b.mu.Lock()
	b.latest = s
	b.mu.Unlock()
	select {
	case b.ready <- struct{}{}:
	default:
	}
}

func (b *stateBox) close() {
	b.once.Do(func() { close(b.done) })
}

// wait returns a command that yields the next snapshot.
func (b *stateBox) wait() tea.Cmd {
	return func() tea.Msg {
		select {
		case <-b.ready:
		case <-b.done:
			return nil
		}
		b.mu.Lock()
		defer b.mu.Unlock()
		return stateMsg(b.latest)
	}
}

type stateMsg search.State

// searchModel is the bubbletea model for the search screen.
type searchModel struct {
	searcher Searcher
	box      *stateBox
	styles   Styles

	input    textinput.Model
	spinner  spinner.Model
	viewport viewport.Model

	state  search.State
	sort   youtube.SortOrder
	width  int
	height int
}

func newSearchModel(s Searcher, box *stateBox, styles Styles) *searchModel {
	in := textinput.New()
	in.Placeholder = "Search videos"
	in.Prompt = "🔍 "
	in.CharLimit = 256
	in.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.Active

	state := s.Snapshot()
	in.SetValue(state.Query)

	m := &searchModel{
		searcher: s,
		box:      box,
		styles:   styles,
		input:    in,
		spinner:  sp,
		viewport: viewport.New(80, 18),
		state:    state,
		sort:     state.Sort,
		width:    80,
		height:   24,
	}
	m.refreshResults()
	return m
}

// Init implements tea.Model.
func (m *searchModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick, m.box.wait())
}

// Update implements tea.Model.
func (m *searchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = msg.Width
		m.viewport.Height = max(msg.Height-headerRows-footerRows, 3)
		m.input.Width = max(msg.Width-len(m.input.Prompt)-2, 10)
		m.refreshResults()
		return m, nil

	case stateMsg:
		m.state = search.State(msg)
		m.refreshResults()
		return m, m.box.wait()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *searchModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		return m, tea.Quit

	case tea.KeyTab:
		m.sort = m.sort.Next()
		m.searcher.SetSort(m.sort)
		return m, nil

	case tea.KeyShiftTab:
		m.sort = m.sort.Next().Next()
		m.searcher.SetSort(m.sort)
		return m, nil

	case tea.KeyEnter:
		s := m.searcher
		return m, func() tea.Msg {
			s.Submit()
			return nil
		}

	case tea.KeyUp, tea.KeyDown, tea.KeyPgUp, tea.KeyPgDown:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if after := m.input.Value(); after != before {
		m.searcher.SetQuery(after)
	}
	return m, cmd
}

const (
	headerRows = 4
	footerRows = 2
)

func (m *searchModel) refreshResults() {
	if len(m.state.Results) == 0 {
		m.viewport.SetContent(m.styles.Dim.Render("No results yet. Start typing to search."))
		return
	}
	m.viewport.SetContent(RenderResults(m.state.Results, m.width, m.styles))
}

// View implements tea.Model.
func (m *searchModel) View() string {
	var sections []string

	sections = append(sections, m.styles.Header.Render("ytsearch"))
	sections = append(sections, m.input.View())
	sections = append(sections, m.renderSortSelector())
	sections = append(sections, m.renderDivider())

	if m.state.Loading {
		// Placeholder while the search is in flight.
		sections = append(sections, fmt.Sprintf("%s %s", m.spinner.View(), m.styles.Label.Render("Searching…")))
	} else {
		sections = append(sections, m.viewport.View())
	}

	sections = append(sections, m.renderDivider())
	sections = append(sections, m.renderStatusBar())
	return strings.Join(sections, "\n")
}

func (m *searchModel) renderSortSelector() string {
	parts := make([]string, 0, len(youtube.SortOrders))
	for _, o := range youtube.SortOrders {
		if o == m.sort {
			parts = append(parts, m.styles.Active.Render("["+string(o)+"]"))
		} else {
			parts = append(parts, m.styles.Dim.Render(" "+string(o)+" "))
		}
	}
	return m.styles.Label.Render("Sort: ") + strings.Join(parts, " ")
}

func (m *searchModel) renderDivider() string {
	return m.styles.Dim.Render(strings.Repeat("─", max(m.width, 1)))
}

// renderStatusBar shows the last error, or the result count and key help.
func (m *searchModel) renderStatusBar() string {
	if m.state.Err != nil {
		msg := yterrors.FormatInline(m.state.Err)
		if ye, ok := yterrors.As(m.state.Err); ok && ye.Cause != nil {
			msg = yterrors.FormatInline(ye.Cause)
		}
		if yterrors.IsRetryable(m.state.Err) {
			msg += " (enter to retry)"
		}
		return m.styles.Error.Render(truncateStatus("✗ Search failed: "+msg, m.width))
	}

	help := m.styles.Dim.Render("tab sort • enter search • ↑/↓ scroll • esc quit")
	count := m.styles.Label.Render(fmt.Sprintf("%d results", len(m.state.Results)))
	gap := m.width - lipgloss.Width(count) - lipgloss.Width(help)
	if gap < 2 {
		return count
	}
	return count + strings.Repeat(" ", gap) + help
}

func truncateStatus(s string, width int) string {
	return youtube.Truncate(strings.Join(strings.Fields(s), " "), max(width, minWidth))
}
