package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/s0up4200/reelcheck/console"
	"github.com/s0up4200/reelcheck/detail"
	"github.com/s0up4200/reelcheck/filter"
	"github.com/s0up4200/reelcheck/movie"
	"github.com/s0up4200/reelcheck/omdb"
	"github.com/s0up4200/reelcheck/search"
)

// view is the active screen.
type view int

const (
	viewSearch view = iota
	viewDetail
)

// stateChangedMsg reports that a controller published a new snapshot.
type stateChangedMsg struct{}

// openedMsg reports the outcome of opening a link.
type openedMsg struct {
	url string
	err error
}

// Options configures the browser.
type Options struct {
	Context context.Context
	Search  *search.Controller
	Detail  *detail.Controller
	Filter  filter.Filter
	Logger  zerolog.Logger
	// Open opens a URL in the user's browser. Defaults to openURL.
	Open func(url string) error
	// Query pre-fills the search box.
	Query string
}

// Model is the root Bubble Tea model.
type Model struct {
	ctx    context.Context
	search *search.Controller
	detail *detail.Controller
	filter filter.Filter
	logger zerolog.Logger
	open   func(string) error
	keys   keyMap

	changes chan struct{}

	input    textinput.Model
	spinner  spinner.Model
	viewport viewport.Model

	view     view
	width    int
	height   int
	selected int
	status   string

	searchState search.State
	items       []filter.Item
	detailState detail.State
}

// New creates the model and subscribes it to both controllers.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	open := opts.Open
	if open == nil {
		open = openURL
	}

	input := textinput.New()
	input.Placeholder = "Search movies..."
	input.Prompt = "🔎 "
	input.CharLimit = 200
	input.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("5"))

	m := Model{
		ctx:      ctx,
		search:   opts.Search,
		detail:   opts.Detail,
		filter:   opts.Filter,
		logger:   opts.Logger.With().Str("component", "tui").Logger(),
		open:     open,
		keys:     defaultKeyMap(),
		changes:  make(chan struct{}, 1),
		input:    input,
		spinner:  sp,
		viewport: viewport.New(80, 20),
	}

	// Listeners only signal; snapshots are read on the UI goroutine.
	changes := m.changes
	notify := func() {
		select {
		case changes <- struct{}{}:
		default:
		}
	}
	m.search.Subscribe(func(search.State) { notify() })
	m.detail.Subscribe(func(detail.State) { notify() })

	if q := strings.TrimSpace(opts.Query); q != "" {
		m.input.SetValue(opts.Query)
		m.search.SetQuery(opts.Query)
	}
	m.refresh()

	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick, m.waitForChange())
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = max(msg.Width-4, 20)
		m.viewport.Height = max(msg.Height-8, 5)
		m.refreshViewport()
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
		if m.view == viewDetail {
			return m.handleDetailKey(msg)
		}
		return m.handleSearchKey(msg)

	case stateChangedMsg:
		m.refresh()
		return m, m.waitForChange()

	case openedMsg:
		if msg.err != nil {
			m.status = errorStyle.Render(msg.err.Error())
			m.logger.Warn().Err(msg.err).Str("url", msg.url).Msg("Failed to open link")
		} else {
			m.status = hint("Opened " + msg.url)
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.selected > 0 {
			m.selected--
		}
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if m.selected < len(m.items)-1 {
			m.selected++
		}
		return m, nil

	case key.Matches(msg, m.keys.Select):
		if len(m.items) == 0 {
			return m, nil
		}
		m.detail.Select(m.items[m.selected].Summary)
		m.view = viewDetail
		m.status = ""
		m.viewport.GotoTop()
		m.refresh()
		return m, nil

	case key.Matches(msg, m.keys.Retry):
		if m.searchState.Retryable() {
			m.search.Retry()
		}
		return m, nil

	case key.Matches(msg, m.keys.Back):
		m.input.SetValue("")
		m.search.SetQuery("")
		m.refresh()
		return m, nil
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if after := m.input.Value(); after != before {
		m.search.SetQuery(after)
		m.selected = 0
		m.refresh()
	}
	return m, cmd
}

func (m Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.view = viewSearch
		m.status = ""
		return m, nil

	case key.Matches(msg, m.keys.Retry):
		if m.detailState.Retryable() {
			m.detail.Reload()
		}
		return m, nil

	case key.Matches(msg, m.keys.OpenIMDb):
		return m, m.openCmd(movie.IMDb)
	case key.Matches(msg, m.keys.OpenRT):
		return m, m.openCmd(movie.RottenTomatoes)
	case key.Matches(msg, m.keys.OpenAudience):
		return m, m.openCmd(movie.RottenTomatoesAudience)
	case key.Matches(msg, m.keys.OpenMetacritic):
		return m, m.openCmd(movie.Metacritic)
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// openCmd opens dest. A disabled link is reported in the status line.
func (m *Model) openCmd(dest movie.Destination) tea.Cmd {
	url := m.detail.URL(dest)
	if url == "" {
		m.status = hint(dest.String() + " link is not available yet")
		return nil
	}
	open := m.open
	return func() tea.Msg {
		return openedMsg{url: url, err: open(url)}
	}
}

func (m Model) waitForChange() tea.Cmd {
	changes, ctx := m.changes, m.ctx
	return func() tea.Msg {
		select {
		case <-changes:
			return stateChangedMsg{}
		case <-ctx.Done():
			return tea.Quit()
		}
	}
}

// refresh pulls the latest snapshots from both controllers.
func (m *Model) refresh() {
	m.searchState = m.search.State()
	m.detailState = m.detail.State()

	m.items = filter.Apply(m.filter, console.Items(m.searchState))
	if m.selected >= len(m.items) {
		m.selected = max(len(m.items)-1, 0)
	}
	m.refreshViewport()
}

func (m *Model) refreshViewport() {
	var sb strings.Builder
	formatter := console.NewConsoleFormatter()
	sb.WriteString(formatter.FormatDetails(m.detailState, m.detail.URL))
	m.viewport.SetContent(lipgloss.NewStyle().Width(m.viewport.Width).Render(sb.String()))
}

// View implements tea.Model.
func (m Model) View() string {
	header := titleStyle.Render("reelcheck")
	if m.view == viewDetail {
		return m.detailView(header)
	}
	return m.searchView(header)
}

func (m Model) searchView(header string) string {
	var sb strings.Builder
	sb.WriteString(header + "\n\n")
	sb.WriteString(m.input.View() + "\n\n")

	st := m.searchState
	switch {
	case st.Status == search.StatusIdle:
		sb.WriteString(hint("Type a movie title to search"))
	case st.Status == search.StatusLoading:
		sb.WriteString(m.spinner.View() + " Searching...")
	case st.Status == search.StatusError && st.ErrorKind == omdb.KindConfig:
		sb.WriteString(warnStyle.Render(st.ErrorMessage))
	case st.Status == search.StatusError:
		sb.WriteString(errorStyle.Render(st.ErrorMessage) + "\n" + hint("Press ctrl+r to retry"))
	case st.Empty():
		sb.WriteString(hint("No movies found"))
	case len(m.items) == 0:
		sb.WriteString(hint(fmt.Sprintf("No movies matched the filter (%d hidden)", len(st.Results))))
	default:
		sb.WriteString(m.resultList())
	}

	sb.WriteString("\n\n" + helpLine(m.keys.searchHelp()))
	return sb.String()
}

func (m Model) resultList() string {
	rows := make([]string, 0, len(m.items))
	for i, item := range m.items {
		line := item.Title
		if item.Year != "" {
			line += " (" + item.Year + ")"
		}
		if item.HasRatings {
			line += "  " + faintStyle.Render(console.RatingsLine(item.Ratings))
		}
		if i == m.selected {
			line = selectedStyle.Render(line)
		}
		rows = append(rows, line)
	}
	return strings.Join(rows, "\n")
}

func (m Model) detailView(header string) string {
	var sb strings.Builder
	sb.WriteString(header + "\n\n")
	if m.detailState.Status == detail.StatusLoading {
		sb.WriteString(m.spinner.View() + " ")
	}
	sb.WriteString(panelStyle.Render(m.viewport.View()))
	if m.status != "" {
		sb.WriteString("\n" + m.status)
	}
	sb.WriteString("\n" + helpLine(m.keys.detailHelp()))
	return sb.String()
}
