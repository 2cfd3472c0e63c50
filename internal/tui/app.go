package tui

import (
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/nicobailon/debugdeck/internal/config"
	"github.com/nicobailon/debugdeck/internal/navigator"
	"github.com/nicobailon/debugdeck/internal/panel"
	"github.com/nicobailon/debugdeck/internal/panels"
	"github.com/nicobailon/debugdeck/internal/registry"
	"github.com/nicobailon/debugdeck/internal/tui/theme"
	"github.com/nicobailon/debugdeck/internal/tui/views"
	"github.com/rs/zerolog"
)

const (
	defaultWidth  = 80
	defaultHeight = 24
	minFrameRate  = 1
	maxFrameRate  = 240
	windowTitle   = "DEBUGGER"
)

type Deps struct {
	Registry *registry.Registry
	Cfg      *config.Config
	Sampler  *panels.FPSSampler
	Log      zerolog.Logger
}

type model struct {
	deps      Deps
	nav       *navigator.Navigator
	strip     *tabStrip
	frame     *panel.Frame
	keys      keyMap
	help      help.Model
	width     int
	height    int
	frames    uint64
	lastTick  time.Time

	collapsed bool
	showHelp  bool
	focus     int
	rows      []tabRow
	body      string
	path      []string
	active    panel.Panel

	toast *toast
	err   error
}

type App struct {
	deps Deps
}

func New(deps Deps) *App {
	return &App{deps: deps}
}

// Run blocks until the user quits. A panel fault under fail_fast is returned
// as the error.
func (a *App) Run() error {
	m := initialModel(a.deps)
	p := tea.NewProgram(m, tea.WithAltScreen())
	finalModel, err := p.Run()
	if err != nil {
		return err
	}
	if fm, ok := finalModel.(model); ok && fm.err != nil {
		return fm.err
	}
	return nil
}

func initialModel(deps Deps) model {
	cfg := config.Config{FrameRate: 30, CloseLabel: navigator.DefaultCloseLabel, FailFast: true}
	if deps.Cfg != nil {
		cfg = *deps.Cfg
	}
	// The host adjusts its own copy; the caller's config stays as loaded.
	deps.Cfg = &cfg
	if deps.Sampler == nil {
		deps.Sampler = panels.NewFPSSampler(deps.Cfg.FPSRefreshInterval)
	}
	if deps.Registry == nil {
		deps.Registry = registry.New()
	}
	strip := newTabStrip()
	h := help.New()
	h.Styles.ShortKey = theme.KeyStyle
	h.Styles.ShortDesc = theme.DimStyle
	h.Styles.FullKey = theme.KeyStyle
	h.Styles.FullDesc = theme.DimStyle
	return model{
		deps:      deps,
		nav:       navigator.New(strip, navigator.WithCloseLabel(deps.Cfg.CloseLabel), navigator.WithLogger(deps.Log)),
		strip:     strip,
		frame:     panel.NewFrame(0, 0),
		keys:      defaultKeyMap(),
		help:      h,
		width:     defaultWidth,
		height:    defaultHeight,
		collapsed: deps.Cfg.StartCollapsed,
	}
}

// TEA plumbing

func (m model) Init() tea.Cmd {
	return m.tickCmd()
}

func (m model) tickCmd() tea.Cmd {
	return tea.Tick(m.deps.Cfg.FrameInterval(), func(t time.Time) tea.Msg {
		return frameTickMsg(t)
	})
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case frameTickMsg:
		now := time.Time(msg)
		var delta time.Duration
		if !m.lastTick.IsZero() {
			delta = now.Sub(m.lastTick)
			m.deps.Sampler.Tick(delta)
		}
		m.lastTick = now
		if m.toast != nil && m.toast.expired(now) {
			m.toast = nil
		}
		if m.collapsed {
			return m, m.tickCmd()
		}
		if cmd := m.renderFrame(delta); cmd != nil {
			return m, cmd
		}
		return m, m.tickCmd()

	case ErrorMsg:
		m.toast = &toast{message: msg.Error(), kind: toastError, expiresAt: time.Now().Add(toastDuration)}
		return m, toastExpireCmd()

	case InfoMsg:
		m.toast = &toast{message: msg.Message, kind: toastInfo, expiresAt: time.Now().Add(toastDuration)}
		return m, toastExpireCmd()

	case toastExpiredMsg:
		if m.toast != nil && m.toast.expired(time.Now()) {
			m.toast = nil
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

// renderFrame runs the navigator once. It returns a non-nil command only
// when the frame ends the program.
func (m *model) renderFrame(delta time.Duration) tea.Cmd {
	m.frames++
	m.strip.begin()
	bodyWidth, bodyHeight := m.bodySize()
	f := m.frame
	f.Reset()
	f.Width = bodyWidth
	f.Height = bodyHeight
	f.Number = m.frames
	f.Delta = delta

	res, err := m.nav.RenderFrame(m.deps.Registry.Root(), f)
	m.rows = m.strip.snapshot()
	if err != nil {
		m.deps.Log.Error().Err(err).Uint64("frame", m.frames).Msg("frame failed")
		if m.deps.Cfg.FailFast {
			m.err = err
			return tea.Quit
		}
		m.active = nil
		m.body = theme.ErrorStyle.Render(err.Error())
		return tea.Batch(m.tickCmd(), NewErrorCmd(err, "panel fault"))
	}
	if res.Collapse {
		m.deps.Log.Info().Msg("collapsed to icon")
		m.collapsed = true
		m.focus = 0
		m.active = nil
		return nil
	}
	m.active = res.Leaf
	m.path = res.Path
	m.body = f.String()
	if m.focus >= len(m.rows) {
		m.focus = len(m.rows) - 1
	}
	if m.focus < 0 {
		m.focus = 0
	}
	return nil
}

func (m model) bodySize() (int, int) {
	strips := len(m.rows)
	if strips == 0 {
		strips = 1
	}
	w := m.width - 4
	h := m.height - 5 - strips
	return max(w, 1), max(h, 1)
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		return m, nil
	case key.Matches(msg, m.keys.Faster):
		return m.changeFrameRate(m.deps.Cfg.FrameRate * 2)
	case key.Matches(msg, m.keys.Slower):
		return m.changeFrameRate(m.deps.Cfg.FrameRate / 2)
	}

	if m.collapsed {
		if key.Matches(msg, m.keys.Expand) {
			m.collapsed = false
			m.deps.Log.Info().Msg("expanded from icon")
		}
		return m, nil
	}
	if m.showHelp {
		if key.Matches(msg, m.keys.Close) {
			m.showHelp = false
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Left):
		m.moveTab(-1)
	case key.Matches(msg, m.keys.Right):
		m.moveTab(1)
	case key.Matches(msg, m.keys.Up):
		if m.focus > 0 {
			m.focus--
		}
	case key.Matches(msg, m.keys.Down):
		if m.focus < len(m.rows)-1 {
			m.focus++
		}
	case key.Matches(msg, m.keys.Pick):
		m.pickTab(int(msg.String()[0] - '1'))
	case key.Matches(msg, m.keys.Close):
		if len(m.rows) > 0 {
			m.strip.choose(0, len(m.rows[0].labels)-1)
		}
	default:
		if h, ok := m.active.(panel.KeyHandler); ok {
			h.HandleKey(msg.String())
		}
	}
	return m, nil
}

// tabCount is the number of real tabs on a strip; the root's close tab is
// reached only through the close key.
func (m model) tabCount(depth int) int {
	if depth < 0 || depth >= len(m.rows) {
		return 0
	}
	n := len(m.rows[depth].labels)
	if depth == 0 {
		n--
	}
	return n
}

func (m *model) moveTab(delta int) {
	n := m.tabCount(m.focus)
	if n <= 0 {
		return
	}
	cur := m.rows[m.focus].selected
	if cur < 0 || cur >= n {
		cur = 0
	}
	m.strip.choose(m.focus, ((cur+delta)%n+n)%n)
}

func (m *model) pickTab(idx int) {
	if idx >= 0 && idx < m.tabCount(m.focus) {
		m.strip.choose(m.focus, idx)
	}
}

func (m model) changeFrameRate(rate int) (tea.Model, tea.Cmd) {
	rate = min(max(rate, minFrameRate), maxFrameRate)
	if rate == m.deps.Cfg.FrameRate {
		return m, nil
	}
	m.deps.Cfg.FrameRate = rate
	m.deps.Log.Info().Int("frame_rate", rate).Msg("frame rate changed")
	return m, NewInfoCmd("frame rate " + strconv.Itoa(rate))
}

func (m model) View() string {
	if m.collapsed {
		return views.RenderIcon(panels.FormatFPS(m.deps.Sampler.Current()))
	}

	title := theme.TitleStyle.Render(windowTitle)
	if len(m.path) > 0 {
		title += "  " + theme.DimStyle.Render(strings.Join(m.path, " › "))
	}

	strips := make([]string, len(m.rows))
	for i, row := range m.rows {
		closeIdx := -1
		if i == 0 {
			closeIdx = len(row.labels) - 1
		}
		strips[i] = views.RenderTabs(views.TabRow{
			Labels:   row.labels,
			Selected: row.selected,
			Focused:  i == m.focus,
			Close:    closeIdx,
		}, m.width-4)
	}

	footer := m.help.View(m.keys)
	if m.toast != nil {
		footer = m.toast.render()
	}

	window := views.RenderWindow(title, strips, m.body, footer, m.width, m.height)
	if m.showHelp {
		modal := views.RenderModal("Keys", m.help.FullHelpView(m.keys.FullHelp()))
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal)
	}
	return window
}
