package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/heatgrid/internal/diffusion"
	"gonum.org/v1/gonum/mat"
)

const (
	historyCapacity  = 600
	maxStepsPerFrame = 1 << 14
)

type TickMsg time.Time

// LiveModel steps a diffusion grid on every tick and draws it as a heatmap.
type LiveModel struct {
	name          string
	build         func() (*diffusion.Grid, error)
	grid          *diffusion.Grid
	step          int
	stepsPerFrame int
	fps           int
	running       bool
	massHistory   []float64
	peakHistory   []float64
	theme         Theme
	showHelp      bool
	err           error
}

// NewLiveModel builds the initial grid with build; reset rebuilds it the same
// way.
func NewLiveModel(name string, build func() (*diffusion.Grid, error), stepsPerFrame, fps int) (LiveModel, error) {
	g, err := build()
	if err != nil {
		return LiveModel{}, err
	}
	if stepsPerFrame < 1 {
		stepsPerFrame = 1
	}
	if fps < 1 {
		fps = 30
	}
	m := LiveModel{
		name:          name,
		build:         build,
		grid:          g,
		stepsPerFrame: stepsPerFrame,
		fps:           fps,
		running:       true,
		massHistory:   make([]float64, 0, historyCapacity),
		peakHistory:   make([]float64, 0, historyCapacity),
		theme:         CurrentTheme,
	}
	m.record()
	return m, nil
}

func (m LiveModel) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.fps), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m LiveModel) Init() tea.Cmd {
	return m.tick()
}

// Update handles input events and steps the grid.
func (m LiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "+", "=":
			m.stepsPerFrame = min(m.stepsPerFrame*2, maxStepsPerFrame)
		case "-", "_":
			m.stepsPerFrame = max(m.stepsPerFrame/2, 1)
		case "r":
			m.reset()
		case "t":
			m.theme = NextTheme(m.theme)
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		if m.running {
			m.advance()
		}
		return m, m.tick()
	}
	return m, nil
}

func (m *LiveModel) advance() {
	m.grid.Step(m.stepsPerFrame)
	m.step += m.stepsPerFrame
	m.record()
}

func (m *LiveModel) record() {
	m.massHistory = appendCapped(m.massHistory, mat.Sum(m.grid))
	m.peakHistory = appendCapped(m.peakHistory, mat.Max(m.grid))
}

func appendCapped(xs []float64, v float64) []float64 {
	xs = append(xs, v)
	if len(xs) > historyCapacity {
		xs = xs[1:]
	}
	return xs
}

// reset rebuilds the grid from its configuration.
func (m *LiveModel) reset() {
	g, err := m.build()
	if err != nil {
		m.err = err
		m.running = false
		return
	}
	m.grid = g
	m.err = nil
	m.step = 0
	m.massHistory = m.massHistory[:0]
	m.peakHistory = m.peakHistory[:0]
	m.record()
}

func (m LiveModel) Grid() *diffusion.Grid { return m.grid }
func (m LiveModel) Steps() int            { return m.step }
func (m LiveModel) StepsPerFrame() int    { return m.stepsPerFrame }
func (m LiveModel) Running() bool         { return m.running }

// View renders the heatmap next to the stats panel.
func (m LiveModel) View() string {
	mapView := lipgloss.NewStyle().Padding(1, 2).Render(Heatmap(m.grid, m.theme))

	var s strings.Builder
	s.WriteString(HeaderStyle.Render(strings.ToUpper(m.name)) + "\n")
	switch {
	case m.err != nil:
		s.WriteString(StatusError.Render("ERROR: "+m.err.Error()) + "\n\n")
	case m.running:
		s.WriteString(StatusRunning.Render("RUNNING") + "\n\n")
	default:
		s.WriteString(StatusPaused.Render("PAUSED") + "\n\n")
	}

	rows, cols := m.grid.Dims()
	s.WriteString(Metric("Grid", fmt.Sprintf("%dx%d", rows, cols)) + "\n")
	s.WriteString(Metric("Step", fmt.Sprintf("%d", m.step)) + "\n")
	s.WriteString(Metric("Steps/frame", fmt.Sprintf("%d", m.stepsPerFrame)) + "\n")
	s.WriteString(Metric("Mass", diffusion.FormatValue(mat.Sum(m.grid))) + "\n")
	s.WriteString(Metric("Max", diffusion.FormatValue(mat.Max(m.grid))) + "\n")
	s.WriteString(Metric("Min", diffusion.FormatValue(mat.Min(m.grid))) + "\n")
	s.WriteString(Metric("Theme", m.theme.Name) + "\n\n")
	s.WriteString(Legend(m.grid, m.theme) + "\n\n")

	if len(m.massHistory) > 1 {
		s.WriteString(Profile(m.massHistory, "total mass", 4, 30) + "\n\n")
	}
	s.WriteString(Subtle.Render("peak ") + SparklineChart(m.peakHistory, 30) + "\n")
	s.WriteString(KeyHint.Render("\nSP:Pause +/-:Speed R:Reset\nT:Theme ?:Help Q:Quit"))

	mainView := lipgloss.JoinHorizontal(lipgloss.Top, mapView, panelStyle.Render(s.String()))
	if m.showHelp {
		return `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume stepping    ║
║  + / =    - Double steps per frame   ║
║  - / _    - Halve steps per frame    ║
║  R        - Rebuild initial grid     ║
║  T        - Cycle themes             ║
║  ?        - Toggle this help         ║
║  Q        - Quit                     ║
╚══════════════════════════════════════╝
` + "\n\n" + mainView
	}
	return mainView
}
