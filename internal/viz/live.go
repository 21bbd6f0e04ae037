package viz

import (
	"fmt"
	"image"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/verletsim/internal/dynamo"
	"github.com/san-kum/verletsim/internal/metrics"
	"github.com/san-kum/verletsim/internal/sim"
)

const (
	defaultCols     = 80
	defaultRows     = 24
	minCols         = 10
	minRows         = 5
	historyCapacity = 300
)

// Snapshot stores the positions of one tick for replay.
type Snapshot struct {
	Pos      []dynamo.Vec2
	Time     float64
	Energy   float64
	Contacts int
}

type TickMsg time.Time

type LiveOptions struct {
	Title   string
	Dt      float64
	FPS     int
	GIFPath string
}

// Model drives a simulator at a fixed frame rate and renders it on a
// braille canvas next to a stats panel.
type Model struct {
	sim            *sim.Simulator
	title          string
	dt             float64
	fps            int
	gravity        float64
	viewW, viewH   int
	canvas         *Canvas
	running        bool
	pool           *sim.SnapshotPool
	history        []Snapshot
	playHead       int
	energyHistory  []float64
	contactHistory []float64
	recording      bool
	frames         []*image.Paletted
	gifPath        string
	showHelp       bool
	err            error
}

func NewModel(s *sim.Simulator, opts LiveOptions) Model {
	if opts.FPS <= 0 {
		opts.FPS = dynamo.DefaultFPS
	}
	if opts.Dt <= 0 {
		opts.Dt = 1.0 / float64(opts.FPS)
	}
	if opts.GIFPath == "" {
		opts.GIFPath = "simulation.gif"
	}
	viewW, viewH := s.Viewport()
	return Model{
		sim:            s,
		title:          opts.Title,
		dt:             opts.Dt,
		fps:            opts.FPS,
		gravity:        s.Gravity(),
		viewW:          viewW,
		viewH:          viewH,
		canvas:         NewCanvas(defaultCols, defaultRows),
		running:        true,
		pool:           sim.NewSnapshotPool(s.Set().Len()),
		history:        make([]Snapshot, 0, historyCapacity),
		playHead:       -1,
		energyHistory:  make([]float64, 0, historyCapacity),
		contactHistory: make([]float64, 0, historyCapacity),
		gifPath:        opts.GIFPath,
	}
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.fps), func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Update handles input events and steps the simulation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.reset()
		case "g":
			m.sim.SetGravity(-m.sim.Gravity())
		case "[":
			m.scrub(-1)
		case "]":
			m.scrub(1)
		case "t":
			NextTheme()
		case "c":
			m.toggleRecording()
		case "?":
			m.showHelp = !m.showHelp
		}
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
	case TickMsg:
		if m.running {
			if m.playHead == -1 {
				m.step()
			} else {
				m.playHead++
				if m.playHead >= len(m.history) {
					m.playHead = -1
				}
			}
		}
		if m.recording {
			m.draw()
			m.frames = append(m.frames, CanvasImage(m.canvas))
		}
		return m, m.tick()
	}
	return m, nil
}

// resize fits the canvas into the terminal beside the stats panel and hands
// the canvas size in dots to the simulator as its viewport.
func (m *Model) resize(termW, termH int) {
	cols := max(termW-statsWidth-6, minCols)
	rows := max(termH-2, minRows)
	m.canvas = NewCanvas(cols, rows)
	m.viewW, m.viewH = m.canvas.Dots()
	m.err = m.sim.Resize(m.viewW, m.viewH)
	m.clearHistory()
}

func (m *Model) step() {
	m.sim.Advance(m.dt)

	set := m.sim.Set()
	energy := 0.0
	if n := set.Len(); n > 0 {
		energy = metrics.TotalEnergy(set, m.sim.Bounds(), m.dt, m.sim.Gravity()) / float64(n)
	}
	m.energyHistory = appendCapped(m.energyHistory, energy)
	m.contactHistory = appendCapped(m.contactHistory, float64(m.sim.Contacts()))

	if len(m.history) == historyCapacity {
		m.pool.Put(m.history[0].Pos)
		m.history = append(m.history[:0], m.history[1:]...)
	}
	m.history = append(m.history, Snapshot{
		Pos:      m.pool.Capture(m.sim.Positions()),
		Time:     m.sim.Time(),
		Energy:   energy,
		Contacts: m.sim.Contacts(),
	})
}

func appendCapped(s []float64, v float64) []float64 {
	if len(s) == historyCapacity {
		s = append(s[:0], s[1:]...)
	}
	return append(s, v)
}

// scrub moves the replay head; stepping past the newest snapshot returns
// to live mode.
func (m *Model) scrub(dir int) {
	if m.playHead == -1 {
		if len(m.history) == 0 {
			return
		}
		m.playHead = len(m.history) - 1
		m.running = false
	}
	m.playHead += dir
	if m.playHead < 0 {
		m.playHead = 0
	}
	if m.playHead >= len(m.history) {
		m.playHead = -1
	}
}

// reset respawns the particles in the current viewport and restores the
// initial gravity.
func (m *Model) reset() {
	m.sim.SetGravity(m.gravity)
	m.err = m.sim.Resize(m.viewW, m.viewH)
	m.clearHistory()
}

func (m *Model) clearHistory() {
	for _, snap := range m.history {
		m.pool.Put(snap.Pos)
	}
	m.history = m.history[:0]
	m.energyHistory = m.energyHistory[:0]
	m.contactHistory = m.contactHistory[:0]
	m.playHead = -1
}

func (m *Model) toggleRecording() {
	if !m.recording {
		m.recording = true
		m.frames = make([]*image.Paletted, 0)
		return
	}
	m.err = SaveGIF(m.gifPath, m.frames, gifDelay(m.fps))
	m.recording = false
	m.frames = nil
}

func (m *Model) positions() []dynamo.Vec2 {
	if m.playHead >= 0 && m.playHead < len(m.history) {
		return m.history[m.playHead].Pos
	}
	return m.sim.Positions()
}

func (m *Model) draw() {
	m.canvas.DrawParticles(m.positions(), m.sim.Set().Radius, m.sim.Bounds())
}

func (m Model) status() string {
	switch {
	case m.err != nil:
		return statusError.Render("ERROR: " + m.err.Error())
	case m.recording:
		return statusRecording.Render("● REC")
	case m.playHead != -1:
		offset := m.history[m.playHead].Time - m.history[len(m.history)-1].Time
		if m.running {
			return statusPaused.Render(fmt.Sprintf("REPLAYING (%.1fs)", offset))
		}
		return statusPaused.Render(fmt.Sprintf("REPLAY PAUSED (%.1fs)", offset))
	case !m.running:
		return statusPaused.Render("PAUSED")
	}
	return statusRunning.Render("RUNNING")
}

// View renders the canvas and the stats panel.
func (m Model) View() string {
	m.draw()
	canvasView := canvasStyle.Render(strings.TrimRight(m.canvas.String(), "\n"))

	var s strings.Builder
	s.WriteString(headerStyle.Render(strings.ToUpper(m.title)) + "\n")
	s.WriteString(m.status() + "\n\n")

	t, energy, contacts := m.sim.Time(), 0.0, m.sim.Contacts()
	if n := len(m.history); n > 0 {
		snap := m.history[n-1]
		if m.playHead != -1 {
			snap = m.history[m.playHead]
		}
		t, energy, contacts = snap.Time, snap.Energy, snap.Contacts
	}

	if len(m.energyHistory) > 1 {
		chart := asciigraph.Plot(m.energyHistory, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("energy / particle"))
		s.WriteString(graphStyle.Render(chart) + "\n\n")
	}

	b := m.sim.Bounds()
	row := func(label, value string) {
		s.WriteString(labelStyle.Render(label) + valueStyle.Render(value) + "\n")
	}
	row("Time", fmt.Sprintf("%.2fs", t))
	row("Tick", fmt.Sprintf("%d", m.sim.Tick()))
	row("Particles", fmt.Sprintf("%d", m.sim.Set().Len()))
	row("Gravity", fmt.Sprintf("%+.2f", m.sim.Gravity()))
	row("Energy", fmt.Sprintf("%.3f", energy))
	row("Contacts", fmt.Sprintf("%d", contacts))
	row("Bounds", fmt.Sprintf("±%.1f x ±%.1f", b.Right, b.Top))
	row("Theme", CurrentTheme.Name)
	s.WriteString("\n" + SparklineChart(m.contactHistory, 30) + "\n")
	if m.playHead != -1 && len(m.history) > 1 {
		s.WriteString(ProgressBar(float64(m.playHead)/float64(len(m.history)-1), 30) + "\n")
	}

	s.WriteString(helpStyle.Render(Separator(30) + "\n" +
		KeyHints("spc", "pause", "r", "reset", "g", "flip g") + "\n" +
		KeyHints("[ ]", "replay", "c", "gif", "?", "help") + "\n" +
		KeyHints("t", "theme", "q", "quit")))

	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsStyle.Render(s.String()))
	if m.showHelp {
		return helpOverlay + "\n" + mainView
	}
	return mainView
}

const helpOverlay = `
╔══════════════════════════════════════╗
║           KEYBOARD SHORTCUTS         ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume simulation  ║
║  R        - Respawn particles        ║
║  G        - Flip gravity             ║
║  [ / ]    - Rewind / forward replay  ║
║  C        - Toggle GIF recording     ║
║  T        - Cycle themes             ║
║  ?        - Toggle this help         ║
║  Q / Esc  - Quit                     ║
╚══════════════════════════════════════╝`

// RunLive runs the model full screen until the user quits.
func RunLive(m Model) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
