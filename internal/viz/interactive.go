package viz

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/verletsim/internal/config"
	"github.com/san-kum/verletsim/internal/experiment"
)

var presetInfo = map[string]string{
	"reference": "2000 bodies, 800x600",
	"sparse":    "few bodies, long flights",
	"column":    "central strip collapse",
	"lattice":   "packed grid release",
	"heavy":     "ten times gravity",
	"faithful":  "unguarded pair pass, NaN after a few ticks",
}

const (
	stateMenu = iota
	stateConfig
	stateSim
)

var paramNames = []string{"particles", "radius", "gravity", "epsilon", "fps", "seed"}

// App lets the user pick a preset, tune it and watch it in the live view.
type App struct {
	state, cursor int
	presets       []string
	selected      string
	cfg           *config.Config
	paramCursor   int
	editing       bool
	editBuf       string
	width, height int
	registry      *experiment.Registry
	logger        *slog.Logger
	live          Model
	err           error
}

func NewApp(registry *experiment.Registry, logger *slog.Logger) App {
	return App{
		state:    stateMenu,
		presets:  config.ListPresets(),
		registry: registry,
		logger:   logger,
		width:    defaultCols + statsWidth + 6,
		height:   defaultRows + 2,
	}
}

func (a App) Init() tea.Cmd { return nil }

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return a.handleKey(msg)
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
	}
	if a.state == stateSim {
		next, cmd := a.live.Update(msg)
		a.live = next.(Model)
		return a, cmd
	}
	return a, nil
}

func (a App) handleKey(msg tea.KeyMsg) (App, tea.Cmd) {
	switch a.state {
	case stateMenu:
		return a.menuKey(msg)
	case stateConfig:
		return a.configKey(msg)
	case stateSim:
		next, cmd := a.live.Update(msg)
		a.live = next.(Model)
		return a, cmd
	}
	return a, nil
}

func (a App) menuKey(msg tea.KeyMsg) (App, tea.Cmd) {
	switch msg.String() {
	case "q", "esc", "ctrl+c":
		return a, tea.Quit
	case "up", "k":
		if a.cursor > 0 {
			a.cursor--
		}
	case "down", "j":
		if a.cursor < len(a.presets)-1 {
			a.cursor++
		}
	case "enter", " ":
		a.selected = a.presets[a.cursor]
		a.cfg = config.GetPreset(a.selected)
		a.state, a.paramCursor, a.err = stateConfig, 0, nil
	}
	return a, nil
}

func (a App) configKey(msg tea.KeyMsg) (App, tea.Cmd) {
	if a.editing {
		switch msg.String() {
		case "enter":
			if v, err := strconv.ParseFloat(a.editBuf, 64); err == nil {
				a.setParam(paramNames[a.paramCursor], v)
			}
			a.editing, a.editBuf = false, ""
		case "esc":
			a.editing, a.editBuf = false, ""
		case "backspace":
			if len(a.editBuf) > 0 {
				a.editBuf = a.editBuf[:len(a.editBuf)-1]
			}
		default:
			if s := msg.String(); len(s) == 1 && strings.ContainsAny(s, "0123456789.-e") {
				a.editBuf += s
			}
		}
		return a, nil
	}

	name := paramNames[a.paramCursor]
	switch msg.String() {
	case "q", "esc":
		a.state = stateMenu
	case "up", "k":
		if a.paramCursor > 0 {
			a.paramCursor--
		}
	case "down", "j":
		if a.paramCursor < len(paramNames)-1 {
			a.paramCursor++
		}
	case "enter", " ":
		a.editing, a.editBuf = true, formatParam(a.param(name))
	case "left", "h":
		a.setParam(name, a.param(name)-paramStep(name))
	case "right", "l":
		a.setParam(name, a.param(name)+paramStep(name))
	case "s":
		return a.start()
	}
	return a, nil
}

func paramStep(name string) float64 {
	switch name {
	case "particles":
		return 100
	case "fps", "seed":
		return 1
	case "epsilon":
		return 1e-9
	}
	return 0.1
}

func formatParam(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func (a *App) param(name string) float64 {
	v, _ := a.cfg.Param(name)
	return v
}

func (a *App) setParam(name string, v float64) {
	a.err = a.cfg.SetParam(name, v)
}

// start builds the experiment for the tuned preset and hands the current
// terminal size to the live view.
func (a App) start() (App, tea.Cmd) {
	exp := experiment.New(a.cfg)
	if err := exp.Setup(a.registry, a.logger); err != nil {
		a.err = err
		return a, nil
	}
	a.live = NewModel(exp.GetSimulator(), LiveOptions{Title: a.selected, Dt: a.cfg.Dt(), FPS: a.cfg.FPS})
	next, _ := a.live.Update(tea.WindowSizeMsg{Width: a.width, Height: a.height})
	a.live = next.(Model)
	a.state = stateSim
	return a, a.live.Init()
}

func (a App) View() string {
	switch a.state {
	case stateMenu:
		return a.viewMenu()
	case stateConfig:
		return a.viewConfig()
	case stateSim:
		return a.live.View()
	}
	return ""
}

func (a App) viewMenu() string {
	var b strings.Builder
	b.WriteString("\n\n    " + GradientText("VERLETSIM", CurrentTheme.Title, CurrentTheme.Accent) + "\n")
	b.WriteString("    " + subtleStyle.Render("particle collision sandbox") + "\n")
	b.WriteString("    " + Separator(25) + "\n\n")
	for i, name := range a.presets {
		line := fmt.Sprintf("%-12s", name)
		if i == a.cursor {
			b.WriteString("    " + selectedStyle.Render("▸ "+line) + " " + valueStyle.Render(presetInfo[name]) + "\n")
		} else {
			b.WriteString("      " + subtleStyle.Render(line+" "+presetInfo[name]) + "\n")
		}
	}
	b.WriteString("\n    " + KeyHints("j/k", "navigate", "enter", "select", "q", "quit") + "\n")
	return b.String()
}

func (a App) viewConfig() string {
	var b strings.Builder
	b.WriteString("\n\n    " + headerStyle.Render(strings.ToUpper(a.selected)) + "\n")
	b.WriteString("    " + subtleStyle.Render(presetInfo[a.selected]) + "\n\n")
	for i, name := range paramNames {
		val := formatParam(a.param(name))
		if a.editing && i == a.paramCursor {
			val = a.editBuf + "_"
		}
		line := fmt.Sprintf("%-10s %12s", name, val)
		if i == a.paramCursor {
			b.WriteString("    " + selectedStyle.Render("▸ "+line) + "\n")
		} else {
			b.WriteString("      " + subtleStyle.Render(line) + "\n")
		}
	}
	if a.err != nil {
		b.WriteString("\n    " + statusError.Render(a.err.Error()) + "\n")
	}
	b.WriteString("\n    " + KeyHints("j/k", "select", "h/l", "adjust", "enter", "edit", "s", "start", "esc", "back") + "\n")
	return b.String()
}

func RunInteractive(registry *experiment.Registry, logger *slog.Logger) error {
	_, err := tea.NewProgram(NewApp(registry, logger), tea.WithAltScreen()).Run()
	return err
}
