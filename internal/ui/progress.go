package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"sil/internal/driver"
)

const (
	statusQueued = "queued"
	statusDone   = "done"
	statusError  = "error"

	statusWidth = 12
	minName     = 20
)

// stageInfo is how a working stage is shown and how far along it counts.
type stageInfo struct {
	label  string
	weight float64
}

var stages = map[driver.Stage]stageInfo{
	driver.StageBuild:    {label: "building", weight: 0.2},
	driver.StageCheck:    {label: "checking", weight: 0.5},
	driver.StageSnapshot: {label: "caching", weight: 0.8},
}

type palette struct {
	title   lipgloss.Style
	done    lipgloss.Style
	failed  lipgloss.Style
	working lipgloss.Style
	idle    lipgloss.Style
}

func newPalette() palette {
	fg := func(c string) lipgloss.Style { return lipgloss.NewStyle().Foreground(lipgloss.Color(c)) }
	return palette{
		title:   fg("7").Bold(true),
		done:    fg("2"),
		failed:  fg("1"),
		working: fg("6"),
		idle:    fg("7"),
	}
}

func (p palette) status(s string) lipgloss.Style {
	switch s {
	case statusDone:
		return p.done
	case statusError:
		return p.failed
	case statusQueued, "":
		return p.idle
	default:
		return p.working
	}
}

type funcItem struct {
	name    string
	status  string
	stage   driver.Stage
	elapsed time.Duration
}

func (it *funcItem) finished() bool {
	return it.status == statusDone || it.status == statusError
}

func (it *funcItem) progress() float64 {
	if it.finished() {
		return 1
	}
	return stages[it.stage].weight
}

type progressModel struct {
	title      string
	events     <-chan driver.Event
	spinner    spinner.Model
	bar        progress.Model
	styles     palette
	items      []funcItem
	index      map[string]int
	stageLabel string
	width      int
	done       bool
}

type eventMsg driver.Event
type doneMsg struct{}

// NewProgressModel returns a Bubble Tea model that renders per-function check
// progress. It quits once events is closed.
func NewProgressModel(title string, funcs []string, events <-chan driver.Event) tea.Model {
	m := &progressModel{
		title:   title,
		events:  events,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
		bar:     progress.New(progress.WithDefaultGradient()),
		styles:  newPalette(),
		items:   make([]funcItem, len(funcs)),
		index:   make(map[string]int, len(funcs)),
	}
	m.spinner.Style = m.styles.working
	for i, name := range funcs {
		m.items[i] = funcItem{name: name, status: statusQueued}
		m.index[name] = i
	}
	m.resize(80)
	return m
}

func (m *progressModel) resize(width int) {
	m.width = width
	m.bar.Width = width - 4
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.listen())
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		return m, tea.Batch(m.apply(driver.Event(msg)), m.listen())
	case doneMsg:
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.resize(msg.Width)
		}
		return m, nil
	case progress.FrameMsg:
		bar, cmd := m.bar.Update(msg)
		m.bar = bar.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m *progressModel) listen() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return doneMsg{}
		}
		return eventMsg(ev)
	}
}

// apply folds one driver event into the model. Module-wide events only move
// the header; events for unknown functions are dropped.
func (m *progressModel) apply(ev driver.Event) tea.Cmd {
	label := statusLabel(ev.Stage, ev.Status)
	if ev.Func == "" {
		if label != "" {
			m.stageLabel = label
		}
		return nil
	}
	idx, ok := m.index[ev.Func]
	if !ok {
		return nil
	}
	it := &m.items[idx]
	if label != "" {
		it.status, it.stage = label, ev.Stage
	}
	if it.finished() {
		it.elapsed = ev.Elapsed
	}
	return m.bar.SetPercent(m.percent())
}

func (m *progressModel) percent() float64 {
	if len(m.items) == 0 {
		return 0
	}
	var sum float64
	for i := range m.items {
		sum += m.items[i].progress()
	}
	return sum / float64(len(m.items))
}

func (m *progressModel) View() string {
	if len(m.items) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(m.styles.title.Render(m.header()))
	b.WriteString("\n\n")
	nameWidth := max(m.width-statusWidth-4, minName)
	for i := range m.items {
		b.WriteString(m.row(&m.items[i], nameWidth))
		b.WriteByte('\n')
	}
	b.WriteByte('\n')
	if m.done {
		b.WriteString(m.bar.ViewAs(1))
	} else {
		b.WriteString(m.bar.View())
	}
	b.WriteByte('\n')
	b.WriteString(m.summary())
	b.WriteByte('\n')
	return b.String()
}

func (m *progressModel) header() string {
	h := m.title
	if m.stageLabel != "" {
		h = fmt.Sprintf("%s (%s)", h, m.stageLabel)
	}
	if m.done {
		return "done: " + h
	}
	return m.spinner.View() + " " + h
}

func (m *progressModel) row(it *funcItem, nameWidth int) string {
	status := m.styles.status(it.status).Render(fmt.Sprintf("%*s", statusWidth, it.status))
	line := fmt.Sprintf("  %s %s", status, truncate(it.name, nameWidth))
	if it.elapsed > 0 {
		line += "  " + it.elapsed.Round(time.Microsecond).String()
	}
	return line
}

// summary counts finished and failed functions.
func (m *progressModel) summary() string {
	finished, failed := 0, 0
	for i := range m.items {
		if m.items[i].finished() {
			finished++
		}
		if m.items[i].status == statusError {
			failed++
		}
	}
	s := fmt.Sprintf("%d/%d functions", finished, len(m.items))
	if failed > 0 {
		s += ", " + m.styles.failed.Render(fmt.Sprintf("%d failed", failed))
	}
	return s
}

func statusLabel(stage driver.Stage, status driver.Status) string {
	switch status {
	case driver.StatusQueued:
		return statusQueued
	case driver.StatusDone:
		return statusDone
	case driver.StatusError:
		return statusError
	case driver.StatusWorking:
		return stages[stage].label
	default:
		return ""
	}
}

func truncate(value string, width int) string {
	if width <= 0 || runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width-3, "...")
}
