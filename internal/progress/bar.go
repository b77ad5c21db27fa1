package progress

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/coder/quartz"
)

var labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true)

type episodeMsg struct {
	done   int
	states int
}

type finishMsg struct{}

type barModel struct {
	total    int
	done     int
	states   int
	bar      progress.Model
	quitting bool
}

func newBarModel(total int) barModel {
	return barModel{
		total: total,
		bar:   progress.New(progress.WithDefaultGradient()),
	}
}

func (m barModel) Init() tea.Cmd {
	return nil
}

func (m barModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case episodeMsg:
		m.done = msg.done
		m.states = msg.states
		return m, nil
	case finishMsg:
		m.quitting = true
		return m, tea.Quit
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.bar.Width = msg.Width - 30
		return m, nil
	}
	return m, nil
}

func (m barModel) View() string {
	if m.quitting {
		return ""
	}
	pct := float64(m.done) / float64(m.total)
	label := labelStyle.Render(fmt.Sprintf("training %d/%d", m.done, m.total))
	return fmt.Sprintf("%s %s %d states\n", label, m.bar.ViewAs(pct), m.states)
}

// BarReporter renders an animated progress bar. Episode updates are sent into
// the running bubbletea program, so it is safe to call from the training loop.
type BarReporter struct {
	out   io.Writer
	clock quartz.Clock
	total int
	prog  *tea.Program
	done  chan struct{}
	start time.Time
}

// NewBarReporter builds a bar reporter writing to out.
func NewBarReporter(out io.Writer, clock quartz.Clock, total int) *BarReporter {
	prog := tea.NewProgram(newBarModel(total),
		tea.WithOutput(out),
		tea.WithoutSignalHandler(),
	)
	return &BarReporter{
		out:   out,
		clock: clock,
		total: total,
		prog:  prog,
		done:  make(chan struct{}),
	}
}

func (r *BarReporter) Start() {
	r.start = r.clock.Now()
	go func() {
		defer close(r.done)
		_, _ = r.prog.Run()
	}()
}

func (r *BarReporter) Episode(done, states int) {
	r.prog.Send(episodeMsg{done: done, states: states})
}

func (r *BarReporter) Finish() {
	r.prog.Send(finishMsg{})
	<-r.done
	duration := r.clock.Now().Sub(r.start)
	perSec := float64(r.total) / duration.Seconds()
	fmt.Fprintf(r.out, "trained %d episodes in %.1fs (%.0f/sec)\n", r.total, duration.Seconds(), perSec)
}
