package render

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// FrameMsg is delivered once per scheduled frame.
type FrameMsg struct {
	At  time.Time
	gen int
}

// Loop is the start/stop handle of the per-frame schedule. Each Start opens a
// new generation; ticks from an older generation are ignored, so nothing from
// a stopped loop keeps rescheduling itself.
type Loop struct {
	interval time.Duration
	gen      int
	running  bool
}

func NewLoop(interval time.Duration) *Loop {
	if interval <= 0 {
		interval = time.Second / 30
	}
	return &Loop{interval: interval}
}

func (l *Loop) Running() bool { return l.running }

// Start arms the first tick. Starting a running loop does nothing.
func (l *Loop) Start() tea.Cmd {
	if l.running {
		return nil
	}
	l.running = true
	l.gen++
	return l.tick()
}

// Stop cancels the schedule. It reports whether the loop was running, so only
// the first call after a Start does anything.
func (l *Loop) Stop() bool {
	if !l.running {
		return false
	}
	l.running = false
	l.gen++
	return true
}

// Handle accepts a frame message. It returns the command arming the next
// tick and whether the frame belongs to the live schedule and should be drawn.
func (l *Loop) Handle(msg FrameMsg) (tea.Cmd, bool) {
	if !l.running || msg.gen != l.gen {
		return nil, false
	}
	return l.tick(), true
}

func (l *Loop) tick() tea.Cmd {
	gen := l.gen
	return tea.Tick(l.interval, func(t time.Time) tea.Msg {
		return FrameMsg{At: t, gen: gen}
	})
}
