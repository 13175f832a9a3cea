// Package focus implements a focus/break countdown. It holds no goroutines;
// callers advance it with Tick.
package focus

import (
	"fmt"
	"time"
)

type Mode int

const (
	ModeFocus Mode = iota
	ModeBreak
)

func (m Mode) String() string {
	if m == ModeBreak {
		return "break"
	}
	return "focus"
}

// Event is a message worth showing the user, such as the end of a session.
type Event struct {
	Title  string
	Detail string
}

type Timer struct {
	focus, brk time.Duration

	mode      Mode
	running   bool
	remaining time.Duration
	cycles    int
}

func New(focus, brk time.Duration) *Timer {
	if focus <= 0 {
		focus = 25 * time.Minute
	}
	if brk <= 0 {
		brk = 5 * time.Minute
	}
	return &Timer{focus: focus, brk: brk, remaining: focus}
}

func (t *Timer) length() time.Duration {
	if t.mode == ModeBreak {
		return t.brk
	}
	return t.focus
}

// Start resumes the countdown. Starting a fresh session yields an event.
func (t *Timer) Start() (Event, bool) {
	if t.running {
		return Event{}, false
	}
	t.running = true
	if t.remaining != t.length() {
		return Event{}, false
	}
	detail := "Focus session started"
	if t.mode == ModeBreak {
		detail = "Break time started"
	}
	return Event{"Timer started", detail}, true
}

func (t *Timer) Pause() {
	t.running = false
}

// Toggle starts a paused timer and pauses a running one.
func (t *Timer) Toggle() (Event, bool) {
	if t.running {
		t.Pause()
		return Event{}, false
	}
	return t.Start()
}

// Reset stops the timer and refills the current mode.
func (t *Timer) Reset() {
	t.running = false
	t.remaining = t.length()
}

// Tick advances a running timer by d. When the countdown reaches zero the
// timer stops and switches mode; finishing a focus session counts a cycle.
func (t *Timer) Tick(d time.Duration) (Event, bool) {
	if !t.running || d <= 0 {
		return Event{}, false
	}
	t.remaining -= d
	if t.remaining > 0 {
		return Event{}, false
	}
	t.running = false
	if t.mode == ModeFocus {
		t.cycles++
		t.mode = ModeBreak
		t.remaining = t.brk
		return Event{"Focus session completed", "Take a short break."}, true
	}
	t.mode = ModeFocus
	t.remaining = t.focus
	return Event{"Break ended", "Time to focus again!"}, true
}

func (t *Timer) Mode() Mode { return t.mode }
func (t *Timer) Running() bool { return t.running }
func (t *Timer) Remaining() time.Duration { return t.remaining }
func (t *Timer) Cycles() int { return t.cycles }

// Progress is the elapsed share of the current session, from 0 to 1.
func (t *Timer) Progress() float64 {
	l := t.length()
	return float64(l-t.remaining) / float64(l)
}

// String formats the remaining time as MM:SS, rounding partial seconds up.
func (t *Timer) String() string {
	secs := int((t.remaining + time.Second - 1) / time.Second)
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}
