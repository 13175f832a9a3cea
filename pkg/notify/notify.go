// Package notify provides sinks for the events the task store reports after
// each mutation.
package notify

import (
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"
)

type Notifier interface {
	Notify(title, detail string)
}

// Func adapts an ordinary function to a Notifier.
type Func func(title, detail string)

func (f Func) Notify(title, detail string) { f(title, detail) }

// Discard drops every event.
var Discard Notifier = Func(func(string, string) {})

// Log writes events to a structured logger at info level.
type Log struct {
	Logger *slog.Logger
}

func (l Log) Notify(title, detail string) {
	logger := l.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info(title, "detail", detail)
}

// Writer prints one "title: detail" line per event.
type Writer struct {
	mu sync.Mutex
	w  io.Writer
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

func (w *Writer) Notify(title, detail string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	fmt.Fprintf(w.w, "%s: %s\n", title, detail)
}

type Event struct {
	Title  string
	Detail string
	At     time.Time
}

// Recorder keeps every event it receives. It is safe for concurrent use.
type Recorder struct {
	mu     sync.Mutex
	events []Event
	now    func() time.Time
}

func NewRecorder() *Recorder {
	return &Recorder{now: time.Now}
}

func (r *Recorder) Notify(title, detail string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, Event{Title: title, Detail: detail, At: r.now()})
}

func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event{}, r.events...)
}

func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

func (r *Recorder) Last() (Event, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.events) == 0 {
		return Event{}, false
	}
	return r.events[len(r.events)-1], true
}

// Multi fans every event out to all notifiers, in order.
func Multi(ns ...Notifier) Notifier {
	return Func(func(title, detail string) {
		for _, n := range ns {
			if n != nil {
				n.Notify(title, detail)
			}
		}
	})
}
