// Package bubbletea provides a Bubble Tea viewer for mdview documents.
package bubbletea

import (
	"context"
	"iter"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fwojciec/mdview"
)

// LoadFunc produces the elements of the document being viewed. It is called
// once at start and again on every reload; the sequence must stop when ctx
// is cancelled.
type LoadFunc func(ctx context.Context) iter.Seq2[mdview.Element, error]

// Run creates and runs the Bubble Tea program. It blocks until the program
// exits. When ctx is cancelled the program quits.
func Run(ctx context.Context, m Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen())
	go func() {
		<-ctx.Done()
		p.Quit()
	}()
	_, err := p.Run()
	if m.scheduler != nil {
		m.scheduler.Stop()
	}
	return err
}

// LoadMsg starts a load of the document. Sent by Init and on reload.
type LoadMsg struct{}

// ElementMsg delivers one parsed element, or a parse error, from the load
// numbered Gen.
type ElementMsg struct {
	Gen     uint64
	Element mdview.Element
	Err     error
}

// LoadDoneMsg signals that the load numbered Gen has finished.
type LoadDoneMsg struct {
	Gen uint64
}

// PostMsg carries work posted through a Scheduler. The model runs Fn on
// the program goroutine.
type PostMsg struct {
	Fn func()
}

var _ mdview.Scheduler = (*Scheduler)(nil)

// Scheduler marshals work from other goroutines onto the program goroutine.
// Pass it to capabilities that update handles asynchronously and to the
// model through Config.
type Scheduler struct {
	ch   chan func()
	done chan struct{}
	once sync.Once
}

// NewScheduler creates a Scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{
		ch:   make(chan func(), 64),
		done: make(chan struct{}),
	}
}

// Post queues fn. Once the scheduler is stopped fn is dropped.
func (s *Scheduler) Post(fn func()) {
	select {
	case s.ch <- fn:
	case <-s.done:
	}
}

// Stop releases goroutines blocked in Post.
func (s *Scheduler) Stop() {
	s.once.Do(func() { close(s.done) })
}

// listenForPost waits for the next posted function.
func listenForPost(s *Scheduler) tea.Cmd {
	return func() tea.Msg {
		select {
		case fn := <-s.ch:
			return PostMsg{Fn: fn}
		case <-s.done:
			return nil
		}
	}
}
