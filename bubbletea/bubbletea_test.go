package bubbletea_test

import (
	"context"
	"iter"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fwojciec/mdview"
	bt "github.com/fwojciec/mdview/bubbletea"
	"github.com/fwojciec/mdview/goldmark"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// source is a document whose text can be changed between loads.
type source struct {
	mu   sync.Mutex
	text string
}

func (s *source) set(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.text = text
}

func (s *source) load(ctx context.Context) iter.Seq2[mdview.Element, error] {
	s.mu.Lock()
	text := s.text
	s.mu.Unlock()
	return mdview.ParseString(ctx, text, goldmark.New())
}

// initModel creates a model for text and sends a WindowSizeMsg to
// initialize the viewport.
func initModel(t *testing.T, text string) bt.Model {
	t.Helper()
	src := &source{text: text}
	m := bt.New(bt.Config{Load: src.load, Theme: mdview.DefaultTheme()})
	return updateModel(t, m, tea.WindowSizeMsg{Width: 80, Height: 24})
}

// updateModel sends a message and returns the updated Model.
func updateModel(t *testing.T, m bt.Model, msg tea.Msg) bt.Model {
	t.Helper()
	updated, _ := m.Update(msg)
	model, ok := updated.(bt.Model)
	require.True(t, ok)
	return model
}

// feed starts a load and delivers elems followed by the end of the load,
// as the load goroutine would.
func feed(t *testing.T, m bt.Model, elems ...mdview.Element) bt.Model {
	t.Helper()
	m = updateModel(t, m, bt.LoadMsg{})
	gen := bt.Gen(m)
	for _, e := range elems {
		m = updateModel(t, m, bt.ElementMsg{Gen: gen, Element: e})
	}
	return updateModel(t, m, bt.LoadDoneMsg{Gen: gen})
}

func paragraph(s string) *mdview.Paragraph {
	return &mdview.Paragraph{RawText: s, Inlines: []mdview.Element{&mdview.Text{RawText: s, Text: s}}}
}

func TestScheduler(t *testing.T) {
	t.Parallel()

	t.Run("post after stop does not block", func(t *testing.T) {
		t.Parallel()
		s := bt.NewScheduler()
		s.Stop()
		s.Stop()
		for range 100 {
			s.Post(func() {})
		}
	})

	t.Run("posted functions run on update", func(t *testing.T) {
		t.Parallel()
		s := bt.NewScheduler()
		defer s.Stop()
		m := bt.New(bt.Config{Scheduler: s, Theme: mdview.DefaultTheme()})
		m = updateModel(t, m, tea.WindowSizeMsg{Width: 80, Height: 24})

		ran := false
		m = updateModel(t, m, bt.PostMsg{Fn: func() { ran = true }})
		assert.True(t, ran)
	})
}
