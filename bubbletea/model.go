package bubbletea

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/fwojciec/mdview"
	"github.com/fwojciec/mdview/lipgloss"
)

var _ tea.Model = Model{}

// Config configures a Model.
type Config struct {
	Title string
	Load  LoadFunc
	// Renderer must be built on a lipgloss.Provider.
	Renderer *mdview.Renderer
	// Scheduler is the scheduler given to asynchronous capabilities, if any.
	Scheduler *Scheduler
	Activator mdview.LinkActivator
	Theme     mdview.Theme
}

// Model is the Bubble Tea model for the document viewer.
type Model struct {
	// Viewport is the scrollable document area. Exported for test access.
	Viewport viewport.Model

	title     string
	load      LoadFunc
	doc       *mdview.Document
	scheduler *Scheduler
	activator mdview.LinkActivator
	styles    Styles

	// Load state. gen numbers loads so messages from a cancelled load are
	// dropped. The first load appends elements as they arrive; later loads
	// collect them in pending and sync the document when done.
	gen       uint64
	loading   bool
	streaming bool
	pending   []mdview.Element
	cancel    context.CancelFunc
	elemCh    chan ElementMsg

	parseErrs int
	lastSync  *mdview.SyncResult
	linkFocus int // index into the document's links (-1 = none)

	err   error
	ready bool
}

// New creates a viewer Model.
func New(cfg Config) Model {
	r := cfg.Renderer
	if r == nil {
		r = mdview.NewRenderer(lipgloss.New(cfg.Theme))
	}
	return Model{
		title:     cfg.Title,
		load:      cfg.Load,
		doc:       mdview.NewDocument(r),
		scheduler: cfg.Scheduler,
		activator: cfg.Activator,
		styles:    NewStyles(cfg.Theme),
		linkFocus: -1,
	}
}

// Loading returns whether a load is in progress.
func (m Model) Loading() bool { return m.loading }

// Err returns the last load error, if any.
func (m Model) Err() error { return m.err }

// Document returns the rendered document.
func (m Model) Document() *mdview.Document { return m.doc }

// FocusedLink returns the link that has focus.
func (m Model) FocusedLink() (*mdview.Link, bool) {
	links := mdview.Links(m.doc.Elements())
	if m.linkFocus < 0 || m.linkFocus >= len(links) {
		return nil, false
	}
	return links[m.linkFocus], true
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{func() tea.Msg { return LoadMsg{} }}
	if m.scheduler != nil {
		cmds = append(cmds, listenForPost(m.scheduler))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m = m.handleWindowSize(msg)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case LoadMsg:
		return m.startLoad()

	case ElementMsg:
		if msg.Gen != m.gen {
			return m, nil
		}
		m = m.processElement(msg)
		return m, listenForElement(m.elemCh, m.gen)

	case LoadDoneMsg:
		if msg.Gen != m.gen {
			return m, nil
		}
		m = m.finishLoad()
		return m, nil

	case PostMsg:
		if msg.Fn != nil {
			msg.Fn()
		}
		m.refresh()
		if m.scheduler != nil {
			return m, listenForPost(m.scheduler)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.Viewport, cmd = m.Viewport.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	var b strings.Builder
	b.WriteString(m.header())
	b.WriteString("\n")
	b.WriteString(m.Viewport.View())
	b.WriteString("\n")
	b.WriteString(m.statusLine())
	return b.String()
}

func (m Model) handleWindowSize(msg tea.WindowSizeMsg) Model {
	headerHeight := 1
	statusHeight := 1
	borderHeight := 2 // newlines between sections
	vpHeight := max(msg.Height-headerHeight-statusHeight-borderHeight, 1)

	if !m.ready {
		m.Viewport = viewport.New(msg.Width, vpHeight)
		m.ready = true
	} else {
		m.Viewport.Width = msg.Width
		m.Viewport.Height = vpHeight
	}
	m.refresh()
	return m
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		m.stopLoad()
		return m, tea.Quit

	case tea.KeyTab:
		m = m.cycleLinkFocus(1)
		return m, nil

	case tea.KeyShiftTab:
		m = m.cycleLinkFocus(-1)
		return m, nil

	case tea.KeyEnter:
		link, ok := m.FocusedLink()
		if !ok || m.activator == nil {
			return m, nil
		}
		activator := m.activator
		return m, func() tea.Msg {
			activator.Open(link.URL)
			return nil
		}

	case tea.KeyRunes:
		switch string(msg.Runes) {
		case "q":
			m.stopLoad()
			return m, tea.Quit
		case "r":
			return m.startLoad()
		}
	}

	var cmd tea.Cmd
	m.Viewport, cmd = m.Viewport.Update(msg)
	return m, cmd
}

// startLoad cancels any load in progress and starts a new one.
func (m Model) startLoad() (tea.Model, tea.Cmd) {
	if m.load == nil {
		return m, nil
	}
	m.stopLoad()
	ctx, cancel := context.WithCancel(context.Background())
	m.gen++
	m.cancel = cancel
	m.elemCh = make(chan ElementMsg, 64)
	m.loading = true
	m.streaming = m.doc.Len() == 0
	m.pending = nil
	m.parseErrs = 0
	m.lastSync = nil
	m.err = nil
	return m, tea.Batch(
		startLoad(ctx, m.load, m.gen, m.elemCh),
		listenForElement(m.elemCh, m.gen),
	)
}

func (m *Model) stopLoad() {
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
}

func (m Model) processElement(msg ElementMsg) Model {
	if msg.Err != nil {
		var perr *mdview.ParseMappingError
		if errors.As(msg.Err, &perr) {
			m.parseErrs++
		} else {
			m.err = msg.Err
		}
		m.refresh()
		return m
	}
	if msg.Element == nil {
		return m
	}
	if m.streaming {
		m.doc.Append(msg.Element)
		m.refresh()
		return m
	}
	m.pending = append(m.pending, msg.Element)
	return m
}

func (m Model) finishLoad() Model {
	m.loading = false
	m.stopLoad()
	m.elemCh = nil
	if !m.streaming && m.err == nil {
		res := m.doc.Sync(m.pending)
		m.lastSync = &res
	}
	m.pending = nil
	if n := len(mdview.Links(m.doc.Elements())); m.linkFocus >= n {
		m.linkFocus = -1
	}
	m.refresh()
	return m
}

// cycleLinkFocus moves link focus by step, wrapping around. Focus leaves the
// links after the last one and before the first.
func (m Model) cycleLinkFocus(step int) Model {
	n := len(mdview.Links(m.doc.Elements()))
	if n == 0 {
		m.linkFocus = -1
		return m
	}
	next := m.linkFocus + step
	switch {
	case m.linkFocus < 0 && step < 0:
		next = n - 1
	case next < 0 || next >= n:
		next = -1
	}
	m.linkFocus = next
	return m
}

// refresh re-renders the document into the viewport.
func (m *Model) refresh() {
	if !m.ready {
		return
	}
	m.Viewport.SetContent(m.renderContent())
}

func (m Model) renderContent() string {
	out := lipgloss.Join(m.doc.Handles(), m.Viewport.Width)
	if m.err != nil {
		if out != "" {
			out += "\n\n"
		}
		out += NewErrorBlock(m.err, m.styles).View(m.Viewport.Width)
	}
	return out
}

func (m Model) header() string {
	title := m.title
	if title == "" {
		title = "mdview"
	}
	return m.styles.Title.Render(title)
}

func (m Model) statusLine() string {
	if link, ok := m.FocusedLink(); ok {
		text := link.Text
		if text == "" {
			text = link.URL
		}
		return m.styles.Accent.Render("→ ") + m.styles.Link.Render(text) + " " +
			m.styles.Muted.Render("("+link.URL+") Enter to open")
	}
	var parts []string
	switch {
	case m.err != nil:
		return m.styles.Error.Render(fmt.Sprintf("Error: %v", m.err))
	case m.loading:
		parts = append(parts, "Loading...")
	case m.lastSync != nil:
		s := m.lastSync
		parts = append(parts, fmt.Sprintf("Reloaded: %d kept, %d updated, %d replaced, %d added, %d removed",
			s.Kept, s.Updated, s.Replaced, s.Added, s.Removed))
	}
	if m.parseErrs > 0 {
		parts = append(parts, fmt.Sprintf("%d blocks failed to parse", m.parseErrs))
	}
	parts = append(parts, "Tab links, r reload, q quit")
	return m.styles.Muted.Render(strings.Join(parts, " · "))
}

// startLoad runs load in a goroutine, forwarding each item to ch. The channel
// is closed when the sequence ends.
func startLoad(ctx context.Context, load LoadFunc, gen uint64, ch chan<- ElementMsg) tea.Cmd {
	return func() tea.Msg {
		defer close(ch)
		for e, err := range load(ctx) {
			select {
			case ch <- ElementMsg{Gen: gen, Element: e, Err: err}:
			case <-ctx.Done():
				return nil
			}
		}
		return nil
	}
}

// listenForElement waits for the next element from the channel.
// When the channel closes, it returns LoadDoneMsg.
func listenForElement(ch <-chan ElementMsg, gen uint64) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-ch
		if !ok {
			return LoadDoneMsg{Gen: gen}
		}
		return msg
	}
}
