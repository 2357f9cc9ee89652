// Package app is the console's root Bubble Tea model. It owns the
// cobrowse context: it attaches to the embedding surface, feeds the
// context's events to the reconciler one at a time, forwards key presses
// through the dispatcher and re-evaluates time-dependent state on a tick.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/custom-agent-demo/agentui/internal/reconcile"
	"github.com/custom-agent-demo/agentui/internal/session"
	"github.com/custom-agent-demo/agentui/internal/views/controls"
	"github.com/custom-agent-demo/agentui/internal/views/debug"
	"github.com/custom-agent-demo/agentui/internal/views/messages"
	"github.com/custom-agent-demo/agentui/internal/views/screen"
	"github.com/custom-agent-demo/agentui/internal/views/status"
	"go.uber.org/zap"
)

// AttachFailedID is the error id shown when the context cannot be attached.
const AttachFailedID = "attach_failed"

const (
	defaultRefresh       = 500 * time.Millisecond
	defaultAttachTimeout = 15 * time.Second
)

// Handle is a live cobrowse context as the console sees it.
type Handle interface {
	reconcile.Commander
	Events() <-chan session.Event
	Destroy() error
}

// AttachFunc binds a new Handle to the embedding surface.
type AttachFunc func(ctx context.Context, surface string) (Handle, error)

// LookupFunc fetches the service's record of a session.
type LookupFunc func(ctx context.Context, id string) (*session.Session, error)

// Options configures the console.
type Options struct {
	Surface         string
	DemoID          string
	Attach          AttachFunc
	Lookup          LookupFunc // optional
	RefreshInterval time.Duration
	StaleAfter      time.Duration
	AttachTimeout   time.Duration
	EndedMessage    string
	MarkdownStyle   string
	Logger          *zap.Logger
}

// Overlay identifies which modal is active.
type Overlay int

const (
	OverlayNone Overlay = iota
	OverlayDebug
)

type (
	attachedMsg     struct{ handle Handle }
	attachFailedMsg struct{ err error }
	eventMsg        struct {
		handle Handle
		event  session.Event
	}
	detachedMsg  struct{ handle Handle }
	destroyedMsg struct{ err error }
	lookupMsg    struct {
		id      string
		session *session.Session
		err     error
	}
	tickMsg time.Time
)

// Model is the root Bubble Tea model.
type Model struct {
	opts   Options
	ctx    context.Context
	cancel context.CancelFunc
	logger *zap.Logger

	keys   KeyMap
	help   help.Model
	width  int
	height int

	// Attachment.
	handle    Handle
	attaching bool
	quitting  bool

	// Latest snapshots, replaced wholesale.
	session *session.Session
	screen  *session.ScreenInfo
	err     *session.Error
	now     time.Time

	dispatcher reconcile.Dispatcher
	overlay    Overlay
	lookedUp   string // last session id fetched over REST

	// Sub-views.
	statusBar status.Model
	messages  messages.Model
	controls  controls.Model
	debug     debug.Model
	renderer  screen.Renderer
}

// New creates the root model. Attachment starts in Init when a surface
// and an AttachFunc are both set.
func New(opts Options) Model {
	if opts.RefreshInterval <= 0 {
		opts.RefreshInterval = defaultRefresh
	}
	if opts.StaleAfter <= 0 {
		opts.StaleAfter = reconcile.DefaultStaleAfter
	}
	if opts.AttachTimeout <= 0 {
		opts.AttachTimeout = defaultAttachTimeout
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	ctx, cancel := context.WithCancel(context.Background())
	m := Model{
		opts:       opts,
		ctx:        ctx,
		cancel:     cancel,
		logger:     logger,
		keys:       DefaultKeyMap(),
		help:       help.New(),
		now:        time.Now(),
		dispatcher: reconcile.NewDispatcher(),
		statusBar:  status.New(opts.DemoID),
		messages:   messages.New(),
		controls:   controls.New(),
		debug:      debug.New(),
		renderer:   screen.New(80, opts.MarkdownStyle),
	}
	m.messages.Renderer = m.renderer
	m.statusBar.Tool = m.dispatcher.Tool()
	m.controls.Tool = m.dispatcher.Tool()

	if opts.Surface != "" && opts.Attach != nil {
		m.attaching = true
		m.statusBar.Link = status.LinkAttaching
	}
	return m
}

// Init starts attachment and the refresh ticker.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.tick()}
	if m.attaching {
		cmds = append(cmds, m.attach())
	}
	return tea.Batch(cmds...)
}

func (m Model) attach() tea.Cmd {
	ctx, fn := m.ctx, m.opts.Attach
	surface, timeout := m.opts.Surface, m.opts.AttachTimeout
	return func() tea.Msg {
		actx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		h, err := fn(actx, surface)
		if err != nil {
			return attachFailedMsg{err: err}
		}
		return attachedMsg{handle: h}
	}
}

// waitForEvent delivers the next event of h, or detachedMsg once its
// channel is closed.
func waitForEvent(h Handle) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-h.Events()
		if !ok {
			return detachedMsg{handle: h}
		}
		return eventMsg{handle: h, event: ev}
	}
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.opts.RefreshInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.statusBar.Width = msg.Width
		m.messages.Width = msg.Width
		m.help.Width = msg.Width
		m.controls.Width = msg.Width
		m.renderer = screen.New(msg.Width-4, m.opts.MarkdownStyle)
		m.messages.Renderer = m.renderer
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tickMsg:
		if m.quitting {
			return m, nil
		}
		m.now = time.Time(msg)
		return m, m.tick()

	case attachedMsg:
		m.attaching = false
		if m.quitting {
			m.destroy(msg.handle)
			return m, nil
		}
		m.handle = msg.handle
		m.statusBar.Link = status.LinkAttached
		m.debug.Add(debug.KindConn, "context attached")
		m.logger.Info("context attached", zap.String("surface", m.opts.Surface))
		return m, waitForEvent(m.handle)

	case attachFailedMsg:
		m.attaching = false
		m.statusBar.Link = status.LinkDetached
		m.err = &session.Error{ID: AttachFailedID, Message: msg.err.Error()}
		m.debug.Add(debug.KindError, "attach failed: "+msg.err.Error())
		m.logger.Error("attach failed", zap.Error(msg.err))
		return m, nil

	case eventMsg:
		if msg.handle != m.handle {
			return m, nil
		}
		return m.handleEvent(msg.event)

	case detachedMsg:
		if msg.handle != m.handle {
			return m, nil
		}
		m.debug.Add(debug.KindConn, "connection closed by remote")
		m.logger.Warn("cobrowse connection closed")
		return m, m.release()

	case destroyedMsg:
		if msg.err != nil {
			m.logger.Warn("destroy context", zap.Error(msg.err))
		}
		m.debug.Add(debug.KindConn, "context destroyed")
		return m, nil

	case lookupMsg:
		if msg.err != nil {
			m.debug.Add(debug.KindError, "lookup "+msg.id+": "+msg.err.Error())
			m.logger.Warn("session lookup failed", zap.String("session", msg.id), zap.Error(msg.err))
			return m, nil
		}
		m.debug.Add(debug.KindEvent, fmt.Sprintf("lookup %s state=%s full_device=%s",
			msg.session.ID, msg.session.State, msg.session.FullDevice))
		return m, nil
	}

	return m, nil
}

func (m Model) handleEvent(ev session.Event) (tea.Model, tea.Cmd) {
	if ev.Seq > 0 {
		m.statusBar.Seq = ev.Seq
	}

	switch ev.Type {
	case session.EventSessionUpdated:
		m.session = ev.Session
		m.statusBar.Session = ev.Session
		m.debug.Add(debug.KindEvent, fmt.Sprintf("session.updated %s state=%s full_device=%s",
			ev.Session.ID, ev.Session.State, ev.Session.FullDevice))
		if ev.Session.IsEnded() {
			m.logger.Info("session ended", zap.String("session", ev.Session.ID))
			return m, m.release()
		}
		if ev.Session.ID != m.lookedUp && m.opts.Lookup != nil {
			m.lookedUp = ev.Session.ID
			return m, tea.Batch(waitForEvent(m.handle), m.lookup(ev.Session.ID))
		}

	case session.EventScreenUpdated:
		m.screen = ev.Screen
		m.debug.Add(debug.KindEvent, fmt.Sprintf("screen.updated %dx%d", ev.Screen.Width, ev.Screen.Height))

	case session.EventError:
		m.err = ev.Err
		m.debug.Add(debug.KindError, "error "+ev.Err.Error())
		m.logger.Warn("remote error", zap.String("id", ev.Err.ID), zap.String("message", ev.Err.Message))
	}

	return m, waitForEvent(m.handle)
}

// release drops the live handle and destroys it off the UI goroutine.
func (m *Model) release() tea.Cmd {
	h := m.handle
	m.handle = nil
	m.statusBar.Link = status.LinkDetached
	if h == nil {
		return nil
	}
	return func() tea.Msg {
		return destroyedMsg{err: h.Destroy()}
	}
}

// destroy is release for paths where the program is about to exit and
// no further messages are processed.
func (m *Model) destroy(h Handle) {
	if h == nil {
		return
	}
	if err := h.Destroy(); err != nil {
		m.logger.Warn("destroy context", zap.Error(err))
	}
	m.debug.Add(debug.KindConn, "context destroyed")
}

func (m Model) lookup(id string) tea.Cmd {
	ctx, fn := m.ctx, m.opts.Lookup
	timeout := m.opts.AttachTimeout
	return func() tea.Msg {
		lctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		s, err := fn(lctx, id)
		return lookupMsg{id: id, session: s, err: err}
	}
}

// commander returns the live handle, or nil without one.
func (m Model) commander() reconcile.Commander {
	if m.handle == nil {
		return nil
	}
	return m.handle
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m.quit()
	}

	if m.overlay != OverlayNone {
		switch {
		case key.Matches(msg, m.keys.Escape), key.Matches(msg, m.keys.Debug):
			m.overlay = OverlayNone
		case key.Matches(msg, m.keys.Up):
			m.debug.ScrollUp(1)
		case key.Matches(msg, m.keys.Down):
			m.debug.ScrollDown(1)
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Debug):
		m.overlay = OverlayDebug
		return m, nil

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	// The control cluster only exists while the session is active.
	if !m.reconciled().Controls {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Laser):
		m.selectTool(session.ToolLaser)
	case key.Matches(msg, m.keys.Drawing):
		m.selectTool(session.ToolDrawing)
	case key.Matches(msg, m.keys.Control):
		m.selectTool(session.ToolControl)
	case key.Matches(msg, m.keys.Clear):
		m.record("clear_annotations", m.dispatcher.Clear(m.commander()))
	case key.Matches(msg, m.keys.FullDevice):
		next, err := m.dispatcher.ToggleFullDevice(m.commander(), m.session)
		m.record("set_full_device "+string(next), err)
	case key.Matches(msg, m.keys.End):
		m.record("end_session", m.dispatcher.EndSession(m.commander()))
	}
	return m, nil
}

func (m *Model) selectTool(t session.Tool) {
	err := m.dispatcher.SelectTool(m.commander(), t)
	m.statusBar.Tool = m.dispatcher.Tool()
	m.record("set_tool "+string(t), err)
}

// record logs a command outcome. Command failures never raise the error
// banner.
func (m *Model) record(what string, err error) {
	if err == nil {
		m.debug.Add(debug.KindCommand, what)
		return
	}
	if errors.Is(err, reconcile.ErrNotAttached) {
		m.debug.Add(debug.KindError, what+": not attached")
	} else {
		m.debug.Add(debug.KindError, what+": "+err.Error())
	}
	m.logger.Warn("command failed", zap.String("command", what), zap.Error(err))
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	m.cancel()
	m.destroy(m.handle)
	m.handle = nil
	return m, tea.Quit
}

func (m Model) reconciled() reconcile.View {
	return reconcile.Reconcile(reconcile.Input{
		Session:    m.session,
		Screen:     m.screen,
		Err:        m.err,
		Now:        m.now,
		StaleAfter: m.opts.StaleAfter,
	})
}

// View renders the full console.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}
	if m.overlay == OverlayDebug {
		return m.debug.View(m.width, m.height)
	}

	v := m.reconciled()
	sections := []string{m.statusBar.View()}

	if v.Ended {
		sections = append(sections, m.renderer.Ended(m.opts.EndedMessage))
	} else {
		if len(v.Banners) > 0 {
			sections = append(sections, m.messages.View(v))
		}
		if v.Controls {
			c := m.controls
			c.Tool = m.dispatcher.Tool()
			c.FullDevice = v.FullDevice
			c.Elapsed = v.Elapsed
			sections = append(sections, c.View())
		}
	}

	sections = append(sections, m.help.View(m.keys))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}
