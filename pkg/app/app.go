// Package app runs the cooperative tick loop that ties the dispatcher, the
// layout manager, the render backend and the platform together.
//
// An App is bound to the goroutine that created it. Every tick drains the
// dispatcher phases in priority order around one layout and render pass:
//
//	pre-tick, messages, input-pre, input-post,
//	[layout, render-pre, render, render-post],
//	application-idle, context-idle, post-tick
//
// Between ticks Run blocks on the platform until an event or a posted
// message wakes it.
package app

import (
	"context"
	stderrors "errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-breeze/breeze/pkg/dispatcher"
	"github.com/go-breeze/breeze/pkg/errors"
	"github.com/go-breeze/breeze/pkg/geometry"
	"github.com/go-breeze/breeze/pkg/layout"
	"github.com/go-breeze/breeze/pkg/platform"
	"github.com/go-breeze/breeze/pkg/render"
)

type wakeMessage struct{}

// WakeMessage is a message that only wakes the loop. A nil message behaves
// the same way.
var WakeMessage any = wakeMessage{}

// Resizer is implemented by roots that follow the surface size.
type Resizer interface {
	Resize(size geometry.Size)
}

// Shower is implemented by roots that must be shown before the first tick.
type Shower interface {
	Show()
}

// Options configures an App.
type Options struct {
	Platform platform.Platform
	Backend  render.Backend

	// ErrorHandler receives phase failures and render panics. Nil uses the
	// global handler.
	ErrorHandler errors.ErrorHandler

	// MessageHandler is called on the owner goroutine for every posted
	// message other than wake messages.
	MessageHandler func(msg any)

	// InputHandler runs between the input-pre and input-post phases.
	InputHandler func()

	// CaptureTraces records a creation stack trace on every operation.
	CaptureTraces bool

	// TraceCapacity is the number of tick samples kept. Zero uses the
	// default.
	TraceCapacity int

	// SlowTick is the duration above which a tick counts as slow.
	SlowTick time.Duration
}

// App owns one element tree and drives it.
type App struct {
	dispatcher *dispatcher.Dispatcher
	platform   platform.Platform
	backend    render.Backend
	handler    errors.ErrorHandler
	onMessage  func(any)
	onInput    func()
	trace      *TickTraceBuffer

	root layout.Element

	mgrMu   sync.Mutex
	manager *layout.Manager

	// layoutMu guards the layout and render critical section.
	layoutMu sync.Mutex

	msgMu    sync.Mutex
	messages []any

	shutdown atomic.Bool
	running  atomic.Bool
	ticks    atomic.Int64
}

var (
	_ layout.Context   = (*App)(nil)
	_ dispatcher.Waker = (*App)(nil)
)

// New creates an App bound to the calling goroutine.
func New(opts Options) (*App, error) {
	if opts.Platform == nil {
		return nil, &errors.BreezeError{Op: "app.New", Kind: errors.KindInit, Err: stderrors.New("platform is required")}
	}
	if opts.Backend == nil {
		return nil, &errors.BreezeError{Op: "app.New", Kind: errors.KindInit, Err: stderrors.New("render backend is required")}
	}
	a := &App{
		dispatcher: dispatcher.New(),
		platform:   opts.Platform,
		backend:    opts.Backend,
		handler:    opts.ErrorHandler,
		onMessage:  opts.MessageHandler,
		onInput:    opts.InputHandler,
		trace:      NewTickTraceBuffer(opts.TraceCapacity, opts.SlowTick),
	}
	a.dispatcher.SetCaptureTraces(opts.CaptureTraces)
	a.dispatcher.SetWaker(a)
	a.dispatcher.SetErrorHandler(opts.ErrorHandler)
	return a, nil
}

// Dispatcher returns the app's dispatcher.
func (a *App) Dispatcher() *dispatcher.Dispatcher {
	return a.dispatcher
}

// Platform returns the platform the app runs on.
func (a *App) Platform() platform.Platform {
	return a.platform
}

// Backend returns the render backend.
func (a *App) Backend() render.Backend {
	return a.backend
}

// Trace returns the tick trace buffer.
func (a *App) Trace() *TickTraceBuffer {
	return a.trace
}

// Root returns the root element, or nil.
func (a *App) Root() layout.Element {
	return a.root
}

// SetRoot installs the tree root. It must be called on the owner goroutine
// before Run.
func (a *App) SetRoot(root layout.Element) {
	a.root = root
}

// TickCount returns the number of completed ticks.
func (a *App) TickCount() int64 {
	return a.ticks.Load()
}

// IsRunning reports whether Run is active.
func (a *App) IsRunning() bool {
	return a.running.Load()
}

// LayoutManager returns the current layout manager, creating one and waking
// the loop when none exists.
func (a *App) LayoutManager() *layout.Manager {
	a.mgrMu.Lock()
	m := a.manager
	created := false
	if m == nil {
		m = layout.NewManager()
		a.manager = m
		created = true
	}
	a.mgrMu.Unlock()
	if created {
		a.PostMessage(WakeMessage)
	}
	return m
}

func (a *App) currentManager() *layout.Manager {
	a.mgrMu.Lock()
	defer a.mgrMu.Unlock()
	return a.manager
}

// discardManager drops m unless it still has queued work, in which case the
// loop is woken to process it.
func (a *App) discardManager(m *layout.Manager) {
	if m.DirtyArrangeCount() > 0 || m.DirtyRenderCount() > 0 {
		a.PostMessage(WakeMessage)
		return
	}
	a.mgrMu.Lock()
	if a.manager == m {
		a.manager = nil
	}
	a.mgrMu.Unlock()
}

// PostMessage queues msg for the next tick and wakes the loop. It is safe
// to call from any goroutine.
func (a *App) PostMessage(msg any) {
	a.msgMu.Lock()
	a.messages = append(a.messages, msg)
	a.msgMu.Unlock()
	a.platform.Wake()
}

// RequestProcessing wakes the loop so queued operations run.
func (a *App) RequestProcessing() {
	a.PostMessage(WakeMessage)
}

// PendingMessages returns the number of queued messages.
func (a *App) PendingMessages() int {
	a.msgMu.Lock()
	defer a.msgMu.Unlock()
	return len(a.messages)
}

// Shutdown asks Run to return after the current tick.
func (a *App) Shutdown() {
	a.shutdown.Store(true)
	a.PostMessage(WakeMessage)
}

// Run shows the root, then ticks until Shutdown, platform close or ctx
// cancellation. It must be called on the owner goroutine.
func (a *App) Run(ctx context.Context) error {
	if !a.dispatcher.IsOnOwningThread() {
		return &errors.BreezeError{Op: "app.Run", Kind: errors.KindInit, Err: stderrors.New("must run on the goroutine that created the app")}
	}
	if !a.running.CompareAndSwap(false, true) {
		return &errors.BreezeError{Op: "app.Run", Kind: errors.KindInit, Err: stderrors.New("already running")}
	}
	defer a.running.Store(false)

	a.platform.SetRefreshCallback(func() { a.PostMessage(nil) })
	a.platform.SetResizeCallback(a.resize)
	defer a.platform.SetRefreshCallback(nil)
	defer a.platform.SetResizeCallback(nil)

	if s, ok := a.root.(Shower); ok {
		s.Show()
	}

	for {
		_ = a.Tick()
		if a.shutdown.Load() {
			return nil
		}
		if err := a.platform.WaitEvents(ctx); err != nil {
			if stderrors.Is(err, platform.ErrClosed) {
				return nil
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			errors.ReportTo(a.handler, &errors.BreezeError{Op: "app.Run", Kind: errors.KindPlatform, Err: err})
			return err
		}
	}
}

func (a *App) resize(size geometry.Size) {
	if r, ok := a.root.(Resizer); ok {
		r.Resize(size)
	}
}

// Tick runs one loop iteration. The returned error joins every phase failure
// of the tick; each one has already been reported to the error handler.
func (a *App) Tick() error {
	start := time.Now()
	sample := TickSample{Timestamp: start.UnixMilli()}
	var errs []error

	phase := func(p dispatcher.Priority, dst *float64) {
		t := time.Now()
		if err := a.dispatcher.Process(p); err != nil {
			errs = append(errs, a.reportPhase(p, err))
			sample.Counts.Failures++
		}
		*dst += durationToMillis(time.Since(t))
	}

	phase(dispatcher.PreTick, &sample.Phases.PreTickMs)

	t := time.Now()
	sample.Counts.Messages = a.processMessages()
	sample.Phases.MessagesMs = durationToMillis(time.Since(t))

	a.platform.OnTick()
	if a.platform.ShouldClose() {
		a.shutdown.Store(true)
		return a.finishTick(start, sample, errs)
	}

	phase(dispatcher.InputPre, &sample.Phases.InputMs)
	if a.onInput != nil {
		t = time.Now()
		a.onInput()
		sample.Phases.InputMs += durationToMillis(time.Since(t))
	}
	phase(dispatcher.InputPost, &sample.Phases.InputMs)

	errs = append(errs, a.layoutAndRender(&sample, phase)...)

	phase(dispatcher.ApplicationIdle, &sample.Phases.IdleMs)
	phase(dispatcher.ContextIdle, &sample.Phases.IdleMs)
	phase(dispatcher.PostTick, &sample.Phases.PostTickMs)

	a.backend.Clear()
	return a.finishTick(start, sample, errs)
}

func (a *App) layoutAndRender(sample *TickSample, phase func(dispatcher.Priority, *float64)) []error {
	a.layoutMu.Lock()
	defer a.layoutMu.Unlock()

	if m := a.currentManager(); m != nil {
		t := time.Now()
		sample.Counts.DirtyArrange = m.DirtyArrangeCount()
		m.Activate()
		m.UpdateLayout(a.root)
		m.Deactivate()
		sample.Phases.LayoutMs = durationToMillis(time.Since(t))
	}

	phase(dispatcher.RenderPre, &sample.Phases.RenderPreMs)

	var errs []error
	m := a.currentManager()
	if m != nil {
		t := time.Now()
		list := m.RenderList()
		sample.Counts.Rendered = len(list)
		if len(list) > 0 {
			surface := a.platform.FramebufferSize()
			for _, e := range list {
				if err := a.renderElement(e, surface); err != nil {
					errs = append(errs, err)
					sample.Counts.Failures++
				}
			}
			a.platform.SwapBuffers()
		}
		m.ClearRenderList()
		sample.Phases.RenderMs = durationToMillis(time.Since(t))
	}

	phase(dispatcher.RenderPost, &sample.Phases.RenderPostMs)

	if m := a.currentManager(); m != nil {
		a.discardManager(m)
	}
	return errs
}

// renderElement draws e inside its own frame. A panic in the element's
// render step is reported and returned; the frame is still closed.
func (a *App) renderElement(e layout.Element, surface geometry.Size) (err error) {
	ctx := e.OpenRender(a.backend)
	a.backend.BeginFrame(surface)
	defer func() {
		a.backend.EndFrame()
		e.CloseRender(ctx)
	}()
	defer errors.RecoverTo(a.handler, fmt.Sprintf("app.render(%T)", e), func(perr *errors.PanicError) {
		err = &errors.BreezeError{Op: "app.render", Kind: errors.KindRender, Err: perr}
	})
	e.Render(ctx)
	return nil
}

// processMessages drains the message queue in posting order. Messages
// posted by a handler run on the next tick.
func (a *App) processMessages() int {
	a.msgMu.Lock()
	msgs := a.messages
	a.messages = nil
	a.msgMu.Unlock()

	handled := 0
	for _, msg := range msgs {
		if msg == nil || msg == WakeMessage {
			continue
		}
		handled++
		if a.onMessage != nil {
			a.handleMessage(msg)
		}
	}
	return handled
}

func (a *App) handleMessage(msg any) {
	defer errors.RecoverTo(a.handler, "app.message", nil)
	a.onMessage(msg)
}

func (a *App) reportPhase(p dispatcher.Priority, err error) error {
	berr := &errors.BreezeError{Op: "app.Tick(" + p.String() + ")", Kind: errors.KindOperation, Err: err}
	errors.ReportTo(a.handler, berr)
	return berr
}

func (a *App) finishTick(start time.Time, sample TickSample, errs []error) error {
	elapsed := time.Since(start)
	sample.TickMs = durationToMillis(elapsed)
	a.trace.Add(sample, elapsed)
	a.ticks.Add(1)
	return stderrors.Join(errs...)
}
