// Package debugserver exposes a running app over HTTP for inspection.
//
// Routes:
//
//	GET  /health             liveness and tick count
//	GET  /tree               element tree with layout rectangles
//	GET  /ticks?limit=N      recent tick trace samples
//	GET  /hit?x=X&y=Y        elements under a point, deepest first
//	POST /invalidate/{id}    invalidate layout and render of one element
//
// Tree reads and mutations run on the app's owner goroutine through its
// dispatcher, so the loop must be running for them to complete.
package debugserver

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/go-breeze/breeze/pkg/app"
	"github.com/go-breeze/breeze/pkg/dispatcher"
	"github.com/go-breeze/breeze/pkg/geometry"
	"github.com/go-breeze/breeze/pkg/layout"
)

// DefaultTimeout bounds how long a request waits for the owner goroutine.
const DefaultTimeout = 2 * time.Second

var (
	errNoRoot   = stderrors.New("no element tree")
	errNotFound = stderrors.New("element not found")
)

// Server serves debug endpoints for one app.
type Server struct {
	app     *app.App
	router  chi.Router
	timeout time.Duration

	mu       sync.Mutex
	server   *http.Server
	listener net.Listener
}

// New creates a server for a.
func New(a *app.App) *Server {
	s := &Server{app: a, timeout: DefaultTimeout}
	r := chi.NewRouter()
	r.Get("/health", s.handleHealth)
	r.Get("/tree", s.handleTree)
	r.Get("/ticks", s.handleTicks)
	r.Get("/hit", s.handleHit)
	r.Post("/invalidate/{id}", s.handleInvalidate)
	s.router = r
	return s
}

// SetTimeout changes how long requests wait for the owner goroutine.
func (s *Server) SetTimeout(d time.Duration) {
	if d <= 0 {
		d = DefaultTimeout
	}
	s.timeout = d
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start listens on addr and serves in the background. It returns the bound
// address, which differs from addr when addr asks for an ephemeral port.
func (s *Server) Start(addr string) (net.Addr, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.server != nil {
		return s.listener.Addr(), nil
	}

	// Bind first to fail fast on port conflicts.
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("debug server listen: %w", err)
	}
	server := &http.Server{Handler: s.router, ReadHeaderTimeout: 5 * time.Second}
	s.server = server
	s.listener = listener

	go func() {
		if err := server.Serve(listener); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			s.mu.Lock()
			if s.server == server {
				s.server = nil
				s.listener = nil
			}
			s.mu.Unlock()
		}
	}()
	return listener.Addr(), nil
}

// Stop shuts the server down gracefully.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	server := s.server
	s.server = nil
	s.listener = nil
	s.mu.Unlock()

	if server == nil {
		return nil
	}
	return server.Shutdown(ctx)
}

// onOwner runs fn on the app's owner goroutine and waits for it. Errors
// returned by fn go to the caller rather than the app's error handler.
func (s *Server) onOwner(ctx context.Context, fn func() error) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	var result error
	op := s.app.Dispatcher().Invoke(func() error {
		result = fn()
		return nil
	}, dispatcher.PreTick)
	if err := op.Wait(ctx); err != nil {
		op.Abort()
		return err
	}
	return result
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"running": s.app.IsRunning(),
		"ticks":   s.app.TickCount(),
	})
}

func (s *Server) handleTree(w http.ResponseWriter, r *http.Request) {
	var tree TreeNode
	err := s.onOwner(r.Context(), func() error {
		root := s.app.Root()
		if root == nil {
			return errNoRoot
		}
		tree = Snapshot(root)
		return nil
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tree)
}

func (s *Server) handleTicks(w http.ResponseWriter, r *http.Request) {
	timeline := s.app.Trace().Snapshot()
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		if n < len(timeline.Samples) {
			timeline.Samples = timeline.Samples[len(timeline.Samples)-n:]
		}
	}
	writeJSON(w, http.StatusOK, timeline)
}

func (s *Server) handleHit(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	x, errX := strconv.ParseFloat(q.Get("x"), 64)
	y, errY := strconv.ParseFloat(q.Get("y"), 64)
	if errX != nil || errY != nil {
		http.Error(w, "x and y must be numbers", http.StatusBadRequest)
		return
	}
	var hits []HitEntry
	err := s.onOwner(r.Context(), func() error {
		root := s.app.Root()
		if root == nil {
			return errNoRoot
		}
		for _, e := range layout.HitTest(root, geometry.Offset{X: x, Y: y}) {
			hits = append(hits, HitEntry{ID: e.ID(), Type: typeName(e), Rect: safeRect(e.LayoutRect())})
		}
		return nil
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"hits": hits})
}

func (s *Server) handleInvalidate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	err := s.onOwner(r.Context(), func() error {
		root := s.app.Root()
		if root == nil {
			return errNoRoot
		}
		e := layout.Find(root, id)
		if e == nil {
			return errNotFound
		}
		e.InvalidateVisual()
		return nil
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"invalidated": id})
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case stderrors.Is(err, errNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case stderrors.Is(err, errNoRoot), stderrors.Is(err, context.DeadlineExceeded):
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		http.Error(w, fmt.Sprintf("json encode error: %v", err), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(data)
}
