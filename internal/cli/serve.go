package cli

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/mapweaver/mapweaver/pkg/cache"
	"github.com/mapweaver/mapweaver/pkg/config"
	mwerrors "github.com/mapweaver/mapweaver/pkg/errors"
	"github.com/mapweaver/mapweaver/pkg/layout"
	"github.com/mapweaver/mapweaver/pkg/observability"
	"github.com/mapweaver/mapweaver/pkg/session"
	"github.com/mapweaver/mapweaver/pkg/spec"
	"github.com/mapweaver/mapweaver/pkg/store"
)

// newServeCmd creates the serve command exposing the engine over HTTP.
func newServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the diagram engine over HTTP",
		Long: `Serve the diagram engine over HTTP.

The API exposes stateless compilation (POST /api/compile), saved-diagram
CRUD backed by the configured store (memory or mongo), and stateful editing
sessions with undo/redo. Compiled layouts are cached per the configured
cache backend (file or redis).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := configFromContext(cmd.Context())
			if addr != "" {
				cfg.Serve.Addr = addr
			}
			return runServe(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")

	return cmd
}

// runServe builds the server's backends and blocks until the context is
// cancelled or the listener fails.
func runServe(ctx context.Context, cfg config.Config) error {
	logger := loggerFromContext(ctx)

	diagrams, err := newStoreBackend(ctx, cfg.Store)
	if err != nil {
		return err
	}
	defer diagrams.Close(context.Background())

	layouts := newCacheBackend(ctx, cfg.Cache, false)
	defer layouts.Close()

	srv := &server{
		cfg:      cfg,
		logger:   logger,
		diagrams: diagrams,
		layouts:  layouts,
		sessions: make(map[string]*session.Session),
	}

	httpSrv := &http.Server{
		Addr:              cfg.Serve.Addr,
		Handler:           srv.routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = httpSrv.Shutdown(shutdownCtx)
	}()

	logger.Info("serving", "addr", cfg.Serve.Addr, "store", cfg.Store.Backend, "cache", cfg.Cache.Backend)
	if err := httpSrv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// =============================================================================
// Server
// =============================================================================

// server holds the HTTP surface's shared state. Editing sessions live in
// process memory; they are working state, not durable data.
type server struct {
	cfg      config.Config
	logger   *log.Logger
	diagrams store.Store
	layouts  cache.Cache

	mu       sync.Mutex
	sessions map[string]*session.Session
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		s.respond(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/compile", s.handleCompile)

		r.Route("/diagrams", func(r chi.Router) {
			r.Post("/", s.handleCreateDiagram)
			r.Get("/", s.handleListDiagrams)
			r.Get("/{diagramID}", s.handleGetDiagram)
			r.Put("/{diagramID}", s.handleUpdateDiagram)
			r.Delete("/{diagramID}", s.handleDeleteDiagram)
		})

		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", s.handleOpenSession)
			r.Get("/{sessionID}", s.handleGetSession)
			r.Post("/{sessionID}/undo", s.handleUndo)
			r.Post("/{sessionID}/redo", s.handleRedo)
			r.Delete("/{sessionID}", s.handleCloseSession)
		})
	})

	return r
}

// =============================================================================
// Compile
// =============================================================================

type compileResponse struct {
	Layout layout.Result `json:"layout"`
	Cached bool          `json:"cached"`
}

// handleCompile is the stateless compile endpoint: specification in,
// geometry out, with the layout cache in front of the compiler.
func (s *server) handleCompile(w http.ResponseWriter, r *http.Request) {
	doc, err := spec.Read(r.Body)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err)
		return
	}

	opts := layoutOptions(s.cfg)
	specJSON, err := spec.Marshal(doc)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err)
		return
	}
	key := cache.LayoutKey(specJSON, opts.CanvasWidth, opts.CanvasHeight)

	res, cached, err := compileWithCache(r.Context(), s.layouts, key, doc, opts, s.cfg.Cache.TTL())
	if err != nil {
		s.respondError(w, httpStatus(err), err)
		return
	}
	s.respond(w, http.StatusOK, compileResponse{Layout: res, Cached: cached})
}

// =============================================================================
// Diagrams
// =============================================================================

type diagramRequest struct {
	Name string     `json:"name"`
	Spec *spec.Spec `json:"spec"`
}

func (s *server) handleCreateDiagram(w http.ResponseWriter, r *http.Request) {
	var req diagramRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, err)
		return
	}
	if req.Spec == nil {
		s.respondError(w, http.StatusBadRequest, mwerrors.New(mwerrors.ErrCodeInvalidSpec, "spec is required"))
		return
	}
	if err := req.Spec.Validate(); err != nil {
		s.respondError(w, http.StatusBadRequest, err)
		return
	}

	d := &store.Diagram{Name: req.Name, Spec: req.Spec}
	if err := s.diagrams.Put(r.Context(), d); err != nil {
		s.respondError(w, httpStatus(err), err)
		return
	}
	s.respond(w, http.StatusCreated, d)
}

func (s *server) handleListDiagrams(w http.ResponseWriter, r *http.Request) {
	list, err := s.diagrams.List(r.Context())
	if err != nil {
		s.respondError(w, httpStatus(err), err)
		return
	}
	s.respond(w, http.StatusOK, list)
}

func (s *server) handleGetDiagram(w http.ResponseWriter, r *http.Request) {
	d, err := s.diagrams.Get(r.Context(), chi.URLParam(r, "diagramID"))
	if err != nil {
		s.respondError(w, httpStatus(err), err)
		return
	}
	s.respond(w, http.StatusOK, d)
}

func (s *server) handleUpdateDiagram(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "diagramID")
	existing, err := s.diagrams.Get(r.Context(), id)
	if err != nil {
		s.respondError(w, httpStatus(err), err)
		return
	}

	var req diagramRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, err)
		return
	}
	// Absent fields keep their stored values.
	if req.Spec == nil {
		req.Spec = existing.Spec
	} else if err := req.Spec.Validate(); err != nil {
		s.respondError(w, http.StatusBadRequest, err)
		return
	}
	if req.Name == "" {
		req.Name = existing.Name
	}

	d := &store.Diagram{ID: id, Name: req.Name, Spec: req.Spec}
	if err := s.diagrams.Put(r.Context(), d); err != nil {
		s.respondError(w, httpStatus(err), err)
		return
	}
	s.respond(w, http.StatusOK, d)
}

func (s *server) handleDeleteDiagram(w http.ResponseWriter, r *http.Request) {
	if err := s.diagrams.Delete(r.Context(), chi.URLParam(r, "diagramID")); err != nil {
		s.respondError(w, httpStatus(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// Sessions
// =============================================================================

type openSessionRequest struct {
	DiagramID string     `json:"diagram_id,omitempty"`
	Spec      *spec.Spec `json:"spec,omitempty"`
}

type sessionResponse struct {
	SessionID string        `json:"session_id"`
	Layout    layout.Result `json:"layout"`
	Spec      *spec.Spec    `json:"spec"`
}

// handleOpenSession opens an editing session from either a stored diagram
// or an inline specification.
func (s *server) handleOpenSession(w http.ResponseWriter, r *http.Request) {
	var req openSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, err)
		return
	}

	doc := req.Spec
	if doc == nil && req.DiagramID != "" {
		d, err := s.diagrams.Get(r.Context(), req.DiagramID)
		if err != nil {
			s.respondError(w, httpStatus(err), err)
			return
		}
		doc = d.Spec
	}
	if doc == nil {
		s.respondError(w, http.StatusBadRequest, mwerrors.New(mwerrors.ErrCodeInvalidSpec, "diagram_id or spec is required"))
		return
	}

	opts := sessionOptions(s.cfg, nil)
	opts.Logger = s.logger
	sess, err := session.New(doc.Clone(), opts)
	if err != nil {
		s.respondError(w, httpStatus(err), err)
		return
	}

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()

	s.respond(w, http.StatusCreated, sessionResponse{SessionID: sess.ID, Layout: sess.Result(), Spec: sess.Spec()})
}

func (s *server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(chi.URLParam(r, "sessionID"))
	if !ok {
		s.respondError(w, http.StatusNotFound, mwerrors.New(mwerrors.ErrCodeSessionNotFound, "no such session"))
		return
	}
	s.respond(w, http.StatusOK, sessionResponse{SessionID: sess.ID, Layout: sess.Result(), Spec: sess.Spec()})
}

func (s *server) handleUndo(w http.ResponseWriter, r *http.Request) {
	s.handleHistoryStep(w, r, "undo")
}

func (s *server) handleRedo(w http.ResponseWriter, r *http.Request) {
	s.handleHistoryStep(w, r, "redo")
}

// handleHistoryStep runs one undo or redo step. Stepping past a boundary is
// warning-grade: the response is the unchanged state, not an error.
func (s *server) handleHistoryStep(w http.ResponseWriter, r *http.Request, direction string) {
	sess, ok := s.session(chi.URLParam(r, "sessionID"))
	if !ok {
		s.respondError(w, http.StatusNotFound, mwerrors.New(mwerrors.ErrCodeSessionNotFound, "no such session"))
		return
	}

	var err error
	if direction == "undo" {
		err = sess.Undo()
		observability.Session().OnUndo(r.Context(), sess.History().Len())
	} else {
		err = sess.Redo()
		observability.Session().OnRedo(r.Context(), sess.History().Len())
	}
	if err != nil && !mwerrors.IsWarning(err) {
		s.respondError(w, httpStatus(err), err)
		return
	}
	s.respond(w, http.StatusOK, sessionResponse{SessionID: sess.ID, Layout: sess.Result(), Spec: sess.Spec()})
}

func (s *server) handleCloseSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	s.mu.Lock()
	_, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()
	if !ok {
		s.respondError(w, http.StatusNotFound, mwerrors.New(mwerrors.ErrCodeSessionNotFound, "no such session"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) session(id string) (*session.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	return sess, ok
}

// =============================================================================
// Responses
// =============================================================================

type errorResponse struct {
	Error string        `json:"error"`
	Code  mwerrors.Code `json:"code,omitempty"`
}

func (s *server) respond(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Warn("write response", "err", err)
	}
}

func (s *server) respondError(w http.ResponseWriter, status int, err error) {
	s.respond(w, status, errorResponse{Error: mwerrors.UserMessage(err), Code: mwerrors.GetCode(err)})
}

// httpStatus maps the engine's error taxonomy onto HTTP statuses.
func httpStatus(err error) int {
	switch mwerrors.GetCode(err) {
	case mwerrors.ErrCodeInvalidSpec, mwerrors.ErrCodeUnknownArchetype,
		mwerrors.ErrCodeInvalidLayout, mwerrors.ErrCodeUnsupported:
		return http.StatusBadRequest
	case mwerrors.ErrCodeEditForbidden, mwerrors.ErrCodeEditUnknownRef:
		return http.StatusUnprocessableEntity
	case mwerrors.ErrCodeNotFound, mwerrors.ErrCodeDiagramNotFound,
		mwerrors.ErrCodeSessionNotFound, mwerrors.ErrCodeFileNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
