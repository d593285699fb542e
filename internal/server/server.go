package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"cramomatic/internal/api"
)

const maxBodyBytes = 64 << 10

// Options configures a Server.
type Options struct {
	Addr            string
	ShutdownTimeout time.Duration
	AllowedOrigins  []string // empty allows any origin
}

// Server exposes the recipe service over HTTP.
type Server struct {
	svc    *api.Service
	logger *zap.Logger
	opts   Options
	router *mux.Router
}

// New builds a server with its routes and middleware in place.
func New(svc *api.Service, logger *zap.Logger, opts Options) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = 5 * time.Second
	}
	s := &Server{
		svc:    svc,
		logger: logger,
		opts:   opts,
		router: mux.NewRouter(),
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.HandleFunc("/healthz", s.allow(s.handleHealth, http.MethodGet))

	// Paths are registered without Methods so a wrong method on a known path is
	// answered by allow rather than falling through to the not-found handler.
	routes := s.router.PathPrefix("/api").Subrouter()
	routes.HandleFunc("/recipe", s.allow(s.handleRecipe, http.MethodPost))
	routes.HandleFunc("/check", s.allow(s.handleCheck, http.MethodPost))
	routes.HandleFunc("/options", s.allow(s.handleOptions, http.MethodPost))
	routes.HandleFunc("/outputs", s.allow(s.handleOutputs, http.MethodGet))
	routes.HandleFunc("/items", s.allow(s.handleItems, http.MethodGet))

	s.router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.writeError(w, &api.Error{Status: http.StatusNotFound, Message: "no route for " + r.URL.Path})
	})

	s.router.Use(s.requestID, s.accessLog, s.cors)
}

// allow rejects every method but the listed ones with a JSON 405. Preflight
// requests never get here; cors answers them.
func (s *Server) allow(h http.HandlerFunc, methods ...string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !slices.Contains(methods, r.Method) {
			w.Header().Set("Allow", strings.Join(append(slices.Clone(methods), http.MethodOptions), ", "))
			s.writeError(w, &api.Error{Status: http.StatusMethodNotAllowed, Message: r.Method + " not allowed on " + r.URL.Path})
			return
		}
		h(w, r)
	}
}

// Handler returns the routed handler with all middleware applied.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run listens on the configured address and serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.opts.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.opts.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled, then drains in-flight requests for
// at most the shutdown timeout.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("listening", zap.String("addr", ln.Addr().String()))
		if err := srv.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		s.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleRecipe(w http.ResponseWriter, r *http.Request) {
	var req api.RecipeRequest
	if !s.decode(w, r, &req) {
		return
	}
	resp, err := s.svc.Recipe(req)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
	var req api.CheckRequest
	if !s.decode(w, r, &req) {
		return
	}
	resp, err := s.svc.Check(req)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleOptions(w http.ResponseWriter, r *http.Request) {
	var req api.OptionsRequest
	if !s.decode(w, r, &req) {
		return
	}
	resp, err := s.svc.Options(req)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleOutputs(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.svc.Outputs())
}

func (s *Server) handleItems(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.svc.Items())
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes+1))
	if err != nil {
		s.writeError(w, &api.Error{Status: http.StatusBadRequest, Message: "read body: " + err.Error()})
		return false
	}
	if len(body) > maxBodyBytes {
		s.writeError(w, &api.Error{Status: http.StatusRequestEntityTooLarge, Message: "request body too large"})
		return false
	}
	if err := json.Unmarshal(body, v); err != nil {
		s.writeError(w, &api.Error{Status: http.StatusBadRequest, Message: "invalid JSON: " + err.Error()})
		return false
	}
	return true
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("write response", zap.Int("status", status), zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	var apiErr *api.Error
	if !errors.As(err, &apiErr) {
		apiErr = &api.Error{Status: http.StatusInternalServerError, Message: err.Error()}
	}
	s.writeJSON(w, apiErr.Status, apiErr)
}
