package web

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/SicilyCialo/kannacs/internal/engine"
	"github.com/SicilyCialo/kannacs/internal/random"
	"github.com/SicilyCialo/kannacs/internal/storage"
)

// Options configures a Server. Zero values fall back to defaults.
type Options struct {
	Logger        *log.Logger
	Picker        engine.Picker
	ResetPolicy   engine.ResetPolicy
	CookieTTL     time.Duration
	SecureCookies bool
	Now           func() time.Time
}

// Server exposes the progress API. Each request is its own session: state
// lives in the caller's cookies and is loaded fresh per request.
type Server struct {
	logger    *log.Logger
	picker    engine.Picker
	policy    engine.ResetPolicy
	ttl       time.Duration
	secure    bool
	now       func() time.Time
	startTime time.Time
}

func NewServer(opts Options) *Server {
	s := &Server{
		logger: opts.Logger,
		picker: opts.Picker,
		policy: opts.ResetPolicy,
		ttl:    opts.CookieTTL,
		secure: opts.SecureCookies,
		now:    opts.Now,
	}
	if s.logger == nil {
		s.logger = log.New(os.Stdout, "[API] ", log.LstdFlags)
	}
	if s.picker == nil {
		s.picker = engine.NewRandomPicker(random.Source())
	}
	if s.policy == "" {
		s.policy = engine.ResetRelock
	}
	if s.ttl <= 0 {
		s.ttl = storage.DefaultTTL
	}
	if s.now == nil {
		s.now = time.Now
	}
	s.startTime = s.now()
	return s
}

// Routes sets up the HTTP routes with middleware.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/progress", s.handleProgress)
		r.Delete("/progress", s.handleReset)
		r.Get("/achievements", s.handleAchievements)
		r.Get("/roster", s.handleRoster)
		r.Get("/items", s.handleItems)
		r.Post("/items/{id}/use", s.handleUseItem)
		r.Post("/favorites/{name}", s.handleFavorite)
		r.Post("/messages/{name}", s.handleMessage)
		r.Put("/canvas/{row}/{col}", s.handlePaint)
		r.Delete("/canvas", s.handleClearCanvas)
		r.Post("/privacy/visit", s.handleVisitPrivacy)
		r.Post("/privacy/accept", s.handleAcceptPrivacy)
		r.Post("/minigame/{choice}", s.handlePlay)
	})

	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.logger.Printf("listening on http://%s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Printf("request method=%s path=%s status=%d bytes=%d duration=%s request_id=%s",
			r.Method, r.URL.Path, ww.Status(), ww.BytesWritten(), time.Since(start), middleware.GetReqID(r.Context()))
	})
}

// session loads the caller's progress from their cookies. Rounds resolve
// within the request.
type session struct {
	svc    *engine.Service
	events []engine.Event
}

func (s *Server) session(w http.ResponseWriter, r *http.Request) *session {
	jar := NewRequestJar(w, r, s.secure)
	jar.now = s.now
	svc := engine.NewService(jar,
		engine.WithLogger(s.logger),
		engine.WithPicker(s.picker),
		engine.WithScheduler(engine.ImmediateScheduler{}),
		engine.WithDelays(0, 0),
		engine.WithResetPolicy(s.policy),
		engine.WithTTL(s.ttl),
		engine.WithClock(s.now),
	)
	rep := svc.Load(r.Context())
	for _, pe := range rep.Failed {
		s.logger.Printf("discarded cookie key=%s request_id=%s err=%v", pe.Key, middleware.GetReqID(r.Context()), pe.Err)
	}
	sess := &session{svc: svc}
	svc.Subscribe(func(e engine.Event) { sess.events = append(sess.events, e) })
	return sess
}

func (sess *session) response() actionResponse {
	events := make([]eventView, 0, len(sess.events))
	for _, e := range sess.events {
		events = append(events, newEventView(e))
	}
	return actionResponse{Progress: newProgressView(sess.svc.Snapshot()), Events: events}
}

// writeJSON writes a JSON response with proper headers
func (s *Server) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Printf("encode response: %v", err)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":     "ok",
		"uptime":     s.now().Sub(s.startTime).String(),
		"request_id": middleware.GetReqID(r.Context()),
	})
}

func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, newProgressView(s.session(w, r).svc.Snapshot()))
}

func (s *Server) handleAchievements(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.session(w, r).svc.Achievements())
}

func (s *Server) handleRoster(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, engine.Roster())
}

func (s *Server) handleItems(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, engine.Inventory())
}

func (s *Server) handleFavorite(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	sess := s.session(w, r)
	added := sess.svc.ToggleFavorite(r.Context(), name)
	resp := sess.response()
	resp.Favorited = &added
	s.writeJSON(w, http.StatusOK, resp)
}

type messageRequest struct {
	Text string `json:"text"`
}

func (s *Server) handleMessage(w http.ResponseWriter, r *http.Request) {
	var req messageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, http.StatusBadRequest, ErrTypeValidation, "invalid JSON body: "+err.Error())
		return
	}
	sess := s.session(w, r)
	if !sess.svc.SendMessage(r.Context(), chi.URLParam(r, "name"), req.Text) {
		s.writeError(w, r, http.StatusBadRequest, ErrTypeValidation, "recipient and text must not be blank")
		return
	}
	s.writeJSON(w, http.StatusOK, sess.response())
}

type paintRequest struct {
	Color string `json:"color"`
}

func (s *Server) handlePaint(w http.ResponseWriter, r *http.Request) {
	row, err := strconv.Atoi(chi.URLParam(r, "row"))
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, ErrTypeValidation, "row must be an integer")
		return
	}
	col, err := strconv.Atoi(chi.URLParam(r, "col"))
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, ErrTypeValidation, "col must be an integer")
		return
	}
	var req paintRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, http.StatusBadRequest, ErrTypeValidation, "invalid JSON body: "+err.Error())
		return
	}
	sess := s.session(w, r)
	if err := sess.svc.Paint(r.Context(), row, col, req.Color); err != nil {
		s.handleError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, sess.response())
}

func (s *Server) handleClearCanvas(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	sess.svc.ClearCanvas(r.Context())
	s.writeJSON(w, http.StatusOK, sess.response())
}

func (s *Server) handleVisitPrivacy(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	sess.svc.VisitPrivacy(r.Context())
	s.writeJSON(w, http.StatusOK, sess.response())
}

func (s *Server) handleAcceptPrivacy(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	sess.svc.AcceptPrivacy(r.Context())
	s.writeJSON(w, http.StatusOK, sess.response())
}

func (s *Server) handlePlay(w http.ResponseWriter, r *http.Request) {
	choice, err := engine.ParseChoice(chi.URLParam(r, "choice"))
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	sess := s.session(w, r)
	round, err := sess.svc.PlayAndWait(r.Context(), choice)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	resp := sess.response()
	resp.Round = &round
	resp.Reward = &round.Reward
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUseItem(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	use, err := sess.svc.UseItem(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	resp := sess.response()
	resp.Item = &use.Item
	resp.Reward = &use.Reward
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	if err := sess.svc.ResetAll(r.Context()); err != nil {
		s.handleError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, sess.response())
}
