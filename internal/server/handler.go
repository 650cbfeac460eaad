// internal/server/handler.go

// Package server exposes the wizard and the admin review surface over
// HTTP. Every wizard route resolves a session, takes its lock, and
// operates on the session's machine; the admin routes sit behind a
// shared-secret header check.
package server

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"hauler-portal/internal/admin"
	stderrors "hauler-portal/internal/common/errors"
	"hauler-portal/internal/common/logger"
	"hauler-portal/internal/common/metrics"
	"hauler-portal/internal/draft"
	"hauler-portal/internal/models"
	"hauler-portal/internal/wizard"
)

// Server wires the wizard sessions, the draft store and the admin store
// into HTTP handlers.
type Server struct {
	registry    *Registry
	drafts      *draft.Store
	pipeline    wizard.Submitter
	adminStore  *admin.Store
	logger      logger.Logger
	debounce    time.Duration
	adminSecret string
}

// Options carries the handler's collaborators.
type Options struct {
	Registry    *Registry
	Drafts      *draft.Store
	Pipeline    wizard.Submitter
	AdminStore  *admin.Store
	Logger      logger.Logger
	Debounce    time.Duration
	AdminSecret string
}

// NewHandler creates the portal's HTTP handler.
func NewHandler(opts Options) http.Handler {
	s := &Server{
		registry:    opts.Registry,
		drafts:      opts.Drafts,
		pipeline:    opts.Pipeline,
		adminStore:  opts.AdminStore,
		logger:      opts.Logger,
		debounce:    opts.Debounce,
		adminSecret: opts.AdminSecret,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/sessions", func(r chi.Router) {
		r.Post("/", s.handleCreateSession)
		r.Route("/{sessionID}", func(r chi.Router) {
			r.Get("/", s.handleGetState)
			r.Delete("/", s.handleDiscard)
			r.Patch("/data", s.handleUpdateData)
			r.Post("/next", s.handleNext)
			r.Post("/previous", s.handlePrevious)
			r.Post("/submit", s.handleSubmit)
		})
	})

	r.Route("/api/admin", func(r chi.Router) {
		r.Use(s.requireAdminSecret)
		r.Get("/applications", s.handleListApplications)
		r.Get("/applications/export", s.handleExportApplications)
		r.Get("/applications/{ref}", s.handleGetApplication)
		r.Patch("/applications/{ref}/status", s.handleUpdateStatus)
		r.Get("/dashboard/stats", s.handleStats)
		r.Get("/dashboard/recent", s.handleRecent)
	})

	return r
}

// ==========================
// Wizard Session Endpoints
// ==========================

type createSessionRequest struct {
	// SessionID resumes a previous session when its draft snapshot is
	// still within the restore window.
	SessionID string `json:"sessionId,omitempty"`
}

type stateResponse struct {
	SessionID       string                  `json:"sessionId"`
	CurrentStep     int                     `json:"currentStep"`
	TotalSteps      int                     `json:"totalSteps"`
	StepTitle       string                  `json:"stepTitle"`
	StepDescription string                  `json:"stepDescription"`
	Data            models.ApplicationDraft `json:"data"`
	Errors          map[string]string       `json:"errors"`
	SubmissionError string                  `json:"submissionError,omitempty"`
	Confirmed       bool                    `json:"confirmed"`
	Restored        bool                    `json:"restored,omitempty"`
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if r.Body != nil {
		// An empty body starts a fresh session.
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	sessionID := uuid.New().String()
	machine := wizard.NewMachine()
	restored := false

	if req.SessionID != "" {
		snapshot, err := s.drafts.Load(r.Context(), req.SessionID)
		if err != nil {
			s.logger.WithError(err).Warn("draft load failed", map[string]interface{}{
				"session_id": req.SessionID,
			})
		}
		if snapshot != nil {
			sessionID = req.SessionID
			machine = wizard.Restore(*snapshot)
			restored = true
		}
	}

	saver := draft.NewSaver(s.drafts, s.logger, sessionID, s.debounce)
	machine.OnChange(saver.Offer)

	session := &Session{
		ID:      sessionID,
		Machine: machine,
		Saver:   saver,
	}
	s.registry.Put(session)

	s.logger.Info("session created", map[string]interface{}{
		"session_id": sessionID,
		"restored":   restored,
	})

	resp := s.stateOf(session)
	resp.Restored = restored
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleGetState(w http.ResponseWriter, r *http.Request) {
	session, ok := s.session(w, r)
	if !ok {
		return
	}
	session.Lock()
	defer session.Unlock()

	writeJSON(w, http.StatusOK, s.stateOf(session))
}

func (s *Server) handleUpdateData(w http.ResponseWriter, r *http.Request) {
	session, ok := s.session(w, r)
	if !ok {
		return
	}

	var patch wizard.DraftPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	session.Lock()
	defer session.Unlock()

	session.Machine.UpdateData(patch)
	writeJSON(w, http.StatusOK, s.stateOf(session))
}

func (s *Server) handleNext(w http.ResponseWriter, r *http.Request) {
	session, ok := s.session(w, r)
	if !ok {
		return
	}
	session.Lock()
	defer session.Unlock()

	if session.Machine.Next() {
		metrics.WizardTransitions.WithLabelValues("next", "advanced").Inc()
		writeJSON(w, http.StatusOK, s.stateOf(session))
		return
	}

	metrics.WizardTransitions.WithLabelValues("next", "blocked").Inc()
	writeJSON(w, http.StatusUnprocessableEntity, s.stateOf(session))
}

func (s *Server) handlePrevious(w http.ResponseWriter, r *http.Request) {
	session, ok := s.session(w, r)
	if !ok {
		return
	}
	session.Lock()
	defer session.Unlock()

	session.Machine.Previous()
	metrics.WizardTransitions.WithLabelValues("previous", "moved").Inc()
	writeJSON(w, http.StatusOK, s.stateOf(session))
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	session, ok := s.session(w, r)
	if !ok {
		return
	}
	session.Lock()
	defer session.Unlock()

	err := session.Machine.Submit(r.Context(), s.pipeline)
	switch {
	case err == nil:
		// The application is durably recorded; the working draft has
		// served its purpose.
		session.Saver.Stop()
		if delErr := s.drafts.Delete(r.Context(), session.ID); delErr != nil {
			s.logger.WithError(delErr).Warn("draft delete failed", map[string]interface{}{
				"session_id": session.ID,
			})
		}
		writeJSON(w, http.StatusOK, s.stateOf(session))
	case errors.Is(err, wizard.ErrNotOnSubmitStep):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, wizard.ErrValidationFailed):
		writeJSON(w, http.StatusUnprocessableEntity, s.stateOf(session))
	default:
		writeJSON(w, http.StatusBadGateway, s.stateOf(session))
	}
}

func (s *Server) handleDiscard(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	if err := s.drafts.Delete(r.Context(), sessionID); err != nil {
		s.logger.WithError(err).Warn("draft delete failed", map[string]interface{}{
			"session_id": sessionID,
		})
	}
	s.registry.Remove(sessionID)

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) session(w http.ResponseWriter, r *http.Request) (*Session, bool) {
	sessionID := chi.URLParam(r, "sessionID")
	session, ok := s.registry.Get(sessionID)
	if !ok {
		writeError(w, http.StatusNotFound, "session not found")
		return nil, false
	}
	return session, true
}

func (s *Server) stateOf(session *Session) stateResponse {
	m := session.Machine
	info := m.StepInfo()
	return stateResponse{
		SessionID:       session.ID,
		CurrentStep:     m.CurrentStep(),
		TotalSteps:      m.TotalSteps(),
		StepTitle:       info.Title,
		StepDescription: info.Description,
		Data:            m.Data(),
		Errors:          m.Errors(),
		SubmissionError: m.SubmissionError(),
		Confirmed:       m.Confirmed(),
	}
}

// ==========================
// Admin Review Endpoints
// ==========================

func (s *Server) requireAdminSecret(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		secret := r.Header.Get("X-Admin-Secret")
		if s.adminSecret == "" ||
			subtle.ConstantTimeCompare([]byte(secret), []byte(s.adminSecret)) != 1 {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		// Relay-only deployments have no application database.
		if s.adminStore == nil {
			writeError(w, http.StatusServiceUnavailable, "admin surface is not available")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleListApplications(w http.ResponseWriter, r *http.Request) {
	filter := listFilterFrom(r)

	result, err := s.adminStore.List(r.Context(), filter)
	if err != nil {
		s.logger.WithError(err).Error("application list failed", nil)
		writeError(w, http.StatusInternalServerError, "failed to fetch applications")
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleGetApplication(w http.ResponseWriter, r *http.Request) {
	detail, err := s.adminStore.Get(r.Context(), chi.URLParam(r, "ref"))
	if errors.Is(err, admin.ErrApplicationNotFound) {
		writeError(w, http.StatusNotFound, "application not found")
		return
	}
	if err != nil {
		s.logger.WithError(err).Error("application fetch failed", nil)
		writeError(w, http.StatusInternalServerError, "failed to fetch application")
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

type updateStatusRequest struct {
	Status     string `json:"status"`
	Notes      string `json:"notes,omitempty"`
	ReviewedBy string `json:"reviewedBy,omitempty"`
}

func (s *Server) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err := s.adminStore.UpdateStatus(r.Context(), chi.URLParam(r, "ref"),
		req.Status, req.Notes, req.ReviewedBy)
	switch {
	case errors.Is(err, admin.ErrApplicationNotFound):
		writeError(w, http.StatusNotFound, "application not found")
	case err != nil:
		if isValidationError(err) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.logger.WithError(err).Error("status update failed", nil)
		writeError(w, http.StatusInternalServerError, "failed to update status")
	default:
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.adminStore.Stats(r.Context())
	if err != nil {
		s.logger.WithError(err).Error("stats query failed", nil)
		writeError(w, http.StatusInternalServerError, "failed to fetch dashboard statistics")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleRecent(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	recent, err := s.adminStore.Recent(r.Context(), limit)
	if err != nil {
		s.logger.WithError(err).Error("recent query failed", nil)
		writeError(w, http.StatusInternalServerError, "failed to fetch recent applications")
		return
	}
	writeJSON(w, http.StatusOK, recent)
}

func (s *Server) handleExportApplications(w http.ResponseWriter, r *http.Request) {
	csvBytes, err := s.adminStore.ExportCSV(r.Context(), listFilterFrom(r))
	if err != nil {
		s.logger.WithError(err).Error("export failed", nil)
		writeError(w, http.StatusInternalServerError, "failed to export applications")
		return
	}

	filename := "hauler-applications-" + time.Now().UTC().Format("2006-01-02") + ".csv"
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(csvBytes)
}

func listFilterFrom(r *http.Request) admin.ListFilter {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))
	return admin.ListFilter{
		Status: q.Get("status"),
		Search: q.Get("search"),
		Page:   page,
		Limit:  limit,
	}
}

// ==========================
// Response Helpers
// ==========================

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func isValidationError(err error) bool {
	var stdErr *stderrors.StandardError
	return errors.As(err, &stdErr) && stdErr.Code == stderrors.ErrCodeValidationFailed
}
