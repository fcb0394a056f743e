package web

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/SicilyCialo/kannacs/internal/engine"
)

const (
	ErrTypeValidation = "validation_error"
	ErrTypeNotFound   = "not_found"
	ErrTypeConflict   = "conflict"
	ErrTypeInternal   = "internal_error"
)

// APIError is the JSON body of every non-2xx response.
type APIError struct {
	Type      string `json:"type"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
	Timestamp string `json:"timestamp"`
}

func (e APIError) Error() string { return e.Message }

// classify maps engine errors onto an HTTP status and error type.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, engine.ErrUnknownChoice),
		errors.Is(err, engine.ErrOutOfBounds),
		errors.Is(err, engine.ErrInvalidColor):
		return http.StatusBadRequest, ErrTypeValidation
	case errors.Is(err, engine.ErrUnknownItem):
		return http.StatusNotFound, ErrTypeNotFound
	case errors.Is(err, engine.ErrRoundInProgress):
		return http.StatusConflict, ErrTypeConflict
	default:
		return http.StatusInternalServerError, ErrTypeInternal
	}
}

func (s *Server) handleError(w http.ResponseWriter, r *http.Request, err error) {
	status, typ := classify(err)
	s.writeError(w, r, status, typ, err.Error())
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, typ, message string) {
	reqID := middleware.GetReqID(r.Context())
	level := "WARN"
	if status >= 500 {
		level = "ERROR"
	}
	s.logger.Printf("error_occurred level=%s type=%s status=%d request_id=%s path=%s message=%q",
		level, typ, status, reqID, r.URL.Path, message)
	s.writeJSON(w, status, APIError{
		Type:      typ,
		Message:   message,
		RequestID: reqID,
		Timestamp: s.now().UTC().Format(time.RFC3339),
	})
}
