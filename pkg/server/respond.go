package server

import (
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/matzehuels/slidecraft/pkg/errors"
	"github.com/matzehuels/slidecraft/pkg/session"
)

// maxBody bounds request bodies; prompts are at most 2000 characters.
const maxBody = 1 << 20

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// StatusFor maps an error code to an HTTP status.
func StatusFor(err error) int {
	code := errors.GetCode(err)
	switch {
	case stderrors.Is(err, session.ErrNotFound) || errors.IsNotFound(err):
		return http.StatusNotFound
	case errors.IsInvalid(err) || code == errors.ErrCodeUnsupported:
		return http.StatusBadRequest
	case code == errors.ErrCodeQuotaExceeded || code == errors.ErrCodeRateLimited:
		return http.StatusTooManyRequests
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusFor(err)
	msg := errors.UserMessage(err)
	if stderrors.Is(err, session.ErrNotFound) && errors.GetCode(err) == "" {
		msg = "Session not found"
	}
	if status >= http.StatusInternalServerError {
		s.Logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
	}
	writeJSON(w, status, errorBody{Error: msg})
}

func decode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody))
	if err := dec.Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request body")
	}
	return nil
}
