package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"musescore/internal/chart"
	"musescore/internal/logging"
	"musescore/internal/scoring"
)

var errNoDataset = errors.New("dataset not loaded")

type errResp struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errResp{Error: msg})
}

// statusFor maps scoring errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, scoring.ErrNotFound), errors.Is(err, chart.ErrNoRegions):
		return http.StatusNotFound
	case errors.Is(err, scoring.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, errNoDataset):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", logging.Err(err), logging.String("path", r.URL.Path))
	}
	writeErr(w, status, err.Error())
}
