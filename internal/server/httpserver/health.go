package httpserver

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/yndnr/memkv-go/internal/infra/buildinfo"
)

type healthResponse struct {
	Status string         `json:"status"`
	Time   string         `json:"time"`
	Build  buildinfo.Info `json:"build"`
}

type readyResponse struct {
	Status string `json:"status"`
	Time   string `json:"time"`
}

// handleHealth handles GET /health.
func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status: "healthy",
		Time:   time.Now().UTC().Format(time.RFC3339),
		Build:  buildinfo.Get(),
	})
}

// handleReady returns a GET /ready handler. A nil ready func always
// reports ready.
func handleReady(ready func() bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status, code := "ready", http.StatusOK
		if ready != nil && !ready() {
			status, code = "not_ready", http.StatusServiceUnavailable
		}
		writeJSON(w, code, readyResponse{
			Status: status,
			Time:   time.Now().UTC().Format(time.RFC3339),
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
