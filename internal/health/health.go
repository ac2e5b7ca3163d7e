// Package health serves the liveness endpoint polled by the hosting platform.
package health

import (
	"encoding/json"
	"net/http"
	"time"

	"pricewatch/internal/monitor"
)

// Reporter exposes the monitor's status.
type Reporter interface {
	Status() monitor.Status
}

type response struct {
	Status      string     `json:"status"`
	Phase       string     `json:"phase"`
	Cycles      int64      `json:"cycles"`
	Failures    int64      `json:"failures"`
	LastSuccess *time.Time `json:"last_success,omitempty"`
}

// NewHandler answers GET / and GET /healthz with {"status":"running",...}.
func NewHandler(r Reporter) http.Handler {
	mux := http.NewServeMux()
	h := func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodGet && req.Method != http.MethodHead {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		s := r.Status()
		resp := response{
			Status:   "running",
			Phase:    s.Phase.String(),
			Cycles:   s.Cycles,
			Failures: s.Failures,
		}
		if !s.LastSuccess.IsZero() {
			ts := s.LastSuccess.UTC()
			resp.LastSuccess = &ts
		}
		w.WriteHeader(http.StatusOK)
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		_ = enc.Encode(resp)
	}
	mux.HandleFunc("/healthz", h)
	mux.HandleFunc("/{$}", h)
	return withJSONHeaders(recoverPanic(mux))
}

// NewServer wraps NewHandler with the listener timeouts used in production.
func NewServer(port string, r Reporter) *http.Server {
	return &http.Server{
		Addr:              ":" + port,
		Handler:           NewHandler(r),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}

func withJSONHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		next.ServeHTTP(w, r)
	})
}

// recoverPanic protects handlers from panics.
func recoverPanic(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				http.Error(w, "internal server error", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
