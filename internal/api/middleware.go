package api

import (
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/gibbs-bakehouse/stampcard/internal/loyalty"
)

// gate returns the request's PIN as a ledger gate.
func gate(r *http.Request) loyalty.Gate {
	return loyalty.PIN(r.Header.Get(PINHeader))
}

// requirePIN rejects requests whose PIN does not match the settings in force.
func (h *Handler) requirePIN(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !gate(r).Authorized(h.engine.Settings()) {
			h.result(w, r, 0, nil, loyalty.NewUnauthorizedError())
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requestLog logs each request at debug with its status and duration.
func (h *Handler) requestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		h.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", chimw.GetReqID(r.Context()),
		)
	})
}
