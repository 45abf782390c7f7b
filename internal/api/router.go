// Package api serves the loyalty ledger over HTTP for a counter tablet.
//
// Public routes cover sign-in, card lookup and the specials board. Staff and
// admin routes take the merchant PIN in the X-Merchant-PIN header; there is
// no server-side session.
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/gibbs-bakehouse/stampcard/internal/engine"
)

// PINHeader carries the merchant PIN on staff and admin requests.
const PINHeader = "X-Merchant-PIN"

// WarningHeader is set when a change was applied but not saved.
const WarningHeader = "X-Stampcard-Warning"

// Handler holds all API handler state.
type Handler struct {
	engine *engine.Engine
	logger *slog.Logger
}

// NewHandler creates a new API handler.
func NewHandler(e *engine.Engine, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{engine: e, logger: logger}
}

// Router returns the complete route tree with middleware.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(h.requestLog)

	h.Routes(r)
	return r
}

// Routes mounts the API routes.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/healthz", h.Health)
	r.Get("/bakery", h.GetBakery)

	r.Get("/specials/today", h.SpecialsToday)
	r.Post("/specials", h.AddSpecial)

	r.Route("/customers", func(r chi.Router) {
		r.Post("/signin", h.SignIn)
		r.Get("/lookup", h.Lookup)
	})

	r.Route("/staff", func(r chi.Router) {
		r.Post("/stamp", h.AddStamp)
		r.Post("/redeem", h.Redeem)
	})

	r.Route("/admin", func(r chi.Router) {
		r.Use(h.requirePIN)
		r.Get("/activity", h.Activity)
		r.Get("/settings", h.GetSettings)
		r.Put("/settings", h.PutSettings)
	})
}
