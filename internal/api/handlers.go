package api

import (
	"net/http"
	"strconv"

	"github.com/gibbs-bakehouse/stampcard/internal/loyalty"
)

// Health handles GET /healthz.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetBakery handles GET /bakery.
func (h *Handler) GetBakery(w http.ResponseWriter, r *http.Request) {
	JSON(w, http.StatusOK, h.engine.Bakery())
}

// SpecialsToday handles GET /specials/today.
func (h *Handler) SpecialsToday(w http.ResponseWriter, r *http.Request) {
	specials := h.engine.SpecialsToday()
	if specials == nil {
		specials = []loyalty.Special{}
	}
	JSON(w, http.StatusOK, specials)
}

// AddSpecial handles POST /specials.
func (h *Handler) AddSpecial(w http.ResponseWriter, r *http.Request) {
	var in loyalty.SpecialInput
	if !decode(w, r, &in) {
		return
	}
	s, err := h.engine.AddSpecial(r.Context(), gate(r), in)
	h.result(w, r, http.StatusCreated, s, err)
}

// SignInRequest is the body of POST /customers/signin.
type SignInRequest struct {
	Phone string `json:"phone"`
	Name  string `json:"name"`
}

// CardResponse is a customer card, flagged when it was just created.
type CardResponse struct {
	loyalty.Card
	Created bool `json:"created,omitempty"`
}

// SignIn handles POST /customers/signin.
// A new card is 201 Created; a returning customer is 200.
func (h *Handler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req SignInRequest
	if !decode(w, r, &req) {
		return
	}
	c, created, err := h.engine.SignIn(r.Context(), req.Phone, req.Name)
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	h.result(w, r, status, CardResponse{Card: h.engine.Card(c), Created: created}, err)
}

// Lookup handles GET /customers/lookup?q=.
func (h *Handler) Lookup(w http.ResponseWriter, r *http.Request) {
	c, err := h.engine.Lookup(r.URL.Query().Get("q"))
	if err != nil {
		h.result(w, r, 0, nil, err)
		return
	}
	JSON(w, http.StatusOK, CardResponse{Card: h.engine.Card(c)})
}

// StampRequest is the body of POST /staff/stamp.
type StampRequest struct {
	Query  string  `json:"query"`
	Amount float64 `json:"amount"`
}

// AddStamp handles POST /staff/stamp.
func (h *Handler) AddStamp(w http.ResponseWriter, r *http.Request) {
	var req StampRequest
	if !decode(w, r, &req) {
		return
	}
	c, err := h.engine.AddStamp(r.Context(), gate(r), req.Query, req.Amount)
	h.result(w, r, http.StatusOK, CardResponse{Card: h.engine.Card(c)}, err)
}

// RedeemRequest is the body of POST /staff/redeem.
type RedeemRequest struct {
	Query string `json:"query"`
}

// RedeemResponse is the card after a redemption and the discount to apply.
type RedeemResponse struct {
	loyalty.Card
	DiscountPercent int `json:"discountPercent"`
}

// Redeem handles POST /staff/redeem.
func (h *Handler) Redeem(w http.ResponseWriter, r *http.Request) {
	var req RedeemRequest
	if !decode(w, r, &req) {
		return
	}
	c, discount, err := h.engine.Redeem(r.Context(), gate(r), req.Query)
	h.result(w, r, http.StatusOK, RedeemResponse{Card: h.engine.Card(c), DiscountPercent: discount}, err)
}

// Activity handles GET /admin/activity?limit=.
func (h *Handler) Activity(w http.ResponseWriter, r *http.Request) {
	limit := loyalty.RecentActivityDisplay
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			h.result(w, r, 0, nil, loyalty.NewValidationError("limit", "limit must be a non-negative integer"))
			return
		}
		limit = n
	}
	entries := h.engine.Activity(limit)
	if entries == nil {
		entries = []loyalty.ActivityEntry{}
	}
	JSON(w, http.StatusOK, entries)
}

// GetSettings handles GET /admin/settings. The PIN is never returned.
func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	JSON(w, http.StatusOK, h.engine.Settings().Public())
}

// PutSettings handles PUT /admin/settings.
// Fields missing from the body keep their current value.
func (h *Handler) PutSettings(w http.ResponseWriter, r *http.Request) {
	s := h.engine.Settings()
	if !decode(w, r, &s) {
		return
	}
	saved, err := h.engine.SaveSettings(r.Context(), gate(r), s)
	h.result(w, r, http.StatusOK, saved.Public(), err)
}
