package cachehttp

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/respcache/pkg/cache"
	"github.com/dmitrymomot/respcache/pkg/fingerprint"
	"github.com/dmitrymomot/respcache/pkg/monitor"
)

// maxBodySize bounds management request bodies; options maps are small.
const maxBodySize = 1 << 20

// Controller is the cache surface the handlers drive. A *cache.Cache of
// any value type satisfies it.
type Controller interface {
	Stats() cache.Stats
	Invalidate(primary string, options map[string]any) (bool, error)
	Clear() int
	SweepExpired() int
}

// Advisor contributes monitor data to the stats and recommendations
// endpoints. A *monitor.Monitor satisfies it.
type Advisor interface {
	Snapshot() monitor.Snapshot
	Recommendations() []string
}

// Option configures the router.
type Option func(*handler)

// WithAdvisor attaches a performance monitor to the read endpoints.
func WithAdvisor(a Advisor) Option {
	return func(h *handler) {
		h.advisor = a
	}
}

type handler struct {
	cache   Controller
	advisor Advisor
}

// Router builds the management router for the given cache. Mount it under
// any chi or net/http mux.
func Router(c Controller, opts ...Option) chi.Router {
	h := &handler{cache: c}
	for _, opt := range opts {
		opt(h)
	}

	r := chi.NewRouter()
	r.Get("/stats", h.stats)
	r.Get("/recommendations", h.recommendations)
	r.Post("/invalidate", h.invalidate)
	r.Post("/clear", h.clear)
	r.Post("/sweep", h.sweep)
	return r
}

type statsPayload struct {
	Cache   cache.Stats       `json:"cache"`
	Monitor *monitor.Snapshot `json:"monitor,omitempty"`
}

func (h *handler) stats(w http.ResponseWriter, _ *http.Request) {
	payload := statsPayload{Cache: h.cache.Stats()}
	if h.advisor != nil {
		snap := h.advisor.Snapshot()
		payload.Monitor = &snap
	}
	writeJSON(w, http.StatusOK, payload)
}

type recommendationsPayload struct {
	Recommendations []string `json:"recommendations"`
}

func (h *handler) recommendations(w http.ResponseWriter, _ *http.Request) {
	payload := recommendationsPayload{Recommendations: []string{}}
	if h.advisor != nil {
		payload.Recommendations = h.advisor.Recommendations()
	}
	writeJSON(w, http.StatusOK, payload)
}

type invalidateRequest struct {
	Primary string         `json:"primary"`
	Options map[string]any `json:"options"`
}

type invalidatePayload struct {
	Invalidated bool `json:"invalidated"`
}

func (h *handler) invalidate(w http.ResponseWriter, r *http.Request) {
	var req invalidateRequest
	body := http.MaxBytesReader(w, r.Body, maxBodySize)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "request body must be a JSON object with primary and options")
		return
	}

	invalidated, err := h.cache.Invalidate(req.Primary, req.Options)
	if err != nil {
		if errors.Is(err, fingerprint.ErrUnsupportedValue) {
			writeError(w, http.StatusBadRequest, "key_derivation_failed", err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, invalidatePayload{Invalidated: invalidated})
}

type clearPayload struct {
	Removed int `json:"removed"`
}

func (h *handler) clear(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, clearPayload{Removed: h.cache.Clear()})
}

type sweepPayload struct {
	Swept int `json:"swept"`
}

func (h *handler) sweep(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, sweepPayload{Swept: h.cache.SweepExpired()})
}
