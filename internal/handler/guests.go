package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/hlog"

	"wedding-registry/internal/metrics"
	"wedding-registry/internal/models"
	"wedding-registry/internal/storage"
)

// Route names used for metrics labels
const (
	RouteSave   = "save"
	RouteUpdate = "update"
	RouteLoad   = "load"
	RouteList   = "list"
	RouteStats  = "stats"
)

type GuestHandler struct {
	storage storage.Registry
	metrics *metrics.Metrics
}

// GuestResponse wraps a single guest on the wire
type GuestResponse struct {
	Guest models.Guest `json:"guest"`
}

// ListResponse wraps the alphabetical guest list on the wire
type ListResponse struct {
	Guests []models.Guest `json:"guests"`
}

// StatsResponse wraps the aggregate counts on the wire
type StatsResponse struct {
	Stats models.GuestStatistics `json:"stats"`
}

// NewGuestHandler creates a new guest handler. m may be nil.
func NewGuestHandler(registry storage.Registry, m *metrics.Metrics) *GuestHandler {
	return &GuestHandler{
		storage: registry,
		metrics: m,
	}
}

// Register mounts the API routes on r
func (h *GuestHandler) Register(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Post("/save", h.SaveGuest)
		r.Post("/update", h.UpdateGuest)
		r.Get("/load", h.LoadGuest)
		r.Get("/list", h.ListGuests)
		r.Get("/stats", h.GuestStats)
	})
}

// SaveGuest adds a brand new guest with only name, side and family set
func (h *GuestHandler) SaveGuest(w http.ResponseWriter, r *http.Request) {
	body, err := decodeBody(w, r)
	if err != nil {
		h.badBody(w, r, RouteSave, err)
		return
	}

	guest, err := models.ParseNewGuest(body)
	if err != nil {
		h.reject(w, r, RouteSave, err.Error())
		return
	}

	saved, err := h.storage.Insert(r.Context(), guest)
	if errors.Is(err, storage.ErrAlreadyExists) {
		h.reject(w, r, RouteSave, storage.AlreadyEnteredMessage(guest.Name))
		return
	}
	if err != nil {
		h.fail(w, r, RouteSave, err)
		return
	}

	hlog.FromRequest(r).Info().Str("guest", saved.Name).Str("side", string(saved.Side)).Msg("Guest saved")
	h.ok(w, r, RouteSave, GuestResponse{Guest: saved})
}

// UpdateGuest fully replaces an existing guest's details
func (h *GuestHandler) UpdateGuest(w http.ResponseWriter, r *http.Request) {
	body, err := decodeBody(w, r)
	if err != nil {
		h.badBody(w, r, RouteUpdate, err)
		return
	}

	guest, err := models.ParseGuest(body)
	if err != nil {
		h.reject(w, r, RouteUpdate, err.Error())
		return
	}

	updated, err := h.storage.Replace(r.Context(), guest)
	if errors.Is(err, storage.ErrNotFound) {
		h.reject(w, r, RouteUpdate, storage.MustExistMessage(guest.Name))
		return
	}
	if err != nil {
		h.fail(w, r, RouteUpdate, err)
		return
	}

	hlog.FromRequest(r).Info().
		Str("guest", updated.Name).
		Stringer("plus_one", updated.PlusOneStatus()).
		Msg("Guest updated")
	h.ok(w, r, RouteUpdate, GuestResponse{Guest: updated})
}

// LoadGuest looks up a guest by the first "name" query value
func (h *GuestHandler) LoadGuest(w http.ResponseWriter, r *http.Request) {
	values, ok := r.URL.Query()["name"]
	if !ok || len(values) == 0 {
		h.reject(w, r, RouteLoad, "missing 'name' query parameter")
		return
	}
	name := values[0]

	guest, err := h.storage.Get(r.Context(), name)
	if errors.Is(err, storage.ErrNotFound) {
		h.reject(w, r, RouteLoad, storage.NoGuestMessage(name))
		return
	}
	if err != nil {
		h.fail(w, r, RouteLoad, err)
		return
	}

	h.ok(w, r, RouteLoad, GuestResponse{Guest: guest})
}

// ListGuests returns every guest in alphabetical order
func (h *GuestHandler) ListGuests(w http.ResponseWriter, r *http.Request) {
	guests, err := h.list(r)
	if err != nil {
		h.fail(w, r, RouteList, err)
		return
	}
	h.ok(w, r, RouteList, ListResponse{Guests: guests})
}

// GuestStats returns the per-side headcount for the current list
func (h *GuestHandler) GuestStats(w http.ResponseWriter, r *http.Request) {
	guests, err := h.list(r)
	if err != nil {
		h.fail(w, r, RouteStats, err)
		return
	}
	h.ok(w, r, RouteStats, StatsResponse{Stats: models.ComputeStatistics(guests)})
}

func (h *GuestHandler) list(r *http.Request) ([]models.Guest, error) {
	guests, err := h.storage.List(r.Context())
	if err != nil {
		return nil, err
	}
	if h.metrics != nil {
		h.metrics.SetGuests(len(guests))
		stats := models.ComputeStatistics(guests)
		for _, side := range models.Sides {
			s := stats.For(side)
			h.metrics.SetHeadcount(string(side), "confirmed", s.Confirmed)
			h.metrics.SetHeadcount(string(side), "family", s.Family)
			h.metrics.SetHeadcount(string(side), "potential", s.Potential)
		}
	}
	return guests, nil
}

// maxBodyBytes caps request bodies; a guest record is a few hundred bytes
const maxBodyBytes = 64 << 10

var (
	errInvalidJSON  = errors.New("request body is not valid JSON")
	errBodyTooLarge = errors.New("request body too large")
)

// decodeBody reads the whole request body as a single untyped JSON value.
// An empty body decodes to an empty record so validation reports the first
// missing field. Anything after the first value makes the body invalid.
func decodeBody(w http.ResponseWriter, r *http.Request) (any, error) {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))

	var body any
	if err := dec.Decode(&body); err != nil {
		if errors.Is(err, io.EOF) {
			return map[string]any{}, nil
		}
		return nil, bodyError(err)
	}
	var trailing json.RawMessage
	if err := dec.Decode(&trailing); !errors.Is(err, io.EOF) {
		return nil, bodyError(err)
	}
	return body, nil
}

// bodyError maps a decode failure to the reply error; err may be nil when
// a second JSON value followed the first
func bodyError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return errBodyTooLarge
	}
	return errInvalidJSON
}

func (h *GuestHandler) badBody(w http.ResponseWriter, r *http.Request, route string, err error) {
	if errors.Is(err, errBodyTooLarge) {
		h.observe(route, metrics.OutcomeRejected)
		writeText(w, http.StatusRequestEntityTooLarge, err.Error())
		return
	}
	h.reject(w, r, route, err.Error())
}

func (h *GuestHandler) ok(w http.ResponseWriter, r *http.Request, route string, payload any) {
	h.observe(route, metrics.OutcomeOK)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		hlog.FromRequest(r).Error().Err(err).Str("route", route).Msg("Error writing response")
	}
}

func (h *GuestHandler) reject(w http.ResponseWriter, r *http.Request, route, reason string) {
	h.observe(route, metrics.OutcomeRejected)
	hlog.FromRequest(r).Debug().Str("route", route).Str("reason", reason).Msg("Request rejected")
	writeText(w, http.StatusBadRequest, reason)
}

func (h *GuestHandler) fail(w http.ResponseWriter, r *http.Request, route string, err error) {
	h.observe(route, metrics.OutcomeError)
	hlog.FromRequest(r).Error().Err(err).Str("route", route).Msg("Error handling request")
	writeText(w, http.StatusInternalServerError, "internal error")
}

func (h *GuestHandler) observe(route, outcome string) {
	if h.metrics != nil {
		h.metrics.ObserveRequest(route, outcome)
	}
}

func writeText(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, msg)
}
