package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"lightbnb/internal/app"
	"lightbnb/internal/domain"
)

const (
	maxLimit     = 200
	maxBodyBytes = 1 << 20
)

type Handlers struct{ S *app.Service }

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })

	s.mux.Post("/v1/users", h.addUser)
	s.mux.Get("/v1/users", h.getUserByEmail)
	s.mux.Get("/v1/users/{id}", h.getUser)
	s.mux.Get("/v1/users/{id}/reservations", h.listReservations)

	s.mux.Get("/v1/properties", h.searchProperties)
	s.mux.Post("/v1/properties", h.addProperty)
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// writeError maps service errors onto problem responses. Storage details
// stay in the logs.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeProblem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, domain.ErrInvalidFilter):
		writeProblem(w, http.StatusBadRequest, "Invalid filter", err.Error())
	case errors.Is(err, domain.ErrInvalidInput):
		writeProblem(w, http.StatusBadRequest, "Invalid input", err.Error())
	case errors.Is(err, domain.ErrConflict):
		writeProblem(w, http.StatusConflict, "Conflict", "resource already exists")
	default:
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	return `W/"` + hex.EncodeToString(sum[:]) + `"`, body
}

// writeCached writes v with a weak ETag and answers 304 when the client
// already holds it.
func writeCached(w http.ResponseWriter, r *http.Request, v any) {
	etag, body := calcETagAndBody(v)
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Str("path", r.URL.Path).Msg("failed to write body")
	}
}

func writeCreated(w http.ResponseWriter, location string, v any) {
	w.Header().Set("Content-Type", "application/json")
	if location != "" {
		w.Header().Set("Location", location)
	}
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to write created body")
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid body", err.Error())
		return false
	}
	return true
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", "id must be a number")
		return 0, false
	}
	return id, true
}

// queryLimit returns 0 when limit is absent so the service default applies.
func queryLimit(w http.ResponseWriter, q url.Values) (int, bool) {
	ls := q.Get("limit")
	if ls == "" {
		return 0, true
	}
	l, err := strconv.Atoi(ls)
	if err != nil || l <= 0 || l > maxLimit {
		writeProblem(w, http.StatusBadRequest, "Invalid limit", fmt.Sprintf("limit must be an integer between 1 and %d", maxLimit))
		return 0, false
	}
	return l, true
}

func (h *Handlers) addUser(w http.ResponseWriter, r *http.Request) {
	var nu domain.NewUser
	if !decodeBody(w, r, &nu) {
		return
	}
	u, err := h.S.AddUser(r.Context(), nu)
	if err != nil {
		writeError(w, err)
		return
	}
	writeCreated(w, fmt.Sprintf("/v1/users/%d", u.ID), u)
}

func (h *Handlers) getUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	u, err := h.S.GetUserByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeCached(w, r, u)
}

func (h *Handlers) getUserByEmail(w http.ResponseWriter, r *http.Request) {
	u, err := h.S.GetUserByEmail(r.Context(), r.URL.Query().Get("email"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeCached(w, r, u)
}

func (h *Handlers) listReservations(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	limit, ok := queryLimit(w, r.URL.Query())
	if !ok {
		return
	}
	out, err := h.S.GetReservationsForGuest(r.Context(), id, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeCached(w, r, out)
}

// parseFilter sets a pointer field only when its parameter is present.
func parseFilter(q url.Values) (domain.PropertyFilter, error) {
	f := domain.PropertyFilter{City: q.Get("city")}

	if v := q.Get("owner_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return f, fmt.Errorf("%w: owner_id must be an integer", domain.ErrInvalidFilter)
		}
		f.OwnerID = &id
	}
	for _, p := range []struct {
		name string
		dst  **float64
	}{
		{"minimum_price_per_night", &f.MinimumPricePerNight},
		{"maximum_price_per_night", &f.MaximumPricePerNight},
		{"minimum_rating", &f.MinimumRating},
	} {
		v := q.Get(p.name)
		if v == "" {
			continue
		}
		n, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return f, fmt.Errorf("%w: %s must be a number", domain.ErrInvalidFilter, p.name)
		}
		*p.dst = &n
	}
	return f, nil
}

func (h *Handlers) searchProperties(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f, err := parseFilter(q)
	if err != nil {
		writeError(w, err)
		return
	}
	limit, ok := queryLimit(w, q)
	if !ok {
		return
	}
	out, err := h.S.SearchProperties(r.Context(), f, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeCached(w, r, out)
}

func (h *Handlers) addProperty(w http.ResponseWriter, r *http.Request) {
	var np domain.NewProperty
	if !decodeBody(w, r, &np) {
		return
	}
	p, err := h.S.AddProperty(r.Context(), np)
	if err != nil {
		writeError(w, err)
		return
	}
	writeCreated(w, "", p)
}
