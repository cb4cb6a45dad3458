// Package api implements the HTTP surface (C5): four handlers wired to the
// multi-index cache (C2), the ingest queue (C3), and the store adapter (C6).
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/rinhabackend/pessoas-api/internal/logging"
	"github.com/rinhabackend/pessoas-api/internal/models"
	"github.com/rinhabackend/pessoas-api/internal/validation"
)

// Cache is the subset of the multi-index cache (C2) the handlers depend on.
type Cache interface {
	PutID(rec models.Record)
	GetID(id string) (models.Record, bool)
	ClaimHandle(apelido string) bool
	ReleaseHandle(apelido string)
	GetSearch(term string) ([]models.Record, bool)
	PutSearch(term string, results []models.Record)
}

// Queue is the subset of the ingest queue (C3) the handlers depend on.
type Queue interface {
	Push(rec models.Record) error
}

// Store is the subset of the store adapter (C6) the handlers depend on.
type Store interface {
	GetByID(ctx context.Context, id string) (models.Record, bool, error)
	SearchByTerm(ctx context.Context, term string) ([]models.Record, error)
	Count(ctx context.Context) (int64, error)
}

// Handlers owns the dependencies C5 hands requests off to.
type Handlers struct {
	cache Cache
	queue Queue
	store Store
}

// New builds the request handlers for the pessoa HTTP surface.
func New(cache Cache, queue Queue, store Store) *Handlers {
	return &Handlers{cache: cache, queue: queue, store: store}
}

// Create implements POST /pessoas (C5 create).
func (h *Handlers) Create(w http.ResponseWriter, r *http.Request) {
	var in models.CreateInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		status, body := errMalformed("request body is not valid JSON", nil)
		writeError(w, status, body)
		return
	}

	if verrs := validation.ValidateStruct(in); verrs != nil {
		apiErr := verrs.ToAPIError()
		status, body := errMalformed(apiErr.Message, apiErr.Details)
		writeError(w, status, body)
		return
	}

	if !h.cache.ClaimHandle(in.Apelido) {
		status, body := errConflict("apelido is already in use")
		writeError(w, status, body)
		return
	}

	id, err := models.NewID()
	if err != nil {
		h.cache.ReleaseHandle(in.Apelido)
		logging.Ctx(r.Context()).Error().Err(err).Msg("api: failed to mint id")
		status, body := errInternal("failed to create record")
		writeError(w, status, body)
		return
	}

	rec := in.ToRecord(id, time.Now().UTC())
	h.cache.PutID(rec)

	if err := h.queue.Push(rec); err != nil {
		// The record is already visible via ById; the queue push failing
		// here only affects eventual durability, not the reply contract.
		logging.Ctx(r.Context()).Error().Err(err).Str("id", id).Msg("api: failed to enqueue record for flush")
	}

	w.Header().Set("Location", "/pessoas/"+id)
	writeJSON(w, http.StatusCreated, rec)
}

// GetByID implements GET /pessoas/{id} (C5 get).
func (h *Handlers) GetByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if rec, ok := h.cache.GetID(id); ok {
		writeJSON(w, http.StatusOK, rec)
		return
	}

	rec, found, err := h.store.GetByID(r.Context(), id)
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Str("id", id).Msg("api: store lookup failed")
		status, body := errInternal("failed to look up record")
		writeError(w, status, body)
		return
	}
	if !found {
		status, body := errNotFound("no record with that id")
		writeError(w, status, body)
		return
	}

	h.cache.PutID(rec)
	writeJSON(w, http.StatusOK, rec)
}

// Search implements GET /pessoas?t=<term> (C5 search).
func (h *Handlers) Search(w http.ResponseWriter, r *http.Request) {
	term := r.URL.Query().Get("t")
	if term == "" {
		status, body := errMalformed("query parameter t is required", nil)
		writeError(w, status, body)
		return
	}

	if results, ok := h.cache.GetSearch(term); ok {
		writeJSON(w, http.StatusOK, results)
		return
	}

	results, err := h.store.SearchByTerm(r.Context(), term)
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Str("term", term).Msg("api: store search failed")
		status, body := errInternal("failed to search records")
		writeError(w, status, body)
		return
	}
	if results == nil {
		results = []models.Record{}
	}

	go h.cache.PutSearch(term, results)
	writeJSON(w, http.StatusOK, results)
}

// Count implements GET /contagem-pessoas (C5 count).
func (h *Handlers) Count(w http.ResponseWriter, r *http.Request) {
	n, err := h.store.Count(r.Context())
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("api: store count failed")
		status, body := errInternal("failed to count records")
		writeError(w, status, body)
		return
	}
	writeJSON(w, http.StatusOK, n)
}
