package cache

import (
	"sync"
	"time"

	"github.com/rinhabackend/pessoas-api/internal/metrics"
	"github.com/rinhabackend/pessoas-api/internal/models"
)

// searchTTL bounds how long a BySearch entry stays valid. spec.md caps this
// at 60s; 20s is chosen to keep staleness well under the write-absorption
// window while still absorbing bursts of identical search terms.
const searchTTL = 20 * time.Second

// Index is the multi-index in-memory cache (C2): ById serves GET
// /pessoas/{id} without touching the store, HandleSeen answers the
// uniqueness question for C1 without a store round trip, and BySearch
// absorbs repeated identical search terms for a short TTL.
type Index struct {
	byID       sync.Map // id (string) -> models.Record
	handleSeen sync.Map // apelido (string) -> struct{}
	bySearch   Cacher
}

// NewIndex builds the three-map cache described in spec.md §4.2.
func NewIndex() *Index {
	return &Index{bySearch: New(searchTTL)}
}

// PutID stores or overwrites a record under its ID.
func (idx *Index) PutID(rec models.Record) {
	idx.byID.Store(rec.ID, rec)
	metrics.CacheSize.WithLabelValues("id").Inc()
}

// GetID returns the cached record for an ID, if present.
func (idx *Index) GetID(id string) (models.Record, bool) {
	v, ok := idx.byID.Load(id)
	if !ok {
		metrics.CacheMisses.WithLabelValues("id").Inc()
		return models.Record{}, false
	}
	metrics.CacheHits.WithLabelValues("id").Inc()
	return v.(models.Record), true
}

// ClaimHandle atomically checks-and-reserves an apelido. It reports true if
// the handle was free and is now claimed by the caller, false if another
// caller already holds it. This is the single atomic primitive spec.md §4.2
// and §9 require in place of a separate contains-then-insert pair: two
// goroutines racing the same apelido can never both observe "free".
func (idx *Index) ClaimHandle(apelido string) bool {
	_, loaded := idx.handleSeen.LoadOrStore(apelido, struct{}{})
	return !loaded
}

// ReleaseHandle frees a previously claimed apelido. Used when a claimed
// handle must be rolled back — e.g. minting the record's ID fails after
// the create handler already claimed the handle.
func (idx *Index) ReleaseHandle(apelido string) {
	idx.handleSeen.Delete(apelido)
}

// GetSearch returns the cached result set for a raw search term.
func (idx *Index) GetSearch(term string) ([]models.Record, bool) {
	v, ok := idx.bySearch.Get(term)
	if !ok {
		metrics.CacheMisses.WithLabelValues("search").Inc()
		return nil, false
	}
	metrics.CacheHits.WithLabelValues("search").Inc()
	return v.([]models.Record), true
}

// PutSearch caches a result set for a raw search term.
func (idx *Index) PutSearch(term string, results []models.Record) {
	idx.bySearch.Set(term, results)
	metrics.CacheSize.WithLabelValues("search").Set(float64(idx.bySearch.GetStats().TotalKeys))
}
