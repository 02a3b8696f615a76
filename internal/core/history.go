package core

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jellydator/ttlcache/v3"
)

// ErrImportNotFound is returned for unknown or expired import IDs.
var ErrImportNotFound = errors.New("import not found")

// ImportRecord is the retained outcome of one import.
type ImportRecord struct {
	ID         string       `json:"id"`
	FileName   string       `json:"fileName,omitempty"`
	StartedAt  time.Time    `json:"startedAt"`
	DurationMs int64        `json:"durationMs"`
	Result     ImportResult `json:"result"`
}

// ImportHistory keeps import results for a fixed time after completion.
type ImportHistory struct {
	cache *ttlcache.Cache[string, ImportRecord]
	newID func() string
}

// NewImportHistory starts a history whose entries expire after ttl.
// Call Close to stop the expiry loop.
func NewImportHistory(ttl time.Duration) *ImportHistory {
	cache := ttlcache.New[string, ImportRecord](
		ttlcache.WithTTL[string, ImportRecord](ttl),
		ttlcache.WithDisableTouchOnHit[string, ImportRecord](),
	)
	go cache.Start()

	return &ImportHistory{
		cache: cache,
		newID: uuid.NewString,
	}
}

// Record stores result under a new import ID.
func (h *ImportHistory) Record(fileName string, startedAt time.Time, result ImportResult) ImportRecord {
	rec := ImportRecord{
		ID:         h.newID(),
		FileName:   fileName,
		StartedAt:  startedAt,
		DurationMs: time.Since(startedAt).Milliseconds(),
		Result:     result,
	}
	h.cache.Set(rec.ID, rec, ttlcache.DefaultTTL)
	return rec
}

// Lookup returns a retained import record.
func (h *ImportHistory) Lookup(id string) (ImportRecord, error) {
	item := h.cache.Get(id)
	if item == nil {
		return ImportRecord{}, ErrImportNotFound
	}
	return item.Value(), nil
}

// Len returns the number of retained records.
func (h *ImportHistory) Len() int {
	return h.cache.Len()
}

// Close stops the expiry loop.
func (h *ImportHistory) Close() {
	h.cache.Stop()
}
