// Package tracker implements the in-process ingestion state tracker (C10):
// a concurrency-safe registry of in-flight and recently-finished
// process_profile runs, with TTL eviction. It is deliberately in-memory —
// progress visibility does not need to survive a restart (§4.9).
package tracker

import (
	"sync"
	"time"

	"github.com/jexpert/profile-enrichment/internal/domain"
)

// DefaultTTL is how long a terminal record is retained before eviction.
const DefaultTTL = time.Hour

// DefaultSweepInterval is how often the eviction sweep runs.
const DefaultSweepInterval = time.Minute

// Tracker holds IngestionRecord snapshots keyed by request id, mirroring
// the shape of the rate limiter's in-memory fallback (sync.Map guarded by
// a light wrapper rather than a single coarse mutex, so readers polling
// GET /requests/{id} never block a concurrent ingestion from updating its
// own entry).
type Tracker struct {
	records sync.Map // requestID -> *entry
	ttl     time.Duration
}

type entry struct {
	record domain.IngestionRecord
	mu     sync.Mutex
}

func New(ttl time.Duration) *Tracker {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Tracker{ttl: ttl}
}

// Start registers a new running record for requestID.
func (t *Tracker) Start(requestID string, totalSteps int) {
	e := &entry{record: domain.IngestionRecord{
		RequestID:  requestID,
		Status:     domain.RunStatusRunning,
		Stage:      domain.StageProfileFetch,
		TotalSteps: totalSteps,
		StartedAt:  time.Now().UTC(),
	}}
	t.records.Store(requestID, e)
}

// Advance updates the stage/step of a running record. A no-op if the
// record does not exist or has already reached a terminal status.
func (t *Tracker) Advance(requestID string, stage domain.IngestionStage, step int) {
	v, ok := t.records.Load(requestID)
	if !ok {
		return
	}
	e := v.(*entry)
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.record.IsTerminal() {
		return
	}
	e.record.Stage = stage
	e.record.Step = step
}

// SetCounters overwrites the organization counters on a running record.
func (t *Tracker) SetCounters(requestID string, counters domain.IngestionCounters) {
	v, ok := t.records.Load(requestID)
	if !ok {
		return
	}
	e := v.(*entry)
	e.mu.Lock()
	defer e.mu.Unlock()
	e.record.Counters = counters
}

// Succeed marks a record complete with the resulting profile id.
func (t *Tracker) Succeed(requestID, profileID string) {
	t.finish(requestID, domain.RunStatusSuccess, "", "", profileID)
}

// Fail marks a record failed with an error code/message pair matching
// the §7 error taxonomy.
func (t *Tracker) Fail(requestID, errorCode, errorMessage string) {
	t.finish(requestID, domain.RunStatusFailed, errorCode, errorMessage, "")
}

func (t *Tracker) finish(requestID string, status domain.RunStatus, errorCode, errorMessage, profileID string) {
	v, ok := t.records.Load(requestID)
	if !ok {
		return
	}
	e := v.(*entry)
	e.mu.Lock()
	defer e.mu.Unlock()
	now := time.Now().UTC()
	e.record.Status = status
	e.record.Stage = domain.StageCompleted
	e.record.ErrorCode = errorCode
	e.record.ErrorMessage = errorMessage
	if profileID != "" {
		e.record.ProfileID = profileID
	}
	e.record.EndedAt = &now
}

// Get returns a snapshot of the record for requestID, and whether it
// exists.
func (t *Tracker) Get(requestID string) (domain.IngestionRecord, bool) {
	v, ok := t.records.Load(requestID)
	if !ok {
		return domain.IngestionRecord{}, false
	}
	e := v.(*entry)
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.record, true
}

// Sweep evicts terminal records older than the tracker's TTL. Intended to
// be run on a time.Ticker by the caller (cmd/api/main.go).
func (t *Tracker) Sweep() {
	cutoff := time.Now().UTC().Add(-t.ttl)
	t.records.Range(func(key, value interface{}) bool {
		e := value.(*entry)
		e.mu.Lock()
		expired := e.record.IsTerminal() && e.record.EndedAt != nil && e.record.EndedAt.Before(cutoff)
		e.mu.Unlock()
		if expired {
			t.records.Delete(key)
		}
		return true
	})
}

// Run starts a background loop that calls Sweep every
// DefaultSweepInterval and returns when done is closed.
func (t *Tracker) Run(done <-chan struct{}) {
	ticker := time.NewTicker(DefaultSweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			t.Sweep()
		case <-done:
			return
		}
	}
}
