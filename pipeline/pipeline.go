// Package pipeline implements the bounded in-flight frame queue between
// the Producer and the Worker (§4.6): admission with a timeout,
// drop-on-full backpressure, and the InFlightTable/processed_frames
// bookkeeping that pairs a frame with its eventual detection result.
package pipeline

import (
	"encoding/json"
	"strconv"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
)

// Defaults from §4.6/§5.
const (
	DefaultCapacity        = 5
	DefaultAdmissionTimeout = 100 * time.Millisecond

	// DefaultMaxInFlightAge bounds how long an admitted-but-unresolved
	// frame may occupy a slot before it's evicted as EXPIRED. §4.6 names
	// this requirement ("or by age-based eviction") without pinning a
	// number for the in-flight entry itself (only for processed_frames);
	// this is an implementation choice, recorded in DESIGN.md's Open
	// Question decisions.
	DefaultMaxInFlightAge = 10 * time.Second

	// DefaultProcessedTTL matches §4.6's "age > 30 s" bound for the
	// processed_frames cache.
	DefaultProcessedTTL = 30 * time.Second
)

// Entry is one InFlightTable record.
type Entry struct {
	FrameID           uint32
	ArrivedAt         time.Time
	OriginalTimestamp float64
}

// Result is a resolved detection, cached in processed_frames keyed by
// frame_id so a late-arriving duplicate result is still answerable.
type Result struct {
	Detections     json.RawMessage
	ProcessingTime float64
	ResolvedAt     time.Time
}

// Pipeline owns Q_inflight (modeled as a channel-backed semaphore: a
// send acquires a slot, a receive releases one), the InFlightTable, and
// the processed_frames cache.
type Pipeline struct {
	slots            chan struct{}
	admissionTimeout time.Duration
	maxInFlightAge   time.Duration

	mu    sync.Mutex
	table map[uint32]Entry

	processed *cache.Cache
}

// New constructs a Pipeline. capacity is Q_inflight's bound (5 by
// default); admissionTimeout is T_adm (100 ms by default).
func New(capacity int, admissionTimeout, maxInFlightAge, processedTTL time.Duration) *Pipeline {
	return &Pipeline{
		slots:            make(chan struct{}, capacity),
		admissionTimeout: admissionTimeout,
		maxInFlightAge:   maxInFlightAge,
		table:            make(map[uint32]Entry),
		processed:        cache.New(processedTTL, 2*processedTTL),
	}
}

// Len reports the current InFlightTable size (for metrics/tests).
func (p *Pipeline) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.table)
}

// Admit attempts to acquire a Q_inflight slot for frameID within the
// pipeline's admission timeout. On success it records the descriptor in
// the InFlightTable and returns true; on timeout it returns false and
// the caller drops the frame (§4.6 step 2).
func (p *Pipeline) Admit(frameID uint32, timestamp float64) bool {
	select {
	case p.slots <- struct{}{}:
	case <-time.After(p.admissionTimeout):
		return false
	}
	p.mu.Lock()
	p.table[frameID] = Entry{FrameID: frameID, ArrivedAt: time.Now(), OriginalTimestamp: timestamp}
	p.mu.Unlock()
	return true
}

// Abandon releases frameID's slot without producing a result: used when
// the send to the Worker fails right after admission (§4.6 step 3).
func (p *Pipeline) Abandon(frameID uint32) {
	p.removeEntry(frameID)
}

// Resolve pairs an incoming processed_frame result with its
// InFlightTable entry (if still present — a late result for an already
// evicted or never-admitted frame is still cached and reported, just
// without an original Entry). It frees the frame's Q_inflight slot and
// stores the result in processed_frames.
func (p *Pipeline) Resolve(frameID uint32, detections json.RawMessage, processingTime float64) (entry Entry, wasInFlight bool) {
	entry, wasInFlight = p.removeEntry(frameID)
	p.processed.Set(key(frameID), Result{
		Detections:     detections,
		ProcessingTime: processingTime,
		ResolvedAt:     time.Now(),
	}, cache.DefaultExpiration)
	return entry, wasInFlight
}

// Processed looks up a previously resolved result by frame_id.
func (p *Pipeline) Processed(frameID uint32) (Result, bool) {
	v, ok := p.processed.Get(key(frameID))
	if !ok {
		return Result{}, false
	}
	return v.(Result), true
}

// SweepExpired evicts InFlightTable entries older than maxInFlightAge,
// freeing their slots, and returns the evicted frame IDs for logging.
func (p *Pipeline) SweepExpired(now time.Time) []uint32 {
	var expired []uint32
	p.mu.Lock()
	for id, e := range p.table {
		if now.Sub(e.ArrivedAt) > p.maxInFlightAge {
			expired = append(expired, id)
			delete(p.table, id)
		}
	}
	p.mu.Unlock()

	for range expired {
		p.releaseSlot()
	}
	return expired
}

func (p *Pipeline) removeEntry(frameID uint32) (Entry, bool) {
	p.mu.Lock()
	entry, ok := p.table[frameID]
	if ok {
		delete(p.table, frameID)
	}
	p.mu.Unlock()
	if ok {
		p.releaseSlot()
	}
	return entry, ok
}

func (p *Pipeline) releaseSlot() {
	select {
	case <-p.slots:
	default:
		// Nothing to release; Abandon/Resolve can race with SweepExpired
		// over the same entry, but removeEntry's delete guards against
		// releasing twice for the same frame.
	}
}

func key(frameID uint32) string {
	return strconv.FormatUint(uint64(frameID), 10)
}
