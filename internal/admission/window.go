package admission

import (
	"sync"
	"time"

	"github.com/mbd888/hispayment/internal/clock"
)

type fingerprintEntry struct {
	key       string
	createdAt time.Time
}

// DuplicateWindow remembers request fingerprints for a fixed ttl.
//
// entries is ordered by insertion, and because the clock is read under mu
// insertion order is also creation order. Eviction relies on that: it trims
// the expired prefix and stops at the first live entry.
type DuplicateWindow struct {
	mu      sync.Mutex
	ttl     time.Duration
	clock   clock.Clock
	entries []fingerprintEntry
	live    map[string]time.Time
}

// NewDuplicateWindow creates a window whose entries live for ttl.
func NewDuplicateWindow(ttl time.Duration, clk clock.Clock) *DuplicateWindow {
	if clk == nil {
		clk = clock.Real{}
	}
	return &DuplicateWindow{
		ttl:   ttl,
		clock: clk,
		live:  make(map[string]time.Time),
	}
}

// Admit evicts expired entries, then records key and returns true unless a
// live entry for key already exists. The whole sequence is atomic.
func (w *DuplicateWindow) Admit(key string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	now := w.clock.Now()
	w.evict(now)

	if _, dup := w.live[key]; dup {
		return false
	}
	w.entries = append(w.entries, fingerprintEntry{key: key, createdAt: now})
	w.live[key] = now
	DuplicateWindowSize.Set(float64(len(w.entries)))
	return true
}

// Len returns the number of entries currently held, including any expired
// entries not yet evicted.
func (w *DuplicateWindow) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.entries)
}

// evict drops the expired prefix. An entry expires once ttl has elapsed
// since it was created. Caller holds mu.
func (w *DuplicateWindow) evict(now time.Time) {
	n := 0
	for n < len(w.entries) && now.Sub(w.entries[n].createdAt) >= w.ttl {
		e := w.entries[n]
		if created, ok := w.live[e.key]; ok && created.Equal(e.createdAt) {
			delete(w.live, e.key)
		}
		n++
	}
	if n == 0 {
		return
	}
	// Zero the dropped slots so the backing array does not pin old keys.
	clear(w.entries[:n])
	w.entries = w.entries[n:]
	DuplicateWindowSize.Set(float64(len(w.entries)))
}
