// Package subscriber implements the viewer side of live tracking: it applies
// the raw payload stream from the live store and exposes the current marker
// position, a display-only trail and the feed state.
package subscriber

import (
	"encoding/json"
	"sync"

	"github.com/velogo/bike-rental-service/internal/core/domain"
)

type State string

const (
	// StateAwaiting means no fix has arrived yet (ride not started, or the
	// key was already absent on subscribe).
	StateAwaiting State = "awaiting_signal"
	StateLive     State = "live"
	// StateEnded means the live key was cleared: tracking is over.
	StateEnded State = "ended"
)

// Watcher keeps the last delivered fix for one ride. Fixes may arrive out of
// chronological order; last delivered wins. Malformed payloads are dropped.
// The trail exists purely for display and is not an authoritative path.
type Watcher struct {
	mu     sync.RWMutex
	latest *domain.LiveFix
	trail  []domain.LiveFix
	state  State
}

func NewWatcher() *Watcher {
	return &Watcher{state: StateAwaiting}
}

// Apply consumes one raw payload from the live feed. A null payload is the
// tombstone published on key deletion and flips the watcher to StateEnded.
// Returns true when the payload changed the watcher's view.
func (w *Watcher) Apply(raw []byte) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state == StateEnded {
		return false
	}

	if len(raw) == 0 || string(raw) == "null" {
		w.state = StateEnded
		return true
	}

	// A payload without coordinates is malformed and ignored rather than
	// rendered as a marker at (0,0). Null coordinates count as absent.
	var probe struct {
		Lat *float64 `json:"lat"`
		Lng *float64 `json:"lng"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return false
	}
	if probe.Lat == nil || probe.Lng == nil {
		return false
	}

	var fix domain.LiveFix
	if err := json.Unmarshal(raw, &fix); err != nil {
		return false
	}

	w.latest = &fix
	w.trail = append(w.trail, fix)
	w.state = StateLive
	return true
}

func (w *Watcher) Latest() *domain.LiveFix {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.latest
}

func (w *Watcher) State() State {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.state
}

func (w *Watcher) Trail() []domain.LiveFix {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]domain.LiveFix, len(w.trail))
	copy(out, w.trail)
	return out
}
