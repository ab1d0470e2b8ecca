// SPDX-License-Identifier: MIT
package state

import (
	"math"
	"reflect"
	"sync"

	"github.com/nordav/playcore/internal/metrics"
)

// Filter sanitizes a value before it is compared and stored, e.g. coercing
// non-finite numbers to 0. The sanitized value is what the sink receives.
type Filter func(any) any

// Updater deduplicates and forwards state-key updates to the sink. Each key
// is evaluated independently against the last forwarded value; a key whose
// value is not distinct is dropped from the outgoing update.
type Updater struct {
	mu      sync.Mutex
	sink    Sink
	last    map[Key]any
	filters map[Key]Filter
}

// NewUpdater returns an updater forwarding distinct values to sink.
func NewUpdater(sink Sink) *Updater {
	u := &Updater{
		sink:    sink,
		last:    make(map[Key]any),
		filters: defaultFilters(),
	}
	return u
}

// SetFilter installs a per-key sanitizing filter.
func (u *Updater) SetFilter(key Key, f Filter) {
	u.mu.Lock()
	u.filters[key] = f
	u.mu.Unlock()
}

// Update evaluates each key of partial and forwards the distinct ones as one
// update. No sink call is made when every key is a duplicate.
func (u *Updater) Update(partial Update) {
	u.mu.Lock()
	var out Update
	for key, value := range partial {
		if f, ok := u.filters[key]; ok {
			value = f(value)
		}
		prev, seen := u.last[key]
		if seen && equalValue(prev, value) {
			continue
		}
		u.last[key] = value
		if out == nil {
			out = make(Update, len(partial))
		}
		out[key] = value
		metrics.IncStateUpdate(string(key))
	}
	sink := u.sink
	u.mu.Unlock()

	if len(out) > 0 && sink != nil {
		sink(out)
	}
}

// Reset clears the last-known-value map so the next update forwards every
// key. Called at session boundaries.
func (u *Updater) Reset() {
	u.mu.Lock()
	u.last = make(map[Key]any)
	u.mu.Unlock()
}

// Last returns the last forwarded value for a key. Intended for tests and
// the snapshot endpoint.
func (u *Updater) Last(key Key) (any, bool) {
	u.mu.Lock()
	defer u.mu.Unlock()
	v, ok := u.last[key]
	return v, ok
}

// equalValue is the distinctness rule. NaN compares equal to NaN, and nil
// compares equal to nil regardless of the nil's type, so re-emitting an
// absent value never notifies the sink.
func equalValue(a, b any) bool {
	if isNil(a) && isNil(b) {
		return true
	}
	if isNil(a) != isNil(b) {
		return false
	}
	af, aok := asFloat(a)
	bf, bok := asFloat(b)
	if aok && bok {
		if math.IsNaN(af) && math.IsNaN(bf) {
			return true
		}
		return af == bf
	}
	if aok != bok {
		return false
	}
	return reflect.DeepEqual(a, b)
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Slice, reflect.Map, reflect.Func, reflect.Chan:
		return rv.IsNil()
	default:
		return false
	}
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

// FiniteNumber coerces non-finite numeric values to 0. Installed by default
// for position and duration keys so engines reporting NaN or Inf never leak
// those into the observable state.
func FiniteNumber(v any) any {
	f, ok := asFloat(v)
	if !ok {
		return v
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return float64(0)
	}
	return f
}

func defaultFilters() map[Key]Filter {
	return map[Key]Filter{
		KeyPosition:      FiniteNumber,
		KeyDuration:      FiniteNumber,
		KeyBufferedAhead: FiniteNumber,
	}
}
