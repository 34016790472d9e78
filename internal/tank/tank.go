// Package tank computes derived values for liquid storage tanks: the volume
// held at a given level and the consumption added since the previous reading.
package tank

import (
	"math"
	"sync"
)

// Volume returns the volume of a cylindrical tank of the given diameter filled
// to level. Tank shape beyond a vertical cylinder is not modeled.
func Volume(diameter, level float64) float64 {
	radius := diameter / 2
	return math.Pi * radius * radius * level
}

// Reading is the derived state of one tank after a level observation.
type Reading struct {
	Volume float64
	Added  float64
	// First is true when no previous level was known for the tank.
	First bool
}

// Tracker remembers the last observed level of every tank. Entries are never
// removed.
type Tracker struct {
	mu     sync.Mutex
	levels map[string]float64
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{
		levels: make(map[string]float64),
	}
}

// Observe records level for the named tank and returns its volume and the
// volume added since the previous observation (0 for the first one). Only
// the diameter of the current call is used; it is applied to both levels.
//
// If publish is non-nil it runs before the tracker is unlocked, so callers
// can write the derived values without racing a concurrent observation of
// the same tank.
func (t *Tracker) Observe(name string, diameter, level float64, publish func(Reading)) Reading {
	t.mu.Lock()
	defer t.mu.Unlock()

	r := Reading{Volume: Volume(diameter, level)}
	if prev, ok := t.levels[name]; ok {
		r.Added = r.Volume - Volume(diameter, prev)
	} else {
		r.First = true
	}
	t.levels[name] = level

	if publish != nil {
		publish(r)
	}
	return r
}

// Len returns the number of tanks seen so far.
func (t *Tracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.levels)
}
