package telemetry

import (
	"time"

	"github.com/pthm-cable/tank/denizen"
)

// LifetimeStats tracks per-denizen statistics over its lifetime.
type LifetimeStats struct {
	ID   denizen.ID
	Kind denizen.Kind
	Born time.Time

	Clicks int
	Bites  int // bite fish only: denizens eaten

	// Set on removal
	Died  time.Time
	Cause Cause
}

// Age returns how long the denizen lived, or zero while it is still live.
func (s *LifetimeStats) Age() time.Duration {
	if s.Died.IsZero() {
		return 0
	}
	return s.Died.Sub(s.Born)
}

// LifetimeTracker manages per-denizen lifetime statistics.
type LifetimeTracker struct {
	stats map[denizen.ID]*LifetimeStats
}

// NewLifetimeTracker creates a new lifetime tracker.
func NewLifetimeTracker() *LifetimeTracker {
	return &LifetimeTracker{
		stats: make(map[denizen.ID]*LifetimeStats),
	}
}

// Register creates lifetime stats for a new denizen.
func (lt *LifetimeTracker) Register(id denizen.ID, kind denizen.Kind, born time.Time) {
	lt.stats[id] = &LifetimeStats{ID: id, Kind: kind, Born: born}
}

// Get returns the lifetime stats for a denizen, or nil if not found.
func (lt *LifetimeTracker) Get(id denizen.ID) *LifetimeStats {
	return lt.stats[id]
}

// Remove stops tracking a denizen and returns its completed stats, or nil
// if it was never registered.
func (lt *LifetimeTracker) Remove(id denizen.ID, died time.Time, cause Cause) *LifetimeStats {
	s := lt.stats[id]
	if s == nil {
		return nil
	}
	delete(lt.stats, id)
	s.Died = died
	s.Cause = cause
	return s
}

// RecordClick increments the click count.
func (lt *LifetimeTracker) RecordClick(id denizen.ID) {
	if s := lt.stats[id]; s != nil {
		s.Clicks++
	}
}

// SetBites records how many denizens a bite fish has eaten so far.
func (lt *LifetimeTracker) SetBites(id denizen.ID, n int) {
	if s := lt.stats[id]; s != nil {
		s.Bites = n
	}
}

// Count returns the number of tracked denizens.
func (lt *LifetimeTracker) Count() int {
	return len(lt.stats)
}

// DeathRecord is one row of deaths.csv.
type DeathRecord struct {
	ID      uint64  `csv:"id"`
	Kind    string  `csv:"kind"`
	Cause   string  `csv:"cause"`
	BornSec float64 `csv:"born"`
	DiedSec float64 `csv:"died"`
	AgeSec  float64 `csv:"age"`
	Clicks  int     `csv:"clicks"`
	Bites   int     `csv:"bites"`
}

// ToRecord flattens completed stats relative to the simulation start.
func (s *LifetimeStats) ToRecord(start time.Time) DeathRecord {
	return DeathRecord{
		ID:      uint64(s.ID),
		Kind:    s.Kind.String(),
		Cause:   s.Cause.String(),
		BornSec: s.Born.Sub(start).Seconds(),
		DiedSec: s.Died.Sub(start).Seconds(),
		AgeSec:  s.Age().Seconds(),
		Clicks:  s.Clicks,
		Bites:   s.Bites,
	}
}
