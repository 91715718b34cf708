// Package telemetry provides tank population tracking, bookmarks and CSV output.
package telemetry

import (
	"time"

	"github.com/pthm-cable/tank/denizen"
)

// EventType identifies telemetry events.
type EventType uint8

const (
	EventSpawn EventType = iota
	EventDeath
	EventBite
	EventClick
)

var eventNames = [...]string{"spawn", "death", "bite", "click"}

func (t EventType) String() string {
	if int(t) < len(eventNames) {
		return eventNames[t]
	}
	return "unknown"
}

// Cause says why a denizen left the tank.
type Cause uint8

const (
	CauseKilled  Cause = iota // removed for any other reason
	CauseCulled               // strayed too far outside the bounds
	CauseEaten                // bitten by a bite fish
	CauseExpired              // ran out of time (seeds that grew, effects)
	CausePlanted              // seed clicked before it expired
)

var causeNames = [...]string{"killed", "culled", "eaten", "expired", "planted"}

func (c Cause) String() string {
	if int(c) < len(causeNames) {
		return causeNames[c]
	}
	return "unknown"
}

// Event represents a single telemetry event.
type Event struct {
	Type EventType
	Time time.Time
	ID   denizen.ID
	Kind denizen.Kind

	// Death only
	Cause Cause
}

// NewSpawnEvent creates a spawn event.
func NewSpawnEvent(at time.Time, id denizen.ID, kind denizen.Kind) Event {
	return Event{Type: EventSpawn, Time: at, ID: id, Kind: kind}
}

// NewDeathEvent creates a death event.
func NewDeathEvent(at time.Time, id denizen.ID, kind denizen.Kind, cause Cause) Event {
	return Event{Type: EventDeath, Time: at, ID: id, Kind: kind, Cause: cause}
}

// NewBiteEvent creates a bite event for the denizen that was eaten.
func NewBiteEvent(at time.Time, preyID denizen.ID, preyKind denizen.Kind) Event {
	return Event{Type: EventBite, Time: at, ID: preyID, Kind: preyKind}
}

// NewClickEvent creates a click event.
func NewClickEvent(at time.Time, id denizen.ID, kind denizen.Kind) Event {
	return Event{Type: EventClick, Time: at, ID: id, Kind: kind}
}
