package amqp

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"ecotrack/internal/core"
)

// Operation names carried by ActivityEvent.
const (
	OpCreate = "create"
	OpUpdate = "update"
	OpDelete = "delete"
)

// ActivityEvent announces one persisted change to the activity log.
// Position is the 1-based place of the activity at the time of the change;
// for deletes it is the position the activity was removed from.
type ActivityEvent struct {
	ID        string        `json:"id"`
	Operation string        `json:"operation"`
	Position  int           `json:"position"`
	Activity  core.Activity `json:"activity"`
	Timestamp time.Time     `json:"timestamp"`
}

// NewActivityEvent creates an event with a fresh ID and the current time.
func NewActivityEvent(op string, position int, a core.Activity) *ActivityEvent {
	return &ActivityEvent{
		ID:        uuid.NewString(),
		Operation: op,
		Position:  position,
		Activity:  a,
		Timestamp: time.Now().UTC(),
	}
}

// ToJSON converts the event to JSON bytes
func (e *ActivityEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// ActivityEventFromJSON creates an event from JSON bytes
func ActivityEventFromJSON(data []byte) (*ActivityEvent, error) {
	var e ActivityEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	return &e, nil
}
