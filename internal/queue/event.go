// Package queue defines message payloads exchanged over the message broker
// and the consumer that records them.
package queue

// BoardChangedQueue is the durable queue carrying board change events.
const BoardChangedQueue = "board.changed"

// Entities named in BoardChangedEvent.Entity.
const (
    EntitySchedule   = "schedule"
    EntityPromotion  = "promotion"
    EntityPromotions = "promotions"
    EntityLateNight  = "late_night"
    EntityAll        = "all"
)

// BoardChangedEvent is published after every successful admin write. It
// carries enough to audit who changed what without reading the database.
type BoardChangedEvent struct {
    Version   int64  `json:"version"`
    Entity    string `json:"entity"`
    Action    string `json:"action"`
    EntityID  string `json:"entity_id,omitempty"`
    Actor     string `json:"actor,omitempty"`
    ChangedAt string `json:"changed_at"`
}
