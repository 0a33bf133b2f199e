package activity

import (
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	EventUserCreated         EventType = "user_created"
	EventUserDeleted         EventType = "user_deleted"
	EventAchievementUnlocked EventType = "achievement_unlocked"
	EventAchievementLocked   EventType = "achievement_locked"
)

// Event is one ledger change pushed to activity stream subscribers.
type Event struct {
	ID            string    `json:"id"`
	Type          EventType `json:"type"`
	Username      string    `json:"username"`
	AchievementID string    `json:"achievement_id,omitempty"`
	At            time.Time `json:"at"`
}

func NewEvent(eventType EventType, username, achievementID string, at time.Time) Event {
	return Event{
		ID:            uuid.New().String(),
		Type:          eventType,
		Username:      username,
		AchievementID: achievementID,
		At:            at,
	}
}
