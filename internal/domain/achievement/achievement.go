package achievement

import "team_achievements/internal/domain"

type Achievement struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
}

// UnlockRecord links a user to an achievement. At most one record exists per
// (Username, AchievementID) pair.
type UnlockRecord struct {
	Username      string           `json:"username"`
	AchievementID string           `json:"achievement_id"`
	UnlockedAt    domain.Timestamp `json:"unlocked_at"`
}

type AchievementWithStatus struct {
	Achievement
	Unlocked   bool              `json:"unlocked"`
	UnlockedAt *domain.Timestamp `json:"unlocked_at,omitempty"`
}

type CatalogResponse struct {
	Achievements []Achievement `json:"achievements"`
}

type UserAchievementsResponse struct {
	Achievements []AchievementWithStatus `json:"achievements"`
	Username     string                  `json:"username"`
}

type UpdateRequest struct {
	Username      string `json:"username"`
	AchievementID string `json:"achievement_id"`
	Unlocked      *bool  `json:"unlocked"`
}

type UpdateResponse struct {
	Message       string `json:"message"`
	Username      string `json:"username"`
	AchievementID string `json:"achievement_id"`
	Unlocked      bool   `json:"unlocked"`
}
