package stats

import (
	"team_achievements/internal/domain"
	"team_achievements/internal/domain/achievement"
)

type UserStat struct {
	Username             string  `json:"username"`
	AchievementsCount    int     `json:"achievements_count"`
	TotalAchievements    int     `json:"total_achievements"`
	CompletionPercentage float64 `json:"completion_percentage"`
}

type AchievementPopularity struct {
	ID                   string  `json:"id"`
	Name                 string  `json:"name"`
	Description          string  `json:"description"`
	ImageURL             string  `json:"image_url"`
	UnlockCount          int     `json:"unlock_count"`
	PopularityPercentage float64 `json:"popularity_percentage"`
}

type OverallStats struct {
	TotalUsers                 int     `json:"total_users"`
	TotalAchievements          int     `json:"total_achievements"`
	TotalUnlocks               int     `json:"total_unlocks"`
	AverageAchievementsPerUser float64 `json:"average_achievements_per_user"`
	RecentUnlocksCount         int     `json:"recent_unlocks_count"`
}

type OverallStatistics struct {
	OverallStats          OverallStats               `json:"overall_stats"`
	UserRankings          []UserStat                 `json:"user_rankings"`
	AchievementPopularity []AchievementPopularity    `json:"achievement_popularity"`
	MostPopular           *AchievementPopularity     `json:"most_popular_achievement"`
	LeastPopular          *AchievementPopularity     `json:"least_popular_achievement"`
	RecentActivity        []achievement.UnlockRecord `json:"recent_activity"`
}

type UnlockedAchievement struct {
	achievement.Achievement
	UnlockedAt domain.Timestamp `json:"unlocked_at"`
}

type UserStatistics struct {
	Username             string                `json:"username"`
	AchievementsCount    int                   `json:"achievements_count"`
	TotalAchievements    int                   `json:"total_achievements"`
	CompletionPercentage float64               `json:"completion_percentage"`
	Rank                 int                   `json:"rank"`
	TotalUsers           int                   `json:"total_users"`
	Achievements         []UnlockedAchievement `json:"achievements"`
}
