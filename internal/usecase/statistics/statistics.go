package statistics

import (
	"context"
	"math"
	"sort"
	"time"

	"team_achievements/internal/domain/achievement"
	"team_achievements/internal/domain/stats"
	"team_achievements/internal/domain/user"
	errs "team_achievements/internal/errors"
)

type Store interface {
	Users(ctx context.Context) ([]user.User, error)
	Achievements(ctx context.Context) ([]achievement.Achievement, error)
	Unlocks(ctx context.Context) ([]achievement.UnlockRecord, error)
}

// StatisticsUseCase derives read-only views from the three collections. It
// never writes to the store.
type StatisticsUseCase struct {
	store         Store
	adminUsername string
	window        time.Duration
	now           func() time.Time
}

func NewStatisticsUseCase(store Store, adminUsername string, window time.Duration) *StatisticsUseCase {
	return &StatisticsUseCase{
		store:         store,
		adminUsername: adminUsername,
		window:        window,
		now:           time.Now,
	}
}

type snapshot struct {
	users   []user.User
	catalog []achievement.Achievement
	unlocks []achievement.UnlockRecord
}

// load reads all collections and drops the admin identity from users and
// unlock records.
func (s *StatisticsUseCase) load(ctx context.Context) (snapshot, error) {
	users, err := s.store.Users(ctx)
	if err != nil {
		return snapshot{}, err
	}
	catalog, err := s.store.Achievements(ctx)
	if err != nil {
		return snapshot{}, err
	}
	unlocks, err := s.store.Unlocks(ctx)
	if err != nil {
		return snapshot{}, err
	}

	realUsers := make([]user.User, 0, len(users))
	for _, u := range users {
		if u.Username != s.adminUsername {
			realUsers = append(realUsers, u)
		}
	}
	realUnlocks := make([]achievement.UnlockRecord, 0, len(unlocks))
	for _, record := range unlocks {
		if record.Username != s.adminUsername {
			realUnlocks = append(realUnlocks, record)
		}
	}
	return snapshot{users: realUsers, catalog: catalog, unlocks: realUnlocks}, nil
}

func (s *StatisticsUseCase) Overall(ctx context.Context) (*stats.OverallStatistics, error) {
	snap, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return ComputeOverall(snap.users, snap.catalog, snap.unlocks, s.now(), s.window), nil
}

func (s *StatisticsUseCase) ForUser(ctx context.Context, username string) (*stats.UserStatistics, error) {
	if username == s.adminUsername {
		return nil, errs.ErrReservedUser
	}
	snap, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return ComputeForUser(username, snap.users, snap.catalog, snap.unlocks)
}

// ComputeOverall builds the full statistics composite. Records are recent
// when unlocked strictly after now-window.
func ComputeOverall(users []user.User, catalog []achievement.Achievement, unlocks []achievement.UnlockRecord, now time.Time, window time.Duration) *stats.OverallStatistics {
	totalUsers := len(users)
	totalAchievements := len(catalog)
	totalUnlocks := len(unlocks)

	popularity := Popularity(catalog, unlocks, totalUsers)

	result := &stats.OverallStatistics{
		OverallStats: stats.OverallStats{
			TotalUsers:                 totalUsers,
			TotalAchievements:          totalAchievements,
			TotalUnlocks:               totalUnlocks,
			AverageAchievementsPerUser: ratio(totalUnlocks, totalUsers),
		},
		UserRankings:          Ranking(users, unlocks, totalAchievements),
		AchievementPopularity: popularity,
		RecentActivity:        RecentUnlocks(unlocks, now.Add(-window)),
	}
	result.OverallStats.RecentUnlocksCount = len(result.RecentActivity)

	if len(popularity) > 0 {
		most := popularity[0]
		least := popularity[len(popularity)-1]
		result.MostPopular = &most
		result.LeastPopular = &least
	}
	return result
}

// ComputeForUser returns ErrUserNotFound when username is not in users.
// Unlock records that point at achievements missing from the catalog are
// skipped.
func ComputeForUser(username string, users []user.User, catalog []achievement.Achievement, unlocks []achievement.UnlockRecord) (*stats.UserStatistics, error) {
	found := false
	for _, u := range users {
		if u.Username == username {
			found = true
			break
		}
	}
	if !found {
		return nil, errs.ErrUserNotFound
	}

	rank := 0
	for i, stat := range Ranking(users, unlocks, len(catalog)) {
		if stat.Username == username {
			rank = i + 1
			break
		}
	}

	byID := make(map[string]achievement.Achievement, len(catalog))
	for _, item := range catalog {
		byID[item.ID] = item
	}

	count := 0
	details := make([]stats.UnlockedAchievement, 0)
	for _, record := range unlocks {
		if record.Username != username {
			continue
		}
		count++
		if item, ok := byID[record.AchievementID]; ok {
			details = append(details, stats.UnlockedAchievement{Achievement: item, UnlockedAt: record.UnlockedAt})
		}
	}

	return &stats.UserStatistics{
		Username:             username,
		AchievementsCount:    count,
		TotalAchievements:    len(catalog),
		CompletionPercentage: percentage(count, len(catalog)),
		Rank:                 rank,
		TotalUsers:           len(users),
		Achievements:         details,
	}, nil
}

// Ranking orders users by unlock count, highest first. Equal counts keep the
// order of the users collection.
func Ranking(users []user.User, unlocks []achievement.UnlockRecord, totalAchievements int) []stats.UserStat {
	counts := make(map[string]int, len(users))
	for _, record := range unlocks {
		counts[record.Username]++
	}

	ranking := make([]stats.UserStat, 0, len(users))
	for _, u := range users {
		count := counts[u.Username]
		ranking = append(ranking, stats.UserStat{
			Username:             u.Username,
			AchievementsCount:    count,
			TotalAchievements:    totalAchievements,
			CompletionPercentage: percentage(count, totalAchievements),
		})
	}

	sort.SliceStable(ranking, func(i, j int) bool {
		return ranking[i].AchievementsCount > ranking[j].AchievementsCount
	})
	return ranking
}

// Popularity orders the catalog by unlock count, highest first, stable on
// ties.
func Popularity(catalog []achievement.Achievement, unlocks []achievement.UnlockRecord, totalUsers int) []stats.AchievementPopularity {
	counts := make(map[string]int, len(catalog))
	for _, record := range unlocks {
		counts[record.AchievementID]++
	}

	popularity := make([]stats.AchievementPopularity, 0, len(catalog))
	for _, item := range catalog {
		count := counts[item.ID]
		popularity = append(popularity, stats.AchievementPopularity{
			ID:                   item.ID,
			Name:                 item.Name,
			Description:          item.Description,
			ImageURL:             item.ImageURL,
			UnlockCount:          count,
			PopularityPercentage: percentage(count, totalUsers),
		})
	}

	sort.SliceStable(popularity, func(i, j int) bool {
		return popularity[i].UnlockCount > popularity[j].UnlockCount
	})
	return popularity
}

func RecentUnlocks(unlocks []achievement.UnlockRecord, since time.Time) []achievement.UnlockRecord {
	recent := make([]achievement.UnlockRecord, 0)
	for _, record := range unlocks {
		if record.UnlockedAt.After(since) {
			recent = append(recent, record)
		}
	}
	return recent
}

func percentage(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return round2(float64(part) / float64(whole) * 100)
}

func ratio(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return round2(float64(part) / float64(whole))
}

// round2 rounds to two decimals with ties to even, so 1/8 gives 0.12.
func round2(v float64) float64 {
	return math.RoundToEven(v*100) / 100
}
