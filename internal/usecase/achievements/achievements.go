package achievements

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"team_achievements/internal/domain"
	"team_achievements/internal/domain/achievement"
	"team_achievements/internal/domain/activity"
	"team_achievements/internal/domain/user"
	errs "team_achievements/internal/errors"
)

type Store interface {
	Users(ctx context.Context) ([]user.User, error)
	ReplaceUsers(ctx context.Context, users []user.User) error
	Achievements(ctx context.Context) ([]achievement.Achievement, error)
	ReplaceAchievements(ctx context.Context, achievements []achievement.Achievement) error
	Unlocks(ctx context.Context) ([]achievement.UnlockRecord, error)
	ReplaceUnlocks(ctx context.Context, records []achievement.UnlockRecord) error
}

type EventPublisher interface {
	Publish(event activity.Event)
}

type noopPublisher struct{}

func (noopPublisher) Publish(activity.Event) {}

type LoginResult struct {
	Username string
	IsAdmin  bool
	Created  bool
}

// AchievementUseCase owns users, the catalog and the unlock ledger. Every
// load-modify-save cycle runs under mu, so concurrent requests inside one
// process cannot overwrite each other's changes. Several processes sharing a
// backend are still last-writer-wins.
type AchievementUseCase struct {
	store         Store
	events        EventPublisher
	log           *zap.SugaredLogger
	adminUsername string
	now           func() time.Time
	mu            sync.Mutex
}

func NewAchievementUseCase(store Store, events EventPublisher, log *zap.SugaredLogger, adminUsername string) *AchievementUseCase {
	if events == nil {
		events = noopPublisher{}
	}
	return &AchievementUseCase{
		store:         store,
		events:        events,
		log:           log,
		adminUsername: adminUsername,
		now:           time.Now,
	}
}

func (a *AchievementUseCase) IsAdmin(username string) bool {
	return username == a.adminUsername
}

// Login registers username on first sight. The admin identity is virtual and
// never written to the users collection.
func (a *AchievementUseCase) Login(ctx context.Context, username string) (LoginResult, error) {
	if strings.TrimSpace(username) == "" {
		return LoginResult{}, errs.ErrEmptyUsername
	}
	if a.IsAdmin(username) {
		return LoginResult{Username: username, IsAdmin: true}, nil
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	users, err := a.store.Users(ctx)
	if err != nil {
		return LoginResult{}, err
	}
	if indexOfUser(users, username) >= 0 {
		return LoginResult{Username: username}, nil
	}

	now := a.now()
	users = append(users, user.User{Username: username, CreatedAt: domain.NewTimestamp(now)})
	if err = a.store.ReplaceUsers(ctx, users); err != nil {
		return LoginResult{}, fmt.Errorf("register %s: %w", username, err)
	}

	a.log.Infow("user registered", "username", username)
	a.events.Publish(activity.NewEvent(activity.EventUserCreated, username, "", now))
	return LoginResult{Username: username, Created: true}, nil
}

// ListUsers returns the users collection without the admin identity.
func (a *AchievementUseCase) ListUsers(ctx context.Context) ([]user.User, error) {
	users, err := a.store.Users(ctx)
	if err != nil {
		return nil, err
	}
	visible := make([]user.User, 0, len(users))
	for _, u := range users {
		if !a.IsAdmin(u.Username) {
			visible = append(visible, u)
		}
	}
	return visible, nil
}

func (a *AchievementUseCase) Catalog(ctx context.Context) ([]achievement.Achievement, error) {
	return a.store.Achievements(ctx)
}

// UserAchievements returns the whole catalog with the unlock state of
// username. Unknown usernames simply see everything locked.
func (a *AchievementUseCase) UserAchievements(ctx context.Context, username string) ([]achievement.AchievementWithStatus, error) {
	if a.IsAdmin(username) {
		return nil, errs.ErrReservedUser
	}

	catalog, err := a.store.Achievements(ctx)
	if err != nil {
		return nil, err
	}
	records, err := a.store.Unlocks(ctx)
	if err != nil {
		return nil, err
	}

	unlockedAt := make(map[string]domain.Timestamp)
	for _, record := range records {
		if record.Username == username {
			unlockedAt[record.AchievementID] = record.UnlockedAt
		}
	}

	result := make([]achievement.AchievementWithStatus, 0, len(catalog))
	for _, item := range catalog {
		status := achievement.AchievementWithStatus{Achievement: item}
		if at, ok := unlockedAt[item.ID]; ok {
			status.Unlocked = true
			status.UnlockedAt = &at
		}
		result = append(result, status)
	}
	return result, nil
}

// SetUnlock unlocks (upsert, refreshing the timestamp) or locks (remove if
// present) an achievement for a user.
func (a *AchievementUseCase) SetUnlock(ctx context.Context, username, achievementID string, unlocked bool) error {
	if a.IsAdmin(username) {
		return errs.ErrReservedUser
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	catalog, err := a.store.Achievements(ctx)
	if err != nil {
		return err
	}
	if indexOfAchievement(catalog, achievementID) < 0 {
		return errs.ErrAchievementNotFound
	}

	users, err := a.store.Users(ctx)
	if err != nil {
		return err
	}
	if indexOfUser(users, username) < 0 {
		return errs.ErrUserNotFound
	}

	records, err := a.store.Unlocks(ctx)
	if err != nil {
		return err
	}

	now := a.now()
	existing := indexOfUnlock(records, username, achievementID)
	eventType := activity.EventAchievementUnlocked
	switch {
	case unlocked && existing >= 0:
		records[existing].UnlockedAt = domain.NewTimestamp(now)
	case unlocked:
		records = append(records, achievement.UnlockRecord{
			Username:      username,
			AchievementID: achievementID,
			UnlockedAt:    domain.NewTimestamp(now),
		})
	case existing >= 0:
		records = append(records[:existing], records[existing+1:]...)
		eventType = activity.EventAchievementLocked
	default:
		eventType = activity.EventAchievementLocked
	}

	if err = a.store.ReplaceUnlocks(ctx, records); err != nil {
		return fmt.Errorf("update %s for %s: %w", achievementID, username, err)
	}

	a.log.Infow("achievement updated", "username", username, "achievement_id", achievementID, "unlocked", unlocked)
	a.events.Publish(activity.NewEvent(eventType, username, achievementID, now))
	return nil
}

// DeleteUser removes a user together with every unlock record they own. The
// last remaining non-admin user cannot be deleted. Unlocks are saved first;
// when the users save then fails the previous unlocks are written back.
func (a *AchievementUseCase) DeleteUser(ctx context.Context, username string) error {
	if a.IsAdmin(username) {
		return errs.ErrReservedUser
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	users, err := a.store.Users(ctx)
	if err != nil {
		return err
	}
	idx := indexOfUser(users, username)
	if idx < 0 {
		return errs.ErrUserNotFound
	}
	if a.countRealUsers(users) <= 1 {
		return errs.ErrLastUser
	}

	records, err := a.store.Unlocks(ctx)
	if err != nil {
		return err
	}

	kept := make([]achievement.UnlockRecord, 0, len(records))
	for _, record := range records {
		if record.Username != username {
			kept = append(kept, record)
		}
	}
	if err = a.store.ReplaceUnlocks(ctx, kept); err != nil {
		return fmt.Errorf("delete unlocks of %s: %w", username, err)
	}

	remaining := append(users[:idx:idx], users[idx+1:]...)
	if err = a.store.ReplaceUsers(ctx, remaining); err != nil {
		if restoreErr := a.store.ReplaceUnlocks(ctx, records); restoreErr != nil {
			a.log.Errorw("failed to restore unlocks after failed delete", "username", username, "error", restoreErr)
		}
		return fmt.Errorf("delete %s: %w", username, err)
	}

	a.log.Infow("user deleted", "username", username, "removed_unlocks", len(records)-len(kept))
	a.events.Publish(activity.NewEvent(activity.EventUserDeleted, username, "", a.now()))
	return nil
}

func (a *AchievementUseCase) countRealUsers(users []user.User) int {
	count := 0
	for _, u := range users {
		if !a.IsAdmin(u.Username) {
			count++
		}
	}
	return count
}

// AddAchievement appends a definition to the catalog. Ids are unique.
func (a *AchievementUseCase) AddAchievement(ctx context.Context, item achievement.Achievement) error {
	if strings.TrimSpace(item.ID) == "" || strings.TrimSpace(item.Name) == "" {
		return errs.ErrInvalidAchievement
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	catalog, err := a.store.Achievements(ctx)
	if err != nil {
		return err
	}
	if indexOfAchievement(catalog, item.ID) >= 0 {
		return fmt.Errorf("%w: %s", errs.ErrAchievementExists, item.ID)
	}

	if err = a.store.ReplaceAchievements(ctx, append(catalog, item)); err != nil {
		return fmt.Errorf("add achievement %s: %w", item.ID, err)
	}
	a.log.Infow("achievement added", "achievement_id", item.ID)
	return nil
}

func indexOfUser(users []user.User, username string) int {
	for i, u := range users {
		if u.Username == username {
			return i
		}
	}
	return -1
}

func indexOfAchievement(catalog []achievement.Achievement, id string) int {
	for i, item := range catalog {
		if item.ID == id {
			return i
		}
	}
	return -1
}

func indexOfUnlock(records []achievement.UnlockRecord, username, achievementID string) int {
	for i, record := range records {
		if record.Username == username && record.AchievementID == achievementID {
			return i
		}
	}
	return -1
}
