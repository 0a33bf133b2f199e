package repository

import (
	"context"
	"errors"
	"fmt"

	"team_achievements/internal/domain/achievement"
)

// DefaultCatalog is written on first start when no achievements document
// exists yet.
func DefaultCatalog() []achievement.Achievement {
	return []achievement.Achievement{
		{ID: "finish_training", Name: "סיום חפיפות", Description: "השלמתי חפיפות בהצלחה", ImageURL: "/images/finish_training.png"},
		{ID: "caused_break", Name: "בריק למכשיר", Description: "גרמתי לבריק למכשיר", ImageURL: "/images/caused_break.png"},
		{ID: "critical_sd", Name: "SD קריטי", Description: "ריזלבתי SD קריטי", ImageURL: "/images/critical_sd.png"},
		{ID: "found_bug", Name: "מצאתי באג", Description: "מצאתי באג בקוד של הצוות", ImageURL: "/images/found_bug.png"},
		{ID: "uploaded_version", Name: "הוצאת גרסה", Description: "הוצאתי גרסה למודול", ImageURL: "/images/uploaded_version.png"},
		{ID: "wrote_code", Name: "כתיבת קוד", Description: "כתבתי קוד שהתמרגג למאסטר", ImageURL: "/images/wrote_code.png"},
		{ID: "improved_ci", Name: "שיפורי CI", Description: "שיפרתי את הCI של הצוות", ImageURL: "/images/improved_ci.png"},
		{ID: "did_cr", Name: "CR", Description: "עשיתי CR לחבר צוות", ImageURL: "/images/did_cr.png"},
	}
}

// Seed creates the documents that do not exist yet: the default catalog and
// empty users and unlock collections. Existing documents are left untouched.
func (s *JSONStore) Seed(ctx context.Context) error {
	seeds := []struct {
		name  string
		write func() error
	}{
		{AchievementsDocument, func() error { return s.ReplaceAchievements(ctx, DefaultCatalog()) }},
		{UsersDocument, func() error { return s.ReplaceUsers(ctx, nil) }},
		{UnlocksDocument, func() error { return s.ReplaceUnlocks(ctx, nil) }},
	}

	for _, seed := range seeds {
		_, err := s.docs.Load(ctx, seed.name)
		if err == nil {
			continue
		}
		if !errors.Is(err, ErrDocumentNotFound) {
			return fmt.Errorf("check %s: %w", seed.name, err)
		}
		if err = seed.write(); err != nil {
			return err
		}
		s.log.Infof("seeded %s document", seed.name)
	}
	return nil
}
