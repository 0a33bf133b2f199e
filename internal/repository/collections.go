package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"team_achievements/internal/domain/achievement"
	"team_achievements/internal/domain/user"
)

// Document names of the three persisted collections.
const (
	UsersDocument        = "users"
	AchievementsDocument = "achievements"
	UnlocksDocument      = "user_achievements"

	UnreadableSuffix = ".unreadable"
)

// JSONStore reads and replaces whole collections on top of a DocumentStore.
// Each collection is an ordered JSON array of flat objects.
type JSONStore struct {
	docs DocumentStore
	log  *zap.SugaredLogger
}

func NewJSONStore(docs DocumentStore, log *zap.SugaredLogger) *JSONStore {
	return &JSONStore{
		docs: docs,
		log:  log,
	}
}

func (s *JSONStore) Users(ctx context.Context) ([]user.User, error) {
	return loadCollection[user.User](ctx, s, UsersDocument)
}

func (s *JSONStore) ReplaceUsers(ctx context.Context, users []user.User) error {
	return saveCollection(ctx, s, UsersDocument, users)
}

func (s *JSONStore) Achievements(ctx context.Context) ([]achievement.Achievement, error) {
	return loadCollection[achievement.Achievement](ctx, s, AchievementsDocument)
}

func (s *JSONStore) ReplaceAchievements(ctx context.Context, achievements []achievement.Achievement) error {
	return saveCollection(ctx, s, AchievementsDocument, achievements)
}

func (s *JSONStore) Unlocks(ctx context.Context) ([]achievement.UnlockRecord, error) {
	return loadCollection[achievement.UnlockRecord](ctx, s, UnlocksDocument)
}

func (s *JSONStore) ReplaceUnlocks(ctx context.Context, records []achievement.UnlockRecord) error {
	return saveCollection(ctx, s, UnlocksDocument, records)
}

// Ping reports backend health when the backend supports it.
func (s *JSONStore) Ping(ctx context.Context) error {
	if p, ok := s.docs.(Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}

// loadCollection returns an empty collection when the document is absent or
// cannot be decoded. The raw bytes of an undecodable document are copied to
// <name>.unreadable before the next save can replace them. Only backend
// failures are returned as errors.
func loadCollection[T any](ctx context.Context, s *JSONStore, name string) ([]T, error) {
	raw, err := s.docs.Load(ctx, name)
	if err != nil {
		if errors.Is(err, ErrDocumentNotFound) {
			return []T{}, nil
		}
		return nil, fmt.Errorf("load %s: %w", name, err)
	}

	if len(bytes.TrimSpace(raw)) == 0 {
		return []T{}, nil
	}

	var records []T
	if err = json.Unmarshal(raw, &records); err != nil {
		backup := name + UnreadableSuffix
		s.log.Warnw("unreadable document, treating as empty", "document", name, "backup", backup, "error", err)
		if saveErr := s.docs.Save(ctx, backup, raw); saveErr != nil {
			s.log.Errorw("failed to back up unreadable document", "document", name, "error", saveErr)
		}
		return []T{}, nil
	}
	if records == nil {
		records = []T{}
	}
	return records, nil
}

func saveCollection[T any](ctx context.Context, s *JSONStore, name string, records []T) error {
	if records == nil {
		records = []T{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}

	if err := s.docs.Save(ctx, name, buf.Bytes()); err != nil {
		return fmt.Errorf("save %s: %w", name, err)
	}
	return nil
}
