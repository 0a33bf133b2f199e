package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"team_achievements/internal/domain"
	"team_achievements/internal/domain/achievement"
	"team_achievements/internal/domain/user"
)

type failingDocumentStore struct {
	err error
}

func (f failingDocumentStore) Load(context.Context, string) ([]byte, error) { return nil, f.err }
func (f failingDocumentStore) Save(context.Context, string, []byte) error   { return f.err }

func TestJSONStoreMissingDocumentsAreEmpty(t *testing.T) {
	store := NewJSONStore(NewMemoryDocumentStore(), zaptest.NewLogger(t).Sugar())
	ctx := context.Background()

	users, err := store.Users(ctx)
	require.NoError(t, err)
	assert.NotNil(t, users)
	assert.Empty(t, users)

	catalog, err := store.Achievements(ctx)
	require.NoError(t, err)
	assert.Empty(t, catalog)

	unlocks, err := store.Unlocks(ctx)
	require.NoError(t, err)
	assert.Empty(t, unlocks)
}

func TestJSONStoreMalformedDocumentIsEmpty(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	docs := NewMemoryDocumentStore()
	store := NewJSONStore(docs, zap.New(core).Sugar())
	ctx := context.Background()

	require.NoError(t, docs.Save(ctx, UsersDocument, []byte(`{not json`)))

	users, err := store.Users(ctx)
	require.NoError(t, err)
	assert.Empty(t, users)
	assert.Equal(t, 1, logs.FilterField(zap.String("document", UsersDocument)).Len())

	backup, err := docs.Load(ctx, UsersDocument+UnreadableSuffix)
	require.NoError(t, err)
	assert.Equal(t, `{not json`, string(backup))
}

func TestJSONStoreUnreadableDocumentSurvivesNextSave(t *testing.T) {
	docs := NewMemoryDocumentStore()
	store := NewJSONStore(docs, zaptest.NewLogger(t).Sugar())
	ctx := context.Background()

	raw := `[{"username":"alice","achievement_id":"a1","unlocked_at":"not a time"}]`
	require.NoError(t, docs.Save(ctx, UnlocksDocument, []byte(raw)))

	records, err := store.Unlocks(ctx)
	require.NoError(t, err)
	require.Empty(t, records)
	require.NoError(t, store.ReplaceUnlocks(ctx, []achievement.UnlockRecord{{Username: "bob", AchievementID: "a2"}}))

	backup, err := docs.Load(ctx, UnlocksDocument+UnreadableSuffix)
	require.NoError(t, err)
	assert.JSONEq(t, raw, string(backup))
}

func TestJSONStoreReadsSpaceSeparatedTimestamps(t *testing.T) {
	docs := NewMemoryDocumentStore()
	store := NewJSONStore(docs, zaptest.NewLogger(t).Sugar())
	ctx := context.Background()

	require.NoError(t, docs.Save(ctx, UnlocksDocument,
		[]byte(`[{"username":"alice","achievement_id":"a1","unlocked_at":"2025-03-04 10:30:00.123456"}]`)))

	records, err := store.Unlocks(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 2025, records[0].UnlockedAt.Year())
	_, err = docs.Load(ctx, UnlocksDocument+UnreadableSuffix)
	assert.ErrorIs(t, err, ErrDocumentNotFound)
}

func TestJSONStoreNullDocumentIsEmpty(t *testing.T) {
	docs := NewMemoryDocumentStore()
	store := NewJSONStore(docs, zaptest.NewLogger(t).Sugar())
	require.NoError(t, docs.Save(context.Background(), UnlocksDocument, []byte("null")))

	unlocks, err := store.Unlocks(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, unlocks)
	assert.Empty(t, unlocks)
}

func TestJSONStoreBackendErrorIsReturned(t *testing.T) {
	backendErr := errors.New("connection reset")
	store := NewJSONStore(failingDocumentStore{err: backendErr}, zaptest.NewLogger(t).Sugar())

	_, err := store.Users(context.Background())
	assert.ErrorIs(t, err, backendErr)

	err = store.ReplaceUnlocks(context.Background(), nil)
	assert.ErrorIs(t, err, backendErr)
}

func TestJSONStoreReplaceKeepsOrder(t *testing.T) {
	docs := NewMemoryDocumentStore()
	store := NewJSONStore(docs, zaptest.NewLogger(t).Sugar())
	ctx := context.Background()
	at := domain.NewTimestamp(time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC))

	records := []achievement.UnlockRecord{
		{Username: "zoe", AchievementID: "did_cr", UnlockedAt: at},
		{Username: "alice", AchievementID: "found_bug", UnlockedAt: at},
	}
	require.NoError(t, store.ReplaceUnlocks(ctx, records))

	loaded, err := store.Unlocks(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.Equal(t, "zoe", loaded[0].Username)
	assert.Equal(t, "alice", loaded[1].Username)
	assert.True(t, at.Equal(loaded[1].UnlockedAt.Time))
}

func TestJSONStoreKeepsUnicodeReadable(t *testing.T) {
	docs := NewMemoryDocumentStore()
	store := NewJSONStore(docs, zaptest.NewLogger(t).Sugar())
	ctx := context.Background()

	require.NoError(t, store.ReplaceAchievements(ctx, DefaultCatalog()[:1]))

	raw, err := docs.Load(ctx, AchievementsDocument)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "סיום חפיפות")
	assert.Contains(t, string(raw), "\n  {")
}

func TestSeedWritesMissingDocumentsOnly(t *testing.T) {
	docs := NewMemoryDocumentStore()
	store := NewJSONStore(docs, zaptest.NewLogger(t).Sugar())
	ctx := context.Background()

	existing := []user.User{{Username: "alice", CreatedAt: domain.NewTimestamp(time.Now())}}
	require.NoError(t, store.ReplaceUsers(ctx, existing))

	require.NoError(t, store.Seed(ctx))

	catalog, err := store.Achievements(ctx)
	require.NoError(t, err)
	assert.Len(t, catalog, 8)
	assert.Equal(t, "finish_training", catalog[0].ID)
	assert.Equal(t, "did_cr", catalog[7].ID)

	users, err := store.Users(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "alice", users[0].Username)

	_, err = docs.Load(ctx, UnlocksDocument)
	assert.NoError(t, err)

	require.NoError(t, store.ReplaceAchievements(ctx, catalog[:2]))
	require.NoError(t, store.Seed(ctx))
	catalog, err = store.Achievements(ctx)
	require.NoError(t, err)
	assert.Len(t, catalog, 2, "seed must not overwrite an existing catalog")
}

func TestSeedFailsOnBackendError(t *testing.T) {
	store := NewJSONStore(failingDocumentStore{err: errors.New("down")}, zaptest.NewLogger(t).Sugar())
	assert.Error(t, store.Seed(context.Background()))
}
