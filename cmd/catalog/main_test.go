package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	errs "team_achievements/internal/errors"
	"team_achievements/internal/repository"
	achievementsUC "team_achievements/internal/usecase/achievements"
)

func TestResolveImageURL(t *testing.T) {
	cases := []struct {
		name string
		args []string
		want string
	}{
		{"custom url", []string{"--image-url", "https://cdn.example/a.png"}, "https://cdn.example/a.png"},
		{"local file", []string{"--image-file", "speed.png"}, "/images/speed.png"},
		{"placeholder text", []string{"--placeholder-text", "Speed Runner", "--color", "FF9800"}, "https://via.placeholder.com/150/FF9800/FFFFFF?text=Speed+Runner"},
		{"default", []string{"--name", "Speed Runner"}, "https://via.placeholder.com/150/4CAF50/FFFFFF?text=Speed+Runner"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			opts, err := parseFlags(tc.args)
			require.NoError(t, err)
			got, err := opts.resolveImageURL()
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestResolveImageURLRejectsSeveralOptions(t *testing.T) {
	opts, err := parseFlags([]string{"--image-url", "x", "--image-file", "y.png"})
	require.NoError(t, err)
	_, err = opts.resolveImageURL()
	assert.Error(t, err)
}

func newLedger(t *testing.T) *achievementsUC.AchievementUseCase {
	t.Helper()
	log := zaptest.NewLogger(t).Sugar()
	store := repository.NewJSONStore(repository.NewMemoryDocumentStore(), log)
	require.NoError(t, store.Seed(context.Background()))
	return achievementsUC.NewAchievementUseCase(store, nil, log, "admin")
}

func TestExecuteAddsAndLists(t *testing.T) {
	ctx := context.Background()
	ledger := newLedger(t)

	opts, err := parseFlags([]string{"--id", "speed_runner", "--name", "Speed Runner", "--image-file", "speed.png"})
	require.NoError(t, err)
	var out bytes.Buffer
	require.NoError(t, execute(ctx, opts, ledger, &out))
	assert.Contains(t, out.String(), "Speed Runner")

	catalog, err := ledger.Catalog(ctx)
	require.NoError(t, err)
	require.Len(t, catalog, len(repository.DefaultCatalog())+1)
	assert.Equal(t, "speed_runner", catalog[len(catalog)-1].ID)

	err = execute(ctx, opts, ledger, &out)
	assert.ErrorIs(t, err, errs.ErrAchievementExists)

	out.Reset()
	listOpts, err := parseFlags([]string{"--list"})
	require.NoError(t, err)
	require.NoError(t, execute(ctx, listOpts, ledger, &out))
	assert.Contains(t, out.String(), "speed_runner")
	assert.Contains(t, out.String(), "finish_training")
}
