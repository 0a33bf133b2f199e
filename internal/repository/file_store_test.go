package repository

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileDocumentStoreMissing(t *testing.T) {
	store := NewFileDocumentStore(t.TempDir())

	_, err := store.Load(context.Background(), UsersDocument)
	assert.ErrorIs(t, err, ErrDocumentNotFound)
}

func TestFileDocumentStoreSaveAndLoad(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	store := NewFileDocumentStore(dir)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, UsersDocument, []byte(`[{"username":"alice"}]`)))
	require.NoError(t, store.Save(ctx, UsersDocument, []byte(`[{"username":"bob"}]`)))

	data, err := store.Load(ctx, UsersDocument)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"username":"bob"}]`, string(data))

	onDisk, err := os.ReadFile(filepath.Join(dir, "users.json"))
	require.NoError(t, err)
	assert.Equal(t, data, onDisk)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
}

func TestFileDocumentStorePing(t *testing.T) {
	dir := t.TempDir()
	assert.NoError(t, NewFileDocumentStore(dir).Ping(context.Background()))
	assert.Error(t, NewFileDocumentStore(filepath.Join(dir, "absent")).Ping(context.Background()))
}
