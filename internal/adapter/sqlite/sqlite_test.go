package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "calories.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestKeyValueStore(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	v, err := db.Get(ctx, "activities")
	require.NoError(t, err)
	assert.Nil(t, v)

	require.NoError(t, db.Set(ctx, "activities", []byte(`[{"id":"a"}]`)))
	require.NoError(t, db.Set(ctx, "activities", []byte(`[]`)))

	v, err = db.Get(ctx, "activities")
	require.NoError(t, err)
	assert.Equal(t, "[]", string(v))

	var count int64
	require.NoError(t, db.gdb.Model(&Entry{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestSessionRepository(t *testing.T) {
	db := openTestDB(t)
	repo := NewSessionRepo(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, "owner", "fresh", time.Now().Add(time.Hour)))
	require.NoError(t, repo.Create(ctx, "owner", "old", time.Now().Add(-time.Hour)))

	s, err := repo.GetByToken(ctx, "fresh")
	require.NoError(t, err)
	require.NotNil(t, s)
	assert.Equal(t, "owner", s.Subject)

	require.NoError(t, repo.DeleteExpired(ctx))
	s, err = repo.GetByToken(ctx, "old")
	require.NoError(t, err)
	assert.Nil(t, s)

	require.NoError(t, repo.Delete(ctx, "fresh"))
	s, err = repo.GetByToken(ctx, "fresh")
	require.NoError(t, err)
	assert.Nil(t, s)
}

func TestSessionRepository_Missing(t *testing.T) {
	repo := NewSessionRepo(openTestDB(t))

	s, err := repo.GetByToken(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, s)
}
