package database

import (
	"context"
	"fmt"
	"testing"

	"waba-admin/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *ActivityStore {
	t.Helper()
	db, err := OpenSQLite(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()))
	require.NoError(t, err)
	require.NoError(t, Migrate(db))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	return NewActivityStore(db)
}

func TestActivityStoreRecent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for _, target := range []string{"11", "12", "13"} {
		require.NoError(t, store.Record(ctx, &models.Activity{
			Action:   models.ActionAddBalance,
			TargetID: target,
			Success:  true,
		}))
	}

	first, pages, err := store.Recent(ctx, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, pages)
	require.Len(t, first, 2)
	assert.Equal(t, "13", first[0].TargetID)

	second, _, err := store.Recent(ctx, 2, 2)
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.Equal(t, "11", second[0].TargetID)
}

func TestActivityStoreEmpty(t *testing.T) {
	store := newTestStore(t)

	activities, pages, err := store.Recent(context.Background(), 0, 0)
	require.NoError(t, err)
	assert.Empty(t, activities)
	assert.Equal(t, 1, pages)
}
