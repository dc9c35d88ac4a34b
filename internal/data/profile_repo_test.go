package data

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/parkease/parkeased/internal/domain/auth"
	"github.com/parkease/parkeased/internal/ports"
	"github.com/parkease/parkeased/internal/testutil"
)

func TestProfileRepo_SetAndGet(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewProfileRepo(db)

		_, err := repo.Get(ctx, "missing")
		require.ErrorIs(t, err, ports.ErrProfileNotFound)

		uid := fmt.Sprintf("uid-%d", time.Now().UnixNano())
		profile := domainauth.Profile{
			ID:          uid,
			Email:       uid + "@example.com",
			Role:        domainauth.RoleAdmin,
			DisplayName: "Kim Park",
		}
		require.NoError(t, repo.Set(ctx, profile, false))

		got, err := repo.Get(ctx, uid)
		require.NoError(t, err)
		assert.Equal(t, profile.Email, got.Email)
		assert.Equal(t, domainauth.RoleAdmin, got.Role)
		assert.NotZero(t, got.CreatedAt)

		byEmail, err := repo.GetByEmail(ctx, profile.Email)
		require.NoError(t, err)
		assert.Equal(t, uid, byEmail.ID)
	})
}

func TestProfileRepo_OverwriteVsMerge(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewProfileRepo(db)

		uid := fmt.Sprintf("uid-%d", time.Now().UnixNano())
		require.NoError(t, repo.Set(ctx, domainauth.Profile{
			ID:          uid,
			Email:       "orig@example.com",
			Role:        domainauth.RoleInspector,
			DisplayName: "Original Name",
		}, false))

		// Merge with sparse record keeps stored role and name.
		require.NoError(t, repo.Set(ctx, domainauth.Profile{
			ID:    uid,
			Email: "updated@example.com",
		}, true))

		got, err := repo.Get(ctx, uid)
		require.NoError(t, err)
		assert.Equal(t, "updated@example.com", got.Email)
		assert.Equal(t, domainauth.RoleInspector, got.Role)
		assert.Equal(t, "Original Name", got.DisplayName)
		mergedCreated := got.CreatedAt

		// Overwrite replaces the row wholesale.
		require.NoError(t, repo.Set(ctx, domainauth.Profile{
			ID:    uid,
			Email: "replaced@example.com",
			Role:  domainauth.RoleUser,
		}, false))

		got, err = repo.Get(ctx, uid)
		require.NoError(t, err)
		assert.Equal(t, "replaced@example.com", got.Email)
		assert.Equal(t, domainauth.RoleUser, got.Role)
		assert.Empty(t, got.DisplayName)
		assert.False(t, got.CreatedAt.Before(mergedCreated.Add(-time.Second)))
	})
}

func TestProfileRepo_ListAndCount(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewProfileRepo(db)

		for i := range 3 {
			uid := fmt.Sprintf("uid-list-%d-%d", time.Now().UnixNano(), i)
			require.NoError(t, repo.Set(ctx, domainauth.Profile{
				ID:    uid,
				Email: uid + "@example.com",
				Role:  domainauth.RoleUser,
			}, false))
		}

		lst, err := repo.List(ctx, 10, 0)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, len(lst), 3)

		count, err := repo.Count(ctx)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, count, 3)
	})
}

func TestProfileRepo_Validation(t *testing.T) {
	repo := NewProfileRepo(nil)

	err := repo.Set(context.Background(), domainauth.Profile{}, false)
	require.Error(t, err)

	err = repo.Set(context.Background(), domainauth.Profile{ID: "x", Role: "owner"}, false)
	require.Error(t, err)
}
