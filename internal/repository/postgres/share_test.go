package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/pagewright/pagewright/internal/domain"
)

func TestShareRepository(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	testDB := SetupTestDB(t)
	defer testDB.Cleanup(t)

	db := sqlx.NewDb(testDB.DB, "postgres")
	repo := NewShareRepository(db)
	ctx := context.Background()

	newShare := func(code string) *domain.SharedResult {
		return domain.NewSharedResult(uuid.New(), code, domain.ShareKindGeneration, "Blue button", domain.JSONB{
			"component": map[string]any{"type": "button"},
		})
	}

	t.Run("Create", func(t *testing.T) {
		testDB.TruncateTables(t)

		share := newShare("abc123XYZ")
		err := repo.Create(ctx, share)
		require.NoError(t, err)

		fetched, err := repo.GetByCode(ctx, "abc123XYZ")
		require.NoError(t, err)
		assert.Equal(t, share.ID, fetched.ID)
		assert.Equal(t, domain.ShareKindGeneration, fetched.Kind)
		assert.Equal(t, "Blue button", fetched.Title)
		assert.Equal(t, 0, fetched.ViewCount)
		assert.NotNil(t, fetched.Payload["component"])
	})

	t.Run("Create_DuplicateCode", func(t *testing.T) {
		testDB.TruncateTables(t)

		require.NoError(t, repo.Create(ctx, newShare("same-code")))

		err := repo.Create(ctx, newShare("same-code"))
		require.Error(t, err)
		assert.True(t, domain.IsAlreadyExistsError(err))
	})

	t.Run("GetByCode_NotFound", func(t *testing.T) {
		testDB.TruncateTables(t)

		_, err := repo.GetByCode(ctx, "no-such-code")
		require.Error(t, err)
		assert.True(t, domain.IsNotFoundError(err))
	})

	t.Run("IncrementViews", func(t *testing.T) {
		testDB.TruncateTables(t)

		share := newShare("views-test")
		require.NoError(t, repo.Create(ctx, share))

		for i := 0; i < 3; i++ {
			require.NoError(t, repo.IncrementViews(ctx, share.ID))
		}

		fetched, err := repo.GetByCode(ctx, "views-test")
		require.NoError(t, err)
		assert.Equal(t, 3, fetched.ViewCount)
	})

	t.Run("IncrementViews_NotFound", func(t *testing.T) {
		testDB.TruncateTables(t)

		err := repo.IncrementViews(ctx, uuid.New())
		require.Error(t, err)
		assert.True(t, domain.IsNotFoundError(err))
	})

	t.Run("SoftDelete", func(t *testing.T) {
		testDB.TruncateTables(t)

		share := newShare("to-delete")
		require.NoError(t, repo.Create(ctx, share))

		require.NoError(t, repo.SoftDelete(ctx, share.ID))

		_, err := repo.GetByCode(ctx, "to-delete")
		require.Error(t, err)
		assert.True(t, domain.IsNotFoundError(err))
	})

	t.Run("DeleteExpired", func(t *testing.T) {
		testDB.TruncateTables(t)

		expired := newShare("expired-share")
		past := time.Now().Add(-time.Hour)
		expired.ExpiresAt = &past
		require.NoError(t, repo.Create(ctx, expired))

		valid := newShare("valid-share")
		future := time.Now().Add(24 * time.Hour)
		valid.ExpiresAt = &future
		require.NoError(t, repo.Create(ctx, valid))

		forever := newShare("forever-share")
		require.NoError(t, repo.Create(ctx, forever))

		count, err := repo.DeleteExpired(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, count)

		_, err = repo.GetByCode(ctx, "expired-share")
		assert.True(t, domain.IsNotFoundError(err))

		_, err = repo.GetByCode(ctx, "valid-share")
		assert.NoError(t, err)

		_, err = repo.GetByCode(ctx, "forever-share")
		assert.NoError(t, err)
	})

	t.Run("Create_WithViewLimit", func(t *testing.T) {
		testDB.TruncateTables(t)

		share := newShare("limited")
		share.MaxViews = 2
		require.NoError(t, repo.Create(ctx, share))

		fetched, err := repo.GetByCode(ctx, "limited")
		require.NoError(t, err)
		assert.True(t, fetched.Viewable(time.Now()))

		require.NoError(t, repo.IncrementViews(ctx, share.ID))
		require.NoError(t, repo.IncrementViews(ctx, share.ID))

		fetched, err = repo.GetByCode(ctx, "limited")
		require.NoError(t, err)
		assert.False(t, fetched.Viewable(time.Now()), "share should be exhausted after max views")
	})
}
