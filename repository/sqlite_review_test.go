package repository

import (
	"context"
	"io/fs"
	"testing"
	"time"

	"github.com/akinalp/kbbsite/database"
	"github.com/akinalp/kbbsite/models"
	"github.com/akinalp/kbbsite/pkg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *database.DB {
	t.Helper()
	sub, err := fs.Sub(database.EmbeddedMigrations, "migrations")
	require.NoError(t, err)

	db, err := database.New(":memory:", sub)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestSQLiteReviewRepo_InsertAndListInOrder(t *testing.T) {
	repo := NewSQLiteReviewRepo(newTestDB(t).Conn)
	ctx := context.Background()

	published := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Insert(ctx, "b", 1, models.Review{AuthorName: "B", Rating: 4, RelativeLabel: "1 ay önce"}))
	require.NoError(t, repo.Insert(ctx, "a", 0, models.Review{AuthorName: "A", Rating: 5, Text: "iyi", PublishedAt: published}))

	reviews, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, reviews, 2)

	assert.Equal(t, "A", reviews[0].AuthorName)
	assert.True(t, published.Equal(reviews[0].PublishedAt))
	assert.Equal(t, "B", reviews[1].AuthorName)
	assert.False(t, reviews[1].HasTimestamp())
	assert.Equal(t, "1 ay önce", reviews[1].RelativeLabel)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestSQLiteReviewRepo_EmptyListIsNotNil(t *testing.T) {
	repo := NewSQLiteReviewRepo(newTestDB(t).Conn)

	reviews, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, reviews)
	assert.Empty(t, reviews)
}

func TestSQLiteReviewRepo_DeleteAll(t *testing.T) {
	repo := NewSQLiteReviewRepo(newTestDB(t).Conn)
	ctx := context.Background()

	require.NoError(t, repo.Insert(ctx, "a", 0, models.Review{AuthorName: "A"}))
	require.NoError(t, repo.DeleteAll(ctx))

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestSQLiteReviewRepo_Imports(t *testing.T) {
	repo := NewSQLiteReviewRepo(newTestDB(t).Conn)
	ctx := context.Background()

	_, err := repo.LatestImport(ctx, "reviews.json")
	assert.ErrorIs(t, err, pkg.ErrNotFound)

	first := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, repo.RecordImport(ctx, &models.ReviewImport{ID: "1", Source: "reviews.json", Checksum: "aaa", ReviewCount: 3, ImportedAt: first}))
	require.NoError(t, repo.RecordImport(ctx, &models.ReviewImport{ID: "2", Source: "reviews.json", Checksum: "bbb", ReviewCount: 4, ImportedAt: first.Add(time.Hour)}))

	latest, err := repo.LatestImport(ctx, "reviews.json")
	require.NoError(t, err)
	assert.Equal(t, "bbb", latest.Checksum)
	assert.Equal(t, 4, latest.ReviewCount)
}
