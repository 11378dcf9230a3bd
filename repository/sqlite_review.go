package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/akinalp/kbbsite/database"
	"github.com/akinalp/kbbsite/models"
	"github.com/akinalp/kbbsite/pkg"
)

// sqliteReviewRepo, ReviewRepository interface'inin SQLite implementasyonu.
type sqliteReviewRepo struct {
	db database.TxQuerier
}

// NewSQLiteReviewRepo, constructor, interface döner.
// db olarak *sql.DB ya da WithTx içindeki *sql.Tx geçilebilir.
func NewSQLiteReviewRepo(db database.TxQuerier) ReviewRepository {
	return &sqliteReviewRepo{db: db}
}

func (r *sqliteReviewRepo) List(ctx context.Context) ([]models.Review, error) {
	query := `
		SELECT author_name, rating, text, published_at, relative_label
		FROM reviews
		ORDER BY position ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	defer rows.Close()

	reviews := []models.Review{} // boş katalog → [] (null değil)
	for rows.Next() {
		var rev models.Review
		var publishedAt sql.NullTime

		if err := rows.Scan(&rev.AuthorName, &rev.Rating, &rev.Text, &publishedAt, &rev.RelativeLabel); err != nil {
			return nil, fmt.Errorf("failed to scan review row: %w", err)
		}
		if publishedAt.Valid {
			rev.PublishedAt = publishedAt.Time.UTC()
		}
		reviews = append(reviews, rev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate review rows: %w", err)
	}

	return reviews, nil
}

func (r *sqliteReviewRepo) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM reviews`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count reviews: %w", err)
	}
	return count, nil
}

func (r *sqliteReviewRepo) Insert(ctx context.Context, id string, position int, review models.Review) error {
	var publishedAt sql.NullTime
	if review.HasTimestamp() {
		publishedAt = sql.NullTime{Time: review.PublishedAt.UTC(), Valid: true}
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO reviews (id, position, author_name, rating, text, published_at, relative_label)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, position, review.AuthorName, review.Rating, review.Text, publishedAt, review.RelativeLabel,
	)
	if err != nil {
		return fmt.Errorf("failed to insert review: %w", err)
	}
	return nil
}

func (r *sqliteReviewRepo) DeleteAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM reviews`); err != nil {
		return fmt.Errorf("failed to delete reviews: %w", err)
	}
	return nil
}

func (r *sqliteReviewRepo) RecordImport(ctx context.Context, imp *models.ReviewImport) error {
	if imp.ImportedAt.IsZero() {
		imp.ImportedAt = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO review_imports (id, source, checksum, review_count, imported_at)
		VALUES (?, ?, ?, ?, ?)`,
		imp.ID, imp.Source, imp.Checksum, imp.ReviewCount, imp.ImportedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record review import: %w", err)
	}
	return nil
}

// LatestImport, verilen kaynağın en son içe aktarım kaydını döner.
// Kayıt yoksa pkg.ErrNotFound döner.
func (r *sqliteReviewRepo) LatestImport(ctx context.Context, source string) (*models.ReviewImport, error) {
	imp := &models.ReviewImport{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id, source, checksum, review_count, imported_at
		FROM review_imports
		WHERE source = ?
		ORDER BY imported_at DESC, rowid DESC
		LIMIT 1`, source,
	).Scan(&imp.ID, &imp.Source, &imp.Checksum, &imp.ReviewCount, &imp.ImportedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, pkg.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest review import: %w", err)
	}
	return imp, nil
}
