package repository

import (
	"context"

	"github.com/akinalp/kbbsite/models"
)

// ReviewRepository, yorum kataloğu veritabanı işlemleri için interface.
//
// List: Kataloğu içe aktarım sırasıyla döner.
// Insert: Tek yorumu verilen sıra numarasıyla ekler.
// DeleteAll: Kataloğu boşaltır (yeniden içe aktarımda, transaction içinde).
// RecordImport / LatestImport: İçe aktarım geçmişi.
type ReviewRepository interface {
	List(ctx context.Context) ([]models.Review, error)
	Count(ctx context.Context) (int, error)
	Insert(ctx context.Context, id string, position int, review models.Review) error
	DeleteAll(ctx context.Context) error
	RecordImport(ctx context.Context, imp *models.ReviewImport) error
	LatestImport(ctx context.Context, source string) (*models.ReviewImport, error)
}
