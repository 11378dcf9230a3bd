package services

import (
	"bytes"
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/akinalp/kbbsite/database"
	"github.com/akinalp/kbbsite/models"
	"github.com/akinalp/kbbsite/pkg"
	"github.com/akinalp/kbbsite/pkg/cache"
	"github.com/akinalp/kbbsite/repository"
	"github.com/google/uuid"
)

// catalogCacheKey, katalog cache'inde tek anahtar kullanılır.
const catalogCacheKey = "reviews"

// ReviewCatalog, /api/google-reviews ucunu besleyen yerel yorum kataloğu.
//
// Katalog bir JSON dosyasından içe aktarılır. Dosya ya yorum dizisi ya da
// {"reviews": [...]} biçiminde olabilir. Aynı içerik (sha256) ikinci kez
// içe aktarılmaz.
type ReviewCatalog interface {
	List(ctx context.Context) ([]models.Review, error)
	ImportFile(ctx context.Context, path string) (*models.ReviewImport, bool, error)
	Import(ctx context.Context, source string, data []byte) (*models.ReviewImport, bool, error)
}

type reviewCatalog struct {
	db         *sql.DB
	reviewRepo repository.ReviewRepository
	cache      *cache.TTLCache[string, []models.Review]
	now        func() time.Time
}

// NewReviewCatalog, constructor.
//
// db: Import'ta WithTx ile atomik yenileme için gerekir; transaction içinde
// tx-bound repo oluşturulur. reviewRepo okuma yolunda kullanılır.
func NewReviewCatalog(db *sql.DB, reviewRepo repository.ReviewRepository, listCache *cache.TTLCache[string, []models.Review]) ReviewCatalog {
	return &reviewCatalog{
		db:         db,
		reviewRepo: reviewRepo,
		cache:      listCache,
		now:        time.Now,
	}
}

// List, kataloğu döner. Boş katalog boş slice döner, hata değil.
func (c *reviewCatalog) List(ctx context.Context) ([]models.Review, error) {
	if c.cache == nil {
		return c.reviewRepo.List(ctx)
	}
	return c.cache.GetOrLoad(catalogCacheKey, func() ([]models.Review, error) {
		return c.reviewRepo.List(ctx)
	})
}

// ImportFile, path'teki dosyayı içe aktarır. Kaynak adı olarak path kullanılır.
func (c *reviewCatalog) ImportFile(ctx context.Context, path string) (*models.ReviewImport, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false, fmt.Errorf("failed to read review import %s: %w", path, err)
	}
	return c.Import(ctx, path, data)
}

// Import, veriyi katalog olarak yazar. İkinci dönüş değeri içe aktarımın
// gerçekten yapılıp yapılmadığını belirtir; içerik son içe aktarımla aynıysa
// false ve son kayıt döner.
func (c *reviewCatalog) Import(ctx context.Context, source string, data []byte) (*models.ReviewImport, bool, error) {
	reviews, err := decodeImport(data)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %v", pkg.ErrBadRequest, err)
	}

	sum := sha256.Sum256(data)
	checksum := hex.EncodeToString(sum[:])

	latest, err := c.reviewRepo.LatestImport(ctx, source)
	switch {
	case err == nil && latest.Checksum == checksum:
		log.Printf("[reviews] catalog import skipped, %s unchanged (%d reviews)", source, latest.ReviewCount)
		return latest, false, nil
	case err != nil && !errors.Is(err, pkg.ErrNotFound):
		return nil, false, err
	}

	imp := &models.ReviewImport{
		ID:          uuid.New().String(),
		Source:      source,
		Checksum:    checksum,
		ReviewCount: len(reviews),
		ImportedAt:  c.now().UTC(),
	}

	// ─── Atomik yenileme ───
	// Eski katalog silinir, yenisi yazılır, içe aktarım kaydedilir.
	err = database.WithTx(ctx, c.db, func(tx *sql.Tx) error {
		txRepo := repository.NewSQLiteReviewRepo(tx)

		if err := txRepo.DeleteAll(ctx); err != nil {
			return err
		}
		for i, review := range reviews {
			if err := txRepo.Insert(ctx, uuid.New().String(), i, review); err != nil {
				return err
			}
		}
		return txRepo.RecordImport(ctx, imp)
	})
	if err != nil {
		return nil, false, fmt.Errorf("failed to import reviews from %s: %w", source, err)
	}

	if c.cache != nil {
		c.cache.Clear()
	}

	log.Printf("[reviews] catalog imported from %s: %d reviews", source, len(reviews))
	return imp, true, nil
}

// decodeImport, dizi ya da {"reviews": [...]} biçimindeki içe aktarım verisini çözer.
func decodeImport(data []byte) ([]models.Review, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var envelope struct {
			Reviews json.RawMessage `json:"reviews"`
		}
		if err := json.Unmarshal(trimmed, &envelope); err != nil {
			return nil, fmt.Errorf("invalid review import: %w", err)
		}
		trimmed = envelope.Reviews
	}
	return models.DecodeReviewList(trimmed)
}
