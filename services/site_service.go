package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"io/fs"
	"log"
	"sync"
	"time"

	"github.com/akinalp/kbbsite/models"
	"github.com/akinalp/kbbsite/pkg/reltime"
	"github.com/akinalp/kbbsite/pkg/seo"
	"github.com/akinalp/kbbsite/pkg/slider"
	"github.com/akinalp/kbbsite/ws"
	"github.com/google/uuid"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"gopkg.in/yaml.v3"
)

const (
	// PhysicianSchemaID, Physician JSON-LD script'inin head'deki sabit id'si.
	PhysicianSchemaID = "schema-physician"

	// GridReviewLimit, masaüstü ızgarasında gösterilen en fazla yorum.
	GridReviewLimit = 6

	siteContentFile = "site.yaml"
	aboutFile       = "about.md"
)

// PageData, ana sayfa şablonunun verisi.
type PageData struct {
	Lang    string
	Content *models.SiteContent
	Head    []seo.Script
	ViewID  string
	Year    int
	Reviews ReviewsSection
}

// ReviewsSection, yorum bölümünün ilk çizimi. Sonraki güncellemeler
// /ws/reviews üzerinden gelir.
type ReviewsSection struct {
	Snapshot ws.SnapshotData
	Grid     []ws.ReviewCard
}

// SiteConfig, site service ayarları.
type SiteConfig struct {
	Language     string
	VisibleCount int
}

// SiteService, sayfa içeriğini yükler ve ana sayfa verisini oluşturur.
type SiteService interface {
	// Content, yüklü içeriğin anlık görüntüsü. Dönen değer değiştirilmemelidir.
	Content() *models.SiteContent
	// Reload, içeriği kaynaktan yeniden okur. Hata durumunda eski içerik kalır.
	Reload() error
	// BuildPage, yorumları bir kez çözer, sayfa kimliği ile saklar ve
	// şablon verisini döner.
	BuildPage(ctx context.Context) (*PageData, error)
}

type siteService struct {
	contentFS fs.FS
	head      *seo.Head
	resolver  ReviewResolver
	preloads  PreloadStore
	formatter *reltime.Formatter
	markdown  goldmark.Markdown
	cfg       SiteConfig
	now       func() time.Time

	mu      sync.RWMutex
	content *models.SiteContent
}

// NewSiteService, içeriği contentFS'ten yükler. İlk yükleme başarısızsa hata döner.
func NewSiteService(
	contentFS fs.FS,
	head *seo.Head,
	resolver ReviewResolver,
	preloads PreloadStore,
	cfg SiteConfig,
) (SiteService, error) {
	s := &siteService{
		contentFS: contentFS,
		head:      head,
		resolver:  resolver,
		preloads:  preloads,
		formatter: reltime.New(cfg.Language),
		markdown:  goldmark.New(goldmark.WithExtensions(extension.GFM, extension.Typographer)),
		cfg:       cfg,
		now:       time.Now,
	}

	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *siteService) Content() *models.SiteContent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.content
}

func (s *siteService) Reload() error {
	content, err := s.load()
	if err != nil {
		return err
	}

	// Aynı id ile eklendiği için yeniden yüklemede head'de kopya oluşmaz.
	if err := s.head.Attach(PhysicianSchemaID, content.Physician()); err != nil {
		return fmt.Errorf("failed to attach physician schema: %w", err)
	}

	s.mu.Lock()
	s.content = content
	s.mu.Unlock()

	log.Printf("[site] content loaded: %d services, %d experience entries, %d gallery images",
		len(content.Services), len(content.Experience), len(content.Gallery))
	return nil
}

func (s *siteService) load() (*models.SiteContent, error) {
	raw, err := fs.ReadFile(s.contentFS, siteContentFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", siteContentFile, err)
	}

	content := &models.SiteContent{}
	if err := yaml.Unmarshal(raw, content); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", siteContentFile, err)
	}
	if err := content.Validate(); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", siteContentFile, err)
	}

	// about.md opsiyonel
	about, err := fs.ReadFile(s.contentFS, aboutFile)
	if err == nil {
		var buf bytes.Buffer
		if err := s.markdown.Convert(about, &buf); err != nil {
			return nil, fmt.Errorf("failed to render %s: %w", aboutFile, err)
		}
		// goldmark varsayılan olarak ham HTML'i çıkarmaz (WithUnsafe yok)
		content.AboutHTML = template.HTML(buf.String())
	}

	return content, nil
}

func (s *siteService) BuildPage(ctx context.Context) (*PageData, error) {
	content := s.Content()
	if content == nil {
		return nil, fmt.Errorf("site content not loaded")
	}

	resolved := s.resolver.Resolve(ctx)

	viewID := uuid.New().String()
	s.preloads.Set(viewID, resolved)

	snapshot := WindowSnapshot(s.formatter, resolved.Source, slider.New(resolved.Reviews, s.cfg.VisibleCount), s.now())

	grid := snapshot.Cards
	if len(grid) > GridReviewLimit {
		grid = grid[:GridReviewLimit]
	}

	return &PageData{
		Lang:    s.formatter.Lang(),
		Content: content,
		Head:    s.head.Scripts(),
		ViewID:  viewID,
		Year:    s.now().Year(),
		Reviews: ReviewsSection{
			Snapshot: snapshot,
			Grid:     grid,
		},
	}, nil
}
