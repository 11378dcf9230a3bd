// Package main: Service katmanı başlatma.
//
// initServices, service implementasyonlarını oluşturur.
// Her service, ihtiyaç duyduğu repository interface'lerini ve diğer
// dependency'leri constructor injection ile alır.
//
// Sıralama:
// 1. Cache'ler → catalog ve resolver'dan ÖNCE
// 2. resolver → site service ve session factory'den ÖNCE
package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io/fs"
	"log"
	"os"
	"time"

	"github.com/akinalp/kbbsite/config"
	"github.com/akinalp/kbbsite/models"
	"github.com/akinalp/kbbsite/pkg/cache"
	"github.com/akinalp/kbbsite/pkg/email"
	"github.com/akinalp/kbbsite/pkg/httpclient"
	"github.com/akinalp/kbbsite/pkg/ratelimit"
	"github.com/akinalp/kbbsite/pkg/seo"
	"github.com/akinalp/kbbsite/services"
	"github.com/akinalp/kbbsite/static"
)

// catalogCacheTTL, /api/google-reviews listesinin bellekte tutulma süresi.
const catalogCacheTTL = 60 * time.Second

// Services, service instance'larını tutan container struct.
type Services struct {
	Catalog     services.ReviewCatalog
	Resolver    services.ReviewResolver
	Site        services.SiteService
	Appointment services.AppointmentService
	Sessions    *services.ReviewSessionFactory
	Head        *seo.Head
}

// Caches, arka plan temizleyicisi olan cache'ler. Shutdown'da kapatılır.
type Caches struct {
	Catalog  *cache.TTLCache[string, []models.Review]
	Preloads *cache.TTLCache[string, services.ResolvedReviews]
}

// Close, tüm cache temizleyicilerini durdurur.
func (c *Caches) Close() {
	c.Catalog.Close()
	c.Preloads.Close()
}

// RateLimiters, rate limiter instance'larını tutan container.
type RateLimiters struct {
	Reviews     *ratelimit.IPRateLimiter
	Appointment *ratelimit.IPRateLimiter
}

// Close, temizleme goroutine'lerini durdurur.
func (l *RateLimiters) Close() {
	l.Reviews.Close()
	l.Appointment.Close()
}

// initServices, service'leri, cache'leri ve rate limiter'ları oluşturur.
func initServices(db *sql.DB, repos *Repositories, cfg *config.Config) (*Services, *Caches, *RateLimiters, error) {
	caches := &Caches{
		Catalog:  cache.New[string, []models.Review](catalogCacheTTL, catalogCacheTTL),
		Preloads: cache.New[string, services.ResolvedReviews](cfg.Reviews.ViewTTL, time.Minute),
	}

	catalog := services.NewReviewCatalog(db, repos.Review, caches.Catalog)

	injected, err := loadInjectedReviews(cfg.Reviews.InjectPath)
	if err != nil {
		caches.Close()
		return nil, nil, nil, err
	}

	// Tek GET, tekrar yok; kaynak çökmüşse devre açılır ve sayfa beklemeden
	// örnek listeye düşer.
	fetcher := httpclient.NewCircuitBreakerClient(
		httpclient.New(httpclient.Config{Timeout: cfg.Reviews.FetchTimeout}),
		httpclient.DefaultCircuitBreakerConfig("reviews"),
	)
	resolver := services.NewReviewResolver(injected, fetcher, cfg.Reviews.EndpointURL, cfg.Reviews.FetchTimeout)

	head := seo.NewHead()
	site, err := services.NewSiteService(contentFS(cfg.Site.ContentDir), head, resolver, caches.Preloads, services.SiteConfig{
		Language:     cfg.Site.Language,
		VisibleCount: cfg.Reviews.VisibleCount,
	})
	if err != nil {
		caches.Close()
		return nil, nil, nil, fmt.Errorf("failed to load site content: %w", err)
	}

	sessions := services.NewReviewSessionFactory(resolver, caches.Preloads, services.ReviewSessionConfig{
		VisibleCount:    cfg.Reviews.VisibleCount,
		RefreshInterval: cfg.Reviews.RefreshInterval,
		Language:        cfg.Site.Language,
	})

	// Email (opsiyonel): Resend API key ve alıcı yoksa randevu ucu 503 döner.
	var sender email.EmailSender
	if cfg.Email.Enabled() {
		sender = email.NewResendSender(cfg.Email.ResendAPIKey, cfg.Email.From, cfg.Email.ContactTo, site.Content().Practice.Name)
		log.Println("[main] email service initialized (Resend)")
	} else {
		log.Println("[main] email service not configured (RESEND_API_KEY or CONTACT_TO_EMAIL not set), appointments disabled")
	}

	svcs := &Services{
		Catalog:     catalog,
		Resolver:    resolver,
		Site:        site,
		Appointment: services.NewAppointmentService(sender, cfg.Site.Language),
		Sessions:    sessions,
		Head:        head,
	}

	limiters := &RateLimiters{
		// Sayfa çizimi yorum ucunu 127.0.0.1 üzerinden çağırır.
		Reviews:     ratelimit.NewIPRateLimiter(60, time.Minute).SkipLocalRequests(),
		Appointment: ratelimit.NewIPRateLimiter(5, 10*time.Minute),
	}

	return svcs, caches, limiters, nil
}

// contentFS, SITE_CONTENT_DIR verilmişse diskteki, yoksa gömülü içeriği döner.
func contentFS(dir string) fs.FS {
	if dir == "" {
		return static.Content()
	}
	return os.DirFS(dir)
}

// loadInjectedReviews, REVIEWS_INJECT_PATH dosyasını ham JSON olarak okur.
// Dosyanın biçimi burada kontrol edilmez; resolver her çözümlemede doğrular.
func loadInjectedReviews(path string) (*services.InjectedReviews, error) {
	if path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read injected reviews %s: %w", path, err)
	}

	injected := services.NewInjectedReviews()
	injected.Set(json.RawMessage(data))
	log.Printf("[main] injected reviews loaded from %s", path)
	return injected, nil
}
