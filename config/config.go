// Package config, uygulamanın tüm konfigürasyonunu merkezi olarak yönetir.
// Environment variable'lardan okur, .env dosyasını da destekler.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config, uygulamanın tüm konfigürasyon değerlerini taşır.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Reviews  ReviewsConfig
	Site     SiteConfig
	Images   ImagesConfig
	Email    EmailConfig
	CORS     CORSConfig
}

// ServerConfig, HTTP server ayarları.
type ServerConfig struct {
	Host string
	Port int
}

// DatabaseConfig, yorum kataloğunun SQLite ayarları.
type DatabaseConfig struct {
	Path string // ör: ./data/kbbsite.db
}

// ReviewsConfig, yorum kaynağı ve gösterim şeridi ayarları.
type ReviewsConfig struct {
	EndpointURL     string        // boşsa kendi /api/google-reviews ucumuz
	FetchTimeout    time.Duration // tek GET denemesinin üst süresi
	RefreshInterval time.Duration // göreli etiketlerin yenilenme periyodu
	VisibleCount    int           // masaüstünde aynı anda görünen kart sayısı
	InjectPath      string        // doluysa bu JSON dosyası enjekte edilmiş değer olarak kullanılır
	ImportPath      string        // doluysa açılışta sqlite kataloğu bu dosyadan yenilenir
	ViewTTL         time.Duration // sayfa görüntüleme ön yüklemelerinin ömrü
}

// SiteConfig, sayfa içeriği ayarları.
type SiteConfig struct {
	ContentDir string // boşsa gömülü içerik kullanılır
	Language   string // tr | en
}

// ImagesConfig, görsel dosyaları.
type ImagesConfig struct {
	Dir string
}

// EmailConfig, randevu e-postaları (Resend).
// APIKey boşsa randevu ucu 503 döner.
type EmailConfig struct {
	ResendAPIKey string
	From         string
	ContactTo    string
}

// CORSConfig, izin verilen origin'ler.
type CORSConfig struct {
	AllowedOrigins []string
}

// Load, environment variable'lardan Config oluşturur.
// .env dosyası varsa önce onu yükler; yoksa sessizce devam eder.
func Load() (*Config, error) {
	_ = godotenv.Load()

	port, err := strconv.Atoi(getEnv("SERVER_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT: %w", err)
	}

	fetchTimeout, err := time.ParseDuration(getEnv("REVIEWS_FETCH_TIMEOUT", "5s"))
	if err != nil {
		return nil, fmt.Errorf("invalid REVIEWS_FETCH_TIMEOUT: %w", err)
	}

	refreshInterval, err := time.ParseDuration(getEnv("REVIEWS_REFRESH_INTERVAL", "60s"))
	if err != nil {
		return nil, fmt.Errorf("invalid REVIEWS_REFRESH_INTERVAL: %w", err)
	}
	if refreshInterval <= 0 {
		return nil, fmt.Errorf("REVIEWS_REFRESH_INTERVAL must be positive")
	}

	visible, err := strconv.Atoi(getEnv("REVIEWS_VISIBLE_COUNT", "3"))
	if err != nil {
		return nil, fmt.Errorf("invalid REVIEWS_VISIBLE_COUNT: %w", err)
	}
	if visible < 1 {
		return nil, fmt.Errorf("REVIEWS_VISIBLE_COUNT must be at least 1")
	}

	viewTTL, err := time.ParseDuration(getEnv("REVIEWS_VIEW_TTL", "10m"))
	if err != nil {
		return nil, fmt.Errorf("invalid REVIEWS_VIEW_TTL: %w", err)
	}

	lang := getEnv("SITE_LANGUAGE", "tr")
	if lang != "tr" && lang != "en" {
		return nil, fmt.Errorf("unsupported SITE_LANGUAGE: %s", lang)
	}

	host := getEnv("SERVER_HOST", "0.0.0.0")

	cfg := &Config{
		Server: ServerConfig{
			Host: host,
			Port: port,
		},
		Database: DatabaseConfig{
			Path: getEnv("DATABASE_PATH", "./data/kbbsite.db"),
		},
		Reviews: ReviewsConfig{
			EndpointURL:     getEnv("REVIEWS_ENDPOINT_URL", fmt.Sprintf("http://127.0.0.1:%d/api/google-reviews", port)),
			FetchTimeout:    fetchTimeout,
			RefreshInterval: refreshInterval,
			VisibleCount:    visible,
			InjectPath:      getEnv("REVIEWS_INJECT_PATH", ""),
			ImportPath:      getEnv("REVIEWS_IMPORT_PATH", ""),
			ViewTTL:         viewTTL,
		},
		Site: SiteConfig{
			ContentDir: getEnv("SITE_CONTENT_DIR", ""),
			Language:   lang,
		},
		Images: ImagesConfig{
			Dir: getEnv("IMAGES_DIR", "./data/images"),
		},
		Email: EmailConfig{
			ResendAPIKey: getEnv("RESEND_API_KEY", ""),
			From:         getEnv("RESEND_FROM", "randevu@example.com"),
			ContactTo:    getEnv("CONTACT_TO_EMAIL", ""),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(getEnv("CORS_ORIGINS", "http://localhost:8080")),
		},
	}

	return cfg, nil
}

// Addr, HTTP server'ın dinleyeceği adresi döner (ör: "0.0.0.0:8080").
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Enabled, randevu e-postalarının gönderilebilir olup olmadığını döner.
func (c *EmailConfig) Enabled() bool {
	return c.ResendAPIKey != "" && c.ContactTo != ""
}

// getEnv, environment variable'ı okur, yoksa fallback değeri döner.
func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

// splitList, virgülle ayrılmış listeyi boşlukları kırparak ayırır.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
