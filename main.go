// Package main, kbbsite sunucusunun giriş noktasıdır.
//
// Bu dosyanın görevi, Dependency Injection "wire-up":
//  1. Config'i yükle
//  2. i18n çevirilerini yükle
//  3. Database'i başlat, yorum kataloğunu içe aktar
//  4. Repository, service ve handler katmanlarını oluştur (init_*.go)
//  5. WebSocket Hub'ı başlat
//  6. İçerik izleyicisini başlat (SITE_CONTENT_DIR varsa)
//  7. HTTP router'ı kur, middleware'leri sar
//  8. HTTP Server'ı başlat
//  9. Graceful shutdown
//
// Global değişken YOK, her şey bu fonksiyonda oluşturulup birbirine bağlanıyor.
package main

import (
	"context"
	"errors"
	"io/fs"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/akinalp/kbbsite/config"
	"github.com/akinalp/kbbsite/database"
	"github.com/akinalp/kbbsite/middleware"
	"github.com/akinalp/kbbsite/pkg/i18n"
	"github.com/akinalp/kbbsite/services"
	"github.com/akinalp/kbbsite/ws"
	"github.com/rs/cors"
)

func main() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.Println("[main] kbbsite server starting...")

	// ─── 1. Config ───
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[main] failed to load config: %v", err)
	}
	log.Printf("[main] config loaded (port=%d, lang=%s)", cfg.Server.Port, cfg.Site.Language)

	// ─── 2. i18n ───
	if err := i18n.LoadEmbedded(); err != nil {
		log.Fatalf("[main] failed to load i18n translations: %v", err)
	}

	// ─── 3. Database ───
	migrations, err := fs.Sub(database.EmbeddedMigrations, "migrations")
	if err != nil {
		log.Fatalf("[main] failed to open embedded migrations: %v", err)
	}

	db, err := database.New(cfg.Database.Path, migrations)
	if err != nil {
		log.Fatalf("[main] failed to initialize database: %v", err)
	}
	defer db.Close()

	// ─── 4. Katmanlar ───
	repos := initRepositories(db.Conn)

	svcs, caches, limiters, err := initServices(db.Conn, repos, cfg)
	if err != nil {
		log.Fatalf("[main] failed to initialize services: %v", err)
	}
	defer caches.Close()
	defer limiters.Close()

	importReviewCatalog(svcs.Catalog, cfg.Reviews.ImportPath)

	// ─── 5. WebSocket Hub ───
	//
	// Hub, yorum gösterim oturumlarının bağlantılarını tutar.
	// `go hub.Run()` register/unregister kanallarını dinler.
	hub := ws.NewHub()
	go hub.Run()

	h, err := initHandlers(svcs, db.Conn, hub, cfg)
	if err != nil {
		log.Fatalf("[main] %v", err)
	}

	// ─── 6. İçerik izleyicisi ───
	watchCtx, stopWatch := context.WithCancel(context.Background())
	defer stopWatch()

	if cfg.Site.ContentDir != "" {
		watcher, err := services.NewContentWatcher(cfg.Site.ContentDir, svcs.Site)
		if err != nil {
			log.Printf("[main] content hot reload disabled: %v", err)
		} else {
			defer watcher.Close()
			go watcher.Run(watchCtx)
			log.Printf("[main] watching %s for content changes", cfg.Site.ContentDir)
		}
	}

	// ─── 7. HTTP Router ───
	mux := http.NewServeMux()
	initRoutes(mux, h, limiters)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: false,
		Debug:            false,
	})

	// Dıştan içe: recovery → metrics → CORS → mux
	handler := middleware.Recovery(middleware.Metrics(corsHandler.Handler(mux)))

	// ─── 8. HTTP Server ───
	srv := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	// ─── 9. Graceful Shutdown ───
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("[main] server listening on %s", cfg.Server.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("[main] server error: %v", err)
		}
	}()

	<-done
	log.Println("[main] shutting down...")

	// Önce gösterim oturumlarını kapat (ticker'lar durur), sonra HTTP server'ı.
	hub.Shutdown()
	stopWatch()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("[main] forced shutdown: %v", err)
	}

	log.Println("[main] server stopped gracefully")
}

// importReviewCatalog, REVIEWS_IMPORT_PATH verilmişse kataloğu yeniler.
// Hata fatal değildir; mevcut katalog (veya boş liste) ile devam edilir.
func importReviewCatalog(catalog services.ReviewCatalog, path string) {
	if path == "" {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if _, _, err := catalog.ImportFile(ctx, path); err != nil {
		log.Printf("[main] review import failed: %v", err)
	}
}
