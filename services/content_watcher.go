package services

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"sync"
	"time"

	"github.com/akinalp/kbbsite/pkg/metrics"
	"github.com/fsnotify/fsnotify"
)

// contentReloadDelay, editörlerin art arda yazma olaylarını tek yeniden
// yüklemede toplamak için beklenen süre.
const contentReloadDelay = 250 * time.Millisecond

// Reloader, içeriği yeniden yükleyebilen bileşen. SiteService bunu karşılar.
type Reloader interface {
	Reload() error
}

// ContentWatcher, SITE_CONTENT_DIR'i izler ve site.yaml ya da about.md
// değiştiğinde içeriği yeniden yükler.
type ContentWatcher struct {
	watcher  *fsnotify.Watcher
	dir      string
	reloader Reloader
	delay    time.Duration

	closeOnce sync.Once
	done      chan struct{}
}

// NewContentWatcher, dir üzerinde bir fsnotify watcher oluşturur.
func NewContentWatcher(dir string, reloader Reloader) (*ContentWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create content watcher: %w", err)
	}

	// Dosya yerine dizin izlenir; editörler kaydederken dosyayı
	// silip yeniden oluşturabilir.
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	return &ContentWatcher{
		watcher:  watcher,
		dir:      dir,
		reloader: reloader,
		delay:    contentReloadDelay,
		done:     make(chan struct{}),
	}, nil
}

// Run, olayları ctx iptal edilene veya Close çağrılana kadar işler.
func (cw *ContentWatcher) Run(ctx context.Context) {
	var (
		timer   *time.Timer
		pending <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	log.Printf("[site] watching %s for content changes", cw.dir)

	for {
		select {
		case event, ok := <-cw.watcher.Events:
			if !ok {
				return
			}
			if !isContentFile(event.Name) || !event.Has(fsnotify.Write|fsnotify.Create|fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(cw.delay)
			} else {
				timer.Reset(cw.delay)
			}
			pending = timer.C

		case <-pending:
			pending = nil
			cw.reload()

		case err, ok := <-cw.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("[site] content watcher error: %v", err)

		case <-ctx.Done():
			return
		case <-cw.done:
			return
		}
	}
}

func (cw *ContentWatcher) reload() {
	if err := cw.reloader.Reload(); err != nil {
		metrics.ContentReloads.WithLabelValues("error").Inc()
		log.Printf("[site] content reload failed, keeping previous content: %v", err)
		return
	}
	metrics.ContentReloads.WithLabelValues("ok").Inc()
}

// Close, watcher'ı kapatır. Idempotent.
func (cw *ContentWatcher) Close() error {
	var err error
	cw.closeOnce.Do(func() {
		close(cw.done)
		err = cw.watcher.Close()
	})
	return err
}

func isContentFile(name string) bool {
	switch filepath.Base(name) {
	case siteContentFile, aboutFile:
		return true
	}
	return false
}
