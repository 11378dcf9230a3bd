package services

import (
	"context"
	"sync"
	"time"

	"github.com/akinalp/kbbsite/models"
	"github.com/akinalp/kbbsite/pkg/reltime"
	"github.com/akinalp/kbbsite/pkg/slider"
	"github.com/akinalp/kbbsite/ws"
)

// PreloadStore, GET / sırasında çözülen listeleri sayfa kimliğiyle saklar.
// *cache.TTLCache[string, ResolvedReviews] bu interface'i karşılar.
type PreloadStore interface {
	Get(viewID string) (ResolvedReviews, bool)
	Set(viewID string, resolved ResolvedReviews)
}

// ReviewLabel, yorumun göreli zaman etiketini döner: zaman damgası varsa
// now'a göre hesaplanır, yoksa kaynağın hazır etiketi, o da yoksa "".
func ReviewLabel(f *reltime.Formatter, r models.Review, now time.Time) string {
	if r.HasTimestamp() {
		return f.Format(r.PublishedAt, now)
	}
	return r.RelativeLabel
}

// ReviewCards, listeyi gösterime hazır kartlara çevirir.
func ReviewCards(f *reltime.Formatter, reviews []models.Review, now time.Time) []ws.ReviewCard {
	cards := make([]ws.ReviewCard, len(reviews))
	for i, r := range reviews {
		cards[i] = ws.ReviewCard{
			AuthorName:  r.AuthorName,
			Rating:      r.Rating,
			FilledStars: r.FilledStars(),
			Text:        r.Text,
			Label:       ReviewLabel(f, r, now),
		}
	}
	return cards
}

// ReviewSessionConfig, oturumların ortak ayarları.
type ReviewSessionConfig struct {
	VisibleCount    int
	RefreshInterval time.Duration
	Language        string
}

// ReviewSessionFactory, ws.SessionFactory implementasyonu.
type ReviewSessionFactory struct {
	resolver  ReviewResolver
	preloads  PreloadStore
	formatter *reltime.Formatter
	cfg       ReviewSessionConfig
	now       func() time.Time
}

// NewReviewSessionFactory, constructor.
func NewReviewSessionFactory(resolver ReviewResolver, preloads PreloadStore, cfg ReviewSessionConfig) *ReviewSessionFactory {
	if cfg.RefreshInterval <= 0 {
		cfg.RefreshInterval = 60 * time.Second
	}
	return &ReviewSessionFactory{
		resolver:  resolver,
		preloads:  preloads,
		formatter: reltime.New(cfg.Language),
		cfg:       cfg,
		now:       time.Now,
	}
}

// NewSession, bağlantı için yeni bir oturum oluşturur.
func (f *ReviewSessionFactory) NewSession(viewID string, sink ws.EventSink) ws.DisplaySession {
	return NewReviewSession(viewID, sink, f.resolver, f.preloads, f.formatter, f.cfg, f.now)
}

// ReviewSession, tek bir sayfa görüntülemesinin yorum şeridi.
//
// Liste sayfa kimliğiyle ön yüklenmişse tekrar istek atılmaz; değilse tek
// seferlik çözümleme arka planda yapılır. Her değişiklikte ve her
// RefreshInterval'da etiketleri yeniden hesaplanmış bir snapshot gönderilir.
// Close sonrası geç gelen çözümleme sonuçları dahil her şey etkisizdir.
type ReviewSession struct {
	mu        sync.Mutex
	viewID    string
	sink      ws.EventSink
	resolver  ReviewResolver
	preloads  PreloadStore
	formatter *reltime.Formatter
	interval  time.Duration
	now       func() time.Time

	window   *slider.Window[models.Review]
	source   ReviewSource
	resolved bool
	started  bool
	closed   bool
	stop     chan struct{}
}

// NewReviewSession, constructor. now nil ise time.Now kullanılır.
func NewReviewSession(
	viewID string,
	sink ws.EventSink,
	resolver ReviewResolver,
	preloads PreloadStore,
	formatter *reltime.Formatter,
	cfg ReviewSessionConfig,
	now func() time.Time,
) *ReviewSession {
	if now == nil {
		now = time.Now
	}
	interval := cfg.RefreshInterval
	if interval <= 0 {
		interval = 60 * time.Second
	}
	return &ReviewSession{
		viewID:    viewID,
		sink:      sink,
		resolver:  resolver,
		preloads:  preloads,
		formatter: formatter,
		interval:  interval,
		now:       now,
		window:    slider.New[models.Review](nil, cfg.VisibleCount),
		stop:      make(chan struct{}),
	}
}

// Start, listeyi yükler ve yenileme zamanlayıcısını başlatır.
// Birden fazla çağrı etkisizdir.
func (s *ReviewSession) Start(ctx context.Context) {
	s.mu.Lock()
	if s.closed || s.started {
		s.mu.Unlock()
		return
	}
	s.started = true

	preloaded, ok := ResolvedReviews{}, false
	if s.viewID != "" && s.preloads != nil {
		preloaded, ok = s.preloads.Get(s.viewID)
	}
	if ok {
		s.applyLocked(preloaded)
	}
	s.mu.Unlock()

	if !ok {
		go s.resolve(ctx)
	}
	go s.refreshLoop(ctx)
}

// resolve, ön yükleme yoksa listeyi bir kez çözer.
func (s *ReviewSession) resolve(ctx context.Context) {
	resolved := s.resolver.Resolve(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	// oturum bu arada kapandıysa sonuç atılır
	if s.closed {
		return
	}
	if s.viewID != "" && s.preloads != nil {
		s.preloads.Set(s.viewID, resolved)
	}
	s.applyLocked(resolved)
}

func (s *ReviewSession) applyLocked(resolved ResolvedReviews) {
	s.window.SetItems(resolved.Reviews)
	s.source = resolved.Source
	s.resolved = true
	s.publishLocked()
}

func (s *ReviewSession) refreshLoop(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.Refresh()
		case <-s.stop:
			return
		case <-ctx.Done():
			return
		}
	}
}

// Refresh, etiketleri şu ana göre yeniden hesaplayıp snapshot gönderir.
func (s *ReviewSession) Refresh() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || !s.resolved {
		return
	}
	s.publishLocked()
}

// Next, pencereyi bir ileri kaydırır.
func (s *ReviewSession) Next() {
	s.update(func() { s.window.Next() })
}

// Prev, pencereyi bir geri kaydırır.
func (s *ReviewSession) Prev() {
	s.update(func() { s.window.Prev() })
}

// SetVisible, görünür kart sayısını değiştirir; sayı değiştiyse pencere başa döner.
func (s *ReviewSession) SetVisible(count int) {
	s.update(func() { s.window.SetVisible(count) })
}

func (s *ReviewSession) update(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || !s.resolved {
		return
	}
	fn()
	s.publishLocked()
}

// Scroll, mobil şeritte bir adımlık kaydırma miktarını sayfaya bildirir.
func (s *ReviewSession) Scroll(req ws.ScrollData) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	step := slider.ScrollStep(req.CardWidth, req.ContainerWidth, req.Direction)
	if step == 0 {
		return
	}
	s.sink.Send(ws.Event{Op: ws.OpReviewsScrollBy, Data: ws.ScrollByData{Left: step}})
}

// Close, zamanlayıcıyı durdurur ve oturumu etkisiz kılar. Idempotent.
func (s *ReviewSession) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true
	close(s.stop)
}

// Snapshot, oturumun anlık durumunu döner. Liste henüz çözülmediyse false.
func (s *ReviewSession) Snapshot() (ws.SnapshotData, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.resolved {
		return ws.SnapshotData{}, false
	}
	return s.snapshotLocked(), true
}

func (s *ReviewSession) snapshotLocked() ws.SnapshotData {
	return WindowSnapshot(s.formatter, s.source, s.window, s.now())
}

// WindowSnapshot, pencerenin durumunu etiketleri now'a göre hesaplanmış
// snapshot olarak döner.
func WindowSnapshot(f *reltime.Formatter, source ReviewSource, w *slider.Window[models.Review], now time.Time) ws.SnapshotData {
	index := w.Index()
	maxIndex := w.MaxIndex()
	return ws.SnapshotData{
		Source:       string(source),
		Cards:        ReviewCards(f, w.Items(), now),
		Index:        index,
		MaxIndex:     maxIndex,
		VisibleCount: w.VisibleCount(),
		Total:        w.Len(),
		CanPrev:      index > 0,
		CanNext:      index < maxIndex,
	}
}

func (s *ReviewSession) publishLocked() {
	s.sink.Send(ws.Event{Op: ws.OpReviewsSnapshot, Data: s.snapshotLocked()})
}
