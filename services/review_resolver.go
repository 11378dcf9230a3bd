package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/akinalp/kbbsite/models"
	"github.com/akinalp/kbbsite/pkg/httpclient"
	"github.com/akinalp/kbbsite/pkg/metrics"
)

// ReviewSource, çözülen listenin nereden geldiğini belirtir.
type ReviewSource string

const (
	SourceInjected ReviewSource = "injected"
	SourceNetwork  ReviewSource = "network"
	SourceFallback ReviewSource = "fallback"
)

// maxReviewResponseBytes, yorum ucundan okunacak en büyük gövde.
const maxReviewResponseBytes = 1 << 20

// ResolvedReviews, bir çözümlemenin sonucu. Reviews hiçbir zaman boş değildir.
type ResolvedReviews struct {
	Reviews []models.Review
	Source  ReviewSource
}

// ReviewFetcher, yorum ucuna tek bir GET atar.
// *httpclient.CircuitBreakerClient bu interface'i karşılar.
type ReviewFetcher interface {
	Get(ctx context.Context, url string) (*http.Response, error)
}

// ReviewResolver, gösterilecek yorum listesini belirler.
//
// Öncelik sırası:
//  1. Enjekte edilmiş değer (dizi biçimindeyse ağ çağrısı yapılmaz)
//  2. Yorum ucuna tek GET (tekrar denenmez)
//  3. Sabit örnek liste
//
// Resolve hata döndürmez; kaynak hataları loglanır ve metriklere yazılır.
type ReviewResolver interface {
	Resolve(ctx context.Context) ResolvedReviews
}

type reviewResolver struct {
	injected *InjectedReviews
	fetcher  ReviewFetcher
	endpoint string
	timeout  time.Duration
}

// NewReviewResolver, constructor. injected nil olabilir.
func NewReviewResolver(injected *InjectedReviews, fetcher ReviewFetcher, endpoint string, timeout time.Duration) ReviewResolver {
	return &reviewResolver{
		injected: injected,
		fetcher:  fetcher,
		endpoint: endpoint,
		timeout:  timeout,
	}
}

func (r *reviewResolver) Resolve(ctx context.Context) ResolvedReviews {
	if reviews, ok := r.injected.Reviews(); ok {
		metrics.ReviewResolutions.WithLabelValues(string(SourceInjected)).Inc()
		return ResolvedReviews{Reviews: reviews, Source: SourceInjected}
	}

	reviews, err := r.fetch(ctx)
	if err == nil {
		metrics.ReviewResolutions.WithLabelValues(string(SourceNetwork)).Inc()
		return ResolvedReviews{Reviews: reviews, Source: SourceNetwork}
	}

	log.Printf("[reviews] review source unavailable, using fallback: %v", err)
	metrics.ReviewFetchFailures.WithLabelValues(failureReason(err)).Inc()
	metrics.ReviewResolutions.WithLabelValues(string(SourceFallback)).Inc()
	return ResolvedReviews{Reviews: FallbackReviews(), Source: SourceFallback}
}

var (
	errBadStatus     = errors.New("unexpected status")
	errMalformed     = errors.New("malformed response")
	errEmptyReviews  = errors.New("empty review list")
	errNoEndpoint    = errors.New("no review endpoint configured")
	errFetchTimedOut = errors.New("review fetch timed out")
)

// fetch, yorum ucuna tek bir GET atar ve {reviews: [...]} gövdesini çözer.
func (r *reviewResolver) fetch(ctx context.Context) ([]models.Review, error) {
	if r.fetcher == nil || r.endpoint == "" {
		return nil, errNoEndpoint
	}

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	start := time.Now()
	resp, err := r.fetcher.Get(ctx, r.endpoint)
	metrics.ReviewFetchDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %v", errFetchTimedOut, err)
		}
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %d", errBadStatus, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxReviewResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read review response: %w", err)
	}

	var payload struct {
		Reviews json.RawMessage `json:"reviews"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", errMalformed, err)
	}

	reviews, err := models.DecodeReviewList(payload.Reviews)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errMalformed, err)
	}
	if len(reviews) == 0 {
		return nil, errEmptyReviews
	}

	return reviews, nil
}

// failureReason, metrik etiketi için hatayı sınıflandırır.
func failureReason(err error) string {
	switch {
	case errors.Is(err, errFetchTimedOut):
		return "timeout"
	case errors.Is(err, httpclient.ErrCircuitOpen):
		return "circuit_open"
	case errors.Is(err, errBadStatus):
		return "status"
	case errors.Is(err, errMalformed):
		return "malformed"
	case errors.Is(err, errEmptyReviews):
		return "empty"
	case errors.Is(err, errNoEndpoint):
		return "disabled"
	default:
		return "network"
	}
}

// FallbackReviews, hiçbir kaynak kullanılamadığında gösterilen örnek liste.
// Her çağrıda yeni bir kopya döner.
func FallbackReviews() []models.Review {
	return []models.Review{
		{
			AuthorName:    "Z*** Y***",
			Rating:        5,
			Text:          "Rinoplasti sonrası nefesim düzeldi, doğal sonuç.",
			RelativeLabel: "2 hafta önce",
		},
		{
			AuthorName:    "M*** K***",
			Rating:        5,
			Text:          "Vertigo tedavisinde kısa sürede sonuç aldık.",
			RelativeLabel: "1 ay önce",
		},
		{
			AuthorName:    "H*** A***",
			Rating:        5,
			Text:          "KBB alanında çok ilgili ve açıklayıcı.",
			RelativeLabel: "3 ay önce",
		},
	}
}

// InjectedReviews, dışarıdan (gömme kodu veya REVIEWS_INJECT_PATH) doldurulan,
// gevşek tipli yorum kaynağı. İçeriğe biçim kontrolünden öte güvenilmez:
// sadece liste biçimindeki değerler kabul edilir.
//
// Kabul edilen biçimler:
//   - []models.Review
//   - []any (her eleman JSON nesnesine dönüştürülebilmeli)
//   - json.RawMessage, []byte veya string (üst seviye değer JSON dizisi olmalı)
//
// Nil *InjectedReviews geçerlidir ve her zaman "yok" döner.
type InjectedReviews struct {
	mu    sync.RWMutex
	value any
}

// NewInjectedReviews, boş bir kaynak oluşturur.
func NewInjectedReviews() *InjectedReviews {
	return &InjectedReviews{}
}

// Set, değeri değiştirir. nil değeri temizler.
func (i *InjectedReviews) Set(value any) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.value = value
}

// Reviews, değer liste biçimindeyse çözülmüş listeyi ve true döner.
// Değer yoksa, liste değilse, çözülemiyorsa veya boşsa false döner.
func (i *InjectedReviews) Reviews() ([]models.Review, bool) {
	if i == nil {
		return nil, false
	}

	i.mu.RLock()
	value := i.value
	i.mu.RUnlock()

	if value == nil {
		return nil, false
	}

	reviews, err := coerceReviewList(value)
	if err != nil {
		log.Printf("[reviews] ignoring injected reviews: %v", err)
		return nil, false
	}
	if len(reviews) == 0 {
		return nil, false
	}
	return reviews, true
}

func coerceReviewList(value any) ([]models.Review, error) {
	switch v := value.(type) {
	case []models.Review:
		return v, nil
	case json.RawMessage:
		return models.DecodeReviewList(v)
	case []byte:
		return models.DecodeReviewList(v)
	case string:
		return models.DecodeReviewList([]byte(v))
	case []any:
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("injected list is not serializable: %w", err)
		}
		return models.DecodeReviewList(raw)
	default:
		return nil, fmt.Errorf("injected value is %T, not a list", value)
	}
}
