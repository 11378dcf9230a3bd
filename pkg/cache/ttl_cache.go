// Package cache, süreli (TTL) generic in-memory cache.
//
// İki yerde kullanılır:
//   - sayfa görüntüleme ön yüklemeleri: GET / sırasında çözülen yorum listesi,
//     sayfa kimliği (uuid) altında saklanır; websocket oturumu aynı listeyi
//     ikinci bir istek atmadan buradan alır.
//   - /api/google-reviews yanıtı: katalog her istekte sqlite'tan okunmaz.
//
// Süresi dolan kayıt Get ile okunamaz; map'ten fiziksel silme periyodik
// temizleme goroutine'inde yapılır.
package cache

import (
	"sync"
	"time"
)

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// TTLCache, thread-safe generic TTL cache.
//
//	views := cache.New[string, []models.Review](10*time.Minute, time.Minute)
//	views.Set(viewID, reviews)
//	reviews, ok := views.Get(viewID)
type TTLCache[K comparable, V any] struct {
	mu      sync.RWMutex
	entries map[K]entry[V]
	ttl     time.Duration

	// loadMu, GetOrLoad'da aynı anda birden fazla yüklemeyi engeller.
	loadMu sync.Mutex

	stopCleanup chan struct{}
	closeOnce   sync.Once
}

// New, TTLCache oluşturur ve temizleme goroutine'ini başlatır.
// cleanupInterval ttl'den kısa tutulmalı.
func New[K comparable, V any](ttl, cleanupInterval time.Duration) *TTLCache[K, V] {
	c := &TTLCache[K, V]{
		entries:     make(map[K]entry[V]),
		ttl:         ttl,
		stopCleanup: make(chan struct{}),
	}

	go func() {
		ticker := time.NewTicker(cleanupInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				c.evictExpired()
			case <-c.stopCleanup:
				return
			}
		}
	}()

	return c
}

// Get, süresi dolmamış değeri döner.
func (c *TTLCache[K, V]) Get(key K) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[key]
	if !ok || time.Now().After(e.expiresAt) {
		var zero V
		return zero, false
	}
	return e.value, true
}

// Set, değeri cache'in TTL'i ile yazar.
func (c *TTLCache[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = entry[V]{
		value:     value,
		expiresAt: time.Now().Add(c.ttl),
	}
}

// GetOrLoad, değer cache'te yoksa load ile üretir ve yazar.
// load hata dönerse cache'e hiçbir şey yazılmaz.
// Eşzamanlı çağrılar tek bir load çalıştırır; diğerleri sonucu cache'ten okur.
func (c *TTLCache[K, V]) GetOrLoad(key K, load func() (V, error)) (V, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}

	c.loadMu.Lock()
	defer c.loadMu.Unlock()

	if v, ok := c.Get(key); ok {
		return v, nil
	}

	v, err := load()
	if err != nil {
		var zero V
		return zero, err
	}
	c.Set(key, v)
	return v, nil
}

// Delete, anahtarı siler.
func (c *TTLCache[K, V]) Delete(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, key)
}

// Clear, tüm kayıtları siler. Katalog yeniden içe aktarıldığında API cache'i
// bununla boşaltılır.
func (c *TTLCache[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[K]entry[V])
}

// Len, süresi dolmuşlar dahil kayıt sayısı.
func (c *TTLCache[K, V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}

// Close, temizleme goroutine'ini durdurur. Birden fazla çağrı güvenlidir.
func (c *TTLCache[K, V]) Close() {
	c.closeOnce.Do(func() {
		close(c.stopCleanup)
	})
}

func (c *TTLCache[K, V]) evictExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for key, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, key)
		}
	}
}
