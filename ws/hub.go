package ws

import (
	"log"
	"sync"
	"sync/atomic"

	"github.com/akinalp/kbbsite/pkg/metrics"
)

// Hub, açık yorum şeridi bağlantılarını yönetir.
//
// Kayıt ve çıkış register/unregister channel'ları üzerinden Run goroutine'inde
// sıralanır. Bir client çıkarılırken önce oturumu kapatılır, sonra send
// channel'ı kapatılır; böylece kapanmış bir bağlantıya snapshot gönderilmez.
type Hub struct {
	// clients: Go'da set yoktur, map[*Client]bool kullanılır.
	clients map[*Client]bool
	mu      sync.RWMutex

	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	closeOnce  sync.Once

	// seq: her outbound event'e verilen artan sayaç.
	seq atomic.Int64
}

// NewHub, yeni bir Hub oluşturur.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// Run, Hub'ın ana döngüsü. main.go'da `go hub.Run()` ile başlatılır;
// Shutdown çağrılınca döner.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.addClient(client)

		case client := <-h.unregister:
			h.removeClient(client)

		case <-h.done:
			return
		}
	}
}

// Register, client'ı Hub'a ekler. Hub kapandıysa false döner.
func (h *Hub) Register(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

// Unregister, client'ı Hub'dan çıkarır. Birden fazla çağrı güvenlidir.
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[client] = true
	metrics.DisplaySessions.Set(float64(len(h.clients)))

	log.Printf("[ws] display connected: view=%s (total: %d)", client.viewID, len(h.clients))
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client]; !ok {
		return
	}
	delete(h.clients, client)
	metrics.DisplaySessions.Set(float64(len(h.clients)))

	client.closeSession()
	client.closeSend()

	log.Printf("[ws] display disconnected: view=%s (remaining: %d)", client.viewID, len(h.clients))
}

// nextSeq, bir sonraki event sıra numarasını döner.
func (h *Hub) nextSeq() int64 {
	return h.seq.Add(1)
}

// ClientCount, açık bağlantı sayısını döner.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Shutdown, tüm oturumları ve bağlantıları kapatır (graceful shutdown).
// Önce oturumlar kapatılır ki zamanlayıcılar kapanmış kanala yazmasın.
func (h *Hub) Shutdown() {
	h.closeOnce.Do(func() {
		close(h.done)

		h.mu.Lock()
		defer h.mu.Unlock()

		for client := range h.clients {
			client.closeSession()
		}
		for client := range h.clients {
			client.closeSend()
		}
		h.clients = make(map[*Client]bool)
		metrics.DisplaySessions.Set(0)

		log.Println("[ws] hub shut down, all display sessions closed")
	})
}
