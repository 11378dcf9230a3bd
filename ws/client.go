package ws

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// WebSocket bağlantı sabitleri
const (
	// writeWait: bir mesajı yazmak için maksimum süre.
	writeWait = 10 * time.Second

	// pongWait: 3 heartbeat kaçırma = 30s × 3 = 90s.
	pongWait = 90 * time.Second

	// maxMessageSize: sayfanın gönderdiği mesajlar küçük komutlardır.
	maxMessageSize = 1024

	// sendBufferSize: buffer dolarsa bağlantı kapatılır.
	sendBufferSize = 32
)

// Client, tek bir sayfa görüntülemesinin WebSocket bağlantısı.
//
// Her bağlantı için iki goroutine çalışır:
//   - ReadPump: sayfadan gelen komutları oturuma iletir
//   - WritePump: send channel'ındaki event'leri bağlantıya yazar
type Client struct {
	hub     *Hub
	conn    *websocket.Conn
	viewID  string
	session DisplaySession

	send chan []byte
	mu   sync.Mutex // conn yazmalarını korur

	// sendMu/closed: send channel'ı kapandıktan sonra yazılmasını engeller.
	// Oturumun zamanlayıcısı bağlantı kapanırken hâlâ Send çağırabilir.
	sendMu sync.Mutex
	closed bool

	sessionOnce sync.Once
}

// newClient, bağlantı için Client oluşturur; oturum sonradan atanır.
func newClient(hub *Hub, conn *websocket.Conn, viewID string) *Client {
	return &Client{
		hub:    hub,
		conn:   conn,
		viewID: viewID,
		send:   make(chan []byte, sendBufferSize),
	}
}

// Send, event'i send buffer'ına ekler. EventSink interface'ini karşılar.
// Bağlantı kapandıysa false döner; buffer doluysa bağlantı düşürülür.
//
// Seq, sendMu altında alınır ve aynı kilit altında kuyruğa yazılır; kuyruk
// sırası seq sırasıyla aynıdır. Sayfa daha küçük seq'li mesajı atar.
func (c *Client) Send(event Event) bool {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()

	if c.closed {
		return false
	}

	event.Seq = c.hub.nextSeq()
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("[ws] failed to marshal %s for view %s: %v", event.Op, c.viewID, err)
		return false
	}

	select {
	case c.send <- data:
		return true
	default:
		// Buffer dolu: sayfa muhtemelen donmuş. Unregister Hub goroutine'inde
		// closeSend'i çağırır; burada sendMu tutulduğu için ayrı goroutine.
		log.Printf("[ws] send buffer full for view %s, dropping connection", c.viewID)
		go c.hub.Unregister(c)
		return false
	}
}

// closeSend, send channel'ını bir kez kapatır.
func (c *Client) closeSend() {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
}

// closeSession, oturumu bir kez kapatır.
func (c *Client) closeSession() {
	c.sessionOnce.Do(func() {
		if c.session != nil {
			c.session.Close()
		}
	})
}

// ReadPump, sayfadan gelen komutları okur. Bağlantı kapanana kadar bloklar;
// döndüğünde client Hub'dan çıkarılır.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)

	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		log.Printf("[ws] failed to set read deadline for view %s: %v", c.viewID, err)
		return
	}

	for {
		_, rawMessage, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[ws] unexpected close for view %s: %v", c.viewID, err)
			}
			return
		}

		var event Event
		if err := json.Unmarshal(rawMessage, &event); err != nil {
			log.Printf("[ws] invalid message from view %s: %v", c.viewID, err)
			continue
		}

		c.handleEvent(event)
	}
}

// handleEvent, sayfadan gelen event'i türüne göre oturuma iletir.
func (c *Client) handleEvent(event Event) {
	switch event.Op {
	case OpHeartbeat:
		if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			log.Printf("[ws] failed to set read deadline for view %s: %v", c.viewID, err)
			return
		}
		c.Send(Event{Op: OpHeartbeatAck})

	case OpReviewsNext:
		c.session.Next()

	case OpReviewsPrev:
		c.session.Prev()

	case OpReviewsVisible:
		var data VisibleData
		if !decodeData(event, &data) || data.Count < 1 {
			log.Printf("[ws] invalid reviews_visible from view %s", c.viewID)
			return
		}
		c.session.SetVisible(data.Count)

	case OpReviewsScroll:
		var data ScrollData
		if !decodeData(event, &data) {
			log.Printf("[ws] invalid reviews_scroll from view %s", c.viewID)
			return
		}
		c.session.Scroll(data)

	default:
		log.Printf("[ws] unknown op from view %s: %s", c.viewID, event.Op)
	}
}

// decodeData, event.Data'yı (any) hedef struct'a çevirir.
// Data JSON'dan map olarak gelir; marshal + unmarshal en güvenli yol.
func decodeData(event Event, dst any) bool {
	dataBytes, err := json.Marshal(event.Data)
	if err != nil {
		return false
	}
	return json.Unmarshal(dataBytes, dst) == nil
}

// WritePump, send channel'ındaki mesajları bağlantıya yazar.
func (c *Client) WritePump() {
	defer c.conn.Close()

	for {
		message, ok := <-c.send
		if !ok {
			// channel kapatıldı: Hub client'ı çıkardı
			_ = c.writeMessage(websocket.CloseMessage, nil)
			return
		}

		if err := c.writeMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}
}

// writeMessage, gorilla/websocket aynı anda tek yazıcıya izin verdiği için
// mutex altında yazar.
func (c *Client) writeMessage(messageType int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.conn.WriteMessage(messageType, data)
}
