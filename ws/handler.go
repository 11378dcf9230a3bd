package ws

import (
	"context"
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/gorilla/websocket"
)

// Handler, /ws/reviews bağlantı isteklerini işleyen HTTP handler'ı.
type Handler struct {
	hub      *Hub
	sessions SessionFactory
	upgrader websocket.Upgrader
}

// NewHandler, yeni bir WebSocket handler oluşturur.
//
// allowedOrigins boşsa sadece aynı host'tan gelen bağlantılar kabul edilir.
func NewHandler(hub *Hub, sessions SessionFactory, allowedOrigins []string) *Handler {
	h := &Handler{
		hub:      hub,
		sessions: sessions,
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			return originAllowed(r, allowedOrigins)
		},
	}
	return h
}

// HandleConnection, HTTP bağlantısını WebSocket'e yükseltir, oturumu oluşturur
// ve bağlantı kapanana kadar okuma döngüsünde kalır.
//
//	ws://host/ws/reviews?view=<sayfa kimliği>
func (h *Handler) HandleConnection(w http.ResponseWriter, r *http.Request) {
	viewID := r.URL.Query().Get("view")

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[ws] upgrade failed for view %s: %v", viewID, err)
		return
	}

	client := newClient(h.hub, conn, viewID)
	client.session = h.sessions.NewSession(viewID, client)

	if !h.hub.Register(client) {
		client.closeSession()
		conn.Close()
		return
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	go client.WritePump()
	client.session.Start(ctx)
	client.ReadPump() // bağlantı kapanana kadar bloklar
}

// originAllowed, Origin header'ı boşsa, isteğin host'u ile aynıysa veya
// izin listesindeyse true döner.
func originAllowed(r *http.Request, allowed []string) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}

	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	if strings.EqualFold(u.Host, r.Host) {
		return true
	}

	for _, a := range allowed {
		if a == "*" || strings.EqualFold(strings.TrimRight(a, "/"), origin) {
			return true
		}
	}
	return false
}
