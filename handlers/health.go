package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/akinalp/kbbsite/pkg"
)

// Pinger, veritabanı erişilebilirliğini kontrol eder. *sql.DB bunu karşılar.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// ClientCounter, açık WebSocket bağlantı sayısını verir. *ws.Hub bunu karşılar.
type ClientCounter interface {
	ClientCount() int
}

// HealthResponse, sağlık kontrolü yanıtı.
type HealthResponse struct {
	Status    string `json:"status"`
	Database  string `json:"database"`
	WSClients int    `json:"ws_clients"`
}

// HealthHandler, load balancer / uptime kontrolleri için.
type HealthHandler struct {
	db  Pinger
	hub ClientCounter
}

// NewHealthHandler, constructor.
func NewHealthHandler(db Pinger, hub ClientCounter) *HealthHandler {
	return &HealthHandler{db: db, hub: hub}
}

// Check godoc
// GET /api/health
// Katalog erişilemezse 503 döner; sayfa yine çalışır ama liste ucu hata verir.
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	resp := HealthResponse{Status: "ok", Database: "ok", WSClients: h.hub.ClientCount()}

	if err := h.db.PingContext(ctx); err != nil {
		log.Printf("[health] database ping failed: %v", err)
		resp.Status = "degraded"
		resp.Database = "unreachable"
		pkg.WriteJSON(w, http.StatusServiceUnavailable, pkg.APIResponse{
			Success: false,
			Data:    resp,
			Error:   pkg.ErrUnavailable.Error(),
		})
		return
	}

	pkg.JSON(w, http.StatusOK, resp)
}
