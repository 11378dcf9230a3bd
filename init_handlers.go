// Package main: Handler katmanı başlatma.
//
// initHandlers, HTTP handler'larını oluşturur.
// Her handler, ihtiyaç duyduğu service interface'lerini constructor'dan alır.
// Handler'lar "thin"dir: sadece HTTP parse + service call + response write.
package main

import (
	"database/sql"
	"fmt"

	"github.com/akinalp/kbbsite/config"
	"github.com/akinalp/kbbsite/handlers"
	"github.com/akinalp/kbbsite/static"
	"github.com/akinalp/kbbsite/ws"
)

// Handlers, handler instance'larını tutan container struct.
type Handlers struct {
	Site        *handlers.SiteHandler
	Reviews     *handlers.ReviewsHandler
	Images      *handlers.ImageHandler
	Appointment *handlers.AppointmentHandler
	Health      *handlers.HealthHandler
	WS          *ws.Handler
}

// initHandlers, handler'ları service dependency'leri ile oluşturur.
func initHandlers(svcs *Services, db *sql.DB, hub *ws.Hub, cfg *config.Config) (*Handlers, error) {
	site, err := handlers.NewSiteHandler(svcs.Site, static.Templates())
	if err != nil {
		return nil, fmt.Errorf("failed to init site handler: %w", err)
	}

	return &Handlers{
		Site:        site,
		Reviews:     handlers.NewReviewsHandler(svcs.Catalog),
		Images:      handlers.NewImageHandler(cfg.Images.Dir),
		Appointment: handlers.NewAppointmentHandler(svcs.Appointment),
		Health:      handlers.NewHealthHandler(db, hub),
		WS:          ws.NewHandler(hub, svcs.Sessions, cfg.CORS.AllowedOrigins),
	}, nil
}
