package cron

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/cascade-digital/agency-backend/internal/catalog/service"
	"github.com/cascade-digital/agency-backend/internal/logging"
)

// Warmer refreshes the catalog cache on a schedule so listing reads stay
// warm across TTL expiry.
type Warmer struct {
	catalog *service.CatalogService
	cron    *cron.Cron
}

func NewWarmer(catalog *service.CatalogService) *Warmer {
	return &Warmer{catalog: catalog, cron: cron.New()}
}

// Start schedules the refresh every 10 minutes and runs one warm-up pass
// immediately.
func (w *Warmer) Start() error {
	if _, err := w.cron.AddFunc("@every 10m", w.refresh); err != nil {
		return err
	}

	go w.refresh()
	w.cron.Start()
	logging.L.Info().Msg("catalog cache warmer started")
	return nil
}

func (w *Warmer) Stop() {
	w.cron.Stop()
}

func (w *Warmer) refresh() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := w.catalog.WarmCache(ctx); err != nil {
		logging.L.Error().Err(err).Msg("catalog cache refresh failed")
		return
	}
	logging.L.Debug().Msg("catalog cache refreshed")
}
