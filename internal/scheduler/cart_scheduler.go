package scheduler

import (
	"time"

	"github.com/jcordero/tienda-storefront/internal/app/cart"
	"github.com/jcordero/tienda-storefront/pkg/logger"
	"github.com/robfig/cron/v3"
)

// CartScheduler periodically evicts idle cart sessions from memory. Their
// persisted copies remain in storage and rehydrate on the next request.
type CartScheduler struct {
	cron    *cron.Cron
	manager *cart.Manager
	idleTTL time.Duration
}

func NewCartScheduler(manager *cart.Manager, idleTTL time.Duration) *CartScheduler {
	return &CartScheduler{
		cron:    cron.New(),
		manager: manager,
		idleTTL: idleTTL,
	}
}

func (s *CartScheduler) Start() error {
	_, err := s.cron.AddFunc("@every 10m", func() {
		evicted := s.manager.EvictIdle(s.idleTTL)
		if evicted > 0 {
			logger.Info("Evicted idle cart sessions", map[string]interface{}{
				"evicted": evicted,
				"live":    s.manager.Len(),
			})
		}
	})
	if err != nil {
		logger.Error("Failed to schedule cart eviction job", err)
		return err
	}

	s.cron.Start()
	logger.Info("Cart eviction scheduler started", map[string]interface{}{
		"idle_ttl": s.idleTTL.String(),
	})
	return nil
}

func (s *CartScheduler) Stop() {
	s.cron.Stop()
	logger.Info("Cart eviction scheduler stopped")
}
