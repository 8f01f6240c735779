package scheduler

import (
	"time"

	"github.com/rkarim/cartify-backend/internal/app/service"
	"github.com/rkarim/cartify-backend/pkg/logger"
	"github.com/robfig/cron/v3"
)

// CartSweeper periodically resets carts whose owners placed an order
// after the cart was last touched. A crash between the order commit
// and the response can leave such carts behind; the sweep replays the
// reset.
type CartSweeper struct {
	cron         *cron.Cron
	orderService service.OrderService
	spec         string
	window       time.Duration
}

func NewCartSweeper(orderService service.OrderService, spec string, window time.Duration) *CartSweeper {
	return &CartSweeper{
		cron:         cron.New(),
		orderService: orderService,
		spec:         spec,
		window:       window,
	}
}

// Start registers the sweep job and starts the cron loop
func (s *CartSweeper) Start() error {
	_, err := s.cron.AddFunc(s.spec, func() {
		logger.Info("Starting scheduled cart sweep", map[string]interface{}{
			"window": s.window.String(),
		})

		reset, err := s.orderService.ReconcileCarts(s.window)
		if err != nil {
			logger.Error("Cart sweep failed", err)
			return
		}

		logger.Info("Cart sweep finished", map[string]interface{}{
			"carts_reset": reset,
		})
	})

	if err != nil {
		logger.Error("Failed to add cron job for cart sweep", err)
		return err
	}

	s.cron.Start()
	logger.Info("Cart sweeper started", map[string]interface{}{
		"spec":   s.spec,
		"window": s.window.String(),
	})

	return nil
}

// Stop halts the cron loop
func (s *CartSweeper) Stop() {
	logger.Info("Stopping cart sweeper...")
	s.cron.Stop()
	logger.Info("Cart sweeper stopped")
}
