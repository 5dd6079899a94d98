package scheduler

import (
	"context"

	"github.com/Linn-Htet123/mini-gym-api/internal/logger"
	"github.com/robfig/cron/v3"
)

const (
	expireDueSpec    = "0 0 * * *"
	expiringSoonSpec = "0 9 * * *"
)

// Scheduler drives the two daily passes. SkipIfStillRunning keeps a
// slow pass from stacking on top of itself.
type Scheduler struct {
	cron    *cron.Cron
	service Service
}

func New(service Service) *Scheduler {
	return &Scheduler{
		cron:    cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger))),
		service: service,
	}
}

func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(expireDueSpec, func() {
		if _, err := s.service.ExpireDuePass(context.Background()); err != nil {
			logger.Errorf("Expire-due pass failed: %v", err)
		}
	}); err != nil {
		return err
	}

	if _, err := s.cron.AddFunc(expiringSoonSpec, func() {
		if _, err := s.service.ExpiringSoonPass(context.Background()); err != nil {
			logger.Errorf("Expiring-soon pass failed: %v", err)
		}
	}); err != nil {
		return err
	}

	s.cron.Start()
	logger.Info("Scheduler started", "expire_due", expireDueSpec, "expiring_soon", expiringSoonSpec)
	return nil
}

// Stop halts scheduling and returns once any running pass completes.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.Info("Scheduler stopped")
}
