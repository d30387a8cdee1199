package scheduler

import (
	"github.com/robfig/cron/v3"
	"github.com/tkaraca/shopapp-backend/internal/app/service"
	"github.com/tkaraca/shopapp-backend/pkg/logger"
)

// ReconciliationScheduler periodically replays order writes for
// payments that were charged but never recorded
type ReconciliationScheduler struct {
	cron                  *cron.Cron
	cronSpec              string
	reconciliationService service.ReconciliationService
}

func NewReconciliationScheduler(reconciliationService service.ReconciliationService, cronSpec string) *ReconciliationScheduler {
	return &ReconciliationScheduler{
		cron:                  cron.New(),
		cronSpec:              cronSpec,
		reconciliationService: reconciliationService,
	}
}

// Start schedules the retry job on the configured interval
func (s *ReconciliationScheduler) Start() error {
	_, err := s.cron.AddFunc(s.cronSpec, func() {
		if err := s.reconciliationService.RetryPending(); err != nil {
			logger.Error("Payment reconciliation run failed", err)
		}
	})

	if err != nil {
		logger.Error("Failed to add cron job for payment reconciliation", err, map[string]interface{}{
			"cron": s.cronSpec,
		})
		return err
	}

	s.cron.Start()
	logger.Info("Payment reconciliation scheduler started", map[string]interface{}{
		"cron": s.cronSpec,
	})

	return nil
}

// Stop stops the scheduler
func (s *ReconciliationScheduler) Stop() {
	logger.Info("Stopping payment reconciliation scheduler...", nil)
	s.cron.Stop()
}
