package service

import (
	"encoding/json"

	"github.com/tkaraca/shopapp-backend/internal/app/model"
	"github.com/tkaraca/shopapp-backend/internal/app/repository"
	"github.com/tkaraca/shopapp-backend/pkg/logger"
	"gorm.io/gorm"
)

// reconciliationBatchSize bounds how many stranded payments one run
// will attempt to replay
const reconciliationBatchSize = 50

type ReconciliationService interface {
	RetryPending() error
}

type reconciliationService struct {
	db        *gorm.DB
	reconRepo repository.ReconciliationRepository
}

func NewReconciliationService(db *gorm.DB, reconRepo repository.ReconciliationRepository) ReconciliationService {
	return &reconciliationService{
		db:        db,
		reconRepo: reconRepo,
	}
}

// RetryPending replays the order write for every stranded payment. Each
// record is retried independently; one failure does not stop the run.
func (s *reconciliationService) RetryPending() error {
	pending, err := s.reconRepo.FindPending(reconciliationBatchSize)
	if err != nil {
		return err
	}

	if len(pending) == 0 {
		return nil
	}

	logger.Info("Retrying stranded payments", map[string]interface{}{
		"count": len(pending),
	})

	for _, rec := range pending {
		s.retryOne(rec)
	}

	return nil
}

func (s *reconciliationService) retryOne(rec model.PaymentReconciliation) {
	var snap orderSnapshot
	if err := json.Unmarshal([]byte(rec.CartSnapshot), &snap); err != nil {
		logger.Error("Reconciliation snapshot corrupt", err, map[string]interface{}{
			"reconciliation_id": rec.ID,
			"payment_id":        rec.PaymentID,
		})
		if err := s.reconRepo.RecordAttempt(rec.ID, "corrupt snapshot: "+err.Error()); err != nil {
			logger.Error("Failed to record reconciliation attempt", err, map[string]interface{}{
				"reconciliation_id": rec.ID,
			})
		}
		return
	}

	txErr := s.db.Transaction(func(tx *gorm.DB) error {
		_, err := persistOrderSnapshot(tx, snap)
		return err
	})
	if txErr != nil {
		logger.Warn("Reconciliation retry failed", map[string]interface{}{
			"reconciliation_id": rec.ID,
			"payment_id":        rec.PaymentID,
			"attempts":          rec.Attempts + 1,
			"error":             txErr.Error(),
		})
		if err := s.reconRepo.RecordAttempt(rec.ID, txErr.Error()); err != nil {
			logger.Error("Failed to record reconciliation attempt", err, map[string]interface{}{
				"reconciliation_id": rec.ID,
			})
		}
		return
	}

	if err := s.reconRepo.MarkResolved(rec.ID); err != nil {
		logger.Error("Failed to mark reconciliation record resolved", err, map[string]interface{}{
			"reconciliation_id": rec.ID,
		})
	}
}
