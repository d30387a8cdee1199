package repository

import (
	"time"

	"github.com/tkaraca/shopapp-backend/internal/app/model"
	"github.com/tkaraca/shopapp-backend/pkg/logger"
	"gorm.io/gorm"
)

type ReconciliationRepository interface {
	Create(rec *model.PaymentReconciliation) error
	FindPending(limit int) ([]model.PaymentReconciliation, error)
	RecordAttempt(id uint, lastError string) error
	MarkResolved(id uint) error
}

type reconciliationRepository struct {
	db *gorm.DB
}

func NewReconciliationRepository(db *gorm.DB) ReconciliationRepository {
	return &reconciliationRepository{db: db}
}

func (r *reconciliationRepository) Create(rec *model.PaymentReconciliation) error {
	logger.Debug("Creating payment reconciliation record in database", map[string]interface{}{
		"user_id":    rec.UserID,
		"payment_id": rec.PaymentID,
		"amount":     rec.Amount,
	})

	if err := r.db.Create(rec).Error; err != nil {
		logger.Error("Failed to create payment reconciliation record in database", err, map[string]interface{}{
			"payment_id": rec.PaymentID,
		})
		return err
	}

	return nil
}

func (r *reconciliationRepository) FindPending(limit int) ([]model.PaymentReconciliation, error) {
	var recs []model.PaymentReconciliation
	q := r.db.Where("status = ?", model.ReconciliationPending).
		Order("created_at ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&recs).Error; err != nil {
		logger.Error("Failed to find pending reconciliation records in database", err)
		return nil, err
	}
	return recs, nil
}

func (r *reconciliationRepository) RecordAttempt(id uint, lastError string) error {
	if err := r.db.Model(&model.PaymentReconciliation{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"attempts":   gorm.Expr("attempts + 1"),
			"last_error": lastError,
		}).Error; err != nil {
		logger.Error("Failed to record reconciliation attempt in database", err, map[string]interface{}{
			"reconciliation_id": id,
		})
		return err
	}
	return nil
}

func (r *reconciliationRepository) MarkResolved(id uint) error {
	now := time.Now()
	if err := r.db.Model(&model.PaymentReconciliation{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":      model.ReconciliationResolved,
			"resolved_at": &now,
		}).Error; err != nil {
		logger.Error("Failed to mark reconciliation record resolved in database", err, map[string]interface{}{
			"reconciliation_id": id,
		})
		return err
	}

	logger.Info("Payment reconciliation record resolved", map[string]interface{}{
		"reconciliation_id": id,
	})
	return nil
}
