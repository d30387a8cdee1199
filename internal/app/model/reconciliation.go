package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ReconciliationStatus string

const (
	ReconciliationPending  ReconciliationStatus = "pending"
	ReconciliationResolved ReconciliationStatus = "resolved"
)

// PaymentReconciliation records a charge that succeeded at the gateway
// but whose order could not be persisted. A background job retries the
// order write until the row is resolved.
type PaymentReconciliation struct {
	ID             uint                 `gorm:"primarykey" json:"id"`
	UserID         uint                 `gorm:"not null;index" json:"user_id"`
	PaymentID      string               `gorm:"type:varchar(50);uniqueIndex;not null" json:"payment_id"`
	ConversationID string               `gorm:"type:varchar(50);not null" json:"conversation_id"`
	Amount         decimal.Decimal      `gorm:"type:decimal(12,2);not null" json:"amount"`
	CartSnapshot   string               `gorm:"type:text;not null" json:"-"` // JSON copy of the charged cart lines
	Status         ReconciliationStatus `gorm:"type:varchar(20);default:'pending';index" json:"status"`
	Attempts       int                  `gorm:"default:0" json:"attempts"`
	LastError      string               `gorm:"type:text" json:"last_error,omitempty"`
	ResolvedAt     *time.Time           `json:"resolved_at,omitempty"`
	CreatedAt      time.Time            `json:"created_at"`
	UpdatedAt      time.Time            `json:"updated_at"`
	DeletedAt      gorm.DeletedAt       `gorm:"index" json:"-"`
}

func (PaymentReconciliation) TableName() string {
	return "payment_reconciliations"
}
