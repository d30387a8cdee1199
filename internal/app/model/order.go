package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type OrderState string

const (
	OrderStateCompleted OrderState = "completed"
	OrderStateUnpaid    OrderState = "unpaid"
)

type PaymentType string

const (
	PaymentTypeCreditCard PaymentType = "credit_card"
)

type Order struct {
	ID          uint            `gorm:"primarykey" json:"id"`
	OrderNumber string          `gorm:"type:varchar(20);uniqueIndex;not null" json:"order_number"`
	UserID      uint            `gorm:"not null;index" json:"user_id"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total_amount"`
	OrderState  OrderState      `gorm:"type:varchar(20);default:'completed'" json:"order_state"`
	PaymentType PaymentType     `gorm:"type:varchar(20);default:'credit_card'" json:"payment_type"`
	PaymentID   string          `gorm:"type:varchar(50);index" json:"payment_id,omitempty"`
	// ConversationID is the idempotency key sent to the payment gateway
	ConversationID string `gorm:"type:varchar(50)" json:"conversation_id,omitempty"`

	// Shipping snapshot captured at checkout
	FirstName string `gorm:"not null" json:"first_name"`
	LastName  string `gorm:"not null" json:"last_name"`
	Email     string `gorm:"not null" json:"email"`
	Phone     string `json:"phone,omitempty"`
	Address   string `gorm:"type:text" json:"address"`
	City      string `json:"city"`
	Note      string `gorm:"type:text" json:"note,omitempty"`

	OrderDate time.Time      `gorm:"not null;index" json:"order_date"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	User       User        `gorm:"foreignKey:UserID" json:"-"`
	OrderItems []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"order_items,omitempty"`
}

func (Order) TableName() string {
	return "orders"
}

type OrderItem struct {
	ID        uint            `gorm:"primarykey" json:"id"`
	OrderID   uint            `gorm:"not null;index" json:"order_id"`
	ProductID uint            `gorm:"not null;index" json:"product_id"`
	Quantity  int             `gorm:"not null" json:"quantity"`
	Price     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"` // unit price at purchase time
	CreatedAt time.Time       `json:"created_at"`
	DeletedAt gorm.DeletedAt  `gorm:"index" json:"-"`

	Order   Order   `gorm:"foreignKey:OrderID" json:"-"`
	Product Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

func (OrderItem) TableName() string {
	return "order_items"
}

// Subtotal is the captured unit price times quantity
func (oi *OrderItem) Subtotal() decimal.Decimal {
	return oi.Price.Mul(decimal.NewFromInt(int64(oi.Quantity)))
}
