package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tkaraca/shopapp-backend/config"
	"github.com/tkaraca/shopapp-backend/internal/app/model"
	"github.com/tkaraca/shopapp-backend/internal/app/repository"
	"github.com/tkaraca/shopapp-backend/pkg/logger"
	"github.com/tkaraca/shopapp-backend/pkg/payment/iyzico"
	"gorm.io/gorm"
)

var (
	ErrEmptyCart          = errors.New("cart is empty")
	ErrPaymentDeclined    = errors.New("payment was declined")
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")
	ErrOrderNotRecorded   = errors.New("payment succeeded but the order could not be recorded")
)

// PaymentGateway abstracts the card payment provider
type PaymentGateway interface {
	Charge(ctx context.Context, req iyzico.PaymentRequest) (*iyzico.PaymentResult, error)
}

// CheckoutRequest carries the card details and shipping overrides for a
// checkout attempt. Empty shipping fields fall back to the user profile.
type CheckoutRequest struct {
	CardHolderName string
	CardNumber     string
	ExpireMonth    string
	ExpireYear     string
	CVC            string

	Phone   string
	Address string
	City    string
	Note    string
}

type CheckoutService interface {
	Checkout(ctx context.Context, userID uint, req CheckoutRequest) (*model.Order, error)
}

type checkoutService struct {
	db        *gorm.DB
	userRepo  repository.UserRepository
	cartRepo  repository.CartRepository
	reconRepo repository.ReconciliationRepository
	gateway   PaymentGateway
	payCfg    *config.IyzicoConfig
}

func NewCheckoutService(
	db *gorm.DB,
	userRepo repository.UserRepository,
	cartRepo repository.CartRepository,
	reconRepo repository.ReconciliationRepository,
	gateway PaymentGateway,
	payCfg *config.IyzicoConfig,
) CheckoutService {
	return &checkoutService{
		db:        db,
		userRepo:  userRepo,
		cartRepo:  cartRepo,
		reconRepo: reconRepo,
		gateway:   gateway,
		payCfg:    payCfg,
	}
}

// Checkout charges the user's cart and records the resulting order.
// The order write and the cart clear happen in one transaction; if that
// transaction fails after a successful charge, a reconciliation record
// is stored so a background job can replay the order write.
func (s *checkoutService) Checkout(ctx context.Context, userID uint, req CheckoutRequest) (*model.Order, error) {
	logger.Info("Starting checkout", map[string]interface{}{
		"user_id": userID,
	})

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	cart, err := s.cartRepo.FindByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Checkout rejected: no cart", map[string]interface{}{
				"user_id": userID,
			})
			return nil, ErrEmptyCart
		}
		return nil, err
	}
	if len(cart.Items) == 0 {
		logger.Warn("Checkout rejected: empty cart", map[string]interface{}{
			"user_id": userID,
		})
		return nil, ErrEmptyCart
	}

	total := cart.TotalPrice().Round(2)
	conversationID := uuid.New().String()

	applyShippingDefaults(&req, user)

	paymentReq := s.buildPaymentRequest(user, cart, req, total, conversationID)

	chargeCtx, cancel := context.WithTimeout(ctx, s.payCfg.Timeout)
	defer cancel()

	result, err := s.gateway.Charge(chargeCtx, paymentReq)
	if err != nil {
		if errors.Is(err, iyzico.ErrNetworkError) || errors.Is(err, context.DeadlineExceeded) {
			logger.Error("Payment gateway unreachable", err, map[string]interface{}{
				"user_id":         userID,
				"conversation_id": conversationID,
			})
			return nil, ErrGatewayUnavailable
		}
		logger.Error("Payment request failed", err, map[string]interface{}{
			"user_id":         userID,
			"conversation_id": conversationID,
		})
		return nil, err
	}

	if !result.Succeeded() {
		logger.Warn("Payment declined", map[string]interface{}{
			"user_id":         userID,
			"conversation_id": conversationID,
			"error_code":      result.ErrorCode,
			"error_message":   result.ErrorMessage,
		})
		return nil, fmt.Errorf("%w: %s", ErrPaymentDeclined, result.ErrorMessage)
	}

	logger.Info("Payment authorized", map[string]interface{}{
		"user_id":         userID,
		"payment_id":      result.PaymentID,
		"conversation_id": conversationID,
		"amount":          total.StringFixed(2),
	})

	snap := snapshotFromCart(user, cart, req, total, result.PaymentID, conversationID)

	var order *model.Order
	txErr := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		order, err = persistOrderSnapshot(tx, snap)
		return err
	})
	if txErr != nil {
		logger.Error("Order persistence failed after successful charge", txErr, map[string]interface{}{
			"user_id":    userID,
			"payment_id": result.PaymentID,
		})
		s.recordReconciliation(snap, txErr)
		return nil, ErrOrderNotRecorded
	}

	logger.Info("Checkout completed", map[string]interface{}{
		"user_id":      userID,
		"order_id":     order.ID,
		"order_number": order.OrderNumber,
		"total_amount": order.TotalAmount.StringFixed(2),
	})
	return order, nil
}

func applyShippingDefaults(req *CheckoutRequest, user *model.User) {
	if req.Phone == "" {
		req.Phone = user.Phone
	}
	if req.Address == "" {
		req.Address = user.Address
	}
	if req.City == "" {
		req.City = user.City
	}
}

func (s *checkoutService) buildPaymentRequest(
	user *model.User,
	cart *model.Cart,
	req CheckoutRequest,
	total decimal.Decimal,
	conversationID string,
) iyzico.PaymentRequest {
	amount := total.StringFixed(2)

	items := make([]iyzico.BasketItem, 0, len(cart.Items))
	for _, line := range cart.Items {
		items = append(items, iyzico.BasketItem{
			ID:        fmt.Sprintf("%d", line.ProductID),
			Name:      line.Product.Name,
			Category1: line.Product.Category.Name,
			ItemType:  iyzico.ItemTypePhysical,
			Price:     line.Subtotal().Round(2).StringFixed(2),
		})
	}

	address := iyzico.Address{
		ContactName: user.FullName(),
		City:        req.City,
		Country:     s.payCfg.BuyerCountry,
		Description: req.Address,
		ZipCode:     s.payCfg.BuyerZipCode,
	}

	return iyzico.PaymentRequest{
		Locale:         s.payCfg.Locale,
		ConversationID: conversationID,
		Price:          amount,
		PaidPrice:      amount,
		Currency:       s.payCfg.Currency,
		Installment:    s.payCfg.Installment,
		BasketID:       fmt.Sprintf("%d", cart.ID),
		PaymentCard: iyzico.PaymentCard{
			CardHolderName: req.CardHolderName,
			CardNumber:     req.CardNumber,
			ExpireMonth:    req.ExpireMonth,
			ExpireYear:     req.ExpireYear,
			CVC:            req.CVC,
		},
		Buyer: iyzico.Buyer{
			ID:                  fmt.Sprintf("%d", user.ID),
			Name:                user.FirstName,
			Surname:             user.LastName,
			GsmNumber:           req.Phone,
			Email:               user.Email,
			IdentityNumber:      s.payCfg.BuyerIdentityNumber,
			RegistrationAddress: req.Address,
			IP:                  s.payCfg.BuyerIP,
			City:                req.City,
			Country:             s.payCfg.BuyerCountry,
			ZipCode:             s.payCfg.BuyerZipCode,
		},
		ShippingAddress: address,
		BillingAddress:  address,
		BasketItems:     items,
	}
}

// recordReconciliation stores the charged cart so the retry job can
// replay the order write. A failure here is only logged; the money has
// already moved and the operator alert is the log line.
func (s *checkoutService) recordReconciliation(snap orderSnapshot, cause error) {
	data, err := json.Marshal(snap)
	if err != nil {
		logger.Error("Failed to marshal order snapshot for reconciliation", err, map[string]interface{}{
			"payment_id": snap.PaymentID,
		})
		return
	}

	amount, _ := decimal.NewFromString(snap.Amount)
	rec := &model.PaymentReconciliation{
		UserID:         snap.UserID,
		PaymentID:      snap.PaymentID,
		ConversationID: snap.ConversationID,
		Amount:         amount,
		CartSnapshot:   string(data),
		Status:         model.ReconciliationPending,
		LastError:      cause.Error(),
	}

	if err := s.reconRepo.Create(rec); err != nil {
		logger.Error("Failed to store reconciliation record", err, map[string]interface{}{
			"user_id":    snap.UserID,
			"payment_id": snap.PaymentID,
		})
	}
}

// orderSnapshot is the durable copy of everything needed to write the
// order after the charge has already succeeded
type orderSnapshot struct {
	UserID         uint                `json:"user_id"`
	CartID         uint                `json:"cart_id"`
	PaymentID      string              `json:"payment_id"`
	ConversationID string              `json:"conversation_id"`
	Amount         string              `json:"amount"`
	FirstName      string              `json:"first_name"`
	LastName       string              `json:"last_name"`
	Email          string              `json:"email"`
	Phone          string              `json:"phone"`
	Address        string              `json:"address"`
	City           string              `json:"city"`
	Note           string              `json:"note"`
	OrderDate      time.Time           `json:"order_date"`
	Items          []orderSnapshotItem `json:"items"`
}

type orderSnapshotItem struct {
	ProductID uint   `json:"product_id"`
	Quantity  int    `json:"quantity"`
	Price     string `json:"price"`
}

func snapshotFromCart(user *model.User, cart *model.Cart, req CheckoutRequest, total decimal.Decimal, paymentID, conversationID string) orderSnapshot {
	items := make([]orderSnapshotItem, 0, len(cart.Items))
	for _, line := range cart.Items {
		items = append(items, orderSnapshotItem{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			Price:     line.Product.Price.StringFixed(2),
		})
	}

	return orderSnapshot{
		UserID:         user.ID,
		CartID:         cart.ID,
		PaymentID:      paymentID,
		ConversationID: conversationID,
		Amount:         total.StringFixed(2),
		FirstName:      user.FirstName,
		LastName:       user.LastName,
		Email:          user.Email,
		Phone:          req.Phone,
		Address:        req.Address,
		City:           req.City,
		Note:           req.Note,
		OrderDate:      time.Now(),
		Items:          items,
	}
}

// persistOrderSnapshot writes the order with its items and clears the
// charged cart, all inside the caller's transaction
func persistOrderSnapshot(tx *gorm.DB, snap orderSnapshot) (*model.Order, error) {
	orderRepo := repository.NewOrderRepository(tx)

	orderNumber, err := generateOrderNumber(orderRepo)
	if err != nil {
		return nil, err
	}

	amount, err := decimal.NewFromString(snap.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid snapshot amount %q: %w", snap.Amount, err)
	}

	order := &model.Order{
		OrderNumber:    orderNumber,
		UserID:         snap.UserID,
		TotalAmount:    amount,
		OrderState:     model.OrderStateCompleted,
		PaymentType:    model.PaymentTypeCreditCard,
		PaymentID:      snap.PaymentID,
		ConversationID: snap.ConversationID,
		FirstName:      snap.FirstName,
		LastName:       snap.LastName,
		Email:          snap.Email,
		Phone:          snap.Phone,
		Address:        snap.Address,
		City:           snap.City,
		Note:           snap.Note,
		OrderDate:      snap.OrderDate,
	}

	for _, item := range snap.Items {
		price, err := decimal.NewFromString(item.Price)
		if err != nil {
			return nil, fmt.Errorf("invalid snapshot price %q: %w", item.Price, err)
		}
		order.OrderItems = append(order.OrderItems, model.OrderItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     price,
		})
	}

	if err := orderRepo.Create(order); err != nil {
		return nil, err
	}

	if err := repository.NewCartRepository(tx).ClearItems(snap.CartID); err != nil {
		return nil, err
	}

	return order, nil
}
