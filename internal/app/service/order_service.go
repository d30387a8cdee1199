package service

import (
	"errors"
	"fmt"

	"github.com/tkaraca/shopapp-backend/internal/app/model"
	"github.com/tkaraca/shopapp-backend/internal/app/repository"
	"github.com/tkaraca/shopapp-backend/pkg/logger"
	"github.com/tkaraca/shopapp-backend/pkg/util"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

var (
	ErrOrderNotFound        = errors.New("order not found")
	ErrOrderNumberExhausted = errors.New("could not allocate a unique order number")
)

// maxOrderNumberAttempts bounds the collision retry loop
const maxOrderNumberAttempts = 5

type OrderService interface {
	ListOrders(userID uint) ([]model.Order, error)
	GetOrder(orderID, userID uint) (*model.Order, error)
	ExportOrders(userID uint) (*excelize.File, error)
}

type orderService struct {
	orderRepo repository.OrderRepository
	userRepo  repository.UserRepository
}

func NewOrderService(orderRepo repository.OrderRepository, userRepo repository.UserRepository) OrderService {
	return &orderService{
		orderRepo: orderRepo,
		userRepo:  userRepo,
	}
}

// ListOrders returns the user's orders, newest first
func (s *orderService) ListOrders(userID uint) ([]model.Order, error) {
	logger.Debug("Listing user orders", map[string]interface{}{
		"user_id": userID,
	})

	if _, err := s.userRepo.FindByID(userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	orders, err := s.orderRepo.FindByUserID(userID)
	if err != nil {
		logger.Error("Failed to list user orders", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	return orders, nil
}

// GetOrder returns a single order. Another user's order is reported as
// not found, not as forbidden.
func (s *orderService) GetOrder(orderID, userID uint) (*model.Order, error) {
	order, err := s.orderRepo.FindByIDForUser(orderID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Order not found", map[string]interface{}{
				"order_id": orderID,
				"user_id":  userID,
			})
			return nil, ErrOrderNotFound
		}
		logger.Error("Failed to fetch order", err, map[string]interface{}{
			"order_id": orderID,
		})
		return nil, err
	}

	return order, nil
}

// ExportOrders writes the user's order history to a spreadsheet
func (s *orderService) ExportOrders(userID uint) (*excelize.File, error) {
	logger.Info("Exporting user orders", map[string]interface{}{
		"user_id": userID,
	})

	orders, err := s.ListOrders(userID)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	sheet := "Orders"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Order Number", "Date", "State", "Total", "Items", "Ship To"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	for row, order := range orders {
		itemCount := 0
		for _, item := range order.OrderItems {
			itemCount += item.Quantity
		}

		values := []interface{}{
			order.OrderNumber,
			order.OrderDate.Format("2006-01-02 15:04"),
			string(order.OrderState),
			order.TotalAmount.StringFixed(2),
			itemCount,
			fmt.Sprintf("%s %s, %s", order.FirstName, order.LastName, order.City),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	logger.Info("Orders exported successfully", map[string]interface{}{
		"user_id": userID,
		"count":   len(orders),
	})
	return f, nil
}

// generateOrderNumber allocates a random 6-digit order number, retrying
// on collision a bounded number of times
func generateOrderNumber(orderRepo repository.OrderRepository) (string, error) {
	for attempt := 0; attempt < maxOrderNumberAttempts; attempt++ {
		candidate := fmt.Sprintf("%d", util.GenerateRandomNumber(100000, 999999))

		exists, err := orderRepo.ExistsByOrderNumber(candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}

		logger.Warn("Order number collision, retrying", map[string]interface{}{
			"order_number": candidate,
			"attempt":      attempt + 1,
		})
	}

	return "", ErrOrderNumberExhausted
}
