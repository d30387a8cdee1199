package repository

import (
	"github.com/tkaraca/shopapp-backend/internal/app/model"
	"github.com/tkaraca/shopapp-backend/pkg/logger"
	"gorm.io/gorm"
)

type OrderRepository interface {
	Create(order *model.Order) error
	FindByID(id uint) (*model.Order, error)
	FindByIDForUser(id, userID uint) (*model.Order, error)
	FindByUserID(userID uint) ([]model.Order, error)
	ExistsByOrderNumber(orderNumber string) (bool, error)
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) preloadOrder() *gorm.DB {
	return r.db.Preload("OrderItems").
		Preload("OrderItems.Product").
		Preload("OrderItems.Product.Category")
}

func (r *orderRepository) Create(order *model.Order) error {
	logger.Debug("Creating order in database", map[string]interface{}{
		"user_id":      order.UserID,
		"order_number": order.OrderNumber,
		"total_amount": order.TotalAmount,
	})

	if err := r.db.Create(order).Error; err != nil {
		logger.Error("Failed to create order in database", err, map[string]interface{}{
			"user_id":      order.UserID,
			"order_number": order.OrderNumber,
		})
		return err
	}

	logger.Debug("Order created in database", map[string]interface{}{
		"order_id":     order.ID,
		"order_number": order.OrderNumber,
	})
	return nil
}

func (r *orderRepository) FindByID(id uint) (*model.Order, error) {
	logger.Debug("Finding order by ID in database", map[string]interface{}{
		"order_id": id,
	})

	var order model.Order
	if err := r.preloadOrder().First(&order, id).Error; err != nil {
		logger.Error("Failed to find order by ID in database", err, map[string]interface{}{
			"order_id": id,
		})
		return nil, err
	}

	return &order, nil
}

func (r *orderRepository) FindByIDForUser(id, userID uint) (*model.Order, error) {
	logger.Debug("Finding order by ID for user in database", map[string]interface{}{
		"order_id": id,
		"user_id":  userID,
	})

	var order model.Order
	if err := r.preloadOrder().Where("id = ? AND user_id = ?", id, userID).
		First(&order).Error; err != nil {
		logger.Error("Failed to find order by ID for user in database", err, map[string]interface{}{
			"order_id": id,
			"user_id":  userID,
		})
		return nil, err
	}

	return &order, nil
}

func (r *orderRepository) FindByUserID(userID uint) ([]model.Order, error) {
	logger.Debug("Finding orders by user ID in database", map[string]interface{}{
		"user_id": userID,
	})

	var orders []model.Order
	if err := r.preloadOrder().Where("user_id = ?", userID).
		Order("order_date DESC, id DESC").
		Find(&orders).Error; err != nil {
		logger.Error("Failed to find orders by user ID in database", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	logger.Debug("Orders found by user ID in database", map[string]interface{}{
		"user_id": userID,
		"count":   len(orders),
	})
	return orders, nil
}

func (r *orderRepository) ExistsByOrderNumber(orderNumber string) (bool, error) {
	var count int64
	if err := r.db.Model(&model.Order{}).
		Where("order_number = ?", orderNumber).
		Count(&count).Error; err != nil {
		logger.Error("Failed to count orders by order number in database", err, map[string]interface{}{
			"order_number": orderNumber,
		})
		return false, err
	}
	return count > 0, nil
}
