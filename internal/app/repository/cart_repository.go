package repository

import (
	"errors"

	"github.com/tkaraca/shopapp-backend/internal/app/model"
	"github.com/tkaraca/shopapp-backend/pkg/logger"
	"gorm.io/gorm"
)

type CartRepository interface {
	FindByUserID(userID uint) (*model.Cart, error)
	FindOrCreateByUserID(userID uint) (*model.Cart, error)
	FindItem(cartID, productID uint) (*model.CartItem, error)
	CreateItem(item *model.CartItem) error
	UpdateItem(item *model.CartItem) error
	DeleteItem(cartID, productID uint) error
	ClearItems(cartID uint) error
}

type cartRepository struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) CartRepository {
	return &cartRepository{db: db}
}

// preloadCart loads cart lines with their product and category
func (r *cartRepository) preloadCart() *gorm.DB {
	return r.db.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("cart_items.created_at ASC")
	}).Preload("Items.Product").Preload("Items.Product.Category")
}

func (r *cartRepository) FindByUserID(userID uint) (*model.Cart, error) {
	logger.Debug("Finding cart by user ID in database", map[string]interface{}{
		"user_id": userID,
	})

	var cart model.Cart
	if err := r.preloadCart().Where("user_id = ?", userID).First(&cart).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Error("Failed to find cart by user ID in database", err, map[string]interface{}{
				"user_id": userID,
			})
		}
		return nil, err
	}

	return &cart, nil
}

func (r *cartRepository) FindOrCreateByUserID(userID uint) (*model.Cart, error) {
	cart, err := r.FindByUserID(userID)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	logger.Debug("Creating cart for user in database", map[string]interface{}{
		"user_id": userID,
	})

	cart = &model.Cart{UserID: userID}
	if err := r.db.Create(cart).Error; err != nil {
		// A concurrent request may have created the row first; the
		// unique index on user_id makes the retry safe.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return r.FindByUserID(userID)
		}
		logger.Error("Failed to create cart in database", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	cart.Items = []model.CartItem{}
	return cart, nil
}

func (r *cartRepository) FindItem(cartID, productID uint) (*model.CartItem, error) {
	var item model.CartItem
	err := r.db.Where("cart_id = ? AND product_id = ?", cartID, productID).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *cartRepository) CreateItem(item *model.CartItem) error {
	logger.Debug("Creating cart item in database", map[string]interface{}{
		"cart_id":    item.CartID,
		"product_id": item.ProductID,
		"quantity":   item.Quantity,
	})

	if err := r.db.Create(item).Error; err != nil {
		logger.Error("Failed to create cart item in database", err, map[string]interface{}{
			"cart_id":    item.CartID,
			"product_id": item.ProductID,
		})
		return err
	}

	return nil
}

func (r *cartRepository) UpdateItem(item *model.CartItem) error {
	logger.Debug("Updating cart item in database", map[string]interface{}{
		"cart_item_id": item.ID,
		"quantity":     item.Quantity,
	})

	if err := r.db.Save(item).Error; err != nil {
		logger.Error("Failed to update cart item in database", err, map[string]interface{}{
			"cart_item_id": item.ID,
		})
		return err
	}

	return nil
}

func (r *cartRepository) DeleteItem(cartID, productID uint) error {
	logger.Debug("Deleting cart item from database", map[string]interface{}{
		"cart_id":    cartID,
		"product_id": productID,
	})

	if err := r.db.Where("cart_id = ? AND product_id = ?", cartID, productID).
		Delete(&model.CartItem{}).Error; err != nil {
		logger.Error("Failed to delete cart item from database", err, map[string]interface{}{
			"cart_id":    cartID,
			"product_id": productID,
		})
		return err
	}

	return nil
}

func (r *cartRepository) ClearItems(cartID uint) error {
	logger.Debug("Clearing cart items from database", map[string]interface{}{
		"cart_id": cartID,
	})

	if err := r.db.Where("cart_id = ?", cartID).Delete(&model.CartItem{}).Error; err != nil {
		logger.Error("Failed to clear cart items from database", err, map[string]interface{}{
			"cart_id": cartID,
		})
		return err
	}

	return nil
}
