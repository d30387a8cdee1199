package repository

import (
	"strings"

	"github.com/tkaraca/shopapp-backend/internal/app/model"
	"github.com/tkaraca/shopapp-backend/pkg/logger"
	"gorm.io/gorm"
)

type ProductRepository interface {
	Create(product *model.Product) error
	FindByID(id uint) (*model.Product, error)
	FindAll() ([]model.Product, error)
	FindByCategory(categoryID uint) ([]model.Product, error)
	Search(query string, categoryID uint) ([]model.Product, error)
	FindCategoryByName(name string) (*model.Category, error)
	FindAllCategories() ([]model.Category, error)
	Update(product *model.Product) error
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

// activeProducts scopes queries to purchasable catalog entries
func (r *productRepository) activeProducts() *gorm.DB {
	return r.db.Where("is_active = ?", true).Preload("Category")
}

func (r *productRepository) Create(product *model.Product) error {
	logger.Debug("Creating product in database", map[string]interface{}{
		"name":        product.Name,
		"category_id": product.CategoryID,
	})

	if err := r.db.Create(product).Error; err != nil {
		logger.Error("Failed to create product in database", err, map[string]interface{}{
			"name": product.Name,
		})
		return err
	}

	return nil
}

func (r *productRepository) FindByID(id uint) (*model.Product, error) {
	logger.Debug("Finding product by ID in database", map[string]interface{}{
		"product_id": id,
	})

	var product model.Product
	if err := r.activeProducts().First(&product, id).Error; err != nil {
		logger.Error("Failed to find product by ID in database", err, map[string]interface{}{
			"product_id": id,
		})
		return nil, err
	}

	return &product, nil
}

func (r *productRepository) FindAll() ([]model.Product, error) {
	var products []model.Product
	if err := r.activeProducts().Order("name ASC").Find(&products).Error; err != nil {
		logger.Error("Failed to find products in database", err)
		return nil, err
	}

	logger.Debug("Products found in database", map[string]interface{}{
		"count": len(products),
	})
	return products, nil
}

func (r *productRepository) FindByCategory(categoryID uint) ([]model.Product, error) {
	logger.Debug("Finding products by category in database", map[string]interface{}{
		"category_id": categoryID,
	})

	var products []model.Product
	if err := r.activeProducts().Where("category_id = ?", categoryID).
		Order("name ASC").
		Find(&products).Error; err != nil {
		logger.Error("Failed to find products by category in database", err, map[string]interface{}{
			"category_id": categoryID,
		})
		return nil, err
	}

	return products, nil
}

func (r *productRepository) Search(query string, categoryID uint) ([]model.Product, error) {
	logger.Debug("Searching products in database", map[string]interface{}{
		"query":       query,
		"category_id": categoryID,
	})

	q := r.activeProducts()
	if query != "" {
		// Case-insensitive match on product name, description and category name
		pattern := "%" + strings.ToLower(query) + "%"
		q = q.Joins("JOIN categories ON categories.id = products.category_id").
			Where("LOWER(products.name) LIKE ? OR LOWER(products.description) LIKE ? OR LOWER(categories.name) LIKE ?",
				pattern, pattern, pattern)
	}
	if categoryID != 0 {
		q = q.Where("category_id = ?", categoryID)
	}

	var products []model.Product
	if err := q.Order("products.name ASC").Find(&products).Error; err != nil {
		logger.Error("Failed to search products in database", err, map[string]interface{}{
			"query": query,
		})
		return nil, err
	}

	logger.Debug("Product search completed", map[string]interface{}{
		"query": query,
		"count": len(products),
	})
	return products, nil
}

func (r *productRepository) FindCategoryByName(name string) (*model.Category, error) {
	var category model.Category
	if err := r.db.Where("name = ?", name).First(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *productRepository) FindAllCategories() ([]model.Category, error) {
	var categories []model.Category
	if err := r.db.Order("name ASC").Find(&categories).Error; err != nil {
		logger.Error("Failed to find categories in database", err)
		return nil, err
	}
	return categories, nil
}

func (r *productRepository) Update(product *model.Product) error {
	logger.Debug("Updating product in database", map[string]interface{}{
		"product_id": product.ID,
	})

	if err := r.db.Save(product).Error; err != nil {
		logger.Error("Failed to update product in database", err, map[string]interface{}{
			"product_id": product.ID,
		})
		return err
	}

	return nil
}
