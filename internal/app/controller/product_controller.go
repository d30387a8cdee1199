package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/tkaraca/shopapp-backend/internal/app/service"
	apperrors "github.com/tkaraca/shopapp-backend/internal/errors"
	"github.com/tkaraca/shopapp-backend/internal/middleware"
)

type ProductController struct {
	catalogService service.CatalogService
}

func NewProductController(catalogService service.CatalogService) *ProductController {
	return &ProductController{
		catalogService: catalogService,
	}
}

// ListProducts returns the catalog, optionally filtered
// GET /api/v1/products?search=<text>&category=<name>
func (ctrl *ProductController) ListProducts(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	search := c.Query("search")
	category := c.Query("category")

	var (
		products interface{}
		count    int
	)

	if search == "" && category == "" {
		list, err := ctrl.catalogService.ListProducts(c.Request.Context())
		if err != nil {
			log.Error("Failed to list products", err)
			apperrors.InternalError(c, "")
			return
		}
		products, count = list, len(list)
	} else {
		list, err := ctrl.catalogService.SearchProducts(c.Request.Context(), search, category)
		if err != nil {
			if errors.Is(err, service.ErrCategoryNotFound) {
				apperrors.NotFound(c, apperrors.CategoryNotFound, "Category not found")
				return
			}
			log.Error("Failed to search products", err, map[string]interface{}{
				"search":   search,
				"category": category,
			})
			apperrors.InternalError(c, "")
			return
		}
		products, count = list, len(list)
	}

	c.JSON(http.StatusOK, gin.H{
		"products": products,
		"count":    count,
	})
}

// GetProduct returns a single catalog entry
// GET /api/v1/products/:id
func (ctrl *ProductController) GetProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	idStr := c.Param("id")
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid product ID")
		return
	}

	product, err := ctrl.catalogService.GetProduct(c.Request.Context(), uint(id))
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			apperrors.NotFound(c, apperrors.ProductNotFound, "Product not found")
			return
		}
		log.Error("Failed to fetch product", err, map[string]interface{}{
			"product_id": id,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"product": product})
}

// ListCategories returns all catalog categories
// GET /api/v1/categories
func (ctrl *ProductController) ListCategories(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	categories, err := ctrl.catalogService.ListCategories(c.Request.Context())
	if err != nil {
		log.Error("Failed to list categories", err)
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"categories": categories,
		"count":      len(categories),
	})
}
