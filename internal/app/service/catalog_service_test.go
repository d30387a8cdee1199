package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tkaraca/shopapp-backend/internal/app/model"
	"github.com/tkaraca/shopapp-backend/internal/app/repository"
	"github.com/tkaraca/shopapp-backend/internal/db"
)

func setupCatalogServiceTest(t *testing.T) CatalogService {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	productRepo := repository.NewProductRepository(testDB)
	catalogService := NewCatalogService(productRepo, nil, 0)

	phones := &model.Category{Name: "Phones"}
	computers := &model.Category{Name: "Computers"}
	testDB.Create(phones)
	testDB.Create(computers)

	products := []model.Product{
		{Name: "Galaxy S24", Description: "Android phone", Price: decimal.RequireFromString("999.90"), CategoryID: phones.ID, StockQuantity: 5, IsActive: true},
		{Name: "iPhone 15", Description: "Apple phone", Price: decimal.RequireFromString("1199.00"), CategoryID: phones.ID, StockQuantity: 3, IsActive: true},
		{Name: "ThinkPad X1", Description: "Business laptop", Price: decimal.RequireFromString("1899.50"), CategoryID: computers.ID, StockQuantity: 2, IsActive: true},
		{Name: "Retired Model", Description: "No longer sold", Price: decimal.RequireFromString("10.00"), CategoryID: phones.ID, StockQuantity: 0, IsActive: false},
	}
	for i := range products {
		testDB.Create(&products[i])
	}

	return catalogService
}

func TestCatalogService_ListProducts(t *testing.T) {
	catalogService := setupCatalogServiceTest(t)

	products, err := catalogService.ListProducts(context.Background())
	require.NoError(t, err)
	assert.Len(t, products, 3)

	for _, p := range products {
		assert.True(t, p.IsActive)
		assert.NotEmpty(t, p.Category.Name)
	}
}

func TestCatalogService_SearchProducts_ByName(t *testing.T) {
	catalogService := setupCatalogServiceTest(t)

	products, err := catalogService.SearchProducts(context.Background(), "galaxy", "")
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Galaxy S24", products[0].Name)
}

func TestCatalogService_SearchProducts_ByDescription(t *testing.T) {
	catalogService := setupCatalogServiceTest(t)

	products, err := catalogService.SearchProducts(context.Background(), "laptop", "")
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "ThinkPad X1", products[0].Name)
}

func TestCatalogService_SearchProducts_ByCategoryName(t *testing.T) {
	catalogService := setupCatalogServiceTest(t)

	products, err := catalogService.SearchProducts(context.Background(), "computers", "")
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "ThinkPad X1", products[0].Name)
}

func TestCatalogService_SearchProducts_ByCategory(t *testing.T) {
	catalogService := setupCatalogServiceTest(t)

	products, err := catalogService.SearchProducts(context.Background(), "", "Phones")
	require.NoError(t, err)
	assert.Len(t, products, 2)
}

func TestCatalogService_SearchProducts_QueryAndCategory(t *testing.T) {
	catalogService := setupCatalogServiceTest(t)

	products, err := catalogService.SearchProducts(context.Background(), "phone", "Phones")
	require.NoError(t, err)
	assert.Len(t, products, 2)

	products, err = catalogService.SearchProducts(context.Background(), "phone", "Computers")
	require.NoError(t, err)
	assert.Len(t, products, 0)
}

func TestCatalogService_SearchProducts_NoMatches(t *testing.T) {
	catalogService := setupCatalogServiceTest(t)

	products, err := catalogService.SearchProducts(context.Background(), "does-not-exist", "")
	require.NoError(t, err)
	assert.Len(t, products, 0)
}

func TestCatalogService_SearchProducts_CategoryNotFound(t *testing.T) {
	catalogService := setupCatalogServiceTest(t)

	_, err := catalogService.SearchProducts(context.Background(), "", "Furniture")
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestCatalogService_GetProduct(t *testing.T) {
	catalogService := setupCatalogServiceTest(t)

	all, err := catalogService.ListProducts(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, all)

	product, err := catalogService.GetProduct(context.Background(), all[0].ID)
	require.NoError(t, err)
	assert.Equal(t, all[0].Name, product.Name)
}

func TestCatalogService_GetProduct_NotFound(t *testing.T) {
	catalogService := setupCatalogServiceTest(t)

	_, err := catalogService.GetProduct(context.Background(), 9999)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestCatalogService_ListCategories(t *testing.T) {
	catalogService := setupCatalogServiceTest(t)

	categories, err := catalogService.ListCategories(context.Background())
	require.NoError(t, err)
	assert.Len(t, categories, 2)
}
