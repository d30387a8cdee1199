package repository

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tkaraca/shopapp-backend/internal/app/model"
	"github.com/tkaraca/shopapp-backend/internal/db"
	"gorm.io/gorm"
)

func setupCartRepositoryTest(t *testing.T) (CartRepository, *model.User, *model.Product, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	user := &model.User{
		Email:     "test@example.com",
		Password:  "hash",
		FirstName: "Test",
		LastName:  "User",
		Role:      model.RoleUser,
	}
	testDB.Create(user)

	category := &model.Category{Name: "Phones"}
	testDB.Create(category)

	product := &model.Product{
		Name:          "Test Phone",
		Price:         decimal.RequireFromString("19.99"),
		CategoryID:    category.ID,
		StockQuantity: 10,
		IsActive:      true,
	}
	testDB.Create(product)

	return NewCartRepository(testDB), user, product, testDB
}

func TestCartRepository_DuplicateCartIsTranslated(t *testing.T) {
	_, user, _, testDB := setupCartRepositoryTest(t)

	require.NoError(t, testDB.Create(&model.Cart{UserID: user.ID}).Error)

	// The unique index on user_id must surface as gorm.ErrDuplicatedKey
	// so FindOrCreateByUserID can recover from a concurrent create
	err := testDB.Create(&model.Cart{UserID: user.ID}).Error
	require.Error(t, err)
	assert.True(t, errors.Is(err, gorm.ErrDuplicatedKey))
}

func TestCartRepository_DuplicateItemIsTranslated(t *testing.T) {
	repo, user, product, testDB := setupCartRepositoryTest(t)

	require.NoError(t, testDB.Create(&model.Cart{UserID: user.ID}).Error)
	cart, err := repo.FindByUserID(user.ID)
	require.NoError(t, err)

	require.NoError(t, repo.CreateItem(&model.CartItem{CartID: cart.ID, ProductID: product.ID, Quantity: 1}))

	err = repo.CreateItem(&model.CartItem{CartID: cart.ID, ProductID: product.ID, Quantity: 2})
	require.Error(t, err)
	assert.True(t, errors.Is(err, gorm.ErrDuplicatedKey))
}

func TestCartRepository_DeleteItemFreesUniqueIndex(t *testing.T) {
	repo, user, product, _ := setupCartRepositoryTest(t)

	cart, err := repo.FindOrCreateByUserID(user.ID)
	require.NoError(t, err)

	require.NoError(t, repo.CreateItem(&model.CartItem{CartID: cart.ID, ProductID: product.ID, Quantity: 2}))
	require.NoError(t, repo.DeleteItem(cart.ID, product.ID))

	// The row is gone for real, so the same product can come back
	require.NoError(t, repo.CreateItem(&model.CartItem{CartID: cart.ID, ProductID: product.ID, Quantity: 1}))

	refreshed, err := repo.FindByUserID(user.ID)
	require.NoError(t, err)
	require.Len(t, refreshed.Items, 1)
	assert.Equal(t, 1, refreshed.Items[0].Quantity)
}

func TestCartRepository_ClearItemsFreesUniqueIndex(t *testing.T) {
	repo, user, product, _ := setupCartRepositoryTest(t)

	cart, err := repo.FindOrCreateByUserID(user.ID)
	require.NoError(t, err)

	require.NoError(t, repo.CreateItem(&model.CartItem{CartID: cart.ID, ProductID: product.ID, Quantity: 2}))
	require.NoError(t, repo.ClearItems(cart.ID))

	require.NoError(t, repo.CreateItem(&model.CartItem{CartID: cart.ID, ProductID: product.ID, Quantity: 3}))
}
