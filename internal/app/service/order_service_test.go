package service

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tkaraca/shopapp-backend/internal/app/model"
	"github.com/tkaraca/shopapp-backend/internal/app/repository"
	"github.com/tkaraca/shopapp-backend/internal/db"
	"gorm.io/gorm"
)

func setupOrderServiceTest(t *testing.T) (OrderService, *model.User, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	orderRepo := repository.NewOrderRepository(testDB)
	userRepo := repository.NewUserRepository(testDB)
	orderService := NewOrderService(orderRepo, userRepo)

	user := &model.User{
		Email:     "test@example.com",
		Password:  "hash",
		FirstName: "Test",
		LastName:  "User",
		Role:      model.RoleUser,
	}
	testDB.Create(user)

	return orderService, user, testDB
}

func createTestOrder(t *testing.T, testDB *gorm.DB, userID uint, number string, orderDate time.Time) *model.Order {
	t.Helper()
	order := &model.Order{
		OrderNumber: number,
		UserID:      userID,
		TotalAmount: decimal.RequireFromString("25.00"),
		OrderState:  model.OrderStateCompleted,
		PaymentType: model.PaymentTypeCreditCard,
		FirstName:   "Test",
		LastName:    "User",
		Email:       "test@example.com",
		Address:     "Test Street 1",
		City:        "Istanbul",
		OrderDate:   orderDate,
	}
	require.NoError(t, testDB.Create(order).Error)
	return order
}

func TestOrderService_ListOrders_NewestFirst(t *testing.T) {
	orderService, user, testDB := setupOrderServiceTest(t)

	now := time.Now()
	createTestOrder(t, testDB, user.ID, "100001", now.Add(-2*time.Hour))
	createTestOrder(t, testDB, user.ID, "100002", now.Add(-1*time.Hour))
	createTestOrder(t, testDB, user.ID, "100003", now)

	orders, err := orderService.ListOrders(user.ID)
	require.NoError(t, err)
	require.Len(t, orders, 3)
	assert.Equal(t, "100003", orders[0].OrderNumber)
	assert.Equal(t, "100002", orders[1].OrderNumber)
	assert.Equal(t, "100001", orders[2].OrderNumber)
}

func TestOrderService_ListOrders_Empty(t *testing.T) {
	orderService, user, _ := setupOrderServiceTest(t)

	orders, err := orderService.ListOrders(user.ID)
	require.NoError(t, err)
	assert.Len(t, orders, 0)
}

func TestOrderService_ListOrders_UserNotFound(t *testing.T) {
	orderService, _, _ := setupOrderServiceTest(t)

	_, err := orderService.ListOrders(9999)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestOrderService_GetOrder_Success(t *testing.T) {
	orderService, user, testDB := setupOrderServiceTest(t)

	created := createTestOrder(t, testDB, user.ID, "100010", time.Now())

	order, err := orderService.GetOrder(created.ID, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "100010", order.OrderNumber)
	assert.Equal(t, "25.00", order.TotalAmount.StringFixed(2))
}

func TestOrderService_GetOrder_OtherUsersOrderIsNotFound(t *testing.T) {
	orderService, user, testDB := setupOrderServiceTest(t)

	other := &model.User{
		Email:     "other@example.com",
		Password:  "hash",
		FirstName: "Other",
		LastName:  "User",
		Role:      model.RoleUser,
	}
	testDB.Create(other)

	created := createTestOrder(t, testDB, other.ID, "100020", time.Now())

	_, err := orderService.GetOrder(created.ID, user.ID)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestOrderService_GetOrder_NotFound(t *testing.T) {
	orderService, user, _ := setupOrderServiceTest(t)

	_, err := orderService.GetOrder(9999, user.ID)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestOrderService_ExportOrders(t *testing.T) {
	orderService, user, testDB := setupOrderServiceTest(t)

	createTestOrder(t, testDB, user.ID, "100030", time.Now())

	f, err := orderService.ExportOrders(user.ID)
	require.NoError(t, err)
	require.NotNil(t, f)

	rows, err := f.GetRows("Orders")
	require.NoError(t, err)
	require.Len(t, rows, 2) // header + one order
	assert.Equal(t, "Order Number", rows[0][0])
	assert.Equal(t, "100030", rows[1][0])
}

func TestGenerateOrderNumber_SixDigits(t *testing.T) {
	_, _, testDB := setupOrderServiceTest(t)
	orderRepo := repository.NewOrderRepository(testDB)

	number, err := generateOrderNumber(orderRepo)
	require.NoError(t, err)
	assert.Len(t, number, 6)
}

func TestGenerateOrderNumber_AvoidsCollisions(t *testing.T) {
	_, user, testDB := setupOrderServiceTest(t)
	orderRepo := repository.NewOrderRepository(testDB)

	seen := map[string]bool{}
	for i := 0; i < 10; i++ {
		number, err := generateOrderNumber(orderRepo)
		require.NoError(t, err)
		assert.False(t, seen[number])
		seen[number] = true

		createTestOrder(t, testDB, user.ID, number, time.Now())
	}
}
