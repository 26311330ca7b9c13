package orders

import (
	"context"
	"testing"
	"time"

	"github.com/delispi/delispi-backend/pkg/db/models"
	"github.com/delispi/delispi-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupOrdersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	ordersDDL := `
CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  total NUMERIC NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending',
  payment_status TEXT NOT NULL DEFAULT 'pending',
  payment_method TEXT NOT NULL,
  shipping_address_id TEXT NOT NULL,
  billing_address_id TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`
	itemsDDL := `
CREATE TABLE IF NOT EXISTS order_items (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  product_name TEXT NOT NULL,
  unit_price NUMERIC NOT NULL,
  quantity INTEGER NOT NULL,
  subtotal NUMERIC NOT NULL,
  created_at DATETIME
);`
	for _, ddl := range []string{ordersDDL, itemsDDL} {
		require.NoError(t, db.Exec(ddl).Error)
	}
	return db
}

func buildOrder(userID uuid.UUID, total string, createdAt time.Time) *models.Order {
	addressID := uuid.New()
	return &models.Order{
		ID:                uuid.New(),
		UserID:            userID,
		Total:             decimal.RequireFromString(total),
		Status:            enums.OrderStatusPending,
		PaymentStatus:     enums.PaymentStatusPending,
		PaymentMethod:     enums.PaymentMethodCashOnDelivery,
		ShippingAddressID: addressID,
		BillingAddressID:  addressID,
		CreatedAt:         createdAt,
		Items: []models.OrderItem{
			{
				ID:          uuid.New(),
				ProductID:   uuid.New(),
				ProductName: "Saffron Threads",
				UnitPrice:   decimal.RequireFromString(total),
				Quantity:    1,
				Subtotal:    decimal.RequireFromString(total),
			},
		},
	}
}

func TestCreateOrderPersistsItems(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	userID := uuid.New()

	order := buildOrder(userID, "25.00", time.Now().UTC())
	created, err := repo.CreateOrder(ctx, order)
	require.NoError(t, err)

	found, err := repo.FindByIDForUser(ctx, created.ID, userID)
	require.NoError(t, err)
	require.Len(t, found.Items, 1)
	assert.Equal(t, "Saffron Threads", found.Items[0].ProductName)
	assert.True(t, found.Total.Equal(decimal.RequireFromString("25.00")))
}

func TestFindByIDForUserScopesOwnership(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	owner := uuid.New()

	order := buildOrder(owner, "10.00", time.Now().UTC())
	_, err := repo.CreateOrder(ctx, order)
	require.NoError(t, err)

	_, err = repo.FindByIDForUser(ctx, order.ID, uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestListByUserNewestFirst(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	userID := uuid.New()

	base := time.Now().UTC().Add(-time.Hour)
	oldest := buildOrder(userID, "10.00", base)
	middle := buildOrder(userID, "20.00", base.Add(10*time.Minute))
	newest := buildOrder(userID, "30.00", base.Add(20*time.Minute))
	for _, order := range []*models.Order{oldest, newest, middle} {
		_, err := repo.CreateOrder(ctx, order)
		require.NoError(t, err)
	}

	// another user's order should not leak into the listing
	_, err := repo.CreateOrder(ctx, buildOrder(uuid.New(), "99.00", base.Add(time.Hour)))
	require.NoError(t, err)

	list, total, err := repo.ListByUser(ctx, userID, 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, list, 3)
	assert.Equal(t, newest.ID, list[0].ID)
	assert.Equal(t, middle.ID, list[1].ID)
	assert.Equal(t, oldest.ID, list[2].ID)
}

func TestListAllFiltersByStatus(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	pending := buildOrder(uuid.New(), "10.00", time.Now().UTC())
	shipped := buildOrder(uuid.New(), "20.00", time.Now().UTC())
	shipped.Status = enums.OrderStatusShipped
	for _, order := range []*models.Order{pending, shipped} {
		_, err := repo.CreateOrder(ctx, order)
		require.NoError(t, err)
	}

	status := enums.OrderStatusShipped
	list, total, err := repo.ListAll(ctx, &status, 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, list, 1)
	assert.Equal(t, shipped.ID, list[0].ID)
}

func TestUpdateStatus(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	order := buildOrder(uuid.New(), "15.00", time.Now().UTC())
	_, err := repo.CreateOrder(ctx, order)
	require.NoError(t, err)

	require.NoError(t, repo.UpdateStatus(ctx, order.ID, enums.OrderStatusConfirmed))

	found, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusConfirmed, found.Status)

	err = repo.UpdateStatus(ctx, uuid.New(), enums.OrderStatusConfirmed)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
