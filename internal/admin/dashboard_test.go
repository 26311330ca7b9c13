package admin

import (
	"context"
	"testing"

	"github.com/delispi/delispi-backend/pkg/db/models"
	"github.com/delispi/delispi-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupDashboardTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	for _, ddl := range []string{
		`CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  first_name TEXT NOT NULL,
  last_name TEXT NOT NULL,
  phone TEXT,
  role TEXT NOT NULL DEFAULT 'user',
  last_login_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  description TEXT NOT NULL,
  price NUMERIC NOT NULL,
  original_price NUMERIC,
  category_id TEXT NOT NULL,
  stock_quantity INTEGER NOT NULL DEFAULT 0,
  sku TEXT NOT NULL UNIQUE,
  image TEXT,
  status TEXT NOT NULL DEFAULT 'active',
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS orders (
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
);`,
	} {
		require.NoError(t, db.Exec(ddl).Error)
	}
	return db
}

func seedDashboardOrder(t *testing.T, db *gorm.DB, total string, status enums.OrderStatus, payment enums.PaymentStatus) {
	t.Helper()
	order := models.Order{
		ID:                uuid.New(),
		UserID:            uuid.New(),
		Total:             decimal.RequireFromString(total),
		Status:            status,
		PaymentStatus:     payment,
		PaymentMethod:     enums.PaymentMethodCashOnDelivery,
		ShippingAddressID: uuid.New(),
		BillingAddressID:  uuid.New(),
	}
	require.NoError(t, db.Create(&order).Error)
}

func TestGetDashboardCounts(t *testing.T) {
	db := setupDashboardTestDB(t)
	svc, err := NewService(db)
	require.NoError(t, err)

	require.NoError(t, db.Create(&models.User{ID: uuid.New(), Email: "a@delispi.test", PasswordHash: "x", FirstName: "A", LastName: "B"}).Error)
	require.NoError(t, db.Create(&models.User{ID: uuid.New(), Email: "b@delispi.test", PasswordHash: "x", FirstName: "C", LastName: "D"}).Error)

	for i, status := range []enums.ProductStatus{enums.ProductStatusActive, enums.ProductStatusInactive} {
		product := models.Product{
			ID:          uuid.New(),
			Name:        "Spice",
			Description: "Spice",
			Price:       decimal.RequireFromString("5.00"),
			CategoryID:  uuid.New(),
			SKU:         uuid.NewString()[:8] + string(rune('a'+i)),
			Status:      status,
		}
		require.NoError(t, db.Create(&product).Error)
	}

	seedDashboardOrder(t, db, "10.00", enums.OrderStatusPending, enums.PaymentStatusPending)
	seedDashboardOrder(t, db, "20.00", enums.OrderStatusDelivered, enums.PaymentStatusPaid)
	seedDashboardOrder(t, db, "30.00", enums.OrderStatusShipped, enums.PaymentStatusPaid)

	dto, err := svc.GetDashboard(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(2), dto.Users)
	assert.Equal(t, int64(1), dto.ActiveProducts)
	assert.Equal(t, int64(3), dto.Orders)
	assert.Equal(t, int64(1), dto.PendingOrders)
	assert.True(t, dto.Revenue.Equal(decimal.RequireFromString("50.00")), "revenue was %s", dto.Revenue)
}

func TestGetDashboardEmptyStore(t *testing.T) {
	db := setupDashboardTestDB(t)
	svc, err := NewService(db)
	require.NoError(t, err)

	dto, err := svc.GetDashboard(context.Background())
	require.NoError(t, err)

	assert.Zero(t, dto.Users)
	assert.Zero(t, dto.Orders)
	assert.True(t, dto.Revenue.IsZero())
}
