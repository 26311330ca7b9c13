package checkout

import (
	"context"
	"fmt"
	"io"
	"testing"

	"github.com/delispi/delispi-backend/internal/cart"
	"github.com/delispi/delispi-backend/internal/orders"
	"github.com/delispi/delispi-backend/pkg/db/models"
	"github.com/delispi/delispi-backend/pkg/enums"
	pkgerrors "github.com/delispi/delispi-backend/pkg/errors"
	"github.com/delispi/delispi-backend/pkg/logger"
	"github.com/delispi/delispi-backend/pkg/metrics"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type memoryCartStore struct {
	carts    map[uuid.UUID]cart.Cart
	clearErr error
}

func newMemoryCartStore() *memoryCartStore {
	return &memoryCartStore{carts: map[uuid.UUID]cart.Cart{}}
}

func (m *memoryCartStore) Get(ctx context.Context, userID uuid.UUID) (cart.Cart, error) {
	stored, ok := m.carts[userID]
	if !ok {
		return cart.NewCart(), nil
	}
	return stored, nil
}

func (m *memoryCartStore) Save(ctx context.Context, userID uuid.UUID, stored cart.Cart) error {
	m.carts[userID] = stored
	return nil
}

func (m *memoryCartStore) Clear(ctx context.Context, userID uuid.UUID) error {
	if m.clearErr != nil {
		return m.clearErr
	}
	delete(m.carts, userID)
	return nil
}

type stubCatalog struct {
	products map[uuid.UUID]models.Product
}

func (s *stubCatalog) FindProductsByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error) {
	var out []models.Product
	for _, id := range ids {
		if product, ok := s.products[id]; ok {
			out = append(out, product)
		}
	}
	return out, nil
}

type stubAddressRepo struct {
	addresses map[uuid.UUID]*models.Address // id -> address
}

func (s *stubAddressRepo) FindByIDForUser(ctx context.Context, id, userID uuid.UUID) (*models.Address, error) {
	found, ok := s.addresses[id]
	if !ok || found.UserID != userID {
		return nil, gorm.ErrRecordNotFound
	}
	return found, nil
}

func (s *stubAddressRepo) CountByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	for _, a := range s.addresses {
		if a.UserID == userID {
			count++
		}
	}
	return count, nil
}

type recordingOrdersRepo struct {
	orders.Repository

	created   []*models.Order
	createErr error
}

func (r *recordingOrdersRepo) WithTx(tx *gorm.DB) orders.Repository {
	return r
}

func (r *recordingOrdersRepo) CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	r.created = append(r.created, order)
	return order, nil
}

type passthroughTxRunner struct{}

func (passthroughTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type fixture struct {
	svc       Service
	cartStore *memoryCartStore
	ordersTo  *recordingOrdersRepo
	userID    uuid.UUID
	addressID uuid.UUID
	catalog   *stubCatalog
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	userID := uuid.New()
	addressID := uuid.New()

	cartStore := newMemoryCartStore()
	catalog := &stubCatalog{products: map[uuid.UUID]models.Product{}}
	assembler, err := cart.NewAssembler(catalog)
	require.NoError(t, err)

	addressRepo := &stubAddressRepo{addresses: map[uuid.UUID]*models.Address{
		addressID: {ID: addressID, UserID: userID, IsDefault: true},
	}}
	ordersRepo := &recordingOrdersRepo{}

	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})

	svc, err := NewService(cartStore, assembler, addressRepo, ordersRepo, passthroughTxRunner{}, logg, nil)
	require.NoError(t, err)

	return &fixture{
		svc:       svc,
		cartStore: cartStore,
		ordersTo:  ordersRepo,
		userID:    userID,
		addressID: addressID,
		catalog:   catalog,
	}
}

func (f *fixture) addProduct(price string, stock int) models.Product {
	product := models.Product{
		ID:            uuid.New(),
		Name:          fmt.Sprintf("Spice %d", len(f.catalog.products)+1),
		Price:         decimal.RequireFromString(price),
		StockQuantity: stock,
		Status:        enums.ProductStatusActive,
	}
	f.catalog.products[product.ID] = product
	return product
}

func (f *fixture) fillCart(lines map[uuid.UUID]int) {
	stored := cart.NewCart()
	for id, qty := range lines {
		stored.Add(id, qty)
	}
	f.cartStore.carts[f.userID] = stored
}

func TestPlaceOrderSnapshotsCartAndClearsSession(t *testing.T) {
	f := newFixture(t)
	tenDollar := f.addProduct("10.00", 50)
	fiveDollar := f.addProduct("5.00", 50)
	f.fillCart(map[uuid.UUID]int{tenDollar.ID: 2, fiveDollar.ID: 1})

	dto, err := f.svc.PlaceOrder(context.Background(), f.userID, PlaceOrderInput{
		ShippingAddressID: f.addressID,
		PaymentMethod:     enums.PaymentMethodCashOnDelivery,
	})
	require.NoError(t, err)

	assert.True(t, dto.Total.Equal(decimal.RequireFromString("25.00")),
		"expected total 25.00, got %s", dto.Total)
	assert.Equal(t, enums.OrderStatusPending, dto.Status)
	assert.Equal(t, enums.PaymentStatusPending, dto.PaymentStatus)
	assert.Equal(t, f.addressID, dto.ShippingAddressID)
	assert.Equal(t, f.addressID, dto.BillingAddressID, "billing defaults to shipping")
	require.Len(t, dto.Items, 2)
	for _, item := range dto.Items {
		expected := item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
		assert.True(t, item.Subtotal.Equal(expected))
		assert.NotEmpty(t, item.ProductName)
	}

	require.Len(t, f.ordersTo.created, 1)
	assert.Len(t, f.ordersTo.created[0].Items, 2)

	// cart cleared only after the order exists
	stored, err := f.cartStore.Get(context.Background(), f.userID)
	require.NoError(t, err)
	assert.Equal(t, 0, stored.Len())
}

func TestPlaceOrderEmptyCartNeverTouchesOrderStore(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.PlaceOrder(context.Background(), f.userID, PlaceOrderInput{
		ShippingAddressID: f.addressID,
		PaymentMethod:     enums.PaymentMethodCashOnDelivery,
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
	assert.Empty(t, f.ordersTo.created)
}

func TestPlaceOrderRequiresSavedAddress(t *testing.T) {
	f := newFixture(t)
	product := f.addProduct("10.00", 10)
	f.fillCart(map[uuid.UUID]int{product.ID: 1})

	stranger := uuid.New()
	f.cartStore.carts[stranger] = f.cartStore.carts[f.userID]

	_, err := f.svc.PlaceOrder(context.Background(), stranger, PlaceOrderInput{
		ShippingAddressID: f.addressID,
		PaymentMethod:     enums.PaymentMethodCashOnDelivery,
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
	assert.Empty(t, f.ordersTo.created)
}

func TestPlaceOrderRejectsForeignAddress(t *testing.T) {
	f := newFixture(t)
	product := f.addProduct("10.00", 10)
	f.fillCart(map[uuid.UUID]int{product.ID: 1})

	// address exists but belongs to someone else
	foreign := uuid.New()
	addressRepo := f.svc.(*service).addresses.(*stubAddressRepo)
	addressRepo.addresses[foreign] = &models.Address{ID: foreign, UserID: uuid.New()}

	_, err := f.svc.PlaceOrder(context.Background(), f.userID, PlaceOrderInput{
		ShippingAddressID: foreign,
		PaymentMethod:     enums.PaymentMethodCashOnDelivery,
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
	assert.Empty(t, f.ordersTo.created)

	// cart untouched after the rejection
	stored, err := f.cartStore.Get(context.Background(), f.userID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.Len())
}

func TestPlaceOrderRejectsUnsupportedPaymentMethod(t *testing.T) {
	f := newFixture(t)
	product := f.addProduct("10.00", 10)
	f.fillCart(map[uuid.UUID]int{product.ID: 1})

	_, err := f.svc.PlaceOrder(context.Background(), f.userID, PlaceOrderInput{
		ShippingAddressID: f.addressID,
		PaymentMethod:     enums.PaymentMethod("credit_card"),
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
	assert.Empty(t, f.ordersTo.created)
}

func TestPlaceOrderRejectsCartWithOnlyStaleLines(t *testing.T) {
	f := newFixture(t)
	product := f.addProduct("10.00", 10)
	f.fillCart(map[uuid.UUID]int{product.ID: 2})

	// deactivated between add-to-cart and checkout
	stale := f.catalog.products[product.ID]
	stale.Status = enums.ProductStatusInactive
	f.catalog.products[product.ID] = stale

	_, err := f.svc.PlaceOrder(context.Background(), f.userID, PlaceOrderInput{
		ShippingAddressID: f.addressID,
		PaymentMethod:     enums.PaymentMethodCashOnDelivery,
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
	assert.Empty(t, f.ordersTo.created)
}

func TestPlaceOrderKeepsCartWhenCreateFails(t *testing.T) {
	f := newFixture(t)
	product := f.addProduct("10.00", 10)
	f.fillCart(map[uuid.UUID]int{product.ID: 1})
	f.ordersTo.createErr = fmt.Errorf("connection reset")

	_, err := f.svc.PlaceOrder(context.Background(), f.userID, PlaceOrderInput{
		ShippingAddressID: f.addressID,
		PaymentMethod:     enums.PaymentMethodCashOnDelivery,
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeInternal, typed.Code())

	stored, getErr := f.cartStore.Get(context.Background(), f.userID)
	require.NoError(t, getErr)
	assert.Equal(t, 1, stored.Len())
}

func TestPlaceOrderSucceedsWhenCartClearFails(t *testing.T) {
	f := newFixture(t)
	product := f.addProduct("10.00", 10)
	f.fillCart(map[uuid.UUID]int{product.ID: 1})
	f.cartStore.clearErr = fmt.Errorf("redis down")

	dto, err := f.svc.PlaceOrder(context.Background(), f.userID, PlaceOrderInput{
		ShippingAddressID: f.addressID,
		PaymentMethod:     enums.PaymentMethodCashOnDelivery,
	})
	require.NoError(t, err)
	assert.True(t, dto.Total.Equal(decimal.RequireFromString("10.00")))
	require.Len(t, f.ordersTo.created, 1)
}

func TestPlaceOrderSeparateBillingAddress(t *testing.T) {
	f := newFixture(t)
	product := f.addProduct("10.00", 10)
	f.fillCart(map[uuid.UUID]int{product.ID: 1})

	billingID := uuid.New()
	addressRepo := f.svc.(*service).addresses.(*stubAddressRepo)
	addressRepo.addresses[billingID] = &models.Address{ID: billingID, UserID: f.userID}

	dto, err := f.svc.PlaceOrder(context.Background(), f.userID, PlaceOrderInput{
		ShippingAddressID: f.addressID,
		BillingAddressID:  &billingID,
		PaymentMethod:     enums.PaymentMethodCashOnDelivery,
	})
	require.NoError(t, err)
	assert.Equal(t, f.addressID, dto.ShippingAddressID)
	assert.Equal(t, billingID, dto.BillingAddressID)
}

func TestFailureReasonTracksSentinels(t *testing.T) {
	cases := []struct {
		err    error
		reason string
	}{
		{errCartEmpty, "empty_cart"},
		{errNoSavedAddress, "no_address"},
		{errPaymentMethod, "payment_method"},
		{errNoPurchasableItems, "validation"},
		{pkgerrors.New(pkgerrors.CodeNotFound, "address not found"), "not_found"},
		{pkgerrors.New(pkgerrors.CodeInternal, "boom"), "internal"},
		{fmt.Errorf("untyped"), "internal"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.reason, failureReason(tc.err), "for %v", tc.err)
	}
}

func TestPlaceOrderEmptyCartCountsFailureMetric(t *testing.T) {
	f := newFixture(t)
	reg := prometheus.NewRegistry()
	f.svc.(*service).metrics = metrics.NewCheckoutMetrics(reg)

	_, err := f.svc.PlaceOrder(context.Background(), f.userID, PlaceOrderInput{
		ShippingAddressID: f.addressID,
		PaymentMethod:     enums.PaymentMethodCashOnDelivery,
	})
	require.Error(t, err)

	mfs, err := reg.Gather()
	require.NoError(t, err)
	var got float64
	for _, mf := range mfs {
		if mf.GetName() != "checkout_failures_total" {
			continue
		}
		for _, metric := range mf.GetMetric() {
			for _, label := range metric.GetLabel() {
				if label.GetName() == "reason" && label.GetValue() == "empty_cart" {
					got = metric.GetCounter().GetValue()
				}
			}
		}
	}
	assert.Equal(t, float64(1), got)
}
