package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/delispi/delispi-backend/internal/cart"
	"github.com/delispi/delispi-backend/internal/orders"
	"github.com/delispi/delispi-backend/pkg/db/models"
	"github.com/delispi/delispi-backend/pkg/enums"
	pkgerrors "github.com/delispi/delispi-backend/pkg/errors"
	"github.com/delispi/delispi-backend/pkg/logger"
	"github.com/delispi/delispi-backend/pkg/metrics"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Checkout rejections that feed the failure metric. Keeping them as
// sentinels ties the metric label to the error identity rather than
// its message text.
var (
	errCartEmpty          = pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	errNoSavedAddress     = pkgerrors.New(pkgerrors.CodeValidation, "no saved address")
	errNoPurchasableItems = pkgerrors.New(pkgerrors.CodeValidation, "cart has no purchasable items")
	errPaymentMethod      = pkgerrors.New(pkgerrors.CodeValidation, "unsupported payment method")
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type cartAssembler interface {
	Assemble(ctx context.Context, stored cart.Cart) (*cart.AssembledCart, error)
}

type addressReader interface {
	FindByIDForUser(ctx context.Context, id, userID uuid.UUID) (*models.Address, error)
	CountByUser(ctx context.Context, userID uuid.UUID) (int64, error)
}

// PlaceOrderInput captures the validated checkout payload.
type PlaceOrderInput struct {
	ShippingAddressID uuid.UUID
	BillingAddressID  *uuid.UUID
	PaymentMethod     enums.PaymentMethod
}

// Service turns a session cart into a persisted order.
type Service interface {
	PlaceOrder(ctx context.Context, userID uuid.UUID, input PlaceOrderInput) (*orders.OrderDTO, error)
}

type service struct {
	cartStore cart.SessionStore
	assembler cartAssembler
	addresses addressReader
	orders    orders.Repository
	tx        txRunner
	logg      *logger.Logger
	metrics   *metrics.CheckoutMetrics
}

// NewService builds the checkout orchestrator.
func NewService(
	cartStore cart.SessionStore,
	assembler cartAssembler,
	addresses addressReader,
	ordersRepo orders.Repository,
	tx txRunner,
	logg *logger.Logger,
	checkoutMetrics *metrics.CheckoutMetrics,
) (Service, error) {
	if cartStore == nil {
		return nil, fmt.Errorf("cart store required")
	}
	if assembler == nil {
		return nil, fmt.Errorf("cart assembler required")
	}
	if addresses == nil {
		return nil, fmt.Errorf("address repository required")
	}
	if ordersRepo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		cartStore: cartStore,
		assembler: assembler,
		addresses: addresses,
		orders:    ordersRepo,
		tx:        tx,
		logg:      logg,
		metrics:   checkoutMetrics,
	}, nil
}

// PlaceOrder runs the checkout pipeline. Any rejection before the
// transaction leaves both the cart and the order store untouched; the
// cart is cleared only after the order commit succeeds.
func (s *service) PlaceOrder(ctx context.Context, userID uuid.UUID, input PlaceOrderInput) (*orders.OrderDTO, error) {
	started := time.Now()

	order, err := s.placeOrder(ctx, userID, input)
	if err != nil {
		s.metrics.IncFailure(failureReason(err))
		return nil, err
	}

	s.metrics.IncOrderPlaced(order.PaymentMethod.String())
	s.metrics.ObserveDuration(order.PaymentMethod.String(), time.Since(started))
	return order, nil
}

func (s *service) placeOrder(ctx context.Context, userID uuid.UUID, input PlaceOrderInput) (*orders.OrderDTO, error) {
	stored, err := s.cartStore.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if stored.Len() == 0 {
		return nil, errCartEmpty
	}

	addressCount, err := s.addresses.CountByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "counting addresses")
	}
	if addressCount == 0 {
		return nil, errNoSavedAddress
	}

	assembled, err := s.assembler.Assemble(ctx, stored)
	if err != nil {
		return nil, err
	}
	if len(assembled.Items) == 0 {
		return nil, errNoPurchasableItems
	}

	shipping, err := s.resolveAddress(ctx, input.ShippingAddressID, userID)
	if err != nil {
		return nil, err
	}
	billing := shipping
	if input.BillingAddressID != nil && *input.BillingAddressID != shipping.ID {
		billing, err = s.resolveAddress(ctx, *input.BillingAddressID, userID)
		if err != nil {
			return nil, err
		}
	}

	if !input.PaymentMethod.IsValid() {
		return nil, errPaymentMethod
	}

	order := buildOrder(userID, shipping.ID, billing.ID, input.PaymentMethod, assembled)

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		_, err := s.orders.WithTx(tx).CreateOrder(ctx, order)
		return err
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating order")
	}

	// The order exists; a cart that fails to clear must not undo it.
	if err := s.cartStore.Clear(ctx, userID); err != nil {
		s.logg.Error(s.logg.WithFields(ctx, map[string]any{
			"order_id": order.ID,
			"user_id":  userID.String(),
		}), "order placed but cart clear failed", err)
	}

	return orders.ToOrderDTO(order), nil
}

func (s *service) resolveAddress(ctx context.Context, id, userID uuid.UUID) (*models.Address, error) {
	found, err := s.addresses.FindByIDForUser(ctx, id, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "address not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading address")
	}
	return found, nil
}

// buildOrder snapshots the assembled lines into an order. Names and
// prices are copied so later catalog edits cannot rewrite history.
func buildOrder(userID, shippingID, billingID uuid.UUID, method enums.PaymentMethod, assembled *cart.AssembledCart) *models.Order {
	order := &models.Order{
		ID:                uuid.New(),
		UserID:            userID,
		Total:             assembled.Total,
		Status:            enums.OrderStatusPending,
		PaymentStatus:     enums.PaymentStatusPending,
		PaymentMethod:     method,
		ShippingAddressID: shippingID,
		BillingAddressID:  billingID,
	}
	for _, line := range assembled.Items {
		order.Items = append(order.Items, models.OrderItem{
			ID:          uuid.New(),
			OrderID:     order.ID,
			ProductID:   line.ProductID,
			ProductName: line.Name,
			UnitPrice:   line.UnitPrice,
			Quantity:    line.Quantity,
			Subtotal:    line.Subtotal,
		})
	}
	return order
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, errCartEmpty):
		return "empty_cart"
	case errors.Is(err, errNoSavedAddress):
		return "no_address"
	case errors.Is(err, errPaymentMethod):
		return "payment_method"
	}
	typed := pkgerrors.As(err)
	if typed == nil {
		return "internal"
	}
	switch typed.Code() {
	case pkgerrors.CodeValidation:
		return "validation"
	case pkgerrors.CodeNotFound:
		return "not_found"
	default:
		return "internal"
	}
}
