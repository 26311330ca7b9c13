package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/delispi/delispi-backend/pkg/db/models"
	pkgerrors "github.com/delispi/delispi-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type productFinder interface {
	FindProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

// Service exposes session cart operations.
type Service interface {
	GetCart(ctx context.Context, userID uuid.UUID) (*AssembledCart, error)
	AddItem(ctx context.Context, userID, productID uuid.UUID, quantity int) (*AssembledCart, error)
	UpdateItem(ctx context.Context, userID, productID uuid.UUID, quantity int) (*AssembledCart, error)
	RemoveItem(ctx context.Context, userID, productID uuid.UUID) (*AssembledCart, error)
	Clear(ctx context.Context, userID uuid.UUID) error
}

type service struct {
	store     SessionStore
	products  productFinder
	assembler *Assembler
}

// NewService builds a cart service backed by the session store and catalog.
func NewService(store SessionStore, products productFinder, assembler *Assembler) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("session store required")
	}
	if products == nil {
		return nil, fmt.Errorf("product finder required")
	}
	if assembler == nil {
		return nil, fmt.Errorf("cart assembler required")
	}
	return &service{store: store, products: products, assembler: assembler}, nil
}

// GetCart returns the assembled cart view.
func (s *service) GetCart(ctx context.Context, userID uuid.UUID) (*AssembledCart, error) {
	cart, err := s.store.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.assembler.Assemble(ctx, cart)
}

// AddItem accumulates quantity onto the product's line. The product
// must exist, be active, and have enough stock to cover the resulting
// line quantity.
func (s *service) AddItem(ctx context.Context, userID, productID uuid.UUID, quantity int) (*AssembledCart, error) {
	if quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	product, err := s.loadPurchasable(ctx, productID)
	if err != nil {
		return nil, err
	}

	cart, err := s.store.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	if cart.Quantity(productID)+quantity > product.StockQuantity {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "requested quantity exceeds available stock")
	}

	cart.Add(productID, quantity)
	if err := s.store.Save(ctx, userID, cart); err != nil {
		return nil, err
	}
	return s.assembler.Assemble(ctx, cart)
}

// UpdateItem overwrites the product's line quantity. Zero or negative
// quantities remove the line.
func (s *service) UpdateItem(ctx context.Context, userID, productID uuid.UUID, quantity int) (*AssembledCart, error) {
	cart, err := s.store.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	if quantity > 0 {
		product, err := s.loadPurchasable(ctx, productID)
		if err != nil {
			return nil, err
		}
		if quantity > product.StockQuantity {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "requested quantity exceeds available stock")
		}
	}

	cart.Set(productID, quantity)
	if err := s.store.Save(ctx, userID, cart); err != nil {
		return nil, err
	}
	return s.assembler.Assemble(ctx, cart)
}

// RemoveItem drops the product's line. Removing a product that is not
// in the cart succeeds without complaint.
func (s *service) RemoveItem(ctx context.Context, userID, productID uuid.UUID) (*AssembledCart, error) {
	cart, err := s.store.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	cart.Remove(productID)
	if err := s.store.Save(ctx, userID, cart); err != nil {
		return nil, err
	}
	return s.assembler.Assemble(ctx, cart)
}

// Clear empties the user's cart.
func (s *service) Clear(ctx context.Context, userID uuid.UUID) error {
	return s.store.Clear(ctx, userID)
}

func (s *service) loadPurchasable(ctx context.Context, productID uuid.UUID) (*models.Product, error) {
	product, err := s.products.FindProductByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading product")
	}
	if !product.Purchasable() {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return product, nil
}
