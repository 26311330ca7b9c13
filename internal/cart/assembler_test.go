package cart

import (
	"context"
	"testing"

	"github.com/delispi/delispi-backend/pkg/db/models"
	"github.com/delispi/delispi-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProductLoader struct {
	products []models.Product
	err      error
}

func (s *stubProductLoader) FindProductsByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.products, nil
}

func activeProduct(name, price string) models.Product {
	return models.Product{
		ID:            uuid.New(),
		Name:          name,
		Price:         decimal.RequireFromString(price),
		StockQuantity: 100,
		Status:        enums.ProductStatusActive,
	}
}

func TestAssembleComputesLineItemsAndTotal(t *testing.T) {
	cardamom := activeProduct("Green Cardamom", "12.50")
	turmeric := activeProduct("Turmeric Powder", "4.99")
	loader := &stubProductLoader{products: []models.Product{cardamom, turmeric}}

	assembler, err := NewAssembler(loader)
	require.NoError(t, err)

	cart := NewCart()
	cart.Add(cardamom.ID, 2)
	cart.Add(turmeric.ID, 1)

	assembled, err := assembler.Assemble(context.Background(), cart)
	require.NoError(t, err)
	require.Len(t, assembled.Items, 2)
	assert.Equal(t, 3, assembled.ItemCount)
	assert.True(t, assembled.Total.Equal(decimal.RequireFromString("29.99")),
		"expected total 29.99, got %s", assembled.Total)

	for _, item := range assembled.Items {
		expected := item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
		assert.True(t, item.Subtotal.Equal(expected))
	}
}

func TestAssembleDropsMissingAndInactiveSilently(t *testing.T) {
	active := activeProduct("Cumin Seeds", "3.25")
	inactive := activeProduct("Discontinued Blend", "9.99")
	inactive.Status = enums.ProductStatusInactive
	loader := &stubProductLoader{products: []models.Product{active, inactive}}

	assembler, err := NewAssembler(loader)
	require.NoError(t, err)

	cart := NewCart()
	cart.Add(active.ID, 1)
	cart.Add(inactive.ID, 2)
	cart.Add(uuid.New(), 3) // deleted product

	assembled, err := assembler.Assemble(context.Background(), cart)
	require.NoError(t, err)
	require.Len(t, assembled.Items, 1)
	assert.Equal(t, active.ID, assembled.Items[0].ProductID)
	assert.True(t, assembled.Total.Equal(decimal.RequireFromString("3.25")))

	// the stored cart is not mutated by assembly
	assert.Equal(t, 3, cart.Len())
}

func TestAssembleIsStableAcrossCalls(t *testing.T) {
	first := activeProduct("Cloves", "8.00")
	second := activeProduct("Star Anise", "7.00")
	loader := &stubProductLoader{products: []models.Product{first, second}}

	assembler, err := NewAssembler(loader)
	require.NoError(t, err)

	cart := NewCart()
	cart.Add(first.ID, 1)
	cart.Add(second.ID, 2)

	a, err := assembler.Assemble(context.Background(), cart)
	require.NoError(t, err)
	b, err := assembler.Assemble(context.Background(), cart)
	require.NoError(t, err)

	require.Equal(t, len(a.Items), len(b.Items))
	for i := range a.Items {
		assert.Equal(t, a.Items[i].ProductID, b.Items[i].ProductID)
	}
	assert.True(t, a.Total.Equal(b.Total))
}

func TestAssembleEmptyCart(t *testing.T) {
	assembler, err := NewAssembler(&stubProductLoader{})
	require.NoError(t, err)

	assembled, err := assembler.Assemble(context.Background(), NewCart())
	require.NoError(t, err)
	assert.Empty(t, assembled.Items)
	assert.True(t, assembled.Total.IsZero())
}
