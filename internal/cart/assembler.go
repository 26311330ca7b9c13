package cart

import (
	"context"
	"fmt"
	"sort"

	"github.com/delispi/delispi-backend/pkg/db/models"
	pkgerrors "github.com/delispi/delispi-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type productLoader interface {
	FindProductsByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error)
}

// LineItem is a cart line resolved against the live catalog.
type LineItem struct {
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	Image     *string         `json:"image,omitempty"`
}

// AssembledCart is the displayable cart view built from the stored
// product-to-quantity mapping.
type AssembledCart struct {
	Items     []LineItem      `json:"items"`
	Total     decimal.Decimal `json:"total"`
	ItemCount int             `json:"item_count"`
}

// Assembler resolves stored carts against current catalog state.
type Assembler struct {
	products productLoader
}

// NewAssembler builds a cart assembler.
func NewAssembler(products productLoader) (*Assembler, error) {
	if products == nil {
		return nil, fmt.Errorf("product loader required")
	}
	return &Assembler{products: products}, nil
}

// Assemble prices the cart at current catalog values. Lines whose
// product no longer exists or is inactive are dropped without error;
// the stored cart is left untouched. Output ordering is stable by
// product id.
func (a *Assembler) Assemble(ctx context.Context, cart Cart) (*AssembledCart, error) {
	assembled := &AssembledCart{
		Items: []LineItem{},
		Total: decimal.Zero,
	}
	if cart.Len() == 0 {
		return assembled, nil
	}

	products, err := a.products.FindProductsByIDs(ctx, cart.ProductIDs())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading cart products")
	}

	byID := make(map[uuid.UUID]models.Product, len(products))
	for _, product := range products {
		byID[product.ID] = product
	}

	for productID, quantity := range cart {
		product, ok := byID[productID]
		if !ok || !product.Purchasable() || quantity < 1 {
			continue
		}
		subtotal := product.Price.Mul(decimal.NewFromInt(int64(quantity)))
		assembled.Items = append(assembled.Items, LineItem{
			ProductID: product.ID,
			Name:      product.Name,
			UnitPrice: product.Price,
			Quantity:  quantity,
			Subtotal:  subtotal,
			Image:     product.Image,
		})
	}

	sort.Slice(assembled.Items, func(i, j int) bool {
		return assembled.Items[i].ProductID.String() < assembled.Items[j].ProductID.String()
	})

	for _, item := range assembled.Items {
		assembled.Total = assembled.Total.Add(item.Subtotal)
		assembled.ItemCount += item.Quantity
	}
	return assembled, nil
}
