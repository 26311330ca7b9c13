package catalog

import (
	"time"

	"github.com/delispi/delispi-backend/pkg/db/models"
	"github.com/delispi/delispi-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductListFilters describe the supported filter knobs for the browse endpoint.
type ProductListFilters struct {
	Status     *enums.ProductStatus
	CategoryID *uuid.UUID
	Query      string
}

// CategoryDTO is the API representation of a category.
type CategoryDTO struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description *string   `json:"description,omitempty"`
}

// ProductDTO is the API representation of a product.
type ProductDTO struct {
	ID            uuid.UUID           `json:"id"`
	Name          string              `json:"name"`
	Description   string              `json:"description"`
	Price         decimal.Decimal     `json:"price"`
	OriginalPrice *decimal.Decimal    `json:"original_price,omitempty"`
	CategoryID    uuid.UUID           `json:"category_id"`
	Category      *CategoryDTO        `json:"category,omitempty"`
	StockQuantity int                 `json:"stock_quantity"`
	SKU           string              `json:"sku"`
	Image         *string             `json:"image,omitempty"`
	Status        enums.ProductStatus `json:"status"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

// ToCategoryDTO maps a category model to its API shape.
func ToCategoryDTO(category *models.Category) *CategoryDTO {
	if category == nil {
		return nil
	}
	return &CategoryDTO{
		ID:          category.ID,
		Name:        category.Name,
		Slug:        category.Slug,
		Description: category.Description,
	}
}

// ToProductDTO maps a product model to its API shape.
func ToProductDTO(product *models.Product) *ProductDTO {
	if product == nil {
		return nil
	}
	return &ProductDTO{
		ID:            product.ID,
		Name:          product.Name,
		Description:   product.Description,
		Price:         product.Price,
		OriginalPrice: product.OriginalPrice,
		CategoryID:    product.CategoryID,
		Category:      ToCategoryDTO(product.Category),
		StockQuantity: product.StockQuantity,
		SKU:           product.SKU,
		Image:         product.Image,
		Status:        product.Status,
		CreatedAt:     product.CreatedAt,
		UpdatedAt:     product.UpdatedAt,
	}
}

// ToProductDTOs maps a slice of product models.
func ToProductDTOs(products []models.Product) []ProductDTO {
	out := make([]ProductDTO, 0, len(products))
	for i := range products {
		out = append(out, *ToProductDTO(&products[i]))
	}
	return out
}
