package models

import (
	"time"

	"github.com/delispi/delispi-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product represents the canonical catalog listing.
type Product struct {
	ID            uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name          string              `gorm:"column:name;not null"`
	Description   string              `gorm:"column:description;not null"`
	Price         decimal.Decimal     `gorm:"column:price;type:numeric(10,2);not null"`
	OriginalPrice *decimal.Decimal    `gorm:"column:original_price;type:numeric(10,2)"`
	CategoryID    uuid.UUID           `gorm:"column:category_id;type:uuid;not null"`
	Category      *Category           `gorm:"foreignKey:CategoryID"`
	StockQuantity int                 `gorm:"column:stock_quantity;not null;default:0"`
	SKU           string              `gorm:"column:sku;not null;uniqueIndex"`
	Image         *string             `gorm:"column:image"`
	Status        enums.ProductStatus `gorm:"column:status;not null;default:active"`
	CreatedAt     time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

// Purchasable reports whether the product may be added to a cart or ordered.
func (p Product) Purchasable() bool {
	return p.Status == enums.ProductStatusActive
}
