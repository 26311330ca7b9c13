package models

import (
	"time"

	"github.com/delispi/delispi-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order is immutable once created except for its status fields.
type Order struct {
	ID                uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID            uuid.UUID           `gorm:"column:user_id;type:uuid;not null;index"`
	Total             decimal.Decimal     `gorm:"column:total;type:numeric(10,2);not null"`
	Status            enums.OrderStatus   `gorm:"column:status;not null;default:pending"`
	PaymentStatus     enums.PaymentStatus `gorm:"column:payment_status;not null;default:pending"`
	PaymentMethod     enums.PaymentMethod `gorm:"column:payment_method;not null"`
	ShippingAddressID uuid.UUID           `gorm:"column:shipping_address_id;type:uuid;not null"`
	BillingAddressID  uuid.UUID           `gorm:"column:billing_address_id;type:uuid;not null"`
	Items             []OrderItem         `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt         time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
