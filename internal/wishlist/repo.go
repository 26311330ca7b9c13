package wishlist

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/delispi/delispi-backend/pkg/db/models"
	"github.com/delispi/delispi-backend/pkg/enums"
)

// Repository encapsulates wishlist persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a wishlist repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// AddItem inserts a wishlist entry and ignores duplicates.
func (r *Repository) AddItem(ctx context.Context, userID, productID uuid.UUID) error {
	if userID == uuid.Nil || productID == uuid.Nil {
		return gorm.ErrInvalidValue
	}

	item := models.WishlistItem{
		ID:        uuid.New(),
		UserID:    userID,
		ProductID: productID,
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "product_id"}},
			DoNothing: true,
		}).
		Create(&item).
		Error
}

// RemoveItem deletes the user-product entry if it exists.
func (r *Repository) RemoveItem(ctx context.Context, userID, productID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&models.WishlistItem{}).
		Error
}

// HasItem reports whether the product is on the user's wishlist.
func (r *Repository) HasItem(ctx context.Context, userID, productID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.WishlistItem{}).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Count(&count).
		Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

type wishlistProductRecord struct {
	WishlistCreatedAt time.Time           `gorm:"column:wishlist_created_at"`
	ProductID         uuid.UUID           `gorm:"column:product_id"`
	Name              string              `gorm:"column:name"`
	Price             decimal.Decimal     `gorm:"column:price"`
	Image             *string             `gorm:"column:image"`
	Status            enums.ProductStatus `gorm:"column:status"`
}

// ListItems returns the user's wishlist entries joined with their product
// summaries, newest first.
func (r *Repository) ListItems(ctx context.Context, userID uuid.UUID) ([]wishlistProductRecord, error) {
	var records []wishlistProductRecord
	err := r.db.WithContext(ctx).
		Table("wishlist_items wi").
		Select("wi.created_at AS wishlist_created_at, p.id AS product_id, p.name, p.price, p.image, p.status").
		Joins("JOIN products p ON p.id = wi.product_id").
		Where("wi.user_id = ?", userID).
		Order("wi.created_at DESC").
		Scan(&records).
		Error
	if err != nil {
		return nil, err
	}
	return records, nil
}
