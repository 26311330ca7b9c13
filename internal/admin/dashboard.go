package admin

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/delispi/delispi-backend/pkg/db/models"
	"github.com/delispi/delispi-backend/pkg/enums"
	pkgerrors "github.com/delispi/delispi-backend/pkg/errors"
)

// DashboardDTO carries the back-office landing page counters.
type DashboardDTO struct {
	Users          int64           `json:"users"`
	ActiveProducts int64           `json:"active_products"`
	Orders         int64           `json:"orders"`
	PendingOrders  int64           `json:"pending_orders"`
	Revenue        decimal.Decimal `json:"revenue"`
}

// Service aggregates store-wide counters for administrators.
type Service interface {
	GetDashboard(ctx context.Context) (*DashboardDTO, error)
}

type service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) (Service, error) {
	if db == nil {
		return nil, fmt.Errorf("db handle required")
	}
	return &service{db: db}, nil
}

func (s *service) GetDashboard(ctx context.Context) (*DashboardDTO, error) {
	dto := &DashboardDTO{Revenue: decimal.Zero}
	db := s.db.WithContext(ctx)

	counts := []struct {
		dest  *int64
		query *gorm.DB
	}{
		{&dto.Users, db.Model(&models.User{})},
		{&dto.ActiveProducts, db.Model(&models.Product{}).Where("status = ?", enums.ProductStatusActive)},
		{&dto.Orders, db.Model(&models.Order{})},
		{&dto.PendingOrders, db.Model(&models.Order{}).Where("status = ?", enums.OrderStatusPending)},
	}
	for _, c := range counts {
		if err := c.query.Count(c.dest).Error; err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count dashboard metric")
		}
	}

	// Revenue only counts orders whose payment settled.
	var revenue struct {
		Total decimal.Decimal `gorm:"column:total"`
	}
	err := db.Model(&models.Order{}).
		Select("COALESCE(SUM(total), 0) AS total").
		Where("payment_status = ?", enums.PaymentStatusPaid).
		Scan(&revenue).
		Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sum revenue")
	}
	dto.Revenue = revenue.Total

	return dto, nil
}
