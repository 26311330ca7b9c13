package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/delispi/delispi-backend/api/responses"
	"github.com/delispi/delispi-backend/api/validators"
	"github.com/delispi/delispi-backend/internal/catalog"
	"github.com/delispi/delispi-backend/pkg/enums"
	pkgerrors "github.com/delispi/delispi-backend/pkg/errors"
	"github.com/delispi/delispi-backend/pkg/logger"
)

type createProductPayload struct {
	Name          string  `json:"name" validate:"required"`
	Description   string  `json:"description" validate:"required"`
	Price         string  `json:"price" validate:"required"`
	OriginalPrice *string `json:"original_price,omitempty"`
	CategoryID    string  `json:"category_id" validate:"required,uuid"`
	StockQuantity int     `json:"stock_quantity" validate:"min=0"`
	SKU           string  `json:"sku" validate:"required"`
	Image         *string `json:"image,omitempty"`
}

type updateProductPayload struct {
	Name          *string `json:"name,omitempty"`
	Description   *string `json:"description,omitempty"`
	Price         *string `json:"price,omitempty"`
	OriginalPrice *string `json:"original_price,omitempty"`
	CategoryID    *string `json:"category_id,omitempty" validate:"omitempty,uuid"`
	StockQuantity *int    `json:"stock_quantity,omitempty" validate:"omitempty,min=0"`
	Image         *string `json:"image,omitempty"`
	Status        *string `json:"status,omitempty"`
}

type createCategoryPayload struct {
	Name        string  `json:"name" validate:"required"`
	Slug        string  `json:"slug" validate:"required"`
	Description *string `json:"description,omitempty"`
}

func parsePrice(raw, field string) (decimal.Decimal, error) {
	value, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid price").WithDetails(map[string]any{"field": field})
	}
	return value, nil
}

// AdminProductList returns the full catalog including inactive products.
func AdminProductList(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		page, err := validators.ParseQueryInt(r, "page", 1, 1, 10000)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		pageSize, err := validators.ParseQueryInt(r, "page_size", 20, 1, 100)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		result, err := svc.ListProducts(ctx, catalog.ListProductsInput{
			Page:            page,
			PageSize:        pageSize,
			IncludeInactive: true,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, productListResponse{Products: result.Products, Page: result.Page})
	}
}

// AdminProductCreate adds a product to the catalog.
func AdminProductCreate(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		var payload createProductPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		price, err := parsePrice(payload.Price, "price")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var originalPrice *decimal.Decimal
		if payload.OriginalPrice != nil {
			parsed, err := parsePrice(*payload.OriginalPrice, "original_price")
			if err != nil {
				responses.WriteError(ctx, logg, w, err)
				return
			}
			originalPrice = &parsed
		}

		categoryID, err := parseUUIDField(payload.CategoryID, "category_id")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		created, err := svc.CreateProduct(ctx, catalog.CreateProductInput{
			Name:          payload.Name,
			Description:   payload.Description,
			Price:         price,
			OriginalPrice: originalPrice,
			CategoryID:    categoryID,
			StockQuantity: payload.StockQuantity,
			SKU:           payload.SKU,
			Image:         payload.Image,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, created)
	}
}

// AdminProductUpdate applies a partial product mutation.
func AdminProductUpdate(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		productID, err := parseIDParam(r, "productId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload updateProductPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		input := catalog.UpdateProductInput{
			Name:          payload.Name,
			Description:   payload.Description,
			StockQuantity: payload.StockQuantity,
			Image:         payload.Image,
		}

		if payload.Price != nil {
			price, err := parsePrice(*payload.Price, "price")
			if err != nil {
				responses.WriteError(ctx, logg, w, err)
				return
			}
			input.Price = &price
		}
		if payload.OriginalPrice != nil {
			price, err := parsePrice(*payload.OriginalPrice, "original_price")
			if err != nil {
				responses.WriteError(ctx, logg, w, err)
				return
			}
			input.OriginalPrice = &price
		}
		if payload.CategoryID != nil {
			categoryID, err := parseUUIDField(*payload.CategoryID, "category_id")
			if err != nil {
				responses.WriteError(ctx, logg, w, err)
				return
			}
			input.CategoryID = &categoryID
		}
		if payload.Status != nil {
			status, err := enums.ParseProductStatus(*payload.Status)
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status"))
				return
			}
			input.Status = &status
		}

		updated, err := svc.UpdateProduct(ctx, productID, input)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, updated)
	}
}

// AdminProductDelete deactivates a product. Rows are never removed so order
// history keeps its snapshots.
func AdminProductDelete(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		productID, err := parseIDParam(r, "productId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if err := svc.DeactivateProduct(ctx, productID); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]bool{"deactivated": true})
	}
}

// AdminCategoryCreate adds a category.
func AdminCategoryCreate(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		var payload createCategoryPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		created, err := svc.CreateCategory(ctx, catalog.CreateCategoryInput{
			Name:        payload.Name,
			Slug:        payload.Slug,
			Description: payload.Description,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, created)
	}
}
