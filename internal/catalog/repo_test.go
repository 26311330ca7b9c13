package catalog

import (
	"context"
	"testing"

	"github.com/delispi/delispi-backend/pkg/db/models"
	"github.com/delispi/delispi-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupCatalogTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	categories := `
CREATE TABLE IF NOT EXISTS categories (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL UNIQUE,
  slug TEXT NOT NULL UNIQUE,
  description TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`
	products := `
CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  description TEXT NOT NULL,
  price NUMERIC NOT NULL,
  original_price NUMERIC,
  category_id TEXT NOT NULL,
  stock_quantity INTEGER NOT NULL DEFAULT 0,
  sku TEXT NOT NULL UNIQUE,
  image TEXT,
  status TEXT NOT NULL DEFAULT 'active',
  created_at DATETIME,
  updated_at DATETIME
);`
	for _, ddl := range []string{categories, products} {
		require.NoError(t, db.Exec(ddl).Error)
	}
	return db
}

func seedCategory(t *testing.T, db *gorm.DB, name, slug string) *models.Category {
	t.Helper()
	category := &models.Category{ID: uuid.New(), Name: name, Slug: slug}
	require.NoError(t, db.Create(category).Error)
	return category
}

func seedProduct(t *testing.T, db *gorm.DB, categoryID uuid.UUID, name, sku string, price string, status enums.ProductStatus) *models.Product {
	t.Helper()
	product := &models.Product{
		ID:            uuid.New(),
		Name:          name,
		Description:   name + " description",
		Price:         decimal.RequireFromString(price),
		CategoryID:    categoryID,
		StockQuantity: 10,
		SKU:           sku,
		Status:        status,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

func TestRepositoryProductLifecycle(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	category := seedCategory(t, db, "Whole Spices", "whole-spices")

	product := &models.Product{
		ID:            uuid.New(),
		Name:          "Green Cardamom",
		Description:   "Whole pods",
		Price:         decimal.RequireFromString("12.50"),
		CategoryID:    category.ID,
		StockQuantity: 40,
		SKU:           "SPICE-CARD-001",
		Status:        enums.ProductStatusActive,
	}

	created, err := repo.CreateProduct(ctx, product)
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, created.ID)

	created.StockQuantity = 35
	_, err = repo.UpdateProduct(ctx, created)
	require.NoError(t, err)

	fetched, err := repo.FindProductByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 35, fetched.StockQuantity)
	assert.True(t, fetched.Price.Equal(decimal.RequireFromString("12.50")))

	require.NoError(t, repo.SetProductStatus(ctx, created.ID, enums.ProductStatusInactive))

	fetched, err = repo.FindProductByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.ProductStatusInactive, fetched.Status)
}

func TestRepositorySetProductStatusMissing(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)

	err := repo.SetProductStatus(context.Background(), uuid.New(), enums.ProductStatusInactive)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryListProductsFilters(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	spices := seedCategory(t, db, "Ground Spices", "ground-spices")
	blends := seedCategory(t, db, "Blends", "blends")

	seedProduct(t, db, spices.ID, "Turmeric Powder", "SKU-1", "4.99", enums.ProductStatusActive)
	seedProduct(t, db, spices.ID, "Smoked Paprika", "SKU-2", "5.49", enums.ProductStatusInactive)
	seedProduct(t, db, blends.ID, "Garam Masala", "SKU-3", "6.99", enums.ProductStatusActive)

	active := enums.ProductStatusActive
	list, total, err := repo.ListProducts(ctx, ProductListFilters{Status: &active}, 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, list, 2)

	list, total, err = repo.ListProducts(ctx, ProductListFilters{Status: &active, CategoryID: &spices.ID}, 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, list, 1)
	assert.Equal(t, "Turmeric Powder", list[0].Name)

	list, total, err = repo.ListProducts(ctx, ProductListFilters{Query: "masala"}, 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, list, 1)
	assert.Equal(t, "Garam Masala", list[0].Name)
}

func TestRepositoryFindProductsByIDs(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	category := seedCategory(t, db, "Seeds", "seeds")
	first := seedProduct(t, db, category.ID, "Cumin Seeds", "SKU-10", "3.25", enums.ProductStatusActive)
	second := seedProduct(t, db, category.ID, "Fennel Seeds", "SKU-11", "2.75", enums.ProductStatusActive)

	found, err := repo.FindProductsByIDs(ctx, []uuid.UUID{first.ID, second.ID, uuid.New()})
	require.NoError(t, err)
	assert.Len(t, found, 2)

	found, err = repo.FindProductsByIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestRepositoryCategories(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	_, err := repo.CreateCategory(ctx, &models.Category{ID: uuid.New(), Name: "Chillies", Slug: "chillies"})
	require.NoError(t, err)
	_, err = repo.CreateCategory(ctx, &models.Category{ID: uuid.New(), Name: "Aromatics", Slug: "aromatics"})
	require.NoError(t, err)

	bydSlug, err := repo.FindCategoryBySlug(ctx, "chillies")
	require.NoError(t, err)
	assert.Equal(t, "Chillies", bydSlug.Name)

	list, err := repo.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Aromatics", list[0].Name)

	_, err = repo.FindCategoryBySlug(ctx, "missing")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
