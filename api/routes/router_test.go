package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/delispi/delispi-backend/internal/catalog"
	pkgauth "github.com/delispi/delispi-backend/pkg/auth"
	"github.com/delispi/delispi-backend/pkg/config"
	"github.com/delispi/delispi-backend/pkg/enums"
	"github.com/delispi/delispi-backend/pkg/logger"
	"github.com/delispi/delispi-backend/pkg/types"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubCatalogService struct {
	catalog.Service
}

func (stubCatalogService) ListCategories(ctx context.Context) ([]catalog.CategoryDTO, error) {
	return []catalog.CategoryDTO{}, nil
}

func (stubCatalogService) ListProducts(ctx context.Context, input catalog.ListProductsInput) (*catalog.ProductListResult, error) {
	return &catalog.ProductListResult{Products: []catalog.ProductDTO{}, Page: types.NewPage(input.Page, input.PageSize, 0)}, nil
}

func testRouterConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
		JWT: config.JWTConfig{
			Secret:            "router-test-secret-router-test-secret",
			Issuer:            "delispi-test",
			ExpirationMinutes: 15,
		},
	}
}

func newTestRouter() http.Handler {
	return NewRouter(Deps{
		Config:         testRouterConfig(),
		Logger:         logger.New(logger.Options{ServiceName: "router-test", Output: io.Discard}),
		DB:             stubPinger{},
		Redis:          stubPinger{},
		CatalogService: stubCatalogService{},
	})
}

func TestRouterHealthAndPublicRoutes(t *testing.T) {
	router := newTestRouter()

	for _, tc := range []struct {
		path string
		want int
	}{
		{"/health/live", http.StatusOK},
		{"/health/ready", http.StatusOK},
		{"/api/v1/products", http.StatusOK},
		{"/api/v1/categories", http.StatusOK},
	} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tc.path, nil))
		assert.Equal(t, tc.want, w.Code, "GET %s", tc.path)
	}
}

func TestRouterGuardsAuthenticatedRoutes(t *testing.T) {
	router := newTestRouter()

	for _, path := range []string{
		"/api/v1/cart",
		"/api/v1/orders",
		"/api/v1/addresses",
		"/api/v1/wishlist",
		"/api/v1/profile",
	} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code, "GET %s", path)
	}
}

func TestRouterAdminRoutesRequireAdminRole(t *testing.T) {
	cfg := testRouterConfig()
	router := NewRouter(Deps{
		Config:         cfg,
		Logger:         logger.New(logger.Options{ServiceName: "router-test", Output: io.Discard}),
		DB:             stubPinger{},
		Redis:          stubPinger{},
		CatalogService: stubCatalogService{},
	})

	token, err := pkgauth.MintAccessToken(cfg.JWT, time.Now(), pkgauth.AccessTokenPayload{
		UserID: uuid.New(),
		Role:   enums.UserRoleUser,
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/v1/products", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	adminToken, err := pkgauth.MintAccessToken(cfg.JWT, time.Now(), pkgauth.AccessTokenPayload{
		UserID: uuid.New(),
		Role:   enums.UserRoleAdmin,
	})
	require.NoError(t, err)

	req = httptest.NewRequest(http.MethodGet, "/api/admin/v1/products", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
