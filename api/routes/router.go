package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/delispi/delispi-backend/api/controllers"
	"github.com/delispi/delispi-backend/api/middleware"
	"github.com/delispi/delispi-backend/internal/address"
	"github.com/delispi/delispi-backend/internal/admin"
	"github.com/delispi/delispi-backend/internal/auth"
	"github.com/delispi/delispi-backend/internal/cart"
	"github.com/delispi/delispi-backend/internal/catalog"
	checkoutsvc "github.com/delispi/delispi-backend/internal/checkout"
	"github.com/delispi/delispi-backend/internal/orders"
	"github.com/delispi/delispi-backend/internal/users"
	"github.com/delispi/delispi-backend/internal/wishlist"
	"github.com/delispi/delispi-backend/pkg/config"
	"github.com/delispi/delispi-backend/pkg/enums"
	"github.com/delispi/delispi-backend/pkg/logger"
)

type pinger interface {
	Ping(ctx context.Context) error
}

// Deps bundles everything the HTTP surface needs.
type Deps struct {
	Config   *config.Config
	Logger   *logger.Logger
	DB       pinger
	Redis    pinger
	Registry *prometheus.Registry

	AuthService     auth.Service
	CatalogService  catalog.Service
	CartService     cart.Service
	CheckoutService checkoutsvc.Service
	OrdersService   orders.Service
	AddressService  address.Service
	UsersService    users.Service
	WishlistService wishlist.Service
	AdminService    admin.Service
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DB, deps.Redis))
	})

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", controllers.AuthRegister(deps.AuthService, logg))
			r.Post("/login", controllers.AuthLogin(deps.AuthService, logg))
			r.With(middleware.Auth(cfg.JWT, logg)).Post("/logout", controllers.AuthLogout(deps.AuthService, logg))
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ProductList(deps.CatalogService, logg))
			r.Get("/{productId}", controllers.ProductDetail(deps.CatalogService, logg))
		})
		r.Get("/categories", controllers.CategoryList(deps.CatalogService, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", controllers.CartFetch(deps.CartService, logg))
				r.Post("/items", controllers.CartAddItem(deps.CartService, logg))
				r.Put("/items/{productId}", controllers.CartUpdateItem(deps.CartService, logg))
				r.Delete("/items/{productId}", controllers.CartRemoveItem(deps.CartService, logg))
				r.Delete("/", controllers.CartClear(deps.CartService, logg))
			})

			r.Post("/checkout", controllers.Checkout(deps.CheckoutService, logg))

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", controllers.OrderList(deps.OrdersService, logg))
				r.Get("/{orderId}", controllers.OrderDetail(deps.OrdersService, logg))
			})

			r.Route("/addresses", func(r chi.Router) {
				r.Get("/", controllers.AddressList(deps.AddressService, logg))
				r.Post("/", controllers.AddressCreate(deps.AddressService, logg))
				r.Put("/{addressId}", controllers.AddressUpdate(deps.AddressService, logg))
				r.Delete("/{addressId}", controllers.AddressDelete(deps.AddressService, logg))
				r.Post("/{addressId}/default", controllers.AddressSetDefault(deps.AddressService, logg))
			})

			r.Route("/wishlist", func(r chi.Router) {
				r.Get("/", controllers.WishlistList(deps.WishlistService, logg))
				r.Post("/items", controllers.WishlistAddItem(deps.WishlistService, logg))
				r.Delete("/items/{productId}", controllers.WishlistRemoveItem(deps.WishlistService, logg))
			})

			r.Route("/profile", func(r chi.Router) {
				r.Get("/", controllers.ProfileGet(deps.UsersService, logg))
				r.Put("/", controllers.ProfileUpdate(deps.UsersService, logg))
				r.Post("/password", controllers.ProfileChangePassword(deps.UsersService, logg))
			})
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.RequireRole(string(enums.UserRoleAdmin), logg))

		r.Get("/dashboard", controllers.AdminDashboard(deps.AdminService, logg))

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.AdminProductList(deps.CatalogService, logg))
			r.Post("/", controllers.AdminProductCreate(deps.CatalogService, logg))
			r.Patch("/{productId}", controllers.AdminProductUpdate(deps.CatalogService, logg))
			r.Delete("/{productId}", controllers.AdminProductDelete(deps.CatalogService, logg))
		})

		r.Post("/categories", controllers.AdminCategoryCreate(deps.CatalogService, logg))

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.AdminOrderList(deps.OrdersService, logg))
			r.Patch("/{orderId}/status", controllers.AdminOrderUpdateStatus(deps.OrdersService, logg))
			r.Patch("/{orderId}/payment-status", controllers.AdminOrderUpdatePaymentStatus(deps.OrdersService, logg))
		})
	})

	return r
}
