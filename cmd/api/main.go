package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"

	"github.com/delispi/delispi-backend/api/routes"
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
	"github.com/delispi/delispi-backend/pkg/db"
	"github.com/delispi/delispi-backend/pkg/logger"
	"github.com/delispi/delispi-backend/pkg/metrics"
	"github.com/delispi/delispi-backend/pkg/migrate"
	"github.com/delispi/delispi-backend/pkg/redis"
)

const shutdownGrace = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	checkoutMetrics := metrics.NewCheckoutMetrics(registry)

	catalogRepo := catalog.NewRepository(dbClient.DB())
	addressRepo := address.NewRepository(dbClient.DB())
	ordersRepo := orders.NewRepository(dbClient.DB())
	usersRepo := users.NewRepository(dbClient.DB())
	wishlistRepo := wishlist.NewRepository(dbClient.DB())

	cartStore, err := cart.NewRedisStore(redisClient, cfg.Cart.SessionTTL)
	requireService(logg, "cart store", err)

	assembler, err := cart.NewAssembler(catalogRepo)
	requireService(logg, "cart assembler", err)

	catalogService, err := catalog.NewService(catalogRepo)
	requireService(logg, "catalog service", err)

	cartService, err := cart.NewService(cartStore, catalogRepo, assembler)
	requireService(logg, "cart service", err)

	addressService, err := address.NewService(addressRepo, dbClient)
	requireService(logg, "address service", err)

	ordersService, err := orders.NewService(ordersRepo)
	requireService(logg, "orders service", err)

	checkoutService, err := checkoutsvc.NewService(cartStore, assembler, addressRepo, ordersRepo, dbClient, logg, checkoutMetrics)
	requireService(logg, "checkout service", err)

	usersService, err := users.NewService(usersRepo, cfg.Password)
	requireService(logg, "users service", err)

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       usersRepo,
		CartStore:      cartStore,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
	})
	requireService(logg, "auth service", err)

	wishlistService, err := wishlist.NewService(wishlistRepo, catalogRepo)
	requireService(logg, "wishlist service", err)

	adminService, err := admin.NewService(dbClient.DB())
	requireService(logg, "admin service", err)

	router := routes.NewRouter(routes.Deps{
		Config:   cfg,
		Logger:   logg,
		DB:       dbClient,
		Redis:    redisClient,
		Registry: registry,

		AuthService:     authService,
		CatalogService:  catalogService,
		CartService:     cartService,
		CheckoutService: checkoutService,
		OrdersService:   ordersService,
		AddressService:  addressService,
		UsersService:    usersService,
		WishlistService: wishlistService,
		AdminService:    adminService,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-runCtx.Done():
		logg.Info(ctx, "shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()

		var closeErr error
		closeErr = multierr.Append(closeErr, server.Shutdown(shutdownCtx))
		closeErr = multierr.Append(closeErr, redisClient.Close())
		closeErr = multierr.Append(closeErr, dbClient.Close())
		if closeErr != nil {
			logg.Error(ctx, "shutdown finished with errors", closeErr)
			os.Exit(1)
		}
		logg.Info(ctx, "shutdown complete")
	}
}

func requireService(logg *logger.Logger, name string, err error) {
	if err == nil {
		return
	}
	ctx := logg.WithField(context.Background(), "component", name)
	logg.Error(ctx, "failed to build component", err)
	os.Exit(1)
}
