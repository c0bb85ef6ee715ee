package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/multierr"

	"github.com/foodheaven/storefront-backend/api/routes"
	"github.com/foodheaven/storefront-backend/internal/auth"
	"github.com/foodheaven/storefront-backend/internal/cart"
	"github.com/foodheaven/storefront-backend/internal/checkout"
	"github.com/foodheaven/storefront-backend/internal/menu"
	"github.com/foodheaven/storefront-backend/internal/orders"
	"github.com/foodheaven/storefront-backend/internal/prefs"
	"github.com/foodheaven/storefront-backend/internal/users"
	"github.com/foodheaven/storefront-backend/internal/wishlist"
	"github.com/foodheaven/storefront-backend/pkg/auth/session"
	"github.com/foodheaven/storefront-backend/pkg/config"
	"github.com/foodheaven/storefront-backend/pkg/db"
	"github.com/foodheaven/storefront-backend/pkg/logger"
	"github.com/foodheaven/storefront-backend/pkg/metrics"
	"github.com/foodheaven/storefront-backend/pkg/migrate"
	"github.com/foodheaven/storefront-backend/pkg/outbox"
	"github.com/foodheaven/storefront-backend/pkg/pubsub"
	"github.com/foodheaven/storefront-backend/pkg/redis"
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

	var closers []func() error
	defer func() {
		var errs []error
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i](); err != nil {
				errs = append(errs, err)
			}
		}
		if combined := multierr.Combine(errs...); combined != nil {
			logg.Error(context.Background(), "error closing dependencies", combined)
		}
	}()

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	closers = append(closers, dbClient.Close)

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	closers = append(closers, redisClient.Close)

	pubsubClient, err := pubsub.NewClient(context.Background(), cfg.GCP, cfg.PubSub, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap pubsub", err)
		os.Exit(1)
	}
	closers = append(closers, pubsubClient.Close)

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	promRegistry := prometheus.NewRegistry()

	usersRepo := users.NewRepository(dbClient.DB())
	ordersRepo := orders.NewRepository(dbClient.DB())
	outboxService := outbox.NewService(outbox.NewRepository(dbClient.DB()), logg)

	menuService, err := menu.NewService(menu.ServiceParams{
		Repo:   menu.NewRepository(dbClient.DB()),
		Cache:  menu.NewCache(),
		Logger: logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create menu service", err)
		os.Exit(1)
	}

	cartManager, err := cart.NewManager(cart.ManagerParams{
		Slots:  redisClient,
		Menu:   menuService,
		Logger: logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create cart manager", err)
		os.Exit(1)
	}

	wishlistService, err := wishlist.NewService(wishlist.ServiceParams{
		Slots:   redisClient,
		Profile: usersRepo,
		Metrics: metrics.NewWishlistSyncMetrics(promRegistry),
		Logger:  logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create wishlist service", err)
		os.Exit(1)
	}

	prefsService, err := prefs.NewService(prefs.ServiceParams{
		Slots:  redisClient,
		Logger: logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create preferences service", err)
		os.Exit(1)
	}

	usersService, err := users.NewService(usersRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create users service", err)
		os.Exit(1)
	}

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       usersRepo,
		SessionManager: sessionManager,
		Wishlist:       wishlistService,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
		Logger:         logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	ordersService, err := orders.NewService(orders.ServiceParams{
		Repo:   ordersRepo,
		Tx:     dbClient,
		Outbox: outboxService,
		Logger: logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	checkoutService, err := checkout.NewService(checkout.ServiceParams{
		Carts:  cartManager,
		Orders: ordersRepo,
		Tx:     dbClient,
		Outbox: outboxService,
		Config: cfg.Checkout,
		Logger: logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}

	feedHub := orders.NewHub(metrics.NewOrderFeedMetrics(promRegistry))
	feedConsumer, err := orders.NewConsumer(pubsubClient.OrdersSubscription(), feedHub, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create order feed consumer", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		if err := feedConsumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logg.Error(ctx, "order feed consumer stopped unexpectedly", err)
		}
	}()

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx = logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:          cfg,
			Logger:          logg,
			DB:              dbClient,
			Redis:           redisClient,
			Sessions:        sessionManager,
			Users:           usersRepo,
			Gatherer:        promRegistry,
			AuthService:     authService,
			MenuService:     menuService,
			CartManager:     cartManager,
			WishlistService: wishlistService,
			PrefsService:    prefsService,
			UsersService:    usersService,
			CheckoutService: checkoutService,
			OrdersService:   ordersService,
			OrderFeed:       feedHub,
		}),
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		logg.Info(ctx, "shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
		}
	}

	logg.Info(ctx, "api server shut down")
}
