package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/foodheaven/storefront-backend/api/controllers"
	"github.com/foodheaven/storefront-backend/api/middleware"
	authsvc "github.com/foodheaven/storefront-backend/internal/auth"
	cartpkg "github.com/foodheaven/storefront-backend/internal/cart"
	checkoutsvc "github.com/foodheaven/storefront-backend/internal/checkout"
	menusvc "github.com/foodheaven/storefront-backend/internal/menu"
	orderssvc "github.com/foodheaven/storefront-backend/internal/orders"
	prefssvc "github.com/foodheaven/storefront-backend/internal/prefs"
	userssvc "github.com/foodheaven/storefront-backend/internal/users"
	wishlistsvc "github.com/foodheaven/storefront-backend/internal/wishlist"
	"github.com/foodheaven/storefront-backend/pkg/auth/session"
	"github.com/foodheaven/storefront-backend/pkg/config"
	"github.com/foodheaven/storefront-backend/pkg/db/models"
	"github.com/foodheaven/storefront-backend/pkg/logger"
	"github.com/foodheaven/storefront-backend/pkg/redis"

	"github.com/google/uuid"
)

type userFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type dependencyPinger interface {
	Ping(ctx context.Context) error
}

// Deps bundles everything the router needs wired in.
type Deps struct {
	Config   *config.Config
	Logger   *logger.Logger
	DB       dependencyPinger
	Redis    *redis.Client
	Sessions session.AccessSessionChecker
	Users    userFinder
	Gatherer prometheus.Gatherer

	AuthService     authsvc.Service
	MenuService     menusvc.Service
	CartManager     *cartpkg.Manager
	WishlistService *wishlistsvc.Service
	PrefsService    *prefssvc.Service
	UsersService    userssvc.Service
	CheckoutService checkoutsvc.Service
	OrdersService   orderssvc.Service
	OrderFeed       *orderssvc.Hub
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

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DB, deps.Redis))
	})

	if deps.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Use(middleware.Idempotency(deps.Redis, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, deps.Redis, logg)).Post("/login", controllers.AuthLogin(deps.AuthService, logg))
		r.With(middleware.AuthRateLimit(registerPolicy, deps.Redis, logg)).Post("/register", controllers.AuthRegister(deps.AuthService, logg))
		r.Post("/refresh", controllers.AuthRefresh(deps.AuthService, logg))
		r.Post("/logout", controllers.AuthLogout(deps.AuthService, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/menu", controllers.MenuList(deps.MenuService, logg))
		r.Get("/menu/items/{itemID}", controllers.MenuItemGet(deps.MenuService, logg))

		// Cart, wishlist, preferences, and checkout accept either a signed-in
		// user or an anonymous guest carrying an X-Guest-Id header.
		r.Group(func(r chi.Router) {
			r.Use(middleware.OwnerContext(cfg.JWT, deps.Sessions, logg))
			r.Use(middleware.Idempotency(deps.Redis, logg))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", controllers.CartGet(deps.CartManager, logg))
				r.Post("/items", controllers.CartAdd(deps.CartManager, logg))
				r.Delete("/items/{itemID}", controllers.CartRemove(deps.CartManager, logg))
				r.Delete("/", controllers.CartClear(deps.CartManager, logg))
			})

			r.Route("/wishlist", func(r chi.Router) {
				r.Get("/", controllers.WishlistList(deps.WishlistService, logg))
				r.Post("/toggle", controllers.WishlistToggle(deps.WishlistService, logg))
			})

			r.Route("/preferences", func(r chi.Router) {
				r.Get("/", controllers.PreferencesGet(deps.PrefsService, logg))
				r.Put("/", controllers.PreferencesUpdate(deps.PrefsService, logg))
			})

			r.Get("/checkout/quote", controllers.CheckoutQuote(deps.CheckoutService, logg))
			r.Post("/checkout", controllers.Checkout(deps.CheckoutService, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, deps.Sessions, logg))

			r.Route("/profile", func(r chi.Router) {
				r.Get("/", controllers.ProfileGet(deps.UsersService, logg))
				r.Put("/", controllers.ProfileUpdate(deps.UsersService, logg))
				r.Get("/addresses", controllers.ProfileAddresses(deps.UsersService, logg))
				r.Post("/addresses", controllers.ProfileAddAddress(deps.UsersService, logg))
				r.Get("/orders", controllers.ProfileOrders(deps.OrdersService, logg))
			})

			r.Post("/wishlist/sync", controllers.WishlistSync(deps.WishlistService, logg))
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.Sessions, logg))
		r.Use(middleware.RequireAdmin(deps.Users, logg))
		r.Use(middleware.Idempotency(deps.Redis, logg))

		r.Route("/items", func(r chi.Router) {
			r.Post("/", controllers.AdminItemCreate(deps.MenuService, logg))
			r.Patch("/{itemID}", controllers.AdminItemUpdate(deps.MenuService, logg))
			r.Delete("/{itemID}", controllers.AdminItemDelete(deps.MenuService, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.AdminOrdersList(deps.OrdersService, logg))
			r.Get("/feed", controllers.AdminOrdersFeed(deps.OrderFeed, logg))
			r.Get("/{orderID}", controllers.AdminOrderGet(deps.OrdersService, logg))
			r.Post("/{orderID}/status", controllers.AdminOrderStatus(deps.OrdersService, deps.UsersService, logg))
		})
	})

	return r
}
