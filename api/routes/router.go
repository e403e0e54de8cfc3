package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/spoxpro/spoxpro-backend/api/controllers"
	"github.com/spoxpro/spoxpro-backend/api/middleware"
	authsvc "github.com/spoxpro/spoxpro-backend/internal/auth"
	cartsvc "github.com/spoxpro/spoxpro-backend/internal/cart"
	catalogsvc "github.com/spoxpro/spoxpro-backend/internal/catalog"
	checkoutsvc "github.com/spoxpro/spoxpro-backend/internal/checkout"
	"github.com/spoxpro/spoxpro-backend/internal/identity"
	orderssvc "github.com/spoxpro/spoxpro-backend/internal/orders"
	userssvc "github.com/spoxpro/spoxpro-backend/internal/users"
	"github.com/spoxpro/spoxpro-backend/pkg/config"
	"github.com/spoxpro/spoxpro-backend/pkg/logger"
	"github.com/spoxpro/spoxpro-backend/pkg/metrics"
	"github.com/spoxpro/spoxpro-backend/pkg/redis"
)

// RouterParams bundles everything the HTTP surface depends on.
type RouterParams struct {
	Config          *config.Config
	Logger          *logger.Logger
	DB              *gorm.DB
	Redis           *redis.Client
	Resolver        *identity.Resolver
	HTTPMetrics     *metrics.HTTPMetrics
	MetricsRegistry *prometheus.Registry

	AuthService     authsvc.Service
	CatalogService  catalogsvc.Service
	CartService     cartsvc.Service
	CheckoutService checkoutsvc.Service
	OrdersService   orderssvc.Service
	UsersService    userssvc.Service
}

// NewRouter wires every route behind the shared middleware chain.
func NewRouter(p RouterParams) http.Handler {
	cfg := p.Config
	logg := p.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(p.HTTPMetrics),
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
		r.Get("/live", controllers.HealthLive())
		r.Get("/ready", controllers.HealthReady(p.DB, p.Redis, logg))
	})

	if p.MetricsRegistry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(p.MetricsRegistry, promhttp.HandlerOpts{}))
	}

	r.Route("/api", func(r chi.Router) {
		// Every API request carries a principal; fresh visitors get a guest
		// cookie minted here so the cart works before any signup.
		r.Use(middleware.Principal(p.Resolver, logg))

		r.Route("/v1/auth", func(r chi.Router) {
			r.With(middleware.AuthRateLimit(registerPolicy, p.Redis, logg)).Post("/register", controllers.Register(p.AuthService, logg))
			r.With(middleware.AuthRateLimit(loginPolicy, p.Redis, logg)).Post("/login", controllers.Login(p.AuthService, logg))
			r.Post("/refresh", controllers.Refresh(p.AuthService, logg))
			r.With(middleware.RequireAuth(logg)).Post("/logout", controllers.Logout(p.AuthService, logg))
			r.With(middleware.RequireAuth(logg)).Get("/profile", controllers.Profile(p.AuthService, logg))
		})

		r.Route("/v1/products", func(r chi.Router) {
			r.Get("/", controllers.ListProducts(p.CatalogService, logg))
			r.Get("/taxonomies", controllers.ListTaxonomies(p.CatalogService, logg))
			r.Get("/statistics", controllers.GetStoreStatistics(p.CatalogService, logg))
			r.Get("/article/{articleNumber}", controllers.GetProductByArticleNumber(p.CatalogService, logg))
			r.Get("/{productId}", controllers.GetProduct(p.CatalogService, logg))
		})

		r.Route("/v1/cart", func(r chi.Router) {
			r.Get("/", controllers.GetCart(p.CartService, logg))
			r.Delete("/", controllers.ClearCart(p.CartService, logg))
			r.Post("/items", controllers.AddCartItem(p.CartService, logg))
			r.Patch("/items/{productId}/{size}", controllers.UpdateCartItem(p.CartService, logg))
			r.Delete("/items/{productId}/{size}", controllers.RemoveCartItem(p.CartService, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth(logg))

			r.Post("/v1/checkout", controllers.Checkout(p.CheckoutService, logg))

			r.Route("/v1/orders", func(r chi.Router) {
				r.Get("/", controllers.ListOrders(p.OrdersService, logg))
				r.Get("/{orderId}", controllers.GetOrder(p.OrdersService, logg))
				r.Post("/{orderId}/cancel", controllers.CancelOrder(p.OrdersService, logg))
			})
		})

		r.Route("/admin/v1", func(r chi.Router) {
			r.Use(middleware.RequireAdmin(logg))

			r.Route("/products", func(r chi.Router) {
				r.Post("/", controllers.AdminCreateProduct(p.CatalogService, logg))
				r.Patch("/{productId}", controllers.AdminUpdateProduct(p.CatalogService, logg))
				r.Delete("/{productId}", controllers.AdminDeleteProduct(p.CatalogService, logg))
			})
			r.Route("/users", func(r chi.Router) {
				r.Get("/", controllers.AdminListUsers(p.UsersService, logg))
				r.Get("/{userId}", controllers.AdminGetUser(p.UsersService, logg))
			})
			r.Get("/orders", controllers.AdminListOrders(p.OrdersService, logg))
			r.Patch("/orders/{orderId}/status", controllers.AdminUpdateOrderStatus(p.OrdersService, logg))
		})
	})

	return r
}
