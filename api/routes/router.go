package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mesafood/mesafood-backend/api/controllers"
	"github.com/mesafood/mesafood-backend/api/middleware"
	mealsvc "github.com/mesafood/mesafood-backend/internal/meals"
	ordersvc "github.com/mesafood/mesafood-backend/internal/orders"
	restaurantsvc "github.com/mesafood/mesafood-backend/internal/restaurants"
	usersvc "github.com/mesafood/mesafood-backend/internal/users"
	"github.com/mesafood/mesafood-backend/pkg/config"
	"github.com/mesafood/mesafood-backend/pkg/enums"
	"github.com/mesafood/mesafood-backend/pkg/logger"
	"github.com/mesafood/mesafood-backend/pkg/metrics"
	"github.com/mesafood/mesafood-backend/pkg/redis"
)

// Services bundles the domain services the router exposes.
type Services struct {
	Users       usersvc.Service
	Restaurants restaurantsvc.Service
	Meals       mealsvc.Service
	Orders      ordersvc.Service
}

// NewRouter assembles the public HTTP surface: /api/v1 resources, health
// probes and the prometheus endpoint.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	redisClient *redis.Client,
	deps controllers.Dependencies,
	httpMetrics *metrics.HTTPMetrics,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	signupPolicy := middleware.NewAuthRateLimitPolicy(
		"signup",
		cfg.AuthRateLimit.SignupWindow,
		cfg.AuthRateLimit.SignupIPLimit,
		cfg.AuthRateLimit.SignupEmailLimit,
	)

	authn := middleware.Auth(cfg.JWT, logg)
	admin := middleware.RequireRole(string(enums.UserRoleAdmin), logg)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, deps))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	r.Get("/api/public/ping", controllers.PublicPing())

	r.Route("/api/v1/users", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(signupPolicy, redisClient, logg)).
			Post("/signup", controllers.Signup(svcs.Users, cfg.Media, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).
			Post("/login", controllers.Login(svcs.Users, logg))

		r.Group(func(r chi.Router) {
			r.Use(authn)
			r.Get("/ping", controllers.PrivatePing())
			r.Get("/orders", controllers.ListMyOrders(svcs.Orders, logg))
			r.Get("/orders/{id}", controllers.GetOrder(svcs.Orders, logg))
			r.Patch("/{id}", controllers.UpdateUser(svcs.Users, cfg.Media, logg))
			r.Delete("/{id}", controllers.DeleteUser(svcs.Users, logg))
		})
	})

	r.Route("/api/v1/restaurants", func(r chi.Router) {
		r.Get("/", controllers.ListRestaurants(svcs.Restaurants, logg))
		r.Get("/{id}", controllers.GetRestaurant(svcs.Restaurants, logg))

		r.Group(func(r chi.Router) {
			r.Use(authn)
			r.Post("/reviews/{id}", controllers.CreateReview(svcs.Restaurants, logg))
			r.Patch("/reviews/{restaurantId}/{id}", controllers.UpdateReview(svcs.Restaurants, logg))
			r.Delete("/reviews/{restaurantId}/{id}", controllers.DeleteReview(svcs.Restaurants, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(authn, admin)
			r.Post("/", controllers.CreateRestaurant(svcs.Restaurants, cfg.Media, logg))
			r.Patch("/{id}", controllers.UpdateRestaurant(svcs.Restaurants, cfg.Media, logg))
			r.Delete("/{id}", controllers.DeleteRestaurant(svcs.Restaurants, logg))
		})
	})

	r.Route("/api/v1/meals", func(r chi.Router) {
		r.Get("/", controllers.ListMeals(svcs.Meals, logg))
		r.Get("/{id}", controllers.GetMeal(svcs.Meals, logg))

		r.Group(func(r chi.Router) {
			r.Use(authn, admin)
			// POST creates the meal under the restaurant named by {id}.
			r.Post("/{id}", controllers.CreateMeal(svcs.Meals, cfg.Media, logg))
			r.Patch("/{id}", controllers.UpdateMeal(svcs.Meals, logg))
			r.Delete("/{id}", controllers.DeleteMeal(svcs.Meals, logg))
		})
	})

	r.Route("/api/v1/orders", func(r chi.Router) {
		r.Use(authn)
		r.Post("/", controllers.CreateOrder(svcs.Orders, logg))
		r.Get("/me", controllers.ListMyOrders(svcs.Orders, logg))
		r.Patch("/{id}", controllers.CompleteOrder(svcs.Orders, logg))
		r.Delete("/{id}", controllers.CancelOrder(svcs.Orders, logg))
	})

	return r
}
