package router

import (
	"database/sql"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/stayspot/accommodation-booking/internal/config"
	"github.com/stayspot/accommodation-booking/internal/handler"
	"github.com/stayspot/accommodation-booking/internal/middleware"
	"github.com/stayspot/accommodation-booking/internal/model"
)

// Handlers groups everything route registration needs.
type Handlers struct {
	Auth           *handler.AuthHandler
	Bookings       *handler.BookingHandler
	Payments       *handler.PaymentHandler
	Accommodations *handler.AccommodationHandler
}

// Register wires all routes onto the Echo instance.  Redis is optional;
// when nil the rate limiter and the catalog cache are skipped.
func Register(e *echo.Echo, db *sql.DB, h Handlers, jwtSecret string, rdb *redis.Client) {
	e.GET("/healthz", handler.Health(db))

	if rdb != nil {
		if rl := config.LoadRateLimitConfig(); rl.Enabled {
			e.Use(middleware.NewTokenBucket(rl, rdb))
		}
	}

	// Public catalog.  Guests browse accommodations before registering;
	// responses are cacheable because the booking core never writes here.
	pub := e.Group("/v1/accommodations")
	if rdb != nil {
		if cc := config.LoadCacheConfig(); cc.Enabled {
			pub.Use(middleware.NewRedisCache(cc, rdb))
		}
	}
	pub.GET("", h.Accommodations.List)
	pub.GET("/:id", h.Accommodations.GetByID)

	// Checkout redirect targets.  Stripe sends the customer's browser
	// back here without an Authorization header, so these stay public;
	// the handlers re-verify the session with the API before touching
	// any state.
	e.GET("/v1/payments/success", h.Payments.Success)
	e.GET("/v1/payments/cancel", h.Payments.Cancel)

	// Session endpoints under /v1/auth need no existing token.
	ag := e.Group("/v1/auth")
	ag.POST("/register", h.Auth.Register)
	ag.POST("/login", h.Auth.Login)
	ag.POST("/refresh", h.Auth.Refresh)
	ag.POST("/logout", h.Auth.Logout)

	// Everything below requires a valid access token.
	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.Use(middleware.RequireRole(model.RoleCustomer, model.RoleManager))
	auth.GET("/me", h.Auth.Me)

	auth.POST("/bookings", h.Bookings.Create)
	auth.GET("/bookings/my", h.Bookings.ListMine)
	auth.GET("/bookings/:id", h.Bookings.GetByID)
	auth.PATCH("/bookings/:id", h.Bookings.Update)

	auth.POST("/payments", h.Payments.Create)
	auth.GET("/payments", h.Payments.ListByUser)

	// Manager-only administration.
	admin := e.Group("/v1")
	admin.Use(middleware.JWTAuth(jwtSecret))
	admin.Use(middleware.RequireRole(model.RoleManager))
	admin.GET("/bookings", h.Bookings.ListByUserAndStatus)
	admin.DELETE("/bookings/:id", h.Bookings.Delete)
}
