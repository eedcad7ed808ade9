// Package router wires handlers and middleware onto the Echo instance.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/seongmin-k/festival-discovery/internal/config"
	"github.com/seongmin-k/festival-discovery/internal/handler"
	"github.com/seongmin-k/festival-discovery/internal/middleware"
)

// Handlers bundles every handler the router registers.
type Handlers struct {
	Festivals    *handler.FestivalHandler
	Products     *handler.ProductHandler
	Reservations *handler.ReservationHandler
	Reviews      *handler.ReviewHandler
	Wishlists    *handler.WishlistHandler
	Users        *handler.UserHandler
}

// Register wires every route.  The API splits into three surfaces:
// public browse endpoints, authenticated user endpoints, and admin
// endpoints gated on the JWT admin flag.  The read-heavy public catalog
// endpoints sit behind the Redis response cache.
func Register(e *echo.Echo, h Handlers, cfg config.Config, rdb *redis.Client) {
	e.GET("/healthz", handler.Health)

	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	// Public browse surface.  No authentication required.
	pub := e.Group("/v1")
	pub.GET("/festivals", h.Festivals.List, cache)
	pub.GET("/festivals/upcoming", h.Festivals.Upcoming, cache)
	pub.GET("/festivals/:id", h.Festivals.Get)
	pub.GET("/festivals/:id/products", h.Products.ListByFestival)
	pub.GET("/festivals/:id/reviews", h.Reviews.ListByFestival)
	pub.GET("/products", h.Products.List, cache)
	pub.GET("/products/:id", h.Products.Get)

	// Account endpoints.
	pub.POST("/auth/signup", h.Users.Signup)
	pub.POST("/auth/login", h.Users.Login)

	// Authenticated user surface.
	auth := e.Group("/v1", middleware.JWTAuth(cfg.JWTSecret))
	auth.GET("/users/me", h.Users.Me)
	auth.PUT("/users/me", h.Users.UpdateMe)
	auth.GET("/festivals/recommended", h.Festivals.Recommend)
	auth.GET("/festivals/:id/reviews/eligibility", h.Reviews.Eligibility)

	auth.POST("/reservations", h.Reservations.Create)
	auth.GET("/reservations/me", h.Reservations.ListMine)
	auth.GET("/reservations/me/count", h.Reservations.CountMine)
	auth.PATCH("/reservations/:id/cancel", h.Reservations.Cancel)

	auth.POST("/reviews", h.Reviews.Create)
	auth.GET("/reviews/me", h.Reviews.ListMine)
	auth.PUT("/reviews/:id", h.Reviews.Update)
	auth.DELETE("/reviews/:id", h.Reviews.Delete)

	auth.POST("/wishlists/toggle", h.Wishlists.Toggle)
	auth.GET("/wishlists/me", h.Wishlists.ListMine)
	auth.DELETE("/wishlists/:festivalId", h.Wishlists.Remove)

	// Admin surface.
	admin := e.Group("/v1/admin", middleware.JWTAuth(cfg.JWTSecret), middleware.RequireAdmin())
	admin.POST("/festivals", h.Festivals.Create)
	admin.PUT("/festivals/:id", h.Festivals.Update)
	admin.DELETE("/festivals/:id", h.Festivals.Delete)

	admin.POST("/products", h.Products.Create)
	admin.PUT("/products/:id", h.Products.Update)
	admin.DELETE("/products/:id", h.Products.Delete)

	admin.GET("/reservations", h.Reservations.ListAll)
	admin.PATCH("/reservations/:id/attended", h.Reservations.MarkAttended)
	admin.DELETE("/reservations/:id", h.Reservations.Delete)

	admin.GET("/reviews", h.Reviews.ListAll)
	admin.DELETE("/reviews/:id", h.Reviews.AdminDelete)

	admin.GET("/users", h.Users.ListAll)
}
