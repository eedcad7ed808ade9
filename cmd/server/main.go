package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/seongmin-k/festival-discovery/internal/config"
	"github.com/seongmin-k/festival-discovery/internal/database"
	"github.com/seongmin-k/festival-discovery/internal/handler"
	"github.com/seongmin-k/festival-discovery/internal/middleware"
	"github.com/seongmin-k/festival-discovery/internal/queue"
	"github.com/seongmin-k/festival-discovery/internal/repository"
	"github.com/seongmin-k/festival-discovery/internal/router"
	"github.com/seongmin-k/festival-discovery/internal/service"
	"github.com/seongmin-k/festival-discovery/internal/utils"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	festivalRepo := repository.NewFestivalRepo(db)
	productRepo := repository.NewProductRepo(db)
	reservationRepo := repository.NewReservationRepo(db)
	reviewRepo := repository.NewReviewRepo(db)
	wishlistRepo := repository.NewWishlistRepo(db)
	userRepo := repository.NewUserRepo(db)
	txRunner := database.NewTxRunner(db)

	publisher := queue.NewPublisherFromEnv()
	verifier := utils.NewCredentialVerifier(cfg.PasswordScheme, cfg.BcryptCost)

	festivalSvc := service.NewFestivalService(festivalRepo, userRepo, productRepo, reservationRepo, reviewRepo, wishlistRepo, txRunner)
	reservationSvc := service.NewReservationService(reservationRepo, userRepo, festivalRepo, productRepo, publisher)
	reviewSvc := service.NewReviewService(reviewRepo, reservationRepo, txRunner)
	wishlistSvc := service.NewWishlistService(wishlistRepo, userRepo, festivalRepo, txRunner)
	userSvc := service.NewUserService(userRepo, verifier)

	h := router.Handlers{
		Festivals:    handler.NewFestivalHandler(festivalSvc),
		Products:     handler.NewProductHandler(productRepo, festivalRepo),
		Reservations: handler.NewReservationHandler(reservationSvc),
		Reviews:      handler.NewReviewHandler(reviewSvc),
		Wishlists:    handler.NewWishlistHandler(wishlistSvc),
		Users:        handler.NewUserHandler(cfg, userSvc),
	}

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; response cache and rate limiting disabled")
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.Logger())
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	router.Register(e, h, cfg, rdb)

	// Drains reservation.created events into the local audit log.
	go func() {
		if err := queue.StartReservationConsumer(); err != nil {
			log.Printf("reservation consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
