package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/stayspot/accommodation-booking/internal/config"
	"github.com/stayspot/accommodation-booking/internal/database"
	"github.com/stayspot/accommodation-booking/internal/handler"
	"github.com/stayspot/accommodation-booking/internal/payment"
	"github.com/stayspot/accommodation-booking/internal/queue"
	"github.com/stayspot/accommodation-booking/internal/repository"
	"github.com/stayspot/accommodation-booking/internal/router"
	"github.com/stayspot/accommodation-booking/internal/service"
)

func main() {
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	rdb := config.NewRedisClient() // nil when unreachable; middleware is skipped

	bookingRepo := repository.NewBookingRepo(db)
	paymentRepo := repository.NewPaymentRepo(db)
	accommodationRepo := repository.NewAccommodationRepo(db)
	userRepo := repository.NewUserRepo(db)
	tokenRepo := repository.NewTokenRepo(db)

	var notifier service.Notifier
	if cfg.RabbitURL != "" {
		notifier = queue.NewPublisher(cfg.RabbitURL)
		go func() {
			if err := queue.StartNotificationConsumer(cfg.RabbitURL); err != nil {
				log.Printf("notification consumer stopped: %v", err)
			}
		}()
	}

	var gateway service.PaymentGateway
	if cfg.StripeKey != "" {
		gateway = payment.NewStripeGateway(cfg.StripeKey, cfg.BaseURL, cfg.GatewayTimeout)
	} else {
		log.Println("STRIPE_SECRET_KEY not set, payments disabled")
	}

	bookingSvc := service.NewBookingService(bookingRepo, paymentRepo, accommodationRepo, userRepo, notifier)
	paymentSvc := service.NewPaymentService(paymentRepo, bookingRepo, bookingSvc, accommodationRepo, gateway, notifier)
	sweeper := service.NewExpirationSweeper(bookingRepo, userRepo, bookingSvc, notifier)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Startup pass catches bookings that lapsed while the process was
	// down, then the sweeper keeps running on a daily tick.
	go sweeper.Run(ctx)

	e := echo.New()
	e.HideBanner = true
	router.Register(e, db, router.Handlers{
		Auth:           handler.NewAuthHandler(cfg, userRepo, tokenRepo),
		Bookings:       handler.NewBookingHandler(bookingSvc),
		Payments:       handler.NewPaymentHandler(paymentSvc, userRepo),
		Accommodations: handler.NewAccommodationHandler(accommodationRepo),
	}, cfg.JWTSecret, rdb)

	go func() {
		addr := ":" + cfg.Port
		log.Printf("listening on %s (env=%s)", addr, cfg.Env)
		if err := e.Start(addr); err != nil {
			log.Printf("server stopped: %v", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
