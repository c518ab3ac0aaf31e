package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/harborview-hospitality/service-reservation/internal/application"
	"github.com/harborview-hospitality/service-reservation/internal/config"
	"github.com/harborview-hospitality/service-reservation/internal/domain/identity"
	"github.com/harborview-hospitality/service-reservation/internal/domain/payment"
	"github.com/harborview-hospitality/service-reservation/internal/events"
	"github.com/harborview-hospitality/service-reservation/internal/handler"
	"github.com/harborview-hospitality/service-reservation/internal/platform/auth"
	"github.com/harborview-hospitality/service-reservation/internal/platform/database"
	"github.com/harborview-hospitality/service-reservation/internal/platform/health"
	"github.com/harborview-hospitality/service-reservation/internal/platform/logger"
	"github.com/harborview-hospitality/service-reservation/internal/platform/middleware"
	"github.com/harborview-hospitality/service-reservation/internal/repository"
	"github.com/harborview-hospitality/service-reservation/internal/seed"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.NewNamed(cfg.AppEnv, "service-reservation")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting service-reservation",
		zap.String("port", cfg.Port),
	)

	// Connect to database
	db, err := database.Connect(cfg.DB, log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}

	// Run database migrations
	if cfg.AppEnv == "development" {
		if err := db.AutoMigrate(
			&repository.RoomModel{},
			&repository.GuestModel{},
			&repository.BookingModel{},
			&repository.PaymentModel{},
			&repository.MessageModel{},
			&repository.UserModel{},
		); err != nil {
			log.Fatal("failed to run auto-migration", zap.Error(err))
		}
		log.Info("database migration completed (dev auto-migrate)")
	}

	// Initialize JWT manager
	jwtManager := auth.NewJWTManager(cfg.JWT.Secret, cfg.JWT.TokenTTL)

	// Initialize Kafka producer
	producer := events.NewProducer(cfg.Kafka.Brokers, log)
	defer func() { _ = producer.Close() }()

	// Initialize repositories
	roomRepo := repository.NewGormRoomRepository(db)
	guestRepo := repository.NewGormGuestRepository(db)
	bookingRepo := repository.NewGormBookingRepository(db)
	paymentRepo := repository.NewGormPaymentRepository(db)
	messageRepo := repository.NewGormMessageRepository(db)
	userRepo := repository.NewGormUserRepository(db)

	// Seed the sample inventory and admin account in development
	if cfg.SeedData {
		if err := seed.Rooms(context.Background(), roomRepo, log); err != nil {
			log.Fatal("failed to seed room inventory", zap.Error(err))
		}
		if err := seed.Admin(context.Background(), userRepo, cfg.Seed.AdminUsername, cfg.Seed.AdminPassword, log); err != nil {
			log.Fatal("failed to seed admin account", zap.Error(err))
		}
	}

	// Initialize clock and reference generator
	clock := identity.SystemClock{}
	gen := identity.NewReferenceGenerator(clock)

	// Initialize application services
	bookingService := application.NewBookingService(bookingRepo, roomRepo, guestRepo, repository.NewGormTransactor(db), producer, clock, gen, log)
	roomService := application.NewRoomService(roomRepo, bookingRepo, log)
	guestService := application.NewGuestService(guestRepo, log)
	paymentService := application.NewPaymentService(
		paymentRepo,
		bookingRepo,
		&payment.SimulatedProcessor{Delay: 500 * time.Millisecond},
		producer,
		clock,
		gen,
		log,
	)
	messageService := application.NewMessageService(messageRepo, clock, log)
	authService := application.NewAuthService(userRepo, jwtManager, log)

	// Initialize HTTP handlers
	authHandler := handler.NewAuthHandler(authService)
	bookingHandler := handler.NewBookingHandler(bookingService)
	roomHandler := handler.NewRoomHandler(roomService)
	guestHandler := handler.NewGuestHandler(guestService)
	paymentHandler := handler.NewPaymentHandler(paymentService)
	messageHandler := handler.NewMessageHandler(messageService)

	// Setup Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	// Apply global middleware
	router.Use(middleware.Recovery(log))
	router.Use(middleware.Logger(log))
	router.Use(middleware.RequestID())
	router.Use(middleware.CORS())
	router.Use(middleware.SecurityHeaders())

	// Register health check routes
	healthHandler := health.NewHandler(db, "service-reservation")
	healthHandler.RegisterRoutes(router)

	// Register routes
	authHandler.RegisterRoutes(&router.RouterGroup)
	bookingHandler.RegisterRoutes(&router.RouterGroup, jwtManager)
	roomHandler.RegisterRoutes(&router.RouterGroup, jwtManager)
	guestHandler.RegisterRoutes(&router.RouterGroup, jwtManager)
	paymentHandler.RegisterRoutes(&router.RouterGroup, jwtManager)
	messageHandler.RegisterRoutes(&router.RouterGroup, jwtManager)

	// Create HTTP server
	srv := &http.Server{
		Addr:         cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info("HTTP server starting", zap.String("addr", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down service-reservation...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server forced shutdown", zap.Error(err))
	}

	log.Info("service-reservation stopped")
}
