package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"

	"resto-suite/internal/auth"
	"resto-suite/internal/config"
	"resto-suite/internal/database/migrations"
	"resto-suite/internal/kafka"
	"resto-suite/internal/logger"
	"resto-suite/internal/middleware"
	"resto-suite/internal/notify"
	"resto-suite/internal/order"
	order_api "resto-suite/internal/order/api"
	"resto-suite/internal/payment"
	payment_api "resto-suite/internal/payment/api"
	"resto-suite/internal/receipt/api"
	"resto-suite/internal/reservation"
	reservation_api "resto-suite/internal/reservation/api"
	"resto-suite/internal/storage"
	"resto-suite/internal/subscription"
	"resto-suite/internal/whatsapp"
	whatsapp_api "resto-suite/internal/whatsapp/api"
	rediswrap "resto-suite/internal/whatsapp/redis"
)

func verifyConnections(ctx context.Context, cfg *config.Config, logger *logger.Logger) (*bun.DB, *redis.Client) {
	var sqldb *sql.DB
	var err error
	maxRetries := 5

	for i := 0; i < maxRetries; i++ {
		logger.Info("DATABASE", fmt.Sprintf("Attempting to connect to PostgreSQL (attempt %d/%d)", i+1, maxRetries))
		sqldb, err = sql.Open("postgres", cfg.Database.DSN)
		if err != nil {
			logger.Error("DATABASE", fmt.Sprintf("Failed to open PostgreSQL: %v", err))
			time.Sleep(2 * time.Second)
			continue
		}

		err = sqldb.Ping()
		if err == nil {
			break
		}

		logger.Error("DATABASE", fmt.Sprintf("Failed to connect to PostgreSQL: %v", err))
		if i < maxRetries-1 {
			time.Sleep(2 * time.Second)
		}
	}

	if err != nil {
		logger.Fatal("DATABASE", fmt.Sprintf("Failed to connect to PostgreSQL after %d attempts: %v", maxRetries, err))
	}

	sqldb.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqldb.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqldb.SetConnMaxLifetime(cfg.Database.MaxLifetime)

	logger.Info("DATABASE", "✅ PostgreSQL connection successful")

	bunDB := bun.NewDB(sqldb, pgdialect.New())

	redisClient := redis.NewClient(&redis.Options{
		Addr: cfg.Redis.Addr,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Fatal("DATABASE", fmt.Sprintf("Redis connection error: %v", err))
	}
	logger.Info("DATABASE", fmt.Sprintf("✅ Redis connection successful to %s", cfg.Redis.Addr))

	return bunDB, redisClient
}

func runMigrations(bunDB *bun.DB, logger *logger.Logger) {
	autoMigrate := true
	if v := os.Getenv("AUTO_MIGRATE"); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			autoMigrate = parsed
		}
	}
	if !autoMigrate {
		logger.Info("DATABASE", "AUTO_MIGRATE disabled, skipping schema migrations")
		return
	}

	runner := migrations.NewRunner(bunDB, migrations.DefaultOptions())
	defer runner.Close()
	if err := runner.MigrateUp(); err != nil {
		logger.Fatal("DATABASE", fmt.Sprintf("Schema migration failed: %v", err))
	}
	logger.Info("DATABASE", "✅ Schema migrations applied")
}

func main() {
	logger := logger.NewLogger()
	defer logger.Close()

	logger.Info("APP", "Starting Resto Suite initialization")

	if err := godotenv.Load(); err != nil {
		logger.Warn("CONFIG", ".env file not found, using environment variables")
	} else {
		logger.Info("CONFIG", "Loaded environment variables from .env file")
	}

	cfg := config.Load()
	ctx := context.Background()

	logger.Info("APP", "Verifying database connections")
	bunDB, redisClient := verifyConnections(ctx, cfg, logger)
	defer bunDB.Close()
	defer redisClient.Close()

	runMigrations(bunDB, logger)

	var producer *kafka.Producer
	var publisher order.KafkaPublisher
	if cfg.Kafka.Enabled {
		producer = kafka.NewProducer(cfg.Kafka.Brokers)
		publisher = producer
		logger.Info("KAFKA", fmt.Sprintf("Kafka producer initialized for %v", cfg.Kafka.Brokers))

		requiredTopics := []string{
			cfg.Kafka.Topics.OrderCreated,
			cfg.Kafka.Topics.OrderStatusChanged,
		}
		if err := kafka.EnsureTopicsExist(cfg.Kafka.Brokers, requiredTopics); err != nil {
			logger.Warn("KAFKA", fmt.Sprintf("Topic creation might have failed: %v", err))
		} else {
			logger.Info("KAFKA", "Required topics ensured successfully")
		}
	} else {
		logger.Warn("KAFKA", "Kafka disabled, order events will not be streamed")
	}

	db := storage.NewDB(bunDB)
	validate := validator.New()
	mailer := notify.NewMailer(cfg.Email, logger)
	httpClient := &http.Client{Timeout: 30 * time.Second}

	orderService := order.NewOrderService(db, publisher, mailer, cfg.Kafka.Topics, logger)
	reservationService := reservation.NewService(db, logger)
	subscriptionService := subscription.NewService(db, logger)
	paymentService := payment.NewService(db, payment.NewRegistry(
		payment.NewStripeGateway(logger),
		&payment.PayPalGateway{},
		&payment.ApplePayGateway{},
	), logger)
	whatsappService := whatsapp.NewService(
		db,
		rediswrap.NewRedis(redisClient),
		whatsapp.NewAIClient(httpClient, cfg.AI, logger),
		subscriptionService,
		whatsapp.NewLoggingSender(logger),
		cfg.WhatsApp.DefaultVerifyToken,
		logger,
	)

	orderHandler := order_api.NewHandler(orderService, validate, logger)
	reservationHandler := reservation_api.NewHandler(reservationService, validate, logger)
	paymentHandler := payment_api.NewHandler(paymentService, validate, logger)
	whatsappHandler := whatsapp_api.NewHandler(whatsappService, logger)
	receiptHandler := api.NewHandler(orderService, logger)

	logger.Info("HTTP", "Setting up router and middleware")
	r := chi.NewRouter()

	// --- Public Routes ---
	r.Post("/api/orders", orderHandler.CreateOrder)
	r.Post("/api/reservations", reservationHandler.CreateReservation)
	r.Post("/api/payments/create-intent", paymentHandler.CreateIntent)
	r.Post("/api/payments/confirm-stripe", paymentHandler.ConfirmStripe)
	logger.Info("ROUTER", "Public order, reservation and payment endpoints registered")

	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimit("60-M"))
		r.Get("/api/whatsapp/webhook/{restaurantId}", whatsappHandler.VerifyWebhook)
		r.Post("/api/whatsapp/webhook/{restaurantId}", whatsappHandler.ReceiveWebhook)
	})
	logger.Info("ROUTER", "WhatsApp webhook registered at /api/whatsapp/webhook/{restaurantId} (rate limited)")

	// --- Protected Routes ---
	r.Group(func(r chi.Router) {
		r.Use(auth.Middleware())
		r.Use(auth.ResolveRestaurant(db, logger))
		logger.Info("AUTH", "OIDC middleware applied to protected API routes")

		r.Route("/api", func(r chi.Router) {
			r.Get("/orders", orderHandler.ListOrders)
			r.Get("/orders/{orderId}", orderHandler.GetOrder)
			r.Patch("/orders/{orderId}/status", orderHandler.UpdateOrderStatus)

			r.Get("/reservations", reservationHandler.ListReservations)
			r.Patch("/reservations/{reservationId}", reservationHandler.UpdateReservationStatus)

			r.Post("/print", receiptHandler.Print)
			r.Get("/ai/context", whatsappHandler.GetAIContext)
		})
		logger.Info("ROUTER", "Dashboard routes registered under /api")
	})

	server := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logger.Info("HTTP", fmt.Sprintf("🚀 Resto Suite running on %s", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP", fmt.Sprintf("HTTP server error: %v", err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	logger.Info("APP", "Service started successfully, waiting for shutdown signal")
	<-stop

	logger.Info("APP", "Shutdown signal received, initiating graceful shutdown")
	ctxShutdown, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctxShutdown); err != nil {
		logger.Error("HTTP", fmt.Sprintf("Server Shutdown Failed: %v", err))
	} else {
		logger.Info("HTTP", "✅ Resto Suite shutdown complete")
	}

	if producer != nil {
		if err := producer.Close(); err != nil {
			logger.Error("KAFKA", fmt.Sprintf("Failed to close Kafka producer: %v", err))
		}
	}
}
