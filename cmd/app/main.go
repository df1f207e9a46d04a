package main

import (
	"database/sql"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"
	"github.com/wichananm65/storefront-backend/internal/cart"
	"github.com/wichananm65/storefront-backend/internal/checkout"
	"github.com/wichananm65/storefront-backend/internal/config"
	"github.com/wichananm65/storefront-backend/internal/database"
	"github.com/wichananm65/storefront-backend/internal/events"
	"github.com/wichananm65/storefront-backend/internal/order"
	"github.com/wichananm65/storefront-backend/internal/payment"
	"github.com/wichananm65/storefront-backend/internal/pricing"
	"github.com/wichananm65/storefront-backend/internal/product"
	"github.com/wichananm65/storefront-backend/internal/user"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET is not set")
	}

	app := fiber.New()
	app.Use(recover.New())
	setupCORS(app)
	app.Use(logger.New(logger.Config{
		Format: "${time} method=${method} path=${path} status=${status} latency=${latency}\n",
	}))

	var db *sql.DB
	if cfg.DatabaseURL != "" {
		db, err = database.Open(cfg.DBDriver, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("database: %v", err)
		}
		defer db.Close()
		if err := database.Migrate(db); err != nil {
			log.Fatalf("migrate: %v", err)
		}
	} else {
		log.Printf("DATABASE_URL is not set, running with in-memory storage")
	}

	var productRepo product.Repository = product.NewInMemoryRepository(product.SeedProducts())
	if db != nil && cfg.CatalogSource == "postgres" {
		productRepo = product.NewPostgresRepository(db)
	}
	var userRepo user.Repository = user.NewInMemoryRepository(nil)
	var orderRepo order.Repository = order.NewInMemoryRepository()
	if db != nil {
		userRepo = user.NewPostgresRepository(db)
		orderRepo = order.NewPostgresRepository(db)
	}

	var lockout user.Lockout = user.NewMemoryLockout(cfg.LoginMaxAttempts, cfg.LoginLockout)
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer rdb.Close()
		lockout = user.NewRedisLockout(rdb, cfg.LoginMaxAttempts, cfg.LoginLockout)
	}

	var publisher events.Publisher = events.NopPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		kp := events.NewKafkaPublisher(cfg.OrderEventsTopic, cfg.KafkaBrokers...)
		defer kp.Close()
		publisher = kp
	}

	productService := product.NewService(productRepo)
	engine := pricing.NewEngine(productService, pricing.Options{
		TaxRate:       cfg.TaxRate,
		ShippingCents: cfg.ShippingFeeCents,
	})
	processor := payment.NewStripeProcessor(cfg.StripeSecretKey, cfg.StripeWebhookSecret)
	if cfg.StripeWebhookSecret == "" {
		log.Printf("STRIPE_WEBHOOK_SECRET is not set, every webhook will be rejected")
	}

	userService := user.NewService(userRepo, cfg.JWTSecret, lockout)
	userHandler := user.NewHandler(userService)
	productHandler := product.NewHandler(productService)
	cartHandler := cart.NewHandler(cart.NewService(engine))
	checkoutHandler := checkout.NewHandler(checkout.NewService(engine, processor, cfg.Currency))
	reconciler := order.NewReconciler(orderRepo, productService, processor, publisher, cfg.Currency)
	orderHandler := order.NewHandler(order.NewService(orderRepo), reconciler)

	userHandler.RegisterPublicRoutes(app)
	productHandler.RegisterPublicRoutes(app)
	cartHandler.RegisterPublicRoutes(app)
	checkoutHandler.RegisterPublicRoutes(app, user.OptionalAuth(cfg.JWTSecret))
	orderHandler.RegisterPublicRoutes(app)

	app.Use(user.RequireAuth(cfg.JWTSecret))

	userHandler.RegisterProtectedRoutes(app)
	orderHandler.RegisterProtectedRoutes(app)

	log.Printf("starting server on %s", cfg.Addr)
	if err := app.Listen(cfg.Addr); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}

func setupCORS(app *fiber.App) {
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,HEAD,PUT,DELETE,PATCH",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
}
