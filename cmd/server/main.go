package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/saeid-a/ChatAppBack/internal/config"
	"github.com/saeid-a/ChatAppBack/internal/database"
	"github.com/saeid-a/ChatAppBack/internal/metrics"
	"github.com/saeid-a/ChatAppBack/internal/ratelimit"
	"github.com/saeid-a/ChatAppBack/internal/repository"
	"github.com/saeid-a/ChatAppBack/internal/routes"
	chatws "github.com/saeid-a/ChatAppBack/internal/websocket"
)

func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Connect to the store
	deps, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to open %s store: %v", cfg.StoreDriver, err)
	}
	defer closeStore()

	if cfg.RateLimitEnabled() {
		rdb, err := database.ConnectRedis(ctx, cfg.RedisAddr)
		if err != nil {
			log.Fatalf("Failed to connect to redis: %v", err)
		}
		defer rdb.Close()
		deps.Limiter = ratelimit.NewLimiter(rdb)
	} else {
		log.Println("REDIS_ADDR not set, login rate limiting disabled")
	}

	deps.Hub = chatws.NewHub()
	go deps.Hub.Run(ctx)

	// 3. Setup Fiber
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			var fe *fiber.Error
			if errors.As(err, &fe) && fe.Code < fiber.StatusInternalServerError {
				return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
			}
			log.Printf("unhandled error on %s %s: %v", c.Method(), c.Path(), err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal Server Error"})
		},
	})

	// Middleware
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowCredentials: true,
	}))
	app.Use(logger.New())
	app.Use(metrics.Middleware())

	// Routes
	if err := routes.RegisterRoutes(app, cfg, deps); err != nil {
		log.Fatalf("Failed to register routes: %v", err)
	}

	go func() {
		<-ctx.Done()
		log.Println("Shutting down server")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Printf("Server shutdown: %v", err)
		}
	}()

	// 4. Start Server
	log.Printf("Server starting on port %s (store: %s)", cfg.Port, cfg.StoreDriver)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}

func openStore(ctx context.Context, cfg *config.Config) (routes.Dependencies, func(), error) {
	switch cfg.StoreDriver {
	case config.StoreDriverMongo:
		db, err := database.ConnectMongo(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return routes.Dependencies{}, nil, err
		}
		closeFn := func() { _ = db.Client().Disconnect(context.Background()) }

		users := repository.NewMongoUserRepository(db)
		chats := repository.NewMongoChatRepository(db)
		if err := users.EnsureIndexes(ctx); err != nil {
			closeFn()
			return routes.Dependencies{}, nil, err
		}
		if err := chats.EnsureIndexes(ctx); err != nil {
			closeFn()
			return routes.Dependencies{}, nil, err
		}
		return routes.Dependencies{Users: users, Chats: chats}, closeFn, nil
	default:
		if cfg.DBUrl == "" {
			return routes.Dependencies{}, nil, errors.New("DB_URL is required")
		}
		pool, err := database.ConnectPostgres(ctx, cfg.DBUrl)
		if err != nil {
			return routes.Dependencies{}, nil, err
		}
		return routes.Dependencies{
			Users: repository.NewUserRepository(pool),
			Chats: repository.NewChatRepository(pool),
		}, pool.Close, nil
	}
}
