package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/rahulm/restaurant-backend/internal/auth"
	"github.com/rahulm/restaurant-backend/internal/config"
	"github.com/rahulm/restaurant-backend/internal/middleware"
	"github.com/rahulm/restaurant-backend/internal/restaurant"
	"github.com/rahulm/restaurant-backend/internal/store"
)

const cacheTTL = 5 * time.Minute

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()
	log := logger.Sugar()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	ctx := context.Background()
	secret := []byte(cfg.JWTSecret)

	// ── MongoDB ──────────────────────────────────────────────
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatalf("mongo connect: %v", err)
	}
	defer mongoClient.Disconnect(ctx)
	mongoDB := mongoClient.Database(cfg.MongoDB)
	restaurantStore := store.NewMongoStore(mongoDB)

	// ── User store ───────────────────────────────────────────
	var users auth.UserStore
	switch cfg.UsersBackend {
	case "postgres":
		pgPool, err := pgxpool.New(ctx, cfg.PostgresDSN)
		if err != nil {
			log.Fatalf("postgres connect: %v", err)
		}
		defer pgPool.Close()
		pgStore := store.NewPostgresUserStore(pgPool)
		if err := pgStore.Migrate(ctx); err != nil {
			log.Fatalf("postgres migrate: %v", err)
		}
		users = pgStore
	case "mongo":
		mongoUsers, err := store.NewMongoUserStore(ctx, mongoDB)
		if err != nil {
			log.Fatalf("mongo user index: %v", err)
		}
		users = mongoUsers
	default:
		log.Fatalf("unknown USERS_BACKEND %q", cfg.UsersBackend)
	}

	// ── Redis (optional listing cache) ───────────────────────
	var cache restaurant.Cache
	if cfg.RedisAddr != "" {
		rdb, err := store.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			log.Fatalf("redis connect: %v", err)
		}
		defer rdb.Close()
		cache = store.NewListingCache(rdb, cacheTTL)
	}

	// ── MinIO (optional image storage) ───────────────────────
	var images restaurant.ImageStore
	if cfg.MinioEndpoint != "" {
		imageStore, err := store.NewImageStore(
			ctx, cfg.MinioEndpoint, cfg.MinioAccessKey,
			cfg.MinioSecretKey, cfg.MinioBucket, cfg.MinioUseSSL,
		)
		if err != nil {
			log.Fatalf("minio connect: %v", err)
		}
		images = imageStore
	}

	// ── Handlers ─────────────────────────────────────────────
	authHandler := auth.NewHandler(users, secret, cfg.TokenTTL, log)
	restaurantHandler := restaurant.NewHandler(restaurantStore, images, cache, log)

	// ── Router ───────────────────────────────────────────────
	r := chi.NewRouter()
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"ok"}`))
	})

	// Registration and login stay public; gating them would make it
	// impossible to ever obtain a token.
	r.Post("/register", authHandler.Register)
	r.Post("/login", authHandler.Login)

	// Everything else requires a valid token.
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(secret))

		r.Post("/fooditems/add", restaurantHandler.AddFoodItem)
		r.Get("/fooditems/list", restaurantHandler.ListFoodItems)
		r.Put("/fooditems/{id}", restaurantHandler.UpdateFoodItem)
		r.Delete("/fooditems/{id}", restaurantHandler.DeleteFoodItem)
		if images != nil {
			r.Post("/fooditems/{id}/image", restaurantHandler.UploadFoodItemImage)
			r.Get("/fooditems/{id}/image", restaurantHandler.DownloadFoodItemImage)
		}

		r.Get("/order/list", restaurantHandler.ListOrders)
		r.Post("/order/add", restaurantHandler.AddOrder)

		r.Post("/cart/add", restaurantHandler.AddToCart)
		r.Get("/cart/list", restaurantHandler.ListCart)

		r.Get("/menu", restaurantHandler.ListMenus)
		r.Post("/menu/add", restaurantHandler.AddMenu)

		r.Get("/reservation/list", restaurantHandler.ListReservations)
		r.Post("/reservation/add", restaurantHandler.AddReservation)
		r.Delete("/reservation/delete/{id}", restaurantHandler.DeleteReservation)
	})

	// ── Server ───────────────────────────────────────────────
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		log.Infof("Server listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down...")
	shutCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	srv.Shutdown(shutCtx)
}
