package main

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"

	"github.com/hmusa/medcatalog-backend/internal/config"
	"github.com/hmusa/medcatalog-backend/internal/database"
	"github.com/hmusa/medcatalog-backend/internal/handlers"
	"github.com/hmusa/medcatalog-backend/internal/middleware"
	"github.com/hmusa/medcatalog-backend/internal/repositories"
	"github.com/hmusa/medcatalog-backend/internal/routes"
	"github.com/hmusa/medcatalog-backend/internal/services"
)

func main() {
	// Load env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	cfg := config.Load()

	if cfg.JWTSecret == "your-secret-key-change-in-production" {
		log.Println("⚠️  WARNING: JWT_SECRET not set; using insecure default")
	}

	// Connect to PostgreSQL (credential store)
	log.Printf("Connecting to PostgreSQL...")
	pg, err := database.ConnectPostgres(cfg.PostgresURI)
	if err != nil {
		log.Fatal("Failed to connect to PostgreSQL:", err)
	}
	defer pg.Close()

	// Connect to MongoDB (catalog store)
	log.Printf("Connecting to MongoDB...")
	mongoDB, err := database.ConnectMongo(cfg.MongoURI, cfg.MongoDBName)
	if err != nil {
		log.Fatal("Failed to connect to MongoDB:", err)
	}
	defer mongoDB.Close()

	// Connect to Redis (rate limiting + list cache)
	log.Printf("Connecting to Redis...")
	rdb, err := database.ConnectRedis(cfg.RedisURI)
	if err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}
	defer rdb.Close()

	// Initialize Cloudinary
	if cfg.CloudinaryName == "" || cfg.CloudinaryAPIKey == "" || cfg.CloudinaryAPISecret == "" {
		log.Fatal("Cloudinary credentials not found; image-bearing writes cannot work without them")
	}
	images, err := services.NewCloudinaryService(cfg.CloudinaryName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
	if err != nil {
		log.Fatal("Failed to initialize Cloudinary:", err)
	}
	log.Println("✅ Cloudinary service initialized")

	// Repositories
	deviceRepo := repositories.NewDeviceMongoRepository(mongoDB.DB)
	manufacturerRepo := repositories.NewManufacturerMongoRepository(mongoDB.DB)
	distributorRepo := repositories.NewDistributorMongoRepository(mongoDB.DB)
	userRepo := repositories.NewUserPostgresRepository(pg)

	// Services
	cache := services.NewCacheService(rdb)
	tokens := services.NewTokenService(cfg.JWTSecret)
	authService := services.NewAuthService(userRepo, tokens)
	deviceService := services.NewDeviceService(deviceRepo, manufacturerRepo, distributorRepo, images, cache)
	manufacturerService := services.NewManufacturerService(manufacturerRepo, distributorRepo, images)
	distributorService := services.NewDistributorService(distributorRepo, images)

	// Setup router
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	if cfg.IsProduction() {
		r.Use(middleware.SecurityHeaders)
	}
	r.Use(middleware.RateLimit(rdb))

	// Health check (no auth)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	routes.Setup(r, routes.Deps{
		Auth:          handlers.NewAuthHandler(authService),
		Devices:       handlers.NewDeviceHandler(deviceService),
		Manufacturers: handlers.NewManufacturerHandler(manufacturerService),
		Distributors:  handlers.NewDistributorHandler(distributorService),
		Tokens:        tokens,
	})

	log.Printf("🚀 Catalog backend running on :%s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
