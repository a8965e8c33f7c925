package main

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/AnshRaj112/devconnect-backend/internal/config"
	"github.com/AnshRaj112/devconnect-backend/internal/database"
	"github.com/AnshRaj112/devconnect-backend/internal/handlers"
	"github.com/AnshRaj112/devconnect-backend/internal/metrics"
	"github.com/AnshRaj112/devconnect-backend/internal/middleware"
	"github.com/AnshRaj112/devconnect-backend/internal/repository/mongodb"
	"github.com/AnshRaj112/devconnect-backend/internal/routes"
	"github.com/AnshRaj112/devconnect-backend/internal/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	cfg := config.Load()

	if cfg.IsProduction() && cfg.JWTSecret == "your-secret-key-change-in-production" {
		log.Fatal("JWT_SECRET must be set in production")
	}

	log.Printf("Connecting to MongoDB...")
	if err := database.Connect(cfg.MongoURI); err != nil {
		log.Fatal("Failed to connect to MongoDB: ", err)
	}
	defer database.Disconnect()

	log.Printf("Connecting to Redis...")
	if err := database.ConnectRedis(cfg.RedisURI); err != nil {
		log.Printf("Warning: Redis unavailable, rate limiting disabled: %v", err)
	} else {
		defer database.DisconnectRedis()
	}

	tokens, err := services.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		log.Fatal("Failed to initialize token service: ", err)
	}

	var cloud *services.CloudinaryService
	if cfg.CloudinaryName != "" && cfg.CloudinaryAPIKey != "" && cfg.CloudinaryAPISecret != "" {
		cloud, err = services.NewCloudinaryService(cfg.CloudinaryName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
		if err != nil {
			log.Printf("Warning: Failed to initialize Cloudinary: %v", err)
			log.Println("Avatar uploads will not be available")
			cloud = nil
		}
	} else {
		log.Println("Warning: Cloudinary credentials not found. Avatar uploads will not be available")
	}

	users := mongodb.NewUserRepository(database.DB)
	profiles := mongodb.NewProfileRepository(database.DB)
	posts := mongodb.NewPostRepository(database.DB)

	h := &routes.Handlers{
		Auth:    handlers.NewAuthHandler(users, tokens),
		Profile: handlers.NewProfileHandler(profiles, users),
		Post:    handlers.NewPostHandler(posts, users),
		Upload:  handlers.NewUploadHandler(users, cloud),
	}

	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "x-auth-token"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(collector.Middleware)
	r.Use(middleware.RateLimit)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})
	r.Handle("/metrics", metrics.Handler(registry))

	routes.SetupRoutes(r, h, tokens)

	log.Printf("devconnect backend running on :%s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		log.Fatal("Failed to start server: ", err)
	}
}
