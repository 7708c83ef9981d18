package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"github.com/mensah-dev/beneficiarysysbackend/assets"
	"github.com/mensah-dev/beneficiarysysbackend/config"
	"github.com/mensah-dev/beneficiarysysbackend/database"
	"github.com/mensah-dev/beneficiarysysbackend/handlers"
	"github.com/mensah-dev/beneficiarysysbackend/models"
	"github.com/mensah-dev/beneficiarysysbackend/repository"
	"github.com/mensah-dev/beneficiarysysbackend/services"
)

// seedAdminUser creates the initial account from ADMIN_USERNAME and
// ADMIN_PASSWORD when the users table is still empty.
func seedAdminUser(userRepo repository.UserRepositoryInterface) {
	username := os.Getenv("ADMIN_USERNAME")
	password := os.Getenv("ADMIN_PASSWORD")
	if username == "" || password == "" {
		return
	}

	count, err := userRepo.Count()
	if err != nil {
		log.Printf("Warning: failed to count users for admin seeding: %v", err)
		return
	}
	if count > 0 {
		return
	}

	admin := &models.User{Username: username}
	if err := admin.SetPassword(password); err != nil {
		log.Printf("Warning: failed to hash admin password: %v", err)
		return
	}
	if err := userRepo.Create(admin); err != nil {
		log.Printf("Warning: failed to seed admin user '%s': %v", username, err)
		return
	}
	log.Printf("Seeded initial admin user '%s'", username)
}

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Printf("Info: No .env file found or error loading: %v", err)
	}
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}

	storagePaths := []string{
		filepath.Join(cfg.AssetStoragePath, cfg.ProfilesSubDir),
		filepath.Join(cfg.AssetStoragePath, cfg.DocumentsSubDir),
		filepath.Dir(cfg.DatabasePath),
	}
	for _, p := range storagePaths {
		log.Printf("Ensuring storage directory exists: %s", p)
		if err := os.MkdirAll(p, 0755); err != nil {
			log.Fatalf("FATAL: Failed to create storage directory %s: %v", p, err)
		}
	}

	db, err := database.InitDB(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize database: %v", err)
	}
	if err := database.AutoMigrateModels(db); err != nil {
		log.Fatalf("FATAL: Failed to migrate database schema: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("FATAL: Failed to get underlying sql.DB: %v", err)
	}
	defer sqlDB.Close()

	store, err := assets.NewLocalStorage(cfg.AssetStoragePath)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize asset store: %v", err)
	}

	beneficiaryRepo := repository.NewBeneficiaryRepository(db)
	eventRepo := repository.NewEventRepository(db)
	userRepo := repository.NewGormUserRepository(db)
	statsRepo := repository.NewStatisticsRepository(sqlDB)

	beneficiaryService := services.NewBeneficiaryService(beneficiaryRepo, store, cfg)

	seedAdminUser(userRepo)

	log.Printf("Using database: %s", cfg.DatabasePath)
	log.Printf("Storing assets in: %s", cfg.AssetStoragePath)

	r := chi.NewRouter()

	corsOptions := cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173"}, //TODO: configurable
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	corsHandler := cors.New(corsOptions)

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(corsHandler.Handler)

	beneficiaryHandler := &handlers.BeneficiaryHandler{Service: beneficiaryService, Store: store, Cfg: cfg}
	eventHandler := &handlers.EventHandler{Repo: eventRepo}
	statisticsHandler := &handlers.StatisticsHandler{Repo: statsRepo}
	dashboardHandler := &handlers.DashboardHandler{Beneficiaries: beneficiaryRepo, Events: eventRepo, Stats: statsRepo}
	storageHandler := &handlers.StorageHandler{Store: store, Repo: beneficiaryRepo, Cfg: cfg}
	authHandler := handlers.NewAuthHandler(userRepo, cfg)

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/login", authHandler.Login)

		r.Group(func(r chi.Router) {
			r.Use(func(next http.Handler) http.Handler {
				return handlers.AuthMiddleware(userRepo, cfg.JWTSecret, next)
			})

			r.Get("/auth/me", authHandler.CurrentUser)

			r.Route("/beneficiaries", func(r chi.Router) {
				r.Post("/", beneficiaryHandler.CreateBeneficiary)
				r.Get("/", beneficiaryHandler.ListBeneficiaries)
				r.Route("/{beneficiary_id}", func(r chi.Router) {
					r.Get("/", beneficiaryHandler.GetBeneficiary)
					r.Put("/", beneficiaryHandler.UpdateBeneficiary)
					r.Delete("/", beneficiaryHandler.DeleteBeneficiary)
					r.Get("/documents/{document_index}/download", beneficiaryHandler.DownloadDocument)
				})
			})

			r.Route("/events", func(r chi.Router) {
				r.Post("/", eventHandler.CreateEvent)
				r.Get("/", eventHandler.ListEvents)
				r.Route("/{event_id}", func(r chi.Router) {
					r.Get("/", eventHandler.GetEvent)
					r.Put("/", eventHandler.UpdateEvent)
					r.Put("/status", eventHandler.UpdateEventStatus)
					r.Delete("/", eventHandler.DeleteEvent)
				})
			})

			r.Get("/statistics", statisticsHandler.GetStatistics)
			r.Get("/statistics/monthly", statisticsHandler.GetMonthlyRegistrations)
			r.Get("/dashboard", dashboardHandler.GetDashboard)
			r.Get("/storage/orphans", storageHandler.GetOrphanReport)
		})

		r.Get(fmt.Sprintf("/%s/*", cfg.ProfilesSubDir), handlers.AssetServer(cfg.AssetStoragePath, cfg.ProfilesSubDir))
		log.Printf("Registered profile image server at /api/%s/*", cfg.ProfilesSubDir)

		r.Get(fmt.Sprintf("/%s/*", cfg.DocumentsSubDir), handlers.AssetServer(cfg.AssetStoragePath, cfg.DocumentsSubDir))
		log.Printf("Registered document server at /api/%s/*", cfg.DocumentsSubDir)
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	serverAddr := ":" + port
	fmt.Printf("Server starting on http://localhost:%s\n", port)
	log.Printf("Server listening on %s", serverAddr)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	log.Fatal(server.ListenAndServe())
}
