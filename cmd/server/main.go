package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"github.com/lumina-edu/backend/internal/assistant"
	"github.com/lumina-edu/backend/internal/auth"
	"github.com/lumina-edu/backend/internal/classes"
	"github.com/lumina-edu/backend/internal/database"
	"github.com/lumina-edu/backend/internal/gamification"
	"github.com/lumina-edu/backend/internal/generator"
	"github.com/lumina-edu/backend/internal/middleware"
	"github.com/lumina-edu/backend/internal/quizzes"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Initialize database
	db, err := database.Connect()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize services
	gen := generator.NewGenerator()

	gamStore := gamification.NewStore(db)
	gamService := gamification.NewService(gamStore)

	classStore := classes.NewStore(db)
	classService := classes.NewService(classStore, gamService)

	quizStore := quizzes.NewStore(db)
	quizService := quizzes.NewService(quizStore, gamService, gen)

	// Initialize handlers
	authHandler := auth.NewHandler(db)
	classHandler := classes.NewHandler(classService)
	quizHandler := quizzes.NewHandler(quizService)
	gamHandler := gamification.NewHandler(gamService)
	assistantHandler := assistant.NewHandler(gen)

	// Setup router
	r := mux.NewRouter()
	api := r.PathPrefix("/api/v1").Subrouter()

	// Public routes
	api.HandleFunc("/auth/register", authHandler.Register).Methods("POST")
	api.HandleFunc("/auth/login", authHandler.Login).Methods("POST")

	// Protected routes
	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.AuthMiddleware)
	protected.HandleFunc("/auth/me", authHandler.GetCurrentUser).Methods("GET")

	// Teacher-only routes
	teacherOnly := api.PathPrefix("").Subrouter()
	teacherOnly.Use(middleware.AuthMiddleware, middleware.RequireTeacher)

	classHandler.RegisterRoutes(protected, teacherOnly)
	quizHandler.RegisterRoutes(protected, teacherOnly)
	gamHandler.RegisterRoutes(protected)
	assistantHandler.RegisterRoutes(protected)

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Background workers
	workerCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()
	go quizService.StartScheduleWorker(workerCtx)

	// CORS
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	handler := c.Handler(r)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	server := &http.Server{Addr: ":" + port, Handler: handler}

	go func() {
		log.Printf("Server starting on :%s", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")
	stopWorkers()
	if err := server.Shutdown(context.Background()); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}
