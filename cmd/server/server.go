package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"aimentor/config"
	"aimentor/db"
	"aimentor/handlers"
	"aimentor/logger"
	"aimentor/services"
	"aimentor/services/docindex"
	"aimentor/services/genai"
	"aimentor/services/pdf"
	"aimentor/services/tutor"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.LogLevel, cfg.LogFormat)
	defer log.Sync()

	if cfg.DatabaseURL == "" {
		log.Fatal("DB_URL environment variable is required")
	}

	conn, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer conn.Close()

	// A missing LLM key is reported on the first generation, not here.
	generator := genai.NewClient(
		genai.NewBackendFactory(genai.BackendConfig{
			Provider:    cfg.LLMProvider,
			APIKey:      cfg.APIKeyFor(cfg.LLMProvider),
			Model:       cfg.LLMModel,
			Temperature: cfg.LLMTemperature,
		}),
		genai.WithRetryPolicy(genai.RetryPolicy{MaxRetries: cfg.MaxRetries, BaseDelay: cfg.RetryBaseDelay}),
		genai.WithLogger(log),
	)
	tutorService := tutor.NewService(generator, log)
	renderer := pdf.NewRenderer(log)

	index := docindex.Disabled(log)
	if cfg.SearchEnabled() {
		index, err = docindex.NewService(cfg.PineconeAPIKey, cfg.OpenAIAPIKey, cfg.PineconeIndexName, log)
		if err != nil {
			log.Fatalf("Failed to initialize summary index: %v", err)
		}
	} else {
		log.Warn("PINECONE_API_KEY or OPENAI_API_KEY not set, summary search is disabled")
	}

	expertRepo := db.NewPostgresExpertRepository(conn)

	chatService := services.NewChatService(db.NewPostgresChatRepository(conn), expertRepo, tutorService, log)
	examService := services.NewExamService(db.NewPostgresExamRepository(conn), tutorService, log)
	summaryService := services.NewSummaryService(db.NewPostgresSummaryRepository(conn), tutorService, index, log)
	expertService := services.NewExpertService(expertRepo, log)
	profileService := services.NewProfileService(db.NewPostgresProfileRepository(conn), log)
	statsService := services.NewStatsService(db.NewPostgresStatsRepository(conn), log)

	router := mux.NewRouter()

	router.Use(handlers.LoggingMiddleware(log))
	router.Use(handlers.CORSMiddleware)
	router.Use(handlers.JSONMiddleware)
	router.Use(handlers.LearnerMiddleware)

	router.PathPrefix("/").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}).Methods("OPTIONS")

	handlers.NewChatHandler(chatService, renderer, log).RegisterRoutes(router)
	handlers.NewExamHandler(examService, renderer, log).RegisterRoutes(router)
	handlers.NewSummaryHandler(summaryService, renderer, log).RegisterRoutes(router)
	handlers.NewExpertHandler(expertService, log).RegisterRoutes(router)
	handlers.NewProfileHandler(profileService, statsService, log).RegisterRoutes(router)

	router.HandleFunc("/health", healthCheckHandler).Methods("GET")
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		// Generation plus retries can take a while.
		WriteTimeout: 2 * time.Minute,
		IdleTimeout:  2 * time.Minute,
	}

	go func() {
		log.Infof("Server starting on port %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Errorf("Graceful shutdown failed: %v", err)
	}
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "healthy"}`))
}
