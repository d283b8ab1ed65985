package main

import (
	"context"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"plaza/internal/auth"
	"plaza/internal/config"
	"plaza/internal/handler"
	"plaza/internal/imaging"
	"plaza/internal/middleware"
	"plaza/internal/repository/postgres"
	"plaza/internal/service"
	"plaza/internal/storage"
	"plaza/internal/upload"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()

	// Setup structured logging
	logLevel := slog.LevelInfo
	if cfg.Environment == "dev" {
		logLevel = slog.LevelDebug
	}

	var logOut io.Writer = os.Stdout
	if dir := os.Getenv("LOG_DIR"); dir != "" {
		logFile, err := config.SetupLogFile(dir, 10)
		if err != nil {
			log.Fatalf("Failed to set up log file: %v", err)
		}
		defer logFile.Close()
		logOut = io.MultiWriter(os.Stdout, logFile)
	}

	logger := slog.New(slog.NewJSONHandler(logOut, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"table_prefix", cfg.TablePrefix,
	)

	// Create JWT verifier
	jwtVerifier, err := auth.NewJWKSVerifier(cfg.JWKSURL, logger)
	if err != nil {
		log.Fatalf("Failed to create JWT verifier: %v", err)
	}
	defer jwtVerifier.Close()

	// Create pgx connection pool
	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to create connection pool: %v", err)
	}
	defer pool.Close()

	logger.Info("database connected",
		"max_conns", 25,
		"min_conns", 5,
	)

	// Create repositories
	tables := postgres.NewTableNames(cfg.TablePrefix)
	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	userRepo := postgres.NewUserRepository(repoConfig)
	postRepo := postgres.NewPostRepository(repoConfig)
	commentRepo := postgres.NewCommentRepository(repoConfig)
	likeRepo := postgres.NewLikeRepository(repoConfig)
	notificationRepo := postgres.NewNotificationRepository(repoConfig)
	txManager := postgres.NewTransactionManager(pool, logger)

	// Image storage backend
	var store storage.Store
	switch cfg.StorageBackend {
	case "gcs":
		store, err = storage.NewGCSStore(ctx, cfg.GCSBucket, cfg.GCSPrefix, logger)
		if err != nil {
			log.Fatalf("Failed to create GCS store: %v", err)
		}
	default:
		store, err = storage.NewLocalStore(cfg.StorageDir, cfg.StorageURLBase, logger)
		if err != nil {
			log.Fatalf("Failed to create local store: %v", err)
		}
	}
	logger.Info("image storage ready", "backend", cfg.StorageBackend)

	// Image pipeline: the selector probes the primary encoder at startup
	// and degrades to the fallback per file.
	selector := imaging.NewSelector(logger)
	orchestrator := upload.NewOrchestrator(selector, store, logger)

	// Create services
	postService := service.NewPostService(postRepo, logger)
	commentService := service.NewCommentService(commentRepo, postRepo, notificationRepo, txManager, logger)
	likeService := service.NewLikeService(likeRepo, postRepo, commentRepo, notificationRepo, txManager, logger)
	profileService := service.NewProfileService(userRepo, orchestrator, logger)
	notificationService := service.NewNotificationService(notificationRepo, logger)

	// Create handlers
	postHandler := handler.NewPostHandler(postService, logger)
	commentHandler := handler.NewCommentHandler(commentService, logger)
	likeHandler := handler.NewLikeHandler(likeService, logger)
	uploadHandler := handler.NewUploadHandler(orchestrator, logger)
	profileHandler := handler.NewProfileHandler(profileService, logger)
	notificationHandler := handler.NewNotificationHandler(notificationService, logger)

	logger.Info("services initialized")

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	// Feed routes
	mux.HandleFunc("GET /api/feed", postHandler.Feed)

	// Post routes
	mux.HandleFunc("POST /api/posts", postHandler.CreatePost)
	mux.HandleFunc("GET /api/posts/{id}", postHandler.GetPost)
	mux.HandleFunc("PATCH /api/posts/{id}", postHandler.UpdatePost)
	mux.HandleFunc("DELETE /api/posts/{id}", postHandler.DeletePost)
	mux.HandleFunc("GET /api/posts/{id}/markdown", postHandler.ExportMarkdown)

	// Comment routes
	mux.HandleFunc("POST /api/posts/{id}/comments", commentHandler.CreateComment)
	mux.HandleFunc("GET /api/posts/{id}/comments", commentHandler.ListComments)
	mux.HandleFunc("PATCH /api/comments/{id}", commentHandler.UpdateComment)
	mux.HandleFunc("DELETE /api/comments/{id}", commentHandler.DeleteComment)

	// Like routes
	mux.HandleFunc("PUT /api/posts/{id}/like", likeHandler.LikePost)
	mux.HandleFunc("DELETE /api/posts/{id}/like", likeHandler.UnlikePost)
	mux.HandleFunc("PUT /api/comments/{id}/like", likeHandler.LikeComment)
	mux.HandleFunc("DELETE /api/comments/{id}/like", likeHandler.UnlikeComment)

	// Upload routes
	mux.HandleFunc("POST /api/uploads/images", uploadHandler.UploadImages)

	// Profile routes
	mux.HandleFunc("GET /api/users/me", profileHandler.GetMe)
	mux.HandleFunc("PATCH /api/users/me", profileHandler.UpdateMe)
	mux.HandleFunc("POST /api/users/me/avatar", profileHandler.UploadAvatar)
	mux.HandleFunc("GET /api/users/{id}", profileHandler.GetProfile)
	mux.HandleFunc("GET /api/users/{id}/posts", postHandler.ListByAuthor)

	// Notification routes
	mux.HandleFunc("GET /api/notifications", notificationHandler.List)
	mux.HandleFunc("POST /api/notifications/{id}/read", notificationHandler.MarkRead)

	// Locally stored images are served straight off disk
	if cfg.StorageBackend == "local" {
		prefix := strings.TrimSuffix(cfg.StorageURLBase, "/") + "/"
		mux.Handle("GET "+prefix, http.StripPrefix(prefix, http.FileServer(http.Dir(cfg.StorageDir))))
	}

	// Build middleware chain
	var httpHandler http.Handler = mux

	// Apply middleware in reverse order (they wrap each other)
	// Order: CORS → Recovery → RequestLog → Auth → Routes
	publicPrefixes := []string{}
	if cfg.StorageBackend == "local" {
		publicPrefixes = append(publicPrefixes, strings.TrimSuffix(cfg.StorageURLBase, "/")+"/")
	}
	httpHandler = middleware.Auth(jwtVerifier, publicPrefixes...)(httpHandler)
	httpHandler = middleware.RequestLog(logger)(httpHandler)
	httpHandler = middleware.Recovery(logger)(httpHandler)

	// CORS - Must be before auth to handle OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
	})
	httpHandler = corsHandler.Handler(httpHandler)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      httpHandler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server, shut down cleanly on SIGINT/SIGTERM
	go func() {
		logger.Info("server listening", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", "error", err)
	}
	logger.Info("server stopped")
}
