package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/weanovas/agency-api/config"
	"github.com/weanovas/agency-api/internal/db"
	"github.com/weanovas/agency-api/internal/events"
	"github.com/weanovas/agency-api/internal/handlers"
	"github.com/weanovas/agency-api/internal/services"
	"github.com/weanovas/agency-api/internal/storage"
	"github.com/weanovas/agency-api/internal/store"
)

// Server wraps the HTTP server and router.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	db         *sql.DB
	publisher  *events.Publisher
}

// New constructs a Server with all dependencies wired.
func New(ctx context.Context, cfg config.Config) (*Server, error) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	dbConn, err := db.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}

	jwtSecret := strings.TrimSpace(os.Getenv("JWT_SECRET"))
	if jwtSecret == "" {
		_ = dbConn.Close()
		return nil, errors.New("JWT_SECRET is required")
	}

	blobStore, err := newStorage(ctx, cfg.Storage)
	if err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("storage: %w", err)
	}
	if err := blobStore.EnsureBucket(ctx); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("storage bucket: %w", err)
	}

	publisher, err := newPublisher(ctx, cfg.Events, logger)
	if err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("events: %w", err)
	}

	userRepo := store.NewUserRepository(dbConn)
	projectRepo := store.NewProjectRepository(dbConn)
	testimonialRepo := store.NewTestimonialRepository(dbConn)
	teamRepo := store.NewTeamMemberRepository(dbConn)

	imageService := services.NewImageService(blobStore, cfg.Upload.MaxBytes, cfg.Upload.MaxDimension, logger)
	userService := services.NewUserService(userRepo)
	projectService := services.NewProjectService(projectRepo, imageService, publisher)
	testimonialService := services.NewTestimonialService(testimonialRepo, imageService, publisher)
	teamService := services.NewTeamMemberService(teamRepo, imageService, publisher)

	authMiddleware := handlers.NewAuthMiddleware(userService, jwtSecret)

	router := chi.NewRouter()
	router.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Recoverer,
		middleware.Logger,
		middleware.Timeout(60*time.Second),
	)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.Get("/healthz", handlers.Healthz)
	router.Route("/api/auth", func(r chi.Router) {
		handlers.AuthRouter(r, userService, jwtSecret, authMiddleware)
	})
	router.Route("/api/projects", func(r chi.Router) {
		handlers.ProjectRouter(r, projectService, authMiddleware)
	})
	router.Route("/api/testimonials", func(r chi.Router) {
		handlers.TestimonialRouter(r, testimonialService, authMiddleware)
	})
	router.Route("/api/team", func(r chi.Router) {
		handlers.TeamRouter(r, teamService, authMiddleware)
	})
	router.Route("/api/upload", func(r chi.Router) {
		handlers.UploadRouter(r, imageService, authMiddleware)
	})

	port := cfg.ServerPort
	if port == 0 {
		port = 8080
	}

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{
		httpServer: httpServer,
		router:     router,
		db:         dbConn,
		publisher:  publisher,
	}, nil
}

func newStorage(ctx context.Context, cfg config.StorageConfig) (*storage.Storage, error) {
	var (
		backend storage.ObjectStorage
		err     error
	)
	switch cfg.Backend {
	case "gcs":
		backend, err = storage.NewGCSClient(ctx, cfg.GCS)
	case "minio", "":
		backend, err = storage.NewMinioClient(cfg.Minio)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
	if err != nil {
		return nil, err
	}
	return storage.NewStorage(backend, cfg.PublicBaseURL), nil
}

func newPublisher(ctx context.Context, cfg config.EventsConfig, logger *slog.Logger) (*events.Publisher, error) {
	var (
		backend events.Backend
		err     error
	)
	switch cfg.Backend {
	case "rabbitmq":
		backend, err = events.NewRabbitMQBackend(cfg.RabbitMQ)
	case "pubsub":
		backend, err = events.NewPubSubBackend(ctx, cfg.PubSub)
	case "":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown events backend %q", cfg.Backend)
	}
	if err != nil {
		return nil, err
	}
	return events.NewPublisher(backend, cfg.Topic, logger), nil
}

// Router exposes the chi router for route registration.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Start runs the HTTP server.
func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown attempts a graceful shutdown.
func (s *Server) Shutdown() error {
	if s.publisher != nil {
		_ = s.publisher.Close()
	}
	if s.db != nil {
		_ = s.db.Close()
	}
	return s.httpServer.Close()
}
