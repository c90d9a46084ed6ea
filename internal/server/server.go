package server

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/gofiber/fiber/v3/middleware/requestid"

	"file-share-api/internal/config"
	"file-share-api/internal/handlers"
	"file-share-api/internal/providers"
	"file-share-api/internal/services"
)

// Server represents the HTTP server
type Server struct {
	app           *fiber.App
	config        *config.Config
	store         providers.ObjectStore
	resolver      *services.PathResolver
	planner       *services.Planner
	uploader      *services.Uploader
	tracker       *services.UploadTracker
	uploadHandler *handlers.UploadHandler
	metaHandler   *handlers.MetaHandler
}

// New creates a new server instance
func New(cfg *config.Config) *Server {
	if cfg == nil {
		cfg = config.Load()
	}

	return &Server{
		config: cfg,
	}
}

// Initialize sets up all server components
func (s *Server) Initialize() error {
	// Initialize object storage
	log.Printf("Initializing %s object storage...", s.config.S3.Provider)
	factory := providers.NewProviderFactory()
	store, err := factory.CreateStore(s.config.S3.ToStoreConfig())
	if err != nil {
		return fmt.Errorf("failed to initialize object storage: %w", err)
	}
	s.store = store

	// Probe the backend once at startup so misconfiguration fails fast
	probeCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.store.HealthCheck(probeCtx); err != nil {
		return fmt.Errorf("storage backend health check failed: %w", err)
	}
	log.Printf("✅ Storage backend reachable (bucket: %s)", s.config.S3.Bucket)

	// Initialize path resolver rooted at the upload directory
	resolver, err := services.NewPathResolver(s.config.UploadRoot)
	if err != nil {
		return fmt.Errorf("failed to initialize path resolver: %w", err)
	}
	s.resolver = resolver
	log.Printf("📁 Serving uploads from %s", s.resolver.Root())

	// Initialize transfer planner and orchestrator
	s.planner = services.NewPlanner(s.config.MultipartThreshold, s.config.PartSize, s.config.MaxParts)
	s.uploader = services.NewUploader(s.store, s.resolver, s.planner, s.config.DefaultExpiry, s.config.LogUploads)

	// Initialize upload tracker for asynchronous jobs
	s.tracker = services.NewUploadTracker(s.uploader, s.config.MaxConcurrentUploads)

	// Initialize handlers
	s.uploadHandler = handlers.NewUploadHandler(s.uploader, s.tracker, s.store)
	s.metaHandler = handlers.NewMetaHandler(readAPIVersion())

	// Initialize Fiber app with v3 config
	s.app = fiber.New(fiber.Config{
		ServerHeader:  "FileShare",
		StrictRouting: true,
		CaseSensitive: true,
		AppName:       "File Share API",
		BodyLimit:     s.config.BodyLimit,
		ReadTimeout:   s.config.ReadTimeout,
		WriteTimeout:  s.config.WriteTimeout,
		IdleTimeout:   s.config.IdleTimeout,
		ErrorHandler: func(c fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			message := "Internal Server Error"

			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
				message = e.Message
			}

			return c.Status(code).JSON(fiber.Map{
				"error":     message,
				"timestamp": time.Now().Unix(),
			})
		},
	})

	// Setup middleware
	s.setupMiddleware()

	// Setup routes
	s.setupRoutes()

	return nil
}

// setupMiddleware configures all middleware
func (s *Server) setupMiddleware() {
	if s.config.EnableRequestID {
		s.app.Use(requestid.New(requestid.Config{
			Header: "X-Request-ID",
		}))
	}

	// Logger middleware (minimal for performance)
	s.app.Use(logger.New(logger.Config{
		Format:     "${time} | ${status} | ${latency} | ${method} ${path}\n",
		TimeFormat: "15:04:05",
	}))

	if s.config.EnableCORS {
		s.app.Use(cors.New(cors.Config{
			AllowOrigins: []string{"*"},
			AllowMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
			AllowHeaders: []string{"Origin", "Content-Type", "Accept", "X-Request-ID"},
			MaxAge:       86400,
		}))
	}

	// Recover middleware
	s.app.Use(recover.New())
}

// setupRoutes configures all API routes
func (s *Server) setupRoutes() {
	s.app.Get("/api", s.metaHandler.APIInfo)

	// Upload endpoints and health check
	s.uploadHandler.RegisterUploadRoutes(s.app)

	// 404 handler
	s.app.Use(func(c fiber.Ctx) error {
		return c.Status(404).JSON(fiber.Map{
			"error": "Endpoint not found",
			"path":  c.Path(),
		})
	})
}

// Start starts the server
func (s *Server) Start() error {
	// Print startup information
	s.printStartupInfo()

	// Create shutdown channel
	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	// Start server in goroutine
	go func() {
		addr := fmt.Sprintf(":%s", s.config.Port)
		if err := s.app.Listen(addr); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	// Wait for shutdown signal
	<-shutdownCh

	log.Println("Shutting down server...")
	return s.Shutdown()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown Fiber app
	if err := s.app.ShutdownWithContext(ctx); err != nil {
		log.Printf("Error shutting down server: %v", err)
	}

	// Stop upload tracker and cancel in-flight jobs
	if s.tracker != nil {
		s.tracker.Stop()
		log.Println("Upload tracker stopped")
	}

	log.Println("Server shutdown complete")
	return nil
}

// printStartupInfo prints server configuration
func (s *Server) printStartupInfo() {
	log.Println("========================================")
	log.Println("File Share API")
	log.Println("========================================")
	log.Printf("Port:            %s", s.config.Port)
	log.Printf("Upload Root:     %s", s.resolver.Root())
	log.Printf("Provider:        %s", s.config.S3.Provider)
	log.Printf("Bucket:          %s", s.config.S3.Bucket)
	log.Printf("Default Expiry:  %s", s.config.DefaultExpiry)
	log.Printf("Multipart:       >= %dMB in %dMB parts", s.config.MultipartThreshold/1024/1024, s.config.PartSize/1024/1024)
	log.Printf("Concurrent Jobs: %d", s.config.MaxConcurrentUploads)
	log.Printf("CPU Cores:       %d", runtime.NumCPU())
	log.Printf("Go Version:      %s", runtime.Version())
	log.Println("========================================")
}

func readAPIVersion() string {
	const fallbackVersion = "1.0.0"
	data, err := os.ReadFile("VERSION")
	if err != nil {
		return fallbackVersion
	}

	version := strings.TrimSpace(string(data))
	if version == "" {
		return fallbackVersion
	}

	return version
}
