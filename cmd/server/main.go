package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"wikipress/internal/config"
	"wikipress/internal/domain/repositories/wiki"
	"wikipress/internal/handler"
	"wikipress/internal/markdown"
	"wikipress/internal/mcpserver"
	"wikipress/internal/middleware"
	"wikipress/internal/repository/memory"
	"wikipress/internal/repository/postgres"
	postgresWiki "wikipress/internal/repository/postgres/wiki"
	serviceWiki "wikipress/internal/service/wiki"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Setup structured logging
	logLevel := slog.LevelInfo
	if cfg.Debug {
		logLevel = slog.LevelDebug
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("server starting",
		"version", version,
		"environment", cfg.Environment,
		"port", cfg.Port,
		"storage", cfg.Storage,
	)

	// Create the storage backend
	var (
		pageRepo wiki.PageRepository
		termRepo wiki.TermRepository
	)
	ctx := context.Background()

	switch cfg.Storage {
	case config.StoragePostgres:
		pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to create connection pool: %v", err)
		}
		defer pool.Close()

		tables := postgres.NewTableNames(cfg.TablePrefix)
		if err := postgres.EnsureSchema(ctx, pool, tables); err != nil {
			log.Fatalf("Failed to ensure schema: %v", err)
		}

		logger.Info("database connected", "table_prefix", cfg.TablePrefix)

		repoConfig := &postgres.RepositoryConfig{
			Pool:   pool,
			Tables: tables,
			Logger: logger,
		}
		pageRepo = postgresWiki.NewPageRepository(repoConfig)
		termRepo = postgresWiki.NewTermRepository(repoConfig)

	case config.StorageMemory:
		store := memory.NewStore()
		pageRepo = store.Pages()
		termRepo = store.Terms()
		logger.Warn("using in-memory storage, data will not survive restarts")
	}

	// Create the domain service
	wikiService := serviceWiki.NewService(pageRepo, termRepo, cfg.BaseURL, logger)

	// Create handlers
	projectHandler := handler.NewProjectHandler(wikiService, logger)
	pageHandler := handler.NewPageHandler(wikiService, logger)
	searchHandler := handler.NewSearchHandler(wikiService, logger)
	importExportHandler := handler.NewImportExportHandler(wikiService, logger)
	markdownHandler := handler.NewMarkdownHandler(markdown.NewRenderer(), logger)

	// Tool-call façade
	mcpFacade := mcpserver.NewFacade(wikiService, version, logger)

	logger.Info("services initialized")

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /health", handler.Health(version))

	// Project routes
	mux.HandleFunc("GET /api/projects", projectHandler.ListProjects)
	mux.HandleFunc("PATCH /api/projects/{slug}", projectHandler.UpdateProject)
	mux.HandleFunc("GET /api/projects/{slug}/tree", projectHandler.GetTree)
	mux.HandleFunc("GET /api/projects/{slug}/sections", projectHandler.ListProjectSections)
	mux.HandleFunc("GET /api/projects/{slug}/export", importExportHandler.ExportProject)
	mux.HandleFunc("POST /api/projects/{slug}/import", importExportHandler.ImportProject)

	// Section routes
	mux.HandleFunc("GET /api/sections", projectHandler.ListSections)

	// Page routes
	mux.HandleFunc("GET /api/pages", pageHandler.ListPages)
	mux.HandleFunc("POST /api/pages", pageHandler.CreatePage)
	mux.HandleFunc("GET /api/pages/{id}", pageHandler.GetPage)
	mux.HandleFunc("PUT /api/pages/{id}", pageHandler.UpdatePage)
	mux.HandleFunc("PATCH /api/pages/{id}", pageHandler.UpdatePage)
	mux.HandleFunc("DELETE /api/pages/{id}", pageHandler.DeletePage)
	mux.HandleFunc("PATCH /api/pages/{id}/move", pageHandler.MovePage)

	// Document-addressed import (project comes from the document itself)
	mux.HandleFunc("POST /api/import", importExportHandler.ImportDocument)

	// Search
	mux.HandleFunc("GET /api/search", searchHandler.Search)

	// Markdown preview
	mux.HandleFunc("POST /api/render-markdown", markdownHandler.Render)

	// Tool-call endpoints: general and project-scoped
	mux.Handle("POST /api/mcp", mcpFacade)
	mux.Handle("POST /api/mcp/{project}", mcpFacade)

	// Build middleware chain
	var h http.Handler = mux

	// Apply middleware in reverse order (they wrap each other)
	// Order: CORS → Recovery → RequestID → Auth → Routes
	h = middleware.Auth(cfg.APIToken, cfg.JWTSecret, logger)(h)
	h = middleware.RequestID(h)
	h = middleware.Recovery(logger)(h)

	// CORS - Must be before auth to handle OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
	})
	h = corsHandler.Handler(h)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      h,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server
	logger.Info("listening", "port", cfg.Port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Failed to start server: %v", err)
	}
}
