package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/lpcraft/checklist-engine/pkg/audit"
	"github.com/lpcraft/checklist-engine/pkg/database"
	"github.com/lpcraft/checklist-engine/pkg/handlers"
	"github.com/lpcraft/checklist-engine/pkg/logging"
	"github.com/lpcraft/checklist-engine/pkg/mcp"
	"github.com/lpcraft/checklist-engine/pkg/mcp/tools"
	"github.com/lpcraft/checklist-engine/pkg/middleware"
	"github.com/lpcraft/checklist-engine/pkg/repositories"
	"github.com/lpcraft/checklist-engine/pkg/retry"
	"github.com/lpcraft/checklist-engine/pkg/services"
)

const shutdownTimeout = 30 * time.Second

func runServe(ctx context.Context) error {
	logger.Info("Configuration loaded",
		zap.String("env", cfg.Env),
		zap.String("version", cfg.Version),
		zap.String("base_url", cfg.BaseURL),
		zap.String("database", logging.SanitizeConnectionString(cfg.Database.ConnectionString())),
		zap.String("redis", cfg.Redis.Addr()),
		zap.Bool("mcp_enabled", cfg.MCP.Enabled))

	connStr := cfg.Database.ConnectionString()

	if cfg.Database.AutoMigrate {
		sqlDB, err := database.OpenSQL(connStr)
		if err != nil {
			return err
		}
		err = database.RunMigrations(sqlDB, cfg.MigrationsPath, logger)
		_ = sqlDB.Close()
		if err != nil {
			return err
		}
	}

	db, err := database.NewConnection(ctx, &database.Config{
		URL:            connStr,
		MaxConnections: cfg.Database.MaxConnections,
	})
	if err != nil {
		return err
	}
	defer db.Close()

	var cache services.NameCache
	// The cache is optional, so a missing Redis only delays startup briefly.
	redisClient, err := database.NewRedisClient(ctx, &cfg.Redis, &retry.Config{
		MaxRetries:   2,
		InitialDelay: 250 * time.Millisecond,
		MaxDelay:     time.Second,
		Multiplier:   2.0,
	})
	if err != nil {
		logger.Warn("Redis unavailable, name cache disabled", zap.String("error", logging.SanitizeError(err)))
	} else if redisClient != nil {
		defer func() { _ = redisClient.Close() }()
		cache = services.NewRedisNameCache(redisClient, cfg.Cache.TTL, cfg.Cache.KeyPrefix, logger)
		logger.Info("Name cache enabled", zap.String("addr", cfg.Redis.Addr()))
	}

	// Repositories
	genreRepo := repositories.NewGenreRepository(db)
	regionRepo := repositories.NewRegionRepository(db)
	ruleRepo := repositories.NewComplianceRuleRepository(db)
	itemRepo := repositories.NewItemRepository(db)
	templateRepo := repositories.NewTemplateRepository(db)
	customizationRepo := repositories.NewCustomizationRepository(db)

	// Services
	auditor := audit.NewSecurityAuditor(logger)
	resolver := services.NewNameResolver(genreRepo, regionRepo, cache)
	checklistService := services.NewChecklistService(itemRepo, ruleRepo, resolver, auditor, logger)
	genreService := services.NewGenreService(genreRepo, itemRepo, logger)
	regionService := services.NewRegionService(regionRepo, itemRepo, auditor, logger)
	templateService := services.NewTemplateService(templateRepo, logger)
	customizationService := services.NewCustomizationService(customizationRepo, auditor, logger)

	mux := http.NewServeMux()
	handlers.NewHealthHandler(cfg, logger).RegisterRoutes(mux)
	handlers.NewItemsHandler(checklistService, logger).RegisterRoutes(mux)
	handlers.NewGenresHandler(genreService, logger).RegisterRoutes(mux)
	handlers.NewRegionsHandler(regionService, logger).RegisterRoutes(mux)
	handlers.NewTemplatesHandler(templateService, logger).RegisterRoutes(mux)
	handlers.NewCustomizationsHandler(customizationService, logger).RegisterRoutes(mux)

	if cfg.MCP.Enabled {
		mcpServer := mcp.NewServer(cfg.Version, &tools.ChecklistToolDeps{
			ChecklistService: checklistService,
			Logger:           logger.Named("mcp"),
		}, logger)
		mux.Handle("/mcp", middleware.MCPRequestLogger(logger.Named("mcp"))(mcpServer.NewStreamableHTTPServer()))
	}

	tlsEnabled := cfg.TLSCertPath != ""
	handler := middleware.Chain(mux,
		middleware.Recover(logger),
		middleware.RequestLogger(logger),
		middleware.WithClientIP,
		middleware.SecurityHeaders(tlsEnabled),
		middleware.CORS(cfg.CORS.AllowedOrigin),
		middleware.NewRateLimiter(cfg.RateLimit.MaxRequests, cfg.RateLimit.Window).Middleware,
		middleware.Timeout(cfg.RequestTimeout),
		middleware.MaxBody(cfg.MaxBodyBytes),
	)

	server := &http.Server{
		Addr:              cfg.ListenAddr(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting checklist-engine",
			zap.String("addr", server.Addr),
			zap.Bool("tls", tlsEnabled),
			zap.String("version", cfg.Version))

		var err error
		if tlsEnabled {
			err = server.ListenAndServeTLS(cfg.TLSCertPath, cfg.TLSKeyPath)
		} else {
			err = server.ListenAndServe()
		}
		if !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	logger.Info("Server stopped")
	return nil
}
