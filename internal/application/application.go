package application

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/eugenenazirov/cloudconfig/internal/api"
	"github.com/eugenenazirov/cloudconfig/internal/config"
	"github.com/eugenenazirov/cloudconfig/internal/resolver"
	"github.com/eugenenazirov/cloudconfig/internal/storage"
)

// App encapsulates the application dependencies and HTTP server.
type App struct {
	storage  storage.Storage
	resolver *resolver.Resolver
	handler  *api.Handler
	router   http.Handler
	logger   *zap.Logger
	server   *http.Server
}

// NewResolver creates a resolver seeded from cfg: Defaults first, then CloudinaryURL.
func NewResolver(cfg config.Config, store storage.Storage, logger *zap.Logger) (*resolver.Resolver, error) {
	res := resolver.New(store, logger)
	if len(cfg.Defaults) > 0 {
		res.Add(cfg.Defaults)
	}
	if cfg.CloudinaryURL != "" {
		if err := res.FromURL(cfg.CloudinaryURL); err != nil {
			return nil, fmt.Errorf("apply connection url: %w", err)
		}
	}
	return res, nil
}

// New initializes the application with all dependencies from the provided configuration.
func New(cfg config.Config, logger *zap.Logger) (*App, error) {
	store := storage.NewMemoryStorage()
	res, err := NewResolver(cfg, store, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize resolver: %w", err)
	}

	handler := api.NewHandler(res)
	apiRouter := api.NewRouter(handler, logger,
		api.WithLogging(cfg.EnableRequestLogging),
		api.WithRateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst),
	)

	server := NewServer(cfg, BuildRootHandler(apiRouter))

	return &App{
		storage:  store,
		resolver: res,
		handler:  handler,
		router:   apiRouter,
		logger:   logger,
		server:   server,
	}, nil
}

// BuildRootHandler constructs the root HTTP handler that routes API requests
// and answers everything else with 404.
func BuildRootHandler(apiHandler http.Handler) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/api/", apiHandler)
	mux.Handle("/", http.NotFoundHandler())
	return mux
}

// NewServer creates and configures an HTTP server from the provided configuration.
func NewServer(cfg config.Config, handler http.Handler) *http.Server {
	addr := cfg.Port
	if !strings.Contains(addr, ":") {
		addr = ":" + addr
	}

	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}
}

// Start starts the HTTP server in a goroutine and logs the listening address.
func (a *App) Start() error {
	go func() {
		a.logger.Info("server listening",
			zap.String("addr", a.server.Addr),
			zap.String("cloud_name", a.resolver.GetString(resolver.KeyCloudName, "")),
		)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Fatal("server error", zap.Error(err))
		}
	}()
	return nil
}

// Server returns the HTTP server instance for shutdown handling.
func (a *App) Server() *http.Server {
	return a.server
}

// Resolver returns the configuration resolver backing the API.
func (a *App) Resolver() *resolver.Resolver {
	return a.resolver
}
