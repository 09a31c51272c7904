package function

import (
	"context"
	"event-catalog/internal/cache"
	"event-catalog/internal/config"
	"event-catalog/internal/filter"
	"event-catalog/internal/log"
	"event-catalog/internal/repository"
	"event-catalog/internal/service"
	"event-catalog/internal/transport"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"github.com/GoogleCloudPlatform/functions-framework-go/functions"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	_ "event-catalog/docs"

	httpSwagger "github.com/swaggo/http-swagger"
)

// @title Event Catalog API
// @version 1.0
// @description Read-only event catalog with search, category and date-bucket filtering (Google Cloud Function).

// @host 127.0.0.1:5000
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func init() {
	ctx := context.Background()

	// 1. Configuration
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "config.yaml"
	}
	cfg, err := config.Load(path)
	if err != nil {
		log.Error("config load failed", err, "path", path)
		os.Exit(1)
	}
	log.SetLevel(log.ParseLevel(cfg.LogLevel))

	handler, err := newHandler(ctx, cfg)
	if err != nil {
		log.Error("function setup failed", err)
		os.Exit(1)
	}

	// 2. Register Function
	functions.HTTP("EventFunction", handler.ServeHTTP)
}

func newHandler(ctx context.Context, cfg *config.Config) (http.Handler, error) {
	loc := cfg.Location()

	// 1. Catalog source
	repo, err := newRepository(ctx, cfg)
	if err != nil {
		return nil, err
	}

	// 2. Service with in-process memo and optional shared cache
	opts := []service.Option{
		service.WithClock(func() time.Time { return time.Now().In(loc) }),
		service.WithMemo(filter.NewMemo(cfg.Cache.MemoSize)),
	}
	if cfg.Cache.RedisURL != "" {
		client, err := cache.NewRedisClient(ctx, cfg.Cache.RedisURL)
		if err != nil {
			// The service works without the shared cache.
			log.Error("redis unavailable, shared result cache disabled", err)
		} else {
			opts = append(opts, service.WithResultCache(cache.NewRedisCache(client), cfg.Cache.TTL))
		}
	}
	svc := service.NewCatalogService(repo, opts...)

	// An empty snapshot serves until the source recovers.
	if _, err := svc.Reload(ctx); err != nil {
		log.Error("initial catalog load failed", err)
	}

	// 3. Scheduled reloads
	var refresher *service.Refresher
	if cfg.RefreshCron != "" {
		refresher, err = service.NewRefresher(svc, cfg.RefreshCron, loc)
		if err != nil {
			return nil, err
		}
		refresher.Start()
	}

	// 4. Firebase Auth guards the reload endpoint
	var verifier transport.TokenVerifier
	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.Catalog.ProjectID})
	if err != nil {
		log.Error("firebase app init failed, writes disabled", err)
	} else if authClient, err := app.Auth(ctx); err != nil {
		log.Error("firebase auth init failed, writes disabled", err)
	} else {
		verifier = authClient
	}

	router := transport.NewRouter(svc, transport.RouterConfig{
		Location:  loc,
		Refresher: refresher,
		Now:       func() time.Time { return time.Now().In(loc) },
	})

	// Middleware Chain:
	// CORS -> Security Headers -> Request Logging -> Auth -> Compression -> Router
	handler := transport.WithCompression(router)
	handler = transport.WithAuthProtection(handler, verifier)
	handler = transport.WithRequestLogging(handler)
	handler = transport.WithSecurityHeaders(handler, cfg.IsProduction())
	handler = transport.WithCORS(handler, cfg.CORSOrigin)

	metricsHandler := promhttp.Handler()
	swaggerHandler := httpSwagger.Handler(httpSwagger.DeepLinking(false))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, "/swagger/"):
			swaggerHandler(w, r)
		case r.URL.Path == "/metrics":
			metricsHandler.ServeHTTP(w, r)
		default:
			handler.ServeHTTP(w, r)
		}
	}), nil
}

func newRepository(ctx context.Context, cfg *config.Config) (repository.CatalogRepository, error) {
	switch cfg.Catalog.Source {
	case "firestore":
		// In Cloud Functions the project is auto-detected; the config value
		// covers the emulator.
		fsClient, err := firestore.NewClientWithDatabase(ctx, cfg.Catalog.ProjectID, cfg.Catalog.DatabaseID)
		if err != nil {
			return nil, fmt.Errorf("create firestore client: %w", err)
		}
		return repository.NewFirestoreRepository(fsClient, cfg.Catalog.Collection), nil
	case "file":
		return repository.NewFileRepository(cfg.Catalog.Path), nil
	default:
		return nil, fmt.Errorf("unknown catalog source %q", cfg.Catalog.Source)
	}
}
