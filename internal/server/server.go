// Package server boots the application: configuration, connections, the
// dependency graph, and the HTTP listener. Everything is wired explicitly
// here; no package-level singletons beyond the logger.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/dukaan/app/controllers"
	"github.com/shashiranjanraj/dukaan/app/repositories"
	"github.com/shashiranjanraj/dukaan/app/routes"
	"github.com/shashiranjanraj/dukaan/app/services"
	"github.com/shashiranjanraj/dukaan/config"
	"github.com/shashiranjanraj/dukaan/pkg/cache"
	"github.com/shashiranjanraj/dukaan/pkg/database"
	"github.com/shashiranjanraj/dukaan/pkg/logger"
	"github.com/shashiranjanraj/dukaan/pkg/metrics"
	"github.com/shashiranjanraj/dukaan/pkg/middleware"
	"github.com/shashiranjanraj/dukaan/pkg/reqid"
	"github.com/shashiranjanraj/dukaan/pkg/router"
	"github.com/shashiranjanraj/dukaan/pkg/storage"
)

// App holds the wired application.
type App struct {
	DB     *gorm.DB
	Cache  *cache.Cache
	Store  *storage.Manager
	Router *router.Router
}

// Build loads configuration, opens every connection and assembles the
// dependency graph. Redis being down degrades to an uncached app; the
// database is required.
func Build() (*App, error) {
	if err := config.Load(); err != nil {
		return nil, fmt.Errorf("server: load config: %w", err)
	}

	if uri := config.MongoLogURI(); uri != "" {
		if _, err := logger.EnableMongoSink(uri, config.MongoLogDatabase(), config.MongoLogCollection()); err != nil {
			logger.Warn("server: mongo log sink unavailable", "error", err)
		}
	}

	db, err := database.Connect()
	if err != nil {
		return nil, fmt.Errorf("server: connect database: %w", err)
	}

	c, err := cache.Connect()
	if err != nil {
		logger.Warn("server: redis unavailable, caching disabled", "error", err)
	}

	store, err := storage.Connect()
	if err != nil {
		return nil, fmt.Errorf("server: boot storage: %w", err)
	}

	return &App{
		DB:     db,
		Cache:  c,
		Store:  store,
		Router: buildRouter(db, c, store),
	}, nil
}

func buildRouter(db *gorm.DB, c *cache.Cache, store *storage.Manager) *router.Router {
	userRepo := repositories.NewUserRepository(db)
	categoryRepo := repositories.NewCategoryRepository(db)
	productRepo := repositories.NewProductRepository(db)
	cartRepo := repositories.NewCartRepository(db)
	orderRepo := repositories.NewOrderRepository(db)

	authz := services.NewAuthzService()
	inventory := services.NewInventoryService(productRepo)

	authSvc := services.NewAuthService(userRepo)
	userSvc := services.NewUserService(db, userRepo, cartRepo, authz)
	categorySvc := services.NewCategoryService(categoryRepo, authz, c)
	productSvc := services.NewProductService(productRepo, categoryRepo, authz, c, store)
	cartSvc := services.NewCartService(cartRepo, productRepo)
	orderSvc := services.NewOrderService(db, orderRepo, cartRepo, userRepo, inventory, authz)

	r := router.New()
	r.Use(
		metrics.Middleware(),
		reqid.Middleware(),
		middleware.Recovery,
		middleware.Logger,
		middleware.CORS(middleware.DefaultCORSOptions()),
		middleware.RateLimit(120, time.Minute),
	)

	r.Get("/healthz", "health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok")) //nolint:errcheck
	})
	r.Get("/metrics", "metrics", metrics.Handler())

	routes.RegisterAPI(r, routes.Controllers{
		Auth:     controllers.NewAuthController(authSvc, userSvc),
		Users:    controllers.NewUserController(userSvc),
		Category: controllers.NewCategoryController(categorySvc),
		Product:  controllers.NewProductController(productSvc),
		Cart:     controllers.NewCartController(cartSvc),
		Order:    controllers.NewOrderController(orderSvc),
	})

	return r
}

// Start builds the app and serves HTTP until SIGINT/SIGTERM, then drains
// in-flight requests.
func Start() error {
	app, err := Build()
	if err != nil {
		return err
	}

	addr := ":" + config.AppPort()
	srv := &http.Server{
		Addr:              addr,
		Handler:           app.Router.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server: listening", "addr", addr, "env", config.AppEnv())
		errCh <- srv.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case sig := <-stop:
		logger.Info("server: shutting down", "signal", sig.String())
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	}
}
