// Package server assembles the middleware stack and owns the HTTP
// listener's lifecycle.
package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"gorm.io/gorm"

	"github.com/nikhilrana/saman/app/routes"
	"github.com/nikhilrana/saman/config"
	"github.com/nikhilrana/saman/pkg/cache"
	"github.com/nikhilrana/saman/pkg/logger"
	"github.com/nikhilrana/saman/pkg/metrics"
	"github.com/nikhilrana/saman/pkg/middleware"
	"github.com/nikhilrana/saman/pkg/reqid"
	"github.com/nikhilrana/saman/pkg/router"
	"github.com/nikhilrana/saman/pkg/storage"
)

// BuildHandler constructs the full HTTP handler: global middleware, the
// metrics endpoint, the local storage file server, and the API routes.
func BuildHandler(db *gorm.DB, store *cache.Store, disk storage.Disk) http.Handler {
	r := router.New()

	// Outermost to innermost: metrics sees total latency, recovery wraps
	// everything that can panic, request IDs exist before the first log line.
	r.Use(metrics.Middleware())
	r.Use(middleware.Recovery)
	r.Use(reqid.Middleware())
	r.Use(middleware.Logger)
	r.Use(chimw.StripSlashes)
	r.Use(middleware.CORS(middleware.DefaultCORSOptions()))
	r.Use(middleware.RateLimit(200, time.Minute))

	r.Get("/metrics", "metrics", metrics.Handler())

	// Serve locally stored uploads. With the s3 disk, image URLs point at the
	// bucket and this mount simply never matches anything.
	fileServer := http.StripPrefix("/storage/", http.FileServer(http.Dir(config.StorageLocalRoot())))
	r.Mount("/storage/", fileServer)

	routes.RegisterAPI(r, db, store, disk)
	return r.Handler()
}

// Start serves handler on the configured port until SIGINT/SIGTERM, then
// shuts down gracefully.
func Start(handler http.Handler) error {
	srv := &http.Server{
		Addr:              ":" + config.AppPort(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", srv.Addr, "env", config.AppEnv())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		logger.Info("shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}
