package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/nikhilrana/saman/config"
	"github.com/nikhilrana/saman/internal/server"
	"github.com/nikhilrana/saman/pkg/cache"
	"github.com/nikhilrana/saman/pkg/database"
	"github.com/nikhilrana/saman/pkg/logger"
	"github.com/nikhilrana/saman/pkg/storage"
)

var serveCmd = &cobra.Command{
	Use:     "serve",
	Aliases: []string{"run", "start"},
	Short:   "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Load(); err != nil {
			return err
		}

		// Optional MongoDB log sink.
		var sinks []slog.Handler
		if uri := config.MongoLogURI(); uri != "" {
			mh, err := logger.NewMongoHandler(uri, config.MongoLogDatabase(), config.MongoLogCollection())
			if err != nil {
				logger.Warn("mongo log sink disabled", "error", err.Error())
			} else {
				defer mh.Close() //nolint:errcheck
				sinks = append(sinks, mh)
			}
		}
		logger.Setup(sinks...)

		db, err := database.Connect()
		if err != nil {
			return err
		}

		store, err := cache.Connect()
		if err != nil {
			logger.Warn("cache unavailable, serving without it", "error", err.Error())
		}

		disk := storage.Connect()

		return server.Start(server.BuildHandler(db, store, disk))
	},
}
