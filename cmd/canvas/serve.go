package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/tfcanvas/canvas/internal/api"
	"github.com/tfcanvas/canvas/internal/events"
	"github.com/tfcanvas/canvas/internal/graph"
	"github.com/tfcanvas/canvas/internal/importer"
	"github.com/tfcanvas/canvas/internal/workspace"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		cat, err := loadCatalog(ctx)
		if err != nil {
			return err
		}

		var publisher events.Publisher
		if cfg.NATSURL != "" {
			pub, err := events.NewNATSPublisher(cfg.NATSURL)
			if err != nil {
				return err
			}
			publisher = pub
			log.Info("Events enabled.", "nats_url", cfg.NATSURL)
		} else {
			publisher = &events.NoopPublisher{}
			log.Info("Events disabled, CANVAS_NATS_URL is not set.")
		}
		defer publisher.Close()

		gh := importer.NewGitHub(cfg.GitHub.APIURL, cfg.GitHub.Token)
		gh.Client.Timeout = cfg.GitHub.Timeout.Duration
		ws := workspace.New(workspace.Config{
			Catalog:   cat,
			Fetcher:   gh,
			Parser:    parserOptions(),
			Listeners: []graph.Listener{events.NewBridge(ctx, publisher)},
		})
		wsDone := make(chan struct{})
		go func() {
			defer close(wsDone)
			_ = ws.Run(ctx)
		}()

		handler := api.New(ws, log, api.Options{Parser: parserOptions(), Export: exportOptions(cat)})
		srv := &http.Server{
			Addr:              cfg.HTTPAddr,
			Handler:           handler.Router(),
			ReadHeaderTimeout: 15 * time.Second,
			IdleTimeout:       60 * time.Second,
		}

		serveErr := make(chan error, 1)
		go func() {
			log.Info("HTTP server listening.", "addr", cfg.HTTPAddr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				serveErr <- err
			}
			close(serveErr)
		}()

		select {
		case err := <-serveErr:
			if err != nil {
				return err
			}
		case <-ctx.Done():
		}

		log.Info("Shutting down.")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		err = srv.Shutdown(shutdownCtx)
		stop()
		<-wsDone
		return err
	},
}
