package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/valyala/fasthttp"

	"pair-engine/internal/config"
	"pair-engine/internal/handler"
	"pair-engine/internal/logging"
	"pair-engine/internal/parsing"
	"pair-engine/internal/store"
	"pair-engine/internal/telemetry"
)

// Multipart framing on top of the file itself.
const multipartOverhead = 64 * 1024

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Long:  "Start the HTTP API: POST /api/files/parse to upload, GET /api/analyze to analyze the last upload.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
}

func runServe(parent context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger := logging.Setup(cfg.Environment)

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	holding := store.New(ctx, cfg, logger)
	if closer, ok := holding.(interface{ Close() error }); ok {
		defer closer.Close()
	}

	h := handler.New(handler.Options{
		Parser:         &parsing.Parser{},
		Store:          holding,
		Metrics:        telemetry.New(),
		Logger:         logger,
		MaxUploadBytes: cfg.MaxUploadBytes(),
		CORSOrigin:     cfg.CORSOrigin,
	})

	srv := &fasthttp.Server{
		Handler:            h.Handle,
		Name:               "pair-engine",
		MaxRequestBodySize: cfg.MaxUploadBytes() + multipartOverhead,
		ReadTimeout:        30 * time.Second,
		WriteTimeout:       30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", cfg.Addr()).Str("env", cfg.Environment).Msg("pair engine listening")
		errCh <- srv.ListenAndServe(cfg.Addr())
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down gracefully...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}
	logger.Info().Msg("pair engine stopped")
	return nil
}
