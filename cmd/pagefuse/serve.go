package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/pagefuse/pagefuse/config"
	"github.com/pagefuse/pagefuse/inline"
	"github.com/pagefuse/pagefuse/server"
)

func newServeCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the pagefuse HTTP service",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			return runServe(cfg)
		},
	}
}

func runServe(cfg *config.Config) error {
	logger := newLogger(cfg)

	combiner := inline.NewCombiner(inline.Options{
		FetchTimeout:      cfg.FetchTimeout(),
		UserAgent:         cfg.Fetch.UserAgent,
		MaxAssetSize:      cfg.Fetch.MaxAssetSize,
		MaxConcurrent:     cfg.Fetch.MaxConcurrent,
		BlockPrivateHosts: cfg.Fetch.BlockPrivateHosts,
		Logger:            logger,
	})

	srv := &http.Server{
		Addr:              cfg.Server.Listen,
		Handler:           server.New(cfg, combiner, logger).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("pagefuse listening", "addr", cfg.Server.Listen)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
