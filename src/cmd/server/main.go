package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/api-sage/banking-ledger/src/internal/app"
	"github.com/api-sage/banking-ledger/src/internal/config"
	"github.com/api-sage/banking-ledger/src/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	if err := logger.SetLevel(cfg.LogLevel); err != nil {
		log.Fatalf("set log level: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		logger.Error("server stopped with error", err, nil)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config) error {
	bootCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	injector, err := app.BootstrapServices(bootCtx, cfg)
	if err != nil {
		return err
	}

	return injector(func(handler http.Handler, storage *app.Storage) error {
		defer func() {
			if err := storage.Close(); err != nil {
				logger.Error("close storage failed", err, nil)
			}
		}()

		server := &http.Server{
			Addr:              cfg.HTTPAddr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		}

		group, groupCtx := errgroup.WithContext(ctx)

		group.Go(func() error {
			logger.Info("http server listening", logger.Fields{
				"addr":   cfg.HTTPAddr,
				"driver": cfg.DatabaseDriver,
			})
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return errors.Wrap(err, "listen and serve")
			}
			return nil
		})

		group.Go(func() error {
			<-groupCtx.Done()
			logger.Info("http server shutting down", logger.Fields{
				"timeout": cfg.ShutdownTimeout.String(),
			})

			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		})

		return group.Wait()
	})
}
