package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/ogurasousui/codex-org-hierarchy/internal/platform/app"
	"github.com/ogurasousui/codex-org-hierarchy/internal/platform/config"
	"github.com/ogurasousui/codex-org-hierarchy/internal/platform/logging"
	"github.com/ogurasousui/codex-org-hierarchy/internal/platform/server"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Fatalf("failed to load .env: %v", err)
	}

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "assets/local.yaml"
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = run(ctx, cfg, logger)
	stop()
	if err != nil {
		logger.WithError(err).Fatal("server stopped with error")
	}
	logger.Info("server stopped")
}

// run はストアを開いて gRPC と /metrics を起動し、ctx のキャンセルまで待ちます。
// ストアは戻る前に必ず閉じられます。
func run(ctx context.Context, cfg *config.Config, logger logrus.FieldLogger) error {
	stores, err := app.OpenStores(ctx, cfg)
	if err != nil {
		return fmt.Errorf("initialize backing store: %w", err)
	}
	defer stores.Close()

	svc := app.NewService(stores, cfg.Engine, logger)
	grpcServer := server.New(cfg.Server.ListenAddr, svc, logger)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.WithFields(logrus.Fields{
			"addr":  cfg.Server.ListenAddr,
			"store": cfg.Engine.Store,
		}).Info("gRPC server listening")
		return grpcServer.Run(gctx)
	})

	if cfg.Server.MetricsAddr != "" {
		metricsServer := &http.Server{
			Addr:              cfg.Server.MetricsAddr,
			Handler:           metricsMux(),
			ReadHeaderTimeout: 5 * time.Second,
		}

		g.Go(func() error {
			logger.WithField("addr", cfg.Server.MetricsAddr).Info("metrics server listening")
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})

		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return metricsServer.Shutdown(shutdownCtx)
		})
	}

	return g.Wait()
}

func metricsMux() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}
