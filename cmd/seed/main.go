package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/ogurasousui/codex-org-hierarchy/internal/platform/app"
	"github.com/ogurasousui/codex-org-hierarchy/internal/platform/config"
	"github.com/ogurasousui/codex-org-hierarchy/internal/platform/logging"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to config file (defaults to CONFIG_PATH env or assets/local.yaml)")
		seedPath   = flag.String("file", "assets/seeds/employees.yaml", "seed file")
	)
	flag.Parse()

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Fatalf("failed to load .env: %v", err)
	}

	cfgPath := *configPath
	if cfgPath == "" {
		cfgPath = os.Getenv("CONFIG_PATH")
	}
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
	err = run(ctx, cfg, *seedPath, logger)
	stop()
	if err != nil {
		logger.WithError(err).Fatal("seed failed")
	}
}

// run はシードファイルを読み込んでストアへ投入します。ストアは戻る前に閉じられます。
func run(ctx context.Context, cfg *config.Config, seedPath string, logger logrus.FieldLogger) error {
	f, err := loadSeedFile(seedPath)
	if err != nil {
		return err
	}

	stores, err := app.OpenStores(ctx, cfg)
	if err != nil {
		return fmt.Errorf("initialize backing store: %w", err)
	}
	defer stores.Close()

	svc := app.NewService(stores, cfg.Engine, logger)
	if err := apply(ctx, svc, f, logger); err != nil {
		return err
	}

	logger.WithField("employees", len(f.Employees)).Info("seed completed")
	return nil
}
