// Package app は設定からバックエンドストアと階層エンジンを組み立てます。
package app

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/ogurasousui/codex-org-hierarchy/internal/adapters/repository/memory"
	"github.com/ogurasousui/codex-org-hierarchy/internal/adapters/repository/postgres"
	"github.com/ogurasousui/codex-org-hierarchy/internal/core/employee"
	"github.com/ogurasousui/codex-org-hierarchy/internal/platform/config"
	pg "github.com/ogurasousui/codex-org-hierarchy/internal/platform/db/postgres"
)

// Stores は階層エンジンに注入するストア一式です。
type Stores struct {
	Nodes employee.NodeStore
	Edges employee.EdgeStore
	Tx    employee.TransactionManager

	closeFn func()
}

// Close は接続などのリソースを解放します。
func (s *Stores) Close() {
	if s != nil && s.closeFn != nil {
		s.closeFn()
	}
}

// OpenStores は engine.store に応じてストアを生成します。
func OpenStores(ctx context.Context, cfg *config.Config) (*Stores, error) {
	switch cfg.Engine.Store {
	case config.StoreMemory:
		g := memory.NewGraph()
		return &Stores{Nodes: g, Edges: g, Tx: g}, nil
	case config.StorePostgres, "":
		pool, err := pg.NewPool(ctx, cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("app: open postgres: %w", err)
		}
		return &Stores{
			Nodes:   postgres.NewEmployeeRepository(pool),
			Edges:   postgres.NewManagesEdgeRepository(pool),
			Tx:      pg.NewTransactionManager(pool),
			closeFn: pool.Close,
		}, nil
	default:
		return nil, fmt.Errorf("app: unsupported store %q", cfg.Engine.Store)
	}
}

// NewService はストアとエンジン設定から階層エンジンを生成します。
func NewService(stores *Stores, cfg config.EngineConfig, logger logrus.FieldLogger) *employee.Service {
	return employee.NewService(stores.Nodes, stores.Edges, stores.Tx, nil, employee.Config{
		Logger:           logger,
		OperationTimeout: cfg.OperationTimeout,
		MaxTraversal:     cfg.MaxTraversal,
	})
}
