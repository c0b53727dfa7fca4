package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/ogurasousui/codex-org-hierarchy/internal/core/employee"
	pgdb "github.com/ogurasousui/codex-org-hierarchy/internal/platform/db/postgres"
)

// ManagesEdgeRepository は manages_edges テーブルで上長→部下の辺を永続化します。
type ManagesEdgeRepository struct {
	pool pgdb.Queryer
	now  func() time.Time
}

var _ employee.EdgeStore = (*ManagesEdgeRepository)(nil)

// NewManagesEdgeRepository は ManagesEdgeRepository を生成します。
func NewManagesEdgeRepository(pool pgdb.Queryer) *ManagesEdgeRepository {
	return &ManagesEdgeRepository{
		pool: pool,
		now:  func() time.Time { return time.Now().UTC() },
	}
}

// AddEdge は subordinateID の入辺を managerID からの辺に置き換えます。
// managerID の祖先に subordinateID が含まれる場合は ErrCycleDetected を返します。
func (r *ManagesEdgeRepository) AddEdge(ctx context.Context, managerID, subordinateID string) error {
	if managerID == subordinateID {
		return employee.ErrSelfReference
	}

	exec := pgdb.QueryerFromContext(ctx, r.pool)

	var cyclic bool
	if err := exec.QueryRow(ctx, `
        WITH RECURSIVE ancestors(id) AS (
            SELECT manager_id FROM manages_edges WHERE subordinate_id = $1
            UNION
            SELECT e.manager_id FROM manages_edges e JOIN ancestors a ON e.subordinate_id = a.id
        )
        SELECT EXISTS (SELECT 1 FROM ancestors WHERE id = $2)
    `, managerID, subordinateID).Scan(&cyclic); err != nil {
		return translatePgError(err)
	}
	if cyclic {
		return employee.ErrCycleDetected
	}

	if _, err := exec.Exec(ctx, `DELETE FROM manages_edges WHERE subordinate_id = $1`, subordinateID); err != nil {
		return translatePgError(err)
	}

	if _, err := exec.Exec(ctx, `
        INSERT INTO manages_edges (manager_id, subordinate_id, created_at)
        VALUES ($1, $2, $3)
    `, managerID, subordinateID, r.now()); err != nil {
		return translatePgError(err)
	}
	return nil
}

// RemoveIncoming は subordinateID への入辺を削除します。
func (r *ManagesEdgeRepository) RemoveIncoming(ctx context.Context, subordinateID string) error {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	if _, err := exec.Exec(ctx, `DELETE FROM manages_edges WHERE subordinate_id = $1`, subordinateID); err != nil {
		return translatePgError(err)
	}
	return nil
}

// RemoveAllTouching は id が端点となる辺をすべて削除します。
func (r *ManagesEdgeRepository) RemoveAllTouching(ctx context.Context, id string) error {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	if _, err := exec.Exec(ctx, `DELETE FROM manages_edges WHERE manager_id = $1 OR subordinate_id = $1`, id); err != nil {
		return translatePgError(err)
	}
	return nil
}

// OutgoingTargets は直属の部下の ID を昇順で返します。
func (r *ManagesEdgeRepository) OutgoingTargets(ctx context.Context, managerID string) ([]string, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, `
        SELECT subordinate_id
          FROM manages_edges
         WHERE manager_id = $1
         ORDER BY subordinate_id
    `, managerID)
	if err != nil {
		return nil, translatePgError(err)
	}
	defer rows.Close()

	targets := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, translatePgError(err)
		}
		targets = append(targets, id)
	}
	if err := rows.Err(); err != nil {
		return nil, translatePgError(err)
	}
	return targets, nil
}

// IncomingSource は上長の ID を返します。
func (r *ManagesEdgeRepository) IncomingSource(ctx context.Context, subordinateID string) (string, bool, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)

	var managerID string
	err := exec.QueryRow(ctx, `
        SELECT manager_id
          FROM manages_edges
         WHERE subordinate_id = $1
    `, subordinateID).Scan(&managerID)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, translatePgError(err)
	}
	return managerID, true, nil
}

// ListEdges はすべての辺を (上長, 部下) の順で返します。
func (r *ManagesEdgeRepository) ListEdges(ctx context.Context) ([]employee.ManagesEdge, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, `
        SELECT manager_id, subordinate_id, created_at
          FROM manages_edges
         ORDER BY manager_id, subordinate_id
    `)
	if err != nil {
		return nil, translatePgError(err)
	}
	defer rows.Close()

	edges := make([]employee.ManagesEdge, 0)
	for rows.Next() {
		var edge employee.ManagesEdge
		if err := rows.Scan(&edge.ManagerID, &edge.SubordinateID, &edge.CreatedAt); err != nil {
			return nil, translatePgError(err)
		}
		edge.CreatedAt = edge.CreatedAt.UTC()
		edges = append(edges, edge)
	}
	if err := rows.Err(); err != nil {
		return nil, translatePgError(err)
	}
	return edges, nil
}
