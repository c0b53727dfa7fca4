package employee

import (
	"context"
	"errors"
)

// QueryIndex は部署一覧や管理職一覧など、派生した参照ビューを都度計算します。
type QueryIndex struct {
	nodes NodeStore
	edges EdgeStore
}

// NewQueryIndex は QueryIndex を生成します。
func NewQueryIndex(nodes NodeStore, edges EdgeStore) *QueryIndex {
	return &QueryIndex{nodes: nodes, edges: edges}
}

// Departments は重複のない部署名を昇順で返します。
func (q *QueryIndex) Departments(ctx context.Context) ([]string, error) {
	departments, err := q.nodes.DistinctValues(ctx, FieldDepartment)
	if err != nil {
		return nil, err
	}
	if departments == nil {
		departments = []string{}
	}
	return departments, nil
}

// Managers は出辺を 1 本以上持つ社員を返します。解決できなくなった ID は除外します。
func (q *QueryIndex) Managers(ctx context.Context) ([]*Employee, error) {
	edges, err := q.edges.ListEdges(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(edges))
	managers := make([]*Employee, 0, len(edges))
	for _, edge := range edges {
		if _, ok := seen[edge.ManagerID]; ok {
			continue
		}
		seen[edge.ManagerID] = struct{}{}

		manager, err := q.nodes.Get(ctx, edge.ManagerID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				continue
			}
			return nil, err
		}
		managers = append(managers, manager)
	}

	sortEmployees(managers)
	return managers, nil
}
