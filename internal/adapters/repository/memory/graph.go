package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/ogurasousui/codex-org-hierarchy/internal/core/employee"
)

type txContextKey struct{}

// Graph はプロセス内で社員ノードと上長辺を保持するストアです。
// employee.NodeStore / employee.EdgeStore / employee.TransactionManager を実装します。
type Graph struct {
	mu       sync.RWMutex
	nodes    map[string]*employee.Employee
	incoming map[string]employee.ManagesEdge
	outgoing map[string]map[string]struct{}

	txMu sync.Mutex
	now  func() time.Time
}

// NewGraph は空の Graph を生成します。
func NewGraph() *Graph {
	return &Graph{
		nodes:    make(map[string]*employee.Employee),
		incoming: make(map[string]employee.ManagesEdge),
		outgoing: make(map[string]map[string]struct{}),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Insert は社員ノードを追加し、UUID を採番します。
func (g *Graph) Insert(ctx context.Context, e *employee.Employee) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if e == nil {
		return "", fmt.Errorf("memory: employee is required")
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	for _, existing := range g.nodes {
		if existing.EmployeeID == e.EmployeeID {
			return "", employee.ErrDuplicateEmployeeID
		}
		if strings.EqualFold(existing.Email, e.Email) {
			return "", employee.ErrDuplicateEmail
		}
	}

	clone := cloneEmployee(e)
	clone.ID = uuid.NewString()
	g.nodes[clone.ID] = clone
	return clone.ID, nil
}

// Get は ID で社員ノードを取得します。
func (g *Graph) Get(ctx context.Context, id string) (*employee.Employee, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	g.mu.RLock()
	defer g.mu.RUnlock()

	found, ok := g.nodes[id]
	if !ok {
		return nil, employee.ErrEmployeeNotFound
	}
	return cloneEmployee(found), nil
}

// FindByProperty は employee_id / email / department の一致で検索します。email は大文字小文字を無視します。
func (g *Graph) FindByProperty(ctx context.Context, field employee.Field, value string) (*employee.Employee, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	g.mu.RLock()
	defer g.mu.RUnlock()

	for _, id := range g.sortedNodeIDs() {
		e := g.nodes[id]
		v, err := property(e, field)
		if err != nil {
			return nil, err
		}
		if v == value || (field == employee.FieldEmail && strings.EqualFold(v, value)) {
			return cloneEmployee(e), nil
		}
	}
	return nil, employee.ErrEmployeeNotFound
}

// Update は部分更新を適用し、updated_at を必ず更新します。
func (g *Graph) Update(ctx context.Context, id string, patch employee.Patch) (*employee.Employee, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	found, ok := g.nodes[id]
	if !ok {
		return nil, employee.ErrEmployeeNotFound
	}

	if patch.Email != nil {
		for otherID, other := range g.nodes {
			if otherID != id && strings.EqualFold(other.Email, *patch.Email) {
				return nil, employee.ErrDuplicateEmail
			}
		}
	}

	updated := cloneEmployee(found)
	applyPatch(updated, patch)
	g.nodes[id] = updated
	return cloneEmployee(updated), nil
}

// Delete は社員ノードを削除します。辺には触れません。
func (g *Graph) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.nodes[id]; !ok {
		return employee.ErrEmployeeNotFound
	}
	delete(g.nodes, id)
	return nil
}

// List は条件に合う社員ノードを ID 順で返します。
func (g *Graph) List(ctx context.Context, filter employee.NodeFilter) ([]*employee.Employee, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	g.mu.RLock()
	defer g.mu.RUnlock()

	out := make([]*employee.Employee, 0, len(g.nodes))
	for _, id := range g.sortedNodeIDs() {
		e := g.nodes[id]
		if !filter.Matches(e) {
			continue
		}
		out = append(out, cloneEmployee(e))
	}
	return out, nil
}

// DistinctValues は空値を除いた重複なしの値を昇順で返します。
func (g *Graph) DistinctValues(ctx context.Context, field employee.Field) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	g.mu.RLock()
	defer g.mu.RUnlock()

	set := make(map[string]struct{})
	for _, e := range g.nodes {
		v, err := property(e, field)
		if err != nil {
			return nil, err
		}
		if strings.TrimSpace(v) == "" {
			continue
		}
		set[v] = struct{}{}
	}

	out := make([]string, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Strings(out)
	return out, nil
}

// AddEdge は subordinateID の既存の入辺を置き換えて managerID からの辺を張ります。
func (g *Graph) AddEdge(ctx context.Context, managerID, subordinateID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if managerID == subordinateID {
		return employee.ErrSelfReference
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.nodes[subordinateID]; !ok {
		return employee.ErrEmployeeNotFound
	}
	if _, ok := g.nodes[managerID]; !ok {
		return employee.ErrManagerNotFound
	}

	// managerID の祖先に subordinateID がいれば循環する
	for cursor, steps := managerID, 0; steps <= len(g.incoming); steps++ {
		edge, ok := g.incoming[cursor]
		if !ok {
			break
		}
		if edge.ManagerID == subordinateID {
			return employee.ErrCycleDetected
		}
		cursor = edge.ManagerID
	}

	g.unlinkIncoming(subordinateID)
	g.incoming[subordinateID] = employee.ManagesEdge{
		ManagerID:     managerID,
		SubordinateID: subordinateID,
		CreatedAt:     g.now(),
	}
	children, ok := g.outgoing[managerID]
	if !ok {
		children = make(map[string]struct{})
		g.outgoing[managerID] = children
	}
	children[subordinateID] = struct{}{}
	return nil
}

// RemoveIncoming は subordinateID への入辺を削除します。存在しなければ何もしません。
func (g *Graph) RemoveIncoming(ctx context.Context, subordinateID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	g.unlinkIncoming(subordinateID)
	return nil
}

// RemoveAllTouching は id を始点または終点とする辺をすべて削除します。
func (g *Graph) RemoveAllTouching(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	g.unlinkIncoming(id)
	for child := range g.outgoing[id] {
		delete(g.incoming, child)
	}
	delete(g.outgoing, id)
	return nil
}

// OutgoingTargets は直属の部下の ID を昇順で返します。
func (g *Graph) OutgoingTargets(ctx context.Context, managerID string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	g.mu.RLock()
	defer g.mu.RUnlock()

	out := make([]string, 0, len(g.outgoing[managerID]))
	for child := range g.outgoing[managerID] {
		out = append(out, child)
	}
	sort.Strings(out)
	return out, nil
}

// IncomingSource は上長の ID を返します。
func (g *Graph) IncomingSource(ctx context.Context, subordinateID string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}

	g.mu.RLock()
	defer g.mu.RUnlock()

	edge, ok := g.incoming[subordinateID]
	if !ok {
		return "", false, nil
	}
	return edge.ManagerID, true, nil
}

// ListEdges はすべての辺を (上長, 部下) の順で返します。
func (g *Graph) ListEdges(ctx context.Context) ([]employee.ManagesEdge, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	g.mu.RLock()
	defer g.mu.RUnlock()

	out := make([]employee.ManagesEdge, 0, len(g.incoming))
	for _, edge := range g.incoming {
		out = append(out, edge)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ManagerID != out[j].ManagerID {
			return out[i].ManagerID < out[j].ManagerID
		}
		return out[i].SubordinateID < out[j].SubordinateID
	})
	return out, nil
}

// WithinReadOnly は fn をそのまま実行します。
func (g *Graph) WithinReadOnly(ctx context.Context, fn func(context.Context) error) error {
	if fn == nil {
		return fmt.Errorf("memory: transaction function is required")
	}
	return fn(ctx)
}

// WithinReadWrite は fn の実行前に状態を退避し、fn がエラーを返した場合は退避した状態に戻します。
// ネストした呼び出しは外側のトランザクションに合流します。
func (g *Graph) WithinReadWrite(ctx context.Context, fn func(context.Context) error) error {
	if fn == nil {
		return fmt.Errorf("memory: transaction function is required")
	}
	if _, ok := ctx.Value(txContextKey{}).(bool); ok {
		return fn(ctx)
	}

	g.txMu.Lock()
	defer g.txMu.Unlock()

	saved := g.snapshot()
	if err := fn(context.WithValue(ctx, txContextKey{}, true)); err != nil {
		g.restore(saved)
		return err
	}
	return nil
}

type state struct {
	nodes    map[string]*employee.Employee
	incoming map[string]employee.ManagesEdge
	outgoing map[string]map[string]struct{}
}

func (g *Graph) snapshot() state {
	g.mu.RLock()
	defer g.mu.RUnlock()

	s := state{
		nodes:    make(map[string]*employee.Employee, len(g.nodes)),
		incoming: make(map[string]employee.ManagesEdge, len(g.incoming)),
		outgoing: make(map[string]map[string]struct{}, len(g.outgoing)),
	}
	for id, e := range g.nodes {
		s.nodes[id] = cloneEmployee(e)
	}
	for id, edge := range g.incoming {
		s.incoming[id] = edge
	}
	for id, children := range g.outgoing {
		copied := make(map[string]struct{}, len(children))
		for child := range children {
			copied[child] = struct{}{}
		}
		s.outgoing[id] = copied
	}
	return s
}

func (g *Graph) restore(s state) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.nodes = s.nodes
	g.incoming = s.incoming
	g.outgoing = s.outgoing
}

func (g *Graph) unlinkIncoming(subordinateID string) {
	edge, ok := g.incoming[subordinateID]
	if !ok {
		return
	}
	delete(g.incoming, subordinateID)
	if children, ok := g.outgoing[edge.ManagerID]; ok {
		delete(children, subordinateID)
		if len(children) == 0 {
			delete(g.outgoing, edge.ManagerID)
		}
	}
}

func (g *Graph) sortedNodeIDs() []string {
	ids := make([]string, 0, len(g.nodes))
	for id := range g.nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func property(e *employee.Employee, field employee.Field) (string, error) {
	switch field {
	case employee.FieldEmployeeID:
		return e.EmployeeID, nil
	case employee.FieldEmail:
		return e.Email, nil
	case employee.FieldDepartment:
		return e.Department, nil
	default:
		return "", fmt.Errorf("%w: %s", employee.ErrInvalidField, field)
	}
}

func applyPatch(e *employee.Employee, p employee.Patch) {
	if p.FirstName != nil {
		e.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		e.LastName = *p.LastName
	}
	if p.Email != nil {
		e.Email = *p.Email
	}
	if p.Position != nil {
		e.Position = *p.Position
	}
	if p.Department != nil {
		e.Department = *p.Department
	}
	if p.HireDate != nil {
		e.HireDate = *p.HireDate
	}
	if p.Salary != nil {
		e.Salary = *p.Salary
	}
	if p.IsActive != nil {
		e.IsActive = *p.IsActive
	}
	e.UpdatedAt = p.UpdatedAt
}

func cloneEmployee(e *employee.Employee) *employee.Employee {
	if e == nil {
		return nil
	}
	clone := *e
	return &clone
}
