package employee

import (
	"context"
	"time"
)

// Field は NodeStore で検索・集計できる社員属性です。
type Field string

const (
	FieldEmployeeID Field = "employee_id"
	FieldEmail      Field = "email"
	FieldDepartment Field = "department"
)

// NodeStore は社員ノードの永続化の抽象です。関係 (辺) は扱いません。
type NodeStore interface {
	// Insert はノードを追加し、ストアが採番した ID を返します。
	// employee_id または正規化済み email が既に存在する場合は ErrDuplicateEmployeeID / ErrDuplicateEmail を返します。
	Insert(ctx context.Context, e *Employee) (string, error)
	Get(ctx context.Context, id string) (*Employee, error)
	FindByProperty(ctx context.Context, field Field, value string) (*Employee, error)
	// Update は patch を適用し、常に updated_at を更新します。
	Update(ctx context.Context, id string, patch Patch) (*Employee, error)
	// Delete はノードを無条件に削除します。辺の後始末は呼び出し側の責務です。
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter NodeFilter) ([]*Employee, error)
	// DistinctValues は空値を除いた重複なしの値を昇順 (大文字小文字を区別) で返します。
	DistinctValues(ctx context.Context, field Field) ([]string, error)
}

// EdgeStore は上長→部下の辺の永続化の抽象です。部下 1 人につき入辺は高々 1 本です。
type EdgeStore interface {
	// AddEdge は既存の入辺を外したうえで辺を追加します。
	AddEdge(ctx context.Context, managerID, subordinateID string) error
	RemoveIncoming(ctx context.Context, subordinateID string) error
	RemoveAllTouching(ctx context.Context, id string) error
	OutgoingTargets(ctx context.Context, managerID string) ([]string, error)
	// IncomingSource は上長の ID を返します。上長がいなければ ok=false です。
	IncomingSource(ctx context.Context, subordinateID string) (managerID string, ok bool, err error)
	ListEdges(ctx context.Context) ([]ManagesEdge, error)
}

// TransactionManager はトランザクション制御の抽象化です。
type TransactionManager interface {
	WithinReadOnly(ctx context.Context, fn func(context.Context) error) error
	WithinReadWrite(ctx context.Context, fn func(context.Context) error) error
}

// Patch は NodeStore.Update に渡す部分更新です。nil のフィールドは変更しません。
type Patch struct {
	FirstName  *string
	LastName   *string
	Email      *string
	Position   *string
	Department *string
	HireDate   *time.Time
	Salary     *float64
	IsActive   *bool
	UpdatedAt  time.Time
}

// NodeFilter は NodeStore.List の絞り込み条件です。
type NodeFilter struct {
	Department *string
	IsActive   *bool
}

// Matches は e が条件を満たすかを返します。
func (f NodeFilter) Matches(e *Employee) bool {
	if f.Department != nil && e.Department != *f.Department {
		return false
	}
	if f.IsActive != nil && e.IsActive != *f.IsActive {
		return false
	}
	return true
}
