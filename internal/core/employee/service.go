package employee

import (
	"context"
	"errors"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Clock は現在時刻を提供します。
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now().UTC()
}

type noopTransactionManager struct{}

func (noopTransactionManager) WithinReadOnly(ctx context.Context, fn func(context.Context) error) error {
	if fn == nil {
		return nil
	}
	return fn(ctx)
}

func (noopTransactionManager) WithinReadWrite(ctx context.Context, fn func(context.Context) error) error {
	if fn == nil {
		return nil
	}
	return fn(ctx)
}

const (
	defaultOperationTimeout = 5 * time.Second
	defaultMaxTraversal     = 100000
)

// Config は Service の動作設定です。ゼロ値のフィールドには既定値が使われます。
type Config struct {
	Logger           logrus.FieldLogger
	OperationTimeout time.Duration
	// MaxTraversal は循環検出で辿る社員数の上限です。
	MaxTraversal int
}

// Service は組織階層の変更と参照をまとめるエンジンです。
// 上長関係を変更する操作は 1 つの書き込みロックで直列化されます。
type Service struct {
	nodes  NodeStore
	edges  EdgeStore
	tx     TransactionManager
	clock  Clock
	log    logrus.FieldLogger
	forest *TreeBuilder
	index  *QueryIndex

	timeout      time.Duration
	maxTraversal int
	writer       chan struct{}
}

// UseCase は社員階層ユースケースの公開インターフェースです。
type UseCase interface {
	CreateEmployee(ctx context.Context, in CreateEmployeeInput) (*View, error)
	GetEmployee(ctx context.Context, in GetEmployeeInput) (*View, error)
	ListEmployees(ctx context.Context, in ListEmployeesInput) ([]*View, error)
	UpdateEmployee(ctx context.Context, in UpdateEmployeeInput) (*View, error)
	DeleteEmployee(ctx context.Context, in DeleteEmployeeInput) error
	SetManager(ctx context.Context, in SetManagerInput) (*View, error)
	GetHierarchyForest(ctx context.Context, in GetHierarchyForestInput) ([]*HierarchyTree, error)
	GetDepartments(ctx context.Context) ([]string, error)
	GetManagers(ctx context.Context) ([]*Employee, error)
}

// NewService は Service を生成します。clock と tx は nil なら既定実装を使います。
func NewService(nodes NodeStore, edges EdgeStore, tx TransactionManager, clock Clock, cfg Config) *Service {
	if clock == nil {
		clock = realClock{}
	}
	if tx == nil {
		tx = noopTransactionManager{}
	}
	log := cfg.Logger
	if log == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		log = discard
	}
	timeout := cfg.OperationTimeout
	if timeout <= 0 {
		timeout = defaultOperationTimeout
	}
	maxTraversal := cfg.MaxTraversal
	if maxTraversal <= 0 {
		maxTraversal = defaultMaxTraversal
	}
	return &Service{
		nodes:        nodes,
		edges:        edges,
		tx:           tx,
		clock:        clock,
		log:          log,
		forest:       NewTreeBuilder(nodes, edges),
		index:        NewQueryIndex(nodes, edges),
		timeout:      timeout,
		maxTraversal: maxTraversal,
		writer:       make(chan struct{}, 1),
	}
}

// CreateEmployeeInput は社員作成時の入力です。
type CreateEmployeeInput struct {
	EmployeeID string
	FirstName  string
	LastName   string
	Email      string
	Position   string
	Department string
	Salary     float64
	HireDate   *time.Time
	ManagerID  string
}

// UpdateEmployeeInput は社員更新時の入力です。ManagerIDSet が true の場合のみ上長を変更します。
type UpdateEmployeeInput struct {
	ID           string
	FirstName    *string
	LastName     *string
	Email        *string
	Position     *string
	Department   *string
	Salary       *float64
	HireDate     *time.Time
	IsActive     *bool
	ManagerID    *string
	ManagerIDSet bool
}

// SetManagerInput は上長変更の入力です。ManagerID が空なら上長を外します。
type SetManagerInput struct {
	EmployeeID string
	ManagerID  string
}

// DeleteEmployeeInput は社員削除時の入力です。
type DeleteEmployeeInput struct {
	ID string
}

// GetEmployeeInput は社員取得時の入力です。
type GetEmployeeInput struct {
	ID string
}

// ListEmployeesInput は一覧取得時の入力です。ManagerID 指定時は直属の部下のみを返します。
type ListEmployeesInput struct {
	Department *string
	IsActive   *bool
	ManagerID  *string
}

// GetHierarchyForestInput は組織ツリー取得時の入力です。
type GetHierarchyForestInput struct {
	ActiveOnly bool
}

// CreateEmployee は社員を作成し、指定があれば上長を設定します。
func (s *Service) CreateEmployee(ctx context.Context, in CreateEmployeeInput) (*View, error) {
	const op = "create"

	emp, err := in.normalize(s.clock.Now())
	if err != nil {
		return nil, s.fail(op, err)
	}
	managerID, err := normalizeOptionalID(in.ManagerID)
	if err != nil {
		return nil, s.fail(op, err)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	unlock, err := s.lock(ctx)
	if err != nil {
		return nil, s.fail(op, err)
	}
	defer unlock()

	var created *View
	err = s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		if err := s.ensureNotExists(txCtx, FieldEmployeeID, emp.EmployeeID, ErrDuplicateEmployeeID); err != nil {
			return err
		}
		if err := s.ensureNotExists(txCtx, FieldEmail, emp.Email, ErrDuplicateEmail); err != nil {
			return err
		}
		if managerID != "" {
			if _, err := s.getManager(txCtx, managerID); err != nil {
				return err
			}
		}

		id, err := s.nodes.Insert(txCtx, emp)
		if err != nil {
			return err
		}

		if managerID != "" {
			if err := s.setManagerLocked(txCtx, id, managerID); err != nil {
				return err
			}
		}

		created, err = s.view(txCtx, id)
		return err
	})
	if err != nil {
		return nil, s.fail(op, err)
	}

	s.succeed(op, created.ID, managerID)
	return created, nil
}

// GetEmployee は上長と直属の部下を解決した社員を取得します。
func (s *Service) GetEmployee(ctx context.Context, in GetEmployeeInput) (*View, error) {
	id, err := normalizeID(in.ID)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var result *View
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		found, err := s.view(txCtx, id)
		if err != nil {
			return err
		}
		result = found
		return nil
	}); err != nil {
		return nil, storeError(err)
	}

	return result, nil
}

// ListEmployees は条件に合う社員を (名, 姓) の大文字小文字を無視した順で返します。
func (s *Service) ListEmployees(ctx context.Context, in ListEmployeesInput) ([]*View, error) {
	var managerID string
	if in.ManagerID != nil {
		id, err := normalizeID(*in.ManagerID)
		if err != nil {
			return nil, err
		}
		managerID = id
	}
	filter := NodeFilter{Department: in.Department, IsActive: in.IsActive}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var result []*View
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		all, err := s.nodes.List(txCtx, NodeFilter{})
		if err != nil {
			return err
		}
		edges, err := s.edges.ListEdges(txCtx)
		if err != nil {
			return err
		}

		g := newSnapshot(all, edges)
		matched := make([]*Employee, 0, len(all))
		for _, e := range all {
			if !filter.Matches(e) {
				continue
			}
			if in.ManagerID != nil && g.managerOf[e.ID] != managerID {
				continue
			}
			matched = append(matched, e)
		}
		sortEmployees(matched)

		result = make([]*View, 0, len(matched))
		for _, e := range matched {
			result = append(result, g.view(e))
		}
		return nil
	}); err != nil {
		return nil, storeError(err)
	}

	return result, nil
}

// UpdateEmployee は社員の属性を更新し、必要に応じて上長を付け替えます。
func (s *Service) UpdateEmployee(ctx context.Context, in UpdateEmployeeInput) (*View, error) {
	const op = "update"

	id, err := normalizeID(in.ID)
	if err != nil {
		return nil, s.fail(op, err)
	}
	patch, err := in.patch(s.clock.Now())
	if err != nil {
		return nil, s.fail(op, err)
	}
	var managerID string
	if in.ManagerIDSet && in.ManagerID != nil {
		managerID, err = normalizeOptionalID(*in.ManagerID)
		if err != nil {
			return nil, s.fail(op, err)
		}
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	unlock, err := s.lock(ctx)
	if err != nil {
		return nil, s.fail(op, err)
	}
	defer unlock()

	var updated *View
	err = s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		existing, err := s.getEmployee(txCtx, id)
		if err != nil {
			return err
		}

		if patch.Email != nil && *patch.Email != existing.Email {
			if err := s.ensureNotExists(txCtx, FieldEmail, *patch.Email, ErrDuplicateEmail); err != nil {
				return err
			}
		}

		if in.ManagerIDSet {
			current, _, err := s.edges.IncomingSource(txCtx, id)
			if err != nil {
				return err
			}
			if current != managerID {
				if err := s.setManagerLocked(txCtx, id, managerID); err != nil {
					return err
				}
			}
		}

		if _, err := s.nodes.Update(txCtx, id, patch); err != nil {
			return err
		}

		updated, err = s.view(txCtx, id)
		return err
	})
	if err != nil {
		return nil, s.fail(op, err)
	}

	s.succeed(op, id, updated.ManagerID())
	return updated, nil
}

// SetManager は社員の上長を設定します。ManagerID が空なら上長を外します。
func (s *Service) SetManager(ctx context.Context, in SetManagerInput) (*View, error) {
	const op = "set_manager"

	id, err := normalizeID(in.EmployeeID)
	if err != nil {
		return nil, s.fail(op, err)
	}
	managerID, err := normalizeOptionalID(in.ManagerID)
	if err != nil {
		return nil, s.fail(op, err)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	unlock, err := s.lock(ctx)
	if err != nil {
		return nil, s.fail(op, err)
	}
	defer unlock()

	var result *View
	err = s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		if err := s.setManagerLocked(txCtx, id, managerID); err != nil {
			return err
		}
		found, err := s.view(txCtx, id)
		if err != nil {
			return err
		}
		result = found
		return nil
	})
	if err != nil {
		return nil, s.fail(op, err)
	}

	s.succeed(op, id, managerID)
	return result, nil
}

// DeleteEmployee は社員を削除します。直属の部下は削除される社員の上長へ付け替えられ、
// 上長がいなければ新しいルートになります。
func (s *Service) DeleteEmployee(ctx context.Context, in DeleteEmployeeInput) error {
	const op = "delete"

	id, err := normalizeID(in.ID)
	if err != nil {
		return s.fail(op, err)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	unlock, err := s.lock(ctx)
	if err != nil {
		return s.fail(op, err)
	}
	defer unlock()

	var grandparent string
	err = s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		if _, err := s.getEmployee(txCtx, id); err != nil {
			return err
		}

		// 変更前に関係を確定させる
		managerID, hasManager, err := s.edges.IncomingSource(txCtx, id)
		if err != nil {
			return err
		}
		subordinates, err := s.edges.OutgoingTargets(txCtx, id)
		if err != nil {
			return err
		}

		for _, sub := range subordinates {
			if err := s.edges.RemoveIncoming(txCtx, sub); err != nil {
				return err
			}
			if !hasManager {
				continue
			}
			if err := s.setManagerLocked(txCtx, sub, managerID); err != nil {
				return err
			}
		}

		if err := s.edges.RemoveAllTouching(txCtx, id); err != nil {
			return err
		}
		if err := s.nodes.Delete(txCtx, id); err != nil {
			return err
		}
		grandparent = managerID
		return nil
	})
	if err != nil {
		return s.fail(op, err)
	}

	s.succeed(op, id, grandparent)
	return nil
}

// GetHierarchyForest は上長のいない社員をルートとする組織ツリーの森を返します。
func (s *Service) GetHierarchyForest(ctx context.Context, in GetHierarchyForestInput) ([]*HierarchyTree, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var forest []*HierarchyTree
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		var err error
		forest, err = s.forest.BuildForest(txCtx, ForestOptions{ActiveOnly: in.ActiveOnly})
		return err
	}); err != nil {
		return nil, storeError(err)
	}
	return forest, nil
}

// GetDepartments は部署名の一覧を返します。
func (s *Service) GetDepartments(ctx context.Context) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	departments, err := s.index.Departments(ctx)
	if err != nil {
		return nil, storeError(err)
	}
	return departments, nil
}

// GetManagers は部下を 1 人以上持つ社員の一覧を返します。
func (s *Service) GetManagers(ctx context.Context) ([]*Employee, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var managers []*Employee
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		var err error
		managers, err = s.index.Managers(txCtx)
		return err
	}); err != nil {
		return nil, storeError(err)
	}
	return managers, nil
}

// setManagerLocked は上長関係を変更する唯一の経路です。書き込みロック取得済みで呼び出します。
func (s *Service) setManagerLocked(ctx context.Context, id, managerID string) error {
	if managerID == "" {
		if _, err := s.getEmployee(ctx, id); err != nil {
			return err
		}
		return s.edges.RemoveIncoming(ctx, id)
	}

	if id == managerID {
		return ErrSelfReference
	}
	if _, err := s.getEmployee(ctx, id); err != nil {
		return err
	}
	if _, err := s.getManager(ctx, managerID); err != nil {
		return err
	}

	current, ok, err := s.edges.IncomingSource(ctx, id)
	if err != nil {
		return err
	}
	if ok && current == managerID {
		return nil
	}

	descendant, err := s.isDescendant(ctx, id, managerID)
	if err != nil {
		return err
	}
	if descendant {
		return ErrCycleDetected
	}

	return s.edges.AddEdge(ctx, managerID, id)
}

// isDescendant は root から部下方向に辿って target に到達するかを返します。
func (s *Service) isDescendant(ctx context.Context, root, target string) (bool, error) {
	visited := map[string]struct{}{root: {}}
	queue := []string{root}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		children, err := s.edges.OutgoingTargets(ctx, current)
		if err != nil {
			return false, err
		}
		for _, child := range children {
			if child == target {
				return true, nil
			}
			if _, seen := visited[child]; seen {
				continue
			}
			if len(visited) >= s.maxTraversal {
				return false, ErrTraversalLimit
			}
			visited[child] = struct{}{}
			queue = append(queue, child)
		}
	}

	return false, nil
}

func (s *Service) ensureNotExists(ctx context.Context, field Field, value string, conflict error) error {
	found, err := s.nodes.FindByProperty(ctx, field, value)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}
	if found != nil {
		return conflict
	}
	return nil
}

func (s *Service) getEmployee(ctx context.Context, id string) (*Employee, error) {
	found, err := s.nodes.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrEmployeeNotFound
		}
		return nil, err
	}
	return found, nil
}

func (s *Service) getManager(ctx context.Context, id string) (*Employee, error) {
	found, err := s.nodes.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrManagerNotFound
		}
		return nil, err
	}
	return found, nil
}

// view は社員と上長・直属の部下を解決します。解決できない参照は読み飛ばします。
func (s *Service) view(ctx context.Context, id string) (*View, error) {
	emp, err := s.getEmployee(ctx, id)
	if err != nil {
		return nil, err
	}

	v := &View{Employee: *emp, Subordinates: []Summary{}}

	managerID, ok, err := s.edges.IncomingSource(ctx, id)
	if err != nil {
		return nil, err
	}
	if ok {
		manager, err := s.nodes.Get(ctx, managerID)
		switch {
		case err == nil:
			summary := summarize(manager)
			v.Manager = &summary
		case !errors.Is(err, ErrNotFound):
			return nil, err
		}
	}

	subordinateIDs, err := s.edges.OutgoingTargets(ctx, id)
	if err != nil {
		return nil, err
	}
	subordinates := make([]*Employee, 0, len(subordinateIDs))
	for _, subID := range subordinateIDs {
		sub, err := s.nodes.Get(ctx, subID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				continue
			}
			return nil, err
		}
		subordinates = append(subordinates, sub)
	}
	sortEmployees(subordinates)
	for _, sub := range subordinates {
		v.Subordinates = append(v.Subordinates, summarize(sub))
	}

	return v, nil
}

func (s *Service) lock(ctx context.Context) (func(), error) {
	select {
	case s.writer <- struct{}{}:
		return func() { <-s.writer }, nil
	case <-ctx.Done():
		return nil, Unavailable(ctx.Err())
	}
}

func (s *Service) succeed(op, id, managerID string) {
	recordMutation(op, nil)
	s.log.WithFields(logrus.Fields{
		"op":          op,
		"employee_id": id,
		"manager_id":  managerID,
	}).Info("hierarchy mutation applied")
}

func (s *Service) fail(op string, err error) error {
	err = storeError(err)
	recordMutation(op, err)
	entry := s.log.WithFields(logrus.Fields{"op": op, "reason": rejectionReason(err)})
	if errors.Is(err, ErrBackingStoreUnavailable) {
		entry.WithError(err).Error("hierarchy mutation failed")
	} else {
		entry.WithError(err).Warn("hierarchy mutation rejected")
	}
	return err
}

// storeError はタイムアウトやキャンセルを ErrBackingStoreUnavailable に変換します。
func storeError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return Unavailable(err)
	}
	return err
}

// sortEmployees は (名, 姓) を大文字小文字を無視して並べ、同名は ID 順にします。
func sortEmployees(list []*Employee) {
	sort.SliceStable(list, func(i, j int) bool {
		fi, fj := strings.ToLower(list[i].FirstName), strings.ToLower(list[j].FirstName)
		if fi != fj {
			return fi < fj
		}
		li, lj := strings.ToLower(list[i].LastName), strings.ToLower(list[j].LastName)
		if li != lj {
			return li < lj
		}
		return list[i].ID < list[j].ID
	})
}
