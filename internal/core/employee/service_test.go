package employee

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"testing"
	"time"
)

type stubClock struct {
	now time.Time
}

func (s *stubClock) Now() time.Time {
	return s.now
}

// fakeGraph は NodeStore と EdgeStore を兼ねる最小のテスト用実装です。
type fakeGraph struct {
	employees map[string]*Employee
	managerOf map[string]string
	sequence  int

	// failOn に一致する操作名でエラーを返します。
	failOn  string
	failErr error
}

func newFakeGraph() *fakeGraph {
	return &fakeGraph{
		employees: make(map[string]*Employee),
		managerOf: make(map[string]string),
	}
}

func (g *fakeGraph) fail(op string) error {
	if g.failOn == op {
		return g.failErr
	}
	return nil
}

func (g *fakeGraph) Insert(_ context.Context, e *Employee) (string, error) {
	if err := g.fail("insert"); err != nil {
		return "", err
	}
	g.sequence++
	id := fmt.Sprintf("00000000-0000-0000-0000-%012d", g.sequence)
	clone := *e
	clone.ID = id
	g.employees[id] = &clone
	return id, nil
}

func (g *fakeGraph) Get(_ context.Context, id string) (*Employee, error) {
	if err := g.fail("get"); err != nil {
		return nil, err
	}
	e, ok := g.employees[id]
	if !ok {
		return nil, ErrEmployeeNotFound
	}
	clone := *e
	return &clone, nil
}

func (g *fakeGraph) FindByProperty(_ context.Context, field Field, value string) (*Employee, error) {
	for _, e := range g.employees {
		switch field {
		case FieldEmployeeID:
			if e.EmployeeID == value {
				clone := *e
				return &clone, nil
			}
		case FieldEmail:
			if strings.EqualFold(e.Email, value) {
				clone := *e
				return &clone, nil
			}
		}
	}
	return nil, ErrEmployeeNotFound
}

func (g *fakeGraph) Update(_ context.Context, id string, p Patch) (*Employee, error) {
	e, ok := g.employees[id]
	if !ok {
		return nil, ErrEmployeeNotFound
	}
	if p.FirstName != nil {
		e.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		e.LastName = *p.LastName
	}
	if p.Email != nil {
		e.Email = *p.Email
	}
	if p.Department != nil {
		e.Department = *p.Department
	}
	if p.Salary != nil {
		e.Salary = *p.Salary
	}
	if p.IsActive != nil {
		e.IsActive = *p.IsActive
	}
	e.UpdatedAt = p.UpdatedAt
	clone := *e
	return &clone, nil
}

func (g *fakeGraph) Delete(_ context.Context, id string) error {
	if _, ok := g.employees[id]; !ok {
		return ErrEmployeeNotFound
	}
	delete(g.employees, id)
	return nil
}

func (g *fakeGraph) List(_ context.Context, filter NodeFilter) ([]*Employee, error) {
	if err := g.fail("list"); err != nil {
		return nil, err
	}
	out := make([]*Employee, 0, len(g.employees))
	for _, e := range g.employees {
		if filter.Matches(e) {
			clone := *e
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (g *fakeGraph) DistinctValues(_ context.Context, field Field) ([]string, error) {
	if field != FieldDepartment {
		return nil, ErrInvalidField
	}
	set := map[string]struct{}{}
	for _, e := range g.employees {
		if e.Department != "" {
			set[e.Department] = struct{}{}
		}
	}
	out := make([]string, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Strings(out)
	return out, nil
}

func (g *fakeGraph) AddEdge(_ context.Context, managerID, subordinateID string) error {
	if err := g.fail("add_edge"); err != nil {
		return err
	}
	g.managerOf[subordinateID] = managerID
	return nil
}

func (g *fakeGraph) RemoveIncoming(_ context.Context, subordinateID string) error {
	delete(g.managerOf, subordinateID)
	return nil
}

func (g *fakeGraph) RemoveAllTouching(_ context.Context, id string) error {
	delete(g.managerOf, id)
	for sub, manager := range g.managerOf {
		if manager == id {
			delete(g.managerOf, sub)
		}
	}
	return nil
}

func (g *fakeGraph) OutgoingTargets(_ context.Context, managerID string) ([]string, error) {
	var out []string
	for sub, manager := range g.managerOf {
		if manager == managerID {
			out = append(out, sub)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (g *fakeGraph) IncomingSource(_ context.Context, subordinateID string) (string, bool, error) {
	manager, ok := g.managerOf[subordinateID]
	return manager, ok, nil
}

func (g *fakeGraph) ListEdges(_ context.Context) ([]ManagesEdge, error) {
	if err := g.fail("list_edges"); err != nil {
		return nil, err
	}
	out := make([]ManagesEdge, 0, len(g.managerOf))
	for sub, manager := range g.managerOf {
		out = append(out, ManagesEdge{ManagerID: manager, SubordinateID: sub})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SubordinateID < out[j].SubordinateID })
	return out, nil
}

func newTestService(g *fakeGraph) *Service {
	clk := &stubClock{now: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	return NewService(g, g, nil, clk, Config{})
}

func mustCreate(t *testing.T, svc *Service, code, first, managerID string) *View {
	t.Helper()
	created, err := svc.CreateEmployee(context.Background(), CreateEmployeeInput{
		EmployeeID: code,
		FirstName:  first,
		LastName:   "Test",
		Email:      strings.ToLower(first) + "@example.com",
		Position:   "Engineer",
		Department: "Engineering",
		Salary:     1000,
		ManagerID:  managerID,
	})
	if err != nil {
		t.Fatalf("CreateEmployee(%s) returned error: %v", code, err)
	}
	return created
}

func TestService_CreateEmployee_Success(t *testing.T) {
	t.Parallel()

	g := newFakeGraph()
	svc := newTestService(g)

	hired := time.Date(2024, 12, 1, 9, 0, 0, 0, time.FixedZone("JST", 9*60*60))
	created, err := svc.CreateEmployee(context.Background(), CreateEmployeeInput{
		EmployeeID: " E001 ",
		FirstName:  " Taro ",
		LastName:   "  Yamada  ",
		Email:      " Taro.Yamada@Example.com ",
		Position:   "CEO",
		Department: "Executive",
		Salary:     150000,
		HireDate:   &hired,
	})
	if err != nil {
		t.Fatalf("CreateEmployee returned error: %v", err)
	}

	if created.EmployeeID != "E001" {
		t.Fatalf("expected trimmed employee id, got %q", created.EmployeeID)
	}
	if created.Email != "taro.yamada@example.com" {
		t.Fatalf("expected normalized email, got %q", created.Email)
	}
	if created.FirstName != "Taro" || created.LastName != "Yamada" {
		t.Fatalf("expected trimmed names, got %q %q", created.FirstName, created.LastName)
	}
	if !created.IsActive {
		t.Fatal("expected new employee to be active")
	}
	if created.HireDate.Location() != time.UTC || !created.HireDate.Equal(hired) {
		t.Fatalf("expected hire date normalized to UTC instant, got %v", created.HireDate)
	}
	if created.Manager != nil || len(created.Subordinates) != 0 {
		t.Fatalf("expected no relations, got %+v", created)
	}
}

func TestService_CreateEmployee_DefaultsHireDateToNow(t *testing.T) {
	t.Parallel()

	svc := newTestService(newFakeGraph())
	created := mustCreate(t, svc, "E001", "Alice", "")

	if !created.HireDate.Equal(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected hire date to default to clock now, got %v", created.HireDate)
	}
}

func TestService_CreateEmployee_DuplicateEmployeeID(t *testing.T) {
	t.Parallel()

	svc := newTestService(newFakeGraph())
	mustCreate(t, svc, "E001", "Alice", "")

	_, err := svc.CreateEmployee(context.Background(), CreateEmployeeInput{
		EmployeeID: "E001",
		FirstName:  "Bob",
		LastName:   "Test",
		Email:      "bob@example.com",
		Position:   "Engineer",
		Department: "Engineering",
	})
	if !errors.Is(err, ErrDuplicateEmployeeID) {
		t.Fatalf("expected ErrDuplicateEmployeeID, got %v", err)
	}
}

func TestService_CreateEmployee_DuplicateEmailIgnoresCase(t *testing.T) {
	t.Parallel()

	svc := newTestService(newFakeGraph())
	mustCreate(t, svc, "E001", "Alice", "")

	_, err := svc.CreateEmployee(context.Background(), CreateEmployeeInput{
		EmployeeID: "E002",
		FirstName:  "Alice",
		LastName:   "Other",
		Email:      "ALICE@example.com",
		Position:   "Engineer",
		Department: "Engineering",
	})
	if !errors.Is(err, ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
}

func TestService_CreateEmployee_ValidationFailsBeforeMutation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   CreateEmployeeInput
		want error
	}{
		{
			name: "malformed email",
			in:   CreateEmployeeInput{EmployeeID: "E1", FirstName: "A", LastName: "B", Email: "not-an-email", Position: "P", Department: "D"},
			want: ErrInvalidEmail,
		},
		{
			name: "negative salary",
			in:   CreateEmployeeInput{EmployeeID: "E1", FirstName: "A", LastName: "B", Email: "a@example.com", Position: "P", Department: "D", Salary: -1},
			want: ErrInvalidSalary,
		},
		{
			name: "missing employee id",
			in:   CreateEmployeeInput{FirstName: "A", LastName: "B", Email: "a@example.com", Position: "P", Department: "D"},
			want: ErrInvalidEmployeeID,
		},
		{
			name: "malformed manager id",
			in:   CreateEmployeeInput{EmployeeID: "E1", FirstName: "A", LastName: "B", Email: "a@example.com", Position: "P", Department: "D", ManagerID: "boss"},
			want: ErrInvalidID,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			g := newFakeGraph()
			svc := newTestService(g)

			_, err := svc.CreateEmployee(context.Background(), tt.in)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
			if !errors.Is(err, ErrValidationFailed) {
				t.Fatalf("expected error to match ErrValidationFailed, got %v", err)
			}
			if len(g.employees) != 0 {
				t.Fatalf("expected no insert, store has %d employees", len(g.employees))
			}
		})
	}
}

func TestService_CreateEmployee_UnknownManager(t *testing.T) {
	t.Parallel()

	g := newFakeGraph()
	svc := newTestService(g)

	_, err := svc.CreateEmployee(context.Background(), CreateEmployeeInput{
		EmployeeID: "E001",
		FirstName:  "Alice",
		LastName:   "Test",
		Email:      "alice@example.com",
		Position:   "Engineer",
		Department: "Engineering",
		ManagerID:  "00000000-0000-0000-0000-000000000999",
	})
	if !errors.Is(err, ErrManagerNotFound) || !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrManagerNotFound, got %v", err)
	}
	if len(g.employees) != 0 {
		t.Fatalf("expected no insert when manager is missing")
	}
}

func TestService_CreateEmployee_WithManager(t *testing.T) {
	t.Parallel()

	svc := newTestService(newFakeGraph())
	boss := mustCreate(t, svc, "E001", "Boss", "")
	worker := mustCreate(t, svc, "E002", "Worker", boss.ID)

	if worker.ManagerID() != boss.ID {
		t.Fatalf("expected manager %s, got %+v", boss.ID, worker.Manager)
	}
	if worker.Manager.Email != "boss@example.com" {
		t.Fatalf("expected manager summary to be resolved, got %+v", worker.Manager)
	}

	found, err := svc.GetEmployee(context.Background(), GetEmployeeInput{ID: boss.ID})
	if err != nil {
		t.Fatalf("GetEmployee returned error: %v", err)
	}
	if len(found.Subordinates) != 1 || found.Subordinates[0].ID != worker.ID {
		t.Fatalf("expected subordinate %s, got %+v", worker.ID, found.Subordinates)
	}
}

func TestService_SetManager_RejectsSelfAndCycle(t *testing.T) {
	t.Parallel()

	svc := newTestService(newFakeGraph())
	a := mustCreate(t, svc, "A", "Alice", "")
	b := mustCreate(t, svc, "B", "Bob", a.ID)
	c := mustCreate(t, svc, "C", "Carol", b.ID)

	_, err := svc.SetManager(context.Background(), SetManagerInput{EmployeeID: a.ID, ManagerID: a.ID})
	if !errors.Is(err, ErrSelfReference) {
		t.Fatalf("expected ErrSelfReference, got %v", err)
	}

	_, err = svc.SetManager(context.Background(), SetManagerInput{EmployeeID: a.ID, ManagerID: c.ID})
	if !errors.Is(err, ErrCycleDetected) {
		t.Fatalf("expected ErrCycleDetected, got %v", err)
	}

	found, err := svc.GetEmployee(context.Background(), GetEmployeeInput{ID: a.ID})
	if err != nil {
		t.Fatalf("GetEmployee returned error: %v", err)
	}
	if found.Manager != nil {
		t.Fatalf("expected root to stay unattached after rejected assignment, got %+v", found.Manager)
	}
}

func TestService_SetManager_TraversalLimit(t *testing.T) {
	t.Parallel()

	g := newFakeGraph()
	svc := NewService(g, g, nil, &stubClock{now: time.Now().UTC()}, Config{MaxTraversal: 2})

	root := mustCreate(t, svc, "R", "Root", "")
	prev := root.ID
	for i := 0; i < 4; i++ {
		prev = mustCreate(t, svc, fmt.Sprintf("N%d", i), fmt.Sprintf("Node%d", i), prev).ID
	}
	other := mustCreate(t, svc, "O", "Other", "")

	_, err := svc.SetManager(context.Background(), SetManagerInput{EmployeeID: root.ID, ManagerID: other.ID})
	if !errors.Is(err, ErrTraversalLimit) {
		t.Fatalf("expected ErrTraversalLimit, got %v", err)
	}
}

func TestService_SetManager_EmptyManagerDetaches(t *testing.T) {
	t.Parallel()

	svc := newTestService(newFakeGraph())
	a := mustCreate(t, svc, "A", "Alice", "")
	b := mustCreate(t, svc, "B", "Bob", a.ID)

	detached, err := svc.SetManager(context.Background(), SetManagerInput{EmployeeID: b.ID})
	if err != nil {
		t.Fatalf("SetManager returned error: %v", err)
	}
	if detached.Manager != nil {
		t.Fatalf("expected no manager, got %+v", detached.Manager)
	}
}

func TestService_UpdateEmployee_FieldsAndManager(t *testing.T) {
	t.Parallel()

	g := newFakeGraph()
	clk := &stubClock{now: time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)}
	svc := NewService(g, g, nil, clk, Config{})

	a := mustCreate(t, svc, "A", "Alice", "")
	b := mustCreate(t, svc, "B", "Bob", "")

	clk.now = clk.now.Add(time.Hour)
	email := " BOB.NEW@Example.com "
	inactive := false
	salary := 2000.0
	updated, err := svc.UpdateEmployee(context.Background(), UpdateEmployeeInput{
		ID:           b.ID,
		Email:        &email,
		IsActive:     &inactive,
		Salary:       &salary,
		ManagerID:    &a.ID,
		ManagerIDSet: true,
	})
	if err != nil {
		t.Fatalf("UpdateEmployee returned error: %v", err)
	}

	if updated.Email != "bob.new@example.com" {
		t.Fatalf("expected normalized email, got %q", updated.Email)
	}
	if updated.IsActive || updated.Salary != 2000 {
		t.Fatalf("expected fields applied, got %+v", updated.Employee)
	}
	if updated.ManagerID() != a.ID {
		t.Fatalf("expected manager %s, got %q", a.ID, updated.ManagerID())
	}
	if !updated.UpdatedAt.Equal(clk.now) {
		t.Fatalf("expected updated_at stamped with clock, got %v", updated.UpdatedAt)
	}
}

func TestService_UpdateEmployee_CycleLeavesFieldsUntouched(t *testing.T) {
	t.Parallel()

	svc := newTestService(newFakeGraph())
	a := mustCreate(t, svc, "A", "Alice", "")
	b := mustCreate(t, svc, "B", "Bob", a.ID)

	dept := "Sales"
	_, err := svc.UpdateEmployee(context.Background(), UpdateEmployeeInput{
		ID:           a.ID,
		Department:   &dept,
		ManagerID:    &b.ID,
		ManagerIDSet: true,
	})
	if !errors.Is(err, ErrCycleDetected) {
		t.Fatalf("expected ErrCycleDetected, got %v", err)
	}

	found, err := svc.GetEmployee(context.Background(), GetEmployeeInput{ID: a.ID})
	if err != nil {
		t.Fatalf("GetEmployee returned error: %v", err)
	}
	if found.Department != "Engineering" {
		t.Fatalf("expected department unchanged, got %q", found.Department)
	}
}

func TestService_UpdateEmployee_DuplicateEmail(t *testing.T) {
	t.Parallel()

	svc := newTestService(newFakeGraph())
	mustCreate(t, svc, "A", "Alice", "")
	b := mustCreate(t, svc, "B", "Bob", "")

	email := "alice@example.com"
	_, err := svc.UpdateEmployee(context.Background(), UpdateEmployeeInput{ID: b.ID, Email: &email})
	if !errors.Is(err, ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
}

func TestService_UpdateEmployee_NotFound(t *testing.T) {
	t.Parallel()

	svc := newTestService(newFakeGraph())
	name := "Ghost"
	_, err := svc.UpdateEmployee(context.Background(), UpdateEmployeeInput{
		ID:        "00000000-0000-0000-0000-000000000042",
		FirstName: &name,
	})
	if !errors.Is(err, ErrEmployeeNotFound) {
		t.Fatalf("expected ErrEmployeeNotFound, got %v", err)
	}
}

func TestService_DeleteEmployee_ReparentsToGrandparent(t *testing.T) {
	t.Parallel()

	svc := newTestService(newFakeGraph())
	m := mustCreate(t, svc, "M", "Manager", "")
	d := mustCreate(t, svc, "D", "Deleted", m.ID)
	s1 := mustCreate(t, svc, "S1", "Sub1", d.ID)
	s2 := mustCreate(t, svc, "S2", "Sub2", d.ID)

	if err := svc.DeleteEmployee(context.Background(), DeleteEmployeeInput{ID: d.ID}); err != nil {
		t.Fatalf("DeleteEmployee returned error: %v", err)
	}

	for _, sub := range []*View{s1, s2} {
		found, err := svc.GetEmployee(context.Background(), GetEmployeeInput{ID: sub.ID})
		if err != nil {
			t.Fatalf("GetEmployee returned error: %v", err)
		}
		if found.ManagerID() != m.ID {
			t.Fatalf("expected %s to be re-parented to %s, got %q", sub.EmployeeID, m.ID, found.ManagerID())
		}
	}

	if _, err := svc.GetEmployee(context.Background(), GetEmployeeInput{ID: d.ID}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected deleted employee to be gone, got %v", err)
	}
}

func TestService_DeleteEmployee_RootLeavesSubordinatesAsRoots(t *testing.T) {
	t.Parallel()

	svc := newTestService(newFakeGraph())
	d := mustCreate(t, svc, "D", "Deleted", "")
	s1 := mustCreate(t, svc, "S1", "Sub1", d.ID)
	s2 := mustCreate(t, svc, "S2", "Sub2", d.ID)

	if err := svc.DeleteEmployee(context.Background(), DeleteEmployeeInput{ID: d.ID}); err != nil {
		t.Fatalf("DeleteEmployee returned error: %v", err)
	}

	forest, err := svc.GetHierarchyForest(context.Background(), GetHierarchyForestInput{})
	if err != nil {
		t.Fatalf("GetHierarchyForest returned error: %v", err)
	}
	if len(forest) != 2 || forest[0].Employee.ID != s1.ID || forest[1].Employee.ID != s2.ID {
		t.Fatalf("expected subordinates to become roots, got %+v", forest)
	}
}

func TestService_DeleteEmployee_NotFound(t *testing.T) {
	t.Parallel()

	svc := newTestService(newFakeGraph())
	err := svc.DeleteEmployee(context.Background(), DeleteEmployeeInput{ID: "00000000-0000-0000-0000-000000000042"})
	if !errors.Is(err, ErrEmployeeNotFound) {
		t.Fatalf("expected ErrEmployeeNotFound, got %v", err)
	}
}

func TestService_ListEmployees_FiltersAndSorts(t *testing.T) {
	t.Parallel()

	svc := newTestService(newFakeGraph())
	boss := mustCreate(t, svc, "E1", "zed", "")
	mustCreate(t, svc, "E2", "Bob", boss.ID)
	mustCreate(t, svc, "E3", "alice", boss.ID)
	carol := mustCreate(t, svc, "E4", "Carol", "")
	mustCreate(t, svc, "E5", "Dave", carol.ID)

	all, err := svc.ListEmployees(context.Background(), ListEmployeesInput{})
	if err != nil {
		t.Fatalf("ListEmployees returned error: %v", err)
	}
	got := make([]string, 0, len(all))
	for _, v := range all {
		got = append(got, v.FirstName)
	}
	if strings.Join(got, ",") != "alice,Bob,Carol,Dave,zed" {
		t.Fatalf("unexpected order: %v", got)
	}

	direct, err := svc.ListEmployees(context.Background(), ListEmployeesInput{ManagerID: &boss.ID})
	if err != nil {
		t.Fatalf("ListEmployees returned error: %v", err)
	}
	if len(direct) != 2 || direct[0].FirstName != "alice" || direct[1].FirstName != "Bob" {
		t.Fatalf("expected direct subordinates only, got %d", len(direct))
	}
	if direct[0].ManagerID() != boss.ID {
		t.Fatalf("expected manager annotation, got %+v", direct[0].Manager)
	}
}

func TestService_ListEmployees_ActiveFilter(t *testing.T) {
	t.Parallel()

	svc := newTestService(newFakeGraph())
	a := mustCreate(t, svc, "E1", "Alice", "")
	mustCreate(t, svc, "E2", "Bob", "")

	inactive := false
	if _, err := svc.UpdateEmployee(context.Background(), UpdateEmployeeInput{ID: a.ID, IsActive: &inactive}); err != nil {
		t.Fatalf("UpdateEmployee returned error: %v", err)
	}

	active := true
	list, err := svc.ListEmployees(context.Background(), ListEmployeesInput{IsActive: &active})
	if err != nil {
		t.Fatalf("ListEmployees returned error: %v", err)
	}
	if len(list) != 1 || list[0].FirstName != "Bob" {
		t.Fatalf("expected only active employees, got %d", len(list))
	}
}

func TestService_GetDepartments(t *testing.T) {
	t.Parallel()

	g := newFakeGraph()
	svc := newTestService(g)
	for i, dept := range []string{"Engineering", "Engineering", "HR"} {
		_, err := svc.CreateEmployee(context.Background(), CreateEmployeeInput{
			EmployeeID: fmt.Sprintf("E%d", i),
			FirstName:  "F",
			LastName:   "L",
			Email:      fmt.Sprintf("e%d@example.com", i),
			Position:   "P",
			Department: dept,
		})
		if err != nil {
			t.Fatalf("CreateEmployee returned error: %v", err)
		}
	}

	departments, err := svc.GetDepartments(context.Background())
	if err != nil {
		t.Fatalf("GetDepartments returned error: %v", err)
	}
	if strings.Join(departments, ",") != "Engineering,HR" {
		t.Fatalf("unexpected departments: %v", departments)
	}
}

func TestService_GetManagers_SkipsStaleReferences(t *testing.T) {
	t.Parallel()

	g := newFakeGraph()
	svc := newTestService(g)
	boss := mustCreate(t, svc, "E1", "Boss", "")
	mustCreate(t, svc, "E2", "Worker", boss.ID)
	g.managerOf["00000000-0000-0000-0000-000000000777"] = "00000000-0000-0000-0000-000000000888"

	managers, err := svc.GetManagers(context.Background())
	if err != nil {
		t.Fatalf("GetManagers returned error: %v", err)
	}
	if len(managers) != 1 || managers[0].ID != boss.ID {
		t.Fatalf("expected only the resolvable manager, got %+v", managers)
	}
}

func TestService_BackingStoreFailureSurfaces(t *testing.T) {
	t.Parallel()

	g := newFakeGraph()
	svc := newTestService(g)
	g.failOn = "list_edges"
	g.failErr = Unavailable(errors.New("connection refused"))

	if _, err := svc.GetHierarchyForest(context.Background(), GetHierarchyForestInput{}); !errors.Is(err, ErrBackingStoreUnavailable) {
		t.Fatalf("expected ErrBackingStoreUnavailable, got %v", err)
	}
}

func TestService_DeadlineMapsToUnavailable(t *testing.T) {
	t.Parallel()

	g := newFakeGraph()
	svc := newTestService(g)
	g.failOn = "insert"
	g.failErr = context.DeadlineExceeded

	_, err := svc.CreateEmployee(context.Background(), CreateEmployeeInput{
		EmployeeID: "E1",
		FirstName:  "A",
		LastName:   "B",
		Email:      "a@example.com",
		Position:   "P",
		Department: "D",
	})
	if !errors.Is(err, ErrBackingStoreUnavailable) {
		t.Fatalf("expected ErrBackingStoreUnavailable, got %v", err)
	}
}

func TestAssembleForest_SingletonRoots(t *testing.T) {
	t.Parallel()

	employees := []*Employee{
		{ID: "3", FirstName: "Carol"},
		{ID: "1", FirstName: "alice"},
		{ID: "2", FirstName: "Bob"},
	}

	forest := AssembleForest(employees, nil)
	if len(forest) != 3 {
		t.Fatalf("expected 3 roots, got %d", len(forest))
	}
	for i, want := range []string{"1", "2", "3"} {
		if forest[i].Employee.ID != want {
			t.Fatalf("root %d: expected %s, got %s", i, want, forest[i].Employee.ID)
		}
		if len(forest[i].Children) != 0 {
			t.Fatalf("expected empty children for %s", want)
		}
	}
}

func TestAssembleForest_SkipsDanglingEdges(t *testing.T) {
	t.Parallel()

	employees := []*Employee{
		{ID: "a", FirstName: "A"},
		{ID: "b", FirstName: "B"},
		{ID: "c", FirstName: "C"},
	}
	edges := []ManagesEdge{
		{ManagerID: "a", SubordinateID: "b"},
		{ManagerID: "ghost", SubordinateID: "c"},
		{ManagerID: "a", SubordinateID: "missing"},
	}

	forest := AssembleForest(employees, edges)
	if len(forest) != 2 {
		t.Fatalf("expected 2 roots, got %d", len(forest))
	}
	if forest[0].Employee.ID != "a" || len(forest[0].Children) != 1 || forest[0].Children[0].Employee.ID != "b" {
		t.Fatalf("unexpected first tree: %+v", forest[0])
	}
	if forest[1].Employee.ID != "c" {
		t.Fatalf("expected orphan c promoted to root, got %s", forest[1].Employee.ID)
	}
	if got := forest[0].Size() + forest[1].Size(); got != 3 {
		t.Fatalf("expected all employees in the forest, got %d", got)
	}
}
