package handler

import (
	"context"
	"fmt"
	"strings"
	"time"

	employeev1 "github.com/ogurasousui/codex-org-hierarchy/internal/adapters/grpc/api/employee/v1"
	"github.com/ogurasousui/codex-org-hierarchy/internal/core/employee"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const dateLayout = "2006-01-02"

// EmployeeGrpcHandler は EmployeeService の gRPC 実装です。
type EmployeeGrpcHandler struct {
	svc employee.UseCase
	employeev1.UnimplementedEmployeeServiceServer
}

// NewEmployeeGrpcHandler は EmployeeGrpcHandler を生成します。
func NewEmployeeGrpcHandler(svc employee.UseCase) *EmployeeGrpcHandler {
	return &EmployeeGrpcHandler{svc: svc}
}

// CreateEmployee は社員を作成します。
func (h *EmployeeGrpcHandler) CreateEmployee(ctx context.Context, req *employeev1.CreateEmployeeRequest) (*employeev1.CreateEmployeeResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	hireDate, err := parseTimeValue(req.HireDate)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, fmt.Sprintf("hireDate: %v", err))
	}

	created, err := h.svc.CreateEmployee(ctx, employee.CreateEmployeeInput{
		EmployeeID: req.EmployeeId,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Email:      req.Email,
		Position:   req.Position,
		Department: req.Department,
		Salary:     req.Salary,
		HireDate:   hireDate,
		ManagerID:  req.ManagerId,
	})
	if err != nil {
		return nil, toStatusError(err)
	}

	return &employeev1.CreateEmployeeResponse{Employee: toAPIView(created)}, nil
}

// GetEmployee は上長と直属の部下を含めて社員を取得します。
func (h *EmployeeGrpcHandler) GetEmployee(ctx context.Context, req *employeev1.GetEmployeeRequest) (*employeev1.GetEmployeeResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	found, err := h.svc.GetEmployee(ctx, employee.GetEmployeeInput{ID: req.Id})
	if err != nil {
		return nil, toStatusError(err)
	}

	return &employeev1.GetEmployeeResponse{Employee: toAPIView(found)}, nil
}

// ListEmployees は社員の一覧を取得します。
func (h *EmployeeGrpcHandler) ListEmployees(ctx context.Context, req *employeev1.ListEmployeesRequest) (*employeev1.ListEmployeesResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	views, err := h.svc.ListEmployees(ctx, employee.ListEmployeesInput{
		Department: req.Department,
		IsActive:   req.IsActive,
		ManagerID:  req.ManagerId,
	})
	if err != nil {
		return nil, toStatusError(err)
	}

	employees := make([]*employeev1.Employee, 0, len(views))
	for _, v := range views {
		employees = append(employees, toAPIView(v))
	}
	return &employeev1.ListEmployeesResponse{Employees: employees}, nil
}

// UpdateEmployee は社員情報を部分更新します。managerId の指定があれば上長も変更します。
func (h *EmployeeGrpcHandler) UpdateEmployee(ctx context.Context, req *employeev1.UpdateEmployeeRequest) (*employeev1.UpdateEmployeeResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	var hireDate *time.Time
	if req.HireDate != nil {
		parsed, err := parseTimeValue(*req.HireDate)
		if err != nil {
			return nil, status.Error(codes.InvalidArgument, fmt.Sprintf("hireDate: %v", err))
		}
		if parsed == nil {
			return nil, status.Error(codes.InvalidArgument, "hireDate: must not be empty")
		}
		hireDate = parsed
	}

	updated, err := h.svc.UpdateEmployee(ctx, employee.UpdateEmployeeInput{
		ID:           req.Id,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		Position:     req.Position,
		Department:   req.Department,
		Salary:       req.Salary,
		HireDate:     hireDate,
		IsActive:     req.IsActive,
		ManagerID:    req.ManagerId,
		ManagerIDSet: req.ManagerId != nil,
	})
	if err != nil {
		return nil, toStatusError(err)
	}

	return &employeev1.UpdateEmployeeResponse{Employee: toAPIView(updated)}, nil
}

// DeleteEmployee は社員を削除し、直属の部下を削除した社員の上長に付け替えます。
func (h *EmployeeGrpcHandler) DeleteEmployee(ctx context.Context, req *employeev1.DeleteEmployeeRequest) (*employeev1.DeleteEmployeeResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	if err := h.svc.DeleteEmployee(ctx, employee.DeleteEmployeeInput{ID: req.Id}); err != nil {
		return nil, toStatusError(err)
	}

	return &employeev1.DeleteEmployeeResponse{}, nil
}

// SetManager は上長を設定します。managerId が空なら上長を外します。
func (h *EmployeeGrpcHandler) SetManager(ctx context.Context, req *employeev1.SetManagerRequest) (*employeev1.SetManagerResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	updated, err := h.svc.SetManager(ctx, employee.SetManagerInput{
		EmployeeID: req.EmployeeId,
		ManagerID:  req.ManagerId,
	})
	if err != nil {
		return nil, toStatusError(err)
	}

	return &employeev1.SetManagerResponse{Employee: toAPIView(updated)}, nil
}

// GetHierarchyForest は組織ツリーの森を返します。
func (h *EmployeeGrpcHandler) GetHierarchyForest(ctx context.Context, req *employeev1.GetHierarchyForestRequest) (*employeev1.GetHierarchyForestResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	forest, err := h.svc.GetHierarchyForest(ctx, employee.GetHierarchyForestInput{ActiveOnly: req.ActiveOnly})
	if err != nil {
		return nil, toStatusError(err)
	}

	roots := make([]*employeev1.HierarchyNode, 0, len(forest))
	for _, tree := range forest {
		roots = append(roots, toAPITree(tree))
	}
	return &employeev1.GetHierarchyForestResponse{Roots: roots}, nil
}

// GetDepartments は部署名の一覧を返します。
func (h *EmployeeGrpcHandler) GetDepartments(ctx context.Context, _ *employeev1.GetDepartmentsRequest) (*employeev1.GetDepartmentsResponse, error) {
	departments, err := h.svc.GetDepartments(ctx)
	if err != nil {
		return nil, toStatusError(err)
	}
	return &employeev1.GetDepartmentsResponse{Departments: departments}, nil
}

// GetManagers は部下を持つ社員の一覧を返します。
func (h *EmployeeGrpcHandler) GetManagers(ctx context.Context, _ *employeev1.GetManagersRequest) (*employeev1.GetManagersResponse, error) {
	managers, err := h.svc.GetManagers(ctx)
	if err != nil {
		return nil, toStatusError(err)
	}

	out := make([]*employeev1.Employee, 0, len(managers))
	for _, m := range managers {
		out = append(out, toAPIEmployee(m))
	}
	return &employeev1.GetManagersResponse{Managers: out}, nil
}

func toAPIView(v *employee.View) *employeev1.Employee {
	if v == nil {
		return nil
	}

	out := toAPIEmployee(&v.Employee)
	if v.Manager != nil {
		out.Manager = toAPISummary(*v.Manager)
	}
	if len(v.Subordinates) > 0 {
		out.Subordinates = make([]*employeev1.EmployeeSummary, 0, len(v.Subordinates))
		for _, s := range v.Subordinates {
			out.Subordinates = append(out.Subordinates, toAPISummary(s))
		}
	}
	return out
}

func toAPIEmployee(e *employee.Employee) *employeev1.Employee {
	if e == nil {
		return nil
	}

	return &employeev1.Employee{
		Id:         e.ID,
		EmployeeId: e.EmployeeID,
		FirstName:  e.FirstName,
		LastName:   e.LastName,
		Email:      e.Email,
		Position:   e.Position,
		Department: e.Department,
		HireDate:   formatTime(e.HireDate),
		Salary:     e.Salary,
		IsActive:   e.IsActive,
		CreatedAt:  formatTime(e.CreatedAt),
		UpdatedAt:  formatTime(e.UpdatedAt),
	}
}

func toAPISummary(s employee.Summary) *employeev1.EmployeeSummary {
	return &employeev1.EmployeeSummary{
		Id:         s.ID,
		EmployeeId: s.EmployeeID,
		FirstName:  s.FirstName,
		LastName:   s.LastName,
		Email:      s.Email,
		Position:   s.Position,
	}
}

func toAPITree(t *employee.HierarchyTree) *employeev1.HierarchyNode {
	node := &employeev1.HierarchyNode{
		Employee: toAPIEmployee(&t.Employee),
		Children: make([]*employeev1.HierarchyNode, 0, len(t.Children)),
	}
	for _, child := range t.Children {
		node.Children = append(node.Children, toAPITree(child))
	}
	return node
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

// parseTimeValue は RFC 3339 または YYYY-MM-DD を UTC の時刻として解釈します。空なら nil を返します。
func parseTimeValue(value string) (*time.Time, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339Nano, trimmed); err == nil {
		utc := t.UTC()
		return &utc, nil
	}
	t, err := time.ParseInLocation(dateLayout, trimmed, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("invalid format, expected RFC 3339 or YYYY-MM-DD")
	}
	return &t, nil
}
