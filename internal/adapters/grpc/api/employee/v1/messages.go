// Package employeev1 は hierarchy.employee.v1.EmployeeService のメッセージ型とサービス記述子です。
// メッセージは JSON コーデック (content-subtype "json") で直列化されます。
package employeev1

// Employee は社員と、解決済みの上長・直属の部下です。
type Employee struct {
	Id           string             `json:"id"`
	EmployeeId   string             `json:"employeeId"`
	FirstName    string             `json:"firstName"`
	LastName     string             `json:"lastName"`
	Email        string             `json:"email"`
	Position     string             `json:"position"`
	Department   string             `json:"department"`
	HireDate     string             `json:"hireDate"`
	Salary       float64            `json:"salary"`
	IsActive     bool               `json:"isActive"`
	CreatedAt    string             `json:"createdAt"`
	UpdatedAt    string             `json:"updatedAt"`
	Manager      *EmployeeSummary   `json:"manager,omitempty"`
	Subordinates []*EmployeeSummary `json:"subordinates,omitempty"`
}

// EmployeeSummary は上長・部下として埋め込まれる社員の要約です。
type EmployeeSummary struct {
	Id         string `json:"id"`
	EmployeeId string `json:"employeeId"`
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Email      string `json:"email"`
	Position   string `json:"position"`
}

// HierarchyNode は組織ツリーのノードです。
type HierarchyNode struct {
	Employee *Employee        `json:"employee"`
	Children []*HierarchyNode `json:"children"`
}

type CreateEmployeeRequest struct {
	EmployeeId string  `json:"employeeId"`
	FirstName  string  `json:"firstName"`
	LastName   string  `json:"lastName"`
	Email      string  `json:"email"`
	Position   string  `json:"position"`
	Department string  `json:"department"`
	Salary     float64 `json:"salary"`
	// HireDate は RFC 3339 または YYYY-MM-DD。空なら作成時刻です。
	HireDate  string `json:"hireDate,omitempty"`
	ManagerId string `json:"managerId,omitempty"`
}

type CreateEmployeeResponse struct {
	Employee *Employee `json:"employee"`
}

type GetEmployeeRequest struct {
	Id string `json:"id"`
}

type GetEmployeeResponse struct {
	Employee *Employee `json:"employee"`
}

type ListEmployeesRequest struct {
	Department *string `json:"department,omitempty"`
	IsActive   *bool   `json:"isActive,omitempty"`
	ManagerId  *string `json:"managerId,omitempty"`
}

type ListEmployeesResponse struct {
	Employees []*Employee `json:"employees"`
}

// UpdateEmployeeRequest は部分更新です。null / 省略したフィールドは変更しません。
// ManagerId に空文字列を指定すると上長を外します。
type UpdateEmployeeRequest struct {
	Id         string   `json:"id"`
	FirstName  *string  `json:"firstName,omitempty"`
	LastName   *string  `json:"lastName,omitempty"`
	Email      *string  `json:"email,omitempty"`
	Position   *string  `json:"position,omitempty"`
	Department *string  `json:"department,omitempty"`
	Salary     *float64 `json:"salary,omitempty"`
	HireDate   *string  `json:"hireDate,omitempty"`
	IsActive   *bool    `json:"isActive,omitempty"`
	ManagerId  *string  `json:"managerId,omitempty"`
}

type UpdateEmployeeResponse struct {
	Employee *Employee `json:"employee"`
}

type DeleteEmployeeRequest struct {
	Id string `json:"id"`
}

type DeleteEmployeeResponse struct{}

type SetManagerRequest struct {
	EmployeeId string `json:"employeeId"`
	ManagerId  string `json:"managerId"`
}

type SetManagerResponse struct {
	Employee *Employee `json:"employee"`
}

type GetHierarchyForestRequest struct {
	ActiveOnly bool `json:"activeOnly,omitempty"`
}

type GetHierarchyForestResponse struct {
	Roots []*HierarchyNode `json:"roots"`
}

type GetDepartmentsRequest struct{}

type GetDepartmentsResponse struct {
	Departments []string `json:"departments"`
}

type GetManagersRequest struct{}

type GetManagersResponse struct {
	Managers []*Employee `json:"managers"`
}
