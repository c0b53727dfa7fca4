package employee

import "time"

// Employee は社員ノードです。上長との関係は保持せず、ManagesEdge で表現します。
type Employee struct {
	ID         string
	EmployeeID string
	FirstName  string
	LastName   string
	Email      string
	Position   string
	Department string
	HireDate   time.Time
	Salary     float64
	IsActive   bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// FullName は "名 姓" 形式の氏名を返します。
func (e *Employee) FullName() string {
	return e.FirstName + " " + e.LastName
}

// ManagesEdge は上長から部下への有向辺です。
type ManagesEdge struct {
	ManagerID     string
	SubordinateID string
	CreatedAt     time.Time
}

// Summary は上長・部下の表示用に切り出した社員情報です。
type Summary struct {
	ID         string
	EmployeeID string
	FirstName  string
	LastName   string
	Email      string
	Position   string
}

// View は上長と直属の部下を解決済みの社員ビューです。
type View struct {
	Employee
	Manager      *Summary
	Subordinates []Summary
}

// ManagerID は上長の ID を返します。上長がいなければ空文字列です。
func (v *View) ManagerID() string {
	if v.Manager == nil {
		return ""
	}
	return v.Manager.ID
}

// HierarchyTree は組織ツリーの 1 ノードです。読み取りの都度組み立てられます。
type HierarchyTree struct {
	Employee Employee
	Children []*HierarchyTree
}

// Size は自身を含むサブツリーのノード数を返します。
func (t *HierarchyTree) Size() int {
	if t == nil {
		return 0
	}
	n := 1
	for _, child := range t.Children {
		n += child.Size()
	}
	return n
}

func summarize(e *Employee) Summary {
	return Summary{
		ID:         e.ID,
		EmployeeID: e.EmployeeID,
		FirstName:  e.FirstName,
		LastName:   e.LastName,
		Email:      e.Email,
		Position:   e.Position,
	}
}
