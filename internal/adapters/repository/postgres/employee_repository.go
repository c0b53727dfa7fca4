package postgres

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/ogurasousui/codex-org-hierarchy/internal/core/employee"
	pgdb "github.com/ogurasousui/codex-org-hierarchy/internal/platform/db/postgres"
)

const employeeColumns = `id, employee_id, first_name, last_name, email, position, department, hire_date, salary, is_active, created_at, updated_at`

// fieldColumns は検索・集計に使える列のホワイトリストです。
var fieldColumns = map[employee.Field]string{
	employee.FieldEmployeeID: "employee_id",
	employee.FieldEmail:      "email",
	employee.FieldDepartment: "department",
}

// EmployeeRepository は PostgreSQL を利用した社員ノードの永続化の実装です。
type EmployeeRepository struct {
	pool pgdb.Queryer
}

var _ employee.NodeStore = (*EmployeeRepository)(nil)

// NewEmployeeRepository は EmployeeRepository を生成します。
func NewEmployeeRepository(pool pgdb.Queryer) *EmployeeRepository {
	return &EmployeeRepository{pool: pool}
}

// Insert は社員を新規作成し、採番された ID を返します。
func (r *EmployeeRepository) Insert(ctx context.Context, e *employee.Employee) (string, error) {
	if e == nil {
		return "", fmt.Errorf("postgres: employee is required")
	}

	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        INSERT INTO employees (employee_id, first_name, last_name, email, position, department, hire_date, salary, is_active, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
        RETURNING id
    `,
		e.EmployeeID,
		e.FirstName,
		e.LastName,
		e.Email,
		e.Position,
		e.Department,
		e.HireDate,
		e.Salary,
		e.IsActive,
		e.CreatedAt,
		e.UpdatedAt,
	)

	var id string
	if err := row.Scan(&id); err != nil {
		return "", translatePgError(err)
	}
	return id, nil
}

// Get は ID で社員を取得します。
func (r *EmployeeRepository) Get(ctx context.Context, id string) (*employee.Employee, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        SELECT `+employeeColumns+`
          FROM employees
         WHERE id = $1
    `, id)

	found, err := scanEmployee(row)
	if err != nil {
		return nil, translatePgError(err)
	}
	return found, nil
}

// FindByProperty は列の一致で社員を 1 件取得します。email は大文字小文字を区別しません。
func (r *EmployeeRepository) FindByProperty(ctx context.Context, field employee.Field, value string) (*employee.Employee, error) {
	column, ok := fieldColumns[field]
	if !ok {
		return nil, fmt.Errorf("%w: %s", employee.ErrInvalidField, field)
	}

	condition := column + " = $1"
	if field == employee.FieldEmail {
		condition = "lower(email) = lower($1)"
	}

	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        SELECT `+employeeColumns+`
          FROM employees
         WHERE `+condition+`
         ORDER BY id
         LIMIT 1
    `, value)

	found, err := scanEmployee(row)
	if err != nil {
		return nil, translatePgError(err)
	}
	return found, nil
}

// Update は patch で指定された列と updated_at を更新します。
func (r *EmployeeRepository) Update(ctx context.Context, id string, patch employee.Patch) (*employee.Employee, error) {
	args := make([]any, 0, 10)
	sets := make([]string, 0, 9)

	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, column+" = $"+strconv.Itoa(len(args)))
	}

	if patch.FirstName != nil {
		add("first_name", *patch.FirstName)
	}
	if patch.LastName != nil {
		add("last_name", *patch.LastName)
	}
	if patch.Email != nil {
		add("email", *patch.Email)
	}
	if patch.Position != nil {
		add("position", *patch.Position)
	}
	if patch.Department != nil {
		add("department", *patch.Department)
	}
	if patch.HireDate != nil {
		add("hire_date", *patch.HireDate)
	}
	if patch.Salary != nil {
		add("salary", *patch.Salary)
	}
	if patch.IsActive != nil {
		add("is_active", *patch.IsActive)
	}
	add("updated_at", patch.UpdatedAt)

	args = append(args, id)
	query := `
        UPDATE employees
           SET ` + strings.Join(sets, ", ") + `
         WHERE id = $` + strconv.Itoa(len(args)) + `
        RETURNING ` + employeeColumns

	exec := pgdb.QueryerFromContext(ctx, r.pool)
	updated, err := scanEmployee(exec.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, translatePgError(err)
	}
	return updated, nil
}

// Delete は社員を削除します。
func (r *EmployeeRepository) Delete(ctx context.Context, id string) error {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	tag, err := exec.Exec(ctx, `DELETE FROM employees WHERE id = $1`, id)
	if err != nil {
		return translatePgError(err)
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}

// List は条件に合う社員を ID 順で取得します。
func (r *EmployeeRepository) List(ctx context.Context, filter employee.NodeFilter) ([]*employee.Employee, error) {
	args := make([]any, 0, 2)
	conditions := make([]string, 0, 2)

	if filter.Department != nil {
		args = append(args, *filter.Department)
		conditions = append(conditions, "department = $"+strconv.Itoa(len(args)))
	}
	if filter.IsActive != nil {
		args = append(args, *filter.IsActive)
		conditions = append(conditions, "is_active = $"+strconv.Itoa(len(args)))
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	query := `
        SELECT ` + employeeColumns + `
          FROM employees` + whereClause + `
         ORDER BY id
    `

	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, query, args...)
	if err != nil {
		return nil, translatePgError(err)
	}
	defer rows.Close()

	employees := make([]*employee.Employee, 0)
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, translatePgError(err)
		}
		employees = append(employees, emp)
	}
	if err := rows.Err(); err != nil {
		return nil, translatePgError(err)
	}
	return employees, nil
}

// DistinctValues は空値を除いた重複なしの値をバイト順で返します。
func (r *EmployeeRepository) DistinctValues(ctx context.Context, field employee.Field) ([]string, error) {
	column, ok := fieldColumns[field]
	if !ok {
		return nil, fmt.Errorf("%w: %s", employee.ErrInvalidField, field)
	}

	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, `
        SELECT DISTINCT `+column+` COLLATE "C" AS value
          FROM employees
         WHERE btrim(`+column+`) <> ''
         ORDER BY value
    `)
	if err != nil {
		return nil, translatePgError(err)
	}
	defer rows.Close()

	values := make([]string, 0)
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, translatePgError(err)
		}
		values = append(values, v)
	}
	if err := rows.Err(); err != nil {
		return nil, translatePgError(err)
	}
	return values, nil
}

func scanEmployee(row pgx.Row) (*employee.Employee, error) {
	var (
		e        employee.Employee
		hireDate time.Time
	)

	if err := row.Scan(
		&e.ID,
		&e.EmployeeID,
		&e.FirstName,
		&e.LastName,
		&e.Email,
		&e.Position,
		&e.Department,
		&hireDate,
		&e.Salary,
		&e.IsActive,
		&e.CreatedAt,
		&e.UpdatedAt,
	); err != nil {
		return nil, err
	}

	e.HireDate = hireDate.UTC()
	e.CreatedAt = e.CreatedAt.UTC()
	e.UpdatedAt = e.UpdatedAt.UTC()
	return &e, nil
}
