package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ogurasousui/codex-org-hierarchy/internal/core/employee"
)

const (
	uniqueViolationCode       = "23505"
	foreignKeyViolationCode   = "23503"
	checkViolationCode        = "23514"
	invalidTextRepresentation = "22P02"
)

// 制約名は assets/migrations と一致させること。
const (
	constraintEmployeeIDKey   = "employees_employee_id_key"
	constraintEmailKey        = "employees_email_key"
	constraintSalaryCheck     = "employees_salary_check"
	constraintNoSelfCheck     = "manages_edges_no_self_check"
	constraintManagerFKey     = "manages_edges_manager_id_fkey"
	constraintSubordinateFKey = "manages_edges_subordinate_id_fkey"
)

// translatePgError は pgx / PostgreSQL のエラーをドメインエラーに変換します。
func translatePgError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return employee.ErrEmployeeNotFound
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) || pgconn.Timeout(err) {
		return employee.Unavailable(err)
	}

	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return employee.Unavailable(err)
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case uniqueViolationCode:
		switch pgErr.ConstraintName {
		case constraintEmployeeIDKey:
			return employee.ErrDuplicateEmployeeID
		case constraintEmailKey:
			return employee.ErrDuplicateEmail
		}
	case checkViolationCode:
		switch pgErr.ConstraintName {
		case constraintNoSelfCheck:
			return employee.ErrSelfReference
		case constraintSalaryCheck:
			return employee.ErrInvalidSalary
		default:
			return fmt.Errorf("%w: %s", employee.ErrValidationFailed, pgErr.ConstraintName)
		}
	case foreignKeyViolationCode:
		switch pgErr.ConstraintName {
		case constraintManagerFKey:
			return employee.ErrManagerNotFound
		case constraintSubordinateFKey:
			return employee.ErrEmployeeNotFound
		}
	case invalidTextRepresentation:
		return employee.ErrInvalidID
	}

	// 08xxx: connection exception, 57P0x: operator intervention, 53xxx: insufficient resources
	if strings.HasPrefix(pgErr.Code, "08") || strings.HasPrefix(pgErr.Code, "57P0") || strings.HasPrefix(pgErr.Code, "53") {
		return employee.Unavailable(err)
	}
	return err
}
