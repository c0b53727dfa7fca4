package employee

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound                = errors.New("employee: not found")
	ErrDuplicateEmployeeID     = errors.New("employee: employee id already exists")
	ErrDuplicateEmail          = errors.New("employee: email already exists")
	ErrSelfReference           = errors.New("employee: employee cannot manage itself")
	ErrCycleDetected           = errors.New("employee: manager assignment would create a cycle")
	ErrValidationFailed        = errors.New("employee: validation failed")
	ErrBackingStoreUnavailable = errors.New("employee: backing store unavailable")
	ErrTraversalLimit          = errors.New("employee: hierarchy traversal limit exceeded")
)

// NotFound の派生。errors.Is(err, ErrNotFound) でも判定できます。
var (
	ErrEmployeeNotFound = fmt.Errorf("%w: employee", ErrNotFound)
	ErrManagerNotFound  = fmt.Errorf("%w: manager", ErrNotFound)
)

// ValidationFailed の派生。
var (
	ErrInvalidID         = fmt.Errorf("%w: invalid id", ErrValidationFailed)
	ErrInvalidEmployeeID = fmt.Errorf("%w: invalid employee id", ErrValidationFailed)
	ErrInvalidFirstName  = fmt.Errorf("%w: invalid first name", ErrValidationFailed)
	ErrInvalidLastName   = fmt.Errorf("%w: invalid last name", ErrValidationFailed)
	ErrInvalidEmail      = fmt.Errorf("%w: invalid email", ErrValidationFailed)
	ErrInvalidPosition   = fmt.Errorf("%w: invalid position", ErrValidationFailed)
	ErrInvalidDepartment = fmt.Errorf("%w: invalid department", ErrValidationFailed)
	ErrInvalidSalary     = fmt.Errorf("%w: invalid salary", ErrValidationFailed)
	ErrInvalidHireDate   = fmt.Errorf("%w: invalid hire date", ErrValidationFailed)
	ErrInvalidField      = fmt.Errorf("%w: unsupported field", ErrValidationFailed)
)

// Unavailable はバックエンド障害を ErrBackingStoreUnavailable として包みます。
func Unavailable(err error) error {
	if err == nil || errors.Is(err, ErrBackingStoreUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrBackingStoreUnavailable, err)
}
