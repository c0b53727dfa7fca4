package employee

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// createRules は社員作成時の入力検証ルールです。
type createRules struct {
	EmployeeID string  `validate:"required,max=64"`
	FirstName  string  `validate:"required,max=100"`
	LastName   string  `validate:"required,max=100"`
	Email      string  `validate:"required,email,max=254"`
	Position   string  `validate:"required,max=100"`
	Department string  `validate:"required,max=100"`
	Salary     float64 `validate:"gte=0"`
}

var fieldSentinels = map[string]error{
	"EmployeeID": ErrInvalidEmployeeID,
	"FirstName":  ErrInvalidFirstName,
	"LastName":   ErrInvalidLastName,
	"Email":      ErrInvalidEmail,
	"Position":   ErrInvalidPosition,
	"Department": ErrInvalidDepartment,
	"Salary":     ErrInvalidSalary,
}

const (
	nameRule  = "required,max=100"
	emailRule = "required,email,max=254"
)

// minHireYear より前の入社日は入力ミスとみなします。
const minHireYear = 1900

func validationError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		if sentinel, ok := fieldSentinels[fe.Field()]; ok {
			return fmt.Errorf("%w (%s)", sentinel, fe.Tag())
		}
	}
	return fmt.Errorf("%w: %v", ErrValidationFailed, err)
}

func validateVar(value any, rule string, sentinel error) error {
	if err := validate.Var(value, rule); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("%w (%s)", sentinel, verrs[0].Tag())
		}
		return sentinel
	}
	return nil
}

func normalizeID(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", ErrInvalidID
	}
	parsed, err := uuid.Parse(trimmed)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidID, raw)
	}
	return parsed.String(), nil
}

// normalizeOptionalID は空文字列を「上長なし」として扱います。
func normalizeOptionalID(raw string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return "", nil
	}
	return normalizeID(raw)
}

func normalizeEmail(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

func normalizeSalary(v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return ErrInvalidSalary
	}
	return nil
}

// normalizeInstant は時刻を UTC の瞬間表現に揃えます。
func normalizeInstant(t time.Time) (time.Time, error) {
	if t.IsZero() {
		return time.Time{}, ErrInvalidHireDate
	}
	utc := t.UTC()
	if utc.Year() < minHireYear {
		return time.Time{}, ErrInvalidHireDate
	}
	return utc, nil
}

func (in CreateEmployeeInput) normalize(now time.Time) (*Employee, error) {
	rules := createRules{
		EmployeeID: strings.TrimSpace(in.EmployeeID),
		FirstName:  strings.TrimSpace(in.FirstName),
		LastName:   strings.TrimSpace(in.LastName),
		Email:      normalizeEmail(in.Email),
		Position:   strings.TrimSpace(in.Position),
		Department: strings.TrimSpace(in.Department),
		Salary:     in.Salary,
	}
	if err := validate.Struct(rules); err != nil {
		return nil, validationError(err)
	}
	if err := normalizeSalary(in.Salary); err != nil {
		return nil, err
	}

	hireDate := now
	if in.HireDate != nil {
		normalized, err := normalizeInstant(*in.HireDate)
		if err != nil {
			return nil, err
		}
		hireDate = normalized
	}

	return &Employee{
		EmployeeID: rules.EmployeeID,
		FirstName:  rules.FirstName,
		LastName:   rules.LastName,
		Email:      rules.Email,
		Position:   rules.Position,
		Department: rules.Department,
		HireDate:   hireDate,
		Salary:     in.Salary,
		IsActive:   true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

func (in UpdateEmployeeInput) patch(now time.Time) (Patch, error) {
	p := Patch{UpdatedAt: now, IsActive: cloneBool(in.IsActive)}

	texts := []struct {
		src      *string
		dst      **string
		sentinel error
	}{
		{in.FirstName, &p.FirstName, ErrInvalidFirstName},
		{in.LastName, &p.LastName, ErrInvalidLastName},
		{in.Position, &p.Position, ErrInvalidPosition},
		{in.Department, &p.Department, ErrInvalidDepartment},
	}
	for _, f := range texts {
		if f.src == nil {
			continue
		}
		v := strings.TrimSpace(*f.src)
		if err := validateVar(v, nameRule, f.sentinel); err != nil {
			return Patch{}, err
		}
		*f.dst = &v
	}

	if in.Email != nil {
		email := normalizeEmail(*in.Email)
		if err := validateVar(email, emailRule, ErrInvalidEmail); err != nil {
			return Patch{}, err
		}
		p.Email = &email
	}

	if in.Salary != nil {
		if err := normalizeSalary(*in.Salary); err != nil {
			return Patch{}, err
		}
		salary := *in.Salary
		p.Salary = &salary
	}

	if in.HireDate != nil {
		hireDate, err := normalizeInstant(*in.HireDate)
		if err != nil {
			return Patch{}, err
		}
		p.HireDate = &hireDate
	}

	return p, nil
}

func cloneBool(b *bool) *bool {
	if b == nil {
		return nil
	}
	v := *b
	return &v
}
