package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/ogurasousui/codex-org-hierarchy/internal/core/employee"
)

// seedFile は assets/seeds/employees.yaml の形式です。
type seedFile struct {
	Employees []seedEmployee `yaml:"employees"`
}

type seedEmployee struct {
	EmployeeID string  `yaml:"employee_id"`
	FirstName  string  `yaml:"first_name"`
	LastName   string  `yaml:"last_name"`
	Email      string  `yaml:"email"`
	Position   string  `yaml:"position"`
	Department string  `yaml:"department"`
	HireDate   string  `yaml:"hire_date"`
	Salary     float64 `yaml:"salary"`
	// Manager は上長の employee_id です。
	Manager string `yaml:"manager"`
}

func loadSeedFile(path string) (*seedFile, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("seed: read file %s: %w", path, err)
	}

	var f seedFile
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("seed: parse yaml: %w", err)
	}
	return &f, nil
}

// apply は社員を作成してから上長関係を設定します。既に存在する employee_id は作成を省略します。
func apply(ctx context.Context, svc employee.UseCase, f *seedFile, logger logrus.FieldLogger) error {
	existing, err := svc.ListEmployees(ctx, employee.ListEmployeesInput{})
	if err != nil {
		return fmt.Errorf("seed: list employees: %w", err)
	}
	ids := make(map[string]string, len(existing)+len(f.Employees))
	for _, v := range existing {
		ids[v.EmployeeID] = v.ID
	}

	for _, e := range f.Employees {
		if _, ok := ids[e.EmployeeID]; ok {
			logger.WithField("employee_id", e.EmployeeID).Info("seed: already exists, skipped")
			continue
		}

		var hireDate *time.Time
		if e.HireDate != "" {
			t, err := time.ParseInLocation("2006-01-02", e.HireDate, time.UTC)
			if err != nil {
				return fmt.Errorf("seed: %s hire_date: %w", e.EmployeeID, err)
			}
			hireDate = &t
		}

		created, err := svc.CreateEmployee(ctx, employee.CreateEmployeeInput{
			EmployeeID: e.EmployeeID,
			FirstName:  e.FirstName,
			LastName:   e.LastName,
			Email:      e.Email,
			Position:   e.Position,
			Department: e.Department,
			Salary:     e.Salary,
			HireDate:   hireDate,
		})
		if err != nil {
			return fmt.Errorf("seed: create %s: %w", e.EmployeeID, err)
		}
		ids[e.EmployeeID] = created.ID
	}

	for _, e := range f.Employees {
		if e.Manager == "" {
			continue
		}
		managerID, ok := ids[e.Manager]
		if !ok {
			return fmt.Errorf("seed: %s: %w: %s", e.EmployeeID, employee.ErrManagerNotFound, e.Manager)
		}
		_, err := svc.SetManager(ctx, employee.SetManagerInput{EmployeeID: ids[e.EmployeeID], ManagerID: managerID})
		if err != nil && !errors.Is(err, employee.ErrCycleDetected) {
			return fmt.Errorf("seed: set manager of %s: %w", e.EmployeeID, err)
		}
		if err != nil {
			logger.WithError(err).WithField("employee_id", e.EmployeeID).Warn("seed: manager skipped")
		}
	}

	return nil
}
