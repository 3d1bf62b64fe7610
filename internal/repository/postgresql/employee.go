package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/okboz/okboz-backend-go/internal/domain/employee"
	"github.com/okboz/okboz-backend-go/internal/pkg/database"
)

type employeeRepositoryImpl struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepositoryImpl{db: db}
}

const employeeColumns = `id, corporate_id, full_name, designation, department, branch, compensation, joining_date, status`

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var e employee.Employee
	var status string
	err := row.Scan(
		&e.ID, &e.CorporateID, &e.FullName, &e.Designation, &e.Department, &e.Branch,
		&e.Compensation, &e.JoiningDate, &status,
	)
	e.Status = employee.Status(status)
	return e, err
}

// GetByID implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) GetByID(ctx context.Context, corporateID, id string) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	query := `SELECT ` + employeeColumns + ` FROM employees WHERE id = $1 AND corporate_id = $2`

	emp, err := scanEmployee(q.QueryRow(ctx, query, id, corporateID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee with id %s: %w", id, err)
	}
	return emp, nil
}

// List implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) List(ctx context.Context, corporateID string, filter employee.Filter) ([]employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	conditions := []string{"corporate_id = $1"}
	args := []interface{}{corporateID}
	argIdx := 2

	if filter.Branch != "" {
		conditions = append(conditions, fmt.Sprintf("branch = $%d", argIdx))
		args = append(args, filter.Branch)
		argIdx++
	}
	if filter.Department != "" {
		conditions = append(conditions, fmt.Sprintf("department = $%d", argIdx))
		args = append(args, filter.Department)
		argIdx++
	}
	if filter.ActiveOnly {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, string(employee.StatusActive))
	}

	query := fmt.Sprintf(`SELECT %s FROM employees WHERE %s ORDER BY full_name ASC, id ASC`,
		employeeColumns, strings.Join(conditions, " AND "))

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	var employees []employee.Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, emp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate employees: %w", err)
	}

	return employees, nil
}

// ListCorporateIDs implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) ListCorporateIDs(ctx context.Context) ([]string, error) {
	q := GetQuerier(ctx, e.db)

	rows, err := q.Query(ctx, `SELECT DISTINCT corporate_id FROM employees ORDER BY corporate_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list corporates: %w", err)
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}
