package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/okboz/okboz-backend-go/internal/domain/advance"
	"github.com/okboz/okboz-backend-go/internal/pkg/database"
)

type advanceRepositoryImpl struct {
	db *database.DB
}

func NewAdvanceRepository(db *database.DB) advance.AdvanceRepository {
	return &advanceRepositoryImpl{db: db}
}

const advanceColumns = `id, corporate_id, employee_id, employee_name, amount_requested, amount_approved,
	reason, status, request_date, payment_date, payment_mode, processed_by, created_at, updated_at`

func scanAdvance(row pgx.Row) (advance.SalaryAdvanceRequest, error) {
	var a advance.SalaryAdvanceRequest
	var status, mode string
	err := row.Scan(
		&a.ID, &a.CorporateID, &a.EmployeeID, &a.EmployeeName, &a.AmountRequested, &a.AmountApproved,
		&a.Reason, &status, &a.RequestDate, &a.PaymentDate, &mode, &a.ProcessedBy, &a.CreatedAt, &a.UpdatedAt,
	)
	a.Status = advance.Status(status)
	a.PaymentMode = advance.PaymentMode(mode)
	return a, err
}

func (r *advanceRepositoryImpl) Create(ctx context.Context, req advance.SalaryAdvanceRequest) (advance.SalaryAdvanceRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO salary_advances (
			id, corporate_id, employee_id, employee_name, amount_requested, amount_approved,
			reason, status, request_date, payment_date, payment_mode, processed_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING ` + advanceColumns

	created, err := scanAdvance(q.QueryRow(ctx, query,
		req.ID, req.CorporateID, req.EmployeeID, req.EmployeeName, req.AmountRequested, req.AmountApproved,
		req.Reason, string(req.Status), req.RequestDate, req.PaymentDate, string(req.PaymentMode), req.ProcessedBy,
	))
	if err != nil {
		return advance.SalaryAdvanceRequest{}, fmt.Errorf("failed to create salary advance: %w", err)
	}
	return created, nil
}

func (r *advanceRepositoryImpl) GetByID(ctx context.Context, corporateID, id string) (advance.SalaryAdvanceRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + advanceColumns + ` FROM salary_advances WHERE id = $1 AND corporate_id = $2`

	a, err := scanAdvance(q.QueryRow(ctx, query, id, corporateID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return advance.SalaryAdvanceRequest{}, advance.ErrAdvanceNotFound
		}
		return advance.SalaryAdvanceRequest{}, fmt.Errorf("failed to get salary advance with id %s: %w", id, err)
	}
	return a, nil
}

func (r *advanceRepositoryImpl) List(ctx context.Context, corporateID string, filter advance.AdvanceFilter) ([]advance.SalaryAdvanceRequest, error) {
	q := GetQuerier(ctx, r.db)

	conditions := []string{"corporate_id = $1"}
	args := []interface{}{corporateID}
	argIdx := 2

	if filter.Status != nil && *filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, string(*filter.Status))
		argIdx++
	}
	if filter.EmployeeID != nil && *filter.EmployeeID != "" {
		conditions = append(conditions, fmt.Sprintf("employee_id = $%d", argIdx))
		args = append(args, *filter.EmployeeID)
	}

	query := fmt.Sprintf(`SELECT %s FROM salary_advances WHERE %s ORDER BY request_date DESC, id`,
		advanceColumns, strings.Join(conditions, " AND "))

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list salary advances: %w", err)
	}
	defer rows.Close()

	var out []advance.SalaryAdvanceRequest
	for rows.Next() {
		a, err := scanAdvance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan salary advance: %w", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate salary advances: %w", err)
	}
	return out, nil
}

func (r *advanceRepositoryImpl) UpdateStatus(ctx context.Context, req advance.SalaryAdvanceRequest) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE salary_advances
		SET status = $1, amount_approved = $2, payment_date = $3, payment_mode = $4,
			processed_by = $5, updated_at = NOW()
		WHERE id = $6 AND corporate_id = $7 AND status = $8
		RETURNING id
	`

	var updatedID string
	err := q.QueryRow(ctx, query,
		string(req.Status), req.AmountApproved, req.PaymentDate, string(req.PaymentMode),
		req.ProcessedBy, req.ID, req.CorporateID, string(advance.StatusPending),
	).Scan(&updatedID)
	if err == nil {
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("failed to update salary advance with id %s: %w", req.ID, err)
	}

	// Nothing matched: either the row is gone or someone processed it first.
	if _, getErr := r.GetByID(ctx, req.CorporateID, req.ID); getErr != nil {
		return getErr
	}
	return advance.ErrAdvanceAlreadyProcessed
}
