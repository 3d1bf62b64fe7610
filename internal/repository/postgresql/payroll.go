package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/okboz/okboz-backend-go/internal/domain/payroll"
	"github.com/okboz/okboz-backend-go/internal/pkg/database"
)

type payrollHistoryRepository struct {
	db *database.DB
}

func NewPayrollHistoryRepository(db *database.DB) payroll.HistoryRepository {
	return &payrollHistoryRepository{db: db}
}

const historyColumns = `id, corporate_id, name, period, created_at, created_by, total_payout, employee_count, entries, archive_key`

func scanHistory(row pgx.Row) (payroll.HistoryRecord, error) {
	var h payroll.HistoryRecord
	var entriesJSON []byte
	err := row.Scan(
		&h.ID, &h.CorporateID, &h.Name, &h.Period, &h.CreatedAt, &h.CreatedBy,
		&h.TotalPayout, &h.EmployeeCount, &entriesJSON, &h.ArchiveKey,
	)
	if err != nil {
		return payroll.HistoryRecord{}, err
	}
	if err := json.Unmarshal(entriesJSON, &h.Entries); err != nil {
		return payroll.HistoryRecord{}, fmt.Errorf("failed to decode payroll entries: %w", err)
	}
	return h, nil
}

func (r *payrollHistoryRepository) Create(ctx context.Context, record payroll.HistoryRecord) (payroll.HistoryRecord, error) {
	q := GetQuerier(ctx, r.db)

	entriesJSON, err := json.Marshal(record.Entries)
	if err != nil {
		return payroll.HistoryRecord{}, fmt.Errorf("failed to marshal payroll entries: %w", err)
	}

	query := `
		INSERT INTO payroll_history (
			id, corporate_id, name, period, created_at, created_by,
			total_payout, employee_count, entries, archive_key
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + historyColumns

	created, err := scanHistory(q.QueryRow(ctx, query,
		record.ID, record.CorporateID, record.Name, record.Period, record.CreatedAt, record.CreatedBy,
		record.TotalPayout, record.EmployeeCount, entriesJSON, record.ArchiveKey,
	))
	if err != nil {
		return payroll.HistoryRecord{}, fmt.Errorf("failed to create payroll history: %w", err)
	}
	return created, nil
}

func (r *payrollHistoryRepository) GetByID(ctx context.Context, corporateID, id string) (payroll.HistoryRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + historyColumns + ` FROM payroll_history WHERE id = $1 AND corporate_id = $2`

	h, err := scanHistory(q.QueryRow(ctx, query, id, corporateID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.HistoryRecord{}, payroll.ErrHistoryNotFound
		}
		return payroll.HistoryRecord{}, fmt.Errorf("failed to get payroll history with id %s: %w", id, err)
	}
	return h, nil
}

// List returns the tenant's saved batches, newest first.
func (r *payrollHistoryRepository) List(ctx context.Context, corporateID string) ([]payroll.HistoryRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + historyColumns + ` FROM payroll_history WHERE corporate_id = $1 ORDER BY created_at DESC, id`

	rows, err := q.Query(ctx, query, corporateID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payroll history: %w", err)
	}
	defer rows.Close()

	var records []payroll.HistoryRecord
	for rows.Next() {
		h, err := scanHistory(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payroll history: %w", err)
		}
		records = append(records, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate payroll history: %w", err)
	}
	return records, nil
}

func (r *payrollHistoryRepository) Delete(ctx context.Context, corporateID, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM payroll_history WHERE id = $1 AND corporate_id = $2`, id, corporateID)
	if err != nil {
		return fmt.Errorf("failed to delete payroll history with id %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return payroll.ErrHistoryNotFound
	}
	return nil
}

func (r *payrollHistoryRepository) SetArchiveKey(ctx context.Context, corporateID, id, key string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `UPDATE payroll_history SET archive_key = $1 WHERE id = $2 AND corporate_id = $3`, key, id, corporateID)
	if err != nil {
		return fmt.Errorf("failed to set archive key for payroll history %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return payroll.ErrHistoryNotFound
	}
	return nil
}
