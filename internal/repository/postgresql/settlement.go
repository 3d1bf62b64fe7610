package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/okboz/okboz-backend-go/internal/domain/settlement"
	"github.com/okboz/okboz-backend-go/internal/pkg/database"
	"github.com/shopspring/decimal"
)

type settlementRepository struct {
	db *database.DB
}

func NewSettlementRepository(db *database.DB) settlement.SettlementRepository {
	return &settlementRepository{db: db}
}

const settlementColumns = `corporate_id, month, partner_index, total_share, paid, status, transactions, updated_at`

func scanSettlement(row pgx.Row) (settlement.Record, error) {
	var rec settlement.Record
	var paid decimal.NullDecimal
	var status string
	var txJSON []byte
	err := row.Scan(
		&rec.Key.CorporateID, &rec.Key.Month, &rec.Key.PartnerIndex,
		&rec.TotalShare, &paid, &status, &txJSON, &rec.UpdatedAt,
	)
	if err != nil {
		return settlement.Record{}, err
	}
	rec.Status = settlement.Status(status)

	// Rows written before itemised payments have neither column.
	if !paid.Valid && txJSON == nil {
		rec.Legacy = true
		return rec, nil
	}
	rec.Paid = paid.Decimal
	rec.Transactions = []settlement.Transaction{}
	if len(txJSON) > 0 {
		if err := json.Unmarshal(txJSON, &rec.Transactions); err != nil {
			return settlement.Record{}, fmt.Errorf("failed to decode settlement transactions: %w", err)
		}
	}
	return rec, nil
}

func (r *settlementRepository) Get(ctx context.Context, key settlement.Key) (settlement.Record, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + settlementColumns + `
		FROM partner_settlements
		WHERE corporate_id = $1 AND month = $2 AND partner_index = $3`

	rec, err := scanSettlement(q.QueryRow(ctx, query, key.CorporateID, key.Month, key.PartnerIndex))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return settlement.Record{}, settlement.ErrRecordNotFound
		}
		return settlement.Record{}, fmt.Errorf("failed to get settlement %s: %w", key, err)
	}
	return rec, nil
}

func (r *settlementRepository) ListByMonth(ctx context.Context, corporateID, month string) ([]settlement.Record, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + settlementColumns + `
		FROM partner_settlements
		WHERE corporate_id = $1 AND month = $2
		ORDER BY partner_index`

	rows, err := q.Query(ctx, query, corporateID, month)
	if err != nil {
		return nil, fmt.Errorf("failed to list settlements for %s: %w", month, err)
	}
	defer rows.Close()

	var records []settlement.Record
	for rows.Next() {
		rec, err := scanSettlement(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan settlement: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate settlements: %w", err)
	}
	return records, nil
}

// Mutate runs fn against the row locked FOR UPDATE so concurrent payments on
// the same partner and month serialise. A transaction-scoped advisory lock on
// the key covers the first write, when there is no row to lock yet.
func (r *settlementRepository) Mutate(ctx context.Context, key settlement.Key, fn func(rec *settlement.Record, exists bool) error) (settlement.Record, error) {
	var saved settlement.Record

	err := WithTransaction(ctx, r.db, func(txCtx context.Context) error {
		q := GetQuerier(txCtx, r.db)

		if _, err := q.Exec(txCtx, `SELECT pg_advisory_xact_lock(hashtext($1))`, "partner_settlement:"+key.String()); err != nil {
			return fmt.Errorf("failed to lock settlement key %s: %w", key, err)
		}

		query := `SELECT ` + settlementColumns + `
			FROM partner_settlements
			WHERE corporate_id = $1 AND month = $2 AND partner_index = $3
			FOR UPDATE`

		rec, err := scanSettlement(q.QueryRow(txCtx, query, key.CorporateID, key.Month, key.PartnerIndex))
		exists := true
		if err != nil {
			if !errors.Is(err, pgx.ErrNoRows) {
				return fmt.Errorf("failed to lock settlement %s: %w", key, err)
			}
			exists = false
			rec = settlement.Record{Key: key, Status: settlement.StatusPending, Transactions: []settlement.Transaction{}}
		}

		if err := fn(&rec, exists); err != nil {
			return err
		}
		rec.Key = key
		rec.UpdatedAt = time.Now()

		saved, err = r.write(txCtx, rec)
		return err
	})
	if err != nil {
		return settlement.Record{}, err
	}
	return saved, nil
}

func (r *settlementRepository) write(ctx context.Context, rec settlement.Record) (settlement.Record, error) {
	q := GetQuerier(ctx, r.db)

	paid := decimal.NullDecimal{Decimal: rec.Paid, Valid: !rec.Legacy}
	var txJSON []byte
	if !rec.Legacy {
		txs := rec.Transactions
		if txs == nil {
			txs = []settlement.Transaction{}
		}
		var err error
		txJSON, err = json.Marshal(txs)
		if err != nil {
			return settlement.Record{}, fmt.Errorf("failed to marshal settlement transactions: %w", err)
		}
	}

	query := `
		INSERT INTO partner_settlements (corporate_id, month, partner_index, total_share, paid, status, transactions, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (corporate_id, month, partner_index) DO UPDATE SET
			total_share = EXCLUDED.total_share,
			paid = EXCLUDED.paid,
			status = EXCLUDED.status,
			transactions = EXCLUDED.transactions,
			updated_at = EXCLUDED.updated_at
		RETURNING ` + settlementColumns

	saved, err := scanSettlement(q.QueryRow(ctx, query,
		rec.Key.CorporateID, rec.Key.Month, rec.Key.PartnerIndex,
		rec.TotalShare, paid, string(rec.Status), txJSON, rec.UpdatedAt,
	))
	if err != nil {
		return settlement.Record{}, fmt.Errorf("failed to save settlement %s: %w", rec.Key, err)
	}
	return saved, nil
}

func (r *settlementRepository) ListCorporateIDs(ctx context.Context, month string) ([]string, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT DISTINCT corporate_id FROM partner_settlements WHERE month = $1 ORDER BY corporate_id`, month)
	if err != nil {
		return nil, fmt.Errorf("failed to list corporates with settlements: %w", err)
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}

type partnerRepository struct {
	db *database.DB
}

func NewPartnerRepository(db *database.DB) settlement.PartnerRepository {
	return &partnerRepository{db: db}
}

func (r *partnerRepository) List(ctx context.Context, corporateID string) ([]settlement.Partner, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT corporate_id, idx, name, percentage
		FROM partners
		WHERE corporate_id = $1
		ORDER BY idx
	`, corporateID)
	if err != nil {
		return nil, fmt.Errorf("failed to list partners: %w", err)
	}
	defer rows.Close()

	var partners []settlement.Partner
	for rows.Next() {
		var p settlement.Partner
		if err := rows.Scan(&p.CorporateID, &p.Index, &p.Name, &p.Percentage); err != nil {
			return nil, fmt.Errorf("failed to scan partner: %w", err)
		}
		partners = append(partners, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate partners: %w", err)
	}
	return partners, nil
}

type ledgerRepository struct {
	db *database.DB
}

func NewLedgerRepository(db *database.DB) settlement.LedgerRepository {
	return &ledgerRepository{db: db}
}

// MonthTotals sums the finance ledger for a "YYYY-MM" month.
func (r *ledgerRepository) MonthTotals(ctx context.Context, corporateID, month string) (settlement.LedgerTotals, error) {
	start, err := time.Parse("2006-01", month)
	if err != nil {
		return settlement.LedgerTotals{}, settlement.ErrInvalidMonth
	}
	end := start.AddDate(0, 1, 0)

	q := GetQuerier(ctx, r.db)

	query := `
		SELECT
			COALESCE(SUM(amount) FILTER (WHERE kind = 'income'), 0),
			COALESCE(SUM(amount) FILTER (WHERE kind = 'expense'), 0)
		FROM finance_entries
		WHERE corporate_id = $1 AND entry_date >= $2 AND entry_date < $3
	`

	var totals settlement.LedgerTotals
	if err := q.QueryRow(ctx, query, corporateID, start, end).Scan(&totals.Income, &totals.Expense); err != nil {
		return settlement.LedgerTotals{}, fmt.Errorf("failed to sum ledger for %s: %w", month, err)
	}
	return totals, nil
}
