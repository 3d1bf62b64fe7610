package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/okboz/okboz-backend-go/internal/domain/driverpayment"
	"github.com/okboz/okboz-backend-go/internal/pkg/database"
)

type driverPaymentRepository struct {
	db *database.DB
}

func NewDriverPaymentRepository(db *database.DB) driverpayment.PaymentRepository {
	return &driverPaymentRepository{db: db}
}

const driverPaymentColumns = `id, corporate_id, driver_id, driver_name, driver_phone, vehicle_number, payment_type,
	amount, payment_date, payment_status, remarks, details, created_by, created_at, updated_at`

func scanDriverPayment(row pgx.Row) (driverpayment.DriverPayment, error) {
	var p driverpayment.DriverPayment
	var paymentType, status string
	var detailsJSON []byte
	err := row.Scan(
		&p.ID, &p.CorporateID, &p.DriverID, &p.DriverName, &p.DriverPhone, &p.VehicleNumber, &paymentType,
		&p.Amount, &p.PaymentDate, &status, &p.Remarks, &detailsJSON, &p.CreatedBy, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return driverpayment.DriverPayment{}, err
	}
	p.PaymentType = driverpayment.PaymentType(paymentType)
	p.PaymentStatus = driverpayment.PaymentStatus(status)
	if len(detailsJSON) > 0 {
		if err := json.Unmarshal(detailsJSON, &p.Details); err != nil {
			return driverpayment.DriverPayment{}, fmt.Errorf("failed to decode payment details: %w", err)
		}
	}
	return p, nil
}

func (r *driverPaymentRepository) Create(ctx context.Context, payment driverpayment.DriverPayment) (driverpayment.DriverPayment, error) {
	q := GetQuerier(ctx, r.db)

	detailsJSON, err := json.Marshal(payment.Details)
	if err != nil {
		return driverpayment.DriverPayment{}, fmt.Errorf("failed to marshal payment details: %w", err)
	}

	query := `
		INSERT INTO driver_payments (
			id, corporate_id, driver_id, driver_name, driver_phone, vehicle_number, payment_type,
			amount, payment_date, payment_status, remarks, details, created_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING ` + driverPaymentColumns

	created, err := scanDriverPayment(q.QueryRow(ctx, query,
		payment.ID, payment.CorporateID, payment.DriverID, payment.DriverName, payment.DriverPhone,
		payment.VehicleNumber, string(payment.PaymentType), payment.Amount, payment.PaymentDate,
		string(payment.PaymentStatus), payment.Remarks, detailsJSON, payment.CreatedBy,
	))
	if err != nil {
		return driverpayment.DriverPayment{}, fmt.Errorf("failed to create driver payment: %w", err)
	}
	return created, nil
}

func (r *driverPaymentRepository) GetByID(ctx context.Context, corporateID, id string) (driverpayment.DriverPayment, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + driverPaymentColumns + ` FROM driver_payments WHERE id = $1 AND corporate_id = $2`

	p, err := scanDriverPayment(q.QueryRow(ctx, query, id, corporateID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return driverpayment.DriverPayment{}, driverpayment.ErrPaymentNotFound
		}
		return driverpayment.DriverPayment{}, fmt.Errorf("failed to get driver payment with id %s: %w", id, err)
	}
	return p, nil
}

func (r *driverPaymentRepository) List(ctx context.Context, corporateID string, filter driverpayment.PaymentFilter) ([]driverpayment.DriverPayment, error) {
	q := GetQuerier(ctx, r.db)

	conditions := []string{"corporate_id = $1"}
	args := []interface{}{corporateID}
	argIdx := 2

	add := func(cond string, value interface{}) {
		conditions = append(conditions, fmt.Sprintf(cond, argIdx))
		args = append(args, value)
		argIdx++
	}

	if filter.Status != nil && *filter.Status != "" {
		add("payment_status = $%d", string(*filter.Status))
	}
	if filter.PaymentType != nil && *filter.PaymentType != "" {
		add("payment_type = $%d", string(*filter.PaymentType))
	}
	if filter.DriverID != nil && *filter.DriverID != "" {
		add("driver_id = $%d", *filter.DriverID)
	}
	if filter.From != nil {
		add("payment_date >= $%d", *filter.From)
	}
	if filter.To != nil {
		add("payment_date <= $%d", *filter.To)
	}

	query := fmt.Sprintf(`SELECT %s FROM driver_payments WHERE %s ORDER BY payment_date DESC, created_at DESC`,
		driverPaymentColumns, strings.Join(conditions, " AND "))

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list driver payments: %w", err)
	}
	defer rows.Close()

	var payments []driverpayment.DriverPayment
	for rows.Next() {
		p, err := scanDriverPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan driver payment: %w", err)
		}
		payments = append(payments, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate driver payments: %w", err)
	}
	return payments, nil
}

// UpdateStatus changes only the payment status; the amount stays frozen.
func (r *driverPaymentRepository) UpdateStatus(ctx context.Context, corporateID, id string, status driverpayment.PaymentStatus) (driverpayment.DriverPayment, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE driver_payments
		SET payment_status = $1, updated_at = $2
		WHERE id = $3 AND corporate_id = $4
		RETURNING ` + driverPaymentColumns

	p, err := scanDriverPayment(q.QueryRow(ctx, query, string(status), time.Now(), id, corporateID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return driverpayment.DriverPayment{}, driverpayment.ErrPaymentNotFound
		}
		return driverpayment.DriverPayment{}, fmt.Errorf("failed to update driver payment status with id %s: %w", id, err)
	}
	return p, nil
}

type driverRulesRepository struct {
	db *database.DB
}

func NewDriverRulesRepository(db *database.DB) driverpayment.RulesRepository {
	return &driverRulesRepository{db: db}
}

func (r *driverRulesRepository) Get(ctx context.Context, corporateID string) (driverpayment.Rules, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT corporate_id, free_km, rate_per_km, max_distance_cap, promo_max_cap, updated_at
		FROM driver_payment_rules
		WHERE corporate_id = $1
	`

	var rules driverpayment.Rules
	err := q.QueryRow(ctx, query, corporateID).Scan(
		&rules.CorporateID, &rules.FreeKm, &rules.RatePerKm, &rules.MaxDistanceCap, &rules.PromoMaxCap, &rules.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return driverpayment.Rules{}, driverpayment.ErrRulesNotFound
		}
		return driverpayment.Rules{}, fmt.Errorf("failed to get driver payment rules: %w", err)
	}
	return rules, nil
}

func (r *driverRulesRepository) Upsert(ctx context.Context, rules driverpayment.Rules) (driverpayment.Rules, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO driver_payment_rules (corporate_id, free_km, rate_per_km, max_distance_cap, promo_max_cap, updated_at)
		VALUES ($1, $2, $3, $4, $5, COALESCE($6, NOW()))
		ON CONFLICT (corporate_id) DO UPDATE SET
			free_km = EXCLUDED.free_km,
			rate_per_km = EXCLUDED.rate_per_km,
			max_distance_cap = EXCLUDED.max_distance_cap,
			promo_max_cap = EXCLUDED.promo_max_cap,
			updated_at = EXCLUDED.updated_at
		RETURNING corporate_id, free_km, rate_per_km, max_distance_cap, promo_max_cap, updated_at
	`

	var saved driverpayment.Rules
	err := q.QueryRow(ctx, query,
		rules.CorporateID, rules.FreeKm, rules.RatePerKm, rules.MaxDistanceCap, rules.PromoMaxCap, rules.UpdatedAt,
	).Scan(&saved.CorporateID, &saved.FreeKm, &saved.RatePerKm, &saved.MaxDistanceCap, &saved.PromoMaxCap, &saved.UpdatedAt)
	if err != nil {
		return driverpayment.Rules{}, fmt.Errorf("failed to upsert driver payment rules: %w", err)
	}
	return saved, nil
}
