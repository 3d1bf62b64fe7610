package driverpayment

import (
	"time"

	"github.com/okboz/okboz-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ========== RULES DTOs ==========

type UpdateRulesRequest struct {
	FreeKm         *decimal.Decimal `json:"free_km,omitempty"`
	RatePerKm      *decimal.Decimal `json:"rate_per_km,omitempty"`
	MaxDistanceCap *decimal.Decimal `json:"max_distance_cap,omitempty"`
	PromoMaxCap    *decimal.Decimal `json:"promo_max_cap,omitempty"`
}

func (r *UpdateRulesRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.FreeKm != nil && r.FreeKm.IsNegative() {
		errs.Add("free_km", "must be non-negative")
	}
	if r.RatePerKm != nil && r.RatePerKm.IsNegative() {
		errs.Add("rate_per_km", "must be non-negative")
	}
	if r.MaxDistanceCap != nil && r.MaxDistanceCap.IsNegative() {
		errs.Add("max_distance_cap", "must be non-negative")
	}
	if r.PromoMaxCap != nil && r.PromoMaxCap.IsNegative() {
		errs.Add("promo_max_cap", "must be non-negative")
	}

	return errs.Err()
}

type RulesResponse struct {
	FreeKm         decimal.Decimal `json:"free_km"`
	RatePerKm      decimal.Decimal `json:"rate_per_km"`
	MaxDistanceCap decimal.Decimal `json:"max_distance_cap"`
	PromoMaxCap    decimal.Decimal `json:"promo_max_cap"`
	UpdatedAt      *time.Time      `json:"updated_at,omitempty"`
}

func ToRulesResponse(r Rules) RulesResponse {
	return RulesResponse{
		FreeKm:         r.FreeKm,
		RatePerKm:      r.RatePerKm,
		MaxDistanceCap: r.MaxDistanceCap,
		PromoMaxCap:    r.PromoMaxCap,
		UpdatedAt:      r.UpdatedAt,
	}
}

// ========== COMPUTATION DTOs ==========

type PreviewRequest struct {
	PaymentType      string          `json:"payment_type"`
	PickupDistanceKm decimal.Decimal `json:"pickup_distance_km"`
	PromoCode        string          `json:"promo_code,omitempty"`
	OriginalFare     decimal.Decimal `json:"original_fare"`
	DiscountType     string          `json:"discount_type,omitempty"`
	DiscountValue    decimal.Decimal `json:"discount_value"`
}

func (r *PreviewRequest) Validate() error {
	var errs validator.ValidationErrors
	r.collect(&errs)
	return errs.Err()
}

func (r *PreviewRequest) collect(errs *validator.ValidationErrors) {
	switch PaymentType(r.PaymentType) {
	case PaymentTypeEmptyTrip:
		if r.PickupDistanceKm.IsNegative() {
			errs.Add("pickup_distance_km", "must be non-negative")
		}
	case PaymentTypePromoCode:
		switch DiscountType(r.DiscountType) {
		case DiscountTypeFlat, DiscountTypePercentage:
		default:
			errs.Add("discount_type", "must be 'Flat Amount' or 'Percentage'")
		}
		if r.DiscountValue.IsNegative() {
			errs.Add("discount_value", "must be non-negative")
		}
		if r.OriginalFare.IsNegative() {
			errs.Add("original_fare", "must be non-negative")
		}
	default:
		errs.Add("payment_type", "must be 'Empty Trip Payment' or 'Promo Code Payment'")
	}
}

// Input converts the request into engine input.
func (r *PreviewRequest) Input() Input {
	return Input{
		PickupDistanceKm: r.PickupDistanceKm,
		PromoCode:        r.PromoCode,
		OriginalFare:     r.OriginalFare,
		DiscountType:     DiscountType(r.DiscountType),
		DiscountValue:    r.DiscountValue,
	}
}

type PreviewResponse struct {
	PaymentType  PaymentType      `json:"payment_type"`
	Amount       decimal.Decimal  `json:"amount"`
	IsCapApplied bool             `json:"is_cap_applied"`
	KmCapApplied bool             `json:"km_cap_applied"`
	ChargeableKm *decimal.Decimal `json:"chargeable_km,omitempty"`
	PaidKm       *decimal.Decimal `json:"paid_km,omitempty"`
	Rules        RulesResponse    `json:"rules"`
}

// ========== PAYMENT DTOs ==========

type CreatePaymentRequest struct {
	PreviewRequest
	DriverID      string `json:"driver_id"`
	DriverName    string `json:"driver_name"`
	DriverPhone   string `json:"driver_phone,omitempty"`
	VehicleNumber string `json:"vehicle_number,omitempty"`
	PaymentDate   string `json:"payment_date"`
	PaymentStatus string `json:"payment_status,omitempty"`
	Remarks       string `json:"remarks,omitempty"`
}

func (r *CreatePaymentRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.DriverName) {
		errs.Add("driver_name", "is required")
	}
	if _, ok := validator.IsValidDate(r.PaymentDate); !ok {
		errs.Add("payment_date", "must be in YYYY-MM-DD format")
	}
	if r.PaymentStatus != "" && r.PaymentStatus != string(PaymentStatusPaid) && r.PaymentStatus != string(PaymentStatusPending) {
		errs.Add("payment_status", "must be 'Paid' or 'Pending'")
	}
	r.PreviewRequest.collect(&errs)

	return errs.Err()
}

type UpdateStatusRequest struct {
	ID            string `json:"-"`
	PaymentStatus string `json:"payment_status" validate:"required,oneof=Paid Pending"`
}

func (r *UpdateStatusRequest) Validate() error {
	return validator.Struct(r)
}

type PaymentFilter struct {
	Status      *PaymentStatus
	PaymentType *PaymentType
	DriverID    *string
	From        *time.Time
	To          *time.Time
}

type PaymentResponse struct {
	ID            string          `json:"id"`
	DriverID      string          `json:"driver_id,omitempty"`
	DriverName    string          `json:"driver_name"`
	DriverPhone   string          `json:"driver_phone,omitempty"`
	VehicleNumber string          `json:"vehicle_number,omitempty"`
	PaymentType   PaymentType     `json:"payment_type"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentDate   string          `json:"payment_date"`
	PaymentStatus PaymentStatus   `json:"payment_status"`
	Remarks       string          `json:"remarks,omitempty"`
	Details       Details         `json:"details"`
	CreatedAt     time.Time       `json:"created_at"`
}

type PaymentListResponse struct {
	Payments     []PaymentResponse `json:"payments"`
	TotalAmount  decimal.Decimal   `json:"total_amount"`
	PaidAmount   decimal.Decimal   `json:"paid_amount"`
	PendingCount int               `json:"pending_count"`
}

func ToPaymentResponse(p DriverPayment) PaymentResponse {
	return PaymentResponse{
		ID:            p.ID,
		DriverID:      p.DriverID,
		DriverName:    p.DriverName,
		DriverPhone:   p.DriverPhone,
		VehicleNumber: p.VehicleNumber,
		PaymentType:   p.PaymentType,
		Amount:        p.Amount,
		PaymentDate:   p.PaymentDate.Format("2006-01-02"),
		PaymentStatus: p.PaymentStatus,
		Remarks:       p.Remarks,
		Details:       p.Details,
		CreatedAt:     p.CreatedAt,
	}
}
