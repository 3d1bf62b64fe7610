package driverpayment

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentType string

const (
	PaymentTypeEmptyTrip PaymentType = "Empty Trip Payment"
	PaymentTypePromoCode PaymentType = "Promo Code Payment"
)

type PaymentStatus string

const (
	PaymentStatusPaid    PaymentStatus = "Paid"
	PaymentStatusPending PaymentStatus = "Pending"
)

type DiscountType string

const (
	DiscountTypeFlat       DiscountType = "Flat Amount"
	DiscountTypePercentage DiscountType = "Percentage"
)

// Rules is the tenant's compensation policy. Logged payments keep the amount
// computed under the rules in force when they were created.
type Rules struct {
	CorporateID    string          `json:"corporate_id"`
	FreeKm         decimal.Decimal `json:"free_km"`
	RatePerKm      decimal.Decimal `json:"rate_per_km"`
	MaxDistanceCap decimal.Decimal `json:"max_distance_cap"`
	PromoMaxCap    decimal.Decimal `json:"promo_max_cap"`
	UpdatedAt      *time.Time      `json:"updated_at,omitempty"`
}

// DefaultRules applies until a tenant saves its own.
func DefaultRules(corporateID string) Rules {
	return Rules{
		CorporateID:    corporateID,
		FreeKm:         decimal.NewFromInt(5),
		RatePerKm:      decimal.NewFromInt(10),
		MaxDistanceCap: decimal.NewFromInt(15),
		PromoMaxCap:    decimal.NewFromInt(500),
	}
}

// Input carries the type specific figures of a payment.
type Input struct {
	PickupDistanceKm decimal.Decimal
	PromoCode        string
	OriginalFare     decimal.Decimal
	DiscountType     DiscountType
	DiscountValue    decimal.Decimal
}

// Computation is the outcome of applying the rules to an input.
type Computation struct {
	Amount       decimal.Decimal
	IsCapApplied bool
	KmCapApplied bool
	ChargeableKm *decimal.Decimal
	PaidKm       *decimal.Decimal
}

// Details is stored with a payment as entered and computed at creation.
type Details struct {
	PickupDistanceKm *decimal.Decimal `json:"pickup_distance_km,omitempty"`
	ChargeableKm     *decimal.Decimal `json:"chargeable_km,omitempty"`
	PaidKm           *decimal.Decimal `json:"paid_km,omitempty"`
	PromoCode        string           `json:"promo_code,omitempty"`
	OriginalFare     *decimal.Decimal `json:"original_fare,omitempty"`
	DiscountType     DiscountType     `json:"discount_type,omitempty"`
	DiscountValue    *decimal.Decimal `json:"discount_value,omitempty"`
	IsCapApplied     bool             `json:"is_cap_applied"`
	KmCapApplied     bool             `json:"km_cap_applied"`
}

type DriverPayment struct {
	ID            string
	CorporateID   string
	DriverID      string
	DriverName    string
	DriverPhone   string
	VehicleNumber string
	PaymentType   PaymentType
	Amount        decimal.Decimal
	PaymentDate   time.Time
	PaymentStatus PaymentStatus
	Remarks       string
	Details       Details
	CreatedBy     string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
