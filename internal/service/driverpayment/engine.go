package driverpayment

import (
	"github.com/okboz/okboz-backend-go/internal/domain/driverpayment"
	"github.com/okboz/okboz-backend-go/internal/pkg/money"
	"github.com/shopspring/decimal"
)

// Compute applies rules to the input of a payment of the given type.
func Compute(paymentType driverpayment.PaymentType, rules driverpayment.Rules, in driverpayment.Input) (driverpayment.Computation, error) {
	switch paymentType {
	case driverpayment.PaymentTypeEmptyTrip:
		return EmptyTrip(rules, in.PickupDistanceKm), nil
	case driverpayment.PaymentTypePromoCode:
		return PromoCode(rules, in)
	default:
		return driverpayment.Computation{}, driverpayment.ErrUnknownPaymentType
	}
}

// EmptyTrip pays the distance driven to the pickup beyond the free allowance,
// up to the distance cap.
func EmptyTrip(rules driverpayment.Rules, pickupKm decimal.Decimal) driverpayment.Computation {
	chargeable := money.Max(decimal.Zero, pickupKm.Sub(rules.FreeKm))
	paid := money.Min(chargeable, rules.MaxDistanceCap)

	return driverpayment.Computation{
		Amount:       paid.Mul(rules.RatePerKm),
		KmCapApplied: chargeable.GreaterThan(rules.MaxDistanceCap),
		ChargeableKm: &chargeable,
		PaidKm:       &paid,
	}
}

// PromoCode reimburses the discount the driver gave, limited by the promo
// cap when one is set.
func PromoCode(rules driverpayment.Rules, in driverpayment.Input) (driverpayment.Computation, error) {
	var amount decimal.Decimal
	switch in.DiscountType {
	case driverpayment.DiscountTypeFlat:
		amount = in.DiscountValue
	case driverpayment.DiscountTypePercentage:
		amount = money.Percent(in.OriginalFare, in.DiscountValue)
	default:
		return driverpayment.Computation{}, driverpayment.ErrUnknownDiscountType
	}

	comp := driverpayment.Computation{Amount: amount}
	if rules.PromoMaxCap.IsPositive() && amount.GreaterThan(rules.PromoMaxCap) {
		comp.Amount = rules.PromoMaxCap
		comp.IsCapApplied = true
	}
	return comp, nil
}

// NewDetails records what was entered and computed for a payment.
func NewDetails(paymentType driverpayment.PaymentType, in driverpayment.Input, comp driverpayment.Computation) driverpayment.Details {
	details := driverpayment.Details{
		IsCapApplied: comp.IsCapApplied,
		KmCapApplied: comp.KmCapApplied,
	}

	switch paymentType {
	case driverpayment.PaymentTypeEmptyTrip:
		pickup := in.PickupDistanceKm
		details.PickupDistanceKm = &pickup
		details.ChargeableKm = comp.ChargeableKm
		details.PaidKm = comp.PaidKm
	case driverpayment.PaymentTypePromoCode:
		fare := in.OriginalFare
		value := in.DiscountValue
		details.PromoCode = in.PromoCode
		details.OriginalFare = &fare
		details.DiscountType = in.DiscountType
		details.DiscountValue = &value
	}
	return details
}
