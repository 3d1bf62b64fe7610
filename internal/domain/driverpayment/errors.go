package driverpayment

import "errors"

var (
	ErrPaymentNotFound     = errors.New("driver payment not found")
	ErrRulesNotFound       = errors.New("driver payment rules not found")
	ErrUnknownPaymentType  = errors.New("unknown driver payment type")
	ErrUnknownDiscountType = errors.New("unknown promo discount type")
)
