package payroll

import "errors"

var (
	ErrInvalidPeriod      = errors.New("invalid payroll period")
	ErrDraftNotFound      = errors.New("payroll draft not found, recompute first")
	ErrDraftEmpty         = errors.New("payroll draft has no entries")
	ErrEntryNotFound      = errors.New("payroll entry not found in draft")
	ErrHistoryNotFound    = errors.New("payroll history record not found")
	ErrInvalidEntryStatus = errors.New("invalid payroll entry status")
)
