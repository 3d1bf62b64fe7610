package settlement

import "errors"

var (
	ErrRecordNotFound      = errors.New("settlement record not found")
	ErrTransactionNotFound = errors.New("settlement transaction not found")
	ErrPartnerNotFound     = errors.New("partner not found")
	ErrInvalidMonth        = errors.New("invalid settlement month")
	ErrLossNotSettleable   = errors.New("a loss share cannot be settled")
	ErrNothingToSettle     = errors.New("partner has no share to settle for this month")
)
