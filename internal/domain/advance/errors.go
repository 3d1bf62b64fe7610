package advance

import "errors"

var (
	ErrAdvanceNotFound         = errors.New("salary advance request not found")
	ErrAdvanceAlreadyProcessed = errors.New("salary advance request already processed")
	ErrAdvanceNotOwned         = errors.New("salary advance request belongs to another employee")
)
