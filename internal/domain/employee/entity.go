package employee

import (
	"time"
)

// Employee is read from the staff directory. Payroll never writes it.
type Employee struct {
	ID          string
	CorporateID string
	FullName    string
	Designation string
	Department  string
	Branch      string
	// Compensation is stored as entered on the staff form and may contain
	// separators or currency marks.
	Compensation string
	JoiningDate  *time.Time
	Status       Status
}

type Status string

const (
	StatusActive   Status = "Active"
	StatusInactive Status = "Inactive"
)

// Filter narrows the directory listing used to build a payroll batch.
type Filter struct {
	Branch     string
	Department string
	ActiveOnly bool
}
