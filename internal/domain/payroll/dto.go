package payroll

import (
	"sort"
	"time"

	"github.com/okboz/okboz-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ========== WORKING SET DTOs ==========

type RecomputeRequest struct {
	Year       int    `json:"year" validate:"required,gte=2000,lte=2100"`
	Month      int    `json:"month" validate:"required,gte=1,lte=12"`
	Branch     string `json:"branch,omitempty"`
	Department string `json:"department,omitempty"`
}

func (r *RecomputeRequest) Validate() error {
	return validator.Struct(r)
}

type UpdateEntryRequest struct {
	Period     string           `json:"-"`
	EmployeeID string           `json:"-"`
	Bonus      *decimal.Decimal `json:"bonus,omitempty"`
	Deductions *decimal.Decimal `json:"deductions,omitempty"`
	Status     *string          `json:"status,omitempty"`
}

func (r *UpdateEntryRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidMonth(r.Period) {
		errs.Add("period", "must be in YYYY-MM format")
	}
	if validator.IsEmpty(r.EmployeeID) {
		errs.Add("employee_id", "is required")
	}
	if r.Bonus != nil && r.Bonus.IsNegative() {
		errs.Add("bonus", "must be non-negative")
	}
	if r.Deductions != nil && r.Deductions.IsNegative() {
		errs.Add("deductions", "must be non-negative")
	}
	if r.Status != nil && *r.Status != string(EntryStatusPending) && *r.Status != string(EntryStatusPaid) {
		errs.Add("status", "must be 'Pending' or 'Paid'")
	}

	return errs.Err()
}

type SaveBatchRequest struct {
	Period string `json:"period"`
}

func (r *SaveBatchRequest) Validate() error {
	var errs validator.ValidationErrors
	if !validator.IsValidMonth(r.Period) {
		errs.Add("period", "must be in YYYY-MM format")
	}
	return errs.Err()
}

type EntryResponse struct {
	EmployeeID          string          `json:"employee_id"`
	EmployeeName        string          `json:"employee_name"`
	Department          string          `json:"department,omitempty"`
	Branch              string          `json:"branch,omitempty"`
	MonthlyCompensation decimal.Decimal `json:"monthly_compensation"`
	PerDaySalary        decimal.Decimal `json:"per_day_salary"`
	GrossEarned         decimal.Decimal `json:"gross_earned"`
	BasicSalary         decimal.Decimal `json:"basic_salary"`
	HRA                 decimal.Decimal `json:"hra"`
	SpecialAllowance    decimal.Decimal `json:"special_allowance"`
	Allowances          decimal.Decimal `json:"allowances"`
	Bonus               decimal.Decimal `json:"bonus"`
	Deductions          decimal.Decimal `json:"deductions"`
	AdvanceDeduction    decimal.Decimal `json:"advance_deduction"`
	NetPay              decimal.Decimal `json:"net_pay"`
	PayableDays         decimal.Decimal `json:"payable_days"`
	TotalDays           int             `json:"total_days"`
	Status              EntryStatus     `json:"status"`
}

type DraftTotals struct {
	EmployeeCount    int             `json:"employee_count"`
	GrossEarned      decimal.Decimal `json:"gross_earned"`
	Bonus            decimal.Decimal `json:"bonus"`
	Deductions       decimal.Decimal `json:"deductions"`
	AdvanceDeduction decimal.Decimal `json:"advance_deduction"`
	NetPay           decimal.Decimal `json:"net_pay"`
	PaidCount        int             `json:"paid_count"`
}

type DraftResponse struct {
	Period    string          `json:"period"`
	UpdatedAt time.Time       `json:"updated_at"`
	Entries   []EntryResponse `json:"entries"`
	Totals    DraftTotals     `json:"totals"`
}

// ========== HISTORY DTOs ==========

type HistorySummaryResponse struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Period        string          `json:"period"`
	CreatedAt     time.Time       `json:"created_at"`
	CreatedBy     string          `json:"created_by,omitempty"`
	TotalPayout   decimal.Decimal `json:"total_payout"`
	EmployeeCount int             `json:"employee_count"`
	Archived      bool            `json:"archived"`
}

type HistoryResponse struct {
	HistorySummaryResponse
	Entries []EntryResponse `json:"entries"`
}

type ExportFile struct {
	FileName    string
	ContentType string
	Content     []byte
}

type SalaryStructureResponse struct {
	EmployeeID   string          `json:"employee_id"`
	EmployeeName string          `json:"employee_name"`
	Monthly      decimal.Decimal `json:"monthly"`
	Basic        decimal.Decimal `json:"basic"`
	HRA          decimal.Decimal `json:"hra"`
	Allowances   decimal.Decimal `json:"allowances"`
	Total        decimal.Decimal `json:"total"`
}

// ========== MAPPERS ==========

func ToEntryResponse(e Entry) EntryResponse {
	return EntryResponse{
		EmployeeID:          e.EmployeeID,
		EmployeeName:        e.EmployeeName,
		Department:          e.Department,
		Branch:              e.Branch,
		MonthlyCompensation: e.MonthlyCompensation,
		PerDaySalary:        e.PerDaySalary,
		GrossEarned:         e.GrossEarned,
		BasicSalary:         e.BasicSalary,
		HRA:                 e.HRA,
		SpecialAllowance:    e.SpecialAllowance,
		Allowances:          e.Allowances,
		Bonus:               e.Bonus,
		Deductions:          e.Deductions,
		AdvanceDeduction:    e.AdvanceDeduction,
		NetPay:              e.NetPay(),
		PayableDays:         e.PayableDays,
		TotalDays:           e.TotalDays,
		Status:              e.Status,
	}
}

// SortedEntries returns the entries ordered by employee name, then id.
func SortedEntries(entries map[string]Entry) []Entry {
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].EmployeeName != out[j].EmployeeName {
			return out[i].EmployeeName < out[j].EmployeeName
		}
		return out[i].EmployeeID < out[j].EmployeeID
	})
	return out
}

func ToEntryResponses(entries map[string]Entry) []EntryResponse {
	sorted := SortedEntries(entries)
	out := make([]EntryResponse, len(sorted))
	for i, e := range sorted {
		out[i] = ToEntryResponse(e)
	}
	return out
}

func ToDraftResponse(d Draft) DraftResponse {
	totals := DraftTotals{
		EmployeeCount:    len(d.Entries),
		GrossEarned:      decimal.Zero,
		Bonus:            decimal.Zero,
		Deductions:       decimal.Zero,
		AdvanceDeduction: decimal.Zero,
		NetPay:           decimal.Zero,
	}
	for _, e := range d.Entries {
		totals.GrossEarned = totals.GrossEarned.Add(e.GrossEarned)
		totals.Bonus = totals.Bonus.Add(e.Bonus)
		totals.Deductions = totals.Deductions.Add(e.Deductions)
		totals.AdvanceDeduction = totals.AdvanceDeduction.Add(e.AdvanceDeduction)
		totals.NetPay = totals.NetPay.Add(e.NetPay())
		if e.Status == EntryStatusPaid {
			totals.PaidCount++
		}
	}

	return DraftResponse{
		Period:    d.Period,
		UpdatedAt: d.UpdatedAt,
		Entries:   ToEntryResponses(d.Entries),
		Totals:    totals,
	}
}

func ToHistorySummary(r HistoryRecord) HistorySummaryResponse {
	return HistorySummaryResponse{
		ID:            r.ID,
		Name:          r.Name,
		Period:        r.Period,
		CreatedAt:     r.CreatedAt,
		CreatedBy:     r.CreatedBy,
		TotalPayout:   r.TotalPayout,
		EmployeeCount: r.EmployeeCount,
		Archived:      r.ArchiveKey != nil,
	}
}

func ToHistoryResponse(r HistoryRecord) HistoryResponse {
	return HistoryResponse{
		HistorySummaryResponse: ToHistorySummary(r),
		Entries:                ToEntryResponses(r.Entries),
	}
}
