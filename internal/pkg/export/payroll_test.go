package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/okboz/okboz-backend-go/internal/domain/payroll"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func testRecord() payroll.HistoryRecord {
	d := decimal.RequireFromString
	return payroll.HistoryRecord{
		ID:        "h1",
		Name:      "January 2025 Payroll",
		Period:    "2025-01",
		CreatedAt: time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
		Entries: map[string]payroll.Entry{
			"e2": {
				EmployeeID: "e2", EmployeeName: "Ravi",
				GrossEarned: d("10000"), BasicSalary: d("5000"), HRA: d("3000"), SpecialAllowance: d("2000"), Allowances: d("5000"),
				Status: payroll.EntryStatusPending,
			},
			"e1": {
				EmployeeID: "e1", EmployeeName: "Asha",
				GrossEarned: d("29500"), BasicSalary: d("14750"), HRA: d("8850"), SpecialAllowance: d("5900"), Allowances: d("14750"),
				AdvanceDeduction: d("2000"),
				Status:           payroll.EntryStatusPaid,
			},
		},
	}
}

func TestPayrollFileName(t *testing.T) {
	assert.Equal(t, "January_2025_Payroll_2025-01.xlsx", PayrollFileName(testRecord()))
	assert.Equal(t, "payroll_2025-02.xlsx", PayrollFileName(payroll.HistoryRecord{Name: "//", Period: "2025-02"}))
}

func TestPayrollWorkbook(t *testing.T) {
	content, err := PayrollWorkbook(testRecord())
	require.NoError(t, err)
	require.NotEmpty(t, content)

	f, err := excelize.OpenReader(bytes.NewReader(content))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Payroll")
	require.NoError(t, err)
	require.Len(t, rows, 4)

	assert.Equal(t, "Employee ID", rows[0][0])
	assert.Equal(t, "Net Pay", rows[0][14])

	assert.Equal(t, "Asha", rows[1][1])
	assert.Equal(t, "27500", rows[1][14])
	assert.Equal(t, "Paid", rows[1][15])
	assert.Equal(t, "Ravi", rows[2][1])

	assert.Equal(t, "TOTAL", rows[3][1])
	assert.Equal(t, "39500", rows[3][7])
	assert.Equal(t, "37500", rows[3][14])
}
