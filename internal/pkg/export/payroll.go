// Package export renders saved payroll batches as spreadsheets.
package export

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/okboz/okboz-backend-go/internal/domain/payroll"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var payrollHeaders = []interface{}{
	"Employee ID", "Employee Name", "Department", "Branch",
	"Monthly Compensation", "Payable Days", "Total Days", "Gross Earned",
	"Basic", "HRA", "Special Allowance", "Bonus", "Deductions",
	"Advance Deduction", "Net Pay", "Status",
}

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

// PayrollFileName returns a filesystem friendly name for the batch export.
func PayrollFileName(record payroll.HistoryRecord) string {
	name := strings.Trim(unsafeFileChars.ReplaceAllString(record.Name, "_"), "_")
	if name == "" {
		name = "payroll"
	}
	return fmt.Sprintf("%s_%s.xlsx", name, record.Period)
}

// PayrollWorkbook writes one row per entry, ordered by employee name, and a
// totals row.
func PayrollWorkbook(record payroll.HistoryRecord) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Payroll"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	if err := f.SetSheetRow(sheet, "A1", &payrollHeaders); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("failed to create style: %w", err)
	}
	lastCol, _ := excelize.ColumnNumberToName(len(payrollHeaders))
	if err := f.SetCellStyle(sheet, "A1", lastCol+"1", bold); err != nil {
		return nil, fmt.Errorf("failed to style header: %w", err)
	}
	if err := f.SetColWidth(sheet, "A", lastCol, 18); err != nil {
		return nil, fmt.Errorf("failed to size columns: %w", err)
	}

	gross, net := decimal.Zero, decimal.Zero
	row := 2
	for _, e := range payroll.SortedEntries(record.Entries) {
		values := []interface{}{
			e.EmployeeID, e.EmployeeName, e.Department, e.Branch,
			amount(e.MonthlyCompensation), amount(e.PayableDays), e.TotalDays, amount(e.GrossEarned),
			amount(e.BasicSalary), amount(e.HRA), amount(e.SpecialAllowance), amount(e.Bonus), amount(e.Deductions),
			amount(e.AdvanceDeduction), amount(e.NetPay()), string(e.Status),
		}
		cell, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", row, err)
		}
		gross = gross.Add(e.GrossEarned)
		net = net.Add(e.NetPay())
		row++
	}

	totals := []interface{}{"", "TOTAL", "", "", "", "", "", amount(gross), "", "", "", "", "", "", amount(net), ""}
	cell, _ := excelize.CoordinatesToCellName(1, row)
	if err := f.SetSheetRow(sheet, cell, &totals); err != nil {
		return nil, fmt.Errorf("failed to write totals: %w", err)
	}
	endCell, _ := excelize.CoordinatesToCellName(len(payrollHeaders), row)
	if err := f.SetCellStyle(sheet, cell, endCell, bold); err != nil {
		return nil, fmt.Errorf("failed to style totals: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func amount(d decimal.Decimal) float64 {
	return d.InexactFloat64()
}
