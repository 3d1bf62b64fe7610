package advance

import (
	"errors"
	"testing"
	"time"

	"github.com/okboz/okboz-backend-go/internal/domain/advance"
	"github.com/okboz/okboz-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func adv(id, emp string, status advance.Status, requested, approved string) advance.SalaryAdvanceRequest {
	return advance.SalaryAdvanceRequest{
		ID:              id,
		CorporateID:     "corp-1",
		EmployeeID:      emp,
		EmployeeName:    "Emp " + emp,
		AmountRequested: dec(requested),
		AmountApproved:  dec(approved),
		Status:          status,
	}
}

func TestResolveDeduction(t *testing.T) {
	advances := []advance.SalaryAdvanceRequest{
		adv("a1", "e1", advance.StatusPaid, "5000", "3000"),
		adv("a2", "e1", advance.StatusPaid, "2000", "2000"),
		adv("a3", "e1", advance.StatusPending, "1000", "0"),
		adv("a4", "e1", advance.StatusRejected, "9000", "0"),
		adv("a5", "e1", advance.StatusApproved, "700", "700"),
		adv("a6", "e2", advance.StatusPaid, "400", "400"),
	}

	assert.True(t, dec("5000").Equal(ResolveDeduction("e1", advances)))
	assert.True(t, dec("400").Equal(ResolveDeduction("e2", advances)))
	assert.True(t, decimal.Zero.Equal(ResolveDeduction("e3", advances)))

	all := ResolveDeductions(advances)
	assert.True(t, dec("5000").Equal(all["e1"]))
	assert.True(t, dec("400").Equal(all["e2"]))
	_, ok := all["e3"]
	assert.False(t, ok)
}

func TestResolveDeduction_Monotonic(t *testing.T) {
	advances := []advance.SalaryAdvanceRequest{
		adv("a1", "e1", advance.StatusPaid, "1000", "1000"),
	}
	before := ResolveDeduction("e1", advances)

	advances = append(advances, adv("a2", "e1", advance.StatusPaid, "250", "250"))
	after := ResolveDeduction("e1", advances)

	assert.True(t, after.GreaterThanOrEqual(before))
	assert.True(t, dec("1250").Equal(after))
}

func TestApprove(t *testing.T) {
	now := time.Date(2025, 1, 20, 10, 0, 0, 0, time.UTC)
	req := adv("a1", "e1", advance.StatusPending, "5000", "0")

	t.Run("partial approval pays out", func(t *testing.T) {
		out, ev, err := Approve(req, dec("3000"), advance.PaymentModeUPI, now)
		require.NoError(t, err)

		assert.Equal(t, advance.StatusPaid, out.Status)
		assert.True(t, dec("3000").Equal(out.AmountApproved))
		require.NotNil(t, out.PaymentDate)
		assert.Equal(t, now, *out.PaymentDate)
		assert.Equal(t, advance.PaymentModeUPI, out.PaymentMode)

		assert.Equal(t, advance.EventAdvanceSettled, ev.Type)
		assert.Equal(t, "corp-1", ev.CorporateID)
		assert.Equal(t, "e1", ev.EmployeeID)
		assert.True(t, dec("3000").Equal(ev.Amount))
		assert.Equal(t, advance.PaymentModeUPI, ev.Mode)
		assert.Contains(t, ev.TargetRoles, "admin")

		assert.Equal(t, advance.StatusPending, req.Status, "input must not be mutated")
	})

	t.Run("amount above request is rejected", func(t *testing.T) {
		_, _, err := Approve(req, dec("5001"), advance.PaymentModeCash, now)
		var verrs validator.ValidationErrors
		require.True(t, errors.As(err, &verrs))
		assert.Contains(t, verrs.ToMap()["amount_approved"], "must not exceed")
	})

	t.Run("zero amount is rejected", func(t *testing.T) {
		_, _, err := Approve(req, decimal.Zero, advance.PaymentModeCash, now)
		var verrs validator.ValidationErrors
		require.True(t, errors.As(err, &verrs))
		assert.Equal(t, "must be greater than 0", verrs.ToMap()["amount_approved"])
	})

	t.Run("already processed", func(t *testing.T) {
		paid := adv("a2", "e1", advance.StatusPaid, "100", "100")
		_, _, err := Approve(paid, dec("100"), advance.PaymentModeCash, now)
		assert.ErrorIs(t, err, advance.ErrAdvanceAlreadyProcessed)
	})
}

func TestReject(t *testing.T) {
	now := time.Date(2025, 1, 20, 10, 0, 0, 0, time.UTC)
	req := adv("a1", "e1", advance.StatusPending, "5000", "0")

	out, ev, err := Reject(req, now)
	require.NoError(t, err)
	assert.Equal(t, advance.StatusRejected, out.Status)
	assert.True(t, out.AmountApproved.IsZero())
	assert.Nil(t, out.PaymentDate)
	assert.Equal(t, advance.EventAdvanceRejected, ev.Type)

	_, _, err = Reject(out, now)
	assert.ErrorIs(t, err, advance.ErrAdvanceAlreadyProcessed)

	assert.True(t, ResolveDeduction("e1", []advance.SalaryAdvanceRequest{out}).IsZero())
}
