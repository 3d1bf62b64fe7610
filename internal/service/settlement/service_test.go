package settlement

import (
	"context"
	"errors"
	"testing"

	"github.com/okboz/okboz-backend-go/internal/domain/settlement"
	"github.com/okboz/okboz-backend-go/internal/domain/tenant"
	"github.com/okboz/okboz-backend-go/internal/domain/user"
	"github.com/okboz/okboz-backend-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSettlements struct {
	records map[settlement.Key]settlement.Record
}

func (f *fakeSettlements) Get(ctx context.Context, key settlement.Key) (settlement.Record, error) {
	r, ok := f.records[key]
	if !ok {
		return settlement.Record{}, settlement.ErrRecordNotFound
	}
	return r, nil
}

func (f *fakeSettlements) ListByMonth(ctx context.Context, corporateID, month string) ([]settlement.Record, error) {
	var out []settlement.Record
	for k, r := range f.records {
		if k.CorporateID == corporateID && k.Month == month {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeSettlements) Mutate(ctx context.Context, key settlement.Key, fn func(rec *settlement.Record, exists bool) error) (settlement.Record, error) {
	rec, exists := f.records[key]
	if !exists {
		rec = settlement.Record{Key: key, Status: settlement.StatusPending}
	}
	if err := fn(&rec, exists); err != nil {
		return settlement.Record{}, err
	}
	rec.Key = key
	f.records[key] = rec
	return rec, nil
}

func (f *fakeSettlements) ListCorporateIDs(ctx context.Context, month string) ([]string, error) {
	return []string{"corp-1"}, nil
}

type fakePartners struct {
	partners []settlement.Partner
}

func (f *fakePartners) List(ctx context.Context, corporateID string) ([]settlement.Partner, error) {
	var out []settlement.Partner
	for _, p := range f.partners {
		if p.CorporateID == corporateID {
			out = append(out, p)
		}
	}
	return out, nil
}

type fakeLedger struct {
	totals map[string]settlement.LedgerTotals
}

func (f *fakeLedger) MonthTotals(ctx context.Context, corporateID, month string) (settlement.LedgerTotals, error) {
	return f.totals[month], nil
}

type settlementFixture struct {
	svc     settlement.SettlementService
	records *fakeSettlements
	ledger  *fakeLedger
}

func newSettlementFixture() *settlementFixture {
	f := &settlementFixture{
		records: &fakeSettlements{records: make(map[settlement.Key]settlement.Record)},
		ledger: &fakeLedger{totals: map[string]settlement.LedgerTotals{
			"2025-01": {Income: dec("6000"), Expense: dec("2000")},
			"2025-02": {Income: dec("7000"), Expense: dec("2200")},
			"2025-03": {Income: dec("1000"), Expense: dec("3000")},
		}},
	}
	partners := &fakePartners{partners: []settlement.Partner{
		{CorporateID: "corp-1", Index: 0, Name: "Anil", Percentage: dec("75")},
		{CorporateID: "corp-1", Index: 1, Name: "Bela", Percentage: dec("25")},
	}}
	f.svc = NewSettlementService(f.records, partners, f.ledger, nil)
	return f
}

func ownerContext() tenant.Context {
	return tenant.Context{CorporateID: "corp-1", UserID: "owner", Role: user.RoleCorporate}
}

func pay(month string, partner int, amount string) settlement.RecordPaymentRequest {
	return settlement.RecordPaymentRequest{
		Month:        month,
		PartnerIndex: partner,
		Amount:       dec(amount),
		Method:       string(settlement.MethodBankTransfer),
		Date:         "2025-02-05",
	}
}

func TestSettlementService_RecordAndDelete(t *testing.T) {
	ctx := context.Background()
	f := newSettlementFixture()
	tc := ownerContext()

	// Bela's January share is 25% of 4000
	first, err := f.svc.RecordPayment(ctx, tc, pay("2025-01", 1, "400"))
	require.NoError(t, err)
	assertDec(t, "1000", first.TotalShare)
	assertDec(t, "400", first.Paid)
	assertDec(t, "600", first.Balance)
	assert.Equal(t, settlement.StatusPartial, first.Status)

	second, err := f.svc.RecordPayment(ctx, tc, pay("2025-01", 1, "600"))
	require.NoError(t, err)
	assert.Equal(t, settlement.StatusSettled, second.Status)
	require.Len(t, second.Transactions, 2)
	assert.Equal(t, "2025-02-05", second.Transactions[0].Date.Format("2006-01-02"))

	after, err := f.svc.DeleteTransaction(ctx, tc, settlement.DeleteTransactionRequest{
		Month:         "2025-01",
		PartnerIndex:  1,
		TransactionID: second.Transactions[0].ID,
	})
	require.NoError(t, err)
	assertDec(t, "600", after.Paid)
	assert.Equal(t, settlement.StatusPartial, after.Status)
}

func TestSettlementService_RecordPaymentErrors(t *testing.T) {
	ctx := context.Background()
	f := newSettlementFixture()
	tc := ownerContext()

	_, err := f.svc.RecordPayment(ctx, tc, pay("2025-01", 1, "0"))
	var verrs validator.ValidationErrors
	require.True(t, errors.As(err, &verrs))

	_, err = f.svc.RecordPayment(ctx, tc, pay("2025-01", 7, "100"))
	assert.ErrorIs(t, err, settlement.ErrPartnerNotFound)

	_, err = f.svc.RecordPayment(ctx, tc, pay("2025-03", 0, "100"))
	assert.ErrorIs(t, err, settlement.ErrLossNotSettleable)
	assert.Empty(t, f.records.records)

	_, err = f.svc.DeleteTransaction(ctx, tc, settlement.DeleteTransactionRequest{Month: "2025-01", PartnerIndex: 0, TransactionID: "t1"})
	assert.ErrorIs(t, err, settlement.ErrRecordNotFound)
}

func TestSettlementService_MonthSummaryCarriesForward(t *testing.T) {
	ctx := context.Background()
	f := newSettlementFixture()
	tc := ownerContext()

	_, err := f.svc.RecordPayment(ctx, tc, pay("2025-01", 1, "300"))
	require.NoError(t, err)

	summary, err := f.svc.GetMonthSummary(ctx, tc, "2025-02")
	require.NoError(t, err)
	assertDec(t, "4800", summary.NetBalance)
	require.Len(t, summary.Partners, 2)

	bela := summary.Partners[1]
	assert.Equal(t, "Bela", bela.Name)
	assertDec(t, "1200", bela.ShareAmount)
	assertDec(t, "700", bela.PreviousOutstanding)
	assertDec(t, "1900", bela.TotalPayable)
	assert.Nil(t, bela.Record)

	anil := summary.Partners[0]
	assertDec(t, "3600", anil.ShareAmount)
	assertDec(t, "0", anil.PreviousOutstanding)

	january := f.records.records[settlement.Key{CorporateID: "corp-1", Month: "2025-01", PartnerIndex: 1}]
	assertDec(t, "1000", january.TotalShare)
	assertDec(t, "300", january.Paid)

	outstanding, err := f.svc.GetPreviousOutstanding(ctx, tc, "2025-02", 1)
	require.NoError(t, err)
	assert.Equal(t, "2025-01", outstanding.Month)
	assertDec(t, "700", outstanding.Outstanding)
}

func TestSettlementService_LossMonth(t *testing.T) {
	f := newSettlementFixture()

	summary, err := f.svc.GetMonthSummary(context.Background(), ownerContext(), "2025-03")
	require.NoError(t, err)
	assertDec(t, "-2000", summary.NetBalance)
	for _, p := range summary.Partners {
		assert.True(t, p.IsLoss)
		assertDec(t, "0", p.TotalPayable)
	}
}

func TestSettlementService_LegacyRecordIsNormalized(t *testing.T) {
	ctx := context.Background()
	f := newSettlementFixture()
	key := settlement.Key{CorporateID: "corp-1", Month: "2025-01", PartnerIndex: 0}
	f.records.records[key] = settlement.Record{Key: key, TotalShare: dec("3000"), Status: settlement.StatusSettled, Legacy: true}

	summary, err := f.svc.GetMonthSummary(ctx, ownerContext(), "2025-01")
	require.NoError(t, err)
	require.NotNil(t, summary.Partners[0].Record)
	assertDec(t, "3000", summary.Partners[0].Record.Paid)
	assert.Equal(t, settlement.StatusSettled, summary.Partners[0].Record.Status)

	outstanding, err := f.svc.GetPreviousOutstanding(ctx, ownerContext(), "2025-02", 0)
	require.NoError(t, err)
	assertDec(t, "0", outstanding.Outstanding)
}

func TestSettlementService_OutstandingForMonth(t *testing.T) {
	ctx := context.Background()
	f := newSettlementFixture()

	_, err := f.svc.RecordPayment(ctx, ownerContext(), pay("2025-01", 0, "3000"))
	require.NoError(t, err)
	_, err = f.svc.RecordPayment(ctx, ownerContext(), pay("2025-01", 1, "250"))
	require.NoError(t, err)

	items, err := f.svc.OutstandingForMonth(ctx, "corp-1", "2025-01")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Bela", items[0].PartnerName)
	assertDec(t, "750", items[0].Outstanding)
}

func TestSettlementService_InvalidMonth(t *testing.T) {
	f := newSettlementFixture()

	_, err := f.svc.GetMonthSummary(context.Background(), ownerContext(), "2025-13")
	var verrs validator.ValidationErrors
	assert.True(t, errors.As(err, &verrs))
}
