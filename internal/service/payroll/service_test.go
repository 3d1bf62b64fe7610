package payroll

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/okboz/okboz-backend-go/internal/domain/advance"
	"github.com/okboz/okboz-backend-go/internal/domain/attendance"
	"github.com/okboz/okboz-backend-go/internal/domain/employee"
	"github.com/okboz/okboz-backend-go/internal/domain/notification"
	"github.com/okboz/okboz-backend-go/internal/domain/payroll"
	"github.com/okboz/okboz-backend-go/internal/domain/tenant"
	"github.com/okboz/okboz-backend-go/internal/domain/user"
	"github.com/okboz/okboz-backend-go/internal/pkg/storage"
	"github.com/okboz/okboz-backend-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ========== FAKES ==========

type fakeEmployees struct {
	items []employee.Employee
}

func (f *fakeEmployees) GetByID(ctx context.Context, corporateID, id string) (employee.Employee, error) {
	for _, e := range f.items {
		if e.CorporateID == corporateID && e.ID == id {
			return e, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (f *fakeEmployees) List(ctx context.Context, corporateID string, filter employee.Filter) ([]employee.Employee, error) {
	var out []employee.Employee
	for _, e := range f.items {
		if e.CorporateID != corporateID {
			continue
		}
		if filter.Branch != "" && e.Branch != filter.Branch {
			continue
		}
		if filter.Department != "" && e.Department != filter.Department {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (f *fakeEmployees) ListCorporateIDs(ctx context.Context) ([]string, error) {
	return []string{"corp-1"}, nil
}

type fakeAttendance struct {
	days map[string][]attendance.Day
}

func (f *fakeAttendance) ListByMonth(ctx context.Context, corporateID string, employeeIDs []string, year int, month time.Month) (map[string][]attendance.Day, error) {
	out := make(map[string][]attendance.Day)
	for _, id := range employeeIDs {
		if d, ok := f.days[id]; ok {
			out[id] = d
		}
	}
	return out, nil
}

type fakeAdvances struct {
	items []advance.SalaryAdvanceRequest
}

func (f *fakeAdvances) Create(ctx context.Context, req advance.SalaryAdvanceRequest) (advance.SalaryAdvanceRequest, error) {
	f.items = append(f.items, req)
	return req, nil
}

func (f *fakeAdvances) GetByID(ctx context.Context, corporateID, id string) (advance.SalaryAdvanceRequest, error) {
	return advance.SalaryAdvanceRequest{}, advance.ErrAdvanceNotFound
}

func (f *fakeAdvances) List(ctx context.Context, corporateID string, filter advance.AdvanceFilter) ([]advance.SalaryAdvanceRequest, error) {
	var out []advance.SalaryAdvanceRequest
	for _, a := range f.items {
		if filter.Status != nil && a.Status != *filter.Status {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func (f *fakeAdvances) UpdateStatus(ctx context.Context, req advance.SalaryAdvanceRequest) error {
	return nil
}

type fakeHistory struct {
	records map[string]payroll.HistoryRecord
}

func (f *fakeHistory) Create(ctx context.Context, record payroll.HistoryRecord) (payroll.HistoryRecord, error) {
	f.records[record.ID] = record
	return record, nil
}

func (f *fakeHistory) GetByID(ctx context.Context, corporateID, id string) (payroll.HistoryRecord, error) {
	r, ok := f.records[id]
	if !ok || r.CorporateID != corporateID {
		return payroll.HistoryRecord{}, payroll.ErrHistoryNotFound
	}
	return r, nil
}

func (f *fakeHistory) List(ctx context.Context, corporateID string) ([]payroll.HistoryRecord, error) {
	var out []payroll.HistoryRecord
	for _, r := range f.records {
		if r.CorporateID == corporateID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeHistory) Delete(ctx context.Context, corporateID, id string) error {
	if _, err := f.GetByID(ctx, corporateID, id); err != nil {
		return err
	}
	delete(f.records, id)
	return nil
}

func (f *fakeHistory) SetArchiveKey(ctx context.Context, corporateID, id, key string) error {
	r := f.records[id]
	r.ArchiveKey = &key
	f.records[id] = r
	return nil
}

type fakeDrafts struct {
	drafts map[string]payroll.Draft
	ttl    time.Duration
}

func (f *fakeDrafts) Get(ctx context.Context, corporateID, period string) (payroll.Draft, error) {
	d, ok := f.drafts[corporateID+"/"+period]
	if !ok {
		return payroll.Draft{}, payroll.ErrDraftNotFound
	}
	d.Entries = CloneEntries(d.Entries)
	return d, nil
}

func (f *fakeDrafts) Save(ctx context.Context, draft payroll.Draft, ttl time.Duration) error {
	draft.Entries = CloneEntries(draft.Entries)
	f.drafts[draft.CorporateID+"/"+draft.Period] = draft
	f.ttl = ttl
	return nil
}

func (f *fakeDrafts) Delete(ctx context.Context, corporateID, period string) error {
	delete(f.drafts, corporateID+"/"+period)
	return nil
}

type fakeNotifier struct {
	mu     sync.Mutex
	queued []notification.CreateNotificationRequest
	err    error
}

func (f *fakeNotifier) QueueNotification(ctx context.Context, req notification.CreateNotificationRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queued = append(f.queued, req)
	return f.err
}

func (f *fakeNotifier) QueueBulkNotification(ctx context.Context, reqs []notification.CreateNotificationRequest) error {
	for _, r := range reqs {
		_ = f.QueueNotification(ctx, r)
	}
	return f.err
}

func (f *fakeNotifier) GetNotifications(ctx context.Context, tc tenant.Context, page, pageSize int, unreadOnly bool) (*notification.NotificationListResponse, error) {
	return &notification.NotificationListResponse{}, nil
}

func (f *fakeNotifier) GetUnreadCount(ctx context.Context, tc tenant.Context) (int, error) {
	return 0, nil
}

func (f *fakeNotifier) MarkAsRead(ctx context.Context, tc tenant.Context, req notification.MarkAsReadRequest) error {
	return nil
}

func (f *fakeNotifier) MarkAllAsRead(ctx context.Context, tc tenant.Context) error {
	return nil
}

func (f *fakeNotifier) Subscribe(ctx context.Context, tc tenant.Context) (<-chan notification.SSEEvent, func()) {
	ch := make(chan notification.SSEEvent)
	return ch, func() {}
}

func (f *fakeNotifier) Stop() {}

type recordingPublisher struct {
	events []tenant.ChangeEvent
}

func (p *recordingPublisher) PublishChange(ctx context.Context, event tenant.ChangeEvent) error {
	p.events = append(p.events, event)
	return nil
}

// ========== SETUP ==========

type payrollFixture struct {
	svc       payroll.PayrollService
	employees *fakeEmployees
	advances  *fakeAdvances
	history   *fakeHistory
	drafts    *fakeDrafts
	notifier  *fakeNotifier
	changes   *recordingPublisher
	archive   *storage.LocalStorage
}

func newPayrollFixture(t *testing.T) *payrollFixture {
	t.Helper()

	archive, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	in := batchInput(t)
	f := &payrollFixture{
		employees: &fakeEmployees{items: append(in.Employees,
			employee.Employee{ID: "x1", CorporateID: "corp-2", FullName: "Other", Compensation: "9000"},
		)},
		advances: &fakeAdvances{items: in.Advances},
		history:  &fakeHistory{records: make(map[string]payroll.HistoryRecord)},
		drafts:   &fakeDrafts{drafts: make(map[string]payroll.Draft)},
		notifier: &fakeNotifier{},
		changes:  &recordingPublisher{},
		archive:  archive,
	}
	f.svc = NewPayrollService(
		f.employees,
		&fakeAttendance{days: in.Attendance},
		f.advances,
		f.history,
		f.drafts,
		archive,
		f.notifier,
		f.changes,
		newTestCalculator(),
		72*time.Hour,
	)
	return f
}

func adminContext() tenant.Context {
	return tenant.Context{CorporateID: "corp-1", UserID: "user-1", Role: user.RoleAdmin}
}

// ========== TESTS ==========

func TestPayrollService_Recompute(t *testing.T) {
	ctx := context.Background()
	f := newPayrollFixture(t)

	draft, err := f.svc.Recompute(ctx, adminContext(), payroll.RecomputeRequest{Year: 2025, Month: 1})
	require.NoError(t, err)

	assert.Equal(t, "2025-01", draft.Period)
	require.Len(t, draft.Entries, 3)
	// sorted by name
	assert.Equal(t, "Asha", draft.Entries[0].EmployeeName)
	assert.Equal(t, "Meena", draft.Entries[1].EmployeeName)
	assert.Equal(t, "Ravi", draft.Entries[2].EmployeeName)
	assertDec(t, "37500", draft.Totals.NetPay)
	assertDec(t, "2000", draft.Totals.AdvanceDeduction)
	assert.Equal(t, 72*time.Hour, f.drafts.ttl)

	require.Len(t, f.changes.events, 1)
	assert.Equal(t, tenant.EntityPayrollDraft, f.changes.events[0].Entity)
}

func TestPayrollService_RecomputeFilters(t *testing.T) {
	f := newPayrollFixture(t)

	draft, err := f.svc.Recompute(context.Background(), adminContext(), payroll.RecomputeRequest{Year: 2025, Month: 1, Department: "Ops"})
	require.NoError(t, err)
	require.Len(t, draft.Entries, 1)
	assert.Equal(t, "e1", draft.Entries[0].EmployeeID)
}

func TestPayrollService_RecomputeInvalid(t *testing.T) {
	f := newPayrollFixture(t)

	_, err := f.svc.Recompute(context.Background(), adminContext(), payroll.RecomputeRequest{Year: 2025, Month: 13})
	var verrs validator.ValidationErrors
	assert.True(t, errors.As(err, &verrs))

	_, err = f.svc.Recompute(context.Background(), tenant.Context{Role: user.RoleAdmin}, payroll.RecomputeRequest{Year: 2025, Month: 1})
	assert.ErrorIs(t, err, tenant.ErrTenantRequired)
}

func TestPayrollService_ManualEditsSurviveRecompute(t *testing.T) {
	ctx := context.Background()
	f := newPayrollFixture(t)
	tc := adminContext()

	_, err := f.svc.Recompute(ctx, tc, payroll.RecomputeRequest{Year: 2025, Month: 1})
	require.NoError(t, err)

	bonus := dec("500")
	status := string(payroll.EntryStatusPaid)
	entry, err := f.svc.UpdateEntry(ctx, tc, payroll.UpdateEntryRequest{
		Period:     "2025-01",
		EmployeeID: "e1",
		Bonus:      &bonus,
		Status:     &status,
	})
	require.NoError(t, err)
	assertDec(t, "28000", entry.NetPay)

	// A new paid advance arrives, then the batch is recomputed
	f.advances.items = append(f.advances.items, paidAdvance("a5", "e1", "1000"))
	draft, err := f.svc.Recompute(ctx, tc, payroll.RecomputeRequest{Year: 2025, Month: 1})
	require.NoError(t, err)

	e1 := draft.Entries[0]
	assert.Equal(t, "e1", e1.EmployeeID)
	assertDec(t, "500", e1.Bonus)
	assert.Equal(t, payroll.EntryStatusPaid, e1.Status)
	assertDec(t, "3000", e1.AdvanceDeduction)
	assertDec(t, "27000", e1.NetPay)
}

func TestPayrollService_FilteredRecomputeKeepsOtherEntries(t *testing.T) {
	ctx := context.Background()
	f := newPayrollFixture(t)
	tc := adminContext()

	_, err := f.svc.Recompute(ctx, tc, payroll.RecomputeRequest{Year: 2025, Month: 1})
	require.NoError(t, err)

	bonus := dec("999")
	_, err = f.svc.UpdateEntry(ctx, tc, payroll.UpdateEntryRequest{Period: "2025-01", EmployeeID: "e2", Bonus: &bonus})
	require.NoError(t, err)

	draft, err := f.svc.Recompute(ctx, tc, payroll.RecomputeRequest{Year: 2025, Month: 1, Department: "Ops"})
	require.NoError(t, err)
	require.Len(t, draft.Entries, 3)
	assertDec(t, "999", entryFor(t, draft, "e2").Bonus)

	draft, err = f.svc.Recompute(ctx, tc, payroll.RecomputeRequest{Year: 2025, Month: 1})
	require.NoError(t, err)
	require.Len(t, draft.Entries, 3)
	assertDec(t, "999", entryFor(t, draft, "e2").Bonus)
}

func entryFor(t *testing.T, draft payroll.DraftResponse, employeeID string) payroll.EntryResponse {
	t.Helper()
	for _, e := range draft.Entries {
		if e.EmployeeID == employeeID {
			return e
		}
	}
	t.Fatalf("no entry for %s", employeeID)
	return payroll.EntryResponse{}
}

func TestPayrollService_UpdateEntryErrors(t *testing.T) {
	ctx := context.Background()
	f := newPayrollFixture(t)
	tc := adminContext()

	bonus := dec("10")
	_, err := f.svc.UpdateEntry(ctx, tc, payroll.UpdateEntryRequest{Period: "2025-01", EmployeeID: "e1", Bonus: &bonus})
	assert.ErrorIs(t, err, payroll.ErrDraftNotFound)

	_, err = f.svc.Recompute(ctx, tc, payroll.RecomputeRequest{Year: 2025, Month: 1})
	require.NoError(t, err)

	_, err = f.svc.UpdateEntry(ctx, tc, payroll.UpdateEntryRequest{Period: "2025-01", EmployeeID: "nobody", Bonus: &bonus})
	assert.ErrorIs(t, err, payroll.ErrEntryNotFound)

	negative := dec("-1")
	_, err = f.svc.UpdateEntry(ctx, tc, payroll.UpdateEntryRequest{Period: "2025-01", EmployeeID: "e1", Deductions: &negative})
	var verrs validator.ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.Equal(t, "deductions", verrs[0].Field)
}

func TestPayrollService_SaveBatch(t *testing.T) {
	ctx := context.Background()
	f := newPayrollFixture(t)
	tc := adminContext()

	_, err := f.svc.Recompute(ctx, tc, payroll.RecomputeRequest{Year: 2025, Month: 1})
	require.NoError(t, err)

	saved, err := f.svc.SaveBatch(ctx, tc, payroll.SaveBatchRequest{Period: "2025-01"})
	require.NoError(t, err)

	assert.Equal(t, "January 2025 Payroll", saved.Name)
	assert.Equal(t, "user-1", saved.CreatedBy)
	assert.Equal(t, 3, saved.EmployeeCount)
	assertDec(t, "37500", saved.TotalPayout)
	assert.True(t, saved.Archived)

	stored := f.history.records[saved.ID]
	require.NotNil(t, stored.ArchiveKey)
	ok, err := f.archive.Exists(ctx, *stored.ArchiveKey)
	require.NoError(t, err)
	assert.True(t, ok)

	require.Len(t, f.notifier.queued, 1)
	assert.Equal(t, notification.TypePayrollSaved, f.notifier.queued[0].Type)

	// Later edits to the working set leave the saved batch alone
	bonus := dec("1000")
	_, err = f.svc.UpdateEntry(ctx, tc, payroll.UpdateEntryRequest{Period: "2025-01", EmployeeID: "e2", Bonus: &bonus})
	require.NoError(t, err)
	_, err = f.svc.Recompute(ctx, tc, payroll.RecomputeRequest{Year: 2025, Month: 1})
	require.NoError(t, err)

	again, err := f.svc.GetHistory(ctx, tc, saved.ID)
	require.NoError(t, err)
	assertDec(t, "37500", again.TotalPayout)
	for _, e := range again.Entries {
		assertDec(t, "0", e.Bonus)
	}
}

func TestPayrollService_SaveBatchWithoutDraft(t *testing.T) {
	f := newPayrollFixture(t)

	_, err := f.svc.SaveBatch(context.Background(), adminContext(), payroll.SaveBatchRequest{Period: "2025-01"})
	assert.ErrorIs(t, err, payroll.ErrDraftNotFound)
}

func TestPayrollService_SaveBatchNotifierFailureDoesNotFail(t *testing.T) {
	ctx := context.Background()
	f := newPayrollFixture(t)
	f.notifier.err = notification.ErrQueueFull

	_, err := f.svc.Recompute(ctx, adminContext(), payroll.RecomputeRequest{Year: 2025, Month: 1})
	require.NoError(t, err)

	_, err = f.svc.SaveBatch(ctx, adminContext(), payroll.SaveBatchRequest{Period: "2025-01"})
	assert.NoError(t, err)
}

func TestPayrollService_HistoryLifecycle(t *testing.T) {
	ctx := context.Background()
	f := newPayrollFixture(t)
	tc := adminContext()

	_, err := f.svc.Recompute(ctx, tc, payroll.RecomputeRequest{Year: 2025, Month: 1})
	require.NoError(t, err)
	saved, err := f.svc.SaveBatch(ctx, tc, payroll.SaveBatchRequest{Period: "2025-01"})
	require.NoError(t, err)

	list, err := f.svc.ListHistory(ctx, tc)
	require.NoError(t, err)
	require.Len(t, list, 1)

	other := tenant.Context{CorporateID: "corp-2", UserID: "u2", Role: user.RoleAdmin}
	_, err = f.svc.GetHistory(ctx, other, saved.ID)
	assert.ErrorIs(t, err, payroll.ErrHistoryNotFound)

	file, err := f.svc.ExportHistory(ctx, tc, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "January_2025_Payroll_2025-01.xlsx", file.FileName)
	assert.NotEmpty(t, file.Content)

	key := *f.history.records[saved.ID].ArchiveKey
	require.NoError(t, f.svc.DeleteHistory(ctx, tc, saved.ID))

	_, err = f.svc.GetHistory(ctx, tc, saved.ID)
	assert.ErrorIs(t, err, payroll.ErrHistoryNotFound)
	ok, err := f.archive.Exists(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPayrollService_DiscardDraft(t *testing.T) {
	ctx := context.Background()
	f := newPayrollFixture(t)
	tc := adminContext()

	_, err := f.svc.Recompute(ctx, tc, payroll.RecomputeRequest{Year: 2025, Month: 1})
	require.NoError(t, err)
	require.NoError(t, f.svc.DiscardDraft(ctx, tc, "2025-01"))

	_, err = f.svc.GetDraft(ctx, tc, "2025-01")
	assert.ErrorIs(t, err, payroll.ErrDraftNotFound)

	_, err = f.svc.GetDraft(ctx, tc, "2025-1x")
	assert.ErrorIs(t, err, payroll.ErrInvalidPeriod)
}

func TestPayrollService_GetSalaryStructure(t *testing.T) {
	f := newPayrollFixture(t)

	got, err := f.svc.GetSalaryStructure(context.Background(), adminContext(), "e1")
	require.NoError(t, err)
	assertDec(t, "31000", got.Monthly)
	assertDec(t, "15500", got.Basic)
	assertDec(t, "9300", got.HRA)
	assertDec(t, "6200", got.Allowances)
	assertDec(t, "31000", got.Total)

	_, err = f.svc.GetSalaryStructure(context.Background(), adminContext(), "x1")
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}
