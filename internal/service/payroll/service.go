package payroll

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/okboz/okboz-backend-go/internal/domain/advance"
	"github.com/okboz/okboz-backend-go/internal/domain/attendance"
	"github.com/okboz/okboz-backend-go/internal/domain/employee"
	"github.com/okboz/okboz-backend-go/internal/domain/notification"
	"github.com/okboz/okboz-backend-go/internal/domain/payroll"
	"github.com/okboz/okboz-backend-go/internal/domain/tenant"
	"github.com/okboz/okboz-backend-go/internal/domain/user"
	"github.com/okboz/okboz-backend-go/internal/pkg/export"
	"github.com/okboz/okboz-backend-go/internal/pkg/storage"
)

type PayrollServiceImpl struct {
	employeeRepo   employee.EmployeeRepository
	attendanceRepo attendance.AttendanceRepository
	advanceRepo    advance.AdvanceRepository
	historyRepo    payroll.HistoryRepository
	drafts         payroll.DraftStore
	archive        storage.FileStorage
	notifier       notification.Service
	changes        tenant.ChangePublisher
	calc           Calculator
	draftTTL       time.Duration
	now            func() time.Time
}

func NewPayrollService(
	employeeRepo employee.EmployeeRepository,
	attendanceRepo attendance.AttendanceRepository,
	advanceRepo advance.AdvanceRepository,
	historyRepo payroll.HistoryRepository,
	drafts payroll.DraftStore,
	archive storage.FileStorage,
	notifier notification.Service,
	changes tenant.ChangePublisher,
	calc Calculator,
	draftTTL time.Duration,
) payroll.PayrollService {
	if changes == nil {
		changes = tenant.NopPublisher()
	}
	return &PayrollServiceImpl{
		employeeRepo:   employeeRepo,
		attendanceRepo: attendanceRepo,
		advanceRepo:    advanceRepo,
		historyRepo:    historyRepo,
		drafts:         drafts,
		archive:        archive,
		notifier:       notifier,
		changes:        changes,
		calc:           calc,
		draftTTL:       draftTTL,
		now:            time.Now,
	}
}

// ========== WORKING SET ==========

func (s *PayrollServiceImpl) Recompute(ctx context.Context, tc tenant.Context, req payroll.RecomputeRequest) (payroll.DraftResponse, error) {
	if err := tc.Validate(); err != nil {
		return payroll.DraftResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return payroll.DraftResponse{}, err
	}
	period, err := payroll.NewPeriod(req.Year, req.Month)
	if err != nil {
		return payroll.DraftResponse{}, err
	}

	employees, err := s.employeeRepo.List(ctx, tc.CorporateID, employee.Filter{
		Branch:     req.Branch,
		Department: req.Department,
		ActiveOnly: true,
	})
	if err != nil {
		return payroll.DraftResponse{}, fmt.Errorf("failed to get employees: %w", err)
	}

	employeeIDs := make([]string, 0, len(employees))
	for _, emp := range employees {
		employeeIDs = append(employeeIDs, emp.ID)
	}

	days, err := s.attendanceRepo.ListByMonth(ctx, tc.CorporateID, employeeIDs, period.Year, period.Month)
	if err != nil {
		return payroll.DraftResponse{}, fmt.Errorf("failed to get attendance: %w", err)
	}

	paid := advance.StatusPaid
	advances, err := s.advanceRepo.List(ctx, tc.CorporateID, advance.AdvanceFilter{Status: &paid})
	if err != nil {
		return payroll.DraftResponse{}, fmt.Errorf("failed to get advances: %w", err)
	}

	// Manual edits from the previous recompute of this period are merged in
	var previous map[string]payroll.Entry
	draft, err := s.drafts.Get(ctx, tc.CorporateID, period.Key())
	switch {
	case err == nil:
		previous = draft.Entries
	case errors.Is(err, payroll.ErrDraftNotFound):
	default:
		return payroll.DraftResponse{}, err
	}

	entries := s.calc.ComputeBatch(BatchInput{
		Period:     period,
		Employees:  employees,
		Attendance: days,
		Advances:   advances,
	}, previous)

	// A branch or department run only recomputes its own employees; the
	// rest of the period's entries stay as they were
	if req.Branch != "" || req.Department != "" {
		for id, entry := range previous {
			if _, ok := entries[id]; !ok {
				entries[id] = entry
			}
		}
	}

	draft = payroll.Draft{
		CorporateID: tc.CorporateID,
		Period:      period.Key(),
		Entries:     entries,
		UpdatedAt:   s.now(),
	}
	if err := s.drafts.Save(ctx, draft, s.draftTTL); err != nil {
		return payroll.DraftResponse{}, err
	}

	slog.Info("Payroll recomputed",
		"corporate_id", tc.CorporateID,
		"period", draft.Period,
		"employees", len(entries))
	s.publish(ctx, tc, tenant.EntityPayrollDraft, tenant.ActionUpdated, draft.Period)

	return payroll.ToDraftResponse(draft), nil
}

func (s *PayrollServiceImpl) GetDraft(ctx context.Context, tc tenant.Context, period string) (payroll.DraftResponse, error) {
	if err := tc.Validate(); err != nil {
		return payroll.DraftResponse{}, err
	}
	p, err := payroll.ParsePeriod(period)
	if err != nil {
		return payroll.DraftResponse{}, err
	}
	draft, err := s.drafts.Get(ctx, tc.CorporateID, p.Key())
	if err != nil {
		return payroll.DraftResponse{}, err
	}
	return payroll.ToDraftResponse(draft), nil
}

func (s *PayrollServiceImpl) UpdateEntry(ctx context.Context, tc tenant.Context, req payroll.UpdateEntryRequest) (payroll.EntryResponse, error) {
	if err := tc.Validate(); err != nil {
		return payroll.EntryResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return payroll.EntryResponse{}, err
	}

	draft, err := s.drafts.Get(ctx, tc.CorporateID, req.Period)
	if err != nil {
		return payroll.EntryResponse{}, err
	}

	entry, ok := draft.Entries[req.EmployeeID]
	if !ok {
		return payroll.EntryResponse{}, payroll.ErrEntryNotFound
	}
	if req.Bonus != nil {
		entry.Bonus = *req.Bonus
	}
	if req.Deductions != nil {
		entry.Deductions = *req.Deductions
	}
	if req.Status != nil {
		entry.Status = payroll.EntryStatus(*req.Status)
	}

	draft.Entries[req.EmployeeID] = entry
	draft.UpdatedAt = s.now()
	if err := s.drafts.Save(ctx, draft, s.draftTTL); err != nil {
		return payroll.EntryResponse{}, err
	}

	s.publish(ctx, tc, tenant.EntityPayrollDraft, tenant.ActionUpdated, draft.Period)

	return payroll.ToEntryResponse(entry), nil
}

func (s *PayrollServiceImpl) DiscardDraft(ctx context.Context, tc tenant.Context, period string) error {
	if err := tc.Validate(); err != nil {
		return err
	}
	p, err := payroll.ParsePeriod(period)
	if err != nil {
		return err
	}
	if err := s.drafts.Delete(ctx, tc.CorporateID, p.Key()); err != nil {
		return err
	}
	s.publish(ctx, tc, tenant.EntityPayrollDraft, tenant.ActionDeleted, p.Key())
	return nil
}

// ========== HISTORY ==========

func (s *PayrollServiceImpl) SaveBatch(ctx context.Context, tc tenant.Context, req payroll.SaveBatchRequest) (payroll.HistoryResponse, error) {
	if err := tc.Validate(); err != nil {
		return payroll.HistoryResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return payroll.HistoryResponse{}, err
	}
	period, err := payroll.ParsePeriod(req.Period)
	if err != nil {
		return payroll.HistoryResponse{}, err
	}

	draft, err := s.drafts.Get(ctx, tc.CorporateID, period.Key())
	if err != nil {
		return payroll.HistoryResponse{}, err
	}

	record, err := NewHistoryRecord(uuid.NewString(), tc.CorporateID, tc.UserID, period, draft.Entries, s.now())
	if err != nil {
		return payroll.HistoryResponse{}, err
	}

	created, err := s.historyRepo.Create(ctx, record)
	if err != nil {
		return payroll.HistoryResponse{}, err
	}

	if key, ok := s.archiveRecord(ctx, created); ok {
		created.ArchiveKey = &key
	}

	s.notify(ctx, notification.CreateNotificationRequest{
		CorporateID: created.CorporateID,
		TargetRoles: []string{string(user.RoleAdmin), string(user.RoleCorporate)},
		Type:        notification.TypePayrollSaved,
		Title:       "Payroll Saved",
		Message:     fmt.Sprintf("%s saved for %d employees, total payout %s", created.Name, created.EmployeeCount, created.TotalPayout.StringFixed(2)),
		Link:        "/payroll/history/" + created.ID,
		Data: map[string]interface{}{
			"history_id":   created.ID,
			"period":       created.Period,
			"total_payout": created.TotalPayout.String(),
		},
	})
	s.publish(ctx, tc, tenant.EntityPayrollHistory, tenant.ActionCreated, created.ID)

	slog.Info("Payroll batch saved",
		"corporate_id", created.CorporateID,
		"history_id", created.ID,
		"employees", created.EmployeeCount)

	return payroll.ToHistoryResponse(created), nil
}

func (s *PayrollServiceImpl) ListHistory(ctx context.Context, tc tenant.Context) ([]payroll.HistorySummaryResponse, error) {
	if err := tc.Validate(); err != nil {
		return nil, err
	}
	records, err := s.historyRepo.List(ctx, tc.CorporateID)
	if err != nil {
		return nil, err
	}

	out := make([]payroll.HistorySummaryResponse, len(records))
	for i, r := range records {
		out[i] = payroll.ToHistorySummary(r)
	}
	return out, nil
}

func (s *PayrollServiceImpl) GetHistory(ctx context.Context, tc tenant.Context, id string) (payroll.HistoryResponse, error) {
	if err := tc.Validate(); err != nil {
		return payroll.HistoryResponse{}, err
	}
	record, err := s.historyRepo.GetByID(ctx, tc.CorporateID, id)
	if err != nil {
		return payroll.HistoryResponse{}, err
	}
	return payroll.ToHistoryResponse(record), nil
}

func (s *PayrollServiceImpl) DeleteHistory(ctx context.Context, tc tenant.Context, id string) error {
	if err := tc.Validate(); err != nil {
		return err
	}
	record, err := s.historyRepo.GetByID(ctx, tc.CorporateID, id)
	if err != nil {
		return err
	}
	if err := s.historyRepo.Delete(ctx, tc.CorporateID, id); err != nil {
		return err
	}

	if record.ArchiveKey != nil && s.archive != nil {
		if err := s.archive.Delete(ctx, *record.ArchiveKey); err != nil {
			slog.Warn("Failed to delete payroll archive", "history_id", id, "key", *record.ArchiveKey, "error", err)
		}
	}

	s.publish(ctx, tc, tenant.EntityPayrollHistory, tenant.ActionDeleted, id)
	return nil
}

func (s *PayrollServiceImpl) ExportHistory(ctx context.Context, tc tenant.Context, id string) (payroll.ExportFile, error) {
	if err := tc.Validate(); err != nil {
		return payroll.ExportFile{}, err
	}
	record, err := s.historyRepo.GetByID(ctx, tc.CorporateID, id)
	if err != nil {
		return payroll.ExportFile{}, err
	}

	content, err := export.PayrollWorkbook(record)
	if err != nil {
		return payroll.ExportFile{}, err
	}

	return payroll.ExportFile{
		FileName:    export.PayrollFileName(record),
		ContentType: export.XLSXContentType,
		Content:     content,
	}, nil
}

// ========== SALARY STRUCTURE ==========

func (s *PayrollServiceImpl) GetSalaryStructure(ctx context.Context, tc tenant.Context, employeeID string) (payroll.SalaryStructureResponse, error) {
	if err := tc.Validate(); err != nil {
		return payroll.SalaryStructureResponse{}, err
	}
	emp, err := s.employeeRepo.GetByID(ctx, tc.CorporateID, employeeID)
	if err != nil {
		return payroll.SalaryStructureResponse{}, err
	}

	pkg := s.calc.FullPackage(s.calc.SanitizeCompensation(emp.Compensation))
	return payroll.SalaryStructureResponse{
		EmployeeID:   emp.ID,
		EmployeeName: emp.FullName,
		Monthly:      pkg.Monthly,
		Basic:        pkg.Basic,
		HRA:          pkg.HRA,
		Allowances:   pkg.Allowances,
		Total:        pkg.Total(),
	}, nil
}

// archiveRecord uploads the saved batch as JSON. A failed upload leaves the
// record unarchived and is only logged.
func (s *PayrollServiceImpl) archiveRecord(ctx context.Context, record payroll.HistoryRecord) (string, bool) {
	if s.archive == nil {
		return "", false
	}

	body, err := json.Marshal(payroll.ToHistoryResponse(record))
	if err != nil {
		slog.Warn("Failed to encode payroll archive", "history_id", record.ID, "error", err)
		return "", false
	}

	key, err := s.archive.Upload(ctx, bytes.NewReader(body), storage.PayrollArchiveKey(record.CorporateID, record.Period, record.ID), "application/json")
	if err != nil {
		slog.Warn("Failed to upload payroll archive", "history_id", record.ID, "error", err)
		return "", false
	}

	if err := s.historyRepo.SetArchiveKey(ctx, record.CorporateID, record.ID, key); err != nil {
		slog.Warn("Failed to store payroll archive key", "history_id", record.ID, "error", err)
		return "", false
	}
	return key, true
}

func (s *PayrollServiceImpl) notify(ctx context.Context, req notification.CreateNotificationRequest) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.QueueNotification(ctx, req); err != nil {
		slog.Warn("Failed to queue payroll notification", "corporate_id", req.CorporateID, "error", err)
	}
}

func (s *PayrollServiceImpl) publish(ctx context.Context, tc tenant.Context, entity tenant.Entity, action tenant.Action, id string) {
	if err := s.changes.PublishChange(ctx, tenant.NewChange(tc, entity, action, id)); err != nil {
		slog.Warn("Failed to publish payroll change", "corporate_id", tc.CorporateID, "error", err)
	}
}
