package cron

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/okboz/okboz-backend-go/internal/domain/notification"
	"github.com/okboz/okboz-backend-go/internal/domain/settlement"
	"github.com/okboz/okboz-backend-go/internal/domain/user"
)

// SettlementJobs reminds tenant owners about partner shares left unpaid in
// the previous month.
type SettlementJobs struct {
	settlementRepo  settlement.SettlementRepository
	settlementSvc   settlement.SettlementService
	notificationSvc notification.Service

	// RunHour is the UTC hour in which reminders go out; ReminderDays is how
	// many days at the start of a month they repeat.
	RunHour      int
	ReminderDays int
	now          func() time.Time
}

func NewSettlementJobs(
	settlementRepo settlement.SettlementRepository,
	settlementSvc settlement.SettlementService,
	notificationSvc notification.Service,
) *SettlementJobs {
	return &SettlementJobs{
		settlementRepo:  settlementRepo,
		settlementSvc:   settlementSvc,
		notificationSvc: notificationSvc,
		RunHour:         3,
		ReminderDays:    5,
		now:             time.Now,
	}
}

func (j *SettlementJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddAlignedJob("settlement_outstanding_reminder", time.Hour, j.RemindOutstanding)
}

func (j *SettlementJobs) RemindOutstanding(ctx context.Context) error {
	now := j.now().UTC()
	if now.Hour() != j.RunHour || now.Day() > j.ReminderDays {
		return nil
	}

	month := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -1, 0).Format("2006-01")
	slog.Info("Cron: Starting settlement reminder job", "month", month)

	corporateIDs, err := j.settlementRepo.ListCorporateIDs(ctx, month)
	if err != nil {
		return fmt.Errorf("failed to list corporates with settlements: %w", err)
	}

	sent := 0
	for _, corporateID := range corporateIDs {
		items, err := j.settlementSvc.OutstandingForMonth(ctx, corporateID, month)
		if err != nil {
			slog.Error("Cron: Failed to read outstanding settlements", "corporate_id", corporateID, "error", err)
			continue
		}
		if len(items) == 0 {
			continue
		}

		if err := j.notificationSvc.QueueNotification(ctx, reminderFor(corporateID, month, items)); err != nil {
			slog.Error("Cron: Failed to queue settlement reminder", "corporate_id", corporateID, "error", err)
			continue
		}
		sent++
	}

	slog.Info("Cron: Settlement reminder job finished", "month", month, "tenants", len(corporateIDs), "reminders", sent)
	return nil
}

func reminderFor(corporateID, month string, items []settlement.OutstandingResponse) notification.CreateNotificationRequest {
	names := make([]string, 0, len(items))
	partners := make([]map[string]interface{}, 0, len(items))
	for _, item := range items {
		names = append(names, fmt.Sprintf("%s (%s)", item.PartnerName, item.Outstanding.StringFixed(2)))
		partners = append(partners, map[string]interface{}{
			"partner_index": item.PartnerIndex,
			"outstanding":   item.Outstanding.String(),
		})
	}

	return notification.CreateNotificationRequest{
		CorporateID: corporateID,
		TargetRoles: []string{string(user.RoleAdmin), string(user.RoleCorporate)},
		Type:        notification.TypeSettlementReminder,
		Title:       "Partner settlement pending",
		Message:     fmt.Sprintf("Unpaid partner shares for %s: %s", month, strings.Join(names, ", ")),
		Link:        "/settlements?month=" + month,
		Data: map[string]interface{}{
			"month":    month,
			"partners": partners,
		},
	}
}
