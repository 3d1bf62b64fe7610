package settlement

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/okboz/okboz-backend-go/internal/domain/settlement"
	"github.com/okboz/okboz-backend-go/internal/domain/tenant"
	"github.com/okboz/okboz-backend-go/internal/pkg/validator"
)

type SettlementServiceImpl struct {
	settlementRepo settlement.SettlementRepository
	partnerRepo    settlement.PartnerRepository
	ledgerRepo     settlement.LedgerRepository
	changes        tenant.ChangePublisher
	now            func() time.Time
}

func NewSettlementService(
	settlementRepo settlement.SettlementRepository,
	partnerRepo settlement.PartnerRepository,
	ledgerRepo settlement.LedgerRepository,
	changes tenant.ChangePublisher,
) settlement.SettlementService {
	if changes == nil {
		changes = tenant.NopPublisher()
	}
	return &SettlementServiceImpl{
		settlementRepo: settlementRepo,
		partnerRepo:    partnerRepo,
		ledgerRepo:     ledgerRepo,
		changes:        changes,
		now:            time.Now,
	}
}

func (s *SettlementServiceImpl) ListPartners(ctx context.Context, tc tenant.Context) ([]settlement.PartnerResponse, error) {
	if err := tc.Validate(); err != nil {
		return nil, err
	}
	partners, err := s.partnerRepo.List(ctx, tc.CorporateID)
	if err != nil {
		return nil, err
	}

	out := make([]settlement.PartnerResponse, len(partners))
	for i, p := range partners {
		out[i] = settlement.PartnerResponse{Index: p.Index, Name: p.Name, Percentage: p.Percentage}
	}
	return out, nil
}

func (s *SettlementServiceImpl) GetMonthSummary(ctx context.Context, tc tenant.Context, month string) (settlement.MonthSummaryResponse, error) {
	if err := tc.Validate(); err != nil {
		return settlement.MonthSummaryResponse{}, err
	}
	prevMonth, err := previousMonth(month)
	if err != nil {
		return settlement.MonthSummaryResponse{}, err
	}

	totals, err := s.ledgerRepo.MonthTotals(ctx, tc.CorporateID, month)
	if err != nil {
		return settlement.MonthSummaryResponse{}, err
	}
	partners, err := s.partnerRepo.List(ctx, tc.CorporateID)
	if err != nil {
		return settlement.MonthSummaryResponse{}, err
	}
	current, err := s.recordsByPartner(ctx, tc.CorporateID, month)
	if err != nil {
		return settlement.MonthSummaryResponse{}, err
	}
	previous, err := s.recordsByPartner(ctx, tc.CorporateID, prevMonth)
	if err != nil {
		return settlement.MonthSummaryResponse{}, err
	}

	net := totals.NetBalance()
	resp := settlement.MonthSummaryResponse{
		Month:      month,
		Income:     totals.Income,
		Expense:    totals.Expense,
		NetBalance: net,
		Partners:   make([]settlement.PartnerSettlementResponse, 0, len(partners)),
	}

	for _, p := range partners {
		share := ShareAmount(net, p.Percentage)
		prev, hasPrev := previous[p.Index]
		outstanding := PreviousOutstanding(prev, hasPrev)

		item := settlement.PartnerSettlementResponse{
			PartnerIndex:        p.Index,
			Name:                p.Name,
			Percentage:          p.Percentage,
			ShareAmount:         share,
			IsLoss:              share.IsNegative(),
			PreviousOutstanding: outstanding,
			TotalPayable:        TotalPayable(share, outstanding),
		}
		if rec, ok := current[p.Index]; ok {
			r := settlement.ToRecordResponse(Normalize(rec))
			item.Record = &r
		}
		resp.Partners = append(resp.Partners, item)
	}

	return resp, nil
}

func (s *SettlementServiceImpl) GetPreviousOutstanding(ctx context.Context, tc tenant.Context, month string, partnerIndex int) (settlement.OutstandingResponse, error) {
	if err := tc.Validate(); err != nil {
		return settlement.OutstandingResponse{}, err
	}
	key, err := settlement.Key{CorporateID: tc.CorporateID, Month: month, PartnerIndex: partnerIndex}.Previous()
	if err != nil {
		return settlement.OutstandingResponse{}, err
	}

	prev, err := s.settlementRepo.Get(ctx, key)
	exists := err == nil
	if err != nil && !errors.Is(err, settlement.ErrRecordNotFound) {
		return settlement.OutstandingResponse{}, err
	}

	return settlement.OutstandingResponse{
		Month:        key.Month,
		PartnerIndex: partnerIndex,
		Outstanding:  PreviousOutstanding(prev, exists),
	}, nil
}

func (s *SettlementServiceImpl) RecordPayment(ctx context.Context, tc tenant.Context, req settlement.RecordPaymentRequest) (settlement.RecordResponse, error) {
	if err := tc.Validate(); err != nil {
		return settlement.RecordResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return settlement.RecordResponse{}, err
	}

	partner, err := s.partner(ctx, tc.CorporateID, req.PartnerIndex)
	if err != nil {
		return settlement.RecordResponse{}, err
	}
	totals, err := s.ledgerRepo.MonthTotals(ctx, tc.CorporateID, req.Month)
	if err != nil {
		return settlement.RecordResponse{}, err
	}
	share := ShareAmount(totals.NetBalance(), partner.Percentage)

	date := s.now()
	if req.Date != "" {
		date, _ = validator.IsValidDate(req.Date)
	}
	tx := settlement.Transaction{
		ID:     uuid.NewString(),
		Amount: req.Amount,
		Date:   date,
		Method: settlement.Method(req.Method),
	}

	key := settlement.Key{CorporateID: tc.CorporateID, Month: req.Month, PartnerIndex: req.PartnerIndex}
	saved, err := s.settlementRepo.Mutate(ctx, key, func(rec *settlement.Record, exists bool) error {
		updated, err := RecordPayment(*rec, share, tx)
		if err != nil {
			return err
		}
		*rec = updated
		return nil
	})
	if err != nil {
		return settlement.RecordResponse{}, err
	}

	slog.Info("Settlement payment recorded",
		"corporate_id", tc.CorporateID,
		"month", req.Month,
		"partner_index", req.PartnerIndex,
		"status", saved.Status)
	s.publish(ctx, tc, tenant.ActionUpdated, key.String())

	return settlement.ToRecordResponse(saved), nil
}

func (s *SettlementServiceImpl) DeleteTransaction(ctx context.Context, tc tenant.Context, req settlement.DeleteTransactionRequest) (settlement.RecordResponse, error) {
	if err := tc.Validate(); err != nil {
		return settlement.RecordResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return settlement.RecordResponse{}, err
	}

	key := settlement.Key{CorporateID: tc.CorporateID, Month: req.Month, PartnerIndex: req.PartnerIndex}
	saved, err := s.settlementRepo.Mutate(ctx, key, func(rec *settlement.Record, exists bool) error {
		if !exists {
			return settlement.ErrRecordNotFound
		}
		updated, err := DeleteTransaction(*rec, req.TransactionID)
		if err != nil {
			return err
		}
		*rec = updated
		return nil
	})
	if err != nil {
		return settlement.RecordResponse{}, err
	}

	s.publish(ctx, tc, tenant.ActionUpdated, key.String())
	return settlement.ToRecordResponse(saved), nil
}

func (s *SettlementServiceImpl) OutstandingForMonth(ctx context.Context, corporateID, month string) ([]settlement.OutstandingResponse, error) {
	records, err := s.settlementRepo.ListByMonth(ctx, corporateID, month)
	if err != nil {
		return nil, err
	}
	partners, err := s.partnerRepo.List(ctx, corporateID)
	if err != nil {
		return nil, err
	}
	names := make(map[int]string, len(partners))
	for _, p := range partners {
		names[p.Index] = p.Name
	}

	var out []settlement.OutstandingResponse
	for _, rec := range records {
		outstanding := Normalize(rec).Outstanding()
		if !outstanding.IsPositive() {
			continue
		}
		out = append(out, settlement.OutstandingResponse{
			Month:        month,
			PartnerIndex: rec.Key.PartnerIndex,
			PartnerName:  names[rec.Key.PartnerIndex],
			Outstanding:  outstanding,
		})
	}
	return out, nil
}

func (s *SettlementServiceImpl) partner(ctx context.Context, corporateID string, index int) (settlement.Partner, error) {
	partners, err := s.partnerRepo.List(ctx, corporateID)
	if err != nil {
		return settlement.Partner{}, err
	}
	for _, p := range partners {
		if p.Index == index {
			return p, nil
		}
	}
	return settlement.Partner{}, settlement.ErrPartnerNotFound
}

func (s *SettlementServiceImpl) recordsByPartner(ctx context.Context, corporateID, month string) (map[int]settlement.Record, error) {
	records, err := s.settlementRepo.ListByMonth(ctx, corporateID, month)
	if err != nil {
		return nil, err
	}
	out := make(map[int]settlement.Record, len(records))
	for _, r := range records {
		out[r.Key.PartnerIndex] = r
	}
	return out, nil
}

func (s *SettlementServiceImpl) publish(ctx context.Context, tc tenant.Context, action tenant.Action, id string) {
	if err := s.changes.PublishChange(ctx, tenant.NewChange(tc, tenant.EntitySettlement, action, id)); err != nil {
		slog.Warn("Failed to publish settlement change", "corporate_id", tc.CorporateID, "error", err)
	}
}

func previousMonth(month string) (string, error) {
	if !validator.IsValidMonth(month) {
		return "", validator.ValidationErrors{{Field: "month", Message: "must be in YYYY-MM format"}}
	}
	key, err := settlement.Key{Month: month}.Previous()
	if err != nil {
		return "", err
	}
	return key.Month, nil
}
