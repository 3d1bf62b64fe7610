package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/okboz/okboz-backend-go/internal/domain/settlement"
	"github.com/okboz/okboz-backend-go/internal/handler/http/response"
)

type SettlementHandler interface {
	ListPartners(w http.ResponseWriter, r *http.Request)
	GetMonthSummary(w http.ResponseWriter, r *http.Request)
	GetPreviousOutstanding(w http.ResponseWriter, r *http.Request)
	RecordPayment(w http.ResponseWriter, r *http.Request)
	DeleteTransaction(w http.ResponseWriter, r *http.Request)
}

type settlementHandlerImpl struct {
	settlementService settlement.SettlementService
}

func NewSettlementHandler(settlementService settlement.SettlementService) SettlementHandler {
	return &settlementHandlerImpl{settlementService: settlementService}
}

// partnerIndexParam reads the {partner} path segment.
func partnerIndexParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	idx, err := strconv.Atoi(chi.URLParam(r, "partner"))
	if err != nil || idx < 0 {
		response.BadRequest(w, "Invalid partner index", nil)
		return 0, false
	}
	return idx, true
}

func (h *settlementHandlerImpl) ListPartners(w http.ResponseWriter, r *http.Request) {
	tc, ok := tenantFrom(w, r)
	if !ok {
		return
	}

	result, err := h.settlementService.ListPartners(r.Context(), tc)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *settlementHandlerImpl) GetMonthSummary(w http.ResponseWriter, r *http.Request) {
	tc, ok := tenantFrom(w, r)
	if !ok {
		return
	}

	result, err := h.settlementService.GetMonthSummary(r.Context(), tc, chi.URLParam(r, "month"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *settlementHandlerImpl) GetPreviousOutstanding(w http.ResponseWriter, r *http.Request) {
	tc, ok := tenantFrom(w, r)
	if !ok {
		return
	}
	idx, ok := partnerIndexParam(w, r)
	if !ok {
		return
	}

	result, err := h.settlementService.GetPreviousOutstanding(r.Context(), tc, chi.URLParam(r, "month"), idx)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *settlementHandlerImpl) RecordPayment(w http.ResponseWriter, r *http.Request) {
	tc, ok := tenantFrom(w, r)
	if !ok {
		return
	}
	idx, ok := partnerIndexParam(w, r)
	if !ok {
		return
	}

	var req settlement.RecordPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.Month = chi.URLParam(r, "month")
	req.PartnerIndex = idx

	result, err := h.settlementService.RecordPayment(r.Context(), tc, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Settlement payment recorded", result)
}

func (h *settlementHandlerImpl) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	tc, ok := tenantFrom(w, r)
	if !ok {
		return
	}
	idx, ok := partnerIndexParam(w, r)
	if !ok {
		return
	}

	result, err := h.settlementService.DeleteTransaction(r.Context(), tc, settlement.DeleteTransactionRequest{
		Month:         chi.URLParam(r, "month"),
		PartnerIndex:  idx,
		TransactionID: chi.URLParam(r, "transactionId"),
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Settlement transaction removed", result)
}
