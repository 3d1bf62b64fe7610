package http

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/okboz/okboz-backend-go/internal/domain/payroll"
	"github.com/okboz/okboz-backend-go/internal/handler/http/response"
)

type PayrollHandler interface {
	// Working set
	Recompute(w http.ResponseWriter, r *http.Request)
	GetDraft(w http.ResponseWriter, r *http.Request)
	UpdateEntry(w http.ResponseWriter, r *http.Request)
	DiscardDraft(w http.ResponseWriter, r *http.Request)

	// History
	SaveBatch(w http.ResponseWriter, r *http.Request)
	ListHistory(w http.ResponseWriter, r *http.Request)
	GetHistory(w http.ResponseWriter, r *http.Request)
	DeleteHistory(w http.ResponseWriter, r *http.Request)
	ExportHistory(w http.ResponseWriter, r *http.Request)

	GetSalaryStructure(w http.ResponseWriter, r *http.Request)
}

type payrollHandlerImpl struct {
	payrollService payroll.PayrollService
}

func NewPayrollHandler(payrollService payroll.PayrollService) PayrollHandler {
	return &payrollHandlerImpl{payrollService: payrollService}
}

// ========== WORKING SET ==========

func (h *payrollHandlerImpl) Recompute(w http.ResponseWriter, r *http.Request) {
	tc, ok := tenantFrom(w, r)
	if !ok {
		return
	}

	var req payroll.RecomputeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.payrollService.Recompute(r.Context(), tc, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) GetDraft(w http.ResponseWriter, r *http.Request) {
	tc, ok := tenantFrom(w, r)
	if !ok {
		return
	}

	result, err := h.payrollService.GetDraft(r.Context(), tc, chi.URLParam(r, "period"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) UpdateEntry(w http.ResponseWriter, r *http.Request) {
	tc, ok := tenantFrom(w, r)
	if !ok {
		return
	}

	var req payroll.UpdateEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.Period = chi.URLParam(r, "period")
	req.EmployeeID = chi.URLParam(r, "employeeId")

	result, err := h.payrollService.UpdateEntry(r.Context(), tc, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) DiscardDraft(w http.ResponseWriter, r *http.Request) {
	tc, ok := tenantFrom(w, r)
	if !ok {
		return
	}

	if err := h.payrollService.DiscardDraft(r.Context(), tc, chi.URLParam(r, "period")); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll draft discarded", nil)
}

// ========== HISTORY ==========

func (h *payrollHandlerImpl) SaveBatch(w http.ResponseWriter, r *http.Request) {
	tc, ok := tenantFrom(w, r)
	if !ok {
		return
	}

	var req payroll.SaveBatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.payrollService.SaveBatch(r.Context(), tc, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Payroll batch saved", result)
}

func (h *payrollHandlerImpl) ListHistory(w http.ResponseWriter, r *http.Request) {
	tc, ok := tenantFrom(w, r)
	if !ok {
		return
	}

	result, err := h.payrollService.ListHistory(r.Context(), tc)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) GetHistory(w http.ResponseWriter, r *http.Request) {
	tc, ok := tenantFrom(w, r)
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "History ID is required", nil)
		return
	}

	result, err := h.payrollService.GetHistory(r.Context(), tc, id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) DeleteHistory(w http.ResponseWriter, r *http.Request) {
	tc, ok := tenantFrom(w, r)
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "History ID is required", nil)
		return
	}

	if err := h.payrollService.DeleteHistory(r.Context(), tc, id); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll history deleted", nil)
}

// ExportHistory downloads a saved batch as a spreadsheet.
func (h *payrollHandlerImpl) ExportHistory(w http.ResponseWriter, r *http.Request) {
	tc, ok := tenantFrom(w, r)
	if !ok {
		return
	}

	file, err := h.payrollService.ExportHistory(r.Context(), tc, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	w.Header().Set("Content-Type", file.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.FileName))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(file.Content)
}

func (h *payrollHandlerImpl) GetSalaryStructure(w http.ResponseWriter, r *http.Request) {
	tc, ok := tenantFrom(w, r)
	if !ok {
		return
	}

	result, err := h.payrollService.GetSalaryStructure(r.Context(), tc, chi.URLParam(r, "employeeId"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
