package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/okboz/okboz-backend-go/internal/domain/advance"
	"github.com/okboz/okboz-backend-go/internal/handler/http/response"
)

type AdvanceHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	ListMine(w http.ResponseWriter, r *http.Request)
	Approve(w http.ResponseWriter, r *http.Request)
	Reject(w http.ResponseWriter, r *http.Request)
}

type advanceHandlerImpl struct {
	advanceService advance.AdvanceService
}

func NewAdvanceHandler(advanceService advance.AdvanceService) AdvanceHandler {
	return &advanceHandlerImpl{advanceService: advanceService}
}

func (h *advanceHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	tc, ok := tenantFrom(w, r)
	if !ok {
		return
	}

	var req advance.CreateAdvanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.advanceService.Create(r.Context(), tc, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Salary advance requested", result)
}

func (h *advanceHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	tc, ok := tenantFrom(w, r)
	if !ok {
		return
	}

	result, err := h.advanceService.Get(r.Context(), tc, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *advanceHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	tc, ok := tenantFrom(w, r)
	if !ok {
		return
	}

	var filter advance.AdvanceFilter
	if status := r.URL.Query().Get("status"); status != "" {
		s := advance.Status(status)
		filter.Status = &s
	}
	filter.EmployeeID = optionalQuery(r, "employee_id")

	result, err := h.advanceService.List(r.Context(), tc, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *advanceHandlerImpl) ListMine(w http.ResponseWriter, r *http.Request) {
	tc, ok := tenantFrom(w, r)
	if !ok {
		return
	}

	result, err := h.advanceService.ListMine(r.Context(), tc)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *advanceHandlerImpl) Approve(w http.ResponseWriter, r *http.Request) {
	tc, ok := tenantFrom(w, r)
	if !ok {
		return
	}

	var req advance.ApproveAdvanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	result, err := h.advanceService.Approve(r.Context(), tc, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Salary advance approved and paid", result)
}

func (h *advanceHandlerImpl) Reject(w http.ResponseWriter, r *http.Request) {
	tc, ok := tenantFrom(w, r)
	if !ok {
		return
	}

	result, err := h.advanceService.Reject(r.Context(), tc, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Salary advance rejected", result)
}
