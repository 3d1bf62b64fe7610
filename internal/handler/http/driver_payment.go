package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/okboz/okboz-backend-go/internal/domain/driverpayment"
	"github.com/okboz/okboz-backend-go/internal/handler/http/response"
)

type DriverPaymentHandler interface {
	// Rules
	GetRules(w http.ResponseWriter, r *http.Request)
	UpdateRules(w http.ResponseWriter, r *http.Request)

	// Payments
	Preview(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	UpdateStatus(w http.ResponseWriter, r *http.Request)
}

type driverPaymentHandlerImpl struct {
	driverPaymentService driverpayment.DriverPaymentService
}

func NewDriverPaymentHandler(driverPaymentService driverpayment.DriverPaymentService) DriverPaymentHandler {
	return &driverPaymentHandlerImpl{driverPaymentService: driverPaymentService}
}

func (h *driverPaymentHandlerImpl) GetRules(w http.ResponseWriter, r *http.Request) {
	tc, ok := tenantFrom(w, r)
	if !ok {
		return
	}

	result, err := h.driverPaymentService.GetRules(r.Context(), tc)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *driverPaymentHandlerImpl) UpdateRules(w http.ResponseWriter, r *http.Request) {
	tc, ok := tenantFrom(w, r)
	if !ok {
		return
	}

	var req driverpayment.UpdateRulesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.driverPaymentService.UpdateRules(r.Context(), tc, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Preview computes the payable amount without storing anything.
func (h *driverPaymentHandlerImpl) Preview(w http.ResponseWriter, r *http.Request) {
	tc, ok := tenantFrom(w, r)
	if !ok {
		return
	}

	var req driverpayment.PreviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.driverPaymentService.Preview(r.Context(), tc, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *driverPaymentHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	tc, ok := tenantFrom(w, r)
	if !ok {
		return
	}

	var req driverpayment.CreatePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.driverPaymentService.Create(r.Context(), tc, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Driver payment recorded", result)
}

func (h *driverPaymentHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	tc, ok := tenantFrom(w, r)
	if !ok {
		return
	}

	result, err := h.driverPaymentService.Get(r.Context(), tc, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *driverPaymentHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	tc, ok := tenantFrom(w, r)
	if !ok {
		return
	}

	var filter driverpayment.PaymentFilter
	if status := r.URL.Query().Get("status"); status != "" {
		s := driverpayment.PaymentStatus(status)
		filter.Status = &s
	}
	if paymentType := r.URL.Query().Get("payment_type"); paymentType != "" {
		pt := driverpayment.PaymentType(paymentType)
		filter.PaymentType = &pt
	}
	filter.DriverID = optionalQuery(r, "driver_id")

	from, ok := optionalDateQuery(r, "from")
	if !ok {
		response.BadRequest(w, "Invalid from date format", map[string]string{"from": "must be in YYYY-MM-DD format"})
		return
	}
	to, ok := optionalDateQuery(r, "to")
	if !ok {
		response.BadRequest(w, "Invalid to date format", map[string]string{"to": "must be in YYYY-MM-DD format"})
		return
	}
	filter.From, filter.To = from, to

	result, err := h.driverPaymentService.List(r.Context(), tc, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *driverPaymentHandlerImpl) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	tc, ok := tenantFrom(w, r)
	if !ok {
		return
	}

	var req driverpayment.UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	result, err := h.driverPaymentService.UpdateStatus(r.Context(), tc, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
