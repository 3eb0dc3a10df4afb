package handler

import (
	"net/http"

	"hospital-dashboard/internal/model"
	"hospital-dashboard/internal/service"
)

type BillingHandler struct {
	service *service.BillingService
}

func NewBillingHandler(service *service.BillingService) *BillingHandler {
	return &BillingHandler{service: service}
}

func (h *BillingHandler) List(w http.ResponseWriter, r *http.Request) {
	invoices, err := h.service.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeList(w, invoices)
}

func (h *BillingHandler) Create(w http.ResponseWriter, r *http.Request) {
	var payload model.InvoiceInput
	if !decodeJSON(w, r, &payload) {
		return
	}

	invoices, err := h.service.Create(r.Context(), payload)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusCreated, invoices, &model.Meta{Total: len(invoices)})
}

func (h *BillingHandler) Pay(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	invoices, err := h.service.MarkPaid(r.Context(), id)
	if err != nil {
		if invoices != nil {
			writeFailure(w, err, invoices)
			return
		}
		writeError(w, err)
		return
	}
	writeList(w, invoices)
}
