package handler

import (
	"net/http"

	"hospital-dashboard/internal/model"
	"hospital-dashboard/internal/service"
)

type PharmacyHandler struct {
	service *service.PharmacyService
}

func NewPharmacyHandler(service *service.PharmacyService) *PharmacyHandler {
	return &PharmacyHandler{service: service}
}

func (h *PharmacyHandler) Inventory(w http.ResponseWriter, r *http.Request) {
	medicines, err := h.service.Inventory(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeList(w, medicines)
}

func (h *PharmacyHandler) AddMedicine(w http.ResponseWriter, r *http.Request) {
	var payload model.MedicineInput
	if !decodeJSON(w, r, &payload) {
		return
	}

	medicines, err := h.service.AddMedicine(r.Context(), payload)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusCreated, medicines, &model.Meta{Total: len(medicines)})
}

func (h *PharmacyHandler) UpdateMedicine(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var payload model.MedicineUpdate
	if !decodeJSON(w, r, &payload) {
		return
	}

	medicines, err := h.service.UpdateMedicine(r.Context(), id, payload)
	if err != nil {
		writeError(w, err)
		return
	}
	writeList(w, medicines)
}

func (h *PharmacyHandler) Restock(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var payload model.Restock
	if !decodeJSON(w, r, &payload) {
		return
	}

	medicines, err := h.service.Restock(r.Context(), id, payload.QuantityAdded)
	if err != nil {
		writeError(w, err)
		return
	}
	writeList(w, medicines)
}

func (h *PharmacyHandler) DeleteMedicine(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	medicines, err := h.service.DeleteMedicine(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeList(w, medicines)
}

func (h *PharmacyHandler) History(w http.ResponseWriter, r *http.Request) {
	history, err := h.service.History(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeList(w, history)
}

func (h *PharmacyHandler) Dispense(w http.ResponseWriter, r *http.Request) {
	var payload model.DispenseRequest
	if !decodeJSON(w, r, &payload) {
		return
	}

	result, err := h.service.Dispense(r.Context(), payload)
	if err != nil {
		if result.Inventory != nil {
			writeFailure(w, err, result)
			return
		}
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusCreated, result, nil)
}
