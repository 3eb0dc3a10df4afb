package handler

import (
	"net/http"

	"hospital-dashboard/internal/model"
	"hospital-dashboard/internal/service"
)

type BedHandler struct {
	service *service.BedService
}

func NewBedHandler(service *service.BedService) *BedHandler {
	return &BedHandler{service: service}
}

func (h *BedHandler) List(w http.ResponseWriter, r *http.Request) {
	beds, err := h.service.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeList(w, beds)
}

func (h *BedHandler) Candidates(w http.ResponseWriter, r *http.Request) {
	patients, err := h.service.Candidates(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeList(w, patients)
}

func (h *BedHandler) Create(w http.ResponseWriter, r *http.Request) {
	var payload model.BedInput
	if !decodeJSON(w, r, &payload) {
		return
	}

	allocation, err := h.service.Create(r.Context(), payload)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusCreated, allocation, nil)
}

func (h *BedHandler) Assign(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var payload model.AssignBedRequest
	if !decodeJSON(w, r, &payload) {
		return
	}

	allocation, err := h.service.Assign(r.Context(), id, payload.PatientID)
	h.writeAllocation(w, allocation, err)
}

func (h *BedHandler) Discharge(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	allocation, err := h.service.Discharge(r.Context(), id)
	h.writeAllocation(w, allocation, err)
}

func (h *BedHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	allocation, err := h.service.Delete(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, allocation, nil)
}

func (h *BedHandler) writeAllocation(w http.ResponseWriter, allocation service.BedAllocation, err error) {
	if err != nil {
		if allocation.Beds != nil {
			writeFailure(w, err, allocation)
			return
		}
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, allocation, nil)
}
