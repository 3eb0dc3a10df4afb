package handler

import (
	"context"
	"net/http"

	"hospital-dashboard/internal/model"
	"hospital-dashboard/internal/service"
)

// RecordsHandler serves the patient, staff, role and appointment pages.
type RecordsHandler struct {
	service *service.RecordsService
}

func NewRecordsHandler(service *service.RecordsService) *RecordsHandler {
	return &RecordsHandler{service: service}
}

func (h *RecordsHandler) ListPatients(w http.ResponseWriter, r *http.Request) {
	respondList(w, r, h.service.Patients)
}

func (h *RecordsHandler) CreatePatient(w http.ResponseWriter, r *http.Request) {
	respondCreate(w, r, h.service.CreatePatient)
}

func (h *RecordsHandler) UpdatePatient(w http.ResponseWriter, r *http.Request) {
	respondUpdate(w, r, h.service.UpdatePatient)
}

func (h *RecordsHandler) DeletePatient(w http.ResponseWriter, r *http.Request) {
	respondDelete(w, r, h.service.DeletePatient)
}

func (h *RecordsHandler) ListStaff(w http.ResponseWriter, r *http.Request) {
	respondList(w, r, h.service.Staff)
}

func (h *RecordsHandler) CreateStaff(w http.ResponseWriter, r *http.Request) {
	respondCreate(w, r, h.service.CreateStaff)
}

func (h *RecordsHandler) UpdateStaff(w http.ResponseWriter, r *http.Request) {
	respondUpdate(w, r, h.service.UpdateStaff)
}

func (h *RecordsHandler) DeleteStaff(w http.ResponseWriter, r *http.Request) {
	respondDelete(w, r, h.service.DeleteStaff)
}

func (h *RecordsHandler) ListRoles(w http.ResponseWriter, r *http.Request) {
	respondList(w, r, h.service.Roles)
}

func (h *RecordsHandler) CreateRole(w http.ResponseWriter, r *http.Request) {
	respondCreate(w, r, h.service.CreateRole)
}

func (h *RecordsHandler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	respondUpdate(w, r, h.service.UpdateRole)
}

func (h *RecordsHandler) DeleteRole(w http.ResponseWriter, r *http.Request) {
	respondDelete(w, r, h.service.DeleteRole)
}

func (h *RecordsHandler) ListAppointments(w http.ResponseWriter, r *http.Request) {
	respondList(w, r, h.service.Appointments)
}

func (h *RecordsHandler) CreateAppointment(w http.ResponseWriter, r *http.Request) {
	respondCreate(w, r, h.service.CreateAppointment)
}

func (h *RecordsHandler) UpdateAppointment(w http.ResponseWriter, r *http.Request) {
	respondUpdate(w, r, h.service.UpdateAppointment)
}

func (h *RecordsHandler) DeleteAppointment(w http.ResponseWriter, r *http.Request) {
	respondDelete(w, r, h.service.DeleteAppointment)
}

func respondList[T any](w http.ResponseWriter, r *http.Request, list func(context.Context) ([]T, error)) {
	items, err := list(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeList(w, items)
}

func respondCreate[In any, T any](w http.ResponseWriter, r *http.Request, create func(context.Context, In) ([]T, error)) {
	var payload In
	if !decodeJSON(w, r, &payload) {
		return
	}

	items, err := create(r.Context(), payload)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusCreated, items, &model.Meta{Total: len(items)})
}

func respondUpdate[In any, T any](w http.ResponseWriter, r *http.Request, update func(context.Context, int64, In) ([]T, error)) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var payload In
	if !decodeJSON(w, r, &payload) {
		return
	}

	items, err := update(r.Context(), id, payload)
	if err != nil {
		writeError(w, err)
		return
	}
	writeList(w, items)
}

func respondDelete[T any](w http.ResponseWriter, r *http.Request, remove func(context.Context, int64) ([]T, error)) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	items, err := remove(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeList(w, items)
}
