package repository

import (
	"context"

	"hospital-dashboard/internal/model"
)

type AppointmentRepository struct {
	records collection[model.Appointment]
}

func NewAppointmentRepository(api Requester) *AppointmentRepository {
	return &AppointmentRepository{records: collection[model.Appointment]{api: api, base: "/appointments"}}
}

func (r *AppointmentRepository) List(ctx context.Context) ([]model.Appointment, error) {
	return r.records.list(ctx)
}

func (r *AppointmentRepository) Create(ctx context.Context, in model.AppointmentInput) (model.Appointment, error) {
	return r.records.create(ctx, in)
}

func (r *AppointmentRepository) Update(ctx context.Context, id int64, in model.AppointmentInput) (model.Appointment, error) {
	return r.records.update(ctx, id, in)
}

func (r *AppointmentRepository) Delete(ctx context.Context, id int64) error {
	return r.records.delete(ctx, id)
}
