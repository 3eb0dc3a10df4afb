package repository

import (
	"context"

	"hospital-dashboard/internal/model"
)

type PatientRepository struct {
	records collection[model.Patient]
}

func NewPatientRepository(api Requester) *PatientRepository {
	return &PatientRepository{records: collection[model.Patient]{api: api, base: "/patients"}}
}

func (r *PatientRepository) List(ctx context.Context) ([]model.Patient, error) {
	return r.records.list(ctx)
}

func (r *PatientRepository) Create(ctx context.Context, in model.PatientInput) (model.Patient, error) {
	return r.records.create(ctx, in)
}

func (r *PatientRepository) Update(ctx context.Context, id int64, in model.PatientInput) (model.Patient, error) {
	return r.records.update(ctx, id, in)
}

func (r *PatientRepository) Delete(ctx context.Context, id int64) error {
	return r.records.delete(ctx, id)
}
