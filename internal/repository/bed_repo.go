package repository

import (
	"context"

	"hospital-dashboard/internal/model"
)

type BedRepository struct {
	beds collection[model.Bed]
}

func NewBedRepository(api Requester) *BedRepository {
	return &BedRepository{beds: collection[model.Bed]{api: api, base: "/beds"}}
}

func (r *BedRepository) List(ctx context.Context) ([]model.Bed, error) {
	return r.beds.list(ctx)
}

func (r *BedRepository) Create(ctx context.Context, in model.BedInput) (model.Bed, error) {
	return r.beds.create(ctx, in)
}

// Update writes the occupancy pair. The hospital API does not check that a
// patient holds at most one bed; the candidate filter and the pre-assign
// check in the bed service are the only guards.
func (r *BedRepository) Update(ctx context.Context, id int64, in model.BedUpdate) (model.Bed, error) {
	return r.beds.update(ctx, id, in)
}

func (r *BedRepository) Delete(ctx context.Context, id int64) error {
	return r.beds.delete(ctx, id)
}
