package repository

import (
	"context"
	"fmt"
	"net/http"

	"hospital-dashboard/internal/model"
)

type PharmacyRepository struct {
	api           Requester
	medicines     collection[model.Medicine]
	dispensations collection[model.Dispensation]
}

func NewPharmacyRepository(api Requester) *PharmacyRepository {
	return &PharmacyRepository{
		api:           api,
		medicines:     collection[model.Medicine]{api: api, base: "/medicines"},
		dispensations: collection[model.Dispensation]{api: api, base: "/dispensations"},
	}
}

func (r *PharmacyRepository) ListMedicines(ctx context.Context) ([]model.Medicine, error) {
	return r.medicines.list(ctx)
}

func (r *PharmacyRepository) CreateMedicine(ctx context.Context, in model.MedicineInput) (model.Medicine, error) {
	return r.medicines.create(ctx, in)
}

func (r *PharmacyRepository) UpdateMedicine(ctx context.Context, id int64, in model.MedicineUpdate) (model.Medicine, error) {
	return r.medicines.update(ctx, id, in)
}

func (r *PharmacyRepository) DeleteMedicine(ctx context.Context, id int64) error {
	return r.medicines.delete(ctx, id)
}

func (r *PharmacyRepository) Restock(ctx context.Context, id int64, quantity int) (model.Medicine, error) {
	var out model.Medicine
	path := fmt.Sprintf("/medicines/%d/restock", id)
	err := r.api.Do(ctx, http.MethodPost, path, model.Restock{QuantityAdded: quantity}, &out)
	return out, err
}

func (r *PharmacyRepository) ListDispensations(ctx context.Context) ([]model.Dispensation, error) {
	return r.dispensations.list(ctx)
}

// Dispense records a dispensation. The API checks stock and decrements it in
// the same transaction, or answers 400 and changes nothing.
func (r *PharmacyRepository) Dispense(ctx context.Context, in model.DispenseRequest) (model.Dispensation, error) {
	return r.dispensations.create(ctx, in)
}
