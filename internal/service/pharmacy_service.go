package service

import (
	"context"
	"errors"
	"strings"

	"hospital-dashboard/internal/event"
	"hospital-dashboard/internal/metrics"
	"hospital-dashboard/internal/model"
	"hospital-dashboard/internal/repository"
	"hospital-dashboard/pkg/apierror"
)

// Dispensed is the ledger after a dispensation attempt. Record is nil when
// the attempt failed.
type Dispensed struct {
	Record    *model.Dispensation  `json:"record,omitempty"`
	Inventory []model.Medicine     `json:"inventory"`
	History   []model.Dispensation `json:"history,omitempty"`
}

type PharmacyService struct {
	repo    *repository.PharmacyRepository
	metrics *metrics.Metrics
	events  publisher
}

func NewPharmacyService(repo *repository.PharmacyRepository, bus event.Bus, sess SessionView, m *metrics.Metrics) *PharmacyService {
	return &PharmacyService{repo: repo, metrics: m, events: publisher{bus: bus, session: sess}}
}

func (s *PharmacyService) Inventory(ctx context.Context) ([]model.Medicine, error) {
	return s.repo.ListMedicines(ctx)
}

func (s *PharmacyService) History(ctx context.Context) ([]model.Dispensation, error) {
	return s.repo.ListDispensations(ctx)
}

// Dispense asks the API to hand out quantity units. Stock sufficiency is the
// API's decision; a refusal leaves stock untouched and comes back as a
// conflict together with the current inventory.
func (s *PharmacyService) Dispense(ctx context.Context, in model.DispenseRequest) (Dispensed, error) {
	if in.PatientID <= 0 || in.MedicineID <= 0 {
		return Dispensed{}, apierror.BadRequest("patient and medicine are required", "")
	}
	if in.QuantityDispensed <= 0 {
		return Dispensed{}, apierror.BadRequest("quantity must be a positive number", "")
	}
	if in.Notes != nil {
		notes := strings.TrimSpace(*in.Notes)
		in.Notes = &notes
	}

	record, err := s.repo.Dispense(ctx, in)
	if err != nil {
		s.metrics.Dispensation("rejected")
		if !apierror.IsConflict(err) {
			return Dispensed{}, err
		}

		inventory, listErr := s.repo.ListMedicines(ctx)
		if listErr != nil {
			return Dispensed{}, errors.Join(err, listErr)
		}
		return Dispensed{Inventory: inventory}, apierror.Conflict("insufficient stock or invalid reference", apiMessage(err))
	}

	s.metrics.Dispensation("ok")

	inventory, err := s.repo.ListMedicines(ctx)
	if err != nil {
		return Dispensed{}, err
	}
	history, err := s.repo.ListDispensations(ctx)
	if err != nil {
		return Dispensed{}, err
	}

	s.events.publish(event.TypeMedicineDispensed, map[string]any{
		"dispensation_id": record.ID,
		"medicine_id":     record.MedicineID,
		"patient_id":      record.PatientID,
		"quantity":        record.QuantityDispensed,
	})

	return Dispensed{Record: &record, Inventory: inventory, History: history}, nil
}

func (s *PharmacyService) AddMedicine(ctx context.Context, in model.MedicineInput) ([]model.Medicine, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return nil, apierror.BadRequest("medicine name is required", "")
	}
	if in.StockQuantity < 0 || in.UnitPrice < 0 {
		return nil, apierror.BadRequest("stock and price must not be negative", "")
	}

	if _, err := s.repo.CreateMedicine(ctx, in); err != nil {
		return nil, err
	}
	return s.repo.ListMedicines(ctx)
}

// UpdateMedicine edits descriptive fields. Stock changes only through
// Restock and Dispense.
func (s *PharmacyService) UpdateMedicine(ctx context.Context, id int64, in model.MedicineUpdate) ([]model.Medicine, error) {
	if in.UnitPrice != nil && *in.UnitPrice < 0 {
		return nil, apierror.BadRequest("price must not be negative", "")
	}
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		return nil, apierror.BadRequest("medicine name must not be empty", "")
	}

	if _, err := s.repo.UpdateMedicine(ctx, id, in); err != nil {
		return nil, err
	}
	return s.repo.ListMedicines(ctx)
}

func (s *PharmacyService) Restock(ctx context.Context, id int64, quantity int) ([]model.Medicine, error) {
	if quantity <= 0 {
		return nil, apierror.BadRequest("restock quantity must be a positive number", "")
	}

	medicine, err := s.repo.Restock(ctx, id, quantity)
	if err != nil {
		return nil, err
	}

	s.events.publish(event.TypeMedicineRestocked, map[string]any{
		"medicine_id": medicine.ID,
		"added":       quantity,
		"stock":       medicine.StockQuantity,
	})

	return s.repo.ListMedicines(ctx)
}

func (s *PharmacyService) DeleteMedicine(ctx context.Context, id int64) ([]model.Medicine, error) {
	if err := s.repo.DeleteMedicine(ctx, id); err != nil {
		return nil, err
	}
	return s.repo.ListMedicines(ctx)
}

func apiMessage(err error) string {
	var apiErr *apierror.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}
