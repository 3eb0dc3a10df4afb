package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"hospital-dashboard/internal/event"
	"hospital-dashboard/internal/metrics"
	"hospital-dashboard/internal/model"
	"hospital-dashboard/internal/repository"
	"hospital-dashboard/pkg/apierror"
)

// AssignBed returns the update that moves bed from Vacant to Occupied by
// patientID.
func AssignBed(bed model.Bed, patientID int64) (model.BedUpdate, error) {
	if patientID <= 0 {
		return model.BedUpdate{}, fmt.Errorf("%w: patient is required", model.ErrInvalidInput)
	}
	if bed.State() != model.BedVacant || !bed.Consistent() {
		return model.BedUpdate{}, fmt.Errorf("%w: bed %s/%s is not vacant", model.ErrInvalidTransition, bed.RoomNumber, bed.BedNumber)
	}
	return model.BedUpdate{IsOccupied: true, PatientID: &patientID}, nil
}

// DischargeBed returns the update that moves bed from Occupied to Vacant.
func DischargeBed(bed model.Bed) (model.BedUpdate, error) {
	if bed.State() != model.BedOccupied {
		return model.BedUpdate{}, fmt.Errorf("%w: bed %s/%s is already vacant", model.ErrInvalidTransition, bed.RoomNumber, bed.BedNumber)
	}
	return model.BedUpdate{IsOccupied: false, PatientID: nil}, nil
}

// UnassignedPatients keeps the patients no bed refers to, in input order.
func UnassignedPatients(beds []model.Bed, patients []model.Patient) []model.Patient {
	held := make(map[int64]struct{}, len(beds))
	for _, b := range beds {
		if b.PatientID != nil {
			held[*b.PatientID] = struct{}{}
		}
	}

	out := make([]model.Patient, 0, len(patients))
	for _, p := range patients {
		if _, taken := held[p.ID]; !taken {
			out = append(out, p)
		}
	}
	return out
}

// BedAllocation is the state after an allocation attempt: the bed as the API
// now reports it (nil when unknown) and the full refetched bed list.
type BedAllocation struct {
	Bed  *model.Bed  `json:"bed,omitempty"`
	Beds []model.Bed `json:"beds"`
}

type BedService struct {
	beds     *repository.BedRepository
	patients *repository.PatientRepository
	metrics  *metrics.Metrics
	events   publisher
}

func NewBedService(beds *repository.BedRepository, patients *repository.PatientRepository, bus event.Bus, sess SessionView, m *metrics.Metrics) *BedService {
	return &BedService{beds: beds, patients: patients, metrics: m, events: publisher{bus: bus, session: sess}}
}

func (s *BedService) List(ctx context.Context) ([]model.Bed, error) {
	return s.beds.List(ctx)
}

// Candidates lists the patients that may be assigned a bed.
func (s *BedService) Candidates(ctx context.Context) ([]model.Patient, error) {
	beds, err := s.beds.List(ctx)
	if err != nil {
		return nil, err
	}
	patients, err := s.patients.List(ctx)
	if err != nil {
		return nil, err
	}
	return UnassignedPatients(beds, patients), nil
}

func (s *BedService) Assign(ctx context.Context, bedID int64, patientID int64) (BedAllocation, error) {
	beds, err := s.beds.List(ctx)
	if err != nil {
		return BedAllocation{}, err
	}

	bed, ok := findBed(beds, bedID)
	if !ok {
		return BedAllocation{Beds: beds}, apierror.NotFound("bed not found", strconv.FormatInt(bedID, 10))
	}

	for _, other := range beds {
		if other.PatientID != nil && *other.PatientID == patientID {
			s.metrics.BedTransition("assign", "conflict")
			return BedAllocation{Beds: beds}, fmt.Errorf("%w: patient %d holds bed %s/%s", model.ErrPatientAlreadyAssigned, patientID, other.RoomNumber, other.BedNumber)
		}
	}

	update, err := AssignBed(bed, patientID)
	if err != nil {
		s.metrics.BedTransition("assign", "conflict")
		return BedAllocation{Beds: beds}, err
	}

	return s.apply(ctx, "assign", bedID, update, event.TypeBedAssigned)
}

func (s *BedService) Discharge(ctx context.Context, bedID int64) (BedAllocation, error) {
	beds, err := s.beds.List(ctx)
	if err != nil {
		return BedAllocation{}, err
	}

	bed, ok := findBed(beds, bedID)
	if !ok {
		return BedAllocation{Beds: beds}, apierror.NotFound("bed not found", strconv.FormatInt(bedID, 10))
	}

	update, err := DischargeBed(bed)
	if err != nil {
		s.metrics.BedTransition("discharge", "conflict")
		return BedAllocation{Beds: beds}, err
	}

	return s.apply(ctx, "discharge", bedID, update, event.TypeBedDischarged)
}

func (s *BedService) Create(ctx context.Context, in model.BedInput) (BedAllocation, error) {
	if in.RoomNumber == "" || in.BedNumber == "" {
		return BedAllocation{}, apierror.BadRequest("room number and bed number are required", "")
	}

	created, err := s.beds.Create(ctx, in)
	if err != nil {
		return BedAllocation{}, err
	}
	return s.reconcile(ctx, created.ID)
}

func (s *BedService) Delete(ctx context.Context, bedID int64) (BedAllocation, error) {
	if err := s.beds.Delete(ctx, bedID); err != nil {
		return BedAllocation{}, err
	}
	return s.reconcile(ctx, 0)
}

// apply sends update and reconciles. A rejection by the API still refetches
// so the caller can show what actually happened.
func (s *BedService) apply(ctx context.Context, transition string, bedID int64, update model.BedUpdate, eventType event.Type) (BedAllocation, error) {
	if _, err := s.beds.Update(ctx, bedID, update); err != nil {
		s.metrics.BedTransition(transition, "rejected")
		if apierror.IsConflict(err) || apierror.Is(err, apierror.CodeNotFound) {
			refreshed, listErr := s.reconcile(ctx, bedID)
			if listErr != nil {
				return BedAllocation{}, errors.Join(err, listErr)
			}
			return refreshed, err
		}
		return BedAllocation{}, err
	}

	s.metrics.BedTransition(transition, "ok")

	allocation, err := s.reconcile(ctx, bedID)
	if err != nil {
		return BedAllocation{}, err
	}

	payload := map[string]any{"bed_id": bedID}
	if update.PatientID != nil {
		payload["patient_id"] = *update.PatientID
	}
	s.events.publish(eventType, payload)

	return allocation, nil
}

func (s *BedService) reconcile(ctx context.Context, bedID int64) (BedAllocation, error) {
	beds, err := s.beds.List(ctx)
	if err != nil {
		return BedAllocation{}, err
	}

	allocation := BedAllocation{Beds: beds}
	if bed, ok := findBed(beds, bedID); ok {
		allocation.Bed = &bed
	}
	return allocation, nil
}

func findBed(beds []model.Bed, id int64) (model.Bed, bool) {
	for _, b := range beds {
		if b.ID == id {
			return b, true
		}
	}
	return model.Bed{}, false
}
