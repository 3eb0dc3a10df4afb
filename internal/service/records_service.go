package service

import (
	"context"
	"strings"

	"hospital-dashboard/internal/model"
	"hospital-dashboard/internal/repository"
	"hospital-dashboard/internal/util"
	"hospital-dashboard/pkg/apierror"
)

// RecordsService manages patients, staff, roles and appointments. Each write
// returns the refetched collection.
type RecordsService struct {
	patients     *repository.PatientRepository
	staff        *repository.StaffRepository
	appointments *repository.AppointmentRepository
}

func NewRecordsService(patients *repository.PatientRepository, staff *repository.StaffRepository, appointments *repository.AppointmentRepository) *RecordsService {
	return &RecordsService{patients: patients, staff: staff, appointments: appointments}
}

func (s *RecordsService) Patients(ctx context.Context) ([]model.Patient, error) {
	return s.patients.List(ctx)
}

func (s *RecordsService) CreatePatient(ctx context.Context, in model.PatientInput) ([]model.Patient, error) {
	in, err := cleanPatient(in)
	if err != nil {
		return nil, err
	}
	if _, err := s.patients.Create(ctx, in); err != nil {
		return nil, err
	}
	return s.patients.List(ctx)
}

func (s *RecordsService) UpdatePatient(ctx context.Context, id int64, in model.PatientInput) ([]model.Patient, error) {
	in, err := cleanPatient(in)
	if err != nil {
		return nil, err
	}
	if _, err := s.patients.Update(ctx, id, in); err != nil {
		return nil, err
	}
	return s.patients.List(ctx)
}

func (s *RecordsService) DeletePatient(ctx context.Context, id int64) ([]model.Patient, error) {
	if err := s.patients.Delete(ctx, id); err != nil {
		return nil, err
	}
	return s.patients.List(ctx)
}

func (s *RecordsService) Staff(ctx context.Context) ([]model.Staff, error) {
	return s.staff.List(ctx)
}

func (s *RecordsService) CreateStaff(ctx context.Context, in model.StaffInput) ([]model.Staff, error) {
	in, err := cleanStaff(in, true)
	if err != nil {
		return nil, err
	}
	if _, err := s.staff.Create(ctx, in); err != nil {
		return nil, err
	}
	return s.staff.List(ctx)
}

func (s *RecordsService) UpdateStaff(ctx context.Context, id int64, in model.StaffInput) ([]model.Staff, error) {
	in, err := cleanStaff(in, false)
	if err != nil {
		return nil, err
	}
	if _, err := s.staff.Update(ctx, id, in); err != nil {
		return nil, err
	}
	return s.staff.List(ctx)
}

func (s *RecordsService) DeleteStaff(ctx context.Context, id int64) ([]model.Staff, error) {
	if err := s.staff.Delete(ctx, id); err != nil {
		return nil, err
	}
	return s.staff.List(ctx)
}

func (s *RecordsService) Roles(ctx context.Context) ([]model.StaffRole, error) {
	return s.staff.ListRoles(ctx)
}

func (s *RecordsService) CreateRole(ctx context.Context, in model.StaffRoleInput) ([]model.StaffRole, error) {
	in.Name = util.SanitizeText(in.Name)
	if in.Name == "" {
		return nil, apierror.BadRequest("role name is required", "")
	}
	if _, err := s.staff.CreateRole(ctx, in); err != nil {
		return nil, err
	}
	return s.staff.ListRoles(ctx)
}

func (s *RecordsService) UpdateRole(ctx context.Context, id int64, in model.StaffRoleInput) ([]model.StaffRole, error) {
	in.Name = util.SanitizeText(in.Name)
	if in.Name == "" {
		return nil, apierror.BadRequest("role name is required", "")
	}
	if _, err := s.staff.UpdateRole(ctx, id, in); err != nil {
		return nil, err
	}
	return s.staff.ListRoles(ctx)
}

func (s *RecordsService) DeleteRole(ctx context.Context, id int64) ([]model.StaffRole, error) {
	if err := s.staff.DeleteRole(ctx, id); err != nil {
		return nil, err
	}
	return s.staff.ListRoles(ctx)
}

func (s *RecordsService) Appointments(ctx context.Context) ([]model.Appointment, error) {
	return s.appointments.List(ctx)
}

func (s *RecordsService) CreateAppointment(ctx context.Context, in model.AppointmentInput) ([]model.Appointment, error) {
	in, err := cleanAppointment(in)
	if err != nil {
		return nil, err
	}
	if _, err := s.appointments.Create(ctx, in); err != nil {
		return nil, err
	}
	return s.appointments.List(ctx)
}

func (s *RecordsService) UpdateAppointment(ctx context.Context, id int64, in model.AppointmentInput) ([]model.Appointment, error) {
	in, err := cleanAppointment(in)
	if err != nil {
		return nil, err
	}
	if _, err := s.appointments.Update(ctx, id, in); err != nil {
		return nil, err
	}
	return s.appointments.List(ctx)
}

func (s *RecordsService) DeleteAppointment(ctx context.Context, id int64) ([]model.Appointment, error) {
	if err := s.appointments.Delete(ctx, id); err != nil {
		return nil, err
	}
	return s.appointments.List(ctx)
}

func cleanPatient(in model.PatientInput) (model.PatientInput, error) {
	in.FirstName = util.SanitizeText(in.FirstName)
	in.LastName = util.SanitizeText(in.LastName)
	in.ContactNumber = util.SanitizeText(in.ContactNumber)
	in.Email = strings.ToLower(util.SanitizeText(in.Email))
	in.DateOfBirth = strings.TrimSpace(in.DateOfBirth)

	if in.FirstName == "" || in.LastName == "" {
		return in, apierror.BadRequest("first and last name are required", "")
	}
	if in.DateOfBirth != "" {
		if _, err := model.ParseTimestamp(in.DateOfBirth); err != nil {
			return in, apierror.BadRequest("date of birth is not a date", in.DateOfBirth)
		}
	}
	return in, nil
}

func cleanStaff(in model.StaffInput, creating bool) (model.StaffInput, error) {
	in.FirstName = util.SanitizeText(in.FirstName)
	in.LastName = util.SanitizeText(in.LastName)
	in.ContactNumber = util.SanitizeText(in.ContactNumber)
	in.Email = strings.ToLower(util.SanitizeText(in.Email))

	if in.FirstName == "" || in.Email == "" {
		return in, apierror.BadRequest("name and email are required", "")
	}
	if in.RoleID <= 0 {
		return in, apierror.BadRequest("role is required", "")
	}
	if creating && in.Password == "" {
		return in, apierror.BadRequest("password is required for new staff", "")
	}
	return in, nil
}

func cleanAppointment(in model.AppointmentInput) (model.AppointmentInput, error) {
	in.DoctorName = util.SanitizeText(in.DoctorName)
	in.Reason = util.SanitizeText(in.Reason)
	in.AppointmentDate = strings.TrimSpace(in.AppointmentDate)

	if in.PatientID <= 0 || in.DoctorName == "" {
		return in, apierror.BadRequest("patient and doctor are required", "")
	}
	if _, err := model.ParseTimestamp(in.AppointmentDate); err != nil {
		return in, apierror.BadRequest("appointment date is not a date", in.AppointmentDate)
	}
	return in, nil
}
