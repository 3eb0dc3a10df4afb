package repository

import (
	"context"

	"hospital-dashboard/internal/model"
)

type StaffRepository struct {
	staff collection[model.Staff]
	roles collection[model.StaffRole]
}

func NewStaffRepository(api Requester) *StaffRepository {
	return &StaffRepository{
		staff: collection[model.Staff]{api: api, base: "/staff"},
		roles: collection[model.StaffRole]{api: api, base: "/roles"},
	}
}

func (r *StaffRepository) List(ctx context.Context) ([]model.Staff, error) {
	return r.staff.list(ctx)
}

func (r *StaffRepository) Create(ctx context.Context, in model.StaffInput) (model.Staff, error) {
	return r.staff.create(ctx, in)
}

func (r *StaffRepository) Update(ctx context.Context, id int64, in model.StaffInput) (model.Staff, error) {
	return r.staff.update(ctx, id, in)
}

func (r *StaffRepository) Delete(ctx context.Context, id int64) error {
	return r.staff.delete(ctx, id)
}

func (r *StaffRepository) ListRoles(ctx context.Context) ([]model.StaffRole, error) {
	return r.roles.list(ctx)
}

func (r *StaffRepository) CreateRole(ctx context.Context, in model.StaffRoleInput) (model.StaffRole, error) {
	return r.roles.create(ctx, in)
}

func (r *StaffRepository) UpdateRole(ctx context.Context, id int64, in model.StaffRoleInput) (model.StaffRole, error) {
	return r.roles.update(ctx, id, in)
}

func (r *StaffRepository) DeleteRole(ctx context.Context, id int64) error {
	return r.roles.delete(ctx, id)
}
