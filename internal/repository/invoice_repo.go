package repository

import (
	"context"
	"fmt"
	"net/http"

	"hospital-dashboard/internal/model"
)

type InvoiceRepository struct {
	api      Requester
	invoices collection[model.Invoice]
}

func NewInvoiceRepository(api Requester) *InvoiceRepository {
	return &InvoiceRepository{api: api, invoices: collection[model.Invoice]{api: api, base: "/invoices"}}
}

func (r *InvoiceRepository) List(ctx context.Context) ([]model.Invoice, error) {
	return r.invoices.list(ctx)
}

func (r *InvoiceRepository) Create(ctx context.Context, in model.InvoiceInput) (model.Invoice, error) {
	return r.invoices.create(ctx, in)
}

func (r *InvoiceRepository) SetStatus(ctx context.Context, id int64, status model.InvoiceStatus) (model.Invoice, error) {
	var out model.Invoice
	body := struct {
		Status model.InvoiceStatus `json:"status"`
	}{Status: status}
	err := r.api.Do(ctx, http.MethodPut, fmt.Sprintf("/invoices/%d/status", id), body, &out)
	return out, err
}
