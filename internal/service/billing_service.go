package service

import (
	"context"
	"fmt"
	"strconv"

	"hospital-dashboard/internal/event"
	"hospital-dashboard/internal/model"
	"hospital-dashboard/internal/repository"
	"hospital-dashboard/pkg/apierror"
)

type BillingService struct {
	repo   *repository.InvoiceRepository
	events publisher
}

func NewBillingService(repo *repository.InvoiceRepository, bus event.Bus, sess SessionView) *BillingService {
	return &BillingService{repo: repo, events: publisher{bus: bus, session: sess}}
}

func (s *BillingService) List(ctx context.Context) ([]model.Invoice, error) {
	return s.repo.List(ctx)
}

func (s *BillingService) Create(ctx context.Context, in model.InvoiceInput) ([]model.Invoice, error) {
	if in.PatientID <= 0 {
		return nil, apierror.BadRequest("patient is required", "")
	}
	if in.Amount <= 0 {
		return nil, apierror.BadRequest("amount must be positive", "")
	}

	if _, err := s.repo.Create(ctx, in); err != nil {
		return nil, err
	}
	return s.repo.List(ctx)
}

// MarkPaid moves an invoice from Unpaid to Paid. Paid is terminal.
func (s *BillingService) MarkPaid(ctx context.Context, id int64) ([]model.Invoice, error) {
	invoices, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	var current *model.Invoice
	for i := range invoices {
		if invoices[i].ID == id {
			current = &invoices[i]
			break
		}
	}
	if current == nil {
		return invoices, fmt.Errorf("%w: %s", model.ErrInvoiceNotFound, strconv.FormatInt(id, 10))
	}
	if current.Status != model.InvoiceUnpaid {
		return invoices, fmt.Errorf("%w: invoice %d is %s", model.ErrInvalidTransition, id, current.Status)
	}

	if _, err := s.repo.SetStatus(ctx, id, model.InvoicePaid); err != nil {
		return nil, err
	}

	s.events.publish(event.TypeInvoicePaid, map[string]any{
		"invoice_id": id,
		"amount":     current.Amount,
	})

	return s.repo.List(ctx)
}
