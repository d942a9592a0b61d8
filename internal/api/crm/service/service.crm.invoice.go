// Package crmvc - Mutation operations cho Invoice.
package crmvc

import (
	"context"
	"fmt"

	crmmodels "sales_crm/internal/api/crm/models"
	"sales_crm/internal/common"
	"sales_crm/internal/global"
	"sales_crm/internal/store"
	"sales_crm/internal/utility"
)

// InvoiceById trả về hóa đơn theo id từ mirror.
func (s *CrmService) InvoiceById(id string) (crmmodels.Invoice, bool) {
	return s.invoices.get(id)
}

// AddInvoice tạo hóa đơn mới.
func (s *CrmService) AddInvoice(ctx context.Context, invoice crmmodels.Invoice) (crmmodels.Invoice, error) {
	user, err := s.requireUser()
	if err != nil {
		return crmmodels.Invoice{}, err
	}
	if invoice.Number == "" {
		return crmmodels.Invoice{}, fmt.Errorf("invoice number: %w", common.ErrRequiredField)
	}

	if invoice.Id == "" {
		invoice.Id = utility.NewID()
	}
	if invoice.Status == "" {
		invoice.Status = crmmodels.InvoiceStatusPending
	}
	now := utility.CurrentTimeInMilli()
	invoice.CreatedById = user.Id
	invoice.Rev = 1
	invoice.CreatedAt = now
	invoice.UpdatedAt = now

	if err := addRecord(ctx, s, s.invoices, global.ColPaths.Invoices, invoice.Id, invoice); err != nil {
		return crmmodels.Invoice{}, err
	}
	return invoice, nil
}

// UpdateInvoice merge partial patch vào hóa đơn.
func (s *CrmService) UpdateInvoice(ctx context.Context, id string, patch store.Doc) error {
	delete(patch, "createdById")
	_, err := patchRecord(ctx, s, s.invoices, global.ColPaths.Invoices, id, patch)
	return err
}

// MarkInvoicePaid chuyển hóa đơn sang trạng thái Paid.
func (s *CrmService) MarkInvoicePaid(ctx context.Context, id string) error {
	_, err := patchRecord(ctx, s, s.invoices, global.ColPaths.Invoices, id, store.Doc{
		"status": crmmodels.InvoiceStatusPaid,
	})
	return err
}

// DeleteInvoice xóa hóa đơn.
func (s *CrmService) DeleteInvoice(ctx context.Context, id string) error {
	return deleteRecord(ctx, s, s.invoices, global.ColPaths.Invoices, id)
}
