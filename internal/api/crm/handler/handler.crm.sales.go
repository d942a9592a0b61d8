// Package crmhdl - Handler cho customer, project, quotation, invoice.
package crmhdl

import (
	"context"

	"github.com/gofiber/fiber/v3"

	basehdl "sales_crm/internal/api/base/handler"
	crmdto "sales_crm/internal/api/crm/dto"
	crmmodels "sales_crm/internal/api/crm/models"
	"sales_crm/internal/store"
)

// ====================================
// CUSTOMER
// ====================================

// HandleListCustomers trả về snapshot khách hàng.
func (h *CrmHandler) HandleListCustomers(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		core, err := h.core(c)
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		basehdl.HandleResponse(c, core.Customers(), nil)
		return nil
	})
}

// HandleAddCustomer tạo khách hàng mới.
func (h *CrmHandler) HandleAddCustomer(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		var customer crmmodels.Customer
		if err := bindBody(c, &customer); err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		core, err := h.core(c)
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		created, err := core.AddCustomer(context.Background(), customer)
		basehdl.HandleResponse(c, created, err)
		return nil
	})
}

// HandleUpdateCustomer merge partial patch vào khách hàng.
func (h *CrmHandler) HandleUpdateCustomer(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		var patch crmdto.PatchInput
		if err := bindBody(c, &patch); err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		core, err := h.core(c)
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		err = core.UpdateCustomer(context.Background(), c.Params("id"), store.Doc(patch))
		basehdl.HandleResponse(c, nil, err)
		return nil
	})
}

// HandleDeleteCustomer xóa khách hàng.
func (h *CrmHandler) HandleDeleteCustomer(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		core, err := h.core(c)
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		err = core.DeleteCustomer(context.Background(), c.Params("id"))
		basehdl.HandleResponse(c, nil, err)
		return nil
	})
}

// ====================================
// PROJECT
// ====================================

// HandleListProjects trả về snapshot dự án.
func (h *CrmHandler) HandleListProjects(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		core, err := h.core(c)
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		basehdl.HandleResponse(c, core.Projects(), nil)
		return nil
	})
}

// HandleAddProject tạo dự án mới.
func (h *CrmHandler) HandleAddProject(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		var project crmmodels.Project
		if err := bindBody(c, &project); err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		core, err := h.core(c)
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		created, err := core.AddProject(context.Background(), project)
		basehdl.HandleResponse(c, created, err)
		return nil
	})
}

// HandleUpdateProject merge partial patch vào dự án.
func (h *CrmHandler) HandleUpdateProject(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		var patch crmdto.PatchInput
		if err := bindBody(c, &patch); err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		core, err := h.core(c)
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		err = core.UpdateProject(context.Background(), c.Params("id"), store.Doc(patch))
		basehdl.HandleResponse(c, nil, err)
		return nil
	})
}

// HandleDeleteProject xóa dự án.
func (h *CrmHandler) HandleDeleteProject(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		core, err := h.core(c)
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		err = core.DeleteProject(context.Background(), c.Params("id"))
		basehdl.HandleResponse(c, nil, err)
		return nil
	})
}

// ====================================
// QUOTATION
// ====================================

// HandleListQuotations trả về snapshot báo giá.
func (h *CrmHandler) HandleListQuotations(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		core, err := h.core(c)
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		basehdl.HandleResponse(c, core.Quotations(), nil)
		return nil
	})
}

// HandleAddQuotation tạo báo giá mới (totals tính lại server-side).
func (h *CrmHandler) HandleAddQuotation(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		var quotation crmmodels.Quotation
		if err := bindBody(c, &quotation); err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		core, err := h.core(c)
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		created, err := core.AddQuotation(context.Background(), quotation)
		basehdl.HandleResponse(c, created, err)
		return nil
	})
}

// HandleUpdateQuotation merge partial patch vào báo giá.
func (h *CrmHandler) HandleUpdateQuotation(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		var patch crmdto.PatchInput
		if err := bindBody(c, &patch); err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		core, err := h.core(c)
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		err = core.UpdateQuotation(context.Background(), c.Params("id"), store.Doc(patch))
		basehdl.HandleResponse(c, nil, err)
		return nil
	})
}

// HandleDeleteQuotation xóa báo giá.
func (h *CrmHandler) HandleDeleteQuotation(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		core, err := h.core(c)
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		err = core.DeleteQuotation(context.Background(), c.Params("id"))
		basehdl.HandleResponse(c, nil, err)
		return nil
	})
}

// ====================================
// INVOICE
// ====================================

// HandleListInvoices trả về snapshot hóa đơn.
func (h *CrmHandler) HandleListInvoices(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		core, err := h.core(c)
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		basehdl.HandleResponse(c, core.Invoices(), nil)
		return nil
	})
}

// HandleAddInvoice tạo hóa đơn mới.
func (h *CrmHandler) HandleAddInvoice(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		var invoice crmmodels.Invoice
		if err := bindBody(c, &invoice); err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		core, err := h.core(c)
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		created, err := core.AddInvoice(context.Background(), invoice)
		basehdl.HandleResponse(c, created, err)
		return nil
	})
}

// HandleMarkInvoicePaid chuyển hóa đơn sang Paid.
func (h *CrmHandler) HandleMarkInvoicePaid(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		core, err := h.core(c)
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		err = core.MarkInvoicePaid(context.Background(), c.Params("id"))
		basehdl.HandleResponse(c, nil, err)
		return nil
	})
}

// HandleUpdateInvoice merge partial patch vào hóa đơn.
func (h *CrmHandler) HandleUpdateInvoice(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		var patch crmdto.PatchInput
		if err := bindBody(c, &patch); err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		core, err := h.core(c)
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		err = core.UpdateInvoice(context.Background(), c.Params("id"), store.Doc(patch))
		basehdl.HandleResponse(c, nil, err)
		return nil
	})
}

// HandleDeleteInvoice xóa hóa đơn.
func (h *CrmHandler) HandleDeleteInvoice(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		core, err := h.core(c)
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		err = core.DeleteInvoice(context.Background(), c.Params("id"))
		basehdl.HandleResponse(c, nil, err)
		return nil
	})
}
