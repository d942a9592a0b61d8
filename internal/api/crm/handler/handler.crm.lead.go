// Package crmhdl chứa HTTP handler cho domain CRM.
// Mỗi handler resolve sync core của người dùng đã xác thực qua SessionManager
// rồi gọi thẳng operation tương ứng trên core.
package crmhdl

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v3"

	authsvc "sales_crm/internal/api/auth/service"
	basehdl "sales_crm/internal/api/base/handler"
	crmdto "sales_crm/internal/api/crm/dto"
	crmmodels "sales_crm/internal/api/crm/models"
	crmvc "sales_crm/internal/api/crm/service"
	"sales_crm/internal/api/middleware"
	"sales_crm/internal/common"
	"sales_crm/internal/store"
)

// CrmHandler xử lý các request CRM (lead, customer, project, task, quotation,
// invoice, quotation request).
type CrmHandler struct {
	sessions *authsvc.SessionManager
}

// NewCrmHandler tạo mới CrmHandler.
func NewCrmHandler(sessions *authsvc.SessionManager) *CrmHandler {
	return &CrmHandler{sessions: sessions}
}

// core resolve sync core cho identity đã xác thực trong request.
func (h *CrmHandler) core(c fiber.Ctx) (*crmvc.CrmService, error) {
	user, err := middleware.UserFromContext(c)
	if err != nil {
		return nil, err
	}
	return h.sessions.CoreFor(context.Background(), user)
}

// bindBody parse JSON body, trả về *common.Error chuẩn khi sai định dạng.
func bindBody(c fiber.Ctx, v interface{}) error {
	if err := c.Bind().Body(v); err != nil {
		return common.NewError(
			common.ErrCodeValidationFormat,
			fmt.Sprintf("Dữ liệu gửi lên không đúng định dạng JSON. Chi tiết: %v", err),
			common.StatusBadRequest,
			nil,
		)
	}
	return nil
}

// ====================================
// LEAD
// ====================================

// HandleListLeads trả về snapshot leads từ mirror.
func (h *CrmHandler) HandleListLeads(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		core, err := h.core(c)
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		basehdl.HandleResponse(c, core.Leads(), nil)
		return nil
	})
}

// HandleAddLead tạo lead mới.
func (h *CrmHandler) HandleAddLead(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		var lead crmmodels.Lead
		if err := bindBody(c, &lead); err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		core, err := h.core(c)
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		created, err := core.AddLead(context.Background(), lead)
		basehdl.HandleResponse(c, created, err)
		return nil
	})
}

// HandleUpdateLead merge partial patch vào lead.
func (h *CrmHandler) HandleUpdateLead(c fiber.Ctx) error {
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
		err = core.UpdateLead(context.Background(), c.Params("id"), store.Doc(patch))
		basehdl.HandleResponse(c, nil, err)
		return nil
	})
}

// HandleUpdateLeadStatus đổi trạng thái lead (kèm timeline event).
func (h *CrmHandler) HandleUpdateLeadStatus(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		var input crmdto.LeadStatusInput
		if err := bindBody(c, &input); err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		core, err := h.core(c)
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		err = core.UpdateLeadStatus(context.Background(), c.Params("id"), input.Status)
		basehdl.HandleResponse(c, nil, err)
		return nil
	})
}

// HandleAddLeadSubTask thêm mục checklist vào lead.
func (h *CrmHandler) HandleAddLeadSubTask(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		var input crmdto.LeadSubTaskInput
		if err := bindBody(c, &input); err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		core, err := h.core(c)
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		err = core.AddLeadSubTask(context.Background(), c.Params("id"), input.Title)
		basehdl.HandleResponse(c, nil, err)
		return nil
	})
}

// HandleAddLeadNote thêm ghi chú vào timeline của lead.
func (h *CrmHandler) HandleAddLeadNote(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		var input crmdto.LeadNoteInput
		if err := bindBody(c, &input); err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		core, err := h.core(c)
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		err = core.AddLeadNote(context.Background(), c.Params("id"), input.Text)
		basehdl.HandleResponse(c, nil, err)
		return nil
	})
}

// HandleConvertLead chuyển lead thành khách hàng.
func (h *CrmHandler) HandleConvertLead(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		core, err := h.core(c)
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		customer, err := core.ConvertLeadToCustomer(context.Background(), c.Params("id"))
		basehdl.HandleResponse(c, customer, err)
		return nil
	})
}

// HandleDeleteLead xóa lead.
func (h *CrmHandler) HandleDeleteLead(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		core, err := h.core(c)
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		err = core.DeleteLead(context.Background(), c.Params("id"))
		basehdl.HandleResponse(c, nil, err)
		return nil
	})
}
