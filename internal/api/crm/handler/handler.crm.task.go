// Package crmhdl - Handler cho task (role-scoped view) và quotation request
// (bao gồm workflow gán cho điều phối viên).
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
// TASK
// ====================================

// HandleListTasks trả về view task theo role của phiên — view duy nhất,
// không có endpoint trả raw task mirror.
func (h *CrmHandler) HandleListTasks(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		core, err := h.core(c)
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		basehdl.HandleResponse(c, core.VisibleTasks(), nil)
		return nil
	})
}

// HandleAddTask tạo task mới (validate trước khi ghi).
func (h *CrmHandler) HandleAddTask(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		var task crmmodels.Task
		if err := bindBody(c, &task); err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		core, err := h.core(c)
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		created, err := core.AddTask(context.Background(), task)
		basehdl.HandleResponse(c, created, err)
		return nil
	})
}

// HandleUpdateTask merge partial patch vào task (status patch sync calendar).
func (h *CrmHandler) HandleUpdateTask(c fiber.Ctx) error {
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
		err = core.UpdateTask(context.Background(), c.Params("id"), store.Doc(patch))
		basehdl.HandleResponse(c, nil, err)
		return nil
	})
}

// HandleDeleteTask xóa task.
func (h *CrmHandler) HandleDeleteTask(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		core, err := h.core(c)
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		err = core.DeleteTask(context.Background(), c.Params("id"))
		basehdl.HandleResponse(c, nil, err)
		return nil
	})
}

// ====================================
// QUOTATION REQUEST
// ====================================

// HandleListRequests trả về snapshot yêu cầu báo giá.
func (h *CrmHandler) HandleListRequests(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		core, err := h.core(c)
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		basehdl.HandleResponse(c, core.QuotationRequests(), nil)
		return nil
	})
}

// HandleAddRequest tạo yêu cầu báo giá (fan-out thông báo cho quản lý).
func (h *CrmHandler) HandleAddRequest(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		var req crmmodels.QuotationRequest
		if err := bindBody(c, &req); err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		core, err := h.core(c)
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		created, err := core.AddQuotationRequest(context.Background(), req)
		basehdl.HandleResponse(c, created, err)
		return nil
	})
}

// HandleAssignRequest chạy workflow gán yêu cầu cho nhiều điều phối viên.
// Route này nằm sau middleware managerOnly.
func (h *CrmHandler) HandleAssignRequest(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		var input crmdto.AssignRequestInput
		if err := bindBody(c, &input); err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		core, err := h.core(c)
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		err = core.AssignQuotationRequestToMultipleCoordinators(
			context.Background(),
			c.Params("id"),
			input.CoordinatorIds,
			input.Tags,
			input.CustomTasks,
		)
		basehdl.HandleResponse(c, nil, err)
		return nil
	})
}

// HandleUpdateRequest merge partial patch vào yêu cầu báo giá.
func (h *CrmHandler) HandleUpdateRequest(c fiber.Ctx) error {
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
		err = core.UpdateQuotationRequest(context.Background(), c.Params("id"), store.Doc(patch))
		basehdl.HandleResponse(c, nil, err)
		return nil
	})
}

// HandleDeleteRequest xóa yêu cầu báo giá.
func (h *CrmHandler) HandleDeleteRequest(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		core, err := h.core(c)
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		err = core.DeleteQuotationRequest(context.Background(), c.Params("id"))
		basehdl.HandleResponse(c, nil, err)
		return nil
	})
}
