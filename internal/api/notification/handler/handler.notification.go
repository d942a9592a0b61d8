// Package notifhdl chứa HTTP handler cho thông báo của phiên hiện tại.
package notifhdl

import (
	"context"

	"github.com/gofiber/fiber/v3"

	authsvc "sales_crm/internal/api/auth/service"
	basehdl "sales_crm/internal/api/base/handler"
	crmvc "sales_crm/internal/api/crm/service"
	"sales_crm/internal/api/middleware"
)

// NotificationHandler xử lý các request thông báo.
type NotificationHandler struct {
	sessions *authsvc.SessionManager
}

// NewNotificationHandler tạo mới NotificationHandler.
func NewNotificationHandler(sessions *authsvc.SessionManager) *NotificationHandler {
	return &NotificationHandler{sessions: sessions}
}

func (h *NotificationHandler) core(c fiber.Ctx) (*crmvc.CrmService, error) {
	user, err := middleware.UserFromContext(c)
	if err != nil {
		return nil, err
	}
	return h.sessions.CoreFor(context.Background(), user)
}

// HandleList trả về thông báo của phiên, mới nhất đứng đầu.
func (h *NotificationHandler) HandleList(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		core, err := h.core(c)
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		basehdl.HandleResponse(c, fiber.Map{
			"notifications": core.Notifications(),
			"unreadCount":   core.UnreadCount(),
		}, nil)
		return nil
	})
}

// HandleMarkRead đánh dấu một thông báo đã đọc.
func (h *NotificationHandler) HandleMarkRead(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		core, err := h.core(c)
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		err = core.MarkNotificationRead(context.Background(), c.Params("id"))
		basehdl.HandleResponse(c, nil, err)
		return nil
	})
}

// HandleMarkAllRead đánh dấu mọi thông báo chưa đọc.
func (h *NotificationHandler) HandleMarkAllRead(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		core, err := h.core(c)
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		err = core.MarkAllNotificationsRead(context.Background())
		basehdl.HandleResponse(c, nil, err)
		return nil
	})
}

// HandleDelete xóa một thông báo.
func (h *NotificationHandler) HandleDelete(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		core, err := h.core(c)
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		err = core.DeleteNotification(context.Background(), c.Params("id"))
		basehdl.HandleResponse(c, nil, err)
		return nil
	})
}
