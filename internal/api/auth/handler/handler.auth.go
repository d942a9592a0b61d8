// Package authhdl chứa HTTP handler cho đăng nhập / đăng xuất và roster.
package authhdl

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v3"

	authsvc "sales_crm/internal/api/auth/service"
	basehdl "sales_crm/internal/api/base/handler"
	"sales_crm/internal/api/middleware"
	"sales_crm/internal/common"
)

// AuthHandler xử lý các request xác thực.
type AuthHandler struct {
	sessions  *authsvc.SessionManager
	directory *authsvc.UserDirectory
}

// NewAuthHandler tạo mới AuthHandler.
func NewAuthHandler(sessions *authsvc.SessionManager, directory *authsvc.UserDirectory) *AuthHandler {
	return &AuthHandler{sessions: sessions, directory: directory}
}

// loginInput là body của route đăng nhập.
type loginInput struct {
	Email string `json:"email"`
}

// HandleLogin cấp JWT và khởi động sync core cho người dùng.
func (h *AuthHandler) HandleLogin(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		var input loginInput
		if err := c.Bind().Body(&input); err != nil {
			basehdl.HandleResponse(c, nil, common.NewError(
				common.ErrCodeValidationFormat,
				fmt.Sprintf("Dữ liệu gửi lên không đúng định dạng JSON. Chi tiết: %v", err),
				common.StatusBadRequest,
				nil,
			))
			return nil
		}
		if input.Email == "" {
			basehdl.HandleResponse(c, nil, fmt.Errorf("email: %w", common.ErrRequiredField))
			return nil
		}

		token, user, err := h.sessions.Login(context.Background(), input.Email)
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		// Khởi động core ngay để mirrors sẵn sàng trước request đầu tiên
		if _, err := h.sessions.CoreFor(context.Background(), user); err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		basehdl.HandleResponse(c, fiber.Map{
			"token": token,
			"user":  user,
		}, nil)
		return nil
	})
}

// HandleLogout teardown sync core của phiên.
func (h *AuthHandler) HandleLogout(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		user, err := middleware.UserFromContext(c)
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		h.sessions.EndSession(user.Id)
		basehdl.HandleResponse(c, nil, nil)
		return nil
	})
}

// HandleMe trả về identity của phiên hiện tại.
func (h *AuthHandler) HandleMe(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		user, err := middleware.UserFromContext(c)
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		basehdl.HandleResponse(c, user, nil)
		return nil
	})
}

// HandleListUsers trả về roster người dùng (dành cho form gán việc).
func (h *AuthHandler) HandleListUsers(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		basehdl.HandleResponse(c, h.directory.Users(), nil)
		return nil
	})
}
