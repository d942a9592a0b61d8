package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"

	authmodels "sales_crm/internal/api/auth/models"
	authsvc "sales_crm/internal/api/auth/service"
	"sales_crm/internal/common"
	"sales_crm/internal/logger"
)

// AuthMiddleware xác thực JWT bearer token cho Fiber.
// Identity được lưu vào Locals("user") cho các handler phía sau.
// Nếu managerOnly = true, chỉ các role privileged được đi tiếp.
func AuthMiddleware(sessions *authsvc.SessionManager, managerOnly bool) fiber.Handler {
	return func(c fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			// Chỉ log khi thiếu token (lỗi quan trọng)
			logger.GetAppLogger().WithFields(logrus.Fields{
				"path":   c.Path(),
				"method": c.Method(),
			}).Warn("❌ [AUTH] Missing Authorization header")
			HandleErrorResponse(c, common.ErrTokenMissing)
			return nil
		}

		// Kiểm tra định dạng token
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			HandleErrorResponse(c, common.ErrTokenInvalid)
			return nil
		}

		user, err := sessions.Authenticate(parts[1])
		if err != nil {
			logger.GetAppLogger().WithFields(logrus.Fields{
				"path":  c.Path(),
				"error": err.Error(),
			}).Warn("❌ [AUTH] Token không hợp lệ hoặc user không còn active")
			HandleErrorResponse(c, err)
			return nil
		}

		if managerOnly && !authmodels.IsManagerRole(user.RoleId) {
			HandleErrorResponse(c, common.NewError(
				common.ErrCodeAuthSession,
				"Thao tác này yêu cầu role quản lý",
				common.StatusForbidden,
				nil,
			))
			return nil
		}

		// Lưu thông tin user vào context
		c.Locals("user_id", user.Id)
		c.Locals("user", user)
		return c.Next()
	}
}

// UserFromContext lấy identity đã xác thực từ Fiber context.
func UserFromContext(c fiber.Ctx) (authmodels.User, error) {
	user, ok := c.Locals("user").(authmodels.User)
	if !ok {
		return authmodels.User{}, common.ErrNoSession
	}
	return user, nil
}
