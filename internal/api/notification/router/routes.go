// Package router đăng ký các route thông báo.
package router

import (
	"github.com/gofiber/fiber/v3"

	authsvc "sales_crm/internal/api/auth/service"
	"sales_crm/internal/api/middleware"
	notifhdl "sales_crm/internal/api/notification/handler"
	apirouter "sales_crm/internal/api/router"
)

// Register đăng ký tất cả route notification lên v1.
func Register(sessions *authsvc.SessionManager) apirouter.RegisterFunc {
	return func(v1 fiber.Router, r *apirouter.Router) error {
		h := notifhdl.NewNotificationHandler(sessions)
		auth := []fiber.Handler{middleware.AuthMiddleware(sessions, false)}

		apirouter.RegisterRouteWithMiddleware(v1, "/notifications", "GET", "/", auth, h.HandleList)
		apirouter.RegisterRouteWithMiddleware(v1, "/notifications", "PUT", "/:id/read", auth, h.HandleMarkRead)
		apirouter.RegisterRouteWithMiddleware(v1, "/notifications", "PUT", "/read-all", auth, h.HandleMarkAllRead)
		apirouter.RegisterRouteWithMiddleware(v1, "/notifications", "DELETE", "/:id", auth, h.HandleDelete)
		return nil
	}
}
