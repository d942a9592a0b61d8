// Package router đăng ký các route xác thực và roster người dùng.
package router

import (
	"github.com/gofiber/fiber/v3"

	authhdl "sales_crm/internal/api/auth/handler"
	authsvc "sales_crm/internal/api/auth/service"
	"sales_crm/internal/api/middleware"
	apirouter "sales_crm/internal/api/router"
)

// Register đăng ký tất cả route auth lên v1.
func Register(sessions *authsvc.SessionManager, directory *authsvc.UserDirectory) apirouter.RegisterFunc {
	return func(v1 fiber.Router, r *apirouter.Router) error {
		h := authhdl.NewAuthHandler(sessions, directory)
		auth := []fiber.Handler{middleware.AuthMiddleware(sessions, false)}

		// Login không cần token
		v1.Post("/auth/login", h.HandleLogin)

		apirouter.RegisterRouteWithMiddleware(v1, "/auth", "POST", "/logout", auth, h.HandleLogout)
		apirouter.RegisterRouteWithMiddleware(v1, "/auth", "GET", "/me", auth, h.HandleMe)
		apirouter.RegisterRouteWithMiddleware(v1, "/auth", "GET", "/users", auth, h.HandleListUsers)
		return nil
	}
}
