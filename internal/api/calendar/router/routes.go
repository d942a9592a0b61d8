// Package router đăng ký các route thuộc subsystem lịch và booking.
package router

import (
	"github.com/gofiber/fiber/v3"

	authsvc "sales_crm/internal/api/auth/service"
	calhdl "sales_crm/internal/api/calendar/handler"
	"sales_crm/internal/api/middleware"
	apirouter "sales_crm/internal/api/router"
)

// Register đăng ký tất cả route lịch / booking lên v1.
func Register(sessions *authsvc.SessionManager) apirouter.RegisterFunc {
	return func(v1 fiber.Router, r *apirouter.Router) error {
		h := calhdl.NewCalendarHandler(sessions)
		auth := []fiber.Handler{middleware.AuthMiddleware(sessions, false)}

		apirouter.RegisterRouteWithMiddleware(v1, "/calendar/events", "GET", "/", auth, h.HandleListEvents)
		apirouter.RegisterRouteWithMiddleware(v1, "/calendar/events", "POST", "/", auth, h.HandleAddEvent)
		apirouter.RegisterRouteWithMiddleware(v1, "/calendar/events", "PATCH", "/:id", auth, h.HandleUpdateEvent)
		apirouter.RegisterRouteWithMiddleware(v1, "/calendar/events", "DELETE", "/:id", auth, h.HandleDeleteEvent)

		apirouter.RegisterRouteWithMiddleware(v1, "/calendar/calendars", "GET", "/", auth, h.HandleListCalendars)
		apirouter.RegisterRouteWithMiddleware(v1, "/calendar/calendars", "POST", "/", auth, h.HandleAddCalendar)
		apirouter.RegisterRouteWithMiddleware(v1, "/calendar/calendars", "POST", "/:id/share", auth, h.HandleShareCalendar)

		apirouter.RegisterRouteWithMiddleware(v1, "/calendar/booking", "GET", "/pages", auth, h.HandleListBookingPages)
		apirouter.RegisterRouteWithMiddleware(v1, "/calendar/booking", "POST", "/pages", auth, h.HandleAddBookingPage)
		apirouter.RegisterRouteWithMiddleware(v1, "/calendar/booking", "POST", "/bookings", auth, h.HandleAddBooking)
		apirouter.RegisterRouteWithMiddleware(v1, "/calendar/schedule", "PUT", "/", auth, h.HandleSetSchedule)
		return nil
	}
}
