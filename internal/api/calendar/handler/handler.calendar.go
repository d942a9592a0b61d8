// Package calhdl chứa HTTP handler cho subsystem lịch và booking.
package calhdl

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v3"

	authsvc "sales_crm/internal/api/auth/service"
	basehdl "sales_crm/internal/api/base/handler"
	calmodels "sales_crm/internal/api/calendar/models"
	crmvc "sales_crm/internal/api/crm/service"
	"sales_crm/internal/api/middleware"
	"sales_crm/internal/common"
	"sales_crm/internal/store"
)

// CalendarHandler xử lý các request lịch / booking.
type CalendarHandler struct {
	sessions *authsvc.SessionManager
}

// NewCalendarHandler tạo mới CalendarHandler.
func NewCalendarHandler(sessions *authsvc.SessionManager) *CalendarHandler {
	return &CalendarHandler{sessions: sessions}
}

func (h *CalendarHandler) core(c fiber.Ctx) (*crmvc.CrmService, error) {
	user, err := middleware.UserFromContext(c)
	if err != nil {
		return nil, err
	}
	return h.sessions.CoreFor(context.Background(), user)
}

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

// HandleListEvents trả về sự kiện lịch theo ngày tăng dần.
func (h *CalendarHandler) HandleListEvents(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		core, err := h.core(c)
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		basehdl.HandleResponse(c, core.CalendarEvents(), nil)
		return nil
	})
}

// HandleAddEvent tạo sự kiện lịch mới.
func (h *CalendarHandler) HandleAddEvent(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		var event calmodels.CalendarEvent
		if err := bindBody(c, &event); err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		core, err := h.core(c)
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		created, err := core.AddCalendarEvent(context.Background(), event)
		basehdl.HandleResponse(c, created, err)
		return nil
	})
}

// HandleUpdateEvent merge partial patch vào sự kiện.
func (h *CalendarHandler) HandleUpdateEvent(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		var patch map[string]interface{}
		if err := bindBody(c, &patch); err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		core, err := h.core(c)
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		err = core.UpdateCalendarEvent(context.Background(), c.Params("id"), store.Doc(patch))
		basehdl.HandleResponse(c, nil, err)
		return nil
	})
}

// HandleDeleteEvent xóa sự kiện lịch.
func (h *CalendarHandler) HandleDeleteEvent(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		core, err := h.core(c)
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		err = core.DeleteCalendarEvent(context.Background(), c.Params("id"))
		basehdl.HandleResponse(c, nil, err)
		return nil
	})
}

// HandleListCalendars trả về lịch + chia sẻ của phiên.
func (h *CalendarHandler) HandleListCalendars(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		core, err := h.core(c)
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		basehdl.HandleResponse(c, fiber.Map{
			"calendars": core.Calendars(),
			"shares":    core.CalendarShares(),
		}, nil)
		return nil
	})
}

// HandleAddCalendar tạo lịch mới.
func (h *CalendarHandler) HandleAddCalendar(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		var cal calmodels.Calendar
		if err := bindBody(c, &cal); err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		core, err := h.core(c)
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		created, err := core.AddCalendar(context.Background(), cal)
		basehdl.HandleResponse(c, created, err)
		return nil
	})
}

// shareInput là body của route chia sẻ lịch.
type shareInput struct {
	SharedWithId string `json:"sharedWithId"`
	Permission   string `json:"permission"`
}

// HandleShareCalendar chia sẻ lịch cho người dùng khác.
func (h *CalendarHandler) HandleShareCalendar(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		var input shareInput
		if err := bindBody(c, &input); err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		core, err := h.core(c)
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		share, err := core.ShareCalendar(context.Background(), c.Params("id"), input.SharedWithId, input.Permission)
		basehdl.HandleResponse(c, share, err)
		return nil
	})
}

// HandleListBookingPages trả về trang booking + bookings.
func (h *CalendarHandler) HandleListBookingPages(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		core, err := h.core(c)
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		basehdl.HandleResponse(c, fiber.Map{
			"pages":    core.BookingPages(),
			"bookings": core.Bookings(),
		}, nil)
		return nil
	})
}

// HandleAddBookingPage tạo trang booking công khai.
func (h *CalendarHandler) HandleAddBookingPage(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		var page calmodels.BookingPage
		if err := bindBody(c, &page); err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		core, err := h.core(c)
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		created, err := core.AddBookingPage(context.Background(), page)
		basehdl.HandleResponse(c, created, err)
		return nil
	})
}

// HandleAddBooking ghi một lượt đặt lịch.
func (h *CalendarHandler) HandleAddBooking(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		var booking calmodels.Booking
		if err := bindBody(c, &booking); err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		core, err := h.core(c)
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		created, err := core.AddBooking(context.Background(), booking)
		basehdl.HandleResponse(c, created, err)
		return nil
	})
}

// HandleSetSchedule ghi lịch làm việc của phiên hiện tại.
func (h *CalendarHandler) HandleSetSchedule(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		var schedule calmodels.UserSchedule
		if err := bindBody(c, &schedule); err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		core, err := h.core(c)
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		saved, err := core.SetUserSchedule(context.Background(), schedule)
		basehdl.HandleResponse(c, saved, err)
		return nil
	})
}
