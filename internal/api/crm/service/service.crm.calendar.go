// Package crmvc - Mutation operations cho subsystem lịch: calendar event,
// calendar, share, booking page, booking, user schedule.
package crmvc

import (
	"context"
	"fmt"

	calmodels "sales_crm/internal/api/calendar/models"
	"sales_crm/internal/common"
	"sales_crm/internal/global"
	"sales_crm/internal/store"
	"sales_crm/internal/utility"
)

// AddCalendarEvent tạo sự kiện lịch mới cho phiên hiện tại.
func (s *CrmService) AddCalendarEvent(ctx context.Context, event calmodels.CalendarEvent) (calmodels.CalendarEvent, error) {
	user, err := s.requireUser()
	if err != nil {
		return calmodels.CalendarEvent{}, err
	}
	if event.Title == "" {
		return calmodels.CalendarEvent{}, fmt.Errorf("event title: %w", common.ErrRequiredField)
	}

	if event.Id == "" {
		event.Id = utility.NewID()
	}
	if event.OwnerId == "" {
		event.OwnerId = user.Id
	}
	now := utility.CurrentTimeInMilli()
	event.Rev = 1
	event.CreatedAt = now
	event.UpdatedAt = now

	if err := addRecord(ctx, s, s.calendarEvents, global.ColPaths.CalendarEvents, event.Id, event); err != nil {
		return calmodels.CalendarEvent{}, err
	}
	return event, nil
}

// UpdateCalendarEvent merge partial patch vào sự kiện lịch.
func (s *CrmService) UpdateCalendarEvent(ctx context.Context, id string, patch store.Doc) error {
	_, err := patchRecord(ctx, s, s.calendarEvents, global.ColPaths.CalendarEvents, id, patch)
	return err
}

// DeleteCalendarEvent xóa sự kiện lịch.
func (s *CrmService) DeleteCalendarEvent(ctx context.Context, id string) error {
	return deleteRecord(ctx, s, s.calendarEvents, global.ColPaths.CalendarEvents, id)
}

// AddCalendar tạo lịch mới thuộc sở hữu của phiên hiện tại.
func (s *CrmService) AddCalendar(ctx context.Context, cal calmodels.Calendar) (calmodels.Calendar, error) {
	user, err := s.requireUser()
	if err != nil {
		return calmodels.Calendar{}, err
	}
	if cal.Name == "" {
		return calmodels.Calendar{}, fmt.Errorf("calendar name: %w", common.ErrRequiredField)
	}

	if cal.Id == "" {
		cal.Id = utility.NewID()
	}
	cal.OwnerId = user.Id
	now := utility.CurrentTimeInMilli()
	cal.Rev = 1
	cal.CreatedAt = now
	cal.UpdatedAt = now

	if err := addRecord(ctx, s, s.calendars, global.ColPaths.Calendars, cal.Id, cal); err != nil {
		return calmodels.Calendar{}, err
	}
	return cal, nil
}

// UpdateCalendar merge partial patch. OwnerId bất biến.
func (s *CrmService) UpdateCalendar(ctx context.Context, id string, patch store.Doc) error {
	delete(patch, "ownerId")
	_, err := patchRecord(ctx, s, s.calendars, global.ColPaths.Calendars, id, patch)
	return err
}

// DeleteCalendar xóa lịch.
func (s *CrmService) DeleteCalendar(ctx context.Context, id string) error {
	return deleteRecord(ctx, s, s.calendars, global.ColPaths.Calendars, id)
}

// ShareCalendar chia sẻ một lịch của phiên hiện tại cho người dùng khác.
func (s *CrmService) ShareCalendar(ctx context.Context, calendarId, sharedWithId, permission string) (calmodels.CalendarShare, error) {
	user, err := s.requireUser()
	if err != nil {
		return calmodels.CalendarShare{}, err
	}
	if _, ok := s.calendars.get(calendarId); !ok {
		return calmodels.CalendarShare{}, fmt.Errorf("calendar %s: %w", calendarId, common.ErrNotFound)
	}
	if permission != calmodels.SharePermissionView && permission != calmodels.SharePermissionEdit {
		return calmodels.CalendarShare{}, fmt.Errorf("share permission %q: %w", permission, common.ErrInvalidInput)
	}

	now := utility.CurrentTimeInMilli()
	share := calmodels.CalendarShare{
		Id:           utility.NewID(),
		CalendarId:   calendarId,
		OwnerId:      user.Id,
		SharedWithId: sharedWithId,
		Permission:   permission,
		Rev:          1,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := addRecord(ctx, s, s.calendarShares, global.ColPaths.CalendarShares, share.Id, share); err != nil {
		return calmodels.CalendarShare{}, err
	}
	return share, nil
}

// RevokeCalendarShare thu hồi một lượt chia sẻ lịch.
func (s *CrmService) RevokeCalendarShare(ctx context.Context, id string) error {
	return deleteRecord(ctx, s, s.calendarShares, global.ColPaths.CalendarShares, id)
}

// AddBookingPage tạo trang booking công khai cho phiên hiện tại.
func (s *CrmService) AddBookingPage(ctx context.Context, page calmodels.BookingPage) (calmodels.BookingPage, error) {
	user, err := s.requireUser()
	if err != nil {
		return calmodels.BookingPage{}, err
	}
	if page.Slug == "" {
		return calmodels.BookingPage{}, fmt.Errorf("booking page slug: %w", common.ErrRequiredField)
	}

	if page.Id == "" {
		page.Id = utility.NewID()
	}
	page.OwnerId = user.Id
	now := utility.CurrentTimeInMilli()
	page.Rev = 1
	page.CreatedAt = now
	page.UpdatedAt = now

	if err := addRecord(ctx, s, s.bookingPages, global.ColPaths.BookingPages, page.Id, page); err != nil {
		return calmodels.BookingPage{}, err
	}
	return page, nil
}

// UpdateBookingPage merge partial patch. OwnerId bất biến.
func (s *CrmService) UpdateBookingPage(ctx context.Context, id string, patch store.Doc) error {
	delete(patch, "ownerId")
	_, err := patchRecord(ctx, s, s.bookingPages, global.ColPaths.BookingPages, id, patch)
	return err
}

// DeleteBookingPage xóa trang booking.
func (s *CrmService) DeleteBookingPage(ctx context.Context, id string) error {
	return deleteRecord(ctx, s, s.bookingPages, global.ColPaths.BookingPages, id)
}

// AddBooking ghi một lượt đặt lịch trên trang booking.
func (s *CrmService) AddBooking(ctx context.Context, booking calmodels.Booking) (calmodels.Booking, error) {
	if _, err := s.requireUser(); err != nil {
		return calmodels.Booking{}, err
	}
	if booking.PageId == "" {
		return calmodels.Booking{}, fmt.Errorf("booking pageId: %w", common.ErrRequiredField)
	}

	if booking.Id == "" {
		booking.Id = utility.NewID()
	}
	if booking.Status == "" {
		booking.Status = calmodels.BookingStatusConfirmed
	}
	now := utility.CurrentTimeInMilli()
	booking.Rev = 1
	booking.CreatedAt = now
	booking.UpdatedAt = now

	if err := addRecord(ctx, s, s.bookings, global.ColPaths.Bookings, booking.Id, booking); err != nil {
		return calmodels.Booking{}, err
	}
	return booking, nil
}

// CancelBooking chuyển booking sang trạng thái Cancelled.
func (s *CrmService) CancelBooking(ctx context.Context, id string) error {
	_, err := patchRecord(ctx, s, s.bookings, global.ColPaths.Bookings, id, store.Doc{
		"status": calmodels.BookingStatusCancelled,
	})
	return err
}

// SetUserSchedule ghi lịch làm việc cho phiên hiện tại (một record mỗi người dùng).
func (s *CrmService) SetUserSchedule(ctx context.Context, schedule calmodels.UserSchedule) (calmodels.UserSchedule, error) {
	user, err := s.requireUser()
	if err != nil {
		return calmodels.UserSchedule{}, err
	}

	schedule.UserId = user.Id
	if schedule.Id == "" {
		// Id theo userId để mỗi người dùng chỉ có đúng một schedule record
		schedule.Id = user.Id
	}
	now := utility.CurrentTimeInMilli()
	if existing, ok := s.userSchedules.get(schedule.Id); ok {
		schedule.CreatedAt = existing.CreatedAt
		schedule.Rev = existing.Rev + 1
	} else {
		schedule.CreatedAt = now
		schedule.Rev = 1
	}
	schedule.UpdatedAt = now

	if err := addRecord(ctx, s, s.userSchedules, global.ColPaths.UserSchedules, schedule.Id, schedule); err != nil {
		return calmodels.UserSchedule{}, err
	}
	return schedule, nil
}
