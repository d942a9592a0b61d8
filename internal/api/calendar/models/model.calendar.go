// Package models - Các entity chia sẻ lịch và booking (top-level collections:
// calendars, calendar_shares, booking_pages, bookings, user_schedules).
package models

// Quyền chia sẻ lịch.
const (
	SharePermissionView = "view"
	SharePermissionEdit = "edit"
)

// Trạng thái của Booking.
const (
	BookingStatusConfirmed = "Confirmed"
	BookingStatusCancelled = "Cancelled"
)

// Calendar là một lịch thuộc sở hữu của một người dùng.
type Calendar struct {
	Id      string `json:"id" bson:"id"`
	Name    string `json:"name" bson:"name"`
	OwnerId string `json:"ownerId" bson:"ownerId"`
	Color   string `json:"color,omitempty" bson:"color,omitempty"`

	Rev       int64 `json:"rev" bson:"rev"`
	CreatedAt int64 `json:"createdAt" bson:"createdAt"` // Unix ms
	UpdatedAt int64 `json:"updatedAt" bson:"updatedAt"` // Unix ms
}

// CalendarShare chia sẻ một lịch cho người dùng khác.
type CalendarShare struct {
	Id           string `json:"id" bson:"id"`
	CalendarId   string `json:"calendarId" bson:"calendarId"`
	OwnerId      string `json:"ownerId" bson:"ownerId"`
	SharedWithId string `json:"sharedWithId" bson:"sharedWithId"`
	Permission   string `json:"permission" bson:"permission"` // view | edit

	Rev       int64 `json:"rev" bson:"rev"`
	CreatedAt int64 `json:"createdAt" bson:"createdAt"` // Unix ms
	UpdatedAt int64 `json:"updatedAt" bson:"updatedAt"` // Unix ms
}

// BookingPage là trang booking công khai của một người dùng.
type BookingPage struct {
	Id          string `json:"id" bson:"id"`
	OwnerId     string `json:"ownerId" bson:"ownerId"`
	Slug        string `json:"slug" bson:"slug"` // Đường dẫn công khai
	Title       string `json:"title" bson:"title"`
	Description string `json:"description,omitempty" bson:"description,omitempty"`
	Active      bool   `json:"active" bson:"active"`

	Rev       int64 `json:"rev" bson:"rev"`
	CreatedAt int64 `json:"createdAt" bson:"createdAt"` // Unix ms
	UpdatedAt int64 `json:"updatedAt" bson:"updatedAt"` // Unix ms
}

// Booking là một lượt đặt lịch qua trang booking công khai.
type Booking struct {
	Id         string `json:"id" bson:"id"`
	PageId     string `json:"pageId" bson:"pageId"`
	GuestName  string `json:"guestName" bson:"guestName"`
	GuestEmail string `json:"guestEmail" bson:"guestEmail"`
	Date       string `json:"date" bson:"date"` // ISO date
	Slot       string `json:"slot" bson:"slot"` // Khung giờ, ví dụ "09:00-09:30"
	Status     string `json:"status" bson:"status"`

	Rev       int64 `json:"rev" bson:"rev"`
	CreatedAt int64 `json:"createdAt" bson:"createdAt"` // Unix ms
	UpdatedAt int64 `json:"updatedAt" bson:"updatedAt"` // Unix ms
}

// UserSchedule là lịch làm việc của một người dùng (dùng cho booking slots).
type UserSchedule struct {
	Id        string `json:"id" bson:"id"`
	UserId    string `json:"userId" bson:"userId"`
	WorkDays  []int  `json:"workDays" bson:"workDays"`   // 0=CN .. 6=Thứ 7
	StartTime string `json:"startTime" bson:"startTime"` // "09:00"
	EndTime   string `json:"endTime" bson:"endTime"`     // "18:00"

	Rev       int64 `json:"rev" bson:"rev"`
	CreatedAt int64 `json:"createdAt" bson:"createdAt"` // Unix ms
	UpdatedAt int64 `json:"updatedAt" bson:"updatedAt"` // Unix ms
}
