// Package models - CalendarEvent thuộc subsystem lịch (crm/data/calendar_events).
package models

// CalendarEvent là một sự kiện trên lịch của người dùng.
// LinkedTaskId liên kết sự kiện với một Task để sync trạng thái một chiều
// (task -> calendar): khi task Done, title được gắn marker hoàn thành.
type CalendarEvent struct {
	Id           string `json:"id" bson:"id"`
	Title        string `json:"title" bson:"title"`
	Date         string `json:"date" bson:"date"` // ISO date
	OwnerId      string `json:"ownerId" bson:"ownerId"`
	CalendarId   string `json:"calendarId,omitempty" bson:"calendarId,omitempty"`
	LinkedTaskId string `json:"linkedTaskId,omitempty" bson:"linkedTaskId,omitempty"`

	Rev       int64 `json:"rev" bson:"rev"`
	CreatedAt int64 `json:"createdAt" bson:"createdAt"` // Unix ms
	UpdatedAt int64 `json:"updatedAt" bson:"updatedAt"` // Unix ms
}
