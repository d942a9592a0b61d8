// Package models - Task thuộc domain CRM (crm/data/tasks).
package models

// Trạng thái của Task.
const (
	TaskStatusToDo       = "To Do"
	TaskStatusInProgress = "In Progress"
	TaskStatusReview     = "Review"
	TaskStatusDone       = "Done"
)

// Độ ưu tiên của Task.
const (
	TaskPriorityLow    = "Low"
	TaskPriorityMedium = "Medium"
	TaskPriorityHigh   = "High"
)

// Nguồn sinh ra Task (provenance).
const (
	TaskCreatedFromQuotationRequest = "quotation_request"
)

// TaskDoneMarker là prefix đánh dấu hoàn thành trên title của calendar event
// liên kết với task (sync một chiều task -> calendar).
const TaskDoneMarker = "✓ "

// Task là công việc được giao cho một identity (crm/data/tasks).
// Các field provenance ghi lại workflow/entity đã sinh ra task.
type Task struct {
	Id          string `json:"id" bson:"id"`
	Title       string `json:"title" bson:"title" validate:"required,no_xss"`
	Description string `json:"description" bson:"description" validate:"no_xss"`
	AssignedTo  string `json:"assignedTo" bson:"assignedTo" validate:"required"`
	Status      string `json:"status" bson:"status" validate:"required"`
	Priority    string `json:"priority" bson:"priority" validate:"required"`
	DueDate     string `json:"dueDate" bson:"dueDate" validate:"required,iso_date"` // ISO date
	CreatedById string `json:"createdById" bson:"createdById"`

	// Provenance
	CreatedFrom        string `json:"createdFrom,omitempty" bson:"createdFrom,omitempty"`
	LeadId             string `json:"leadId,omitempty" bson:"leadId,omitempty"`
	QuotationRequestId string `json:"quotationRequestId,omitempty" bson:"quotationRequestId,omitempty"`
	ParentTaskId       string `json:"parentTaskId,omitempty" bson:"parentTaskId,omitempty"` // Set khi là subtask

	Rev       int64 `json:"rev" bson:"rev"`
	CreatedAt int64 `json:"createdAt" bson:"createdAt"` // Unix ms
	UpdatedAt int64 `json:"updatedAt" bson:"updatedAt"` // Unix ms
}
