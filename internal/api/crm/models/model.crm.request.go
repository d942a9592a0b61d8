// Package models - QuotationRequest thuộc domain CRM (crm/data/quotation_requests).
// Yêu cầu báo giá sinh ra từ lead, được gán cho một hoặc nhiều điều phối viên.
package models

// Trạng thái của QuotationRequest.
const (
	RequestStatusPending    = "Pending"
	RequestStatusAssigned   = "Assigned"
	RequestStatusInProgress = "In Progress"
	RequestStatusCompleted  = "Completed"
	RequestStatusCancelled  = "Cancelled"
)

// Độ ưu tiên của QuotationRequest.
const (
	RequestPriorityLow    = "Low"
	RequestPriorityMedium = "Medium"
	RequestPriorityHigh   = "High"
	RequestPriorityUrgent = "Urgent"
)

// RequestCustomTask là template sub-task tùy chỉnh spawn khi gán yêu cầu.
type RequestCustomTask struct {
	Title       string `json:"title" bson:"title"`
	Description string `json:"description" bson:"description"`
}

// QuotationRequest là yêu cầu báo giá (crm/data/quotation_requests).
type QuotationRequest struct {
	Id             string  `json:"id" bson:"id"`
	LeadId         string  `json:"leadId" bson:"leadId"`
	LeadTitle      string  `json:"leadTitle" bson:"leadTitle"`
	RequestedById  string  `json:"requestedById" bson:"requestedById"`
	EstimatedValue float64 `json:"estimatedValue" bson:"estimatedValue"`
	Requirements   string  `json:"requirements" bson:"requirements"`
	Notes          string  `json:"notes" bson:"notes"`
	Priority       string  `json:"priority" bson:"priority"`
	Status         string  `json:"status" bson:"status"`

	// Assignment — set khi yêu cầu được xử lý
	AssignedCoordinatorIds []string            `json:"assignedCoordinatorIds,omitempty" bson:"assignedCoordinatorIds,omitempty"`
	Tags                   []string            `json:"tags,omitempty" bson:"tags,omitempty"` // Predefined + custom
	CustomTasks            []RequestCustomTask `json:"customTasks,omitempty" bson:"customTasks,omitempty"`

	Rev       int64 `json:"rev" bson:"rev"`
	CreatedAt int64 `json:"createdAt" bson:"createdAt"` // Unix ms
	UpdatedAt int64 `json:"updatedAt" bson:"updatedAt"` // Unix ms
}
