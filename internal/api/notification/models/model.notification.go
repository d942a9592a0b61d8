// Package models - Notification (top-level collection notifications).
package models

// Loại thông báo.
const (
	TypeQuotationRequest  = "quotation_request"  // Có yêu cầu báo giá mới
	TypeTaskAssigned      = "task_assigned"      // Được gán task
	TypeAssignmentSummary = "assignment_summary" // Tóm tắt kết quả gán yêu cầu
	TypeGeneral           = "general"
)

// Notification là thông báo gửi tới một người dùng.
type Notification struct {
	Id          string `json:"id" bson:"id"`
	Type        string `json:"type" bson:"type"`
	Title       string `json:"title" bson:"title"`
	Message     string `json:"message" bson:"message"`
	RecipientId string `json:"recipientId" bson:"recipientId"`
	SenderId    string `json:"senderId,omitempty" bson:"senderId,omitempty"`
	RelatedId   string `json:"relatedId,omitempty" bson:"relatedId,omitempty"` // Entity liên quan (request, task, ...)
	Read        bool   `json:"read" bson:"read"`

	Rev       int64 `json:"rev" bson:"rev"`
	CreatedAt int64 `json:"createdAt" bson:"createdAt"` // Unix ms
	UpdatedAt int64 `json:"updatedAt" bson:"updatedAt"` // Unix ms
}
