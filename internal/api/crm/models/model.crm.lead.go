// Package models - Lead thuộc domain CRM (crm/data/leads).
// Lead giữ checklist sub-tasks và timeline append-only (mới nhất đứng đầu).
package models

// Trạng thái của Lead.
const (
	LeadStatusNew         = "New"
	LeadStatusContacted   = "Contacted"
	LeadStatusProposal    = "Proposal"
	LeadStatusNegotiation = "Negotiation"
	LeadStatusWon         = "Won"
	LeadStatusLost        = "Lost"
)

// Loại timeline event của Lead.
const (
	TimelineCreated      = "created"       // Lead được tạo
	TimelineStatusChange = "status_change" // Đổi trạng thái
	TimelineTask         = "task"          // Thêm sub-task
	TimelineNote         = "note"          // Ghi chú
	TimelineConversion   = "conversion"    // Chuyển thành khách hàng
	TimelineEstimation   = "estimation"    // Gửi yêu cầu báo giá
)

// LeadSubTask là một mục checklist trong Lead.
type LeadSubTask struct {
	Id    string `json:"id" bson:"id"`
	Title string `json:"title" bson:"title"`
	Done  bool   `json:"done" bson:"done"`
}

// TimelineEvent là một dòng trong timeline của Lead.
// Timeline chỉ được prepend, không reorder, không sửa tại chỗ.
type TimelineEvent struct {
	Id        string `json:"id" bson:"id"`               // UUID, duy nhất kể cả khi sinh liên tiếp
	Type      string `json:"type" bson:"type"`           // Một trong các Timeline* constants
	Text      string `json:"text" bson:"text"`           // Nội dung
	Timestamp string `json:"timestamp" bson:"timestamp"` // ISO timestamp (RFC3339)
	User      string `json:"user" bson:"user"`           // Tên người thực hiện
}

// Lead là một cơ hội bán hàng (crm/data/leads).
type Lead struct {
	Id           string          `json:"id" bson:"id"`
	Title        string          `json:"title" bson:"title"`
	CustomerName string          `json:"customerName" bson:"customerName"`
	Value        float64         `json:"value" bson:"value"` // Giá trị ước tính
	Status       string          `json:"status" bson:"status"`
	Source       string          `json:"source" bson:"source"` // Nguồn lead (website, referral, ...)
	CreatedById  string          `json:"createdById" bson:"createdById"`
	AssignedToId string          `json:"assignedToId" bson:"assignedToId"`
	SubTasks     []LeadSubTask   `json:"subTasks" bson:"subTasks"`
	Timeline     []TimelineEvent `json:"timeline" bson:"timeline"` // Mới nhất đứng đầu

	Rev       int64 `json:"rev" bson:"rev"`             // Revision đơn điệu tăng cho staleness guard
	CreatedAt int64 `json:"createdAt" bson:"createdAt"` // Unix ms
	UpdatedAt int64 `json:"updatedAt" bson:"updatedAt"` // Unix ms
}
