// Package models - Project thuộc domain CRM (crm/data/projects).
package models

// Trạng thái của Project.
const (
	ProjectStatusNotStarted = "Not Started"
	ProjectStatusInProgress = "In Progress"
	ProjectStatusOnHold     = "On Hold"
	ProjectStatusCompleted  = "Completed"
)

// Project là dự án gắn với một khách hàng (crm/data/projects).
type Project struct {
	Id          string  `json:"id" bson:"id"`
	Name        string  `json:"name" bson:"name"`
	CustomerId  string  `json:"customerId" bson:"customerId"`
	Status      string  `json:"status" bson:"status"`
	StartDate   string  `json:"startDate" bson:"startDate"` // ISO date
	EndDate     string  `json:"endDate" bson:"endDate"`     // ISO date
	Value       float64 `json:"value" bson:"value"`
	Progress    int     `json:"progress" bson:"progress"` // Phần trăm hoàn thành 0..100
	CreatedById string  `json:"createdById" bson:"createdById"`

	Rev       int64 `json:"rev" bson:"rev"`
	CreatedAt int64 `json:"createdAt" bson:"createdAt"` // Unix ms
	UpdatedAt int64 `json:"updatedAt" bson:"updatedAt"` // Unix ms
}
