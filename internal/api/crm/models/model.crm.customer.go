// Package models - Customer thuộc domain CRM (crm/data/customers).
package models

// Trạng thái của Customer.
const (
	CustomerStatusActive   = "Active"
	CustomerStatusInactive = "Inactive"
	CustomerStatusFromLead = "From Lead" // Khách hàng sinh ra từ lead conversion
)

// Customer là khách hàng (crm/data/customers).
// CreatedById luôn lấy từ identity của phiên tại thời điểm tạo và bất biến sau đó.
type Customer struct {
	Id            string `json:"id" bson:"id"`
	Name          string `json:"name" bson:"name"`
	ContactPerson string `json:"contactPerson" bson:"contactPerson"`
	Email         string `json:"email" bson:"email"`
	Phone         string `json:"phone" bson:"phone"`
	Status        string `json:"status" bson:"status"`
	Source        string `json:"source" bson:"source"`
	CreatedById   string `json:"createdById" bson:"createdById"`

	Rev       int64 `json:"rev" bson:"rev"`
	CreatedAt int64 `json:"createdAt" bson:"createdAt"` // Unix ms
	UpdatedAt int64 `json:"updatedAt" bson:"updatedAt"` // Unix ms
}
