// Package models - Quotation và Invoice thuộc domain CRM
// (crm/data/quotations, crm/data/invoices).
package models

// Trạng thái của Quotation.
const (
	QuotationStatusDraft    = "Draft"
	QuotationStatusSent     = "Sent"
	QuotationStatusAccepted = "Accepted"
	QuotationStatusRejected = "Rejected"
	QuotationStatusExpired  = "Expired"
)

// Trạng thái của Invoice.
const (
	InvoiceStatusPending   = "Pending"
	InvoiceStatusPaid      = "Paid"
	InvoiceStatusOverdue   = "Overdue"
	InvoiceStatusCancelled = "Cancelled"
)

// QuotationItem là một dòng trong báo giá.
// Total luôn được tính lại = Quantity × UnitPrice khi submit, không sửa tay.
type QuotationItem struct {
	Id          string  `json:"id" bson:"id"`
	Description string  `json:"description" bson:"description"`
	Quantity    float64 `json:"quantity" bson:"quantity"`
	UnitPrice   float64 `json:"unitPrice" bson:"unitPrice"`
	Total       float64 `json:"total" bson:"total"` // Dẫn xuất: quantity × unitPrice
}

// Quotation là báo giá gửi khách hàng (crm/data/quotations).
// Subtotal/Total là field dẫn xuất, tính lại từ Items tại mọi create/update chạm Items.
type Quotation struct {
	Id          string          `json:"id" bson:"id"`
	Number      string          `json:"number" bson:"number"` // Số báo giá
	CustomerId  string          `json:"customerId" bson:"customerId"`
	Items       []QuotationItem `json:"items" bson:"items"`
	Subtotal    float64         `json:"subtotal" bson:"subtotal"` // Dẫn xuất: tổng Total các items
	Tax         float64         `json:"tax" bson:"tax"`
	Total       float64         `json:"total" bson:"total"` // Dẫn xuất: subtotal + tax
	Status      string          `json:"status" bson:"status"`
	ValidUntil  string          `json:"validUntil" bson:"validUntil"` // ISO date
	CreatedById string          `json:"createdById" bson:"createdById"`

	Rev       int64 `json:"rev" bson:"rev"`
	CreatedAt int64 `json:"createdAt" bson:"createdAt"` // Unix ms
	UpdatedAt int64 `json:"updatedAt" bson:"updatedAt"` // Unix ms
}

// Invoice là hóa đơn (crm/data/invoices).
type Invoice struct {
	Id          string  `json:"id" bson:"id"`
	Number      string  `json:"number" bson:"number"`
	CustomerId  string  `json:"customerId" bson:"customerId"`
	Amount      float64 `json:"amount" bson:"amount"`
	DueDate     string  `json:"dueDate" bson:"dueDate"` // ISO date
	Status      string  `json:"status" bson:"status"`
	CreatedById string  `json:"createdById" bson:"createdById"`

	Rev       int64 `json:"rev" bson:"rev"`
	CreatedAt int64 `json:"createdAt" bson:"createdAt"` // Unix ms
	UpdatedAt int64 `json:"updatedAt" bson:"updatedAt"` // Unix ms
}
