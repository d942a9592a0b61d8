// Package crmdto chứa input DTO cho các route CRM.
// Các operation partial-update nhận patch dạng map — field vắng mặt giữ nguyên.
package crmdto

import (
	crmmodels "sales_crm/internal/api/crm/models"
)

// PatchInput là body của các route update: merge top-level vào record hiện có.
type PatchInput map[string]interface{}

// LeadStatusInput đổi trạng thái lead.
type LeadStatusInput struct {
	Status string `json:"status"`
}

// LeadSubTaskInput thêm sub-task vào checklist của lead.
type LeadSubTaskInput struct {
	Title string `json:"title"`
}

// LeadNoteInput thêm ghi chú vào timeline của lead.
type LeadNoteInput struct {
	Text string `json:"text"`
}

// AssignRequestInput là body của route gán yêu cầu báo giá.
type AssignRequestInput struct {
	CoordinatorIds []string                      `json:"coordinatorIds"`
	Tags           []string                      `json:"tags"`
	CustomTasks    []crmmodels.RequestCustomTask `json:"customTasks"`
}
