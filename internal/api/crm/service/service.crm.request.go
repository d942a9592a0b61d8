// Package crmvc - QuotationRequest operations, bao gồm workflow nhiều bước
// gán yêu cầu cho các điều phối viên.
//
// Workflow assignment có semantics at-least-once: mỗi bước ghi xong là xong,
// lỗi ở bước sau không rollback các bước trước. Caller nhận lỗi đầu tiên và
// có thể chạy lại — task/notification trùng có thể xuất hiện khi retry.
package crmvc

import (
	"context"
	"fmt"
	"strings"
	"time"

	authmodels "sales_crm/internal/api/auth/models"
	crmmodels "sales_crm/internal/api/crm/models"
	notifmodels "sales_crm/internal/api/notification/models"
	"sales_crm/internal/common"
	"sales_crm/internal/global"
	"sales_crm/internal/logger"
	"sales_crm/internal/store"
	"sales_crm/internal/utility"
)

// QuotationRequestById trả về yêu cầu báo giá theo id từ mirror.
func (s *CrmService) QuotationRequestById(id string) (crmmodels.QuotationRequest, bool) {
	return s.requests.get(id)
}

// AddQuotationRequest tạo yêu cầu báo giá từ một lead: ghi request ở trạng
// thái Pending, prepend timeline event estimation trên lead (nếu lead còn
// trong mirror) và fan-out thông báo tới mọi người dùng active có role
// privileged, trừ chính người yêu cầu.
func (s *CrmService) AddQuotationRequest(ctx context.Context, req crmmodels.QuotationRequest) (crmmodels.QuotationRequest, error) {
	user, err := s.requireUser()
	if err != nil {
		return crmmodels.QuotationRequest{}, err
	}

	if req.Id == "" {
		req.Id = utility.NewID()
	}
	if req.Priority == "" {
		req.Priority = crmmodels.RequestPriorityMedium
	}
	now := utility.CurrentTimeInMilli()
	req.Status = crmmodels.RequestStatusPending
	req.RequestedById = user.Id
	req.Rev = 1
	req.CreatedAt = now
	req.UpdatedAt = now

	if lead, ok := s.leads.get(req.LeadId); ok {
		if req.LeadTitle == "" {
			req.LeadTitle = lead.Title
		}
		if req.EstimatedValue == 0 {
			req.EstimatedValue = lead.Value
		}
	}

	if err := addRecord(ctx, s, s.requests, global.ColPaths.QuotationRequests, req.Id, req); err != nil {
		return crmmodels.QuotationRequest{}, err
	}

	log := logger.GetAppLogger().WithFields(map[string]interface{}{
		"requestId": req.Id,
		"leadId":    req.LeadId,
	})

	// Timeline estimation trên lead — lỗi chỉ log, request đã ghi xong
	if lead, ok := s.leads.get(req.LeadId); ok {
		event := newTimelineEvent(
			crmmodels.TimelineEstimation,
			fmt.Sprintf("Gửi yêu cầu báo giá: %s", req.LeadTitle),
			user.Name,
		)
		if _, err := patchRecord(ctx, s, s.leads, global.ColPaths.Leads, lead.Id, store.Doc{
			"timeline": prependTimeline(lead.Timeline, event),
		}); err != nil {
			log.WithError(err).Error("📣 [REQUEST] Ghi timeline estimation thất bại")
		}
	}

	// Fan-out cho các role privileged đang active
	for _, u := range s.users.Users() {
		if !u.IsActive || u.Id == user.Id || !authmodels.IsManagerRole(u.RoleId) {
			continue
		}
		_, err := s.AddNotification(ctx, notifmodels.Notification{
			Type:        notifmodels.TypeQuotationRequest,
			Title:       "Yêu cầu báo giá mới",
			Message:     fmt.Sprintf("%s yêu cầu báo giá cho lead %s", user.Name, req.LeadTitle),
			RecipientId: u.Id,
			RelatedId:   req.Id,
		})
		if err != nil {
			log.WithField("recipientId", u.Id).WithError(err).Error("📣 [REQUEST] Gửi thông báo thất bại")
		}
	}

	log.Info("📣 [REQUEST] Đã tạo yêu cầu báo giá")
	return req, nil
}

// UpdateQuotationRequest merge partial patch vào yêu cầu báo giá.
func (s *CrmService) UpdateQuotationRequest(ctx context.Context, id string, patch store.Doc) error {
	delete(patch, "requestedById")
	_, err := patchRecord(ctx, s, s.requests, global.ColPaths.QuotationRequests, id, patch)
	return err
}

// DeleteQuotationRequest xóa yêu cầu báo giá.
func (s *CrmService) DeleteQuotationRequest(ctx context.Context, id string) error {
	return deleteRecord(ctx, s, s.requests, global.ColPaths.QuotationRequests, id)
}

// assignmentTaskPriority map độ ưu tiên của request sang độ ưu tiên task.
func assignmentTaskPriority(requestPriority string) string {
	switch requestPriority {
	case crmmodels.RequestPriorityHigh, crmmodels.RequestPriorityUrgent:
		return crmmodels.TaskPriorityHigh
	default:
		return crmmodels.TaskPriorityMedium
	}
}

// assignmentTaskDescription tóm tắt nội dung yêu cầu cho main task của điều
// phối viên: giá trị ước tính, yêu cầu, ghi chú và tags phân loại.
func assignmentTaskDescription(req crmmodels.QuotationRequest, tags []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Giá trị ước tính: %.0f", req.EstimatedValue)
	if req.Requirements != "" {
		fmt.Fprintf(&b, "\nYêu cầu: %s", req.Requirements)
	}
	if req.Notes != "" {
		fmt.Fprintf(&b, "\nGhi chú: %s", req.Notes)
	}
	if len(tags) > 0 {
		fmt.Fprintf(&b, "\nTags: %s", strings.Join(tags, ", "))
	}
	return b.String()
}

// AssignQuotationRequestToMultipleCoordinators chạy workflow gán yêu cầu:
//
//  1. Patch request: danh sách điều phối viên, tags, custom tasks, status Assigned.
//  2. Với mỗi điều phối viên: một main task (hạn +7 ngày, priority theo request,
//     mô tả tóm tắt giá trị ước tính/yêu cầu/ghi chú/tags) kèm một sub-task cho
//     mỗi custom task template, rồi một thông báo task_assigned.
//  3. Thông báo assignment_summary cho người đã tạo yêu cầu.
//  4. Patch request sang status In Progress.
//
// Lỗi ở bất kỳ bước nào propagate ra caller ngay; các bước đã hoàn thành
// giữ nguyên (không rollback chéo entity).
func (s *CrmService) AssignQuotationRequestToMultipleCoordinators(
	ctx context.Context,
	requestId string,
	coordinatorIds []string,
	tags []string,
	customTasks []crmmodels.RequestCustomTask,
) error {
	user, err := s.requireUser()
	if err != nil {
		return err
	}
	req, ok := s.requests.get(requestId)
	if !ok {
		return fmt.Errorf("quotation request %s: %w", requestId, common.ErrNotFound)
	}
	if len(coordinatorIds) == 0 {
		return fmt.Errorf("coordinator ids: %w", common.ErrRequiredField)
	}

	log := logger.GetAppLogger().WithFields(map[string]interface{}{
		"requestId":    requestId,
		"coordinators": len(coordinatorIds),
	})

	if _, err := patchRecord(ctx, s, s.requests, global.ColPaths.QuotationRequests, requestId, store.Doc{
		"assignedCoordinatorIds": coordinatorIds,
		"tags":                   tags,
		"customTasks":            customTasks,
		"status":                 crmmodels.RequestStatusAssigned,
	}); err != nil {
		return fmt.Errorf("assign request: %w", err)
	}

	dueDate := time.Now().AddDate(0, 0, 7).Format("2006-01-02")
	priority := assignmentTaskPriority(req.Priority)
	description := assignmentTaskDescription(req, tags)

	for _, coordinatorId := range coordinatorIds {
		mainTask, err := s.AddTask(ctx, crmmodels.Task{
			Title:              fmt.Sprintf("Báo giá: %s", req.LeadTitle),
			Description:        description,
			AssignedTo:         coordinatorId,
			Status:             crmmodels.TaskStatusToDo,
			Priority:           priority,
			DueDate:            dueDate,
			CreatedFrom:        crmmodels.TaskCreatedFromQuotationRequest,
			LeadId:             req.LeadId,
			QuotationRequestId: requestId,
		})
		if err != nil {
			return fmt.Errorf("main task cho %s: %w", coordinatorId, err)
		}

		for _, tmpl := range customTasks {
			if _, err := s.AddTask(ctx, crmmodels.Task{
				Title:              tmpl.Title,
				Description:        tmpl.Description,
				AssignedTo:         coordinatorId,
				Status:             crmmodels.TaskStatusToDo,
				Priority:           priority,
				DueDate:            dueDate,
				CreatedFrom:        crmmodels.TaskCreatedFromQuotationRequest,
				LeadId:             req.LeadId,
				QuotationRequestId: requestId,
				ParentTaskId:       mainTask.Id,
			}); err != nil {
				return fmt.Errorf("sub-task %q cho %s: %w", tmpl.Title, coordinatorId, err)
			}
		}

		if _, err := s.AddNotification(ctx, notifmodels.Notification{
			Type:        notifmodels.TypeTaskAssigned,
			Title:       "Bạn được gán yêu cầu báo giá",
			Message:     fmt.Sprintf("%s gán bạn xử lý báo giá cho lead %s", user.Name, req.LeadTitle),
			RecipientId: coordinatorId,
			RelatedId:   mainTask.Id,
		}); err != nil {
			return fmt.Errorf("thông báo cho %s: %w", coordinatorId, err)
		}
	}

	if _, err := s.AddNotification(ctx, notifmodels.Notification{
		Type:        notifmodels.TypeAssignmentSummary,
		Title:       "Yêu cầu báo giá đã được gán",
		Message:     fmt.Sprintf("Yêu cầu cho lead %s đã gán cho %d điều phối viên", req.LeadTitle, len(coordinatorIds)),
		RecipientId: req.RequestedById,
		RelatedId:   requestId,
	}); err != nil {
		return fmt.Errorf("thông báo summary: %w", err)
	}

	if _, err := patchRecord(ctx, s, s.requests, global.ColPaths.QuotationRequests, requestId, store.Doc{
		"status": crmmodels.RequestStatusInProgress,
	}); err != nil {
		return fmt.Errorf("chuyển request sang In Progress: %w", err)
	}

	log.Info("📣 [REQUEST] Workflow gán yêu cầu hoàn tất")
	return nil
}
