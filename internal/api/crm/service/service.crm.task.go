// Package crmvc - Mutation operations cho Task, kèm sync một chiều sang
// calendar event liên kết khi trạng thái task thay đổi.
package crmvc

import (
	"context"
	"fmt"
	"strings"

	crmmodels "sales_crm/internal/api/crm/models"
	"sales_crm/internal/common"
	"sales_crm/internal/global"
	"sales_crm/internal/logger"
	"sales_crm/internal/store"
	"sales_crm/internal/utility"
)

// TaskById trả về task theo id từ mirror.
func (s *CrmService) TaskById(id string) (crmmodels.Task, bool) {
	return s.tasks.get(id)
}

// AddTask tạo task mới. Validation chạy TRƯỚC optimistic update: task không
// hợp lệ không chạm vào mirror và không sinh remote write nào.
func (s *CrmService) AddTask(ctx context.Context, task crmmodels.Task) (crmmodels.Task, error) {
	user, err := s.requireUser()
	if err != nil {
		return crmmodels.Task{}, err
	}

	if task.Id == "" {
		task.Id = utility.NewID()
	}
	if task.Status == "" {
		task.Status = crmmodels.TaskStatusToDo
	}
	if task.Priority == "" {
		task.Priority = crmmodels.TaskPriorityMedium
	}
	now := utility.CurrentTimeInMilli()
	task.CreatedById = user.Id
	task.Rev = 1
	task.CreatedAt = now
	task.UpdatedAt = now

	if err := global.Validate.Struct(task); err != nil {
		return crmmodels.Task{}, fmt.Errorf("%w: %v", common.ErrInvalidInput, err)
	}

	if err := addRecord(ctx, s, s.tasks, global.ColPaths.Tasks, task.Id, task); err != nil {
		return crmmodels.Task{}, err
	}
	return task, nil
}

// UpdateTask merge partial patch vào task. Nếu patch chứa key status, calendar
// event liên kết (nếu có) được sync: marker hoàn thành được strip khỏi title và
// gắn lại chỉ khi trạng thái mới là Done. Patch không chạm status thì calendar
// giữ nguyên, kể cả khi title event đã lệch với task.
func (s *CrmService) UpdateTask(ctx context.Context, id string, patch store.Doc) error {
	_, touchesStatus := patch["status"]
	delete(patch, "createdById")

	updated, err := patchRecord(ctx, s, s.tasks, global.ColPaths.Tasks, id, patch)
	if err != nil {
		return err
	}
	if !touchesStatus {
		return nil
	}
	return s.syncLinkedCalendarEvents(ctx, updated)
}

// syncLinkedCalendarEvents cập nhật title của mọi calendar event liên kết với
// task theo trạng thái hiện tại. Lỗi sync từng event được log và không chặn
// các event còn lại.
func (s *CrmService) syncLinkedCalendarEvents(ctx context.Context, task crmmodels.Task) error {
	var firstErr error
	for _, event := range s.calendarEvents.snapshot() {
		if event.LinkedTaskId != task.Id {
			continue
		}
		title := strings.TrimPrefix(event.Title, crmmodels.TaskDoneMarker)
		if task.Status == crmmodels.TaskStatusDone {
			title = crmmodels.TaskDoneMarker + title
		}
		if title == event.Title {
			continue
		}
		if _, err := patchRecord(ctx, s, s.calendarEvents, global.ColPaths.CalendarEvents, event.Id, store.Doc{
			"title": title,
		}); err != nil {
			logger.GetAppLogger().WithFields(map[string]interface{}{
				"taskId":  task.Id,
				"eventId": event.Id,
			}).WithError(err).Error("🔄 [CRM] Sync calendar event theo task thất bại")
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

// DeleteTask xóa task. Calendar event liên kết giữ nguyên, chỉ mất liên kết sống.
func (s *CrmService) DeleteTask(ctx context.Context, id string) error {
	return deleteRecord(ctx, s, s.tasks, global.ColPaths.Tasks, id)
}
