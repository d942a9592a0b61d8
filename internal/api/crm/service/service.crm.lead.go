// Package crmvc - Mutation operations cho Lead: CRUD, timeline append-only,
// checklist sub-tasks và conversion sang Customer.
package crmvc

import (
	"context"
	"fmt"
	"time"

	crmmodels "sales_crm/internal/api/crm/models"
	"sales_crm/internal/common"
	"sales_crm/internal/global"
	"sales_crm/internal/store"
	"sales_crm/internal/utility"
)

// newTimelineEvent tạo timeline event với id UUID — duy nhất kể cả khi các
// event được sinh liên tiếp trong cùng một millisecond.
func newTimelineEvent(eventType, text, actorName string) crmmodels.TimelineEvent {
	return crmmodels.TimelineEvent{
		Id:        utility.NewID(),
		Type:      eventType,
		Text:      text,
		Timestamp: time.Now().Format(time.RFC3339),
		User:      actorName,
	}
}

// prependTimeline trả về timeline mới với event đứng đầu (append-only, mới nhất trước).
func prependTimeline(timeline []crmmodels.TimelineEvent, event crmmodels.TimelineEvent) []crmmodels.TimelineEvent {
	out := make([]crmmodels.TimelineEvent, 0, len(timeline)+1)
	out = append(out, event)
	out = append(out, timeline...)
	return out
}

// LeadById trả về lead theo id từ mirror.
func (s *CrmService) LeadById(id string) (crmmodels.Lead, bool) {
	return s.leads.get(id)
}

// AddLead tạo lead mới: gán id nếu caller chưa cung cấp, stamp creator và
// timestamps từ phiên hiện tại, mở timeline với event created.
func (s *CrmService) AddLead(ctx context.Context, lead crmmodels.Lead) (crmmodels.Lead, error) {
	user, err := s.requireUser()
	if err != nil {
		return crmmodels.Lead{}, err
	}

	if lead.Id == "" {
		lead.Id = utility.NewID()
	}
	if lead.Status == "" {
		lead.Status = crmmodels.LeadStatusNew
	}
	now := utility.CurrentTimeInMilli()
	lead.CreatedById = user.Id
	if lead.AssignedToId == "" {
		lead.AssignedToId = user.Id
	}
	if lead.SubTasks == nil {
		lead.SubTasks = []crmmodels.LeadSubTask{}
	}
	lead.Timeline = prependTimeline(nil, newTimelineEvent(crmmodels.TimelineCreated, "Lead được tạo", user.Name))
	lead.Rev = 1
	lead.CreatedAt = now
	lead.UpdatedAt = now

	if err := addRecord(ctx, s, s.leads, global.ColPaths.Leads, lead.Id, lead); err != nil {
		return crmmodels.Lead{}, err
	}
	return lead, nil
}

// UpdateLead merge partial patch vào lead. Timeline không được sửa qua đường
// này — mọi thay đổi timeline đi qua các operation chuyên biệt bên dưới.
func (s *CrmService) UpdateLead(ctx context.Context, id string, patch store.Doc) error {
	delete(patch, "timeline")
	delete(patch, "createdById")
	_, err := patchRecord(ctx, s, s.leads, global.ColPaths.Leads, id, patch)
	return err
}

// UpdateLeadStatus đổi trạng thái lead và prepend đúng một timeline event
// status_change ghi lại trạng thái cũ và mới. Trạng thái không đổi là no-op.
func (s *CrmService) UpdateLeadStatus(ctx context.Context, id, newStatus string) error {
	user, err := s.requireUser()
	if err != nil {
		return err
	}
	lead, ok := s.leads.get(id)
	if !ok {
		return fmt.Errorf("lead %s: %w", id, common.ErrNotFound)
	}
	if lead.Status == newStatus {
		return nil
	}

	event := newTimelineEvent(
		crmmodels.TimelineStatusChange,
		fmt.Sprintf("Trạng thái chuyển từ %s sang %s", lead.Status, newStatus),
		user.Name,
	)
	patch := store.Doc{
		"status":   newStatus,
		"timeline": prependTimeline(lead.Timeline, event),
	}
	_, err = patchRecord(ctx, s, s.leads, global.ColPaths.Leads, id, patch)
	return err
}

// AddLeadSubTask thêm một mục checklist và prepend timeline event loại task.
func (s *CrmService) AddLeadSubTask(ctx context.Context, id, title string) error {
	user, err := s.requireUser()
	if err != nil {
		return err
	}
	if title == "" {
		return fmt.Errorf("subtask title: %w", common.ErrRequiredField)
	}
	lead, ok := s.leads.get(id)
	if !ok {
		return fmt.Errorf("lead %s: %w", id, common.ErrNotFound)
	}

	subTasks := append(append([]crmmodels.LeadSubTask{}, lead.SubTasks...), crmmodels.LeadSubTask{
		Id:    utility.NewID(),
		Title: title,
	})
	event := newTimelineEvent(crmmodels.TimelineTask, fmt.Sprintf("Thêm công việc: %s", title), user.Name)
	patch := store.Doc{
		"subTasks": subTasks,
		"timeline": prependTimeline(lead.Timeline, event),
	}
	_, err = patchRecord(ctx, s, s.leads, global.ColPaths.Leads, id, patch)
	return err
}

// ToggleLeadSubTask đảo trạng thái hoàn thành của một mục checklist.
func (s *CrmService) ToggleLeadSubTask(ctx context.Context, id, subTaskId string) error {
	lead, ok := s.leads.get(id)
	if !ok {
		return fmt.Errorf("lead %s: %w", id, common.ErrNotFound)
	}
	found := false
	subTasks := make([]crmmodels.LeadSubTask, len(lead.SubTasks))
	for i, st := range lead.SubTasks {
		if st.Id == subTaskId {
			st.Done = !st.Done
			found = true
		}
		subTasks[i] = st
	}
	if !found {
		return fmt.Errorf("subtask %s: %w", subTaskId, common.ErrNotFound)
	}
	_, err := patchRecord(ctx, s, s.leads, global.ColPaths.Leads, id, store.Doc{"subTasks": subTasks})
	return err
}

// AddLeadNote prepend timeline event loại note.
func (s *CrmService) AddLeadNote(ctx context.Context, id, text string) error {
	user, err := s.requireUser()
	if err != nil {
		return err
	}
	if text == "" {
		return fmt.Errorf("note text: %w", common.ErrRequiredField)
	}
	lead, ok := s.leads.get(id)
	if !ok {
		return fmt.Errorf("lead %s: %w", id, common.ErrNotFound)
	}
	event := newTimelineEvent(crmmodels.TimelineNote, text, user.Name)
	_, err = patchRecord(ctx, s, s.leads, global.ColPaths.Leads, id, store.Doc{
		"timeline": prependTimeline(lead.Timeline, event),
	})
	return err
}

// ConvertLeadToCustomer tạo khách hàng mới từ lead (status From Lead) và
// prepend timeline event conversion trên lead.
func (s *CrmService) ConvertLeadToCustomer(ctx context.Context, id string) (crmmodels.Customer, error) {
	user, err := s.requireUser()
	if err != nil {
		return crmmodels.Customer{}, err
	}
	lead, ok := s.leads.get(id)
	if !ok {
		return crmmodels.Customer{}, fmt.Errorf("lead %s: %w", id, common.ErrNotFound)
	}

	customer, err := s.AddCustomer(ctx, crmmodels.Customer{
		Name:   lead.CustomerName,
		Status: crmmodels.CustomerStatusFromLead,
		Source: lead.Source,
	})
	if err != nil {
		return crmmodels.Customer{}, err
	}

	event := newTimelineEvent(
		crmmodels.TimelineConversion,
		fmt.Sprintf("Chuyển thành khách hàng: %s", lead.CustomerName),
		user.Name,
	)
	if _, err := patchRecord(ctx, s, s.leads, global.ColPaths.Leads, id, store.Doc{
		"timeline": prependTimeline(lead.Timeline, event),
	}); err != nil {
		return crmmodels.Customer{}, err
	}
	return customer, nil
}

// DeleteLead xóa lead khỏi mirror và remote store.
func (s *CrmService) DeleteLead(ctx context.Context, id string) error {
	return deleteRecord(ctx, s, s.leads, global.ColPaths.Leads, id)
}
