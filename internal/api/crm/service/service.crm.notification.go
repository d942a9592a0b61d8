// Package crmvc - Notification operations trên core. Mirror notifications
// chỉ chứa thông báo của phiên hiện tại; thông báo gửi cho người khác vẫn ghi
// lên remote store nhưng không hiện trong mirror local.
package crmvc

import (
	"context"
	"fmt"

	notifmodels "sales_crm/internal/api/notification/models"
	"sales_crm/internal/common"
	"sales_crm/internal/global"
	"sales_crm/internal/store"
	"sales_crm/internal/utility"
)

// AddNotification ghi một thông báo mới. Nếu recipient là identity của phiên
// hiện tại, mirror được update optimistically như mọi entity khác; nếu không,
// thông báo chỉ đi thẳng lên store và xuất hiện trong phiên của recipient qua
// subscription của họ.
func (s *CrmService) AddNotification(ctx context.Context, n notifmodels.Notification) (notifmodels.Notification, error) {
	user, err := s.requireUser()
	if err != nil {
		return notifmodels.Notification{}, err
	}
	if n.RecipientId == "" {
		return notifmodels.Notification{}, fmt.Errorf("notification recipient: %w", common.ErrRequiredField)
	}

	if n.Id == "" {
		n.Id = utility.NewID()
	}
	if n.Type == "" {
		n.Type = notifmodels.TypeGeneral
	}
	if n.SenderId == "" {
		n.SenderId = user.Id
	}
	now := utility.CurrentTimeInMilli()
	n.Read = false
	n.Rev = 1
	n.CreatedAt = now
	n.UpdatedAt = now

	if n.RecipientId == user.Id {
		if err := addRecord(ctx, s, s.notifications, global.ColPaths.Notifications, n.Id, n); err != nil {
			return notifmodels.Notification{}, err
		}
		return n, nil
	}

	doc, err := utility.ToMap(n)
	if err != nil {
		return notifmodels.Notification{}, err
	}
	if err := s.store.Put(ctx, global.ColPaths.Notifications, n.Id, doc); err != nil {
		return notifmodels.Notification{}, fmt.Errorf("%w: %v", common.ErrStoreWrite, err)
	}
	return n, nil
}

// MarkNotificationRead đánh dấu một thông báo của phiên hiện tại là đã đọc.
func (s *CrmService) MarkNotificationRead(ctx context.Context, id string) error {
	_, err := patchRecord(ctx, s, s.notifications, global.ColPaths.Notifications, id, store.Doc{
		"read": true,
	})
	return err
}

// MarkAllNotificationsRead đánh dấu mọi thông báo chưa đọc của phiên hiện tại.
// Gặp lỗi ở một thông báo thì dừng và trả lỗi; các thông báo đã đánh dấu trước
// đó giữ nguyên.
func (s *CrmService) MarkAllNotificationsRead(ctx context.Context) error {
	for _, n := range s.notifications.snapshot() {
		if n.Read {
			continue
		}
		if err := s.MarkNotificationRead(ctx, n.Id); err != nil {
			return err
		}
	}
	return nil
}

// DeleteNotification xóa một thông báo của phiên hiện tại.
func (s *CrmService) DeleteNotification(ctx context.Context, id string) error {
	return deleteRecord(ctx, s, s.notifications, global.ColPaths.Notifications, id)
}

// UnreadCount đếm số thông báo chưa đọc trong mirror.
func (s *CrmService) UnreadCount() int {
	count := 0
	for _, n := range s.notifications.snapshot() {
		if !n.Read {
			count++
		}
	}
	return count
}
