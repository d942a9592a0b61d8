// Package crmvc - Core đồng bộ CRM: giữ mirror cho mọi collection trong suốt
// phiên làm việc và cung cấp các mutation operation với semantics
// optimistic update + write-through + rollback khi remote write thất bại.
//
// Lifecycle: Start(identity) thiết lập seed check + một live subscription cho
// mỗi collection; Stop() gỡ toàn bộ subscription và reset mirrors. Teardown
// race-free qua generation counter: callback mang generation cũ bị drop,
// không có chuyện mirror bị repopulate sau logout.
package crmvc

import (
	"context"
	"fmt"
	"sort"
	"sync"

	authmodels "sales_crm/internal/api/auth/models"
	calmodels "sales_crm/internal/api/calendar/models"
	crmmodels "sales_crm/internal/api/crm/models"
	"sales_crm/internal/api/events"
	notifmodels "sales_crm/internal/api/notification/models"
	"sales_crm/internal/common"
	"sales_crm/internal/global"
	"sales_crm/internal/logger"
	"sales_crm/internal/store"
	"sales_crm/internal/utility"
)

// UserProvider cung cấp roster người dùng cho core (session context bên ngoài).
type UserProvider interface {
	Users() []authmodels.User
}

// CrmService là core đồng bộ dữ liệu CRM cho một phiên làm việc.
// Tất cả mirror chỉ được ghi bởi core; consumer đọc qua các snapshot accessor.
type CrmService struct {
	store store.Store
	users UserProvider

	mu          sync.RWMutex
	generation  int64 // Tăng mỗi lần Start/Stop; guard chống callback cũ
	currentUser *authmodels.User
	unsubs      []store.Unsubscribe

	leads          *mirror[crmmodels.Lead]
	customers      *mirror[crmmodels.Customer]
	projects       *mirror[crmmodels.Project]
	tasks          *mirror[crmmodels.Task]
	quotations     *mirror[crmmodels.Quotation]
	invoices       *mirror[crmmodels.Invoice]
	requests       *mirror[crmmodels.QuotationRequest]
	calendarEvents *mirror[calmodels.CalendarEvent]
	calendars      *mirror[calmodels.Calendar]
	calendarShares *mirror[calmodels.CalendarShare]
	bookingPages   *mirror[calmodels.BookingPage]
	bookings       *mirror[calmodels.Booking]
	userSchedules  *mirror[calmodels.UserSchedule]
	notifications  *mirror[notifmodels.Notification]
}

// NewCrmService tạo core mới ở trạng thái Unauthenticated (mirrors rỗng,
// chưa có subscription).
func NewCrmService(st store.Store, users UserProvider) *CrmService {
	return &CrmService{
		store:          st,
		users:          users,
		leads:          newMirror[crmmodels.Lead](),
		customers:      newMirror[crmmodels.Customer](),
		projects:       newMirror[crmmodels.Project](),
		tasks:          newMirror[crmmodels.Task](),
		quotations:     newMirror[crmmodels.Quotation](),
		invoices:       newMirror[crmmodels.Invoice](),
		requests:       newMirror[crmmodels.QuotationRequest](),
		calendarEvents: newMirror[calmodels.CalendarEvent](),
		calendars:      newMirror[calmodels.Calendar](),
		calendarShares: newMirror[calmodels.CalendarShare](),
		bookingPages:   newMirror[calmodels.BookingPage](),
		bookings:       newMirror[calmodels.Booking](),
		userSchedules:  newMirror[calmodels.UserSchedule](),
		notifications:  newMirror[notifmodels.Notification](),
	}
}

// Start chuyển core sang trạng thái Authenticated(identity): chạy seed check
// một lần rồi thiết lập đúng một live subscription cho mỗi collection.
// Nếu core đang chạy cho identity khác, phiên cũ được teardown hoàn toàn trước.
func (s *CrmService) Start(ctx context.Context, user authmodels.User) error {
	s.Stop()

	s.mu.Lock()
	s.generation++
	gen := s.generation
	u := user
	s.currentUser = &u
	s.mu.Unlock()

	// Seed check trước khi mở subscription — idempotent, chỉ ghi khi cả 4
	// collection chính đồng thời rỗng
	if err := s.seedIfEmpty(ctx, user); err != nil {
		s.Stop()
		return fmt.Errorf("seed check: %w", err)
	}

	p := global.ColPaths
	subs := []struct {
		path  string
		apply func([]store.Doc)
	}{
		{p.Leads, func(docs []store.Doc) { s.leads.applyRemote(docs, nil); s.emit(p.Leads, s.leads.size()) }},
		{p.Customers, func(docs []store.Doc) { s.customers.applyRemote(docs, nil); s.emit(p.Customers, s.customers.size()) }},
		{p.Projects, func(docs []store.Doc) { s.projects.applyRemote(docs, nil); s.emit(p.Projects, s.projects.size()) }},
		{p.Tasks, func(docs []store.Doc) { s.tasks.applyRemote(docs, nil); s.emit(p.Tasks, s.tasks.size()) }},
		{p.Quotations, func(docs []store.Doc) { s.quotations.applyRemote(docs, nil); s.emit(p.Quotations, s.quotations.size()) }},
		{p.Invoices, func(docs []store.Doc) { s.invoices.applyRemote(docs, nil); s.emit(p.Invoices, s.invoices.size()) }},
		{p.QuotationRequests, func(docs []store.Doc) { s.requests.applyRemote(docs, nil); s.emit(p.QuotationRequests, s.requests.size()) }},
		{p.CalendarEvents, func(docs []store.Doc) { s.calendarEvents.applyRemote(docs, nil); s.emit(p.CalendarEvents, s.calendarEvents.size()) }},
		{p.Calendars, func(docs []store.Doc) { s.calendars.applyRemote(docs, nil); s.emit(p.Calendars, s.calendars.size()) }},
		{p.CalendarShares, func(docs []store.Doc) { s.calendarShares.applyRemote(docs, nil); s.emit(p.CalendarShares, s.calendarShares.size()) }},
		{p.BookingPages, func(docs []store.Doc) { s.bookingPages.applyRemote(docs, nil); s.emit(p.BookingPages, s.bookingPages.size()) }},
		{p.Bookings, func(docs []store.Doc) { s.bookings.applyRemote(docs, nil); s.emit(p.Bookings, s.bookings.size()) }},
		{p.UserSchedules, func(docs []store.Doc) { s.userSchedules.applyRemote(docs, nil); s.emit(p.UserSchedules, s.userSchedules.size()) }},
		// Notifications filter client-side theo recipient của phiên hiện tại
		{p.Notifications, func(docs []store.Doc) {
			s.notifications.applyRemote(docs, func(d store.Doc) bool {
				return docString(d, "recipientId") == user.Id
			})
			s.emit(p.Notifications, s.notifications.size())
		}},
	}

	for _, sub := range subs {
		unsub, err := s.store.Subscribe(ctx, sub.path, s.guarded(gen, sub.apply))
		if err != nil {
			s.Stop()
			return fmt.Errorf("subscribe %s: %w", sub.path, err)
		}
		s.mu.Lock()
		// Phiên đã bị Stop trong lúc subscribe — gỡ ngay subscription vừa mở
		if s.generation != gen {
			s.mu.Unlock()
			unsub()
			return common.ErrNoSession
		}
		s.unsubs = append(s.unsubs, unsub)
		s.mu.Unlock()
	}

	logger.GetAppLogger().WithFields(map[string]interface{}{
		"userId": user.Id,
		"roleId": user.RoleId,
	}).Info("🔄 [CRM] Session started, mirrors subscribed")
	return nil
}

// Stop teardown phiên hiện tại: gỡ mọi subscription và reset toàn bộ mirror.
// Callback đang chờ lock sẽ thấy generation mới và bị drop — không có
// state resurrection sau logout. Gọi khi chưa Start là no-op an toàn.
func (s *CrmService) Stop() {
	s.mu.Lock()
	s.generation++
	s.currentUser = nil
	unsubs := s.unsubs
	s.unsubs = nil
	s.leads.reset()
	s.customers.reset()
	s.projects.reset()
	s.tasks.reset()
	s.quotations.reset()
	s.invoices.reset()
	s.requests.reset()
	s.calendarEvents.reset()
	s.calendars.reset()
	s.calendarShares.reset()
	s.bookingPages.reset()
	s.bookings.reset()
	s.userSchedules.reset()
	s.notifications.reset()
	s.mu.Unlock()

	for _, unsub := range unsubs {
		unsub()
	}
}

// CurrentUser trả về identity của phiên hiện tại (nil nếu Unauthenticated).
func (s *CrmService) CurrentUser() *authmodels.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.currentUser == nil {
		return nil
	}
	u := *s.currentUser
	return &u
}

// requireUser trả về identity hiện tại hoặc lỗi nếu chưa có phiên.
func (s *CrmService) requireUser() (authmodels.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.currentUser == nil {
		return authmodels.User{}, common.ErrNoSession
	}
	return *s.currentUser, nil
}

// guarded bọc một apply function với generation check: callback của phiên cũ
// (hoặc tới sau teardown) bị drop trước khi chạm vào mirror.
func (s *CrmService) guarded(gen int64, apply func([]store.Doc)) store.ChangeHandler {
	return func(docs []store.Doc) {
		s.mu.RLock()
		defer s.mu.RUnlock()
		if s.generation != gen || s.currentUser == nil {
			return
		}
		apply(docs)
	}
}

// emit phát collection-changed event cho các consumer (websocket stream, ...).
func (s *CrmService) emit(path string, count int) {
	events.EmitCollectionChanged(events.CollectionChangedEvent{Path: path, Count: count})
}

// ====================================
// MUTATION PRIMITIVES (dùng chung cho mọi entity)
// ====================================

// addRecord thực hiện add chuẩn: optimistic upsert vào mirror rồi Put lên
// remote store; nếu Put thất bại, mirror được rollback và lỗi trả về caller.
func addRecord[T any](ctx context.Context, s *CrmService, m *mirror[T], path, id string, v T) error {
	prev, existed := m.get(id)
	prevRev := m.rev(id)

	m.upsert(id, v, prevRev+1)

	doc, err := utility.ToMap(v)
	if err != nil {
		m.restore(id, prev, prevRev, existed)
		return err
	}
	if err := s.store.Put(ctx, path, id, doc); err != nil {
		m.restore(id, prev, prevRev, existed)
		return fmt.Errorf("%w: %v", common.ErrStoreWrite, err)
	}
	s.emit(path, m.size())
	return nil
}

// patchRecord thực hiện update chuẩn: merge partial patch vào record trong
// mirror rồi Patch lên remote store. Field không có trong patch giữ nguyên ở
// cả mirror lẫn store. Rollback mirror nếu remote write thất bại.
// Trả về record sau khi merge.
func patchRecord[T any](ctx context.Context, s *CrmService, m *mirror[T], path, id string, patch store.Doc) (T, error) {
	var zero T
	prev, existed := m.get(id)
	if !existed {
		return zero, fmt.Errorf("%s/%s: %w", path, id, common.ErrNotFound)
	}
	prevRev := m.rev(id)
	newRev := prevRev + 1

	patch = utility.CloneMap(patch)
	if patch == nil {
		patch = store.Doc{}
	}
	patch["rev"] = newRev
	patch["updatedAt"] = utility.CurrentTimeInMilli()

	prevMap, err := utility.ToMap(prev)
	if err != nil {
		return zero, err
	}
	merged := utility.MergeMap(prevMap, patch)

	var next T
	if err := utility.MapToStruct(merged, &next); err != nil {
		return zero, err
	}

	m.upsert(id, next, newRev)

	if err := s.store.Patch(ctx, path, id, patch); err != nil {
		m.restore(id, prev, prevRev, true)
		return zero, fmt.Errorf("%w: %v", common.ErrStoreWrite, err)
	}
	s.emit(path, m.size())
	return next, nil
}

// deleteRecord thực hiện delete chuẩn: xóa khỏi mirror rồi Remove trên remote
// store; rollback mirror nếu remote write thất bại.
func deleteRecord[T any](ctx context.Context, s *CrmService, m *mirror[T], path, id string) error {
	prev, existed := m.get(id)
	if !existed {
		return fmt.Errorf("%s/%s: %w", path, id, common.ErrNotFound)
	}
	prevRev := m.rev(id)

	m.remove(id)

	if err := s.store.Remove(ctx, path, id); err != nil {
		m.restore(id, prev, prevRev, true)
		return fmt.Errorf("%w: %v", common.ErrStoreWrite, err)
	}
	s.emit(path, m.size())
	return nil
}

// ====================================
// SNAPSHOT ACCESSORS
// ====================================

// Leads trả về snapshot các lead, mới tạo đứng đầu.
func (s *CrmService) Leads() []crmmodels.Lead {
	out := s.leads.snapshot()
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt > out[j].CreatedAt })
	return out
}

// Customers trả về snapshot khách hàng, mới tạo đứng đầu.
func (s *CrmService) Customers() []crmmodels.Customer {
	out := s.customers.snapshot()
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt > out[j].CreatedAt })
	return out
}

// Projects trả về snapshot dự án.
func (s *CrmService) Projects() []crmmodels.Project {
	out := s.projects.snapshot()
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt > out[j].CreatedAt })
	return out
}

// Quotations trả về snapshot báo giá.
func (s *CrmService) Quotations() []crmmodels.Quotation {
	out := s.quotations.snapshot()
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt > out[j].CreatedAt })
	return out
}

// Invoices trả về snapshot hóa đơn.
func (s *CrmService) Invoices() []crmmodels.Invoice {
	out := s.invoices.snapshot()
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt > out[j].CreatedAt })
	return out
}

// QuotationRequests trả về snapshot yêu cầu báo giá.
func (s *CrmService) QuotationRequests() []crmmodels.QuotationRequest {
	out := s.requests.snapshot()
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt > out[j].CreatedAt })
	return out
}

// CalendarEvents trả về snapshot sự kiện lịch.
func (s *CrmService) CalendarEvents() []calmodels.CalendarEvent {
	out := s.calendarEvents.snapshot()
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// Calendars trả về snapshot lịch.
func (s *CrmService) Calendars() []calmodels.Calendar {
	out := s.calendars.snapshot()
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt > out[j].CreatedAt })
	return out
}

// CalendarShares trả về snapshot chia sẻ lịch.
func (s *CrmService) CalendarShares() []calmodels.CalendarShare {
	out := s.calendarShares.snapshot()
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt > out[j].CreatedAt })
	return out
}

// BookingPages trả về snapshot trang booking.
func (s *CrmService) BookingPages() []calmodels.BookingPage {
	out := s.bookingPages.snapshot()
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt > out[j].CreatedAt })
	return out
}

// Bookings trả về snapshot booking.
func (s *CrmService) Bookings() []calmodels.Booking {
	out := s.bookings.snapshot()
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt > out[j].CreatedAt })
	return out
}

// UserSchedules trả về snapshot lịch làm việc.
func (s *CrmService) UserSchedules() []calmodels.UserSchedule {
	out := s.userSchedules.snapshot()
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt > out[j].CreatedAt })
	return out
}

// Notifications trả về thông báo của phiên hiện tại, mới nhất đứng đầu.
func (s *CrmService) Notifications() []notifmodels.Notification {
	out := s.notifications.snapshot()
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt > out[j].CreatedAt })
	return out
}
