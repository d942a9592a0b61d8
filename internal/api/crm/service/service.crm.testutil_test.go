// Package crmvc - Hạ tầng test dùng chung: khởi tạo global state, roster giả,
// store wrapper có thể giả lập lỗi ghi và helper dựng core trên MemoryStore.
package crmvc

import (
	"context"
	"errors"
	"sync"
	"testing"

	authmodels "sales_crm/internal/api/auth/models"
	"sales_crm/internal/global"
	"sales_crm/internal/logger"
	"sales_crm/internal/store"
	"sales_crm/internal/utility"
)

var testEnvOnce sync.Once

// initTestEnv set các biến toàn cục mà core phụ thuộc (collection paths,
// validator, logger) — tương đương InitGlobal của cmd/server nhưng không cần env.
func initTestEnv() {
	testEnvOnce.Do(func() {
		global.ColPaths.Leads = "crm/data/leads"
		global.ColPaths.Customers = "crm/data/customers"
		global.ColPaths.Projects = "crm/data/projects"
		global.ColPaths.Tasks = "crm/data/tasks"
		global.ColPaths.CalendarEvents = "crm/data/calendar_events"
		global.ColPaths.Quotations = "crm/data/quotations"
		global.ColPaths.Invoices = "crm/data/invoices"
		global.ColPaths.QuotationRequests = "crm/data/quotation_requests"
		global.ColPaths.Calendars = "calendars"
		global.ColPaths.CalendarShares = "calendar_shares"
		global.ColPaths.BookingPages = "booking_pages"
		global.ColPaths.Bookings = "bookings"
		global.ColPaths.UserSchedules = "user_schedules"
		global.ColPaths.Notifications = "notifications"
		global.ColPaths.Users = "users"

		global.InitValidator()

		if err := logger.Init(&logger.LogConfig{Level: "error", Format: "text", Output: "stdout"}); err != nil {
			panic(err)
		}
	})
}

// Các identity test dùng xuyên suốt.
var (
	testManager = authmodels.User{
		Id: "user-manager", Name: "Nguyễn Quản Lý", Email: "manager@test.vn",
		RoleId: authmodels.RoleSalesManager, IsActive: true,
	}
	testExecutive = authmodels.User{
		Id: "user-exec", Name: "Trần Nhân Viên", Email: "exec@test.vn",
		RoleId: authmodels.RoleSalesExecutive, IsActive: true,
	}
	testCoordinator = authmodels.User{
		Id: "user-coord", Name: "Lê Điều Phối", Email: "coord@test.vn",
		RoleId: authmodels.RoleSalesCoordinator, IsActive: true,
	}
	testCoordHead = authmodels.User{
		Id: "user-coord-head", Name: "Phạm Trưởng Nhóm", Email: "head@test.vn",
		RoleId: authmodels.RoleSalesCoordinationHead, IsActive: true,
	}
)

// fakeRoster là UserProvider cố định cho test.
type fakeRoster struct {
	users []authmodels.User
}

func (f fakeRoster) Users() []authmodels.User {
	return f.users
}

var errWriteDown = errors.New("store write down")

// flakyStore bọc một Store thật và cho phép giả lập lỗi ghi cũng như đếm
// số remote write đã đi qua.
type flakyStore struct {
	store.Store

	mu         sync.Mutex
	failPut    bool
	failPatch  bool
	failRemove bool
	puts       int
	patches    int
	removes    int
}

func (f *flakyStore) Put(ctx context.Context, path string, id string, doc store.Doc) error {
	f.mu.Lock()
	fail := f.failPut
	if !fail {
		f.puts++
	}
	f.mu.Unlock()
	if fail {
		return errWriteDown
	}
	return f.Store.Put(ctx, path, id, doc)
}

func (f *flakyStore) Patch(ctx context.Context, path string, id string, patch store.Doc) error {
	f.mu.Lock()
	fail := f.failPatch
	if !fail {
		f.patches++
	}
	f.mu.Unlock()
	if fail {
		return errWriteDown
	}
	return f.Store.Patch(ctx, path, id, patch)
}

func (f *flakyStore) Remove(ctx context.Context, path string, id string) error {
	f.mu.Lock()
	fail := f.failRemove
	if !fail {
		f.removes++
	}
	f.mu.Unlock()
	if fail {
		return errWriteDown
	}
	return f.Store.Remove(ctx, path, id)
}

func (f *flakyStore) setFailures(put, patch, remove bool) {
	f.mu.Lock()
	f.failPut = put
	f.failPatch = patch
	f.failRemove = remove
	f.mu.Unlock()
}

func (f *flakyStore) writeCounts() (puts, patches, removes int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.puts, f.patches, f.removes
}

// suppressSeed ghi một project guard để seed check thấy dữ liệu và bỏ qua
// bootstrap dataset — test nhờ đó bắt đầu với mirrors rỗng.
func suppressSeed(t *testing.T, st store.Store) {
	t.Helper()
	doc := store.Doc{
		"id": "guard-project", "name": "Guard", "status": "Planning",
		"rev": int64(1), "createdAt": utility.CurrentTimeInMilli(),
	}
	if err := st.Put(context.Background(), global.ColPaths.Projects, "guard-project", doc); err != nil {
		t.Fatalf("không ghi được guard project: %v", err)
	}
}

// newTestCore dựng core trên store đã cho, start với identity đã cho và
// đăng ký Stop khi test kết thúc. Roster mặc định gồm 4 identity test.
func newTestCore(t *testing.T, st store.Store, user authmodels.User) *CrmService {
	t.Helper()
	initTestEnv()

	roster := fakeRoster{users: []authmodels.User{testManager, testExecutive, testCoordinator, testCoordHead}}
	core := NewCrmService(st, roster)
	if err := core.Start(context.Background(), user); err != nil {
		t.Fatalf("start core thất bại: %v", err)
	}
	t.Cleanup(core.Stop)
	return core
}

// newQuietCore dựng core trên MemoryStore với seed bị chặn — điểm xuất phát
// chuẩn cho phần lớn test mutation.
func newQuietCore(t *testing.T, user authmodels.User) (*CrmService, *flakyStore) {
	t.Helper()
	initTestEnv()

	flaky := &flakyStore{Store: store.NewMemoryStore()}
	suppressSeed(t, flaky)
	core := newTestCore(t, flaky, user)
	return core, flaky
}
