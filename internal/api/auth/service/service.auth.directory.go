// Package authsvc - Session context của hệ thống: roster người dùng và
// quản lý phiên (một sync core cho mỗi người dùng đã đăng nhập).
package authsvc

import (
	"context"
	"sort"
	"sync"

	authmodels "sales_crm/internal/api/auth/models"
	"sales_crm/internal/global"
	"sales_crm/internal/logger"
	"sales_crm/internal/store"
	"sales_crm/internal/utility"
)

// UserDirectory giữ roster người dùng đồng bộ live từ collection users.
// Directory là nguồn cung cấp Users() cho các sync core (vai trò user provider).
type UserDirectory struct {
	store store.Store

	mu    sync.RWMutex
	users map[string]authmodels.User
	unsub store.Unsubscribe
}

// NewUserDirectory tạo directory mới, chưa subscribe.
func NewUserDirectory(st store.Store) *UserDirectory {
	return &UserDirectory{
		store: st,
		users: make(map[string]authmodels.User),
	}
}

// Start mở live subscription trên collection users. Roster được thay thế
// toàn bộ mỗi lần callback — collection users nhỏ và ít thay đổi.
func (d *UserDirectory) Start(ctx context.Context) error {
	unsub, err := d.store.Subscribe(ctx, global.ColPaths.Users, func(docs []store.Doc) {
		next := make(map[string]authmodels.User, len(docs))
		for _, doc := range docs {
			var u authmodels.User
			if err := utility.MapToStruct(doc, &u); err != nil {
				logger.GetAppLogger().WithError(err).Warn("👥 [USERS] Bỏ qua user record không đọc được")
				continue
			}
			if u.Id != "" {
				next[u.Id] = u
			}
		}
		d.mu.Lock()
		d.users = next
		d.mu.Unlock()
	})
	if err != nil {
		return err
	}
	d.mu.Lock()
	d.unsub = unsub
	d.mu.Unlock()
	return nil
}

// Stop gỡ subscription. Roster giữ nguyên giá trị cuối.
func (d *UserDirectory) Stop() {
	d.mu.Lock()
	unsub := d.unsub
	d.unsub = nil
	d.mu.Unlock()
	if unsub != nil {
		unsub()
	}
}

// Users trả về roster hiện tại, ổn định theo tên.
func (d *UserDirectory) Users() []authmodels.User {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]authmodels.User, 0, len(d.users))
	for _, u := range d.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// UserById tra cứu người dùng theo id.
func (d *UserDirectory) UserById(id string) (authmodels.User, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	u, ok := d.users[id]
	return u, ok
}

// UserByEmail tra cứu người dùng theo email đăng nhập.
func (d *UserDirectory) UserByEmail(email string) (authmodels.User, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, u := range d.users {
		if u.Email == email {
			return u, true
		}
	}
	return authmodels.User{}, false
}

// SeedUsers ghi roster mặc định lên store khi collection users đang rỗng
// (INITMODE). Idempotent: roster không rỗng thì không ghi gì.
func (d *UserDirectory) SeedUsers(ctx context.Context) error {
	existing, err := d.store.GetAll(ctx, global.ColPaths.Users)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	seed := []authmodels.User{
		{Id: "seed-user-admin", Name: "Quản trị viên", Email: "admin@example.com", RoleId: authmodels.RoleAdmin, IsActive: true},
		{Id: "seed-user-manager", Name: "Trần Văn Minh", Email: "manager@example.com", RoleId: authmodels.RoleSalesManager, IsActive: true},
		{Id: "seed-user-coord-head", Name: "Lê Thị Hoa", Email: "coordhead@example.com", RoleId: authmodels.RoleSalesCoordinationHead, IsActive: true},
		{Id: "seed-user-coordinator", Name: "Phạm Quốc Bảo", Email: "coordinator@example.com", RoleId: authmodels.RoleSalesCoordinator, IsActive: true},
		{Id: "seed-user-executive", Name: "Nguyễn Thu Trang", Email: "executive@example.com", RoleId: authmodels.RoleSalesExecutive, IsActive: true},
	}
	for _, u := range seed {
		doc, err := utility.ToMap(u)
		if err != nil {
			return err
		}
		if err := d.store.Put(ctx, global.ColPaths.Users, u.Id, doc); err != nil {
			return err
		}
	}
	logger.GetAppLogger().WithField("count", len(seed)).Info("🌱 [SEED] Đã ghi roster người dùng mặc định")
	return nil
}
