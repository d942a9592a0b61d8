// Package authsvc - SessionManager cấp JWT và giữ một sync core cho mỗi
// người dùng đã đăng nhập.
package authsvc

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	authmodels "sales_crm/internal/api/auth/models"
	crmvc "sales_crm/internal/api/crm/service"
	"sales_crm/internal/common"
	"sales_crm/internal/logger"
	"sales_crm/internal/registry"
	"sales_crm/internal/store"
)

// Thời hạn mặc định của session token.
const tokenTTL = 24 * time.Hour

// SessionManager cấp phát và xác thực JWT, đồng thời sở hữu các sync core
// theo user id. Core được tạo lazy ở lần truy cập đầu tiên sau đăng nhập và
// teardown khi EndSession.
type SessionManager struct {
	store     store.Store
	directory *UserDirectory
	jwtSecret []byte
	cores     *registry.Registry[*crmvc.CrmService]
}

// NewSessionManager tạo session manager mới.
func NewSessionManager(st store.Store, directory *UserDirectory, jwtSecret string) *SessionManager {
	return &SessionManager{
		store:     st,
		directory: directory,
		jwtSecret: []byte(jwtSecret),
		cores:     registry.NewRegistry[*crmvc.CrmService](),
	}
}

// Login xác thực email và cấp JWT session token.
// Đăng nhập chỉ theo email — password nằm ở identity provider bên ngoài,
// hệ thống này chỉ tiêu thụ identity đã xác thực.
func (m *SessionManager) Login(ctx context.Context, email string) (string, authmodels.User, error) {
	user, ok := m.directory.UserByEmail(email)
	if !ok {
		return "", authmodels.User{}, common.ErrUserNotFound
	}
	if !user.IsActive {
		return "", authmodels.User{}, common.NewError(
			common.ErrCodeAuthSession,
			"Tài khoản đã bị vô hiệu hóa",
			common.StatusForbidden,
			nil,
		)
	}

	now := time.Now()
	claims := authmodels.SessionClaims{
		RoleId: user.RoleId,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Id,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.jwtSecret)
	if err != nil {
		return "", authmodels.User{}, fmt.Errorf("sign token: %w", err)
	}

	logger.GetAppLogger().WithFields(map[string]interface{}{
		"userId": user.Id,
		"roleId": user.RoleId,
	}).Info("🔐 [AUTH] Đăng nhập thành công")
	return token, user, nil
}

// Authenticate parse và xác thực JWT, trả về identity từ roster.
func (m *SessionManager) Authenticate(tokenString string) (authmodels.User, error) {
	var claims authmodels.SessionClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return authmodels.User{}, common.ErrTokenInvalid
	}

	user, ok := m.directory.UserById(claims.Subject)
	if !ok {
		return authmodels.User{}, common.ErrUserNotFound
	}
	if !user.IsActive {
		return authmodels.User{}, common.ErrTokenInvalid
	}
	return user, nil
}

// CoreFor trả về sync core của người dùng, tạo và Start nếu chưa có.
// Mỗi user id có đúng một core; các request song song của cùng user dùng
// chung core đó.
func (m *SessionManager) CoreFor(ctx context.Context, user authmodels.User) (*crmvc.CrmService, error) {
	if core, ok := m.cores.Get(user.Id); ok {
		return core, nil
	}

	core := crmvc.NewCrmService(m.store, m.directory)
	if err := core.Start(ctx, user); err != nil {
		return nil, fmt.Errorf("start core cho %s: %w", user.Id, err)
	}
	if _, err := m.cores.Register(user.Id, core); err != nil {
		core.Stop()
		return nil, err
	}
	return core, nil
}

// EndSession teardown core của người dùng (logout). No-op nếu chưa có core.
func (m *SessionManager) EndSession(userId string) {
	if core, ok := m.cores.Get(userId); ok {
		core.Stop()
		m.cores.Remove(userId)
		logger.GetAppLogger().WithField("userId", userId).Info("🔐 [AUTH] Đã kết thúc phiên")
	}
}

// ActiveSessions trả về số phiên đang mở.
func (m *SessionManager) ActiveSessions() int {
	return m.cores.Len()
}

// Shutdown teardown toàn bộ phiên đang mở.
func (m *SessionManager) Shutdown() {
	for _, id := range m.cores.Names() {
		m.EndSession(id)
	}
}
