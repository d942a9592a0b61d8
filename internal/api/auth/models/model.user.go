// Package models - User là identity đã xác thực và roster người dùng của hệ thống.
package models

// Role id của người dùng trong hệ thống sales.
const (
	RoleAdmin                 = "admin"                   // Quản trị viên
	RoleSalesManager          = "sales_manager"           // Trưởng phòng sales
	RoleAssistantSalesManager = "assistant_sales_manager" // Phó phòng sales
	RoleSalesCoordinationHead = "sales_coordination_head" // Trưởng nhóm điều phối
	RoleSalesCoordinator      = "sales_coordinator"       // Điều phối viên
	RoleSalesExecutive        = "sales_executive"         // Nhân viên sales
)

// managerRoles là tập role được xem toàn bộ dữ liệu dùng chung và nhận thông báo
// khi có yêu cầu báo giá mới.
var managerRoles = map[string]bool{
	RoleAdmin:                 true,
	RoleSalesManager:          true,
	RoleAssistantSalesManager: true,
	RoleSalesCoordinationHead: true,
}

// IsManagerRole kiểm tra role có thuộc tập privileged hay không.
func IsManagerRole(roleId string) bool {
	return managerRoles[roleId]
}

// User là identity người dùng (session context + roster).
type User struct {
	Id       string `json:"id" bson:"id"`             // Identifier duy nhất
	Name     string `json:"name" bson:"name"`         // Tên hiển thị
	Email    string `json:"email" bson:"email"`       // Email đăng nhập
	RoleId   string `json:"roleId" bson:"roleId"`     // Role id (xem constants ở trên)
	IsActive bool   `json:"isActive" bson:"isActive"` // Còn hoạt động hay không
}
