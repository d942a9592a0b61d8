package global

import (
	"sales_crm/config"
	"sales_crm/internal/registry"
	"sales_crm/internal/store"

	"github.com/go-playground/validator/v10"
)

// CollectionPath chứa đường dẫn các collection trong remote store.
// Các collection CRM nằm dưới grouping document cố định "crm/data" (xác định
// subscription path), các collection chia sẻ lịch / booking / notification nằm top-level.
type CollectionPath struct {
	// Nhóm CRM — nested dưới crm/data
	Leads             string // Đường dẫn collection leads
	Customers         string // Đường dẫn collection khách hàng
	Projects          string // Đường dẫn collection dự án
	Tasks             string // Đường dẫn collection công việc
	CalendarEvents    string // Đường dẫn collection sự kiện lịch
	Quotations        string // Đường dẫn collection báo giá
	Invoices          string // Đường dẫn collection hóa đơn
	QuotationRequests string // Đường dẫn collection yêu cầu báo giá

	// Nhóm top-level
	Calendars      string // Đường dẫn collection lịch
	CalendarShares string // Đường dẫn collection chia sẻ lịch
	BookingPages   string // Đường dẫn collection trang booking công khai
	Bookings       string // Đường dẫn collection booking
	UserSchedules  string // Đường dẫn collection lịch làm việc
	Notifications  string // Đường dẫn collection thông báo
	Users          string // Đường dẫn collection người dùng
}

// Các biến toàn cục
var Validate *validator.Validate             // Biến để xác thực dữ liệu
var ServerConfig *config.Configuration       // Cấu hình của server
var ColPaths CollectionPath = CollectionPath{} // Đường dẫn các collection

// Các Registry
var RegistryStores = registry.NewRegistry[store.Store]() // Registry chứa các store backends
