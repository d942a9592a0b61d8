package main

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/sirupsen/logrus"
	"google.golang.org/api/option"

	"sales_crm/config"
	"sales_crm/internal/database"
	"sales_crm/internal/global"
	"sales_crm/internal/store"
)

// Hàm khởi tạo các biến toàn cục
func InitGlobal() {
	initColPaths()  // Khởi tạo đường dẫn các collection trong remote store
	initValidator() // Khởi tạo validator
	initConfig()    // Khởi tạo cấu hình server
	initStore()     // Khởi tạo store backend
}

// Hàm khởi tạo đường dẫn các collection trong remote store.
// Nhóm CRM nằm dưới grouping document cố định "crm/data" — subscription path
// của mirrors phụ thuộc vào các đường dẫn này, không đổi lúc runtime.
func initColPaths() {
	global.ColPaths.Leads = "crm/data/leads"
	global.ColPaths.Customers = "crm/data/customers"
	global.ColPaths.Projects = "crm/data/projects"
	global.ColPaths.Tasks = "crm/data/tasks"
	global.ColPaths.CalendarEvents = "crm/data/calendar_events"
	global.ColPaths.Quotations = "crm/data/quotations"
	global.ColPaths.Invoices = "crm/data/invoices"
	global.ColPaths.QuotationRequests = "crm/data/quotation_requests"

	// Nhóm top-level
	global.ColPaths.Calendars = "calendars"
	global.ColPaths.CalendarShares = "calendar_shares"
	global.ColPaths.BookingPages = "booking_pages"
	global.ColPaths.Bookings = "bookings"
	global.ColPaths.UserSchedules = "user_schedules"
	global.ColPaths.Notifications = "notifications"
	global.ColPaths.Users = "users"

	logrus.Info("Initialized collection paths") // Ghi log thông báo đã khởi tạo đường dẫn các collection
}

// Hàm khởi tạo validator (dùng global.InitValidator để đăng ký custom validators: no_xss, iso_date, ...)
func initValidator() {
	global.InitValidator()
	logrus.Info("Initialized validator") // Ghi log thông báo đã khởi tạo validator
}

// Hàm khởi tạo cấu hình server
func initConfig() {
	global.ServerConfig = config.NewConfig()
	if global.ServerConfig == nil {
		logrus.Fatalf("Failed to initialize config: config is nil") // Ghi log lỗi nếu khởi tạo cấu hình thất bại
	}
	logrus.Info("Initialized server config") // Ghi log thông báo đã khởi tạo cấu hình server
}

// Hàm khởi tạo store backend theo cấu hình và đăng ký vào RegistryStores.
// Backend hỗ trợ: memory (dev/test), mongodb, firestore.
func initStore() {
	cfg := global.ServerConfig

	var st store.Store
	switch cfg.StoreBackend {
	case "memory":
		st = store.NewMemoryStore()

	case "mongodb":
		client, err := database.GetInstance(cfg)
		if err != nil {
			logrus.Fatalf("Failed to connect MongoDB: %v", err) // Ghi log lỗi nếu kết nối database thất bại
		}
		st = store.NewMongoStore(client.Database(cfg.MongoDB_DBName))

	case "firestore":
		var opts []option.ClientOption
		if cfg.FirestoreCredentialsPath != "" {
			opts = append(opts, option.WithCredentialsFile(cfg.FirestoreCredentialsPath))
		}
		client, err := firestore.NewClient(context.Background(), cfg.FirestoreProjectID, opts...)
		if err != nil {
			logrus.Fatalf("Failed to connect Firestore: %v", err)
		}
		st = store.NewFirestoreStore(client)

	default:
		logrus.Fatalf("Unknown store backend: %s", cfg.StoreBackend)
	}

	if _, err := global.RegistryStores.Register(cfg.StoreBackend, st); err != nil {
		logrus.Fatalf("Failed to register store backend: %v", err)
	}
	logrus.Infof("Initialized store backend: %s", cfg.StoreBackend) // Ghi log thông báo đã khởi tạo store backend
}
