package main

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v3"

	authsvc "sales_crm/internal/api/auth/service"
	"sales_crm/internal/api/stream"
	"sales_crm/internal/global"
	"sales_crm/internal/logger"
	"sales_crm/internal/worker"
)

// initLogger khởi tạo và cấu hình logger cho toàn bộ ứng dụng
func initLogger() {
	// Khởi tạo logger với cấu hình mặc định
	// Logger sẽ tự động đọc environment variables để cấu hình
	if err := logger.Init(nil); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}

	// Log thông tin khởi tạo bằng logger mới
	log := logger.GetAppLogger()
	log.Info("Logger system initialized successfully")
}

// main_thread khởi tạo và chạy Fiber server
func main_thread(sessions *authsvc.SessionManager, directory *authsvc.UserDirectory) {
	// Khởi tạo app với cấu hình
	app := InitFiberApp(sessions, directory)

	cfg := global.ServerConfig
	log := logger.GetAppLogger()

	log.WithFields(map[string]interface{}{
		"address":  cfg.Address,
		"protocol": "HTTP",
	}).Info("Starting Fiber server...")

	listenConfig := fiber.ListenConfig{}
	if err := app.Listen(cfg.Address, listenConfig); err != nil {
		log.Fatalf("Error in Fiber Listen: %v", err)
	}
}

// Hàm main
func main() {
	// Khởi tạo logger
	initLogger()

	// Khởi tạo các biến toàn cục (config, validator, collection paths, store backend)
	InitGlobal()

	log := logger.GetAppLogger()
	cfg := global.ServerConfig

	// Lấy store backend đã đăng ký lúc khởi động
	st, ok := global.RegistryStores.Get(cfg.StoreBackend)
	if !ok {
		log.Fatalf("Store backend chưa được đăng ký: %s", cfg.StoreBackend)
	}

	// Khởi tạo user directory — roster người dùng dùng chung cho mọi phiên
	directory := authsvc.NewUserDirectory(st)

	// Seed người dùng mặc định khi chạy init mode (mỗi role chính một user)
	if cfg.InitMode {
		if err := directory.SeedUsers(context.Background()); err != nil {
			log.WithError(err).Error("Failed to seed default users")
		}
	}

	if err := directory.Start(context.Background()); err != nil {
		log.Fatalf("Failed to start user directory: %v", err)
	}

	// Khởi tạo session manager — mỗi user đăng nhập giữ một sync core riêng
	sessions := authsvc.NewSessionManager(st, directory, cfg.JwtSecret)

	// Khởi tạo và chạy worker quét hóa đơn quá hạn (background worker)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	overdueWorker := worker.NewInvoiceOverdueWorker(st, time.Duration(cfg.InvoiceOverdueInterval)*time.Second)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.WithFields(map[string]interface{}{
					"panic": r,
				}).Error("🧾 [INVOICE_OVERDUE] Worker goroutine panic")
			}
		}()
		overdueWorker.Start(ctx)
	}()

	// Khởi tạo websocket stream hub trên listener riêng
	// (fiber chạy trên fasthttp nên websocket dùng net/http listener riêng)
	hub := stream.NewHub()
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.WithFields(map[string]interface{}{
					"panic": r,
				}).Error("📡 [STREAM] Hub goroutine panic")
			}
		}()
		if err := hub.Listen(cfg.StreamAddress); err != nil {
			log.WithError(err).Error("📡 [STREAM] Hub listener stopped")
		}
	}()

	// Chạy Fiber server trên main thread
	main_thread(sessions, directory)

	// Dọn các phiên đang mở khi server dừng
	sessions.Shutdown()
	directory.Stop()
}
