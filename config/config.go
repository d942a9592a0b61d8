package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env"
	"github.com/joho/godotenv"
)

// Configuration chứa thông tin tĩnh cần thiết để chạy ứng dụng
type Configuration struct {
	InitMode  bool   `env:"INITMODE" envDefault:"false"` // Chế độ dev: dùng memory store, không cần backend thật
	Address   string `env:"ADDRESS" envDefault:":8080"`  // Địa chỉ server
	JwtSecret string `env:"JWT_SECRET,required"`         // Bí mật ký JWT phiên đăng nhập

	// Remote store backend: memory | mongodb | firestore
	StoreBackend string `env:"STORE_BACKEND" envDefault:"memory"`

	// MongoDB (khi STORE_BACKEND=mongodb)
	MongoDB_ConnectionURI string `env:"MONGODB_CONNECTION_URI"` // URL kết nối MongoDB
	MongoDB_DBName        string `env:"MONGODB_DBNAME" envDefault:"sales_crm"`

	// Firestore (khi STORE_BACKEND=firestore)
	FirestoreProjectID       string `env:"FIRESTORE_PROJECT_ID"`       // GCP project id
	FirestoreCredentialsPath string `env:"FIRESTORE_CREDENTIALS_PATH"` // Đường dẫn service account JSON

	// CORS
	CORS_Origins string `env:"CORS_ORIGINS" envDefault:"*"` // Các origins được phép (phân cách bởi dấu phẩy)

	// Rate limiting
	RateLimit_Enabled bool `env:"RATE_LIMIT_ENABLED" envDefault:"false"` // Bật/tắt rate limit
	RateLimit_Max     int  `env:"RATE_LIMIT_MAX" envDefault:"100"`       // Số request tối đa trong một window
	RateLimit_Window  int  `env:"RATE_LIMIT_WINDOW" envDefault:"60"`     // Độ dài window (giây)

	// Worker
	InvoiceOverdueInterval int `env:"INVOICE_OVERDUE_INTERVAL" envDefault:"300"` // Chu kỳ quét hóa đơn quá hạn (giây)

	// Websocket stream (listener riêng vì fiber chạy trên fasthttp)
	StreamAddress string `env:"STREAM_ADDRESS" envDefault:":8081"` // Địa chỉ websocket stream server
}

// getEnvPath trả về đường dẫn đến file env dựa trên môi trường
func getEnvPath() string {
	// Mặc định sử dụng môi trường development
	environment := os.Getenv("GO_ENV")
	if environment == "" {
		environment = "development"
	}

	currentDir, err := os.Getwd()
	if err != nil {
		// Sử dụng fmt.Printf vì logger có thể chưa được init ở đây
		fmt.Printf("Không thể lấy được thư mục hiện tại: %v\n", err)
		return ""
	}

	// Tìm thư mục config/env bằng cách đi lên từ working directory
	for {
		envDir := filepath.Join(currentDir, "config", "env")
		if _, err := os.Stat(envDir); err == nil {
			return filepath.Join(envDir, fmt.Sprintf("%s.env", environment))
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			return ""
		}
		currentDir = parentDir
	}
}

// NewConfig sẽ đọc dữ liệu cấu hình từ file env và environment variables
func NewConfig() *Configuration {
	envPath := getEnvPath()
	if envPath != "" {
		if err := godotenv.Load(envPath); err != nil {
			// Sử dụng fmt.Printf vì logger có thể chưa được init ở đây
			fmt.Printf("Không thể load file env tại %s: %v\n", envPath, err)
		}
	}

	cfg := Configuration{}
	if err := env.Parse(&cfg); err != nil {
		fmt.Printf("Lỗi khi parse config: %+v\n", err)
		return nil
	}

	return &cfg
}
