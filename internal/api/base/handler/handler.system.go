package basehdl

import (
	"time"

	"github.com/gofiber/fiber/v3"

	"sales_crm/internal/common"
	"sales_crm/internal/global"
)

// SystemHandler xử lý các route liên quan đến system operations
type SystemHandler struct{}

// NewSystemHandler tạo một instance mới của SystemHandler
func NewSystemHandler() *SystemHandler {
	return &SystemHandler{}
}

// HandleHealth kiểm tra tình trạng hệ thống
// @Summary Kiểm tra tình trạng hệ thống
// @Description Kiểm tra trạng thái của API và store backend đang đăng ký
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{} "Hệ thống hoạt động bình thường"
// @Failure 503 {object} map[string]interface{} "Hệ thống đang gặp sự cố"
// @Router /system/health [get]
func (h *SystemHandler) HandleHealth(c fiber.Ctx) error {
	healthData := fiber.Map{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"services": fiber.Map{
			"api": "ok",
		},
	}

	// Store backend phải được đăng ký lúc khởi động
	backend := ""
	if global.ServerConfig != nil {
		backend = global.ServerConfig.StoreBackend
	}
	if _, ok := global.RegistryStores.Get(backend); ok {
		healthData["services"].(fiber.Map)["store"] = "ok"
		healthData["store_backend"] = backend
	} else {
		healthData["status"] = "degraded"
		healthData["services"].(fiber.Map)["store"] = "not_initialized"
		return c.Status(common.StatusServiceUnavailable).JSON(fiber.Map{
			"code":    common.StatusServiceUnavailable,
			"message": "Hệ thống đang gặp sự cố",
			"data":    healthData,
			"status":  "error",
		})
	}

	// Trả về format chuẩn
	return c.Status(common.StatusOK).JSON(fiber.Map{
		"code":    common.StatusOK,
		"message": MsgSuccess,
		"data":    healthData,
		"status":  "success",
	})
}
