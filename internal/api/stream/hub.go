// Package stream phát collection-changed event tới client qua websocket, để
// frontend biết mirror nào vừa thay đổi mà refetch. Fiber chạy trên fasthttp
// nên hub websocket chạy trên một net/http listener riêng.
package stream

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"sales_crm/internal/api/events"
	"sales_crm/internal/logger"
)

// ChangeMessage là payload gửi xuống client mỗi lần một collection thay đổi.
type ChangeMessage struct {
	Action string `json:"action"` // Luôn "collection_changed"
	Path   string `json:"path"`   // Đường dẫn collection
	Count  int    `json:"count"`  // Số record sau thay đổi
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Hub giữ danh sách websocket client và broadcast ChangeMessage cho tất cả.
type Hub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]bool
}

// NewHub tạo hub mới và đăng ký listener trên events bus.
func NewHub() *Hub {
	h := &Hub{clients: make(map[*websocket.Conn]bool)}
	events.OnCollectionChanged(func(e events.CollectionChangedEvent) {
		h.broadcast(ChangeMessage{
			Action: "collection_changed",
			Path:   e.Path,
			Count:  e.Count,
		})
	})
	return h
}

func (h *Hub) broadcast(msg ChangeMessage) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients {
		if err := client.WriteJSON(msg); err != nil {
			client.Close()
			delete(h.clients, client)
		}
	}
}

// ClientCount trả về số client đang kết nối.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Handler upgrade HTTP request lên websocket và giữ kết nối tới khi client đóng.
// Client chỉ nhận — mọi frame gửi lên bị bỏ qua.
func (h *Hub) Handler(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		http.Error(w, "Không thể upgrade lên websocket", http.StatusInternalServerError)
		return
	}
	defer conn.Close()

	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	h.mu.Lock()
	delete(h.clients, conn)
	h.mu.Unlock()
}

// Listen mở listener riêng cho websocket endpoint /ws/changes.
// Blocking — gọi trong goroutine.
func (h *Hub) Listen(addr string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws/changes", h.Handler)
	logger.GetAppLogger().WithField("addr", addr).Info("📡 [STREAM] Websocket hub đang lắng nghe")
	return http.ListenAndServe(addr, mux)
}
