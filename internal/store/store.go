// Package store định nghĩa Remote Store Adapter — document store bên ngoài với
// live subscription theo collection, point write, partial update và point delete.
// Core đồng bộ (crm service) chỉ làm việc qua interface này, không phụ thuộc backend cụ thể.
package store

import (
	"context"
)

// Doc là một document thô trong remote store, key theo json tag của model.
type Doc = map[string]interface{}

// ChangeHandler nhận toàn bộ tập records hiện tại của collection mỗi khi có thay đổi.
type ChangeHandler func(docs []Doc)

// Unsubscribe dừng việc nhận thêm thay đổi từ một subscription.
// Gọi nhiều lần là an toàn.
type Unsubscribe func()

// Store là capability interface của remote document store.
//
// Đường dẫn collection (path) có thể nested dưới grouping document
// (ví dụ "crm/data/leads") hoặc top-level (ví dụ "notifications") —
// backend chịu trách nhiệm map path sang layout vật lý của nó.
type Store interface {
	// Subscribe thiết lập live subscription trên một collection.
	// Handler được gọi với toàn bộ tập records ngay khi subscribe và sau mỗi thay đổi.
	Subscribe(ctx context.Context, path string, onChange ChangeHandler) (Unsubscribe, error)

	// GetAll đọc một lần toàn bộ records của collection (dùng cho seed check).
	GetAll(ctx context.Context, path string) ([]Doc, error)

	// Put ghi đè toàn bộ một record theo id (tạo mới nếu chưa có).
	Put(ctx context.Context, path string, id string, doc Doc) error

	// Patch merge partial update vào record theo id; field vắng mặt giữ nguyên.
	Patch(ctx context.Context, path string, id string, patch Doc) error

	// Remove xóa record theo id.
	Remove(ctx context.Context, path string, id string) error
}
