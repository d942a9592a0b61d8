// Package crmvc - mirror là cache in-memory của một remote collection,
// giữ current qua live subscription. Chỉ core được ghi mirror; consumer
// luôn nhận bản copy qua snapshot.
package crmvc

import (
	"sync"

	"sales_crm/internal/store"
	"sales_crm/internal/utility"
)

// mirror giữ records theo id kèm revision đơn điệu tăng cho từng record.
// Revision dùng làm staleness guard: record do subscription giao chỉ được
// ghi đè mirror nếu revision không cũ hơn revision hiện tại của id đó.
type mirror[T any] struct {
	mu    sync.RWMutex
	items map[string]T
	revs  map[string]int64
}

func newMirror[T any]() *mirror[T] {
	return &mirror[T]{
		items: make(map[string]T),
		revs:  make(map[string]int64),
	}
}

// get trả về record theo id.
func (m *mirror[T]) get(id string) (T, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.items[id]
	return v, ok
}

// rev trả về revision hiện tại của id (0 nếu chưa có).
func (m *mirror[T]) rev(id string) int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.revs[id]
}

// upsert ghi record với revision mới (optimistic local update).
func (m *mirror[T]) upsert(id string, v T, rev int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[id] = v
	m.revs[id] = rev
}

// remove xóa record theo id.
func (m *mirror[T]) remove(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, id)
	delete(m.revs, id)
}

// restore đưa record về trạng thái trước mutation (rollback khi remote write thất bại).
func (m *mirror[T]) restore(id string, prev T, prevRev int64, existed bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if existed {
		m.items[id] = prev
		m.revs[id] = prevRev
	} else {
		delete(m.items, id)
		delete(m.revs, id)
	}
}

// reset xóa toàn bộ mirror (teardown phiên).
func (m *mirror[T]) reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = make(map[string]T)
	m.revs = make(map[string]int64)
}

// snapshot trả về copy toàn bộ records hiện tại.
func (m *mirror[T]) snapshot() []T {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]T, 0, len(m.items))
	for _, v := range m.items {
		out = append(out, v)
	}
	return out
}

// size trả về số records hiện tại.
func (m *mirror[T]) size() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}

// applyRemote thay thế nội dung mirror bằng tập records do subscription giao.
// Record có revision cũ hơn bản local (optimistic write chưa được stream phản ánh)
// bị bỏ qua và bản local được giữ lại. Record decode lỗi bị bỏ qua.
// filter: nil = nhận tất cả; khác nil = chỉ giữ docs filter trả về true
// (dùng cho notifications scope theo recipient).
func (m *mirror[T]) applyRemote(docs []store.Doc, filter func(store.Doc) bool) {
	nextItems := make(map[string]T, len(docs))
	nextRevs := make(map[string]int64, len(docs))

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, doc := range docs {
		if filter != nil && !filter(doc) {
			continue
		}
		id := docString(doc, "id")
		if id == "" {
			continue
		}
		incomingRev := docInt64(doc, "rev")
		if localRev, ok := m.revs[id]; ok && localRev > incomingRev {
			// Bản local mới hơn snapshot — giữ local cho tới khi stream bắt kịp
			nextItems[id] = m.items[id]
			nextRevs[id] = localRev
			continue
		}
		var v T
		if err := utility.MapToStruct(doc, &v); err != nil {
			continue
		}
		nextItems[id] = v
		nextRevs[id] = incomingRev
	}

	m.items = nextItems
	m.revs = nextRevs
}

// docString đọc một field string từ doc thô.
func docString(doc store.Doc, key string) string {
	if v, ok := doc[key].(string); ok {
		return v
	}
	return ""
}

// docInt64 đọc một field số từ doc thô (JSON decode cho float64, BSON cho int32/int64).
func docInt64(doc store.Doc, key string) int64 {
	switch v := doc[key].(type) {
	case int64:
		return v
	case int32:
		return int64(v)
	case int:
		return int64(v)
	case float64:
		return int64(v)
	}
	return 0
}
