package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"sales_crm/internal/common"
)

// MemoryStore là implementation in-memory của Store.
// Dùng cho INITMODE (dev không cần backend thật) và cho test.
// Thay đổi được fan-out đồng bộ tới các subscribers của cùng path.
type MemoryStore struct {
	mu      sync.RWMutex
	data    map[string]map[string]Doc // path -> id -> doc
	subs    map[string]map[int64]ChangeHandler
	nextSub int64
	closed  bool
}

// NewMemoryStore tạo MemoryStore rỗng.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: make(map[string]map[string]Doc),
		subs: make(map[string]map[int64]ChangeHandler),
	}
}

// Subscribe đăng ký handler cho path. Handler được gọi ngay với snapshot hiện tại.
func (s *MemoryStore) Subscribe(ctx context.Context, path string, onChange ChangeHandler) (Unsubscribe, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, common.ErrStoreClosed
	}
	if s.subs[path] == nil {
		s.subs[path] = make(map[int64]ChangeHandler)
	}
	id := s.nextSub
	s.nextSub++
	s.subs[path][id] = onChange
	snapshot := s.snapshotLocked(path)
	s.mu.Unlock()

	// Giao snapshot ban đầu ngoài lock để handler có thể gọi lại store
	onChange(snapshot)

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if handlers, ok := s.subs[path]; ok {
				delete(handlers, id)
			}
		})
	}, nil
}

// GetAll trả về toàn bộ records của collection.
func (s *MemoryStore) GetAll(ctx context.Context, path string) ([]Doc, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked(path), nil
}

// Put ghi đè record theo id rồi fan-out thay đổi.
func (s *MemoryStore) Put(ctx context.Context, path string, id string, doc Doc) error {
	if id == "" {
		return fmt.Errorf("put %s: %w", path, common.ErrRequiredField)
	}
	s.mu.Lock()
	if s.data[path] == nil {
		s.data[path] = make(map[string]Doc)
	}
	s.data[path][id] = cloneDoc(doc)
	s.mu.Unlock()

	s.notify(path)
	return nil
}

// Patch merge partial update vào record theo id; tạo mới nếu chưa có.
func (s *MemoryStore) Patch(ctx context.Context, path string, id string, patch Doc) error {
	if id == "" {
		return fmt.Errorf("patch %s: %w", path, common.ErrRequiredField)
	}
	s.mu.Lock()
	if s.data[path] == nil {
		s.data[path] = make(map[string]Doc)
	}
	existing, ok := s.data[path][id]
	if !ok {
		existing = make(Doc)
	}
	for k, v := range patch {
		existing[k] = v
	}
	s.data[path][id] = existing
	s.mu.Unlock()

	s.notify(path)
	return nil
}

// Remove xóa record theo id. Không lỗi nếu record không tồn tại.
func (s *MemoryStore) Remove(ctx context.Context, path string, id string) error {
	s.mu.Lock()
	if docs, ok := s.data[path]; ok {
		delete(docs, id)
	}
	s.mu.Unlock()

	s.notify(path)
	return nil
}

// Close chặn mọi subscribe mới. Subscription hiện tại ngừng nhận thay đổi.
func (s *MemoryStore) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.subs = make(map[string]map[int64]ChangeHandler)
}

// notify gọi tất cả handlers của path với snapshot mới.
func (s *MemoryStore) notify(path string) {
	s.mu.RLock()
	snapshot := s.snapshotLocked(path)
	handlers := make([]ChangeHandler, 0, len(s.subs[path]))
	for _, h := range s.subs[path] {
		handlers = append(handlers, h)
	}
	s.mu.RUnlock()

	for _, h := range handlers {
		h(snapshot)
	}
}

// snapshotLocked copy toàn bộ docs của path. Caller phải giữ lock.
// Sắp theo id để kết quả ổn định giữa các lần gọi.
func (s *MemoryStore) snapshotLocked(path string) []Doc {
	docs := s.data[path]
	ids := make([]string, 0, len(docs))
	for id := range docs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]Doc, 0, len(docs))
	for _, id := range ids {
		out = append(out, cloneDoc(docs[id]))
	}
	return out
}

// cloneDoc copy nông một document để tránh aliasing giữa store và mirror.
func cloneDoc(d Doc) Doc {
	if d == nil {
		return nil
	}
	out := make(Doc, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}
