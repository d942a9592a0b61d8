// Package events cung cấp cơ chế event trung tâm khi mirror collection thay đổi.
// Core đồng bộ phát event sau mỗi lần apply thay đổi; logic phản ứng
// (websocket stream, cache invalidation, ...) đăng ký qua OnCollectionChanged.
package events

import (
	"sync"
)

// CollectionChangedEvent mô tả một collection mirror vừa thay đổi.
type CollectionChangedEvent struct {
	Path  string // Đường dẫn collection trong remote store
	Count int    // Số records hiện tại trong mirror
}

// CollectionChangedHandler xử lý sự kiện collection thay đổi.
type CollectionChangedHandler func(e CollectionChangedEvent)

var (
	handlers   []CollectionChangedHandler
	handlersMu sync.RWMutex
)

// OnCollectionChanged đăng ký handler. Gọi khi init (ví dụ từ stream hub).
func OnCollectionChanged(h CollectionChangedHandler) {
	handlersMu.Lock()
	defer handlersMu.Unlock()
	handlers = append(handlers, h)
}

// EmitCollectionChanged phát sự kiện. Gọi từ core sau mỗi lần mirror thay đổi.
// Mỗi handler chạy trong goroutine riêng, panic được recover để không ảnh hưởng handler khác.
func EmitCollectionChanged(e CollectionChangedEvent) {
	handlersMu.RLock()
	list := make([]CollectionChangedHandler, len(handlers))
	copy(list, handlers)
	handlersMu.RUnlock()

	for _, h := range list {
		go func(fn CollectionChangedHandler) {
			defer func() {
				if r := recover(); r != nil {
					// Handler panic không được làm sập app
					_ = r
				}
			}()
			fn(e)
		}(h)
	}
}
