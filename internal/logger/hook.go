package logger

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

// AsyncHook là một hook để ghi log bất đồng bộ, tránh blocking request handling.
// Hook buffer log entries và ghi chúng vào các writers trong một goroutine riêng.
type AsyncHook struct {
	writers    []io.Writer // Danh sách các writers (file, stdout, ...)
	entries    chan *logrus.Entry
	wg         sync.WaitGroup
	mu         sync.Mutex
	closed     bool
	bufferSize int
}

// NewAsyncHookWithWriters tạo một async hook mới với nhiều writers.
// bufferSize: kích thước buffer cho log entries (mặc định 1000)
func NewAsyncHookWithWriters(writers []io.Writer, bufferSize int) *AsyncHook {
	if bufferSize <= 0 {
		bufferSize = 1000
	}

	hook := &AsyncHook{
		writers:    writers,
		entries:    make(chan *logrus.Entry, bufferSize),
		bufferSize: bufferSize,
	}

	hook.wg.Add(1)
	go hook.processEntries()

	return hook
}

// Levels trả về tất cả levels mà hook xử lý
func (h *AsyncHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

// Fire đưa entry vào buffer. Nếu buffer đầy, entry bị drop để không block caller.
func (h *AsyncHook) Fire(entry *logrus.Entry) error {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return nil
	}
	h.mu.Unlock()

	// Copy entry vì logrus tái sử dụng entry sau khi Fire trả về
	clone := entry.Dup()
	clone.Level = entry.Level
	clone.Message = entry.Message

	select {
	case h.entries <- clone:
	default:
		// Buffer đầy — drop entry thay vì block
		fmt.Fprintf(os.Stderr, "logger: async buffer full, dropping entry\n")
	}
	return nil
}

// processEntries ghi các entries từ buffer vào writers
func (h *AsyncHook) processEntries() {
	defer h.wg.Done()
	for entry := range h.entries {
		line, err := entry.Logger.Formatter.Format(entry)
		if err != nil {
			continue
		}
		for _, w := range h.writers {
			_, _ = w.Write(line)
		}
	}
}

// Close đóng hook và chờ các entries còn lại được ghi hết
func (h *AsyncHook) Close() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true
	h.mu.Unlock()

	close(h.entries)
	h.wg.Wait()
}
