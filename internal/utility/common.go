package utility

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// GoProtect chạy một function trong goroutine với recover để tránh panic làm sập app
func GoProtect(f func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				fmt.Printf("Recovered from panic: %v\n", r)
			}
		}()
		f()
	}()
}

// PrettyPrint trả về chuỗi JSON đã format của một object (dùng cho debug log)
func PrettyPrint(i interface{}) string {
	s, _ := json.MarshalIndent(i, "", "\t")
	return string(s)
}

// UnixMilli chuyển time.Time thành unix milliseconds
func UnixMilli(t time.Time) int64 {
	return t.UnixNano() / int64(time.Millisecond)
}

// CurrentTimeInMilli trả về thời gian hiện tại theo unix milliseconds
func CurrentTimeInMilli() int64 {
	return UnixMilli(time.Now())
}

// NewID sinh identifier mới cho entity/timeline event.
// Dùng UUID v4 (random 128-bit) để tránh rủi ro trùng khi sinh liên tiếp trong cùng millisecond.
func NewID() string {
	return uuid.NewString()
}
