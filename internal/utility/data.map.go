package utility

import (
	"encoding/json"
	"fmt"
)

// ToMap chuyển đổi struct thành map[string]interface{} qua JSON round-trip.
// Dùng json tag của struct làm key — đồng nhất với dữ liệu lưu trong remote store.
func ToMap(s interface{}) (map[string]interface{}, error) {
	if m, ok := s.(map[string]interface{}); ok {
		return m, nil
	}
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("lỗi khi chuyển đổi struct thành map: %w", err)
	}
	var result map[string]interface{}
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("lỗi khi chuyển đổi struct thành map: %w", err)
	}
	return result, nil
}

// MapToStruct chuyển đổi map thành struct qua JSON round-trip.
// out phải là pointer tới struct đích.
func MapToStruct(m map[string]interface{}, out interface{}) error {
	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("lỗi khi chuyển đổi map thành struct: %w", err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("lỗi khi chuyển đổi map thành struct: %w", err)
	}
	return nil
}

// CloneMap tạo bản sao nông của map (dùng khi cần giữ patch gốc không bị sửa)
func CloneMap(m map[string]interface{}) map[string]interface{} {
	if m == nil {
		return nil
	}
	clone := make(map[string]interface{}, len(m))
	for k, v := range m {
		clone[k] = v
	}
	return clone
}

// MergeMap merge các key của patch vào base (ghi đè key trùng), trả về base.
// Chỉ merge mức top-level — đồng nhất với semantics partial update của remote store.
func MergeMap(base, patch map[string]interface{}) map[string]interface{} {
	if base == nil {
		base = make(map[string]interface{}, len(patch))
	}
	for k, v := range patch {
		base[k] = v
	}
	return base
}
