package utility

import "testing"

func TestToMapPassesThroughExistingMap(t *testing.T) {
	src := map[string]interface{}{"id": "a", "rev": float64(3)}
	got, err := ToMap(src)
	if err != nil {
		t.Fatalf("ToMap trả về lỗi: %v", err)
	}
	if len(got) != 2 || got["id"] != "a" {
		t.Fatalf("ToMap làm thay đổi dữ liệu map: %v", got)
	}
}

func TestToMapUsesJsonTags(t *testing.T) {
	type sample struct {
		Title string `json:"title"`
		Done  bool   `json:"done,omitempty"`
	}
	got, err := ToMap(sample{Title: "Gọi khách hàng"})
	if err != nil {
		t.Fatalf("ToMap trả về lỗi: %v", err)
	}
	if got["title"] != "Gọi khách hàng" {
		t.Fatalf("ToMap không dùng json tag: %v", got)
	}
	if _, ok := got["done"]; ok {
		t.Fatalf("ToMap phải bỏ qua field omitempty rỗng: %v", got)
	}
}

func TestMapToStruct(t *testing.T) {
	type sample struct {
		Title string `json:"title"`
		Rev   int64  `json:"rev"`
	}
	var out sample
	err := MapToStruct(map[string]interface{}{"title": "Báo giá", "rev": float64(2)}, &out)
	if err != nil {
		t.Fatalf("MapToStruct trả về lỗi: %v", err)
	}
	if out.Title != "Báo giá" || out.Rev != 2 {
		t.Fatalf("MapToStruct sai kết quả: %+v", out)
	}
}

func TestCloneMapIndependence(t *testing.T) {
	src := map[string]interface{}{"status": "New"}
	dst := CloneMap(src)
	dst["status"] = "Contacted"
	if src["status"] != "New" {
		t.Fatalf("CloneMap không tách khỏi map gốc: %v", src)
	}
	if CloneMap(nil) != nil {
		t.Fatalf("CloneMap(nil) phải trả về nil")
	}
}

func TestMergeMapOverridesAndKeeps(t *testing.T) {
	base := map[string]interface{}{"status": "New", "name": "Lead A"}
	got := MergeMap(base, map[string]interface{}{"status": "Contacted", "rev": float64(2)})
	if got["status"] != "Contacted" || got["name"] != "Lead A" || got["rev"] != float64(2) {
		t.Fatalf("MergeMap sai kết quả: %v", got)
	}
	if MergeMap(nil, map[string]interface{}{"a": 1}) == nil {
		t.Fatalf("MergeMap với base nil phải tạo map mới")
	}
}
