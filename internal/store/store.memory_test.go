package store

import (
	"context"
	"errors"
	"testing"

	"sales_crm/internal/common"
)

func TestMemoryStorePutGetAll(t *testing.T) {
	st := NewMemoryStore()
	ctx := context.Background()

	if err := st.Put(ctx, "crm/data/leads", "a", Doc{"id": "a", "title": "A"}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := st.Put(ctx, "crm/data/leads", "b", Doc{"id": "b", "title": "B"}); err != nil {
		t.Fatalf("Put: %v", err)
	}

	docs, err := st.GetAll(ctx, "crm/data/leads")
	if err != nil {
		t.Fatalf("GetAll: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("muốn 2 docs, có %d", len(docs))
	}
	// Kết quả ổn định theo id
	if docs[0]["id"] != "a" || docs[1]["id"] != "b" {
		t.Fatalf("thứ tự docs không ổn định: %+v", docs)
	}

	// Collection khác không bị ảnh hưởng
	other, _ := st.GetAll(ctx, "notifications")
	if len(other) != 0 {
		t.Fatalf("collection khác phải rỗng, có %d", len(other))
	}
}

func TestMemoryStorePutRequiresId(t *testing.T) {
	st := NewMemoryStore()
	if err := st.Put(context.Background(), "p", "", Doc{}); !errors.Is(err, common.ErrRequiredField) {
		t.Fatalf("Put thiếu id phải trả ErrRequiredField, có %v", err)
	}
	if err := st.Patch(context.Background(), "p", "", Doc{}); !errors.Is(err, common.ErrRequiredField) {
		t.Fatalf("Patch thiếu id phải trả ErrRequiredField, có %v", err)
	}
}

func TestMemoryStoreSnapshotIsolation(t *testing.T) {
	st := NewMemoryStore()
	ctx := context.Background()

	if err := st.Put(ctx, "p", "a", Doc{"id": "a", "title": "gốc"}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	docs, _ := st.GetAll(ctx, "p")
	docs[0]["title"] = "đã sửa ngoài store"

	again, _ := st.GetAll(ctx, "p")
	if again[0]["title"] != "gốc" {
		t.Fatal("sửa snapshot không được lan vào store")
	}
}

func TestMemoryStorePatchMergesFields(t *testing.T) {
	st := NewMemoryStore()
	ctx := context.Background()

	st.Put(ctx, "p", "a", Doc{"id": "a", "title": "A", "status": "New"})
	if err := st.Patch(ctx, "p", "a", Doc{"status": "Contacted"}); err != nil {
		t.Fatalf("Patch: %v", err)
	}

	docs, _ := st.GetAll(ctx, "p")
	if docs[0]["status"] != "Contacted" {
		t.Fatalf("field trong patch phải đổi: %+v", docs[0])
	}
	if docs[0]["title"] != "A" {
		t.Fatalf("field vắng mặt trong patch phải giữ nguyên: %+v", docs[0])
	}
}

func TestMemoryStoreSubscribeDeliversSnapshotAndChanges(t *testing.T) {
	st := NewMemoryStore()
	ctx := context.Background()

	st.Put(ctx, "p", "a", Doc{"id": "a"})

	var delivered [][]Doc
	unsub, err := st.Subscribe(ctx, "p", func(docs []Doc) {
		delivered = append(delivered, docs)
	})
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}

	if len(delivered) != 1 || len(delivered[0]) != 1 {
		t.Fatalf("handler phải nhận snapshot ban đầu ngay: %+v", delivered)
	}

	st.Put(ctx, "p", "b", Doc{"id": "b"})
	if len(delivered) != 2 || len(delivered[1]) != 2 {
		t.Fatalf("handler phải nhận thay đổi sau Put: %+v", delivered)
	}

	st.Remove(ctx, "p", "a")
	if len(delivered) != 3 || len(delivered[2]) != 1 {
		t.Fatalf("handler phải nhận thay đổi sau Remove: %+v", delivered)
	}

	// Sau unsubscribe không nhận thêm gì, gọi lại lần nữa vẫn an toàn
	unsub()
	unsub()
	st.Put(ctx, "p", "c", Doc{"id": "c"})
	if len(delivered) != 3 {
		t.Fatalf("handler vẫn nhận thay đổi sau unsubscribe: %d lần", len(delivered))
	}
}

func TestMemoryStoreSubscribersScopedByPath(t *testing.T) {
	st := NewMemoryStore()
	ctx := context.Background()

	calls := 0
	if _, err := st.Subscribe(ctx, "p1", func(docs []Doc) { calls++ }); err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	st.Put(ctx, "p2", "a", Doc{"id": "a"})
	if calls != 1 { // chỉ snapshot ban đầu
		t.Fatalf("thay đổi path khác không được fan-out: %d lần gọi", calls)
	}
}

func TestMemoryStoreCloseBlocksNewSubscriptions(t *testing.T) {
	st := NewMemoryStore()
	st.Close()
	if _, err := st.Subscribe(context.Background(), "p", func([]Doc) {}); !errors.Is(err, common.ErrStoreClosed) {
		t.Fatalf("Subscribe sau Close phải trả ErrStoreClosed, có %v", err)
	}
}

func TestMemoryStoreRemoveMissingIsNoOp(t *testing.T) {
	st := NewMemoryStore()
	if err := st.Remove(context.Background(), "p", "không-có"); err != nil {
		t.Fatalf("Remove record vắng mặt phải là no-op: %v", err)
	}
}
