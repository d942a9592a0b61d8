package crmvc

import (
	"testing"

	crmmodels "sales_crm/internal/api/crm/models"
	"sales_crm/internal/store"
)

func leadDoc(id string, rev int64, title string) store.Doc {
	return store.Doc{"id": id, "rev": rev, "title": title}
}

func TestMirrorApplyRemoteReplacesContents(t *testing.T) {
	m := newMirror[crmmodels.Lead]()

	m.applyRemote([]store.Doc{leadDoc("a", 1, "A"), leadDoc("b", 1, "B")}, nil)
	if m.size() != 2 {
		t.Fatalf("muốn 2 records sau snapshot đầu, có %d", m.size())
	}

	// Snapshot mới không còn "b" — record bị xóa phía remote phải biến mất
	m.applyRemote([]store.Doc{leadDoc("a", 2, "A2")}, nil)
	if m.size() != 1 {
		t.Fatalf("muốn 1 record sau khi remote xóa, có %d", m.size())
	}
	got, ok := m.get("a")
	if !ok || got.Title != "A2" {
		t.Fatalf("record a không được cập nhật: %+v", got)
	}
}

func TestMirrorStalenessGuardKeepsNewerLocal(t *testing.T) {
	m := newMirror[crmmodels.Lead]()
	m.applyRemote([]store.Doc{leadDoc("a", 1, "A")}, nil)

	// Optimistic write local lên rev 2
	local, _ := m.get("a")
	local.Title = "A-local"
	local.Rev = 2
	m.upsert("a", local, 2)

	// Stream giao lại snapshot cũ (rev 1) — bản local phải được giữ
	m.applyRemote([]store.Doc{leadDoc("a", 1, "A")}, nil)
	got, _ := m.get("a")
	if got.Title != "A-local" {
		t.Fatalf("bản local rev 2 bị snapshot cũ ghi đè: %+v", got)
	}
	if m.rev("a") != 2 {
		t.Fatalf("rev local phải giữ 2, có %d", m.rev("a"))
	}

	// Stream bắt kịp (rev 2) — từ đây remote được nhận lại bình thường
	m.applyRemote([]store.Doc{leadDoc("a", 2, "A-remote")}, nil)
	got, _ = m.get("a")
	if got.Title != "A-remote" {
		t.Fatalf("snapshot rev bằng rev local phải được nhận: %+v", got)
	}
}

func TestMirrorApplyRemoteFilter(t *testing.T) {
	m := newMirror[crmmodels.Lead]()
	m.applyRemote([]store.Doc{
		{"id": "a", "rev": int64(1), "title": "A", "createdById": "u1"},
		{"id": "b", "rev": int64(1), "title": "B", "createdById": "u2"},
	}, func(d store.Doc) bool {
		return docString(d, "createdById") == "u1"
	})

	if m.size() != 1 {
		t.Fatalf("filter phải loại record không match, size = %d", m.size())
	}
	if _, ok := m.get("b"); ok {
		t.Fatal("record b không qua filter nhưng vẫn vào mirror")
	}
}

func TestMirrorApplyRemoteSkipsDocsWithoutId(t *testing.T) {
	m := newMirror[crmmodels.Lead]()
	m.applyRemote([]store.Doc{{"rev": int64(1), "title": "no id"}, leadDoc("a", 1, "A")}, nil)
	if m.size() != 1 {
		t.Fatalf("doc thiếu id phải bị bỏ qua, size = %d", m.size())
	}
}

func TestMirrorRestore(t *testing.T) {
	m := newMirror[crmmodels.Lead]()

	// Rollback một add: record chưa từng tồn tại phải biến mất
	m.upsert("a", crmmodels.Lead{Id: "a", Rev: 1}, 1)
	m.restore("a", crmmodels.Lead{}, 0, false)
	if _, ok := m.get("a"); ok {
		t.Fatal("rollback add phải xóa record khỏi mirror")
	}

	// Rollback một patch: trả về đúng bản và rev trước đó
	prev := crmmodels.Lead{Id: "a", Title: "trước", Rev: 3}
	m.upsert("a", prev, 3)
	m.upsert("a", crmmodels.Lead{Id: "a", Title: "sau", Rev: 4}, 4)
	m.restore("a", prev, 3, true)
	got, _ := m.get("a")
	if got.Title != "trước" || m.rev("a") != 3 {
		t.Fatalf("rollback patch sai: %+v rev=%d", got, m.rev("a"))
	}
}
