package crmvc

import (
	"context"
	"errors"
	"testing"

	crmmodels "sales_crm/internal/api/crm/models"
	"sales_crm/internal/common"
	"sales_crm/internal/global"
	"sales_crm/internal/store"
	"sales_crm/internal/utility"
)

func TestStartSeedsWhenAllCollectionsEmpty(t *testing.T) {
	initTestEnv()
	st := store.NewMemoryStore()
	core := newTestCore(t, st, testManager)

	if len(core.Leads()) == 0 {
		t.Fatal("store rỗng phải được seed bootstrap dataset, mirror leads vẫn rỗng")
	}
	if len(core.Customers()) == 0 {
		t.Fatal("mirror customers phải có dữ liệu seed")
	}

	// Seed phải idempotent: phiên thứ hai trên cùng store không ghi thêm
	leadsBefore := len(core.Leads())
	core2 := newTestCore(t, st, testExecutive)
	docs, err := st.GetAll(context.Background(), global.ColPaths.Leads)
	if err != nil {
		t.Fatalf("GetAll leads: %v", err)
	}
	if len(docs) != leadsBefore {
		t.Fatalf("seed chạy lại khi store đã có dữ liệu: %d -> %d leads", leadsBefore, len(docs))
	}
	_ = core2
}

func TestStartSkipsSeedWhenAnyCollectionHasData(t *testing.T) {
	initTestEnv()
	st := store.NewMemoryStore()
	suppressSeed(t, st)
	core := newTestCore(t, st, testManager)

	if len(core.Leads()) != 0 {
		t.Fatalf("chỉ projects có dữ liệu thì không được seed, leads = %d", len(core.Leads()))
	}
}

func TestStopResetsMirrorsAndDropsLaterChanges(t *testing.T) {
	core, flaky := newQuietCore(t, testManager)

	if _, err := core.AddLead(context.Background(), crmmodels.Lead{Title: "Lead A", CustomerName: "KH A"}); err != nil {
		t.Fatalf("AddLead: %v", err)
	}
	if len(core.Leads()) != 1 {
		t.Fatalf("mirror phải có 1 lead, có %d", len(core.Leads()))
	}

	core.Stop()

	if len(core.Leads()) != 0 {
		t.Fatal("Stop phải reset toàn bộ mirror")
	}
	if core.CurrentUser() != nil {
		t.Fatal("Stop phải xóa identity của phiên")
	}

	// Thay đổi trên store sau teardown không được repopulate mirror
	doc := store.Doc{"id": "late-lead", "title": "Muộn", "rev": int64(1)}
	if err := flaky.Put(context.Background(), global.ColPaths.Leads, "late-lead", doc); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if len(core.Leads()) != 0 {
		t.Fatal("mirror bị repopulate sau khi Stop")
	}
}

func TestRestartWithDifferentIdentity(t *testing.T) {
	initTestEnv()
	st := store.NewMemoryStore()
	suppressSeed(t, st)
	core := newTestCore(t, st, testManager)

	if _, err := core.AddLead(context.Background(), crmmodels.Lead{Title: "Của manager", CustomerName: "KH"}); err != nil {
		t.Fatalf("AddLead: %v", err)
	}

	// Start với identity khác phải teardown phiên cũ rồi resubscribe
	if err := core.Start(context.Background(), testExecutive); err != nil {
		t.Fatalf("restart core: %v", err)
	}
	u := core.CurrentUser()
	if u == nil || u.Id != testExecutive.Id {
		t.Fatalf("identity sau restart sai: %+v", u)
	}
	// Dữ liệu dùng chung vẫn hiện diện qua subscription mới
	if len(core.Leads()) != 1 {
		t.Fatalf("lead dùng chung phải xuất hiện lại sau restart, có %d", len(core.Leads()))
	}
}

func TestMutationsRequireSession(t *testing.T) {
	initTestEnv()
	core := NewCrmService(store.NewMemoryStore(), fakeRoster{})

	_, err := core.AddLead(context.Background(), crmmodels.Lead{Title: "X"})
	if !errors.Is(err, common.ErrNoSession) {
		t.Fatalf("mutation khi Unauthenticated phải trả ErrNoSession, có %v", err)
	}
}

func TestAddRollsBackMirrorWhenRemoteWriteFails(t *testing.T) {
	core, flaky := newQuietCore(t, testManager)
	flaky.setFailures(true, false, false)

	_, err := core.AddLead(context.Background(), crmmodels.Lead{Title: "Sẽ fail", CustomerName: "KH"})
	if !errors.Is(err, common.ErrStoreWrite) {
		t.Fatalf("muốn ErrStoreWrite, có %v", err)
	}
	if len(core.Leads()) != 0 {
		t.Fatal("optimistic add phải được rollback khi Put thất bại")
	}
}

func TestPatchRollsBackMirrorWhenRemoteWriteFails(t *testing.T) {
	core, flaky := newQuietCore(t, testManager)

	lead, err := core.AddLead(context.Background(), crmmodels.Lead{Title: "Gốc", CustomerName: "KH"})
	if err != nil {
		t.Fatalf("AddLead: %v", err)
	}

	flaky.setFailures(false, true, false)
	err = core.UpdateLead(context.Background(), lead.Id, store.Doc{"title": "Đã sửa"})
	if !errors.Is(err, common.ErrStoreWrite) {
		t.Fatalf("muốn ErrStoreWrite, có %v", err)
	}

	got, _ := core.LeadById(lead.Id)
	if got.Title != "Gốc" || got.Rev != lead.Rev {
		t.Fatalf("mirror phải về đúng bản trước patch: %+v", got)
	}
}

func TestDeleteRollsBackMirrorWhenRemoteWriteFails(t *testing.T) {
	core, flaky := newQuietCore(t, testManager)

	lead, err := core.AddLead(context.Background(), crmmodels.Lead{Title: "Giữ lại", CustomerName: "KH"})
	if err != nil {
		t.Fatalf("AddLead: %v", err)
	}

	flaky.setFailures(false, false, true)
	if err := core.DeleteLead(context.Background(), lead.Id); !errors.Is(err, common.ErrStoreWrite) {
		t.Fatalf("muốn ErrStoreWrite, có %v", err)
	}
	if _, ok := core.LeadById(lead.Id); !ok {
		t.Fatal("delete thất bại phải trả record về mirror")
	}
}

func TestPatchStampsRevAndUpdatedAt(t *testing.T) {
	core, _ := newQuietCore(t, testManager)

	lead, err := core.AddLead(context.Background(), crmmodels.Lead{Title: "Rev", CustomerName: "KH"})
	if err != nil {
		t.Fatalf("AddLead: %v", err)
	}
	before := utility.CurrentTimeInMilli()

	if err := core.UpdateLead(context.Background(), lead.Id, store.Doc{"title": "Rev 2"}); err != nil {
		t.Fatalf("UpdateLead: %v", err)
	}
	got, _ := core.LeadById(lead.Id)
	if got.Rev != lead.Rev+1 {
		t.Fatalf("rev phải tăng đơn điệu: %d -> %d", lead.Rev, got.Rev)
	}
	if got.UpdatedAt < before {
		t.Fatalf("updatedAt không được stamp: %d < %d", got.UpdatedAt, before)
	}
	if got.CreatedAt != lead.CreatedAt {
		t.Fatal("patch không chạm createdAt nhưng giá trị thay đổi")
	}
}

func TestPatchMissingRecordReturnsNotFound(t *testing.T) {
	core, _ := newQuietCore(t, testManager)

	err := core.UpdateLead(context.Background(), "không-tồn-tại", store.Doc{"title": "X"})
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("patch record vắng mặt phải trả ErrNotFound, có %v", err)
	}
}
