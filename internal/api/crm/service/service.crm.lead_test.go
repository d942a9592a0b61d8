package crmvc

import (
	"context"
	"errors"
	"testing"

	crmmodels "sales_crm/internal/api/crm/models"
	"sales_crm/internal/common"
)

func countTimeline(lead crmmodels.Lead, eventType string) int {
	n := 0
	for _, e := range lead.Timeline {
		if e.Type == eventType {
			n++
		}
	}
	return n
}

func TestAddLeadOpensTimelineWithCreatedEvent(t *testing.T) {
	core, _ := newQuietCore(t, testManager)

	lead, err := core.AddLead(context.Background(), crmmodels.Lead{Title: "Kho lạnh", CustomerName: "Minh Phát"})
	if err != nil {
		t.Fatalf("AddLead: %v", err)
	}

	if lead.Status != crmmodels.LeadStatusNew {
		t.Fatalf("status mặc định phải là New, có %q", lead.Status)
	}
	if lead.CreatedById != testManager.Id {
		t.Fatalf("createdById phải lấy từ phiên, có %q", lead.CreatedById)
	}
	if len(lead.Timeline) != 1 || lead.Timeline[0].Type != crmmodels.TimelineCreated {
		t.Fatalf("timeline phải mở với đúng một event created: %+v", lead.Timeline)
	}
	if lead.Timeline[0].User != testManager.Name {
		t.Fatalf("event phải ghi tên người thực hiện, có %q", lead.Timeline[0].User)
	}
	if lead.Rev != 1 {
		t.Fatalf("lead mới phải có rev 1, có %d", lead.Rev)
	}
}

func TestUpdateLeadStatusAppendsExactlyOneEvent(t *testing.T) {
	core, _ := newQuietCore(t, testManager)

	lead, _ := core.AddLead(context.Background(), crmmodels.Lead{Title: "L", CustomerName: "KH"})

	if err := core.UpdateLeadStatus(context.Background(), lead.Id, crmmodels.LeadStatusContacted); err != nil {
		t.Fatalf("UpdateLeadStatus: %v", err)
	}

	got, _ := core.LeadById(lead.Id)
	if got.Status != crmmodels.LeadStatusContacted {
		t.Fatalf("status không đổi: %q", got.Status)
	}
	if n := countTimeline(got, crmmodels.TimelineStatusChange); n != 1 {
		t.Fatalf("phải có đúng 1 event status_change, có %d", n)
	}
	if got.Timeline[0].Type != crmmodels.TimelineStatusChange {
		t.Fatal("event mới nhất phải đứng đầu timeline")
	}
	want := "Trạng thái chuyển từ New sang Contacted"
	if got.Timeline[0].Text != want {
		t.Fatalf("nội dung event sai: %q, muốn %q", got.Timeline[0].Text, want)
	}
}

func TestUpdateLeadStatusSameStatusIsNoOp(t *testing.T) {
	core, flaky := newQuietCore(t, testManager)

	lead, _ := core.AddLead(context.Background(), crmmodels.Lead{Title: "L", CustomerName: "KH"})
	_, patchesBefore, _ := flaky.writeCounts()

	if err := core.UpdateLeadStatus(context.Background(), lead.Id, lead.Status); err != nil {
		t.Fatalf("no-op status phải trả nil, có %v", err)
	}

	got, _ := core.LeadById(lead.Id)
	if n := countTimeline(got, crmmodels.TimelineStatusChange); n != 0 {
		t.Fatalf("no-op không được sinh event, có %d", n)
	}
	if got.Rev != lead.Rev {
		t.Fatal("no-op không được tăng rev")
	}
	if _, patchesAfter, _ := flaky.writeCounts(); patchesAfter != patchesBefore {
		t.Fatal("no-op không được ghi remote")
	}
}

func TestTimelineEventIdsUniqueUnderRapidCalls(t *testing.T) {
	core, _ := newQuietCore(t, testManager)

	lead, _ := core.AddLead(context.Background(), crmmodels.Lead{Title: "L", CustomerName: "KH"})

	// Nhiều mutation trong cùng millisecond vẫn phải sinh id event khác nhau
	statuses := []string{
		crmmodels.LeadStatusContacted,
		crmmodels.LeadStatusProposal,
		crmmodels.LeadStatusNegotiation,
		crmmodels.LeadStatusWon,
	}
	for _, status := range statuses {
		if err := core.UpdateLeadStatus(context.Background(), lead.Id, status); err != nil {
			t.Fatalf("UpdateLeadStatus(%s): %v", status, err)
		}
	}

	got, _ := core.LeadById(lead.Id)
	seen := map[string]bool{}
	for _, e := range got.Timeline {
		if e.Id == "" {
			t.Fatal("timeline event thiếu id")
		}
		if seen[e.Id] {
			t.Fatalf("id event trùng: %s", e.Id)
		}
		seen[e.Id] = true
	}
}

func TestUpdateLeadStripsTimelineFromPatch(t *testing.T) {
	core, _ := newQuietCore(t, testManager)

	lead, _ := core.AddLead(context.Background(), crmmodels.Lead{Title: "L", CustomerName: "KH"})

	// Patch cố ghi đè timeline và createdById — cả hai phải bị bỏ qua
	err := core.UpdateLead(context.Background(), lead.Id, map[string]interface{}{
		"title":       "Đổi tên",
		"timeline":    []crmmodels.TimelineEvent{},
		"createdById": "kẻ-giả-mạo",
	})
	if err != nil {
		t.Fatalf("UpdateLead: %v", err)
	}

	got, _ := core.LeadById(lead.Id)
	if got.Title != "Đổi tên" {
		t.Fatalf("title không được patch: %q", got.Title)
	}
	if len(got.Timeline) != 1 {
		t.Fatalf("timeline bị patch ghi đè: %+v", got.Timeline)
	}
	if got.CreatedById != testManager.Id {
		t.Fatalf("createdById bị patch ghi đè: %q", got.CreatedById)
	}
}

func TestLeadSubTasks(t *testing.T) {
	core, _ := newQuietCore(t, testManager)

	lead, _ := core.AddLead(context.Background(), crmmodels.Lead{Title: "L", CustomerName: "KH"})

	if err := core.AddLeadSubTask(context.Background(), lead.Id, "Gọi điện xác nhận"); err != nil {
		t.Fatalf("AddLeadSubTask: %v", err)
	}
	got, _ := core.LeadById(lead.Id)
	if len(got.SubTasks) != 1 || got.SubTasks[0].Done {
		t.Fatalf("sub-task mới phải chưa hoàn thành: %+v", got.SubTasks)
	}
	if n := countTimeline(got, crmmodels.TimelineTask); n != 1 {
		t.Fatalf("thêm sub-task phải sinh 1 event task, có %d", n)
	}

	if err := core.ToggleLeadSubTask(context.Background(), lead.Id, got.SubTasks[0].Id); err != nil {
		t.Fatalf("ToggleLeadSubTask: %v", err)
	}
	got, _ = core.LeadById(lead.Id)
	if !got.SubTasks[0].Done {
		t.Fatal("toggle phải đánh dấu hoàn thành")
	}

	if err := core.AddLeadSubTask(context.Background(), lead.Id, ""); !errors.Is(err, common.ErrRequiredField) {
		t.Fatalf("title rỗng phải trả ErrRequiredField, có %v", err)
	}
	if err := core.ToggleLeadSubTask(context.Background(), lead.Id, "không-có"); !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("toggle sub-task vắng mặt phải trả ErrNotFound, có %v", err)
	}
}

func TestConvertLeadToCustomer(t *testing.T) {
	core, _ := newQuietCore(t, testManager)

	lead, _ := core.AddLead(context.Background(), crmmodels.Lead{
		Title: "Kho lạnh", CustomerName: "Minh Phát", Source: "referral",
	})

	customer, err := core.ConvertLeadToCustomer(context.Background(), lead.Id)
	if err != nil {
		t.Fatalf("ConvertLeadToCustomer: %v", err)
	}
	if customer.Name != "Minh Phát" {
		t.Fatalf("tên khách hàng phải lấy từ lead: %q", customer.Name)
	}
	if customer.Status != crmmodels.CustomerStatusFromLead {
		t.Fatalf("status khách hàng phải là From Lead: %q", customer.Status)
	}
	if _, ok := core.CustomerById(customer.Id); !ok {
		t.Fatal("khách hàng mới phải có trong mirror")
	}

	got, _ := core.LeadById(lead.Id)
	if n := countTimeline(got, crmmodels.TimelineConversion); n != 1 {
		t.Fatalf("conversion phải sinh 1 event trên lead, có %d", n)
	}
}
