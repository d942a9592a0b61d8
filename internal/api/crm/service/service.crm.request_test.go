package crmvc

import (
	"context"
	"errors"
	"strings"
	"testing"

	authmodels "sales_crm/internal/api/auth/models"
	crmmodels "sales_crm/internal/api/crm/models"
	notifmodels "sales_crm/internal/api/notification/models"
	"sales_crm/internal/common"
	"sales_crm/internal/global"
	"sales_crm/internal/store"
	"sales_crm/internal/utility"
)

// storedNotifications đọc toàn bộ notifications từ store (mirror chỉ giữ
// thông báo của phiên hiện tại nên phải nhìn thẳng vào store).
func storedNotifications(t *testing.T, st store.Store) []notifmodels.Notification {
	t.Helper()
	docs, err := st.GetAll(context.Background(), global.ColPaths.Notifications)
	if err != nil {
		t.Fatalf("GetAll notifications: %v", err)
	}
	out := make([]notifmodels.Notification, 0, len(docs))
	for _, doc := range docs {
		var n notifmodels.Notification
		if err := utility.MapToStruct(doc, &n); err != nil {
			t.Fatalf("decode notification: %v", err)
		}
		out = append(out, n)
	}
	return out
}

func TestAddQuotationRequestForcesPendingAndStampsRequester(t *testing.T) {
	core, _ := newQuietCore(t, testExecutive)
	ctx := context.Background()

	lead, _ := core.AddLead(ctx, crmmodels.Lead{Title: "Dây chuyền Delta", CustomerName: "Delta", Value: 480000000})

	req, err := core.AddQuotationRequest(ctx, crmmodels.QuotationRequest{
		LeadId:        lead.Id,
		Status:        crmmodels.RequestStatusCompleted, // caller không được chọn status
		RequestedById: "kẻ-giả-mạo",
	})
	if err != nil {
		t.Fatalf("AddQuotationRequest: %v", err)
	}

	if req.Status != crmmodels.RequestStatusPending {
		t.Fatalf("status phải bị ép về Pending, có %q", req.Status)
	}
	if req.RequestedById != testExecutive.Id {
		t.Fatalf("requestedById phải từ phiên, có %q", req.RequestedById)
	}
	if req.LeadTitle != lead.Title {
		t.Fatalf("leadTitle phải mặc định từ lead: %q", req.LeadTitle)
	}
	if req.EstimatedValue != lead.Value {
		t.Fatalf("estimatedValue phải mặc định từ lead: %v", req.EstimatedValue)
	}

	// Lead nhận timeline event estimation
	gotLead, _ := core.LeadById(lead.Id)
	if n := countTimeline(gotLead, crmmodels.TimelineEstimation); n != 1 {
		t.Fatalf("lead phải có 1 event estimation, có %d", n)
	}
}

func TestAddQuotationRequestNotifiesActiveManagersExceptRequester(t *testing.T) {
	initTestEnv()
	flaky := &flakyStore{Store: store.NewMemoryStore()}
	suppressSeed(t, flaky)

	// Roster: requester là manager, một manager khác active, một manager
	// inactive, một coordinator (không privileged)
	inactiveHead := testCoordHead
	inactiveHead.IsActive = false
	roster := fakeRoster{users: []authmodels.User{
		testManager, testExecutive, testCoordinator, inactiveHead,
	}}

	core := NewCrmService(flaky, roster)
	if err := core.Start(context.Background(), testExecutive); err != nil {
		t.Fatalf("start core: %v", err)
	}
	t.Cleanup(core.Stop)

	_, err := core.AddQuotationRequest(context.Background(), crmmodels.QuotationRequest{
		LeadId:    "lead-x",
		LeadTitle: "Lead X",
	})
	if err != nil {
		t.Fatalf("AddQuotationRequest: %v", err)
	}

	notifs := storedNotifications(t, flaky)
	if len(notifs) != 1 {
		t.Fatalf("chỉ manager active (trừ requester) được nhận thông báo, có %d", len(notifs))
	}
	if notifs[0].RecipientId != testManager.Id {
		t.Fatalf("recipient sai: %q", notifs[0].RecipientId)
	}
	if notifs[0].Type != notifmodels.TypeQuotationRequest {
		t.Fatalf("loại thông báo sai: %q", notifs[0].Type)
	}
}

func TestAssignWorkflowSpawnsTasksAndNotifications(t *testing.T) {
	core, flaky := newQuietCore(t, testCoordHead)
	ctx := context.Background()

	lead, _ := core.AddLead(ctx, crmmodels.Lead{Title: "Kho lạnh Minh Phát", CustomerName: "Minh Phát", Value: 250000000})
	req, _ := core.AddQuotationRequest(ctx, crmmodels.QuotationRequest{
		LeadId:   lead.Id,
		Priority: crmmodels.RequestPriorityHigh,
	})

	coordinators := []string{"coord-1", "coord-2"}
	customTasks := []crmmodels.RequestCustomTask{{Title: "Khảo sát hiện trường", Description: "Đo đạc kho"}}

	err := core.AssignQuotationRequestToMultipleCoordinators(ctx, req.Id, coordinators, []string{"gấp"}, customTasks)
	if err != nil {
		t.Fatalf("workflow gán yêu cầu: %v", err)
	}

	// 2 điều phối viên × (1 main + 1 sub) = 4 tasks
	tasks := core.VisibleTasks()
	if len(tasks) != 4 {
		t.Fatalf("muốn 4 tasks (2 main + 2 sub), có %d", len(tasks))
	}

	mains := map[string]crmmodels.Task{}
	subs := []crmmodels.Task{}
	for _, task := range tasks {
		if task.CreatedFrom != crmmodels.TaskCreatedFromQuotationRequest {
			t.Fatalf("task thiếu provenance: %+v", task)
		}
		if task.QuotationRequestId != req.Id || task.LeadId != lead.Id {
			t.Fatalf("task thiếu liên kết request/lead: %+v", task)
		}
		if task.Priority != crmmodels.TaskPriorityHigh {
			t.Fatalf("request High phải sinh task High, có %q", task.Priority)
		}
		if task.ParentTaskId == "" {
			mains[task.AssignedTo] = task
		} else {
			subs = append(subs, task)
		}
	}
	if len(mains) != 2 {
		t.Fatalf("mỗi điều phối viên phải có đúng 1 main task, có %d", len(mains))
	}
	if mains["coord-1"].Title != "Báo giá: Kho lạnh Minh Phát" {
		t.Fatalf("title main task sai: %q", mains["coord-1"].Title)
	}
	if len(subs) != 2 {
		t.Fatalf("mỗi điều phối viên phải có 1 sub-task, có %d", len(subs))
	}
	for _, sub := range subs {
		parent, ok := mains[sub.AssignedTo]
		if !ok || sub.ParentTaskId != parent.Id {
			t.Fatalf("sub-task phải trỏ về main task của cùng điều phối viên: %+v", sub)
		}
		if sub.Title != "Khảo sát hiện trường" {
			t.Fatalf("title sub-task phải lấy từ template: %q", sub.Title)
		}
	}

	// 2 task_assigned + 1 assignment_summary = 3 thông báo
	notifs := storedNotifications(t, flaky)
	byType := map[string]int{}
	for _, n := range notifs {
		byType[n.Type]++
	}
	if byType[notifmodels.TypeTaskAssigned] != 2 {
		t.Fatalf("muốn 2 thông báo task_assigned, có %d", byType[notifmodels.TypeTaskAssigned])
	}
	if byType[notifmodels.TypeAssignmentSummary] != 1 {
		t.Fatalf("muốn 1 thông báo assignment_summary, có %d", byType[notifmodels.TypeAssignmentSummary])
	}

	// Request kết thúc ở In Progress với assignment metadata đầy đủ
	gotReq, _ := core.QuotationRequestById(req.Id)
	if gotReq.Status != crmmodels.RequestStatusInProgress {
		t.Fatalf("request phải kết thúc ở In Progress, có %q", gotReq.Status)
	}
	if len(gotReq.AssignedCoordinatorIds) != 2 {
		t.Fatalf("assignedCoordinatorIds sai: %+v", gotReq.AssignedCoordinatorIds)
	}
}

func TestAssignWorkflowMainTaskDescriptionSummarizesRequest(t *testing.T) {
	core, _ := newQuietCore(t, testCoordHead)
	ctx := context.Background()

	req, _ := core.AddQuotationRequest(ctx, crmmodels.QuotationRequest{
		LeadId:         "lead-kho",
		LeadTitle:      "Kho lạnh Minh Phát",
		EstimatedValue: 123456789,
		Requirements:   "Lắp đặt kho lạnh 500m2",
		Notes:          "Khách cần gấp",
	})

	err := core.AssignQuotationRequestToMultipleCoordinators(ctx, req.Id, []string{"coord-1"}, []string{"công nghiệp", "kho lạnh"}, nil)
	if err != nil {
		t.Fatalf("workflow gán yêu cầu: %v", err)
	}

	tasks := core.VisibleTasks()
	if len(tasks) != 1 {
		t.Fatalf("muốn 1 main task, có %d", len(tasks))
	}

	// Mô tả main task phải tóm tắt đủ giá trị ước tính, yêu cầu, ghi chú và tags
	desc := tasks[0].Description
	for _, want := range []string{"123456789", "Lắp đặt kho lạnh 500m2", "Khách cần gấp", "công nghiệp", "kho lạnh"} {
		if !strings.Contains(desc, want) {
			t.Fatalf("mô tả main task thiếu %q: %q", want, desc)
		}
	}
}

func TestAssignWorkflowValidation(t *testing.T) {
	core, _ := newQuietCore(t, testCoordHead)
	ctx := context.Background()

	err := core.AssignQuotationRequestToMultipleCoordinators(ctx, "không-có", []string{"c1"}, nil, nil)
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("request vắng mặt phải trả ErrNotFound, có %v", err)
	}

	req, _ := core.AddQuotationRequest(ctx, crmmodels.QuotationRequest{LeadId: "l", LeadTitle: "L"})
	err = core.AssignQuotationRequestToMultipleCoordinators(ctx, req.Id, nil, nil, nil)
	if !errors.Is(err, common.ErrRequiredField) {
		t.Fatalf("danh sách điều phối viên rỗng phải trả ErrRequiredField, có %v", err)
	}
}

func TestAssignWorkflowKeepsCompletedStepsOnFailure(t *testing.T) {
	core, flaky := newQuietCore(t, testCoordHead)
	ctx := context.Background()

	req, _ := core.AddQuotationRequest(ctx, crmmodels.QuotationRequest{LeadId: "l", LeadTitle: "Lead L"})

	// Bước 1 (patch request) đi qua, các bước tạo task (Put) thất bại
	flaky.setFailures(true, false, false)
	err := core.AssignQuotationRequestToMultipleCoordinators(ctx, req.Id, []string{"c1"}, nil, nil)
	if err == nil {
		t.Fatal("workflow phải propagate lỗi tạo task")
	}

	// Bước đã xong giữ nguyên — không rollback chéo entity
	gotReq, _ := core.QuotationRequestById(req.Id)
	if gotReq.Status != crmmodels.RequestStatusAssigned {
		t.Fatalf("patch Assigned đã ghi xong phải giữ nguyên, có %q", gotReq.Status)
	}
	if len(core.VisibleTasks()) != 0 {
		t.Fatal("task thất bại không được nằm lại trong mirror")
	}
}
