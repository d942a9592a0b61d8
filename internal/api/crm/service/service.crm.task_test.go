package crmvc

import (
	"context"
	"errors"
	"testing"
	"time"

	calmodels "sales_crm/internal/api/calendar/models"
	crmmodels "sales_crm/internal/api/crm/models"
	"sales_crm/internal/common"
	"sales_crm/internal/store"
)

func validTask(assignedTo string) crmmodels.Task {
	return crmmodels.Task{
		Title:      "Chuẩn bị hồ sơ",
		AssignedTo: assignedTo,
		DueDate:    time.Now().AddDate(0, 0, 3).Format("2006-01-02"),
	}
}

func TestAddTaskDefaults(t *testing.T) {
	core, _ := newQuietCore(t, testManager)

	task, err := core.AddTask(context.Background(), validTask(testExecutive.Id))
	if err != nil {
		t.Fatalf("AddTask: %v", err)
	}
	if task.Status != crmmodels.TaskStatusToDo {
		t.Fatalf("status mặc định phải là To Do, có %q", task.Status)
	}
	if task.Priority != crmmodels.TaskPriorityMedium {
		t.Fatalf("priority mặc định phải là Medium, có %q", task.Priority)
	}
	if task.CreatedById != testManager.Id {
		t.Fatalf("createdById phải từ phiên, có %q", task.CreatedById)
	}
}

func TestAddTaskInvalidTouchesNothing(t *testing.T) {
	core, flaky := newQuietCore(t, testManager)
	putsBefore, _, _ := flaky.writeCounts()

	// Title rỗng — validation phải chặn TRƯỚC optimistic update
	bad := validTask(testExecutive.Id)
	bad.Title = ""
	if _, err := core.AddTask(context.Background(), bad); !errors.Is(err, common.ErrInvalidInput) {
		t.Fatalf("muốn ErrInvalidInput, có %v", err)
	}

	if len(core.VisibleTasks()) != 0 {
		t.Fatal("task không hợp lệ không được vào mirror")
	}
	if putsAfter, _, _ := flaky.writeCounts(); putsAfter != putsBefore {
		t.Fatal("task không hợp lệ không được sinh remote write")
	}

	// DueDate sai định dạng cũng phải bị chặn
	bad = validTask(testExecutive.Id)
	bad.DueDate = "03/12/2026"
	if _, err := core.AddTask(context.Background(), bad); !errors.Is(err, common.ErrInvalidInput) {
		t.Fatalf("dueDate sai định dạng phải trả ErrInvalidInput, có %v", err)
	}
}

func TestTaskDoneMarksLinkedCalendarEvents(t *testing.T) {
	core, _ := newQuietCore(t, testManager)
	ctx := context.Background()

	task, err := core.AddTask(ctx, validTask(testManager.Id))
	if err != nil {
		t.Fatalf("AddTask: %v", err)
	}
	event, err := core.AddCalendarEvent(ctx, calmodels.CalendarEvent{
		Title:        "Họp chuẩn bị hồ sơ",
		Date:         task.DueDate,
		LinkedTaskId: task.Id,
	})
	if err != nil {
		t.Fatalf("AddCalendarEvent: %v", err)
	}

	if err := core.UpdateTask(ctx, task.Id, store.Doc{"status": crmmodels.TaskStatusDone}); err != nil {
		t.Fatalf("UpdateTask Done: %v", err)
	}
	gotEvent := findCalendarEvent(t, core, event.Id)
	if gotEvent.Title != crmmodels.TaskDoneMarker+"Họp chuẩn bị hồ sơ" {
		t.Fatalf("event liên kết phải có marker hoàn thành: %q", gotEvent.Title)
	}

	// Done -> In Progress: marker bị strip và KHÔNG gắn lại
	if err := core.UpdateTask(ctx, task.Id, store.Doc{"status": crmmodels.TaskStatusInProgress}); err != nil {
		t.Fatalf("UpdateTask In Progress: %v", err)
	}
	gotEvent = findCalendarEvent(t, core, event.Id)
	if gotEvent.Title != "Họp chuẩn bị hồ sơ" {
		t.Fatalf("marker phải bị strip khi task rời Done: %q", gotEvent.Title)
	}
}

func TestTaskPatchWithoutStatusLeavesCalendarAlone(t *testing.T) {
	core, _ := newQuietCore(t, testManager)
	ctx := context.Background()

	task, _ := core.AddTask(ctx, validTask(testManager.Id))
	event, _ := core.AddCalendarEvent(ctx, calmodels.CalendarEvent{
		Title: "Sự kiện", Date: task.DueDate, LinkedTaskId: task.Id,
	})
	eventRev := findCalendarEvent(t, core, event.Id).Rev

	if err := core.UpdateTask(ctx, task.Id, store.Doc{"description": "Cập nhật mô tả"}); err != nil {
		t.Fatalf("UpdateTask: %v", err)
	}
	if got := findCalendarEvent(t, core, event.Id); got.Rev != eventRev {
		t.Fatal("patch không chạm status thì calendar event phải giữ nguyên")
	}
}

func TestUnlinkedCalendarEventsUntouched(t *testing.T) {
	core, _ := newQuietCore(t, testManager)
	ctx := context.Background()

	task, _ := core.AddTask(ctx, validTask(testManager.Id))
	other, _ := core.AddCalendarEvent(ctx, calmodels.CalendarEvent{
		Title: "Không liên quan", Date: task.DueDate,
	})

	if err := core.UpdateTask(ctx, task.Id, store.Doc{"status": crmmodels.TaskStatusDone}); err != nil {
		t.Fatalf("UpdateTask: %v", err)
	}
	if got := findCalendarEvent(t, core, other.Id); got.Title != "Không liên quan" {
		t.Fatalf("event không liên kết bị sửa: %q", got.Title)
	}
}

func findCalendarEvent(t *testing.T, core *CrmService, id string) calmodels.CalendarEvent {
	t.Helper()
	for _, e := range core.CalendarEvents() {
		if e.Id == id {
			return e
		}
	}
	t.Fatalf("không tìm thấy calendar event %s", id)
	return calmodels.CalendarEvent{}
}
