package crmvc

import (
	"context"
	"testing"

	authmodels "sales_crm/internal/api/auth/models"
	crmmodels "sales_crm/internal/api/crm/models"
)

func TestVisibleTasksForIsPureRoleDerivation(t *testing.T) {
	tasks := []crmmodels.Task{
		{Id: "t1", AssignedTo: testExecutive.Id},
		{Id: "t2", AssignedTo: testCoordinator.Id},
		{Id: "t3", AssignedTo: testManager.Id},
	}

	// Mọi role privileged thấy toàn bộ
	for _, roleId := range []string{
		authmodels.RoleAdmin,
		authmodels.RoleSalesManager,
		authmodels.RoleAssistantSalesManager,
		authmodels.RoleSalesCoordinationHead,
	} {
		u := authmodels.User{Id: "any", RoleId: roleId}
		if got := visibleTasksFor(tasks, u); len(got) != 3 {
			t.Fatalf("role %s phải thấy cả 3 tasks, thấy %d", roleId, len(got))
		}
	}

	// Role thường chỉ thấy task gán cho mình
	got := visibleTasksFor(tasks, testExecutive)
	if len(got) != 1 || got[0].Id != "t1" {
		t.Fatalf("executive chỉ được thấy task của mình: %+v", got)
	}
	got = visibleTasksFor(tasks, testCoordinator)
	if len(got) != 1 || got[0].Id != "t2" {
		t.Fatalf("coordinator chỉ được thấy task của mình: %+v", got)
	}
}

func TestVisibleTasksThroughCore(t *testing.T) {
	initTestEnv()

	// Hai phiên trên cùng store: manager và executive
	managerCore, flaky := newQuietCore(t, testManager)
	execCore := newTestCore(t, flaky, testExecutive)

	ctx := context.Background()
	if _, err := managerCore.AddTask(ctx, validTask(testExecutive.Id)); err != nil {
		t.Fatalf("AddTask cho executive: %v", err)
	}
	if _, err := managerCore.AddTask(ctx, validTask(testCoordinator.Id)); err != nil {
		t.Fatalf("AddTask cho coordinator: %v", err)
	}

	if got := managerCore.VisibleTasks(); len(got) != 2 {
		t.Fatalf("manager phải thấy cả 2 tasks, thấy %d", len(got))
	}
	got := execCore.VisibleTasks()
	if len(got) != 1 || got[0].AssignedTo != testExecutive.Id {
		t.Fatalf("executive chỉ được thấy task gán cho mình: %+v", got)
	}

	execCore.Stop()
	if got := execCore.VisibleTasks(); got != nil {
		t.Fatalf("phiên Unauthenticated phải nhận nil, có %+v", got)
	}
}

func TestScopeLeads(t *testing.T) {
	leads := []crmmodels.Lead{
		{Id: "l1", CreatedById: testExecutive.Id},
		{Id: "l2", AssignedToId: testExecutive.Id},
		{Id: "l3", CreatedById: testCoordinator.Id},
	}

	if got := ScopeLeads(leads, testManager); len(got) != 3 {
		t.Fatalf("manager phải thấy cả 3 leads, thấy %d", len(got))
	}
	got := ScopeLeads(leads, testExecutive)
	if len(got) != 2 {
		t.Fatalf("executive phải thấy lead mình tạo hoặc được gán: %+v", got)
	}
}

func TestScopeCustomers(t *testing.T) {
	customers := []crmmodels.Customer{
		{Id: "c1", CreatedById: testExecutive.Id},
		{Id: "c2", CreatedById: testCoordinator.Id},
	}

	if got := ScopeCustomers(customers, testCoordHead); len(got) != 2 {
		t.Fatalf("coordination head phải thấy cả 2, thấy %d", len(got))
	}
	got := ScopeCustomers(customers, testExecutive)
	if len(got) != 1 || got[0].Id != "c1" {
		t.Fatalf("executive chỉ thấy customer mình tạo: %+v", got)
	}
}
