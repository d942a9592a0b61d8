// Package crmvc - Role-scoped derivation: view công việc theo role của phiên.
// Mirror tasks không bao giờ lộ raw ra ngoài core — VisibleTasks là view duy nhất.
package crmvc

import (
	"sort"

	authmodels "sales_crm/internal/api/auth/models"
	crmmodels "sales_crm/internal/api/crm/models"
)

// VisibleTasks là view duy nhất của task mirror: role privileged thấy toàn bộ,
// các role còn lại chỉ thấy task được gán cho mình. Phiên Unauthenticated
// nhận danh sách rỗng.
func (s *CrmService) VisibleTasks() []crmmodels.Task {
	user, err := s.requireUser()
	if err != nil {
		return nil
	}
	out := visibleTasksFor(s.tasks.snapshot(), user)
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt > out[j].CreatedAt })
	return out
}

// visibleTasksFor là pure function lọc tasks theo identity — tách riêng để
// test không cần dựng core.
func visibleTasksFor(tasks []crmmodels.Task, user authmodels.User) []crmmodels.Task {
	if authmodels.IsManagerRole(user.RoleId) {
		return tasks
	}
	out := make([]crmmodels.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.AssignedTo == user.Id {
			out = append(out, t)
		}
	}
	return out
}

// ScopeLeads áp predicate owner-only cho consumer bên ngoài: role privileged
// thấy toàn bộ, role thường chỉ thấy lead mình tạo hoặc được gán.
// Core không tự scope leads — helper này dành cho tầng trình bày.
func ScopeLeads(leads []crmmodels.Lead, user authmodels.User) []crmmodels.Lead {
	if authmodels.IsManagerRole(user.RoleId) {
		return leads
	}
	out := make([]crmmodels.Lead, 0, len(leads))
	for _, l := range leads {
		if l.CreatedById == user.Id || l.AssignedToId == user.Id {
			out = append(out, l)
		}
	}
	return out
}

// ScopeCustomers áp predicate owner-only tương tự cho customers.
func ScopeCustomers(customers []crmmodels.Customer, user authmodels.User) []crmmodels.Customer {
	if authmodels.IsManagerRole(user.RoleId) {
		return customers
	}
	out := make([]crmmodels.Customer, 0, len(customers))
	for _, c := range customers {
		if c.CreatedById == user.Id {
			out = append(out, c)
		}
	}
	return out
}
