// Package crmvc - Seed check một lần khi phiên bắt đầu: nếu cả bốn collection
// chính đồng thời rỗng, ghi bootstrap dataset cố định, từng record một.
package crmvc

import (
	"context"
	"time"

	authmodels "sales_crm/internal/api/auth/models"
	crmmodels "sales_crm/internal/api/crm/models"
	"sales_crm/internal/global"
	"sales_crm/internal/logger"
	"sales_crm/internal/utility"
)

// seedIfEmpty kiểm tra và seed bootstrap dataset. Idempotent: chỉ cần một
// trong bốn collection chính (leads, customers, projects, tasks) có dữ liệu
// là không ghi gì cả.
func (s *CrmService) seedIfEmpty(ctx context.Context, user authmodels.User) error {
	p := global.ColPaths

	for _, path := range []string{p.Leads, p.Customers, p.Projects, p.Tasks} {
		docs, err := s.store.GetAll(ctx, path)
		if err != nil {
			return err
		}
		if len(docs) > 0 {
			return nil
		}
	}

	log := logger.GetAppLogger()
	log.Info("🌱 [SEED] Bốn collection chính đều rỗng, ghi bootstrap dataset")

	now := utility.CurrentTimeInMilli()
	nowISO := time.Now().Format(time.RFC3339)

	customers := []crmmodels.Customer{
		{
			Id: "seed-customer-1", Name: "Công ty TNHH Minh Phát", ContactPerson: "Trần Văn Minh",
			Email: "minh@minhphat.vn", Phone: "0903123456", Status: crmmodels.CustomerStatusActive,
			Source: "referral", CreatedById: user.Id, Rev: 1, CreatedAt: now, UpdatedAt: now,
		},
		{
			Id: "seed-customer-2", Name: "Delta Trading JSC", ContactPerson: "Lê Thu Hà",
			Email: "ha.le@deltatrading.vn", Phone: "0987654321", Status: crmmodels.CustomerStatusActive,
			Source: "website", CreatedById: user.Id, Rev: 1, CreatedAt: now, UpdatedAt: now,
		},
	}
	for _, c := range customers {
		doc, err := utility.ToMap(c)
		if err != nil {
			return err
		}
		if err := s.store.Put(ctx, p.Customers, c.Id, doc); err != nil {
			return err
		}
	}

	leads := []crmmodels.Lead{
		{
			Id: "seed-lead-1", Title: "Hệ thống kho lạnh Minh Phát", CustomerName: "Công ty TNHH Minh Phát",
			Value: 250000000, Status: crmmodels.LeadStatusNew, Source: "referral",
			CreatedById: user.Id, AssignedToId: user.Id,
			SubTasks: []crmmodels.LeadSubTask{},
			Timeline: []crmmodels.TimelineEvent{{
				Id: utility.NewID(), Type: crmmodels.TimelineCreated,
				Text: "Lead được tạo", Timestamp: nowISO, User: user.Name,
			}},
			Rev: 1, CreatedAt: now, UpdatedAt: now,
		},
		{
			Id: "seed-lead-2", Title: "Nâng cấp dây chuyền Delta", CustomerName: "Delta Trading JSC",
			Value: 480000000, Status: crmmodels.LeadStatusContacted, Source: "website",
			CreatedById: user.Id, AssignedToId: user.Id,
			SubTasks: []crmmodels.LeadSubTask{},
			Timeline: []crmmodels.TimelineEvent{{
				Id: utility.NewID(), Type: crmmodels.TimelineCreated,
				Text: "Lead được tạo", Timestamp: nowISO, User: user.Name,
			}},
			Rev: 1, CreatedAt: now, UpdatedAt: now,
		},
	}
	for _, l := range leads {
		doc, err := utility.ToMap(l)
		if err != nil {
			return err
		}
		if err := s.store.Put(ctx, p.Leads, l.Id, doc); err != nil {
			return err
		}
	}

	projects := []crmmodels.Project{
		{
			Id: "seed-project-1", Name: "Lắp đặt kho lạnh giai đoạn 1", CustomerId: "seed-customer-1",
			Status: crmmodels.ProjectStatusInProgress, StartDate: time.Now().Format("2006-01-02"),
			EndDate: time.Now().AddDate(0, 2, 0).Format("2006-01-02"), Value: 250000000, Progress: 20,
			CreatedById: user.Id, Rev: 1, CreatedAt: now, UpdatedAt: now,
		},
	}
	for _, pr := range projects {
		doc, err := utility.ToMap(pr)
		if err != nil {
			return err
		}
		if err := s.store.Put(ctx, p.Projects, pr.Id, doc); err != nil {
			return err
		}
	}

	tasks := []crmmodels.Task{
		{
			Id: "seed-task-1", Title: "Gọi lại khách Minh Phát", Description: "Xác nhận yêu cầu kỹ thuật kho lạnh",
			AssignedTo: user.Id, Status: crmmodels.TaskStatusToDo, Priority: crmmodels.TaskPriorityHigh,
			DueDate: time.Now().AddDate(0, 0, 3).Format("2006-01-02"), CreatedById: user.Id,
			Rev: 1, CreatedAt: now, UpdatedAt: now,
		},
		{
			Id: "seed-task-2", Title: "Chuẩn bị hồ sơ năng lực", Description: "Bộ hồ sơ gửi Delta Trading",
			AssignedTo: user.Id, Status: crmmodels.TaskStatusInProgress, Priority: crmmodels.TaskPriorityMedium,
			DueDate: time.Now().AddDate(0, 0, 7).Format("2006-01-02"), CreatedById: user.Id,
			Rev: 1, CreatedAt: now, UpdatedAt: now,
		},
	}
	for _, t := range tasks {
		doc, err := utility.ToMap(t)
		if err != nil {
			return err
		}
		if err := s.store.Put(ctx, p.Tasks, t.Id, doc); err != nil {
			return err
		}
	}

	log.WithFields(map[string]interface{}{
		"customers": len(customers),
		"leads":     len(leads),
		"projects":  len(projects),
		"tasks":     len(tasks),
	}).Info("🌱 [SEED] Bootstrap dataset đã ghi xong")
	return nil
}
