// Package crmvc - Mutation operations cho Project.
package crmvc

import (
	"context"
	"fmt"

	crmmodels "sales_crm/internal/api/crm/models"
	"sales_crm/internal/common"
	"sales_crm/internal/global"
	"sales_crm/internal/store"
	"sales_crm/internal/utility"
)

// ProjectById trả về dự án theo id từ mirror.
func (s *CrmService) ProjectById(id string) (crmmodels.Project, bool) {
	return s.projects.get(id)
}

// AddProject tạo dự án mới gắn với một khách hàng.
func (s *CrmService) AddProject(ctx context.Context, project crmmodels.Project) (crmmodels.Project, error) {
	user, err := s.requireUser()
	if err != nil {
		return crmmodels.Project{}, err
	}
	if project.Name == "" {
		return crmmodels.Project{}, fmt.Errorf("project name: %w", common.ErrRequiredField)
	}

	if project.Id == "" {
		project.Id = utility.NewID()
	}
	if project.Status == "" {
		project.Status = crmmodels.ProjectStatusNotStarted
	}
	if project.Progress < 0 {
		project.Progress = 0
	}
	if project.Progress > 100 {
		project.Progress = 100
	}
	now := utility.CurrentTimeInMilli()
	project.CreatedById = user.Id
	project.Rev = 1
	project.CreatedAt = now
	project.UpdatedAt = now

	if err := addRecord(ctx, s, s.projects, global.ColPaths.Projects, project.Id, project); err != nil {
		return crmmodels.Project{}, err
	}
	return project, nil
}

// UpdateProject merge partial patch vào dự án.
func (s *CrmService) UpdateProject(ctx context.Context, id string, patch store.Doc) error {
	delete(patch, "createdById")
	_, err := patchRecord(ctx, s, s.projects, global.ColPaths.Projects, id, patch)
	return err
}

// DeleteProject xóa dự án.
func (s *CrmService) DeleteProject(ctx context.Context, id string) error {
	return deleteRecord(ctx, s, s.projects, global.ColPaths.Projects, id)
}
