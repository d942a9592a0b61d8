// Package crmvc - Mutation operations cho Customer.
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

// CustomerById trả về khách hàng theo id từ mirror.
func (s *CrmService) CustomerById(id string) (crmmodels.Customer, bool) {
	return s.customers.get(id)
}

// AddCustomer tạo khách hàng mới. CreatedById luôn stamp từ identity của phiên
// hiện tại, không bao giờ nhận từ caller.
func (s *CrmService) AddCustomer(ctx context.Context, customer crmmodels.Customer) (crmmodels.Customer, error) {
	user, err := s.requireUser()
	if err != nil {
		return crmmodels.Customer{}, err
	}
	if customer.Name == "" {
		return crmmodels.Customer{}, fmt.Errorf("customer name: %w", common.ErrRequiredField)
	}

	if customer.Id == "" {
		customer.Id = utility.NewID()
	}
	if customer.Status == "" {
		customer.Status = crmmodels.CustomerStatusActive
	}
	now := utility.CurrentTimeInMilli()
	customer.CreatedById = user.Id
	customer.Rev = 1
	customer.CreatedAt = now
	customer.UpdatedAt = now

	if err := addRecord(ctx, s, s.customers, global.ColPaths.Customers, customer.Id, customer); err != nil {
		return crmmodels.Customer{}, err
	}
	return customer, nil
}

// UpdateCustomer merge partial patch. CreatedById bất biến nên bị strip khỏi patch.
func (s *CrmService) UpdateCustomer(ctx context.Context, id string, patch store.Doc) error {
	delete(patch, "createdById")
	_, err := patchRecord(ctx, s, s.customers, global.ColPaths.Customers, id, patch)
	return err
}

// DeleteCustomer xóa khách hàng.
func (s *CrmService) DeleteCustomer(ctx context.Context, id string) error {
	return deleteRecord(ctx, s, s.customers, global.ColPaths.Customers, id)
}
