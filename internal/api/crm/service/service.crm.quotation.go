// Package crmvc - Mutation operations cho Quotation, với các field dẫn xuất
// (total từng dòng, subtotal, total) luôn được tính lại khi submit.
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

// recomputeQuotationTotals tính lại toàn bộ field dẫn xuất từ Items và Tax.
// Giá trị caller gửi lên cho các field này bị bỏ qua.
func recomputeQuotationTotals(q *crmmodels.Quotation) {
	subtotal := 0.0
	for i := range q.Items {
		if q.Items[i].Id == "" {
			q.Items[i].Id = utility.NewID()
		}
		q.Items[i].Total = q.Items[i].Quantity * q.Items[i].UnitPrice
		subtotal += q.Items[i].Total
	}
	q.Subtotal = subtotal
	q.Total = subtotal + q.Tax
}

// QuotationById trả về báo giá theo id từ mirror.
func (s *CrmService) QuotationById(id string) (crmmodels.Quotation, bool) {
	return s.quotations.get(id)
}

// AddQuotation tạo báo giá mới với totals được tính lại từ items.
func (s *CrmService) AddQuotation(ctx context.Context, quotation crmmodels.Quotation) (crmmodels.Quotation, error) {
	user, err := s.requireUser()
	if err != nil {
		return crmmodels.Quotation{}, err
	}

	if quotation.Id == "" {
		quotation.Id = utility.NewID()
	}
	if quotation.Status == "" {
		quotation.Status = crmmodels.QuotationStatusDraft
	}
	recomputeQuotationTotals(&quotation)
	now := utility.CurrentTimeInMilli()
	quotation.CreatedById = user.Id
	quotation.Rev = 1
	quotation.CreatedAt = now
	quotation.UpdatedAt = now

	if err := addRecord(ctx, s, s.quotations, global.ColPaths.Quotations, quotation.Id, quotation); err != nil {
		return crmmodels.Quotation{}, err
	}
	return quotation, nil
}

// UpdateQuotation merge partial patch. Khi patch chạm items hoặc tax, mọi field
// dẫn xuất được tính lại từ state sau merge — giá trị subtotal/total trong patch
// không bao giờ được tin.
func (s *CrmService) UpdateQuotation(ctx context.Context, id string, patch store.Doc) error {
	delete(patch, "createdById")

	_, touchesItems := patch["items"]
	_, touchesTax := patch["tax"]
	if touchesItems || touchesTax {
		prev, ok := s.quotations.get(id)
		if !ok {
			return fmt.Errorf("quotation %s: %w", id, common.ErrNotFound)
		}
		prevMap, err := utility.ToMap(prev)
		if err != nil {
			return err
		}
		merged := utility.MergeMap(prevMap, patch)
		var next crmmodels.Quotation
		if err := utility.MapToStruct(merged, &next); err != nil {
			return fmt.Errorf("%w: %v", common.ErrInvalidInput, err)
		}
		recomputeQuotationTotals(&next)
		patch["items"] = next.Items
		patch["subtotal"] = next.Subtotal
		patch["total"] = next.Total
	} else {
		delete(patch, "subtotal")
		delete(patch, "total")
	}

	_, err := patchRecord(ctx, s, s.quotations, global.ColPaths.Quotations, id, patch)
	return err
}

// DeleteQuotation xóa báo giá.
func (s *CrmService) DeleteQuotation(ctx context.Context, id string) error {
	return deleteRecord(ctx, s, s.quotations, global.ColPaths.Quotations, id)
}
