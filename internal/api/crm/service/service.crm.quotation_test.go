package crmvc

import (
	"context"
	"testing"

	crmmodels "sales_crm/internal/api/crm/models"
	"sales_crm/internal/store"
)

func TestAddQuotationRecomputesTotals(t *testing.T) {
	core, _ := newQuietCore(t, testManager)

	q, err := core.AddQuotation(context.Background(), crmmodels.Quotation{
		Number: "BG-001",
		Items: []crmmodels.QuotationItem{
			{Description: "Dàn lạnh", Quantity: 2, UnitPrice: 15000000, Total: 999}, // Total gửi lên bị bỏ qua
			{Description: "Thi công", Quantity: 1, UnitPrice: 8000000},
		},
		Tax:      2300000,
		Subtotal: 1, // Giá trị caller gửi lên không bao giờ được tin
		Total:    1,
	})
	if err != nil {
		t.Fatalf("AddQuotation: %v", err)
	}

	if q.Items[0].Total != 30000000 {
		t.Fatalf("total dòng 1 phải là 2×15tr = 30tr, có %v", q.Items[0].Total)
	}
	if q.Subtotal != 38000000 {
		t.Fatalf("subtotal phải là 38tr, có %v", q.Subtotal)
	}
	if q.Total != 40300000 {
		t.Fatalf("total phải là subtotal + tax = 40.3tr, có %v", q.Total)
	}
	for _, item := range q.Items {
		if item.Id == "" {
			t.Fatal("mỗi item phải được gán id")
		}
	}
	if q.Status != crmmodels.QuotationStatusDraft {
		t.Fatalf("status mặc định phải là Draft, có %q", q.Status)
	}
}

func TestUpdateQuotationItemsRecomputesDerivedFields(t *testing.T) {
	core, _ := newQuietCore(t, testManager)
	ctx := context.Background()

	q, _ := core.AddQuotation(ctx, crmmodels.Quotation{
		Number: "BG-002",
		Items:  []crmmodels.QuotationItem{{Description: "A", Quantity: 1, UnitPrice: 1000}},
		Tax:    100,
	})

	err := core.UpdateQuotation(ctx, q.Id, store.Doc{
		"items": []crmmodels.QuotationItem{
			{Description: "A", Quantity: 3, UnitPrice: 1000},
		},
	})
	if err != nil {
		t.Fatalf("UpdateQuotation: %v", err)
	}

	got, _ := core.QuotationById(q.Id)
	if got.Subtotal != 3000 {
		t.Fatalf("subtotal phải tính lại từ items mới: %v", got.Subtotal)
	}
	if got.Total != 3100 {
		t.Fatalf("total phải là subtotal + tax cũ: %v", got.Total)
	}
}

func TestUpdateQuotationTaxRecomputesTotal(t *testing.T) {
	core, _ := newQuietCore(t, testManager)
	ctx := context.Background()

	q, _ := core.AddQuotation(ctx, crmmodels.Quotation{
		Number: "BG-003",
		Items:  []crmmodels.QuotationItem{{Description: "A", Quantity: 2, UnitPrice: 500}},
		Tax:    0,
	})

	if err := core.UpdateQuotation(ctx, q.Id, store.Doc{"tax": 250.0}); err != nil {
		t.Fatalf("UpdateQuotation: %v", err)
	}
	got, _ := core.QuotationById(q.Id)
	if got.Total != 1250 {
		t.Fatalf("đổi tax phải tính lại total: %v", got.Total)
	}
}

func TestUpdateQuotationIgnoresHandEditedTotals(t *testing.T) {
	core, _ := newQuietCore(t, testManager)
	ctx := context.Background()

	q, _ := core.AddQuotation(ctx, crmmodels.Quotation{
		Number: "BG-004",
		Items:  []crmmodels.QuotationItem{{Description: "A", Quantity: 1, UnitPrice: 1000}},
	})

	// Patch không chạm items/tax nhưng cố sửa các field dẫn xuất
	err := core.UpdateQuotation(ctx, q.Id, store.Doc{
		"status":   crmmodels.QuotationStatusSent,
		"subtotal": 999999.0,
		"total":    999999.0,
	})
	if err != nil {
		t.Fatalf("UpdateQuotation: %v", err)
	}

	got, _ := core.QuotationById(q.Id)
	if got.Status != crmmodels.QuotationStatusSent {
		t.Fatalf("status phải được patch: %q", got.Status)
	}
	if got.Subtotal != 1000 || got.Total != 1000 {
		t.Fatalf("field dẫn xuất sửa tay phải bị bỏ qua: subtotal=%v total=%v", got.Subtotal, got.Total)
	}
}
