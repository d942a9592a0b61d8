package worker

import (
	"context"
	"time"

	crmmodels "sales_crm/internal/api/crm/models"
	"sales_crm/internal/global"
	"sales_crm/internal/logger"
	"sales_crm/internal/store"
	"sales_crm/internal/utility"
)

// InvoiceOverdueWorker quét collection invoices định kỳ và chuyển các hóa đơn
// Pending đã quá hạn sang Overdue. Worker thao tác trực tiếp trên store — thay
// đổi chảy về mirror của các phiên đang mở qua live subscription.
type InvoiceOverdueWorker struct {
	store    store.Store
	interval time.Duration // Khoảng thời gian giữa các lần quét
}

// NewInvoiceOverdueWorker tạo mới InvoiceOverdueWorker.
// interval dưới 1 phút được nâng lên mặc định 1 giờ.
func NewInvoiceOverdueWorker(st store.Store, interval time.Duration) *InvoiceOverdueWorker {
	if interval < time.Minute {
		interval = time.Hour
	}
	return &InvoiceOverdueWorker{store: st, interval: interval}
}

// Start chạy worker trong vòng lặp: mỗi interval quét toàn bộ invoices và
// patch status các hóa đơn quá hạn. Quét một lần ngay khi khởi động.
func (w *InvoiceOverdueWorker) Start(ctx context.Context) {
	log := logger.GetAppLogger()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	log.WithField("interval", w.interval.String()).Info("🧾 [INVOICE_OVERDUE] Starting Invoice Overdue Worker...")

	w.scan(ctx)
	for {
		select {
		case <-ctx.Done():
			log.Info("🧾 [INVOICE_OVERDUE] Invoice Overdue Worker stopped")
			return
		case <-ticker.C:
			w.scan(ctx)
		}
	}
}

// scan đánh dấu Overdue cho mọi hóa đơn Pending có dueDate trước hôm nay.
func (w *InvoiceOverdueWorker) scan(ctx context.Context) {
	log := logger.GetAppLogger()
	defer func() {
		if r := recover(); r != nil {
			log.WithField("panic", r).Error("🧾 [INVOICE_OVERDUE] Panic khi quét hóa đơn, sẽ tiếp tục ở lần chạy tiếp theo")
		}
	}()

	docs, err := w.store.GetAll(ctx, global.ColPaths.Invoices)
	if err != nil {
		log.WithError(err).Error("🧾 [INVOICE_OVERDUE] Lỗi đọc danh sách hóa đơn")
		return
	}

	today := time.Now().Format("2006-01-02")
	marked := 0
	for _, doc := range docs {
		var inv crmmodels.Invoice
		if err := utility.MapToStruct(doc, &inv); err != nil {
			continue
		}
		if inv.Status != crmmodels.InvoiceStatusPending || inv.DueDate == "" || inv.DueDate >= today {
			continue
		}
		patch := store.Doc{
			"status":    crmmodels.InvoiceStatusOverdue,
			"rev":       inv.Rev + 1,
			"updatedAt": utility.CurrentTimeInMilli(),
		}
		if err := w.store.Patch(ctx, global.ColPaths.Invoices, inv.Id, patch); err != nil {
			log.WithError(err).WithField("invoiceId", inv.Id).Warn("🧾 [INVOICE_OVERDUE] Patch thất bại, bỏ qua và sẽ thử lại lần sau")
			continue
		}
		marked++
	}

	if marked > 0 {
		log.WithFields(map[string]interface{}{
			"marked": marked,
			"total":  len(docs),
		}).Info("🧾 [INVOICE_OVERDUE] Đã đánh dấu hóa đơn quá hạn")
	}
}
