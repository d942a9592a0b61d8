// Package router đăng ký các route thuộc domain CRM: lead, customer, project,
// task, quotation, invoice, quotation request.
package router

import (
	"github.com/gofiber/fiber/v3"

	authsvc "sales_crm/internal/api/auth/service"
	crmhdl "sales_crm/internal/api/crm/handler"
	"sales_crm/internal/api/middleware"
	apirouter "sales_crm/internal/api/router"
)

// Register đăng ký tất cả route CRM lên v1.
func Register(sessions *authsvc.SessionManager) apirouter.RegisterFunc {
	return func(v1 fiber.Router, r *apirouter.Router) error {
		h := crmhdl.NewCrmHandler(sessions)
		auth := []fiber.Handler{middleware.AuthMiddleware(sessions, false)}
		managerAuth := []fiber.Handler{middleware.AuthMiddleware(sessions, true)}

		// Lead
		apirouter.RegisterRouteWithMiddleware(v1, "/crm/leads", "GET", "/", auth, h.HandleListLeads)
		apirouter.RegisterRouteWithMiddleware(v1, "/crm/leads", "POST", "/", auth, h.HandleAddLead)
		apirouter.RegisterRouteWithMiddleware(v1, "/crm/leads", "PATCH", "/:id", auth, h.HandleUpdateLead)
		apirouter.RegisterRouteWithMiddleware(v1, "/crm/leads", "PUT", "/:id/status", auth, h.HandleUpdateLeadStatus)
		apirouter.RegisterRouteWithMiddleware(v1, "/crm/leads", "POST", "/:id/subtasks", auth, h.HandleAddLeadSubTask)
		apirouter.RegisterRouteWithMiddleware(v1, "/crm/leads", "POST", "/:id/notes", auth, h.HandleAddLeadNote)
		apirouter.RegisterRouteWithMiddleware(v1, "/crm/leads", "POST", "/:id/convert", auth, h.HandleConvertLead)
		apirouter.RegisterRouteWithMiddleware(v1, "/crm/leads", "DELETE", "/:id", auth, h.HandleDeleteLead)

		// Customer
		apirouter.RegisterRouteWithMiddleware(v1, "/crm/customers", "GET", "/", auth, h.HandleListCustomers)
		apirouter.RegisterRouteWithMiddleware(v1, "/crm/customers", "POST", "/", auth, h.HandleAddCustomer)
		apirouter.RegisterRouteWithMiddleware(v1, "/crm/customers", "PATCH", "/:id", auth, h.HandleUpdateCustomer)
		apirouter.RegisterRouteWithMiddleware(v1, "/crm/customers", "DELETE", "/:id", auth, h.HandleDeleteCustomer)

		// Project
		apirouter.RegisterRouteWithMiddleware(v1, "/crm/projects", "GET", "/", auth, h.HandleListProjects)
		apirouter.RegisterRouteWithMiddleware(v1, "/crm/projects", "POST", "/", auth, h.HandleAddProject)
		apirouter.RegisterRouteWithMiddleware(v1, "/crm/projects", "PATCH", "/:id", auth, h.HandleUpdateProject)
		apirouter.RegisterRouteWithMiddleware(v1, "/crm/projects", "DELETE", "/:id", auth, h.HandleDeleteProject)

		// Task — view theo role, không có endpoint raw
		apirouter.RegisterRouteWithMiddleware(v1, "/crm/tasks", "GET", "/", auth, h.HandleListTasks)
		apirouter.RegisterRouteWithMiddleware(v1, "/crm/tasks", "POST", "/", auth, h.HandleAddTask)
		apirouter.RegisterRouteWithMiddleware(v1, "/crm/tasks", "PATCH", "/:id", auth, h.HandleUpdateTask)
		apirouter.RegisterRouteWithMiddleware(v1, "/crm/tasks", "DELETE", "/:id", auth, h.HandleDeleteTask)

		// Quotation
		apirouter.RegisterRouteWithMiddleware(v1, "/crm/quotations", "GET", "/", auth, h.HandleListQuotations)
		apirouter.RegisterRouteWithMiddleware(v1, "/crm/quotations", "POST", "/", auth, h.HandleAddQuotation)
		apirouter.RegisterRouteWithMiddleware(v1, "/crm/quotations", "PATCH", "/:id", auth, h.HandleUpdateQuotation)
		apirouter.RegisterRouteWithMiddleware(v1, "/crm/quotations", "DELETE", "/:id", auth, h.HandleDeleteQuotation)

		// Invoice
		apirouter.RegisterRouteWithMiddleware(v1, "/crm/invoices", "GET", "/", auth, h.HandleListInvoices)
		apirouter.RegisterRouteWithMiddleware(v1, "/crm/invoices", "POST", "/", auth, h.HandleAddInvoice)
		apirouter.RegisterRouteWithMiddleware(v1, "/crm/invoices", "PATCH", "/:id", auth, h.HandleUpdateInvoice)
		apirouter.RegisterRouteWithMiddleware(v1, "/crm/invoices", "PUT", "/:id/paid", auth, h.HandleMarkInvoicePaid)
		apirouter.RegisterRouteWithMiddleware(v1, "/crm/invoices", "DELETE", "/:id", auth, h.HandleDeleteInvoice)

		// Quotation request — assignment workflow chỉ cho role quản lý
		apirouter.RegisterRouteWithMiddleware(v1, "/crm/requests", "GET", "/", auth, h.HandleListRequests)
		apirouter.RegisterRouteWithMiddleware(v1, "/crm/requests", "POST", "/", auth, h.HandleAddRequest)
		apirouter.RegisterRouteWithMiddleware(v1, "/crm/requests", "PATCH", "/:id", auth, h.HandleUpdateRequest)
		apirouter.RegisterRouteWithMiddleware(v1, "/crm/requests", "POST", "/:id/assign", managerAuth, h.HandleAssignRequest)
		apirouter.RegisterRouteWithMiddleware(v1, "/crm/requests", "DELETE", "/:id", auth, h.HandleDeleteRequest)

		return nil
	}
}
