// Package crmrouter đăng ký các route thuộc domain crm.
package crmrouter

import (
	"fmt"

	"github.com/gofiber/fiber/v3"

	crmhdl "crm_backend/internal/api/crm/handler"
	"crm_backend/internal/api/middleware"
	apirouter "crm_backend/internal/api/router"
)

// Register đăng ký các route khách hàng và import CSV lên v1.
// Tất cả route đều yêu cầu xác thực.
func Register(v1 fiber.Router, r *apirouter.Router) error {
	customerHandler, err := crmhdl.NewCustomerHandler()
	if err != nil {
		return fmt.Errorf("failed to create customer handler: %w", err)
	}
	uploadHandler, err := crmhdl.NewUploadHandler()
	if err != nil {
		return fmt.Errorf("failed to create upload handler: %w", err)
	}

	authMiddleware := middleware.AuthMiddleware()

	// Route nghiệp vụ khóa theo intnr.
	// Path rỗng đăng ký đúng prefix của group (StrictRouting đang bật).
	apirouter.RegisterRouteWithMiddleware(v1, "/customers", "GET", "", []fiber.Handler{authMiddleware}, customerHandler.FindWithPagination)
	apirouter.RegisterRouteWithMiddleware(v1, "/customers", "POST", "", []fiber.Handler{authMiddleware}, customerHandler.HandleCreateCustomer)
	apirouter.RegisterRouteWithMiddleware(v1, "/customers", "GET", "/:intnr", []fiber.Handler{authMiddleware}, customerHandler.HandleGetByIntnr)
	apirouter.RegisterRouteWithMiddleware(v1, "/customers", "PUT", "/:intnr", []fiber.Handler{authMiddleware}, customerHandler.HandleUpdateByIntnr)
	apirouter.RegisterRouteWithMiddleware(v1, "/customers", "DELETE", "/:intnr", []fiber.Handler{authMiddleware}, customerHandler.HandleDeleteByIntnr)

	// Route import CSV (một file multipart, field "file")
	apirouter.RegisterRouteWithMiddleware(v1, "/customers/upload", "POST", "/customers", []fiber.Handler{authMiddleware}, uploadHandler.HandleUploadCustomers)
	apirouter.RegisterRouteWithMiddleware(v1, "/customers/upload", "POST", "/contact-persons", []fiber.Handler{authMiddleware}, uploadHandler.HandleUploadContactPersons)
	apirouter.RegisterRouteWithMiddleware(v1, "/customers/upload", "POST", "/addresses", []fiber.Handler{authMiddleware}, uploadHandler.HandleUploadAddresses)

	return nil
}
