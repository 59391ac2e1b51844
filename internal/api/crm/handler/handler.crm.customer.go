// Package crmhdl - handler HTTP cho domain crm.
package crmhdl

import (
	"fmt"

	"crm_backend/core/common"
	crmdto "crm_backend/internal/api/crm/dto"
	crmmodels "crm_backend/internal/api/crm/models"
	crmsvc "crm_backend/internal/api/crm/service"
	basehdl "crm_backend/internal/api/base/handler"

	"github.com/gofiber/fiber/v3"
)

// CustomerHandler xử lý các request CRUD khách hàng.
// Các route nghiệp vụ khóa theo intnr, các route chung (list/filter) dùng BaseHandler.
type CustomerHandler struct {
	*basehdl.BaseHandler[crmmodels.Customer, crmdto.CustomerCreateInput, crmdto.CustomerUpdateInput]
	customerService *crmsvc.CustomerService
}

// NewCustomerHandler tạo instance mới của CustomerHandler
func NewCustomerHandler() (*CustomerHandler, error) {
	customerService, err := crmsvc.NewCustomerService()
	if err != nil {
		return nil, fmt.Errorf("failed to create customer service: %v", err)
	}
	baseHandler := basehdl.NewBaseHandler[crmmodels.Customer, crmdto.CustomerCreateInput, crmdto.CustomerUpdateInput](customerService)
	return &CustomerHandler{
		BaseHandler:     baseHandler,
		customerService: customerService,
	}, nil
}

// HandleCreateCustomer tạo khách hàng mới từ DTO đã validate.
// Trùng intnr trả về 409.
func (h *CustomerHandler) HandleCreateCustomer(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		var input crmdto.CustomerCreateInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		customer, err := h.customerService.CreateCustomer(c.Context(), &input)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		return basehdl.HandleCreated(c, customer)
	})
}

// HandleGetByIntnr lấy khách hàng theo định danh nghiệp vụ
func (h *CustomerHandler) HandleGetByIntnr(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		intnr := c.Params("intnr")
		if intnr == "" {
			h.HandleResponse(c, nil, common.NewError(
				common.ErrCodeValidationFormat,
				"intnr không được để trống trong URL params",
				common.StatusBadRequest,
				nil,
			))
			return nil
		}

		customer, err := h.customerService.FindByIntnr(c.Context(), intnr)
		h.HandleResponse(c, customer, err)
		return nil
	})
}

// HandleUpdateByIntnr cập nhật một phần khách hàng theo intnr (intnr bất biến)
func (h *CustomerHandler) HandleUpdateByIntnr(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		intnr := c.Params("intnr")
		if intnr == "" {
			h.HandleResponse(c, nil, common.NewError(
				common.ErrCodeValidationFormat,
				"intnr không được để trống trong URL params",
				common.StatusBadRequest,
				nil,
			))
			return nil
		}

		var input crmdto.CustomerUpdateInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		customer, err := h.customerService.UpdateByIntnr(c.Context(), intnr, &input)
		h.HandleResponse(c, customer, err)
		return nil
	})
}

// HandleDeleteByIntnr xóa khách hàng theo intnr, 404 khi không tồn tại
func (h *CustomerHandler) HandleDeleteByIntnr(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		intnr := c.Params("intnr")
		if intnr == "" {
			h.HandleResponse(c, nil, common.NewError(
				common.ErrCodeValidationFormat,
				"intnr không được để trống trong URL params",
				common.StatusBadRequest,
				nil,
			))
			return nil
		}

		err := h.customerService.DeleteByIntnr(c.Context(), intnr)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		h.HandleResponse(c, fiber.Map{"intnr": intnr, "deleted": true}, nil)
		return nil
	})
}
