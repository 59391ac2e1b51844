package crmhdl

// Các handler upload CSV. Mỗi endpoint nhận một file multipart (field "file"),
// lưu thành file tạm trong phạm vi request, chạy pipeline import rồi xóa file
// tạm (best-effort) trên cả đường thành công lẫn thất bại.

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"

	"crm_backend/core/common"
	"crm_backend/core/logger"
	crmsvc "crm_backend/internal/api/crm/service"
	basehdl "crm_backend/internal/api/base/handler"

	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"
)

// UploadHandler xử lý các endpoint import CSV
type UploadHandler struct {
	customerService *crmsvc.CustomerService
}

// NewUploadHandler tạo instance mới của UploadHandler
func NewUploadHandler() (*UploadHandler, error) {
	customerService, err := crmsvc.NewCustomerService()
	if err != nil {
		return nil, fmt.Errorf("failed to create customer service: %v", err)
	}
	return &UploadHandler{customerService: customerService}, nil
}

// HandleUploadCustomers import file khách hàng đầy đủ (cột A–O)
func (h *UploadHandler) HandleUploadCustomers(c fiber.Ctx) error {
	return h.handleUpload(c, h.customerService.IngestCustomers, "Import khách hàng thành công")
}

// HandleUploadContactPersons import file người liên hệ (cột A, C–G)
func (h *UploadHandler) HandleUploadContactPersons(c fiber.Ctx) error {
	return h.handleUpload(c, h.customerService.IngestContactPersons, "Import người liên hệ thành công")
}

// HandleUploadAddresses import file địa chỉ (cột A, H–O)
func (h *UploadHandler) HandleUploadAddresses(c fiber.Ctx) error {
	return h.handleUpload(c, h.customerService.IngestAddresses, "Import địa chỉ thành công")
}

// handleUpload khung xử lý chung cho ba endpoint upload
func (h *UploadHandler) handleUpload(
	c fiber.Ctx,
	ingest func(ctx context.Context, r io.Reader) (*crmsvc.IngestReport, error),
	successMessage string,
) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		basehdl.HandleResponse(c, nil, common.NewError(
			common.ErrCodeValidationCSV,
			"Không có file nào được upload (field 'file' là bắt buộc)",
			common.StatusBadRequest,
			err,
		))
		return nil
	}

	tempPath, err := saveTempFile(c, fileHeader)
	if err != nil {
		basehdl.HandleResponse(c, nil, common.NewError(
			common.ErrCodeInternalServer,
			fmt.Sprintf("Không lưu được file upload: %v", err),
			common.StatusInternalServerError,
			err,
		))
		return nil
	}
	// File upload là tài nguyên tạm, xóa best-effort khi request kết thúc
	defer removeTempFile(tempPath)

	f, err := os.Open(tempPath)
	if err != nil {
		basehdl.HandleResponse(c, nil, common.NewError(
			common.ErrCodeInternalServer,
			fmt.Sprintf("Không đọc được file upload: %v", err),
			common.StatusInternalServerError,
			err,
		))
		return nil
	}
	defer f.Close()

	report, err := ingest(c.Context(), f)
	if err != nil {
		basehdl.HandleResponse(c, nil, err)
		return nil
	}

	if len(report.Violations) > 0 {
		basehdl.HandleResponse(c, nil, common.NewError(
			common.ErrCodeValidationInput,
			"Dữ liệu trong file có lỗi validate, chưa có dòng nào được ghi",
			common.StatusBadRequest,
			report,
		))
		return nil
	}

	if len(report.Conflicts) > 0 {
		basehdl.HandleResponse(c, nil, common.NewError(
			common.ErrCodeBusinessReconcile,
			"Một số dòng không được ghi do lỗi đối chiếu dữ liệu",
			common.StatusBadRequest,
			report,
		))
		return nil
	}

	return basehdl.HandleCreated(c, fiber.Map{
		"message":   successMessage,
		"processed": report.Processed,
		"persisted": report.Persisted,
	})
}

// saveTempFile lưu file multipart thành file tạm và trả về đường dẫn
func saveTempFile(c fiber.Ctx, fileHeader *multipart.FileHeader) (string, error) {
	tempFile, err := os.CreateTemp("", "crm-upload-*.csv")
	if err != nil {
		return "", err
	}
	tempPath := tempFile.Name()
	tempFile.Close()

	if err := c.SaveFile(fileHeader, tempPath); err != nil {
		removeTempFile(tempPath)
		return "", err
	}
	return tempPath, nil
}

func removeTempFile(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		logger.GetAppLogger().WithFields(logrus.Fields{
			"path":  path,
			"error": err.Error(),
		}).Warn("Không xóa được file upload tạm")
	}
}
