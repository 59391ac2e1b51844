package crmsvc

// Pipeline import CSV: decode → classify → validate → reconcile.
// Ba thao tác public, một cho mỗi endpoint upload, chia sẻ cùng khung xử lý:
//   1. Decode toàn bộ dòng từ stream (dòng header được bỏ qua nếu có).
//   2. Phân loại dòng dữ liệu đầu tiên; sai loại → hủy cả batch, chưa ghi gì.
//   3. Validate mọi dòng, gom toàn bộ vi phạm; có vi phạm → hủy cả batch.
//   4. Ghi tuần tự theo thứ tự file, chờ từng thao tác một; lỗi reconcile
//      (trùng intnr khi tạo, thiếu intnr khi append) được gom theo dòng và
//      KHÔNG hoàn tác các dòng đã ghi thành công trước đó.

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"crm_backend/core/common"
	"crm_backend/core/logger"
	crmmodels "crm_backend/internal/api/crm/models"

	"github.com/sirupsen/logrus"
)

// CustomerStore giao diện lưu trữ hẹp mà pipeline cần từ tầng persistence.
// FindByIntnr trả về common.ErrNotFound khi không tồn tại.
type CustomerStore interface {
	FindByIntnr(ctx context.Context, intnr string) (*crmmodels.Customer, error)
	Insert(ctx context.Context, customer *crmmodels.Customer) error
	Replace(ctx context.Context, customer *crmmodels.Customer) error
}

// RowViolation vi phạm validate của một dòng trong file
type RowViolation struct {
	Row    int      `json:"row"`
	Intnr  string   `json:"intnr,omitempty"`
	Errors []string `json:"errors"`
}

// RowConflict lỗi đối chiếu (reconcile) của một dòng trong lượt ghi
type RowConflict struct {
	Row     int    `json:"row"`
	Intnr   string `json:"intnr"`
	Message string `json:"message"`
}

// IngestReport kết quả một batch import.
// Violations khác rỗng nghĩa là batch bị hủy toàn bộ, chưa ghi gì.
// Conflicts khác rỗng nghĩa là một số dòng bị bỏ qua trong lượt ghi,
// các dòng đã ghi trước đó vẫn được giữ.
type IngestReport struct {
	Processed  int            `json:"processed"`
	Persisted  int            `json:"persisted"`
	Violations []RowViolation `json:"violations,omitempty"`
	Conflicts  []RowConflict  `json:"conflicts,omitempty"`
}

// Ok cho biết batch hoàn tất không có vi phạm hay xung đột nào
func (r *IngestReport) Ok() bool {
	return len(r.Violations) == 0 && len(r.Conflicts) == 0
}

// decodedRow một dòng dữ liệu kèm số thứ tự trong file (tính cả header)
type decodedRow struct {
	line int
	row  CsvRow
}

// decodeRows đọc toàn bộ stream CSV thành các dòng khóa theo chữ cột A–O.
// Dòng đầu tiên được coi là header và bỏ qua nếu ô đầu là "A" hoặc trùng tên
// trường đã biết. Trả về lỗi cấu trúc (VAL_003) khi stream không đọc được
// hoặc file không có dòng dữ liệu nào.
func decodeRows(r io.Reader) ([]decodedRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, common.NewError(
			common.ErrCodeValidationCSV,
			fmt.Sprintf("Không đọc được nội dung file CSV: %v", err),
			common.StatusBadRequest,
			err,
		)
	}

	rows := make([]decodedRow, 0, len(records))
	for i, record := range records {
		if i == 0 && isHeaderRecord(record) {
			continue
		}
		row := make(CsvRow, len(csvColumns))
		for j, col := range csvColumns {
			if j < len(record) {
				row[col] = strings.TrimSpace(record[j])
			}
		}
		rows = append(rows, decodedRow{line: i + 1, row: row})
	}

	if len(rows) == 0 {
		return nil, common.NewError(
			common.ErrCodeValidationCSV,
			"File CSV không có dòng dữ liệu nào",
			common.StatusBadRequest,
			nil,
		)
	}

	return rows, nil
}

// isHeaderRecord nhận diện dòng header: ô đầu là chữ cột "A" hoặc tên trường intnr
func isHeaderRecord(record []string) bool {
	if len(record) == 0 {
		return false
	}
	first := strings.ToLower(strings.TrimSpace(record[0]))
	return first == "a" || first == "intnr"
}

// classifyBatch phân loại dòng dữ liệu đầu tiên và so với loại endpoint mong đợi.
// Sai loại → hủy cả batch trước khi xử lý bất kỳ dòng nào.
func classifyBatch(rows []decodedRow, expected FileType) error {
	detected, err := ClassifyRow(rows[0].row)
	if err != nil {
		return err
	}
	if detected != expected {
		return common.NewError(
			common.ErrCodeValidationCSV,
			fmt.Sprintf("Loại file không đúng: nhận dạng được '%s', endpoint này yêu cầu '%s'", detected, expected),
			common.StatusBadRequest,
			nil,
		)
	}
	return nil
}

// IngestCustomers import file khách hàng đầy đủ (đủ cột A–O).
// Mỗi dòng dựng một Customer với một người liên hệ và một địa chỉ.
// Bất kỳ dòng nào vi phạm validate → hủy cả batch, không ghi gì.
// Trùng intnr trong lượt ghi → ghi nhận xung đột, bỏ qua dòng đó, các dòng
// đã tạo trước đó vẫn giữ (best-effort có báo cáo).
func (s *CustomerService) IngestCustomers(ctx context.Context, r io.Reader) (*IngestReport, error) {
	return ingestCustomers(ctx, s, r)
}

// IngestContactPersons import file người liên hệ (cột A, C–G).
// Dòng hợp lệ được append vào contact_persons của customer tìm theo intnr;
// intnr không tồn tại → lỗi reconcile cho dòng đó, người liên hệ bị bỏ
// (không tạo độc lập vì ContactPerson không có vòng đời riêng).
func (s *CustomerService) IngestContactPersons(ctx context.Context, r io.Reader) (*IngestReport, error) {
	return ingestContactPersons(ctx, s, r)
}

// IngestAddresses import file địa chỉ (cột A, H–O).
// Dòng hợp lệ được append vào addresses của customer tìm theo intnr, sau khi
// xóa company_name/fax/phone/email nếu customer không phải COMPANY/DEALER.
func (s *CustomerService) IngestAddresses(ctx context.Context, r io.Reader) (*IngestReport, error) {
	return ingestAddresses(ctx, s, r)
}

func ingestCustomers(ctx context.Context, store CustomerStore, r io.Reader) (*IngestReport, error) {
	rows, err := decodeRows(r)
	if err != nil {
		return nil, err
	}
	if err := classifyBatch(rows, FileTypeCustomer); err != nil {
		return nil, err
	}

	report := &IngestReport{Processed: len(rows)}

	// Dựng candidate và validate toàn bộ trước khi ghi bất kỳ dòng nào
	type candidate struct {
		line     int
		customer *crmmodels.Customer
	}
	candidates := make([]candidate, 0, len(rows))
	for _, dr := range rows {
		customer := &crmmodels.Customer{
			Intnr:          dr.row["A"],
			Type:           dr.row["B"],
			ContactPersons: []crmmodels.ContactPerson{contactPersonFromRow(dr.row)},
			Addresses:      []crmmodels.Address{addressFromRow(dr.row)},
		}

		var violations []string
		violations = append(violations, ValidateCustomerRow(customer)...)
		violations = append(violations, ValidateContactPersonRow(customer.ContactPersons[0])...)
		violations = append(violations, ValidateAddressRow(customer.Addresses[0])...)
		if len(violations) > 0 {
			report.Violations = append(report.Violations, RowViolation{
				Row:    dr.line,
				Intnr:  customer.Intnr,
				Errors: violations,
			})
			continue
		}
		candidates = append(candidates, candidate{line: dr.line, customer: customer})
	}

	// Có vi phạm ở bất kỳ dòng nào → hủy toàn bộ batch
	if len(report.Violations) > 0 {
		return report, nil
	}

	// Lượt ghi tuần tự theo thứ tự file
	for _, cand := range candidates {
		existing, err := store.FindByIntnr(ctx, cand.customer.Intnr)
		if err != nil && !common.IsNotFound(err) {
			return nil, err
		}
		if existing != nil {
			report.Conflicts = append(report.Conflicts, RowConflict{
				Row:     cand.line,
				Intnr:   cand.customer.Intnr,
				Message: fmt.Sprintf("Khách hàng với intnr '%s' đã tồn tại", cand.customer.Intnr),
			})
			continue
		}

		applyCustomerTypePolicy(cand.customer)
		if err := store.Insert(ctx, cand.customer); err != nil {
			return nil, err
		}
		report.Persisted++
	}

	logIngestResult("customers", report)
	return report, nil
}

func ingestContactPersons(ctx context.Context, store CustomerStore, r io.Reader) (*IngestReport, error) {
	rows, err := decodeRows(r)
	if err != nil {
		return nil, err
	}
	if err := classifyBatch(rows, FileTypeContactPerson); err != nil {
		return nil, err
	}

	report := &IngestReport{Processed: len(rows)}

	type candidate struct {
		line   int
		intnr  string
		person crmmodels.ContactPerson
	}
	candidates := make([]candidate, 0, len(rows))
	for _, dr := range rows {
		person := contactPersonFromRow(dr.row)
		if violations := ValidateContactPersonRow(person); len(violations) > 0 {
			report.Violations = append(report.Violations, RowViolation{
				Row:    dr.line,
				Intnr:  dr.row["A"],
				Errors: violations,
			})
			continue
		}
		candidates = append(candidates, candidate{line: dr.line, intnr: dr.row["A"], person: person})
	}

	if len(report.Violations) > 0 {
		return report, nil
	}

	for _, cand := range candidates {
		customer, err := store.FindByIntnr(ctx, cand.intnr)
		if err != nil {
			if common.IsNotFound(err) {
				report.Conflicts = append(report.Conflicts, RowConflict{
					Row:     cand.line,
					Intnr:   cand.intnr,
					Message: fmt.Sprintf("Không tìm thấy khách hàng với intnr '%s' để thêm người liên hệ", cand.intnr),
				})
				continue
			}
			return nil, err
		}

		customer.ContactPersons = append(customer.ContactPersons, cand.person)
		if err := store.Replace(ctx, customer); err != nil {
			return nil, err
		}
		report.Persisted++
	}

	logIngestResult("contact_persons", report)
	return report, nil
}

func ingestAddresses(ctx context.Context, store CustomerStore, r io.Reader) (*IngestReport, error) {
	rows, err := decodeRows(r)
	if err != nil {
		return nil, err
	}
	if err := classifyBatch(rows, FileTypeAddress); err != nil {
		return nil, err
	}

	report := &IngestReport{Processed: len(rows)}

	type candidate struct {
		line  int
		intnr string
		addr  crmmodels.Address
	}
	candidates := make([]candidate, 0, len(rows))
	for _, dr := range rows {
		addr := addressFromRow(dr.row)
		if violations := ValidateAddressRow(addr); len(violations) > 0 {
			report.Violations = append(report.Violations, RowViolation{
				Row:    dr.line,
				Intnr:  dr.row["A"],
				Errors: violations,
			})
			continue
		}
		candidates = append(candidates, candidate{line: dr.line, intnr: dr.row["A"], addr: addr})
	}

	if len(report.Violations) > 0 {
		return report, nil
	}

	for _, cand := range candidates {
		customer, err := store.FindByIntnr(ctx, cand.intnr)
		if err != nil {
			if common.IsNotFound(err) {
				report.Conflicts = append(report.Conflicts, RowConflict{
					Row:     cand.line,
					Intnr:   cand.intnr,
					Message: fmt.Sprintf("Không tìm thấy khách hàng với intnr '%s' để thêm địa chỉ", cand.intnr),
				})
				continue
			}
			return nil, err
		}

		addr := cand.addr
		if !customer.IsCompanyLike() {
			crmmodels.StripPrivateFields(&addr)
		}
		customer.Addresses = append(customer.Addresses, addr)
		if err := store.Replace(ctx, customer); err != nil {
			return nil, err
		}
		report.Persisted++
	}

	logIngestResult("addresses", report)
	return report, nil
}

func logIngestResult(kind string, report *IngestReport) {
	logger.GetAppLogger().WithFields(logrus.Fields{
		"kind":       kind,
		"processed":  report.Processed,
		"persisted":  report.Persisted,
		"violations": len(report.Violations),
		"conflicts":  len(report.Conflicts),
	}).Info("Import CSV hoàn tất")
}
