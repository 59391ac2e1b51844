package crmsvc

// Phân loại và validate các dòng CSV import.
// File CSV dùng hợp đồng cột theo vị trí, đánh chữ A–O:
//   A=intnr, B=loại khách hàng, C–G=người liên hệ (họ, tên, email, di động, ngày sinh),
//   H–O=địa chỉ (công ty, quốc gia, thành phố, zip, fax, điện thoại, đường, email).

import (
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"crm_backend/core/common"
	crmmodels "crm_backend/internal/api/crm/models"
)

// FileType loại nội dung được nhận dạng của một file CSV
type FileType string

const (
	FileTypeCustomer      FileType = "customer"
	FileTypeContactPerson FileType = "contactPerson"
	FileTypeAddress       FileType = "address"
)

// csvColumns thứ tự cột cố định của hợp đồng import
var csvColumns = []string{"A", "B", "C", "D", "E", "F", "G", "H", "I", "J", "K", "L", "M", "N", "O"}

// Các nhóm cột dùng để phân loại
var (
	contactColumns = []string{"C", "D", "E", "F", "G"}
	addressColumns = []string{"H", "I", "J", "K", "L", "M", "N", "O"}
)

var (
	emailRegex  = regexp.MustCompile(`^[\w\-.]+@([\w-]+\.)+[\w-]{2,4}$`)
	mobileRegex = regexp.MustCompile(`^\d{7,15}$`)
)

// CsvRow một dòng CSV đã decode, map từ khóa cột (A–O) sang giá trị.
// Giá trị rỗng và khóa vắng mặt được coi là tương đương.
type CsvRow map[string]string

// ErrUnrecognizedFileType lỗi không nhận dạng được loại file từ tập cột có dữ liệu
var ErrUnrecognizedFileType = common.NewError(
	common.ErrCodeValidationCSV,
	"Không nhận dạng được loại file CSV từ các cột có dữ liệu",
	common.StatusBadRequest,
	nil,
)

// ClassifyRow xác định loại file từ tập cột có dữ liệu của một dòng.
// Kiểm tra theo thứ tự, khớp đầu tiên thắng:
//   - đủ A–O           → customer
//   - đủ A, C–G        → contactPerson
//   - đủ A, H–O        → address
//   - còn lại          → ErrUnrecognizedFileType
func ClassifyRow(row CsvRow) (FileType, error) {
	if allPopulated(row, csvColumns) {
		return FileTypeCustomer, nil
	}
	if row["A"] != "" && allPopulated(row, contactColumns) {
		return FileTypeContactPerson, nil
	}
	if row["A"] != "" && allPopulated(row, addressColumns) {
		return FileTypeAddress, nil
	}
	return "", ErrUnrecognizedFileType
}

func allPopulated(row CsvRow, columns []string) bool {
	for _, col := range columns {
		if row[col] == "" {
			return false
		}
	}
	return true
}

// intnrMaxLength độ dài tối đa của mã khách hàng, khớp với DTO tạo mới
const intnrMaxLength = 10

// ValidateCustomerRow kiểm tra các ràng buộc trên chính aggregate của một dòng
// customer (intnr, type), trả về danh sách vi phạm theo thứ tự. Các ràng buộc
// này trùng với đường tạo qua DTO để hai đường ghi không lệch nhau.
func ValidateCustomerRow(customer *crmmodels.Customer) []string {
	var violations []string

	if len(customer.Intnr) > intnrMaxLength {
		violations = append(violations, fmt.Sprintf("Mã khách hàng (intnr) '%s' vượt quá độ dài cho phép (%d ký tự)", customer.Intnr, intnrMaxLength))
	}
	switch customer.Type {
	case crmmodels.CustomerTypePrivate, crmmodels.CustomerTypeCompany, crmmodels.CustomerTypeDealer:
	default:
		violations = append(violations, fmt.Sprintf("Loại khách hàng '%s' không hợp lệ (phải là PRIVATE, COMPANY hoặc DEALER)", customer.Type))
	}

	return violations
}

// ValidateContactPersonRow kiểm tra một người liên hệ, trả về danh sách vi phạm
// theo thứ tự (danh sách rỗng = hợp lệ). Không bao giờ thay đổi input.
// Chính sách: email và mobile_phone là tùy chọn nhưng phải đúng định dạng khi có.
func ValidateContactPersonRow(person crmmodels.ContactPerson) []string {
	var violations []string

	if person.FirstName == "" {
		violations = append(violations, "Họ (first_name) là bắt buộc")
	}
	if person.LastName == "" {
		violations = append(violations, "Tên (last_name) là bắt buộc")
	}
	if person.Email != "" && !emailRegex.MatchString(person.Email) {
		violations = append(violations, fmt.Sprintf("Email '%s' không đúng định dạng", person.Email))
	}
	if person.MobilePhone != "" && !mobileRegex.MatchString(person.MobilePhone) {
		violations = append(violations, fmt.Sprintf("Số di động '%s' không hợp lệ (chỉ chữ số, dài 7-15 ký tự)", person.MobilePhone))
	}
	if person.BirthDate != "" {
		if _, err := time.Parse("2006-01-02", person.BirthDate); err != nil {
			violations = append(violations, fmt.Sprintf("Ngày sinh '%s' không đúng định dạng YYYY-MM-DD", person.BirthDate))
		}
	}

	return violations
}

// ValidateAddressRow kiểm tra một địa chỉ import, trả về danh sách vi phạm theo
// thứ tự (danh sách rỗng = hợp lệ). Không bao giờ thay đổi input.
// Chính sách: trong đường bulk, company_name luôn bắt buộc; việc xóa các trường
// company với khách PRIVATE diễn ra ở bước reconcile, sau validate.
func ValidateAddressRow(addr crmmodels.Address) []string {
	var violations []string

	if addr.CompanyName == "" {
		violations = append(violations, "Tên công ty (company_name) là bắt buộc")
	}
	if addr.Country == "" {
		violations = append(violations, "Quốc gia (country) là bắt buộc")
	}
	if addr.City == "" {
		violations = append(violations, "Thành phố (city) là bắt buộc")
	}
	if addr.Zip == "" {
		violations = append(violations, "Mã bưu chính (zip) là bắt buộc")
	}
	if addr.Street == "" {
		violations = append(violations, "Tên đường (street) là bắt buộc")
	}
	if addr.Email != "" && !emailRegex.MatchString(addr.Email) {
		violations = append(violations, fmt.Sprintf("Email địa chỉ '%s' không đúng định dạng", addr.Email))
	}

	return violations
}

// contactPersonFromRow dựng ContactPerson từ các cột C–G của một dòng.
func contactPersonFromRow(row CsvRow) crmmodels.ContactPerson {
	return crmmodels.ContactPerson{
		FirstName:   row["C"],
		LastName:    row["D"],
		Email:       row["E"],
		MobilePhone: row["F"],
		BirthDate:   row["G"],
	}
}

// addressFromRow dựng Address từ các cột H–O của một dòng.
// ID được sinh ngay khi dựng, như đường tạo qua DTO, để contact person
// có thể tham chiếu address import từ CSV.
func addressFromRow(row CsvRow) crmmodels.Address {
	return crmmodels.Address{
		ID:          primitive.NewObjectID(),
		CompanyName: row["H"],
		Country:     row["I"],
		City:        row["J"],
		Zip:         row["K"],
		Fax:         row["L"],
		Phone:       row["M"],
		Street:      row["N"],
		Email:       row["O"],
	}
}
