// Package crmsvc - Test phân loại và validate các dòng CSV import.
package crmsvc

import (
	"errors"
	"strings"
	"testing"

	crmmodels "crm_backend/internal/api/crm/models"
)

// fullRow dòng đủ 15 cột A–O (file customer)
func fullRow() CsvRow {
	return CsvRow{
		"A": "A001", "B": "COMPANY",
		"C": "Max", "D": "Mustermann", "E": "max@example.com", "F": "01751234567", "G": "1990-01-15",
		"H": "Musterfirma GmbH", "I": "Germany", "J": "Berlin", "K": "10115",
		"L": "030111222", "M": "030111223", "N": "Musterstrasse 1", "O": "office@example.com",
	}
}

func TestClassifyRow(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(CsvRow)
		want    FileType
		wantErr bool
	}{
		{name: "đủ A-O là customer", mutate: func(CsvRow) {}, want: FileTypeCustomer},
		{
			name: "A và C-G là contactPerson",
			mutate: func(r CsvRow) {
				for _, col := range []string{"B", "H", "I", "J", "K", "L", "M", "N", "O"} {
					r[col] = ""
				}
			},
			want: FileTypeContactPerson,
		},
		{
			name: "A và H-O là address",
			mutate: func(r CsvRow) {
				for _, col := range []string{"B", "C", "D", "E", "F", "G"} {
					r[col] = ""
				}
			},
			want: FileTypeAddress,
		},
		{
			name:    "thiếu intnr thì không nhận dạng được",
			mutate:  func(r CsvRow) { r["A"] = "" },
			wantErr: true,
		},
		{
			name: "chỉ có A và B thì không nhận dạng được",
			mutate: func(r CsvRow) {
				for _, col := range []string{"C", "D", "E", "F", "G", "H", "I", "J", "K", "L", "M", "N", "O"} {
					r[col] = ""
				}
			},
			wantErr: true,
		},
		{
			name: "contactPerson thiếu cột G thì không nhận dạng được",
			mutate: func(r CsvRow) {
				for _, col := range []string{"B", "G", "H", "I", "J", "K", "L", "M", "N", "O"} {
					r[col] = ""
				}
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := fullRow()
			tt.mutate(row)
			got, err := ClassifyRow(row)
			if tt.wantErr {
				if !errors.Is(err, ErrUnrecognizedFileType) {
					t.Fatalf("ClassifyRow phải trả về ErrUnrecognizedFileType, got: %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ClassifyRow trả về lỗi không mong đợi: %v", err)
			}
			if got != tt.want {
				t.Errorf("ClassifyRow = %s, muốn %s", got, tt.want)
			}
		})
	}
}

func TestClassifyRow_FullRowUuTienCustomer(t *testing.T) {
	// Một dòng đủ A-O cũng thỏa điều kiện contactPerson và address,
	// nhưng khớp đầu tiên (customer) phải thắng.
	got, err := ClassifyRow(fullRow())
	if err != nil {
		t.Fatalf("ClassifyRow trả về lỗi không mong đợi: %v", err)
	}
	if got != FileTypeCustomer {
		t.Errorf("ClassifyRow = %s, dòng đủ cột phải là customer", got)
	}
}

func TestValidateCustomerRow(t *testing.T) {
	valid := &crmmodels.Customer{Intnr: "A001", Type: crmmodels.CustomerTypeCompany}
	if v := ValidateCustomerRow(valid); len(v) != 0 {
		t.Fatalf("Customer hợp lệ không được có vi phạm, got: %v", v)
	}

	tests := []struct {
		name     string
		customer *crmmodels.Customer
		want     string
	}{
		{
			name:     "intnr quá dài",
			customer: &crmmodels.Customer{Intnr: "ABCDEFGHIJK", Type: crmmodels.CustomerTypePrivate},
			want:     "vượt quá độ dài cho phép",
		},
		{
			name:     "type ngoài enum",
			customer: &crmmodels.Customer{Intnr: "A001", Type: "FOO"},
			want:     "Loại khách hàng",
		},
		{
			name:     "type rỗng",
			customer: &crmmodels.Customer{Intnr: "A001"},
			want:     "Loại khách hàng",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			violations := ValidateCustomerRow(tt.customer)
			if len(violations) == 0 {
				t.Fatal("Phải có ít nhất một vi phạm")
			}
			found := false
			for _, v := range violations {
				if strings.Contains(v, tt.want) {
					found = true
				}
			}
			if !found {
				t.Errorf("Vi phạm phải chứa '%s', got: %v", tt.want, violations)
			}
		})
	}

	// Vi phạm cả hai ràng buộc thì báo đủ cả hai
	both := &crmmodels.Customer{Intnr: "ABCDEFGHIJKLMNOPQRSTUVWXY", Type: "FOO"}
	if violations := ValidateCustomerRow(both); len(violations) != 2 {
		t.Errorf("intnr dài và type sai phải có 2 vi phạm, got: %v", violations)
	}
}

func TestValidateContactPersonRow(t *testing.T) {
	valid := crmmodels.ContactPerson{
		FirstName:   "Max",
		LastName:    "Mustermann",
		Email:       "max@example.com",
		MobilePhone: "01751234567",
		BirthDate:   "1990-01-15",
	}
	if v := ValidateContactPersonRow(valid); len(v) != 0 {
		t.Fatalf("Người liên hệ hợp lệ không được có vi phạm, got: %v", v)
	}

	// Email và mobile là tùy chọn: bỏ trống vẫn hợp lệ
	optional := crmmodels.ContactPerson{FirstName: "Max", LastName: "Mustermann"}
	if v := ValidateContactPersonRow(optional); len(v) != 0 {
		t.Fatalf("Email/mobile trống phải hợp lệ, got: %v", v)
	}

	tests := []struct {
		name   string
		person crmmodels.ContactPerson
		want   string
	}{
		{
			name:   "thiếu first_name",
			person: crmmodels.ContactPerson{LastName: "Mustermann"},
			want:   "first_name",
		},
		{
			name:   "thiếu last_name",
			person: crmmodels.ContactPerson{FirstName: "Max"},
			want:   "last_name",
		},
		{
			name:   "email sai định dạng",
			person: crmmodels.ContactPerson{FirstName: "Max", LastName: "Mustermann", Email: "không-phải-email"},
			want:   "không đúng định dạng",
		},
		{
			name:   "mobile chứa chữ",
			person: crmmodels.ContactPerson{FirstName: "Max", LastName: "Mustermann", MobilePhone: "0175abc"},
			want:   "Số di động",
		},
		{
			name:   "mobile quá ngắn",
			person: crmmodels.ContactPerson{FirstName: "Max", LastName: "Mustermann", MobilePhone: "123"},
			want:   "Số di động",
		},
		{
			name:   "ngày sinh sai định dạng",
			person: crmmodels.ContactPerson{FirstName: "Max", LastName: "Mustermann", BirthDate: "15.01.1990"},
			want:   "YYYY-MM-DD",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			violations := ValidateContactPersonRow(tt.person)
			if len(violations) == 0 {
				t.Fatal("Phải có ít nhất một vi phạm")
			}
			found := false
			for _, v := range violations {
				if strings.Contains(v, tt.want) {
					found = true
				}
			}
			if !found {
				t.Errorf("Vi phạm phải chứa '%s', got: %v", tt.want, violations)
			}
		})
	}
}

func TestValidateAddressRow(t *testing.T) {
	valid := crmmodels.Address{
		CompanyName: "Musterfirma GmbH",
		Country:     "Germany",
		City:        "Berlin",
		Zip:         "10115",
		Street:      "Musterstrasse 1",
		Email:       "office@example.com",
	}
	if v := ValidateAddressRow(valid); len(v) != 0 {
		t.Fatalf("Địa chỉ hợp lệ không được có vi phạm, got: %v", v)
	}

	// Thiếu cả 5 trường bắt buộc thì phải báo đủ 5 vi phạm
	violations := ValidateAddressRow(crmmodels.Address{})
	if len(violations) != 5 {
		t.Errorf("Địa chỉ rỗng phải có 5 vi phạm, got %d: %v", len(violations), violations)
	}

	withBadEmail := valid
	withBadEmail.Email = "sai@định@dạng"
	violations = ValidateAddressRow(withBadEmail)
	if len(violations) != 1 || !strings.Contains(violations[0], "không đúng định dạng") {
		t.Errorf("Email sai định dạng phải có đúng một vi phạm, got: %v", violations)
	}
}

func TestContactPersonFromRow(t *testing.T) {
	person := contactPersonFromRow(fullRow())
	if person.FirstName != "Max" || person.LastName != "Mustermann" {
		t.Errorf("Map cột C-D sai: %+v", person)
	}
	if person.Email != "max@example.com" || person.MobilePhone != "01751234567" || person.BirthDate != "1990-01-15" {
		t.Errorf("Map cột E-G sai: %+v", person)
	}
}

func TestAddressFromRow(t *testing.T) {
	addr := addressFromRow(fullRow())
	if addr.CompanyName != "Musterfirma GmbH" || addr.Country != "Germany" || addr.City != "Berlin" {
		t.Errorf("Map cột H-J sai: %+v", addr)
	}
	if addr.Zip != "10115" || addr.Fax != "030111222" || addr.Phone != "030111223" {
		t.Errorf("Map cột K-M sai: %+v", addr)
	}
	if addr.Street != "Musterstrasse 1" || addr.Email != "office@example.com" {
		t.Errorf("Map cột N-O sai: %+v", addr)
	}
	if addr.ID.IsZero() {
		t.Error("Address từ CSV phải được sinh id để contact person tham chiếu")
	}
}
