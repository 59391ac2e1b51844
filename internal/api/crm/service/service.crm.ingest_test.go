// Package crmsvc - Test pipeline import CSV với store giả trong bộ nhớ.
package crmsvc

import (
	"context"
	"errors"
	"strings"
	"testing"

	"crm_backend/core/common"
	crmmodels "crm_backend/internal/api/crm/models"
)

// fakeCustomerStore store trong bộ nhớ, khóa theo intnr, ghi lại thứ tự insert.
type fakeCustomerStore struct {
	customers map[string]*crmmodels.Customer
	inserted  []string
	replaced  []string
}

func newFakeStore() *fakeCustomerStore {
	return &fakeCustomerStore{customers: make(map[string]*crmmodels.Customer)}
}

func (f *fakeCustomerStore) FindByIntnr(ctx context.Context, intnr string) (*crmmodels.Customer, error) {
	c, ok := f.customers[intnr]
	if !ok {
		return nil, common.ErrNotFound
	}
	clone := *c
	return &clone, nil
}

func (f *fakeCustomerStore) Insert(ctx context.Context, customer *crmmodels.Customer) error {
	f.customers[customer.Intnr] = customer
	f.inserted = append(f.inserted, customer.Intnr)
	return nil
}

func (f *fakeCustomerStore) Replace(ctx context.Context, customer *crmmodels.Customer) error {
	f.customers[customer.Intnr] = customer
	f.replaced = append(f.replaced, customer.Intnr)
	return nil
}

// customerLine một dòng customer đủ 15 cột, thay được intnr/type
func customerLine(intnr, typ string) string {
	return intnr + "," + typ + ",Max,Mustermann,max@example.com,01751234567,1990-01-15," +
		"Musterfirma GmbH,Germany,Berlin,10115,030111222,030111223,Musterstrasse 1,office@example.com"
}

// contactLine một dòng contactPerson (A + C-G, các cột khác rỗng)
func contactLine(intnr, firstName string) string {
	return intnr + ",," + firstName + ",Doe,john@example.com,01759876543,1985-06-20,,,,,,,,"
}

// addressLine một dòng address (A + H-O, các cột khác rỗng)
func addressLine(intnr string) string {
	return intnr + ",,,,,,,Zweigstelle AG,Germany,Hamburg,20095,040111222,040111223,Hafenstrasse 7,branch@example.com"
}

func seedCustomer(store *fakeCustomerStore, intnr, typ string) {
	store.customers[intnr] = &crmmodels.Customer{
		Intnr: intnr,
		Type:  typ,
		ContactPersons: []crmmodels.ContactPerson{
			{FirstName: "Max", LastName: "Mustermann"},
		},
		Addresses: []crmmodels.Address{
			{Country: "Germany", City: "Berlin", Zip: "10115", Street: "Musterstrasse 1"},
		},
	}
}

func TestIngestCustomers_ThanhCong(t *testing.T) {
	store := newFakeStore()
	csv := customerLine("A001", "COMPANY") + "\n" + customerLine("A002", "PRIVATE")

	report, err := ingestCustomers(context.Background(), store, strings.NewReader(csv))
	if err != nil {
		t.Fatalf("ingestCustomers trả về lỗi: %v", err)
	}
	if !report.Ok() {
		t.Fatalf("Batch hợp lệ phải Ok, got: %+v", report)
	}
	if report.Processed != 2 || report.Persisted != 2 {
		t.Errorf("Processed/Persisted = %d/%d, muốn 2/2", report.Processed, report.Persisted)
	}
	if len(store.inserted) != 2 || store.inserted[0] != "A001" || store.inserted[1] != "A002" {
		t.Errorf("Thứ tự insert phải theo thứ tự file, got: %v", store.inserted)
	}
}

func TestIngestCustomers_HeaderDuocBoQua(t *testing.T) {
	store := newFakeStore()
	csv := "A,B,C,D,E,F,G,H,I,J,K,L,M,N,O\n" + customerLine("A001", "COMPANY")

	report, err := ingestCustomers(context.Background(), store, strings.NewReader(csv))
	if err != nil {
		t.Fatalf("ingestCustomers trả về lỗi: %v", err)
	}
	if report.Processed != 1 || report.Persisted != 1 {
		t.Errorf("Header phải bị bỏ qua, Processed/Persisted = %d/%d, muốn 1/1", report.Processed, report.Persisted)
	}
}

func TestIngestCustomers_ViPhamHuyCaBatch(t *testing.T) {
	store := newFakeStore()
	badLine := "A002,COMPANY,Max,Mustermann,email-hỏng,01751234567,1990-01-15," +
		"Musterfirma GmbH,Germany,Berlin,10115,030111222,030111223,Musterstrasse 1,office@example.com"
	csv := customerLine("A001", "COMPANY") + "\n" + badLine

	report, err := ingestCustomers(context.Background(), store, strings.NewReader(csv))
	if err != nil {
		t.Fatalf("ingestCustomers trả về lỗi: %v", err)
	}
	if len(report.Violations) != 1 {
		t.Fatalf("Phải có đúng 1 vi phạm, got: %+v", report.Violations)
	}
	if report.Violations[0].Intnr != "A002" {
		t.Errorf("Vi phạm phải thuộc dòng A002, got: %s", report.Violations[0].Intnr)
	}
	// All-or-nothing: dòng hợp lệ A001 cũng không được ghi
	if report.Persisted != 0 || len(store.inserted) != 0 {
		t.Errorf("Batch có vi phạm không được ghi gì, Persisted=%d, inserted=%v", report.Persisted, store.inserted)
	}
}

func TestIngestCustomers_IntnrDaiVaTypeSaiBiChan(t *testing.T) {
	store := newFakeStore()
	csv := customerLine("ABCDEFGHIJKLMNOPQRSTUVWXY", "FOO")

	report, err := ingestCustomers(context.Background(), store, strings.NewReader(csv))
	if err != nil {
		t.Fatalf("ingestCustomers trả về lỗi: %v", err)
	}
	if len(report.Violations) != 1 {
		t.Fatalf("Dòng vi phạm ràng buộc intnr/type phải bị báo, got: %+v", report)
	}
	if len(report.Violations[0].Errors) != 2 {
		t.Errorf("Phải báo cả vi phạm intnr và type, got: %v", report.Violations[0].Errors)
	}
	if report.Persisted != 0 || len(store.inserted) != 0 {
		t.Errorf("Dòng vi phạm ràng buộc không được ghi, Persisted=%d, inserted=%v", report.Persisted, store.inserted)
	}
}

func TestIngestCustomers_TrungIntnrGiuCacDongTruoc(t *testing.T) {
	store := newFakeStore()
	seedCustomer(store, "A002", "COMPANY")
	csv := customerLine("A001", "COMPANY") + "\n" + customerLine("A002", "COMPANY") + "\n" + customerLine("A003", "COMPANY")

	report, err := ingestCustomers(context.Background(), store, strings.NewReader(csv))
	if err != nil {
		t.Fatalf("ingestCustomers trả về lỗi: %v", err)
	}
	if len(report.Conflicts) != 1 || report.Conflicts[0].Intnr != "A002" {
		t.Fatalf("Phải có đúng 1 xung đột cho A002, got: %+v", report.Conflicts)
	}
	// Best-effort: A001 (trước xung đột) và A003 (sau xung đột) đều được giữ
	if report.Persisted != 2 {
		t.Errorf("Persisted = %d, muốn 2", report.Persisted)
	}
	if len(store.inserted) != 2 || store.inserted[0] != "A001" || store.inserted[1] != "A003" {
		t.Errorf("Inserted phải là [A001 A003], got: %v", store.inserted)
	}
}

func TestIngestCustomers_PrivateXoaTruongCompany(t *testing.T) {
	store := newFakeStore()
	csv := customerLine("A001", "PRIVATE")

	if _, err := ingestCustomers(context.Background(), store, strings.NewReader(csv)); err != nil {
		t.Fatalf("ingestCustomers trả về lỗi: %v", err)
	}

	saved := store.customers["A001"]
	if saved == nil {
		t.Fatal("Customer A001 phải được ghi")
	}
	addr := saved.Addresses[0]
	if addr.CompanyName != "" || addr.Fax != "" || addr.Phone != "" || addr.Email != "" {
		t.Errorf("Khách PRIVATE phải bị xóa company_name/fax/phone/email, got: %+v", addr)
	}
	if addr.Country != "Germany" || addr.Street != "Musterstrasse 1" {
		t.Errorf("Các trường địa chỉ khác phải được giữ nguyên, got: %+v", addr)
	}
}

func TestIngestCustomers_SaiLoaiFile(t *testing.T) {
	store := newFakeStore()
	// File contactPerson đưa vào endpoint customer
	csv := contactLine("A001", "John")

	_, err := ingestCustomers(context.Background(), store, strings.NewReader(csv))
	if err == nil {
		t.Fatal("Sai loại file phải trả về lỗi")
	}
	var cErr *common.Error
	if !errors.As(err, &cErr) || cErr.Code.Code != common.ErrCodeValidationCSV.Code {
		t.Errorf("Lỗi phải mang mã VAL_003, got: %v", err)
	}
	if len(store.inserted) != 0 {
		t.Errorf("Sai loại file không được ghi gì, inserted: %v", store.inserted)
	}
}

func TestIngestCustomers_FileRong(t *testing.T) {
	store := newFakeStore()
	_, err := ingestCustomers(context.Background(), store, strings.NewReader("A,B,C,D,E,F,G,H,I,J,K,L,M,N,O\n"))
	if err == nil {
		t.Fatal("File chỉ có header phải trả về lỗi")
	}
}

func TestIngestContactPersons_AppendVaBaoThieuIntnr(t *testing.T) {
	store := newFakeStore()
	seedCustomer(store, "A001", "COMPANY")
	csv := contactLine("A001", "John") + "\n" + contactLine("A999", "Jane")

	report, err := ingestContactPersons(context.Background(), store, strings.NewReader(csv))
	if err != nil {
		t.Fatalf("ingestContactPersons trả về lỗi: %v", err)
	}
	if report.Persisted != 1 {
		t.Errorf("Persisted = %d, muốn 1", report.Persisted)
	}
	if len(report.Conflicts) != 1 || report.Conflicts[0].Intnr != "A999" {
		t.Fatalf("Intnr không tồn tại phải được báo xung đột, got: %+v", report.Conflicts)
	}
	if !strings.Contains(report.Conflicts[0].Message, "Không tìm thấy khách hàng") {
		t.Errorf("Message xung đột sai: %s", report.Conflicts[0].Message)
	}

	saved := store.customers["A001"]
	if len(saved.ContactPersons) != 2 {
		t.Fatalf("A001 phải có 2 người liên hệ, got %d", len(saved.ContactPersons))
	}
	if saved.ContactPersons[1].FirstName != "John" {
		t.Errorf("Người liên hệ mới phải được append cuối, got: %+v", saved.ContactPersons[1])
	}
	// Không tạo customer mới cho intnr không tồn tại
	if _, ok := store.customers["A999"]; ok {
		t.Error("Không được tạo customer mới cho intnr không tồn tại")
	}
}

func TestIngestContactPersons_ViPhamHuyCaBatch(t *testing.T) {
	store := newFakeStore()
	seedCustomer(store, "A001", "COMPANY")
	// Dòng thứ hai thiếu last_name (cột D)
	csv := contactLine("A001", "John") + "\nA001,,Jane,,jane@example.com,01759876543,1985-06-20,,,,,,,,"

	report, err := ingestContactPersons(context.Background(), store, strings.NewReader(csv))
	if err != nil {
		t.Fatalf("ingestContactPersons trả về lỗi: %v", err)
	}
	if len(report.Violations) != 1 || report.Persisted != 0 {
		t.Errorf("Batch có vi phạm không được ghi gì, got: %+v", report)
	}
	if len(store.customers["A001"].ContactPersons) != 1 {
		t.Error("Customer A001 không được thay đổi khi batch bị hủy")
	}
}

func TestIngestAddresses_CompanyGiuNguyenTruong(t *testing.T) {
	store := newFakeStore()
	seedCustomer(store, "A001", "COMPANY")

	report, err := ingestAddresses(context.Background(), store, strings.NewReader(addressLine("A001")))
	if err != nil {
		t.Fatalf("ingestAddresses trả về lỗi: %v", err)
	}
	if report.Persisted != 1 {
		t.Fatalf("Persisted = %d, muốn 1", report.Persisted)
	}

	saved := store.customers["A001"]
	if len(saved.Addresses) != 2 {
		t.Fatalf("A001 phải có 2 địa chỉ, got %d", len(saved.Addresses))
	}
	addr := saved.Addresses[1]
	if addr.CompanyName != "Zweigstelle AG" || addr.Fax != "040111222" || addr.Phone != "040111223" || addr.Email != "branch@example.com" {
		t.Errorf("Khách COMPANY phải giữ nguyên các trường company, got: %+v", addr)
	}
	if addr.ID.IsZero() {
		t.Error("Address import từ CSV phải có id để contact person tham chiếu")
	}
}

func TestIngestAddresses_PrivateXoaTruongCompany(t *testing.T) {
	store := newFakeStore()
	seedCustomer(store, "A001", "PRIVATE")

	if _, err := ingestAddresses(context.Background(), store, strings.NewReader(addressLine("A001"))); err != nil {
		t.Fatalf("ingestAddresses trả về lỗi: %v", err)
	}

	addr := store.customers["A001"].Addresses[1]
	if addr.CompanyName != "" || addr.Fax != "" || addr.Phone != "" || addr.Email != "" {
		t.Errorf("Khách PRIVATE phải bị xóa company_name/fax/phone/email, got: %+v", addr)
	}
	if addr.Country != "Germany" || addr.City != "Hamburg" || addr.Zip != "20095" || addr.Street != "Hafenstrasse 7" {
		t.Errorf("Các trường địa chỉ khác phải được giữ nguyên, got: %+v", addr)
	}
}

func TestIngestAddresses_ThieuIntnrBaoXungDot(t *testing.T) {
	store := newFakeStore()
	report, err := ingestAddresses(context.Background(), store, strings.NewReader(addressLine("A999")))
	if err != nil {
		t.Fatalf("ingestAddresses trả về lỗi: %v", err)
	}
	if len(report.Conflicts) != 1 || report.Conflicts[0].Intnr != "A999" {
		t.Fatalf("Intnr không tồn tại phải được báo xung đột, got: %+v", report.Conflicts)
	}
	if report.Persisted != 0 {
		t.Errorf("Persisted = %d, muốn 0", report.Persisted)
	}
}
