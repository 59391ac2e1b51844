// Package crmsvc - Test các helper dựng model và chính sách theo loại khách hàng.
package crmsvc

import (
	"testing"

	crmdto "crm_backend/internal/api/crm/dto"
	crmmodels "crm_backend/internal/api/crm/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestApplyCustomerTypePolicy(t *testing.T) {
	makeCustomer := func(typ string) *crmmodels.Customer {
		return &crmmodels.Customer{
			Type: typ,
			Addresses: []crmmodels.Address{
				{CompanyName: "Firma A", Fax: "030111", Phone: "030222", Email: "a@example.com", City: "Berlin"},
				{CompanyName: "Firma B", Fax: "040111", Phone: "040222", Email: "b@example.com", City: "Hamburg"},
			},
		}
	}

	t.Run("PRIVATE xóa các trường company trên mọi address", func(t *testing.T) {
		c := makeCustomer(crmmodels.CustomerTypePrivate)
		applyCustomerTypePolicy(c)
		for i, addr := range c.Addresses {
			if addr.CompanyName != "" || addr.Fax != "" || addr.Phone != "" || addr.Email != "" {
				t.Errorf("Address %d phải bị xóa company_name/fax/phone/email, got: %+v", i, addr)
			}
			if addr.City == "" {
				t.Errorf("Address %d phải giữ nguyên các trường khác", i)
			}
		}
	})

	t.Run("COMPANY giữ nguyên", func(t *testing.T) {
		c := makeCustomer(crmmodels.CustomerTypeCompany)
		applyCustomerTypePolicy(c)
		if c.Addresses[0].CompanyName != "Firma A" || c.Addresses[0].Fax != "030111" {
			t.Errorf("Khách COMPANY không được xóa trường company, got: %+v", c.Addresses[0])
		}
	})

	t.Run("DEALER giữ nguyên", func(t *testing.T) {
		c := makeCustomer(crmmodels.CustomerTypeDealer)
		applyCustomerTypePolicy(c)
		if c.Addresses[1].Email != "b@example.com" {
			t.Errorf("Khách DEALER không được xóa trường company, got: %+v", c.Addresses[1])
		}
	})
}

func TestBuildAddresses_SinhID(t *testing.T) {
	addresses := buildAddresses([]crmdto.AddressInput{
		{CompanyName: "Firma A", Country: "Germany", City: "Berlin", Zip: "10115", Street: "Musterstrasse 1"},
		{Country: "Germany", City: "Hamburg", Zip: "20095", Street: "Hafenstrasse 7"},
	})
	if len(addresses) != 2 {
		t.Fatalf("Phải dựng đủ 2 address, got %d", len(addresses))
	}
	for i, addr := range addresses {
		if addr.ID.IsZero() {
			t.Errorf("Address %d phải được sinh id để contact person tham chiếu", i)
		}
	}
	if addresses[0].ID == addresses[1].ID {
		t.Error("Mỗi address phải có id riêng")
	}
}

func TestBuildContactPersons_ThamChieuAddress(t *testing.T) {
	addressID := primitive.NewObjectID()
	persons := buildContactPersons([]crmdto.ContactPersonInput{
		{FirstName: "Max", LastName: "Mustermann", AddressID: addressID.Hex()},
		{FirstName: "John", LastName: "Doe", AddressID: "không-phải-objectid"},
		{FirstName: "Jane", LastName: "Smith"},
	})
	if len(persons) != 3 {
		t.Fatalf("Phải dựng đủ 3 người liên hệ, got %d", len(persons))
	}
	if persons[0].AddressID != addressID {
		t.Errorf("AddressID hợp lệ phải được giữ, got: %s", persons[0].AddressID.Hex())
	}
	if !persons[1].AddressID.IsZero() {
		t.Error("AddressID không hợp lệ phải bị bỏ qua, không gây lỗi")
	}
	if !persons[2].AddressID.IsZero() {
		t.Error("AddressID trống phải để zero")
	}
}

func TestIsCompanyLike(t *testing.T) {
	tests := []struct {
		typ  string
		want bool
	}{
		{crmmodels.CustomerTypeCompany, true},
		{crmmodels.CustomerTypeDealer, true},
		{crmmodels.CustomerTypePrivate, false},
		{"", false},
	}
	for _, tt := range tests {
		c := &crmmodels.Customer{Type: tt.typ}
		if got := c.IsCompanyLike(); got != tt.want {
			t.Errorf("IsCompanyLike(%q) = %v, muốn %v", tt.typ, got, tt.want)
		}
	}
}
