// Package crmdto - các DTO cho domain crm.
package crmdto

// ContactPersonInput đầu vào cho một người liên hệ nhúng.
type ContactPersonInput struct {
	FirstName   string `json:"first_name" validate:"required" maxLength:"50"`
	LastName    string `json:"last_name" validate:"required" maxLength:"50"`
	Email       string `json:"email" validate:"omitempty,email" maxLength:"50"`
	MobilePhone string `json:"mobile_phone" validate:"mobile_phone"`
	BirthDate   string `json:"birth_date" validate:"birth_date"`
	AddressID   string `json:"address_id" validate:"omitempty"`
}

// AddressInput đầu vào cho một địa chỉ nhúng.
type AddressInput struct {
	CompanyName string `json:"company_name" maxLength:"50"`
	Country     string `json:"country" validate:"required" maxLength:"50"`
	City        string `json:"city" validate:"required" maxLength:"50"`
	Zip         string `json:"zip" validate:"required" maxLength:"5"`
	Fax         string `json:"fax" maxLength:"20"`
	Phone       string `json:"phone" maxLength:"20"`
	Street      string `json:"street" validate:"required" maxLength:"100"`
	Email       string `json:"email" validate:"omitempty,email" maxLength:"50"`
}

// CustomerCreateInput đầu vào tạo khách hàng.
// Bắt buộc có ít nhất một người liên hệ và một địa chỉ.
type CustomerCreateInput struct {
	Intnr          string               `json:"intnr" validate:"required" maxLength:"10"`
	Type           string               `json:"type" validate:"required,customer_type"`
	ContactPersons []ContactPersonInput `json:"contact_persons" validate:"required,min=1,dive"`
	Addresses      []AddressInput       `json:"addresses" validate:"required,min=1,dive"`
}

// CustomerUpdateInput đầu vào cập nhật khách hàng (partial update, intnr bất biến).
type CustomerUpdateInput struct {
	Type           string               `json:"type" validate:"omitempty,customer_type"`
	ContactPersons []ContactPersonInput `json:"contact_persons" validate:"omitempty,min=1,dive"`
	Addresses      []AddressInput       `json:"addresses" validate:"omitempty,min=1,dive"`
}
