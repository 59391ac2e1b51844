// Package crmmodels - model khách hàng (Customer) và các thành phần nhúng.
package crmmodels

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Các loại khách hàng được hỗ trợ
const (
	CustomerTypePrivate = "PRIVATE"
	CustomerTypeCompany = "COMPANY"
	CustomerTypeDealer  = "DEALER"
)

// ContactPerson người liên hệ, nhúng trong Customer (không có vòng đời riêng).
// AddressID là tham chiếu yếu tới một address nhúng trong cùng customer.
type ContactPerson struct {
	FirstName   string             `json:"first_name" bson:"first_name"`
	LastName    string             `json:"last_name" bson:"last_name"`
	Email       string             `json:"email,omitempty" bson:"email,omitempty"`
	MobilePhone string             `json:"mobile_phone,omitempty" bson:"mobile_phone,omitempty"`
	BirthDate   string             `json:"birth_date,omitempty" bson:"birth_date,omitempty"`
	AddressID   primitive.ObjectID `json:"address_id,omitempty" bson:"address_id,omitempty"`
}

// Address địa chỉ, nhúng trong Customer.
// ID được sinh khi thêm vào customer để ContactPerson có thể tham chiếu.
// Với khách hàng loại PRIVATE, các trường company_name/fax/phone/email bị xóa
// trên mọi đường ghi.
type Address struct {
	ID          primitive.ObjectID `json:"id,omitempty" bson:"id,omitempty"`
	CompanyName string             `json:"company_name,omitempty" bson:"company_name,omitempty"`
	Country     string             `json:"country,omitempty" bson:"country,omitempty"`
	City        string             `json:"city,omitempty" bson:"city,omitempty"`
	Zip         string             `json:"zip,omitempty" bson:"zip,omitempty"`
	Fax         string             `json:"fax,omitempty" bson:"fax,omitempty"`
	Phone       string             `json:"phone,omitempty" bson:"phone,omitempty"`
	Street      string             `json:"street,omitempty" bson:"street,omitempty"`
	Email       string             `json:"email,omitempty" bson:"email,omitempty"`
}

// Customer aggregate root, định danh nghiệp vụ là intnr (khác với _id của Mongo).
// Invariant sau khi tạo: có ít nhất một ContactPerson và một Address.
type Customer struct {
	ID             primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Intnr          string             `json:"intnr" bson:"intnr" index:"unique"`
	Type           string             `json:"type" bson:"type"`
	ContactPersons []ContactPerson    `json:"contact_persons" bson:"contact_persons"`
	Addresses      []Address          `json:"addresses" bson:"addresses"`
	CreatedAt      int64              `json:"createdAt" bson:"createdAt"`
	UpdatedAt      int64              `json:"updatedAt" bson:"updatedAt"`
}

// IsCompanyLike cho biết customer có được giữ các trường company của address không.
// Chỉ COMPANY và DEALER được giữ company_name/fax/phone/email.
func (c *Customer) IsCompanyLike() bool {
	return c.Type == CustomerTypeCompany || c.Type == CustomerTypeDealer
}

// StripPrivateFields xóa các trường chỉ có nghĩa với COMPANY/DEALER khỏi address.
func StripPrivateFields(addr *Address) {
	addr.CompanyName = ""
	addr.Fax = ""
	addr.Phone = ""
	addr.Email = ""
}

// CustomerPaginateResult đại diện cho kết quả phân trang Customer
type CustomerPaginateResult struct {
	Page      int64      `json:"page" bson:"page"`
	Limit     int64      `json:"limit" bson:"limit"`
	ItemCount int64      `json:"itemCount" bson:"itemCount"`
	Items     []Customer `json:"items" bson:"items"`
}
