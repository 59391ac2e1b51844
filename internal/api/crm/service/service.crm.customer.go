// Package crmsvc - service khách hàng (Customer).
package crmsvc

import (
	"context"
	"errors"
	"fmt"

	"crm_backend/core/common"
	"crm_backend/core/global"
	"crm_backend/core/logger"
	crmdto "crm_backend/internal/api/crm/dto"
	crmmodels "crm_backend/internal/api/crm/models"
	basesvc "crm_backend/internal/api/base/service"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CustomerService là cấu trúc chứa các phương thức liên quan đến khách hàng.
// Mọi thao tác nghiệp vụ đều khóa theo intnr (định danh nghiệp vụ), không theo _id.
type CustomerService struct {
	*basesvc.BaseServiceMongoImpl[crmmodels.Customer]
}

// NewCustomerService tạo mới CustomerService
func NewCustomerService() (*CustomerService, error) {
	customerCollection, exist := global.RegistryCollections.Get(global.ColNames.Customers)
	if !exist {
		return nil, fmt.Errorf("failed to get customers collection: %v", common.ErrNotFound)
	}

	return &CustomerService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[crmmodels.Customer](customerCollection),
	}, nil
}

// FindByIntnr tìm khách hàng theo định danh nghiệp vụ.
// Trả về common.ErrNotFound khi không tồn tại.
func (s *CustomerService) FindByIntnr(ctx context.Context, intnr string) (*crmmodels.Customer, error) {
	customer, err := s.BaseServiceMongoImpl.FindOne(ctx, bson.M{"intnr": intnr}, nil)
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

// Insert thêm mới một khách hàng. Unique index trên intnr là chốt chặn cuối
// với các ghi đồng thời cùng intnr.
func (s *CustomerService) Insert(ctx context.Context, customer *crmmodels.Customer) error {
	created, err := s.BaseServiceMongoImpl.InsertOne(ctx, *customer)
	if err != nil {
		return err
	}
	*customer = created
	return nil
}

// Replace ghi đè toàn bộ khách hàng (khóa theo intnr), cập nhật updatedAt.
func (s *CustomerService) Replace(ctx context.Context, customer *crmmodels.Customer) error {
	updateData := &basesvc.UpdateData{
		Set: map[string]interface{}{
			"type":            customer.Type,
			"contact_persons": customer.ContactPersons,
			"addresses":       customer.Addresses,
		},
	}
	updated, err := s.BaseServiceMongoImpl.UpdateOne(ctx, bson.M{"intnr": customer.Intnr}, updateData, nil)
	if err != nil {
		return err
	}
	*customer = updated
	return nil
}

// CreateCustomer tạo khách hàng từ DTO đã validate.
// Áp dụng PRIVATE strip, sinh id cho address và kiểm tra trùng intnr.
func (s *CustomerService) CreateCustomer(ctx context.Context, input *crmdto.CustomerCreateInput) (*crmmodels.Customer, error) {
	customer := buildCustomerFromInput(input)

	// Invariant: ít nhất một người liên hệ và một địa chỉ
	if len(customer.ContactPersons) == 0 || len(customer.Addresses) == 0 {
		return nil, common.NewError(
			common.ErrCodeValidationInput,
			"Khách hàng phải có ít nhất một người liên hệ và một địa chỉ",
			common.StatusBadRequest,
			nil,
		)
	}

	applyCustomerTypePolicy(customer)

	if err := s.Insert(ctx, customer); err != nil {
		if errors.Is(err, common.ErrMongoDuplicate) {
			return nil, common.NewError(
				common.ErrCodeBusinessReconcile,
				fmt.Sprintf("Khách hàng với intnr '%s' đã tồn tại", customer.Intnr),
				common.StatusConflict,
				nil,
			)
		}
		return nil, err
	}

	logger.GetAppLogger().WithFields(logrus.Fields{"intnr": customer.Intnr, "type": customer.Type}).Info("CreateCustomer: Tạo khách hàng thành công")
	return customer, nil
}

// UpdateByIntnr cập nhật một phần khách hàng theo intnr (intnr bất biến).
// PRIVATE strip được áp dụng lại trên toàn bộ addresses sau khi merge.
func (s *CustomerService) UpdateByIntnr(ctx context.Context, intnr string, input *crmdto.CustomerUpdateInput) (*crmmodels.Customer, error) {
	customer, err := s.FindByIntnr(ctx, intnr)
	if err != nil {
		return nil, err
	}

	if input.Type != "" {
		customer.Type = input.Type
	}
	if input.ContactPersons != nil {
		customer.ContactPersons = buildContactPersons(input.ContactPersons)
	}
	if input.Addresses != nil {
		customer.Addresses = buildAddresses(input.Addresses)
	}

	if len(customer.ContactPersons) == 0 || len(customer.Addresses) == 0 {
		return nil, common.NewError(
			common.ErrCodeValidationInput,
			"Khách hàng phải có ít nhất một người liên hệ và một địa chỉ",
			common.StatusBadRequest,
			nil,
		)
	}

	applyCustomerTypePolicy(customer)

	if err := s.Replace(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

// DeleteByIntnr xóa khách hàng theo intnr. Trả về common.ErrNotFound khi không tồn tại.
func (s *CustomerService) DeleteByIntnr(ctx context.Context, intnr string) error {
	return s.BaseServiceMongoImpl.DeleteOne(ctx, bson.M{"intnr": intnr})
}

// applyCustomerTypePolicy áp dụng chính sách theo loại khách hàng:
// PRIVATE không được giữ company_name/fax/phone/email trên address.
func applyCustomerTypePolicy(customer *crmmodels.Customer) {
	if customer.IsCompanyLike() {
		return
	}
	for i := range customer.Addresses {
		crmmodels.StripPrivateFields(&customer.Addresses[i])
	}
}

// buildCustomerFromInput dựng model Customer từ DTO tạo mới.
func buildCustomerFromInput(input *crmdto.CustomerCreateInput) *crmmodels.Customer {
	return &crmmodels.Customer{
		Intnr:          input.Intnr,
		Type:           input.Type,
		ContactPersons: buildContactPersons(input.ContactPersons),
		Addresses:      buildAddresses(input.Addresses),
	}
}

func buildContactPersons(inputs []crmdto.ContactPersonInput) []crmmodels.ContactPerson {
	persons := make([]crmmodels.ContactPerson, 0, len(inputs))
	for _, in := range inputs {
		person := crmmodels.ContactPerson{
			FirstName:   in.FirstName,
			LastName:    in.LastName,
			Email:       in.Email,
			MobilePhone: in.MobilePhone,
			BirthDate:   in.BirthDate,
		}
		if in.AddressID != "" && primitive.IsValidObjectID(in.AddressID) {
			addressID, err := primitive.ObjectIDFromHex(in.AddressID)
			if err == nil {
				person.AddressID = addressID
			}
		}
		persons = append(persons, person)
	}
	return persons
}

func buildAddresses(inputs []crmdto.AddressInput) []crmmodels.Address {
	addresses := make([]crmmodels.Address, 0, len(inputs))
	for _, in := range inputs {
		addresses = append(addresses, crmmodels.Address{
			ID:          primitive.NewObjectID(),
			CompanyName: in.CompanyName,
			Country:     in.Country,
			City:        in.City,
			Zip:         in.Zip,
			Fax:         in.Fax,
			Phone:       in.Phone,
			Street:      in.Street,
			Email:       in.Email,
		})
	}
	return addresses
}
