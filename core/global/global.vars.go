package global

import (
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/mongo"

	"crm_backend/config"
	"crm_backend/core/registry"
)

// CollectionName chứa tên các collection trong MongoDB
type CollectionName struct {
	Users     string // Tên collection cho người dùng
	Customers string // Tên collection cho khách hàng CRM
}

// Các biến toàn cục
var Validate *validator.Validate                // Biến để xác thực dữ liệu
var MongoDB_Session *mongo.Client               // Phiên kết nối tới MongoDB
var ServerConfig *config.Configuration          // Cấu hình của server
var ColNames CollectionName = *new(CollectionName) // Tên các collection

// Các Registry
var RegistryCollections = registry.NewRegistry[*mongo.Collection]() // Registry chứa các collections
var RegistryDatabase = registry.NewRegistry[*mongo.Database]()      // Registry chứa các databases
