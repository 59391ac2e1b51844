package main

import (
	"context"

	"crm_backend/config"
	"crm_backend/core/database"
	"crm_backend/core/global"
	authmodels "crm_backend/internal/api/auth/models"
	crmmodels "crm_backend/internal/api/crm/models"

	"github.com/sirupsen/logrus"
)

// Hàm khởi tạo các biến toàn cục
func InitGlobal() {
	initColNames()         // Khởi tạo tên các collection trong database
	initValidator()        // Khởi tạo validator
	initConfig()           // Khởi tạo cấu hình server
	initDatabase_MongoDB() // Khởi tạo kết nối database
}

// Hàm khởi tạo tên các collection trong database
func initColNames() {
	global.ColNames.Users = "auth_users"
	global.ColNames.Customers = "crm_customers"

	logrus.Info("Initialized collection names")
}

// Hàm khởi tạo validator (đăng ký custom validators: no_xss, customer_type, mobile_phone, birth_date, exists)
func initValidator() {
	global.InitValidator()
	logrus.Info("Initialized validator")
}

// Hàm khởi tạo cấu hình server
func initConfig() {
	global.ServerConfig = config.NewConfig()
	if global.ServerConfig == nil {
		logrus.Fatalf("Failed to initialize config: config is nil")
	}
	logrus.Info("Initialized server config")
}

// Hàm khởi tạo kết nối database
func initDatabase_MongoDB() {
	var err error
	global.MongoDB_Session, err = database.GetInstance(global.ServerConfig)
	if err != nil {
		logrus.Fatalf("Failed to get database instance: %v", err)
	}
	logrus.Info("Connected to MongoDB")

	// Khởi tạo các db và collections nếu chưa có
	if err := database.EnsureDatabaseAndCollections(global.MongoDB_Session); err != nil {
		logrus.Fatalf("Failed to ensure database and collections: %v", err)
	}
	logrus.Info("Ensured database and collections")

	// Khởi tạo các index cho các collection
	dbName := global.ServerConfig.MongoDB_DBName
	if err := database.CreateIndexes(context.TODO(), global.MongoDB_Session.Database(dbName).Collection(global.ColNames.Users), authmodels.User{}); err != nil {
		logrus.Errorf("Failed to create indexes for %s: %v", global.ColNames.Users, err)
	}
	if err := database.CreateIndexes(context.TODO(), global.MongoDB_Session.Database(dbName).Collection(global.ColNames.Customers), crmmodels.Customer{}); err != nil {
		logrus.Errorf("Failed to create indexes for %s: %v", global.ColNames.Customers, err)
	}
}
