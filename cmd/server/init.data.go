package main

import (
	"context"
	"errors"

	"crm_backend/core/common"
	"crm_backend/core/global"
	"crm_backend/core/logger"
	authdto "crm_backend/internal/api/auth/dto"
	authsvc "crm_backend/internal/api/auth/service"

	"go.mongodb.org/mongo-driver/bson"
)

// Danh sách user mặc định được tạo khi chạy với INITMODE=true và collection users còn trống.
var defaultUsers = []authdto.UserCreateInput{
	{FirstName: "Max", LastName: "Mustermann", Email: "user1@example.com", Password: "password1"},
	{FirstName: "John", LastName: "Doe", Email: "user2@example.com", Password: "password2"},
	{FirstName: "Jane", LastName: "Smith", Email: "user3@example.com", Password: "password3"},
}

func InitDefaultData() {
	log := logger.GetAppLogger()

	if !global.ServerConfig.InitMode {
		log.Info("[INIT] INITMODE disabled, skipping default data")
		return
	}

	log.Info("🔄 [INIT] Starting InitDefaultData...")

	userService, err := authsvc.NewUserService()
	if err != nil {
		log.Fatalf("Failed to initialize user service: %v", err)
	}

	ctx := context.TODO()

	// Chỉ seed khi collection users còn trống để tránh ghi đè dữ liệu thật
	count, err := userService.CountDocuments(ctx, bson.M{})
	if err != nil {
		log.Fatalf("Failed to count users: %v", err)
	}
	if count > 0 {
		log.Infof("[INIT] Users collection already has %d documents, skipping seed", count)
		return
	}

	for _, input := range defaultUsers {
		in := input
		user, err := userService.CreateUser(ctx, &in)
		if err != nil {
			log.Warnf("[INIT] Failed to create default user %s: %v", in.Email, err)
			continue
		}
		log.Infof("[INIT] Created default user %s (ID: %s)", user.Email, user.ID.Hex())
	}

	// Tạo admin tùy chọn từ cấu hình (nếu có)
	if global.ServerConfig.AdminEmail != "" && global.ServerConfig.AdminPassword != "" {
		adminInput := authdto.UserCreateInput{
			FirstName: "System",
			LastName:  "Admin",
			Email:     global.ServerConfig.AdminEmail,
			Password:  global.ServerConfig.AdminPassword,
		}
		if _, err := userService.CreateUser(ctx, &adminInput); err != nil {
			var cErr *common.Error
			if errors.As(err, &cErr) && cErr.StatusCode == common.StatusConflict {
				log.Infof("[INIT] Admin user %s already exists", adminInput.Email)
			} else {
				log.Warnf("[INIT] Failed to create admin user: %v", err)
			}
		} else {
			log.Infof("[INIT] Created admin user %s", adminInput.Email)
		}
	}

	log.Info("✅ [INIT] InitDefaultData completed successfully")
}
