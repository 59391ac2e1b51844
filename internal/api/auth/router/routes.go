// Package authrouter đăng ký các route thuộc domain auth.
package authrouter

import (
	"fmt"

	"github.com/gofiber/fiber/v3"

	authhdl "crm_backend/internal/api/auth/handler"
	"crm_backend/internal/api/middleware"
	apirouter "crm_backend/internal/api/router"
)

// Register đăng ký tất cả route auth (login, logout, profile, admin) lên v1.
func Register(v1 fiber.Router, r *apirouter.Router) error {
	userHandler, err := authhdl.NewUserHandler()
	if err != nil {
		return fmt.Errorf("failed to create user handler: %w", err)
	}

	// Login không cần xác thực
	v1.Post("/auth/login", userHandler.HandleLogin)

	authOnlyMiddleware := middleware.AuthMiddleware()
	apirouter.RegisterRouteWithMiddleware(v1, "/auth", "POST", "/logout", []fiber.Handler{authOnlyMiddleware}, userHandler.HandleLogout)
	apirouter.RegisterRouteWithMiddleware(v1, "/auth", "GET", "/me", []fiber.Handler{authOnlyMiddleware}, userHandler.HandleGetProfile)
	apirouter.RegisterRouteWithMiddleware(v1, "/auth", "PUT", "/me", []fiber.Handler{authOnlyMiddleware}, userHandler.HandleUpdateProfile)
	apirouter.RegisterRouteWithMiddleware(v1, "/auth", "POST", "/change-password", []fiber.Handler{authOnlyMiddleware}, userHandler.HandleChangePassword)

	// Quản trị người dùng
	apirouter.RegisterRouteWithMiddleware(v1, "/admin/user", "POST", "/block", []fiber.Handler{authOnlyMiddleware}, userHandler.HandleBlockUser)
	apirouter.RegisterRouteWithMiddleware(v1, "/admin/user", "POST", "/unblock", []fiber.Handler{authOnlyMiddleware}, userHandler.HandleUnBlockUser)

	// Route CRUD chung cho users (chỉ đọc)
	r.RegisterCRUDRoutes(v1, "/user", userHandler, apirouter.ReadOnlyConfig)

	return nil
}
