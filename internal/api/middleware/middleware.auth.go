// Package middleware - các middleware dùng chung cho Fiber.
package middleware

import (
	"context"
	"strings"
	"sync"

	"crm_backend/core/common"
	"crm_backend/core/global"
	"crm_backend/core/logger"
	"crm_backend/core/utility"
	authmodels "crm_backend/internal/api/auth/models"
	authsvc "crm_backend/internal/api/auth/service"
	basehdl "crm_backend/internal/api/base/handler"

	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
)

var (
	authUserService *authsvc.UserService
	authServiceOnce sync.Once
)

// getAuthUserService trả về UserService dùng cho xác thực (singleton)
func getAuthUserService() *authsvc.UserService {
	authServiceOnce.Do(func() {
		svc, err := authsvc.NewUserService()
		if err != nil {
			panic(err)
		}
		authUserService = svc
	})
	return authUserService
}

// AuthMiddleware middleware xác thực cho Fiber.
// Parse JWT từ header Authorization, tìm user sở hữu token và lưu
// thông tin user vào context (Locals "user_id" và "user").
func AuthMiddleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		// Lấy token từ header
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			logger.GetAppLogger().WithFields(logrus.Fields{
				"path":   c.Path(),
				"method": c.Method(),
			}).Warn("[AUTH] Missing Authorization header")
			basehdl.HandleResponse(c, nil, common.ErrTokenMissing)
			return nil
		}

		// Kiểm tra định dạng token
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			basehdl.HandleResponse(c, nil, common.ErrTokenInvalid)
			return nil
		}

		token := parts[1]

		// Kiểm tra chữ ký và hạn của token trước khi query database
		if _, err := utility.ParseToken(global.ServerConfig.JwtSecret, token); err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}

		// Tìm user có token
		// Ưu tiên query field "token" (token mới nhất) trước vì nó được cập nhật mỗi lần login
		// Nếu không tìm thấy, query trong array "tokens" (tokens theo hwid)
		userService := getAuthUserService()

		var user authmodels.User
		var err error

		user, err = userService.FindOne(context.Background(), bson.M{"token": token}, nil)
		if err != nil {
			user, err = userService.FindOne(context.Background(), bson.M{"tokens.jwtToken": token}, nil)
		}

		if err != nil {
			logger.GetAppLogger().WithFields(logrus.Fields{
				"path":  c.Path(),
				"error": err.Error(),
			}).Warn("[AUTH] Token not found in database")
			basehdl.HandleResponse(c, nil, common.ErrTokenInvalid)
			return nil
		}

		// Kiểm tra user có bị block không
		if user.IsBlock {
			basehdl.HandleResponse(c, nil, common.NewError(
				common.ErrCodeAuthCredentials,
				"Tài khoản đã bị khóa: "+user.BlockNote,
				common.StatusForbidden,
				nil,
			))
			return nil
		}

		// Lưu thông tin user vào context
		c.Locals("user_id", user.ID.Hex())
		c.Locals("user", user)

		return c.Next()
	}
}
