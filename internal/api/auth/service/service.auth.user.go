// Package authsvc - service người dùng (User).
package authsvc

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"crm_backend/core/common"
	"crm_backend/core/global"
	"crm_backend/core/logger"
	"crm_backend/core/utility"
	authdto "crm_backend/internal/api/auth/dto"
	authmodels "crm_backend/internal/api/auth/models"
	basesvc "crm_backend/internal/api/base/service"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserStore giao diện lưu trữ hẹp mà các thao tác xác thực cần.
// FindByEmail/FindById trả về common.ErrNotFound khi không tồn tại.
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (*authmodels.User, error)
	FindById(ctx context.Context, id primitive.ObjectID) (*authmodels.User, error)
	ApplyUpdate(ctx context.Context, id primitive.ObjectID, update *basesvc.UpdateData) (*authmodels.User, error)
}

// UserService là cấu trúc chứa các phương thức liên quan đến người dùng
type UserService struct {
	*basesvc.BaseServiceMongoImpl[authmodels.User]
}

// NewUserService tạo mới UserService
func NewUserService() (*UserService, error) {
	userCollection, exist := global.RegistryCollections.Get(global.ColNames.Users)
	if !exist {
		return nil, fmt.Errorf("failed to get users collection: %v", common.ErrNotFound)
	}

	return &UserService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[authmodels.User](userCollection),
	}, nil
}

// FindByEmail tìm người dùng theo email. Trả về common.ErrNotFound khi không tồn tại.
func (s *UserService) FindByEmail(ctx context.Context, email string) (*authmodels.User, error) {
	user, err := s.BaseServiceMongoImpl.FindOne(ctx, bson.M{"email": email}, nil)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindById tìm người dùng theo _id.
func (s *UserService) FindById(ctx context.Context, id primitive.ObjectID) (*authmodels.User, error) {
	user, err := s.BaseServiceMongoImpl.FindOneById(ctx, id)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// ApplyUpdate áp dụng một UpdateData lên người dùng theo _id.
func (s *UserService) ApplyUpdate(ctx context.Context, id primitive.ObjectID, update *basesvc.UpdateData) (*authmodels.User, error) {
	user, err := s.BaseServiceMongoImpl.UpdateById(ctx, id, update)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Login đăng nhập bằng email + mật khẩu.
// Mật khẩu được so khớp với password_hash (sha256 rút gọn 32 ký tự hex).
// Đăng nhập thành công sẽ phát hành JWT token và lưu token theo hwid của thiết bị.
func (s *UserService) Login(ctx context.Context, input *authdto.UserLoginInput) (*authmodels.User, error) {
	return login(ctx, s, global.ServerConfig.JwtSecret, input)
}

// Logout đăng xuất người dùng (xóa token theo hwid)
func (s *UserService) Logout(ctx context.Context, userID primitive.ObjectID, input *authdto.UserLogoutInput) error {
	return logout(ctx, s, userID, input.Hwid)
}

// ChangePassword đổi mật khẩu sau khi xác thực mật khẩu cũ.
// Đổi mật khẩu thành công sẽ thu hồi toàn bộ token đã phát hành.
func (s *UserService) ChangePassword(ctx context.Context, userID primitive.ObjectID, input *authdto.UserChangePasswordInput) error {
	return changePassword(ctx, s, userID, input)
}

// SetBlockUser khóa hoặc mở khóa người dùng theo email.
func (s *UserService) SetBlockUser(ctx context.Context, email string, isBlock bool, note string) (*authmodels.User, error) {
	return setBlockUser(ctx, s, email, isBlock, note)
}

// CreateUser tạo người dùng mới với mật khẩu được hash trước khi lưu.
func (s *UserService) CreateUser(ctx context.Context, input *authdto.UserCreateInput) (*authmodels.User, error) {
	user := authmodels.User{
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Email:        input.Email,
		PasswordHash: utility.HashPassword(input.Password),
		Tokens:       []authmodels.Token{},
	}

	created, err := s.BaseServiceMongoImpl.InsertOne(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrMongoDuplicate) {
			return nil, common.NewError(common.ErrCodeAuthCredentials, "Email đã được sử dụng", common.StatusConflict, err)
		}
		return nil, err
	}
	return &created, nil
}

func login(ctx context.Context, store UserStore, jwtSecret string, input *authdto.UserLoginInput) (*authmodels.User, error) {
	log := logger.GetAppLogger()

	user, err := store.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrUserNotFound
		}
		return nil, err
	}

	if !utility.VerifyPassword(input.Password, user.PasswordHash) {
		log.WithFields(logrus.Fields{"email": input.Email}).Warn("Login: Sai mật khẩu")
		return nil, common.ErrInvalidCredentials
	}

	if user.IsBlock {
		return nil, common.NewError(common.ErrCodeAuth, "Tài khoản đã bị khóa: "+user.BlockNote, common.StatusForbidden, nil)
	}

	// Phát hành token mới
	rdNumber := rand.Intn(100)
	currentTime := time.Now().Unix()
	tokenMap, err := utility.CreateToken(jwtSecret, user.ID.Hex(), strconv.FormatInt(currentTime, 16), strconv.Itoa(rdNumber))
	if err != nil {
		return nil, err
	}

	user.Token = tokenMap["token"]
	var idTokenExist int = -1
	for i, _token := range user.Tokens {
		if _token.Hwid == input.Hwid {
			idTokenExist = i
			break
		}
	}
	if idTokenExist == -1 {
		user.Tokens = append(user.Tokens, authmodels.Token{Hwid: input.Hwid, JwtToken: tokenMap["token"]})
	} else {
		user.Tokens[idTokenExist].JwtToken = tokenMap["token"]
	}

	tokenUpdateData := &basesvc.UpdateData{
		Set: map[string]interface{}{
			"token":  user.Token,
			"tokens": user.Tokens,
		},
	}
	updatedUser, err := store.ApplyUpdate(ctx, user.ID, tokenUpdateData)
	if err != nil {
		log.WithFields(logrus.Fields{"user_id": user.ID.Hex(), "error": err.Error()}).Error("Login: Lỗi khi cập nhật token vào user")
		return nil, err
	}

	log.WithFields(logrus.Fields{"user_id": updatedUser.ID.Hex(), "email": updatedUser.Email}).Info("Login: Đăng nhập thành công")
	return updatedUser, nil
}

func logout(ctx context.Context, store UserStore, userID primitive.ObjectID, hwid string) error {
	user, err := store.FindById(ctx, userID)
	if err != nil {
		return err
	}
	newTokens := make([]authmodels.Token, 0)
	for _, t := range user.Tokens {
		if t.Hwid != hwid {
			newTokens = append(newTokens, t)
		}
	}
	updateData := &basesvc.UpdateData{
		Set: map[string]interface{}{
			"tokens": newTokens,
			"token":  "",
		},
	}
	_, err = store.ApplyUpdate(ctx, userID, updateData)
	return err
}

func changePassword(ctx context.Context, store UserStore, userID primitive.ObjectID, input *authdto.UserChangePasswordInput) error {
	user, err := store.FindById(ctx, userID)
	if err != nil {
		return err
	}

	if !utility.VerifyPassword(input.OldPassword, user.PasswordHash) {
		return common.ErrInvalidCredentials
	}

	updateData := &basesvc.UpdateData{
		Set: map[string]interface{}{
			"password_hash": utility.HashPassword(input.NewPassword),
			"tokens":        []authmodels.Token{},
			"token":         "",
		},
	}
	_, err = store.ApplyUpdate(ctx, userID, updateData)
	return err
}

func setBlockUser(ctx context.Context, store UserStore, email string, isBlock bool, note string) (*authmodels.User, error) {
	user, err := store.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrUserNotFound
		}
		return nil, err
	}

	updateData := &basesvc.UpdateData{
		Set: map[string]interface{}{
			"isBlock":   isBlock,
			"blockNote": note,
		},
	}
	if isBlock {
		// Khóa tài khoản thì thu hồi toàn bộ token
		updateData.Set["tokens"] = []authmodels.Token{}
		updateData.Set["token"] = ""
	}

	return store.ApplyUpdate(ctx, user.ID, updateData)
}
