// Package authsvc - Test các thao tác xác thực với store giả trong bộ nhớ.
package authsvc

import (
	"context"
	"errors"
	"testing"

	"crm_backend/core/common"
	"crm_backend/core/utility"
	authdto "crm_backend/internal/api/auth/dto"
	authmodels "crm_backend/internal/api/auth/models"
	basesvc "crm_backend/internal/api/base/service"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const testJwtSecret = "test-secret"

// fakeUserStore store trong bộ nhớ, khóa theo _id.
type fakeUserStore struct {
	users map[primitive.ObjectID]*authmodels.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[primitive.ObjectID]*authmodels.User)}
}

func (f *fakeUserStore) FindByEmail(ctx context.Context, email string) (*authmodels.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, common.ErrNotFound
}

func (f *fakeUserStore) FindById(ctx context.Context, id primitive.ObjectID) (*authmodels.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	clone := *u
	return &clone, nil
}

func (f *fakeUserStore) ApplyUpdate(ctx context.Context, id primitive.ObjectID, update *basesvc.UpdateData) (*authmodels.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	for key, value := range update.Set {
		switch key {
		case "token":
			u.Token = value.(string)
		case "tokens":
			u.Tokens = value.([]authmodels.Token)
		case "password_hash":
			u.PasswordHash = value.(string)
		case "isBlock":
			u.IsBlock = value.(bool)
		case "blockNote":
			u.BlockNote = value.(string)
		}
	}
	clone := *u
	return &clone, nil
}

func seedUser(store *fakeUserStore, email, password string) *authmodels.User {
	user := &authmodels.User{
		ID:           primitive.NewObjectID(),
		FirstName:    "Max",
		LastName:     "Mustermann",
		Email:        email,
		PasswordHash: utility.HashPassword(password),
		Tokens:       []authmodels.Token{},
	}
	store.users[user.ID] = user
	return user
}

func TestLogin_ThanhCong(t *testing.T) {
	store := newFakeUserStore()
	seedUser(store, "user1@example.com", "password1")

	user, err := login(context.Background(), store, testJwtSecret, &authdto.UserLoginInput{
		Email:    "user1@example.com",
		Password: "password1",
		Hwid:     "device-1",
	})
	if err != nil {
		t.Fatalf("login trả về lỗi: %v", err)
	}
	if user.Token == "" {
		t.Fatal("Đăng nhập thành công phải phát hành token")
	}

	claims, err := utility.ParseToken(testJwtSecret, user.Token)
	if err != nil {
		t.Fatalf("Token phát hành phải parse được: %v", err)
	}
	if claims.UserID != user.ID.Hex() {
		t.Errorf("Claims UserID = %s, muốn %s", claims.UserID, user.ID.Hex())
	}

	if len(user.Tokens) != 1 || user.Tokens[0].Hwid != "device-1" || user.Tokens[0].JwtToken != user.Token {
		t.Errorf("Token phải được lưu theo hwid thiết bị, got: %+v", user.Tokens)
	}
}

func TestLogin_SaiMatKhau(t *testing.T) {
	store := newFakeUserStore()
	seeded := seedUser(store, "user1@example.com", "password1")

	_, err := login(context.Background(), store, testJwtSecret, &authdto.UserLoginInput{
		Email:    "user1@example.com",
		Password: "sai-mat-khau",
		Hwid:     "device-1",
	})
	if !errors.Is(err, common.ErrInvalidCredentials) {
		t.Fatalf("Sai mật khẩu phải trả về ErrInvalidCredentials, got: %v", err)
	}
	// Không được phát hành hay lưu token nào
	if stored := store.users[seeded.ID]; stored.Token != "" || len(stored.Tokens) != 0 {
		t.Errorf("Đăng nhập thất bại không được lưu token, got: token=%q tokens=%v", stored.Token, stored.Tokens)
	}
}

func TestLogin_KhongTimThayEmail(t *testing.T) {
	store := newFakeUserStore()

	_, err := login(context.Background(), store, testJwtSecret, &authdto.UserLoginInput{
		Email:    "khong-ton-tai@example.com",
		Password: "password1",
		Hwid:     "device-1",
	})
	if !errors.Is(err, common.ErrUserNotFound) {
		t.Errorf("Email không tồn tại phải trả về ErrUserNotFound, got: %v", err)
	}
}

func TestLogin_TaiKhoanBiKhoa(t *testing.T) {
	store := newFakeUserStore()
	user := seedUser(store, "user1@example.com", "password1")
	user.IsBlock = true
	user.BlockNote = "vi phạm điều khoản"

	_, err := login(context.Background(), store, testJwtSecret, &authdto.UserLoginInput{
		Email:    "user1@example.com",
		Password: "password1",
		Hwid:     "device-1",
	})
	var cErr *common.Error
	if !errors.As(err, &cErr) || cErr.StatusCode != common.StatusForbidden {
		t.Errorf("Tài khoản bị khóa phải trả về 403, got: %v", err)
	}
}

func TestLogin_CungHwidGhiDeToken(t *testing.T) {
	store := newFakeUserStore()
	seeded := seedUser(store, "user1@example.com", "password1")

	input := &authdto.UserLoginInput{Email: "user1@example.com", Password: "password1", Hwid: "device-1"}
	if _, err := login(context.Background(), store, testJwtSecret, input); err != nil {
		t.Fatalf("login lần 1 trả về lỗi: %v", err)
	}
	if _, err := login(context.Background(), store, testJwtSecret, input); err != nil {
		t.Fatalf("login lần 2 trả về lỗi: %v", err)
	}

	stored := store.users[seeded.ID]
	if len(stored.Tokens) != 1 {
		t.Errorf("Cùng hwid phải ghi đè token cũ thay vì thêm entry mới, got: %+v", stored.Tokens)
	}
}

func TestLogout_XoaTokenTheoHwid(t *testing.T) {
	store := newFakeUserStore()
	user := seedUser(store, "user1@example.com", "password1")
	user.Token = "tok-2"
	user.Tokens = []authmodels.Token{
		{Hwid: "device-1", JwtToken: "tok-1"},
		{Hwid: "device-2", JwtToken: "tok-2"},
	}

	if err := logout(context.Background(), store, user.ID, "device-1"); err != nil {
		t.Fatalf("logout trả về lỗi: %v", err)
	}

	stored := store.users[user.ID]
	if len(stored.Tokens) != 1 || stored.Tokens[0].Hwid != "device-2" {
		t.Errorf("Chỉ token của hwid đăng xuất bị xóa, got: %+v", stored.Tokens)
	}
	if stored.Token != "" {
		t.Errorf("Token mới nhất phải được xóa khi logout, got: %q", stored.Token)
	}
}

func TestChangePassword(t *testing.T) {
	store := newFakeUserStore()
	user := seedUser(store, "user1@example.com", "password1")
	user.Tokens = []authmodels.Token{{Hwid: "device-1", JwtToken: "tok-1"}}

	err := changePassword(context.Background(), store, user.ID, &authdto.UserChangePasswordInput{
		OldPassword: "sai-mat-khau",
		NewPassword: "password-moi",
	})
	if !errors.Is(err, common.ErrInvalidCredentials) {
		t.Fatalf("Sai mật khẩu cũ phải trả về ErrInvalidCredentials, got: %v", err)
	}

	err = changePassword(context.Background(), store, user.ID, &authdto.UserChangePasswordInput{
		OldPassword: "password1",
		NewPassword: "password-moi",
	})
	if err != nil {
		t.Fatalf("changePassword trả về lỗi: %v", err)
	}

	stored := store.users[user.ID]
	if !utility.VerifyPassword("password-moi", stored.PasswordHash) {
		t.Error("Mật khẩu mới phải được hash và lưu")
	}
	if len(stored.Tokens) != 0 || stored.Token != "" {
		t.Errorf("Đổi mật khẩu phải thu hồi toàn bộ token, got: token=%q tokens=%v", stored.Token, stored.Tokens)
	}
}

func TestSetBlockUser(t *testing.T) {
	store := newFakeUserStore()
	user := seedUser(store, "user1@example.com", "password1")
	user.Tokens = []authmodels.Token{{Hwid: "device-1", JwtToken: "tok-1"}}

	blocked, err := setBlockUser(context.Background(), store, "user1@example.com", true, "vi phạm điều khoản")
	if err != nil {
		t.Fatalf("setBlockUser trả về lỗi: %v", err)
	}
	if !blocked.IsBlock || blocked.BlockNote != "vi phạm điều khoản" {
		t.Errorf("User phải bị khóa kèm ghi chú, got: %+v", blocked)
	}
	if len(blocked.Tokens) != 0 || blocked.Token != "" {
		t.Errorf("Khóa tài khoản phải thu hồi toàn bộ token, got: %+v", blocked.Tokens)
	}

	unblocked, err := setBlockUser(context.Background(), store, "user1@example.com", false, "")
	if err != nil {
		t.Fatalf("setBlockUser trả về lỗi: %v", err)
	}
	if unblocked.IsBlock {
		t.Error("User phải được mở khóa")
	}

	if _, err := setBlockUser(context.Background(), store, "khong-ton-tai@example.com", true, ""); !errors.Is(err, common.ErrUserNotFound) {
		t.Errorf("Email không tồn tại phải trả về ErrUserNotFound, got: %v", err)
	}
}
