// Package authdto - các DTO cho domain auth.
package authdto

// UserLoginInput đầu vào đăng nhập bằng email + mật khẩu.
type UserLoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Hwid     string `json:"hwid" validate:"required"`
}

// UserLogoutInput đầu vào đăng xuất người dùng.
type UserLogoutInput struct {
	Hwid string `json:"hwid" validate:"required"`
}

// UserCreateInput đầu vào tạo người dùng (CRUD/seed).
type UserCreateInput struct {
	FirstName string `json:"first_name" validate:"required" maxLength:"50"`
	LastName  string `json:"last_name" validate:"required" maxLength:"50"`
	Email     string `json:"email" validate:"required,email" maxLength:"75"`
	Password  string `json:"password" validate:"required,min=6"`
}

// UserChangeInfoInput đầu vào thay đổi thông tin người dùng.
type UserChangeInfoInput struct {
	FirstName string `json:"first_name" maxLength:"50"`
	LastName  string `json:"last_name" maxLength:"50"`
}

// UserChangePasswordInput đầu vào đổi mật khẩu.
type UserChangePasswordInput struct {
	OldPassword string `json:"oldPassword" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=6"`
}

// BlockUserInput đầu vào khóa người dùng.
type BlockUserInput struct {
	Email string `json:"email" validate:"required"`
	Note  string `json:"note" validate:"required"`
}

// UnBlockUserInput đầu vào mở khóa người dùng.
type UnBlockUserInput struct {
	Email string `json:"email" validate:"required"`
}
