package utility

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashPassword băm mật khẩu bằng SHA-256 và lấy 32 ký tự hex đầu tiên.
// Độ dài 32 ký tự giữ tương thích với dữ liệu người dùng đã có.
func HashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])[:32]
}

// VerifyPassword so sánh mật khẩu với hash đã lưu
func VerifyPassword(password string, hash string) bool {
	return HashPassword(password) == hash
}
