package utility

import "testing"

func TestHashPassword_DoDaiVaOnDinh(t *testing.T) {
	hash := HashPassword("password1")
	if len(hash) != 32 {
		t.Fatalf("Hash phải dài đúng 32 ký tự, got %d", len(hash))
	}
	if hash != HashPassword("password1") {
		t.Error("Hash cùng một mật khẩu phải cho cùng kết quả")
	}
	if hash == HashPassword("password2") {
		t.Error("Hash hai mật khẩu khác nhau không được trùng")
	}
}

func TestHashPassword_TuongThichDuLieuCu(t *testing.T) {
	// sha256("password1") = 0b14d501a594442a01c6859541bcb3e8164d183d32937b851835442f69d5c94e
	// → 32 ký tự hex đầu tiên
	want := "0b14d501a594442a01c6859541bcb3e8"
	if got := HashPassword("password1"); got != want {
		t.Errorf("HashPassword = %s, muốn %s", got, want)
	}
}

func TestVerifyPassword(t *testing.T) {
	hash := HashPassword("secret-pass")
	if !VerifyPassword("secret-pass", hash) {
		t.Error("VerifyPassword phải đúng với mật khẩu gốc")
	}
	if VerifyPassword("sai-mat-khau", hash) {
		t.Error("VerifyPassword phải sai với mật khẩu khác")
	}
	if VerifyPassword("secret-pass", "") {
		t.Error("VerifyPassword phải sai với hash rỗng")
	}
}
