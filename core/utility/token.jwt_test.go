package utility

import (
	"testing"

	"crm_backend/core/common"
)

func TestCreateToken_ParseToken_RoundTrip(t *testing.T) {
	secret := "test-secret"
	result, err := CreateToken(secret, "64f000000000000000000001", "18f2a3b", "42")
	if err != nil {
		t.Fatalf("CreateToken trả về lỗi: %v", err)
	}
	tokenString, ok := result["token"]
	if !ok || tokenString == "" {
		t.Fatal("CreateToken phải trả về map có key 'token'")
	}

	claims, err := ParseToken(secret, tokenString)
	if err != nil {
		t.Fatalf("ParseToken trả về lỗi: %v", err)
	}
	if claims.UserID != "64f000000000000000000001" {
		t.Errorf("UserID = %s, muốn 64f000000000000000000001", claims.UserID)
	}
	if claims.Time != "18f2a3b" || claims.RandomNumber != "42" {
		t.Errorf("Claims time/randomNumber sai: %+v", claims)
	}
	if claims.ExpiresAt <= claims.IssuedAt {
		t.Error("Token phải có thời hạn sau thời điểm phát hành")
	}
}

func TestParseToken_SaiSecret(t *testing.T) {
	result, err := CreateToken("secret-a", "64f000000000000000000001", "18f2a3b", "42")
	if err != nil {
		t.Fatalf("CreateToken trả về lỗi: %v", err)
	}

	if _, err := ParseToken("secret-b", result["token"]); err != common.ErrTokenInvalid {
		t.Errorf("Token ký bằng secret khác phải trả về ErrTokenInvalid, got: %v", err)
	}
}

func TestParseToken_ChuoiRac(t *testing.T) {
	if _, err := ParseToken("secret", "không-phải-jwt"); err != common.ErrTokenInvalid {
		t.Errorf("Chuỗi rác phải trả về ErrTokenInvalid, got: %v", err)
	}
}
