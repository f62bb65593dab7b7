package security

import (
	"errors"
	"testing"
	"time"
)

func TestAward_缺少密钥应失败(t *testing.T) {
	s := NewSigner("", time.Hour)
	if _, _, err := s.Award("admin", RoleAdmin); !errors.Is(err, ErrJWTSecretMissing) {
		t.Fatalf("期望 ErrJWTSecretMissing, got=%v", err)
	}
	if _, err := s.ParseToken("x"); !errors.Is(err, ErrJWTSecretMissing) {
		t.Fatalf("期望 ErrJWTSecretMissing, got=%v", err)
	}
}

func TestAwardParse_正常签发并解析(t *testing.T) {
	s := NewSigner("test-secret-123", time.Hour)
	token, exp, err := s.Award("ops", RoleAdmin)
	if err != nil || token == "" {
		t.Fatalf("Award err=%v", err)
	}
	if exp.Before(time.Now()) {
		t.Fatalf("过期时间应在未来")
	}
	claims, err := s.ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken err=%v", err)
	}
	if claims.Role != RoleAdmin || claims.Subject != "ops" {
		t.Fatalf("claims 错误: %+v", claims)
	}
}

func TestParseToken_密钥不同或过期失败(t *testing.T) {
	a := NewSigner("secret-a", time.Hour)
	b := NewSigner("secret-b", time.Hour)
	token, _, _ := a.Award("ops", RoleAdmin)
	if _, err := b.ParseToken(token); err == nil {
		t.Fatalf("不同密钥应校验失败")
	}

	a.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	old, _, _ := a.Award("ops", RoleAdmin)
	a.now = time.Now
	if _, err := a.ParseToken(old); err == nil {
		t.Fatalf("过期令牌应校验失败")
	}
}
