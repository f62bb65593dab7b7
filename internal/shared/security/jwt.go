package security

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrJWTSecretMissing = errors.New("jwt secret is not set")

const (
	RoleAdmin = "admin"

	defaultTokenTTL = 24 * time.Hour
	issuer          = "town-builder"
)

type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Signer 用 HS256 签发和校验管理令牌。secret 为空时签发与校验都失败。
type Signer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewSigner(secret string, ttl time.Duration) *Signer {
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &Signer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (s *Signer) Enabled() bool {
	return s != nil && len(s.secret) > 0
}

// Award 给 subject 签发指定角色的令牌。
func (s *Signer) Award(subject, role string) (string, time.Time, error) {
	if !s.Enabled() {
		return "", time.Time{}, ErrJWTSecretMissing
	}
	now := s.now()
	exp := now.Add(s.ttl)
	claims := &Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// ParseToken 校验签名算法、签发方与过期时间。
func (s *Signer) ParseToken(tokenStr string) (*Claims, error) {
	if !s.Enabled() {
		return nil, ErrJWTSecretMissing
	}
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.secret, nil
	}, jwt.WithIssuer(issuer), jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}
