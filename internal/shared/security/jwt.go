package security

import (
	"errors"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrJWTSecretMissing = errors.New("JWT_SECRET is not set")

// Claims 管理接口的操作者身份。Session 为空表示可以操作任意对局。
type Claims struct {
	Operator string `json:"op"`
	Session  string `json:"sid,omitempty"`
	jwt.RegisteredClaims
}

func jwtSecret() ([]byte, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, ErrJWTSecretMissing
	}
	return []byte(secret), nil
}

// Award 为操作者签发 token，ttl<=0 时 12 小时过期。
func Award(operator, session string, ttl time.Duration) (string, error) {
	key, err := jwtSecret()
	if err != nil {
		return "", err
	}
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	now := time.Now()
	claims := &Claims{
		Operator: operator,
		Session:  session,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   operator,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
}

// ParseToken 解析并验证 Token，只接受 HS256。
func ParseToken(tokenStr string) (*Claims, error) {
	key, err := jwtSecret()
	if err != nil {
		return nil, err
	}
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		return key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	if token == nil || !token.Valid || claims.Operator == "" {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}

// Allows 判断 token 是否能操作指定对局。
func (c *Claims) Allows(session string) bool {
	return c != nil && (c.Session == "" || c.Session == session)
}
