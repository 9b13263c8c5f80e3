package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"Settlers/internal/shared/security"
	"Settlers/internal/shared/transport"
)

const claimsKey = "admin_claims"

// Auth 校验 Authorization: Bearer <token>，并要求 token 能操作 sessionID 指定的对局。
func Auth(sessionID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(raw, "Bearer ")
		if !ok || token == "" {
			deny(c, transport.Unauthorized, "missing token")
			return
		}
		claims, err := security.ParseToken(token)
		if err != nil {
			transport.SetErrorReason(c.Request.Context(), err.Error())
			deny(c, transport.Unauthorized, "invalid token")
			return
		}
		if !claims.Allows(sessionID) {
			deny(c, transport.Forbidden, "session not allowed")
			return
		}
		transport.SetOperator(c.Request.Context(), claims.Operator)
		c.Set(claimsKey, claims)
		c.Next()
	}
}

// ClaimsFrom 取出 Auth 写入的操作者身份。
func ClaimsFrom(c *gin.Context) (*security.Claims, bool) {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*security.Claims)
	return claims, ok
}

func deny(c *gin.Context, code int, msg string) {
	c.AbortWithStatusJSON(http.StatusOK, gin.H{"code": code, "msg": msg})
}
