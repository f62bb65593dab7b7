package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"TownBuilder/internal/shared/security"
	"TownBuilder/internal/shared/transport"
)

const ClaimsKey = "claims"

// RequireRole 校验 Bearer 令牌中的角色。signer 未配置密钥时放行。
func RequireRole(signer *security.Signer, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !signer.Enabled() {
			c.Next()
			return
		}
		raw, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !ok || raw == "" {
			c.AbortWithStatusJSON(http.StatusOK, transport.Fail(transport.Unauthorized, "缺少令牌"))
			return
		}
		claims, err := signer.ParseToken(raw)
		if err != nil || claims.Role != role {
			c.AbortWithStatusJSON(http.StatusOK, transport.Fail(transport.Unauthorized, "令牌无效"))
			return
		}
		c.Set(ClaimsKey, claims)
		c.Next()
	}
}
