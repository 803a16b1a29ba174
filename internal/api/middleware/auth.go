package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/post-feed/internal/auth"
	"github.com/d60-Lab/post-feed/pkg/response"
)

// gin context 键
const (
	CtxUserID   = "userID"
	CtxUsername = "username"
	CtxToken    = "rawToken"
)

// Auth 校验 Authorization: Bearer <token>，通过后把身份挂到请求上下文
func Auth(gate *auth.Gate) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := BearerToken(c)
		claims, err := gate.Authorize(c.Request.Context(), raw)
		if err != nil {
			response.Unauthorized(c, err.Error())
			c.Abort()
			return
		}
		c.Set(CtxUserID, claims.UserID())
		c.Set(CtxUsername, claims.Username)
		c.Set(CtxToken, raw)
		c.Next()
	}
}

func BearerToken(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
}
