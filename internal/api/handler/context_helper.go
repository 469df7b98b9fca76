package handler

import (
	"github.com/gin-gonic/gin"

	"smart-class-flow/backend/pkg/response"
)

// MustGetIdentityID 从 Gin 上下文中安全提取 identity_id。
// 如果 JWT 中间件未正确注入 identity_id，返回 false 并写入 401 响应。
// 调用方应在 ok=false 时直接 return。
func MustGetIdentityID(c *gin.Context) (string, bool) {
	v, exists := c.Get("identity_id")
	if !exists {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	return s, true
}
