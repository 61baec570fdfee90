package admin

import (
	handlershared "github.com/webmastershop/internal/http/handlers/shared"

	"github.com/gin-gonic/gin"
)

// 管理端与前台共用同一 JWT，上下文键也一致
func getAdminID(c *gin.Context) (uint, bool) {
	return handlershared.GetContextUint(c, "user_id")
}
