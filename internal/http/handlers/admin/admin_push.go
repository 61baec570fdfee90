package admin

import (
	"github.com/webmastershop/internal/http/response"

	"github.com/gin-gonic/gin"
)

// SendPushRequest 手动推送请求
type SendPushRequest struct {
	Title string `json:"title" binding:"required"`
	Body  string `json:"body" binding:"required"`
	URL   string `json:"url"`
	Role  string `json:"role"`
}

// SendPush 管理员手动推送通知
func (h *Handler) SendPush(c *gin.Context) {
	var req SendPushRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}
	if !h.PushService.Enabled() {
		respondError(c, response.CodeBadRequest, "push notifications disabled", nil)
		return
	}

	h.PushService.Notify(req.Title, req.Body, req.URL, req.Role)
	response.SuccessWithMsg(c, "push queued", nil)
}
