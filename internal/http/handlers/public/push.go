package public

import (
	"github.com/webmastershop/internal/constants"
	"github.com/webmastershop/internal/http/response"
	"github.com/webmastershop/internal/service"

	"github.com/gin-gonic/gin"
)

// PushSubscribeRequest 推送订阅请求（浏览器 PushSubscription 结构）
type PushSubscribeRequest struct {
	Endpoint string `json:"endpoint" binding:"required"`
	Keys     struct {
		P256dh string `json:"p256dh" binding:"required"`
		Auth   string `json:"auth" binding:"required"`
	} `json:"keys" binding:"required"`
}

// PushUnsubscribeRequest 取消订阅请求
type PushUnsubscribeRequest struct {
	Endpoint string `json:"endpoint" binding:"required"`
}

// GetPushPublicKey 返回 VAPID 公钥
func (h *Handler) GetPushPublicKey(c *gin.Context) {
	if !h.PushService.Enabled() {
		respondError(c, response.CodeNotFound, "push notifications disabled", nil)
		return
	}
	response.Success(c, gin.H{"public_key": h.PushService.PublicKey()})
}

// SubscribePush 保存推送订阅
func (h *Handler) SubscribePush(c *gin.Context) {
	var req PushSubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}

	role := constants.PushRoleUser
	if value, ok := c.Get("role"); ok {
		if r, ok := value.(string); ok && r == constants.UserRoleAdmin {
			role = constants.PushRoleAdmin
		}
	}

	sub, err := h.PushService.Subscribe(service.SubscribeInput{
		Endpoint: req.Endpoint,
		P256dh:   req.Keys.P256dh,
		Auth:     req.Keys.Auth,
		Role:     role,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "failed to save subscription", err)
		return
	}
	response.Success(c, gin.H{"subscription": sub})
}

// UnsubscribePush 删除推送订阅
func (h *Handler) UnsubscribePush(c *gin.Context) {
	var req PushUnsubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}
	if err := h.PushService.Unsubscribe(req.Endpoint); err != nil {
		respondError(c, response.CodeInternal, "failed to remove subscription", err)
		return
	}
	response.SuccessWithMsg(c, "unsubscribed", nil)
}
