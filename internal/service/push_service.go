package service

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/webmastershop/internal/config"
	"github.com/webmastershop/internal/constants"
	"github.com/webmastershop/internal/logger"
	"github.com/webmastershop/internal/models"
	"github.com/webmastershop/internal/queue"
	"github.com/webmastershop/internal/repository"

	webpush "github.com/SherClockHolmes/webpush-go"
)

// PushService Web Push 推送服务
type PushService struct {
	cfg         *config.PushConfig
	subRepo     repository.PushSubscriptionRepository
	queueClient *queue.Client
}

// NewPushService 创建推送服务
func NewPushService(cfg *config.PushConfig, subRepo repository.PushSubscriptionRepository, queueClient *queue.Client) *PushService {
	return &PushService{
		cfg:         cfg,
		subRepo:     subRepo,
		queueClient: queueClient,
	}
}

// SubscribeInput 订阅输入
type SubscribeInput struct {
	Endpoint string
	P256dh   string
	Auth     string
	Role     string
}

// pushMessage 推送消息体，序列化后发给浏览器
type pushMessage struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	URL   string `json:"url,omitempty"`
}

// Enabled 推送是否可用
func (s *PushService) Enabled() bool {
	return s != nil && s.cfg != nil && s.cfg.Enabled &&
		strings.TrimSpace(s.cfg.VAPIDPublicKey) != "" &&
		strings.TrimSpace(s.cfg.VAPIDPrivateKey) != ""
}

// PublicKey 返回客户端订阅所需的 VAPID 公钥
func (s *PushService) PublicKey() string {
	if s == nil || s.cfg == nil {
		return ""
	}
	return s.cfg.VAPIDPublicKey
}

// Subscribe 保存或更新一条订阅
func (s *PushService) Subscribe(input SubscribeInput) (*models.PushSubscription, error) {
	endpoint := strings.TrimSpace(input.Endpoint)
	if endpoint == "" || strings.TrimSpace(input.P256dh) == "" || strings.TrimSpace(input.Auth) == "" {
		return nil, ErrInvalidInput
	}
	role := strings.TrimSpace(input.Role)
	if role != constants.PushRoleAdmin {
		role = constants.PushRoleUser
	}

	sub := &models.PushSubscription{
		Endpoint: endpoint,
		P256dh:   strings.TrimSpace(input.P256dh),
		Auth:     strings.TrimSpace(input.Auth),
		Role:     role,
	}
	if err := s.subRepo.Upsert(sub); err != nil {
		return nil, err
	}
	return sub, nil
}

// Unsubscribe 删除订阅
func (s *PushService) Unsubscribe(endpoint string) error {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return ErrInvalidInput
	}
	return s.subRepo.DeleteByEndpoint(endpoint)
}

// Notify 投递一条推送通知。
// 队列可用时走异步任务，否则降级为同步分发。
func (s *PushService) Notify(title, body, url, role string) {
	if !s.Enabled() {
		return
	}
	payload := queue.PushDispatchPayload{Title: title, Body: body, URL: url, Role: role}
	if s.queueClient.Enabled() {
		if err := s.queueClient.EnqueuePushDispatch(payload); err != nil {
			logger.Errorw("push_enqueue_failed", "title", title, "error", err)
		}
		return
	}
	if err := s.Dispatch(payload); err != nil {
		logger.Errorw("push_dispatch_failed", "title", title, "error", err)
	}
}

// Dispatch 按角色分发推送到全部订阅端点。
// 端点返回 404/410 时视为失效并清除订阅。
func (s *PushService) Dispatch(payload queue.PushDispatchPayload) error {
	if !s.Enabled() {
		return nil
	}

	var (
		subs []models.PushSubscription
		err  error
	)
	role := strings.TrimSpace(payload.Role)
	if role == "" || role == constants.PushRoleAll {
		subs, err = s.subRepo.ListAll()
	} else {
		subs, err = s.subRepo.ListByRole(role)
	}
	if err != nil {
		return err
	}
	if len(subs) == 0 {
		return nil
	}

	message, err := json.Marshal(pushMessage{Title: payload.Title, Body: payload.Body, URL: payload.URL})
	if err != nil {
		return err
	}

	timeout := 10 * time.Second
	if s.cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(s.cfg.TimeoutSeconds) * time.Second
	}

	options := &webpush.Options{
		Subscriber:      s.cfg.Subject,
		VAPIDPublicKey:  s.cfg.VAPIDPublicKey,
		VAPIDPrivateKey: s.cfg.VAPIDPrivateKey,
		TTL:             60,
		HTTPClient:      &http.Client{Timeout: timeout},
	}

	sent := 0
	for i := range subs {
		sub := &subs[i]
		resp, err := webpush.SendNotification(message, &webpush.Subscription{
			Endpoint: sub.Endpoint,
			Keys: webpush.Keys{
				P256dh: sub.P256dh,
				Auth:   sub.Auth,
			},
		}, options)
		if err != nil {
			logger.Warnw("push_send_failed", "endpoint", sub.Endpoint, "error", err)
			continue
		}
		if resp != nil {
			status := resp.StatusCode
			resp.Body.Close()
			if status == http.StatusNotFound || status == http.StatusGone {
				if delErr := s.subRepo.DeleteByEndpoint(sub.Endpoint); delErr != nil {
					logger.Warnw("push_subscription_prune_failed", "endpoint", sub.Endpoint, "error", delErr)
				}
				continue
			}
		}
		sent++
	}
	logger.Infow("push_dispatched", "title", payload.Title, "role", role, "total", len(subs), "sent", sent)
	return nil
}
