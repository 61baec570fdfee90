package worker

import (
	"context"

	"github.com/webmastershop/internal/logger"
	"github.com/webmastershop/internal/provider"
	"github.com/webmastershop/internal/queue"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskPushDispatch, c.handlePushDispatch)
}

func (c *Consumer) handlePushDispatch(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_push_dispatch_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	payload, err := queue.ParsePushDispatchPayload(task)
	if err != nil {
		logger.Warnw("worker_push_dispatch_unmarshal_failed", "error", err)
		return err
	}
	if payload.Title == "" && payload.Body == "" {
		logger.Debugw("worker_push_dispatch_skip_empty_payload")
		return nil
	}
	if c.PushService == nil {
		logger.Warnw("worker_push_dispatch_skip_push_service_nil", "title", payload.Title)
		return nil
	}
	if err := c.PushService.Dispatch(payload); err != nil {
		logger.Warnw("worker_push_dispatch_failed", "title", payload.Title, "role", payload.Role, "error", err)
		return err
	}
	return nil
}
