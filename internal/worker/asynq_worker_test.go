package worker

import (
	"context"
	"testing"

	"github.com/webmastershop/internal/provider"
	"github.com/webmastershop/internal/queue"

	"github.com/hibiken/asynq"
)

func TestHandlePushDispatchInvalidPayload(t *testing.T) {
	consumer := NewConsumer(&provider.Container{})
	task := asynq.NewTask(queue.TaskPushDispatch, []byte("not-json"))

	if err := consumer.handlePushDispatch(context.Background(), task); err == nil {
		t.Fatalf("expected error for malformed payload")
	}
}

func TestHandlePushDispatchEmptyPayloadSkipped(t *testing.T) {
	consumer := NewConsumer(&provider.Container{})
	task, err := queue.NewPushDispatchTask(queue.PushDispatchPayload{})
	if err != nil {
		t.Fatalf("build task failed: %v", err)
	}

	if err := consumer.handlePushDispatch(context.Background(), task); err != nil {
		t.Fatalf("empty payload should be skipped, got %v", err)
	}
}

func TestHandlePushDispatchNilPushService(t *testing.T) {
	consumer := NewConsumer(&provider.Container{})
	task, err := queue.NewPushDispatchTask(queue.PushDispatchPayload{Title: "hello", Body: "world"})
	if err != nil {
		t.Fatalf("build task failed: %v", err)
	}

	if err := consumer.handlePushDispatch(context.Background(), task); err != nil {
		t.Fatalf("missing push service should be skipped, got %v", err)
	}
}
