package queue

import (
	"encoding/json"

	"github.com/webmastershop/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskPushDispatch 推送通知分发任务
	TaskPushDispatch = constants.TaskPushDispatch
)

// PushDispatchPayload 推送通知任务载荷
type PushDispatchPayload struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	URL   string `json:"url,omitempty"`
	Role  string `json:"role,omitempty"` // 为空时发给全部订阅
}

// NewPushDispatchTask 创建推送分发任务
func NewPushDispatchTask(payload PushDispatchPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskPushDispatch, data), nil
}

// ParsePushDispatchPayload 解析推送分发任务载荷
func ParsePushDispatchPayload(task *asynq.Task) (PushDispatchPayload, error) {
	var payload PushDispatchPayload
	err := json.Unmarshal(task.Payload(), &payload)
	return payload, err
}
