package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"

	"github.com/late-nightpoet/blog/internal/sms"
	"github.com/late-nightpoet/blog/internal/tasks"
)

// SMSDeliveryHandler 处理短信验证码下发任务
type SMSDeliveryHandler struct {
	sender sms.Sender
}

// NewSMSDeliveryHandler 创建 Handler 实例
func NewSMSDeliveryHandler(sender sms.Sender) *SMSDeliveryHandler {
	return &SMSDeliveryHandler{sender: sender}
}

// ProcessTask 实现 asynq.Handler 接口。
// 网关调用失败时返回错误让 Asynq 按策略重试；payload 解析失败
// 属于不可恢复错误，跳过重试。
func (h *SMSDeliveryHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	currentRetry, _ := asynq.GetRetryCount(ctx)

	logCtx := logrus.WithFields(logrus.Fields{
		"task_type": t.Type(),
		"retry":     currentRetry,
	})

	var payload tasks.SMSDeliveryPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		logCtx.WithError(err).Error("Failed to unmarshal task payload")
		return fmt.Errorf("failed to unmarshal payload: %v: %w", err, asynq.SkipRetry)
	}

	logCtx = logCtx.WithField("mobile", payload.Mobile)
	if err := h.sender.Send(ctx, payload.Mobile, payload.Code, payload.ExpireMinutes); err != nil {
		logCtx.WithError(err).Warn("SMS dispatch failed, will retry")
		return fmt.Errorf("sms dispatch to %s: %w", payload.Mobile, err)
	}

	logCtx.Info("SMS code dispatched")
	return nil
}
