package worker_test // 测试包

import (
	"context"
	"errors"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/late-nightpoet/blog/internal/tasks"
	"github.com/late-nightpoet/blog/internal/worker"
)

// fakeSender 记录下发调用，可注入失败
type fakeSender struct {
	calls []fakeSenderCall
	err   error
}

type fakeSenderCall struct {
	mobile        string
	code          string
	expireMinutes int
}

func (f *fakeSender) Send(_ context.Context, mobile, code string, expireMinutes int) error {
	f.calls = append(f.calls, fakeSenderCall{mobile: mobile, code: code, expireMinutes: expireMinutes})
	return f.err
}

func TestSMSDeliveryHandler_ProcessTask_Success(t *testing.T) {
	// Arrange
	sender := &fakeSender{}
	h := worker.NewSMSDeliveryHandler(sender)
	payload, err := tasks.NewSMSDeliveryTask("13800000000", "123456", 5)
	require.NoError(t, err)
	task := asynq.NewTask(tasks.TypeSMSDelivery, payload)

	// Act
	err = h.ProcessTask(context.Background(), task)

	// Assert
	require.NoError(t, err)
	require.Len(t, sender.calls, 1)
	assert.Equal(t, "13800000000", sender.calls[0].mobile)
	assert.Equal(t, "123456", sender.calls[0].code)
	assert.Equal(t, 5, sender.calls[0].expireMinutes)
}

func TestSMSDeliveryHandler_ProcessTask_GatewayFailureRetries(t *testing.T) {
	// Arrange: 网关失败返回普通错误，交给 Asynq 按策略重试
	sender := &fakeSender{err: errors.New("gateway timeout")}
	h := worker.NewSMSDeliveryHandler(sender)
	payload, _ := tasks.NewSMSDeliveryTask("13800000000", "123456", 5)
	task := asynq.NewTask(tasks.TypeSMSDelivery, payload)

	// Act
	err := h.ProcessTask(context.Background(), task)

	// Assert
	require.Error(t, err)
	assert.False(t, errors.Is(err, asynq.SkipRetry), "网关失败应允许重试")
}

func TestSMSDeliveryHandler_ProcessTask_CorruptPayloadSkipsRetry(t *testing.T) {
	// Arrange: payload 损坏属于不可恢复错误
	sender := &fakeSender{}
	h := worker.NewSMSDeliveryHandler(sender)
	task := asynq.NewTask(tasks.TypeSMSDelivery, []byte("not json"))

	// Act
	err := h.ProcessTask(context.Background(), task)

	// Assert
	require.Error(t, err)
	assert.True(t, errors.Is(err, asynq.SkipRetry), "解析失败不应重试")
	assert.Empty(t, sender.calls, "解析失败时不应调用网关")
}
