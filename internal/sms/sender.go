// Package sms 封装短信网关客户端。
package sms

import (
	"context"

	"github.com/sirupsen/logrus"
)

// Sender 向手机号下发验证码短信。无状态，有副作用。
type Sender interface {
	// Send 下发验证码。expireMinutes 是短信文案里提示的有效期分钟数。
	Send(ctx context.Context, mobile, code string, expireMinutes int) error
}

// ConsoleSender 把验证码打到日志里而不真正发短信，开发环境使用。
type ConsoleSender struct {
	log *logrus.Logger
}

// NewConsoleSender 创建 ConsoleSender 实例
func NewConsoleSender(log *logrus.Logger) *ConsoleSender {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &ConsoleSender{log: log}
}

// Send 实现 Sender 接口
func (s *ConsoleSender) Send(_ context.Context, mobile, code string, expireMinutes int) error {
	// 验证码输出在控制台，方便调试
	s.log.WithFields(logrus.Fields{
		"mobile":         mobile,
		"sms_code":       code,
		"expire_minutes": expireMinutes,
	}).Info("SMS code issued (console sender, no real dispatch)")
	return nil
}
