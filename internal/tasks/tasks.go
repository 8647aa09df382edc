package tasks

import (
	"encoding/json"
)

// 定义任务类型常量
const (
	TypeSMSDelivery = "sms:deliver" // 短信验证码下发任务类型
)

// SMSDeliveryPayload 定义了短信下发任务的数据结构
type SMSDeliveryPayload struct {
	Mobile        string `json:"mobile"`
	Code          string `json:"code"`
	ExpireMinutes int    `json:"expire_minutes"`
}

// NewSMSDeliveryTask 创建短信下发任务的 payload
func NewSMSDeliveryTask(mobile, code string, expireMinutes int) ([]byte, error) {
	payload := SMSDeliveryPayload{
		Mobile:        mobile,
		Code:          code,
		ExpireMinutes: expireMinutes,
	}
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return payloadBytes, nil
}
