package sms

import (
	"context"
	"crypto/md5"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// CloopenConfig 是容联云通讯 (云通讯/CCP) 短信网关的配置。
type CloopenConfig struct {
	BaseURL    string // 例如 https://app.cloopen.com:8883
	AccountSID string
	AuthToken  string
	AppID      string
	TemplateID string
}

// CloopenSender 通过容联云通讯模板短信接口下发验证码。
// 签名规则：sig = MD5(accountSid + authToken + timestamp) 大写，
// Authorization 头为 base64(accountSid:timestamp)。
type CloopenSender struct {
	cfg    CloopenConfig
	client *resty.Client
}

// NewCloopenSender 创建 CloopenSender 实例
func NewCloopenSender(cfg CloopenConfig) (*CloopenSender, error) {
	if cfg.AccountSID == "" || cfg.AuthToken == "" || cfg.AppID == "" {
		return nil, fmt.Errorf("sms: cloopen account sid, auth token and app id are required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://app.cloopen.com:8883"
	}
	if cfg.TemplateID == "" {
		cfg.TemplateID = "1"
	}
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(10 * time.Second).
		SetHeader("Accept", "application/json")
	return &CloopenSender{cfg: cfg, client: client}, nil
}

type cloopenResponse struct {
	StatusCode string `json:"statusCode"`
	StatusMsg  string `json:"statusMsg"`
}

// Send 实现 Sender 接口
func (s *CloopenSender) Send(ctx context.Context, mobile, code string, expireMinutes int) error {
	timestamp := time.Now().Format("20060102150405")
	sig := strings.ToUpper(fmt.Sprintf("%x",
		md5.Sum([]byte(s.cfg.AccountSID+s.cfg.AuthToken+timestamp))))
	auth := base64.StdEncoding.EncodeToString(
		[]byte(s.cfg.AccountSID + ":" + timestamp))

	body := map[string]interface{}{
		"to":         mobile,
		"appId":      s.cfg.AppID,
		"templateId": s.cfg.TemplateID,
		"datas":      []string{code, strconv.Itoa(expireMinutes)},
	}

	var result cloopenResponse
	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("Authorization", auth).
		SetQueryParam("sig", sig).
		SetBody(body).
		SetResult(&result).
		Post(fmt.Sprintf("/2013-12-26/Accounts/%s/SMS/TemplateSMS", s.cfg.AccountSID))
	if err != nil {
		return fmt.Errorf("sms: cloopen request failed: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("sms: cloopen returned http status %s", resp.Status())
	}
	// 000000 是云通讯的成功码
	if result.StatusCode != "000000" {
		return fmt.Errorf("sms: cloopen rejected message (code %s: %s)", result.StatusCode, result.StatusMsg)
	}
	return nil
}
