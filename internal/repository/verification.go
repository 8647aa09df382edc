package repository

import (
	"context"
	"time"
)

// VerificationRepository 定义了短时效验证码条目的存储操作。
// 条目带绝对过期时间，同一 key 重复写入会覆盖旧值并重置过期时间。
type VerificationRepository interface {
	// StoreImageCode 以图形验证码会话 token 为 key 缓存验证码文本。
	StoreImageCode(ctx context.Context, uuid, text string, ttl time.Duration) error

	// ConsumeImageCode 原子地读取并删除图形验证码文本 (一次性使用，
	// 无论后续比对是否成功都不允许重放)。
	// key 不存在或已过期时返回 ErrCodeNotFound。
	ConsumeImageCode(ctx context.Context, uuid string) (string, error)

	// StoreSMSCode 以手机号为 key 缓存短信验证码，覆盖该手机号之前未消费的验证码。
	StoreSMSCode(ctx context.Context, mobile, code string, ttl time.Duration) error

	// GetSMSCode 读取手机号对应的短信验证码。
	// key 不存在或已过期时返回 ErrCodeNotFound。
	GetSMSCode(ctx context.Context, mobile string) (string, error)

	// DeleteSMSCode 删除手机号对应的短信验证码 (校验通过后防止重放)。
	DeleteSMSCode(ctx context.Context, mobile string) error
}
