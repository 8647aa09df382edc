// Package redisstate 提供 Redis 支撑的短时效状态存储 (验证码、会话)。
package redisstate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/late-nightpoet/blog/internal/repository"
)

// RedisVerificationRepository 是 VerificationRepository 接口的 Redis 实现。
// 所有条目都带 TTL，同 key 重复 SET 会覆盖旧值并重置过期时间 (后写者赢)。
type RedisVerificationRepository struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisVerificationRepository 创建 RedisVerificationRepository 实例
func NewRedisVerificationRepository(client *redis.Client, keyPrefix string) *RedisVerificationRepository {
	if client == nil {
		panic("redis client cannot be nil for RedisVerificationRepository")
	}
	if keyPrefix == "" {
		keyPrefix = "blog:"
	}
	return &RedisVerificationRepository{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

// --- Key Generation Helpers ---

func (r *RedisVerificationRepository) imageCodeKey(uuid string) string {
	return fmt.Sprintf("%simg:%s", r.keyPrefix, uuid)
}

func (r *RedisVerificationRepository) smsCodeKey(mobile string) string {
	return fmt.Sprintf("%ssms:%s", r.keyPrefix, mobile)
}

// StoreImageCode 缓存图形验证码文本
func (r *RedisVerificationRepository) StoreImageCode(ctx context.Context, uuid, text string, ttl time.Duration) error {
	key := r.imageCodeKey(uuid)
	if err := r.client.Set(ctx, key, text, ttl).Err(); err != nil {
		return fmt.Errorf("redis: store image code on key %s: %w", key, err)
	}
	return nil
}

// ConsumeImageCode 原子地读取并删除图形验证码。
// GETDEL 让读取和失效在单条命令内完成，关闭了先读后删窗口里
// 并发请求拿到同一个未删除值的竞态。
func (r *RedisVerificationRepository) ConsumeImageCode(ctx context.Context, uuid string) (string, error) {
	key := r.imageCodeKey(uuid)
	text, err := r.client.GetDel(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", repository.ErrCodeNotFound
		}
		return "", fmt.Errorf("redis: consume image code on key %s: %w", key, err)
	}
	return text, nil
}

// StoreSMSCode 缓存短信验证码，覆盖该手机号之前未消费的验证码
func (r *RedisVerificationRepository) StoreSMSCode(ctx context.Context, mobile, code string, ttl time.Duration) error {
	key := r.smsCodeKey(mobile)
	if err := r.client.Set(ctx, key, code, ttl).Err(); err != nil {
		return fmt.Errorf("redis: store sms code on key %s: %w", key, err)
	}
	return nil
}

// GetSMSCode 读取短信验证码
func (r *RedisVerificationRepository) GetSMSCode(ctx context.Context, mobile string) (string, error) {
	key := r.smsCodeKey(mobile)
	code, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", repository.ErrCodeNotFound
		}
		return "", fmt.Errorf("redis: get sms code on key %s: %w", key, err)
	}
	return code, nil
}

// DeleteSMSCode 删除短信验证码
func (r *RedisVerificationRepository) DeleteSMSCode(ctx context.Context, mobile string) error {
	key := r.smsCodeKey(mobile)
	if err := r.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis: delete sms code on key %s: %w", key, err)
	}
	return nil
}
