package repository

import (
	"context"
	"time"

	"github.com/late-nightpoet/blog/internal/domain"
)

// SessionRepository 定义了服务端会话的存储操作。
type SessionRepository interface {
	// Save 以会话 ID 为 key 保存会话，ttl 为服务端保留时长。
	Save(ctx context.Context, session *domain.Session, ttl time.Duration) error

	// Find 根据会话 ID 查找会话。不存在或已过期时返回 ErrSessionNotFound。
	Find(ctx context.Context, id string) (*domain.Session, error)

	// Delete 删除会话 (登出)。删除不存在的会话不算错误。
	Delete(ctx context.Context, id string) error
}
