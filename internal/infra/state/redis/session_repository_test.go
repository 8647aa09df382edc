package redisstate_test // 测试包

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/late-nightpoet/blog/internal/domain"
	redisstate "github.com/late-nightpoet/blog/internal/infra/state/redis"
	"github.com/late-nightpoet/blog/internal/repository"
)

func TestSessionRepository_SaveAndFind(t *testing.T) {
	// Arrange
	_, client := newTestRedis(t)
	repo := redisstate.NewRedisSessionRepository(client, "blog:")
	ctx := context.Background()
	session := &domain.Session{
		ID:        "session-1",
		UserID:    7,
		Username:  "poet",
		Remember:  true,
		CreatedAt: time.Now().Truncate(time.Second),
	}

	// Act
	require.NoError(t, repo.Save(ctx, session, 14*24*time.Hour))
	loaded, err := repo.Find(ctx, "session-1")

	// Assert: JSON 往返后字段保持不变
	require.NoError(t, err)
	assert.Equal(t, session.ID, loaded.ID)
	assert.Equal(t, session.UserID, loaded.UserID)
	assert.Equal(t, session.Username, loaded.Username)
	assert.True(t, loaded.Remember)
}

func TestSessionRepository_Find_NotFound(t *testing.T) {
	_, client := newTestRedis(t)
	repo := redisstate.NewRedisSessionRepository(client, "blog:")

	_, err := repo.Find(context.Background(), "missing")

	assert.True(t, errors.Is(err, repository.ErrSessionNotFound))
}

func TestSessionRepository_ExpiresAfterTTL(t *testing.T) {
	// Arrange
	mr, client := newTestRedis(t)
	repo := redisstate.NewRedisSessionRepository(client, "blog:")
	ctx := context.Background()
	session := &domain.Session{ID: "session-1", UserID: 7, Username: "poet"}

	require.NoError(t, repo.Save(ctx, session, time.Hour))

	// Act: 过期后会话不可解析，等同于登出
	mr.FastForward(time.Hour + time.Second)

	// Assert
	_, err := repo.Find(ctx, "session-1")
	assert.True(t, errors.Is(err, repository.ErrSessionNotFound))
}

func TestSessionRepository_Delete(t *testing.T) {
	// Arrange
	_, client := newTestRedis(t)
	repo := redisstate.NewRedisSessionRepository(client, "blog:")
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, &domain.Session{ID: "session-1", UserID: 7}, time.Hour))

	// Act
	require.NoError(t, repo.Delete(ctx, "session-1"))

	// Assert
	_, err := repo.Find(ctx, "session-1")
	assert.True(t, errors.Is(err, repository.ErrSessionNotFound))

	// 重复删除不算错误
	assert.NoError(t, repo.Delete(ctx, "session-1"))
}
