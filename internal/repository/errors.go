package repository

import "errors"

// 通用的存储库错误
var (
	// ErrNotFound 表示请求的记录未找到
	ErrNotFound = errors.New("repository: record not found")
	// ErrDuplicateEntry 表示尝试插入或更新的数据违反了唯一约束
	ErrDuplicateEntry = errors.New("repository: duplicate entry")
)

// 特定资源的错误 (基于通用错误创建)
var (
	ErrUserNotFound     = ErrNotFound
	ErrArticleNotFound  = ErrNotFound
	ErrCategoryNotFound = ErrNotFound
	ErrSessionNotFound  = ErrNotFound
	// ErrCodeNotFound 表示验证码不存在或已过期 (Redis 里 key 缺失)
	ErrCodeNotFound = ErrNotFound
)
