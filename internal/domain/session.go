package domain

import "time"

// Session 表示一个服务端会话。真正的登录状态保存在 Redis 里，
// 客户端 cookie 只携带会话 ID 和展示用提示信息。
type Session struct {
	ID        string    `json:"id"`         // 会话 ID (uuid)
	UserID    uint      `json:"user_id"`    // 已认证用户 ID
	Username  string    `json:"username"`   // 展示用昵称快照
	Remember  bool      `json:"remember"`   // 是否勾选了"记住我"
	CreatedAt time.Time `json:"created_at"` // 会话创建时间
}
