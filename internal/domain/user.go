// Package domain 定义了应用程序中使用的数据结构 (数据库模型)。
package domain

import "time"

// User 表示博客的注册用户，手机号是认证主键。
type User struct {
	ID        uint      `gorm:"primaryKey"`                                       // 用户唯一标识符 (主键)
	Mobile    string    `gorm:"type:varchar(20);uniqueIndex:idx_mobile;not null"` // 手机号，唯一，登录凭证
	Username  string    `gorm:"type:varchar(191);not null"`                       // 展示用昵称，注册时默认等于手机号
	Password  string    `gorm:"type:text;not null"`                               // 存储的是哈希后的密码，不能为空
	Avatar    string    `gorm:"type:varchar(255)"`                                // 头像引用 (URL 或相对路径)
	UserDesc  string    `gorm:"type:varchar(500)"`                                // 个人简介
	CreatedAt time.Time `gorm:"autoCreateTime"`                                   // 用户记录创建时间 (GORM 自动填充)
	UpdatedAt time.Time `gorm:"autoUpdateTime"`                                   // 用户记录最后更新时间 (GORM 自动填充)
}

// TableName 保持与旧库一致的表名。
func (User) TableName() string {
	return "tb_user"
}
