package domain

import "time"

// Comment 表示文章评论。文章或用户被删除时外键置空而不是级联删除，
// 所以两个引用都是可空的。
type Comment struct {
	ID        uint      `gorm:"primaryKey"`
	Content   string    `gorm:"type:text;not null"` // 评论内容
	ArticleID *uint     `gorm:"index"`              // 所属文章 ID，可空
	UserID    *uint     `gorm:"index"`              // 评论人 ID，可空
	CreatedAt time.Time `gorm:"autoCreateTime"`

	User *User `gorm:"foreignKey:UserID"` // 可选预加载，详情页展示评论人昵称
}

func (Comment) TableName() string {
	return "tb_comment"
}
