package domain

import "time"

// ArticleCategory 表示文章分类，由后台维护，这里只读引用。
type ArticleCategory struct {
	ID        uint      `gorm:"primaryKey"`
	Title     string    `gorm:"type:varchar(100);not null"` // 分类标题
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (ArticleCategory) TableName() string {
	return "tb_category"
}
