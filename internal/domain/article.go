package domain

import "time"

// Article 表示一篇博客文章，author 为文章作者 (一对多外键)。
type Article struct {
	ID           uint      `gorm:"primaryKey"`
	AuthorID     uint      `gorm:"index;not null"`             // 作者用户 ID (外键关联到 User.ID)
	CategoryID   *uint     `gorm:"index"`                      // 文章分类 ID，可为空 (非拥有关系)
	Avatar       string    `gorm:"type:varchar(255)"`          // 文章标题图引用
	Tags         string    `gorm:"type:varchar(20)"`           // 文章标签
	Title        string    `gorm:"type:varchar(100);not null"` // 文章标题
	Summary      string    `gorm:"type:varchar(200);not null"` // 摘要
	Content      string    `gorm:"type:text;not null"`         // 正文
	TotalViews   uint      `gorm:"default:0"`                  // 浏览量计数
	CommentCount uint      `gorm:"default:0"`                  // 评论数计数
	CreatedAt    time.Time `gorm:"autoCreateTime;index"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`

	// 可选预加载的关联，查询详情页时填充
	Category *ArticleCategory `gorm:"foreignKey:CategoryID"`
	Author   *User            `gorm:"foreignKey:AuthorID"`
}

func (Article) TableName() string {
	return "tb_article"
}
