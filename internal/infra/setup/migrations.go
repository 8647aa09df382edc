package setup

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/late-nightpoet/blog/internal/domain"
)

// MigrateDB 自动迁移数据库模式。
// 分类表由后台维护数据，这里只保证表结构存在。
func MigrateDB(db *gorm.DB) error {
	if db == nil {
		return fmt.Errorf("cannot migrate database with nil DB connection")
	}
	err := db.AutoMigrate(
		&domain.User{},
		&domain.ArticleCategory{},
		&domain.Article{},
		&domain.Comment{},
	)
	if err != nil {
		return fmt.Errorf("failed to auto-migrate tables: %w", err)
	}
	return nil
}
