package gormpersistence

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/late-nightpoet/blog/internal/domain"
)

// GormCommentRepository 是 CommentRepository 接口的 GORM 实现
type GormCommentRepository struct {
	db *gorm.DB
}

// NewGormCommentRepository 创建 GormCommentRepository 实例
func NewGormCommentRepository(db *gorm.DB) *GormCommentRepository {
	if db == nil {
		panic("database connection cannot be nil for GormCommentRepository")
	}
	return &GormCommentRepository{db: db}
}

// Save 实现创建评论
func (r *GormCommentRepository) Save(ctx context.Context, comment *domain.Comment) error {
	err := r.db.WithContext(ctx).Save(comment).Error
	if err != nil {
		return fmt.Errorf("gorm: save comment (id: %d): %w", comment.ID, err)
	}
	return nil
}

// FindByArticle 实现按创建时间倒序返回文章评论
func (r *GormCommentRepository) FindByArticle(ctx context.Context, articleID uint) ([]domain.Comment, error) {
	var comments []domain.Comment
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("article_id = ?", articleID).
		Order("created_at DESC").
		Find(&comments).Error
	if err != nil {
		return nil, fmt.Errorf("gorm: list comments for article %d: %w", articleID, err)
	}
	return comments, nil
}
