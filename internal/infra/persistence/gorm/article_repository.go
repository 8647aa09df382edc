package gormpersistence

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/late-nightpoet/blog/internal/domain"
	"github.com/late-nightpoet/blog/internal/repository"
)

// GormArticleRepository 是 ArticleRepository 接口的 GORM 实现
type GormArticleRepository struct {
	db *gorm.DB
}

// NewGormArticleRepository 创建 GormArticleRepository 实例
func NewGormArticleRepository(db *gorm.DB) *GormArticleRepository {
	if db == nil {
		panic("database connection cannot be nil for GormArticleRepository")
	}
	return &GormArticleRepository{db: db}
}

// Save 实现创建或更新文章
func (r *GormArticleRepository) Save(ctx context.Context, article *domain.Article) error {
	err := r.db.WithContext(ctx).Save(article).Error
	if err != nil {
		return fmt.Errorf("gorm: save article (id: %d, title: %s): %w", article.ID, article.Title, err)
	}
	return nil
}

// FindByID 实现根据 ID 查找文章，预加载分类和作者
func (r *GormArticleRepository) FindByID(ctx context.Context, id uint) (*domain.Article, error) {
	var article domain.Article
	err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Author").
		First(&article, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrArticleNotFound
		}
		return nil, fmt.Errorf("gorm: find article by id %d: %w", id, err)
	}
	return &article, nil
}

// List 实现按创建时间倒序分页列出文章
func (r *GormArticleRepository) List(ctx context.Context, categoryID *uint, page, pageSize int) ([]domain.Article, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 10
	}

	query := r.db.WithContext(ctx).Model(&domain.Article{})
	if categoryID != nil {
		query = query.Where("category_id = ?", *categoryID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("gorm: count articles: %w", err)
	}

	var articles []domain.Article
	err := query.
		Preload("Category").
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&articles).Error
	if err != nil {
		return nil, 0, fmt.Errorf("gorm: list articles (page %d): %w", page, err)
	}
	return articles, total, nil
}

// IncrementViews 实现浏览量原子加一 (数据库端表达式，避免读改写竞态)
func (r *GormArticleRepository) IncrementViews(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Model(&domain.Article{}).
		Where("id = ?", id).
		UpdateColumn("total_views", gorm.Expr("total_views + ?", 1)).Error
	if err != nil {
		return fmt.Errorf("gorm: increment views for article %d: %w", id, err)
	}
	return nil
}

// IncrementCommentCount 实现评论数原子加一
func (r *GormArticleRepository) IncrementCommentCount(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Model(&domain.Article{}).
		Where("id = ?", id).
		UpdateColumn("comment_count", gorm.Expr("comment_count + ?", 1)).Error
	if err != nil {
		return fmt.Errorf("gorm: increment comment count for article %d: %w", id, err)
	}
	return nil
}
