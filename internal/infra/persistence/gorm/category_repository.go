package gormpersistence

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/late-nightpoet/blog/internal/domain"
	"github.com/late-nightpoet/blog/internal/repository"
)

// GormCategoryRepository 是 CategoryRepository 接口的 GORM 实现
type GormCategoryRepository struct {
	db *gorm.DB
}

// NewGormCategoryRepository 创建 GormCategoryRepository 实例
func NewGormCategoryRepository(db *gorm.DB) *GormCategoryRepository {
	if db == nil {
		panic("database connection cannot be nil for GormCategoryRepository")
	}
	return &GormCategoryRepository{db: db}
}

// FindByID 实现根据 ID 查找分类
func (r *GormCategoryRepository) FindByID(ctx context.Context, id uint) (*domain.ArticleCategory, error) {
	var category domain.ArticleCategory
	err := r.db.WithContext(ctx).First(&category, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrCategoryNotFound
		}
		return nil, fmt.Errorf("gorm: find category by id %d: %w", id, err)
	}
	return &category, nil
}

// FindAll 实现返回全部分类
func (r *GormCategoryRepository) FindAll(ctx context.Context) ([]domain.ArticleCategory, error) {
	var categories []domain.ArticleCategory
	err := r.db.WithContext(ctx).Order("id ASC").Find(&categories).Error
	if err != nil {
		return nil, fmt.Errorf("gorm: list categories: %w", err)
	}
	return categories, nil
}
