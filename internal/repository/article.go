package repository

import (
	"context"

	"github.com/late-nightpoet/blog/internal/domain"
)

// ArticleRepository 定义了文章的存储和检索操作。
type ArticleRepository interface {
	// Save 创建或更新一篇文章。
	Save(ctx context.Context, article *domain.Article) error

	// FindByID 根据 ID 查找文章，预加载分类和作者。
	// 不存在时返回 ErrArticleNotFound。
	FindByID(ctx context.Context, id uint) (*domain.Article, error)

	// List 按创建时间倒序分页列出文章。categoryID 为 nil 时不过滤分类。
	// 返回当前页的文章和符合条件的总数。
	List(ctx context.Context, categoryID *uint, page, pageSize int) ([]domain.Article, int64, error)

	// IncrementViews 将文章浏览量原子加一。
	IncrementViews(ctx context.Context, id uint) error

	// IncrementCommentCount 将文章评论数原子加一。
	IncrementCommentCount(ctx context.Context, id uint) error
}

// CategoryRepository 定义了文章分类的检索操作。分类由后台维护，这里只读。
type CategoryRepository interface {
	// FindByID 根据 ID 查找分类，不存在时返回 ErrCategoryNotFound。
	FindByID(ctx context.Context, id uint) (*domain.ArticleCategory, error)

	// FindAll 返回全部分类。
	FindAll(ctx context.Context) ([]domain.ArticleCategory, error)
}

// CommentRepository 定义了评论的存储和检索操作。
type CommentRepository interface {
	// Save 创建一条评论。
	Save(ctx context.Context, comment *domain.Comment) error

	// FindByArticle 按创建时间倒序返回文章的评论，预加载评论人。
	FindByArticle(ctx context.Context, articleID uint) ([]domain.Comment, error)
}
