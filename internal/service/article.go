package service

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/late-nightpoet/blog/internal/domain"
	"github.com/late-nightpoet/blog/internal/repository"
)

// ArticleService 负责文章发布、浏览和评论的业务逻辑。
type ArticleService struct {
	articleRepo  repository.ArticleRepository
	categoryRepo repository.CategoryRepository
	commentRepo  repository.CommentRepository
}

// NewArticleService 创建 ArticleService 实例。
func NewArticleService(articleRepo repository.ArticleRepository, categoryRepo repository.CategoryRepository, commentRepo repository.CommentRepository) *ArticleService {
	if articleRepo == nil {
		panic("ArticleRepository cannot be nil for ArticleService")
	}
	if categoryRepo == nil {
		panic("CategoryRepository cannot be nil for ArticleService")
	}
	if commentRepo == nil {
		panic("CommentRepository cannot be nil for ArticleService")
	}
	return &ArticleService{
		articleRepo:  articleRepo,
		categoryRepo: categoryRepo,
		commentRepo:  commentRepo,
	}
}

// Publish 发布文章。分类必须存在，所有字段必填。
func (s *ArticleService) Publish(ctx context.Context, authorID uint, avatar, title string, categoryID uint, tags, summary, content string) (*domain.Article, error) {
	logCtx := logrus.WithFields(logrus.Fields{"author_id": authorID, "title": title})

	if avatar == "" || title == "" || categoryID == 0 || tags == "" || summary == "" || content == "" {
		return nil, ErrMissingParameter
	}

	category, err := s.categoryRepo.FindByID(ctx, categoryID)
	if err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			logCtx.WithField("category_id", categoryID).Warn("Publish failed: category not found")
			return nil, ErrCategoryNotFound
		}
		logCtx.WithError(err).Error("Failed to resolve category")
		return nil, ErrInternalServer
	}

	article := &domain.Article{
		AuthorID:   authorID,
		CategoryID: &category.ID,
		Avatar:     avatar,
		Tags:       tags,
		Title:      title,
		Summary:    summary,
		Content:    content,
	}
	if err := s.articleRepo.Save(ctx, article); err != nil {
		logCtx.WithError(err).Error("Failed to save article")
		return nil, ErrInternalServer
	}

	logCtx.WithField("article_id", article.ID).Info("Article published")
	return article, nil
}

// List 按创建时间倒序分页列出文章。categoryID 非 nil 时校验分类存在并过滤。
func (s *ArticleService) List(ctx context.Context, categoryID *uint, page, pageSize int) ([]domain.Article, int64, error) {
	if categoryID != nil {
		if _, err := s.categoryRepo.FindByID(ctx, *categoryID); err != nil {
			if errors.Is(err, repository.ErrCategoryNotFound) {
				return nil, 0, ErrCategoryNotFound
			}
			logrus.WithError(err).Error("Failed to resolve category for listing")
			return nil, 0, ErrInternalServer
		}
	}
	articles, total, err := s.articleRepo.List(ctx, categoryID, page, pageSize)
	if err != nil {
		logrus.WithError(err).Error("Failed to list articles")
		return nil, 0, ErrInternalServer
	}
	return articles, total, nil
}

// Categories 返回全部文章分类 (写文章页面的下拉框)。
func (s *ArticleService) Categories(ctx context.Context) ([]domain.ArticleCategory, error) {
	categories, err := s.categoryRepo.FindAll(ctx)
	if err != nil {
		logrus.WithError(err).Error("Failed to list categories")
		return nil, ErrInternalServer
	}
	return categories, nil
}

// Detail 返回文章详情和评论，并把浏览量加一。
// 计数失败只记日志，不影响详情返回。
func (s *ArticleService) Detail(ctx context.Context, id uint) (*domain.Article, []domain.Comment, error) {
	article, err := s.articleRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrArticleNotFound) {
			return nil, nil, ErrArticleNotFound
		}
		logrus.WithError(err).WithField("article_id", id).Error("Failed to load article")
		return nil, nil, ErrInternalServer
	}

	if err := s.articleRepo.IncrementViews(ctx, id); err != nil {
		logrus.WithError(err).WithField("article_id", id).Warn("Failed to increment article views")
	} else {
		article.TotalViews++
	}

	comments, err := s.commentRepo.FindByArticle(ctx, id)
	if err != nil {
		logrus.WithError(err).WithField("article_id", id).Error("Failed to load comments")
		return nil, nil, ErrInternalServer
	}
	return article, comments, nil
}

// AddComment 为文章创建评论并把评论数加一。
func (s *ArticleService) AddComment(ctx context.Context, articleID, userID uint, content string) (*domain.Comment, error) {
	logCtx := logrus.WithFields(logrus.Fields{"article_id": articleID, "user_id": userID})

	if articleID == 0 || content == "" {
		return nil, ErrMissingParameter
	}

	article, err := s.articleRepo.FindByID(ctx, articleID)
	if err != nil {
		if errors.Is(err, repository.ErrArticleNotFound) {
			return nil, ErrArticleNotFound
		}
		logCtx.WithError(err).Error("Failed to resolve article for comment")
		return nil, ErrInternalServer
	}

	comment := &domain.Comment{
		Content:   content,
		ArticleID: &article.ID,
		UserID:    &userID,
	}
	if err := s.commentRepo.Save(ctx, comment); err != nil {
		logCtx.WithError(err).Error("Failed to save comment")
		return nil, ErrInternalServer
	}

	if err := s.articleRepo.IncrementCommentCount(ctx, article.ID); err != nil {
		logCtx.WithError(err).Warn("Failed to increment comment count")
	}

	logCtx.WithField("comment_id", comment.ID).Info("Comment created")
	return comment, nil
}
