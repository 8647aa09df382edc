package service_test // 测试包

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/late-nightpoet/blog/internal/domain"
	"github.com/late-nightpoet/blog/internal/repository"
	"github.com/late-nightpoet/blog/internal/repository/mocks"
	"github.com/late-nightpoet/blog/internal/service"
)

func newArticleService(t *testing.T) (*service.ArticleService, *mocks.ArticleRepository, *mocks.CategoryRepository, *mocks.CommentRepository) {
	t.Helper()
	mockArticleRepo := new(mocks.ArticleRepository)
	mockCategoryRepo := new(mocks.CategoryRepository)
	mockCommentRepo := new(mocks.CommentRepository)
	articleService := service.NewArticleService(mockArticleRepo, mockCategoryRepo, mockCommentRepo)
	return articleService, mockArticleRepo, mockCategoryRepo, mockCommentRepo
}

// --- 测试 Publish 方法 ---

func TestArticleService_Publish_Success(t *testing.T) {
	// Arrange
	articleService, mockArticleRepo, mockCategoryRepo, _ := newArticleService(t)
	ctx := context.Background()
	category := &domain.ArticleCategory{ID: 2, Title: "Go"}

	mockCategoryRepo.On("FindByID", ctx, uint(2)).Return(category, nil).Once()
	mockArticleRepo.On("Save", ctx, mock.MatchedBy(func(article *domain.Article) bool {
		assert.Equal(t, uint(1), article.AuthorID)
		require.NotNil(t, article.CategoryID)
		assert.Equal(t, uint(2), *article.CategoryID)
		assert.Equal(t, "First post", article.Title)
		return true
	})).
		Run(func(args mock.Arguments) {
			args.Get(1).(*domain.Article).ID = 10
		}).
		Return(nil).Once()

	// Act
	article, err := articleService.Publish(ctx, 1, "cover.png", "First post", 2, "go,web", "summary", "content")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, uint(10), article.ID)
	mockArticleRepo.AssertExpectations(t)
	mockCategoryRepo.AssertExpectations(t)
}

func TestArticleService_Publish_CategoryNotFound(t *testing.T) {
	// Arrange
	articleService, mockArticleRepo, mockCategoryRepo, _ := newArticleService(t)
	ctx := context.Background()

	mockCategoryRepo.On("FindByID", ctx, uint(99)).Return(nil, repository.ErrCategoryNotFound).Once()

	// Act
	article, err := articleService.Publish(ctx, 1, "cover.png", "First post", 99, "go", "summary", "content")

	// Assert: 分类不存在时文章不落库
	require.Error(t, err)
	assert.True(t, errors.Is(err, service.ErrCategoryNotFound))
	assert.Nil(t, article)
	mockArticleRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestArticleService_Publish_MissingParameter(t *testing.T) {
	articleService, _, mockCategoryRepo, _ := newArticleService(t)

	_, err := articleService.Publish(context.Background(), 1, "cover.png", "", 2, "go", "summary", "content")

	require.Error(t, err)
	assert.True(t, errors.Is(err, service.ErrMissingParameter))
	mockCategoryRepo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

// --- 测试 List 方法 ---

func TestArticleService_List_All(t *testing.T) {
	// Arrange
	articleService, mockArticleRepo, _, _ := newArticleService(t)
	ctx := context.Background()
	articlesInDb := []domain.Article{{ID: 2, Title: "newer"}, {ID: 1, Title: "older"}}

	mockArticleRepo.On("List", ctx, (*uint)(nil), 1, 10).Return(articlesInDb, int64(2), nil).Once()

	// Act
	articles, total, err := articleService.List(ctx, nil, 1, 10)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, articles, 2)
	assert.Equal(t, "newer", articles[0].Title, "列表应按创建时间倒序")
	mockArticleRepo.AssertExpectations(t)
}

func TestArticleService_List_FilterByCategory(t *testing.T) {
	// Arrange
	articleService, mockArticleRepo, mockCategoryRepo, _ := newArticleService(t)
	ctx := context.Background()
	categoryID := uint(3)

	mockCategoryRepo.On("FindByID", ctx, categoryID).Return(&domain.ArticleCategory{ID: 3}, nil).Once()
	mockArticleRepo.On("List", ctx, &categoryID, 1, 10).Return([]domain.Article{{ID: 5}}, int64(1), nil).Once()

	// Act
	articles, total, err := articleService.List(ctx, &categoryID, 1, 10)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, articles, 1)
	mockCategoryRepo.AssertExpectations(t)
}

func TestArticleService_List_UnknownCategory(t *testing.T) {
	// Arrange
	articleService, mockArticleRepo, mockCategoryRepo, _ := newArticleService(t)
	ctx := context.Background()
	categoryID := uint(99)

	mockCategoryRepo.On("FindByID", ctx, categoryID).Return(nil, repository.ErrCategoryNotFound).Once()

	// Act
	_, _, err := articleService.List(ctx, &categoryID, 1, 10)

	// Assert
	require.Error(t, err)
	assert.True(t, errors.Is(err, service.ErrCategoryNotFound))
	mockArticleRepo.AssertNotCalled(t, "List", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// --- 测试 Detail 方法 ---

func TestArticleService_Detail_IncrementsViews(t *testing.T) {
	// Arrange
	articleService, mockArticleRepo, _, mockCommentRepo := newArticleService(t)
	ctx := context.Background()
	articleInDb := &domain.Article{ID: 5, Title: "post", TotalViews: 7}

	mockArticleRepo.On("FindByID", ctx, uint(5)).Return(articleInDb, nil).Once()
	mockArticleRepo.On("IncrementViews", ctx, uint(5)).Return(nil).Once()
	mockCommentRepo.On("FindByArticle", ctx, uint(5)).Return([]domain.Comment{{ID: 1, Content: "nice"}}, nil).Once()

	// Act
	article, comments, err := articleService.Detail(ctx, 5)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, uint(8), article.TotalViews, "返回的详情应包含本次浏览")
	require.Len(t, comments, 1)
	mockArticleRepo.AssertExpectations(t)
	mockCommentRepo.AssertExpectations(t)
}

func TestArticleService_Detail_ViewCountFailureIsNonFatal(t *testing.T) {
	// Arrange: 计数失败只降级，详情照常返回
	articleService, mockArticleRepo, _, mockCommentRepo := newArticleService(t)
	ctx := context.Background()
	articleInDb := &domain.Article{ID: 5, TotalViews: 7}

	mockArticleRepo.On("FindByID", ctx, uint(5)).Return(articleInDb, nil).Once()
	mockArticleRepo.On("IncrementViews", ctx, uint(5)).Return(errors.New("db down")).Once()
	mockCommentRepo.On("FindByArticle", ctx, uint(5)).Return([]domain.Comment{}, nil).Once()

	// Act
	article, _, err := articleService.Detail(ctx, 5)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, uint(7), article.TotalViews)
}

func TestArticleService_Detail_NotFound(t *testing.T) {
	articleService, mockArticleRepo, _, _ := newArticleService(t)
	ctx := context.Background()

	mockArticleRepo.On("FindByID", ctx, uint(404)).Return(nil, repository.ErrArticleNotFound).Once()

	_, _, err := articleService.Detail(ctx, 404)

	require.Error(t, err)
	assert.True(t, errors.Is(err, service.ErrArticleNotFound))
}

// --- 测试 AddComment 方法 ---

func TestArticleService_AddComment_Success(t *testing.T) {
	// Arrange
	articleService, mockArticleRepo, _, mockCommentRepo := newArticleService(t)
	ctx := context.Background()
	articleInDb := &domain.Article{ID: 5}

	mockArticleRepo.On("FindByID", ctx, uint(5)).Return(articleInDb, nil).Once()
	mockCommentRepo.On("Save", ctx, mock.MatchedBy(func(comment *domain.Comment) bool {
		require.NotNil(t, comment.ArticleID)
		require.NotNil(t, comment.UserID)
		return *comment.ArticleID == 5 && *comment.UserID == 3 && comment.Content == "well written"
	})).
		Run(func(args mock.Arguments) {
			args.Get(1).(*domain.Comment).ID = 9
		}).
		Return(nil).Once()
	mockArticleRepo.On("IncrementCommentCount", ctx, uint(5)).Return(nil).Once()

	// Act
	comment, err := articleService.AddComment(ctx, 5, 3, "well written")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, uint(9), comment.ID)
	mockArticleRepo.AssertExpectations(t)
	mockCommentRepo.AssertExpectations(t)
}

func TestArticleService_AddComment_ArticleNotFound(t *testing.T) {
	// Arrange
	articleService, mockArticleRepo, _, mockCommentRepo := newArticleService(t)
	ctx := context.Background()

	mockArticleRepo.On("FindByID", ctx, uint(404)).Return(nil, repository.ErrArticleNotFound).Once()

	// Act
	comment, err := articleService.AddComment(ctx, 404, 3, "hello")

	// Assert
	require.Error(t, err)
	assert.True(t, errors.Is(err, service.ErrArticleNotFound))
	assert.Nil(t, comment)
	mockCommentRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestArticleService_AddComment_MissingContent(t *testing.T) {
	articleService, mockArticleRepo, _, _ := newArticleService(t)

	_, err := articleService.AddComment(context.Background(), 5, 3, "")

	require.Error(t, err)
	assert.True(t, errors.Is(err, service.ErrMissingParameter))
	mockArticleRepo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}
