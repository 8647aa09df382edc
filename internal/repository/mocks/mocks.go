// Package mocks 提供 repository 接口的 testify Mock 实现，供 service 层单元测试使用。
package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/late-nightpoet/blog/internal/domain"
)

// UserRepository 是 repository.UserRepository 的 Mock
type UserRepository struct {
	mock.Mock
}

func (m *UserRepository) FindByMobile(ctx context.Context, mobile string) (*domain.User, error) {
	args := m.Called(ctx, mobile)
	if user, ok := args.Get(0).(*domain.User); ok {
		return user, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *UserRepository) FindByID(ctx context.Context, id uint) (*domain.User, error) {
	args := m.Called(ctx, id)
	if user, ok := args.Get(0).(*domain.User); ok {
		return user, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *UserRepository) Save(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

// VerificationRepository 是 repository.VerificationRepository 的 Mock
type VerificationRepository struct {
	mock.Mock
}

func (m *VerificationRepository) StoreImageCode(ctx context.Context, uuid, text string, ttl time.Duration) error {
	args := m.Called(ctx, uuid, text, ttl)
	return args.Error(0)
}

func (m *VerificationRepository) ConsumeImageCode(ctx context.Context, uuid string) (string, error) {
	args := m.Called(ctx, uuid)
	return args.String(0), args.Error(1)
}

func (m *VerificationRepository) StoreSMSCode(ctx context.Context, mobile, code string, ttl time.Duration) error {
	args := m.Called(ctx, mobile, code, ttl)
	return args.Error(0)
}

func (m *VerificationRepository) GetSMSCode(ctx context.Context, mobile string) (string, error) {
	args := m.Called(ctx, mobile)
	return args.String(0), args.Error(1)
}

func (m *VerificationRepository) DeleteSMSCode(ctx context.Context, mobile string) error {
	args := m.Called(ctx, mobile)
	return args.Error(0)
}

// SessionRepository 是 repository.SessionRepository 的 Mock
type SessionRepository struct {
	mock.Mock
}

func (m *SessionRepository) Save(ctx context.Context, session *domain.Session, ttl time.Duration) error {
	args := m.Called(ctx, session, ttl)
	return args.Error(0)
}

func (m *SessionRepository) Find(ctx context.Context, id string) (*domain.Session, error) {
	args := m.Called(ctx, id)
	if session, ok := args.Get(0).(*domain.Session); ok {
		return session, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *SessionRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// ArticleRepository 是 repository.ArticleRepository 的 Mock
type ArticleRepository struct {
	mock.Mock
}

func (m *ArticleRepository) Save(ctx context.Context, article *domain.Article) error {
	args := m.Called(ctx, article)
	return args.Error(0)
}

func (m *ArticleRepository) FindByID(ctx context.Context, id uint) (*domain.Article, error) {
	args := m.Called(ctx, id)
	if article, ok := args.Get(0).(*domain.Article); ok {
		return article, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ArticleRepository) List(ctx context.Context, categoryID *uint, page, pageSize int) ([]domain.Article, int64, error) {
	args := m.Called(ctx, categoryID, page, pageSize)
	var articles []domain.Article
	if got, ok := args.Get(0).([]domain.Article); ok {
		articles = got
	}
	return articles, args.Get(1).(int64), args.Error(2)
}

func (m *ArticleRepository) IncrementViews(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *ArticleRepository) IncrementCommentCount(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// CategoryRepository 是 repository.CategoryRepository 的 Mock
type CategoryRepository struct {
	mock.Mock
}

func (m *CategoryRepository) FindByID(ctx context.Context, id uint) (*domain.ArticleCategory, error) {
	args := m.Called(ctx, id)
	if category, ok := args.Get(0).(*domain.ArticleCategory); ok {
		return category, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *CategoryRepository) FindAll(ctx context.Context) ([]domain.ArticleCategory, error) {
	args := m.Called(ctx)
	var categories []domain.ArticleCategory
	if got, ok := args.Get(0).([]domain.ArticleCategory); ok {
		categories = got
	}
	return categories, args.Error(1)
}

// CommentRepository 是 repository.CommentRepository 的 Mock
type CommentRepository struct {
	mock.Mock
}

func (m *CommentRepository) Save(ctx context.Context, comment *domain.Comment) error {
	args := m.Called(ctx, comment)
	return args.Error(0)
}

func (m *CommentRepository) FindByArticle(ctx context.Context, articleID uint) ([]domain.Comment, error) {
	args := m.Called(ctx, articleID)
	var comments []domain.Comment
	if got, ok := args.Get(0).([]domain.Comment); ok {
		comments = got
	}
	return comments, args.Error(1)
}
