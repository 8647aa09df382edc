package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/late-nightpoet/blog/internal/domain"
	"github.com/late-nightpoet/blog/internal/middleware"
	"github.com/late-nightpoet/blog/internal/service"
)

// recommendationCount 是详情页侧边栏推荐的文章数
const recommendationCount = 6

// ArticleHandler 封装了文章浏览、发布和评论的 HTTP 处理逻辑
type ArticleHandler struct {
	articleService *service.ArticleService
}

// NewArticleHandler 创建 ArticleHandler 实例
func NewArticleHandler(articleService *service.ArticleService) *ArticleHandler {
	return &ArticleHandler{articleService: articleService}
}

// Index 首页文章列表，支持按分类过滤和分页
func (h *ArticleHandler) Index(c *gin.Context) {
	var categoryID *uint
	if catParam := c.Query("cat_id"); catParam != "" {
		id, err := strconv.ParseUint(catParam, 10, 32)
		if err != nil {
			ErrorResponse(c, http.StatusBadRequest, "invalid cat_id")
			return
		}
		cid := uint(id)
		categoryID = &cid
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))

	articles, total, err := h.articleService.List(c.Request.Context(), categoryID, page, pageSize)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	categories, err := h.articleService.Categories(c.Request.Context())
	if err != nil {
		HandleServiceError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, gin.H{
		"articles":   articleSummaries(articles),
		"total":      total,
		"page":       page,
		"categories": categoryList(categories),
	})
}

// Detail 文章详情，附带评论列表，同时浏览量加一
func (h *ArticleHandler) Detail(c *gin.Context) {
	id, err := strconv.ParseUint(c.Query("id"), 10, 32)
	if err != nil || id == 0 {
		ErrorResponse(c, http.StatusBadRequest, "invalid article id")
		return
	}

	article, comments, err := h.articleService.Detail(c.Request.Context(), uint(id))
	if err != nil {
		HandleServiceError(c, err)
		return
	}

	// 侧边栏推荐：最新文章去掉当前这篇
	recommendations, _, err := h.articleService.List(c.Request.Context(), nil, 1, recommendationCount+1)
	if err != nil {
		HandleServiceError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, gin.H{
		"article":         articleDetail(article),
		"comments":        commentList(comments),
		"recommendations": recommendationList(recommendations, article.ID),
	})
}

// CommentRequest 定义评论表单的结构体
type CommentRequest struct {
	ArticleID uint   `form:"id"`
	Content   string `form:"content"`
}

// Comment 提交评论 (需要登录)
func (h *ArticleHandler) Comment(c *gin.Context) {
	var req CommentRequest
	if err := c.ShouldBind(&req); err != nil {
		logrus.WithError(err).Warn("Handler.Comment: invalid input format")
		ErrorResponse(c, http.StatusBadRequest, "invalid input")
		return
	}

	userID := c.GetUint(middleware.ContextUserIDKey)
	comment, err := h.articleService.AddComment(c.Request.Context(), req.ArticleID, userID, req.Content)
	if err != nil {
		HandleServiceError(c, err)
		return
	}

	SuccessResponse(c, http.StatusCreated, gin.H{
		"message":    "comment created",
		"comment_id": comment.ID,
	})
}

// WriteBlogGet 写文章页面需要的分类列表 (需要登录)
func (h *ArticleHandler) WriteBlogGet(c *gin.Context) {
	categories, err := h.articleService.Categories(c.Request.Context())
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, gin.H{"categories": categoryList(categories)})
}

// WriteBlogRequest 定义发布文章表单的结构体
type WriteBlogRequest struct {
	Avatar     string `form:"avatar"` // 标题图引用
	Title      string `form:"title"`
	CategoryID uint   `form:"category"`
	Tags       string `form:"tags"`
	Summary    string `form:"summary"`
	Content    string `form:"content"`
}

// WriteBlogPost 发布文章 (需要登录)
func (h *ArticleHandler) WriteBlogPost(c *gin.Context) {
	var req WriteBlogRequest
	if err := c.ShouldBind(&req); err != nil {
		logrus.WithError(err).Warn("Handler.WriteBlogPost: invalid input format")
		ErrorResponse(c, http.StatusBadRequest, "invalid input")
		return
	}

	userID := c.GetUint(middleware.ContextUserIDKey)
	article, err := h.articleService.Publish(c.Request.Context(), userID,
		req.Avatar, req.Title, req.CategoryID, req.Tags, req.Summary, req.Content)
	if err != nil {
		HandleServiceError(c, err)
		return
	}

	SuccessResponse(c, http.StatusCreated, gin.H{
		"message":    "article published",
		"article_id": article.ID,
	})
}

// --- 响应组装辅助函数 ---

func articleSummaries(articles []domain.Article) []gin.H {
	list := make([]gin.H, 0, len(articles))
	for i := range articles {
		a := &articles[i]
		item := gin.H{
			"id":            a.ID,
			"title":         a.Title,
			"summary":       a.Summary,
			"avatar":        a.Avatar,
			"tags":          a.Tags,
			"total_views":   a.TotalViews,
			"comment_count": a.CommentCount,
			"created_at":    a.CreatedAt,
		}
		if a.Category != nil {
			item["category"] = a.Category.Title
		}
		list = append(list, item)
	}
	return list
}

func articleDetail(a *domain.Article) gin.H {
	item := gin.H{
		"id":            a.ID,
		"title":         a.Title,
		"summary":       a.Summary,
		"content":       a.Content,
		"avatar":        a.Avatar,
		"tags":          a.Tags,
		"total_views":   a.TotalViews,
		"comment_count": a.CommentCount,
		"created_at":    a.CreatedAt,
	}
	if a.Category != nil {
		item["category"] = a.Category.Title
	}
	if a.Author != nil {
		item["author"] = a.Author.Username
	}
	return item
}

func recommendationList(articles []domain.Article, excludeID uint) []gin.H {
	list := make([]gin.H, 0, recommendationCount)
	for i := range articles {
		a := &articles[i]
		if a.ID == excludeID {
			continue
		}
		list = append(list, gin.H{"id": a.ID, "title": a.Title})
		if len(list) == recommendationCount {
			break
		}
	}
	return list
}

func categoryList(categories []domain.ArticleCategory) []gin.H {
	list := make([]gin.H, 0, len(categories))
	for _, cat := range categories {
		list = append(list, gin.H{"id": cat.ID, "title": cat.Title})
	}
	return list
}

func commentList(comments []domain.Comment) []gin.H {
	list := make([]gin.H, 0, len(comments))
	for i := range comments {
		cm := &comments[i]
		item := gin.H{
			"id":         cm.ID,
			"content":    cm.Content,
			"created_at": cm.CreatedAt,
		}
		if cm.User != nil {
			item["username"] = cm.User.Username
		}
		list = append(list, item)
	}
	return list
}
