package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/late-nightpoet/blog/internal/service"
)

// HandleServiceError 把 service 层错误映射为 HTTP 响应。
// 校验类错误原样透给调用方；其余错误记日志后返回通用提示，
// 不向客户端泄露内部细节。
func HandleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrMissingParameter),
		errors.Is(err, service.ErrInvalidMobile),
		errors.Is(err, service.ErrInvalidPassword),
		errors.Is(err, service.ErrPasswordMismatch),
		errors.Is(err, service.ErrImageCodeExpired),
		errors.Is(err, service.ErrImageCodeMismatch),
		errors.Is(err, service.ErrSMSCodeExpired),
		errors.Is(err, service.ErrSMSCodeMismatch),
		errors.Is(err, service.ErrAlreadyRegistered),
		errors.Is(err, service.ErrCategoryNotFound),
		errors.Is(err, service.ErrInvalidCredentials):
		ErrorResponse(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrArticleNotFound):
		ErrorResponse(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrSessionNotFound):
		ErrorResponse(c, http.StatusUnauthorized, "login required")
	default:
		logrus.WithError(err).Error("Unhandled internal server error")
		ErrorResponse(c, http.StatusInternalServerError, "something went wrong, please try again later")
	}
}
