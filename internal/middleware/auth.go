// Package middleware 提供 Gin 中间件。
package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/late-nightpoet/blog/internal/repository"
)

// SessionCookieName 是携带会话 ID 的 cookie 名。
// cookie 只存会话 ID，登录状态本身在服务端。
const SessionCookieName = "sessionid"

// Gin 上下文里已认证用户信息的 key。
const (
	ContextUserIDKey   = "user_id"
	ContextUsernameKey = "username"
	ContextSessionKey  = "session_id"
)

// Auth 返回一个 Gin 中间件，从 sessionid cookie 解析服务端会话。
// 会话缺失或过期时返回 401，不做重定向 (前端根据状态码跳登录页)。
func Auth(sessionRepo repository.SessionRepository) gin.HandlerFunc {
	if sessionRepo == nil {
		panic("SessionRepository cannot be nil for Auth middleware")
	}

	return func(c *gin.Context) {
		sessionID, err := c.Cookie(SessionCookieName)
		if err != nil || sessionID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "login required"})
			c.Abort()
			return
		}

		session, err := sessionRepo.Find(c.Request.Context(), sessionID)
		if err != nil {
			if errors.Is(err, repository.ErrSessionNotFound) {
				logrus.WithField("session_id", sessionID).Debug("Auth middleware: session expired or unknown")
				c.JSON(http.StatusUnauthorized, gin.H{"error": "login required"})
			} else {
				logrus.WithError(err).Error("Auth middleware: failed to load session")
				c.JSON(http.StatusInternalServerError, gin.H{"error": "session lookup failed"})
			}
			c.Abort()
			return
		}

		// 将已认证身份放进 Gin 上下文，供后续处理程序使用
		c.Set(ContextUserIDKey, session.UserID)
		c.Set(ContextUsernameKey, session.Username)
		c.Set(ContextSessionKey, session.ID)
		logrus.WithField("user_id", session.UserID).Debug("Auth middleware: user authenticated via session")

		c.Next()
	}
}
