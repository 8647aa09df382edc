package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

// RateLimit 返回一个 Gin 中间件，基于客户端 IP 做固定窗口限流。
// 短信验证码接口挂这个中间件，防止验证码通道被刷。
// redisClient: 计数器存储，必须提供。
// maxRequests: 窗口内允许的最大请求数。
// window: 窗口时长。
// onLimited: 超限时的响应渲染，为 nil 时返回 429 JSON。
// 短信验证码接口用它保持 {code, errmsg} 返回码协议。
func RateLimit(redisClient *redis.Client, maxRequests int, window time.Duration, onLimited gin.HandlerFunc) gin.HandlerFunc {
	if redisClient == nil {
		panic("Redis client cannot be nil for RateLimit middleware")
	}
	if maxRequests <= 0 {
		panic("maxRequests must be positive for RateLimit middleware")
	}
	if window <= 0 {
		panic("window duration must be positive for RateLimit middleware")
	}

	return func(c *gin.Context) {
		// 反向代理后面时 ClientIP 依赖正确的可信代理配置
		key := "ratelimit:" + c.ClientIP()

		// INCR + EXPIRE 走同一个 Pipeline，减少网络往返
		pipe := redisClient.Pipeline()
		incrCmd := pipe.Incr(c.Request.Context(), key)
		pipe.Expire(c.Request.Context(), key, window)
		if _, err := pipe.Exec(c.Request.Context()); err != nil {
			logrus.WithError(err).Error("RateLimit: Redis pipeline failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Rate limiting error"})
			c.Abort()
			return
		}

		count, err := incrCmd.Result()
		if err != nil {
			logrus.WithError(err).Error("RateLimit: failed to get INCR result")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Rate limiting error"})
			c.Abort()
			return
		}

		if count > int64(maxRequests) {
			if onLimited != nil {
				onLimited(c)
			} else {
				c.JSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests"})
			}
			c.Abort()
			return
		}

		c.Next()
	}
}
