package http

import "github.com/gin-gonic/gin"

// ErrorResponse 统一的错误响应
func ErrorResponse(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{"error": message})
}

// SuccessResponse 统一的成功响应
func SuccessResponse(c *gin.Context, code int, data interface{}) {
	c.JSON(code, data)
}

// 短信验证码接口沿用前端约定的 {code, errmsg} 返回码协议。
const (
	RetOK             = 0    // 成功
	RetImageCodeErr   = 4001 // 图形验证码失效或错误
	RetThrottlingErr  = 4002 // 访问过于频繁
	RetNecessaryParam = 4103 // 缺少必传参数
	RetServerErr      = 5000 // 服务端错误
)

// RetcodeResponse 按 {code, errmsg} 协议返回，HTTP 状态码恒为 200，
// 业务结果由 code 表达。
func RetcodeResponse(c *gin.Context, code int, errmsg string) {
	c.JSON(200, gin.H{"code": code, "errmsg": errmsg})
}

// ThrottledResponse 是限流中间件在短信验证码接口上的超限渲染，
// 同样走 {code, errmsg} 协议。
func ThrottledResponse(c *gin.Context) {
	RetcodeResponse(c, RetThrottlingErr, "requests too frequent, please try again later")
}
