// Package http 封装各业务的 Gin HTTP 处理逻辑。
package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/late-nightpoet/blog/internal/domain"
	"github.com/late-nightpoet/blog/internal/middleware"
	"github.com/late-nightpoet/blog/internal/service"
)

// 展示类 cookie 的生命周期。cookie 只是提示信息，真正的登录状态在服务端会话里。
const (
	isLoginCookieName  = "is_login"
	usernameCookieName = "username"

	sessionCookieRememberAge = 14 * 24 * 3600 // 记住我：会话 cookie 两周
	usernameCookieShortAge   = 1 * 24 * 3600  // 注册/普通登录：昵称提示一天
	usernameCookieLongAge    = 30 * 24 * 3600 // 记住我/资料更新：昵称提示 30 天
)

// AuthHandler 封装了与用户认证相关的 HTTP 处理逻辑
type AuthHandler struct {
	authService   *service.AuthService
	verifyService *service.VerifyService
}

// NewAuthHandler 创建 AuthHandler 实例
func NewAuthHandler(authService *service.AuthService, verifyService *service.VerifyService) *AuthHandler {
	return &AuthHandler{
		authService:   authService,
		verifyService: verifyService,
	}
}

// RegisterRequest 定义注册表单的结构体。
// 必填与格式校验在 service 层做，保证失败顺序与提示一致。
type RegisterRequest struct {
	Mobile    string `form:"mobile"`
	Password  string `form:"password"`
	Password2 string `form:"password2"`
	SMSCode   string `form:"sms_code"`
}

// Register 处理用户注册请求
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		logrus.WithError(err).Warn("Handler.Register: invalid input format")
		ErrorResponse(c, http.StatusBadRequest, "invalid input")
		return
	}

	session, err := h.authService.Register(c.Request.Context(), req.Mobile, req.Password, req.Password2, req.SMSCode)
	if err != nil {
		HandleServiceError(c, err)
		return
	}

	setLoginCookies(c, session)
	SuccessResponse(c, http.StatusCreated, gin.H{
		"message":  "registered successfully",
		"user_id":  session.UserID,
		"username": session.Username,
	})
}

// LoginRequest 定义登录表单的结构体
type LoginRequest struct {
	Mobile   string `form:"mobile"`
	Password string `form:"password"`
	Remember string `form:"remember"` // 复选框，勾选时为 "on"
}

// Login 处理用户登录请求
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		logrus.WithError(err).Warn("Handler.Login: invalid input format")
		ErrorResponse(c, http.StatusBadRequest, "invalid input")
		return
	}

	remember := req.Remember == "on" || req.Remember == "true"
	session, err := h.authService.Login(c.Request.Context(), req.Mobile, req.Password, remember)
	if err != nil {
		HandleServiceError(c, err)
		return
	}

	setLoginCookies(c, session)
	SuccessResponse(c, http.StatusOK, gin.H{
		"message":  "login successful",
		"username": session.Username,
	})
}

// Logout 处理登出：删除服务端会话并清理 cookie
func (h *AuthHandler) Logout(c *gin.Context) {
	sessionID, _ := c.Cookie(middleware.SessionCookieName)
	if err := h.authService.Logout(c.Request.Context(), sessionID); err != nil {
		HandleServiceError(c, err)
		return
	}

	clearLoginCookies(c)
	SuccessResponse(c, http.StatusOK, gin.H{"message": "logged out"})
}

// ForgetPasswordRequest 定义忘记密码表单的结构体
type ForgetPasswordRequest struct {
	Mobile    string `form:"mobile"`
	Password  string `form:"password"`
	Password2 string `form:"password2"`
	SMSCode   string `form:"sms_code"`
}

// ForgetPassword 处理密码重置请求。重置成功不建立会话，用户需回到登录页。
func (h *AuthHandler) ForgetPassword(c *gin.Context) {
	var req ForgetPasswordRequest
	if err := c.ShouldBind(&req); err != nil {
		logrus.WithError(err).Warn("Handler.ForgetPassword: invalid input format")
		ErrorResponse(c, http.StatusBadRequest, "invalid input")
		return
	}

	if err := h.authService.ResetPassword(c.Request.Context(), req.Mobile, req.Password, req.Password2, req.SMSCode); err != nil {
		HandleServiceError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, gin.H{"message": "password updated, please login again"})
}

// ImageCode 签发图形验证码，以 image/jpeg 直接返回图片字节。
// uuid 是客户端生成的验证码会话 token。
func (h *AuthHandler) ImageCode(c *gin.Context) {
	uuid := c.Query("uuid")
	image, err := h.verifyService.IssueImageChallenge(c.Request.Context(), uuid)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	c.Data(http.StatusOK, "image/jpeg", image)
}

// SMSCode 校验图形验证码并签发短信验证码。
// 这个接口保持前端既有的 {code, errmsg} 返回码协议。
func (h *AuthHandler) SMSCode(c *gin.Context) {
	imageCode := c.Query("image_code")
	uuid := c.Query("uuid")
	mobile := c.Query("mobile")

	err := h.verifyService.IssueSMSCode(c.Request.Context(), uuid, mobile, imageCode)
	switch {
	case err == nil:
		RetcodeResponse(c, RetOK, "sms sent successfully")
	case errors.Is(err, service.ErrMissingParameter):
		RetcodeResponse(c, RetNecessaryParam, "missing required parameter")
	case errors.Is(err, service.ErrImageCodeExpired):
		RetcodeResponse(c, RetImageCodeErr, "image verification code expired")
	case errors.Is(err, service.ErrImageCodeMismatch):
		RetcodeResponse(c, RetImageCodeErr, "incorrect image verification code")
	default:
		logrus.WithError(err).Error("Handler.SMSCode: internal error")
		RetcodeResponse(c, RetServerErr, "failed to send sms, please try again later")
	}
}

// CenterGet 返回个人中心信息 (需要登录)
func (h *AuthHandler) CenterGet(c *gin.Context) {
	userID := c.GetUint(middleware.ContextUserIDKey)
	user, err := h.authService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, gin.H{
		"username":  user.Username,
		"mobile":    user.Mobile,
		"avatar":    user.Avatar,
		"user_desc": user.UserDesc,
	})
}

// CenterRequest 定义个人中心更新表单的结构体
type CenterRequest struct {
	Username string `form:"username"`
	UserDesc string `form:"desc"`
	Avatar   string `form:"avatar"` // 头像引用，上传本身不在这里处理
}

// CenterPost 更新个人中心信息并刷新昵称提示 cookie
func (h *AuthHandler) CenterPost(c *gin.Context) {
	var req CenterRequest
	if err := c.ShouldBind(&req); err != nil {
		logrus.WithError(err).Warn("Handler.CenterPost: invalid input format")
		ErrorResponse(c, http.StatusBadRequest, "invalid input")
		return
	}

	userID := c.GetUint(middleware.ContextUserIDKey)
	user, err := h.authService.UpdateProfile(c.Request.Context(), userID, req.Username, req.UserDesc, req.Avatar)
	if err != nil {
		HandleServiceError(c, err)
		return
	}

	c.SetCookie(usernameCookieName, user.Username, usernameCookieLongAge, "/", "", false, false)
	SuccessResponse(c, http.StatusOK, gin.H{
		"message":   "profile updated",
		"username":  user.Username,
		"user_desc": user.UserDesc,
		"avatar":    user.Avatar,
	})
}

// --- cookie 辅助函数 ---

// setLoginCookies 根据 remember 标记写会话和展示 cookie。
// remember 为假时 sessionid 是浏览器会话 cookie (MaxAge 0)，关浏览器即失效。
func setLoginCookies(c *gin.Context, session *domain.Session) {
	sessionAge := 0
	usernameAge := usernameCookieShortAge
	if session.Remember {
		sessionAge = sessionCookieRememberAge
		usernameAge = usernameCookieLongAge
	}
	c.SetCookie(middleware.SessionCookieName, session.ID, sessionAge, "/", "", false, true)
	c.SetCookie(isLoginCookieName, "true", sessionAge, "/", "", false, false)
	c.SetCookie(usernameCookieName, session.Username, usernameAge, "/", "", false, false)
}

// clearLoginCookies 清理会话和登录标记 cookie
func clearLoginCookies(c *gin.Context) {
	c.SetCookie(middleware.SessionCookieName, "", -1, "/", "", false, true)
	c.SetCookie(isLoginCookieName, "", -1, "/", "", false, false)
}
