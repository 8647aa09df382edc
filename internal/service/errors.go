package service

import "errors"

// 业务错误。校验类错误直接透给调用方展示；内部错误只记日志，
// 对外统一为 ErrInternalServer，不泄露存储细节。
var (
	ErrMissingParameter   = errors.New("missing required parameter")
	ErrInvalidMobile      = errors.New("invalid mobile number")
	ErrInvalidPassword    = errors.New("password must be 8-20 letters or digits")
	ErrPasswordMismatch   = errors.New("passwords do not match")
	ErrImageCodeExpired   = errors.New("image verification code expired")
	ErrImageCodeMismatch  = errors.New("incorrect image verification code")
	ErrSMSCodeExpired     = errors.New("sms verification code expired")
	ErrSMSCodeMismatch    = errors.New("incorrect sms verification code")
	ErrInvalidCredentials = errors.New("incorrect mobile number or password")
	ErrAlreadyRegistered  = errors.New("mobile number already registered")
	ErrCategoryNotFound   = errors.New("article category not found")
	ErrArticleNotFound    = errors.New("article not found")
	ErrSessionNotFound    = errors.New("session not found or expired")
	ErrInternalServer     = errors.New("internal server error")
)
