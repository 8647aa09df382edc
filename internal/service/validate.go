package service

import "regexp"

// 手机号和密码的格式规则，与注册页前端提示保持一致。
var (
	mobilePattern   = regexp.MustCompile(`^1[3-9]\d{9}$`)
	passwordPattern = regexp.MustCompile(`^[0-9A-Za-z]{8,20}$`)
)

// validMobile 校验手机号格式
func validMobile(mobile string) bool {
	return mobilePattern.MatchString(mobile)
}

// validPassword 校验密码为 8-20 位字母或数字
func validPassword(password string) bool {
	return passwordPattern.MatchString(password)
}
