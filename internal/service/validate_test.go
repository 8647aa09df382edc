package service // 白盒测试格式校验

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidMobile(t *testing.T) {
	valid := []string{"13000000000", "13912345678", "19999999999", "15866668888"}
	for _, mobile := range valid {
		assert.True(t, validMobile(mobile), "手机号 %s 应合法", mobile)
	}

	invalid := []string{
		"",
		"12345678901",  // 第二位不在 3-9
		"1391234567",   // 少一位
		"139123456789", // 多一位
		"23912345678",  // 不以 1 开头
		"1391234567a",  // 含字母
		" 13912345678", // 前导空格
	}
	for _, mobile := range invalid {
		assert.False(t, validMobile(mobile), "手机号 %q 应非法", mobile)
	}
}

func TestValidPassword(t *testing.T) {
	valid := []string{"abcd1234", "ABCDEFGH", "12345678", "a1B2c3D4e5F6g7H8i9J0"}
	for _, password := range valid {
		assert.True(t, validPassword(password), "密码 %s 应合法", password)
	}

	invalid := []string{
		"",
		"abc123",                // 不足 8 位
		"a1B2c3D4e5F6g7H8i9J0x", // 超过 20 位
		"abcd 1234",             // 含空格
		"abcd_1234",             // 含下划线
		"密码密码密码密码",              // 非 ASCII
	}
	for _, password := range invalid {
		assert.False(t, validPassword(password), "密码 %q 应非法", password)
	}
}
