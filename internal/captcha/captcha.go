// Package captcha 封装图形验证码的生成：随机展示文本 + 带干扰的 JPEG 图片。
package captcha

import (
	"bytes"
	"fmt"
	"image/jpeg"

	stdcaptcha "github.com/steambap/captcha"
)

// Generator 生成图形验证码。无状态，文本的缓存由调用方负责。
type Generator interface {
	// Generate 返回随机展示文本和对应的 JPEG 图片字节。
	Generate() (text string, image []byte, err error)
}

// ImageGenerator 是 Generator 的默认实现，基于 steambap/captcha，
// 固定长度字母数字文本加曲线干扰。
type ImageGenerator struct {
	width  int
	height int
}

// NewImageGenerator 创建 ImageGenerator 实例。尺寸非法时使用 120x40。
func NewImageGenerator(width, height int) *ImageGenerator {
	if width <= 0 || height <= 0 {
		width, height = 120, 40
	}
	return &ImageGenerator{width: width, height: height}
}

// Generate 实现 Generator 接口
func (g *ImageGenerator) Generate() (string, []byte, error) {
	data, err := stdcaptcha.New(g.width, g.height)
	if err != nil {
		return "", nil, fmt.Errorf("captcha: generate image: %w", err)
	}
	var buf bytes.Buffer
	if err := data.WriteJPG(&buf, &jpeg.Options{Quality: 80}); err != nil {
		return "", nil, fmt.Errorf("captcha: encode jpeg: %w", err)
	}
	return data.Text, buf.Bytes(), nil
}
