package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"

	"github.com/late-nightpoet/blog/internal/captcha"
	"github.com/late-nightpoet/blog/internal/repository"
	"github.com/late-nightpoet/blog/internal/tasks"
)

// DefaultCodeTTL 是图形验证码和短信验证码的缓存有效期。
const DefaultCodeTTL = 300 * time.Second

// TaskEnqueuer 抽象 asynq 客户端的入队操作，便于测试替换。
// *asynq.Client 天然满足该接口。
type TaskEnqueuer interface {
	Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// VerifyService 负责图形验证码与短信验证码的签发。
type VerifyService struct {
	verificationRepo repository.VerificationRepository
	generator        captcha.Generator
	enqueuer         TaskEnqueuer
	codeTTL          time.Duration
}

// NewVerifyService 创建 VerifyService 实例。
// enqueuer 可以为 nil，此时短信只生成缓存、不下发 (纯本地调试)。
func NewVerifyService(verificationRepo repository.VerificationRepository, generator captcha.Generator, enqueuer TaskEnqueuer, codeTTL time.Duration) *VerifyService {
	if verificationRepo == nil {
		panic("VerificationRepository cannot be nil for VerifyService")
	}
	if generator == nil {
		panic("captcha Generator cannot be nil for VerifyService")
	}
	if codeTTL <= 0 {
		codeTTL = DefaultCodeTTL
	}
	return &VerifyService{
		verificationRepo: verificationRepo,
		generator:        generator,
		enqueuer:         enqueuer,
		codeTTL:          codeTTL,
	}
}

// IssueImageChallenge 生成图形验证码：随机文本缓存到验证码仓库
// (同一 uuid 重复请求覆盖旧值)，JPEG 字节返回给调用方直接展示。
// 文本永远不返回给客户端。
func (s *VerifyService) IssueImageChallenge(ctx context.Context, uuid string) ([]byte, error) {
	if uuid == "" {
		return nil, ErrMissingParameter
	}
	logCtx := logrus.WithField("uuid", uuid)

	text, image, err := s.generator.Generate()
	if err != nil {
		logCtx.WithError(err).Error("Failed to generate image captcha")
		return nil, ErrInternalServer
	}

	if err := s.verificationRepo.StoreImageCode(ctx, uuid, text, s.codeTTL); err != nil {
		logCtx.WithError(err).Error("Failed to cache image captcha text")
		return nil, ErrInternalServer
	}

	logCtx.Debug("Image challenge issued")
	return image, nil
}

// IssueSMSCode 校验图形验证码后生成并缓存 6 位短信验证码，
// 并把下发任务投递给后台队列。
// 图形验证码是一次性的：无论比对结果如何都先失效，防止重放和爆破。
func (s *VerifyService) IssueSMSCode(ctx context.Context, uuid, mobile, imageCode string) error {
	if uuid == "" || mobile == "" || imageCode == "" {
		return ErrMissingParameter
	}
	logCtx := logrus.WithFields(logrus.Fields{"uuid": uuid, "mobile": mobile})

	stored, err := s.verificationRepo.ConsumeImageCode(ctx, uuid)
	if err != nil {
		if errors.Is(err, repository.ErrCodeNotFound) {
			return ErrImageCodeExpired
		}
		logCtx.WithError(err).Error("Failed to consume image captcha")
		return ErrInternalServer
	}

	// 图形验证码比对不区分大小写
	if !strings.EqualFold(imageCode, stored) {
		logCtx.Warn("Image captcha mismatch")
		return ErrImageCodeMismatch
	}

	code, err := generateSMSCode()
	if err != nil {
		logCtx.WithError(err).Error("Failed to generate sms code")
		return ErrInternalServer
	}

	// 覆盖该手机号之前未消费的验证码，并重置有效期
	if err := s.verificationRepo.StoreSMSCode(ctx, mobile, code, s.codeTTL); err != nil {
		logCtx.WithError(err).Error("Failed to cache sms code")
		return ErrInternalServer
	}

	// 验证码记到日志，方便联调时不依赖真实短信通道
	logCtx.WithField("sms_code", code).Info("SMS code generated")

	// 下发是异步尽力而为的：验证码已经进了缓存即算签发成功，
	// 入队失败只记日志，由用户重新获取验证码兜底
	if s.enqueuer != nil {
		expireMinutes := int(s.codeTTL / time.Minute)
		payload, err := tasks.NewSMSDeliveryTask(mobile, code, expireMinutes)
		if err != nil {
			logCtx.WithError(err).Error("Failed to build sms delivery task payload")
			return nil
		}
		task := asynq.NewTask(tasks.TypeSMSDelivery, payload)
		if _, err := s.enqueuer.Enqueue(task, asynq.MaxRetry(3), asynq.Queue("critical")); err != nil {
			logCtx.WithError(err).Error("Failed to enqueue sms delivery task")
		}
	}

	return nil
}

// generateSMSCode 生成 6 位数字验证码，均匀随机，不足位补零
func generateSMSCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", fmt.Errorf("generate sms code: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
