package service_test // 测试包

import (
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/late-nightpoet/blog/internal/repository"
	"github.com/late-nightpoet/blog/internal/repository/mocks"
	"github.com/late-nightpoet/blog/internal/service"
	"github.com/late-nightpoet/blog/internal/tasks"
)

// stubGenerator 返回固定文本和图片字节，让测试可预测
type stubGenerator struct {
	text  string
	image []byte
	err   error
}

func (g *stubGenerator) Generate() (string, []byte, error) {
	return g.text, g.image, g.err
}

// fakeEnqueuer 记录入队的任务，不连接 Redis
type fakeEnqueuer struct {
	enqueued []*asynq.Task
	err      error
}

func (f *fakeEnqueuer) Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.enqueued = append(f.enqueued, task)
	return &asynq.TaskInfo{}, nil
}

// --- 测试 IssueImageChallenge 方法 ---

func TestVerifyService_IssueImageChallenge_Success(t *testing.T) {
	// Arrange
	mockVerificationRepo := new(mocks.VerificationRepository)
	generator := &stubGenerator{text: "AbCd", image: []byte{0xFF, 0xD8, 0xFF}}
	verifyService := service.NewVerifyService(mockVerificationRepo, generator, nil, service.DefaultCodeTTL)
	ctx := context.Background()
	imageUUID := "uuid-1"

	mockVerificationRepo.On("StoreImageCode", ctx, imageUUID, "AbCd", service.DefaultCodeTTL).Return(nil).Once()

	// Act
	image, err := verifyService.IssueImageChallenge(ctx, imageUUID)

	// Assert: 返回图片字节，文本只进缓存不出接口
	require.NoError(t, err)
	assert.Equal(t, []byte{0xFF, 0xD8, 0xFF}, image)
	mockVerificationRepo.AssertExpectations(t)
}

func TestVerifyService_IssueImageChallenge_MissingUUID(t *testing.T) {
	mockVerificationRepo := new(mocks.VerificationRepository)
	verifyService := service.NewVerifyService(mockVerificationRepo, &stubGenerator{text: "x"}, nil, service.DefaultCodeTTL)

	_, err := verifyService.IssueImageChallenge(context.Background(), "")

	require.Error(t, err)
	assert.True(t, errors.Is(err, service.ErrMissingParameter))
	mockVerificationRepo.AssertNotCalled(t, "StoreImageCode", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestVerifyService_IssueImageChallenge_GeneratorFailure(t *testing.T) {
	mockVerificationRepo := new(mocks.VerificationRepository)
	generator := &stubGenerator{err: errors.New("font load failed")}
	verifyService := service.NewVerifyService(mockVerificationRepo, generator, nil, service.DefaultCodeTTL)

	_, err := verifyService.IssueImageChallenge(context.Background(), "uuid-1")

	require.Error(t, err)
	assert.True(t, errors.Is(err, service.ErrInternalServer))
	mockVerificationRepo.AssertNotCalled(t, "StoreImageCode", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// --- 测试 IssueSMSCode 方法 ---

func TestVerifyService_IssueSMSCode_Success(t *testing.T) {
	// Arrange
	mockVerificationRepo := new(mocks.VerificationRepository)
	enqueuer := &fakeEnqueuer{}
	verifyService := service.NewVerifyService(mockVerificationRepo, &stubGenerator{text: "x"}, enqueuer, service.DefaultCodeTTL)
	ctx := context.Background()
	imageUUID := "uuid-1"
	mobile := "13800000000"

	var issuedCode string
	mockVerificationRepo.On("ConsumeImageCode", ctx, imageUUID).Return("AbCd", nil).Once()
	mockVerificationRepo.On("StoreSMSCode", ctx, mobile, mock.AnythingOfType("string"), service.DefaultCodeTTL).
		Run(func(args mock.Arguments) {
			issuedCode = args.String(2)
		}).
		Return(nil).Once()

	// Act: 图形验证码比对不区分大小写
	err := verifyService.IssueSMSCode(ctx, imageUUID, mobile, "abcd")

	// Assert
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^\d{6}$`), issuedCode, "短信验证码应为 6 位数字")

	require.Len(t, enqueuer.enqueued, 1, "应投递一条短信下发任务")
	task := enqueuer.enqueued[0]
	assert.Equal(t, tasks.TypeSMSDelivery, task.Type())
	var payload tasks.SMSDeliveryPayload
	require.NoError(t, json.Unmarshal(task.Payload(), &payload))
	assert.Equal(t, mobile, payload.Mobile)
	assert.Equal(t, issuedCode, payload.Code)
	assert.Equal(t, 5, payload.ExpireMinutes)

	mockVerificationRepo.AssertExpectations(t)
}

func TestVerifyService_IssueSMSCode_ImageCodeExpired(t *testing.T) {
	// Arrange: 图形验证码已过期或已被消费
	mockVerificationRepo := new(mocks.VerificationRepository)
	verifyService := service.NewVerifyService(mockVerificationRepo, &stubGenerator{text: "x"}, nil, service.DefaultCodeTTL)
	ctx := context.Background()

	mockVerificationRepo.On("ConsumeImageCode", ctx, "uuid-1").Return("", repository.ErrCodeNotFound).Once()

	// Act
	err := verifyService.IssueSMSCode(ctx, "uuid-1", "13800000000", "abcd")

	// Assert
	require.Error(t, err)
	assert.True(t, errors.Is(err, service.ErrImageCodeExpired))
	mockVerificationRepo.AssertNotCalled(t, "StoreSMSCode", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestVerifyService_IssueSMSCode_ImageCodeMismatch(t *testing.T) {
	// Arrange: 比对失败时验证码也已被消费，重试需要重新获取图形验证码
	mockVerificationRepo := new(mocks.VerificationRepository)
	verifyService := service.NewVerifyService(mockVerificationRepo, &stubGenerator{text: "x"}, nil, service.DefaultCodeTTL)
	ctx := context.Background()

	mockVerificationRepo.On("ConsumeImageCode", ctx, "uuid-1").Return("AbCd", nil).Once()

	// Act
	err := verifyService.IssueSMSCode(ctx, "uuid-1", "13800000000", "wxyz")

	// Assert
	require.Error(t, err)
	assert.True(t, errors.Is(err, service.ErrImageCodeMismatch))
	mockVerificationRepo.AssertNotCalled(t, "StoreSMSCode", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	mockVerificationRepo.AssertExpectations(t)
}

func TestVerifyService_IssueSMSCode_MissingParameters(t *testing.T) {
	mockVerificationRepo := new(mocks.VerificationRepository)
	verifyService := service.NewVerifyService(mockVerificationRepo, &stubGenerator{text: "x"}, nil, service.DefaultCodeTTL)
	ctx := context.Background()

	assert.True(t, errors.Is(verifyService.IssueSMSCode(ctx, "", "13800000000", "abcd"), service.ErrMissingParameter))
	assert.True(t, errors.Is(verifyService.IssueSMSCode(ctx, "uuid-1", "", "abcd"), service.ErrMissingParameter))
	assert.True(t, errors.Is(verifyService.IssueSMSCode(ctx, "uuid-1", "13800000000", ""), service.ErrMissingParameter))
	mockVerificationRepo.AssertNotCalled(t, "ConsumeImageCode", mock.Anything, mock.Anything)
}

func TestVerifyService_IssueSMSCode_EnqueueFailureIsSwallowed(t *testing.T) {
	// Arrange: 入队失败不影响签发结果，验证码已进缓存
	mockVerificationRepo := new(mocks.VerificationRepository)
	enqueuer := &fakeEnqueuer{err: errors.New("broker unavailable")}
	verifyService := service.NewVerifyService(mockVerificationRepo, &stubGenerator{text: "x"}, enqueuer, service.DefaultCodeTTL)
	ctx := context.Background()

	mockVerificationRepo.On("ConsumeImageCode", ctx, "uuid-1").Return("AbCd", nil).Once()
	mockVerificationRepo.On("StoreSMSCode", ctx, "13800000000", mock.AnythingOfType("string"), service.DefaultCodeTTL).Return(nil).Once()

	// Act
	err := verifyService.IssueSMSCode(ctx, "uuid-1", "13800000000", "AbCd")

	// Assert
	require.NoError(t, err)
	mockVerificationRepo.AssertExpectations(t)
}

func TestNewVerifyService_DefaultsTTL(t *testing.T) {
	// TTL 非法时回退到默认值，通过签发路径观察生效的 TTL
	mockVerificationRepo := new(mocks.VerificationRepository)
	verifyService := service.NewVerifyService(mockVerificationRepo, &stubGenerator{text: "x"}, nil, -1*time.Second)
	ctx := context.Background()

	mockVerificationRepo.On("StoreImageCode", ctx, "uuid-1", "x", service.DefaultCodeTTL).Return(nil).Once()

	_, err := verifyService.IssueImageChallenge(ctx, "uuid-1")

	require.NoError(t, err)
	mockVerificationRepo.AssertExpectations(t)
}
