package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/late-nightpoet/blog/internal/domain"
	"github.com/late-nightpoet/blog/internal/repository"
)

// SessionTTL 是服务端会话在 Redis 里的保留时长。
// 未勾选"记住我"时 cookie 随浏览器会话结束，但服务端记录仍按此上限保留。
const SessionTTL = 14 * 24 * time.Hour

// AuthService 负责注册、登录、登出、密码重置和个人中心的业务逻辑。
type AuthService struct {
	userRepo         repository.UserRepository
	verificationRepo repository.VerificationRepository
	sessionRepo      repository.SessionRepository
}

// NewAuthService 创建 AuthService 实例。
func NewAuthService(userRepo repository.UserRepository, verificationRepo repository.VerificationRepository, sessionRepo repository.SessionRepository) *AuthService {
	if userRepo == nil {
		panic("UserRepository cannot be nil for AuthService")
	}
	if verificationRepo == nil {
		panic("VerificationRepository cannot be nil for AuthService")
	}
	if sessionRepo == nil {
		panic("SessionRepository cannot be nil for AuthService")
	}
	return &AuthService{
		userRepo:         userRepo,
		verificationRepo: verificationRepo,
		sessionRepo:      sessionRepo,
	}
}

// Register 处理用户注册。校验顺序短路，第一个失败即返回：
// 参数齐全 → 手机号格式 → 密码格式 → 两次密码一致 → 短信验证码。
// 全部通过后创建用户并建立会话。
func (s *AuthService) Register(ctx context.Context, mobile, password, password2, smsCode string) (*domain.Session, error) {
	logCtx := logrus.WithField("mobile", mobile)

	if mobile == "" || password == "" || password2 == "" || smsCode == "" {
		return nil, ErrMissingParameter
	}
	if !validMobile(mobile) {
		return nil, ErrInvalidMobile
	}
	if !validPassword(password) {
		return nil, ErrInvalidPassword
	}
	if password != password2 {
		return nil, ErrPasswordMismatch
	}
	if err := s.checkSMSCode(ctx, mobile, smsCode); err != nil {
		return nil, err
	}

	hashedPassword, err := hashPassword(password)
	if err != nil {
		logCtx.WithError(err).Error("Failed to hash password during registration")
		return nil, ErrInternalServer
	}

	// 注册时昵称默认为手机号，后续可在个人中心修改
	user := &domain.User{
		Mobile:   mobile,
		Username: mobile,
		Password: hashedPassword,
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEntry) {
			logCtx.Warn("Registration failed: mobile already registered")
			return nil, ErrAlreadyRegistered
		}
		logCtx.WithError(err).Error("Database error during user creation")
		return nil, ErrInternalServer
	}

	session, err := s.establishSession(ctx, user, false)
	if err != nil {
		logCtx.WithError(err).Error("Failed to establish session after registration")
		return nil, ErrInternalServer
	}

	logCtx.WithField("user_id", user.ID).Info("User registered successfully")
	return session, nil
}

// Login 处理用户登录。remember 为真时会话标记为长期保持，
// cookie 的生命周期差异由 handler 层根据该标记落实。
// 认证失败不区分"手机号不存在"和"密码错误"。
func (s *AuthService) Login(ctx context.Context, mobile, password string, remember bool) (*domain.Session, error) {
	logCtx := logrus.WithField("mobile", mobile)

	if mobile == "" || password == "" {
		return nil, ErrMissingParameter
	}
	if !validMobile(mobile) {
		return nil, ErrInvalidMobile
	}
	if !validPassword(password) {
		return nil, ErrInvalidPassword
	}

	user, err := s.userRepo.FindByMobile(ctx, mobile)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			logCtx.Warn("Login attempt failed: user not found")
		} else {
			logCtx.WithError(err).Warn("Login attempt failed: error finding user")
		}
		return nil, ErrInvalidCredentials
	}
	if !checkPassword(password, user.Password) {
		logCtx.Warn("Login attempt failed: invalid password")
		return nil, ErrInvalidCredentials
	}

	session, err := s.establishSession(ctx, user, remember)
	if err != nil {
		logCtx.WithError(err).Error("Failed to establish session during login")
		return nil, ErrInternalServer
	}

	logCtx.WithField("user_id", user.ID).Info("User logged in successfully")
	return session, nil
}

// Logout 删除服务端会话。幂等，重复登出不算错误。
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	if err := s.sessionRepo.Delete(ctx, sessionID); err != nil {
		logrus.WithError(err).WithField("session_id", sessionID).Error("Failed to delete session on logout")
		return ErrInternalServer
	}
	return nil
}

// ResetPassword 处理忘记密码。校验链与注册相同。
// 手机号不存在时按产品约定回退为注册新用户；存在时只覆盖密码哈希，
// 其余字段不动。本流程不建立会话。
func (s *AuthService) ResetPassword(ctx context.Context, mobile, password, password2, smsCode string) error {
	logCtx := logrus.WithField("mobile", mobile)

	if mobile == "" || password == "" || password2 == "" || smsCode == "" {
		return ErrMissingParameter
	}
	if !validMobile(mobile) {
		return ErrInvalidMobile
	}
	if !validPassword(password) {
		return ErrInvalidPassword
	}
	if password != password2 {
		return ErrPasswordMismatch
	}
	if err := s.checkSMSCode(ctx, mobile, smsCode); err != nil {
		return err
	}

	hashedPassword, err := hashPassword(password)
	if err != nil {
		logCtx.WithError(err).Error("Failed to hash password during reset")
		return ErrInternalServer
	}

	user, err := s.userRepo.FindByMobile(ctx, mobile)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			// 手机号未注册：忘记密码回退为注册
			newUser := &domain.User{
				Mobile:   mobile,
				Username: mobile,
				Password: hashedPassword,
			}
			if saveErr := s.userRepo.Save(ctx, newUser); saveErr != nil {
				logCtx.WithError(saveErr).Error("Failed to create user during password reset fallback")
				return ErrInternalServer
			}
			logCtx.WithField("user_id", newUser.ID).Info("User created via password reset fallback")
			return nil
		}
		logCtx.WithError(err).Error("Failed to find user during password reset")
		return ErrInternalServer
	}

	user.Password = hashedPassword
	if err := s.userRepo.Save(ctx, user); err != nil {
		logCtx.WithError(err).Error("Failed to update password")
		return ErrInternalServer
	}

	logCtx.WithField("user_id", user.ID).Info("Password reset successfully")
	return nil
}

// GetProfile 返回个人中心展示的用户信息。
func (s *AuthService) GetProfile(ctx context.Context, userID uint) (*domain.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrSessionNotFound
		}
		logrus.WithError(err).WithField("user_id", userID).Error("Failed to load user profile")
		return nil, ErrInternalServer
	}
	return user, nil
}

// UpdateProfile 更新昵称、简介和头像引用。空值字段保持原样。
func (s *AuthService) UpdateProfile(ctx context.Context, userID uint, username, userDesc, avatar string) (*domain.User, error) {
	logCtx := logrus.WithField("user_id", userID)

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrSessionNotFound
		}
		logCtx.WithError(err).Error("Failed to load user for profile update")
		return nil, ErrInternalServer
	}

	if username != "" {
		user.Username = username
	}
	if userDesc != "" {
		user.UserDesc = userDesc
	}
	if avatar != "" {
		user.Avatar = avatar
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		logCtx.WithError(err).Error("Failed to save profile update")
		return nil, ErrInternalServer
	}

	logCtx.Info("Profile updated")
	return user, nil
}

// --- 私有辅助函数 ---

// checkSMSCode 校验短信验证码并在通过后删除，防止重放
func (s *AuthService) checkSMSCode(ctx context.Context, mobile, smsCode string) error {
	cached, err := s.verificationRepo.GetSMSCode(ctx, mobile)
	if err != nil {
		if errors.Is(err, repository.ErrCodeNotFound) {
			return ErrSMSCodeExpired
		}
		logrus.WithError(err).WithField("mobile", mobile).Error("Failed to read sms code")
		return ErrInternalServer
	}
	if smsCode != cached {
		return ErrSMSCodeMismatch
	}
	if err := s.verificationRepo.DeleteSMSCode(ctx, mobile); err != nil {
		// 删除失败不阻断流程，TTL 仍会兜底过期
		logrus.WithError(err).WithField("mobile", mobile).Warn("Failed to delete consumed sms code")
	}
	return nil
}

// establishSession 为用户创建服务端会话并写入 Redis
func (s *AuthService) establishSession(ctx context.Context, user *domain.User, remember bool) (*domain.Session, error) {
	session := &domain.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Username:  user.Username,
		Remember:  remember,
		CreatedAt: time.Now(),
	}
	if err := s.sessionRepo.Save(ctx, session, SessionTTL); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	return session, nil
}

// hashPassword 使用 bcrypt 对密码进行哈希处理
func hashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to generate hash from password: %w", err)
	}
	return string(bytes), nil
}

// checkPassword 验证提供的密码是否与存储的哈希匹配
func checkPassword(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
