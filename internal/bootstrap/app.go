// Package bootstrap 负责加载配置、组装依赖并托管应用生命周期。
// 数据库/Redis 客户端和 logger 都在这里显式构造并注入，不存在包级全局。
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/late-nightpoet/blog/internal/captcha"
	httpHandler "github.com/late-nightpoet/blog/internal/handler/http"
	gormpersistence "github.com/late-nightpoet/blog/internal/infra/persistence/gorm"
	"github.com/late-nightpoet/blog/internal/infra/setup"
	redisstate "github.com/late-nightpoet/blog/internal/infra/state/redis"
	"github.com/late-nightpoet/blog/internal/middleware"
	"github.com/late-nightpoet/blog/internal/service"
	"github.com/late-nightpoet/blog/internal/sms"
	"github.com/late-nightpoet/blog/internal/worker"
)

// Config 结构体用于存储从环境变量或文件加载的配置
type Config struct {
	DBUser          string
	DBPassword      string
	DBHost          string
	DBPort          string
	DBName          string
	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	ServerPort      string
	LogLevel        string
	AppEnv          string // 应用环境 (development/production)
	KeyPrefix       string // Redis Key 前缀
	RateLimitMax    int
	RateLimitWindow time.Duration
	CodeTTL         time.Duration // 图形/短信验证码有效期

	// 云通讯短信网关，不配置时使用控制台 sender
	SMSAccountSID string
	SMSAuthToken  string
	SMSAppID      string
	SMSTemplateID string
	SMSBaseURL    string
}

// LoadConfig 从环境变量加载配置
func LoadConfig() (*Config, error) {
	// 优先加载 .env 文件 (如果存在)，忽略错误，允许只使用环境变量
	_ = godotenv.Load()

	cfg := &Config{
		DBUser:        os.Getenv("DB_USER"),
		DBPassword:    os.Getenv("DB_PASSWORD"),
		DBHost:        os.Getenv("DB_HOST"),
		DBPort:        os.Getenv("DB_PORT"),
		DBName:        os.Getenv("DB_NAME"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		ServerPort:    os.Getenv("SERVER_PORT"),
		LogLevel:      os.Getenv("LOG_LEVEL"),
		AppEnv:        os.Getenv("APP_ENV"),
		KeyPrefix:     os.Getenv("REDIS_KEY_PREFIX"),
		SMSAccountSID: os.Getenv("SMS_ACCOUNT_SID"),
		SMSAuthToken:  os.Getenv("SMS_AUTH_TOKEN"),
		SMSAppID:      os.Getenv("SMS_APP_ID"),
		SMSTemplateID: os.Getenv("SMS_TEMPLATE_ID"),
		SMSBaseURL:    os.Getenv("SMS_BASE_URL"),
		// --- 默认值 ---
		RateLimitMax:    60,
		RateLimitWindow: 1 * time.Minute,
		CodeTTL:         service.DefaultCodeTTL,
	}

	cfg.RedisDB, _ = strconv.Atoi(os.Getenv("REDIS_DB")) // 忽略错误，默认为 0

	// 限流和验证码有效期允许按环境覆盖，非法值回退默认并告警
	if v := os.Getenv("RATE_LIMIT_MAX"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.RateLimitMax = n
		} else {
			logrus.Warnf("Invalid RATE_LIMIT_MAX '%s', using default %d", v, cfg.RateLimitMax)
		}
	}
	if v := os.Getenv("RATE_LIMIT_WINDOW_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.RateLimitWindow = time.Duration(n) * time.Second
		} else {
			logrus.Warnf("Invalid RATE_LIMIT_WINDOW_SECONDS '%s', using default %s", v, cfg.RateLimitWindow)
		}
	}
	if v := os.Getenv("CODE_TTL_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.CodeTTL = time.Duration(n) * time.Second
		} else {
			logrus.Warnf("Invalid CODE_TTL_SECONDS '%s', using default %s", v, cfg.CodeTTL)
		}
	}

	if cfg.ServerPort == "" {
		cfg.ServerPort = "8080"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.AppEnv == "" {
		cfg.AppEnv = "development"
	}
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = "blog:"
	}
	if cfg.RedisAddr == "" {
		return nil, fmt.Errorf("environment variable REDIS_ADDR must be set")
	}

	// 验证日志级别
	if _, err := logrus.ParseLevel(cfg.LogLevel); err != nil {
		logrus.Warnf("Invalid LOG_LEVEL '%s', using default 'info'", cfg.LogLevel)
		cfg.LogLevel = "info"
	}

	return cfg, nil
}

// App 结构体包含应用的所有组件和配置
type App struct {
	Config      *Config
	Log         *logrus.Logger
	DB          *gorm.DB
	RedisClient *redis.Client
	AsynqClient *asynq.Client
	AsynqServer *worker.WorkerServer
	HttpServer  *http.Server
}

// NewApp 创建并初始化应用的所有组件
func NewApp() (*App, error) {
	// 1. 加载配置
	cfg, err := LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return nil, err
	}

	// 2. 初始化 Logger
	log := logrus.New()
	if cfg.AppEnv == "production" {
		log.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339Nano})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, ForceColors: true})
	}
	logLevel, _ := logrus.ParseLevel(cfg.LogLevel) // cfg.LogLevel 已被 LoadConfig 验证
	log.SetLevel(logLevel)
	log.SetOutput(os.Stdout)
	log.Info("Configuration loaded successfully")

	// 3. 初始化基础设施
	log.Info("Initializing infrastructure...")
	db, err := setup.InitDB(cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		return nil, fmt.Errorf("failed to init DB: %w", err)
	}
	log.Info("Database initialized")

	if err := setup.MigrateDB(db); err != nil {
		return nil, fmt.Errorf("failed to migrate DB: %w", err)
	}
	log.Info("Database migrated")

	redisClient, err := setup.InitRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		return nil, fmt.Errorf("failed to init Redis: %w", err)
	}
	log.Info("Redis client initialized")

	redisClientOpt := asynq.RedisClientOpt{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}
	asynqClient := asynq.NewClient(redisClientOpt)
	log.Info("Asynq client initialized")

	// 4. 初始化 Repositories
	log.Info("Initializing repositories...")
	userRepo := gormpersistence.NewGormUserRepository(db)
	articleRepo := gormpersistence.NewGormArticleRepository(db)
	categoryRepo := gormpersistence.NewGormCategoryRepository(db)
	commentRepo := gormpersistence.NewGormCommentRepository(db)
	verificationRepo := redisstate.NewRedisVerificationRepository(redisClient, cfg.KeyPrefix)
	sessionRepo := redisstate.NewRedisSessionRepository(redisClient, cfg.KeyPrefix)
	log.Info("Repositories initialized")

	// 5. 初始化短信 Sender：配了网关凭证走云通讯，否则验证码只打日志
	var smsSender sms.Sender
	if cfg.SMSAccountSID != "" {
		smsSender, err = sms.NewCloopenSender(sms.CloopenConfig{
			BaseURL:    cfg.SMSBaseURL,
			AccountSID: cfg.SMSAccountSID,
			AuthToken:  cfg.SMSAuthToken,
			AppID:      cfg.SMSAppID,
			TemplateID: cfg.SMSTemplateID,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create sms sender: %w", err)
		}
		log.Info("Cloopen SMS sender initialized")
	} else {
		smsSender = sms.NewConsoleSender(log)
		log.Warn("SMS gateway not configured, codes will only be logged")
	}

	// 6. 初始化 Services
	log.Info("Initializing services...")
	authService := service.NewAuthService(userRepo, verificationRepo, sessionRepo)
	verifyService := service.NewVerifyService(verificationRepo, captcha.NewImageGenerator(120, 40), asynqClient, cfg.CodeTTL)
	articleService := service.NewArticleService(articleRepo, categoryRepo, commentRepo)
	log.Info("Services initialized")

	// 7. 初始化 Handlers
	authHandler := httpHandler.NewAuthHandler(authService, verifyService)
	articleHandler := httpHandler.NewArticleHandler(articleService)
	log.Info("Handlers initialized")

	// 8. 初始化 Worker Server
	workerServer := worker.NewWorkerServer(redisClientOpt, smsSender, log)
	log.Info("Worker server initialized")

	// 9. 初始化 Gin Engine 和路由
	log.Info("Setting up Gin router...")
	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(LoggerMiddleware(log))

	// --- 设置路由 ---
	router.GET("/", articleHandler.Index)
	router.GET("/detail/", articleHandler.Detail)

	users := router.Group("/users")
	{
		users.POST("/register", authHandler.Register)
		users.GET("/image_code", authHandler.ImageCode)
		users.GET("/sms_code",
			middleware.RateLimit(redisClient, cfg.RateLimitMax, cfg.RateLimitWindow, httpHandler.ThrottledResponse),
			authHandler.SMSCode)
		users.POST("/login", authHandler.Login)
		users.GET("/logout", authHandler.Logout)
		users.POST("/forget_password", authHandler.ForgetPassword)
	}

	// 需要登录的路由
	authRequired := middleware.Auth(sessionRepo)
	usersAuth := router.Group("/users").Use(authRequired)
	{
		usersAuth.GET("/center", authHandler.CenterGet)
		usersAuth.POST("/center", authHandler.CenterPost)
		usersAuth.GET("/write_blog", articleHandler.WriteBlogGet)
		usersAuth.POST("/write_blog", articleHandler.WriteBlogPost)
	}
	router.POST("/detail/", authRequired, articleHandler.Comment)

	router.GET("/ping", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"message": "pong"}) })
	log.Info("Router setup complete")

	// 10. 初始化 HTTP Server
	httpServer := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: router,
	}

	// 11. 组装 App 对象
	app := &App{
		Config:      cfg,
		Log:         log,
		DB:          db,
		RedisClient: redisClient,
		AsynqClient: asynqClient,
		AsynqServer: workerServer,
		HttpServer:  httpServer,
	}
	log.Info("Application assembled successfully")

	return app, nil
}

// Start 启动应用的所有后台 Goroutine 和 HTTP 服务器
func (a *App) Start() {
	go a.AsynqServer.Start()
	a.Log.Info("Asynq worker server routine started")

	go func() {
		a.Log.Infof("HTTP server starting to listen on %s", a.HttpServer.Addr)
		if err := a.HttpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.Log.Fatalf("Failed to start HTTP server: %v", err)
		}
		a.Log.Info("HTTP server stopped listening.")
	}()
}

// Shutdown 优雅地关闭应用
func (a *App) Shutdown() {
	a.Log.Info("Shutting down application...")

	// 1. 优雅关闭 Worker Server
	if a.AsynqServer != nil {
		a.AsynqServer.Shutdown()
	}

	// 2. 优雅关闭 HTTP 服务器
	a.Log.Info("Shutting down HTTP server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := a.HttpServer.Shutdown(ctx); err != nil {
		a.Log.Errorf("Error shutting down HTTP server: %v", err)
	} else {
		a.Log.Info("HTTP server shut down gracefully.")
	}

	// 3. 关闭 Asynq Client
	if a.AsynqClient != nil {
		if err := a.AsynqClient.Close(); err != nil {
			a.Log.Errorf("Error closing Asynq client: %v", err)
		}
	}

	// 4. 关闭 Redis 连接
	if a.RedisClient != nil {
		if err := a.RedisClient.Close(); err != nil {
			a.Log.Errorf("Error closing Redis connection: %v", err)
		}
	}

	// GORM V2 的连接池随进程退出释放，不需要显式关闭

	a.Log.Info("Application shutdown complete.")
}

// LoggerMiddleware 创建一个 Gin 中间件用于记录请求日志
func LoggerMiddleware(log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()
		c.Next()
		latency := time.Since(startTime)
		statusCode := c.Writer.Status()
		path := c.Request.URL.Path
		if c.Request.URL.RawQuery != "" {
			path = path + "?" + c.Request.URL.RawQuery
		}
		errorMessage := c.Errors.ByType(gin.ErrorTypePrivate).String()

		entry := log.WithFields(logrus.Fields{
			"status_code": statusCode,
			"latency_ms":  latency.Milliseconds(),
			"client_ip":   c.ClientIP(),
			"method":      c.Request.Method,
			"path":        path,
		})

		if errorMessage != "" {
			entry.Error(errorMessage)
		} else {
			if statusCode >= 500 {
				entry.Error("Server error")
			} else if statusCode >= 400 {
				entry.Warn("Client error")
			} else {
				entry.Info("Request handled")
			}
		}
	}
}
