package http

import (
	"context"
	"fmt"
	"time"

	"MindLink/internal/config"
	"MindLink/internal/initial"
	"MindLink/internal/llm"
	jwtMiddleware "MindLink/internal/middleware/jwt"
	adminHandler "MindLink/internal/modules/admin/interface/http"
	contentService "MindLink/internal/modules/content/application/service"
	contentPersistence "MindLink/internal/modules/content/infrastructure/persistence"
	contentHandler "MindLink/internal/modules/content/interface/http"
	dialogService "MindLink/internal/modules/dialog/application/service"
	"MindLink/internal/modules/dialog/domain/repository"
	dialogPersistence "MindLink/internal/modules/dialog/infrastructure/persistence"
	dialogHandler "MindLink/internal/modules/dialog/interface/http"
	emotionService "MindLink/internal/modules/emotion/application/service"
	riskService "MindLink/internal/modules/risk/application/service"
	"MindLink/internal/modules/risk/infrastructure/caselog"
	"MindLink/internal/modules/risk/infrastructure/mq/kafka"
	riskHandler "MindLink/internal/modules/risk/interface/http"
	pkgRedis "MindLink/pkg/redis"
	"MindLink/pkg/ssl"
	"MindLink/pkg/zlog"

	cors "github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

var GE *gin.Engine

// AlertSvc 暴露给 main 做优雅关闭
var AlertSvc *riskService.AlertService

func init() {
	conf := config.GetConfig()

	GE = gin.Default()
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"*"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	GE.Use(cors.New(corsConfig))
	if conf.MainConfig.SslEnabled {
		GE.Use(ssl.TlsHandler(conf.MainConfig.Host, conf.MainConfig.Port))
	}

	// 生成后端，初始化失败时所有生成路径走确定性兜底
	var generator llm.Generator
	modelName := "unavailable"
	cm, meta, err := llm.NewChatModelFromConfig(context.Background(), conf)
	if err != nil {
		zlog.Error("生成模型初始化失败，回应将使用兜底文案: " + err.Error())
		generator = llm.NewGenerator(nil, 0)
	} else {
		timeout := time.Duration(conf.AIConfig.ChatModel.TimeoutSeconds) * time.Second
		generator = llm.NewGenerator(cm, timeout)
		modelName = meta.Model
	}

	// 会话存储：redis 可用时按配置切换，否则回落内存实现
	var sessionStore repository.SessionStore
	if conf.SessionConfig.Store == "redis" && pkgRedis.IsConnected() {
		ttl := time.Duration(conf.SessionConfig.TimeoutMinutes) * time.Minute
		sessionStore = dialogPersistence.NewRedisSessionStore(conf.SessionConfig.MaxHistory, ttl)
		zlog.Info("会话存储: redis")
	} else {
		sessionStore = dialogPersistence.NewMemorySessionStore(conf.SessionConfig.MaxHistory)
		zlog.Info("会话存储: memory")
	}

	contentRepo := contentPersistence.NewContentRepository(initial.GormDB)
	contentSvc := contentService.NewContentService(contentRepo)
	if err := contentSvc.Seed(); err != nil {
		zlog.Error("内容库初始化失败: " + err.Error())
	}
	recommendSvc := contentService.NewRecommendService(contentRepo, generator)

	detector := riskService.NewRiskDetector()
	caseLogger := caselog.NewCaseLogger(conf.UrgentConfig.LogDir)

	// Kafka 告警为可选链路，未配置或连接失败均不影响主流程
	AlertSvc = riskService.NewAlertService(nil, conf.KafkaConfig.AlertTopic)
	if len(conf.KafkaConfig.Brokers) > 0 {
		publisher, err := kafka.NewSaramaPublisher(kafka.PublisherConfig{
			Brokers:  conf.KafkaConfig.Brokers,
			ClientID: conf.KafkaConfig.ClientID,
		})
		if err != nil {
			zlog.Error("Kafka 连接失败，告警投递关闭: " + err.Error())
		} else {
			AlertSvc = riskService.NewAlertService(publisher, conf.KafkaConfig.AlertTopic)
			zlog.Info("Kafka 告警投递已开启")
		}
	}

	emotionSvc := emotionService.NewEmotionService(generator)
	replySvc := dialogService.NewReplyService(generator)
	chatSvc := dialogService.NewChatService(sessionStore, emotionSvc, replySvc, detector, caseLogger, AlertSvc, recommendSvc)
	sessionSvc := dialogService.NewSessionService(sessionStore)

	chatH := dialogHandler.NewChatHandler(chatSvc)
	sessionH := dialogHandler.NewSessionHandler(sessionSvc)
	urgentH := riskHandler.NewUrgentHandler(caseLogger)
	contentH := contentHandler.NewContentHandler(contentSvc, recommendSvc, sessionStore)
	adminH := adminHandler.NewAdminHandler()

	GE.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"service":         conf.MainConfig.AppName,
			"version":         conf.MainConfig.Version,
			"status":          "运行中",
			"active_sessions": sessionSvc.ActiveCount(),
			"endpoints": gin.H{
				"chat":      "/chat/intelligent",
				"emotion":   "/emotion/analyze",
				"session":   "/session/:user_id/:session_id/summary",
				"urgent":    "/urgent/cases",
				"resources": "/resources/emergency",
				"content":   "/content/recommend",
				"health":    "/health",
			},
		})
	})
	GE.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":          "healthy",
			"timestamp":       time.Now().Format(time.RFC3339),
			"active_sessions": sessionSvc.ActiveCount(),
			"content_count":   contentSvc.Count(),
			"model":           modelName,
		})
	})

	GE.POST("/emotion/analyze", chatH.AnalyzeEmotion)
	GE.POST("/chat/intelligent", chatH.Chat)
	GE.GET("/session/:user_id/:session_id/summary", sessionH.Summary)
	GE.DELETE("/session/:user_id/:session_id", sessionH.Delete)
	GE.GET("/resources/emergency", urgentH.EmergencyResources)
	GE.POST("/content/recommend", contentH.Recommend)
	GE.GET("/content/search", contentH.Search)
	GE.GET("/content/stats", contentH.Stats)
	GE.GET("/content/:id", contentH.Detail)
	GE.POST("/admin/login", adminH.Login)

	authed := GE.Group("/")
	authed.Use(jwtMiddleware.Auth())
	authed.GET("/urgent/cases", urgentH.RecentCases)
	authed.POST("/content", contentH.Add)

	zlog.Info(fmt.Sprintf("路由注册完成，模型: %s", modelName))
}
