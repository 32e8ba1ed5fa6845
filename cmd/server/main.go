package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"internship/internal/api"
	"internship/internal/config"
	"internship/internal/entity"
	"internship/internal/model"
)

func main() {
	// 初始化配置
	cfg, err := config.ParseConfig()
	if err != nil {
		logrus.WithError(err).Error("Failed to parse config")
		return
	}

	// 初始化logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetLevel(logrus.InfoLevel)

	repo, err := model.InitRepository(&cfg)
	if err != nil {
		logrus.WithError(err).Error("failed to initialise repository")
		return
	}

	if repo != nil {
		if err := model.SeedDefaults(context.Background(), repo, cfg); err != nil {
			logrus.WithError(err).Warn("failed to seed defaults")
		}
	}

	httpHandler, err := api.NewHTTPHandler(cfg, repo)
	if err != nil {
		logrus.WithError(err).Error("failed to initialise http handler")
		return
	}

	// 设置Gin模式
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	// 添加中间件
	r.Use(LoggingMiddleware())
	r.Use(CORSMiddleware())
	r.Use(api.RateLimitMiddleware(cfg.RateLimitRequests, time.Duration(cfg.RateLimitWindowMinutes)*time.Minute))
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) })

	authGroup := r.Group("/auth")
	authGroup.POST("/login", httpHandler.Login)
	authGroup.POST("/first-setup", httpHandler.AuthMiddleware(), httpHandler.FirstSetup)

	r.GET("/me", httpHandler.AuthMiddleware(), httpHandler.Me)
	r.GET("/todos", httpHandler.AuthMiddleware(), httpHandler.ListTodos)

	stageGroup := r.Group("/stage")
	stageGroup.Use(httpHandler.AuthMiddleware())
	stageGroup.GET("", httpHandler.GetStage)
	stageGroup.POST("/switch", httpHandler.RequireRoles(entity.UserRoleAdmin), httpHandler.SwitchStage)

	adminGroup := r.Group("/admin")
	adminGroup.Use(httpHandler.AuthMiddleware(), httpHandler.RequireRoles(entity.UserRoleAdmin))
	adminGroup.POST("/users", httpHandler.CreateUser)
	adminGroup.GET("/users", httpHandler.ListUsers)

	serverHost := fmt.Sprintf("0.0.0.0:%s", cfg.HTTPPort)
	logger.WithField("host", serverHost).Info("服务器启动")
	// 创建HTTP服务器
	httpServer := &http.Server{
		Addr:         serverHost,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	err = httpServer.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		logger.WithError(err).Error("服务器启动失败")
	}
}

// CORSMiddleware CORS跨域中间件
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")
		c.Header("Access-Control-Allow-Credentials", "true")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// LoggingMiddleware 日志记录中间件
func LoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		// 处理请求
		c.Next()
		// 记录请求结束
		duration := time.Since(start)
		logrus.WithFields(logrus.Fields{
			"method":    c.Request.Method,
			"path":      c.Request.URL.Path,
			"status":    c.Writer.Status(),
			"duration":  duration.String(),
			"size":      c.Writer.Size(),
			"client_ip": c.ClientIP(),
		}).Info("http_request")
	}
}
