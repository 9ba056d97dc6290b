// Package main 是应用程序的入口点。
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"olist-chat-go/internal/config"
	"olist-chat-go/internal/handler"
	"olist-chat-go/internal/middleware"
	"olist-chat-go/internal/repository"
	"olist-chat-go/internal/service"
	"olist-chat-go/pkg/database"
	"olist-chat-go/pkg/llm"
	"olist-chat-go/pkg/log"
	"olist-chat-go/pkg/sqlsafe"
)

func main() {
	// 1. 初始化配置
	configPath := "./configs/config.yaml"
	if len(os.Args) > 1 {
		configPath = os.Args[1]
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		panic(err)
	}

	// 2. 初始化日志记录器
	log.Init(cfg.Log.Level, cfg.Log.Format, cfg.Log.OutputPath)
	defer log.Sync() // 确保在程序退出时刷新所有缓冲的日志条目
	log.Info("日志记录器初始化成功")

	// 3. 初始化 Redis（缓存与会话共用一个客户端，进程级生命周期）
	rdb, err := database.NewRedis(cfg.Database.Redis.Addr, cfg.Database.Redis.Password, cfg.Database.Redis.DB)
	if err != nil {
		log.Fatal("Redis 初始化失败", err)
	}
	defer rdb.Close()
	log.Info("Redis client connected successfully")

	// 4. 初始化 Repository
	cacheRepo := repository.NewQueryCacheRepository(rdb)
	sessionRepo := repository.NewSessionRepository(rdb)

	// 5. 初始化 Service (依赖注入)
	llmClient := llm.NewClient(cfg.LLM)
	guard := sqlsafe.NewGuard(cfg.SQLGuard.Strict)
	execService := service.NewSQLExecService(cfg.Database.DuckDB.Path)
	sqlService := service.NewSQLService(guard, execService)
	sqlGenService := service.NewSQLGenService(llmClient)
	chatService := service.NewChatService(cacheRepo, sessionRepo, sqlGenService, sqlService)
	sessionService := service.NewSessionService(sessionRepo)

	// 6. 设置 Gin 模式并创建路由引擎
	gin.SetMode(cfg.Server.Mode)
	r := gin.New() // 使用 New() 创建一个不带默认中间件的引擎
	r.Use(middleware.RequestLogger(), gin.Recovery())

	// 7. 注册路由（路径由对外契约固定）
	r.POST("/chat", handler.NewChatHandler(chatService).Chat)
	r.POST("/run_sql", handler.NewSQLHandler(sqlService).RunSQL)
	r.GET("/session/:session_id", handler.NewSessionHandler(sessionService).GetSession)

	// 启动 HTTP 服务器并实现优雅停机
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: r,
	}

	go func() {
		log.Infof("服务启动于 %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP 服务监听失败", err)
		}
	}()

	// 等待中断信号以实现优雅停机
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("接收到停机信号，正在关闭服务...")

	// 设置一个5秒的超时上下文
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("HTTP 服务器关闭失败", err)
	}
	log.Info("服务已优雅关闭")
}
