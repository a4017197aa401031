package main

import (
	"context"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata" // 确保在精简镜像中也能识别时区

	"github.com/gin-contrib/gzip"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/user/movielist/internal/config"
	"github.com/user/movielist/internal/handler"
	"github.com/user/movielist/internal/middleware"
	"github.com/user/movielist/internal/repository"
	"github.com/user/movielist/internal/router"
	"github.com/user/movielist/internal/service"
	"github.com/user/movielist/internal/utils"
)

func main() {
	// 加载环境变量
	if err := godotenv.Load(); err != nil {
		log.Println("未找到 .env 文件，使用系统环境变量")
	}

	// 加载配置
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("配置错误: %v", err)
	}

	logCloser := utils.SetupLogger(cfg.LogFile)
	defer logCloser.Close()

	// 初始化数据库
	db, err := repository.InitDB(cfg.DBDriver, cfg.DSN())
	if err != nil {
		log.Fatalf("数据库连接失败: %v", err)
	}

	// 初始化仓库
	repos := repository.NewRepositories(db)
	defer repos.Close()

	// 初始化服务
	omdb := service.NewOMDbClient(cfg)
	sessionRegistry := service.NewSessionRegistry(omdb, cfg.MediaType, cfg.SessionIdle)
	defer sessionRegistry.Close()
	detailSvc := service.NewDetailService(omdb, cfg.DetailCacheSize, cfg.DetailCacheTTL)
	watchlistSvc := service.NewWatchlistService(repos.Watchlist)

	// 初始化 Gin
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	handler.RegisterValidators()
	r := gin.New()
	r.Use(gin.Recovery())

	// 启用 gzip，SSE 推送不压缩
	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/api/watchlist/stream"})))

	// 设置 Session 中间件（仅保存客户端会话 ID）
	store := cookie.NewStore([]byte(cfg.AppSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 天
		HttpOnly: true,
		Secure:   cfg.Env == "production",
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions("movielist", store))

	// 中间件
	r.Use(middleware.Logger())
	r.Use(middleware.Security())
	r.Use(middleware.CORS())

	// 初始化 Handler
	h := handler.NewHandler(cfg, sessionRegistry, detailSvc, watchlistSvc)

	// 注册路由
	router.RegisterRoutes(r, h)

	// WriteTimeout 为 0，SSE 长连接不能被写超时切断
	baseCtx, stopStreams := context.WithCancel(context.Background())
	srv := &http.Server{
		Addr:           ":" + cfg.Port,
		Handler:        r,
		ReadTimeout:    10 * time.Second,
		MaxHeaderBytes: 1 << 20,
		BaseContext:    func(net.Listener) context.Context { return baseCtx },
	}
	// 关闭时结束所有 SSE 订阅
	srv.RegisterOnShutdown(stopStreams)

	// 在 goroutine 中启动服务器，这样我们就可以监听信号
	go func() {
		log.Printf("服务器启动于 http://localhost:%s (存储: %s)", cfg.Port, cfg.DBDriver)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("服务器启动失败: %v", err)
		}
	}()

	// 等待中断信号以优雅地关闭服务器
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("正在关闭服务器...")

	// 5 秒超时上下文用于关闭过程
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Println("服务器强制关闭:", err)
	}

	log.Println("服务器已退出")
}
