package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/d60-Lab/post-feed/internal/api/handler"
	"github.com/d60-Lab/post-feed/internal/api/router"
	"github.com/d60-Lab/post-feed/internal/auth"
	"github.com/d60-Lab/post-feed/internal/config"
	"github.com/d60-Lab/post-feed/internal/model"
	"github.com/d60-Lab/post-feed/internal/repository"
	"github.com/d60-Lab/post-feed/internal/service"
	"github.com/d60-Lab/post-feed/internal/storage"
	"github.com/d60-Lab/post-feed/internal/ws"
	"github.com/d60-Lab/post-feed/pkg/logger"
	"github.com/d60-Lab/post-feed/pkg/tracing"
)

// @title post-feed API
// @version 1.0
// @description 图文社交流服务：发帖、点赞、评论/回复，双通道实时同步
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfgPath := flag.String("config", "config.yaml", "config file path")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}
	if err := logger.Init(cfg.Log.Level, cfg.Server.Mode); err != nil {
		logger.Fatal("init logger", zap.Error(err))
	}
	defer logger.Sync()
	if cfg.JWT.Secret == "" {
		logger.Fatal("jwt.secret is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Sentry.DSN != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: cfg.Sentry.DSN}); err != nil {
			logger.Fatal("init sentry", zap.Error(err))
		}
		defer sentry.Flush(2 * time.Second)
	}
	if cfg.Trace.Endpoint != "" {
		stopTrace, err := tracing.Init(ctx, "post-feed", cfg.Trace.Endpoint)
		if err != nil {
			logger.Fatal("init tracing", zap.Error(err))
		}
		defer func() {
			shCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = stopTrace(shCtx)
		}()
	}

	db, err := openDB(cfg.DB)
	if err != nil {
		logger.Fatal("open db", zap.Error(err))
	}
	if err := db.AutoMigrate(
		&model.User{}, &model.Post{}, &model.Comment{}, &model.Reply{}, &model.Like{},
	); err != nil {
		logger.Fatal("migrate", zap.Error(err))
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		logger.Fatal("connect redis", zap.Error(err))
	}

	images, err := storage.NewMinioStore(ctx, storage.MinioConfig{
		Endpoint:  cfg.Minio.Endpoint,
		AccessKey: cfg.Minio.AccessKey,
		SecretKey: cfg.Minio.SecretKey,
		Bucket:    cfg.Minio.Bucket,
		UseSSL:    cfg.Minio.UseSSL,
	})
	if err != nil {
		logger.Fatal("connect minio", zap.Error(err))
	}

	gate := auth.NewGate(
		auth.NewTokenManager(cfg.JWT.Secret, cfg.JWT.Validity),
		auth.NewRedisRevocationStore(rdb),
	)

	hub := ws.NewHub()
	go hub.Run()

	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	replyRepo := repository.NewReplyRepository(db)
	likeRepo := repository.NewLikeRepository(db)

	authSvc := service.NewAuthService(userRepo, gate)
	postSvc := service.NewPostService(postRepo)
	interactionSvc := service.NewInteractionService(postRepo, commentRepo, replyRepo, likeRepo, hub)

	h := handler.New(authSvc, postSvc, interactionSvc, images)
	engine := router.New(cfg, h, gate, hub, interactionSvc)

	srv := &http.Server{Addr: cfg.Server.Addr, Handler: engine}
	go func() {
		logger.Info("server listening", zap.String("addr", cfg.Server.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("listen", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	shCtx, shCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shCancel()
	if err := srv.Shutdown(shCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	hub.Shutdown()
}

func openDB(cfg config.DBConfig) (*gorm.DB, error) {
	switch cfg.Driver {
	case "postgres":
		return gorm.Open(postgres.Open(cfg.DSN), &gorm.Config{})
	default:
		return gorm.Open(sqlite.Open(cfg.DSN), &gorm.Config{})
	}
}
