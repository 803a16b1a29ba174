package router

import (
	"regexp"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"golang.org/x/time/rate"

	_ "github.com/d60-Lab/post-feed/docs"
	"github.com/d60-Lab/post-feed/internal/api/handler"
	"github.com/d60-Lab/post-feed/internal/api/middleware"
	"github.com/d60-Lab/post-feed/internal/auth"
	"github.com/d60-Lab/post-feed/internal/config"
	"github.com/d60-Lab/post-feed/internal/service"
	"github.com/d60-Lab/post-feed/internal/ws"
)

var usernameRe = regexp.MustCompile(`^[a-zA-Z0-9_]{2,64}$`)

func registerValidations() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
			return usernameRe.MatchString(fl.Field().String())
		})
	}
}

// New 组装双通道入口：HTTP 路由 + /ws 持久连接
func New(cfg *config.Config, h *handler.Handler, gate *auth.Gate, hub *ws.Hub, interactions service.InteractionService) *gin.Engine {
	gin.SetMode(ginMode(cfg.Server.Mode))
	registerValidations()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.AccessLog())
	r.Use(gzip.Gzip(gzip.DefaultCompression))
	r.Use(middleware.RateLimit(rate.Limit(50), 100))
	if cfg.Sentry.DSN != "" {
		r.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	if cfg.Trace.Endpoint != "" {
		r.Use(otelgin.Middleware("post-feed"))
	}

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// 公开接口
	r.POST("/signup", h.Signup)
	r.POST("/login", h.Login)
	r.GET("/posts", h.ListPosts)
	r.GET("/post/:id/comments", h.ListComments)
	r.GET("/comment/:id/replies", h.ListReplies)

	// 持久连接：认证在连接内通过 authenticate 帧完成
	r.GET("/ws", ws.Serve(hub, gate, interactions))

	authed := r.Group("/", middleware.Auth(gate))
	{
		authed.POST("/logout", h.Logout)
		authed.GET("/current-user", h.CurrentUser)

		authed.POST("/addpost", h.AddPost)
		authed.GET("/user/posts", h.ListUserPosts)
		authed.GET("/post/:id", h.GetPost)
		authed.PUT("/post/:id", h.UpdatePost)
		authed.DELETE("/post/:id", h.DeletePost)

		authed.POST("/post/:id/like", h.LikePost)
		authed.DELETE("/post/:id/like", h.UnlikePost)
		authed.POST("/post/:id/comment", h.AddComment)
		authed.DELETE("/post/:id/comment/:commentId", h.DeleteComment)
		authed.POST("/post/:id/comment/:commentId/reply", h.AddReply)
		authed.DELETE("/comment/:id/reply/:replyId", h.DeleteReply)
	}
	return r
}

func ginMode(mode string) string {
	if mode == "debug" {
		return gin.DebugMode
	}
	return gin.ReleaseMode
}
