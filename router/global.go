package router

import (
	"net/http"
	"time"

	"github.com/Xushengqwer/go-common/core"
	commonMiddleware "github.com/Xushengqwer/go-common/middleware"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	appConfig "github.com/Xushengqwer/fruitmaster_service/config"
	"github.com/Xushengqwer/fruitmaster_service/constant"
	"github.com/Xushengqwer/fruitmaster_service/controller"
)

// SetupRouter 配置 Gin 引擎、全局中间件和路由。
// 会话守卫按路由挂载在各控制器内部。
func SetupRouter(
	logger *core.ZapLogger,
	cfg *appConfig.AppConfig,
	authController *controller.AuthController,
	postController *controller.PostController,
	adminController *controller.AdminController,
	contentController *controller.ContentController,
) *gin.Engine {
	router := gin.New()

	// 1. OTel，最先处理追踪上下文
	router.Use(otelgin.Middleware(constant.ServiceName))
	// 2. Panic Recovery
	router.Use(commonMiddleware.ErrorHandlingMiddleware(logger))
	// 3. 访问日志
	router.Use(commonMiddleware.RequestLoggerMiddleware(logger.Logger()))
	// 4. 超时控制，配置单位为秒
	requestTimeout := time.Duration(cfg.ServerConfig.RequestTimeout) * time.Second
	if requestTimeout > 0 {
		router.Use(commonMiddleware.RequestTimeoutMiddleware(logger, requestTimeout))
	}

	v1 := router.Group("/api/v1")
	authController.RegisterRoutes(v1)
	postController.RegisterRoutes(v1)
	adminController.RegisterRoutes(v1)
	contentController.RegisterRoutes(v1)
	logger.Info("所有控制器路由已注册到 /api/v1 分组")

	router.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})

	return router
}
