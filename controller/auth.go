package controller

import (
	"github.com/gin-gonic/gin"

	"github.com/Xushengqwer/fruitmaster_service/models/dto"
	"github.com/Xushengqwer/fruitmaster_service/service"
)

// AuthController 注册、登录、会话与个人资料
type AuthController struct {
	store *service.Store
	guard *Guard
}

// NewAuthController 创建 AuthController 实例
func NewAuthController(store *service.Store, guard *Guard) *AuthController {
	return &AuthController{store: store, guard: guard}
}

// Session 返回当前会话快照，过期会话在这里被清除。
func (ctrl *AuthController) Session(c *gin.Context) {
	respond(c, ctrl.store.HydrateSession(c.Request.Context()), "会话获取成功")
}

func (ctrl *AuthController) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	respond(c, ctrl.store.Register(c.Request.Context(), &req), "注册成功")
}

func (ctrl *AuthController) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	respond(c, ctrl.store.Login(c.Request.Context(), &req), "登录成功")
}

func (ctrl *AuthController) Logout(c *gin.Context) {
	respond(c, ctrl.store.Logout(c.Request.Context()), "已退出登录")
}

func (ctrl *AuthController) ResetPassword(c *gin.Context) {
	var req dto.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	respond(c, ctrl.store.ResetPassword(c.Request.Context(), &req), "密码已重置")
}

func (ctrl *AuthController) UpdateProfile(c *gin.Context) {
	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	respond(c, ctrl.store.UpdateProfile(c.Request.Context(), principalOf(c), &req), "资料已更新")
}

func (ctrl *AuthController) UpdatePreference(c *gin.Context) {
	var req dto.PreferencePatch
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	respond(c, ctrl.store.UpdatePreference(c.Request.Context(), principalOf(c), &req), "偏好已更新")
}

// RegisterRoutes 注册认证相关路由
func (ctrl *AuthController) RegisterRoutes(group *gin.RouterGroup) {
	auth := group.Group("/auth")
	{
		auth.GET("/session", ctrl.Session)
		auth.POST("/register", ctrl.guard.For(anonymous), ctrl.Register)
		auth.POST("/login", ctrl.guard.For(anonymous), ctrl.Login)
		auth.POST("/reset-password", ctrl.guard.For(anonymous), ctrl.ResetPassword)
		auth.POST("/logout", ctrl.guard.For(authed), ctrl.Logout)
	}

	me := group.Group("/users/me", ctrl.guard.For(authed))
	{
		me.PUT("/profile", ctrl.UpdateProfile)
		me.PUT("/preference", ctrl.UpdatePreference)
	}
}
