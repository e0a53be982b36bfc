package controller

import (
	"net/http"

	"github.com/Xushengqwer/go-common/response"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Xushengqwer/fruitmaster_service/constant"
	"github.com/Xushengqwer/fruitmaster_service/service"
)

// principalKey gin.Context 中保存会话上下文的 Key
const principalKey = "fruitmaster.principal"

// RouteMeta 路由的访问要求。
type RouteMeta struct {
	// RequiresAuth 必须已登录
	RequiresAuth bool
	// PublicOnly 仅未登录时可访问，如登录、注册、找回密码
	PublicOnly bool
	// Roles 为空表示不限角色
	Roles []string
}

var (
	authed    = RouteMeta{RequiresAuth: true}
	anonymous = RouteMeta{PublicOnly: true}
	adminOnly = RouteMeta{RequiresAuth: true, Roles: []string{constant.RoleAdmin}}
	staffOnly = RouteMeta{RequiresAuth: true, Roles: []string{constant.RoleMaintainer, constant.RoleAdmin}}
)

// Guard 导航守卫：每个请求先水合会话，再按 RouteMeta 依次检查。
type Guard struct {
	store  *service.Store
	logger *zap.Logger
}

// NewGuard 创建守卫。
func NewGuard(store *service.Store, logger *zap.Logger) *Guard {
	return &Guard{store: store, logger: logger}
}

// For 返回执行指定访问要求的中间件。
func (g *Guard) For(meta RouteMeta) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, err := g.store.Principal(c.Request.Context())
		if err != nil {
			g.logger.Error("水合会话失败", zap.String("path", c.FullPath()), zap.Error(err))
			response.RespondError(c, http.StatusInternalServerError, response.ErrCodeServerInternal, "读取会话失败")
			c.Abort()
			return
		}

		if meta.RequiresAuth && !principal.IsAuthenticated() {
			response.RespondError(c, http.StatusUnauthorized, response.ErrCodeClientUnauthorized, "请先登录")
			c.Abort()
			return
		}
		if meta.PublicOnly && principal.IsAuthenticated() {
			response.RespondError(c, http.StatusConflict, response.ErrCodeClientInvalidInput, "当前已登录")
			c.Abort()
			return
		}
		if len(meta.Roles) > 0 && !principal.CanAccess(meta.Roles...) {
			g.logger.Warn("角色不满足路由要求",
				zap.String("path", c.FullPath()),
				zap.String("userID", principal.UserID()),
				zap.String("role", principal.Role()))
			response.RespondError(c, http.StatusForbidden, response.ErrCodeClientUnauthorized, "无权访问")
			c.Abort()
			return
		}

		c.Set(principalKey, principal)
		c.Next()
	}
}

// principalOf 取出守卫放入的会话上下文；没有经过守卫的路由得到访客。
func principalOf(c *gin.Context) service.Principal {
	if v, ok := c.Get(principalKey); ok {
		if p, ok := v.(service.Principal); ok {
			return p
		}
	}
	return service.Guest()
}
