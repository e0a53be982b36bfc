package controller

import (
	"github.com/gin-gonic/gin"

	"github.com/Xushengqwer/fruitmaster_service/models/dto"
	"github.com/Xushengqwer/fruitmaster_service/service"
)

// AdminController 社区管理：用户、举报、审核动作、存储重置
type AdminController struct {
	store *service.Store
	guard *Guard
}

// NewAdminController 创建 AdminController 实例
func NewAdminController(store *service.Store, guard *Guard) *AdminController {
	return &AdminController{store: store, guard: guard}
}

func (ctrl *AdminController) ListUsers(c *gin.Context) {
	respond(c, ctrl.store.ListUsers(c.Request.Context(), principalOf(c)), "用户列表获取成功")
}

// UpsertUser id 为空时新增，否则编辑。
func (ctrl *AdminController) UpsertUser(c *gin.Context) {
	var req dto.AdminUpsertUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	respond(c, ctrl.store.AdminUpsertUser(c.Request.Context(), principalOf(c), &req), "用户已保存")
}

func (ctrl *AdminController) DeleteUser(c *gin.Context) {
	respond(c, ctrl.store.AdminDeleteUser(c.Request.Context(), principalOf(c), c.Param("id")), "用户已删除")
}

func (ctrl *AdminController) ListReports(c *gin.Context) {
	var req dto.ListReportsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		badRequest(c, err)
		return
	}
	respond(c, ctrl.store.ListReports(c.Request.Context(), principalOf(c), &req), "举报列表获取成功")
}

func (ctrl *AdminController) HandleReport(c *gin.Context) {
	var req dto.HandleReportRequest
	req.ReportID = c.Param("id")
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	req.ReportID = c.Param("id")
	respond(c, ctrl.store.HandleReport(c.Request.Context(), principalOf(c), &req), "举报已处理")
}

func (ctrl *AdminController) ModeratePost(c *gin.Context) {
	var req dto.ModeratePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	respond(c, ctrl.store.ModeratePost(c.Request.Context(), principalOf(c), c.Param("id"), &req), "审核动作已执行")
}

// ResetStore 恢复默认数据，当前会话随之失效。
func (ctrl *AdminController) ResetStore(c *gin.Context) {
	respond(c, ctrl.store.ResetStore(c.Request.Context(), principalOf(c)), "存储已重置")
}

// RegisterRoutes 注册管理路由，仅管理员可访问
func (ctrl *AdminController) RegisterRoutes(group *gin.RouterGroup) {
	admin := group.Group("/admin", ctrl.guard.For(adminOnly))
	{
		admin.GET("/users", ctrl.ListUsers)
		admin.POST("/users", ctrl.UpsertUser)
		admin.DELETE("/users/:id", ctrl.DeleteUser)
		admin.GET("/reports", ctrl.ListReports)
		admin.POST("/reports/:id/handle", ctrl.HandleReport)
		admin.POST("/posts/:id/moderate", ctrl.ModeratePost)
		admin.POST("/store/reset", ctrl.ResetStore)
	}
}
