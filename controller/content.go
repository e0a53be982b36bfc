package controller

import (
	"github.com/gin-gonic/gin"

	"github.com/Xushengqwer/fruitmaster_service/models/dto"
	"github.com/Xushengqwer/fruitmaster_service/service"
)

// ContentController 营养科普与制作记录
type ContentController struct {
	store *service.Store
	guard *Guard
}

// NewContentController 创建 ContentController 实例
func NewContentController(store *service.Store, guard *Guard) *ContentController {
	return &ContentController{store: store, guard: guard}
}

func (ctrl *ContentController) ListNutrition(c *gin.Context) {
	respond(c, ctrl.store.ListNutritionItems(c.Request.Context()), "科普列表获取成功")
}

func (ctrl *ContentController) GetNutrition(c *gin.Context) {
	respond(c, ctrl.store.GetNutritionItem(c.Request.Context(), c.Param("id")), "科普详情获取成功")
}

func (ctrl *ContentController) CreateNutrition(c *gin.Context) {
	var req dto.NutritionItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	respond(c, ctrl.store.CreateNutritionItem(c.Request.Context(), &req), "科普内容已创建")
}

func (ctrl *ContentController) UpdateNutrition(c *gin.Context) {
	var req dto.UpdateNutritionItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	respond(c, ctrl.store.UpdateNutritionItem(c.Request.Context(), c.Param("id"), &req), "科普内容已更新")
}

func (ctrl *ContentController) DeleteNutrition(c *gin.Context) {
	respond(c, ctrl.store.DeleteNutritionItem(c.Request.Context(), c.Param("id")), "科普内容已删除")
}

// AddHistory 记录归属当前会话用户。
func (ctrl *ContentController) AddHistory(c *gin.Context) {
	var req dto.AddHistoryRecordRequest
	req.UserID = principalOf(c).UserID()
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	req.UserID = principalOf(c).UserID()
	respond(c, ctrl.store.AddHistoryRecord(c.Request.Context(), &req), "制作记录已保存")
}

func (ctrl *ContentController) MyHistory(c *gin.Context) {
	respond(c, ctrl.store.GetHistoryByUser(c.Request.Context(), principalOf(c).UserID()), "制作记录获取成功")
}

// UserHistory 设备维护页查看任意用户的制作记录。
func (ctrl *ContentController) UserHistory(c *gin.Context) {
	respond(c, ctrl.store.GetHistoryByUser(c.Request.Context(), c.Param("userId")), "制作记录获取成功")
}

// RegisterRoutes 注册科普与制作路由
func (ctrl *ContentController) RegisterRoutes(group *gin.RouterGroup) {
	nutrition := group.Group("/nutrition")
	{
		nutrition.GET("", ctrl.guard.For(authed), ctrl.ListNutrition)
		nutrition.GET("/:id", ctrl.guard.For(authed), ctrl.GetNutrition)
		nutrition.POST("", ctrl.guard.For(adminOnly), ctrl.CreateNutrition)
		nutrition.PUT("/:id", ctrl.guard.For(adminOnly), ctrl.UpdateNutrition)
		nutrition.DELETE("/:id", ctrl.guard.For(adminOnly), ctrl.DeleteNutrition)
	}

	production := group.Group("/production")
	{
		production.POST("/history", ctrl.guard.For(authed), ctrl.AddHistory)
		production.GET("/history", ctrl.guard.For(authed), ctrl.MyHistory)
	}

	group.GET("/maintainer/history/:userId", ctrl.guard.For(staffOnly), ctrl.UserHistory)
}
