package controller

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Xushengqwer/fruitmaster_service/models/dto"
	"github.com/Xushengqwer/fruitmaster_service/service"
)

// PostController 社区帖子、点赞收藏、评论与举报
type PostController struct {
	store *service.Store
	guard *Guard
}

// NewPostController 创建 PostController 实例
func NewPostController(store *service.Store, guard *Guard) *PostController {
	return &PostController{store: store, guard: guard}
}

// QueryPosts 社区列表：搜索、标签、排序、分页。
func (ctrl *PostController) QueryPosts(c *gin.Context) {
	var req dto.QueryPostsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		badRequest(c, err)
		return
	}
	respond(c, ctrl.store.QueryPosts(c.Request.Context(), principalOf(c), &req), "帖子列表获取成功")
}

// ListHotPosts 热榜，limit 缺省或非法时使用默认值。
func (ctrl *PostController) ListHotPosts(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	respond(c, ctrl.store.ListHotPosts(c.Request.Context(), principalOf(c), limit), "热门帖子获取成功")
}

func (ctrl *PostController) GetPost(c *gin.Context) {
	respond(c, ctrl.store.GetPostByID(c.Request.Context(), principalOf(c), c.Param("id")), "帖子详情获取成功")
}

func (ctrl *PostController) CreatePost(c *gin.Context) {
	var req dto.CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	respond(c, ctrl.store.CreatePost(c.Request.Context(), principalOf(c), &req), "帖子发布成功")
}

func (ctrl *PostController) UpdatePost(c *gin.Context) {
	var req dto.UpdatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	respond(c, ctrl.store.UpdatePost(c.Request.Context(), principalOf(c), c.Param("id"), &req), "帖子更新成功")
}

func (ctrl *PostController) DeletePost(c *gin.Context) {
	respond(c, ctrl.store.DeletePost(c.Request.Context(), principalOf(c), c.Param("id")), "帖子已删除")
}

func (ctrl *PostController) ToggleLike(c *gin.Context) {
	respond(c, ctrl.store.ToggleLike(c.Request.Context(), c.Param("id"), principalOf(c).UserID()), "操作成功")
}

func (ctrl *PostController) ToggleFavorite(c *gin.Context) {
	respond(c, ctrl.store.ToggleFavorite(c.Request.Context(), c.Param("id"), principalOf(c).UserID()), "操作成功")
}

func (ctrl *PostController) ListComments(c *gin.Context) {
	respond(c, ctrl.store.GetCommentsByPost(c.Request.Context(), principalOf(c), c.Param("id")), "评论获取成功")
}

// AddComment 评论人取当前会话用户，请求体中的 userId 会被覆盖。
func (ctrl *PostController) AddComment(c *gin.Context) {
	var req dto.AddCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	req.PostID = c.Param("id")
	req.UserID = principalOf(c).UserID()
	respond(c, ctrl.store.AddComment(c.Request.Context(), &req), "评论成功")
}

func (ctrl *PostController) DeleteComment(c *gin.Context) {
	respond(c, ctrl.store.DeleteComment(c.Request.Context(), principalOf(c), c.Param("id")), "评论已删除")
}

// AddReport 举报人取当前会话用户。
func (ctrl *PostController) AddReport(c *gin.Context) {
	var req dto.AddReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	req.PostID = c.Param("id")
	req.ReporterID = principalOf(c).UserID()
	respond(c, ctrl.store.AddReport(c.Request.Context(), &req), "举报已提交")
}

// MyContent 我的帖子、赞过、收藏、评论。
func (ctrl *PostController) MyContent(c *gin.Context) {
	respond(c, ctrl.store.GetUserContent(c.Request.Context(), principalOf(c).UserID()), "获取成功")
}

// RegisterRoutes 注册社区相关路由，全部要求登录
func (ctrl *PostController) RegisterRoutes(group *gin.RouterGroup) {
	posts := group.Group("/posts", ctrl.guard.For(authed))
	{
		posts.GET("", ctrl.QueryPosts)
		posts.GET("/hot", ctrl.ListHotPosts)
		posts.POST("", ctrl.CreatePost)
		posts.GET("/:id", ctrl.GetPost)
		posts.PUT("/:id", ctrl.UpdatePost)
		posts.DELETE("/:id", ctrl.DeletePost)
		posts.POST("/:id/like", ctrl.ToggleLike)
		posts.POST("/:id/favorite", ctrl.ToggleFavorite)
		posts.GET("/:id/comments", ctrl.ListComments)
		posts.POST("/:id/comments", ctrl.AddComment)
		posts.POST("/:id/reports", ctrl.AddReport)
	}

	group.DELETE("/comments/:id", ctrl.guard.For(authed), ctrl.DeleteComment)
	group.GET("/users/me/content", ctrl.guard.For(authed), ctrl.MyContent)
}
