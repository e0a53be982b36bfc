package vo

import (
	"github.com/Xushengqwer/fruitmaster_service/models/entities"
)

// PostView 帖子的聚合视图。
// - 计数与 isLiked/isFavorited 在读取时根据点赞、收藏、评论集合实时计算，从不持久化。
// - HotScore = 2 * LikeCount + CommentCount
type PostView struct {
	entities.Post
	LikeCount     int  `json:"likeCount"`
	CommentCount  int  `json:"commentCount"`
	FavoriteCount int  `json:"favoriteCount"`
	IsLiked       bool `json:"isLiked"`
	IsFavorited   bool `json:"isFavorited"`
	HotScore      int  `json:"hotScore"`
}

// PostPage 分页结果。
type PostPage struct {
	Total    int        `json:"total"`
	Page     int        `json:"page"`
	PageSize int        `json:"pageSize"`
	HasMore  bool       `json:"hasMore"`
	Items    []PostView `json:"items"`
}

// LikeToggleVO 点赞切换结果。
type LikeToggleVO struct {
	Liked bool `json:"liked"`
}

// FavoriteToggleVO 收藏切换结果。
type FavoriteToggleVO struct {
	Favorited bool `json:"favorited"`
}

// HotPostsVO 热榜。FromSnapshot 为 false 表示快照缺失，由实时计算兜底。
type HotPostsVO struct {
	Posts        []PostView `json:"posts"`
	FromSnapshot bool       `json:"fromSnapshot"`
}
