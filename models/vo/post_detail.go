package vo

import (
	"github.com/Xushengqwer/fruitmaster_service/models/entities"
)

// PostDetailVO 帖子详情：聚合视图加平铺的评论列表（按时间正序）。
// 评论的树形结构由调用方根据 parentId 自行构建。
type PostDetailVO struct {
	Post     PostView           `json:"post"`
	Comments []entities.Comment `json:"comments"`
}

// UserContentVO "我的"页面：我发布的、我点赞的、我收藏的帖子和我的评论。
// 点赞或收藏之后被隐藏、或尚未审核的他人帖子不会出现。
type UserContentVO struct {
	MyPosts       []PostView         `json:"myPosts"`
	LikedPosts    []PostView         `json:"likedPosts"`
	FavoritePosts []PostView         `json:"favoritePosts"`
	MyComments    []entities.Comment `json:"myComments"`
}

// InitStoreVO 存储初始化结果。
type InitStoreVO struct {
	FromVersion int      `json:"fromVersion"`
	ToVersion   int      `json:"toVersion"`
	Migrated    []string `json:"migrated"`
	Seeded      []string `json:"seeded"`
}
