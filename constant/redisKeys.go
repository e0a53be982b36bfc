package constant

// 存储命名空间相关常量 (导出)
// 九个集合 + 会话 + 元数据，每个都独占一个 Key，与存储介质无关（sqlite / mysql / redis / memory 共用同一套 Key）。
const (
	// --- 集合 Key (List 形状，元素带唯一 id) ---

	// UsersKey 用户集合。
	UsersKey = "sfm_users"

	// PostsKey 社区帖子集合。
	PostsKey = "sfm_posts"

	// CommentsKey 评论集合，通过 postId 弱引用帖子。
	CommentsKey = "sfm_comments"

	// LikesKey 点赞集合，同一 (postId, userId) 至多一条。
	LikesKey = "sfm_likes"

	// FavoritesKey 收藏集合，同一 (postId, userId) 至多一条。
	FavoritesKey = "sfm_favorites"

	// ReportsKey 举报集合，同一举报人对同一帖子至多一条 pending。
	ReportsKey = "sfm_reports"

	// ProductionHistoryKey 制作记录集合。
	ProductionHistoryKey = "sfm_production_history"

	// NutritionContentKey 营养科普内容集合。
	NutritionContentKey = "sfm_nutrition_content"

	// --- 非集合 Key ---

	// SessionKey 当前会话，至多一个；登出后存 null。
	SessionKey = "sfm_session"

	// MetaKey 存储元数据 {version, updatedAt}，由迁移管理器维护。
	MetaKey = "sfm_storage_meta"
)

// CollectionKeys 按固定顺序列出九个集合的 Key。
// 迁移、重置、默认数据填充都按此顺序遍历。
var CollectionKeys = []string{
	UsersKey,
	PostsKey,
	CommentsKey,
	LikesKey,
	FavoritesKey,
	ReportsKey,
	ProductionHistoryKey,
	NutritionContentKey,
}

// Redis Key 相关常量
const (
	// KVRedisPrefix 是 redis 作为存储介质时，所有 KV Key 的前缀。
	// 示例 Key: "fruitmaster:kv:sfm_posts"
	// Redis 类型: String (JSON)
	KVRedisPrefix = "fruitmaster:kv:"

	// HotPostsRankKey 是热门帖子榜单快照的 Key 名称。
	// 这是一个 Sorted Set (ZSet)，成员是帖子 ID，分数是 hotScore。
	// 由定时任务整体替换，读取方只读。
	// Redis 类型: Sorted Set
	HotPostsRankKey = "fruitmaster:hot_post_rank"
)
