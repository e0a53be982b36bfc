package service

import (
	"context"
	"sort"
	"strings"

	"github.com/Xushengqwer/fruitmaster_service/constant"
	"github.com/Xushengqwer/fruitmaster_service/models/entities"
	"github.com/Xushengqwer/fruitmaster_service/models/vo"
	"github.com/Xushengqwer/fruitmaster_service/repo/collection"
)

// communitySnapshot 是一次查询用到的社区集合快照。
type communitySnapshot struct {
	posts     []entities.Post
	comments  []entities.Comment
	likes     []entities.Like
	favorites []entities.Favorite
}

// loadCommunity 调用方必须持有锁；snapshotCommunity 自行加锁。
func loadCommunity(ctx context.Context, repo *collection.Repository) communitySnapshot {
	return communitySnapshot{
		posts:     collection.Read(ctx, repo, constant.PostsKey, []entities.Post{}),
		comments:  collection.Read(ctx, repo, constant.CommentsKey, []entities.Comment{}),
		likes:     collection.Read(ctx, repo, constant.LikesKey, []entities.Like{}),
		favorites: collection.Read(ctx, repo, constant.FavoritesKey, []entities.Favorite{}),
	}
}

func snapshotCommunity(ctx context.Context, repo *collection.Repository) communitySnapshot {
	var snap communitySnapshot
	repo.View(func() { snap = loadCommunity(ctx, repo) })
	return snap
}

// viewBuilder 预先按帖子聚合计数，避免每个帖子都扫描一遍互动集合。
type viewBuilder struct {
	likeCount     map[string]int
	commentCount  map[string]int
	favoriteCount map[string]int
	likedByUser   map[string]bool
	favedByUser   map[string]bool
}

func newViewBuilder(snap communitySnapshot, userID string) *viewBuilder {
	b := &viewBuilder{
		likeCount:     make(map[string]int),
		commentCount:  make(map[string]int),
		favoriteCount: make(map[string]int),
		likedByUser:   make(map[string]bool),
		favedByUser:   make(map[string]bool),
	}
	for _, l := range snap.likes {
		b.likeCount[l.PostID]++
		if userID != "" && l.UserID == userID {
			b.likedByUser[l.PostID] = true
		}
	}
	for _, f := range snap.favorites {
		b.favoriteCount[f.PostID]++
		if userID != "" && f.UserID == userID {
			b.favedByUser[f.PostID] = true
		}
	}
	for _, c := range snap.comments {
		b.commentCount[c.PostID]++
	}
	return b
}

func (b *viewBuilder) build(post entities.Post) vo.PostView {
	likes := b.likeCount[post.ID]
	comments := b.commentCount[post.ID]
	return vo.PostView{
		Post:          post,
		LikeCount:     likes,
		CommentCount:  comments,
		FavoriteCount: b.favoriteCount[post.ID],
		IsLiked:       b.likedByUser[post.ID],
		IsFavorited:   b.favedByUser[post.ID],
		HotScore:      hotScore(likes, comments),
	}
}

func hotScore(likes, comments int) int {
	return likes*2 + comments
}

// visibleTo 非管理员只能看到未隐藏且（已审核或自己发布）的帖子；管理员看到全部。
func visibleTo(post *entities.Post, actor Principal) bool {
	if actor.IsAdmin() {
		return true
	}
	return !post.IsHidden && (post.IsApproved || (actor.UserID() != "" && post.AuthorID == actor.UserID()))
}

// publiclyVisible 对任意非作者都可见，热榜快照只收录这类帖子。
func publiclyVisible(post *entities.Post) bool {
	return !post.IsHidden && post.IsApproved
}

func isTagSentinel(tag string) bool {
	return tag == "" || tag == constant.TagAll || strings.EqualFold(tag, "all")
}

// matchesKeyword 关键字为空时恒为 true；否则在 标题 正文 标签 拼接后的文本中做大小写不敏感的子串匹配。
func matchesKeyword(post *entities.Post, keyword string) bool {
	if keyword == "" {
		return true
	}
	parts := make([]string, 0, len(post.Tags)+2)
	parts = append(parts, post.Title, post.Content)
	parts = append(parts, post.Tags...)
	return strings.Contains(strings.ToLower(strings.Join(parts, " ")), keyword)
}

// sortViews 按排序方式原地排序。
// - hot: hotScore 降序，相同则新的在前。
// - featured: 置顶在前，相同则新的在前。
// - latest(默认): 先按时间降序，再按置顶做一次稳定排序，置顶帖子始终浮在最前。
func sortViews(views []vo.PostView, mode string) {
	switch mode {
	case constant.SortHot:
		sort.SliceStable(views, func(i, j int) bool {
			if views[i].HotScore != views[j].HotScore {
				return views[i].HotScore > views[j].HotScore
			}
			return views[i].CreatedAt.After(views[j].CreatedAt)
		})
	case constant.SortFeatured:
		sort.SliceStable(views, func(i, j int) bool {
			if views[i].IsPinned != views[j].IsPinned {
				return views[i].IsPinned
			}
			return views[i].CreatedAt.After(views[j].CreatedAt)
		})
	default:
		sort.SliceStable(views, func(i, j int) bool {
			return views[i].CreatedAt.After(views[j].CreatedAt)
		})
		sort.SliceStable(views, func(i, j int) bool {
			return views[i].IsPinned && !views[j].IsPinned
		})
	}
}

// paginate 在过滤和排序之后做分页。
func paginate(views []vo.PostView, page, pageSize int) vo.PostPage {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = constant.DefaultPageSize
	}
	total := len(views)
	items := []vo.PostView{}
	hasMore := false
	// 先比较页序号再相乘，超出范围的页码不会溢出
	if total > 0 && page-1 <= (total-1)/pageSize {
		start := (page - 1) * pageSize
		end := min(start+pageSize, total)
		items = views[start:end]
		hasMore = end < total
	}
	return vo.PostPage{
		Total:    total,
		Page:     page,
		PageSize: pageSize,
		HasMore:  hasMore,
		Items:    items,
	}
}

// cleanImages 过滤空地址并截断到上限。
func cleanImages(images []string) []string {
	out := make([]string, 0, len(images))
	for _, img := range images {
		if strings.TrimSpace(img) == "" {
			continue
		}
		out = append(out, img)
		if len(out) == constant.MaxPostImages {
			break
		}
	}
	return out
}

func cleanTags(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}
