package entities

import (
	"encoding/json"
	"time"
)

// Post 社区帖子实体
// - 存储位置: constant.PostsKey 集合
// - 关系: 评论、点赞、收藏、举报都通过 postId 弱引用帖子，删除帖子时必须级联清理。
type Post struct {
	ID       string   `json:"id"`
	AuthorID string   `json:"authorId"`
	Title    string   `json:"title"`
	Content  string   `json:"content"`
	Tags     []string `json:"tags"`
	// Images 最多 constant.MaxPostImages 张，存 URL。
	Images []string `json:"images"`
	// Recipe 配方，结构由前端决定，核心层只透传；可以为 null。
	Recipe     json.RawMessage `json:"recipe"`
	IsPinned   bool            `json:"isPinned"`
	IsHidden   bool            `json:"isHidden"`
	IsApproved bool            `json:"isApproved"`
	CreatedAt  time.Time       `json:"createdAt"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}

func (p Post) GetID() string { return p.ID }

// HasTag 判断帖子是否包含指定标签（精确匹配）。
func (p *Post) HasTag(tag string) bool {
	for _, t := range p.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Comment 评论实体
// - ParentID 为空表示一级评论；非空时指向同一帖子下的另一条评论。
// - 查询接口只返回按时间排序的平铺列表，树形结构由调用方自行构建。
type Comment struct {
	ID        string    `json:"id"`
	PostID    string    `json:"postId"`
	UserID    string    `json:"userId"`
	Content   string    `json:"content"`
	ParentID  *string   `json:"parentId"`
	CreatedAt time.Time `json:"createdAt"`
}

func (c Comment) GetID() string { return c.ID }

// Like 点赞记录，同一 (PostID, UserID) 至多一条。
type Like struct {
	ID        string    `json:"id"`
	PostID    string    `json:"postId"`
	UserID    string    `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}

func (l Like) GetID() string { return l.ID }

// Favorite 收藏记录，同一 (PostID, UserID) 至多一条。
type Favorite struct {
	ID        string    `json:"id"`
	PostID    string    `json:"postId"`
	UserID    string    `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}

func (f Favorite) GetID() string { return f.ID }
