package migration

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/Xushengqwer/fruitmaster_service/constant"
	"github.com/Xushengqwer/fruitmaster_service/models/entities"
	"github.com/Xushengqwer/fruitmaster_service/security"
)

var (
	seedAvatars = []string{
		"https://randomuser.me/api/portraits/men/32.jpg",
		"https://randomuser.me/api/portraits/women/44.jpg",
		"https://randomuser.me/api/portraits/men/75.jpg",
	}
	seedCovers = []string{
		"https://images.unsplash.com/photo-1622597467836-f3285f2131b8?auto=format&fit=crop&w=1200&q=80",
		"https://images.unsplash.com/photo-1621506289937-a8e4df240d0b?auto=format&fit=crop&w=1200&q=80",
		"https://images.unsplash.com/photo-1478145046317-39f10e56b5e9?auto=format&fit=crop&w=1200&q=80",
		"https://images.unsplash.com/photo-1464965911861-746a04b4bca6?auto=format&fit=crop&w=1200&q=80",
	}
	seedFruits = []string{
		"https://images.unsplash.com/photo-1619566636858-adf3ef46400b?auto=format&fit=crop&w=900&q=80",
		"https://images.unsplash.com/photo-1574226516831-e1dff420e37f?auto=format&fit=crop&w=900&q=80",
		"https://images.unsplash.com/photo-1577234286642-fc512a5f8f11?auto=format&fit=crop&w=900&q=80",
		"https://images.unsplash.com/photo-1611080626919-7cf5a9dbab5b?auto=format&fit=crop&w=900&q=80",
		"https://images.unsplash.com/photo-1563114773-84221bd62daa?auto=format&fit=crop&w=900&q=80",
		"https://images.unsplash.com/photo-1585059895524-72359e06133a?auto=format&fit=crop&w=900&q=80",
	}
)

// Seeds 是全新存储的默认数据。时间戳相对于生成时刻计算，因此同一时刻生成的种子完全一致。
type Seeds struct {
	Users             []entities.User
	Posts             []entities.Post
	Comments          []entities.Comment
	Likes             []entities.Like
	Favorites         []entities.Favorite
	Reports           []entities.Report
	ProductionHistory []entities.ProductionHistoryRecord
	NutritionContent  []entities.NutritionContentItem
}

// Collections 按集合 Key 返回种子数据。
func (s *Seeds) Collections() map[string]any {
	return map[string]any{
		constant.UsersKey:             s.Users,
		constant.PostsKey:             s.Posts,
		constant.CommentsKey:          s.Comments,
		constant.LikesKey:             s.Likes,
		constant.FavoritesKey:         s.Favorites,
		constant.ReportsKey:           s.Reports,
		constant.ProductionHistoryKey: s.ProductionHistory,
		constant.NutritionContentKey:  s.NutritionContent,
	}
}

// DefaultSeeds 生成默认数据：三个内置账号、三篇帖子及其互动、一条已处理举报、一条制作记录和六条营养科普。
// 口令摘要由传入的 hasher 计算，保证种子账号能用当前配置的摘要算法登录。
func DefaultSeeds(hasher security.Hasher, now time.Time) (*Seeds, error) {
	ago := func(d time.Duration) time.Time { return now.Add(-d).UTC() }
	hash := func(pw string) (string, error) {
		h, err := hasher.Hash(pw)
		if err != nil {
			return "", fmt.Errorf("生成种子账号口令摘要失败: %w", err)
		}
		return h, nil
	}
	day := 24 * time.Hour

	adminHash, err := hash("admin123")
	if err != nil {
		return nil, err
	}
	maintainerHash, err := hash("maintain123")
	if err != nil {
		return nil, err
	}
	userHash, err := hash("user123")
	if err != nil {
		return nil, err
	}

	handledBy := "u_admin"
	handledAt := ago(5 * time.Hour)

	return &Seeds{
		Users: []entities.User{
			{
				ID: "u_admin", Account: "admin", PasswordHash: adminHash, Role: constant.RoleAdmin,
				Nickname: "运营管理员", Avatar: seedAvatars[0], Gender: "男", Birthday: "1990-06-12", Region: "上海",
				Preference: entities.Preference{LowSugar: true, Allergies: []string{"芒果"}},
				CreatedAt:  ago(40 * day),
			},
			{
				ID: "u_maintainer", Account: "maintainer", PasswordHash: maintainerHash, Role: constant.RoleMaintainer,
				Nickname: "设备维护员", Avatar: seedAvatars[2], Gender: "女", Birthday: "1994-02-19", Region: "苏州",
				Preference: entities.Preference{HighFiber: true, Allergies: []string{}},
				CreatedAt:  ago(25 * day),
			},
			{
				ID: "u_user", Account: "user", PasswordHash: userHash, Role: constant.RoleUser,
				Nickname: "果汁达人小李", Avatar: seedAvatars[1], Gender: "女", Birthday: "1998-11-08", Region: "杭州",
				Preference: entities.Preference{LowSugar: true, HighFiber: true, Allergies: []string{"菠萝"}},
				CreatedAt:  ago(15 * day),
			},
		},
		Posts: []entities.Post{
			{
				ID: "p_1", AuthorID: "u_user", Title: "夏日特饮：西瓜薄荷冰沙",
				Content: "西瓜+薄荷+冰块，30秒打出清凉感。低糖模式也很好喝。",
				Tags:    []string{"果汁", "健康"}, Images: []string{seedCovers[0]},
				Recipe:     mustJSON(map[string]any{"mode": "juice", "fruits": []string{"西瓜", "薄荷叶"}, "waterMl": 80, "sugarG": 6, "temp": "冷饮"}),
				IsApproved: true,
				CreatedAt:  ago(50 * time.Minute), UpdatedAt: ago(50 * time.Minute),
			},
			{
				ID: "p_2", AuthorID: "u_admin", Title: "自制黄桃罐头，童年的味道",
				Content: "黄桃去皮切块，低温慢煮，甜度控制在 20% 更适合家庭饮用。",
				Tags:    []string{"罐头", "家庭"}, Images: []string{seedCovers[1]},
				Recipe:   mustJSON(map[string]any{"mode": "canned", "fruits": []string{"黄桃"}, "waterMl": 200, "sugarG": 25, "temp": "常温"}),
				IsPinned: true, IsApproved: true,
				CreatedAt: ago(8 * time.Hour), UpdatedAt: ago(2 * time.Hour),
			},
			{
				ID: "p_3", AuthorID: "u_user", Title: "彩虹果盘，颜值与美味并存",
				Content: "草莓、奇异果、蓝莓做颜色分层，适合亲子场景。",
				Tags:    []string{"果切", "果盘"}, Images: []string{seedCovers[2]},
				Recipe:     mustJSON(map[string]any{"mode": "cut", "fruits": []string{"草莓", "奇异果", "蓝莓"}, "waterMl": 0, "sugarG": 0, "temp": "常温"}),
				IsApproved: true,
				CreatedAt:  ago(day), UpdatedAt: ago(day),
			},
		},
		Comments: []entities.Comment{
			{ID: "c_1", PostID: "p_1", UserID: "u_admin", Content: "薄荷的量控制得不错，适合大众口感。", CreatedAt: ago(30 * time.Minute)},
			{ID: "c_2", PostID: "p_2", UserID: "u_user", Content: "这个配方我今晚就试试。", CreatedAt: ago(3 * time.Hour)},
		},
		Likes: []entities.Like{
			{ID: "l_1", PostID: "p_1", UserID: "u_admin", CreatedAt: ago(20 * time.Minute)},
			{ID: "l_2", PostID: "p_2", UserID: "u_user", CreatedAt: ago(60 * time.Minute)},
			{ID: "l_3", PostID: "p_2", UserID: "u_maintainer", CreatedAt: ago(90 * time.Minute)},
		},
		Favorites: []entities.Favorite{
			{ID: "f_1", PostID: "p_1", UserID: "u_user", CreatedAt: ago(15 * time.Minute)},
			{ID: "f_2", PostID: "p_2", UserID: "u_user", CreatedAt: ago(16 * time.Minute)},
		},
		Reports: []entities.Report{
			{
				ID: "r_1", PostID: "p_3", ReporterID: "u_admin", Reason: "疑似广告", Description: "文本里疑似引流。",
				Status: constant.ReportResolved, CreatedAt: ago(6 * time.Hour),
				HandledBy: &handledBy, HandledAt: &handledAt, Result: "未发现违规，已驳回",
			},
		},
		ProductionHistory: []entities.ProductionHistoryRecord{
			{
				ID: "h_1", UserID: "u_user", Mode: constant.ModeJuice, FruitCount: 3,
				Preprocess: []entities.FruitPreprocess{
					{ID: 1, Peeling: true, Cutting: true},
					{ID: 2, Cutting: true},
					{ID: 3, Pitting: true, Cutting: true},
				},
				Params:    mustJSON(map[string]any{"texture": "高纤维", "temperature": "冷饮", "sweetnessType": "自定义", "sweetnessValue": 35}),
				Image:     seedCovers[3],
				CreatedAt: ago(12 * time.Hour),
			},
		},
		NutritionContent: []entities.NutritionContentItem{
			nutrition("n_1", "凝香甜梨汁", "润肺清甜，适合晨间补水。", seedFruits[0], "雪梨 2 个", 180, 8, "常温 20°C",
				"雪梨去皮切块，先低速后高速，口感更加顺滑。", ago(7*day)),
			nutrition("n_2", "原香苹果汁", "经典苹果风味，清爽低负担。", seedFruits[1], "苹果 3 个", 150, 10, "冷饮 10°C",
				"建议使用脆甜苹果，减少额外加糖。", ago(6*day)),
			nutrition("n_3", "热带水果汁", "芒果+菠萝，果香浓郁。", seedFruits[2], "芒果 2 个 + 菠萝 1/2 个", 220, 12, "冷饮 8°C",
				"可加入少量椰汁，提升热带风味。", ago(5*day)),
			nutrition("n_4", "健胃山楂汁", "酸甜平衡，餐后友好。", seedFruits[3], "山楂 10 颗", 300, 20, "温饮 35°C",
				"山楂需去核，避免苦涩。", ago(4*day)),
			nutrition("n_5", "清爽黄瓜汁", "清新低糖，适合运动后。", seedFruits[4], "黄瓜 2 根", 200, 4, "冷饮 12°C",
				"可搭配薄荷提升层次。", ago(3*day)),
			nutrition("n_6", "清润甘蔗汁", "自然甜感，补水充能。", seedFruits[5], "甘蔗 1 节", 0, 0, "常温 25°C",
				"建议过滤纤维后饮用，口感更佳。", ago(2*day)),
		},
	}, nil
}

func nutrition(id, title, summary, cover, fruits string, waterMl, sugarG int, temperature, detail string, createdAt time.Time) entities.NutritionContentItem {
	return entities.NutritionContentItem{
		ID: id, Title: title, Summary: summary, Cover: cover,
		Recipe:    mustJSON(map[string]any{"fruits": fruits, "waterMl": waterMl, "sugarG": sugarG, "temperature": temperature}),
		Detail:    detail,
		CreatedAt: createdAt,
	}
}

// mustJSON 仅用于编译期确定的种子字面量。
func mustJSON(v any) json.RawMessage {
	raw, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return raw
}
