package migration

import (
	"time"

	"github.com/Xushengqwer/fruitmaster_service/constant"
	"github.com/Xushengqwer/fruitmaster_service/models/entities"
)

// CurrentVersion 当前存储 schema 版本。steps[i] 把数据从版本 i 升级到 i+1。
const CurrentVersion = 3

// buildSteps 返回按版本排序的迁移步骤。
func buildSteps(now func() time.Time) [][]CollectionRules {
	ts := asTimestamp(now)
	nowISO := func() any { return now().UTC().Format(time.RFC3339Nano) }
	stringField := func(target string, sources ...string) CoercionRule {
		if len(sources) == 0 {
			sources = []string{target}
		}
		return CoercionRule{Target: target, Sources: sources, Default: defaultTo(""), Normalize: asString}
	}
	flag := func(target string) CoercionRule {
		return CoercionRule{Target: target, Default: defaultTo(false), Normalize: asBool}
	}

	// v0 -> v1: 用户记录形态统一
	users := CollectionRules{Key: constant.UsersKey, Rules: []CoercionRule{
		{Target: "id", Default: func() any { return entities.NewID(entities.UserIDPrefix) }, Normalize: asString},
		stringField("account", "account", "username"),
		stringField("passwordHash", "passwordHash", "password"),
		{Target: "role", Default: defaultTo(constant.RoleUser), Normalize: asRole},
		{Target: "nickname", Sources: []string{"nickname", "name"}, Default: defaultTo("新用户"), Normalize: asString},
		stringField("avatar"),
		stringField("gender"),
		stringField("birthday"),
		stringField("region", "region", "location"),
		{Target: "preference", Default: func() any { return map[string]any{} }, Normalize: asPreference},
		{Target: "createdAt", Default: nowISO, Normalize: ts},
	}}

	// v1 -> v2: 帖子作者字段改名、图片上限、状态位补齐
	posts := CollectionRules{Key: constant.PostsKey, Rules: []CoercionRule{
		{Target: "id", Required: true, Normalize: asString},
		stringField("authorId", "authorId", "userId"),
		stringField("title"),
		stringField("content"),
		{Target: "tags", Default: emptyList, Normalize: asStringList(0)},
		{Target: "images", Default: emptyList, Normalize: asStringList(constant.MaxPostImages)},
		{Target: "recipe"},
		flag("isPinned"),
		flag("isHidden"),
		flag("isApproved"),
		{Target: "createdAt", Default: nowISO, Normalize: ts},
		{Target: "updatedAt", Sources: []string{"updatedAt", "createdAt"}, Default: nowISO, Normalize: ts},
	}}

	// v2 -> v3: 评论支持回复，举报补齐处理字段
	comments := CollectionRules{Key: constant.CommentsKey, Rules: []CoercionRule{
		{Target: "id", Required: true, Normalize: asString},
		stringField("postId"),
		stringField("userId"),
		stringField("content"),
		{Target: "parentId", Normalize: asNullableString},
		{Target: "createdAt", Default: nowISO, Normalize: ts},
	}}
	reports := CollectionRules{Key: constant.ReportsKey, Rules: []CoercionRule{
		{Target: "id", Required: true, Normalize: asString},
		stringField("postId"),
		stringField("reporterId"),
		stringField("reason"),
		stringField("description"),
		{Target: "status", Default: defaultTo(constant.ReportPending), Normalize: asReportStatus},
		{Target: "createdAt", Default: nowISO, Normalize: ts},
		{Target: "handledBy", Normalize: asNullableString},
		{Target: "handledAt", Normalize: asNullableTimestamp(now)},
		stringField("result"),
	}}

	return [][]CollectionRules{
		{users},
		{posts},
		{comments, reports},
	}
}
