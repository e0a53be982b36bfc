package entities

import (
	"strings"

	"github.com/google/uuid"
)

// ID 前缀，与默认种子数据保持一致 (u_admin, p_1, c_1 ...)
const (
	UserIDPrefix      = "u"
	PostIDPrefix      = "p"
	CommentIDPrefix   = "c"
	LikeIDPrefix      = "l"
	FavoriteIDPrefix  = "f"
	ReportIDPrefix    = "r"
	HistoryIDPrefix   = "h"
	NutritionIDPrefix = "n"
)

// NewID 生成形如 "p_3f1c9a..." 的记录 id。
func NewID(prefix string) string {
	return prefix + "_" + strings.ReplaceAll(uuid.NewString(), "-", "")
}
