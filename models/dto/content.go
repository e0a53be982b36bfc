package dto

import (
	"encoding/json"

	"github.com/Xushengqwer/fruitmaster_service/models/entities"
)

// NutritionItemRequest 新建营养科普条目。
type NutritionItemRequest struct {
	Title   string          `json:"title" binding:"required,max=100"`
	Summary string          `json:"summary" binding:"max=300"`
	Cover   string          `json:"cover"`
	Recipe  json.RawMessage `json:"recipe"`
	Detail  string          `json:"detail"`
}

// UpdateNutritionItemRequest 编辑营养科普条目，nil 表示保持原值。
type UpdateNutritionItemRequest struct {
	Title   *string         `json:"title" binding:"omitempty,min=1,max=100"`
	Summary *string         `json:"summary" binding:"omitempty,max=300"`
	Cover   *string         `json:"cover"`
	Recipe  json.RawMessage `json:"recipe"`
	Detail  *string         `json:"detail"`
}

// AddHistoryRecordRequest 追加一条制作记录。
// - FruitCount 会被钳制到 [1, 6]。
// - Preprocess 中每个水果的切块选项始终为 true。
type AddHistoryRecordRequest struct {
	UserID     string                     `json:"userId" binding:"required"`
	Mode       string                     `json:"mode" binding:"required,oneof=juice canned cut"`
	FruitCount int                        `json:"fruitCount"`
	Preprocess []entities.FruitPreprocess `json:"preprocess"`
	Params     json.RawMessage            `json:"params"`
	Image      string                     `json:"image"`
}
