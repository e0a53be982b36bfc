package entities

import (
	"encoding/json"
	"time"
)

// FruitPreprocess 单个水果的预处理选项。切块始终开启。
type FruitPreprocess struct {
	ID      int  `json:"id"`
	Pitting bool `json:"pitting"`
	Peeling bool `json:"peeling"`
	Cutting bool `json:"cutting"`
}

// ProductionHistoryRecord 制作记录，只追加，不参与社区关系。
type ProductionHistoryRecord struct {
	ID         string            `json:"id"`
	UserID     string            `json:"userId"`
	Mode       string            `json:"mode"`
	FruitCount int               `json:"fruitCount"`
	Preprocess []FruitPreprocess `json:"preprocess"`
	// Params 口感、温度、甜度等参数，结构随模式变化，核心层只透传。
	Params    json.RawMessage `json:"params"`
	Image     string          `json:"image"`
	CreatedAt time.Time       `json:"createdAt"`
}

func (h ProductionHistoryRecord) GetID() string { return h.ID }

// NutritionContentItem 营养科普条目。
type NutritionContentItem struct {
	ID        string          `json:"id"`
	Title     string          `json:"title"`
	Summary   string          `json:"summary"`
	Cover     string          `json:"cover"`
	Recipe    json.RawMessage `json:"recipe"`
	Detail    string          `json:"detail"`
	CreatedAt time.Time       `json:"createdAt"`
}

func (n NutritionContentItem) GetID() string { return n.ID }

// StorageMeta 存储元数据，记录当前 schema 版本。
type StorageMeta struct {
	Version   int        `json:"version"`
	UpdatedAt *time.Time `json:"updatedAt"`
}
