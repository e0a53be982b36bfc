package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Xushengqwer/fruitmaster_service/constant"
	"github.com/Xushengqwer/fruitmaster_service/models/dto"
	"github.com/Xushengqwer/fruitmaster_service/models/entities"
	"github.com/Xushengqwer/fruitmaster_service/myErrors"
	"github.com/Xushengqwer/fruitmaster_service/repo/collection"
)

// NutritionService 营养科普内容的增删改查，除 id 唯一外没有其他约束。
// 写操作的角色限制由调用方（路由守卫）负责。
type NutritionService interface {
	ListItems(ctx context.Context) ([]entities.NutritionContentItem, error)
	GetByID(ctx context.Context, id string) (*entities.NutritionContentItem, error)
	CreateItem(ctx context.Context, req *dto.NutritionItemRequest) (*entities.NutritionContentItem, error)
	UpdateItem(ctx context.Context, id string, req *dto.UpdateNutritionItemRequest) (*entities.NutritionContentItem, error)
	DeleteItem(ctx context.Context, id string) error
}

type nutritionService struct {
	repo   *collection.Repository
	now    func() time.Time
	logger *zap.Logger
}

func NewNutritionService(repo *collection.Repository, now func() time.Time, logger *zap.Logger) NutritionService {
	if now == nil {
		now = time.Now
	}
	return &nutritionService{repo: repo, now: now, logger: logger}
}

// ListItems 按创建时间倒序。
func (s *nutritionService) ListItems(ctx context.Context) ([]entities.NutritionContentItem, error) {
	var items []entities.NutritionContentItem
	s.repo.View(func() {
		items = collection.Read(ctx, s.repo, constant.NutritionContentKey, []entities.NutritionContentItem{})
	})
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return items, nil
}

func (s *nutritionService) GetByID(ctx context.Context, id string) (*entities.NutritionContentItem, error) {
	var found *entities.NutritionContentItem
	s.repo.View(func() {
		items := collection.Read(ctx, s.repo, constant.NutritionContentKey, []entities.NutritionContentItem{})
		if idx := collection.IndexOf(items, id); idx >= 0 {
			found = &items[idx]
		}
	})
	if found == nil {
		return nil, myErrors.New(myErrors.ErrNotFound, "内容不存在")
	}
	return found, nil
}

func (s *nutritionService) CreateItem(ctx context.Context, req *dto.NutritionItemRequest) (*entities.NutritionContentItem, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, myErrors.New(myErrors.ErrValidation, "标题必填")
	}

	item := entities.NutritionContentItem{
		ID:        entities.NewID(entities.NutritionIDPrefix),
		Title:     title,
		Summary:   req.Summary,
		Cover:     req.Cover,
		Recipe:    req.Recipe,
		Detail:    req.Detail,
		CreatedAt: s.now().UTC(),
	}
	err := s.repo.Serialize(func() error {
		_, err := collection.Mutate(ctx, s.repo, constant.NutritionContentKey, func(items []entities.NutritionContentItem) ([]entities.NutritionContentItem, error) {
			return append([]entities.NutritionContentItem{item}, items...), nil
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("新增营养科普条目", zap.String("itemID", item.ID), zap.String("title", item.Title))
	return &item, nil
}

func (s *nutritionService) UpdateItem(ctx context.Context, id string, req *dto.UpdateNutritionItemRequest) (*entities.NutritionContentItem, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	var updated entities.NutritionContentItem
	err := s.repo.Serialize(func() error {
		_, err := collection.Mutate(ctx, s.repo, constant.NutritionContentKey, func(items []entities.NutritionContentItem) ([]entities.NutritionContentItem, error) {
			idx := collection.IndexOf(items, id)
			if idx < 0 {
				return nil, myErrors.New(myErrors.ErrNotFound, "内容不存在")
			}
			item := &items[idx]
			if req.Title != nil {
				title := strings.TrimSpace(*req.Title)
				if title == "" {
					return nil, myErrors.New(myErrors.ErrValidation, "标题必填")
				}
				item.Title = title
			}
			assignIfSet(&item.Summary, req.Summary)
			assignIfSet(&item.Cover, req.Cover)
			assignIfSet(&item.Detail, req.Detail)
			if req.Recipe != nil {
				item.Recipe = req.Recipe
			}
			updated = *item
			return items, nil
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteItem 删除不存在的条目视为成功。
func (s *nutritionService) DeleteItem(ctx context.Context, id string) error {
	return s.repo.Serialize(func() error {
		_, err := collection.Mutate(ctx, s.repo, constant.NutritionContentKey, func(items []entities.NutritionContentItem) ([]entities.NutritionContentItem, error) {
			return collection.Filter(items, func(it entities.NutritionContentItem) bool { return it.ID != id }), nil
		})
		return err
	})
}
