package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Xushengqwer/fruitmaster_service/constant"
	"github.com/Xushengqwer/fruitmaster_service/models/dto"
	"github.com/Xushengqwer/fruitmaster_service/models/entities"
	"github.com/Xushengqwer/fruitmaster_service/repo/collection"
)

// ProductionService 制作记录，只追加。
type ProductionService interface {
	// AddHistoryRecord 追加一条制作记录，新记录排在最前。
	AddHistoryRecord(ctx context.Context, req *dto.AddHistoryRecordRequest) (*entities.ProductionHistoryRecord, error)

	// GetHistoryByUser 某个用户的制作记录，新的在前。
	GetHistoryByUser(ctx context.Context, userID string) ([]entities.ProductionHistoryRecord, error)
}

type productionService struct {
	repo   *collection.Repository
	now    func() time.Time
	logger *zap.Logger
}

func NewProductionService(repo *collection.Repository, now func() time.Time, logger *zap.Logger) ProductionService {
	if now == nil {
		now = time.Now
	}
	return &productionService{repo: repo, now: now, logger: logger}
}

func (s *productionService) AddHistoryRecord(ctx context.Context, req *dto.AddHistoryRecordRequest) (*entities.ProductionHistoryRecord, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	count := clampFruitCount(req.FruitCount)
	record := entities.ProductionHistoryRecord{
		ID:         entities.NewID(entities.HistoryIDPrefix),
		UserID:     req.UserID,
		Mode:       req.Mode,
		FruitCount: count,
		Preprocess: normalizePreprocess(req.Preprocess, count),
		Params:     req.Params,
		Image:      req.Image,
		CreatedAt:  s.now().UTC(),
	}

	err := s.repo.Serialize(func() error {
		_, err := collection.Mutate(ctx, s.repo, constant.ProductionHistoryKey, func(list []entities.ProductionHistoryRecord) ([]entities.ProductionHistoryRecord, error) {
			return append([]entities.ProductionHistoryRecord{record}, list...), nil
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("新增制作记录",
		zap.String("recordID", record.ID),
		zap.String("userID", record.UserID),
		zap.String("mode", record.Mode),
		zap.Int("fruitCount", record.FruitCount))
	return &record, nil
}

func (s *productionService) GetHistoryByUser(ctx context.Context, userID string) ([]entities.ProductionHistoryRecord, error) {
	var out []entities.ProductionHistoryRecord
	s.repo.View(func() {
		list := collection.Read(ctx, s.repo, constant.ProductionHistoryKey, []entities.ProductionHistoryRecord{})
		out = collection.Filter(list, func(r entities.ProductionHistoryRecord) bool { return r.UserID == userID })
	})
	return out, nil
}

func clampFruitCount(n int) int {
	return max(constant.MinFruitCount, min(constant.MaxFruitCount, n))
}

// normalizePreprocess 补齐或截断到 count 个水果，编号从 1 开始，切块始终开启。
func normalizePreprocess(in []entities.FruitPreprocess, count int) []entities.FruitPreprocess {
	out := make([]entities.FruitPreprocess, count)
	for i := range out {
		if i < len(in) {
			out[i] = in[i]
		}
		out[i].ID = i + 1
		out[i].Cutting = true
	}
	return out
}
