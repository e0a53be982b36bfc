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

// ReportService 举报流程。
// 状态只会 pending -> resolved；同一举报人对同一帖子同时至多一条 pending。
type ReportService interface {
	AddReport(ctx context.Context, req *dto.AddReportRequest) (*entities.Report, error)
	HandleReport(ctx context.Context, actor Principal, req *dto.HandleReportRequest) (*entities.Report, error)
	ListReports(ctx context.Context, actor Principal, req *dto.ListReportsRequest) ([]entities.Report, error)
}

type reportService struct {
	repo      *collection.Repository
	publisher EventPublisher
	now       func() time.Time
	logger    *zap.Logger
}

// NewReportService 创建举报服务。
func NewReportService(repo *collection.Repository, publisher EventPublisher, now func() time.Time, logger *zap.Logger) ReportService {
	if now == nil {
		now = time.Now
	}
	return &reportService{repo: repo, publisher: publisher, now: now, logger: logger}
}

// AddReport 提交举报
// - 举报原因必填
// - 已有同一举报人对同一帖子的待处理举报时返回 ErrDuplicateReport
func (s *reportService) AddReport(ctx context.Context, req *dto.AddReportRequest) (*entities.Report, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		return nil, myErrors.New(myErrors.ErrValidation, "请选择举报原因")
	}
	if req.ReporterID == "" {
		return nil, myErrors.New(myErrors.ErrPermission, "请先登录")
	}

	report := entities.Report{
		ID:          entities.NewID(entities.ReportIDPrefix),
		PostID:      req.PostID,
		ReporterID:  req.ReporterID,
		Reason:      reason,
		Description: req.Description,
		Status:      constant.ReportPending,
		CreatedAt:   s.now().UTC(),
	}
	err := s.repo.Serialize(func() error {
		posts := collection.Read(ctx, s.repo, constant.PostsKey, []entities.Post{})
		if collection.IndexOf(posts, req.PostID) < 0 {
			return myErrors.New(myErrors.ErrNotFound, "帖子不存在")
		}
		_, err := collection.Mutate(ctx, s.repo, constant.ReportsKey, func(reports []entities.Report) ([]entities.Report, error) {
			for _, r := range reports {
				if r.PostID == req.PostID && r.ReporterID == req.ReporterID && r.Status == constant.ReportPending {
					return nil, myErrors.New(myErrors.ErrDuplicateReport, "你已提交过待处理举报")
				}
			}
			return append(reports, report), nil
		})
		return err
	})
	if err != nil {
		s.logger.Info("举报被拒绝或失败", zap.String("postID", req.PostID), zap.String("reporterID", req.ReporterID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("举报已提交", zap.String("reportID", report.ID), zap.String("postID", report.PostID))
	publishAsync(s.logger, "report_filed", func(ctx context.Context) error {
		return s.publisher.PublishReportFiled(ctx, report)
	})
	return &report, nil
}

// HandleReport 处理举报：记录处理人、时间和结果，状态置为 resolved。已处理的举报不能再次处理。
func (s *reportService) HandleReport(ctx context.Context, actor Principal, req *dto.HandleReportRequest) (*entities.Report, error) {
	if !actor.IsAdmin() {
		s.logger.Warn("非管理员尝试处理举报", zap.String("actorID", actor.UserID()))
		return nil, myErrors.New(myErrors.ErrPermission, "仅管理员可操作")
	}
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	result := strings.TrimSpace(req.Result)
	if result == "" {
		result = constant.DefaultReportResult
	}

	var handled entities.Report
	err := s.repo.Serialize(func() error {
		_, err := collection.Mutate(ctx, s.repo, constant.ReportsKey, func(reports []entities.Report) ([]entities.Report, error) {
			idx := collection.IndexOf(reports, req.ReportID)
			if idx < 0 {
				return nil, myErrors.New(myErrors.ErrNotFound, "举报不存在")
			}
			r := &reports[idx]
			if r.Status == constant.ReportResolved {
				return nil, myErrors.New(myErrors.ErrConflict, "举报已处理")
			}
			handler := actor.UserID()
			handledAt := s.now().UTC()
			r.Status = constant.ReportResolved
			r.HandledBy = &handler
			r.HandledAt = &handledAt
			r.Result = result
			handled = *r
			return reports, nil
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("举报已处理", zap.String("reportID", handled.ID), zap.String("handlerID", actor.UserID()))
	return &handled, nil
}

// ListReports 管理员查看举报，按提交时间倒序。
func (s *reportService) ListReports(ctx context.Context, actor Principal, req *dto.ListReportsRequest) ([]entities.Report, error) {
	if !actor.IsAdmin() {
		return nil, myErrors.New(myErrors.ErrPermission, "仅管理员可操作")
	}
	if req == nil {
		req = &dto.ListReportsRequest{}
	}
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	var reports []entities.Report
	s.repo.View(func() {
		reports = collection.Read(ctx, s.repo, constant.ReportsKey, []entities.Report{})
	})
	if req.Status != "" {
		reports = collection.Filter(reports, func(r entities.Report) bool { return r.Status == req.Status })
	}
	sort.SliceStable(reports, func(i, j int) bool {
		return reports[i].CreatedAt.After(reports[j].CreatedAt)
	})
	return reports, nil
}
