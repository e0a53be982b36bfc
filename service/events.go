package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Xushengqwer/fruitmaster_service/models/entities"
)

// EventPublisher 内容引擎对外发布事件的出口，实现为 producer.KafkaProducer 或 producer.NopPublisher。
// 发布失败只记录日志，不影响已经落盘的本地操作。
type EventPublisher interface {
	PublishPostPendingAudit(ctx context.Context, post entities.Post) error
	PublishPostDeleted(ctx context.Context, postID, deletedBy string) error
	PublishReportFiled(ctx context.Context, report entities.Report) error
}

// publishAsync 在后台发布事件，不阻塞调用方，也不持有存储写锁。
func publishAsync(logger *zap.Logger, event string, fn func(ctx context.Context) error) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := fn(ctx); err != nil {
			logger.Error("异步发布事件失败", zap.String("event", event), zap.Error(err))
		}
	}()
}
