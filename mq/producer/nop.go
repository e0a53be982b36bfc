package producer

import (
	"context"

	"github.com/Xushengqwer/fruitmaster_service/models/entities"
)

// NopPublisher 未配置 Kafka 时使用，所有事件直接丢弃。
type NopPublisher struct{}

func (NopPublisher) PublishPostPendingAudit(context.Context, entities.Post) error { return nil }

func (NopPublisher) PublishPostDeleted(context.Context, string, string) error { return nil }

func (NopPublisher) PublishReportFiled(context.Context, entities.Report) error { return nil }

func (NopPublisher) Close() error { return nil }
