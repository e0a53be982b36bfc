package producer

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/Xushengqwer/fruitmaster_service/config"
	"github.com/Xushengqwer/fruitmaster_service/models/entities"
	"github.com/Xushengqwer/fruitmaster_service/models/events"
)

// KafkaProducer Kafka 消息生产者
type KafkaProducer struct {
	writer *kafka.Writer
	logger *zap.Logger
	topics config.Topics
}

// NewKafkaProducer 创建一个新的 Kafka 生产者实例
func NewKafkaProducer(cfg config.KafkaConfig, logger *zap.Logger) *KafkaProducer {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
	return &KafkaProducer{
		writer: writer,
		logger: logger,
		topics: cfg.Topics,
	}
}

// SendEvent 发送事件到指定 Kafka 主题
func (p *KafkaProducer) SendEvent(ctx context.Context, topic, key string, event interface{}) error {
	eventBytes, err := json.Marshal(event)
	if err != nil {
		p.logger.Error("序列化事件失败", zap.Error(err), zap.String("topic", topic))
		return err
	}

	p.logger.Debug("发送 Kafka 消息",
		zap.String("topic", topic),
		zap.ByteString("payload", eventBytes))

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: eventBytes,
	})
	if err != nil {
		p.logger.Error("写入 Kafka 消息失败", zap.Error(err), zap.String("topic", topic))
	} else {
		p.logger.Info("Kafka 消息发送成功", zap.String("topic", topic), zap.String("key", key))
	}
	return err
}

// PublishPostPendingAudit 发送帖子待审核事件
// - 意图: 非管理员新发的帖子交给外部审核方
// - 输入: post 刚写入存储的帖子
func (p *KafkaProducer) PublishPostPendingAudit(ctx context.Context, post entities.Post) error {
	event := events.PostPendingAuditEvent{
		EventID:   uuid.New().String(),
		Timestamp: time.Now(),
		Post: events.PostData{
			ID:        post.ID,
			AuthorID:  post.AuthorID,
			Title:     post.Title,
			Content:   post.Content,
			Tags:      post.Tags,
			Images:    post.Images,
			CreatedAt: post.CreatedAt,
		},
	}
	return p.SendEvent(ctx, p.topics.PostPendingAudit, post.ID, event)
}

// PublishPostDeleted 发送帖子删除事件
func (p *KafkaProducer) PublishPostDeleted(ctx context.Context, postID, deletedBy string) error {
	event := events.PostDeletedEvent{
		EventID:   uuid.New().String(),
		Timestamp: time.Now(),
		PostID:    postID,
		DeletedBy: deletedBy,
	}
	return p.SendEvent(ctx, p.topics.PostDeleted, postID, event)
}

// PublishReportFiled 发送新举报事件
func (p *KafkaProducer) PublishReportFiled(ctx context.Context, report entities.Report) error {
	event := events.ReportFiledEvent{
		EventID:    uuid.New().String(),
		Timestamp:  time.Now(),
		ReportID:   report.ID,
		PostID:     report.PostID,
		ReporterID: report.ReporterID,
		Reason:     report.Reason,
	}
	return p.SendEvent(ctx, p.topics.ReportFiled, report.PostID, event)
}

// Close 刷新并关闭底层 writer
func (p *KafkaProducer) Close() error {
	return p.writer.Close()
}
