package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/Xushengqwer/fruitmaster_service/models/events"
	"github.com/Xushengqwer/fruitmaster_service/myErrors"
	"github.com/Xushengqwer/fruitmaster_service/service"
)

// MessageHandler 处理单条 Kafka 消息。返回 nil 表示消息已消费完毕（包括主动丢弃）。
type MessageHandler interface {
	Handle(ctx context.Context, msg kafka.Message) error
}

// AuditVerdictHandler 把外部审核结论应用到帖子上。
// 通过与拒绝两个主题共用同一实现，只有 approved 不同。
type AuditVerdictHandler struct {
	approved   bool
	moderation service.ModerationService
	logger     *zap.Logger
}

// NewApprovedAuditHandler 审核通过：帖子 approved=true。
func NewApprovedAuditHandler(moderation service.ModerationService, logger *zap.Logger) *AuditVerdictHandler {
	return &AuditVerdictHandler{approved: true, moderation: moderation, logger: logger}
}

// NewRejectedAuditHandler 审核拒绝：帖子 hidden=true。
func NewRejectedAuditHandler(moderation service.ModerationService, logger *zap.Logger) *AuditVerdictHandler {
	return &AuditVerdictHandler{approved: false, moderation: moderation, logger: logger}
}

func (h *AuditVerdictHandler) Handle(ctx context.Context, msg kafka.Message) error {
	var event events.PostAuditVerdictEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		h.logger.Error("反序列化审核结论失败，消息被丢弃", zap.Error(err), zap.ByteString("value", msg.Value))
		return nil
	}
	if event.PostID == "" {
		h.logger.Warn("审核结论缺少 postId，消息被丢弃", zap.String("event_id", event.EventID))
		return nil
	}

	reason := formatVerdictReason(&event)
	if err := h.moderation.ApplyAuditVerdict(ctx, event.PostID, h.approved, reason); err != nil {
		if errors.Is(err, myErrors.ErrNotFound) {
			h.logger.Warn("审核结论对应的帖子不存在或已删除", zap.String("post_id", event.PostID))
			return nil
		}
		return fmt.Errorf("应用审核结论失败 (post_id=%s): %w", event.PostID, err)
	}

	h.logger.Info("审核结论已应用",
		zap.String("event_id", event.EventID),
		zap.String("post_id", event.PostID),
		zap.Bool("approved", h.approved))
	return nil
}

// formatVerdictReason 拼接审核原因与命中标签，只用于日志。
func formatVerdictReason(event *events.PostAuditVerdictEvent) string {
	reason := event.Reason
	if len(event.Labels) > 0 {
		reason = fmt.Sprintf("%s [labels: %s]", reason, strings.Join(event.Labels, ","))
	}
	const maxReasonLength = 250
	if len(reason) > maxReasonLength {
		reason = reason[:maxReasonLength] + "..."
	}
	return reason
}
