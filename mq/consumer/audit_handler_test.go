package consumer

import (
	"context"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/Xushengqwer/fruitmaster_service/models/dto"
	"github.com/Xushengqwer/fruitmaster_service/models/vo"
	"github.com/Xushengqwer/fruitmaster_service/myErrors"
	"github.com/Xushengqwer/fruitmaster_service/service"
)

type verdictCall struct {
	postID   string
	approved bool
	reason   string
}

type fakeModeration struct {
	calls []verdictCall
	err   error
}

func (f *fakeModeration) ModeratePost(context.Context, service.Principal, string, *dto.ModeratePostRequest) (*vo.PostView, error) {
	return nil, errors.New("not used")
}

func (f *fakeModeration) ApplyAuditVerdict(_ context.Context, postID string, approved bool, reason string) error {
	f.calls = append(f.calls, verdictCall{postID: postID, approved: approved, reason: reason})
	return f.err
}

func TestAuditVerdictHandler(t *testing.T) {
	logger := zaptest.NewLogger(t)
	ctx := context.Background()

	t.Run("approved", func(t *testing.T) {
		mod := &fakeModeration{}
		h := NewApprovedAuditHandler(mod, logger)
		require.NoError(t, h.Handle(ctx, kafka.Message{Value: []byte(`{"eventId":"e1","postId":"p_1"}`)}))
		require.Len(t, mod.calls, 1)
		assert.Equal(t, "p_1", mod.calls[0].postID)
		assert.True(t, mod.calls[0].approved)
	})

	t.Run("rejected with labels", func(t *testing.T) {
		mod := &fakeModeration{}
		h := NewRejectedAuditHandler(mod, logger)
		msg := kafka.Message{Value: []byte(`{"postId":"p_3","reason":"广告","labels":["ad","spam"]}`)}
		require.NoError(t, h.Handle(ctx, msg))
		require.Len(t, mod.calls, 1)
		assert.False(t, mod.calls[0].approved)
		assert.Equal(t, "广告 [labels: ad,spam]", mod.calls[0].reason)
	})

	t.Run("unparseable and empty messages are dropped", func(t *testing.T) {
		mod := &fakeModeration{}
		h := NewApprovedAuditHandler(mod, logger)
		assert.NoError(t, h.Handle(ctx, kafka.Message{Value: []byte(`not json`)}))
		assert.NoError(t, h.Handle(ctx, kafka.Message{Value: []byte(`{"eventId":"e2"}`)}))
		assert.Empty(t, mod.calls)
	})

	t.Run("missing post is not retried", func(t *testing.T) {
		mod := &fakeModeration{err: myErrors.New(myErrors.ErrNotFound, "帖子不存在")}
		h := NewApprovedAuditHandler(mod, logger)
		assert.NoError(t, h.Handle(ctx, kafka.Message{Value: []byte(`{"postId":"p_404"}`)}))
	})

	t.Run("storage failure surfaces", func(t *testing.T) {
		mod := &fakeModeration{err: errors.New("disk full")}
		h := NewRejectedAuditHandler(mod, logger)
		assert.Error(t, h.Handle(ctx, kafka.Message{Value: []byte(`{"postId":"p_1"}`)}))
	})
}
