package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/Xushengqwer/fruitmaster_service/constant"
	"github.com/Xushengqwer/fruitmaster_service/models/dto"
	"github.com/Xushengqwer/fruitmaster_service/models/entities"
	"github.com/Xushengqwer/fruitmaster_service/repo/collection"
	"github.com/Xushengqwer/fruitmaster_service/repo/kvstore"
	"github.com/Xushengqwer/fruitmaster_service/security"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

type recordingPublisher struct {
	mu      sync.Mutex
	pending []string
	deleted []string
	reports []string
}

func (p *recordingPublisher) PublishPostPendingAudit(_ context.Context, post entities.Post) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pending = append(p.pending, post.ID)
	return nil
}

func (p *recordingPublisher) PublishPostDeleted(_ context.Context, postID, _ string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.deleted = append(p.deleted, postID)
	return nil
}

func (p *recordingPublisher) PublishReportFiled(_ context.Context, report entities.Report) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.reports = append(p.reports, report.ID)
	return nil
}

func (p *recordingPublisher) has(list *[]string, id string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, v := range *list {
		if v == id {
			return true
		}
	}
	return false
}

type testEnv struct {
	ctx   context.Context
	store *Store
	repo  *collection.Repository
	clock *fakeClock
	pub   *recordingPublisher
}

// newTestEnv 基于内存介质创建一个已完成初始化（含默认数据）的 Store。
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	logger := zaptest.NewLogger(t)
	repo := collection.NewRepository(kvstore.NewAdapter(kvstore.NewMemoryStore(), logger), logger)
	clock := &fakeClock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	pub := &recordingPublisher{}

	store := NewStore(StoreDeps{
		Repo:      repo,
		Hasher:    security.DemoHasher{},
		Publisher: pub,
		Now:       clock.Now,
		Logger:    logger,
	})
	res := store.InitStore(context.Background())
	require.True(t, res.Success, res.Message)

	return &testEnv{ctx: context.Background(), store: store, repo: repo, clock: clock, pub: pub}
}

func (e *testEnv) login(t *testing.T, account, password string) Principal {
	t.Helper()
	p, err := e.store.auth.Login(e.ctx, &dto.LoginRequest{Account: account, Password: password})
	require.NoError(t, err)
	return p
}

func (e *testEnv) admin(t *testing.T) Principal { return e.login(t, "admin", "admin123") }

func (e *testEnv) user(t *testing.T) Principal { return e.login(t, "user", "user123") }

func (e *testEnv) maintainer(t *testing.T) Principal { return e.login(t, "maintainer", "maintain123") }

func (e *testEnv) posts() []entities.Post {
	var out []entities.Post
	e.repo.View(func() { out = collection.Read(e.ctx, e.repo, constant.PostsKey, []entities.Post{}) })
	return out
}

func postIDs(views []entities.Post) []string {
	ids := make([]string, 0, len(views))
	for _, v := range views {
		ids = append(ids, v.ID)
	}
	return ids
}
