package tasks

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/Xushengqwer/fruitmaster_service/config"
	"github.com/Xushengqwer/fruitmaster_service/constant"
	"github.com/Xushengqwer/fruitmaster_service/service"
)

// HotPostsCacheTask 负责定时刷新热榜快照。
type HotPostsCacheTask struct {
	hotPosts service.HotPostService
	cron     *cron.Cron
	schedule string
	size     int
	logger   *zap.Logger
}

// NewHotPostsCacheTask 初始化热榜快照定时任务，并立即刷新一次，保证启动后热榜可用。
// - cfg 中未配置的项使用 constant 中的默认值。
func NewHotPostsCacheTask(hotPosts service.HotPostService, cfg config.HotRankConfig, logger *zap.Logger) (*HotPostsCacheTask, error) {
	task := &HotPostsCacheTask{
		hotPosts: hotPosts,
		cron:     cron.New(),
		schedule: cfg.CronSpec,
		size:     cfg.Size,
		logger:   logger,
	}
	if task.schedule == "" {
		task.schedule = constant.HotPostsCacheCronSpec
	}
	if task.size <= 0 {
		task.size = constant.HotPostsCacheSize
	}

	task.logger.Info("准备启动热榜快照刷新定时任务", zap.String("schedule", task.schedule), zap.Int("size", task.size))
	entryID, err := task.cron.AddFunc(task.schedule, task.run)
	if err != nil {
		task.logger.Error("添加热榜快照 cron 作业失败", zap.Error(err), zap.String("schedule", task.schedule))
		return nil, err
	}

	task.run()
	task.cron.Start()
	task.logger.Info("热榜快照刷新定时任务已启动", zap.Uint("cronEntryID", uint(entryID)))
	return task, nil
}

func (t *HotPostsCacheTask) run() {
	startTime := time.Now()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	n, err := t.hotPosts.RefreshSnapshot(ctx, t.size)
	if err != nil {
		t.logger.Error("热榜快照刷新失败，读取方将实时计算兜底", zap.Error(err))
		return
	}
	t.logger.Info("热榜快照刷新任务执行完毕", zap.Int("posts", n), zap.Duration("duration", time.Since(startTime)))
}

// Stop 停止调度，返回的 context 在正在执行的任务结束后关闭。
func (t *HotPostsCacheTask) Stop() context.Context {
	t.logger.Info("正在停止热榜快照刷新定时任务...")
	return t.cron.Stop()
}
