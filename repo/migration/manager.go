package migration

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Xushengqwer/fruitmaster_service/constant"
	"github.com/Xushengqwer/fruitmaster_service/models/entities"
	"github.com/Xushengqwer/fruitmaster_service/repo/kvstore"
	"github.com/Xushengqwer/fruitmaster_service/security"
)

// Outcome 描述一次 Run 做了什么，便于启动日志和测试断言。
type Outcome struct {
	FromVersion int      `json:"fromVersion"`
	ToVersion   int      `json:"toVersion"`
	Migrated    []string `json:"migrated"`
	Seeded      []string `json:"seeded"`
}

// Manager 负责存储 schema 版本管理和默认数据填充。
// - 进程启动时、任何仓储访问之前调用一次 Run。
// - Run 可以重复执行：第二次执行不会改变任何数据。
type Manager struct {
	adapter *kvstore.Adapter
	hasher  security.Hasher
	logger  *zap.Logger
	now     func() time.Time
}

// NewManager 创建迁移管理器。now 为 nil 时使用 time.Now。
func NewManager(adapter *kvstore.Adapter, hasher security.Hasher, logger *zap.Logger, now func() time.Time) *Manager {
	if now == nil {
		now = time.Now
	}
	return &Manager{adapter: adapter, hasher: hasher, logger: logger, now: now}
}

// Run 执行迁移：
// 1. 读取版本标记（缺失或损坏视为 0）。
// 2. 依次执行 [persisted, CurrentVersion) 区间内的步骤。
// 3. 补齐缺失或损坏的集合，users 与营养科普为空时也重新填充。
// 4. 版本有变化时写入新的版本标记。
func (m *Manager) Run(ctx context.Context) (*Outcome, error) {
	meta := m.readMeta(ctx)
	outcome := &Outcome{FromVersion: meta.Version, ToVersion: meta.Version}

	if meta.Version > CurrentVersion {
		m.logger.Warn("存储版本高于当前程序支持的版本，跳过迁移",
			zap.Int("persistedVersion", meta.Version),
			zap.Int("currentVersion", CurrentVersion))
	}

	steps := buildSteps(m.now)
	for version := meta.Version; version < CurrentVersion; version++ {
		for _, cr := range steps[version] {
			migrated, err := m.migrateCollection(ctx, cr)
			if err != nil {
				return nil, fmt.Errorf("执行迁移步骤 v%d->v%d 失败: %w", version, version+1, err)
			}
			if migrated {
				outcome.Migrated = append(outcome.Migrated, cr.Key)
			}
		}
		m.logger.Info("迁移步骤完成", zap.Int("from", version), zap.Int("to", version+1))
	}

	seeded, err := m.ensureDefaults(ctx)
	if err != nil {
		return nil, err
	}
	outcome.Seeded = seeded

	if meta.Version < CurrentVersion {
		now := m.now().UTC()
		if err := m.adapter.SetJSON(ctx, constant.MetaKey, entities.StorageMeta{Version: CurrentVersion, UpdatedAt: &now}); err != nil {
			return nil, fmt.Errorf("写入版本标记失败: %w", err)
		}
		outcome.ToVersion = CurrentVersion
	}

	m.logger.Info("存储初始化完成",
		zap.Int("fromVersion", outcome.FromVersion),
		zap.Int("toVersion", outcome.ToVersion),
		zap.Strings("migrated", outcome.Migrated),
		zap.Strings("seeded", outcome.Seeded))
	return outcome, nil
}

// Reset 用默认数据覆盖全部集合，清空会话，并写入当前版本标记。
func (m *Manager) Reset(ctx context.Context) error {
	seeds, err := DefaultSeeds(m.hasher, m.now())
	if err != nil {
		return err
	}
	now := m.now().UTC()
	values := seeds.Collections()
	values[constant.SessionKey] = nil
	values[constant.MetaKey] = entities.StorageMeta{Version: CurrentVersion, UpdatedAt: &now}

	if err := m.adapter.SetManyJSON(ctx, values); err != nil {
		return fmt.Errorf("重置存储失败: %w", err)
	}
	m.logger.Warn("存储已重置为默认数据")
	return nil
}

func (m *Manager) readMeta(ctx context.Context) entities.StorageMeta {
	var meta entities.StorageMeta
	if !m.adapter.GetJSON(ctx, constant.MetaKey, &meta) || meta.Version < 0 {
		return entities.StorageMeta{}
	}
	return meta
}

// migrateCollection 对单个集合执行一组规则。集合缺失或损坏时跳过，交给 ensureDefaults 处理。
func (m *Manager) migrateCollection(ctx context.Context, cr CollectionRules) (bool, error) {
	items, ok := m.readRawList(ctx, cr.Key)
	if !ok {
		return false, nil
	}
	migrated, dropped := applyToList(items, cr.Rules)
	if dropped > 0 {
		m.logger.Warn("迁移时丢弃了无法识别的记录", zap.String("key", cr.Key), zap.Int("dropped", dropped))
	}
	if err := m.adapter.SetJSON(ctx, cr.Key, migrated); err != nil {
		return false, err
	}
	return true, nil
}

// readRawList 以原始 JSON 形态读取集合。第二个返回值为 false 表示缺失或不是数组。
func (m *Manager) readRawList(ctx context.Context, key string) ([]any, bool) {
	raw, ok := m.adapter.GetRaw(ctx, key)
	if !ok {
		return nil, false
	}
	var items []any
	if err := json.Unmarshal(raw, &items); err != nil || items == nil {
		m.logger.Warn("集合数据无法解析，按缺失处理", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return items, true
}

// ensureDefaults 为缺失或损坏的集合写入默认数据，并一次性提交。
// users 与营养科普为空时也会重新填充：没有账号就无法登录，没有科普内容首页为空。
func (m *Manager) ensureDefaults(ctx context.Context) ([]string, error) {
	seeds, err := DefaultSeeds(m.hasher, m.now())
	if err != nil {
		return nil, err
	}
	defaults := seeds.Collections()
	reseedWhenEmpty := map[string]bool{
		constant.UsersKey:            true,
		constant.NutritionContentKey: true,
	}

	pending := make(map[string]any)
	var seeded []string
	for _, key := range constant.CollectionKeys {
		items, ok := m.readRawList(ctx, key)
		if ok && !(len(items) == 0 && reseedWhenEmpty[key]) {
			continue
		}
		pending[key] = defaults[key]
		seeded = append(seeded, key)
	}

	if !m.sessionKeyValid(ctx) {
		pending[constant.SessionKey] = nil
	}

	if err := m.adapter.SetManyJSON(ctx, pending); err != nil {
		return nil, fmt.Errorf("写入默认数据失败: %w", err)
	}
	return seeded, nil
}

// sessionKeyValid 会话 Key 存在且可解析（包括 null）时返回 true。
func (m *Manager) sessionKeyValid(ctx context.Context) bool {
	var session *entities.Session
	return m.adapter.GetJSON(ctx, constant.SessionKey, &session)
}
