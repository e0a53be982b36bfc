package kvstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// ErrKeyNotFound 表示存储介质中不存在该 Key。
var ErrKeyNotFound = errors.New("kvstore: key not found")

// Store 定义了设备存储介质的最小能力集。
// - 这是唯一直接接触存储介质的组件，上层只看到字符串 Key 和字节值。
// - SetMany 必须是原子的：要么全部写入，要么全部不写。
type Store interface {
	// Get 读取 Key 对应的原始字节；不存在时返回 ErrKeyNotFound。
	Get(ctx context.Context, key string) ([]byte, error)

	// Set 覆盖写入单个 Key。
	Set(ctx context.Context, key string, value []byte) error

	// SetMany 原子地写入多个 Key，用于跨集合的级联操作。
	SetMany(ctx context.Context, entries map[string][]byte) error

	// Delete 删除 Key，Key 不存在时不报错。
	Delete(ctx context.Context, key string) error

	// Close 释放介质持有的资源。
	Close() error
}

// Adapter 在 Store 之上提供 JSON 读写。
// - 读取时任何解析失败都降级为"不存在"，并记录 Warn 日志，绝不把损坏数据抛给调用方。
// - 写入错误照常返回。
type Adapter struct {
	store  Store
	logger *zap.Logger
}

// NewAdapter 创建 Adapter。
func NewAdapter(store Store, logger *zap.Logger) *Adapter {
	return &Adapter{store: store, logger: logger}
}

// Store 返回底层介质。
func (a *Adapter) Store() Store {
	return a.store
}

// GetRaw 读取原始字节。第二个返回值为 false 表示不存在、为空或读取失败。
func (a *Adapter) GetRaw(ctx context.Context, key string) ([]byte, bool) {
	raw, err := a.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrKeyNotFound) {
			a.logger.Error("读取存储介质失败，按不存在处理", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	if len(raw) == 0 {
		return nil, false
	}
	return raw, true
}

// GetJSON 读取并反序列化到 out。
// - 返回 false 表示不存在或数据损坏，此时 out 的内容不可信，调用方应使用自己的兜底值。
func (a *Adapter) GetJSON(ctx context.Context, key string, out any) bool {
	raw, ok := a.GetRaw(ctx, key)
	if !ok {
		return false
	}
	if err := json.Unmarshal(raw, out); err != nil {
		a.logger.Warn("存储数据解析失败，按不存在处理", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

// SetJSON 序列化并写入单个 Key。
func (a *Adapter) SetJSON(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("序列化 %s 失败: %w", key, err)
	}
	if err := a.store.Set(ctx, key, raw); err != nil {
		a.logger.Error("写入存储介质失败", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("写入 %s 失败: %w", key, err)
	}
	return nil
}

// SetManyJSON 序列化并原子写入多个 Key。
func (a *Adapter) SetManyJSON(ctx context.Context, values map[string]any) error {
	entries := make(map[string][]byte, len(values))
	for key, value := range values {
		raw, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("序列化 %s 失败: %w", key, err)
		}
		entries[key] = raw
	}
	return a.SetManyRaw(ctx, entries)
}

// SetManyRaw 原子写入多个已序列化的 Key。
func (a *Adapter) SetManyRaw(ctx context.Context, entries map[string][]byte) error {
	if len(entries) == 0 {
		return nil
	}
	if err := a.store.SetMany(ctx, entries); err != nil {
		a.logger.Error("批量写入存储介质失败", zap.Int("keys", len(entries)), zap.Error(err))
		return fmt.Errorf("批量写入失败: %w", err)
	}
	return nil
}
