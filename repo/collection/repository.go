package collection

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/Xushengqwer/fruitmaster_service/repo/kvstore"
)

// Identifiable 集合元素都带唯一 id。
type Identifiable interface {
	GetID() string
}

// Repository 是集合读写的唯一入口。
// - 集合整体读出、整体写回，写入粒度为"一个完整集合"。
// - mu 是单写者锁：Auth / Content 的每个操作在整个 读-改-写 周期内通过 Serialize 持有它，
//   因此任何写入都基于最新读取的状态，不会出现丢失更新。
// - Read / Write / Mutate 本身不加锁，调用方负责在 Serialize 或 View 内调用。
type Repository struct {
	adapter *kvstore.Adapter
	logger  *zap.Logger
	mu      sync.Mutex
}

// NewRepository 创建 Repository。
func NewRepository(adapter *kvstore.Adapter, logger *zap.Logger) *Repository {
	return &Repository{adapter: adapter, logger: logger}
}

// Adapter 返回底层 KV 适配器，迁移管理器直接在原始 JSON 上工作时使用。
func (r *Repository) Adapter() *kvstore.Adapter {
	return r.adapter
}

// Serialize 在单写者锁内执行 fn。fn 内不得再次调用 Serialize。
func (r *Repository) Serialize(fn func() error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return fn()
}

// View 在同一把锁内执行只读闭包，保证闭包内读到的多个集合来自同一时刻。
func (r *Repository) View(fn func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fn()
}

// Read 读取集合。缺失、为空值或数据损坏时返回 fallback，从不报错。
func Read[T any](ctx context.Context, r *Repository, key string, fallback []T) []T {
	var list []T
	if !r.adapter.GetJSON(ctx, key, &list) || list == nil {
		return fallback
	}
	return list
}

// Write 整体写入集合。nil 会被写成空数组而不是 null。
func Write[T any](ctx context.Context, r *Repository, key string, list []T) error {
	if list == nil {
		list = []T{}
	}
	return r.adapter.SetJSON(ctx, key, list)
}

// Mutate 读取当前集合（缺失时为空），交给 transform 变换后写回，并返回新集合。
// - transform 返回错误时不写入任何数据。
// - 这是修改集合唯一认可的路径。
func Mutate[T any](ctx context.Context, r *Repository, key string, transform func([]T) ([]T, error)) ([]T, error) {
	current := Read(ctx, r, key, []T{})
	next, err := transform(current)
	if err != nil {
		return nil, err
	}
	if next == nil {
		next = []T{}
	}
	if err := Write(ctx, r, key, next); err != nil {
		return nil, fmt.Errorf("写回集合 %s 失败: %w", key, err)
	}
	return next, nil
}

// ReadValue 读取单值 Key（如会话）。第二个返回值为 false 表示缺失、损坏或存的是 null。
func ReadValue[T any](ctx context.Context, r *Repository, key string) (*T, bool) {
	var value *T
	if !r.adapter.GetJSON(ctx, key, &value) || value == nil {
		return nil, false
	}
	return value, true
}

// WriteValue 写入单值 Key。value 为 nil 时写入 null。
func WriteValue[T any](ctx context.Context, r *Repository, key string, value *T) error {
	return r.adapter.SetJSON(ctx, key, value)
}

// IndexOf 按 id 查找元素下标，找不到返回 -1。
func IndexOf[T Identifiable](list []T, id string) int {
	for i, item := range list {
		if item.GetID() == id {
			return i
		}
	}
	return -1
}

// Filter 返回满足 keep 的元素组成的新切片。
func Filter[T any](list []T, keep func(T) bool) []T {
	out := make([]T, 0, len(list))
	for _, item := range list {
		if keep(item) {
			out = append(out, item)
		}
	}
	return out
}
