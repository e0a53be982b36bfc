package collection

import (
	"context"
	"fmt"
)

// Batch 暂存多个集合的变更，Commit 时通过一次 SetMany 原子写入。
// 删除帖子时的级联清理依赖它：帖子与评论、点赞、收藏、举报要么一起消失，要么都不变。
type Batch struct {
	repo   *Repository
	staged map[string]any
}

// NewBatch 创建一个空批次。
func (r *Repository) NewBatch() *Batch {
	return &Batch{repo: r, staged: make(map[string]any)}
}

// Stage 对批次中的某个集合应用变换。
// 同一 Key 多次 Stage 时，后一次看到的是前一次暂存的结果。
func Stage[T any](ctx context.Context, b *Batch, key string, transform func([]T) ([]T, error)) ([]T, error) {
	var current []T
	if staged, ok := b.staged[key]; ok {
		typed, ok := staged.([]T)
		if !ok {
			return nil, fmt.Errorf("集合 %s 已以不同类型暂存", key)
		}
		current = typed
	} else {
		current = Read(ctx, b.repo, key, []T{})
	}

	next, err := transform(current)
	if err != nil {
		return nil, err
	}
	if next == nil {
		next = []T{}
	}
	b.staged[key] = next
	return next, nil
}

// Len 返回已暂存的集合数量。
func (b *Batch) Len() int {
	return len(b.staged)
}

// Commit 原子写入全部暂存集合。
func (b *Batch) Commit(ctx context.Context) error {
	if len(b.staged) == 0 {
		return nil
	}
	if err := b.repo.adapter.SetManyJSON(ctx, b.staged); err != nil {
		return fmt.Errorf("提交批次失败: %w", err)
	}
	b.staged = make(map[string]any)
	return nil
}
