package kvstore

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// KVEntry 是 KV 在关系型介质 (sqlite / mysql) 中的行结构。
// - 表名: kv_entries
// - 一个集合整体序列化为一行，因此每次写入都以"整个集合"为原子粒度。
type KVEntry struct {
	// 列名避开 mysql 保留字 key
	Key string `gorm:"column:kv_key;primaryKey;size:191"`
	// 集合 JSON，可能较大
	Value     string    `gorm:"column:kv_value;type:longtext;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (KVEntry) TableName() string {
	return "kv_entries"
}

// gormStore 是 Store 的 GORM 实现，sqlite 与 mysql 共用。
type gormStore struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewGormStore 创建 GORM 介质，并确保 kv_entries 表存在。
func NewGormStore(db *gorm.DB, logger *zap.Logger) (Store, error) {
	if err := db.AutoMigrate(&KVEntry{}); err != nil {
		logger.Error("kv_entries 表自动迁移失败", zap.Error(err))
		return nil, fmt.Errorf("kv_entries 表自动迁移失败: %w", err)
	}
	return &gormStore{db: db, logger: logger}, nil
}

func (s *gormStore) Get(ctx context.Context, key string) ([]byte, error) {
	var entry KVEntry
	err := s.db.WithContext(ctx).Where("kv_key = ?", key).First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrKeyNotFound
		}
		return nil, err
	}
	return []byte(entry.Value), nil
}

func (s *gormStore) Set(ctx context.Context, key string, value []byte) error {
	return upsertEntry(s.db.WithContext(ctx), key, value)
}

// SetMany 在单个事务里写入全部 Key。按 Key 排序写入，避免并发事务间的锁顺序问题。
func (s *gormStore) SetMany(ctx context.Context, entries map[string][]byte) error {
	keys := make([]string, 0, len(entries))
	for key := range entries {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, key := range keys {
			if err := upsertEntry(tx, key, entries[key]); err != nil {
				return fmt.Errorf("事务写入 %s 失败: %w", key, err)
			}
		}
		return nil
	})
}

func (s *gormStore) Delete(ctx context.Context, key string) error {
	return s.db.WithContext(ctx).Where("kv_key = ?", key).Delete(&KVEntry{}).Error
}

func (s *gormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func upsertEntry(db *gorm.DB, key string, value []byte) error {
	entry := KVEntry{Key: key, Value: string(value), UpdatedAt: time.Now()}
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "kv_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"kv_value", "updated_at"}),
	}).Create(&entry).Error
}
