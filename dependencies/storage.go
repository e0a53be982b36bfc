package dependencies

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/Xushengqwer/go-common/core"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	appConfig "github.com/Xushengqwer/fruitmaster_service/config"
	"github.com/Xushengqwer/fruitmaster_service/repo/kvstore"
)

// 默认的设备端数据库文件
const defaultSQLitePath = "data/fruitmaster.db"

// InitStorage 按 storageConfig.driver 创建 KV 存储介质。
// - sqlite（默认）/ mysql 通过 GORM 落在 kv_entries 表。
// - redis 需要传入已连接的客户端。
// - memory 只用于本地调试，进程退出即丢失。
func InitStorage(cfg *appConfig.AppConfig, rdb *redis.Client, logger *core.ZapLogger) (kvstore.Store, error) {
	storageCfg := cfg.StorageConfig
	driver := storageCfg.Driver
	if driver == "" {
		driver = appConfig.StorageDriverSQLite
	}
	logger.Info("初始化存储介质", zap.String("driver", driver))

	gormConfig := &gorm.Config{Logger: core.NewGormLogger(logger, cfg.GormLogConfig)}

	switch driver {
	case appConfig.StorageDriverSQLite:
		path := storageCfg.SQLitePath
		if path == "" {
			path = defaultSQLitePath
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("创建 sqlite 目录失败: %w", err)
		}
		db, err := gorm.Open(sqlite.Open(path), gormConfig)
		if err != nil {
			logger.Error("打开 sqlite 数据库失败", zap.String("path", path), zap.Error(err))
			return nil, fmt.Errorf("打开 sqlite 数据库失败: %w", err)
		}
		// 单文件数据库只保留一个连接，避免 database is locked
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.SetMaxOpenConns(1)
		}
		return kvstore.NewGormStore(db, logger.Logger())

	case appConfig.StorageDriverMySQL:
		db, err := openMySQL(storageCfg.MySQL, gormConfig, logger)
		if err != nil {
			return nil, err
		}
		return kvstore.NewGormStore(db, logger.Logger())

	case appConfig.StorageDriverRedis:
		if rdb == nil {
			return nil, fmt.Errorf("存储介质为 redis，但 redisConfig.addr 未配置")
		}
		return kvstore.NewRedisStore(rdb, storageCfg.KeyPrefix, logger.Logger()), nil

	case appConfig.StorageDriverMemory:
		logger.Warn("使用内存存储介质，进程退出后数据将丢失")
		return kvstore.NewMemoryStore(), nil

	default:
		return nil, fmt.Errorf("未知的存储介质: %q", driver)
	}
}
