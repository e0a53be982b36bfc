package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Xushengqwer/go-common/core"
	"go.uber.org/zap"

	appConfig "github.com/Xushengqwer/fruitmaster_service/config"
	"github.com/Xushengqwer/fruitmaster_service/dependencies"
	"github.com/Xushengqwer/fruitmaster_service/models/dto"
	"github.com/Xushengqwer/fruitmaster_service/repo/collection"
	"github.com/Xushengqwer/fruitmaster_service/repo/kvstore"
	"github.com/Xushengqwer/fruitmaster_service/security"
	"github.com/Xushengqwer/fruitmaster_service/service"
)

func main() {
	// --- 0. 解析命令行参数 ---
	var numPosts int
	var configFile, account, password string
	flag.StringVar(&configFile, "config", "config/config.development.yaml", "配置文件路径")
	flag.IntVar(&numPosts, "n", 50, "要生成的帖子数量 (默认: 50)")
	flag.StringVar(&account, "account", "user", "以该账号身份发帖")
	flag.StringVar(&password, "password", "user123", "账号密码")
	flag.Parse()

	if numPosts <= 0 {
		fmt.Println("错误: 生成的帖子数量必须大于 0")
		os.Exit(1)
	}
	absConfigFile, err := filepath.Abs(configFile)
	if err != nil {
		absConfigFile = configFile
	}

	// --- 1. 加载配置 ---
	var cfg appConfig.AppConfig
	if err := core.LoadConfig(absConfigFile, &cfg); err != nil {
		fmt.Printf("加载配置失败 (%s): %v\n", absConfigFile, err)
		os.Exit(1)
	}

	// --- 2. 初始化日志记录器 ---
	logger, loggerErr := core.NewZapLogger(cfg.ZapConfig)
	if loggerErr != nil {
		fmt.Printf("初始化 ZapLogger 失败: %v\n", loggerErr)
		os.Exit(1)
	}
	defer func() { _ = logger.Logger().Sync() }()

	// --- 3. 存储介质，与主服务使用同一份配置 ---
	rdb, redisErr := dependencies.InitRedis(&cfg.RedisConfig, logger)
	if redisErr != nil {
		logger.Warn("初始化 Redis 失败 (Seeder)，仅在 driver=redis 时受影响", zap.Error(redisErr))
	}
	medium, storageErr := dependencies.InitStorage(&cfg, rdb, logger)
	if storageErr != nil {
		logger.Fatal("初始化存储介质失败 (Seeder)", zap.Error(storageErr))
	}
	defer func() { _ = medium.Close() }()

	hasher, hasherErr := security.NewHasher(cfg.AuthConfig.PasswordHasher, cfg.AuthConfig.BcryptCost)
	if hasherErr != nil {
		logger.Fatal("初始化密码摘要失败 (Seeder)", zap.Error(hasherErr))
	}

	// --- 4. 组装 Store ---
	baseLogger := logger.Logger()
	repo := collection.NewRepository(kvstore.NewAdapter(medium, baseLogger), baseLogger)
	store := service.NewStore(service.StoreDeps{Repo: repo, Hasher: hasher, Logger: baseLogger})

	ctx := context.Background()
	if r := store.InitStore(ctx); !r.Success {
		logger.Fatal("初始化存储失败 (Seeder)", zap.String("message", r.Message))
	}

	// 设备上同一时刻只有一个会话，填充结束后登出
	if r := store.Login(ctx, &dto.LoginRequest{Account: account, Password: password}); !r.Success {
		logger.Fatal("Seeder 登录失败", zap.String("account", account), zap.String("message", r.Message))
	}
	defer store.Logout(ctx)

	actor, err := store.Principal(ctx)
	if err != nil {
		logger.Fatal("读取会话失败 (Seeder)", zap.Error(err))
	}

	// --- 5. 执行数据填充 ---
	startTime := time.Now()
	created := Seed(ctx, store, actor, baseLogger, numPosts)
	logger.Info("数据填充完成", zap.Int("created", created), zap.Duration("耗时", time.Since(startTime)))
	fmt.Printf("数据填充完成！共创建 %d 条帖子，耗时: %v\n", created, time.Since(startTime))
}
