package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	sharedCore "github.com/Xushengqwer/go-common/core"
	sharedTracing "github.com/Xushengqwer/go-common/core/tracing"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	appConfig "github.com/Xushengqwer/fruitmaster_service/config"
	"github.com/Xushengqwer/fruitmaster_service/constant"
	"github.com/Xushengqwer/fruitmaster_service/controller"
	"github.com/Xushengqwer/fruitmaster_service/dependencies"
	"github.com/Xushengqwer/fruitmaster_service/mq/consumer"
	"github.com/Xushengqwer/fruitmaster_service/mq/producer"
	"github.com/Xushengqwer/fruitmaster_service/repo/collection"
	"github.com/Xushengqwer/fruitmaster_service/repo/kvstore"
	redisrepo "github.com/Xushengqwer/fruitmaster_service/repo/redis"
	"github.com/Xushengqwer/fruitmaster_service/router"
	"github.com/Xushengqwer/fruitmaster_service/security"
	"github.com/Xushengqwer/fruitmaster_service/service"
	"github.com/Xushengqwer/fruitmaster_service/tasks"
)

func main() {
	var configFile string
	flag.StringVar(&configFile, "config", "config/config.development.yaml", "Path to configuration file")
	flag.Parse()

	// .env 可选，存在时先载入环境变量
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("WARN: 加载 .env 失败: %v", err)
	}

	// 1. 加载配置
	var cfg appConfig.AppConfig
	if err := sharedCore.LoadConfig(configFile, &cfg); err != nil {
		log.Fatalf("FATAL: 加载配置失败 (%s): %v", configFile, err)
	}

	// 2. 初始化 Logger
	logger, loggerErr := sharedCore.NewZapLogger(cfg.ZapConfig)
	if loggerErr != nil {
		log.Fatalf("FATAL: 初始化 ZapLogger 失败: %v", loggerErr)
	}
	defer func() {
		if err := logger.Logger().Sync(); err != nil {
			log.Printf("WARN: ZapLogger Sync 失败: %v\n", err)
		}
	}()
	baseLogger := logger.Logger()
	logger.Info("Logger 初始化成功")

	// 3. TracerProvider
	if cfg.TracerConfig.Enabled {
		tracerShutdown, err := sharedTracing.InitTracerProvider(constant.ServiceName, constant.ServiceVersion, cfg.TracerConfig)
		if err != nil {
			logger.Fatal("初始化 TracerProvider 失败", zap.Error(err))
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tracerShutdown(ctx); err != nil {
				logger.Error("关闭 TracerProvider 失败", zap.Error(err))
			}
		}()
		logger.Info("分布式追踪已初始化")
	} else {
		logger.Info("分布式追踪已禁用")
	}

	// --- 4. 核心依赖 ---
	// 4.1 Redis（可选）：热榜快照，以及 driver=redis 时的存储介质
	rdb, redisErr := dependencies.InitRedis(&cfg.RedisConfig, logger)
	if redisErr != nil {
		logger.Fatal("初始化 Redis 失败", zap.Error(redisErr))
	}
	if rdb != nil {
		defer func() {
			if err := rdb.Close(); err != nil {
				logger.Error("关闭 Redis 客户端失败", zap.Error(err))
			}
		}()
	}

	// 4.2 存储介质
	medium, storageErr := dependencies.InitStorage(&cfg, rdb, logger)
	if storageErr != nil {
		logger.Fatal("初始化存储介质失败", zap.Error(storageErr))
	}
	defer func() {
		if err := medium.Close(); err != nil {
			logger.Error("关闭存储介质失败", zap.Error(err))
		}
	}()

	// 4.3 密码摘要
	hasher, hasherErr := security.NewHasher(cfg.AuthConfig.PasswordHasher, cfg.AuthConfig.BcryptCost)
	if hasherErr != nil {
		logger.Fatal("初始化密码摘要失败", zap.Error(hasherErr))
	}

	// 4.4 Kafka 生产者（可选）
	var publisher service.EventPublisher = producer.NopPublisher{}
	if len(cfg.KafkaConfig.Brokers) > 0 {
		kafkaProducer := producer.NewKafkaProducer(cfg.KafkaConfig, baseLogger)
		defer func() {
			if err := kafkaProducer.Close(); err != nil {
				logger.Error("关闭 Kafka 生产者失败", zap.Error(err))
			}
		}()
		publisher = kafkaProducer
		logger.Info("Kafka 生产者已初始化")
	} else {
		logger.Info("未配置 Kafka brokers，事件不会对外发布")
	}

	var hotRank redisrepo.HotRankCache
	if rdb != nil {
		hotRank = redisrepo.NewRedisHotRankCache(rdb, baseLogger)
	}

	// --- 5. 仓库层与服务层 ---
	repo := collection.NewRepository(kvstore.NewAdapter(medium, baseLogger), baseLogger)
	sessionTTL := time.Duration(cfg.AuthConfig.SessionTTLHours) * time.Hour
	store := service.NewStore(service.StoreDeps{
		Repo:       repo,
		Hasher:     hasher,
		Publisher:  publisher,
		HotRank:    hotRank,
		SessionTTL: sessionTTL,
		Logger:     baseLogger,
	})

	initCtx, initCancel := context.WithTimeout(context.Background(), 30*time.Second)
	initResult := store.InitStore(initCtx)
	initCancel()
	if !initResult.Success {
		logger.Fatal("初始化存储失败", zap.String("message", initResult.Message), zap.Error(initResult.Err()))
	}
	logger.Info("存储初始化完成",
		zap.Int("fromVersion", initResult.Data.FromVersion),
		zap.Int("toVersion", initResult.Data.ToVersion),
		zap.Strings("migrated", initResult.Data.Migrated),
		zap.Strings("seeded", initResult.Data.Seeded))

	// --- 6. 控制器层 ---
	guard := controller.NewGuard(store, baseLogger)
	authController := controller.NewAuthController(store, guard)
	postController := controller.NewPostController(store, guard)
	adminController := controller.NewAdminController(store, guard)
	contentController := controller.NewContentController(store, guard)

	// --- 7. Kafka 消费者：外部审核结论 ---
	var consumers []*consumer.Consumer
	var consumerWg sync.WaitGroup
	consumerCtx, consumerCancel := context.WithCancel(context.Background())
	defer consumerCancel()

	if len(cfg.KafkaConfig.Brokers) > 0 {
		groupID := cfg.KafkaConfig.ConsumerGroupID
		if groupID == "" {
			groupID = "fruitmaster_service_group"
		}
		verdictTopics := []struct {
			topic   string
			handler consumer.MessageHandler
		}{
			{cfg.KafkaConfig.Topics.PostAuditApproved, consumer.NewApprovedAuditHandler(store.Moderation(), baseLogger)},
			{cfg.KafkaConfig.Topics.PostAuditRejected, consumer.NewRejectedAuditHandler(store.Moderation(), baseLogger)},
		}
		for _, vt := range verdictTopics {
			if vt.topic == "" {
				continue
			}
			c, err := consumer.NewConsumer(&cfg.KafkaConfig, groupID, vt.topic, vt.handler, baseLogger)
			if err != nil {
				logger.Fatal("初始化 Kafka 消费者失败", zap.String("topic", vt.topic), zap.Error(err))
			}
			consumers = append(consumers, c)
		}
		for _, c := range consumers {
			consumerWg.Add(1)
			go func(cons *consumer.Consumer) {
				defer consumerWg.Done()
				cons.Start(consumerCtx)
			}(c)
		}
		logger.Info(fmt.Sprintf("已启动 %d 个 Kafka 消费者", len(consumers)))
	}

	// --- 8. 定时任务 ---
	cacheTask, taskErr := tasks.NewHotPostsCacheTask(store.HotPosts(), cfg.HotRankConfig, baseLogger)
	if taskErr != nil {
		logger.Fatal("初始化热榜快照任务失败", zap.Error(taskErr))
	}

	// --- 9. HTTP 界面桥，只监听本机回环地址 ---
	ginRouter := router.SetupRouter(logger, &cfg, authController, postController, adminController, contentController)
	serverAddr := fmt.Sprintf("127.0.0.1:%s", cfg.ServerConfig.Port)
	httpServer := &http.Server{
		Addr:    serverAddr,
		Handler: ginRouter,
	}
	go func() {
		logger.Info("HTTP 服务器开始监听", zap.String("address", serverAddr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP 服务器启动失败", zap.Error(err))
		}
	}()

	// --- 10. 优雅关停 ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	receivedSignal := <-quit
	logger.Info("收到关停信号，开始优雅退出...", zap.String("signal", receivedSignal.String()))

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("关闭 HTTP 服务器失败", zap.Error(err))
	}

	consumerCancel()
	consumerWg.Wait()
	for _, c := range consumers {
		if err := c.Close(); err != nil {
			logger.Error("关闭 Kafka 消费者失败", zap.Error(err))
		}
	}

	select {
	case <-cacheTask.Stop().Done():
		logger.Info("热榜快照任务已停止")
	case <-shutdownCtx.Done():
		logger.Error("等待定时任务停止超时", zap.Error(shutdownCtx.Err()))
	}

	logger.Info("服务已成功关闭")
}
