package config

// RedisConfig Redis 连接配置。Addr 为空表示不使用 Redis。
type RedisConfig struct {
	Addr     string `mapstructure:"addr" json:"addr" yaml:"addr"`
	Password string `mapstructure:"password" json:"-" yaml:"password"`
	DB       int    `mapstructure:"db" json:"db" yaml:"db"`
	PoolSize int    `mapstructure:"poolSize" json:"poolSize" yaml:"poolSize"`
}

// HotRankConfig 热榜快照任务配置
type HotRankConfig struct {
	// CronSpec 刷新周期，为空时使用 constant.HotPostsCacheCronSpec。
	CronSpec string `mapstructure:"cronSpec" json:"cronSpec" yaml:"cronSpec"`

	// Size 快照保留的帖子数量，<=0 时使用 constant.HotPostsCacheSize。
	Size int `mapstructure:"size" json:"size" yaml:"size"`
}
