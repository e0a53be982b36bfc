package config

// 存储介质类型
const (
	StorageDriverSQLite = "sqlite"
	StorageDriverMySQL  = "mysql"
	StorageDriverRedis  = "redis"
	StorageDriverMemory = "memory"
)

// StorageConfig 决定 KV 存储适配器落在哪种介质上。
// 设备端默认 sqlite 单文件；mysql / redis 供开发联调或多实例演示使用；memory 仅用于测试。
type StorageConfig struct {
	Driver     string      `mapstructure:"driver" json:"driver" yaml:"driver"`
	SQLitePath string      `mapstructure:"sqlitePath" json:"sqlitePath" yaml:"sqlitePath"`
	MySQL      MySQLConfig `mapstructure:"mysql" json:"mysql" yaml:"mysql"`
	// KeyPrefix 仅 redis 介质使用，为空时使用 constant.KVRedisPrefix。
	KeyPrefix string `mapstructure:"keyPrefix" json:"keyPrefix" yaml:"keyPrefix"`
}

// SourceConfig 代表一个数据库源（主库或从库）的配置
type SourceConfig struct {
	DSN string `mapstructure:"dsn" json:"dsn" yaml:"dsn"` // 直接使用 DSN 字符串
	// 保留独立的连接池设置，允许覆盖共享设置 (可选)
	MaxIdleConns    *int `mapstructure:"max_idle_conns,omitempty" json:"max_idle_conns,omitempty" yaml:"max_idle_conns,omitempty"`
	MaxOpenConns    *int `mapstructure:"max_open_conns,omitempty" json:"max_open_conns,omitempty" yaml:"max_open_conns,omitempty"`
	ConnMaxLifetime *int `mapstructure:"conn_max_lifetime,omitempty" json:"conn_max_lifetime,omitempty" yaml:"conn_max_lifetime,omitempty"` // 秒
}

// MySQLConfig 包含主库和从库的配置 (使用 DSN)
type MySQLConfig struct {
	Write SourceConfig   `mapstructure:"write" json:"write" yaml:"write"` // 主库配置
	Read  []SourceConfig `mapstructure:"read" json:"read" yaml:"read"`    // 从库配置列表 (可以为空，表示不启用读写分离)

	// 共享/默认连接池设置 (如果 Write 中未指定，则使用这些值)
	SharedMaxIdleConns    int `mapstructure:"max_idle_conns" json:"max_idle_conns" yaml:"max_idle_conns"`
	SharedMaxOpenConns    int `mapstructure:"max_open_conns" json:"max_open_conns" yaml:"max_open_conns"`
	SharedConnMaxLifetime int `mapstructure:"conn_max_lifetime" json:"conn_max_lifetime" yaml:"conn_max_lifetime"` // 秒
}
