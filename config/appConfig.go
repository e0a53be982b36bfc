package config

import "github.com/Xushengqwer/go-common/config"

// AppConfig 是整个服务的配置根，由 core.LoadConfig 从 yaml 加载。
type AppConfig struct {
	ZapConfig     config.ZapConfig     `mapstructure:"zapConfig" json:"zapConfig" yaml:"zapConfig"`
	GormLogConfig config.GormLogConfig `mapstructure:"gormLogConfig" json:"gormLogConfig" yaml:"gormLogConfig"`
	ServerConfig  config.ServerConfig  `mapstructure:"serverConfig" json:"serverConfig" yaml:"serverConfig"`
	TracerConfig  config.TracerConfig  `mapstructure:"tracerConfig" json:"tracerConfig" yaml:"tracerConfig"`
	StorageConfig StorageConfig        `mapstructure:"storageConfig" json:"storageConfig" yaml:"storageConfig"`
	RedisConfig   RedisConfig          `mapstructure:"redisConfig" json:"redisConfig" yaml:"redisConfig"`
	KafkaConfig   KafkaConfig          `mapstructure:"kafkaConfig" json:"kafkaConfig" yaml:"kafkaConfig"`
	AuthConfig    AuthConfig           `mapstructure:"authConfig" json:"authConfig" yaml:"authConfig"`
	HotRankConfig HotRankConfig        `mapstructure:"hotRankConfig" json:"hotRankConfig" yaml:"hotRankConfig"`
}

// AuthConfig 认证与会话相关配置
type AuthConfig struct {
	// SessionTTLHours 会话有效期（小时），<=0 时使用默认 168 小时（7 天）。
	SessionTTLHours int `mapstructure:"sessionTTLHours" json:"sessionTTLHours" yaml:"sessionTTLHours"`

	// PasswordHasher 密码摘要实现："demo"（默认，仅演示用途）或 "bcrypt"。
	// 注意：切换实现后，已有账号的摘要无法再被校验，需要重置存储或重置密码。
	PasswordHasher string `mapstructure:"passwordHasher" json:"passwordHasher" yaml:"passwordHasher"`

	// BcryptCost 仅在 PasswordHasher=bcrypt 时生效，<=0 时使用 bcrypt.DefaultCost。
	BcryptCost int `mapstructure:"bcryptCost" json:"bcryptCost" yaml:"bcryptCost"`
}
