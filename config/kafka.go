package config

// KafkaConfig 审核事件的 Kafka 配置。Brokers 为空时整个消息链路关闭（默认）。
type KafkaConfig struct {
	Brokers         []string `mapstructure:"brokers" json:"brokers" yaml:"brokers"`
	Topics          Topics   `mapstructure:"topics" json:"topics" yaml:"topics"`
	ConsumerGroupID string   `mapstructure:"consumer_group_id" json:"consumer_group_id" yaml:"consumer_group_id"`
}

type Topics struct {
	PostPendingAudit  string `mapstructure:"postPendingAudit" json:"postPendingAudit" yaml:"postPendingAudit"`    //  提交审核主题
	PostAuditApproved string `mapstructure:"postAuditApproved" json:"postAuditApproved" yaml:"postAuditApproved"` //  审核通过主题
	PostAuditRejected string `mapstructure:"postAuditRejected" json:"postAuditRejected" yaml:"postAuditRejected"` //  审核拒绝主题
	PostDeleted       string `mapstructure:"postDeleted" json:"postDeleted" yaml:"postDeleted"`                   //  帖子删除主题
	ReportFiled       string `mapstructure:"reportFiled" json:"reportFiled" yaml:"reportFiled"`                   //  新举报主题
}
