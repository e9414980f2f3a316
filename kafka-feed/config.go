package kafkafeed

import (
	"os"

	"github.com/Shopify/sarama"
	"github.com/rs/zerolog/log"
)

// Config 分区消费配置
type Config struct {
	Brokers     []string `json:"brokers"`
	Topic       string   `json:"topic"`
	Partition   int32    `json:"partition"`
	Offset      int64    `json:"offset"`
	FromOldest  bool     `json:"from_oldest"`
	ClientID    string   `json:"client_id"`
	MaxMessages int      `json:"max_messages"` // 0 means unlimited
}

// NewConfig 根据cfg生成sarama配置.
func NewConfig(cfg *Config) *sarama.Config {
	conf := sarama.NewConfig()
	if cfg.FromOldest {
		conf.Consumer.Offsets.Initial = sarama.OffsetOldest
	}
	conf.Consumer.Return.Errors = true
	if cfg.ClientID != "" {
		conf.ClientID = cfg.ClientID
	}
	GetKafkaAccessEnv(conf)
	return conf
}

// GetKafkaAccessEnv 从环境变量KAFKA_USERNAME/KAFKA_PASSWORD读取SASL账号.
func GetKafkaAccessEnv(cfg *sarama.Config) {
	usr := os.Getenv("KAFKA_USERNAME")
	pwd := os.Getenv("KAFKA_PASSWORD")
	if usr == "" || pwd == "" {
		log.Warn().Msg("access kafka without SASL setting")
		return
	}
	cfg.Net.SASL.Enable = true
	cfg.Net.SASL.Mechanism = sarama.SASLTypePlaintext
	cfg.Net.SASL.User = usr
	cfg.Net.SASL.Password = pwd
	cfg.Net.SASL.Version = sarama.SASLHandshakeV1
}

// startOffset resolves a negative Offset to the oldest or newest message.
func (cfg *Config) startOffset() int64 {
	if cfg.Offset >= 0 {
		return cfg.Offset
	}
	if cfg.FromOldest {
		return sarama.OffsetOldest
	}
	return sarama.OffsetNewest
}
