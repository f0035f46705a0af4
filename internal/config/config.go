package config

import (
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

const defaultConfigPath = "configs/config_local.toml"

type MainConfig struct {
	AppName string `toml:"appName"`
	Host    string `toml:"host"`
	Port    int    `toml:"port"`

	// 开启后由 unrolled/secure 将 http 重定向到 https
	SSLRedirect bool `toml:"sslRedirect"`

	// 为空时允许任意来源
	AllowOrigins []string `toml:"allowOrigins"`
}

type MysqlConfig struct {
	Host         string `toml:"host"`
	Port         int    `toml:"port"`
	User         string `toml:"user"`
	Password     string `toml:"password"`
	DatabaseName string `toml:"databaseName"`
}

type LogConfig struct {
	LogPath    string `toml:"logPath"`
	Level      string `toml:"level"`
	MaxSizeMB  int    `toml:"maxSizeMB"`
	MaxBackups int    `toml:"maxBackups"`
	MaxAgeDays int    `toml:"maxAgeDays"`
}

type JwtConfig struct {
	Key         string `toml:"key"`
	ExpireHours int    `toml:"expireHours"`
	Issuer      string `toml:"issuer"`
}

type RedisConfig struct {
	Host         string `toml:"host"`
	Port         int    `toml:"port"`
	Password     string `toml:"password"`
	DB           int    `toml:"db"`
	PoolSize     int    `toml:"poolSize"`
	MinIdleConns int    `toml:"minIdleConns"`
}

type KafkaConfig struct {
	Brokers           []string `toml:"brokers"`
	ClientID          string   `toml:"clientID"`
	DeviceEventTopic  string   `toml:"deviceEventTopic"`
	NotificationTopic string   `toml:"notificationTopic"`
	ConsumerGroupID   string   `toml:"consumerGroupID"`
	Partitions        int32    `toml:"partitions"`
	Replication       int16    `toml:"replication"`
}

type SMTPConfig struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	Username string `toml:"username"`
	Password string `toml:"password"`
	From     string `toml:"from"`
	UseSSL   bool   `toml:"useSSL"`
}

// SMSConfig 号码归一化参数
type SMSConfig struct {
	DefaultCountryCode string   `toml:"defaultCountryCode"`
	RegionCountryCode  string   `toml:"regionCountryCode"`
	MobilePrefixes     []string `toml:"mobilePrefixes"`
	ShopName           string   `toml:"shopName"`
}

type QueueConfig struct {
	IntervalSeconds    int `toml:"intervalSeconds"`
	BatchSize          int `toml:"batchSize"`
	DefaultMaxAttempts int `toml:"defaultMaxAttempts"`
}

type NotificationConfig struct {
	CleanupCron          string `toml:"cleanupCron"`
	UnreadCacheTTLSecond int    `toml:"unreadCacheTTLSecond"`
	SeedCatalog          bool   `toml:"seedCatalog"`
}

type Config struct {
	MainConfig         `toml:"mainConfig"`
	MysqlConfig        `toml:"mysqlConfig"`
	LogConfig          `toml:"logConfig"`
	JwtConfig          `toml:"jwtConfig"`
	RedisConfig        `toml:"redisConfig"`
	KafkaConfig        `toml:"kafkaConfig"`
	SMTPConfig         `toml:"smtpConfig"`
	SMSConfig          `toml:"smsConfig"`
	QueueConfig        `toml:"queueConfig"`
	NotificationConfig `toml:"notificationConfig"`
}

// Load 读取 toml 配置；path 为空时依次使用 REPAIRDESK_CONFIG 和默认路径
func Load(path string) (*Config, error) {
	if strings.TrimSpace(path) == "" {
		path = os.Getenv("REPAIRDESK_CONFIG")
	}
	if strings.TrimSpace(path) == "" {
		path = defaultConfigPath
	}
	conf := new(Config)
	if _, err := toml.DecodeFile(path, conf); err != nil {
		return nil, err
	}
	conf.applyDefaults()
	return conf, nil
}

// Default 返回仅包含默认值的配置（测试与无配置文件启动时使用）
func Default() *Config {
	conf := new(Config)
	conf.applyDefaults()
	return conf
}

func (c *Config) applyDefaults() {
	if c.AppName == "" {
		c.AppName = "RepairDesk"
	}
	if c.MainConfig.Port == 0 {
		c.MainConfig.Port = 8000
	}
	if c.MysqlConfig.DatabaseName == "" {
		c.MysqlConfig.DatabaseName = c.AppName
	}
	if c.QueueConfig.IntervalSeconds <= 0 {
		c.QueueConfig.IntervalSeconds = 30
	}
	if c.QueueConfig.BatchSize <= 0 {
		c.QueueConfig.BatchSize = 10
	}
	if c.QueueConfig.DefaultMaxAttempts <= 0 {
		c.QueueConfig.DefaultMaxAttempts = 3
	}
	if c.SMSConfig.DefaultCountryCode == "" {
		c.SMSConfig.DefaultCountryCode = "1"
	}
	if c.SMSConfig.RegionCountryCode == "" {
		c.SMSConfig.RegionCountryCode = "251"
	}
	if len(c.SMSConfig.MobilePrefixes) == 0 {
		c.SMSConfig.MobilePrefixes = []string{"9", "7"}
	}
	if c.SMSConfig.ShopName == "" {
		c.SMSConfig.ShopName = c.AppName
	}
	if c.NotificationConfig.CleanupCron == "" {
		c.NotificationConfig.CleanupCron = "@every 1h"
	}
	if c.NotificationConfig.UnreadCacheTTLSecond <= 0 {
		c.NotificationConfig.UnreadCacheTTLSecond = 60
	}
	if c.KafkaConfig.DeviceEventTopic == "" {
		c.KafkaConfig.DeviceEventTopic = "device-events"
	}
	if c.KafkaConfig.NotificationTopic == "" {
		c.KafkaConfig.NotificationTopic = "notification-events"
	}
	if c.KafkaConfig.ConsumerGroupID == "" {
		c.KafkaConfig.ConsumerGroupID = c.AppName + "-notifier"
	}
	if c.SMTPConfig.Port == 0 {
		c.SMTPConfig.Port = 587
	}
	if c.JwtConfig.ExpireHours <= 0 {
		c.JwtConfig.ExpireHours = 24
	}
	if c.JwtConfig.Issuer == "" {
		c.JwtConfig.Issuer = c.AppName
	}
}
