package config

import (
	"log"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

type MainConfig struct {
	AppName    string `toml:"appName"`
	Version    string `toml:"version"`
	Host       string `toml:"host"`
	Port       int    `toml:"port"`
	SslEnabled bool   `toml:"sslEnabled"`
}

type LogConfig struct {
	LogPath string `toml:"logPath"`
}

type AIChatModelConfig struct {
	Provider        string `toml:"provider"`
	APIKey          string `toml:"apiKey"`
	BaseURL         string `toml:"baseURL"`
	Model           string `toml:"model"`
	TimeoutSeconds  int    `toml:"timeoutSeconds"`
	ByAzure         bool   `toml:"byAzure"`
	AzureAPIVersion string `toml:"azureApiVersion"`
}

type AIConfig struct {
	ChatModel AIChatModelConfig `toml:"chatModel"`
}

type SessionConfig struct {
	// Store 取值 memory / redis
	Store          string `toml:"store"`
	MaxHistory     int    `toml:"maxHistory"`
	TimeoutMinutes int    `toml:"timeoutMinutes"`
}

type ContentConfig struct {
	DBPath string `toml:"dbPath"`
}

type UrgentConfig struct {
	LogDir string `toml:"logDir"`
}

type KafkaConfig struct {
	Brokers    []string `toml:"brokers"`
	ClientID   string   `toml:"clientID"`
	AlertTopic string   `toml:"alertTopic"`
}

type RedisConfig struct {
	Host         string `toml:"host"`
	Port         int    `toml:"port"`
	Password     string `toml:"password"`
	DB           int    `toml:"db"`
	PoolSize     int    `toml:"poolSize"`
	MinIdleConns int    `toml:"minIdleConns"`
}

type JwtConfig struct {
	Key         string `toml:"key"`
	ExpireHours int    `toml:"expireHours"`
	Issuer      string `toml:"issuer"`
}

type AdminConfig struct {
	Username string `toml:"username"`
	Password string `toml:"password"`
}

type Config struct {
	MainConfig    `toml:"mainConfig"`
	LogConfig     `toml:"logConfig"`
	AIConfig      `toml:"aiConfig"`
	SessionConfig `toml:"sessionConfig"`
	ContentConfig `toml:"contentConfig"`
	UrgentConfig  `toml:"urgentConfig"`
	KafkaConfig   `toml:"kafkaConfig"`
	RedisConfig   `toml:"redisConfig"`
	JwtConfig     `toml:"jwtConfig"`
	AdminConfig   `toml:"adminConfig"`
}

var config *Config

func LoadConfig() error {
	if config == nil {
		config = new(Config)
	}
	// 配置在包 init 阶段就会被读取，.env 必须在这里加载才来得及生效
	_ = godotenv.Load()
	configPath := os.Getenv("MINDLINK_CONFIG")
	if configPath == "" {
		configPath = "configs/config_local.toml"
	}
	if _, err := toml.DecodeFile(configPath, config); err != nil {
		log.Printf("加载配置文件失败: %v, 使用默认设置", err)
		config.applyDefaults()
		return err
	}
	config.applyDefaults()
	return nil
}

func (c *Config) applyDefaults() {
	if c.MainConfig.AppName == "" {
		c.MainConfig.AppName = "MindLink"
	}
	if c.MainConfig.Version == "" {
		c.MainConfig.Version = "3.2"
	}
	if c.MainConfig.Port == 0 {
		c.MainConfig.Port = 8000
	}
	if c.SessionConfig.MaxHistory <= 0 {
		c.SessionConfig.MaxHistory = 20
	}
	if c.SessionConfig.TimeoutMinutes <= 0 {
		c.SessionConfig.TimeoutMinutes = 30
	}
	if c.SessionConfig.Store == "" {
		c.SessionConfig.Store = "memory"
	}
	if c.ContentConfig.DBPath == "" {
		c.ContentConfig.DBPath = "data/content.db"
	}
	if c.UrgentConfig.LogDir == "" {
		c.UrgentConfig.LogDir = "logs"
	}
}

func GetConfig() *Config {
	if config == nil {
		config = new(Config)
		_ = LoadConfig()
	}
	return config
}
