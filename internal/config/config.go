package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type ServerConfig struct {
	Port string `yaml:"port"`
}

type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
}

type MQConfig struct {
	URL                 string `yaml:"url"`
	MaxDeliveryAttempts int    `yaml:"max_delivery_attempts"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type SMTPConfig struct {
	Host        string `yaml:"host"`
	Port        int    `yaml:"port"`
	Username    string `yaml:"username"`
	Password    string `yaml:"password"`
	FromAddress string `yaml:"from_address"`
}

type SmsGatewayConfig struct {
	BaseURL    string `yaml:"base_url"`
	AccountSID string `yaml:"account_sid"`
	AuthToken  string `yaml:"auth_token"`
	FromNumber string `yaml:"from_number"`
}

type UserDirectoryConfig struct {
	BaseURL     string `yaml:"base_url"`
	TokenIssuer string `yaml:"token_issuer"`
	PrivateKey  string `yaml:"private_key"`
}

type LocalizationConfig struct {
	DefaultLocale string `yaml:"default_locale"`
}

type Config struct {
	Server        ServerConfig        `yaml:"server"`
	DB            DBConfig            `yaml:"db"`
	MQ            MQConfig            `yaml:"mq"`
	Redis         RedisConfig         `yaml:"redis"`
	SMTP          SMTPConfig          `yaml:"smtp"`
	SmsGateway    SmsGatewayConfig    `yaml:"sms_gateway"`
	UserDirectory UserDirectoryConfig `yaml:"user_directory"`
	Localization  LocalizationConfig  `yaml:"localization"`
}

// Load reads the YAML config file (CONFIG_PATH, default config/base.yaml)
// and applies environment variable overrides on top.
func Load() (*Config, error) {
	path := getEnv("CONFIG_PATH", "config/base.yaml")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	overrideFromEnv(&cfg)

	if cfg.MQ.MaxDeliveryAttempts <= 0 {
		cfg.MQ.MaxDeliveryAttempts = 5
	}
	if cfg.Localization.DefaultLocale == "" {
		cfg.Localization.DefaultLocale = "en"
	}

	return &cfg, nil
}

func overrideFromEnv(cfg *Config) {
	if port := os.Getenv("SERVER_PORT"); port != "" {
		cfg.Server.Port = port
	}
	if host := os.Getenv("DB_HOST"); host != "" {
		cfg.DB.Host = host
	}
	if port := os.Getenv("DB_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			cfg.DB.Port = p
		}
	}
	if user := os.Getenv("DB_USER"); user != "" {
		cfg.DB.User = user
	}
	if password := os.Getenv("DB_PASSWORD"); password != "" {
		cfg.DB.Password = password
	}
	if name := os.Getenv("DB_NAME"); name != "" {
		cfg.DB.Name = name
	}
	if url := os.Getenv("MQ_URL"); url != "" {
		cfg.MQ.URL = url
	}
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		cfg.Redis.Addr = addr
	}
	if password := os.Getenv("REDIS_PASSWORD"); password != "" {
		cfg.Redis.Password = password
	}
	if key := os.Getenv("USER_DIRECTORY_PRIVATE_KEY"); key != "" {
		cfg.UserDirectory.PrivateKey = key
	}
	if url := os.Getenv("USER_DIRECTORY_BASE_URL"); url != "" {
		cfg.UserDirectory.BaseURL = url
	}
	if password := os.Getenv("SMTP_PASSWORD"); password != "" {
		cfg.SMTP.Password = password
	}
	if token := os.Getenv("SMS_GATEWAY_AUTH_TOKEN"); token != "" {
		cfg.SmsGateway.AuthToken = token
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
