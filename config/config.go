package config

import (
	"errors"
	"log"
	"strings"
	"sync"

	"github.com/spf13/viper"
)

// Config holds all application configuration, loaded once at boot.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Log      LogConfig      `mapstructure:"log"`
	Upload   UploadConfig   `mapstructure:"upload"`
}

type ServerConfig struct {
	Port               string   `mapstructure:"port"`
	Mode               string   `mapstructure:"mode"` // gin mode: debug|test|release
	AllowedOrigins     []string `mapstructure:"allowed_origins"`
	RateLimitPerMinute int      `mapstructure:"rate_limit_per_minute"`
}

type DatabaseConfig struct {
	URI      string `mapstructure:"uri"` // full DSN; overrides the parts below
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type JWTConfig struct {
	Secret      string `mapstructure:"secret"`
	ExpireHours int    `mapstructure:"expire_hours"`
}

type LogConfig struct {
	Level      string `mapstructure:"level"`
	Path       string `mapstructure:"path"`
	AccessPath string `mapstructure:"access_path"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

type UploadConfig struct {
	Dir       string `mapstructure:"dir"`
	MaxSizeMB int    `mapstructure:"max_size_mb"`
}

var (
	cfg  Config
	once sync.Once
)

// Load reads config/config.yaml (when present), applies defaults, and lets
// DEVBOARD_* environment variables override any key. It panics on an invalid
// configuration since nothing can run without one.
func Load() Config {
	once.Do(func() {
		v := viper.New()
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("config")
		v.AddConfigPath(".")

		setDefaults(v)

		v.SetEnvPrefix("DEVBOARD")
		v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		v.AutomaticEnv()

		if err := v.ReadInConfig(); err != nil {
			var nf viper.ConfigFileNotFoundError
			if !errors.As(err, &nf) {
				log.Fatalf("config: read failed: %v", err)
			}
		}
		if err := v.Unmarshal(&cfg); err != nil {
			log.Fatalf("config: unmarshal failed: %v", err)
		}
		if err := cfg.validate(); err != nil {
			log.Fatalf("config: %v", err)
		}
	})
	return cfg
}

// Get returns the loaded configuration.
func Get() Config {
	return Load()
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("server.rate_limit_per_minute", 60)

	v.SetDefault("database.host", "127.0.0.1")
	v.SetDefault("database.port", "3306")
	v.SetDefault("database.user", "root")
	v.SetDefault("database.name", "devboard")

	v.SetDefault("redis.addr", "127.0.0.1:6379")
	v.SetDefault("redis.db", 0)

	v.SetDefault("jwt.expire_hours", 72)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.path", "logs/devboard.log")
	v.SetDefault("log.access_path", "logs/access.log")
	v.SetDefault("log.max_size_mb", 100)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age_days", 7)
	v.SetDefault("log.compress", false)

	v.SetDefault("upload.dir", "static/uploads")
	v.SetDefault("upload.max_size_mb", 10)
}

func (c *Config) validate() error {
	if c.JWT.Secret == "" {
		return errors.New("jwt.secret must be set (DEVBOARD_JWT_SECRET)")
	}
	if c.Database.Name == "" && c.Database.URI == "" {
		return errors.New("database.name or database.uri must be set")
	}
	return nil
}
