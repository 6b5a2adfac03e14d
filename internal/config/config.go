package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds all configuration for the service
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	Auth       AuthConfig
	Live       LiveConfig
	Telemetry  TelemetryConfig
	MQTT       MQTTConfig
	Dashboard  DashboardConfig
	Retention  RetentionConfig
	Seed       SeedConfig
	Monitoring MonitoringConfig
}

type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	Host            string        `mapstructure:"host"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	MaxUploadSize   int64         `mapstructure:"max_upload_size"`
}

type DatabaseConfig struct {
	// Driver is either "postgres" or "sqlite".
	Driver   string         `mapstructure:"driver"`
	Postgres PostgresConfig `mapstructure:"postgres"`
	SQLite   SQLiteConfig   `mapstructure:"sqlite"`
}

type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

type SQLiteConfig struct {
	Path string `mapstructure:"path"`
}

type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type AuthConfig struct {
	JWTSecret     string        `mapstructure:"jwt_secret"`
	TokenTTL      time.Duration `mapstructure:"token_ttl"`
	AdminEmail    string        `mapstructure:"admin_email"`
	AdminPassword string        `mapstructure:"admin_password"`
	AdminName     string        `mapstructure:"admin_name"`
}

type LiveConfig struct {
	HeartbeatInterval time.Duration `mapstructure:"heartbeat_interval"`
	SendBuffer        int           `mapstructure:"send_buffer"`
	WriteTimeout      time.Duration `mapstructure:"write_timeout"`
}

type TelemetryConfig struct {
	RejectUnknownRobots bool `mapstructure:"reject_unknown_robots"`
}

type MQTTConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Broker   string `mapstructure:"broker"`
	ClientID string `mapstructure:"client_id"`
	Topic    string `mapstructure:"topic"`
	QoS      byte   `mapstructure:"qos"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

type DashboardConfig struct {
	RecentScans int           `mapstructure:"recent_scans"`
	CacheTTL    time.Duration `mapstructure:"cache_ttl"`
}

type RetentionConfig struct {
	ScanMaxAge    time.Duration `mapstructure:"scan_max_age"`
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
}

type SeedConfig struct {
	DemoData bool `mapstructure:"demo_data"`
}

type MonitoringConfig struct {
	LogLevel string `mapstructure:"log_level"`
}

// Flags registers the command line flags understood by Load.
func Flags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("warehouse-hub", pflag.ContinueOnError)
	fs.String("config", "./config", "directory containing config.yaml")
	fs.String("log-level", "", "override monitoring.log_level")
	return fs
}

// Load initializes configuration from .env, environment variables, flags and config file
func Load(args []string) (*Config, error) {
	// a missing .env is fine
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("WAREHOUSE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "__"))
	v.AutomaticEnv()

	setDefaults(v)

	fs := Flags()
	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("error parsing flags: %w", err)
	}
	if lvl, _ := fs.GetString("log-level"); lvl != "" {
		v.Set("monitoring.log_level", lvl)
	}
	configPath, _ := fs.GetString("config")

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("config validation error: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.shutdown_timeout", "30s")
	v.SetDefault("server.max_upload_size", 10*1024*1024) // 10MB

	// Database defaults
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.postgres.host", "localhost")
	v.SetDefault("database.postgres.port", 5432)
	v.SetDefault("database.postgres.user", "warehouse_user")
	v.SetDefault("database.postgres.password", "")
	v.SetDefault("database.postgres.dbname", "warehouse_db")
	v.SetDefault("database.postgres.sslmode", "disable")
	v.SetDefault("database.sqlite.path", "data/warehouse.db")

	// Redis defaults
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	// Auth defaults
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.admin_password", "")
	v.SetDefault("auth.token_ttl", "24h")
	v.SetDefault("auth.admin_email", "admin@warehouse.local")
	v.SetDefault("auth.admin_name", "Administrator")

	// Live feed defaults
	v.SetDefault("live.heartbeat_interval", "5s")
	v.SetDefault("live.send_buffer", 64)
	v.SetDefault("live.write_timeout", "10s")

	v.SetDefault("telemetry.reject_unknown_robots", false)

	// MQTT defaults
	v.SetDefault("mqtt.enabled", false)
	v.SetDefault("mqtt.broker", "tcp://localhost:1883")
	v.SetDefault("mqtt.client_id", "warehouse-hub")
	v.SetDefault("mqtt.topic", "warehouse/robots/+/telemetry")
	v.SetDefault("mqtt.qos", 1)
	v.SetDefault("mqtt.username", "")
	v.SetDefault("mqtt.password", "")

	v.SetDefault("dashboard.recent_scans", 20)
	v.SetDefault("dashboard.cache_ttl", "2s")

	// Retention is off unless scan_max_age is set
	v.SetDefault("retention.scan_max_age", "0s")
	v.SetDefault("retention.sweep_interval", "1h")

	v.SetDefault("seed.demo_data", true)

	v.SetDefault("monitoring.log_level", "info")
}

func validateConfig(config *Config) error {
	switch config.Database.Driver {
	case "postgres":
		if config.Database.Postgres.Host == "" {
			return fmt.Errorf("postgres host is required")
		}
	case "sqlite":
		if config.Database.SQLite.Path == "" {
			return fmt.Errorf("sqlite path is required")
		}
	default:
		return fmt.Errorf("unsupported database driver %q", config.Database.Driver)
	}
	if config.Auth.JWTSecret == "" {
		return fmt.Errorf("auth jwt_secret is required")
	}
	if config.Auth.AdminPassword == "" {
		return fmt.Errorf("auth admin_password is required")
	}
	if config.Live.HeartbeatInterval <= 0 {
		return fmt.Errorf("live heartbeat_interval must be positive")
	}
	if config.Live.SendBuffer <= 0 {
		return fmt.Errorf("live send_buffer must be positive")
	}
	if config.MQTT.Enabled && config.MQTT.Broker == "" {
		return fmt.Errorf("mqtt broker is required when mqtt is enabled")
	}
	if config.MQTT.QoS > 2 {
		return fmt.Errorf("mqtt qos must be 0, 1 or 2")
	}
	if config.Retention.ScanMaxAge > 0 && config.Retention.SweepInterval <= 0 {
		return fmt.Errorf("retention sweep_interval must be positive")
	}
	return nil
}
