package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
	DB        DBConfig        `mapstructure:"db"`
	Cron      CronConfig      `mapstructure:"cron"`
	Anomaly   AnomalyConfig   `mapstructure:"anomaly"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

type AppConfig struct {
	Env string `mapstructure:"env"`
}

type ServerConfig struct {
	HTTPAddr     string `mapstructure:"http_addr"`
	AuthDisabled bool   `mapstructure:"auth_disabled"`
}

type LogConfig struct {
	Level             string `mapstructure:"level"`
	Encoding          string `mapstructure:"encoding"`
	Development       bool   `mapstructure:"development"`
	Sampling          bool   `mapstructure:"sampling"`
	DisableCaller     bool   `mapstructure:"disable_caller"`
	DisableStacktrace bool   `mapstructure:"disable_stacktrace"`
}

type DBConfig struct {
	// Driver is one of postgres, mysql, sqlite.
	Driver          string        `mapstructure:"driver"`
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
	Timezone        string        `mapstructure:"timezone"`
}

type CronConfig struct {
	Enabled           bool   `mapstructure:"enabled"`
	AnomalyDetection  string `mapstructure:"anomaly_detection"`
	InvoiceGeneration string `mapstructure:"invoice_generation"`
}

type AnomalyConfig struct {
	NightEnergyKWh     float64 `mapstructure:"night_energy_kwh"`
	PeakZeroEnergyKWh  float64 `mapstructure:"peak_zero_energy_kwh"`
	DropRatio          float64 `mapstructure:"drop_ratio"`
	DropMinPreviousKWh float64 `mapstructure:"drop_min_previous_kwh"`
	ClippingCapKWh     float64 `mapstructure:"clipping_cap_kwh"`
	Workers            int     `mapstructure:"workers"`
	BatchSize          int     `mapstructure:"batch_size"`
}

type CacheConfig struct {
	// Backend is memory or redis.
	Backend       string        `mapstructure:"backend"`
	RedisAddr     string        `mapstructure:"redis_addr"`
	RedisPassword string        `mapstructure:"redis_password"`
	RedisDB       int           `mapstructure:"redis_db"`
	ReportTTL     time.Duration `mapstructure:"report_ttl"`
}

type TelemetryConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	APIKey  string        `mapstructure:"api_key"`
	Agent   string        `mapstructure:"agent"`
	Timeout time.Duration `mapstructure:"timeout"`
}

func Load(path string, envOnly bool) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("SW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.AutomaticEnv()
	setDefaults(v)

	if !envOnly {
		if err := v.ReadInConfig(); err != nil {
			return Config{}, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.env", "dev")
	v.SetDefault("server.http_addr", ":8080")
	v.SetDefault("server.auth_disabled", true)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.encoding", "console")
	v.SetDefault("log.development", true)
	v.SetDefault("log.sampling", false)
	v.SetDefault("log.disable_caller", false)
	v.SetDefault("log.disable_stacktrace", false)
	v.SetDefault("db.driver", "postgres")
	v.SetDefault("db.dsn", "")
	v.SetDefault("db.max_open_conns", 20)
	v.SetDefault("db.max_idle_conns", 5)
	v.SetDefault("db.conn_max_lifetime", "30m")
	v.SetDefault("db.conn_max_idle_time", "5m")
	v.SetDefault("db.timezone", "UTC")
	v.SetDefault("cron.enabled", true)
	v.SetDefault("cron.anomaly_detection", "@every 1h")
	v.SetDefault("cron.invoice_generation", "0 0 1 * * *")

	v.SetDefault("anomaly.night_energy_kwh", 0.5)
	v.SetDefault("anomaly.peak_zero_energy_kwh", 0.1)
	v.SetDefault("anomaly.drop_ratio", 0.5)
	v.SetDefault("anomaly.drop_min_previous_kwh", 10)
	v.SetDefault("anomaly.clipping_cap_kwh", 350)
	v.SetDefault("anomaly.workers", 1)
	v.SetDefault("anomaly.batch_size", 200)

	v.SetDefault("cache.backend", "memory")
	v.SetDefault("cache.redis_addr", "127.0.0.1:6379")
	v.SetDefault("cache.redis_password", "")
	v.SetDefault("cache.redis_db", 0)
	v.SetDefault("cache.report_ttl", "24h")

	v.SetDefault("telemetry.base_url", "")
	v.SetDefault("telemetry.api_key", "")
	v.SetDefault("telemetry.agent", "solarwatch-monitor")
	v.SetDefault("telemetry.timeout", "10s")
}
