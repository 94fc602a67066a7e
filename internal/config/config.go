package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
)

type Config struct {
	App struct {
		Env              string
		Timezone         string
		PlaceholderImage string `mapstructure:"placeholder_image"`
	} `mapstructure:"app"`

	HTTP struct {
		Addr          string
		UploadsDir    string `mapstructure:"uploads_dir"`
		PublicBaseURL string `mapstructure:"public_base_url"`
	} `mapstructure:"http"`

	Postgres struct {
		DSN       string
		MaxConns  int32         `mapstructure:"max_conns"`
		TxTimeout time.Duration `mapstructure:"tx_timeout"`
	} `mapstructure:"postgres"`

	Metrics struct {
		Enabled bool
	} `mapstructure:"metrics"`

	Telegram struct {
		Token             string
		AdminChatID       int64   `mapstructure:"admin_chat_id"`
		LowStockThreshold float64 `mapstructure:"low_stock_threshold"`
	} `mapstructure:"telegram"`

	Tracing struct {
		OTLPEndpoint string `mapstructure:"otlp_endpoint"`
		ServiceName  string `mapstructure:"service_name"`
	} `mapstructure:"tracing"`
}

// Location resolves App.Timezone. Load has already validated it.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.App.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.env", "prod")
	v.SetDefault("app.timezone", "America/Mexico_City")
	v.SetDefault("app.placeholder_image", "https://via.placeholder.com/150")
	v.SetDefault("http.addr", ":3000")
	v.SetDefault("http.uploads_dir", "uploads")
	v.SetDefault("http.public_base_url", "http://localhost:3000")
	v.SetDefault("postgres.dsn", "")
	v.SetDefault("postgres.max_conns", 10)
	v.SetDefault("postgres.tx_timeout", "5s")
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("telegram.token", "")
	v.SetDefault("telegram.admin_chat_id", 0)
	v.SetDefault("telegram.low_stock_threshold", 5)
	v.SetDefault("tracing.otlp_endpoint", "")
	v.SetDefault("tracing.service_name", "materials-inventory")
}

// Load reads the YAML file at path (optional) and applies APP_* env overrides.
// A .env file in the working directory is loaded into the environment first.
func Load(path string) (Config, error) {
	if err := gotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var c Config
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
				return c, err
			}
		}
	}
	if err := v.Unmarshal(&c); err != nil {
		return c, err
	}
	return c, c.validate()
}

func (c Config) validate() error {
	if strings.TrimSpace(c.Postgres.DSN) == "" {
		return errors.New("postgres.dsn is required")
	}
	if _, err := time.LoadLocation(c.App.Timezone); err != nil {
		return fmt.Errorf("app.timezone: %w", err)
	}
	if c.Postgres.TxTimeout <= 0 {
		return errors.New("postgres.tx_timeout must be > 0")
	}
	if c.Postgres.MaxConns <= 0 {
		return errors.New("postgres.max_conns must be > 0")
	}
	return nil
}
