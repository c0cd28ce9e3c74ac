package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
	_ "time/tzdata"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid config")

// WorldIndex is one reference index of the world market strip.
type WorldIndex struct {
	Name   string `yaml:"name" validate:"required"`
	Symbol string `yaml:"symbol" validate:"required"`
}

// DefaultWorld is used when the config file lists no world indices.
var DefaultWorld = []WorldIndex{
	{Name: "S&P 500", Symbol: "^GSPC"},
	{Name: "GIFT Nifty", Symbol: "FNIFTY.NS"},
}

// Config holds all application configuration.
type Config struct {
	Server struct {
		Host            string        `yaml:"host" default:"0.0.0.0"`
		Port            int           `yaml:"port" default:"5000" validate:"min=1,max=65535"`
		ReadTimeout     time.Duration `yaml:"read_timeout" default:"15s"`
		WriteTimeout    time.Duration `yaml:"write_timeout" default:"60s"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"10s"`
	} `yaml:"server"`
	Log struct {
		Level      string `yaml:"level" default:"info" validate:"oneof=debug info warn error"`
		Format     string `yaml:"format" default:"console" validate:"oneof=console json"`
		File       string `yaml:"file"`
		MaxSizeMB  int    `yaml:"max_size_mb" default:"100"`
		MaxBackups int    `yaml:"max_backups" default:"7"`
		MaxAgeDays int    `yaml:"max_age_days" default:"30"`
	} `yaml:"log"`
	DataSource struct {
		Provider  string        `yaml:"provider" default:"yahoo" validate:"oneof=yahoo kite mock"`
		Proxy     string        `yaml:"proxy"`
		Timeout   time.Duration `yaml:"timeout" default:"20s"`
		MockPrice float64       `yaml:"mock_price" default:"22000"`
	} `yaml:"data_source"`
	Kite struct {
		APIKey      string `yaml:"api_key"`
		AccessToken string `yaml:"access_token"`
	} `yaml:"kite"`
	Indices struct {
		Primary   string `yaml:"primary" default:"^NSEI" validate:"required"`
		Secondary string `yaml:"secondary" default:"^NSEBANK" validate:"required"`
	} `yaml:"indices"`
	News struct {
		Provider string `yaml:"provider" default:"yahoo" validate:"oneof=yahoo rss mock"`
		Symbol   string `yaml:"symbol"`
		Limit    int    `yaml:"limit" default:"10" validate:"min=1,max=50"`
		Top      int    `yaml:"top" default:"5" validate:"min=0"`
		RSSURL   string `yaml:"rss_url" default:"https://feeds.finance.yahoo.com/rss/2.0/headline?s={symbol}&region=IN&lang=en-IN"`
	} `yaml:"news"`
	World    []WorldIndex `yaml:"world" validate:"min=1,dive"`
	Timezone string       `yaml:"timezone" default:"Asia/Kolkata" validate:"timezone"`
	Session  struct {
		OpenCron  string `yaml:"open_cron" default:"15 9 * * 1-5" validate:"cron"`
		CloseCron string `yaml:"close_cron" default:"30 15 * * 1-5" validate:"cron"`
	} `yaml:"session"`
	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Addr    string `yaml:"addr" default:":9090"`
	} `yaml:"metrics"`
	Tracing struct {
		Enabled bool `yaml:"enabled"`
	} `yaml:"tracing"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
}

// Load reads config from a YAML file on top of the struct defaults, then
// applies .env and environment variable overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := defaults.Set(cfg); err != nil {
		return nil, fmt.Errorf("apply defaults: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	applyEnv(cfg)

	if len(cfg.World) == 0 {
		cfg.World = append([]WorldIndex(nil), DefaultWorld...)
	}
	if cfg.News.Symbol == "" {
		cfg.News.Symbol = cfg.Indices.Primary
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := os.Getenv("LOG_FILE"); v != "" {
		cfg.Log.File = v
	}
	if v := os.Getenv("DATA_PROVIDER"); v != "" {
		cfg.DataSource.Provider = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.DataSource.Proxy = v
	}
	if v := os.Getenv("KITE_API_KEY"); v != "" {
		cfg.Kite.APIKey = v
	}
	if v := os.Getenv("KITE_ACCESS_TOKEN"); v != "" {
		cfg.Kite.AccessToken = v
	}
	if v := os.Getenv("NEWS_PROVIDER"); v != "" {
		cfg.News.Provider = v
	}
	if v := os.Getenv("TIMEZONE"); v != "" {
		cfg.Timezone = v
	}
	if v := os.Getenv("METRICS_ENABLED"); v != "" {
		cfg.Metrics.Enabled = v == "true"
	}
	if v := os.Getenv("TRACING_ENABLED"); v != "" {
		cfg.Tracing.Enabled = v == "true"
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("cron", func(fl validator.FieldLevel) bool {
		_, err := cron.ParseStandard(fl.Field().String())
		return err == nil
	})
	return v
}

// Validate checks field constraints and cross-field requirements.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("%w: %s failed %q (value %v)", ErrInvalid, fe.Namespace(), fe.Tag(), fe.Value())
		}
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if c.DataSource.Provider == "kite" && (c.Kite.APIKey == "" || c.Kite.AccessToken == "") {
		return fmt.Errorf("%w: kite.api_key and kite.access_token are required for the kite provider", ErrInvalid)
	}
	return nil
}

// Location returns the configured display timezone.
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

// Addr is the dashboard listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
