// Package config loads runtime settings from the environment and an
// optional config file, and initializes the global logger.
package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config carries every runtime setting of the service.
type Config struct {
	AnthropicAPIKey string        `mapstructure:"anthropic_api_key"`
	Model           string        `mapstructure:"model"`
	Addr            string        `mapstructure:"addr"`
	DBPath          string        `mapstructure:"db_path"`
	Headless        bool          `mapstructure:"headless"`
	UseBrowser      bool          `mapstructure:"use_browser"`
	FetchTimeout    time.Duration `mapstructure:"fetch_timeout"`
	LogLevel        string        `mapstructure:"log_level"`
	Debug           bool          `mapstructure:"debug"`
}

// Load reads settings from .env (if present), environment variables
// prefixed LEADFLOW_, and an optional config.yaml in the working
// directory. Environment wins over file values.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Unmarshal only walks keys that exist in defaults, config file or
	// overrides, so env-only keys need a default to be picked up.
	v.SetDefault("anthropic_api_key", "")
	v.SetDefault("model", "claude-haiku-4-5-20251001")
	v.SetDefault("addr", ":8080")
	v.SetDefault("db_path", "leadflow.db")
	v.SetDefault("headless", true)
	v.SetDefault("use_browser", true)
	v.SetDefault("fetch_timeout", 10*time.Second)
	v.SetDefault("log_level", "info")
	v.SetDefault("debug", false)

	v.SetEnvPrefix("LEADFLOW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !eris.As(err, &notFound) {
			return Config{}, eris.Wrap(err, "config: read config file")
		}
	}

	// The Anthropic SDK's conventional variable works without the
	// prefix too.
	if v.GetString("anthropic_api_key") == "" {
		v.Set("anthropic_api_key", os.Getenv("ANTHROPIC_API_KEY"))
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, eris.Wrap(err, "config: unmarshal")
	}

	return cfg, nil
}

// InitLogger builds the process-wide zap logger and installs it as the
// global. The returned function flushes buffered entries.
func InitLogger(cfg Config) (func(), error) {
	var zapCfg zap.Config

	if cfg.Debug {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
		zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}

	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, eris.Wrapf(err, "config: invalid log level %q", cfg.LogLevel)
	}

	zapCfg.Level = zap.NewAtomicLevelAt(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, eris.Wrap(err, "config: build logger")
	}

	zap.ReplaceGlobals(logger)

	return func() { _ = logger.Sync() }, nil
}
