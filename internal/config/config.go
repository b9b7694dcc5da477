// Package config はサーバー設定を環境変数と任意のTOMLファイルから読み込む。
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// ConfigFileEnv は設定ファイルのパスを指定する環境変数名。
const ConfigFileEnv = "CONFIG_FILE"

// Config はアプリケーション全体の設定を保持する。
// 起動時に1回読み込み、イミュータブルとして扱う。
type Config struct {
	// Server
	ServerPort      string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	// CORS
	CORSAllowedOrigin string

	// Rate Limit
	RateLimitPerMinute int
	RateLimitBurst     int
	// X-Forwarded-For をクライアントIPとして信頼するか（リバースプロキシ配下のみtrue）
	TrustProxy bool

	// Locale
	DefaultLanguage string

	// Logging
	LogLevel string

	// Metrics
	MetricsEnabled bool
}

// fileConfig はTOML設定ファイルの構造。未指定の項目はnilのまま残る。
type fileConfig struct {
	ServerPort         *string `toml:"server_port"`
	ReadTimeout        *string `toml:"read_timeout"`
	WriteTimeout       *string `toml:"write_timeout"`
	IdleTimeout        *string `toml:"idle_timeout"`
	ShutdownTimeout    *string `toml:"shutdown_timeout"`
	CORSAllowedOrigin  *string `toml:"cors_allowed_origin"`
	RateLimitPerMinute *int    `toml:"rate_limit_per_minute"`
	RateLimitBurst     *int    `toml:"rate_limit_burst"`
	TrustProxy         *bool   `toml:"trust_proxy"`
	DefaultLanguage    *string `toml:"default_language"`
	LogLevel           *string `toml:"log_level"`
	MetricsEnabled     *bool   `toml:"metrics_enabled"`
}

// Default はデフォルト値のConfigを返す。
func Default() *Config {
	return &Config{
		ServerPort:         "8080",
		ReadTimeout:        15 * time.Second,
		WriteTimeout:       15 * time.Second,
		IdleTimeout:        60 * time.Second,
		ShutdownTimeout:    30 * time.Second,
		CORSAllowedOrigin:  "*",
		RateLimitPerMinute: 120,
		RateLimitBurst:     120,
		TrustProxy:         false,
		DefaultLanguage:    "es",
		LogLevel:           "info",
		MetricsEnabled:     true,
	}
}

// Load はデフォルト値、設定ファイル（CONFIG_FILE）、環境変数の順に重ねてConfigを読み込む。
// 値を解釈できない場合や検証に失敗した場合はエラーを返す。
func Load() (*Config, error) {
	cfg := Default()

	if path := os.Getenv(ConfigFileEnv); path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.mergeEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// mergeFile はTOMLファイルの値で上書きする。未知のキーはエラーとする。
func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	var fc fileConfig
	dec := toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields()
	if err := dec.Decode(&fc); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return fmt.Errorf("config file %s: unknown keys:\n%s", path, strict.String())
		}
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	var errs []error
	setString(&c.ServerPort, fc.ServerPort)
	setString(&c.CORSAllowedOrigin, fc.CORSAllowedOrigin)
	setString(&c.DefaultLanguage, fc.DefaultLanguage)
	setString(&c.LogLevel, fc.LogLevel)
	if fc.RateLimitPerMinute != nil {
		c.RateLimitPerMinute = *fc.RateLimitPerMinute
	}
	if fc.RateLimitBurst != nil {
		c.RateLimitBurst = *fc.RateLimitBurst
	}
	if fc.TrustProxy != nil {
		c.TrustProxy = *fc.TrustProxy
	}
	if fc.MetricsEnabled != nil {
		c.MetricsEnabled = *fc.MetricsEnabled
	}
	errs = append(errs,
		setDuration(&c.ReadTimeout, "read_timeout", fc.ReadTimeout),
		setDuration(&c.WriteTimeout, "write_timeout", fc.WriteTimeout),
		setDuration(&c.IdleTimeout, "idle_timeout", fc.IdleTimeout),
		setDuration(&c.ShutdownTimeout, "shutdown_timeout", fc.ShutdownTimeout),
	)
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config file %s: %w", path, err)
	}
	return nil
}

// mergeEnv は設定済みの環境変数で上書きする。
func (c *Config) mergeEnv() error {
	var errs []error

	c.ServerPort = getEnvString("SERVER_PORT", c.ServerPort)
	c.CORSAllowedOrigin = getEnvString("CORS_ALLOWED_ORIGIN", c.CORSAllowedOrigin)
	c.DefaultLanguage = getEnvString("DEFAULT_LANGUAGE", c.DefaultLanguage)
	c.LogLevel = getEnvString("LOG_LEVEL", c.LogLevel)

	c.RateLimitPerMinute = getEnvInt("RATE_LIMIT_PER_MINUTE", c.RateLimitPerMinute, &errs)
	c.RateLimitBurst = getEnvInt("RATE_LIMIT_BURST", c.RateLimitBurst, &errs)
	c.TrustProxy = getEnvBool("TRUST_PROXY", c.TrustProxy, &errs)
	c.MetricsEnabled = getEnvBool("METRICS_ENABLED", c.MetricsEnabled, &errs)

	c.ReadTimeout = getEnvDuration("READ_TIMEOUT", c.ReadTimeout, &errs)
	c.WriteTimeout = getEnvDuration("WRITE_TIMEOUT", c.WriteTimeout, &errs)
	c.IdleTimeout = getEnvDuration("IDLE_TIMEOUT", c.IdleTimeout, &errs)
	c.ShutdownTimeout = getEnvDuration("SHUTDOWN_TIMEOUT", c.ShutdownTimeout, &errs)

	return errors.Join(errs...)
}

// Validate は設定値の範囲を検証する。
func (c *Config) Validate() error {
	var errs []error

	if port, err := strconv.Atoi(c.ServerPort); err != nil || port < 1 || port > 65535 {
		errs = append(errs, fmt.Errorf("SERVER_PORT must be a port number between 1 and 65535, got %q", c.ServerPort))
	}
	if c.RateLimitPerMinute <= 0 {
		errs = append(errs, fmt.Errorf("RATE_LIMIT_PER_MINUTE must be positive, got %d", c.RateLimitPerMinute))
	}
	if c.RateLimitBurst <= 0 {
		errs = append(errs, fmt.Errorf("RATE_LIMIT_BURST must be positive, got %d", c.RateLimitBurst))
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("LOG_LEVEL must be one of debug, info, warn, error, got %q", c.LogLevel))
	}
	timeouts := []struct {
		name string
		d    time.Duration
	}{
		{"READ_TIMEOUT", c.ReadTimeout},
		{"WRITE_TIMEOUT", c.WriteTimeout},
		{"IDLE_TIMEOUT", c.IdleTimeout},
		{"SHUTDOWN_TIMEOUT", c.ShutdownTimeout},
	}
	for _, to := range timeouts {
		if to.d <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive, got %s", to.name, to.d))
		}
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// Addr はhttp.Serverに渡すリッスンアドレスを返す。
func (c *Config) Addr() string {
	return ":" + c.ServerPort
}

func setString(dst *string, v *string) {
	if v != nil && *v != "" {
		*dst = *v
	}
}

func setDuration(dst *time.Duration, key string, v *string) error {
	if v == nil {
		return nil
	}
	d, err := time.ParseDuration(*v)
	if err != nil {
		return fmt.Errorf("%s: invalid duration %q", key, *v)
	}
	*dst = d
	return nil
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int, errs *[]error) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: invalid integer %q", key, v))
		return defaultVal
	}
	return i
}

func getEnvBool(key string, defaultVal bool, errs *[]error) bool {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: invalid boolean %q", key, v))
		return defaultVal
	}
	return b
}

func getEnvDuration(key string, defaultVal time.Duration, errs *[]error) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: invalid duration %q", key, v))
		return defaultVal
	}
	return d
}
