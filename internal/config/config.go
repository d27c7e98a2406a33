package config

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultReference is the threshold used when none is configured.
const DefaultReference = 110.0

// Config holds all application configuration.
type Config struct {
	Chart struct {
		Reference      *float64 `yaml:"reference"` // nil until set by file, env or default
		SmoothingAlpha float64 `yaml:"smoothing_alpha"`
	} `yaml:"chart"`
	Source struct {
		File string `yaml:"file"` // empty means the built-in demo series
	} `yaml:"source"`
	Render struct {
		Format      string  `yaml:"format"` // svg or png
		Width       int     `yaml:"width"`
		Height      int     `yaml:"height"`
		StrokeWidth float64 `yaml:"stroke_width"`
		FillOpacity float64 `yaml:"fill_opacity"`
		Glow        bool    `yaml:"glow"`
	} `yaml:"render"`
	Output struct {
		File string `yaml:"file"`
	} `yaml:"output"`
	Schedule struct {
		RefreshCron string `yaml:"refresh_cron"`
	} `yaml:"schedule"`
	HTTP struct {
		Addr string `yaml:"addr"`
	} `yaml:"http"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Log struct {
		Level string `yaml:"level"`
		File  string `yaml:"file"`
	} `yaml:"log"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies .env and environment
// variable overrides and fills in defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// .env is optional; real environment variables win over it.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("CHART_REFERENCE"); v != "" {
		ref, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return fmt.Errorf("CHART_REFERENCE: %w", err)
		}
		c.Chart.Reference = &ref
	}
	if v := os.Getenv("SMOOTHING_ALPHA"); v != "" {
		alpha, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return fmt.Errorf("SMOOTHING_ALPHA: %w", err)
		}
		c.Chart.SmoothingAlpha = alpha
	}
	if v := os.Getenv("CHART_SOURCE"); v != "" {
		c.Source.File = v
	}
	if v := os.Getenv("OUTPUT_FILE"); v != "" {
		c.Output.File = v
	}
	if v := os.Getenv("REFRESH_CRON"); v != "" {
		c.Schedule.RefreshCron = v
	}
	if v := os.Getenv("HTTP_ADDR"); v != "" {
		c.HTTP.Addr = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		c.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		c.Telegram.ChatID = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		c.Proxy = v
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Chart.Reference == nil {
		ref := DefaultReference
		c.Chart.Reference = &ref
	}
	if c.Render.Format == "" {
		c.Render.Format = "svg"
	}
	c.Render.Format = strings.ToLower(c.Render.Format)
	if c.Render.Width == 0 {
		c.Render.Width = 800
	}
	if c.Render.Height == 0 {
		c.Render.Height = 400
	}
	if c.Render.StrokeWidth == 0 {
		c.Render.StrokeWidth = 3
	}
	if c.Render.FillOpacity == 0 {
		c.Render.FillOpacity = 0.25
	}
	if c.Schedule.RefreshCron == "" {
		c.Schedule.RefreshCron = "0 */5 * * * *"
	}
	if c.HTTP.Addr == "" {
		c.HTTP.Addr = ":8080"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// Validate checks that all fields hold usable values.
func (c *Config) Validate() error {
	if ref := c.ReferenceValue(); math.IsNaN(ref) || math.IsInf(ref, 0) {
		return fmt.Errorf("chart.reference must be a finite number")
	}
	if a := c.Chart.SmoothingAlpha; math.IsNaN(a) || a < 0 || a >= 1 {
		return fmt.Errorf("chart.smoothing_alpha must be in [0, 1)")
	}
	if c.Render.Format != "svg" && c.Render.Format != "png" {
		return fmt.Errorf("render.format must be svg or png, got %q", c.Render.Format)
	}
	if c.Render.Width <= 0 || c.Render.Height <= 0 {
		return fmt.Errorf("render.width and render.height must be positive")
	}
	if c.Render.FillOpacity < 0 || c.Render.FillOpacity > 1 {
		return fmt.Errorf("render.fill_opacity must be in [0, 1]")
	}
	if (c.Telegram.BotToken == "") != (c.Telegram.ChatID == "") {
		return fmt.Errorf("telegram.bot_token and telegram.chat_id must be set together")
	}
	return nil
}

// ReferenceValue returns the configured reference, or the default before
// defaults have been applied.
func (c *Config) ReferenceValue() float64 {
	if c.Chart.Reference == nil {
		return DefaultReference
	}
	return *c.Chart.Reference
}

// NotificationsEnabled reports whether crossing alerts should be sent.
func (c *Config) NotificationsEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != ""
}
