package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	LogLevel    string         `yaml:"log_level" env:"LOG_LEVEL"`
	Timezone    string         `yaml:"timezone" env:"BOT_TIMEZONE"`
	TelegramCfg TelegramCfg    `yaml:"telegram"`
	Chats       []ChatCfg      `yaml:"chats"`
	NightWindow NightWindowCfg `yaml:"night_window"`
	Address     AddressCfg     `yaml:"address_checker"`
	Cleanup     CleanupCfg     `yaml:"cleanup"`
	HTTP        HTTPCfg        `yaml:"http"`
	DB          DBCfg          `yaml:"db"`
}

type TelegramCfg struct {
	Token         string        `yaml:"token" env:"BOT_TOKEN"`
	OperatorID    int64         `yaml:"operator_id" env:"UNIQUE_USER_ID"`
	MinTextLength int           `yaml:"min_text_length" env:"MIN_TEXT_LENGTH"`
	DriverHandoff bool          `yaml:"driver_handoff" env:"DRIVER_HANDOFF"`
	PollTimeout   time.Duration `yaml:"poll_timeout" env:"POLL_TIMEOUT"`
}

// ChatCfg describes one monitored group chat and the forum thread observed in it.
type ChatCfg struct {
	ID       int64  `yaml:"id"`
	ThreadID int    `yaml:"thread_id"`
	Name     string `yaml:"name"`
}

type NightWindowCfg struct {
	Start string `yaml:"start" env:"NIGHT_START"`
	End   string `yaml:"end" env:"NIGHT_END"`
}

type AddressCfg struct {
	APIKey  string  `yaml:"api_key" env:"OPENAI_API_KEY"`
	BaseURL string  `yaml:"base_url" env:"OPENAI_BASE_URL"`
	Model   string  `yaml:"model" env:"OPENAI_MODEL"`
	RPS     float64 `yaml:"rps" env:"OPENAI_RPS"`
	Burst   int     `yaml:"burst" env:"OPENAI_BURST"`
}

type CleanupCfg struct {
	Delay time.Duration `yaml:"delay" env:"CLEANUP_DELAY"`
}

type HTTPCfg struct {
	Timeout time.Duration `yaml:"timeout" env:"HTTP_TIMEOUT"`
	RPS     float64       `yaml:"rps" env:"HTTP_RPS"`
	Burst   int           `yaml:"burst" env:"HTTP_BURST"`
}

type DBCfg struct {
	DSN string `yaml:"dsn" env:"DATABASE_DSN"`
}

// Load reads .env (if any), the yaml file at path (if any) and then the environment,
// in that order of increasing precedence.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := &Config{}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist):
		slog.Warn("Config file not found, using environment only", "path", path)
	default:
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Timezone == "" {
		c.Timezone = "Europe/Minsk"
	}
	if c.TelegramCfg.MinTextLength == 0 {
		c.TelegramCfg.MinTextLength = 50
	}
	if c.TelegramCfg.PollTimeout == 0 {
		c.TelegramCfg.PollTimeout = time.Minute
	}
	if c.NightWindow.Start == "" {
		c.NightWindow.Start = "22:00"
	}
	if c.NightWindow.End == "" {
		c.NightWindow.End = "08:00"
	}
	if c.Address.Model == "" {
		c.Address.Model = "gpt-4o-mini"
	}
	if c.Address.RPS == 0 {
		c.Address.RPS = 3
	}
	if c.Address.Burst == 0 {
		c.Address.Burst = 5
	}
	if c.Cleanup.Delay == 0 {
		c.Cleanup.Delay = 5 * time.Minute
	}
	if c.HTTP.RPS == 0 {
		c.HTTP.RPS = 25
	}
	if c.HTTP.Burst == 0 {
		c.HTTP.Burst = 30
	}
}

func (c *Config) Validate() error {
	var errs []error
	if c.TelegramCfg.Token == "" {
		errs = append(errs, errors.New("telegram token is required"))
	}
	if c.TelegramCfg.OperatorID == 0 {
		errs = append(errs, errors.New("operator id is required"))
	}
	if len(c.Chats) == 0 {
		errs = append(errs, errors.New("at least one chat must be configured"))
	}
	seen := make(map[int64]bool, len(c.Chats))
	for _, chat := range c.Chats {
		if chat.ID == 0 {
			errs = append(errs, errors.New("chat id must not be zero"))
			continue
		}
		if seen[chat.ID] {
			errs = append(errs, fmt.Errorf("chat %d is configured twice", chat.ID))
		}
		seen[chat.ID] = true
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err))
	}
	return errors.Join(errs...)
}

// ChatByID returns the monitored chat with the given id.
func (c *Config) ChatByID(id int64) (ChatCfg, bool) {
	for _, chat := range c.Chats {
		if chat.ID == id {
			return chat, true
		}
	}
	return ChatCfg{}, false
}

func (c *Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}
