package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type BotConfig struct {
	Token string `yaml:"token"`
	// Channels a user must be subscribed to before the menu is shown,
	// in "@name" form. Empty list disables the gate.
	Channels []string `yaml:"channels"`
}

type WebConfig struct {
	Port int `yaml:"port"`
	// BaseURL is the externally reachable address embedded into the
	// per-user entry link.
	BaseURL    string `yaml:"base_url"`
	ClothesURL string `yaml:"clothes_url"`
	TechURL    string `yaml:"tech_url"`
}

type AdminConfig struct {
	// Token guards POST /admin/broadcast. Empty token disables the
	// endpoint and the promo scheduler entirely.
	Token string `yaml:"token"`
}

type PromoConfig struct {
	IntervalMinutes int      `yaml:"interval_minutes"`
	Messages        []string `yaml:"messages"`
}

type StorageConfig struct {
	Path string `yaml:"path"`
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type Config struct {
	Bot     BotConfig     `yaml:"bot"`
	Web     WebConfig     `yaml:"web"`
	Admin   AdminConfig   `yaml:"admin"`
	Promo   PromoConfig   `yaml:"promo"`
	Storage StorageConfig `yaml:"storage"`
	Log     LogConfig     `yaml:"log"`
}

var defaultPromoMessages = []string{
	"🔥 Fresh arrivals in the shop — take a look!",
	"🛍 Weekend deals are live. Don't miss out!",
	"📦 Free delivery on all orders this week.",
}

// Load reads the YAML file (optional — environment variables alone can
// configure the process), applies environment overrides and defaults, and
// validates. A missing bot token is the only fatal condition.
//
// The promo interval defaults before the file and environment are read, so
// an explicit zero survives and disarms the scheduler instead of being
// mistaken for "unset".
func Load(path string) (*Config, error) {
	var cfg Config
	cfg.Promo.IntervalMinutes = 1440

	b, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	case os.IsNotExist(err):
		// env-only configuration
	default:
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg.applyEnv()

	// defaults
	if cfg.Web.Port <= 0 {
		cfg.Web.Port = 8080
	}
	if len(cfg.Promo.Messages) == 0 {
		cfg.Promo.Messages = defaultPromoMessages
	}
	if cfg.Storage.Path == "" {
		cfg.Storage.Path = "users.json"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}

	if cfg.Bot.Token == "" {
		return nil, errors.New("bot.token is required")
	}
	return &cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("BOT_TOKEN"); v != "" {
		c.Bot.Token = v
	}
	if v := os.Getenv("CHANNELS"); v != "" {
		c.Bot.Channels = SplitChannels(v)
	}
	if v := os.Getenv("BASE_URL"); v != "" {
		c.Web.BaseURL = v
	}
	if v := os.Getenv("CLOTHES_URL"); v != "" {
		c.Web.ClothesURL = v
	}
	if v := os.Getenv("TECH_URL"); v != "" {
		c.Web.TechURL = v
	}
	if v := os.Getenv("ADMIN_TOKEN"); v != "" {
		c.Admin.Token = v
	}
	if v := os.Getenv("PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Web.Port = n
		}
	}
	if v := os.Getenv("PROMO_INTERVAL_MIN"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Promo.IntervalMinutes = n
		}
	}
	if v := os.Getenv("USERS_FILE"); v != "" {
		c.Storage.Path = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
}

// SplitChannels parses a comma-separated channel list, trimming whitespace
// and dropping empty entries.
func SplitChannels(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
