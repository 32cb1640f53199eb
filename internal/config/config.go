// File: internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"tg-config-bot/internal/domain"
	"tg-config-bot/internal/domain/model"
)

const (
	ModePolling = "polling"
	ModeWebhook = "webhook"
)

type RuntimeConfig struct {
	Dev  bool
	Noop bool
}

type BotConfig struct {
	Token             string        `yaml:"token" env:"TELOXIDE_TOKEN,BOT_TOKEN"`
	ChatID            string        `yaml:"chat_id" env:"CHAT_ID"`
	Username          string        `yaml:"username" env:"BOT_USERNAME"` // discovered via getMe when empty
	Mode              string        `yaml:"mode" env:"BOT_MODE" env-default:"polling"`
	Workers           int           `yaml:"workers" env:"BOT_WORKERS" env-default:"8"`
	HandlerTimeout    time.Duration `yaml:"handler_timeout" env:"BOT_HANDLER_TIMEOUT" env-default:"10s"`
	GateInlineQueries bool          `yaml:"gate_inline_queries" env:"BOT_GATE_INLINE_QUERIES"`
	SkipCommandMenu   bool          `yaml:"skip_command_menu" env:"BOT_SKIP_COMMAND_MENU"`

	// Chat is ChatID parsed by Validate.
	Chat model.ChatRef `yaml:"-" env:"-"`
}

type WebhookConfig struct {
	URL    string `yaml:"url" env:"WEBHOOK_URL"`
	Path   string `yaml:"path" env:"WEBHOOK_PATH" env-default:"/telegram"`
	Secret string `yaml:"secret" env:"WEBHOOK_SECRET"`
}

type LogConfig struct {
	Level    string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`   // trace|debug|info|warn|error
	Format   string `yaml:"format" env:"LOG_FORMAT" env-default:"json"` // json|console
	Sampling bool   `yaml:"sampling" env:"LOG_SAMPLING"`                 // enable sampling in prod
}

type AdminConfig struct {
	Port int `yaml:"port" env:"ADMIN_PORT" env-default:"8080"`
}

type RedisConfig struct {
	URL      string        `yaml:"url" env:"REDIS_URL"`
	Password string        `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int           `yaml:"db" env:"REDIS_DB"`
	LockTTL  time.Duration `yaml:"lock_ttl" env:"REDIS_LOCK_TTL" env-default:"30s"`
}

type Config struct {
	Bot     BotConfig     `yaml:"bot"`
	Webhook WebhookConfig `yaml:"webhook"`
	Log     LogConfig     `yaml:"log"`
	Admin   AdminConfig   `yaml:"admin"`
	Redis   RedisConfig   `yaml:"redis"`

	Runtime RuntimeConfig `yaml:"-" env:"-"`
}

// LoadConfig reads .env (if present), then the YAML file at path (if present),
// then environment variables, and validates the result.
func LoadConfig(path string, dev bool) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("read .env: %w", err)
	}

	var cfg Config
	if path != "" {
		b, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
			// env-only deployments have no file
		case err != nil:
			return nil, fmt.Errorf("read config: %w", err)
		default:
			if err := yaml.Unmarshal(b, &cfg); err != nil {
				return nil, fmt.Errorf("parse config: %w", err)
			}
		}
	}

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read env: %w", err)
	}
	cfg.Runtime.Dev = dev

	applyDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	cfg.Bot.Mode = strings.ToLower(strings.TrimSpace(cfg.Bot.Mode))
	if cfg.Bot.Mode == "" {
		cfg.Bot.Mode = ModePolling
	}
	if cfg.Bot.Workers <= 0 {
		cfg.Bot.Workers = 8
	}
	if cfg.Bot.HandlerTimeout <= 0 {
		cfg.Bot.HandlerTimeout = 10 * time.Second
	}
	cfg.Bot.Username = strings.TrimPrefix(strings.TrimSpace(cfg.Bot.Username), "@")
	if cfg.Webhook.Path == "" {
		cfg.Webhook.Path = "/telegram"
	}
	if !strings.HasPrefix(cfg.Webhook.Path, "/") {
		cfg.Webhook.Path = "/" + cfg.Webhook.Path
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Admin.Port == 0 {
		cfg.Admin.Port = 8080
	}
	if cfg.Redis.LockTTL <= 0 {
		cfg.Redis.LockTTL = 30 * time.Second
	}
}

// Validate checks required settings and reports every problem at once.
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Bot.Token) == "" {
		errs = append(errs, errors.New("bot.token is required (TELOXIDE_TOKEN or BOT_TOKEN)"))
	}
	if strings.TrimSpace(c.Bot.ChatID) == "" {
		errs = append(errs, errors.New("bot.chat_id is required (CHAT_ID)"))
	} else if ref, err := model.ParseChatRef(c.Bot.ChatID); err != nil {
		errs = append(errs, fmt.Errorf("bot.chat_id %q must be a numeric id or @username", c.Bot.ChatID))
	} else {
		c.Bot.Chat = ref
	}
	switch c.Bot.Mode {
	case ModePolling:
	case ModeWebhook:
		u, err := url.Parse(c.Webhook.URL)
		if c.Webhook.URL == "" || err != nil || u.Scheme != "https" || u.Host == "" {
			errs = append(errs, errors.New("webhook.url must be an absolute https URL in webhook mode"))
		}
	default:
		errs = append(errs, fmt.Errorf("bot.mode %q must be %q or %q", c.Bot.Mode, ModePolling, ModeWebhook))
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", domain.ErrInvalidConfig, errors.Join(errs...))
}
