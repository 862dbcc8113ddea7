package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// EnvConfigPath переменная окружения с путём к YAML-конфигу.
const EnvConfigPath = "STEPBOT_CONFIG"

type Config struct {
	TelegramToken string   `yaml:"telegram_token"`
	HTTPAddr      string   `yaml:"http_addr"`
	DBPath        string   `yaml:"db_path"` // если пусто, история хранится в памяти
	MaxFileMB     int      `yaml:"max_file_mb"`
	LogLevel      string   `yaml:"log_level"`
	AI            AIConfig `yaml:"ai"`
}

// AIConfig параметры сервиса ИИ для предложений по чертежу.
type AIConfig struct {
	BaseURL   string        `yaml:"base_url"`
	APIKey    string        `yaml:"api_key"`
	Model     string        `yaml:"model"`
	MaxTokens int           `yaml:"max_tokens"`
	Timeout   time.Duration `yaml:"timeout"`
}

// Enabled сообщает, что ключ API задан.
func (c AIConfig) Enabled() bool {
	return c.APIKey != ""
}

// DefaultConfig возвращает значения по умолчанию.
func DefaultConfig() *Config {
	return &Config{
		HTTPAddr:  ":8080",
		MaxFileMB: 50,
		LogLevel:  "info",
		AI: AIConfig{
			BaseURL:   "https://api.anthropic.com",
			Model:     "claude-sonnet-4-5",
			MaxTokens: 4096,
			Timeout:   60 * time.Second,
		},
	}
}

// Load собирает конфиг: значения по умолчанию, YAML-файл из STEPBOT_CONFIG, затем переменные окружения.
func Load() (*Config, error) {
	// Загружаем .env файл (игнорируем ошибку если файла нет)
	_ = godotenv.Load()

	cfg := DefaultConfig()

	if path := os.Getenv(EnvConfigPath); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	return cfg, cfg.Validate()
}

func (c *Config) applyEnv() error {
	setString(&c.TelegramToken, "TELEGRAM_TOKEN")
	setString(&c.HTTPAddr, "HTTP_ADDR")
	setString(&c.DBPath, "DB_PATH")
	setString(&c.LogLevel, "LOG_LEVEL")
	setString(&c.AI.BaseURL, "AI_BASE_URL")
	setString(&c.AI.APIKey, "AI_API_KEY")
	setString(&c.AI.Model, "AI_MODEL")

	if err := setInt(&c.MaxFileMB, "MAX_FILE_MB"); err != nil {
		return err
	}
	if err := setInt(&c.AI.MaxTokens, "AI_MAX_TOKENS"); err != nil {
		return err
	}
	if v := os.Getenv("AI_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("AI_TIMEOUT: %w", err)
		}
		c.AI.Timeout = d
	}
	return nil
}

// Validate проверяет значения конфига.
func (c *Config) Validate() error {
	if c.MaxFileMB <= 0 {
		return fmt.Errorf("max_file_mb must be > 0")
	}
	if c.AI.MaxTokens <= 0 {
		return fmt.Errorf("ai.max_tokens must be > 0")
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// MaxFileBytes предел размера загружаемого файла в байтах.
func (c *Config) MaxFileBytes() int {
	return c.MaxFileMB << 20
}

// SlogLevel переводит log_level в уровень slog.
func (c *Config) SlogLevel() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("invalid log_level %q", c.LogLevel)
	}
	return lvl, nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = n
	return nil
}
