package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/escalopa/quran-tajwid-bot/internal/domain"
	"github.com/spf13/viper"
)

type Config struct {
	Telegram TelegramConfig `mapstructure:"telegram"`
	Redis    RedisConfig    `mapstructure:"redis"`
	QuranAPI QuranAPIConfig `mapstructure:"quran_api"`
	OpenAI   OpenAIConfig   `mapstructure:"openai"`
	HTTP     HTTPConfig     `mapstructure:"http"`
	App      AppConfig      `mapstructure:"app"`
	Log      LogConfig      `mapstructure:"log"`
}

type TelegramConfig struct {
	Token string `mapstructure:"token"`
}

type RedisConfig struct {
	URI        string        `mapstructure:"uri"`
	SessionTTL time.Duration `mapstructure:"session_ttl"`
}

type QuranAPIConfig struct {
	BaseURL            string        `mapstructure:"base_url"`
	Language           string        `mapstructure:"language"`
	CacheTTL           time.Duration `mapstructure:"cache_ttl"`
	TranslationID      int           `mapstructure:"translation_id"`
	ReciterID          string        `mapstructure:"reciter_id"`
	AudioBaseURL       string        `mapstructure:"audio_base_url"`
	TransliterationURL string        `mapstructure:"transliteration_url"`
}

type OpenAIConfig struct {
	APIKey            string        `mapstructure:"api_key"`
	BaseURL           string        `mapstructure:"base_url"`
	Model             string        `mapstructure:"model"`
	Timeout           time.Duration `mapstructure:"timeout"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`
	Burst             int           `mapstructure:"burst"`
}

type HTTPConfig struct {
	Addr         string        `mapstructure:"addr"`
	MaxUploadMB  int64         `mapstructure:"max_upload_mb"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

type AppConfig struct {
	LocalesDir      string `mapstructure:"locales_dir"`
	DefaultLanguage string `mapstructure:"default_language"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load loads configuration from a YAML file with environment variable
// overrides. An empty filename skips the file and uses defaults and env only.
func Load(filename string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if filename != "" {
		v.SetConfigFile(filename)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("telegram.token", "")
	v.SetDefault("redis.uri", "redis://localhost:6379/0")
	v.SetDefault("redis.session_ttl", 24*time.Hour)
	v.SetDefault("quran_api.base_url", "https://api.quran.com/api/v4")
	v.SetDefault("quran_api.language", "en")
	v.SetDefault("quran_api.cache_ttl", 24*time.Hour)
	v.SetDefault("quran_api.translation_id", 136)
	v.SetDefault("quran_api.reciter_id", domain.DefaultReciterID)
	v.SetDefault("quran_api.audio_base_url", "https://audio.qurancdn.com/")
	v.SetDefault("quran_api.transliteration_url", "https://api.alquran.cloud/v1")
	v.SetDefault("openai.api_key", "")
	v.SetDefault("openai.base_url", "")
	v.SetDefault("openai.model", "whisper-1")
	v.SetDefault("openai.timeout", 60*time.Second)
	v.SetDefault("openai.requests_per_second", 0)
	v.SetDefault("openai.burst", 1)
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("http.max_upload_mb", 25)
	v.SetDefault("http.read_timeout", 30*time.Second)
	v.SetDefault("http.write_timeout", 120*time.Second)
	v.SetDefault("app.locales_dir", "locales")
	v.SetDefault("app.default_language", "en")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

func (c *Config) validate() error {
	switch c.App.DefaultLanguage {
	case "en", "ar", "ru":
	default:
		return fmt.Errorf("unsupported default language: %q", c.App.DefaultLanguage)
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("unsupported log format: %q", c.Log.Format)
	}
	if _, ok := domain.GetReciter(c.QuranAPI.ReciterID); !ok {
		return fmt.Errorf("unknown reciter id: %q", c.QuranAPI.ReciterID)
	}
	if c.HTTP.MaxUploadMB <= 0 {
		return fmt.Errorf("http max upload must be positive")
	}
	return nil
}

// ValidateBot checks the settings the Telegram bot cannot start without
func (c *Config) ValidateBot() error {
	if c.Telegram.Token == "" {
		return fmt.Errorf("telegram token is required")
	}
	if c.Redis.URI == "" {
		return fmt.Errorf("redis URI is required")
	}
	if c.QuranAPI.BaseURL == "" {
		return fmt.Errorf("quran API base URL is required")
	}
	return nil
}
