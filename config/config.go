package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const EnvPrefix = "YTSUM"

// Config is everything a run needs. It is built once at startup and handed
// to the parts that need it.
type Config struct {
	YoutubeAPIKey  string        `mapstructure:"youtube_api_key"`
	OpenAIAPIKey   string        `mapstructure:"openai_api_key"`
	OpenAIBaseURL  string        `mapstructure:"openai_base_url"`
	OpenAIModel    string        `mapstructure:"openai_model"`
	MaxTokens      int           `mapstructure:"max_tokens"`
	TranscriptsDir string        `mapstructure:"transcripts_dir"`
	SummariesDir   string        `mapstructure:"summaries_dir"`
	LogFile        string        `mapstructure:"log_file"`
	LogLevel       string        `mapstructure:"log_level"`
	LogStderr      bool          `mapstructure:"log_stderr"`
	Languages      []string      `mapstructure:"languages"`
	HTTPTimeout    time.Duration `mapstructure:"http_timeout"`
}

func Default() Config {
	return Config{
		OpenAIModel:    "gpt-3.5-turbo",
		MaxTokens:      150,
		TranscriptsDir: "transcripts",
		SummariesDir:   "summaries",
		LogFile:        "transcript_summary.log",
		LogLevel:       "info",
		Languages:      []string{"en"},
		HTTPTimeout:    30 * time.Second,
	}
}

// New returns a viper instance with defaults for every key and environment
// lookup under the YTSUM_ prefix, e.g. YTSUM_OPENAI_API_KEY.
func New() *viper.Viper {
	def := Default()
	v := viper.New()
	v.SetDefault("youtube_api_key", def.YoutubeAPIKey)
	v.SetDefault("openai_api_key", def.OpenAIAPIKey)
	v.SetDefault("openai_base_url", def.OpenAIBaseURL)
	v.SetDefault("openai_model", def.OpenAIModel)
	v.SetDefault("max_tokens", def.MaxTokens)
	v.SetDefault("transcripts_dir", def.TranscriptsDir)
	v.SetDefault("summaries_dir", def.SummariesDir)
	v.SetDefault("log_file", def.LogFile)
	v.SetDefault("log_level", def.LogLevel)
	v.SetDefault("log_stderr", def.LogStderr)
	v.SetDefault("languages", def.Languages)
	v.SetDefault("http_timeout", def.HTTPTimeout)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	return v
}

// ReadFile reads the given config file. Without a path, ytsum.{yaml,json,toml}
// in the working directory is used when it exists.
func ReadFile(v *viper.Viper, path string) error {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config file: %w", err)
		}
		return nil
	}

	v.SetConfigName("ytsum")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("reading config file: %w", err)
	}

	return nil
}

func Load(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) Validate() error {
	if c.YoutubeAPIKey == "" {
		return fmt.Errorf("youtube_api_key must not be empty (set %s_YOUTUBE_API_KEY)", EnvPrefix)
	}
	if c.OpenAIAPIKey == "" {
		return fmt.Errorf("openai_api_key must not be empty (set %s_OPENAI_API_KEY)", EnvPrefix)
	}
	if c.OpenAIModel == "" {
		return fmt.Errorf("openai_model must not be empty")
	}
	if c.MaxTokens <= 0 {
		return fmt.Errorf("max_tokens must be > 0, got %d", c.MaxTokens)
	}
	if c.TranscriptsDir == "" || c.SummariesDir == "" {
		return fmt.Errorf("transcripts_dir and summaries_dir must not be empty")
	}
	if c.LogFile == "" {
		return fmt.Errorf("log_file must not be empty")
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level must be debug, info, warn, or error, got %q", c.LogLevel)
	}

	return nil
}
