package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
	Server     ServerConfig     `yaml:"server" mapstructure:"server"`
	Batch      BatchConfig      `yaml:"batch" mapstructure:"batch"`
	Upload     UploadConfig     `yaml:"upload" mapstructure:"upload"`
	OCR        OCRConfig        `yaml:"ocr" mapstructure:"ocr"`
	VLM        VLMConfig        `yaml:"vlm" mapstructure:"vlm"`
	Escalation EscalationConfig `yaml:"escalation" mapstructure:"escalation"`
	Scoring    ScoringConfig    `yaml:"scoring" mapstructure:"scoring"`
	Enrich     EnrichConfig     `yaml:"enrich" mapstructure:"enrich"`
	Hunter     HunterConfig     `yaml:"hunter" mapstructure:"hunter"`
	Abstract   AbstractConfig   `yaml:"abstract" mapstructure:"abstract"`
	GitHub     GitHubConfig     `yaml:"github" mapstructure:"github"`
	Anthropic  AnthropicConfig  `yaml:"anthropic" mapstructure:"anthropic"`
	Gemini     GeminiConfig     `yaml:"gemini" mapstructure:"gemini"`
	Mistral    MistralConfig    `yaml:"mistral" mapstructure:"mistral"`
	Retry      RetryConfig      `yaml:"retry" mapstructure:"retry"`
	Circuit    CircuitConfig    `yaml:"circuit" mapstructure:"circuit"`
	RulesPath  string           `yaml:"rules_path" mapstructure:"rules_path"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" mapstructure:"format" validate:"oneof=json console"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port        int      `yaml:"port" mapstructure:"port" validate:"min=1,max=65535"`
	CORSOrigins []string `yaml:"cors_origins" mapstructure:"cors_origins"`
}

// BatchConfig configures batch processing.
type BatchConfig struct {
	Workers    int `yaml:"workers" mapstructure:"workers" validate:"min=1,max=64"`
	MaxImages  int `yaml:"max_images" mapstructure:"max_images" validate:"min=1"`
	JobTTLMins int `yaml:"job_ttl_mins" mapstructure:"job_ttl_mins" validate:"min=1"`
}

// UploadConfig limits accepted card images.
type UploadConfig struct {
	MaxBytes          int64    `yaml:"max_bytes" mapstructure:"max_bytes" validate:"min=1"`
	Dir               string   `yaml:"dir" mapstructure:"dir"`
	AllowedExtensions []string `yaml:"allowed_extensions" mapstructure:"allowed_extensions" validate:"min=1"`
}

// OCRConfig selects and tunes the OCR provider.
type OCRConfig struct {
	Provider      string `yaml:"provider" mapstructure:"provider" validate:"oneof=tesseract mistral"`
	TesseractPath string `yaml:"tesseract_path" mapstructure:"tesseract_path"`
	Language      string `yaml:"language" mapstructure:"language"`
	PSM           int    `yaml:"psm" mapstructure:"psm" validate:"min=0,max=13"`
	TimeoutSecs   int    `yaml:"timeout_secs" mapstructure:"timeout_secs" validate:"min=1"`
}

// VLMConfig selects the vision-language fallback. Provider "none" disables it.
type VLMConfig struct {
	Provider    string `yaml:"provider" mapstructure:"provider" validate:"oneof=gemini anthropic none"`
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs" validate:"min=1"`
}

// EscalationConfig holds the thresholds that send a card to the VLM.
type EscalationConfig struct {
	OCRThreshold     float64 `yaml:"ocr_threshold" mapstructure:"ocr_threshold" validate:"min=0,max=1"`
	MinKeyFields     int     `yaml:"min_key_fields" mapstructure:"min_key_fields" validate:"min=0,max=4"`
	DetectCorruption bool    `yaml:"detect_corruption" mapstructure:"detect_corruption"`
}

// ScoringConfig configures the confidence scorer.
type ScoringConfig struct {
	Weights WeightsConfig `yaml:"weights" mapstructure:"weights"`
}

// WeightsConfig holds the per-field weights of the overall confidence.
type WeightsConfig struct {
	Name     float64 `yaml:"name" mapstructure:"name" validate:"min=0"`
	Email    float64 `yaml:"email" mapstructure:"email" validate:"min=0"`
	Phone    float64 `yaml:"phone" mapstructure:"phone" validate:"min=0"`
	Company  float64 `yaml:"company" mapstructure:"company" validate:"min=0"`
	Title    float64 `yaml:"title" mapstructure:"title" validate:"min=0"`
	Website  float64 `yaml:"website" mapstructure:"website" validate:"min=0"`
	Address  float64 `yaml:"address" mapstructure:"address" validate:"min=0"`
	LinkedIn float64 `yaml:"linkedin" mapstructure:"linkedin" validate:"min=0"`
	Twitter  float64 `yaml:"twitter" mapstructure:"twitter" validate:"min=0"`
}

// EnrichConfig configures company enrichment and researcher lookups.
type EnrichConfig struct {
	Enabled           bool    `yaml:"enabled" mapstructure:"enabled"`
	ScrapeMeta        bool    `yaml:"scrape_meta" mapstructure:"scrape_meta"`
	TimeoutSecs       int     `yaml:"timeout_secs" mapstructure:"timeout_secs" validate:"min=1"`
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second" validate:"gt=0"`
	UserAgent         string  `yaml:"user_agent" mapstructure:"user_agent"`
}

// HunterConfig holds Hunter.io API settings.
type HunterConfig struct {
	Key     string `yaml:"key" mapstructure:"key"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url" validate:"url"`
}

// AbstractConfig holds Abstract API email-validation settings.
type AbstractConfig struct {
	Key     string `yaml:"key" mapstructure:"key"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url" validate:"url"`
}

// GitHubConfig holds GitHub REST API settings. The token is optional.
type GitHubConfig struct {
	Token   string `yaml:"token" mapstructure:"token"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url" validate:"url"`
}

// AnthropicConfig holds Anthropic API settings.
type AnthropicConfig struct {
	Key       string `yaml:"key" mapstructure:"key"`
	Model     string `yaml:"model" mapstructure:"model"`
	MaxTokens int    `yaml:"max_tokens" mapstructure:"max_tokens" validate:"min=1"`
}

// GeminiConfig holds Google Gemini API settings.
type GeminiConfig struct {
	Key   string `yaml:"key" mapstructure:"key"`
	Model string `yaml:"model" mapstructure:"model"`
}

// MistralConfig holds Mistral OCR API settings.
type MistralConfig struct {
	Key     string `yaml:"key" mapstructure:"key"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url" validate:"url"`
	Model   string `yaml:"model" mapstructure:"model"`
}

// RetryConfig controls retries of vendor calls.
type RetryConfig struct {
	MaxAttempts      int     `yaml:"max_attempts" mapstructure:"max_attempts" validate:"min=1"`
	InitialBackoffMs int     `yaml:"initial_backoff_ms" mapstructure:"initial_backoff_ms" validate:"min=0"`
	MaxBackoffMs     int     `yaml:"max_backoff_ms" mapstructure:"max_backoff_ms" validate:"min=0"`
	Multiplier       float64 `yaml:"multiplier" mapstructure:"multiplier" validate:"min=0"`
	JitterFraction   float64 `yaml:"jitter_fraction" mapstructure:"jitter_fraction" validate:"min=0,max=1"`
}

// CircuitConfig controls the per-provider circuit breakers.
type CircuitConfig struct {
	FailureThreshold int `yaml:"failure_threshold" mapstructure:"failure_threshold" validate:"min=1"`
	ResetTimeoutSecs int `yaml:"reset_timeout_secs" mapstructure:"reset_timeout_secs" validate:"min=1"`
}

// Load reads configuration from .env, config file and environment.
func Load() (*Config, error) {
	// .env is optional; real environment variables win over it.
	_ = godotenv.Load()

	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("CARDSCAN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("batch.workers", 4)
	v.SetDefault("batch.max_images", 50)
	v.SetDefault("batch.job_ttl_mins", 60)
	v.SetDefault("upload.max_bytes", 16<<20)
	v.SetDefault("upload.dir", "")
	v.SetDefault("upload.allowed_extensions", []string{"png", "jpg", "jpeg", "gif", "bmp", "webp"})
	v.SetDefault("ocr.provider", "tesseract")
	v.SetDefault("ocr.tesseract_path", "tesseract")
	v.SetDefault("ocr.language", "eng")
	v.SetDefault("ocr.psm", 3)
	v.SetDefault("ocr.timeout_secs", 30)
	v.SetDefault("vlm.provider", "gemini")
	v.SetDefault("vlm.timeout_secs", 60)
	v.SetDefault("escalation.ocr_threshold", 0.70)
	v.SetDefault("escalation.min_key_fields", 3)
	v.SetDefault("escalation.detect_corruption", true)
	v.SetDefault("scoring.weights.name", 0.25)
	v.SetDefault("scoring.weights.email", 0.25)
	v.SetDefault("scoring.weights.phone", 0.15)
	v.SetDefault("scoring.weights.company", 0.15)
	v.SetDefault("scoring.weights.title", 0.10)
	v.SetDefault("scoring.weights.website", 0.05)
	v.SetDefault("scoring.weights.address", 0.03)
	v.SetDefault("scoring.weights.linkedin", 0.02)
	v.SetDefault("scoring.weights.twitter", 0.0)
	v.SetDefault("enrich.enabled", false)
	v.SetDefault("enrich.scrape_meta", true)
	v.SetDefault("enrich.timeout_secs", 15)
	v.SetDefault("enrich.requests_per_second", 2.0)
	v.SetDefault("enrich.user_agent", "cardscan/1.0 (+https://github.com/sells-group/cardscan)")
	v.SetDefault("hunter.key", "")
	v.SetDefault("hunter.base_url", "https://api.hunter.io/v2")
	v.SetDefault("abstract.key", "")
	v.SetDefault("abstract.base_url", "https://emailvalidation.abstractapi.com/v1")
	v.SetDefault("github.token", "")
	v.SetDefault("github.base_url", "https://api.github.com")
	v.SetDefault("anthropic.key", "")
	v.SetDefault("anthropic.model", "claude-sonnet-4-5-20250929")
	v.SetDefault("anthropic.max_tokens", 1024)
	v.SetDefault("gemini.key", "")
	v.SetDefault("gemini.model", "gemini-1.5-flash")
	v.SetDefault("mistral.key", "")
	v.SetDefault("mistral.base_url", "https://api.mistral.ai/v1")
	v.SetDefault("mistral.model", "mistral-ocr-latest")
	v.SetDefault("retry.max_attempts", 3)
	v.SetDefault("retry.initial_backoff_ms", 500)
	v.SetDefault("retry.max_backoff_ms", 10_000)
	v.SetDefault("retry.multiplier", 2.0)
	v.SetDefault("retry.jitter_fraction", 0.25)
	v.SetDefault("circuit.failure_threshold", 5)
	v.SetDefault("circuit.reset_timeout_secs", 30)
	v.SetDefault("rules_path", "")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks struct tags and the settings a command mode depends on.
// Known modes are "extract", "batch" and "serve".
func (c *Config) Validate(mode string) error {
	var errs []string

	if err := validator.New().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				errs = append(errs, fmt.Sprintf("%s failed %q", strings.ToLower(fe.Namespace()), fe.Tag()))
			}
		} else {
			errs = append(errs, err.Error())
		}
	}

	w := c.Scoring.Weights
	if w.Name+w.Email+w.Phone+w.Company+w.Title+w.Website+w.Address+w.LinkedIn+w.Twitter <= 0 {
		errs = append(errs, "scoring.weights must sum to a positive number")
	}
	if c.Retry.MaxBackoffMs > 0 && c.Retry.MaxBackoffMs < c.Retry.InitialBackoffMs {
		errs = append(errs, "retry.max_backoff_ms must be >= retry.initial_backoff_ms")
	}

	switch mode {
	case "extract", "batch", "serve":
		if c.OCR.Provider == "mistral" && c.Mistral.Key == "" {
			errs = append(errs, "mistral.key is required when ocr.provider is mistral")
		}
	default:
		errs = append(errs, fmt.Sprintf("unknown mode %q", mode))
	}

	if len(errs) > 0 {
		return eris.Errorf("config: validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

// VLMKey returns the API key of the configured VLM provider, or "" when the
// provider is disabled.
func (c *Config) VLMKey() string {
	switch c.VLM.Provider {
	case "gemini":
		return c.Gemini.Key
	case "anthropic":
		return c.Anthropic.Key
	}
	return ""
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
