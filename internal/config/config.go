package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Places    PlacesConfig    `yaml:"places" mapstructure:"places"`
	Anthropic AnthropicConfig `yaml:"anthropic" mapstructure:"anthropic"`
	Fetch     FetchConfig     `yaml:"fetch" mapstructure:"fetch"`
	Crawl     CrawlConfig     `yaml:"crawl" mapstructure:"crawl"`
	Extract   ExtractConfig   `yaml:"extract" mapstructure:"extract"`
	Cache     CacheConfig     `yaml:"cache" mapstructure:"cache"`
	Score     ScoreConfig     `yaml:"score" mapstructure:"score"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// PlacesConfig holds Google Places/Geocoding API settings.
type PlacesConfig struct {
	Key     string `yaml:"key" mapstructure:"key"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
	Keyword string `yaml:"keyword" mapstructure:"keyword"`
}

// AnthropicConfig holds Anthropic API settings.
type AnthropicConfig struct {
	Key   string `yaml:"key" mapstructure:"key"`
	Model string `yaml:"model" mapstructure:"model"`
}

// FetchConfig configures the tiered page fetcher.
type FetchConfig struct {
	TimeoutSecs       int      `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	MinTextLength     int      `yaml:"min_text_length" mapstructure:"min_text_length"`
	RenderMarkers     []string `yaml:"render_markers" mapstructure:"render_markers"`
	RenderTimeoutSecs int      `yaml:"render_timeout_secs" mapstructure:"render_timeout_secs"`
	RenderSettleSecs  int      `yaml:"render_settle_secs" mapstructure:"render_settle_secs"`
	UserAgent         string   `yaml:"user_agent" mapstructure:"user_agent"`
}

// CrawlConfig configures link discovery and multi-page aggregation.
// The deny/priority substring lists are configuration data, not code;
// they were tuned empirically and can be overridden per run.
type CrawlConfig struct {
	MaxPages           int      `yaml:"max_pages" mapstructure:"max_pages"`
	MinContentLength   int      `yaml:"min_content_length" mapstructure:"min_content_length"`
	RequestsPerSecond  float64  `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	DenySubstrings     []string `yaml:"deny_substrings" mapstructure:"deny_substrings"`
	PrioritySubstrings []string `yaml:"priority_substrings" mapstructure:"priority_substrings"`
}

// ExtractConfig configures the LLM summarizer.
type ExtractConfig struct {
	Retries          int `yaml:"retries" mapstructure:"retries"`
	BackoffBaseMSecs int `yaml:"backoff_base_msecs" mapstructure:"backoff_base_msecs"`
	SingleCharBudget int `yaml:"single_char_budget" mapstructure:"single_char_budget"`
	SiteCharBudget   int `yaml:"site_char_budget" mapstructure:"site_char_budget"`
	MultiCharBudget  int `yaml:"multi_char_budget" mapstructure:"multi_char_budget"`
}

// CacheConfig configures the local record cache.
type CacheConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// ScoreConfig holds the weight configuration and the discount allow-list
// location. Weights accept any numeric value; the UI range is 0-5.
type ScoreConfig struct {
	Weights      map[string]int `yaml:"weights" mapstructure:"weights"`
	MSFTListPath string         `yaml:"msft_list_path" mapstructure:"msft_list_path"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("CARESCOUT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("places.base_url", "https://maps.googleapis.com/maps/api")
	v.SetDefault("places.keyword", "daycare")
	v.SetDefault("anthropic.model", "claude-haiku-4-5-20251001")
	v.SetDefault("fetch.timeout_secs", 10)
	v.SetDefault("fetch.min_text_length", 200)
	v.SetDefault("fetch.render_timeout_secs", 15)
	v.SetDefault("fetch.render_settle_secs", 3)
	v.SetDefault("fetch.user_agent", "Mozilla/5.0 (compatible; CareScout/1.0)")
	v.SetDefault("fetch.render_markers", []string{
		"enable javascript",
		"you need to enable",
		"loading...",
		"redirecting",
		"checking your browser",
	})
	v.SetDefault("crawl.max_pages", 5)
	v.SetDefault("crawl.min_content_length", 200)
	v.SetDefault("crawl.requests_per_second", 2.0)
	v.SetDefault("crawl.deny_substrings", []string{
		"contact", "admin", "login", "account", "cart", "checkout",
		"privacy", "terms", "legal", "policy", "careers",
		"facebook", "instagram", "twitter", "linkedin", "youtube",
		"sitemap", "feed", "rss", "wp-json",
		".pdf", ".jpg", ".jpeg", ".png", ".gif", ".zip", ".doc",
	})
	v.SetDefault("crawl.priority_substrings", []string{
		"program", "curriculum", "about", "staff", "teacher",
		"meal", "food", "menu", "lunch",
		"enroll", "admission", "tuition", "class",
		"infant", "toddler", "preschool", "care",
	})
	v.SetDefault("extract.retries", 3)
	v.SetDefault("extract.backoff_base_msecs", 2000)
	v.SetDefault("extract.single_char_budget", 16000)
	v.SetDefault("extract.site_char_budget", 24000)
	v.SetDefault("extract.multi_char_budget", 32000)
	v.SetDefault("cache.path", "carescout.db")
	v.SetDefault("score.msft_list_path", "providers_msft.json")
	v.SetDefault("score.weights", map[string]int{
		"Mandarin":           2,
		"Meals":              1,
		"Curriculum":         1,
		"Staff Stability":    2,
		"Cultural Diversity": 1,
		"MSFT Discount":      3,
	})

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
