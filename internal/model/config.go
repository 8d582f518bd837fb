package model

import "time"

// Config is the complete ideajudge configuration
type Config struct {
	LLM          LLMConfig          `yaml:"llm" mapstructure:"llm"`
	Rubric       RubricConfig       `yaml:"rubric" mapstructure:"rubric"`
	Export       ExportConfig       `yaml:"export" mapstructure:"export"`
	RateLimiting RateLimitingConfig `yaml:"rate_limiting" mapstructure:"rate_limiting"`
	Concurrency  ConcurrencyConfig  `yaml:"concurrency" mapstructure:"concurrency"`
	Output       OutputConfig       `yaml:"output" mapstructure:"output"`
	Log          LogConfig          `yaml:"log" mapstructure:"log"`
}

// LLMConfig configures the external model boundary
type LLMConfig struct {
	Provider    string  `yaml:"provider" mapstructure:"provider"` // gemini, openai, anthropic, ollama
	Model       string  `yaml:"model" mapstructure:"model"`
	APIKey      string  `yaml:"api_key,omitempty" mapstructure:"api_key"`
	BaseURL     string  `yaml:"base_url,omitempty" mapstructure:"base_url"`
	Timeout     int     `yaml:"timeout_seconds" mapstructure:"timeout_seconds"`
	MaxTokens   int     `yaml:"max_tokens" mapstructure:"max_tokens"`
	Temperature float32 `yaml:"temperature" mapstructure:"temperature"`
	Seed        *int    `yaml:"seed,omitempty" mapstructure:"seed"` // Fixed seed for providers that support one
	HTTPProxy   string  `yaml:"http_proxy,omitempty" mapstructure:"http_proxy"`
	HTTPSProxy  string  `yaml:"https_proxy,omitempty" mapstructure:"https_proxy"`
	NoProxy     string  `yaml:"no_proxy,omitempty" mapstructure:"no_proxy"`
}

// RubricConfig selects the rubric policy
type RubricConfig struct {
	// Policy pins one policy by name. Empty selects the policy owning the idea's category.
	Policy string `yaml:"policy" mapstructure:"policy"`
}

// ExportConfig configures the paginated document export
type ExportConfig struct {
	PageWidthMM  float64       `yaml:"page_width_mm" mapstructure:"page_width_mm"`
	PageHeightMM float64       `yaml:"page_height_mm" mapstructure:"page_height_mm"`
	MarginMM     float64       `yaml:"margin_mm" mapstructure:"margin_mm"`
	RasterWidth  int           `yaml:"raster_width_px" mapstructure:"raster_width_px"`
	FontPath     string        `yaml:"font_path,omitempty" mapstructure:"font_path"` // TTF/OTF with CJK glyphs
	FontSize     float64       `yaml:"font_size" mapstructure:"font_size"`
	CacheTTL     time.Duration `yaml:"cache_ttl" mapstructure:"cache_ttl"`
	OutputDir    string        `yaml:"output_dir" mapstructure:"output_dir"`
}

// RateLimitingConfig throttles calls to the model provider
type RateLimitingConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	BurstSize         int     `yaml:"burst_size" mapstructure:"burst_size"`
}

// ConcurrencyConfig sizes the batch worker pool
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// OutputConfig controls rendered outputs
type OutputConfig struct {
	Verbose       bool `yaml:"verbose" mapstructure:"verbose"`
	IncludeFooter bool `yaml:"include_footer" mapstructure:"include_footer"`
}

// LogConfig controls the process logger
type LogConfig struct {
	Level string `yaml:"level" mapstructure:"level"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		LLM: LLMConfig{
			Provider:    "gemini",
			Model:       "gemini-2.5-pro",
			Timeout:     120,
			MaxTokens:   8192,
			Temperature: 0.4,
		},
		Export: ExportConfig{
			PageWidthMM:  210,
			PageHeightMM: 297,
			MarginMM:     10,
			RasterWidth:  1200,
			FontSize:     16,
			CacheTTL:     30 * time.Minute,
			OutputDir:    ".",
		},
		RateLimiting: RateLimitingConfig{
			RequestsPerSecond: 1,
			BurstSize:         2,
		},
		Concurrency: ConcurrencyConfig{
			Workers: 2,
		},
		Output: OutputConfig{
			IncludeFooter: true,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}
