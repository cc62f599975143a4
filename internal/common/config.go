package common

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration
type Config struct {
	Input   InputConfig   `yaml:"input"`
	Output  OutputConfig  `yaml:"output"`
	OCR     OCRConfig     `yaml:"ocr"`
	LLM     LLMConfig     `yaml:"llm"`
	Snippet SnippetConfig `yaml:"snippet"`
	Cache   CacheConfig   `yaml:"cache"`
	Metrics MetricsConfig `yaml:"metrics"`

	Workers     int  `yaml:"workers"`
	Redact      bool `yaml:"redact"`
	AuditRawOCR bool `yaml:"auditRawOcr"`
}

// InputConfig holds the source selection (a file or a directory).
type InputConfig struct {
	Path string `yaml:"path"`
}

// OutputConfig holds every output destination of a batch run.
type OutputConfig struct {
	Path      string `yaml:"path"`      // combined batch JSON (required)
	JSONLPath string `yaml:"jsonlPath"` // empty disables the JSONL stream
	XLSXPath  string `yaml:"xlsxPath"`  // empty disables the XLSX summary
	PerFile   bool   `yaml:"perFile"`   // one <stem>.extracted.json per document
}

// OCRConfig holds text-acquisition settings.
type OCRConfig struct {
	Language  string `yaml:"language"`
	Pdftotext string `yaml:"pdftotext"`
	Pdftoppm  string `yaml:"pdftoppm"`
	Tesseract string `yaml:"tesseract"`
	DPI       int    `yaml:"dpi"`
	MaxPages  int    `yaml:"maxPages"` // 0 = no limit
}

// LLMConfig holds extraction-service settings.
type LLMConfig struct {
	Model              string        `yaml:"model"`
	APIKey             string        `yaml:"apiKey"`
	BaseURL            string        `yaml:"baseUrl"`
	Timeout            time.Duration `yaml:"timeout"`
	MinRequestInterval time.Duration `yaml:"minRequestInterval"`
	Temperature        float32       `yaml:"temperature"`
}

// SnippetConfig bounds the excerpt sent to the extraction service.
type SnippetConfig struct {
	MaxLines int `yaml:"maxLines"`
	MaxChars int `yaml:"maxChars"`
}

// CacheConfig selects the cache backend by location:
// empty disables caching, a directory path uses per-key JSON files,
// a *.db path uses an embedded sqlite store, redis:// uses Redis.
type CacheConfig struct {
	Location string `yaml:"location"`
}

// MetricsConfig holds the optional Prometheus scrape address.
type MetricsConfig struct {
	Addr string `yaml:"addr"`
}

// LoadConfig reads an optional YAML file, applies environment overrides,
// then normalizes defaults and floors.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(b, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}
	cfg.applyEnv()
	cfg.Normalize()
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.LLM.APIKey = getEnv("OPENAI_API_KEY", c.LLM.APIKey)
	c.LLM.BaseURL = getEnv("OPENAI_BASE_URL", c.LLM.BaseURL)
	c.LLM.Model = getEnv("OPENAI_MODEL", c.LLM.Model)
	c.OCR.Language = getEnv("OCR_LANG", c.OCR.Language)
	c.Cache.Location = getEnv("INTAKE_CACHE", c.Cache.Location)
	c.Workers = getEnvAsInt("INTAKE_WORKERS", c.Workers)
}

// Normalize fills defaults and clamps floors. Call it again after applying
// overrides on top of a loaded config.
func (c *Config) Normalize() {
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
		if c.Workers <= 0 {
			c.Workers = 4
		}
	}
	if c.OCR.Language == "" {
		c.OCR.Language = "eng"
	}
	if c.OCR.DPI <= 0 {
		c.OCR.DPI = 300
	}
	if c.LLM.Model == "" {
		c.LLM.Model = "gpt-4o-mini"
	}
	if c.LLM.BaseURL == "" {
		c.LLM.BaseURL = "https://api.openai.com/v1"
	}
	if c.LLM.Timeout <= 0 {
		c.LLM.Timeout = 120 * time.Second
	}
	if c.LLM.Timeout < 30*time.Second {
		c.LLM.Timeout = 30 * time.Second
	}
	if c.LLM.MinRequestInterval <= 0 {
		c.LLM.MinRequestInterval = time.Second / 3
	}
	if c.Snippet.MaxLines <= 0 {
		c.Snippet.MaxLines = 14
	}
	if c.Snippet.MaxLines < 6 {
		c.Snippet.MaxLines = 6
	}
	if c.Snippet.MaxChars <= 0 {
		c.Snippet.MaxChars = 1400
	}
	if c.Snippet.MaxChars < 500 {
		c.Snippet.MaxChars = 500
	}
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	if c.Input.Path == "" {
		return NewAppError("CONFIG_ERROR", "input path is required", ErrInvalidInput)
	}
	if c.Output.Path == "" {
		return NewAppError("CONFIG_ERROR", "output path is required", ErrInvalidInput)
	}
	if c.LLM.APIKey == "" {
		return NewAppError("CONFIG_ERROR", "OPENAI_API_KEY is required", ErrInvalidInput)
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
