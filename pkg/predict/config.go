package predict

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"voyager-api/pkg/confkit"
)

const (
	defaultModel       = "gpt-4o-mini"
	defaultTemperature = 0.2
	defaultMaxTokens   = 400
	defaultTimeout     = 30 * time.Second
	defaultMaxRetries  = 2
)

// Config describes the commentary client. An empty API key disables the
// client rather than failing: commentary is a best-effort supplement.
type Config struct {
	APIKey      string  `yaml:"api_key"`
	BaseURL     string  `yaml:"base_url"`
	Model       string  `yaml:"model"`
	Temperature float64 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`

	TimeoutRaw string        `yaml:"timeout"`
	Timeout    time.Duration `yaml:"-"`
	MaxRetries int           `yaml:"max_retries"`
}

// Enabled reports whether the config carries an API key.
func (c *Config) Enabled() bool {
	return c != nil && strings.TrimSpace(c.APIKey) != ""
}

// LoadConfig reads commentary configuration from disk.
func LoadConfig(path string) (*Config, error) {
	confkit.LoadDotenvOnce()
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open predict config: %w", err)
	}
	defer file.Close()
	return LoadConfigFromReader(file)
}

// MustLoad reads commentary configuration from the default project location
// and panics on error.
func MustLoad() *Config {
	path := confkit.MustProjectPath("etc/predict.yaml")
	cfg, err := LoadConfig(path)
	if err != nil {
		panic(err)
	}
	return cfg
}

// LoadConfigFromReader constructs a Config from an io.Reader.
func LoadConfigFromReader(r io.Reader) (*Config, error) {
	confkit.LoadDotenvOnce()
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read predict config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal predict config: %w", err)
	}
	if err := cfg.normalise(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) normalise() error {
	c.APIKey = strings.TrimSpace(os.ExpandEnv(c.APIKey))
	c.BaseURL = strings.TrimSpace(os.ExpandEnv(c.BaseURL))
	c.Model = strings.TrimSpace(os.ExpandEnv(c.Model))
	if c.Model == "" {
		c.Model = defaultModel
	}
	if c.Temperature <= 0 {
		c.Temperature = defaultTemperature
	}
	if c.MaxTokens <= 0 {
		c.MaxTokens = defaultMaxTokens
	}
	if c.MaxRetries < 0 {
		c.MaxRetries = 0
	}
	if c.MaxRetries == 0 {
		c.MaxRetries = defaultMaxRetries
	}

	c.Timeout = defaultTimeout
	if raw := strings.TrimSpace(c.TimeoutRaw); raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			return fmt.Errorf("predict: parse timeout %q: %w", raw, err)
		}
		if parsed <= 0 {
			return fmt.Errorf("predict: timeout must be positive, got %q", raw)
		}
		c.Timeout = parsed
	}
	return nil
}
