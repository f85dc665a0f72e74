package walkthrough

import (
	"fmt"
	"os"
	"regexp"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/joho/godotenv"
)

// Config represents the walkthrough tool configuration
type Config struct {
	Output     OutputConfig              `yaml:"output"`
	LLM        LLMConfig                 `yaml:"llm"`
	Validation ValidationConfig          `yaml:"validation"`
	Languages  map[string]LanguageConfig `yaml:"languages"`
	Theme      map[string]string         `yaml:"theme"`
}

// OutputConfig represents how generated documents are written
type OutputConfig struct {
	Format string `yaml:"format"` // json or yaml
	Dir    string `yaml:"dir"`    // Empty means next to the input file
}

// LLMConfig represents the AI-backed parser settings
type LLMConfig struct {
	Provider  string        `yaml:"provider"`
	Model     string        `yaml:"model"`
	BaseURL   string        `yaml:"base_url"`
	APIKey    string        `yaml:"api_key"`
	MaxTokens int           `yaml:"max_tokens"`
	Timeout   time.Duration `yaml:"timeout"`
}

// ValidationConfig represents validation settings
type ValidationConfig struct {
	Strict         bool                   `yaml:"strict"`
	MaxTitleLength int                    `yaml:"max_title_length"`
	Rules          []ValidationRuleConfig `yaml:"rules"`
}

// ValidationRuleConfig is a custom check written as a CEL expression over
// step, metadata and index. A warning is reported when it evaluates to true.
type ValidationRuleConfig struct {
	Name    string `yaml:"name"`
	Type    string `yaml:"type"` // structure, compatibility or quality
	Expr    string `yaml:"expr"`
	Message string `yaml:"message"`
}

// LanguageConfig describes a custom tokenizer language.
// Rules are tried in declaration order.
type LanguageConfig struct {
	Rules []LanguageRuleConfig `yaml:"rules"`
}

// LanguageRuleConfig is one category pattern of a custom language
type LanguageRuleConfig struct {
	Type    string `yaml:"type"`
	Pattern string `yaml:"pattern"`
	Group   int    `yaml:"group"`
}

// LoadConfig loads configuration from the specified file
func LoadConfig(configPath string) (*Config, error) {
	// Load .env files first
	err := loadEnvFiles()
	if err != nil {
		return nil, fmt.Errorf("failed to load environment files: %w", err)
	}

	// Check if config file exists
	_, err = os.Stat(configPath)
	if os.IsNotExist(err) {
		// Return default configuration if file doesn't exist
		config := getDefaultConfig()
		expandConfigEnvVars(config)

		return config, nil
	}

	// Read config file
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Parse YAML with strict mode to detect unknown fields
	var config Config

	err = yaml.UnmarshalWithOptions(data, &config, yaml.Strict())
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, err
	}

	applyDefaults(&config)
	expandConfigEnvVars(&config)

	return &config, nil
}

// validateConfig validates the configuration for common errors and inconsistencies
func validateConfig(config *Config) error {
	if config.Output.Format != "" {
		validFormats := map[string]bool{
			"json": true,
			"yaml": true,
		}
		if !validFormats[config.Output.Format] {
			return fmt.Errorf("%w: output.format '%s' is invalid: must be one of json, yaml", ErrConfigValidation, config.Output.Format)
		}
	}

	if config.LLM.Provider != "" && config.LLM.Provider != "anthropic" {
		return fmt.Errorf("%w: llm.provider '%s' is not supported: must be anthropic", ErrConfigValidation, config.LLM.Provider)
	}

	if config.LLM.MaxTokens < 0 {
		return fmt.Errorf("%w: llm.max_tokens must be non-negative, got %d", ErrConfigValidation, config.LLM.MaxTokens)
	}

	if config.LLM.Timeout < 0 {
		return fmt.Errorf("%w: llm.timeout must be >= 0, got %s", ErrConfigValidation, config.LLM.Timeout)
	}

	if config.Validation.MaxTitleLength < 0 {
		return fmt.Errorf("%w: validation.max_title_length must be non-negative, got %d", ErrConfigValidation, config.Validation.MaxTitleLength)
	}

	validRuleTypes := map[string]bool{
		"":              true,
		"structure":     true,
		"compatibility": true,
		"quality":       true,
	}
	for i, rule := range config.Validation.Rules {
		if rule.Name == "" {
			return fmt.Errorf("%w: validation.rules[%d]: name is required", ErrConfigValidation, i)
		}

		if rule.Expr == "" {
			return fmt.Errorf("%w: validation.rules[%d]: expr is required", ErrConfigValidation, i)
		}

		if !validRuleTypes[rule.Type] {
			return fmt.Errorf("%w: validation.rules[%d]: type '%s' is invalid: must be one of structure, compatibility, quality", ErrConfigValidation, i, rule.Type)
		}
	}

	for name, lang := range config.Languages {
		if len(lang.Rules) == 0 {
			return fmt.Errorf("%w: languages.%s: at least one rule is required", ErrConfigValidation, name)
		}

		for i, rule := range lang.Rules {
			if rule.Type == "" {
				return fmt.Errorf("%w: languages.%s.rules[%d]: type is required", ErrConfigValidation, name, i)
			}

			re, err := regexp.Compile(rule.Pattern)
			if err != nil || rule.Pattern == "" {
				return fmt.Errorf("%w: languages.%s.rules[%d]: invalid pattern %q", ErrConfigValidation, name, i, rule.Pattern)
			}

			if rule.Group < 0 || rule.Group > re.NumSubexp() {
				return fmt.Errorf("%w: languages.%s.rules[%d]: group %d out of range", ErrConfigValidation, name, i, rule.Group)
			}
		}
	}

	return nil
}

// getDefaultConfig returns the default configuration
func getDefaultConfig() *Config {
	return &Config{
		Output: OutputConfig{
			Format: "json",
		},
		LLM: LLMConfig{
			Provider:  "anthropic",
			Model:     "claude-sonnet-4-20250514",
			BaseURL:   "https://api.anthropic.com/v1",
			APIKey:    "${ANTHROPIC_API_KEY}",
			MaxTokens: 4096,
			Timeout:   120 * time.Second,
		},
		Validation: ValidationConfig{
			Strict:         false,
			MaxTitleLength: 80,
		},
		Languages: make(map[string]LanguageConfig),
		Theme:     make(map[string]string),
	}
}

// applyDefaults applies default values to missing configuration fields
func applyDefaults(config *Config) {
	defaults := getDefaultConfig()

	if config.Output.Format == "" {
		config.Output.Format = defaults.Output.Format
	}

	if config.LLM.Provider == "" {
		config.LLM.Provider = defaults.LLM.Provider
	}

	if config.LLM.Model == "" {
		config.LLM.Model = defaults.LLM.Model
	}

	if config.LLM.BaseURL == "" {
		config.LLM.BaseURL = defaults.LLM.BaseURL
	}

	if config.LLM.APIKey == "" {
		config.LLM.APIKey = defaults.LLM.APIKey
	}

	if config.LLM.MaxTokens == 0 {
		config.LLM.MaxTokens = defaults.LLM.MaxTokens
	}

	if config.LLM.Timeout == 0 {
		config.LLM.Timeout = defaults.LLM.Timeout
	}

	if config.Validation.MaxTitleLength == 0 {
		config.Validation.MaxTitleLength = defaults.Validation.MaxTitleLength
	}

	if config.Languages == nil {
		config.Languages = make(map[string]LanguageConfig)
	}

	if config.Theme == nil {
		config.Theme = make(map[string]string)
	}
}

// loadEnvFiles loads .env files if they exist
func loadEnvFiles() error {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			return fmt.Errorf("failed to load .env file: %w", err)
		}
	}

	return nil
}

var (
	bracedEnvVar = regexp.MustCompile(`\$\{([^}]+)\}`)
	plainEnvVar  = regexp.MustCompile(`\$([A-Za-z_][A-Za-z0-9_]*)`)
)

// expandEnvVars expands environment variables in the format ${VAR} or $VAR
func expandEnvVars(s string) string {
	s = bracedEnvVar.ReplaceAllStringFunc(s, func(match string) string {
		return os.Getenv(match[2 : len(match)-1])
	})

	return plainEnvVar.ReplaceAllStringFunc(s, func(match string) string {
		return os.Getenv(match[1:])
	})
}

// expandConfigEnvVars expands environment variables in config values that may carry secrets or paths
func expandConfigEnvVars(config *Config) {
	config.Output.Dir = expandEnvVars(config.Output.Dir)
	config.LLM.BaseURL = expandEnvVars(config.LLM.BaseURL)
	config.LLM.APIKey = expandEnvVars(config.LLM.APIKey)
}
