package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/viper"
)

const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"

	DefaultModel        = "gpt-4o-mini"
	DefaultMaxSteps     = 10
	DefaultSystemPrompt = "You are a helpful assistant. Use the available tools when they help answer the user's question. " +
		"If you need guidance from a human expert, use the human_assistance tool."
)

var ErrNoProfiles = errors.New("no profiles defined")

type Profile struct {
	Provider      string  `json:"provider,omitempty" mapstructure:"provider"`
	APIKey        string  `json:"api_key" mapstructure:"api_key"`
	BaseURL       string  `json:"base_url,omitempty" mapstructure:"base_url"`
	Model         string  `json:"model" mapstructure:"model"`
	Temperature   float64 `json:"temperature,omitempty" mapstructure:"temperature"`
	SearchAPIKey  string  `json:"search_api_key,omitempty" mapstructure:"search_api_key"`
	SearchBaseURL string  `json:"search_base_url,omitempty" mapstructure:"search_base_url"`
}

// GetProvider returns the provider, defaulting to openai
func (p Profile) GetProvider() string {
	if p.Provider == "" {
		return ProviderOpenAI
	}
	return strings.ToLower(p.Provider)
}

type LoggingConfig struct {
	Level string `json:"level,omitempty" mapstructure:"level"`
	File  string `json:"file,omitempty" mapstructure:"file"`
}

type Config struct {
	Profiles      map[string]Profile `json:"profiles" mapstructure:"profiles"`
	ActiveProfile string             `json:"active_profile" mapstructure:"active_profile"`
	SystemPrompt  string             `json:"system_prompt,omitempty" mapstructure:"system_prompt"`
	MaxSteps      int                `json:"max_steps,omitempty" mapstructure:"max_steps"`
	Logging       LoggingConfig      `json:"logging,omitempty" mapstructure:"logging"`

	path           string
	currentProfile *Profile
}

// LoadConfig loads the config from $RORIAGENT_HOME/.roriagent or the home directory
func LoadConfig() (*Config, error) {
	configPath, err := getConfigPath()
	if err != nil {
		return nil, fmt.Errorf("failed to get config path: %w", err)
	}
	return LoadConfigFrom(configPath)
}

// LoadConfigFrom loads the config file at configPath, creating a default one if missing.
// RORIAGENT_* environment variables override file values.
func LoadConfigFrom(configPath string) (*Config, error) {
	if err := ensureConfigDir(configPath); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := saveConfig(defaultConfig(), configPath); err != nil {
			return nil, fmt.Errorf("failed to write default config: %w", err)
		}
	}

	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("json")
	v.SetEnvPrefix("RORIAGENT")
	v.AutomaticEnv()
	_ = v.BindEnv("openai_api_key", "OPENAI_API_KEY")
	_ = v.BindEnv("anthropic_api_key", "ANTHROPIC_API_KEY")
	_ = v.BindEnv("tavily_api_key", "TAVILY_API_KEY")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	config.path = configPath
	config.applyDefaults(configPath)

	if err := config.setCurrentProfile(); err != nil {
		return nil, fmt.Errorf("failed to set current profile: %w", err)
	}
	config.applyEnvOverrides(v)

	return config, nil
}

func (c *Config) applyDefaults(configPath string) {
	if c.Profiles == nil {
		c.Profiles = map[string]Profile{}
	}
	if c.SystemPrompt == "" {
		c.SystemPrompt = DefaultSystemPrompt
	}
	if c.MaxSteps <= 0 {
		c.MaxSteps = DefaultMaxSteps
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.File == "" {
		c.Logging.File = filepath.Join(filepath.Dir(configPath), "roriagent.log")
	}
}

// applyEnvOverrides layers environment credentials onto the current profile.
// RORIAGENT_* variables always win; provider variables only fill empty keys.
func (c *Config) applyEnvOverrides(v *viper.Viper) {
	p := c.currentProfile

	if key := v.GetString("api_key"); key != "" {
		p.APIKey = key
	} else if p.APIKey == "" {
		switch p.GetProvider() {
		case ProviderAnthropic:
			p.APIKey = v.GetString("anthropic_api_key")
		default:
			p.APIKey = v.GetString("openai_api_key")
		}
	}

	if model := v.GetString("model"); model != "" {
		p.Model = model
	}
	if baseURL := v.GetString("base_url"); baseURL != "" {
		p.BaseURL = baseURL
	}
	if key := v.GetString("search_api_key"); key != "" {
		p.SearchAPIKey = key
	} else if p.SearchAPIKey == "" {
		p.SearchAPIKey = v.GetString("tavily_api_key")
	}
	if level := v.GetString("log_level"); level != "" {
		c.Logging.Level = level
	}
}

func (c *Config) IsValid() bool {
	return c.Validate() == nil
}

// Validate reports why the active profile cannot be used to chat
func (c *Config) Validate() error {
	if c.currentProfile == nil {
		return fmt.Errorf("no active profile")
	}
	p := c.currentProfile
	if p.APIKey == "" {
		return fmt.Errorf("profile '%s' has no API key", c.ActiveProfile)
	}
	switch p.GetProvider() {
	case ProviderOpenAI, ProviderAnthropic:
	default:
		return fmt.Errorf("profile '%s' has unsupported provider '%s'", c.ActiveProfile, p.Provider)
	}
	if p.Temperature < 0 || p.Temperature > 2 {
		return fmt.Errorf("temperature must be between 0 and 2")
	}
	return nil
}

// Current returns a copy of the active profile with defaults filled in
func (c *Config) Current() Profile {
	if c.currentProfile == nil {
		return Profile{Provider: ProviderOpenAI, Model: DefaultModel}
	}
	p := *c.currentProfile
	p.Provider = p.GetProvider()
	if p.Model == "" {
		p.Model = DefaultModel
	}
	return p
}

// ProfileNames returns the configured profile names in sorted order
func (c *Config) ProfileNames() []string {
	names := make([]string, 0, len(c.Profiles))
	for name := range c.Profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Path returns the file this config was loaded from
func (c *Config) Path() string {
	return c.path
}

func getConfigPath() (string, error) {
	var configDir string

	// Use RORIAGENT_HOME if set, otherwise use user's home directory
	if home := os.Getenv("RORIAGENT_HOME"); home != "" {
		configDir = home
	} else {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		configDir = homeDir
	}

	return filepath.Join(configDir, ".roriagent", "config.json"), nil
}

func ensureConfigDir(configPath string) error {
	return os.MkdirAll(filepath.Dir(configPath), 0755)
}

func defaultConfig() *Config {
	return &Config{
		Profiles: map[string]Profile{
			"default": {
				Provider: ProviderOpenAI,
				Model:    DefaultModel,
			},
		},
		ActiveProfile: "default",
		MaxSteps:      DefaultMaxSteps,
	}
}

func saveConfig(config *Config, configPath string) error {
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0600)
}

// Save writes the config back to the file it was loaded from.
// Environment overrides applied at load time are not persisted.
func (c *Config) Save() error {
	configPath := c.path
	if configPath == "" {
		var err error
		configPath, err = getConfigPath()
		if err != nil {
			return fmt.Errorf("failed to get config path: %w", err)
		}
	}

	return saveConfig(c, configPath)
}

// SetActive switches the active profile
func (c *Config) SetActive(name string) error {
	key, exists := c.lookup(name)
	if !exists {
		return fmt.Errorf("profile '%s' does not exist", name)
	}
	c.ActiveProfile = key
	return c.setCurrentProfile()
}

// Lookup finds a profile by name. Viper folds map keys to lower case,
// so names are matched case-insensitively.
func (c *Config) Lookup(name string) (string, Profile, bool) {
	key, exists := c.lookup(name)
	if !exists {
		return "", Profile{}, false
	}
	return key, c.Profiles[key], true
}

func (c *Config) lookup(name string) (string, bool) {
	if _, exists := c.Profiles[name]; exists {
		return name, true
	}
	lower := strings.ToLower(name)
	if _, exists := c.Profiles[lower]; exists {
		return lower, true
	}
	return "", false
}

func (c *Config) setCurrentProfile() error {
	if len(c.Profiles) == 0 {
		return ErrNoProfiles
	}

	key, exists := c.lookup(c.ActiveProfile)
	if !exists {
		// Fall back to the first profile by name
		key = c.ProfileNames()[0]
	}
	c.ActiveProfile = key
	profile := c.Profiles[key]

	c.currentProfile = &profile
	return nil
}
