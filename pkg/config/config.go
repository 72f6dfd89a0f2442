// Package config provides configuration management for chunkhound
package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/aischolar/chunkhound/pkg/chunkers"
	"github.com/aischolar/chunkhound/pkg/errors"
	"github.com/aischolar/chunkhound/pkg/types"
)

// envPrefix namespaces the environment variables read by FromEnv
const envPrefix = "CHUNKHOUND"

// EngineConfig is the serializable configuration of the chunking engine
type EngineConfig struct {
	// Strategy is the default chunking strategy
	Strategy string `yaml:"strategy" json:"strategy" mapstructure:"strategy" validate:"required,oneof=sentence_aware hierarchical adaptive"`

	// BaseChunkSize is the size budget per level-0 chunk
	BaseChunkSize int `yaml:"base_chunk_size" json:"base_chunk_size" mapstructure:"base_chunk_size" validate:"gt=0"`

	// GroupSize is the aggregate content budget per parent chunk in bytes
	GroupSize int `yaml:"group_size" json:"group_size" mapstructure:"group_size" validate:"gt=0"`

	// MaxLevels caps the hierarchy depth
	MaxLevels int `yaml:"max_levels" json:"max_levels" mapstructure:"max_levels" validate:"gt=0"`

	// OverlapPercentage is the target overlap fraction in [0, 1]
	OverlapPercentage float64 `yaml:"overlap_percentage" json:"overlap_percentage" mapstructure:"overlap_percentage" validate:"gte=0,lte=1"`

	// MinOverlapChars is the lower clamp on overlap length
	MinOverlapChars int `yaml:"min_overlap_chars" json:"min_overlap_chars" mapstructure:"min_overlap_chars" validate:"gte=0"`

	// MaxOverlapChars is the upper clamp on overlap length
	MaxOverlapChars int `yaml:"max_overlap_chars" json:"max_overlap_chars" mapstructure:"max_overlap_chars" validate:"gtefield=MinOverlapChars"`

	// DetectSections enables the markdown section pre-pass
	DetectSections bool `yaml:"detect_sections" json:"detect_sections" mapstructure:"detect_sections"`

	// Estimator selects the size estimation provider: word or tiktoken
	Estimator string `yaml:"estimator" json:"estimator" mapstructure:"estimator" validate:"oneof=word tiktoken"`

	// LogLevel controls the logger: debug, info, warn, error
	LogLevel string `yaml:"log_level" json:"log_level" mapstructure:"log_level" validate:"oneof=debug info warn error"`

	mu        sync.RWMutex
	validator *validator.Validate
}

// NewEngineConfig returns the default configuration
func NewEngineConfig() *EngineConfig {
	defaults := chunkers.DefaultChunkerConfig()
	return &EngineConfig{
		Strategy:          string(chunkers.StrategyHierarchical),
		BaseChunkSize:     defaults.BaseChunkSize,
		GroupSize:         defaults.GroupSize,
		MaxLevels:         defaults.MaxLevels,
		OverlapPercentage: defaults.Overlap.OverlapPercentage,
		MinOverlapChars:   defaults.Overlap.MinOverlapChars,
		MaxOverlapChars:   defaults.Overlap.MaxOverlapChars,
		DetectSections:    defaults.DetectSections,
		Estimator:         "word",
		LogLevel:          "info",
		validator:         validator.New(),
	}
}

// Validate validates the configuration
func (c *EngineConfig) Validate() error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.validator == nil {
		c.validator = validator.New()
	}
	if err := c.validator.Struct(c); err != nil {
		return errors.NewConfigInvalidError(err.Error())
	}
	return nil
}

// FromYAMLFile loads configuration from a YAML file
func (c *EngineConfig) FromYAMLFile(path string) error {
	return c.fromFile(path, "yaml")
}

// FromJSONFile loads configuration from a JSON file
func (c *EngineConfig) FromJSONFile(path string) error {
	return c.fromFile(path, "json")
}

func (c *EngineConfig) fromFile(path, format string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return errors.NewConfigNotFoundError(path)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType(format)
	c.seedDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return errors.WrapError(err, types.ErrorTypeConfig, errors.ErrCodeConfigError, "failed to read config file")
	}
	if err := v.Unmarshal(c); err != nil {
		return errors.WrapError(err, types.ErrorTypeConfig, errors.ErrCodeConfigError, "failed to unmarshal config")
	}
	return nil
}

// FromEnv overlays CHUNKHOUND_* environment variables onto the configuration
func (c *EngineConfig) FromEnv() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	c.seedDefaults(v)

	for _, key := range configKeys {
		if err := v.BindEnv(key); err != nil {
			return errors.NewConfigError(fmt.Sprintf("failed to bind env var %s: %v", key, err))
		}
	}

	if err := v.Unmarshal(c); err != nil {
		return errors.WrapError(err, types.ErrorTypeConfig, errors.ErrCodeConfigError, "failed to unmarshal env config")
	}
	return nil
}

// configKeys are the recognized configuration fields
var configKeys = []string{
	"strategy", "base_chunk_size", "group_size", "max_levels",
	"overlap_percentage", "min_overlap_chars", "max_overlap_chars",
	"detect_sections", "estimator", "log_level",
}

// seedDefaults registers the current values as viper defaults so a partial
// file or environment overlays rather than resets the configuration.
// Callers hold c.mu.
func (c *EngineConfig) seedDefaults(v *viper.Viper) {
	v.SetDefault("strategy", c.Strategy)
	v.SetDefault("base_chunk_size", c.BaseChunkSize)
	v.SetDefault("group_size", c.GroupSize)
	v.SetDefault("max_levels", c.MaxLevels)
	v.SetDefault("overlap_percentage", c.OverlapPercentage)
	v.SetDefault("min_overlap_chars", c.MinOverlapChars)
	v.SetDefault("max_overlap_chars", c.MaxOverlapChars)
	v.SetDefault("detect_sections", c.DetectSections)
	v.SetDefault("estimator", c.Estimator)
	v.SetDefault("log_level", c.LogLevel)
}

// ToYAMLFile saves the configuration to a YAML file
func (c *EngineConfig) ToYAMLFile(path string) error {
	data, err := c.ToYAML()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.NewConfigError(fmt.Sprintf("failed to create directory: %v", err))
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.NewConfigError(fmt.Sprintf("failed to write config file: %v", err))
	}
	return nil
}

// ToYAML serializes the configuration
func (c *EngineConfig) ToYAML() ([]byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, errors.NewConfigError(fmt.Sprintf("failed to marshal config: %v", err))
	}
	return data, nil
}

// Watch reloads the configuration whenever the file at path changes and
// notifies onChange. It blocks until ctx is cancelled.
func (c *EngineConfig) Watch(ctx context.Context, path string, onChange func(*EngineConfig)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.NewConfigError(fmt.Sprintf("failed to create watcher: %v", err))
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return errors.NewConfigError(fmt.Sprintf("failed to watch %s: %v", path, err))
	}

	target := filepath.Clean(path)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if err := c.FromYAMLFile(path); err != nil {
				continue // keep the previous config on a bad reload
			}
			if err := c.Validate(); err != nil {
				continue
			}
			if onChange != nil {
				onChange(c)
			}
		case _, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
		}
	}
}

// ChunkerConfig converts to the engine's runtime configuration
func (c *EngineConfig) ChunkerConfig() (*chunkers.ChunkerConfig, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	estimator, err := chunkers.NewSizeEstimator(c.Estimator)
	if err != nil {
		return nil, errors.NewConfigInvalidError(err.Error())
	}

	return &chunkers.ChunkerConfig{
		BaseChunkSize: c.BaseChunkSize,
		GroupSize:     c.GroupSize,
		MaxLevels:     c.MaxLevels,
		Overlap: chunkers.OverlapConfig{
			OverlapPercentage: c.OverlapPercentage,
			MinOverlapChars:   c.MinOverlapChars,
			MaxOverlapChars:   c.MaxOverlapChars,
		},
		DetectSections: c.DetectSections,
		Estimator:      estimator,
	}, nil
}

// DefaultStrategy parses the configured strategy
func (c *EngineConfig) DefaultStrategy() (chunkers.Strategy, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return chunkers.ParseStrategy(c.Strategy)
}
