package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aischolar/chunkhound/pkg/chunkers"
	"github.com/aischolar/chunkhound/pkg/errors"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := NewEngineConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, string(chunkers.StrategyHierarchical), cfg.Strategy)
	assert.Equal(t, 512, cfg.BaseChunkSize)
	assert.Equal(t, 2048, cfg.GroupSize)
	assert.Equal(t, 3, cfg.MaxLevels)
	assert.Equal(t, 0.1, cfg.OverlapPercentage)
	assert.Equal(t, "word", cfg.Estimator)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*EngineConfig)
	}{
		{"unknown strategy", func(c *EngineConfig) { c.Strategy = "semantic" }},
		{"zero chunk size", func(c *EngineConfig) { c.BaseChunkSize = 0 }},
		{"negative group size", func(c *EngineConfig) { c.GroupSize = -1 }},
		{"zero max levels", func(c *EngineConfig) { c.MaxLevels = 0 }},
		{"percentage above one", func(c *EngineConfig) { c.OverlapPercentage = 1.5 }},
		{"negative min overlap", func(c *EngineConfig) { c.MinOverlapChars = -1 }},
		{"max below min", func(c *EngineConfig) { c.MinOverlapChars = 100; c.MaxOverlapChars = 50 }},
		{"unknown estimator", func(c *EngineConfig) { c.Estimator = "bytes" }},
		{"unknown log level", func(c *EngineConfig) { c.LogLevel = "trace" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := NewEngineConfig()
			tc.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, errors.IsChunkhoundError(err))
		})
	}
}

func TestYAMLRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chunkhound.yaml")

	cfg := NewEngineConfig()
	cfg.Strategy = string(chunkers.StrategyAdaptive)
	cfg.BaseChunkSize = 256
	cfg.DetectSections = true
	require.NoError(t, cfg.ToYAMLFile(path))

	loaded := NewEngineConfig()
	require.NoError(t, loaded.FromYAMLFile(path))
	require.NoError(t, loaded.Validate())

	assert.Equal(t, cfg.Strategy, loaded.Strategy)
	assert.Equal(t, cfg.BaseChunkSize, loaded.BaseChunkSize)
	assert.Equal(t, cfg.GroupSize, loaded.GroupSize)
	assert.True(t, loaded.DetectSections)
}

func TestPartialFileOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	require.NoError(t, os.WriteFile(path, []byte("base_chunk_size: 128\n"), 0o644))

	cfg := NewEngineConfig()
	require.NoError(t, cfg.FromYAMLFile(path))

	assert.Equal(t, 128, cfg.BaseChunkSize)
	assert.Equal(t, 2048, cfg.GroupSize, "absent fields keep their defaults")
	assert.Equal(t, string(chunkers.StrategyHierarchical), cfg.Strategy)
}

func TestFromJSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"strategy": "sentence_aware", "max_levels": 1}`), 0o644))

	cfg := NewEngineConfig()
	require.NoError(t, cfg.FromJSONFile(path))
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "sentence_aware", cfg.Strategy)
	assert.Equal(t, 1, cfg.MaxLevels)
}

func TestFromFileMissing(t *testing.T) {
	cfg := NewEngineConfig()

	err := cfg.FromYAMLFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

func TestFromEnv(t *testing.T) {
	t.Setenv("CHUNKHOUND_BASE_CHUNK_SIZE", "256")
	t.Setenv("CHUNKHOUND_STRATEGY", "adaptive")
	t.Setenv("CHUNKHOUND_DETECT_SECTIONS", "true")

	cfg := NewEngineConfig()
	require.NoError(t, cfg.FromEnv())
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 256, cfg.BaseChunkSize)
	assert.Equal(t, "adaptive", cfg.Strategy)
	assert.True(t, cfg.DetectSections)
	assert.Equal(t, 2048, cfg.GroupSize, "unset variables keep their defaults")
}

func TestChunkerConfigConversion(t *testing.T) {
	cfg := NewEngineConfig()
	cfg.BaseChunkSize = 100
	cfg.OverlapPercentage = 0.25

	runtime, err := cfg.ChunkerConfig()
	require.NoError(t, err)

	assert.Equal(t, 100, runtime.BaseChunkSize)
	assert.Equal(t, 0.25, runtime.Overlap.OverlapPercentage)
	assert.Equal(t, cfg.MinOverlapChars, runtime.Overlap.MinOverlapChars)
	require.NotNil(t, runtime.Estimator)
	assert.Equal(t, "word", runtime.Estimator.Name())
	assert.NoError(t, runtime.Validate())

	cfg.Estimator = "bytes"
	_, err = cfg.ChunkerConfig()
	require.Error(t, err)
}

func TestDefaultStrategy(t *testing.T) {
	cfg := NewEngineConfig()

	strategy, err := cfg.DefaultStrategy()
	require.NoError(t, err)
	assert.Equal(t, chunkers.StrategyHierarchical, strategy)

	cfg.Strategy = "semantic"
	_, err = cfg.DefaultStrategy()
	require.Error(t, err)
}

func TestWatchStopsOnCancel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "watched.yaml")
	cfg := NewEngineConfig()
	require.NoError(t, cfg.ToYAMLFile(path))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- cfg.Watch(ctx, path, nil)
	}()

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("watch did not stop after cancellation")
	}
}

func TestWatchReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "watched.yaml")
	cfg := NewEngineConfig()
	require.NoError(t, cfg.ToYAMLFile(path))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	changed := make(chan *EngineConfig, 1)
	go func() {
		_ = cfg.Watch(ctx, path, func(c *EngineConfig) {
			select {
			case changed <- c:
			default:
			}
		})
	}()

	// Give the watcher a moment to register before writing.
	time.Sleep(100 * time.Millisecond)

	updated := NewEngineConfig()
	updated.BaseChunkSize = 64
	require.NoError(t, updated.ToYAMLFile(path))

	select {
	case <-changed:
		assert.Equal(t, 64, cfg.BaseChunkSize)
	case <-time.After(4 * time.Second):
		t.Fatal("watch did not observe the rewrite")
	}
}
