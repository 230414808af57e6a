package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	internal "github.com/ZanzyTHEbar/toolcall-decoder/tcd"
)

// ConfigTestSuite tests the config package functionality
type ConfigTestSuite struct {
	suite.Suite
	tempDir string
	origDir string
}

func TestConfigSuite(t *testing.T) {
	suite.Run(t, new(ConfigTestSuite))
}

func (suite *ConfigTestSuite) SetupTest() {
	viper.Reset()

	var err error
	suite.origDir, err = os.Getwd()
	require.NoError(suite.T(), err)

	tempDir, err := os.MkdirTemp("", "tcd-config-test-*")
	require.NoError(suite.T(), err)
	suite.tempDir = tempDir

	err = os.Chdir(tempDir)
	require.NoError(suite.T(), err)
}

func (suite *ConfigTestSuite) TearDownTest() {
	if suite.origDir != "" {
		os.Chdir(suite.origDir)
	}
	if suite.tempDir != "" {
		os.RemoveAll(suite.tempDir)
	}
}

func (suite *ConfigTestSuite) TestLoadConfigWithDefaults() {
	cfg, err := LoadConfig("")

	require.NoError(suite.T(), err)
	require.NotNil(suite.T(), cfg)

	suite.Equal(internal.DefaultMaxValueSteps, cfg.Decoder.MaxValueSteps)
	suite.Equal(4, cfg.Decoder.BatchConcurrency)
	suite.False(cfg.Decoder.PersistRuns)
	suite.True(cfg.Decoder.EnableTracing)

	suite.Equal("tiktoken", cfg.Model.Provider)
	suite.Equal("gpt2", cfg.Model.Encoding)
	suite.Equal(2048, cfg.Model.ContextSize)

	suite.False(cfg.Store.Enabled)
	suite.Equal(internal.DefaultDatabasePath, cfg.Store.Path)

	suite.Equal(500, cfg.Dataset.Size)
}

func (suite *ConfigTestSuite) TestLoadConfigFromFile() {
	configPath := filepath.Join(suite.tempDir, "config.yaml")
	content := `
decoder:
  max_value_steps: 8
  batch_concurrency: 2
  persist_runs: true
model:
  provider: tiktoken
  encoding: cl100k_base
store:
  enabled: true
  path: /tmp/tcd-test.db
dataset:
  size: 42
  seed: 7
`
	require.NoError(suite.T(), os.WriteFile(configPath, []byte(content), 0o644))

	cfg, err := LoadConfig(configPath)
	require.NoError(suite.T(), err)

	suite.Equal(8, cfg.Decoder.MaxValueSteps)
	suite.Equal(2, cfg.Decoder.BatchConcurrency)
	suite.True(cfg.Decoder.PersistRuns)
	suite.Equal("cl100k_base", cfg.Model.Encoding)
	suite.True(cfg.Store.Enabled)
	suite.Equal("/tmp/tcd-test.db", cfg.Store.Path)
	suite.Equal(42, cfg.Dataset.Size)
	suite.Equal(int64(7), cfg.Dataset.Seed)
}

func (suite *ConfigTestSuite) TestLoadConfigClampsBadValues() {
	configPath := filepath.Join(suite.tempDir, "config.yaml")
	content := `
decoder:
  max_value_steps: -5
  batch_concurrency: 0
model:
  temperature: 9.0
  top_p: 2.0
dataset:
  size: 0
`
	require.NoError(suite.T(), os.WriteFile(configPath, []byte(content), 0o644))

	cfg, err := LoadConfig(configPath)
	require.NoError(suite.T(), err)

	suite.Equal(internal.DefaultMaxValueSteps, cfg.Decoder.MaxValueSteps)
	suite.Equal(1, cfg.Decoder.BatchConcurrency)
	suite.InDelta(0.7, cfg.Model.Temperature, 1e-6)
	suite.InDelta(0.9, cfg.Model.TopP, 1e-6)
	suite.Equal(500, cfg.Dataset.Size)
}

func (suite *ConfigTestSuite) TestLoadConfigMalformedFile() {
	configPath := filepath.Join(suite.tempDir, "config.yaml")
	require.NoError(suite.T(), os.WriteFile(configPath, []byte("decoder: ["), 0o644))

	_, err := LoadConfig(configPath)
	suite.Error(err)
}
