package cliconfig

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCmd() (*cobra.Command, *viper.Viper) {
	cmd := &cobra.Command{Use: "test"}
	cmd.PersistentFlags().BoolP("verbose", "v", false, "")
	cmd.PersistentFlags().Bool("trivia", false, "")
	cmd.PersistentFlags().Int("max-depth", 0, "")
	cmd.PersistentFlags().StringP("format", "f", "text", "")
	v := viper.New()
	return cmd, v
}

func TestLoadDefaults(t *testing.T) {
	cmd, v := newTestCmd()
	require.NoError(t, Bind(cmd, v))

	cfg := Load(v)
	assert.False(t, cfg.Verbose)
	assert.False(t, cfg.IncludeTrivia)
	assert.Equal(t, 500, cfg.MaxDepth, "MaxDepth should fall back to 500 when unset")
	assert.Equal(t, "text", cfg.Format)
}

func TestLoadReadsParsedFlags(t *testing.T) {
	cmd, v := newTestCmd()
	require.NoError(t, Bind(cmd, v))
	require.NoError(t, cmd.ParseFlags([]string{"--verbose", "--trivia", "--max-depth=50", "--format=json"}))

	cfg := Load(v)
	assert.True(t, cfg.Verbose)
	assert.True(t, cfg.IncludeTrivia)
	assert.Equal(t, 50, cfg.MaxDepth)
	assert.Equal(t, "json", cfg.Format)
}

func TestLoadReadsEnvironmentOverFlagDefault(t *testing.T) {
	cmd, v := newTestCmd()
	require.NoError(t, Bind(cmd, v))
	t.Setenv("CALCORE_FORMAT", "json")
	t.Setenv("CALCORE_MAX_DEPTH", "10")

	cfg := Load(v)
	assert.Equal(t, "json", cfg.Format)
	assert.Equal(t, 10, cfg.MaxDepth)
}

func TestLoadNegativeMaxDepthFallsBackToDefault(t *testing.T) {
	cmd, v := newTestCmd()
	require.NoError(t, Bind(cmd, v))
	require.NoError(t, cmd.ParseFlags([]string{"--max-depth=-5"}))

	cfg := Load(v)
	assert.Equal(t, 500, cfg.MaxDepth)
}
