// Package cliconfig resolves cmd/calcore's configuration from flags and
// environment variables via viper, so a CI pipeline can set CALCORE_FORMAT
// instead of threading a flag through every invocation.
package cliconfig

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Config is the resolved CLI configuration, merged from flags, environment
// variables (CALCORE_ prefixed), and defaults, in that order of precedence.
type Config struct {
	Verbose       bool
	IncludeTrivia bool
	MaxDepth      int
	Format        string // "text" or "json"
}

// Bind registers cmd's persistent flags with v, so both `--flag` and the
// matching CALCORE_FLAG environment variable resolve to the same key.
func Bind(cmd *cobra.Command, v *viper.Viper) error {
	v.SetEnvPrefix("CALCORE")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v.BindPFlags(cmd.PersistentFlags())
}

// Load resolves a Config from v. Call it after the command's flags have
// been parsed.
func Load(v *viper.Viper) *Config {
	cfg := &Config{
		Verbose:       v.GetBool("verbose"),
		IncludeTrivia: v.GetBool("trivia"),
		MaxDepth:      v.GetInt("max-depth"),
		Format:        v.GetString("format"),
	}
	if cfg.MaxDepth <= 0 {
		cfg.MaxDepth = 500
	}
	if cfg.Format == "" {
		cfg.Format = "text"
	}
	return cfg
}
