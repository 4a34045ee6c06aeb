// Package config holds the settings shared by the engine, the shell and
// the self-play runner. Values come from, in increasing priority: built-in
// defaults, an optional YAML config file, OTHELLO_* environment variables,
// and command-line flags.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cast"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	ConfigTimeBudget       = "time-budget"
	ConfigMaxDepth         = "max-depth"
	ConfigHashMode         = "hash-mode"
	ConfigExactCorners     = "exact-corners"
	ConfigTableMemory      = "table-memory"
	ConfigDebug            = "debug"
	ConfigGames            = "games"
	ConfigThreads          = "threads"
	ConfigRandomOpening    = "random-opening-plies"
	ConfigDBPath           = "db-path"
	ConfigSummaryPath      = "summary-path"
	ConfigSeedsFile        = "seeds-file"
	ConfigGameLog          = "game-log"
	ConfigFile             = "config-file"
	ConfigShellHistoryFile = "shell-history-file"
	ConfigScriptTimeout    = "script-timeout"
)

const envPrefix = "OTHELLO"

type Config struct {
	*viper.Viper
}

func defaults(v *viper.Viper) {
	v.SetDefault(ConfigTimeBudget, 1750*time.Millisecond)
	v.SetDefault(ConfigMaxDepth, 20)
	v.SetDefault(ConfigHashMode, "proxy")
	v.SetDefault(ConfigExactCorners, false)
	v.SetDefault(ConfigTableMemory, 0.01)
	v.SetDefault(ConfigDebug, false)
	v.SetDefault(ConfigGames, 100)
	v.SetDefault(ConfigThreads, 4)
	v.SetDefault(ConfigRandomOpening, 4)
	v.SetDefault(ConfigDBPath, "./selfplay.db")
	v.SetDefault(ConfigSummaryPath, "")
	v.SetDefault(ConfigSeedsFile, "")
	v.SetDefault(ConfigGameLog, "")
	v.SetDefault(ConfigShellHistoryFile, "/tmp/othello_shell_history")
	v.SetDefault(ConfigScriptTimeout, 60*time.Second)
}

// DefaultConfig returns a config with only built-in defaults. It does not
// read the environment, which keeps tests hermetic.
func DefaultConfig() *Config {
	v := viper.New()
	defaults(v)
	return &Config{v}
}

// Load builds a config from args, the environment and an optional config
// file named by --config-file.
func (c *Config) Load(args []string) error {
	if c.Viper == nil {
		c.Viper = viper.New()
	}
	defaults(c.Viper)

	fs := pflag.NewFlagSet("othello", pflag.ContinueOnError)
	fs.Duration(ConfigTimeBudget, 1750*time.Millisecond, "wall-clock budget per move (0 for no limit)")
	fs.Int(ConfigMaxDepth, 20, "absolute search depth cap")
	fs.String(ConfigHashMode, "proxy", "transposition hash: proxy or cell")
	fs.Bool(ConfigExactCorners, false, "score corners by actual ownership instead of the mobility proxy")
	fs.Float64(ConfigTableMemory, 0.01, "fraction of system memory used to size the transposition table")
	fs.Bool(ConfigDebug, false, "debug logging")
	fs.Int(ConfigGames, 100, "number of self-play games")
	fs.Int(ConfigThreads, 4, "number of self-play workers")
	fs.Int(ConfigRandomOpening, 4, "random plies played at the start of each self-play game")
	fs.String(ConfigDBPath, "./selfplay.db", "sqlite file for self-play records")
	fs.String(ConfigSummaryPath, "", "write a YAML self-play summary here")
	fs.String(ConfigSeedsFile, "", "replay the self-play seeds in this file, or save new ones to it")
	fs.String(ConfigGameLog, "", "write one CSV line per self-play move here")
	fs.String(ConfigFile, "", "YAML config file")
	fs.String(ConfigShellHistoryFile, "/tmp/othello_shell_history", "readline history file")
	fs.Duration(ConfigScriptTimeout, 60*time.Second, "maximum run time for a shell script")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := c.BindPFlags(fs); err != nil {
		return err
	}

	c.SetEnvPrefix(envPrefix)
	c.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.AutomaticEnv()

	if path := c.GetString(ConfigFile); path != "" {
		c.SetConfigFile(path)
		if err := c.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config file %s: %w", path, err)
		}
	}
	return c.Validate()
}

var ErrBadConfig = errors.New("bad config")

// Validate checks the settings the engine and the self-play runner depend on.
func (c *Config) Validate() error {
	// GetDuration reads an unparsable value as 0, which means no time limit
	for _, key := range []string{ConfigTimeBudget, ConfigScriptTimeout} {
		d, err := cast.ToDurationE(c.Get(key))
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrBadConfig, key, err)
		}
		if d < 0 {
			return fmt.Errorf("%w: %s must not be negative", ErrBadConfig, key)
		}
	}
	if c.GetInt(ConfigMaxDepth) < 1 {
		return fmt.Errorf("%w: %s must be at least 1", ErrBadConfig, ConfigMaxDepth)
	}
	switch c.GetString(ConfigHashMode) {
	case "proxy", "cell":
	default:
		return fmt.Errorf("%w: %s must be proxy or cell", ErrBadConfig, ConfigHashMode)
	}
	if c.GetInt(ConfigThreads) < 1 {
		return fmt.Errorf("%w: %s must be at least 1", ErrBadConfig, ConfigThreads)
	}
	if c.GetInt(ConfigRandomOpening) < 0 {
		return fmt.Errorf("%w: %s must not be negative", ErrBadConfig, ConfigRandomOpening)
	}
	return nil
}

// Write saves the current settings to the config file, if one was given.
func (c *Config) Write() error {
	path := c.GetString(ConfigFile)
	if path == "" {
		return errors.New("no config file set; pass --config-file")
	}
	return c.WriteConfigAs(path)
}

// Clone returns an independent copy of the current settings. Changes to
// the copy do not affect c.
func (c *Config) Clone() *Config {
	v := viper.New()
	defaults(v)
	for _, k := range c.AllKeys() {
		v.Set(k, c.Get(k))
	}
	return &Config{v}
}
