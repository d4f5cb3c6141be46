// Package config defines the miner's command-line flags and binds them into
// viper together with PEACHMINER_-prefixed environment variables, so every
// setting can come from either. No config file is read.
package config

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Config holds the fully resolved settings for one miner run.
type Config struct {
	Pool       string
	Wallet     string
	Worker     string
	Intensity  int
	ExcludeGPU []int
	UseCPU     bool
	DevMode    bool
	LogLevel   string
}

// Bind registers the miner's flags on cmd and binds them into v, following
// cobra/viper's usual flag-then-bind ordering so an environment variable or
// a flag can each supply a value with flags taking precedence.
func Bind(cmd *cobra.Command, v *viper.Viper) {
	flags := cmd.Flags()
	flags.String("pool", "stratum+tcp://localhost:3333", "mining pool address, stratum+tcp://host:port")
	flags.String("wallet", "", "wallet address to receive payouts")
	flags.String("worker", "rig1", "worker/rig name reported to the pool")
	flags.Int("intensity", 20, "log2 of the per-device work-item batch size (stored in the config; no device reads it)")
	flags.IntSlice("exclude-gpu", nil, "device indexes to exclude from mining")
	flags.Bool("cpu", false, "also enumerate CPU devices for mining")
	flags.Bool("dev", false, "enable development-mode logging")
	flags.String("log-level", "info", "log level: debug, info, warn, error")

	v.BindPFlags(flags)
	v.SetEnvPrefix("PEACHMINER")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
}

// Load resolves a Config from the flags and environment variables bound
// into v.
func Load(v *viper.Viper) Config {
	return Config{
		Pool:       v.GetString("pool"),
		Wallet:     v.GetString("wallet"),
		Worker:     v.GetString("worker"),
		Intensity:  v.GetInt("intensity"),
		ExcludeGPU: v.GetIntSlice("exclude-gpu"),
		UseCPU:     v.GetBool("cpu"),
		DevMode:    v.GetBool("dev"),
		LogLevel:   v.GetString("log-level"),
	}
}

// Excluded reports whether deviceID appears in the configured exclusion
// list.
func (c Config) Excluded(deviceID int) bool {
	for _, id := range c.ExcludeGPU {
		if id == deviceID {
			return true
		}
	}
	return false
}
