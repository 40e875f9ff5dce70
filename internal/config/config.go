package config

import (
	"fmt"
	"runtime"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"fishnet/internal/dirs"
)

// Verbose is the configured diagnostic level (number of -v flags).
// It is carried through to the logger but does not filter output.
type Verbose struct {
	Level int
}

// Settings are the resolved runtime settings after flags, env and config file.
type Settings struct {
	Verbose Verbose
	Stderr  bool
	Cores   int
	Engine  string
}

// Init wires Viper with config paths, env, defaults, and flag bindings.
// It is non-fatal: any errors are returned for optional handling by caller.
func Init(root *cobra.Command) error {
	if cfgDir, err := dirs.ConfigDir(); err == nil {
		_ = dirs.Ensure(cfgDir)
		viper.AddConfigPath(cfgDir)
	}
	viper.SetConfigName("config") // supports config.{yaml|yml|json|toml}

	// Environment variables: FISHNET_*
	viper.SetEnvPrefix("FISHNET")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("cores", "auto")

	_ = viper.BindPFlag("verbose", root.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("stderr", root.PersistentFlags().Lookup("stderr"))
	_ = viper.BindPFlag("cores", root.PersistentFlags().Lookup("cores"))
	_ = viper.BindPFlag("engine", root.PersistentFlags().Lookup("engine"))

	if f := root.PersistentFlags().Lookup("config"); f != nil && f.Value.String() != "" {
		viper.SetConfigFile(f.Value.String())
		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("read config: %w", err)
		}
		return nil
	}

	// Read config file if present (ignore not found)
	_ = viper.ReadInConfig()

	return nil
}

// Load resolves Settings from the global Viper instance.
func Load() (Settings, error) {
	return FromViper(viper.GetViper())
}

// FromViper resolves Settings from v.
func FromViper(v *viper.Viper) (Settings, error) {
	cores, err := ParseCores(v.GetString("cores"))
	if err != nil {
		return Settings{}, err
	}
	return Settings{
		Verbose: Verbose{Level: v.GetInt("verbose")},
		Stderr:  v.GetBool("stderr"),
		Cores:   cores,
		Engine:  v.GetString("engine"),
	}, nil
}

// ParseCores resolves a cores setting: "auto" leaves one CPU free, "all" uses
// every CPU, anything else must be a positive integer.
func ParseCores(s string) (int, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "", "auto":
		return max(runtime.NumCPU()-1, 1), nil
	case "all":
		return runtime.NumCPU(), nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid cores %q (valid: auto|all|<number>)", s)
	}
	if n <= 0 {
		return 0, fmt.Errorf("invalid cores %q: must be at least 1", s)
	}
	return n, nil
}
