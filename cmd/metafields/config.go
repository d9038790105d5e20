package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/goliatone/go-metafields/components/settingsapi"
	"github.com/goliatone/go-metafields/pkg/declare"
)

const (
	configFileName = "metafields"
	configFileType = "yaml"
	envPrefix      = "METAFIELDS"

	cfgKeyDeclarations = "declarations"
	cfgKeyBuildDir     = "build_dir"
	cfgKeyBasePath     = "base_path"
	cfgKeyAddr         = "addr"
	cfgKeyTheme        = "theme"
	cfgKeyThemeVariant = "theme_variant"
	cfgKeyLogLevel     = "log_level"
)

// Config is the resolved CLI configuration.
type Config struct {
	// Declarations is a directory of JSON/YAML declaration files. Empty
	// means the bundled declarations.
	Declarations string `mapstructure:"declarations"`
	BuildDir     string `mapstructure:"build_dir"`
	BasePath     string `mapstructure:"base_path"`
	Addr         string `mapstructure:"addr"`
	// Theme is the path to a go-theme manifest; empty disables theming.
	Theme        string `mapstructure:"theme"`
	ThemeVariant string `mapstructure:"theme_variant"`
	LogLevel     string `mapstructure:"log_level"`
}

// loadConfig reads metafields.yaml from the working directory, or the file
// named by path. Environment variables (METAFIELDS_ADDR, ...) override file
// values. A missing default config file is not an error.
func loadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetDefault(cfgKeyDeclarations, "")
	v.SetDefault(cfgKeyBuildDir, "public/build")
	v.SetDefault(cfgKeyBasePath, settingsapi.DefaultBasePath)
	v.SetDefault(cfgKeyAddr, ":8080")
	v.SetDefault(cfgKeyTheme, "")
	v.SetDefault(cfgKeyThemeVariant, "")
	v.SetDefault(cfgKeyLogLevel, "info")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(configFileName)
		v.SetConfigType(configFileType)
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &cfg, nil
}

// declarationsFS picks the directory to load: an explicit argument wins over
// the configured directory, which wins over the bundled declarations.
const bundledSource = "bundled declarations"

// loadDeclarations picks the directory to load: an explicit argument wins over
// the configured directory, which wins over the bundled declarations.
func loadDeclarations(cfg *Config, args []string) (*declare.Set, string, error) {
	dir := ""
	if len(args) > 0 {
		dir = args[0]
	} else if cfg != nil {
		dir = cfg.Declarations
	}
	if dir == "" {
		set, err := declare.LoadFS(declare.EmbeddedFS())
		return set, bundledSource, err
	}

	info, err := os.Stat(dir)
	if err != nil {
		return nil, dir, fmt.Errorf("declarations: %w", err)
	}
	if !info.IsDir() {
		return nil, dir, fmt.Errorf("declarations: %s is not a directory", dir)
	}
	set, err := declare.LoadFS(os.DirFS(dir))
	if err != nil {
		return nil, dir, err
	}
	return set, dir, nil
}
