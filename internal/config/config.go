package config

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// Path is a filesystem path; a leading "~/" is expanded while decoding.
type Path string

type ScanConfig struct {
	Concurrency int `mapstructure:"concurrency"`
}

type CacheConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Dir     Path `mapstructure:"dir"`
}

type ServeConfig struct {
	Addr string `mapstructure:"addr"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type Config struct {
	PackagesPath Path        `mapstructure:"packages_path"`
	IndexName    string      `mapstructure:"index_name"`
	Scan         ScanConfig  `mapstructure:"scan"`
	Cache        CacheConfig `mapstructure:"cache"`
	Serve        ServeConfig `mapstructure:"serve"`
	Log          LogConfig   `mapstructure:"log"`
}

// cacheBase returns the base cache directory for hyperhelp.
// Checks XDG_CACHE_HOME, then ~/.cache, then /tmp/hyperhelp as fallback.
func cacheBase() string {
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, "hyperhelp")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".cache", "hyperhelp")
	}
	return filepath.Join(os.TempDir(), "hyperhelp")
}

// IndexCacheDir returns the default directory for cached help indexes.
func IndexCacheDir() string {
	return filepath.Join(cacheBase(), "index")
}

// CatalogPath returns the default path of the DuckDB catalog.
func CatalogPath() string {
	return filepath.Join(cacheBase(), "catalog.duckdb")
}

// defaultPackagesPath guesses the editor's packages directory.
func defaultPackagesPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "sublime-text", "Packages")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".config", "sublime-text", "Packages")
	}
	return "Packages"
}

func InitializeViper() error {
	viper.SetConfigName("config")
	viper.SetConfigType("toml")

	viper.AddConfigPath(".")
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		viper.AddConfigPath(filepath.Join(xdg, "hyperhelp"))
	} else if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(filepath.Join(home, ".config", "hyperhelp"))
	}

	viper.SetDefault("packages_path", defaultPackagesPath())
	viper.SetDefault("index_name", "hyperhelp.json")
	viper.SetDefault("scan.concurrency", 4)
	viper.SetDefault("cache.enabled", true)
	viper.SetDefault("cache.dir", IndexCacheDir())
	viper.SetDefault("serve.addr", "127.0.0.1:7447")
	viper.SetDefault("log.level", "info")

	viper.SetEnvPrefix("HYPERHELP")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}
	return nil
}

func expandHomeHookFunc() mapstructure.DecodeHookFunc {
	return func(f, t reflect.Type, data interface{}) (interface{}, error) {
		if t != reflect.TypeOf(Path("")) || f.Kind() != reflect.String {
			return data, nil
		}
		return Path(expandHome(data.(string))), nil
	}
}

func expandHome(p string) string {
	if !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, p[2:])
}

func Load() (*Config, error) {
	if err := InitializeViper(); err != nil {
		return nil, err
	}
	return decode(viper.AllSettings())
}

func decode(settings map[string]interface{}) (*Config, error) {
	var config Config
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       expandHomeHookFunc(),
		WeaklyTypedInput: true,
		Result:           &config,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create decoder: %w", err)
	}

	if err := decoder.Decode(settings); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if config.Scan.Concurrency <= 0 {
		config.Scan.Concurrency = 1
	}
	if config.IndexName == "" {
		config.IndexName = "hyperhelp.json"
	}
	return &config, nil
}
