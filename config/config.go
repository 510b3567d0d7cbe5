package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/go-playground/validator.v9"

	"github.com/jonwraymond/docregistry/tooldoc"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "AKSHARE"

// ErrInvalidConfig is returned when a loaded configuration fails validation.
var ErrInvalidConfig = errors.New("invalid configuration")

var validate = validator.New()

// Config is the complete docregistry configuration.
type Config struct {
	// DocsDir is the directory holding the category documents.
	DocsDir string `mapstructure:"docs_dir" yaml:"docs_dir" validate:"required"`
	// Prefix is the canonical ID prefix.
	Prefix string `mapstructure:"prefix" yaml:"prefix" validate:"required,alphanum"`
	// MaxRows bounds tabular call results.
	MaxRows int `mapstructure:"max_rows" yaml:"max_rows" validate:"min=1"`
	// SearchLimit is the search limit used when none is given.
	SearchLimit int `mapstructure:"search_limit" yaml:"search_limit" validate:"min=1"`
	// MaxConcurrentCalls bounds in-flight provider calls. 0 is unbounded.
	MaxConcurrentCalls int64 `mapstructure:"max_concurrent_calls" yaml:"max_concurrent_calls" validate:"min=0"`
	// HistorySize is the number of records ak_logs can return.
	HistorySize int `mapstructure:"history_size" yaml:"history_size" validate:"min=1"`
	// ParseConcurrency bounds concurrent document reads. 0 picks a default.
	ParseConcurrency int `mapstructure:"parse_concurrency" yaml:"parse_concurrency" validate:"min=0"`
	// Ranking orders search matches: "id" or "bm25".
	Ranking string `mapstructure:"ranking" yaml:"ranking" validate:"oneof=id bm25"`

	// Markers are the words that structure a documentation block.
	Markers tooldoc.Markers `mapstructure:"markers" yaml:"markers"`

	Log      Log      `mapstructure:"log" yaml:"log"`
	Server   Server   `mapstructure:"server" yaml:"server"`
	Provider Provider `mapstructure:"provider" yaml:"provider"`
}

// Log configures diagnostics.
type Log struct {
	Level  string `mapstructure:"level" yaml:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" yaml:"format" validate:"oneof=text json"`
	// CallFile, when set, receives every search and call record as a JSON
	// line.
	CallFile string `mapstructure:"call_file" yaml:"call_file"`
}

// Server configures the MCP server.
type Server struct {
	Mode string `mapstructure:"mode" yaml:"mode" validate:"oneof=stdio http sse streamable-http"`
	Host string `mapstructure:"host" yaml:"host" validate:"required"`
	Port int    `mapstructure:"port" yaml:"port" validate:"min=1,max=65535"`
}

// Provider configures a remote MCP provider. An empty URL means none.
type Provider struct {
	Name       string            `mapstructure:"name" yaml:"name" validate:"required"`
	URL        string            `mapstructure:"url" yaml:"url" validate:"omitempty,url"`
	Headers    map[string]string `mapstructure:"headers" yaml:"headers,omitempty"`
	MaxRetries int               `mapstructure:"max_retries" yaml:"max_retries" validate:"min=0"`
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// Default returns the built-in configuration. DocsDir is left empty.
func Default() Config {
	v := viper.New()
	setDefaults(v)
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		panic(err)
	}
	return c
}

// Load reads configuration from path (optional, YAML), the environment
// and flags. Flags that were not set on the command line do not override
// other sources. The result is validated.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	c := &Config{}
	if err := v.Unmarshal(c); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// flagKeys maps command-line flag names onto configuration keys.
var flagKeys = map[string]string{
	"docs-dir":             "docs_dir",
	"prefix":               "prefix",
	"max-rows":             "max_rows",
	"search-limit":         "search_limit",
	"max-concurrent-calls": "max_concurrent_calls",
	"ranking":              "ranking",
	"log-level":            "log.level",
	"log-format":           "log.format",
	"call-log":             "log.call_file",
	"mode":                 "server.mode",
	"host":                 "server.host",
	"port":                 "server.port",
	"provider-url":         "provider.url",
}

// Every key gets a default, including empty ones, so AutomaticEnv
// overrides reach Unmarshal.
func setDefaults(v *viper.Viper) {
	markers := tooldoc.DefaultMarkers()
	keys := map[string]any{
		"markers.interface":    markers.Interface,
		"markers.description":  markers.Description,
		"markers.input_params": markers.InputParams,
		"markers.name_headers": markers.NameHeaders,
		"markers.type_headers": markers.TypeHeaders,
		"markers.extension":    markers.Extension,
		"docs_dir":             "",
		"prefix":               "ak",
		"max_rows":             100,
		"search_limit":         20,
		"max_concurrent_calls": 0,
		"history_size":         200,
		"parse_concurrency":    0,
		"ranking":              "id",
		"log.level":            "info",
		"log.format":           "text",
		"log.call_file":        "",
		"server.mode":          "stdio",
		"server.host":          "127.0.0.1",
		"server.port":          8000,
		"provider.name":        "akshare",
		"provider.url":         "",
		"provider.max_retries": 0,
	}
	for k, value := range keys {
		v.SetDefault(k, value)
	}
}
