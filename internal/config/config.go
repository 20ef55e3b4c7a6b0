package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/marrasen/customied/internal/ied"
	"github.com/marrasen/customied/internal/logger"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"
	"github.com/spf13/viper"
	"gopkg.in/validator.v2"
)

// EnvPrefix prefixes every environment variable, e.g. CUSTOMIED_SERVER_PORT.
const EnvPrefix = "CUSTOMIED"

// Config holds all configuration of the device.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Identity   IdentityConfig   `mapstructure:"identity"`
	Model      ModelConfig      `mapstructure:"model"`
	Simulation SimulationConfig `mapstructure:"simulation"`
	Log        logger.Config    `mapstructure:"log"`
	Metrics    MetricsConfig    `mapstructure:"metrics"`
}

// ServerConfig configures the protocol server.
type ServerConfig struct {
	Port int `mapstructure:"port" default:"102" validate:"min=1,max=65535"`
	// FilesDir enables the file services when set.
	FilesDir         string `mapstructure:"files_dir" default:""`
	FileBasePath     string `mapstructure:"file_base_path" default:"./tmp/" validate:"nonzero"`
	ReportBufferSize int    `mapstructure:"report_buffer_size" default:"200000" validate:"min=0"`
	Edition          string `mapstructure:"edition" default:"2" validate:"edition"`
	MaxConnections   int    `mapstructure:"max_connections" default:"5" validate:"min=1"`
	DynamicDataSets  bool   `mapstructure:"dynamic_datasets" default:"true"`
	LogService       bool   `mapstructure:"log_service" default:"false"`
}

// IdentityConfig is reported by the MMS identify service.
type IdentityConfig struct {
	Vendor   string `mapstructure:"vendor" default:"Cappy"`
	Model    string `mapstructure:"model" default:"custom ied"`
	Revision string `mapstructure:"revision" default:"0.1"`
}

// ModelConfig locates the data model and the published attributes.
type ModelConfig struct {
	File string `mapstructure:"file" default:"model.cfg" validate:"nonzero"`
	// AnalogRefs are the data objects receiving the four simulated channels.
	AnalogRefs []string `mapstructure:"analog_refs" default:"simpleIOGenericIO/GGIO1.AnIn1,simpleIOGenericIO/GGIO1.AnIn2,simpleIOGenericIO/GGIO1.AnIn3,simpleIOGenericIO/GGIO1.AnIn4" validate:"len=4"`
}

// SimulationConfig tunes the update loop.
type SimulationConfig struct {
	Period time.Duration `mapstructure:"period" default:"100ms" validate:"min=1"`
	Step   float64       `mapstructure:"step" default:"0.1"`
}

// MetricsConfig enables the Prometheus endpoint when Listen is set.
type MetricsConfig struct {
	Listen string `mapstructure:"listen" default:""`
	Path   string `mapstructure:"path" default:"/metrics"`
}

// LoadOptions controls where configuration is read from.
type LoadOptions struct {
	// File is an optional config file (yaml, toml or json).
	File string
	// EnvFile is a dotenv file loaded if it exists. Defaults to ".env".
	EnvFile string
}

// LoadConfig loads configuration from defaults, .env, an optional config
// file and environment variables, in increasing priority.
func LoadConfig(opts LoadOptions) (*Config, error) {
	envFile := opts.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	// Ignore error if file doesn't exist
	_ = godotenv.Load(envFile)

	v := viper.New()
	bindValues(v, Config{}, "")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if opts.File != "" {
		v.SetConfigFile(opts.File)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", opts.File, err)
		}
	}

	// Decoded here so env values read as decimal, not with Go literal prefixes.
	port, err := parsePort(v.GetString("server.port"))
	if err != nil {
		return nil, fmt.Errorf("invalid server.port %q: %w", v.GetString("server.port"), err)
	}
	v.Set("server.port", port)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &cfg, nil
}

// ApplyArgs applies the positional arguments [port] [filesdir].
func (c *Config) ApplyArgs(args []string) error {
	if len(args) > 2 {
		return fmt.Errorf("expected at most 2 arguments, got %d", len(args))
	}
	if len(args) > 0 {
		port, err := parsePort(args[0])
		if err != nil {
			return fmt.Errorf("invalid port %q: %w", args[0], err)
		}
		c.Server.Port = port
	}
	if len(args) > 1 {
		c.Server.FilesDir = args[1]
	}
	return nil
}

var errNotDecimal = errors.New("not a decimal number")

// parsePort reads a port number in base 10. cast alone would treat "0102"
// as octal and accept "0x66".
func parsePort(s string) (int, error) {
	if s == "" || strings.TrimLeft(s, "0123456789") != "" {
		return 0, errNotDecimal
	}
	digits := strings.TrimLeft(s, "0")
	if digits == "" {
		digits = "0"
	}
	return cast.ToIntE(digits)
}

var configValidator = newValidator()

func newValidator() *validator.Validator {
	v := validator.NewValidator()
	_ = v.SetValidationFunc("edition", validateEdition)
	return v
}

func validateEdition(v any, _ string) error {
	s, ok := v.(string)
	if !ok {
		return validator.ErrUnsupported
	}
	switch s {
	case "1", "2", "2.1":
		return nil
	}
	return fmt.Errorf("unknown edition %q", s)
}

// Validate checks all fields against their constraints.
func (c *Config) Validate() error {
	if err := configValidator.Validate(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// IedServerConfig converts the configuration for the lifecycle manager.
func (c *Config) IedServerConfig() ied.ServerConfig {
	cfg := ied.DefaultServerConfig()
	cfg.Port = c.Server.Port
	cfg.FilesDir = c.Server.FilesDir
	cfg.FileServiceBasePath = c.Server.FileBasePath
	cfg.ReportBufferSize = c.Server.ReportBufferSize
	cfg.Edition = c.Server.Edition
	cfg.MaxConnections = c.Server.MaxConnections
	cfg.DynamicDataSets = c.Server.DynamicDataSets
	cfg.LogService = c.Server.LogService
	cfg.Identity = ied.Identity{
		Vendor:   c.Identity.Vendor,
		Model:    c.Identity.Model,
		Revision: c.Identity.Revision,
	}
	return cfg
}

// bindValues uses reflection to iterate over the struct and set default values in Viper
// based on the 'default' and 'mapstructure' tags.
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)

	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")
		if tag == "" {
			continue
		}

		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		if field.Type.Kind() == reflect.Struct {
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		}

		// Always set default (even if empty) to register the key for AutomaticEnv
		v.SetDefault(key, field.Tag.Get("default"))
	}
}
