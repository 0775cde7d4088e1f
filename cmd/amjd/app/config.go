package app

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/agentstation/amjd/pkg/constants"
	"github.com/agentstation/amjd/pkg/errors"
	"github.com/agentstation/amjd/pkg/sources"
)

// EnvPrefix prefixes every environment variable the CLI reads,
// e.g. AMJD_DATA_DIR or AMJD_SERVER_PORT.
const EnvPrefix = "AMJD"

// Config holds the application configuration loaded from various sources
// including config files, environment variables, and .env files.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool
	Format  string

	// Config file
	ConfigFile string

	// Datasets
	DataDir     string
	Sources     map[sources.ID]string // file name or glob, relative to DataDir
	IndexOutput string
	SQLitePath  string
	SitesFile   string

	Server ServerConfig

	// Logging configuration
	LogLevel  string
	LogFormat string
	LogOutput string
}

// ServerConfig holds `amjd serve` settings.
type ServerConfig struct {
	Host        string
	Port        int
	PathPrefix  string
	CORSOrigins []string
	CacheTTL    time.Duration
	// RequestTimeout bounds each API request; zero keeps the default.
	RequestTimeout time.Duration
}

// LoadConfig loads configuration from all sources in order of precedence:
// 1. Command-line flags (applied later by UpdateFromFlags)
// 2. AMJD_* environment variables
// 3. .env files
// 4. Config file (configFile, else ~/.amjd.yaml or ./.amjd.yaml)
// 5. Defaults
//
// A missing default config file is not an error; an explicit one is.
func LoadConfig(configFile string) (*Config, error) {
	loadEnvFiles()

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName(".amjd")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, errors.NewConfigError("config", "cannot read "+v.ConfigFileUsed(), err)
		}
	}

	config := &Config{
		Verbose:    v.GetBool("verbose"),
		Quiet:      v.GetBool("quiet"),
		NoColor:    v.GetBool("no_color"),
		Format:     v.GetString("format"),
		ConfigFile: v.ConfigFileUsed(),

		DataDir:     v.GetString("data_dir"),
		Sources:     make(map[sources.ID]string),
		IndexOutput: v.GetString("index_output"),
		SQLitePath:  v.GetString("sqlite_path"),
		SitesFile:   v.GetString("sites_file"),

		Server: ServerConfig{
			Host:        v.GetString("server.host"),
			Port:        v.GetInt("server.port"),
			PathPrefix:  v.GetString("server.path_prefix"),
			CORSOrigins: v.GetStringSlice("server.cors_origins"),
			CacheTTL:    v.GetDuration("server.cache_ttl"),

			RequestTimeout: v.GetDuration("server.request_timeout"),
		},

		LogLevel:  v.GetString("log.level"),
		LogFormat: v.GetString("log.format"),
		LogOutput: v.GetString("log.output"),
	}

	for _, id := range sources.IDs() {
		if pattern := v.GetString("sources." + id.String()); pattern != "" {
			config.Sources[id] = pattern
		}
	}

	return config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("data_dir", constants.DefaultDataDir)
	v.SetDefault("index_output", constants.EventIndexFile)
	v.SetDefault("sites_file", constants.SitesFile)
	v.SetDefault("server.host", constants.DefaultServerHost)
	v.SetDefault("server.port", constants.DefaultServerPort)
	v.SetDefault("server.path_prefix", constants.DefaultPathPrefix)
	v.SetDefault("server.cache_ttl", constants.DefaultCacheTTL)
	v.SetDefault("server.request_timeout", constants.RequestTimeout)
	v.SetDefault("log.format", "auto")
	v.SetDefault("log.output", "stderr")
}

// UpdateFromFlags updates config values from parsed command flags.
// This should be called after cobra parses flags to ensure flag
// values take precedence over config file and env vars.
func (c *Config) UpdateFromFlags(verbose, quiet, noColor bool, format, logLevel, dataDir string) {
	c.Verbose = c.Verbose || verbose
	c.Quiet = c.Quiet || quiet
	c.NoColor = c.NoColor || noColor
	if format != "" {
		c.Format = format
	}
	if logLevel != "" {
		c.LogLevel = logLevel
	}
	if dataDir != "" {
		c.DataDir = dataDir
	}
}

// Path resolves name against DataDir unless it is absolute.
func (c *Config) Path(name string) string {
	if name == "" || filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.DataDir, name)
}

// loadEnvFiles loads environment variables from .env files.
// .env.local is read first so its values win; godotenv never overrides
// variables that are already set.
func loadEnvFiles() {
	for _, envFile := range []string{".env.local", ".env"} {
		_ = godotenv.Load(envFile)
	}
}
