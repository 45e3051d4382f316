package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// ErrNilConfig is returned when a nil config is passed to a function.
var ErrNilConfig = errors.New("nil config")

// HTTPConfig is the HTTP configuration for the server.
type HTTPConfig struct {
	// ListenAddr is the address on which the HTTP server will listen.
	ListenAddr string `env:"LISTEN_ADDR" yaml:"listen_addr"`

	// TLSKeyPath is the path to the TLS private key.
	TLSKeyPath string `env:"TLS_KEY_PATH" yaml:"tls_key_path"`

	// TLSCertPath is the path to the TLS certificate.
	TLSCertPath string `env:"TLS_CERT_PATH" yaml:"tls_cert_path"`

	// PublicURL is the public URL of the HTTP server.
	PublicURL string `env:"PUBLIC_URL" yaml:"public_url"`

	// MaxBodyBytes caps the size of a batch request body.
	MaxBodyBytes int64 `env:"MAX_BODY_BYTES" yaml:"max_body_bytes"`
}

// StatsConfig is the configuration for the stats server.
type StatsConfig struct {
	// ListenAddr is the address on which the stats server will listen.
	ListenAddr string `env:"LISTEN_ADDR" yaml:"listen_addr"`
}

// LogConfig is the logger configuration.
type LogConfig struct {
	// Format is the format of the logs.
	// Valid values are "json", "logfmt", and "text".
	Format string `env:"FORMAT" yaml:"format"`

	// Time format for the log `ts` field.
	// Format must be described in Golang's time format.
	TimeFormat string `env:"TIME_FORMAT" yaml:"time_format"`

	// Path to a file to write logs to.
	// If not set, logs will be written to stderr.
	Path string `env:"PATH" yaml:"path"`
}

// OrgsConfig is the organization admission configuration.
type OrgsConfig struct {
	// Allowed lists the organizations served. Matching is exact.
	Allowed []string `env:"ALLOWED" envSeparator:"," yaml:"allowed"`
}

// RedisConfig is the Redis connection configuration for the cache.
type RedisConfig struct {
	// URL is a redis:// connection string. It takes precedence over the
	// other fields.
	URL string `env:"URL" yaml:"url"`

	// Addr is the Redis address [host][:port].
	Addr string `env:"ADDR" yaml:"addr"`

	// Username is the Redis username.
	Username string `env:"USERNAME" yaml:"username"`

	// Password is the Redis password.
	Password string `env:"PASSWORD" yaml:"password"`

	// DB is the Redis database.
	DB int `env:"DB" yaml:"db"`
}

// CacheConfig is the permission cache configuration.
type CacheConfig struct {
	// Backend is the cache backend.
	// Valid values are "lru", "redis", and "noop".
	Backend string `env:"BACKEND" yaml:"backend"`

	// TTL is how long a resolved permission is cached.
	TTL time.Duration `env:"TTL" yaml:"ttl"`

	// Size is the maximum number of entries of the lru backend.
	Size int `env:"SIZE" yaml:"size"`

	// Redis is the configuration of the redis backend.
	Redis RedisConfig `envPrefix:"REDIS_" yaml:"redis"`
}

// OracleConfig is the permission oracle configuration.
type OracleConfig struct {
	// APIURL is the base URL of the GitHub REST API.
	APIURL string `env:"API_URL" yaml:"api_url"`

	// Timeout bounds a single permission lookup.
	Timeout time.Duration `env:"TIMEOUT" yaml:"timeout"`

	// UserAgent is sent with every request to the API.
	UserAgent string `env:"USER_AGENT" yaml:"user_agent"`
}

// StorageConfig is the object storage configuration.
type StorageConfig struct {
	// Backend is the storage backend.
	// Valid values are "s3" and "local".
	Backend string `env:"BACKEND" yaml:"backend"`

	// Endpoint is the S3 endpoint. Leave empty for AWS.
	Endpoint string `env:"ENDPOINT" yaml:"endpoint"`

	// Region is the S3 region. Use "auto" for R2.
	Region string `env:"REGION" yaml:"region"`

	// Bucket is the S3 bucket.
	Bucket string `env:"BUCKET" yaml:"bucket"`

	// AccessKeyID is the S3 access key id.
	AccessKeyID string `env:"ACCESS_KEY_ID" yaml:"access_key_id"`

	// SecretAccessKey is the S3 secret access key.
	SecretAccessKey string `env:"SECRET_ACCESS_KEY" yaml:"secret_access_key"`

	// UsePathStyle forces path style S3 URLs.
	UsePathStyle bool `env:"USE_PATH_STYLE" yaml:"use_path_style"`

	// LocalRoot is the directory objects are stored in by the local
	// backend.
	LocalRoot string `env:"LOCAL_ROOT" yaml:"local_root"`

	// SigningSecret signs URLs issued by the local backend.
	SigningSecret string `env:"SIGNING_SECRET" yaml:"signing_secret"`

	// PublicURL is the base URL of the blob host serving the local backend.
	PublicURL string `env:"PUBLIC_URL" yaml:"public_url"`
}

// BatchConfig is the batch processing configuration.
type BatchConfig struct {
	// Concurrency is the number of objects of a batch processed at once.
	Concurrency int `env:"CONCURRENCY" yaml:"concurrency"`

	// ActionExpiry is the lifetime of signed action URLs.
	ActionExpiry time.Duration `env:"ACTION_EXPIRY" yaml:"action_expiry"`
}

// Config is the configuration for lfsgate.
type Config struct {
	// Name is the name of the server.
	Name string `env:"NAME" yaml:"name"`

	// HTTP is the configuration for the HTTP server.
	HTTP HTTPConfig `envPrefix:"HTTP_" yaml:"http"`

	// Stats is the configuration for the stats server.
	Stats StatsConfig `envPrefix:"STATS_" yaml:"stats"`

	// Log is the logger configuration.
	Log LogConfig `envPrefix:"LOG_" yaml:"log"`

	// Orgs is the organization admission configuration.
	Orgs OrgsConfig `envPrefix:"ORGS_" yaml:"orgs"`

	// Cache is the permission cache configuration.
	Cache CacheConfig `envPrefix:"CACHE_" yaml:"cache"`

	// Oracle is the permission oracle configuration.
	Oracle OracleConfig `envPrefix:"ORACLE_" yaml:"oracle"`

	// Storage is the object storage configuration.
	Storage StorageConfig `envPrefix:"STORAGE_" yaml:"storage"`

	// Batch is the batch processing configuration.
	Batch BatchConfig `envPrefix:"BATCH_" yaml:"batch"`

	// DataPath is the path to the directory where lfsgate will store its data.
	DataPath string `env:"DATA_PATH" yaml:"-"`
}

// Environ returns the config as a list of environment variables. Secrets
// are left out.
func (c *Config) Environ() []string {
	envs := []string{}
	if c == nil {
		return envs
	}

	envs = append(envs, []string{
		fmt.Sprintf("LFSGATE_DATA_PATH=%s", c.DataPath),
		fmt.Sprintf("LFSGATE_NAME=%s", c.Name),
		fmt.Sprintf("LFSGATE_HTTP_LISTEN_ADDR=%s", c.HTTP.ListenAddr),
		fmt.Sprintf("LFSGATE_HTTP_TLS_KEY_PATH=%s", c.HTTP.TLSKeyPath),
		fmt.Sprintf("LFSGATE_HTTP_TLS_CERT_PATH=%s", c.HTTP.TLSCertPath),
		fmt.Sprintf("LFSGATE_HTTP_PUBLIC_URL=%s", c.HTTP.PublicURL),
		fmt.Sprintf("LFSGATE_HTTP_MAX_BODY_BYTES=%d", c.HTTP.MaxBodyBytes),
		fmt.Sprintf("LFSGATE_STATS_LISTEN_ADDR=%s", c.Stats.ListenAddr),
		fmt.Sprintf("LFSGATE_LOG_FORMAT=%s", c.Log.Format),
		fmt.Sprintf("LFSGATE_LOG_TIME_FORMAT=%s", c.Log.TimeFormat),
		fmt.Sprintf("LFSGATE_LOG_PATH=%s", c.Log.Path),
		fmt.Sprintf("LFSGATE_ORGS_ALLOWED=%s", strings.Join(c.Orgs.Allowed, ",")),
		fmt.Sprintf("LFSGATE_CACHE_BACKEND=%s", c.Cache.Backend),
		fmt.Sprintf("LFSGATE_CACHE_TTL=%s", c.Cache.TTL),
		fmt.Sprintf("LFSGATE_CACHE_SIZE=%d", c.Cache.Size),
		fmt.Sprintf("LFSGATE_CACHE_REDIS_ADDR=%s", c.Cache.Redis.Addr),
		fmt.Sprintf("LFSGATE_CACHE_REDIS_DB=%d", c.Cache.Redis.DB),
		fmt.Sprintf("LFSGATE_ORACLE_API_URL=%s", c.Oracle.APIURL),
		fmt.Sprintf("LFSGATE_ORACLE_TIMEOUT=%s", c.Oracle.Timeout),
		fmt.Sprintf("LFSGATE_ORACLE_USER_AGENT=%s", c.Oracle.UserAgent),
		fmt.Sprintf("LFSGATE_STORAGE_BACKEND=%s", c.Storage.Backend),
		fmt.Sprintf("LFSGATE_STORAGE_ENDPOINT=%s", c.Storage.Endpoint),
		fmt.Sprintf("LFSGATE_STORAGE_REGION=%s", c.Storage.Region),
		fmt.Sprintf("LFSGATE_STORAGE_BUCKET=%s", c.Storage.Bucket),
		fmt.Sprintf("LFSGATE_STORAGE_USE_PATH_STYLE=%t", c.Storage.UsePathStyle),
		fmt.Sprintf("LFSGATE_STORAGE_LOCAL_ROOT=%s", c.Storage.LocalRoot),
		fmt.Sprintf("LFSGATE_STORAGE_PUBLIC_URL=%s", c.Storage.PublicURL),
		fmt.Sprintf("LFSGATE_BATCH_CONCURRENCY=%d", c.Batch.Concurrency),
		fmt.Sprintf("LFSGATE_BATCH_ACTION_EXPIRY=%s", c.Batch.ActionExpiry),
	}...)

	return envs
}

// IsDebug returns true if the server is running in debug mode.
func IsDebug() bool {
	debug, _ := strconv.ParseBool(os.Getenv("LFSGATE_DEBUG"))
	return debug
}

// IsVerbose returns true if the server is running in verbose mode.
// Verbose mode is only enabled if debug mode is enabled.
func IsVerbose() bool {
	verbose, _ := strconv.ParseBool(os.Getenv("LFSGATE_VERBOSE"))
	return IsDebug() && verbose
}

// parseFile parses the given file as a configuration file.
// The file must be in YAML format.
func parseFile(cfg *Config, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}

	defer f.Close() // nolint: errcheck
	if err := yaml.NewDecoder(f).Decode(cfg); err != nil {
		return fmt.Errorf("decode config: %w", err)
	}

	return cfg.Validate()
}

// ParseFile parses the config from the default file path.
// This also calls Validate() on the config.
func (c *Config) ParseFile() error {
	return parseFile(c, c.ConfigPath())
}

// parseEnv parses the environment variables as a configuration file.
func parseEnv(cfg *Config) error {
	// Override with environment variables
	if err := env.ParseWithOptions(cfg, env.Options{
		Prefix: "LFSGATE_",
	}); err != nil {
		return fmt.Errorf("parse environment variables: %w", err)
	}

	return cfg.Validate()
}

// ParseEnv parses the config from the environment variables.
// This also calls Validate() on the config.
func (c *Config) ParseEnv() error {
	return parseEnv(c)
}

// Parse parses the config from the default file path and environment
// variables. A missing config file is not an error.
// This also calls Validate() on the config.
func (c *Config) Parse() error {
	if c.Exist() {
		if err := c.ParseFile(); err != nil {
			return err
		}
	}

	return c.ParseEnv()
}

// writeConfig writes the configuration to the given file.
func writeConfig(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(newConfigFile(cfg)), 0o600) // nolint: errcheck, gosec
}

// WriteConfig writes the configuration to the default file.
func (c *Config) WriteConfig() error {
	return writeConfig(c, c.ConfigPath())
}

// DefaultDataPath returns the path to the data directory.
// It uses the LFSGATE_DATA_PATH environment variable if set, otherwise it
// uses "data".
func DefaultDataPath() string {
	dp := os.Getenv("LFSGATE_DATA_PATH")
	if dp == "" {
		dp = "data"
	}

	return dp
}

// ConfigPath returns the path to the config file. LFSGATE_CONFIG_LOCATION
// is used when it points to an existing file.
func (c *Config) ConfigPath() string { // nolint:revive
	if path := os.Getenv("LFSGATE_CONFIG_LOCATION"); path != "" && exist(path) {
		return path
	}

	return filepath.Join(c.DataPath, "config.yaml")
}

func exist(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Exist returns true if the config file exists.
func (c *Config) Exist() bool {
	return exist(c.ConfigPath())
}

// DefaultConfig returns the default Config. All the path values are relative
// to the data directory.
// Use Validate() to validate the config and ensure absolute paths.
func DefaultConfig() *Config {
	return &Config{
		Name:     "lfsgate",
		DataPath: DefaultDataPath(),
		HTTP: HTTPConfig{
			ListenAddr:   ":8080",
			PublicURL:    "http://localhost:8080",
			MaxBodyBytes: 1 << 20,
		},
		Stats: StatsConfig{
			ListenAddr: "localhost:8081",
		},
		Log: LogConfig{
			Format:     "text",
			TimeFormat: time.DateTime,
		},
		Cache: CacheConfig{
			Backend: "lru",
			TTL:     300 * time.Second,
			Size:    10000,
			Redis: RedisConfig{
				Addr: "localhost:6379",
			},
		},
		Oracle: OracleConfig{
			APIURL:    "https://api.github.com/",
			Timeout:   10 * time.Second,
			UserAgent: "lfsgate",
		},
		Storage: StorageConfig{
			Backend:   "local",
			Region:    "auto",
			LocalRoot: "objects",
			PublicURL: "http://localhost:8082",
		},
		Batch: BatchConfig{
			Concurrency:  16,
			ActionExpiry: time.Hour,
		},
	}
}

var (
	cacheBackends   = []string{"lru", "redis", "noop"}
	storageBackends = []string{"s3", "local"}
)

// Validate validates the configuration.
// It updates the configuration with absolute paths.
func (c *Config) Validate() error {
	// Use absolute paths
	if !filepath.IsAbs(c.DataPath) {
		dp, err := filepath.Abs(c.DataPath)
		if err != nil {
			return err
		}
		c.DataPath = dp
	}

	c.HTTP.PublicURL = strings.TrimSuffix(c.HTTP.PublicURL, "/")
	c.Storage.PublicURL = strings.TrimSuffix(c.Storage.PublicURL, "/")

	if c.HTTP.TLSKeyPath != "" && !filepath.IsAbs(c.HTTP.TLSKeyPath) {
		c.HTTP.TLSKeyPath = filepath.Join(c.DataPath, c.HTTP.TLSKeyPath)
	}

	if c.HTTP.TLSCertPath != "" && !filepath.IsAbs(c.HTTP.TLSCertPath) {
		c.HTTP.TLSCertPath = filepath.Join(c.DataPath, c.HTTP.TLSCertPath)
	}

	if c.Storage.LocalRoot != "" && !filepath.IsAbs(c.Storage.LocalRoot) {
		c.Storage.LocalRoot = filepath.Join(c.DataPath, c.Storage.LocalRoot)
	}

	allowed := make([]string, 0, len(c.Orgs.Allowed))
	for _, o := range c.Orgs.Allowed {
		if o = strings.TrimSpace(o); o != "" && !slices.Contains(allowed, o) {
			allowed = append(allowed, o)
		}
	}
	c.Orgs.Allowed = allowed

	if !slices.Contains(cacheBackends, c.Cache.Backend) {
		return fmt.Errorf("invalid cache backend %q", c.Cache.Backend)
	}

	if !slices.Contains(storageBackends, c.Storage.Backend) {
		return fmt.Errorf("invalid storage backend %q", c.Storage.Backend)
	}

	if c.Storage.Backend == "s3" && c.Storage.Bucket == "" {
		return errors.New("storage bucket is required for the s3 backend")
	}

	if c.Oracle.APIURL != "" {
		if _, err := url.Parse(c.Oracle.APIURL); err != nil {
			return fmt.Errorf("invalid oracle api url: %w", err)
		}
	}

	if c.Cache.TTL < 0 || c.Oracle.Timeout < 0 || c.Batch.ActionExpiry < 0 {
		return errors.New("durations must not be negative")
	}

	return nil
}
