package redis

import (
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Config is the configuration for the Redis cache.
type Config struct {
	// URL is a redis://<user>:<password>@<host>:<port>/<db> connection
	// string. When set it takes precedence over the other fields.
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

// DefaultConfig returns the default configuration for the Redis cache.
func DefaultConfig() Config {
	return Config{
		Addr: "localhost:6379",
	}
}

// Options returns the client options described by the configuration.
func (c Config) Options() (*redis.Options, error) {
	if c.URL != "" {
		opts, err := redis.ParseURL(c.URL)
		if err != nil {
			return nil, fmt.Errorf("invalid redis url: %w", err)
		}
		return opts, nil
	}

	return &redis.Options{
		Addr:     c.Addr,
		Username: c.Username,
		Password: c.Password,
		DB:       c.DB,
	}, nil
}
