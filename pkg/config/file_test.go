package config

import (
	"strings"
	"testing"

	"github.com/matryer/is"
	"gopkg.in/yaml.v3"
)

func TestNewConfigFile(t *testing.T) {
	for _, cfg := range []*Config{
		nil,
		DefaultConfig(),
		&Config{},
	} {
		if s := newConfigFile(cfg); s == "" {
			t.Errorf("newConfigFile(%v) => %q, want non-empty string", cfg, s)
		}
	}
}

func TestConfigFileRoundTrip(t *testing.T) {
	is := is.New(t)
	cfg := DefaultConfig()
	cfg.Orgs.Allowed = []string{"acme", "initech"}
	cfg.Cache.Backend = "redis"

	s := cfg.File()
	is.True(strings.Contains(s, "acme"))

	var parsed Config
	is.NoErr(yaml.Unmarshal([]byte(s), &parsed))
	is.Equal(parsed.Orgs.Allowed, cfg.Orgs.Allowed)
	is.Equal(parsed.Cache.Backend, "redis")
	is.Equal(parsed.HTTP.ListenAddr, cfg.HTTP.ListenAddr)
	is.Equal(parsed.Batch.ActionExpiry, cfg.Batch.ActionExpiry)
}
