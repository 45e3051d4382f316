package serve

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/lfsgate/lfsgate/pkg/config"
	"github.com/matryer/is"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.DataPath = t.TempDir()
	cfg.HTTP.ListenAddr = "127.0.0.1:0"
	cfg.Stats.ListenAddr = "127.0.0.1:0"
	return cfg
}

func TestNewServerNilConfig(t *testing.T) {
	is := is.New(t)
	_, err := NewServer(context.Background())
	is.Equal(err, config.ErrNilConfig)
}

func TestNewServerMissingKeyPair(t *testing.T) {
	is := is.New(t)
	cfg := testConfig(t)
	cfg.HTTP.TLSCertPath = filepath.Join(cfg.DataPath, "cert.pem")
	cfg.HTTP.TLSKeyPath = filepath.Join(cfg.DataPath, "key.pem")

	_, err := NewServer(config.WithContext(context.Background(), cfg))
	is.True(err != nil)
}

func TestServerStartShutdown(t *testing.T) {
	is := is.New(t)
	ctx := config.WithContext(context.Background(), testConfig(t))

	s, err := NewServer(ctx)
	is.NoErr(err)
	is.True(s.HTTPServer.Server.TLSConfig == nil)

	errc := make(chan error, 1)
	go func() { errc <- s.Start() }()

	time.Sleep(50 * time.Millisecond)
	sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	is.NoErr(s.Shutdown(sctx))

	select {
	case err := <-errc:
		is.NoErr(err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
