package log

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/lfsgate/lfsgate/pkg/config"
	"github.com/matryer/is"
)

func TestGoodNewLogger(t *testing.T) {
	for _, c := range []*config.Config{
		config.DefaultConfig(),
		{},
		{Log: config.LogConfig{Path: filepath.Join(t.TempDir(), "logfile.txt")}},
	} {
		_, f, err := NewLogger(c)
		if err != nil {
			t.Errorf("NewLogger(%v) => _, _, %v, want _, _, nil", c, err)
		}
		if f != nil {
			f.Close()
		}
	}
}

func TestBadNewLogger(t *testing.T) {
	for _, c := range []*config.Config{
		nil,
		{Log: config.LogConfig{Path: "\x00"}},
	} {
		_, f, err := NewLogger(c)
		if err == nil {
			t.Errorf("NewLogger(%v) => _, _, nil, want _, _, %v", c, err)
		}
		if f != nil {
			f.Close()
		}
	}
}

func TestJSONLogFile(t *testing.T) {
	is := is.New(t)
	t.Setenv("LFSGATE_DEBUG", "true")
	path := filepath.Join(t.TempDir(), "lfsgate.log")
	logger, f, err := NewLogger(&config.Config{Log: config.LogConfig{Format: "json", Path: path}})
	is.NoErr(err)
	is.Equal(logger.GetLevel(), log.DebugLevel)

	logger.WithPrefix("http").Debug("request", "status", 200)
	is.NoErr(f.Close())

	bts, err := os.ReadFile(path)
	is.NoErr(err)
	line := string(bts)
	is.True(strings.Contains(line, `"msg":"request"`))
	is.True(strings.Contains(line, `"status":200`))
}
