package app

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"torus-life/internal/driver"
	engine "torus-life/pkg/life"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "life.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func parse(t *testing.T, args ...string) (*pflag.FlagSet, *Config) {
	t.Helper()
	flags := NewConfig()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Bind(fs)
	require.NoError(t, fs.Parse(args))
	return fs, flags
}

func TestDefaults(t *testing.T) {
	cfg := NewConfig()
	assert.Equal(t, "life", cfg.Sim)
	assert.Equal(t, 256, cfg.Life.Width)
	assert.Equal(t, uint64(driver.DefaultMaxTicks), cfg.MaxTicks)
	assert.Equal(t, 60, cfg.TPS)
}

func TestResolvePrecedence(t *testing.T) {
	file := writeConfig(t, `
life:
  width: 40
  height: 30
  seeder: noise
tps: 5
db: history.db
`)
	fs, flags := parse(t, "--height", "12", "--ticks", "7", "-p", "glider")

	cfg, err := Resolve(nil, file, fs, flags)
	require.NoError(t, err)
	assert.Equal(t, 40, cfg.Life.Width, "from file")
	assert.Equal(t, 12, cfg.Life.Height, "flag beats file")
	assert.Equal(t, "noise", cfg.Life.Seeder)
	assert.Equal(t, "glider", cfg.Life.Pattern)
	assert.Equal(t, 5, cfg.TPS)
	assert.Equal(t, uint64(7), cfg.MaxTicks)
	assert.Equal(t, "history.db", cfg.DB)
	assert.Equal(t, int64(42), cfg.Life.Seed, "default kept")
}

func TestResolveWithoutFile(t *testing.T) {
	fs, flags := parse(t, "--seed", "9", "--every", "3")
	cfg, err := Resolve(nil, "", fs, flags)
	require.NoError(t, err)
	assert.Equal(t, int64(9), cfg.Life.Seed)
	assert.Equal(t, uint64(3), cfg.Every)
	assert.Equal(t, 256, cfg.Life.Width)
}

func TestResolveErrors(t *testing.T) {
	fs, flags := parse(t)
	_, err := Resolve(nil, filepath.Join(t.TempDir(), "missing.yaml"), fs, flags)
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = Resolve(nil, writeConfig(t, "colour: red\n"), fs, flags)
	assert.Error(t, err)

	fs, flags = parse(t, "--seeder", "dice")
	_, err = Resolve(nil, "", fs, flags)
	assert.ErrorContains(t, err, "unknown seeder")

	fs, flags = parse(t, "--width", "0")
	_, err = Resolve(nil, "", fs, flags)
	assert.ErrorIs(t, err, engine.ErrInvalidSize)

	fs, flags = parse(t)
	_, err = Resolve(nil, writeConfig(t, "life:\n  height: -2\n"), fs, flags)
	assert.ErrorIs(t, err, engine.ErrInvalidSize)
}

func TestResolveBase(t *testing.T) {
	base := NewConfig()
	base.TPS = 0
	base.MaxTicks = 10
	fs, flags := parse(t, "--width", "8")
	cfg, err := Resolve(base, "", fs, flags)
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.TPS)
	assert.Equal(t, uint64(10), cfg.MaxTicks)
	assert.Equal(t, 8, cfg.Life.Width)
	assert.Equal(t, 256, base.Life.Width, "base is not modified")
}

func TestLoadFileEmptyKeepsValues(t *testing.T) {
	cfg := NewConfig()
	require.NoError(t, cfg.LoadFile(writeConfig(t, "")))
	assert.Equal(t, NewConfig(), cfg)
}

func TestLifeConfigViewport(t *testing.T) {
	cfg := NewConfig()
	assert.Equal(t, cfg.Life, cfg.LifeConfig())

	cfg.ViewportW, cfg.ViewportH = 401, 201
	lc := cfg.LifeConfig()
	assert.Equal(t, 100, lc.Width)
	assert.Equal(t, 50, lc.Height)

	cfg.ViewportH = 0
	assert.Equal(t, 99, cfg.LifeConfig().Height)
}

func TestInitializeOnce(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var first, second bytes.Buffer
	Initialize(&first, true)
	Initialize(&second, false)

	slog.Debug("hello")
	assert.Contains(t, first.String(), "hello")
	assert.Empty(t, second.String())
}
