package config

import (
	"flag"
	"os"
	"path/filepath"
	"testing"
	"time"

	"cadterm/internal/canvas"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "cadterm.toml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestDefaultsMatchCanvas(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())
	assert.Equal(t, canvas.DefaultSettings(), cfg.Canvas())
	assert.Equal(t, canvas.ToolSelection, cfg.Tool())
	assert.True(t, cfg.Draw.Snap)
}

func TestLoadFile(t *testing.T) {
	p := writeFile(t, `
[tolerance]
select = 12
snap = 6

[draw]
tool = "polyline"
ortho = true

[ui]
double_click = "300ms"

[bridge]
listen = "127.0.0.1:7788"

[log]
level = "debug"
`)
	cfg, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, 12.0, cfg.Canvas().SelectTolerance)
	assert.Equal(t, 6.0, cfg.Canvas().SnapTolerance)
	assert.Equal(t, 25.0, cfg.Canvas().MaxTolerance, "unset keys keep defaults")
	assert.Equal(t, canvas.ToolPolyline, cfg.Tool())
	assert.True(t, cfg.Draw.Ortho)
	assert.Equal(t, 300*time.Millisecond, cfg.UI.DoubleClick)
	assert.Equal(t, "127.0.0.1:7788", cfg.Bridge.Listen)
	assert.Equal(t, log.DebugLevel, cfg.Level())
}

func TestLoadRejectsBadInput(t *testing.T) {
	_, err := Load(writeFile(t, "[draw]\ntool = \"arc\"\n"))
	assert.ErrorContains(t, err, "unknown tool")

	_, err = Load(writeFile(t, "[zoom]\nin = 0.5\n"))
	assert.ErrorContains(t, err, "zoom")

	_, err = Load(writeFile(t, "[draw]\ncolour = \"red\"\n"))
	assert.ErrorContains(t, err, "unknown keys")

	_, err = Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestFlagsOverrideOnlyWhenSet(t *testing.T) {
	fs := flag.NewFlagSet("cadterm", flag.ContinueOnError)
	f := RegisterFlags(fs)
	require.NoError(t, fs.Parse([]string{"-tool", "line", "-debug"}))

	cfg := Default()
	cfg.Draw.Ortho = true
	f.Apply(&cfg)
	assert.Equal(t, "line", cfg.Draw.Tool)
	assert.True(t, cfg.Draw.Ortho, "unset -ortho does not clobber the file value")
	assert.Equal(t, "debug", cfg.Log.Level)
}
