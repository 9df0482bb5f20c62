package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AlexStarov/epl-label-GoLang-lib/label"
	"github.com/AlexStarov/epl-label-GoLang-lib/printer"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadMissingDefaultFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, printer.DefaultServiceName, cfg.Printer)

	o, err := cfg.Options()
	require.NoError(t, err)
	assert.Equal(t, label.DefaultOptions(), o)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestLoadFromXDG(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, AppName), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, AppName, "config.toml"), []byte(`printer = "Bench"`), 0o644))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "Bench", cfg.Printer)
	assert.Equal(t, 3, cfg.Defaults.Font)
}

func TestLoadOverrides(t *testing.T) {
	path := writeConfig(t, `
printer = "zdesigner lp 2844 (copy 1)"

[defaults]
font = 4
vertical = 3
image = "Reverse"
copies = 2
code_page = "850"

[log]
level = "debug"
dir = "/var/log/zlabel"

[[devices]]
name = "bench"
uri = "tcp://10.0.0.5:9100"

[[devices]]
name = "shipping"
uri = "lpd://printsrv/zebra"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "zdesigner lp 2844 (copy 1)", cfg.Printer)

	o, err := cfg.Options()
	require.NoError(t, err)
	assert.Equal(t, label.Options{Font: 4, Rotation: 0, Horizontal: 2, Vertical: 3, Reverse: true, Copies: 2, CodePage: "850"}, o)

	lc := cfg.LogConfig()
	assert.Equal(t, "debug", lc.Level)
	assert.Equal(t, "/var/log/zlabel", lc.Dir)
	assert.True(t, lc.Console)

	assert.Equal(t, []printer.Device{
		{Name: "bench", URI: "tcp://10.0.0.5:9100"},
		{Name: "shipping", URI: "lpd://printsrv/zebra"},
	}, cfg.PrinterDevices())
}

func TestLoadRejectsBadValues(t *testing.T) {
	for name, body := range map[string]string{
		"font":     "[defaults]\nfont = 9\n",
		"image":    "[defaults]\nimage = \"sepia\"\n",
		"device":   "[[devices]]\nname = \"x\"\nuri = \"ipp://x\"\n",
		"nameless": "[[devices]]\nuri = \"tcp://x\"\n",
		"syntax":   "printer = \n",
	} {
		_, err := Load(writeConfig(t, body))
		assert.Error(t, err, name)
	}
}

func TestLoadDirectory(t *testing.T) {
	_, err := Load(t.TempDir())
	assert.Error(t, err)
}
