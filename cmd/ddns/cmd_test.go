package main

import (
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/jxo-me/cfddns/config"
	"github.com/jxo-me/cfddns/core/logger"
	xlogger "github.com/jxo-me/cfddns/sdk/logger"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

const fileConfig = `
domains:
  - name: file.example.com
common:
  zoneId: zone
  authKey: key
`

func newContext(t *testing.T, args ...string) *cli.Context {
	set := flag.NewFlagSet("test", flag.ContinueOnError)
	set.String("c", "", "")
	set.Bool("gen", false, "")
	set.String("domain", "", "")
	set.String("zoneId", "", "")
	set.String("authKey", "", "")
	set.Bool("v4", true, "")
	set.Bool("v6", false, "")
	set.String("file", "", "")
	require.NoError(t, set.Parse(args))
	return cli.NewContext(cli.NewApp(), set, nil)
}

func TestLoadRootGenerate(t *testing.T) {
	file := filepath.Join(t.TempDir(), "generated.yaml")
	c := newContext(t, "-gen", "-domain=Home.Example.com", "-zoneId=zone", "-authKey=key", "-v6=true", "-file="+file)

	root, path, err := loadRoot(c, xlogger.Nop())
	require.NoError(t, err)
	assert.Equal(t, file, path)
	require.Len(t, root.Domains, 1)
	assert.Equal(t, "home.example.com", root.Domains[0].Name)

	saved, err := config.Load(file)
	require.NoError(t, err)
	settings, err := saved.Resolve(xlogger.Nop())
	require.NoError(t, err)
	require.Len(t, settings, 1)
	assert.Equal(t, "zone", settings[0].Properties.ZoneID)
	assert.True(t, settings[0].Properties.V4)
	assert.True(t, settings[0].Properties.V6)
	assert.True(t, settings[0].Properties.TTLCheck)
	assert.Equal(t, 1, settings[0].Properties.ReInit)
}

func TestLoadRootGenerateWithoutFile(t *testing.T) {
	c := newContext(t, "-gen", "-domain=home.example.com", "-zoneId=zone", "-authKey=key")

	root, path, err := loadRoot(c, xlogger.Nop())
	require.NoError(t, err)
	assert.Empty(t, path)
	require.Len(t, root.Domains, 1)
}

func TestLoadRootGenerateMissingFlags(t *testing.T) {
	tests := []struct {
		name string
		args []string
		msg  string
	}{
		{"domain", []string{"-gen", "-zoneId=zone", "-authKey=key"}, "-gen requires -domain"},
		{"zoneId", []string{"-gen", "-domain=home.example.com", "-authKey=key"}, "-gen requires -zoneId"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := loadRoot(newContext(t, tt.args...), xlogger.Nop())
			require.Error(t, err)
			var cfgErr *config.ConfigError
			require.True(t, errors.As(err, &cfgErr))
			assert.Equal(t, tt.msg, cfgErr.Msg)
		})
	}
}

func TestLoadRootConfigWinsOverGenerate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(fileConfig), 0600))
	generated := filepath.Join(t.TempDir(), "generated.yaml")

	c := newContext(t, "-c="+path, "-gen", "-domain=gen.example.com", "-zoneId=zone", "-authKey=key", "-file="+generated)
	root, used, err := loadRoot(c, xlogger.Nop())
	require.NoError(t, err)
	assert.Equal(t, path, used)
	require.Len(t, root.Domains, 1)
	assert.Equal(t, "file.example.com", root.Domains[0].Name)
	assert.NoFileExists(t, generated)
}

func TestLoadRootEnvPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(fileConfig), 0600))
	t.Setenv(config.ConfigFilePathENV, path)

	root, used, err := loadRoot(newContext(t), xlogger.Nop())
	require.NoError(t, err)
	assert.Equal(t, path, used)
	assert.Equal(t, "file.example.com", root.Domains[0].Name)
}

func TestLoadRootNoConfig(t *testing.T) {
	t.Setenv(config.ConfigFilePathENV, "")

	_, _, err := loadRoot(newContext(t), xlogger.Nop())
	assert.ErrorIs(t, err, config.ErrNoConfigFile)
}

func TestLogFromConfigNone(t *testing.T) {
	for _, output := range []string{"none", "null"} {
		log := logFromConfig(&config.LogConfig{Output: output, Level: "debug"}, true)
		assert.False(t, log.IsLevelEnabled(logger.ErrorLevel), output)
	}
}

func TestLogFromConfigFile(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name string
		cfg  *config.LogConfig
	}{
		{"plain", &config.LogConfig{Output: filepath.Join(dir, "logs", "plain.log"), Format: "json"}},
		{"rotated", &config.LogConfig{
			Output:   filepath.Join(dir, "rotated.log"),
			Format:   "json",
			Rotation: &config.LogRotationConfig{MaxSize: 1, MaxBackups: 1},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log := logFromConfig(tt.cfg, false)
			log.Infof("hello from %s", tt.name)

			byt, err := os.ReadFile(tt.cfg.Output)
			require.NoError(t, err)
			assert.Contains(t, string(byt), "hello from "+tt.name)
		})
	}
}

func TestLogFromConfigLevel(t *testing.T) {
	cfg := &config.LogConfig{Output: "stderr", Level: "warn", Format: "json"}

	log := logFromConfig(cfg, false)
	assert.False(t, log.IsLevelEnabled(logger.InfoLevel))
	assert.True(t, log.IsLevelEnabled(logger.WarnLevel))

	log = logFromConfig(cfg, true)
	assert.True(t, log.IsLevelEnabled(logger.DebugLevel))

	assert.True(t, logFromConfig(nil, false).IsLevelEnabled(logger.InfoLevel))
}
