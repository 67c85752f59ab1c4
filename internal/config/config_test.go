package config_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/silt-lang/silt/internal/config"
	"github.com/silt-lang/silt/pkg/core"
	"github.com/silt-lang/silt/pkg/heap"
	"github.com/silt-lang/silt/tester"
)

func TestLoadDefaults(t *testing.T) {
	test := require.New(t)
	dir := tester.MakeDir("config-empty", nil)
	defer dir.Delete()

	cfg, err := config.Load(dir.DirPath(), "")
	test.NoError(err)
	test.Equal(config.Config{}, cfg)
}

func TestLoadFile(t *testing.T) {
	test := require.New(t)
	dir := tester.MakeDir("config-file", map[string]string{
		"silt.yaml": `
			checks: true
			heap_limit: 4096
		`,
	})
	defer dir.Delete()

	cfg, err := config.Load(dir.DirPath(), "")
	test.NoError(err)
	test.Equal(config.Config{Checks: true, HeapLimit: 4096}, cfg)
}

func TestLoadExplicitFile(t *testing.T) {
	test := require.New(t)
	dir := tester.MakeDir("config-explicit", map[string]string{
		"custom.yaml": "trace: true",
	})
	defer dir.Delete()

	cfg, err := config.Load("", filepath.Join(dir.DirPath(), "custom.yaml"))
	test.NoError(err)
	test.True(cfg.Trace)

	_, err = config.Load("", filepath.Join(dir.DirPath(), "missing.yaml"))
	test.ErrorContains(err, "read config")
}

func TestLoadEnv(t *testing.T) {
	test := require.New(t)
	dir := tester.MakeDir("config-env", map[string]string{
		"silt.yaml": "heap_limit: 100",
	})
	defer dir.Delete()

	t.Setenv("SILT_HEAP_LIMIT", "200")
	t.Setenv("SILT_CHECKS", "true")

	cfg, err := config.Load(dir.DirPath(), "")
	test.NoError(err)
	test.Equal(int64(200), cfg.HeapLimit)
	test.True(cfg.Checks)
	test.False(cfg.Trace)
}

func TestLoadInvalid(t *testing.T) {
	test := require.New(t)
	dir := tester.MakeDir("config-invalid", map[string]string{
		"silt.yaml": "heap_limit: -1",
	})
	defer dir.Delete()

	_, err := config.Load(dir.DirPath(), "")
	test.EqualError(err, "config: heap_limit must not be negative, got -1")

	bad := tester.MakeDir("config-bad", map[string]string{
		"silt.yaml": "checks: [",
	})
	defer bad.Delete()

	_, err = config.Load(bad.DirPath(), "")
	test.ErrorContains(err, "read config")
}

func TestApply(t *testing.T) {
	test := require.New(t)
	defer core.EnableChecks(core.ChecksEnabled())

	h := heap.New(nil)
	config.Config{Checks: true, HeapLimit: 64}.Apply(h)
	test.True(core.ChecksEnabled())
	test.Equal(int64(64), h.Limit())

	config.Config{}.Apply(h)
	test.False(core.ChecksEnabled())
	test.Equal(int64(0), h.Limit())
}
