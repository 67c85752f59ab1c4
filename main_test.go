package main

import (
	"bytes"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/silt-lang/silt/pkg/core"
	"github.com/silt-lang/silt/pkg/crash"
	"github.com/silt-lang/silt/tester"
	"github.com/silt-lang/silt/util"
)

var scripts = filepath.Join("pkg", "script", "testdata")

func execute(args ...string) (string, error) {
	defer core.EnableChecks(core.ChecksEnabled())

	out := &bytes.Buffer{}
	cmd := newRootCmd()
	cmd.SetOut(out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	test := require.New(t)
	out, err := execute("version")
	test.NoError(err)
	test.Equal(version+"\n", out)
}

func TestTypes(t *testing.T) {
	test := require.New(t)
	out, err := execute("types")
	test.NoError(err)

	lines := util.TrimLines(util.Lines(out))
	test.Len(lines, 13)
	test.Equal("  1  Unit       0  primitive trivial", lines[0])
	test.Equal(" 13  Float64    8  primitive trivial", lines[12])
}

func TestTypesScript(t *testing.T) {
	test := require.New(t)
	out, err := execute("types", filepath.Join(scripts, "pair.trace"))
	test.NoError(err)

	lines := util.TrimLines(util.Lines(out))
	test.Len(lines, 15)
	test.Equal(" 14  Handle     8  record", lines[13])
	test.Equal(" 15  Pair      16  record", lines[14])
}

func TestRun(t *testing.T) {
	test := require.New(t)
	file := filepath.Join(scripts, "pair.trace")
	out, err := execute("run", file)
	test.NoError(err)

	expected := util.ReadText(filepath.Join(scripts, "pair.out"))
	test.Equal(util.TrimLines(util.Lines(expected)), util.TrimLines(util.Lines(out)))
}

func TestRunMany(t *testing.T) {
	test := require.New(t)
	a, b := filepath.Join(scripts, "pair.trace"), filepath.Join(scripts, "copies.trace")
	out, err := execute("run", a, b)
	test.NoError(err)
	test.Contains(out, "==> "+a+" <==\n")
	test.Contains(out, "\n\n==> "+b+" <==\n")
}

func TestRunTrace(t *testing.T) {
	test := require.New(t)
	out, err := execute("--trace", "run", filepath.Join(scripts, "pair.trace"))
	test.NoError(err)
	test.Contains(out, "  > copy Pair\n")
	test.Contains(out, "  > destroy Pair\n")
}

func TestRunConfigFile(t *testing.T) {
	test := require.New(t)
	dir := tester.MakeDir("silt-rt-config", map[string]string{
		"trace.yaml": "trace: true",
	})
	defer dir.Delete()

	config := filepath.Join(dir.DirPath(), "trace.yaml")
	out, err := execute("--config", config, "run", filepath.Join(scripts, "pair.trace"))
	test.NoError(err)
	test.Contains(out, "  > copy Pair\n")

	out, err = execute("--config", config, "--trace=false", "run", filepath.Join(scripts, "pair.trace"))
	test.NoError(err)
	test.NotContains(out, "  > ")
}

func TestRunErrors(t *testing.T) {
	test := require.New(t)
	dir := tester.MakeDir("silt-rt-errors", map[string]string{
		"bad.trace": "new a Int8\nbogus",
	})
	defer dir.Delete()

	file := filepath.Join(dir.DirPath(), "bad.trace")
	_, err := execute("run", file)
	test.EqualError(err, file+": line 2: unknown command `bogus`")

	_, err = execute("run", filepath.Join(dir.DirPath(), "missing.trace"))
	test.Error(err)

	_, err = execute("run")
	test.Error(err)

	_, err = execute("--heap-limit", "-1", "run", file)
	test.EqualError(err, "--heap-limit must not be negative, got -1")

	_, err = execute("--config", filepath.Join(dir.DirPath(), "none.yaml"), "types")
	test.ErrorContains(err, "read config")
}

func TestHeapLimitFatal(t *testing.T) {
	if file := os.Getenv("SILT_MAIN_CHILD"); file != "" {
		os.Args = []string{"silt-rt", "--heap-limit", "8", "run", file}
		main()
		return
	}

	test := require.New(t)
	cmd := exec.Command(os.Args[0], "-test.run=^TestHeapLimitFatal$")
	cmd.Env = append(os.Environ(), "SILT_MAIN_CHILD="+filepath.Join(scripts, "pair.trace"))
	stderr := &bytes.Buffer{}
	cmd.Stderr = stderr

	err := cmd.Run()
	exitErr, ok := err.(*exec.ExitError)
	test.True(ok, "expected exit error, got %v", err)
	test.Equal(crash.ExitCode, exitErr.ExitCode())
	test.Contains(stderr.String(), "fatal error: heap: failed to allocate 16 bytes")
}
