// Package tester runs golden-file tests: each input file under a testdata
// directory is fed to a TestRunner and its output compared with the
// matching `.out` file.
package tester

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"github.com/stretchr/testify/assert"

	"github.com/silt-lang/silt/util"
)

// Rewrite forces expected output files to be regenerated.
var Rewrite = os.Getenv("SILT_REWRITE") == "1"

// Generic interface for a test runner.
type TestRunner interface {
	Run(input Input) (out Output)
}

// Output from a TestRunner.
type Output struct {
	Error  error
	StdOut string
	StdErr string
}

// Input to a TestRunner.
type Input struct {
	path string
	name string
}

func (input Input) Name() string {
	return input.name
}

func (input Input) Path() string {
	return filepath.Join(input.path, input.name)
}

// Lines returns the non-empty, non-comment lines of the input.
func (input Input) Lines() (out []string) {
	for _, it := range util.Lines(input.Text()) {
		if it = strings.TrimSpace(it); len(it) > 0 {
			if !strings.HasPrefix(it, "#") {
				out = append(out, it)
			}
		}
	}
	return out
}

func (input Input) Text() string {
	data := util.Try(os.ReadFile(input.Path()))
	return string(data)
}

// T is the part of *testing.T a Runner reports to.
type T interface {
	assert.TestingT
	Logf(format string, args ...any)
	Fail()
}

// Run tests in a directory based on a file glob.
type Runner struct {
	t       T
	inner   TestRunner
	rootDir string
	glob    string
}

func NewRunner(t T, dir, glob string, runner TestRunner) Runner {
	return Runner{
		t:       t,
		inner:   runner,
		rootDir: util.Try(filepath.Abs(dir)),
		glob:    glob,
	}
}

func (runner Runner) Run() (out []RunOutput) {
	failed := 0
	for _, it := range util.Glob(runner.rootDir, runner.glob) {
		run := RunOutput{
			t:     runner.t,
			root:  runner.rootDir,
			Name:  util.WithExtension(path.Base(it), ""),
			File:  it,
			Input: Input{path: runner.rootDir, name: it},
		}
		run.runSingle(runner.inner)
		out = append(out, run)

		if !run.Success {
			failed += 1
		}
	}

	if len(out) == 0 {
		runner.t.Logf("no tests matching %s in %s", runner.glob, runner.rootDir)
	}

	if failed > 0 {
		runner.t.Logf("Failed %d out of %d tests", failed, len(out))
		runner.t.Fail()
	}

	for _, it := range out {
		it.OutputDetails()
	}

	return
}

type RunOutput struct {
	t    T
	root string

	Name    string
	File    string
	Success bool
	Written bool

	Input  Input
	Output Output

	ExpectOutput []string
	ActualOutput []string
}

func (run *RunOutput) outFile() string {
	return filepath.Join(run.root, util.WithExtension(run.File, ".out"))
}

func (run *RunOutput) runSingle(runner TestRunner) {
	run.outputStartBanner()
	output := runner.Run(run.Input)
	if output.Error == nil && output.StdErr != "" {
		output.Error = fmt.Errorf("test generated error output")
	}
	run.Output = output

	run.ExpectOutput = util.TrimLines(util.Lines(util.ReadText(run.outFile())))
	run.ActualOutput = util.TrimLines(util.Lines(output.StdOut))

	run.checkResult()
}

func (run *RunOutput) checkResult() {
	run.Success = run.Output.Error == nil

	hasOutFile := util.Exists(run.outFile())
	if run.Success && hasOutFile && !Rewrite {
		run.Success = assert.Equal(run.t, run.ExpectOutput, run.ActualOutput, "output for %s", run.Name)
	}

	if run.Success && (!hasOutFile || Rewrite) && len(run.ActualOutput) > 0 {
		util.WriteText(run.outFile(), strings.Join(run.ActualOutput, "\n"))
		run.Written = true
	}

	if run.Success {
		run.output("PASS!\n")
	} else if run.Output.Error != nil {
		run.output("\n... ERROR: %v\n", run.Output.Error)
	} else {
		run.output("FAIL!\n")
	}
}

func (run RunOutput) OutputDetails() {
	hasDetails := (!run.Success && run.Output.Error == nil) || run.Output.StdErr != ""
	if !hasDetails {
		return
	}

	run.output("\n==============================================\n")
	run.output("# %s", run.Name)
	run.output("\n==============================================\n\n")

	if util.Exists(run.outFile()) {
		diff := Compare(run.ActualOutput, run.ExpectOutput)
		if !diff.Empty() {
			run.output("  - Actual to Expected output diff (- / +):\n\n")
		}
		for _, it := range diff.Blocks() {
			num := it.Dst
			sign, text, pos := " ", run.ExpectOutput, it.Dst
			if it.Kind > 0 {
				sign = "+"
			} else if it.Kind < 0 {
				num = it.Src
				sign, text, pos = "-", run.ActualOutput, it.Src
			}
			for i := 0; i < it.Len; i++ {
				line := text[i+pos]
				if line == "" {
					line = "⏎"
				}
				run.output("      %03d %s %s\n", num+i+1, sign, line)
			}
		}
	}

	if run.Output.StdErr != "" {
		run.output("\n  - Error output:\n\n")
		for _, it := range util.TrimLines(util.Lines(run.Output.StdErr)) {
			run.output("      %s\n", it)
		}
	}

	run.output("\n")
}

func (run RunOutput) outputStartBanner() {
	run.output(">>> [TEST] %s...", run.Name)
}

func (run RunOutput) output(msg string, args ...any) {
	fmt.Printf(msg, args...)
}
