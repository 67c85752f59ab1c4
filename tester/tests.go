package tester

import (
	"strings"
	"testing"
)

type FuncTest = func(input Input) (string, error)

type LineTest = func(input []string) []string

// CheckInput runs fn over every file matching glob under testdata.
func CheckInput(t *testing.T, testdata, glob string, fn FuncTest) []RunOutput {
	runner := NewRunner(t, testdata, glob, funcTestRunner{fn})
	return runner.Run()
}

// CheckLines runs fn over the meaningful lines of every matching file.
func CheckLines(t *testing.T, testdata, glob string, fn LineTest) []RunOutput {
	return CheckInput(t, testdata, glob, func(input Input) (string, error) {
		return strings.Join(fn(input.Lines()), "\n"), nil
	})
}

type funcTestRunner struct {
	fn FuncTest
}

func (runner funcTestRunner) Run(input Input) (out Output) {
	out.StdOut, out.Error = runner.fn(input)
	return
}
