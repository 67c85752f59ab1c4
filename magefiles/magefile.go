//go:build mage

// Package main provides build targets for silt-rt using Mage.
//
// Usage:
//
//	mage build   Compile silt-rt to bin/
//	mage test    Run all tests
//	mage golden  Rewrite the golden .out files of every test
//	mage lint    Run golangci-lint
//	mage clean   Remove build artifacts
package main

import (
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binaryName = "silt-rt"
	binaryDir  = "bin"
	binGo      = "go"
	binLint    = "golangci-lint"
)

// Build compiles the silt-rt binary to bin/.
func Build() error {
	if err := os.MkdirAll(binaryDir, 0o755); err != nil {
		return err
	}
	return sh.RunV(binGo, "build", "-o", filepath.Join(binaryDir, binaryName), ".")
}

// Test runs all tests.
func Test() error {
	return sh.RunV(binGo, "test", "./...")
}

// Golden reruns the tests with SILT_REWRITE=1, regenerating expected
// outputs, then runs them again against the new files.
func Golden() error {
	env := map[string]string{"SILT_REWRITE": "1"}
	if err := sh.RunWithV(env, binGo, "test", "-count=1", "./..."); err != nil {
		return err
	}
	mg.Deps(Test)
	return nil
}

// Lint runs golangci-lint.
func Lint() error {
	return sh.RunV(binLint, "run", "./...")
}

// Clean removes build artifacts.
func Clean() error {
	return os.RemoveAll(binaryDir)
}
