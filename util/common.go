// Package util has small fail-fast helpers shared by the CLI and the test
// tooling. Failures are reported through the runtime's crash reporter.
package util

import (
	"github.com/silt-lang/silt/pkg/crash"
)

// NoError terminates the process with a diagnostic if err is not nil.
func NoError(err error, msg string) {
	if err != nil {
		if msg != "" {
			crash.Fatalf("%s - %v", msg, err)
		} else {
			crash.Fatal(err.Error())
		}
	}
}

func Try[T any](input T, err error) T {
	NoError(err, "")
	return input
}
