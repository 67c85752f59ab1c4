package tester

import (
	"os"
	"path/filepath"

	"github.com/silt-lang/silt/util"
)

// TestDir is a temporary directory populated with test files.
type TestDir struct {
	path string
}

func (dir TestDir) Delete() {
	os.RemoveAll(dir.path)
}

func (dir TestDir) DirPath() string {
	return dir.path
}

func MakeDir(pattern string, input map[string]string) (out TestDir) {
	return util.Try(TryMakeDir(pattern, input))
}

// TryMakeDir creates a temporary directory holding one file per entry of
// input. File contents are normalized with util.Text.
func TryMakeDir(pattern string, input map[string]string) (out TestDir, err error) {
	var path string

	path, err = os.MkdirTemp("", pattern)
	if err != nil {
		return
	}

	for k, v := range input {
		filePath := filepath.Join(path, k)
		if err = os.MkdirAll(filepath.Dir(filePath), 0o755); err != nil {
			return
		}
		if err = os.WriteFile(filePath, []byte(util.Text(v)), 0o644); err != nil {
			return
		}
	}

	out = TestDir{path: path}
	return
}
