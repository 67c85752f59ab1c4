package util

import (
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

const RegexpIgnoreCase = "(?i)"

// Glob lists files under root matching pattern, relative to root and with
// forward slashes. Patterns without a slash match the file name only.
func Glob(root, pattern string) (out []string) {
	root = Try(filepath.Abs(root))
	isPath := strings.Contains(pattern, "/")
	anchor := "^"
	if isPath {
		anchor = ""
	}

	re := regexp.MustCompile(RegexpIgnoreCase + anchor + "(" + GlobRegex(pattern) + ")$")
	filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}

		path = filepath.ToSlash(Relative(root, path))
		name := path
		if !isPath {
			name = d.Name()
		}

		if re.MatchString(name) {
			out = append(out, path)
		}
		return nil
	})
	return out
}

// GlobRegex translates a glob pattern (`?`, `*`, `(a|b)`) to a regexp.
func GlobRegex(pattern string) string {
	var output strings.Builder
	for _, next := range pattern {
		switch next {
		case '/', '\\':
			output.WriteString(`[/\\]`)
		case '?':
			output.WriteString(`[^/\\]`)
		case '*':
			output.WriteString(`[^/\\]*`)
		case '(', ')', '|':
			output.WriteRune(next)
		default:
			output.WriteString(regexp.QuoteMeta(string(next)))
		}
	}
	return output.String()
}

func Relative(base, path string) string {
	fullBase, err := filepath.Abs(base)
	NoError(err, "getting absolute base path for relative")

	fullPath, err := filepath.Abs(path)
	NoError(err, "getting absolute path for relative")

	rel, err := filepath.Rel(fullBase, fullPath)
	NoError(err, "getting relative path")
	return rel
}

func WithExtension(filename string, ext string) string {
	out := strings.TrimSuffix(filename, filepath.Ext(filename))
	return out + ext
}

// ReadText returns the file contents, or an empty string if it does not
// exist.
func ReadText(filename string) string {
	out, err := os.ReadFile(filename)
	if err != nil && !os.IsNotExist(err) {
		NoError(err, "reading file text")
	}
	return string(out)
}

func WriteText(filename string, text string) {
	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	err := os.WriteFile(filename, []byte(text), 0o644)
	NoError(err, "writing file text")
}

func Exists(filename string) bool {
	_, err := os.Stat(filename)
	if os.IsNotExist(err) {
		return false
	}
	NoError(err, "checking file")
	return true
}
