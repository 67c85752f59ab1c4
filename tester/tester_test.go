package tester_test

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/silt-lang/silt/tester"
	"github.com/silt-lang/silt/util"
	"github.com/stretchr/testify/require"
)

func TestTempDir(t *testing.T) {
	test := require.New(t)

	dir, err := tester.TryMakeDir("tester-dir", map[string]string{
		"a/a1.txt":       "this is A1",
		"a/sub/some.txt": "some file under A",
		"b/b1.txt":       "this is B1",
		"text.txt": `
			Line 1
				Line 2
			Line 3
		`,
	})

	test.NoError(err)
	test.DirExists(dir.DirPath())
	test.Contains(dir.DirPath(), "tester-dir")
	test.True(strings.HasPrefix(dir.DirPath(), os.TempDir()))

	check := func(name, text string) {
		path := filepath.Join(dir.DirPath(), name)
		test.FileExists(path)
		data, err := os.ReadFile(path)
		test.NoError(err)
		test.Equal(text, string(data))
	}

	check("a/a1.txt", "this is A1")
	check("a/sub/some.txt", "some file under A")
	check("b/b1.txt", "this is B1")
	check("text.txt", "Line 1\n    Line 2\nLine 3")

	dir.Delete()
	test.NoDirExists(dir.DirPath())
}

func TestCheckLines(t *testing.T) {
	test := require.New(t)
	dir := tester.MakeDir("tester-lines", map[string]string{
		"sum.in": `
			# numbers to add
			1
			2

			3
		`,
		"sum.out":  "6",
		"echo.in":  "a\nb",
		"echo.out": "a\nb",
	})
	defer dir.Delete()

	runs := tester.CheckLines(t, dir.DirPath(), "*.in", func(input []string) []string {
		if len(input) > 0 && input[0] == "a" {
			return input
		}
		sum := 0
		for _, it := range input {
			sum += int(util.Try(strconv.ParseInt(it, 10, 32)))
		}
		return []string{strconv.Itoa(sum)}
	})

	test.Len(runs, 2)
	for _, it := range runs {
		test.True(it.Success, it.Name)
		test.False(it.Written, it.Name)
	}
}

func TestWritesMissingOutput(t *testing.T) {
	test := require.New(t)
	dir := tester.MakeDir("tester-write", map[string]string{
		"new.in": "hello",
	})
	defer dir.Delete()

	runs := tester.CheckInput(t, dir.DirPath(), "*.in", func(input tester.Input) (string, error) {
		test.Equal("new.in", input.Name())
		return strings.ToUpper(input.Text()) + "\n", nil
	})

	test.Len(runs, 1)
	test.True(runs[0].Success)
	test.True(runs[0].Written)
	test.Equal("HELLO\n", util.ReadText(filepath.Join(dir.DirPath(), "new.out")))
}

type recorder struct {
	errors []string
	failed bool
}

func (r *recorder) Errorf(format string, args ...any) {
	r.errors = append(r.errors, fmt.Sprintf(format, args...))
}

func (r *recorder) Logf(format string, args ...any) {}

func (r *recorder) Fail() {
	r.failed = true
}

type echoRunner string

func (out echoRunner) Run(input tester.Input) tester.Output {
	return tester.Output{StdOut: string(out)}
}

func TestEmptyOutputFileIsCompared(t *testing.T) {
	test := require.New(t)
	dir := tester.MakeDir("tester-empty", map[string]string{
		"quiet.in":  "x",
		"quiet.out": "",
	})
	defer dir.Delete()

	rec := &recorder{}
	runs := tester.NewRunner(rec, dir.DirPath(), "*.in", echoRunner("noise")).Run()

	test.Len(runs, 1)
	test.False(runs[0].Success)
	test.False(runs[0].Written)
	test.True(rec.failed)
	test.NotEmpty(rec.errors)
	test.Contains(rec.errors[0], "output for quiet")
	test.Equal("", util.ReadText(filepath.Join(dir.DirPath(), "quiet.out")))

	rec = &recorder{}
	runs = tester.NewRunner(rec, dir.DirPath(), "*.in", echoRunner("")).Run()
	test.True(runs[0].Success)
	test.False(rec.failed)
}

func TestCompare(t *testing.T) {
	test := require.New(t)

	same := tester.Compare([]string{"a", "b"}, []string{"a", "b"})
	test.True(same.Empty())
	test.Equal([]tester.DiffBlock{{Kind: 0, Src: 0, Dst: 0, Len: 2}}, same.Blocks())

	diff := tester.Compare([]string{"a", "x", "c"}, []string{"a", "c", "d"})
	test.False(diff.Empty())
	test.Equal([]tester.DiffBlock{
		{Kind: 0, Src: 0, Dst: 0, Len: 1},
		{Kind: -1, Src: 1, Dst: 1, Len: 1},
		{Kind: 0, Src: 2, Dst: 1, Len: 1},
		{Kind: +1, Src: 3, Dst: 2, Len: 1},
	}, diff.Blocks())

	replaced := tester.Compare([]string{"a", "b", "c"}, []string{"a", "x", "y", "c"})
	test.Equal([]tester.DiffBlock{
		{Kind: 0, Src: 0, Dst: 0, Len: 1},
		{Kind: -1, Src: 1, Dst: 1, Len: 1},
		{Kind: +1, Src: 2, Dst: 1, Len: 2},
		{Kind: 0, Src: 2, Dst: 3, Len: 1},
	}, replaced.Blocks())

	test.True(tester.Compare(nil, nil).Empty())
	test.Equal([]tester.DiffBlock{{Kind: +1, Src: 0, Dst: 0, Len: 2}}, tester.Compare(nil, []string{"a", "b"}).Blocks())
}
