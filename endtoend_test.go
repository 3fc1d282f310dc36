package main

import (
	"embed"
	"io/fs"
	"path"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cottand/elab/elab"
	"github.com/cottand/elab/frontend/ilerr"
	"github.com/cottand/elab/frontend/names"
)

// embeds the test folder
//
//go:embed test
var testSet embed.FS

// format is as follows, on the first line of the file:
//
//	# elab:expect ok | text expected in the environment dump
//	# elab:expect <error code> | text expected in the rendered error
//
// the text after | is optional
func extractExpectation(t *testing.T, content string) (code ilerr.ErrCode, expected string) {
	firstLine := strings.Split(content, "\n")[0]
	trimmed, ok := strings.CutPrefix(firstLine, "# elab:expect ")
	if !ok {
		t.Fatalf("could not parse expectation: '%v'", firstLine)
	}
	want, expected, _ := strings.Cut(trimmed, "|")
	want, expected = strings.TrimSpace(want), strings.TrimSpace(expected)
	if want == "ok" {
		return ilerr.None, expected
	}
	code, ok = ilerr.ParseCode(want)
	if !ok || code == ilerr.None {
		t.Fatalf("unknown error code '%v'", want)
	}
	return code, expected
}

func TestRootEndToEnd(t *testing.T) {
	files, err := testSet.ReadDir("test")
	require.NoError(t, err)
	for _, f := range files {
		if f.IsDir() || !strings.HasSuffix(f.Name(), ".yaml") {
			continue
		}
		testFile(t, "test", f)
	}
}

func TestErrorsEndToEnd(t *testing.T) {
	files, err := testSet.ReadDir("test/errors")
	require.NoError(t, err)
	for _, f := range files {
		if f.IsDir() || !strings.HasSuffix(f.Name(), ".yaml") {
			continue
		}
		testFile(t, "test/errors", f)
	}
}

func testFile(t *testing.T, at string, f fs.DirEntry) bool {
	return t.Run(f.Name(), func(t *testing.T) {
		filePath := path.Join(at, f.Name())
		content, err := testSet.ReadFile(filePath)
		require.NoError(t, err)
		code, expected := extractExpectation(t, string(content))

		main := names.ModuleName("Main")
		program := elab.NewProgram(elab.Settings{MainModule: &main})
		err = program.CheckFiles(testSet, filePath)

		if code == ilerr.None {
			if err != nil {
				t.Fatalf("unexpected error:\n%s", ilerr.Render(err))
			}
			assert.Contains(t, program.Env().DumpString(), expected)
			return
		}
		require.Error(t, err)
		assert.Equal(t, code, ilerr.CodeOf(err), "got:\n%s", ilerr.Render(err))
		assert.Contains(t, ilerr.Render(err), expected)
	})
}
