package testutils

import (
	"errors"
	"flag"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pmezard/go-difflib/difflib"
)

var update = flag.Bool("update", false, "rewrite golden files with the actual output")

// CheckGoldenFile compares actual with the file at expectFilePath. With
// -update the file is rewritten from actual instead.
func CheckGoldenFile(t TestingT, actual []byte, expectFilePath string) {
	t.Helper()

	if *update {
		err := os.MkdirAll(filepath.Dir(expectFilePath), 0755)
		if err != nil {
			t.Fatal(err)
		}
		err = os.WriteFile(expectFilePath, actual, 0644)
		if err != nil {
			t.Fatal(err)
		}
		t.Logf("golden file %s is updated", expectFilePath)
		return
	}

	expect, err := os.ReadFile(expectFilePath)
	if errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("golden file %s does not exist, run tests with -update to create it", expectFilePath)
	} else if err != nil {
		t.Fatal(err)
	}

	if string(expect) != string(actual) {
		diff := difflib.UnifiedDiff{
			A:        difflib.SplitLines(string(expect)),
			B:        difflib.SplitLines(string(actual)),
			FromFile: expectFilePath,
			ToFile:   "actual",
			Context:  5,
		}
		d, err := difflib.GetUnifiedDiffString(diff)
		if err != nil {
			t.Fatal(err)
		}
		t.Error(d)
	}
}
