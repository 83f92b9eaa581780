package testutils

import (
	"fmt"
	"regexp"
	"strconv"
)

// Options are written in test assets as comments:
//
//	# option:stripDirectives: true
func findOption(t TestingT, optionName, source string) (string, bool) {
	t.Helper()

	pattern := fmt.Sprintf("(?m)^# option:%s:\\s*([^\\s]+)$", regexp.QuoteMeta(optionName))
	re, err := regexp.Compile(pattern)
	if err != nil {
		t.Fatal(err)
	}

	ss := re.FindStringSubmatch(source)
	if len(ss) != 2 {
		t.Logf("option %s value is not found", optionName)
		return "", false
	}

	return ss[1], true
}

func FindOptionString(t TestingT, optionName, source string) string {
	t.Helper()

	v, _ := findOption(t, optionName, source)
	return v
}

func FindOptionBool(t TestingT, optionName, source string) bool {
	t.Helper()

	v, _ := findOption(t, optionName, source)
	return v == "true"
}

func FindOptionInt(t TestingT, optionName, source string) int {
	t.Helper()

	v, ok := findOption(t, optionName, source)
	if !ok {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		t.Fatalf("option %s: %v", optionName, err)
	}
	return n
}
