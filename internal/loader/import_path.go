package loader

import (
	"fmt"
	"path"
	"strings"
)

// ImportPath derives the import path of a file from its slash separated path
// relative to the root: directories and the file name joined by ".", with
// the extension stripped. "fragments/user.graphql" becomes "fragments.user".
func ImportPath(rel string) (string, error) {
	rel = path.Clean(rel)
	if rel == "." || rel == "/" || strings.HasPrefix(rel, "../") || rel == ".." || path.IsAbs(rel) {
		return "", fmt.Errorf("%q is not a path below the root", rel)
	}

	rel = strings.TrimSuffix(rel, path.Ext(rel))

	var segments []string
	for _, segment := range strings.Split(rel, "/") {
		if segment == "" {
			continue
		}
		segments = append(segments, segment)
	}
	if len(segments) == 0 {
		return "", fmt.Errorf("could not derive import path from %q", rel)
	}

	return strings.Join(segments, "."), nil
}
