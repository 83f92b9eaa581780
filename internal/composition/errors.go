package composition

import (
	"errors"
	"fmt"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"
)

// ErrorKind is the value of Extensions["code"] on errors reported while
// composing documents.
type ErrorKind string

const (
	UnresolvedLocalFragment ErrorKind = "UNRESOLVED_LOCAL_FRAGMENT"
	MissingImportArgument   ErrorKind = "MISSING_IMPORT_ARGUMENT"
	UnknownImportPath       ErrorKind = "UNKNOWN_IMPORT_PATH"
	FragmentNotExported     ErrorKind = "FRAGMENT_NOT_EXPORTED"
	ImportCycleDetected     ErrorKind = "IMPORT_CYCLE_DETECTED"
	// a cycle made of local spreads only, met while resolving an import
	FragmentCycleDetected   ErrorKind = "FRAGMENT_CYCLE_DETECTED"
	DuplicateFragment       ErrorKind = "DUPLICATE_FRAGMENT"
)

// KindOf returns the kind of a composition error, or "" when err is not one.
func KindOf(err error) ErrorKind {
	var gErr *gqlerror.Error
	if !errors.As(err, &gErr) {
		return ""
	}
	code, _ := gErr.Extensions["code"].(string)
	return ErrorKind(code)
}

func newError(pos *ast.Position, kind ErrorKind, format string, args ...interface{}) *gqlerror.Error {
	var gErr *gqlerror.Error
	if pos == nil || pos.Src == nil {
		// hand-built ASTs have no source
		gErr = gqlerror.Errorf(format, args...)
	} else {
		gErr = gqlerror.ErrorPosf(pos, format, args...)
	}
	if gErr.Extensions == nil {
		gErr.Extensions = make(map[string]interface{})
	}
	gErr.Extensions["code"] = string(kind)
	return gErr
}

func describeKey(key cacheKey) string {
	return fmt.Sprintf("%s@%s", key.name, key.importPath)
}
