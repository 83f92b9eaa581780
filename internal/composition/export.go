package composition

import (
	"sort"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vvakame/gqlimport/internal/graphql"
)

// Fragments maps fragment name to its definition within one module.
type Fragments map[string]*ast.FragmentDefinition

// ModuleFragments maps import path to the fragments of that module.
type ModuleFragments map[string]Fragments

// Names returns the fragment names in sorted order.
func (fragments Fragments) Names() []string {
	return sortedKeys(fragments)
}

// ImportPaths returns the import paths in sorted order.
func (modules ModuleFragments) ImportPaths() []string {
	return sortedKeys(modules)
}

// Lookup returns the fragment name of module importPath, or nil.
func (modules ModuleFragments) Lookup(importPath, name string) *ast.FragmentDefinition {
	return modules[importPath][name]
}

// IsExported reports whether fragment carries the @export marker.
func IsExported(fragment *ast.FragmentDefinition) bool {
	return fragment.Directives.ForName(graphql.ExportDirectiveName) != nil
}

// BuildExportIndex collects the @export fragments of every module.
// Modules exporting nothing are omitted.
func BuildExportIndex(modules map[string]*ast.QueryDocument) ModuleFragments {
	index := make(ModuleFragments)
	for importPath, doc := range modules {
		var exports Fragments
		for _, fragment := range doc.Fragments {
			if !IsExported(fragment) {
				continue
			}
			if exports == nil {
				exports = make(Fragments)
			}
			exports[fragment.Name] = fragment
		}
		if len(exports) != 0 {
			index[importPath] = exports
		}
	}

	return index
}

// BuildFragmentTable collects every fragment of every module, exported or not.
// Local spreads inside an imported fragment are looked up here, relative to
// the module the fragment was defined in.
func BuildFragmentTable(modules map[string]*ast.QueryDocument) (ModuleFragments, error) {
	table := make(ModuleFragments, len(modules))
	for _, importPath := range sortedKeys(modules) {
		fragments := make(Fragments)
		for _, fragment := range modules[importPath].Fragments {
			if prev := fragments[fragment.Name]; prev != nil {
				return nil, newError(
					fragment.Position,
					DuplicateFragment,
					"fragment %q is defined more than once in %q",
					fragment.Name, importPath,
				)
			}
			fragments[fragment.Name] = fragment
		}
		table[importPath] = fragments
	}

	return table, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
