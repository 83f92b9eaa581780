package composition

import (
	"bytes"
	"context"
	"sort"
	"strings"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/formatter"
	"github.com/vvakame/gqlimport/internal/log"
)

type Option func(cfg *config)

type config struct {
	cache       *Cache
	concurrency int
}

// WithCache shares cache between resolvers built from the same modules.
func WithCache(cache *Cache) Option {
	return func(cfg *config) {
		cfg.cache = cache
	}
}

// WithConcurrency resolves up to n modules in parallel in Generate.
func WithConcurrency(n int) Option {
	return func(cfg *config) {
		cfg.concurrency = n
	}
}

func newConfig(opts []Option) *config {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.cache == nil {
		cfg.cache = NewCache()
	}
	if cfg.concurrency < 1 {
		cfg.concurrency = 1
	}
	return cfg
}

// Import is a fragment pulled into a document by an @import spread.
type Import struct {
	From     string
	Fragment string
}

// Resolution is the self-contained document produced for one module.
type Resolution struct {
	ImportPath string
	Document   *ast.QueryDocument
	// Imported lists the @import spreads of the source document, sorted.
	Imported []*Import
}

// Resolver resolves fragment spreads of modules against the exports of
// every other module.
type Resolver struct {
	exports   ModuleFragments
	fragments ModuleFragments
	cache     *Cache

	// called on each closure computation that misses the cache
	onTraverse func(importPath, name string)
}

func NewResolver(modules map[string]*ast.QueryDocument, opts ...Option) (*Resolver, error) {
	return newResolver(modules, newConfig(opts))
}

func newResolver(modules map[string]*ast.QueryDocument, cfg *config) (*Resolver, error) {
	fragments, err := BuildFragmentTable(modules)
	if err != nil {
		return nil, err
	}

	return &Resolver{
		exports:   BuildExportIndex(modules),
		fragments: fragments,
		cache:     cfg.cache,
	}, nil
}

// Exports returns the export index the resolver was built with.
func (r *Resolver) Exports() ModuleFragments {
	return r.exports
}

// resolveState tracks the (import path, fragment) pairs on the current
// resolution path. One state serves one top-level spread.
type resolveState struct {
	stack    []frame
	visiting map[cacheKey]bool
}

// frame is one fragment on the resolution path. viaImport records whether
// the edge leading to it was an @import spread or a local one.
type frame struct {
	key       cacheKey
	viaImport bool
}

func newResolveState() *resolveState {
	return &resolveState{
		visiting: make(map[cacheKey]bool),
	}
}

func (state *resolveState) push(key cacheKey, viaImport bool) {
	state.stack = append(state.stack, frame{key: key, viaImport: viaImport})
	state.visiting[key] = true
}

func (state *resolveState) pop() {
	f := state.stack[len(state.stack)-1]
	state.stack = state.stack[:len(state.stack)-1]
	delete(state.visiting, f.key)
}

// cycle describes the cycle closed by reaching key again through an edge of
// kind viaImport. imported is false when every edge of the cycle is a local
// spread.
func (state *resolveState) cycle(key cacheKey, viaImport bool) (path string, imported bool) {
	var keys []string
	imported = viaImport
	for i, f := range state.stack {
		if f.key != key {
			continue
		}
		keys = append(keys, describeKey(f.key))
		for _, f := range state.stack[i+1:] {
			keys = append(keys, describeKey(f.key))
			imported = imported || f.viaImport
		}
		break
	}
	keys = append(keys, describeKey(key))
	return strings.Join(keys, " -> "), imported
}

// ResolveDocument returns a copy of doc, which is the module importPath,
// extended with the closure of every fragment it imports.
func (r *Resolver) ResolveDocument(ctx context.Context, importPath string, doc *ast.QueryDocument) (*Resolution, error) {
	logger := log.FromContext(ctx)

	local := make(Fragments, len(doc.Fragments))
	for _, fragment := range doc.Fragments {
		local[fragment.Name] = fragment
	}

	var pulled []*ast.FragmentDefinition
	imports := make(map[Import]bool)

	err := walkDocumentSpreads(doc, func(spread *ast.FragmentSpread) error {
		from, ok, err := importSource(spread)
		if err != nil {
			return err
		}
		if !ok {
			if local[spread.Name] == nil {
				return newError(
					spread.Position,
					UnresolvedLocalFragment,
					"fragment %q is not defined in %q and has no @import directive",
					spread.Name, importPath,
				)
			}
			return nil
		}

		exported, err := r.lookupExport(spread, from)
		if err != nil {
			return err
		}

		closure, err := r.resolveClosure(ctx, newResolveState(), from, exported, true)
		if err != nil {
			return err
		}
		pulled = append(pulled, closure...)
		imports[Import{From: from, Fragment: spread.Name}] = true

		return nil
	})
	if err != nil {
		return nil, err
	}

	result := &ast.QueryDocument{
		Operations: append(ast.OperationList(nil), doc.Operations...),
		Fragments:  mergeFragments(doc.Fragments, pulled),
		Position:   doc.Position,
	}

	imported := make([]*Import, 0, len(imports))
	for imp := range imports {
		imp := imp
		imported = append(imported, &imp)
	}
	sort.Slice(imported, func(i, j int) bool {
		if imported[i].From != imported[j].From {
			return imported[i].From < imported[j].From
		}
		return imported[i].Fragment < imported[j].Fragment
	})

	logger.V(1).Info(
		"resolved document",
		"importPath", importPath,
		"localFragments", len(doc.Fragments),
		"fragments", len(result.Fragments),
	)

	return &Resolution{
		ImportPath: importPath,
		Document:   result,
		Imported:   imported,
	}, nil
}

func (r *Resolver) lookupExport(spread *ast.FragmentSpread, from string) (*ast.FragmentDefinition, error) {
	exports := r.exports[from]
	if exports == nil {
		if _, ok := r.fragments[from]; !ok {
			return nil, newError(
				spread.Position,
				UnknownImportPath,
				"cannot import fragment %q: no module has import path %q",
				spread.Name, from,
			)
		}
	}

	fragment := exports[spread.Name]
	if fragment == nil {
		return nil, newError(
			spread.Position,
			FragmentNotExported,
			"cannot import fragment %q: it is not exported from %q",
			spread.Name, from,
		)
	}

	return fragment, nil
}

// resolveClosure returns fragment plus every fragment it depends on,
// directly or through other modules. fragment belongs to importPath and was
// reached through an @import spread when viaImport is true.
func (r *Resolver) resolveClosure(ctx context.Context, state *resolveState, importPath string, fragment *ast.FragmentDefinition, viaImport bool) ([]*ast.FragmentDefinition, error) {
	logger := log.FromContext(ctx)

	key := cacheKey{importPath: importPath, name: fragment.Name}
	if closure, ok := r.cache.get(key); ok {
		logger.V(2).Info("closure cache hit", "importPath", importPath, "fragment", fragment.Name)
		return closure, nil
	}

	if state.visiting[key] {
		path, imported := state.cycle(key, viaImport)
		if !imported {
			return nil, newError(
				fragment.Position,
				FragmentCycleDetected,
				"fragment cycle detected in %q: %s",
				importPath, path,
			)
		}
		return nil, newError(
			fragment.Position,
			ImportCycleDetected,
			"fragment import cycle detected: %s",
			path,
		)
	}

	state.push(key, viaImport)
	defer state.pop()

	if r.onTraverse != nil {
		r.onTraverse(importPath, fragment.Name)
	}

	closure := []*ast.FragmentDefinition{fragment}
	err := walkFragmentSpreads(fragment.SelectionSet, func(spread *ast.FragmentSpread) error {
		from, ok, err := importSource(spread)
		if err != nil {
			return err
		}

		var dependency *ast.FragmentDefinition
		if ok {
			dependency, err = r.lookupExport(spread, from)
			if err != nil {
				return err
			}
		} else {
			from = importPath
			dependency = r.fragments.Lookup(importPath, spread.Name)
			if dependency == nil {
				return newError(
					spread.Position,
					UnresolvedLocalFragment,
					"fragment %q referenced from %q is not defined in %q",
					spread.Name, fragment.Name, importPath,
				)
			}
		}

		dependencies, err := r.resolveClosure(ctx, state, from, dependency, ok)
		if err != nil {
			return err
		}
		closure = append(closure, dependencies...)

		return nil
	})
	if err != nil {
		return nil, err
	}

	closure = uniqueFragments(closure)
	r.cache.put(key, closure)

	logger.V(1).Info(
		"resolved fragment closure",
		"importPath", importPath,
		"fragment", fragment.Name,
		"size", len(closure),
	)

	return closure, nil
}

func uniqueFragments(fragments []*ast.FragmentDefinition) []*ast.FragmentDefinition {
	seen := make(map[*ast.FragmentDefinition]bool, len(fragments))
	result := fragments[:0]
	for _, fragment := range fragments {
		if seen[fragment] {
			continue
		}
		seen[fragment] = true
		result = append(result, fragment)
	}
	return result
}

// mergeFragments appends pulled to local, dropping structurally identical
// definitions. Pulled fragments are ordered by name then canonical text.
func mergeFragments(local ast.FragmentDefinitionList, pulled []*ast.FragmentDefinition) ast.FragmentDefinitionList {
	seen := make(map[string]bool)
	result := make(ast.FragmentDefinitionList, 0, len(local)+len(pulled))
	for _, fragment := range local {
		key := FragmentKey(fragment)
		if seen[key] {
			continue
		}
		seen[key] = true
		result = append(result, fragment)
	}

	type keyed struct {
		key      string
		fragment *ast.FragmentDefinition
	}
	var extra []keyed
	for _, fragment := range uniqueFragments(append([]*ast.FragmentDefinition(nil), pulled...)) {
		key := FragmentKey(fragment)
		if seen[key] {
			continue
		}
		seen[key] = true
		extra = append(extra, keyed{key: key, fragment: fragment})
	}
	sort.Slice(extra, func(i, j int) bool {
		if extra[i].fragment.Name != extra[j].fragment.Name {
			return extra[i].fragment.Name < extra[j].fragment.Name
		}
		return extra[i].key < extra[j].key
	})
	for _, e := range extra {
		result = append(result, e.fragment)
	}

	return result
}

// FragmentKey returns the structural identity of fragment: its canonical
// printed form. Source positions and comments do not take part.
func FragmentKey(fragment *ast.FragmentDefinition) string {
	var buf bytes.Buffer
	formatter.NewFormatter(&buf).FormatQueryDocument(&ast.QueryDocument{
		Fragments: ast.FragmentDefinitionList{fragment},
	})
	return buf.String()
}
