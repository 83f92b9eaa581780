package loader

import (
	"context"
	"fmt"
	"io/fs"
	"sort"

	"github.com/bmatcuk/doublestar"
	"github.com/hashicorp/go-multierror"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"
	"github.com/vvakame/gqlimport/internal/log"
)

var DefaultInclude = []string{"**/*.graphql", "**/*.gql"}

// Module is one parsed source file.
type Module struct {
	// Path is relative to the root, slash separated.
	Path       string
	ImportPath string
	Source     *ast.Source
	Document   *ast.QueryDocument
}

type Options struct {
	// doublestar patterns matched against Path
	Include []string
	Exclude []string
}

var skipDirs = map[string]bool{
	".git":         true,
	".hg":          true,
	".svn":         true,
	"node_modules": true,
	"vendor":       true,
}

// Load parses every matching file of fsys. Parse errors of all files are
// reported together.
func Load(ctx context.Context, fsys fs.FS, opts *Options) ([]*Module, error) {
	logger := log.FromContext(ctx)

	if opts == nil {
		opts = &Options{}
	}
	include := opts.Include
	if len(include) == 0 {
		include = DefaultInclude
	}

	var paths []string
	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if p != "." && skipDirs[d.Name()] {
				return fs.SkipDir
			}
			return nil
		}

		ok, err := matchAny(include, p)
		if err != nil || !ok {
			return err
		}
		ok, err = matchAny(opts.Exclude, p)
		if err != nil || ok {
			return err
		}

		paths = append(paths, p)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk source files: %w", err)
	}
	sort.Strings(paths)

	var errs error
	modules := make([]*Module, 0, len(paths))
	owners := make(map[string]string, len(paths))
	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		importPath, err := ImportPath(p)
		if err != nil {
			errs = multierror.Append(errs, err)
			continue
		}
		if owner, ok := owners[importPath]; ok {
			errs = multierror.Append(errs, fmt.Errorf("%s and %s both map to import path %q", owner, p, importPath))
			continue
		}
		owners[importPath] = p

		b, err := fs.ReadFile(fsys, p)
		if err != nil {
			errs = multierror.Append(errs, fmt.Errorf("failed to read %s: %w", p, err))
			continue
		}

		source := &ast.Source{
			Name:  p,
			Input: string(b),
		}
		doc, gErr := parser.ParseQuery(source)
		if gErr != nil {
			errs = multierror.Append(errs, gErr)
			continue
		}

		logger.V(1).Info("loaded module", "path", p, "importPath", importPath)

		modules = append(modules, &Module{
			Path:       p,
			ImportPath: importPath,
			Source:     source,
			Document:   doc,
		})
	}
	if errs != nil {
		return nil, errs
	}

	return modules, nil
}

// Documents keys the documents of modules by import path.
func Documents(modules []*Module) map[string]*ast.QueryDocument {
	docs := make(map[string]*ast.QueryDocument, len(modules))
	for _, module := range modules {
		docs[module.ImportPath] = module.Document
	}
	return docs
}

func matchAny(patterns []string, p string) (bool, error) {
	for _, pattern := range patterns {
		ok, err := doublestar.Match(pattern, p)
		if err != nil {
			return false, fmt.Errorf("bad pattern %q: %w", pattern, err)
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}
