package importer

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/hashicorp/go-multierror"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/formatter"
	"github.com/vvakame/gqlimport/internal/composition"
	"github.com/vvakame/gqlimport/internal/graphql"
	"github.com/vvakame/gqlimport/internal/loader"
	"github.com/vvakame/gqlimport/internal/log"
	"github.com/vvakame/gqlimport/internal/report"
)

type Config struct {
	// FS is the source root; import paths are derived from paths in it.
	FS      fs.FS
	Include []string
	Exclude []string
	// StripDirectives removes @import and @export from the output.
	StripDirectives bool
	// Schema, when set, validates every output document against it.
	Schema      []*ast.Source
	Concurrency int
}

// File is a resolved document ready to be written.
type File struct {
	// Path of the source file relative to the root, slash separated.
	Path       string
	ImportPath string
	Document   *ast.QueryDocument
}

type Result struct {
	Files []*File

	resolutions map[string]*composition.Resolution
}

// Generate loads every source file below cfg.FS and resolves their fragment
// imports. Fragment-only files are not part of the result.
func Generate(ctx context.Context, cfg *Config) (*Result, error) {
	logger := log.FromContext(ctx)

	err := validateConfig(cfg)
	if err != nil {
		return nil, err
	}

	modules, err := loader.Load(ctx, cfg.FS, &loader.Options{
		Include: cfg.Include,
		Exclude: cfg.Exclude,
	})
	if err != nil {
		return nil, err
	}
	logger.Info("loaded source files", "count", len(modules))

	resolutions, err := composition.Generate(
		ctx,
		loader.Documents(modules),
		composition.WithConcurrency(cfg.Concurrency),
	)
	if err != nil {
		return nil, err
	}

	result := &Result{
		resolutions: resolutions,
	}
	for _, module := range modules {
		resolution, ok := resolutions[module.ImportPath]
		if !ok {
			continue
		}
		doc := resolution.Document
		if cfg.StripDirectives {
			doc = graphql.StripDirectives(doc)
		}
		result.Files = append(result.Files, &File{
			Path:       module.Path,
			ImportPath: module.ImportPath,
			Document:   doc,
		})
	}
	sort.Slice(result.Files, func(i, j int) bool {
		return result.Files[i].Path < result.Files[j].Path
	})

	if len(cfg.Schema) != 0 {
		err = result.validate(ctx, cfg.Schema)
		if err != nil {
			return nil, err
		}
	}

	return result, nil
}

func validateConfig(cfg *Config) error {
	if cfg == nil || cfg.FS == nil {
		return fmt.Errorf("source file system is required")
	}
	if cfg.Concurrency < 0 {
		return fmt.Errorf("concurrency must not be negative")
	}

	return nil
}

func (r *Result) validate(ctx context.Context, sources []*ast.Source) error {
	logger := log.FromContext(ctx)

	schema, err := graphql.LoadSchema(sources...)
	if err != nil {
		return err
	}

	var errs error
	for _, file := range r.Files {
		gErrs := graphql.ValidateDocument(schema, file.Document)
		if len(gErrs) == 0 {
			continue
		}
		logger.Info("document does not validate", "path", file.Path, "errors", len(gErrs))
		// fields of a spread fragment are reported for the spread and for
		// the definition
		seen := make(map[string]bool, len(gErrs))
		for _, gErr := range gErrs {
			if seen[gErr.Error()] {
				continue
			}
			seen[gErr.Error()] = true
			errs = multierror.Append(errs, fmt.Errorf("%s: %w", file.Path, gErr))
		}
	}

	return errs
}

// Print writes every document to w, each preceded by a "# path" line.
func (r *Result) Print(w io.Writer) error {
	for _, file := range r.Files {
		_, err := fmt.Fprintf(w, "# %s\n", file.Path)
		if err != nil {
			return err
		}
		_, err = w.Write(FormatDocument(file.Document))
		if err != nil {
			return err
		}
	}

	return nil
}

// Write writes every document to dir, keeping source relative paths.
func (r *Result) Write(ctx context.Context, dir string) error {
	logger := log.FromContext(ctx)

	for _, file := range r.Files {
		target := filepath.Join(dir, filepath.FromSlash(file.Path))
		err := os.MkdirAll(filepath.Dir(target), 0755)
		if err != nil {
			return err
		}
		err = os.WriteFile(target, FormatDocument(file.Document), 0644)
		if err != nil {
			return err
		}
		logger.V(1).Info("wrote document", "path", target)
	}

	return nil
}

// WriteReport writes a summary of the imports pulled into each document.
func (r *Result) WriteReport(w io.Writer) {
	report.NewFormatter(w).FormatResolutions(r.resolutions)
	_, _ = io.WriteString(w, "\n")
}

func FormatDocument(doc *ast.QueryDocument) []byte {
	var buf bytes.Buffer
	formatter.NewFormatter(&buf).FormatQueryDocument(doc)
	return buf.Bytes()
}
