package composition

import (
	"context"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vvakame/gqlimport/internal/log"
	"golang.org/x/sync/errgroup"
)

// Generate resolves every module and returns the resolutions of modules that
// contain at least one operation, keyed by import path. Fragment-only
// modules exist to be imported and are not emitted. An error in any module
// aborts the whole run; the error of the first failing module in import path
// order is returned regardless of concurrency.
func Generate(ctx context.Context, modules map[string]*ast.QueryDocument, opts ...Option) (map[string]*Resolution, error) {
	logger := log.FromContext(ctx)

	cfg := newConfig(opts)
	r, err := newResolver(modules, cfg)
	if err != nil {
		return nil, err
	}

	importPaths := sortedKeys(modules)
	resolutions := make([]*Resolution, len(importPaths))

	if cfg.concurrency == 1 {
		for i, importPath := range importPaths {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			resolution, err := r.ResolveDocument(ctx, importPath, modules[importPath])
			if err != nil {
				return nil, err
			}
			resolutions[i] = resolution
		}
	} else {
		// no early exit: the first failing module in order is reported
		errs := make([]error, len(importPaths))
		var eg errgroup.Group
		eg.SetLimit(cfg.concurrency)
		for i, importPath := range importPaths {
			i, importPath := i, importPath
			eg.Go(func() error {
				if err := ctx.Err(); err != nil {
					return err
				}
				resolutions[i], errs[i] = r.ResolveDocument(ctx, importPath, modules[importPath])
				return nil
			})
		}
		if err := eg.Wait(); err != nil {
			return nil, err
		}
		for _, err := range errs {
			if err != nil {
				return nil, err
			}
		}
	}

	result := make(map[string]*Resolution, len(resolutions))
	for _, resolution := range resolutions {
		if len(resolution.Document.Operations) == 0 {
			logger.V(1).Info("skipping fragment-only module", "importPath", resolution.ImportPath)
			continue
		}
		result[resolution.ImportPath] = resolution
	}

	logger.Info(
		"generated documents",
		"modules", len(modules),
		"emitted", len(result),
		"cachedClosures", cfg.cache.Len(),
	)

	return result, nil
}
