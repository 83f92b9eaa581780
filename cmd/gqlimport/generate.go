package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vvakame/gqlimport/importer"
	"github.com/vvakame/gqlimport/internal/config"
	"github.com/vvakame/gqlimport/internal/log"
)

func generateCommand() *cli.Command {
	return &cli.Command{
		Name:  "generate",
		Usage: "resolve fragment imports and write the composed documents",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "config file, " + config.DefaultFileName + " is used when present",
				EnvVars: []string{"GQLIMPORT_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "root",
				Usage:   "directory import paths are relative to",
				EnvVars: []string{"GQLIMPORT_ROOT"},
			},
			&cli.StringFlag{
				Name:    "out",
				Aliases: []string{"o"},
				Usage:   "output directory, stdout when empty",
				EnvVars: []string{"GQLIMPORT_OUT"},
			},
			&cli.StringSliceFlag{
				Name:  "include",
				Usage: "glob of source files below the root",
			},
			&cli.StringSliceFlag{
				Name:  "exclude",
				Usage: "glob of files to ignore",
			},
			&cli.StringSliceFlag{
				Name:    "schema",
				Usage:   "schema file to validate the output against",
				EnvVars: []string{"GQLIMPORT_SCHEMA"},
			},
			&cli.BoolFlag{
				Name:  "strip-directives",
				Usage: "remove @import and @export from the output",
			},
			&cli.IntFlag{
				Name:  "concurrency",
				Usage: "number of files resolved in parallel",
			},
			&cli.BoolFlag{
				Name:  "report",
				Usage: "print the imports of each file to stderr",
			},
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "resolve without writing any file",
			},
		},
		Action: runGenerate,
	}
}

func runGenerate(c *cli.Context) error {
	ctx := c.Context
	logger := log.FromContext(ctx)

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	schema, err := readSchema(cfg.Schema)
	if err != nil {
		return err
	}

	logger.V(1).Info("generating", "root", cfg.Root, "output", cfg.Output)

	result, err := importer.Generate(ctx, &importer.Config{
		FS:              os.DirFS(cfg.Root),
		Include:         cfg.Include,
		Exclude:         cfg.Exclude,
		StripDirectives: cfg.StripDirectives,
		Schema:          schema,
		Concurrency:     cfg.Concurrency,
	})
	if err != nil {
		return err
	}

	if c.Bool("report") {
		result.WriteReport(c.App.ErrWriter)
	}

	switch {
	case c.Bool("dry-run"):
		logger.Info("dry run, nothing written", "files", len(result.Files))
		return nil
	case cfg.Output == "":
		return result.Print(c.App.Writer)
	default:
		err = result.Write(ctx, cfg.Output)
		if err != nil {
			return err
		}
		logger.Info("wrote documents", "files", len(result.Files), "output", cfg.Output)
		return nil
	}
}

func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg := config.Default()

	filename := c.String("config")
	if filename == "" {
		if _, err := os.Stat(config.DefaultFileName); err == nil {
			filename = config.DefaultFileName
		}
	}
	if filename != "" {
		var err error
		cfg, err = config.Load(filename)
		if err != nil {
			return nil, err
		}
	}

	if c.IsSet("root") {
		cfg.Root = c.String("root")
	}
	if c.IsSet("out") {
		cfg.Output = c.String("out")
	}
	if c.IsSet("include") {
		cfg.Include = c.StringSlice("include")
	}
	if c.IsSet("exclude") {
		cfg.Exclude = c.StringSlice("exclude")
	}
	if c.IsSet("schema") {
		cfg.Schema = c.StringSlice("schema")
	}
	if c.IsSet("strip-directives") {
		cfg.StripDirectives = c.Bool("strip-directives")
	}
	if c.IsSet("concurrency") {
		cfg.Concurrency = c.Int("concurrency")
	}

	err := cfg.Validate()
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

func readSchema(filenames []string) ([]*ast.Source, error) {
	sources := make([]*ast.Source, 0, len(filenames))
	for _, filename := range filenames {
		b, err := os.ReadFile(filename)
		if err != nil {
			return nil, fmt.Errorf("failed to read schema: %w", err)
		}
		sources = append(sources, &ast.Source{
			Name:  filename,
			Input: string(b),
		})
	}
	return sources, nil
}
