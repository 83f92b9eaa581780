package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
	"github.com/vvakame/gqlimport/internal/log"
)

var version = "devel"

func main() {
	err := realMain(os.Args)
	if err != nil {
		os.Exit(1)
	}
}

func realMain(args []string) error {
	ctx := context.Background()

	logger := log.New(os.Stderr, 0)
	ctx = log.WithLogger(ctx, logger)

	err := run(ctx, args, os.Stdout, os.Stderr)
	if err != nil {
		logger.Error(err, "failed to execute gqlimport")
		return err
	}

	return nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	err := godotenv.Load()
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}

	app := newApp()
	app.Writer = stdout
	app.ErrWriter = stderr

	return app.RunContext(ctx, args)
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "gqlimport",
		Usage:   "compose GraphQL documents from fragments exported by other files",
		Version: version,
		Description: heredoc.Doc(`
			gqlimport resolves fragment spreads annotated with @import(from: "path")
			against fragments marked @export in other files below the root, and
			emits one self-contained document per file containing an operation.

			The import path of a file is its path relative to the root with "/"
			replaced by "." and the extension removed: fragments/user.graphql is
			imported as "fragments.user".
		`),
		Flags: []cli.Flag{
			// -v is taken by --version
			&cli.IntFlag{
				Name:    "verbose",
				Usage:   "log verbosity",
				EnvVars: []string{"GQLIMPORT_VERBOSE"},
			},
		},
		Before: func(c *cli.Context) error {
			log.SetVerbosity(c.Int("verbose"))
			return nil
		},
		Commands: []*cli.Command{
			generateCommand(),
			directivesCommand(),
		},
	}
}
