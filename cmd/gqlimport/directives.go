package main

import (
	"github.com/urfave/cli/v2"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/formatter"
	"github.com/vvakame/gqlimport/internal/graphql"
)

func directivesCommand() *cli.Command {
	return &cli.Command{
		Name:  "directives",
		Usage: "print the SDL of @import and @export for editor tooling",
		Action: func(c *cli.Context) error {
			formatter.NewFormatter(c.App.Writer).FormatSchemaDocument(&ast.SchemaDocument{
				Directives: graphql.ComposeDirectives,
			})
			return nil
		},
	}
}
