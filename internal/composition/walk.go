package composition

import (
	"fmt"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vvakame/gqlimport/internal/graphql"
)

// walkFragmentSpreads calls fn for every fragment spread nested in
// selectionSet, in source order. Spread targets are not followed.
func walkFragmentSpreads(selectionSet ast.SelectionSet, fn func(spread *ast.FragmentSpread) error) error {
	for _, selection := range selectionSet {
		switch node := selection.(type) {
		case *ast.Field:
			if err := walkFragmentSpreads(node.SelectionSet, fn); err != nil {
				return err
			}

		case *ast.InlineFragment:
			if err := walkFragmentSpreads(node.SelectionSet, fn); err != nil {
				return err
			}

		case *ast.FragmentSpread:
			if err := fn(node); err != nil {
				return err
			}

		default:
			return fmt.Errorf("unexpected selection type: %T", selection)
		}
	}

	return nil
}

// walkDocumentSpreads visits the spreads of every operation and fragment of doc.
func walkDocumentSpreads(doc *ast.QueryDocument, fn func(spread *ast.FragmentSpread) error) error {
	for _, op := range doc.Operations {
		if err := walkFragmentSpreads(op.SelectionSet, fn); err != nil {
			return err
		}
	}
	for _, fragment := range doc.Fragments {
		if err := walkFragmentSpreads(fragment.SelectionSet, fn); err != nil {
			return err
		}
	}

	return nil
}

// importSource returns the value of @import(from:) on spread.
// ok is false when the spread has no @import directive.
func importSource(spread *ast.FragmentSpread) (from string, ok bool, err error) {
	directive := spread.Directives.ForName(graphql.ImportDirectiveName)
	if directive == nil {
		return "", false, nil
	}

	arg := directive.Arguments.ForName(graphql.ImportFromArgumentName)
	if arg == nil || arg.Value == nil {
		return "", true, newError(
			directive.Position,
			MissingImportArgument,
			"@%s on fragment spread %q does not have required argument %q",
			graphql.ImportDirectiveName, spread.Name, graphql.ImportFromArgumentName,
		)
	}
	switch arg.Value.Kind {
	case ast.StringValue, ast.BlockValue:
		return arg.Value.Raw, true, nil
	default:
		return "", true, newError(
			arg.Position,
			MissingImportArgument,
			"@%s(%s:) on fragment spread %q must be a string, got %s",
			graphql.ImportDirectiveName, graphql.ImportFromArgumentName, spread.Name, arg.Value.String(),
		)
	}
}
