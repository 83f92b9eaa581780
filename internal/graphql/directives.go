package graphql

import "github.com/vektah/gqlparser/v2/ast"

const (
	ImportDirectiveName    = "import"
	ImportFromArgumentName = "from"
	ExportDirectiveName    = "export"
)

var directivePos = &ast.Position{
	Src: &ast.Source{
		Name: "gqlimport",
	},
}

// Pulls a fragment in from the module named by `from`.
var ImportDirective = &ast.DirectiveDefinition{
	Description: "Resolves this fragment spread against the fragments exported by another module.",
	Name:        ImportDirectiveName,
	Arguments: ast.ArgumentDefinitionList{
		&ast.ArgumentDefinition{
			Description: "Import path of the module exporting the fragment, e.g. `fragments.user`.",
			Name:        ImportFromArgumentName,
			Type: &ast.Type{
				NamedType: "String",
				NonNull:   true,
			},
			Position: directivePos,
		},
	},
	Locations: []ast.DirectiveLocation{
		ast.LocationFragmentSpread,
	},
	Position: directivePos,
}

// Makes a fragment visible to other modules.
var ExportDirective = &ast.DirectiveDefinition{
	Description: "Makes this fragment importable from other modules.",
	Name:        ExportDirectiveName,
	Locations: []ast.DirectiveLocation{
		ast.LocationFragmentDefinition,
	},
	Position: directivePos,
}

// ComposeDirectives are the directives understood by the composer.
var ComposeDirectives = ast.DirectiveDefinitionList{
	ImportDirective,
	ExportDirective,
}

// IsComposeDirective reports whether directive is @import or @export.
func IsComposeDirective(directive *ast.Directive) bool {
	switch directive.Name {
	case ImportDirectiveName, ExportDirectiveName:
		return true
	default:
		return false
	}
}
