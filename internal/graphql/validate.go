package graphql

import (
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"
	"github.com/vektah/gqlparser/v2/parser"
	"github.com/vektah/gqlparser/v2/validator"
	_ "github.com/vektah/gqlparser/v2/validator/rules"
)

// LoadSchema builds a schema from sources on top of the prelude, with
// @import and @export declared so unstripped documents validate.
func LoadSchema(sources ...*ast.Source) (*ast.Schema, error) {
	schemaDoc, gErr := parser.ParseSchemas(append([]*ast.Source{validator.Prelude}, sources...)...)
	if gErr != nil {
		return nil, gErr
	}
	for _, directive := range ComposeDirectives {
		if schemaDoc.Directives.ForName(directive.Name) != nil {
			continue
		}
		schemaDoc.Directives = append(schemaDoc.Directives, directive)
	}

	schema, gErr := validator.ValidateSchemaDocument(schemaDoc)
	if gErr != nil {
		return nil, gErr
	}

	return schema, nil
}

// ValidateDocument validates a copy of doc against schema; doc is left as is.
func ValidateDocument(schema *ast.Schema, doc *ast.QueryDocument) gqlerror.List {
	return validator.Validate(schema, CopyDocument(doc))
}
