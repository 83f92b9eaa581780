package graphql

import "github.com/vektah/gqlparser/v2/ast"

// CopyDocument returns a deep copy of doc. The validator annotates the nodes
// it walks, and resolved documents share fragment definitions.
func CopyDocument(doc *ast.QueryDocument) *ast.QueryDocument {
	return (&copier{}).document(doc)
}

// StripDirectives returns a deep copy of doc without @import and @export.
func StripDirectives(doc *ast.QueryDocument) *ast.QueryDocument {
	return (&copier{drop: IsComposeDirective}).document(doc)
}

type copier struct {
	drop func(directive *ast.Directive) bool
}

func (c *copier) document(doc *ast.QueryDocument) *ast.QueryDocument {
	if doc == nil {
		return nil
	}

	newDoc := *doc
	newDoc.Operations = nil
	for _, op := range doc.Operations {
		newOp := *op
		newOp.VariableDefinitions = c.variableDefinitions(op.VariableDefinitions)
		newOp.Directives = c.directives(op.Directives)
		newOp.SelectionSet = c.selectionSet(op.SelectionSet)
		newDoc.Operations = append(newDoc.Operations, &newOp)
	}
	newDoc.Fragments = nil
	for _, fragment := range doc.Fragments {
		newDoc.Fragments = append(newDoc.Fragments, c.fragment(fragment))
	}

	return &newDoc
}

func (c *copier) fragment(fragment *ast.FragmentDefinition) *ast.FragmentDefinition {
	newFragment := *fragment
	newFragment.VariableDefinition = c.variableDefinitions(fragment.VariableDefinition)
	newFragment.Directives = c.directives(fragment.Directives)
	newFragment.SelectionSet = c.selectionSet(fragment.SelectionSet)
	return &newFragment
}

func (c *copier) selectionSet(selectionSet ast.SelectionSet) ast.SelectionSet {
	if selectionSet == nil {
		return nil
	}

	newSelectionSet := make(ast.SelectionSet, 0, len(selectionSet))
	for _, selection := range selectionSet {
		switch node := selection.(type) {
		case *ast.Field:
			newField := *node
			newField.Arguments = c.arguments(node.Arguments)
			newField.Directives = c.directives(node.Directives)
			newField.SelectionSet = c.selectionSet(node.SelectionSet)
			newSelectionSet = append(newSelectionSet, &newField)

		case *ast.InlineFragment:
			newInline := *node
			newInline.Directives = c.directives(node.Directives)
			newInline.SelectionSet = c.selectionSet(node.SelectionSet)
			newSelectionSet = append(newSelectionSet, &newInline)

		case *ast.FragmentSpread:
			newSpread := *node
			newSpread.Directives = c.directives(node.Directives)
			newSelectionSet = append(newSelectionSet, &newSpread)

		default:
			newSelectionSet = append(newSelectionSet, selection)
		}
	}

	return newSelectionSet
}

func (c *copier) directives(directives ast.DirectiveList) ast.DirectiveList {
	if directives == nil {
		return nil
	}

	newDirectives := make(ast.DirectiveList, 0, len(directives))
	for _, directive := range directives {
		if c.drop != nil && c.drop(directive) {
			continue
		}
		newDirective := *directive
		newDirective.Arguments = c.arguments(directive.Arguments)
		newDirectives = append(newDirectives, &newDirective)
	}

	return newDirectives
}

func (c *copier) variableDefinitions(varDefs ast.VariableDefinitionList) ast.VariableDefinitionList {
	if varDefs == nil {
		return nil
	}

	newVarDefs := make(ast.VariableDefinitionList, 0, len(varDefs))
	for _, varDef := range varDefs {
		newVarDef := *varDef
		newVarDef.DefaultValue = c.value(varDef.DefaultValue)
		newVarDef.Directives = c.directives(varDef.Directives)
		newVarDefs = append(newVarDefs, &newVarDef)
	}

	return newVarDefs
}

func (c *copier) arguments(args ast.ArgumentList) ast.ArgumentList {
	if args == nil {
		return nil
	}

	newArgs := make(ast.ArgumentList, 0, len(args))
	for _, arg := range args {
		newArg := *arg
		newArg.Value = c.value(arg.Value)
		newArgs = append(newArgs, &newArg)
	}

	return newArgs
}

func (c *copier) value(value *ast.Value) *ast.Value {
	if value == nil {
		return nil
	}

	newValue := *value
	if value.Children != nil {
		newValue.Children = make(ast.ChildValueList, 0, len(value.Children))
		for _, child := range value.Children {
			newChild := *child
			newChild.Value = c.value(child.Value)
			newValue.Children = append(newValue.Children, &newChild)
		}
	}

	return &newValue
}
