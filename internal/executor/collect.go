package executor

import (
	language "github.com/hanpama/decograph/internal/language"
	schema "github.com/hanpama/decograph/internal/schema"
)

// fieldGroups preserves the field order of the original query while grouping
// same-response-name selections.
type fieldGroups struct {
	groups []fieldGroup
	index  map[string]int
}

type fieldGroup struct {
	ResponseName string
	Fields       []*language.Field
}

func (fg *fieldGroups) add(responseName string, field *language.Field) {
	if idx, ok := fg.index[responseName]; ok {
		fg.groups[idx].Fields = append(fg.groups[idx].Fields, field)
		return
	}
	fg.index[responseName] = len(fg.groups)
	fg.groups = append(fg.groups, fieldGroup{ResponseName: responseName, Fields: []*language.Field{field}})
}

func (fg *fieldGroups) ordered() []fieldGroup {
	return fg.groups
}

// collectFields gathers the fields of a selection set, expanding fragments
// and honoring @skip/@include.
func collectFields(exec *execution, objectType *schema.Type, selectionSet language.SelectionSet) *fieldGroups {
	groups := &fieldGroups{index: map[string]int{}}
	collectFieldsImpl(exec, objectType, selectionSet, groups, map[string]bool{})
	return groups
}

func collectFieldsImpl(exec *execution, objectType *schema.Type, selectionSet language.SelectionSet, groups *fieldGroups, visitedFragments map[string]bool) {
	for _, selection := range selectionSet {
		switch sel := selection.(type) {
		case *language.Field:
			if !shouldInclude(exec, sel.Directives) {
				continue
			}
			responseName := sel.Alias
			if responseName == "" {
				responseName = sel.Name
			}
			groups.add(responseName, sel)

		case *language.InlineFragment:
			if !shouldInclude(exec, sel.Directives) {
				continue
			}
			if !fragmentApplies(exec, sel.TypeCondition, objectType) {
				continue
			}
			collectFieldsImpl(exec, objectType, sel.SelectionSet, groups, visitedFragments)

		case *language.FragmentSpread:
			if !shouldInclude(exec, sel.Directives) {
				continue
			}
			if visitedFragments[sel.Name] {
				continue
			}
			visitedFragments[sel.Name] = true

			def := exec.document.Fragments.ForName(sel.Name)
			if def == nil {
				continue
			}
			if !fragmentApplies(exec, def.TypeCondition, objectType) {
				continue
			}
			if !shouldInclude(exec, def.Directives) {
				continue
			}
			collectFieldsImpl(exec, objectType, def.SelectionSet, groups, visitedFragments)
		}
	}
}

// fragmentApplies reports whether the type condition matches the concrete
// object type, directly or through one of its interfaces.
func fragmentApplies(exec *execution, typeCondition string, objectType *schema.Type) bool {
	if typeCondition == "" || typeCondition == objectType.Name {
		return true
	}
	cond := exec.schema.Types[typeCondition]
	if cond == nil {
		return false
	}
	switch cond.Kind {
	case schema.TypeKindInterface:
		for _, iface := range objectType.Interfaces {
			if iface == typeCondition {
				return true
			}
		}
	case schema.TypeKindUnion:
		for _, possible := range cond.PossibleTypes {
			if possible == objectType.Name {
				return true
			}
		}
	}
	return false
}

// shouldInclude evaluates @skip and @include on a node.
func shouldInclude(exec *execution, directives language.DirectiveList) bool {
	if skip := directives.ForName("skip"); skip != nil {
		if v, ok := directiveIfArgument(exec, skip); ok && v {
			return false
		}
	}
	if include := directives.ForName("include"); include != nil {
		if v, ok := directiveIfArgument(exec, include); ok && !v {
			return false
		}
	}
	return true
}

func directiveIfArgument(exec *execution, directive *language.Directive) (bool, bool) {
	for _, arg := range directive.Arguments {
		if arg.Name == "if" {
			if b, ok := valueFromAST(exec, arg.Value).(bool); ok {
				return b, true
			}
		}
	}
	return false, false
}

// valueFromAST converts an AST value to a runtime value, substituting
// variables from the execution state.
func valueFromAST(exec *execution, value *language.Value) any {
	if value == nil {
		return nil
	}
	if value.Kind == language.Variable {
		return exec.variables[value.Raw]
	}
	return astValueToGo(value)
}

func getFieldDefinition(objectType *schema.Type, fieldName string) *schema.Field {
	for _, field := range objectType.Fields {
		if field.Name == fieldName {
			return field
		}
	}
	return nil
}
