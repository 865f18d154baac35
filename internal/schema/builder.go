package schema

import (
	"fmt"
	"sort"
	"strconv"

	language "github.com/hanpama/decograph/internal/language"
	"github.com/vektah/gqlparser/v2/ast"
)

// BuildFromSDL parses an SDL string and builds the executable schema.
// Built-in scalars and the @skip/@include/@async directives are always
// available. When no schema block is present the query root defaults to a
// type named Query (and Mutation/Subscription when defined).
func BuildFromSDL(sdl string) (*Schema, error) {
	doc, err := language.ParseSchema("schema.graphql", sdl)
	if err != nil {
		return nil, err
	}
	return BuildFromDocument(doc)
}

// BuildFromDocument builds the executable schema from a parsed SDL document.
func BuildFromDocument(doc *language.SchemaDocument) (*Schema, error) {
	s := &Schema{
		Types:      map[string]*Type{},
		Directives: map[string]*Directive{},
	}
	for _, t := range []*Type{stringType, intType, floatType, booleanType, idType} {
		s.Types[t.Name] = t
	}
	for _, d := range []*Directive{includeDirective, skipDirective, asyncDirective} {
		s.Directives[d.Name] = d
	}

	for _, def := range doc.Definitions {
		t, err := buildDefinition(def)
		if err != nil {
			return nil, err
		}
		if _, exists := s.Types[t.Name]; exists && !isBuiltinScalar(t.Name) {
			return nil, fmt.Errorf("duplicate type definition %q", t.Name)
		}
		s.Types[t.Name] = t
	}
	for _, dd := range doc.Directives {
		s.Directives[dd.Name] = buildDirectiveDefinition(dd)
	}

	resolvePossibleTypes(s)
	if err := resolveRoots(s, doc); err != nil {
		return nil, err
	}
	return s, nil
}

func isBuiltinScalar(name string) bool {
	switch name {
	case "String", "Int", "Float", "Boolean", "ID":
		return true
	}
	return false
}

func buildDefinition(def *language.Definition) (*Type, error) {
	switch def.Kind {
	case language.Object, language.Interface:
		kind := TypeKindObject
		if def.Kind == language.Interface {
			kind = TypeKindInterface
		}
		t := &Type{Name: def.Name, Kind: kind, Description: def.Description}
		t.Interfaces = append(t.Interfaces, def.Interfaces...)
		for _, fd := range def.Fields {
			f, err := buildField(fd)
			if err != nil {
				return nil, err
			}
			t.Fields = append(t.Fields, f)
		}
		return t, nil
	case language.Union:
		t := &Type{Name: def.Name, Kind: TypeKindUnion, Description: def.Description}
		t.PossibleTypes = append(t.PossibleTypes, def.Types...)
		return t, nil
	case language.Enum:
		t := &Type{Name: def.Name, Kind: TypeKindEnum, Description: def.Description}
		for _, ev := range def.EnumValues {
			v := &EnumValue{Name: ev.Name, Description: ev.Description}
			applyDeprecation(ev.Directives, &v.IsDeprecated, &v.DeprecationReason)
			t.EnumValues = append(t.EnumValues, v)
		}
		return t, nil
	case language.InputObject:
		t := &Type{Name: def.Name, Kind: TypeKindInputObject, Description: def.Description}
		for _, fd := range def.Fields {
			iv, err := buildInputValue(fd.Name, fd.Description, fd.Type, fd.DefaultValue, fd.Directives)
			if err != nil {
				return nil, err
			}
			t.InputFields = append(t.InputFields, iv)
		}
		return t, nil
	case language.Scalar:
		return &Type{Name: def.Name, Kind: TypeKindScalar, Description: def.Description}, nil
	default:
		return nil, fmt.Errorf("unsupported definition kind %q for %q", def.Kind, def.Name)
	}
}

func buildField(fd *language.FieldDefinition) (*Field, error) {
	f := &Field{
		Name:        fd.Name,
		Description: fd.Description,
		Type:        buildTypeRef(fd.Type),
		Async:       fd.Directives.ForName("async") != nil,
	}
	applyDeprecation(fd.Directives, &f.IsDeprecated, &f.DeprecationReason)
	for _, arg := range fd.Arguments {
		iv, err := buildInputValue(arg.Name, arg.Description, arg.Type, arg.DefaultValue, arg.Directives)
		if err != nil {
			return nil, err
		}
		f.Arguments = append(f.Arguments, iv)
	}
	return f, nil
}

func buildInputValue(name, description string, t *ast.Type, dflt *language.Value, directives language.DirectiveList) (*InputValue, error) {
	iv := &InputValue{Name: name, Description: description, Type: buildTypeRef(t)}
	if dflt != nil {
		v, err := valueToGo(dflt)
		if err != nil {
			return nil, fmt.Errorf("default value for %q: %w", name, err)
		}
		iv.DefaultValue = v
	}
	applyDeprecation(directives, &iv.IsDeprecated, &iv.DeprecationReason)
	return iv, nil
}

func buildTypeRef(t *ast.Type) *TypeRef {
	if t == nil {
		return nil
	}
	if t.NonNull {
		return NonNullType(buildTypeRef(&ast.Type{NamedType: t.NamedType, Elem: t.Elem}))
	}
	if t.NamedType != "" {
		return NamedType(t.NamedType)
	}
	return ListType(buildTypeRef(t.Elem))
}

func buildDirectiveDefinition(dd *ast.DirectiveDefinition) *Directive {
	d := &Directive{
		Name:         dd.Name,
		Description:  dd.Description,
		IsRepeatable: dd.IsRepeatable,
	}
	for _, loc := range dd.Locations {
		d.Locations = append(d.Locations, string(loc))
	}
	for _, arg := range dd.Arguments {
		iv, err := buildInputValue(arg.Name, arg.Description, arg.Type, arg.DefaultValue, nil)
		if err == nil {
			d.Arguments = append(d.Arguments, iv)
		}
	}
	return d
}

func applyDeprecation(directives language.DirectiveList, deprecated *bool, reason *string) {
	dep := directives.ForName("deprecated")
	if dep == nil {
		return
	}
	*deprecated = true
	if arg := dep.Arguments.ForName("reason"); arg != nil && arg.Value != nil {
		*reason = arg.Value.Raw
	}
}

// valueToGo converts a constant AST value (no variables) to a Go value.
func valueToGo(v *language.Value) (any, error) {
	switch v.Kind {
	case language.IntValue:
		return strconv.Atoi(v.Raw)
	case language.FloatValue:
		return strconv.ParseFloat(v.Raw, 64)
	case language.StringValue, language.BlockValue, language.EnumValue:
		return v.Raw, nil
	case language.BooleanValue:
		return v.Raw == "true", nil
	case language.NullValue:
		return nil, nil
	case language.ListValue:
		out := make([]any, len(v.Children))
		for i, c := range v.Children {
			cv, err := valueToGo(c.Value)
			if err != nil {
				return nil, err
			}
			out[i] = cv
		}
		return out, nil
	case language.ObjectValue:
		m := make(map[string]any, len(v.Children))
		for _, c := range v.Children {
			cv, err := valueToGo(c.Value)
			if err != nil {
				return nil, err
			}
			m[c.Name] = cv
		}
		return m, nil
	default:
		return nil, fmt.Errorf("unsupported constant value kind %d", v.Kind)
	}
}

// resolvePossibleTypes fills interface possible types from the objects that
// declare them.
func resolvePossibleTypes(s *Schema) {
	var names []string
	for name := range s.Types {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		t := s.Types[name]
		if t.Kind != TypeKindObject {
			continue
		}
		for _, ifaceName := range t.Interfaces {
			if iface := s.Types[ifaceName]; iface != nil && iface.Kind == TypeKindInterface {
				iface.PossibleTypes = append(iface.PossibleTypes, t.Name)
			}
		}
	}
}

func resolveRoots(s *Schema, doc *language.SchemaDocument) error {
	for _, sd := range doc.Schema {
		for _, op := range sd.OperationTypes {
			switch op.Operation {
			case language.Query:
				s.QueryType = op.Type
			case language.Mutation:
				s.MutationType = op.Type
			case language.Subscription:
				s.SubscriptionType = op.Type
			}
		}
	}
	if s.QueryType == "" {
		if _, ok := s.Types["Query"]; ok {
			s.QueryType = "Query"
		}
	}
	if s.MutationType == "" {
		if _, ok := s.Types["Mutation"]; ok {
			s.MutationType = "Mutation"
		}
	}
	if s.SubscriptionType == "" {
		if _, ok := s.Types["Subscription"]; ok {
			s.SubscriptionType = "Subscription"
		}
	}
	if s.QueryType == "" {
		return fmt.Errorf("schema has no query root type")
	}
	if s.Types[s.QueryType] == nil {
		return fmt.Errorf("query root type %q is not defined", s.QueryType)
	}
	return nil
}
