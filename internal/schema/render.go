package schema

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Render produces SDL from the schema with deterministic ordering: type and
// directive names sorted lexicographically, built-ins elided.
func Render(s *Schema) string {
	if s == nil {
		return ""
	}
	var b strings.Builder

	names := make([]string, 0, len(s.Types))
	for name := range s.Types {
		if isBuiltinScalar(name) {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		renderType(&b, s.Types[name])
	}

	dirNames := make([]string, 0, len(s.Directives))
	for name := range s.Directives {
		switch name {
		case "include", "skip", "async":
			continue
		}
		dirNames = append(dirNames, name)
	}
	sort.Strings(dirNames)
	for _, name := range dirNames {
		renderDirective(&b, s.Directives[name])
	}

	return strings.TrimRight(b.String(), "\n") + "\n"
}

func renderType(b *strings.Builder, t *Type) {
	renderDescription(b, t.Description, "")
	switch t.Kind {
	case TypeKindScalar:
		fmt.Fprintf(b, "scalar %s\n\n", t.Name)
	case TypeKindEnum:
		fmt.Fprintf(b, "enum %s {\n", t.Name)
		for _, v := range t.EnumValues {
			renderDescription(b, v.Description, "  ")
			fmt.Fprintf(b, "  %s%s\n", v.Name, deprecation(v.IsDeprecated, v.DeprecationReason))
		}
		b.WriteString("}\n\n")
	case TypeKindInputObject:
		fmt.Fprintf(b, "input %s {\n", t.Name)
		for _, f := range t.InputFields {
			renderDescription(b, f.Description, "  ")
			fmt.Fprintf(b, "  %s: %s%s%s\n", f.Name, renderTypeRef(f.Type),
				defaultValue(f.DefaultValue), deprecation(f.IsDeprecated, f.DeprecationReason))
		}
		b.WriteString("}\n\n")
	case TypeKindObject, TypeKindInterface:
		keyword := "type"
		if t.Kind == TypeKindInterface {
			keyword = "interface"
		}
		fmt.Fprintf(b, "%s %s%s {\n", keyword, t.Name, implementsClause(t.Interfaces))
		for _, f := range t.Fields {
			renderField(b, f)
		}
		b.WriteString("}\n\n")
	case TypeKindUnion:
		fmt.Fprintf(b, "union %s = %s\n\n", t.Name, strings.Join(t.PossibleTypes, " | "))
	}
}

func renderField(b *strings.Builder, f *Field) {
	renderDescription(b, f.Description, "  ")
	fmt.Fprintf(b, "  %s%s: %s", f.Name, renderArguments(f.Arguments), renderTypeRef(f.Type))
	if f.Async {
		b.WriteString(" @async")
	}
	b.WriteString(deprecation(f.IsDeprecated, f.DeprecationReason))
	b.WriteString("\n")
}

func renderDirective(b *strings.Builder, d *Directive) {
	renderDescription(b, d.Description, "")
	fmt.Fprintf(b, "directive @%s%s", d.Name, renderArguments(d.Arguments))
	if d.IsRepeatable {
		b.WriteString(" repeatable")
	}
	fmt.Fprintf(b, " on %s\n\n", strings.Join(d.Locations, " | "))
}

func renderArguments(args []*InputValue) string {
	if len(args) == 0 {
		return ""
	}
	parts := make([]string, len(args))
	for i, arg := range args {
		parts[i] = fmt.Sprintf("%s: %s%s", arg.Name, renderTypeRef(arg.Type), defaultValue(arg.DefaultValue))
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func renderTypeRef(t *TypeRef) string {
	switch t.Kind {
	case TypeRefKindNonNull:
		return renderTypeRef(t.OfType) + "!"
	case TypeRefKindList:
		return "[" + renderTypeRef(t.OfType) + "]"
	default:
		return t.Named
	}
}

func renderDescription(b *strings.Builder, desc, indent string) {
	if desc == "" {
		return
	}
	escaped := strings.ReplaceAll(desc, `"`, `\"`)
	fmt.Fprintf(b, "%s\"\"\"\n%s%s\n%s\"\"\"\n", indent, indent, escaped, indent)
}

func implementsClause(interfaces []string) string {
	if len(interfaces) == 0 {
		return ""
	}
	return " implements " + strings.Join(interfaces, " & ")
}

func deprecation(deprecated bool, reason string) string {
	if !deprecated {
		return ""
	}
	if reason == "" {
		return " @deprecated"
	}
	return fmt.Sprintf(" @deprecated(reason: %s)", strconv.Quote(reason))
}

func defaultValue(v any) string {
	if v == nil {
		return ""
	}
	return " = " + renderValue(v)
}

func renderValue(v any) string {
	switch val := v.(type) {
	case string:
		return strconv.Quote(val)
	case bool:
		return strconv.FormatBool(val)
	case int:
		return strconv.Itoa(val)
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64)
	case []any:
		parts := make([]string, len(val))
		for i, item := range val {
			parts[i] = renderValue(item)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = k + ": " + renderValue(val[k])
		}
		return "{" + strings.Join(parts, ", ") + "}"
	default:
		return fmt.Sprintf("%v", val)
	}
}
