// internal/routines/ddl.go
package routines

import (
	"fmt"
	"strings"
)

// FormatParameter renders one parameter for a CREATE statement.
// Functions carry no direction keyword.
func FormatParameter(p Parameter, kind Kind) string {
	var b strings.Builder

	if kind == KindProcedure && p.Direction != "" {
		b.WriteString(p.Direction)
		b.WriteString(" ")
	}
	fmt.Fprintf(&b, "`%s` %s", p.Name, p.Type)
	if p.Length != "" {
		fmt.Fprintf(&b, "(%s)", p.Length)
	}
	if p.Options != "" {
		b.WriteString(" ")
		b.WriteString(p.Options)
	}
	return b.String()
}

// BuildDDL composes the CREATE PROCEDURE/FUNCTION statement for a
// routine descriptor. The result is what export serves back, so it has
// to be a complete re-creatable definition.
func BuildDDL(rt *Routine) string {
	var b strings.Builder

	b.WriteString("CREATE ")
	if rt.Definer != "" {
		fmt.Fprintf(&b, "DEFINER=%s ", rt.Definer)
	}
	fmt.Fprintf(&b, "%s `%s`", rt.Kind, rt.Name)

	params := make([]string, len(rt.Params))
	for i, p := range rt.Params {
		params[i] = FormatParameter(p, rt.Kind)
	}
	fmt.Fprintf(&b, "(%s)", strings.Join(params, ", "))

	if rt.Kind == KindFunction && rt.ReturnType != "" {
		fmt.Fprintf(&b, " RETURNS %s", rt.ReturnType)
	}
	if rt.IsDeterministic {
		b.WriteString(" DETERMINISTIC")
	}
	if rt.SQLDataAccess != "" {
		b.WriteString(" ")
		b.WriteString(rt.SQLDataAccess)
	}
	if rt.Comment != "" {
		fmt.Fprintf(&b, " COMMENT '%s'", strings.ReplaceAll(rt.Comment, "'", "''"))
	}

	b.WriteString("\n")
	b.WriteString(rt.Body)
	return b.String()
}
