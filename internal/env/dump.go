package env

import (
	"fmt"
	"io"
	"strings"
)

// Dump writes the registered environment as an indented tree.
func (r *Registry) Dump(w io.Writer) error {
	for _, pkg := range r.Packages() {
		if _, err := fmt.Fprintf(w, "package %s {%s}", pkg.Name, pkg.GUID); err != nil {
			return err
		}
		if pkg.Description != "" {
			fmt.Fprintf(w, " (%s)", pkg.Description)
		}
		fmt.Fprintln(w)

		root, _ := r.Root(pkg.GUID)
		var werr error
		root.Walk(func(depth int, s *Scope) {
			if werr != nil {
				return
			}
			_, werr = fmt.Fprintf(w, "%s%s\n", strings.Repeat("  ", depth), describe(s.Element()))
		})
		if werr != nil {
			return werr
		}
	}
	return nil
}

func describe(e Element) string {
	switch el := e.(type) {
	case *ComponentDesc:
		return fmt.Sprintf("component %s %q [%s] category=%s", el.Name(), el.Label(), el.Flags(), el.EditorCategory())
	case *Function:
		return fmt.Sprintf("function %s(%s)", el.Name(), formatParams(el.Inputs))
	case *Signal:
		names := make([]string, len(el.Members))
		for i, m := range el.Members {
			names[i] = m.Name
		}
		return fmt.Sprintf("signal %s {%s}", el.Name(), strings.Join(names, ", "))
	case *EnumType:
		return fmt.Sprintf("enum %s (%d constants)", el.Name(), len(el.Constants))
	default:
		return fmt.Sprintf("%s %s", e.Kind(), e.Name())
	}
}

func formatParams(params []Param) string {
	parts := make([]string, len(params))
	for i, p := range params {
		name := p.Name
		if p.Optional {
			name += "?"
		}
		parts[i] = name + " " + p.Type.FriendlyName()
	}
	return strings.Join(parts, ", ")
}
