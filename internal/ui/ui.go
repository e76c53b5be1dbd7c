// Package ui provides the presentational components shared by the webapp and
// the admin dashboard as html/template definitions.
//
// Button and CardTitle are self-contained. Card, CardHeader and CardContent
// wrap caller markup, so each has an opening template and is closed with "ui/end":
//
//	{{template "ui/card" ""}}
//	  {{template "ui/card-header"}}{{template "ui/card-title" .Title}}{{template "ui/end"}}
//	  {{template "ui/card-content"}}...{{template "ui/end"}}
//	{{template "ui/end"}}
package ui

import (
	_ "embed"
	"html/template"
	"strings"
)

//go:embed components.html
var components string

const buttonBase = "inline-flex items-center justify-center rounded-md text-sm font-medium transition-colors " +
	"focus-visible:outline-none focus-visible:ring-2 focus-visible:ring-ring disabled:pointer-events-none disabled:opacity-50"

var buttonVariants = map[string]string{
	"default":     "bg-primary text-primary-foreground hover:bg-primary/90",
	"secondary":   "bg-secondary text-secondary-foreground hover:bg-secondary/80",
	"outline":     "border border-input bg-background hover:bg-accent hover:text-accent-foreground",
	"ghost":       "hover:bg-accent hover:text-accent-foreground",
	"destructive": "bg-destructive text-destructive-foreground hover:bg-destructive/90",
}

var buttonSizes = map[string]string{
	"sm": "h-9 px-3",
	"md": "h-10 px-4 py-2",
	"lg": "h-11 px-8",
}

// ButtonProps configures a Button. Href renders a link styled as a button.
type ButtonProps struct {
	Label   string
	Variant string
	Size    string
	Href    string
	Type    string
	Class   string
}

// ButtonClass returns the class list for a variant and size. Unknown values
// fall back to "default" and "md".
func ButtonClass(variant, size string, extra ...string) string {
	v, ok := buttonVariants[variant]
	if !ok {
		v = buttonVariants["default"]
	}
	s, ok := buttonSizes[size]
	if !ok {
		s = buttonSizes["md"]
	}
	return Cn(append([]string{buttonBase, v, s}, extra...)...)
}

// Cn joins class lists, dropping empty entries and duplicate classes.
func Cn(classes ...string) string {
	seen := make(map[string]bool)
	var out []string
	for _, c := range classes {
		for _, f := range strings.Fields(c) {
			if seen[f] {
				continue
			}
			seen[f] = true
			out = append(out, f)
		}
	}
	return strings.Join(out, " ")
}

func button(label, variant, size, href string) ButtonProps {
	return ButtonProps{Label: label, Variant: variant, Size: size, Href: href}
}

func Funcs() template.FuncMap {
	return template.FuncMap{
		"button":      button,
		"buttonClass": ButtonClass,
		"cn":          Cn,
	}
}

// Parse registers the component templates and helpers on t.
func Parse(t *template.Template) (*template.Template, error) {
	return t.Funcs(Funcs()).Parse(components)
}
