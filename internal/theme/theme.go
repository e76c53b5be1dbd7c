// Package theme holds the design tokens shared by the webapp and the admin
// dashboard and renders them as CSS custom properties.
package theme

import (
	"fmt"
	"slices"
	"strings"
)

// Color is an HSL triplet ("222.2 84% 4.9%") for the light and dark palettes.
type Color struct {
	Name  string `json:"name"`
	Light string `json:"light"`
	Dark  string `json:"dark"`
}

type FontSize struct {
	Size       string `json:"size"`
	LineHeight string `json:"lineHeight"`
}

type Theme struct {
	DarkMode     []string            `json:"darkMode"`
	Colors       []Color             `json:"colors"`
	Spacing      map[string]string   `json:"spacing"`
	FontFamily   map[string][]string `json:"fontFamily"`
	FontSize     map[string]FontSize `json:"fontSize"`
	Radius       string              `json:"radius"`
	BorderRadius map[string]string   `json:"borderRadius"`
}

// Base returns a fresh copy of the shared tokens.
func Base() Theme {
	return Theme{
		DarkMode: []string{".dark", `[data-theme="dark"]`},
		Colors: []Color{
			{"background", "0 0% 100%", "222.2 84% 4.9%"},
			{"foreground", "222.2 84% 4.9%", "210 40% 98%"},
			{"card", "0 0% 100%", "222.2 84% 4.9%"},
			{"card-foreground", "222.2 84% 4.9%", "210 40% 98%"},
			{"primary", "222.2 47.4% 11.2%", "210 40% 98%"},
			{"primary-foreground", "210 40% 98%", "222.2 47.4% 11.2%"},
			{"secondary", "210 40% 96.1%", "217.2 32.6% 17.5%"},
			{"secondary-foreground", "222.2 47.4% 11.2%", "210 40% 98%"},
			{"muted", "210 40% 96.1%", "217.2 32.6% 17.5%"},
			{"muted-foreground", "215.4 16.3% 46.9%", "215 20.2% 65.1%"},
			{"accent", "210 40% 96.1%", "217.2 32.6% 17.5%"},
			{"accent-foreground", "222.2 47.4% 11.2%", "210 40% 98%"},
			{"destructive", "0 84.2% 60.2%", "0 62.8% 30.6%"},
			{"destructive-foreground", "210 40% 98%", "210 40% 98%"},
			{"border", "214.3 31.8% 91.4%", "217.2 32.6% 17.5%"},
			{"input", "214.3 31.8% 91.4%", "217.2 32.6% 17.5%"},
			{"ring", "222.2 84% 4.9%", "212.7 26.8% 83.9%"},
		},
		Spacing: map[string]string{
			"0": "0", "1": "0.25rem", "2": "0.5rem", "3": "0.75rem", "4": "1rem",
			"6": "1.5rem", "8": "2rem", "12": "3rem", "16": "4rem", "24": "6rem",
		},
		FontFamily: map[string][]string{
			"sans":  {"Inter", "system-ui", "sans-serif"},
			"serif": {"Merriweather", "Georgia", "serif"},
			"mono":  {"JetBrains Mono", "ui-monospace", "monospace"},
		},
		FontSize: map[string]FontSize{
			"xs":   {"0.75rem", "1rem"},
			"sm":   {"0.875rem", "1.25rem"},
			"base": {"1rem", "1.5rem"},
			"lg":   {"1.125rem", "1.75rem"},
			"xl":   {"1.25rem", "1.75rem"},
			"2xl":  {"1.5rem", "2rem"},
			"4xl":  {"2.25rem", "2.5rem"},
		},
		Radius: "0.5rem",
		BorderRadius: map[string]string{
			"lg": "var(--radius)",
			"md": "calc(var(--radius) - 2px)",
			"sm": "calc(var(--radius) - 4px)",
		},
	}
}

// Overrides are app-specific additions layered over the base tokens.
type Overrides struct {
	Colors  []Color
	Spacing map[string]string
	Radius  string
}

// Extend returns a copy of t with o applied. Colors replace by name or append.
func (t Theme) Extend(o Overrides) Theme {
	out := t
	out.Colors = slices.Clone(t.Colors)
	for _, c := range o.Colors {
		i := slices.IndexFunc(out.Colors, func(x Color) bool { return x.Name == c.Name })
		if i >= 0 {
			out.Colors[i] = c
			continue
		}
		out.Colors = append(out.Colors, c)
	}
	out.Spacing = make(map[string]string, len(t.Spacing)+len(o.Spacing))
	for k, v := range t.Spacing {
		out.Spacing[k] = v
	}
	for k, v := range o.Spacing {
		out.Spacing[k] = v
	}
	if o.Radius != "" {
		out.Radius = o.Radius
	}
	return out
}

// CSS renders the tokens as custom properties on :root with a dark override block.
func (t Theme) CSS() string {
	var b strings.Builder
	b.WriteString(":root {\n")
	for _, c := range t.Colors {
		fmt.Fprintf(&b, "  --%s: %s;\n", c.Name, c.Light)
	}
	fmt.Fprintf(&b, "  --radius: %s;\n", t.Radius)
	for _, k := range sortedKeys(t.BorderRadius) {
		fmt.Fprintf(&b, "  --radius-%s: %s;\n", k, t.BorderRadius[k])
	}
	for _, k := range sortedKeys(t.Spacing) {
		fmt.Fprintf(&b, "  --spacing-%s: %s;\n", k, t.Spacing[k])
	}
	for _, k := range sortedKeys(t.FontFamily) {
		fmt.Fprintf(&b, "  --font-%s: %s;\n", k, fontStack(t.FontFamily[k]))
	}
	for _, k := range sortedKeys(t.FontSize) {
		fs := t.FontSize[k]
		fmt.Fprintf(&b, "  --text-%s: %s;\n  --text-%s-leading: %s;\n", k, fs.Size, k, fs.LineHeight)
	}
	b.WriteString("}\n")

	fmt.Fprintf(&b, "%s {\n", strings.Join(t.DarkMode, ", "))
	for _, c := range t.Colors {
		fmt.Fprintf(&b, "  --%s: %s;\n", c.Name, c.Dark)
	}
	b.WriteString("}\n")
	return b.String()
}

func fontStack(fonts []string) string {
	out := make([]string, len(fonts))
	for i, f := range fonts {
		if strings.Contains(f, " ") {
			f = `"` + f + `"`
		}
		out[i] = f
	}
	return strings.Join(out, ", ")
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
