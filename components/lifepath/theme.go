package lifepath

import (
	"fmt"
	"sort"

	theme "github.com/goliatone/go-theme"
)

const defaultThemeName = "lifepath"

// themeContext is the resolved theme handed to the page template.
type themeContext struct {
	Name    string            `json:"name"`
	Variant string            `json:"variant"`
	Tokens  map[string]string `json:"tokens"`
	CSSVars map[string]string `json:"css_vars"`
	Style   string            `json:"style"`
}

func defaultManifest() *theme.Manifest {
	return &theme.Manifest{
		Name:    defaultThemeName,
		Version: "1.0.0",
		Tokens: map[string]string{
			"brand":      "#4f46e5",
			"background": "#f8fafc",
			"surface":    "#ffffff",
			"text":       "#111827",
			"muted":      "#6b7280",
			"border":     "#e5e7eb",
		},
		Variants: map[string]theme.Variant{
			"dark": {
				Tokens: map[string]string{
					"background": "#0f172a",
					"surface":    "#1e293b",
					"text":       "#f1f5f9",
					"muted":      "#94a3b8",
					"border":     "#334155",
				},
			},
		},
	}
}

// newThemeSelector registers the built-in manifest plus extras in a memory
// registry. Unknown theme names fall back to the built-in theme.
func newThemeSelector(manifests ...*theme.Manifest) (theme.ThemeSelector, error) {
	registry := theme.NewRegistry()
	if err := registry.Register(defaultManifest()); err != nil {
		return nil, fmt.Errorf("lifepath component: register built-in theme: %w", err)
	}
	for _, manifest := range manifests {
		if manifest == nil {
			continue
		}
		if err := registry.Register(manifest); err != nil {
			return nil, fmt.Errorf("lifepath component: register theme %q: %w", manifest.Name, err)
		}
	}
	return theme.Selector{Registry: registry, DefaultTheme: defaultThemeName}, nil
}

// resolveTheme selects name/variant and flattens the selection into CSS
// custom properties. A nil selector uses the built-in registry.
func resolveTheme(selector theme.ThemeSelector, name, variant string) (themeContext, error) {
	if selector == nil {
		var err error
		if selector, err = newThemeSelector(); err != nil {
			return themeContext{}, err
		}
	}
	selection, err := selector.Select(name, variant)
	if err != nil {
		return themeContext{}, err
	}
	if selection == nil || selection.Manifest == nil {
		return themeContext{}, fmt.Errorf("lifepath component: theme %q has no manifest", name)
	}
	ctx := buildThemeContext(selection.RendererTheme(nil))
	// Selector keeps the requested name when it falls back to the default.
	if selection.Manifest.Name != "" {
		ctx.Name = selection.Manifest.Name
	}
	return ctx, nil
}

func buildThemeContext(cfg theme.RendererConfig) themeContext {
	return themeContext{
		Name:    cfg.Theme,
		Variant: cfg.Variant,
		Tokens:  cfg.Tokens,
		CSSVars: cfg.CSSVars,
		Style:   cssVarsStyle(cfg.CSSVars),
	}
}

func cssVarsStyle(vars map[string]string) string {
	if len(vars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(vars))
	for key := range vars {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b []byte
	for i, key := range keys {
		if i > 0 {
			b = append(b, ' ')
		}
		b = append(b, key...)
		b = append(b, ": "...)
		b = append(b, vars[key]...)
		b = append(b, ';')
	}
	return string(b)
}
