package template

// TemplateRenderer renders a named template with the given variables.
type TemplateRenderer interface {
	RenderTemplate(name string, vars map[string]any) (string, error)
}

// TemplateLookup is implemented by renderers that can report whether a named
// template exists without rendering it.
type TemplateLookup interface {
	HasTemplate(name string) bool
}
