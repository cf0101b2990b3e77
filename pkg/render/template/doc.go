// Package template defines the renderer-agnostic template seam. Renderers
// depend on the TemplateRenderer interface rather than a concrete engine so
// deployments can swap template backends without touching render logic.
package template
