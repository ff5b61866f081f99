// Package template defines the template rendering seam used for record
// summaries, and holds the pongo2 backed adapter in gotemplate.
package template
