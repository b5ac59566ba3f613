// Package template defines the template engine seam the HTML renderer
// programs against. The gotemplate subpackage provides the pongo2 engine.
package template
