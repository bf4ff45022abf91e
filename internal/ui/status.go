// Package ui holds presentation helpers shared by the GUI and the CLI.
package ui

import (
	"strings"

	"torus-life/internal/core"
)

// StatusLine renders every parameter of a snapshot as "Label: value" pairs.
func StatusLine(s core.ParameterSnapshot) string {
	var parts []string
	for _, g := range s.Groups {
		for _, p := range g.Params {
			parts = append(parts, p.Label+": "+p.Value)
		}
	}
	return strings.Join(parts, "  ")
}
