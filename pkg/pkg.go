//nolint:gochecknoglobals
package pkg

import (
	_ "embed"
	"strings"
)

// Version is the semantic version of the preconfig module embedded at build
// time.
//
//go:embed VERSION
var version string

// Version returns the embedded semantic version without surrounding space.
func Version() string { return strings.TrimSpace(version) }

const (
	// Name is the canonical command identifier. It appears in help text,
	// default config paths, and the default output file motif.
	Name = "preconfig"
	// Description is a short summary of the project used in help output.
	Description = "Generate configuration files from a template " +
		"by expanding every combination of embedded values"
)

// AuthorInfo represents an individual author's name and email address.
type AuthorInfo struct {
	Name  string
	Email string
}

// Author lists the primary author(s) of the project for display in metadata.
var Author = []AuthorInfo{
	{"ardnew", "andrew@ardnew.com"},
}
