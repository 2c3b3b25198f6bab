package emit

import (
	"path/filepath"
	"strconv"
	"strings"
)

// DefaultWidth is the default number of digits in a file index.
const DefaultWidth = 4

// Motif builds output file names from a template name.
//
// The template's last extension is dropped when it has two, and the
// zero-padded index is inserted before the remaining one:
//
//	config.cym.tpl -> config0000.cym
//	model.xml      -> model0000.xml
type Motif struct {
	Dir   string
	Base  string
	Ext   string
	Width int
}

// NewMotif derives the Motif of template, writing into dir.
// A width below 1 is raised to 1.
func NewMotif(template, dir string, width int) Motif {
	base := filepath.Base(template)
	ext := extension(base)
	base = strings.TrimSuffix(base, ext)

	if inner := extension(base); inner != "" {
		base = strings.TrimSuffix(base, inner)
		ext = inner
	}

	return Motif{Dir: dir, Base: base, Ext: ext, Width: max(width, 1)}
}

// extension returns the extension of name, ignoring leading dots so that
// hidden file names are not treated as extensions.
func extension(name string) string {
	trimmed := strings.TrimLeft(name, ".")

	return filepath.Ext(trimmed)
}

// Name returns the file name for index i.
func (m Motif) Name(i int) string {
	digits := strconv.Itoa(i)
	if i >= 0 && len(digits) < m.Width {
		digits = strings.Repeat("0", m.Width-len(digits)) + digits
	}

	return filepath.Join(m.Dir, m.Base+digits+m.Ext)
}
