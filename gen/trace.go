package gen

import (
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/ardnew/preconfig/lang"
)

// Printer writes an indented tree of the bindings made while expanding a
// template. Each fork indents the lines beneath it.
//
//	rate <-- 1
//	  [[ speed ]] --> -1
//	=> config0000.cym
type Printer struct {
	w     io.Writer
	name  lipgloss.Style
	code  lipgloss.Style
	value lipgloss.Style
	arrow lipgloss.Style
	file  lipgloss.Style
	mu    sync.Mutex
}

// NewPrinter returns a Printer writing to w. With color set, lines are
// styled for the color profile of w; otherwise they are plain text.
func NewPrinter(w io.Writer, color bool) *Printer {
	p := &Printer{w: w}
	if !color {
		return p
	}

	r := lipgloss.NewRenderer(w)

	p.name = r.NewStyle().Foreground(lipgloss.Color("6")).Bold(true)
	p.code = r.NewStyle().Foreground(lipgloss.Color("5"))
	p.value = r.NewStyle().Foreground(lipgloss.Color("2"))
	p.arrow = r.NewStyle().Foreground(lipgloss.Color("8"))
	p.file = r.NewStyle().Foreground(lipgloss.Color("15")).Bold(true)

	return p
}

// Assign implements [template.Tracer].
func (p *Printer) Assign(depth int, name string, v lang.Value) {
	p.line(depth,
		p.name.Render(name), p.arrow.Render("<--"), p.value.Render(v.String()))
}

// Substitute implements [template.Tracer].
func (p *Printer) Substitute(depth int, code string, v lang.Value) {
	p.line(depth,
		p.code.Render("[[ "+strings.TrimSpace(code)+" ]]"),
		p.arrow.Render("-->"),
		p.value.Render(v.String()),
	)
}

// Emitted prints the name of a written file.
func (p *Printer) Emitted(name string) {
	p.line(0, p.arrow.Render("=>"), p.file.Render(name))
}

func (p *Printer) line(depth int, parts ...string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	_, _ = io.WriteString(p.w,
		strings.Repeat("  ", depth)+strings.Join(parts, " ")+"\n")
}
