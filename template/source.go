package template

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/ardnew/preconfig/lang"
)

// Block delimiters. A block opens with two consecutive Open bytes and closes
// with two consecutive Close bytes at the bracket depth where it opened.
const (
	Open  = '['
	Close = ']'
)

// Malformed template diagnostics.
var (
	ErrUnbalanced   = lang.NewError("unbalanced brackets")
	ErrUnterminated = lang.NewError("end of input within block")
)

// Source is an immutable template text.
//
// Every branch of an expansion reads the same Source through its own
// [Cursor], so no branch can disturb another's read position.
type Source struct {
	name string
	text string
}

// NewSource returns a Source named name holding text.
func NewSource(name, text string) Source {
	return Source{name: name, text: text}
}

// Name returns the template name used in diagnostics.
func (s Source) Name() string { return s.name }

// Text returns the full template text.
func (s Source) Text() string { return s.text }

// Len returns the length of the template text in bytes.
func (s Source) Len() int { return len(s.text) }

// Line returns the 1-based line number of the byte at offset.
func (s Source) Line(offset int) int {
	offset = min(max(offset, 0), len(s.text))

	return strings.Count(s.text[:offset], "\n") + 1
}

// Cursor is a read position together with the bracket depth of the literal
// text before it. Cursors are plain values: saving one is copying it.
type Cursor struct {
	Pos   int
	Depth int
}

// Chunk is the result of one [Source.Scan].
type Chunk struct {
	// Literal is the text before the block, or the rest of the input at EOF.
	Literal string
	// Block is the block text including its delimiters. It is empty at EOF.
	Block string
	// Offset is the position of the block's first delimiter.
	Offset int
	// Next is where scanning resumes after the block.
	Next Cursor
	// EOF reports that the input was exhausted before a complete block.
	EOF bool
}

// Code returns the content of the block without its delimiters.
func (c Chunk) Code() string {
	if len(c.Block) < 4 {
		return ""
	}

	return c.Block[2 : len(c.Block)-2]
}

// Scan returns the literal text and block following cur.
//
// Malformed input is reported through the returned error but never stops the
// scan: a stray Close is ignored for depth tracking, and a block left open at
// the end of input is returned as literal text so partial output survives.
// Every returned error wraps [ErrUnbalanced] or [ErrUnterminated].
func (s Source) Scan(cur Cursor) (Chunk, error) {
	var errs []error

	text := s.text
	depth := cur.Depth
	start, base := -1, 0

	for i := cur.Pos; i < len(text); i++ {
		switch text[i] {
		case Open:
			depth++

			if start < 0 && i > cur.Pos && text[i-1] == Open {
				start, base = i-1, depth-2
			}

		case Close:
			depth--

			if depth < 0 {
				errs = append(errs, ErrUnbalanced.With(
					slog.Int("offset", i), slog.Int("line", s.Line(i)),
				))
				depth = 0
			}

			if start >= 0 && depth <= base && text[i-1] == Close {
				return Chunk{
					Literal: text[cur.Pos:start],
					Block:   text[start : i+1],
					Offset:  start,
					Next:    Cursor{Pos: i + 1, Depth: depth},
				}, errors.Join(errs...)
			}
		}
	}

	switch {
	case start >= 0:
		errs = append(errs, ErrUnterminated.With(
			slog.Int("offset", start), slog.Int("line", s.Line(start)),
		))
	case depth > 0:
		errs = append(errs, ErrUnbalanced.With(
			slog.Int("offset", len(text)), slog.Int("depth", depth),
		))
	}

	return Chunk{
		Literal: text[cur.Pos:],
		Offset:  len(text),
		Next:    Cursor{Pos: len(text), Depth: depth},
		EOF:     true,
	}, errors.Join(errs...)
}
