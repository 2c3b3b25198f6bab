package template

import "iter"

// Snippet is the content of one block.
type Snippet struct {
	Code   string
	Offset int
	Line   int
}

// Snippets returns an iterator over the non-empty blocks of src in order,
// paired with any scan error found before each one. A final malformed
// region yields a zero Snippet with its error.
func (s Source) Snippets() iter.Seq2[Snippet, error] {
	return func(yield func(Snippet, error) bool) {
		var cur Cursor

		for {
			chunk, err := s.Scan(cur)
			if chunk.EOF {
				if err != nil {
					yield(Snippet{}, err)
				}

				return
			}

			cur = chunk.Next

			if chunk.Code() == "" && err == nil {
				continue
			}

			sn := Snippet{
				Code:   chunk.Code(),
				Offset: chunk.Offset,
				Line:   s.Line(chunk.Offset),
			}

			if !yield(sn, err) {
				return
			}
		}
	}
}
