package repl

import (
	"maps"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/expr-lang/expr/builtin"
	"github.com/sahilm/fuzzy"

	"github.com/ardnew/preconfig/lang"
)

// ctrlCommands are the commands accepted in control mode.
var ctrlCommands = []string{"help", "list", "reset", "clear", "quit"} //nolint:gochecknoglobals

// isWordBoundary reports whether r separates words for completion: space,
// member access, and the operators and punctuation of the expression
// language.
func isWordBoundary(r rune) bool {
	switch r {
	case '.', ' ', '\t',
		'(', ')', '[', ']', '{', '}',
		'+', '-', '*', '/', '%', '^',
		'<', '>', '=', '!',
		'&', '|', ',', '?', ':', ';', '"', '\'':
		return true
	}

	return false
}

// wordBounds returns the word around cursor and its byte offsets in input.
// The word is empty when the cursor sits on a boundary.
func wordBounds(input string, cursor int) (word string, start, end int) {
	cursor = min(cursor, len(input))

	start = cursor
	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if isWordBoundary(r) {
			break
		}

		start -= size
	}

	end = cursor
	for end < len(input) {
		r, size := utf8.DecodeRuneInString(input[end:])
		if isWordBoundary(r) {
			break
		}

		end += size
	}

	return input[start:end], start, end
}

// parentPath returns the member-access chain leading up to the word starting
// at wordStart: "math" for "1 + math.sq". It is empty for a top-level word.
func parentPath(input string, wordStart int) string {
	prefix := input[:wordStart]
	if !strings.HasSuffix(prefix, ".") {
		return ""
	}

	prefix = strings.TrimRight(prefix, ".")

	pos := len(prefix)
	for pos > 0 {
		r, size := utf8.DecodeLastRuneInString(prefix[:pos])
		if r != '.' && isWordBoundary(r) {
			break
		}

		pos -= size
	}

	return prefix[pos:]
}

// candidates returns the names that complete a word under parent: bindings,
// built-ins, and expression language functions at the top level, or the
// members of a built-in namespace.
func candidates(vars *lang.Context, parent string) []string {
	if parent != "" {
		return lang.BuiltinLookup(parent)
	}

	names := vars.Keys()
	names = append(names, lang.BuiltinKeys()...)
	names = append(names, slices.Collect(maps.Keys(builtin.Index))...)

	slices.Sort(names)

	return slices.Compact(names)
}

// computeMatches ranks the candidates for the word at the cursor. An empty
// word offers every member after a dot and nothing at the top level.
func (m model) computeMatches() (matches fuzzy.Matches, wordStart, wordEnd int) {
	input := m.input.Value()

	word, ws, we := wordBounds(input, m.input.Position())

	var names []string

	switch m.mode {
	case modeCtrl:
		if word == "" {
			return nil, ws, we
		}

		names = ctrlCommands

	default:
		parent := parentPath(input, ws)
		names = candidates(m.vars, parent)

		if word == "" {
			if parent == "" {
				return nil, ws, we
			}

			matches = make(fuzzy.Matches, len(names))
			for i, name := range names {
				matches[i] = fuzzy.Match{Str: name, Index: i}
			}

			return matches, ws, we
		}
	}

	return fuzzy.Find(word, names), ws, we
}

// renderCandidateBar renders matches on one line no wider than width.
func renderCandidateBar(matches fuzzy.Matches, selected int, tabbing bool, width int) string {
	if len(matches) == 0 || width <= 0 {
		return ""
	}

	const sep = "  "

	ellipsis := hintStyle.Render("...")
	room := width - lipgloss.Width(ellipsis)

	var b strings.Builder

	used := 0

	for i, match := range matches {
		rendered := renderCandidate(match, tabbing && i == selected)

		w := lipgloss.Width(rendered)
		if i > 0 {
			w += len(sep)
		}

		if i > 0 && used+w > room {
			b.WriteString(sep + ellipsis)

			break
		}

		if i > 0 {
			b.WriteString(sep)
		}

		b.WriteString(rendered)

		used += w
	}

	return b.String()
}

// renderCandidate highlights the matched characters of one candidate.
// Functions get a "()" suffix.
func renderCandidate(match fuzzy.Match, selected bool) string {
	base, highlight := suggestionStyle, suggestionStyle.Bold(true)
	if selected {
		base, highlight = selectedStyle, selectedStyle.Bold(true)
	}

	matched := make(map[int]bool, len(match.MatchedIndexes))
	for _, i := range match.MatchedIndexes {
		matched[i] = true
	}

	var b strings.Builder

	for i, r := range match.Str {
		if matched[i] {
			b.WriteString(highlight.Render(string(r)))
		} else {
			b.WriteString(base.Render(string(r)))
		}
	}

	if isFunction(match.Str) {
		b.WriteString(base.Render("()"))
	}

	return b.String()
}

// isFunction reports whether name is a function of the expression language
// or a top-level built-in function.
func isFunction(name string) bool {
	if _, ok := builtin.Index[name]; ok {
		return true
	}

	_, ok := signatures[name]

	return ok
}
