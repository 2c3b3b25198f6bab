package repl

import (
	"slices"
	"testing"

	"github.com/ardnew/preconfig/lang"
)

func TestWordBounds(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		cursor    int
		wantWord  string
		wantStart int
		wantEnd   int
	}{
		{"simple", "rate", 4, "rate", 0, 4},
		{"member", "math.sq", 7, "sq", 5, 7},
		{"after_plus", "a + ra", 6, "ra", 4, 6},
		{"after_minus", "a-ra", 4, "ra", 2, 4},
		{"after_paren", "math.sqrt(ra", 12, "ra", 10, 12},
		{"after_comma", "range(1, st", 11, "st", 9, 11},
		{"in_list", "[1, ra", 6, "ra", 4, 6},
		{"in_ternary", "x ? ra", 6, "ra", 4, 6},
		{"assignment", "x = ra", 6, "ra", 4, 6},
		{"empty_at_boundary", "a + ", 4, "", 4, 4},
		{"mid_word", "linspace", 3, "linspace", 0, 8},
		{"at_start", "rate", 0, "rate", 0, 4},
		{"empty_after_dot", "random.", 7, "", 7, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			word, start, end := wordBounds(tt.input, tt.cursor)
			if word != tt.wantWord || start != tt.wantStart || end != tt.wantEnd {
				t.Errorf("wordBounds(%q, %d) = (%q, %d, %d), want (%q, %d, %d)",
					tt.input, tt.cursor, word, start, end,
					tt.wantWord, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func TestParentPath(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wordStart int
		want      string
	}{
		{"top_level", "ra", 0, ""},
		{"member", "math.", 5, "math"},
		{"after_operator", "1 + math.", 9, "math"},
		{"after_paren", "(random.", 8, "random"},
		{"no_chain", "a + ", 4, ""},
		{"after_equals", "x = mung.", 9, "mung"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parentPath(tt.input, tt.wordStart); got != tt.want {
				t.Errorf("parentPath(%q, %d) = %q, want %q",
					tt.input, tt.wordStart, got, tt.want)
			}
		})
	}
}

func TestCandidates(t *testing.T) {
	vars := lang.NewContext()
	vars.Set("rate", lang.Values(1, 10))

	top := candidates(vars, "")

	for _, want := range []string{"rate", "math", "random", "range", "len"} {
		if !slices.Contains(top, want) {
			t.Errorf("top-level candidates missing %q", want)
		}
	}

	if !slices.IsSorted(top) {
		t.Error("top-level candidates are not sorted")
	}

	if got := candidates(vars, "random"); !slices.Contains(got, "uniform") {
		t.Errorf("random members = %v, want uniform", got)
	}

	if got := candidates(vars, "rate"); len(got) != 0 {
		t.Errorf("members of a binding = %v, want none", got)
	}
}

func TestIsFunction(t *testing.T) {
	for name, want := range map[string]bool{
		"len":            true,
		"linspace":       true,
		"random.uniform": true,
		"math":           false,
		"rate":           false,
	} {
		if got := isFunction(name); got != want {
			t.Errorf("isFunction(%q) = %v, want %v", name, got, want)
		}
	}
}
