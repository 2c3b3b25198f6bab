// Package template expands preconfig templates.
//
// A template is plain text with embedded blocks delimited by "[[" and "]]".
// A block holds either an assignment, "name = expression", which binds a
// variable and produces no text, or a bare expression whose value replaces
// the block. Single brackets inside a block are tracked by depth, so
// "[[ [1, 10, 100] ]]" is one block holding a list.
//
// When a block evaluates to a sequence, expansion forks: every value gets a
// branch that replays the rest of the template, and every completed branch
// becomes one file. Branches are emitted in lexicographic order of the
// values, earlier blocks varying slowest:
//
//	rate=[[ [1, 10, 100] ]]
//	speed=[[ [-1, 0, 1] ]]
//
// yields nine files, from rate=1 speed=-1 to rate=100 speed=1.
//
// The implicit variable n holds the index of the file being built.
package template
