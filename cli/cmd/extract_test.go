package cmd

import (
	"bytes"
	"testing"

	"github.com/ardnew/preconfig/template"
)

func TestWriteSnippets(t *testing.T) {
	src := template.NewSource("c.tpl", "a=[[ x = [1, 2] ]]\n\nb=[[x*2]] [[ ]]\nc=[[ len([1, 2]) ]]\n")

	var buf bytes.Buffer

	writeSnippets(t.Context(), &buf, src)

	want := "" +
		" line    1 : x = [1, 2]\n" +
		" line    3 : x*2\n" +
		" line    4 : len([1, 2])\n"

	if got := buf.String(); got != want {
		t.Errorf("writeSnippets() =\n%s\nwant\n%s", got, want)
	}
}

func TestExtract_Run(t *testing.T) {
	t.Chdir(t.TempDir())

	writeFile(t, "a.tpl", "[[ 1 ]]")
	writeFile(t, "b.tpl", "\n[[ 2 ]]")

	var buf bytes.Buffer

	e := &Extract{Files: []string{"a.tpl", "b.tpl"}, Stdout: &buf}
	if err := e.Run(t.Context()); err != nil {
		t.Fatal(err)
	}

	want := "a.tpl:\n line    1 : 1\nb.tpl:\n line    2 : 2\n"
	if got := buf.String(); got != want {
		t.Errorf("Run() output = %q, want %q", got, want)
	}
}
