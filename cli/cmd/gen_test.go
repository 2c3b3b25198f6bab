package cmd

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ardnew/preconfig/gen"
)

// writeFile creates name in the working directory with the given text.
func writeFile(t *testing.T, name, text string) {
	t.Helper()

	if err := os.WriteFile(name, []byte(text), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestClassify(t *testing.T) {
	t.Chdir(t.TempDir())

	writeFile(t, "conf.txt.tpl", "")

	if err := os.Mkdir("out", 0o700); err != nil {
		t.Fatal(err)
	}

	paths, defines, dir, err := classify([]string{"rate=[1, 2]", "conf.txt.tpl", "out", "mode = 'x'"})
	if err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff([]string{"conf.txt.tpl"}, paths); diff != "" {
		t.Errorf("paths mismatch (-want +got):\n%s", diff)
	}

	if diff := cmp.Diff([]string{"rate=[1, 2]", "mode = 'x'"}, defines); diff != "" {
		t.Errorf("definitions mismatch (-want +got):\n%s", diff)
	}

	if dir != "out" {
		t.Errorf("dir = %q, want %q", dir, "out")
	}

	for _, arg := range []string{"missing.tpl", "1x=2", "x=="} {
		if _, _, _, err := classify([]string{arg}); !errors.Is(err, ErrUnexpectedArgument) {
			t.Errorf("classify(%q) error = %v, want ErrUnexpectedArgument", arg, err)
		}
	}
}

func TestGen_Run(t *testing.T) {
	t.Chdir(t.TempDir())

	writeFile(t, "conf.txt.tpl", "r=[[ rate ]] m=[[ mode ]] s=[[ scale ]]")
	writeFile(t, "defs.yaml", "mode: slow\nscale: 3\n")

	var stdout bytes.Buffer

	g := &Gen{
		Args:        []string{"conf.txt.tpl", "rate=[1, 2]", "mode='fast'"},
		Define:      []string{"scale=scale * 2"},
		Defs:        "defs.yaml",
		Audit:       "audit.csv",
		AuditFormat: "csv",
		Repeat:      1,
		Width:       2,
		Start:       5,
		Seed:        -1,
		Stdout:      &stdout,
	}

	if err := g.Run(t.Context()); err != nil {
		t.Fatal(err)
	}

	if got, want := stdout.String(), "conf05.txt\nconf06.txt\n"; got != want {
		t.Errorf("stdout = %q, want %q", got, want)
	}

	for name, want := range map[string]string{
		"conf05.txt": "r=1 m=fast s=6",
		"conf06.txt": "r=2 m=fast s=6",
	} {
		got, err := os.ReadFile(name)
		if err != nil {
			t.Fatal(err)
		}

		if string(got) != want {
			t.Errorf("%s = %q, want %q", name, got, want)
		}
	}

	audit, err := os.ReadFile("audit.csv")
	if err != nil {
		t.Fatal(err)
	}

	if !strings.HasPrefix(string(audit), "file,mode,n,rate,scale\nconf05.txt,fast,5,1,6\n") {
		t.Errorf("audit = %q", audit)
	}
}

func TestGen_RunQuietIntoDir(t *testing.T) {
	t.Chdir(t.TempDir())

	writeFile(t, "a.tpl", "[[ [1, 2, 3] ]]")

	if err := os.Mkdir("out", 0o700); err != nil {
		t.Fatal(err)
	}

	var stdout bytes.Buffer

	g := &Gen{Args: []string{"a.tpl", "out"}, Repeat: 1, Width: 1, Quiet: true, Seed: -1, Stdout: &stdout}
	if err := g.Run(t.Context()); err != nil {
		t.Fatal(err)
	}

	if stdout.Len() != 0 {
		t.Errorf("quiet run wrote %q", stdout.String())
	}

	got, err := filepath.Glob(filepath.Join("out", "*"))
	if err != nil {
		t.Fatal(err)
	}

	want := []string{filepath.Join("out", "a0.tpl"), filepath.Join("out", "a1.tpl"), filepath.Join("out", "a2.tpl")}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("files mismatch (-want +got):\n%s", diff)
	}
}

func TestGen_RunErrors(t *testing.T) {
	t.Chdir(t.TempDir())

	writeFile(t, "a.tpl", "x")
	writeFile(t, "bad.yaml", "1x: 2\n")

	tests := []struct {
		name string
		gen  Gen
		want error
	}{
		{"no template", Gen{Args: []string{"x=1"}, Repeat: 1}, ErrNoTemplate},
		{"unexpected argument", Gen{Args: []string{"a.tpl", "nosuch"}, Repeat: 1}, ErrUnexpectedArgument},
		{"bad define", Gen{Args: []string{"a.tpl"}, Define: []string{"novalue"}, Repeat: 1}, ErrUnexpectedArgument},
		{"bad definitions file", Gen{Args: []string{"a.tpl"}, Defs: "bad.yaml", Repeat: 1}, gen.ErrDefinition},
		{"repeat", Gen{Args: []string{"a.tpl"}, Repeat: 0}, gen.ErrRepeat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.gen.Quiet = true
			if err := tt.gen.Run(t.Context()); !errors.Is(err, tt.want) {
				t.Errorf("Run() error = %v, want %v", err, tt.want)
			}
		})
	}
}
