package cli

import (
	"strings"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/google/go-cmp/cmp"
)

type testCLI struct {
	Level string   `default:"info"`
	Tags  []string `name:"tag-list"`

	Gen struct {
		Width int    `default:"4"`
		Mode  string `default:"csv" name:"audit-format"`
	} `cmd:"" default:"1"`
}

func parseWithConfig(t *testing.T, config string, args ...string) testCLI {
	t.Helper()

	var cli testCLI

	loader := resolve(t.Context())

	resolver, err := loader(strings.NewReader(config))
	if err != nil {
		t.Fatal(err)
	}

	parser, err := kong.New(&cli, kong.Resolvers(resolver))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := parser.Parse(args); err != nil {
		t.Fatal(err)
	}

	return cli
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name   string
		config string
		args   []string
		want   testCLI
	}{
		{
			name:   "defaults",
			config: "",
		},
		{
			name:   "global_and_section",
			config: "level: debug\ntag_list: [a, b]\ngen:\n  width: 6\n  audit_format: yaml\n",
		},
		{
			name:   "top_level_command_flag",
			config: "width: 8\n",
		},
		{
			name:   "section_over_top_level",
			config: "width: 8\ngen:\n  width: 2\n",
		},
		{
			name:   "flags_override",
			config: "level: debug\ngen:\n  width: 6\n",
			args:   []string{"--level=warn", "gen", "--width=3"},
		},
		{
			name:   "invalid_yaml_ignored",
			config: "level: [unterminated\n",
		},
	}

	want := map[string]func(*testCLI){
		"defaults": func(*testCLI) {},
		"global_and_section": func(c *testCLI) {
			c.Level, c.Tags = "debug", []string{"a", "b"}
			c.Gen.Width, c.Gen.Mode = 6, "yaml"
		},
		"top_level_command_flag": func(c *testCLI) { c.Gen.Width = 8 },
		"section_over_top_level": func(c *testCLI) { c.Gen.Width = 2 },
		"flags_override": func(c *testCLI) {
			c.Level, c.Gen.Width = "warn", 3
		},
		"invalid_yaml_ignored": func(*testCLI) {},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expect := testCLI{Level: "info"}
			expect.Gen.Width, expect.Gen.Mode = 4, "csv"
			want[tt.name](&expect)

			got := parseWithConfig(t, tt.config, tt.args...)
			if diff := cmp.Diff(expect, got); diff != "" {
				t.Errorf("parsed flags mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFlagText(t *testing.T) {
	tests := []struct {
		in   any
		want any
	}{
		{uint64(3), "3"},
		{int64(-2), "-2"},
		{1.5, "1.5"},
		{true, true},
		{"x", "x"},
		{[]any{uint64(1), "b"}, "1,b"},
	}

	for _, tt := range tests {
		if got := flagText(tt.in); got != tt.want {
			t.Errorf("flagText(%#v) = %#v, want %#v", tt.in, got, tt.want)
		}
	}
}
