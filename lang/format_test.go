package lang

import (
	"math"
	"testing"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"nil", nil, ""},
		{"int", 42, "42"},
		{"negative", -7, "-7"},
		{"int8", int8(3), "3"},
		{"uint", uint(7), "7"},
		{"integral float", 5.0, "5.0"},
		{"large integral float", 1e15, "1000000000000000.0"},
		{"exponent threshold", 1e16, "1e+16"},
		{"negative exponent", -2.5e17, "-2.5e+17"},
		{"fraction", 0.125, "0.125"},
		{"negative fraction", -0.5, "-0.5"},
		{"small", 1e-5, "1e-05"},
		{"threshold", 1e-4, "0.0001"},
		{"huge", 1e21, "1e+21"},
		{"float32", float32(0.25), "0.25"},
		{"inf", math.Inf(1), "inf"},
		{"negative inf", math.Inf(-1), "-inf"},
		{"true", true, "true"},
		{"string", "verbatim text", "verbatim text"},
		{"list", []any{1, "a", 2.5}, "[1, a, 2.5]"},
		{"nil slice", []int(nil), "[]"},
		{"map", map[string]any{"b": 1, "a": []int{2}}, "{a: [2], b: 1}"},
		{"pointer", new(int), "0"},
		{"value", Values("x", "y"), "[x, y]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Format(tt.in); got != tt.want {
				t.Errorf("Format(%#v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
