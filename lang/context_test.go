package lang

import (
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestContext_OrderAndRebind(t *testing.T) {
	c := NewContext()
	c.Set("b", Scalar(1))
	c.Set("a", Scalar(2))
	c.Set("b", Scalar(3))

	if got := c.Keys(); !slices.Equal(got, []string{"b", "a"}) {
		t.Errorf("Keys() = %v, want [b a]", got)
	}

	if v, _ := c.Get("b"); v.Any() != 3 {
		t.Errorf("Get(b) = %v, want 3", v)
	}

	c.Delete("b")
	c.Delete("missing")

	if got := c.Keys(); !slices.Equal(got, []string{"a"}) || c.Len() != 1 {
		t.Errorf("after Delete, Keys() = %v", got)
	}
}

func TestContext_ZeroValueUsable(t *testing.T) {
	var c Context

	c.Set("x", Scalar(1))

	if _, ok := c.Get("x"); !ok {
		t.Error("zero Context did not store binding")
	}
}

func TestContext_SnapshotRestore(t *testing.T) {
	c := NewContext()
	c.Set("x", Scalar(1))

	s := c.Snapshot()

	c.Set("x", Scalar(2))
	c.Set("y", Scalar(3))
	c.Restore(s)

	if diff := cmp.Diff(map[string]any{"x": 1}, c.Env()); diff != "" {
		t.Errorf("after first Restore (-want +got):\n%s", diff)
	}

	c.Set("z", Scalar(4))
	c.Restore(s)

	if got := c.Keys(); !slices.Equal(got, []string{"x"}) {
		t.Errorf("after second Restore, Keys() = %v", got)
	}
}

func TestContext_FirstSequence(t *testing.T) {
	c := NewContext()
	c.Set("s", Scalar("text"))

	if _, _, ok := c.FirstSequence(); ok {
		t.Fatal("FirstSequence found a sequence in scalar context")
	}

	c.Set("b", Values(1, 2))
	c.Set("a", Values(3, 4))

	name, v, ok := c.FirstSequence()
	if !ok || name != "b" || v.Len() != 2 {
		t.Errorf("FirstSequence() = (%q, %v, %v), want b", name, v, ok)
	}
}

func TestContext_EnvAndClone(t *testing.T) {
	c := NewContext()
	c.Set("n", Scalar(0))
	c.Set("rate", Values(1, 10))

	d := c.Clone()
	d.Set("n", Scalar(5))

	want := map[string]any{"n": 0, "rate": []any{1, 10}}
	if diff := cmp.Diff(want, c.Env()); diff != "" {
		t.Errorf("Env() mismatch (-want +got):\n%s", diff)
	}

	var all []string
	for k, v := range d.All() {
		all = append(all, k+"="+v.String())
	}

	if !slices.Equal(all, []string{"n=5", "rate=[1, 10]"}) {
		t.Errorf("All() = %v", all)
	}
}
