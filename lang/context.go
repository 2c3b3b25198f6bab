package lang

import (
	"iter"
	"maps"
	"slices"
)

// Context is an ordered mapping of variable names to values.
//
// Names keep the position of their first binding; rebinding an existing name
// replaces its value in place. A Context is not safe for concurrent use.
type Context struct {
	vals map[string]Value
	keys []string
}

// NewContext returns an empty Context.
func NewContext() *Context {
	return &Context{vals: map[string]Value{}}
}

// Len returns the number of bound names.
func (c *Context) Len() int { return len(c.keys) }

// Set binds name to v.
func (c *Context) Set(name string, v Value) {
	if c.vals == nil {
		c.vals = map[string]Value{}
	}

	if _, ok := c.vals[name]; !ok {
		c.keys = append(c.keys, name)
	}

	c.vals[name] = v
}

// Get returns the value bound to name.
func (c *Context) Get(name string) (Value, bool) {
	v, ok := c.vals[name]

	return v, ok
}

// Delete removes name from the context.
func (c *Context) Delete(name string) {
	if _, ok := c.vals[name]; !ok {
		return
	}

	delete(c.vals, name)
	c.keys = slices.DeleteFunc(c.keys, func(k string) bool { return k == name })
}

// Keys returns the bound names in declaration order.
func (c *Context) Keys() []string { return slices.Clone(c.keys) }

// All returns an iterator over the bindings in declaration order.
func (c *Context) All() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		for _, k := range c.keys {
			if !yield(k, c.vals[k]) {
				return
			}
		}
	}
}

// FirstSequence returns the first-declared sequence-valued binding.
func (c *Context) FirstSequence() (string, Value, bool) {
	for k, v := range c.All() {
		if v.IsSequence() {
			return k, v, true
		}
	}

	return "", Value{}, false
}

// Env returns the bindings as plain Go values for expression evaluation.
func (c *Context) Env() map[string]any {
	env := make(map[string]any, len(c.keys))

	for k, v := range c.vals {
		env[k] = v.Any()
	}

	return env
}

// Snapshot captures the current bindings.
type Snapshot struct {
	vals map[string]Value
	keys []string
}

// Snapshot returns a copy of the current bindings that [Context.Restore] can
// reinstate.
func (c *Context) Snapshot() Snapshot {
	return Snapshot{vals: maps.Clone(c.vals), keys: slices.Clone(c.keys)}
}

// Restore reinstates the bindings captured by s, discarding any changes made
// since. A Snapshot may be restored more than once.
func (c *Context) Restore(s Snapshot) {
	c.vals = maps.Clone(s.vals)
	c.keys = slices.Clone(s.keys)
}

// Clone returns an independent copy of c.
func (c *Context) Clone() *Context {
	s := c.Snapshot()

	return &Context{vals: s.vals, keys: s.keys}
}
