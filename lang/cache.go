package lang

import (
	"maps"
	"reflect"
	"slices"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/zeebo/xxh3"
)

// programCache stores compiled expression programs.
//
// A program is only valid for the binding types it was compiled against, so
// the key covers the expression source and the name and type of every
// context binding. The same block evaluated in two branches where a variable
// holds an int in one and a float in the other compiles twice.
type programCache struct {
	programs sync.Map // uint64 -> *vm.Program
}

func (pc *programCache) compile(
	source string,
	vars, env map[string]any,
) (*vm.Program, bool, error) {
	key := cacheKey(source, vars)

	if p, ok := pc.programs.Load(key); ok {
		return p.(*vm.Program), true, nil
	}

	program, err := expr.Compile(source, expr.Env(env))
	if err != nil {
		return nil, false, err
	}

	pc.programs.Store(key, program)

	return program, false, nil
}

// cacheKey hashes source together with the sorted names and dynamic types of
// vars.
func cacheKey(source string, vars map[string]any) uint64 {
	h := xxh3.New()

	_, _ = h.WriteString(source)

	for _, name := range slices.Sorted(maps.Keys(vars)) {
		_, _ = h.WriteString("\x00")
		_, _ = h.WriteString(name)
		_, _ = h.WriteString("\x00")
		_, _ = h.WriteString(typeName(vars[name]))
	}

	return h.Sum64()
}

func typeName(v any) string {
	if v == nil {
		return "nil"
	}

	return reflect.TypeOf(v).String()
}
