package lang

import (
	"cmp"
	"fmt"
	"math"
	"reflect"
	"slices"
	"strconv"
	"strings"
)

// Format returns the textual form of an evaluated value.
//
// Integers are written in base 10. Floats use the shortest representation
// that round-trips, switching to exponent notation outside [1e-4, 1e16), and
// integral floats keep a trailing ".0". Slices are written as "[a, b]" and
// maps as "{k: v}" with sorted keys. Nil is written as empty text.
func Format(v any) string {
	var sb strings.Builder

	format(&sb, v)

	return sb.String()
}

func format(sb *strings.Builder, v any) {
	switch val := v.(type) {
	case nil:
	case string:
		sb.WriteString(val)
	case []byte:
		sb.Write(val)
	case bool:
		sb.WriteString(strconv.FormatBool(val))
	case int:
		sb.WriteString(strconv.Itoa(val))
	case int64:
		sb.WriteString(strconv.FormatInt(val, 10))
	case float64:
		sb.WriteString(formatFloat(val, 64))
	case float32:
		sb.WriteString(formatFloat(float64(val), 32))
	case Value:
		sb.WriteString(val.String())
	case fmt.Stringer:
		sb.WriteString(val.String())
	default:
		formatReflect(sb, reflect.ValueOf(v))
	}
}

func formatReflect(sb *strings.Builder, rv reflect.Value) {
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		sb.WriteString(strconv.FormatInt(rv.Int(), 10))

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32,
		reflect.Uint64, reflect.Uintptr:
		sb.WriteString(strconv.FormatUint(rv.Uint(), 10))

	case reflect.Float32, reflect.Float64:
		sb.WriteString(formatFloat(rv.Float(), rv.Type().Bits()))

	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			sb.WriteString("[]")

			return
		}

		sb.WriteByte('[')

		for i := range rv.Len() {
			if i > 0 {
				sb.WriteString(", ")
			}

			format(sb, rv.Index(i).Interface())
		}

		sb.WriteByte(']')

	case reflect.Map:
		type entry struct{ key, val string }

		entries := make([]entry, 0, rv.Len())

		iter := rv.MapRange()
		for iter.Next() {
			entries = append(entries, entry{
				key: Format(iter.Key().Interface()),
				val: Format(iter.Value().Interface()),
			})
		}

		slices.SortFunc(entries, func(a, b entry) int {
			return cmp.Compare(a.key, b.key)
		})

		sb.WriteByte('{')

		for i, e := range entries {
			if i > 0 {
				sb.WriteString(", ")
			}

			sb.WriteString(e.key)
			sb.WriteString(": ")
			sb.WriteString(e.val)
		}

		sb.WriteByte('}')

	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return
		}

		format(sb, rv.Elem().Interface())

	default:
		fmt.Fprint(sb, rv.Interface())
	}
}

func formatFloat(f float64, bits int) string {
	switch {
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	case math.IsNaN(f):
		return "nan"
	}

	abs := math.Abs(f)
	if abs != 0 && (abs < 1e-4 || abs >= 1e16) {
		return strconv.FormatFloat(f, 'e', -1, bits)
	}

	s := strconv.FormatFloat(f, 'f', -1, bits)
	if !strings.ContainsRune(s, '.') {
		s += ".0"
	}

	return s
}
