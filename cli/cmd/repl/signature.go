package repl

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// signatures lists the parameters of every function offered by the
// expression language and the built-in library.
var signatures = map[string][]string{ //nolint:gochecknoglobals
	"math.sqrt":  {"x"},
	"math.exp":   {"x"},
	"math.log":   {"x"},
	"math.log10": {"x"},
	"math.log2":  {"x"},
	"math.sin":   {"x"},
	"math.cos":   {"x"},
	"math.tan":   {"x"},
	"math.floor": {"x"},
	"math.ceil":  {"x"},
	"math.fabs":  {"x"},
	"math.pow":   {"x", "y"},
	"math.hypot": {"x", "y"},

	"random.random":  {},
	"random.uniform": {"a", "b"},
	"random.randint": {"a", "b"},
	"random.gauss":   {"mu", "sigma"},
	"random.choice":  {"list"},
	"random.shuffle": {"list"},
	"random.sample":  {"list", "k"},

	"range":         {"start", "stop", "step"},
	"linspace":      {"a", "b", "count"},
	"geomspace":     {"a", "b", "count"},
	"env":           {"name"},
	"mung.prefix":   {"list", "...items"},
	"mung.prefixif": {"list", "predicate", "...items"},

	"len":     {"v"},
	"abs":     {"x"},
	"ceil":    {"x"},
	"floor":   {"x"},
	"round":   {"x"},
	"max":     {"...values"},
	"min":     {"...values"},
	"sum":     {"array"},
	"mean":    {"array"},
	"median":  {"array"},
	"map":     {"array", "mapper"},
	"filter":  {"array", "predicate"},
	"count":   {"array", "predicate"},
	"join":    {"array", "separator"},
	"split":   {"string", "separator"},
	"replace": {"string", "old", "new"},
	"trim":    {"string"},
	"upper":   {"string"},
	"lower":   {"string"},
	"int":     {"v"},
	"float":   {"v"},
	"string":  {"v"},
	"type":    {"v"},
}

var (
	signatureStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	signatureNameStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("6")).
				Bold(true)
	currentParamStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("11")).
				Bold(true)
)

// functionCall is the innermost call whose argument list holds the cursor.
type functionCall struct {
	name     string
	argIndex int
	inCall   bool
}

func isNameByte(b byte) bool {
	return b == '.' || b == '_' ||
		('a' <= b && b <= 'z') || ('A' <= b && b <= 'Z') || ('0' <= b && b <= '9')
}

// detectFunctionCall finds the call enclosing cursor and the index of the
// argument being typed.
func detectFunctionCall(input string, cursor int) functionCall {
	cursor = min(max(cursor, 0), len(input))

	open, depth := -1, 0

	for i := cursor - 1; i >= 0 && open < 0; i-- {
		switch input[i] {
		case ')':
			depth++
		case '(':
			if depth == 0 {
				open = i
			} else {
				depth--
			}
		}
	}

	if open < 0 {
		return functionCall{}
	}

	start := open
	for start > 0 && isNameByte(input[start-1]) {
		start--
	}

	name := strings.Trim(input[start:open], ".")
	if name == "" {
		return functionCall{}
	}

	arg := 0
	depth = 0

	for i := open + 1; i < cursor; i++ {
		switch input[i] {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		case ',':
			if depth == 0 {
				arg++
			}
		}
	}

	return functionCall{name: name, argIndex: arg, inCall: true}
}

// renderSignatureHint renders the signature of name with the parameter at
// index arg highlighted. It returns "" for an unknown function.
func renderSignatureHint(name string, arg int) string {
	params, ok := signatures[name]
	if !ok {
		return ""
	}

	var b strings.Builder

	b.WriteString(signatureNameStyle.Render(name))
	b.WriteString(signatureStyle.Render("("))

	for i, param := range params {
		if i > 0 {
			b.WriteString(signatureStyle.Render(", "))
		}

		variadic := strings.HasPrefix(param, "...")
		if arg == i || (variadic && arg > i) {
			b.WriteString(currentParamStyle.Render(param))
		} else {
			b.WriteString(signatureStyle.Render(param))
		}
	}

	b.WriteString(signatureStyle.Render(")"))

	return b.String()
}
