package expr

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/scalskit/scals/pkg/state"
)

var arithmeticRe = regexp.MustCompile(`^\$\{([^}]+)\}\s*([+-])\s*(-?\d+)$`)

// Evaluate evaluates a single expression and returns its value. The
// recognized forms, in match order: ternary, single arithmetic step,
// pure ${path}, bare path (with optional array accessor). Anything else
// degrades to Absent.
func (e *Evaluator) Evaluate(exprStr string, src Source) state.Value {
	s := strings.TrimSpace(exprStr)
	if s == "" {
		return state.Absent()
	}

	if v, ok := e.evalTernary(s, src); ok {
		return v
	}
	if v, ok := e.evalArithmetic(s, src); ok {
		return v
	}
	if IsPureExpression(s) {
		return e.resolvePath(UnwrapExpression(s), src)
	}
	if !strings.Contains(s, "${") {
		return e.resolvePath(s, src)
	}

	e.logger.Debug("unrecognized expression", "expr", exprStr)
	e.miss()
	return state.Absent()
}

// EvaluateOrInterpolate is the caller-facing entry for content values:
// plain text passes through untouched, a recognized expression yields
// its typed value, and anything else with ${...} spans interpolates as
// a template.
func (e *Evaluator) EvaluateOrInterpolate(s string, src Source) state.Value {
	if !ContainsExpression(s) {
		return state.String(s)
	}
	if v := e.Evaluate(s, src); !v.IsAbsent() {
		return v
	}
	return state.String(e.Interpolate(s, src))
}

// evalArithmetic handles `${path} + N` and `${path} - N` with an integer
// literal N. The result type follows the operand: int stays int, double
// stays double. No clamping. A non-numeric operand degrades to Absent.
func (e *Evaluator) evalArithmetic(s string, src Source) (state.Value, bool) {
	m := arithmeticRe.FindStringSubmatch(s)
	if m == nil {
		return state.Absent(), false
	}
	operand := e.resolvePath(strings.TrimSpace(m[1]), src)
	n, err := strconv.ParseInt(m[3], 10, 64)
	if err != nil {
		return state.Absent(), true
	}
	if m[2] == "-" {
		n = -n
	}
	if i, ok := operand.AsInt(); ok {
		return state.Int(i + n), true
	}
	if d, ok := operand.AsDouble(); ok && operand.Kind() == state.KindDouble {
		return state.Double(d + float64(n)), true
	}
	e.logger.Debug("arithmetic on non-numeric operand", "expr", s, "kind", operand.Kind().String())
	e.miss()
	return state.Absent(), true
}

// evalTernary handles `<cond> ? '<a>' : '<b>'` where cond is a path,
// !path, true, or false, and both branches are quoted with single or
// double quotes.
func (e *Evaluator) evalTernary(s string, src Source) (state.Value, bool) {
	q := strings.Index(s, "?")
	if q < 0 {
		return state.Absent(), false
	}
	cond := strings.TrimSpace(s[:q])
	rest := strings.TrimSpace(s[q+1:])

	left, rest, ok := takeQuoted(rest)
	if !ok {
		return state.Absent(), false
	}
	rest = strings.TrimSpace(rest)
	if !strings.HasPrefix(rest, ":") {
		return state.Absent(), false
	}
	right, tail, ok := takeQuoted(strings.TrimSpace(rest[1:]))
	if !ok || strings.TrimSpace(tail) != "" {
		return state.Absent(), false
	}

	if e.evalCondition(cond, src) {
		return state.String(left), true
	}
	return state.String(right), true
}

func (e *Evaluator) evalCondition(cond string, src Source) bool {
	cond = UnwrapExpression(strings.TrimSpace(cond))
	switch cond {
	case "true":
		return true
	case "false", "":
		return false
	}
	if strings.HasPrefix(cond, "!") {
		return !e.resolvePath(strings.TrimSpace(cond[1:]), src).Truthy()
	}
	return e.resolvePath(cond, src).Truthy()
}

// takeQuoted consumes a leading single- or double-quoted literal and
// returns its contents plus the remainder.
func takeQuoted(s string) (string, string, bool) {
	if s == "" {
		return "", "", false
	}
	quote := s[0]
	if quote != '\'' && quote != '"' {
		return "", "", false
	}
	end := strings.IndexByte(s[1:], quote)
	if end < 0 {
		return "", "", false
	}
	return s[1 : 1+end], s[2+end:], true
}

// resolvePath reads a path from the source, applying the array accessor
// suffixes. A real value at the literal path always wins over accessor
// interpretation, so an object field named "count" shadows the accessor.
func (e *Evaluator) resolvePath(path string, src Source) state.Value {
	if v := src.Lookup(path); !v.IsAbsent() {
		return v
	}

	base, accessor, arg, ok := splitAccessor(path)
	if !ok {
		return state.Absent()
	}
	arr, isArr := src.Lookup(base).AsArray()

	switch accessor {
	case "count":
		return state.Int(int64(len(arr)))
	case "isEmpty":
		return state.Bool(len(arr) == 0)
	case "first":
		if isArr && len(arr) > 0 {
			return arr[0]
		}
		return state.Absent()
	case "last":
		if isArr && len(arr) > 0 {
			return arr[len(arr)-1]
		}
		return state.Absent()
	case "contains":
		needle := e.containsArg(arg, src)
		for _, el := range arr {
			if el.Equal(needle) {
				return state.Bool(true)
			}
		}
		return state.Bool(false)
	}
	return state.Absent()
}

var containsRe = regexp.MustCompile(`^contains\((.+)\)$`)

// splitAccessor splits "items.count" into ("items", "count", "", true)
// and "tags.contains('ios')" into ("tags", "contains", "'ios'", true).
func splitAccessor(path string) (base, accessor, arg string, ok bool) {
	dot := strings.LastIndex(path, ".")
	if dot < 0 {
		return "", "", "", false
	}
	base, tail := path[:dot], path[dot+1:]
	switch tail {
	case "count", "isEmpty", "first", "last":
		return base, tail, "", true
	}
	if m := containsRe.FindStringSubmatch(tail); m != nil {
		return base, "contains", strings.TrimSpace(m[1]), true
	}
	return "", "", "", false
}

// containsArg interprets the contains() argument: a quoted string, a
// numeric or boolean literal, or a path into the source.
func (e *Evaluator) containsArg(arg string, src Source) state.Value {
	if lit, _, ok := takeQuoted(arg); ok {
		return state.String(lit)
	}
	switch arg {
	case "true":
		return state.Bool(true)
	case "false":
		return state.Bool(false)
	}
	if i, err := strconv.ParseInt(arg, 10, 64); err == nil {
		return state.Int(i)
	}
	if d, err := strconv.ParseFloat(arg, 64); err == nil {
		return state.Double(d)
	}
	return src.Lookup(UnwrapExpression(arg))
}
