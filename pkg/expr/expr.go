/*
Package expr implements the small embedded expression and template
language that documents use to bind content to state.

The grammar is deliberately tiny: `${path}` interpolation, a single
binary arithmetic step (`${path} + N`, `${path} - N`), a ternary over a
boolean condition, and a handful of array accessors (count, isEmpty,
first, last, contains). Expression sources are hand-authored JSON, so
evaluation never fails: unrecognized syntax degrades to an absent value,
at most logged.
*/
package expr

import (
	"io"
	"log/slog"
	"strings"

	"github.com/scalskit/scals/pkg/state"
)

// Source supplies values for paths referenced by expressions. The state
// store implements it directly; the resolver wraps it with loop-variable
// scopes during repeater instantiation.
type Source interface {
	Lookup(path string) state.Value
}

// ContainsExpression reports whether s holds at least one ${...} span.
func ContainsExpression(s string) bool {
	start := strings.Index(s, "${")
	return start >= 0 && strings.Contains(s[start:], "}")
}

// IsPureExpression reports whether s is exactly one ${...} span and
// nothing else. Callers use this to pick the dynamic content path over
// template interpolation.
func IsPureExpression(s string) bool {
	if len(s) < 3 || !strings.HasPrefix(s, "${") || !strings.HasSuffix(s, "}") {
		return false
	}
	inner := s[2 : len(s)-1]
	return !strings.Contains(inner, "${") && !strings.Contains(inner, "}")
}

// UnwrapExpression strips the ${...} wrapper from a pure expression.
// Anything else is returned unchanged.
func UnwrapExpression(s string) string {
	if IsPureExpression(s) {
		return s[2 : len(s)-1]
	}
	return s
}

// Evaluator evaluates expressions and templates against a value source.
type Evaluator struct {
	logger *slog.Logger
	onMiss func()
}

// Option configures the Evaluator.
type Option func(*Evaluator)

// WithLogger sets a structured logger for degraded evaluations.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Evaluator) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithMissFunc installs a callback fired whenever an expression degrades
// to an absent value. The engine uses it to count expression misses.
func WithMissFunc(fn func()) Option {
	return func(e *Evaluator) {
		if fn != nil {
			e.onMiss = fn
		}
	}
}

func (e *Evaluator) miss() {
	if e.onMiss != nil {
		e.onMiss()
	}
}

// New creates an Evaluator.
func New(opts ...Option) *Evaluator {
	e := &Evaluator{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Interpolate replaces every ${path} span in template with the display
// form of the value at that path. Absent values substitute the empty
// string; malformed spans are kept verbatim.
func (e *Evaluator) Interpolate(template string, src Source) string {
	if !ContainsExpression(template) {
		return template
	}
	var b strings.Builder
	rest := template
	for {
		start := strings.Index(rest, "${")
		if start < 0 {
			b.WriteString(rest)
			return b.String()
		}
		end := strings.Index(rest[start:], "}")
		if end < 0 {
			b.WriteString(rest)
			return b.String()
		}
		end += start
		b.WriteString(rest[:start])
		path := strings.TrimSpace(rest[start+2 : end])
		b.WriteString(e.resolvePath(path, src).Display())
		rest = rest[end+1:]
	}
}
