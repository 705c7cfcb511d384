package ontology

import (
	"fmt"
	"regexp"
	"time"

	"github.com/dop251/goja"
)

// EvalResult is the outcome of checking one constraint against a value.
type EvalResult struct {
	OK      bool
	Message string
}

// EvalConstraint checks value against c for the named property. Built-in
// constraints are evaluated directly in Go; a Script constraint is run in
// a fresh, sandboxed goja.Runtime per call — no shared state survives
// between evaluations, mirroring how the JavaScript function portal spins
// up isolated execution per invocation rather than reusing a VM across
// unrelated callers.
func EvalConstraint(c Constraint, propertyName string, value PropertyValue) (EvalResult, error) {
	switch c.Kind {
	case ConstraintMinLength:
		n := len(textOf(value))
		if n < c.Integer {
			return EvalResult{OK: false, Message: fmt.Sprintf("length %d below minimum %d", n, c.Integer)}, nil
		}
	case ConstraintMaxLength:
		n := len(textOf(value))
		if n > c.Integer {
			return EvalResult{OK: false, Message: fmt.Sprintf("length %d exceeds maximum %d", n, c.Integer)}, nil
		}
	case ConstraintMin:
		if numberOf(value) < c.Number {
			return EvalResult{OK: false, Message: fmt.Sprintf("value below minimum %v", c.Number)}, nil
		}
	case ConstraintMax:
		if numberOf(value) > c.Number {
			return EvalResult{OK: false, Message: fmt.Sprintf("value above maximum %v", c.Number)}, nil
		}
	case ConstraintPattern:
		re, err := regexp.Compile(c.Text)
		if err != nil {
			return EvalResult{}, fmt.Errorf("invalid pattern constraint %q: %w", c.Text, err)
		}
		if !re.MatchString(textOf(value)) {
			return EvalResult{OK: false, Message: fmt.Sprintf("value does not match pattern %q", c.Text)}, nil
		}
	case ConstraintScript:
		return evalScript(c.Text, propertyName, value)
	default:
		return EvalResult{}, fmt.Errorf("unknown constraint kind %q", c.Kind)
	}
	return EvalResult{OK: true}, nil
}

func evalScript(source, propertyName string, value PropertyValue) (EvalResult, error) {
	vm := goja.New()
	if err := vm.Set("value", goValue(value)); err != nil {
		return EvalResult{}, fmt.Errorf("constraint script setup: %w", err)
	}
	if err := vm.Set("property", propertyName); err != nil {
		return EvalResult{}, fmt.Errorf("constraint script setup: %w", err)
	}

	done := make(chan struct{})
	var result goja.Value
	var runErr error
	go func() {
		defer close(done)
		result, runErr = vm.RunString(source)
	}()

	select {
	case <-done:
	case <-time.After(scriptTimeout):
		vm.Interrupt("constraint script timed out")
		<-done
		return EvalResult{}, fmt.Errorf("constraint script timed out after %s", scriptTimeout)
	}

	if runErr != nil {
		return EvalResult{}, fmt.Errorf("constraint script error: %w", runErr)
	}
	b, ok := result.Export().(bool)
	if !ok {
		return EvalResult{}, fmt.Errorf("constraint script must return a boolean, got %T", result.Export())
	}
	if !b {
		return EvalResult{OK: false, Message: "constraint script returned false"}, nil
	}
	return EvalResult{OK: true}, nil
}

// scriptTimeout bounds a single constraint-script evaluation.
var scriptTimeout = 50 * time.Millisecond

func textOf(v PropertyValue) string {
	if v.Kind == KindString {
		return v.Str
	}
	return ""
}

func numberOf(v PropertyValue) float64 {
	switch v.Kind {
	case KindFloat:
		return v.Flt
	case KindInteger:
		return float64(v.Int)
	default:
		return 0
	}
}

// goValue converts a PropertyValue to a plain Go value goja can marshal
// into its runtime representation.
func goValue(v PropertyValue) any {
	switch v.Kind {
	case KindString:
		return v.Str
	case KindInteger:
		return v.Int
	case KindFloat:
		return v.Flt
	case KindBoolean:
		return v.Bool
	case KindTimestamp:
		return v.Time.Format(time.RFC3339)
	case KindList:
		out := make([]any, len(v.List))
		for i, item := range v.List {
			out[i] = goValue(item)
		}
		return out
	case KindObject:
		return v.Object
	default:
		return nil
	}
}
