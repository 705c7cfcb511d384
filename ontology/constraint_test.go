package ontology

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestEvalConstraintBuiltins(t *testing.T) {
	cases := []struct {
		name       string
		constraint Constraint
		value      PropertyValue
		wantOK     bool
	}{
		{"min_length ok", Constraint{Kind: ConstraintMinLength, Integer: 3}, StringValue("abcd"), true},
		{"min_length fail", Constraint{Kind: ConstraintMinLength, Integer: 3}, StringValue("ab"), false},
		{"max_length ok", Constraint{Kind: ConstraintMaxLength, Integer: 5}, StringValue("abcd"), true},
		{"max_length fail", Constraint{Kind: ConstraintMaxLength, Integer: 2}, StringValue("abcd"), false},
		{"min ok", Constraint{Kind: ConstraintMin, Number: 10}, FloatValue(12), true},
		{"min fail", Constraint{Kind: ConstraintMin, Number: 10}, FloatValue(5), false},
		{"max ok", Constraint{Kind: ConstraintMax, Number: 10}, IntValue(4), true},
		{"max fail", Constraint{Kind: ConstraintMax, Number: 10}, IntValue(11), false},
		{"pattern ok", Constraint{Kind: ConstraintPattern, Text: `^[a-z]+$`}, StringValue("agent"), true},
		{"pattern fail", Constraint{Kind: ConstraintPattern, Text: `^[a-z]+$`}, StringValue("Agent1"), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result, err := EvalConstraint(tc.constraint, "field", tc.value)
			require.NoError(t, err)
			require.Equal(t, tc.wantOK, result.OK)
		})
	}
}

func TestEvalConstraintScript(t *testing.T) {
	c := Constraint{Kind: ConstraintScript, Text: `value.length > 2`}

	result, err := EvalConstraint(c, "field", StringValue("hello"))
	require.NoError(t, err)
	require.True(t, result.OK)

	result, err = EvalConstraint(c, "field", StringValue("hi"))
	require.NoError(t, err)
	require.False(t, result.OK)
}

func TestEvalConstraintScriptNonBoolean(t *testing.T) {
	c := Constraint{Kind: ConstraintScript, Text: `"not a bool"`}
	_, err := EvalConstraint(c, "field", StringValue("x"))
	require.Error(t, err)
}

func TestEvalConstraintScriptTimeout(t *testing.T) {
	prev := scriptTimeout
	scriptTimeout = 10 * time.Millisecond
	defer func() { scriptTimeout = prev }()

	c := Constraint{Kind: ConstraintScript, Text: `while (true) {}`}
	_, err := EvalConstraint(c, "field", StringValue("x"))
	require.Error(t, err)
}

func TestEvalConstraintInvalidPattern(t *testing.T) {
	c := Constraint{Kind: ConstraintPattern, Text: `(unterminated`}
	_, err := EvalConstraint(c, "field", StringValue("x"))
	require.Error(t, err)
}
