package layout

import (
	"fmt"
	"strings"

	exprlang "github.com/expr-lang/expr"
	exprvm "github.com/expr-lang/expr/vm"
)

// Condition is a compiled visibleWhen rule. The rule is an expr-lang boolean
// expression over widget ids, for example `climbAttempted && climbLevel != "None"`.
type Condition struct {
	Source  string
	program *exprvm.Program
}

// CompileCondition compiles a visibility rule. Unknown identifiers evaluate to
// nil so rules may reference widgets declared later in the layout.
func CompileCondition(source string) (*Condition, error) {
	trimmed := strings.TrimSpace(source)
	if trimmed == "" {
		return nil, nil
	}
	program, err := exprlang.Compile(trimmed, exprlang.AllowUndefinedVariables())
	if err != nil {
		return nil, err
	}
	return &Condition{Source: trimmed, program: program}, nil
}

// Eval runs the rule against env. A nil condition always holds.
func (c *Condition) Eval(env map[string]any) (bool, error) {
	if c == nil || c.program == nil {
		return true, nil
	}
	if env == nil {
		env = map[string]any{}
	}
	out, err := exprvm.Run(c.program, env)
	if err != nil {
		return false, fmt.Errorf("layout: evaluate %q: %w", c.Source, err)
	}
	switch typed := out.(type) {
	case bool:
		return typed, nil
	case nil:
		return false, nil
	default:
		return false, fmt.Errorf("layout: condition %q returned %T, want bool", c.Source, out)
	}
}
