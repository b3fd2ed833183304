package monitor

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// CompileExprPredicate compiles an expr-lang boolean expression into a
// completion predicate. The expression is evaluated against:
//
//	tests        list of {name, status, duration_ms} in first-seen order
//	saw_complete bool  TEST_COMPLETE observed
//	total        int   tracked test count
//	passed       int   tests in TEST_PASS
//	failed       int   tests in TEST_FAIL
//
// Example: "saw_complete && failed == 0 && total >= 5".
//
// Compilation errors are reported before the run starts; a runtime
// evaluation error makes the predicate return false, per the
// evaluator contract.
func CompileExprPredicate(src string) (Predicate, error) {
	program, err := expr.Compile(src, expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("invalid completion expression %q: %w", src, err)
	}
	return func(s *Snapshot) bool {
		return runExprPredicate(program, s)
	}, nil
}

func runExprPredicate(program *vm.Program, s *Snapshot) bool {
	// Records are exposed as plain maps so expressions compare
	// against untyped strings and integers.
	tests := make([]map[string]any, 0, len(s.Order))
	for _, name := range s.Order {
		rec := s.Tests[name]
		entry := map[string]any{
			"name":        rec.Name,
			"status":      string(rec.Status),
			"duration_ms": -1,
		}
		if rec.DurationMS != nil {
			entry["duration_ms"] = int(*rec.DurationMS)
		}
		tests = append(tests, entry)
	}
	totals := s.Totals()
	env := map[string]any{
		"tests":        tests,
		"saw_complete": s.SawComplete,
		"total":        totals.TotalTests,
		"passed":       totals.PassedTests,
		"failed":       totals.FailedTests,
	}
	out, err := expr.Run(program, env)
	if err != nil {
		return false
	}
	done, ok := out.(bool)
	return ok && done
}
