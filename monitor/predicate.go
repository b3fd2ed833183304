package monitor

// Predicate decides, from a read-only snapshot, whether the run is
// done. Predicates must be side-effect-free and must return false
// rather than fail when handed a snapshot they cannot reason about
// (an empty tracker, say).
type Predicate func(*Snapshot) bool

// Evaluator holds the registered completion predicates. The run ends
// as soon as ANY predicate returns true; evaluation order is
// unspecified.
type Evaluator struct {
	predicates []Predicate
}

// NewEvaluator returns an evaluator preloaded with the given
// predicates.
func NewEvaluator(preds ...Predicate) *Evaluator {
	e := &Evaluator{}
	for _, p := range preds {
		e.Register(p)
	}
	return e
}

// Register adds a predicate. Nil predicates are ignored.
func (e *Evaluator) Register(p Predicate) {
	if p == nil {
		return
	}
	e.predicates = append(e.predicates, p)
}

// Evaluate reports whether any registered predicate is satisfied.
func (e *Evaluator) Evaluate(s *Snapshot) bool {
	for _, p := range e.predicates {
		if p(s) {
			return true
		}
	}
	return false
}

// SawCompleteStatus is satisfied once the target has emitted a
// STATUS:TEST_COMPLETE line.
func SawCompleteStatus(s *Snapshot) bool {
	return s.SawComplete
}

// AllTerminalAndNonEmpty is satisfied when at least one test has been
// seen and every tracked test has reached Pass or Fail.
func AllTerminalAndNonEmpty(s *Snapshot) bool {
	if len(s.Tests) == 0 {
		return false
	}
	for _, rec := range s.Tests {
		if !rec.Status.Terminal() {
			return false
		}
	}
	return true
}
