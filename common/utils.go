package common

import "fmt"

// Assert checks a condition and panics if it is false.
//
// Use it for invariants of the plan graph that no input can violate (a consumer
// without a producer, a node kind a traversal does not know). Conditions a
// caller can trigger with a bad statement are reported as PlanError instead.
func Assert(cond bool, format string, args ...any) {
	if !cond {
		panic(fmt.Sprintf(format, args...))
	}
}
