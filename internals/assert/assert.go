package assert

import "fmt"

// Assert panics when the condition does not hold. Reserved for startup
// wiring that cannot continue without the asserted state.
func Assert(condition bool, msg string, args ...any) {
	if !condition {
		if len(args) > 0 {
			panic(fmt.Sprintf("%s: %v", msg, args))
		}
		panic(msg)
	}
}

func AssertNil(value any, msg string) {
	if value == nil {
		return
	}
	Assert(false, msg, value)
}
