package util

import (
	"fmt"
	"os"
	"runtime/debug"
)

// AssertsPanic makes failed asserts panic instead of exiting, so tests can
// recover from them.
var AssertsPanic bool = false

func assertFailed(msg string) {
	if AssertsPanic {
		panic(msg)
	}
	debug.PrintStack()
	fmt.Fprint(os.Stderr, msg)
	os.Exit(1)
}

// Assertf guards internal invariants which user input cannot break.
func Assertf(cond bool, fmtstr string, o ...interface{}) {
	if !cond {
		assertFailed(fmt.Sprintf(fmtstr, o...))
	}
}

// Tern picks a when cond holds, otherwise b.
func Tern[T any](cond bool, a T, b T) T {
	if cond {
		return a
	}
	return b
}
