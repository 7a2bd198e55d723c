// Package smemo provides explicit session memoization.
//
// Functions are wrapped into bindings. A binding takes a session as its first
// argument and consults it before running: a cached value is returned, a
// cached error is returned again, and a miss runs the function and stores
// what it returned, value or error.
//
// # Sessions
//
// A Session owns the cached outcomes. Sessions can be chained: a child looks
// in its parent when it misses, and a restricted child keeps only some
// bindings locally and forwards the rest to the parent.
//
// # Views
//
// A Session hands out views that change what a call does without owning any
// storage:
//   - Inv() invalidates the entry the call would use,
//   - CallOnly() runs the call without storing the result,
//   - SetCache(v, err) stores a fixed outcome without running the call.
//
// # Invalidation
//
// Entries are dropped one at a time (Invalidate), per binding
// (InvalidateAll(b)), for every non-persistent binding (InvalidateAll(nil)),
// or per persistence key (InvalidateByPKey). NoCache suspends storing.
//
// Sessions are not safe for concurrent use.
//
// Example:
//
//	var fib *smemo.Binding
//	fib = smemo.Cached(func(s smemo.Scope, args smemo.Args) (any, error) {
//	    n := args.Arg(0).(int)
//	    if n <= 1 {
//	        return 1, nil
//	    }
//	    a, _ := fib.Call(s, n-1)
//	    b, _ := fib.Call(s, n-2)
//	    return a.(int) + b.(int), nil
//	})
//
//	s := smemo.NewSession()
//	v, _ := fib.Call(s, 5) // 8
package smemo
