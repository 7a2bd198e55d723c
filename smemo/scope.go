package smemo

import (
	"github.com/on-the-ground/smemo_go/smemo/internal/cachekey"
)

var (
	_ Scope = (*Session)(nil)
	_ Scope = InvalidatorSession{}
	_ Scope = CallOnlySession{}
	_ Scope = SetCacheSession{}
)

// Scope is what a binding is invoked with: a Session or one of its views.
//
// It is a sealed interface. Only Session, InvalidatorSession, CallOnlySession
// and SetCacheSession implement it.
type Scope interface {
	// GetCache returns the cached outcome of b called with args.
	GetCache(b *Binding, args Args) (Outcome, bool)
	// SimpleGetCache returns the cached outcome of a binding without
	// arguments: its value or its error, whichever the nearest session
	// holds.
	SimpleGetCache(b *Binding) (Outcome, bool)
	// PreCall returns the scope the body of b runs with, or nil to skip the
	// call.
	PreCall(b *Binding, args Args) Scope
	// SimplePreCall is PreCall for bindings without arguments.
	SimplePreCall(b *Binding) Scope
	// Cache records val as the outcome of b called with args.
	Cache(b *Binding, val any, args Args)
	// CacheErr records err as the outcome of b called with args.
	CacheErr(b *Binding, err error, args Args)

	// session is the Session whose storage this scope uses. It also seals the
	// interface.
	session() *Session
}

// Args are the identifying arguments of one call.
type Args struct {
	Pos []any
	Kw  map[string]any
}

// KwArg is a keyword argument, created with Kw.
type KwArg struct {
	Name  string
	Value any
}

// Kw passes value as the keyword argument name. A keyword argument and a
// positional argument with the same value are different calls.
func Kw(name string, value any) KwArg {
	return KwArg{Name: name, Value: value}
}

// NewArgs splits raw call arguments into positional and keyword arguments.
func NewArgs(raw ...any) Args {
	var args Args
	for _, r := range raw {
		if kw, ok := r.(KwArg); ok {
			if args.Kw == nil {
				args.Kw = make(map[string]any)
			}
			args.Kw[kw.Name] = kw.Value
			continue
		}
		args.Pos = append(args.Pos, r)
	}
	return args
}

// Arg returns the i-th positional argument, or nil when there are fewer.
func (a Args) Arg(i int) any {
	if i < 0 || i >= len(a.Pos) {
		return nil
	}
	return a.Pos[i]
}

// Lookup returns the keyword argument name.
func (a Args) Lookup(name string) (any, bool) {
	v, ok := a.Kw[name]
	return v, ok
}

// Len is the number of positional and keyword arguments.
func (a Args) Len() int {
	return len(a.Pos) + len(a.Kw)
}

func (a Args) key() cachekey.Key {
	return cachekey.Derive(a.Pos, a.Kw)
}

// Outcome is the cached result of one call: a value, or the error the call
// returned.
type Outcome struct {
	Value any
	Err   error
}

func valueOutcome(v any) Outcome {
	return Outcome{Value: v}
}

func errOutcome(err error) Outcome {
	return Outcome{Err: err}
}
