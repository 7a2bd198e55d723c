package smemo

import (
	"fmt"

	"github.com/on-the-ground/smemo_go/shared/helper"
)

const getterName = "smemo.getter"

// getValue is the body of the getter binding of each registry. It only runs
// when nothing was put under the keys.
func getValue(_ Scope, args Args) (any, error) {
	return nil, fmt.Errorf("%w for args %v %v", ErrNotFound, args.Pos, args.Kw)
}

// Getter is the binding GetVal and PutVal use with s. Bindings can call it
// directly to read values put by PutVal.
func Getter(s Scope) *Binding {
	return s.session().registry.getter
}

// GetVal returns the value put under keys with PutVal, looking in the session
// of s and then its parents. It returns an error wrapping ErrNotFound when
// there is none.
//
// A miss is not remembered: a later PutVal under the same keys is seen.
func GetVal(s Scope, keys ...any) (any, error) {
	sess := s.session()
	g := Getter(s)
	args := NewArgs(keys...)
	if out, ok := sess.GetCache(g, args); ok {
		if out.Err != nil {
			return nil, replay(g, out.Err)
		}
		return out.Value, nil
	}
	return getValue(s, args)
}

// GetValAs is GetVal with the value asserted to T.
func GetValAs[T any](s Scope, keys ...any) (T, error) {
	return helper.GetTypedValueOf[T](func() (any, error) {
		return GetVal(s, keys...)
	})
}

// PutVal stores val under keys in the session of s. The value is persistent:
// InvalidateAll(nil) keeps it, Invalidate(Getter(s), keys...) drops it.
func PutVal(s Scope, val any, keys ...any) {
	s.session().Cache(Getter(s), val, NewArgs(keys...))
}

// MustGetVal is the panic-on-failure variant of GetValAs. Use it for values
// the caller put itself, e.g. test counters.
func MustGetVal[T any](s Scope, keys ...any) T {
	return helper.MustGetTypedValue[T](func() (any, error) {
		return GetVal(s, keys...)
	})
}
