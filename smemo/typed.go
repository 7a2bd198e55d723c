package smemo

import (
	"github.com/on-the-ground/smemo_go/shared/helper"
)

// The BindIn constructors memoize functions with n typed arguments and a typed
// result. BindI0 uses the simple path of the session.

type BoundI0[O any] struct {
	b *Binding
}

type BoundI1[I1 any, O any] struct {
	b *Binding
}

type BoundI2[I1, I2 any, O any] struct {
	b *Binding
}

type BoundI3[I1, I2, I3 any, O any] struct {
	b *Binding
}

func BindI0[O any](
	fn func(Scope) (O, error),
	cfg Config,
) BoundI0[O] {
	name := nameOr(cfg.Name, fn)
	return BoundI0[O]{b: newBinding(name, nil, func(s Scope) (any, error) {
		return fn(s)
	}, cfg, cfg.registryOrDefault())}
}

func BindI1[I1 any, O any](
	fn func(Scope, I1) (O, error),
	cfg Config,
) BoundI1[I1, O] {
	name := nameOr(cfg.Name, fn)
	return BoundI1[I1, O]{b: newBinding(name, func(s Scope, args Args) (any, error) {
		return fn(s, arg[I1](args, 0))
	}, nil, cfg, cfg.registryOrDefault())}
}

func BindI2[I1, I2 any, O any](
	fn func(Scope, I1, I2) (O, error),
	cfg Config,
) BoundI2[I1, I2, O] {
	name := nameOr(cfg.Name, fn)
	return BoundI2[I1, I2, O]{b: newBinding(name, func(s Scope, args Args) (any, error) {
		return fn(s, arg[I1](args, 0), arg[I2](args, 1))
	}, nil, cfg, cfg.registryOrDefault())}
}

func BindI3[I1, I2, I3 any, O any](
	fn func(Scope, I1, I2, I3) (O, error),
	cfg Config,
) BoundI3[I1, I2, I3, O] {
	name := nameOr(cfg.Name, fn)
	return BoundI3[I1, I2, I3, O]{b: newBinding(name, func(s Scope, args Args) (any, error) {
		return fn(s, arg[I1](args, 0), arg[I2](args, 1), arg[I3](args, 2))
	}, nil, cfg, cfg.registryOrDefault())}
}

func (f BoundI0[O]) Call(s Scope) (O, error) {
	return helper.TypedResult[O](f.b.Call(s))
}

func (f BoundI1[I1, O]) Call(s Scope, i1 I1) (O, error) {
	return helper.TypedResult[O](f.b.Call(s, i1))
}

func (f BoundI2[I1, I2, O]) Call(s Scope, i1 I1, i2 I2) (O, error) {
	return helper.TypedResult[O](f.b.Call(s, i1, i2))
}

func (f BoundI3[I1, I2, I3, O]) Call(s Scope, i1 I1, i2 I2, i3 I3) (O, error) {
	return helper.TypedResult[O](f.b.Call(s, i1, i2, i3))
}

func (f BoundI0[O]) Binding() *Binding             { return f.b }
func (f BoundI1[I1, O]) Binding() *Binding         { return f.b }
func (f BoundI2[I1, I2, O]) Binding() *Binding     { return f.b }
func (f BoundI3[I1, I2, I3, O]) Binding() *Binding { return f.b }

// arg returns positional argument i as T. A nil argument gives the zero T.
func arg[T any](args Args, i int) T {
	v, _ := args.Arg(i).(T)
	return v
}

func nameOr(name string, fn any) string {
	if name != "" {
		return name
	}
	return funcName(fn)
}
