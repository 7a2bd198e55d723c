package smemo

import (
	"fmt"
	"reflect"
	"runtime"
)

// Func is the body of a binding with arguments. The scope is the one the
// call was authorized against; pass it on to nested bindings.
type Func func(s Scope, args Args) (any, error)

// Func0 is the body of a binding without arguments.
type Func0 func(s Scope) (any, error)

// Config configures a binding. The zero value copies results, is not
// persistent and registers with DefaultRegistry.
type Config struct {
	// Name is used in logs and errors. Defaults to the name of the function.
	Name string
	// Ref hands out the cached value itself instead of a deep copy. Faster,
	// but callers that mutate the result mutate the cache.
	Ref bool
	// Persistence controls survival of InvalidateAll(nil).
	Persistence Persistence
	// Registry records the persistence of the binding. Bulk invalidation in
	// any session consults this registry, whatever the registry of the
	// session.
	Registry *Registry
}

// Binding is a memoized function. Its pointer identity is the cache key of
// the function in every session.
type Binding struct {
	name        string
	fn          Func
	fn0         Func0
	ref         bool
	persistence Persistence
	registry    *Registry
}

// Wrap memoizes fn.
func Wrap(fn Func, cfg Config) *Binding {
	return newBinding(cfg.Name, fn, nil, cfg, cfg.registryOrDefault())
}

// Wrap0 memoizes fn, a function without arguments. Its value is kept on the
// simple path of the session.
func Wrap0(fn Func0, cfg Config) *Binding {
	return newBinding(cfg.Name, nil, fn, cfg, cfg.registryOrDefault())
}

// Cached memoizes fn with default configuration: results are deep copied.
func Cached(fn Func) *Binding {
	return Wrap(fn, Config{})
}

// RCached memoizes fn and hands out cached values by reference.
func RCached(fn Func) *Binding {
	return Wrap(fn, Config{Ref: true})
}

func (cfg Config) registryOrDefault() *Registry {
	if cfg.Registry != nil {
		return cfg.Registry
	}
	return DefaultRegistry
}

func newBinding(name string, fn Func, fn0 Func0, cfg Config, registry *Registry) *Binding {
	if name == "" {
		if fn0 != nil {
			name = funcName(fn0)
		} else {
			name = funcName(fn)
		}
	}
	b := &Binding{
		name:        name,
		fn:          fn,
		fn0:         fn0,
		ref:         cfg.Ref,
		persistence: cfg.Persistence,
		registry:    registry,
	}
	registry.register(b)
	return b
}

func funcName(fn any) string {
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func || v.IsNil() {
		return "anonymous"
	}
	if f := runtime.FuncForPC(v.Pointer()); f != nil {
		return f.Name()
	}
	return "anonymous"
}

func (b *Binding) Name() string {
	return b.name
}

func (b *Binding) Ref() bool {
	return b.ref
}

func (b *Binding) Persistence() Persistence {
	return b.persistence
}

// Registry is the registry b was registered in.
func (b *Binding) Registry() *Registry {
	return b.registry
}

func (b *Binding) String() string {
	return b.name
}

// simple reports whether b takes no arguments.
func (b *Binding) simple() bool {
	return b.fn0 != nil
}

// Call invokes b with s. Arguments created with Kw are keyword arguments,
// the rest are positional.
//
// It panics when arguments are passed to a binding created by Wrap0.
func (b *Binding) Call(s Scope, raw ...any) (any, error) {
	if b.simple() {
		if len(raw) > 0 {
			panic(fmt.Sprintf("smemo: binding %s takes no arguments, got %d", b.name, len(raw)))
		}
		return b.call0(s)
	}
	return b.CallArgs(s, NewArgs(raw...))
}

// CallArgs is Call with arguments already split.
func (b *Binding) CallArgs(s Scope, args Args) (any, error) {
	if b.simple() {
		if args.Len() > 0 {
			panic(fmt.Sprintf("smemo: binding %s takes no arguments, got %d", b.name, args.Len()))
		}
		return b.call0(s)
	}
	if out, ok := s.GetCache(b, args); ok {
		if out.Err != nil {
			return nil, replay(b, out.Err)
		}
		return b.deliver(out.Value)
	}

	var ret any
	if cs := s.PreCall(b, args); cs != nil {
		v, err := b.fn(cs, args)
		if err != nil {
			s.CacheErr(b, err, args)
			return nil, err
		}
		ret = v
	} else {
		s.session().debug(LogCallSkipped, bindingField(b))
	}
	s.Cache(b, ret, args)
	return b.deliver(ret)
}

func (b *Binding) call0(s Scope) (any, error) {
	if out, ok := s.SimpleGetCache(b); ok {
		if out.Err != nil {
			return nil, replay(b, out.Err)
		}
		return b.deliver(out.Value)
	}

	var ret any
	if cs := s.SimplePreCall(b); cs != nil {
		v, err := b.fn0(cs)
		if err != nil {
			s.CacheErr(b, err, Args{})
			return nil, err
		}
		ret = v
	} else {
		s.session().debug(LogCallSkipped, bindingField(b), simpleKeyField())
	}
	s.Cache(b, ret, Args{})
	return b.deliver(ret)
}
