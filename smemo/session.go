package smemo

import (
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/on-the-ground/smemo_go/smemo/internal/cachekey"
	"github.com/on-the-ground/smemo_go/smemo/internal/store"
)

// Session holds cached outcomes of bindings.
//
// A session may have a parent. A lookup that misses locally is retried in
// the parent; writes stay local. A restricted session keeps only the listed
// bindings locally and forwards everything about the others to its parent.
//
// Sessions are not safe for concurrent use.
type Session struct {
	id       string
	store    *store.Store[*Binding, Outcome]
	parent   *Session
	restrict map[*Binding]struct{}
	registry *Registry
	logger   *zap.Logger
}

// NewSession creates a session. Without options it is a root session with no
// parent and no restriction, using DefaultRegistry.
//
// It panics with ErrNoParent when restricted without a parent.
func NewSession(opts ...Option) *Session {
	cfg := newSessionConfig(opts)
	s := &Session{
		id:       uuid.New().String(),
		store:    store.New[*Binding, Outcome](),
		parent:   cfg.parent,
		registry: cfg.registry,
		logger:   cfg.logger,
	}
	if cfg.restricted {
		if cfg.parent == nil {
			panic(ErrNoParent)
		}
		s.restrict = make(map[*Binding]struct{}, len(cfg.restrict))
		for _, b := range cfg.restrict {
			s.restrict[b] = struct{}{}
		}
	}
	return s
}

// NewChild creates a session whose parent is s.
func (s *Session) NewChild(opts ...Option) *Session {
	return NewSession(append([]Option{WithParent(s)}, opts...)...)
}

// ID identifies the session in logs.
func (s *Session) ID() string {
	return s.id
}

// Parent is the session lookups fall through to, or nil for a root session.
func (s *Session) Parent() *Session {
	return s.parent
}

// Registry is the registry whose getter backs GetVal and PutVal on s.
func (s *Session) Registry() *Registry {
	return s.registry
}

// Bindings is the number of bindings with entries in the local store.
func (s *Session) Bindings() int {
	return s.store.Bindings()
}

// Entries is the number of local entries of b.
func (s *Session) Entries(b *Binding) int {
	return s.store.Entries(b)
}

func (s *Session) session() *Session {
	return s
}

// parentOnly reports whether b bypasses the local store.
func (s *Session) parentOnly(b *Binding) bool {
	if s.restrict == nil {
		return false
	}
	_, ok := s.restrict[b]
	return !ok
}

func (s *Session) mustParent() *Session {
	if s.parent == nil {
		panic(ErrNoParent)
	}
	return s.parent
}

func (s *Session) GetCache(b *Binding, args Args) (Outcome, bool) {
	return s.getCache(b, args.key())
}

func (s *Session) getCache(b *Binding, key cachekey.Key) (Outcome, bool) {
	if s.parentOnly(b) {
		return s.mustParent().getCache(b, key)
	}
	if out, ok := s.store.Lookup(b, key); ok {
		s.debug(LogHit, bindingField(b), keyField(key))
		return out, true
	}
	if s.parent != nil {
		return s.parent.getCache(b, key)
	}
	s.debug(LogMiss, bindingField(b), keyField(key))
	return Outcome{}, false
}

// SimpleGetCache checks the simple slot and the error stored under the empty
// key of each session before moving on to its parent.
func (s *Session) SimpleGetCache(b *Binding) (Outcome, bool) {
	if s.parentOnly(b) {
		return s.mustParent().SimpleGetCache(b)
	}
	if v, ok := s.store.LookupSimple(b); ok {
		s.debug(LogHit, bindingField(b), simpleKeyField())
		return valueOutcome(v), true
	}
	if out, ok := s.store.Lookup(b, cachekey.Empty); ok {
		s.debug(LogHit, bindingField(b), keyField(cachekey.Empty))
		return out, true
	}
	if s.parent != nil {
		return s.parent.SimpleGetCache(b)
	}
	s.debug(LogMiss, bindingField(b), simpleKeyField())
	return Outcome{}, false
}

// PreCall authorizes the call against s itself.
func (s *Session) PreCall(*Binding, Args) Scope {
	return s
}

func (s *Session) SimplePreCall(*Binding) Scope {
	return s
}

// Cache stores val for b called with args. Bindings without arguments use
// the simple path and ignore args.
func (s *Session) Cache(b *Binding, val any, args Args) {
	if s.parentOnly(b) {
		s.mustParent().Cache(b, val, args)
		return
	}
	if b.simple() {
		if s.store.PutSimple(b, val) {
			s.store.Remove(b, cachekey.Empty)
			s.debug(LogStore, bindingField(b), simpleKeyField())
		} else {
			s.debug(LogStoreSkipped, bindingField(b), simpleKeyField())
		}
		return
	}
	s.put(b, args.key(), valueOutcome(val))
}

// CacheErr stores err for b called with args. Errors of bindings without
// arguments go to the general path under the empty key.
func (s *Session) CacheErr(b *Binding, err error, args Args) {
	if s.parentOnly(b) {
		s.mustParent().CacheErr(b, err, args)
		return
	}
	key := args.key()
	if b.simple() {
		key = cachekey.Empty
	}
	if s.put(b, key, errOutcome(err)) && b.simple() {
		s.store.RemoveSimple(b)
	}
}

func (s *Session) put(b *Binding, key cachekey.Key, out Outcome) bool {
	if !s.store.Put(b, key, out) {
		s.debug(LogStoreSkipped, bindingField(b), keyField(key))
		return false
	}
	s.debug(LogStore, bindingField(b), keyField(key), zap.Bool("error", out.Err != nil))
	return true
}

// Invalidate drops the outcome of one call of b. For bindings without
// arguments the arguments are ignored.
func (s *Session) Invalidate(b *Binding, raw ...any) {
	s.InvalidateArgs(b, NewArgs(raw...))
}

func (s *Session) InvalidateArgs(b *Binding, args Args) {
	if s.parentOnly(b) {
		s.mustParent().InvalidateArgs(b, args)
		return
	}
	if b.simple() {
		s.store.RemoveSimple(b)
		s.store.Remove(b, cachekey.Empty)
		s.debug(LogInvalidate, bindingField(b), simpleKeyField())
		return
	}
	key := args.key()
	s.store.Remove(b, key)
	s.debug(LogInvalidate, bindingField(b), keyField(key))
}

// InvalidateAll drops every outcome of b, persistent or not. With a nil
// binding it drops every binding that is not registered as persistent in
// its own registry.
func (s *Session) InvalidateAll(b *Binding) {
	if b != nil {
		if s.parentOnly(b) {
			s.mustParent().InvalidateAll(b)
			return
		}
		n := s.store.RemoveAll(func(other *Binding) bool { return other == b })
		s.debug(LogInvalidateAll, bindingField(b), zap.Int("dropped", n))
		return
	}
	n := s.store.RemoveAll(func(other *Binding) bool {
		return !other.registry.IsPersistent(other)
	})
	s.debug(LogInvalidateAll, zap.Int("dropped", n))
}

// InvalidateByPKey drops every binding registered under the persistence key
// tag, even though those bindings are persistent.
func (s *Session) InvalidateByPKey(tag string) {
	n := s.store.RemoveAll(func(b *Binding) bool {
		return b.registry.HasTag(b, tag)
	})
	s.debug(LogInvalidatePKey, zap.String("pkey", tag), zap.Int("dropped", n))
}

// NoCache stops s from storing outcomes until the returned restore function
// is called. Lookups keep working.
//
//	restore := s.NoCache()
//	defer restore()
func (s *Session) NoCache() (restore func()) {
	previous := s.store.SetDisabled(true)
	s.debug(LogNoCacheEnter)
	return func() {
		s.store.SetDisabled(previous)
		s.debug(LogNoCacheExit)
	}
}

// WithNoCache runs fn with caching disabled. The previous state is restored
// when fn returns or panics.
func (s *Session) WithNoCache(fn func() error) error {
	restore := s.NoCache()
	defer restore()
	return fn()
}

// Inv returns a view that invalidates instead of calling.
func (s *Session) Inv() InvalidatorSession {
	return InvalidatorSession{s: s}
}

// CallOnly returns a view that always calls and never stores.
func (s *Session) CallOnly() CallOnlySession {
	return CallOnlySession{s: s}
}

// SetCache returns a view that stores val, or err when not nil, as the
// outcome of the next call instead of running it.
func (s *Session) SetCache(val any, err error) SetCacheSession {
	return SetCacheSession{s: s, val: val, err: err}
}

// GetVal returns the value put under keys in s or one of its parents.
func (s *Session) GetVal(keys ...any) (any, error) {
	return GetVal(s, keys...)
}

// PutVal stores val under keys. The value survives InvalidateAll(nil).
func (s *Session) PutVal(val any, keys ...any) {
	PutVal(s, val, keys...)
}
