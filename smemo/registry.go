package smemo

import (
	"sort"

	"go.uber.org/zap"
)

type persistKind uint8

const (
	notPersistent persistKind = iota
	persistent
	persistentTagged
)

// Persistence says whether a binding survives InvalidateAll(nil).
type Persistence struct {
	kind persistKind
	tag  string
}

var (
	// NotPersistent bindings are dropped by every bulk invalidation.
	NotPersistent = Persistence{}
	// Persistent bindings survive InvalidateAll(nil).
	Persistent = Persistence{kind: persistent}
)

// PersistentTag is Persistent, and additionally lets InvalidateByPKey(tag)
// drop the binding.
func PersistentTag(tag string) Persistence {
	return Persistence{kind: persistentTagged, tag: tag}
}

func (p Persistence) IsPersistent() bool {
	return p.kind != notPersistent
}

// Tag returns the persistence key, if any.
func (p Persistence) Tag() (string, bool) {
	return p.tag, p.kind == persistentTagged
}

func (p Persistence) String() string {
	switch p.kind {
	case persistent:
		return "persistent"
	case persistentTagged:
		return "persistent:" + p.tag
	default:
		return "none"
	}
}

// Registry records which bindings are persistent and under which persistence
// keys. Bindings register once, when they are wrapped, and are never removed.
//
// Sessions consult their registry on bulk invalidation. A registry is
// normally created once at startup; DefaultRegistry is used when none is
// given.
type Registry struct {
	persistent map[*Binding]struct{}
	tags       map[string]map[*Binding]struct{}
	getter     *Binding
	logger     *zap.Logger
}

// DefaultRegistry is the registry used by Wrap and NewSession unless another
// one is configured.
var DefaultRegistry = NewRegistry()

func NewRegistry() *Registry {
	r := &Registry{
		persistent: make(map[*Binding]struct{}),
		tags:       make(map[string]map[*Binding]struct{}),
		logger:     zap.NewNop(),
	}
	r.getter = newBinding(getterName, getValue, nil, Config{Ref: true, Persistence: Persistent}, r)
	return r
}

// WithLogger sets the logger registrations are reported to.
func (r *Registry) WithLogger(logger *zap.Logger) *Registry {
	if logger != nil {
		r.logger = logger
	}
	return r
}

func (r *Registry) register(b *Binding) {
	p := b.Persistence()
	if !p.IsPersistent() {
		return
	}
	r.persistent[b] = struct{}{}
	if tag, ok := p.Tag(); ok {
		bs, ok := r.tags[tag]
		if !ok {
			bs = make(map[*Binding]struct{})
			r.tags[tag] = bs
		}
		bs[b] = struct{}{}
	}
	r.logger.Debug("registered persistent binding",
		zap.String("binding", b.Name()),
		zap.Stringer("persistence", p),
	)
}

// IsPersistent reports whether b was registered as persistent.
func (r *Registry) IsPersistent(b *Binding) bool {
	_, ok := r.persistent[b]
	return ok
}

// HasTag reports whether b was registered under the persistence key tag.
func (r *Registry) HasTag(b *Binding, tag string) bool {
	_, ok := r.tags[tag][b]
	return ok
}

// Tags lists the persistence keys in use, sorted.
func (r *Registry) Tags() []string {
	tags := make([]string, 0, len(r.tags))
	for tag := range r.tags {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// Len is the number of persistent bindings.
func (r *Registry) Len() int {
	return len(r.persistent)
}
