package cachekey

import (
	"fmt"
	"reflect"
	"sort"

	"github.com/cespare/xxhash/v2"
)

// Key identifies one call of a binding. It is comparable and safe to use as a
// map key.
type Key struct {
	pos any
	kw  any
}

// Empty is the key of a call without arguments.
var Empty = Derive(nil, nil)

// Pickled marks a half of a key that could not be compared natively and was
// replaced by its serialized form.
type Pickled struct {
	Data string
}

// cons is a linked tuple. Nested cons values compare element by element.
type cons struct {
	head any
	tail any
}

type kwPair struct {
	Name  string
	Type  string
	Value any
}

type typedItem struct {
	Type  string
	Value any
}

// Derive builds the key for positional arguments pos and keyword arguments kw.
// Keyword order does not matter. Each half falls back to a serialized form
// independently when it holds values that cannot be compared.
func Derive(pos []any, kw map[string]any) Key {
	return Key{
		pos: derivePositional(pos),
		kw:  deriveKeywords(kw),
	}
}

// IsPickled reports whether either half of k was serialized.
func (k Key) IsPickled() (pos bool, kw bool) {
	_, pos = k.pos.(Pickled)
	_, kw = k.kw.(Pickled)
	return
}

// Fingerprint is a short hash of k, for logs.
func (k Key) Fingerprint() uint64 {
	return xxhash.Sum64String(fmt.Sprintf("%#v|%#v", k.pos, k.kw))
}

func (k Key) String() string {
	return fmt.Sprintf("%016x", k.Fingerprint())
}

func derivePositional(pos []any) any {
	if !allComparable(pos) {
		return pickle(pos)
	}
	return tuple(pos)
}

func deriveKeywords(kw map[string]any) any {
	names := make([]string, 0, len(kw))
	for name := range kw {
		names = append(names, name)
	}
	sort.Strings(names)

	pairs := make([]any, len(names))
	values := make([]any, len(names))
	for i, name := range names {
		pairs[i] = kwPair{Name: name, Type: fmt.Sprintf("%T", kw[name]), Value: kw[name]}
		values[i] = kw[name]
	}
	if !allComparable(values) {
		return pickle(pairs)
	}
	return tuple(pairs)
}

func tuple(items []any) any {
	var t any
	for i := len(items) - 1; i >= 0; i-- {
		t = cons{head: items[i], tail: t}
	}
	return t
}

func allComparable(items []any) bool {
	for _, item := range items {
		if item == nil {
			continue
		}
		if !reflect.ValueOf(item).Comparable() {
			return false
		}
	}
	return true
}

// pickle prints items with %#v. It never fails, includes unexported struct
// fields and sorts map keys. Pointers inside items are printed as addresses,
// so they are keyed by identity.
func pickle(items []any) Pickled {
	typed := make([]typedItem, len(items))
	for i, item := range items {
		typed[i] = typedItem{Type: fmt.Sprintf("%T", item), Value: item}
	}
	return Pickled{Data: fmt.Sprintf("%#v", typed)}
}
