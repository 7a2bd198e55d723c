package smemo

import (
	"fmt"
	"reflect"

	"github.com/mitchellh/copystructure"
)

// Cloner lets a value provide its own deep copy to copying bindings.
type Cloner interface {
	Clone() any
}

// deliver hands v to the caller, deep copied unless b is by reference.
//
// copystructure cannot see unexported struct fields and would hand out a
// value with those fields zeroed. Such values must implement Cloner or be
// returned by a Ref binding; otherwise deliver fails with ErrCopy.
func (b *Binding) deliver(v any) (any, error) {
	if b.ref || v == nil {
		return v, nil
	}
	if c, ok := v.(Cloner); ok {
		return c.Clone(), nil
	}
	if t := opaqueType(reflect.ValueOf(v), make(map[uintptr]struct{})); t != nil {
		return nil, fmt.Errorf("%w: %s: %s has unexported fields, implement Cloner or use Ref", ErrCopy, b.name, t)
	}
	cp, err := copystructure.Copy(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrCopy, b.name, err)
	}
	return cp, nil
}

// opaqueType returns the first struct type reachable from v that has
// unexported fields, or nil. Types copystructure has a copier for are
// skipped.
func opaqueType(v reflect.Value, seen map[uintptr]struct{}) reflect.Type {
	if !v.IsValid() {
		return nil
	}
	if _, ok := copystructure.Copiers[v.Type()]; ok {
		return nil
	}
	switch v.Kind() {
	case reflect.Pointer:
		if v.IsNil() {
			return nil
		}
		if _, ok := seen[v.Pointer()]; ok {
			return nil
		}
		seen[v.Pointer()] = struct{}{}
		return opaqueType(v.Elem(), seen)
	case reflect.Interface:
		return opaqueType(v.Elem(), seen)
	case reflect.Struct:
		t := v.Type()
		for i := 0; i < t.NumField(); i++ {
			if !t.Field(i).IsExported() {
				return t
			}
			if ot := opaqueType(v.Field(i), seen); ot != nil {
				return ot
			}
		}
	case reflect.Slice, reflect.Array:
		for i := 0; i < v.Len(); i++ {
			if ot := opaqueType(v.Index(i), seen); ot != nil {
				return ot
			}
		}
	case reflect.Map:
		iter := v.MapRange()
		for iter.Next() {
			if ot := opaqueType(iter.Key(), seen); ot != nil {
				return ot
			}
			if ot := opaqueType(iter.Value(), seen); ot != nil {
				return ot
			}
		}
	}
	return nil
}
