package smemo

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by GetVal when nothing was put under the keys, in
// the session or any of its parents.
var ErrNotFound = fmt.Errorf("no value cached")

// ErrNoParent is the panic value when a restricted session has to forward to
// a parent it does not have.
var ErrNoParent = fmt.Errorf("restricted session has no parent")

// ErrCopy is returned when the result of a copying binding cannot be deep
// copied.
var ErrCopy = fmt.Errorf("failed to copy result")

// CachedError is returned when a call hits a cached error. It carries the
// error returned by the call that was cached; its message is the same and
// errors.Is / errors.As see through it.
type CachedError struct {
	Binding string
	Err     error
}

func (e *CachedError) Error() string {
	return e.Err.Error()
}

func (e *CachedError) Unwrap() error {
	return e.Err
}

// IsCached reports whether err was replayed from the cache rather than
// returned by running the body.
func IsCached(err error) bool {
	var ce *CachedError
	return errors.As(err, &ce)
}

// replay builds a fresh error for a cached error outcome. The stored error is
// never handed out twice as the top-level value.
func replay(b *Binding, err error) error {
	if ce, ok := err.(*CachedError); ok {
		err = ce.Err
	}
	return &CachedError{Binding: b.Name(), Err: err}
}
