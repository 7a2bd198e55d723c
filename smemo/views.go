package smemo

// The views below share the storage of their Session. None of them ever
// finds anything in the cache, so every call through them reaches PreCall.

// InvalidatorSession invalidates the entry a call would use instead of
// making the call. The call returns the zero result.
type InvalidatorSession struct {
	s *Session
}

func (v InvalidatorSession) GetCache(*Binding, Args) (Outcome, bool) { return Outcome{}, false }
func (v InvalidatorSession) SimpleGetCache(*Binding) (Outcome, bool) { return Outcome{}, false }
func (v InvalidatorSession) Cache(*Binding, any, Args)               {}
func (v InvalidatorSession) CacheErr(*Binding, error, Args)          {}
func (v InvalidatorSession) session() *Session                       { return v.s }

func (v InvalidatorSession) PreCall(b *Binding, args Args) Scope {
	v.s.InvalidateArgs(b, args)
	return nil
}

func (v InvalidatorSession) SimplePreCall(b *Binding) Scope {
	v.s.InvalidateArgs(b, Args{})
	return nil
}

// CallOnlySession runs the call against its Session without storing the
// outcome. Nested calls made by the body use the Session and are cached as
// usual.
type CallOnlySession struct {
	s *Session
}

func (v CallOnlySession) GetCache(*Binding, Args) (Outcome, bool) { return Outcome{}, false }
func (v CallOnlySession) SimpleGetCache(*Binding) (Outcome, bool) { return Outcome{}, false }
func (v CallOnlySession) Cache(*Binding, any, Args)               {}
func (v CallOnlySession) CacheErr(*Binding, error, Args)          {}
func (v CallOnlySession) session() *Session                       { return v.s }

func (v CallOnlySession) PreCall(*Binding, Args) Scope { return v.s }
func (v CallOnlySession) SimplePreCall(*Binding) Scope { return v.s }

// SetCacheSession skips the call and stores a fixed value, or a fixed error,
// in its Session as the outcome. The call itself returns the zero result.
type SetCacheSession struct {
	s   *Session
	val any
	err error
}

func (v SetCacheSession) GetCache(*Binding, Args) (Outcome, bool) { return Outcome{}, false }
func (v SetCacheSession) SimpleGetCache(*Binding) (Outcome, bool) { return Outcome{}, false }
func (v SetCacheSession) PreCall(*Binding, Args) Scope            { return nil }
func (v SetCacheSession) SimplePreCall(*Binding) Scope            { return nil }
func (v SetCacheSession) session() *Session                       { return v.s }

func (v SetCacheSession) Cache(b *Binding, _ any, args Args) {
	if v.err != nil {
		v.s.CacheErr(b, v.err, args)
		return
	}
	v.s.Cache(b, v.val, args)
}

// CacheErr is a no-op: calls through the view are skipped, so they never
// fail.
func (v SetCacheSession) CacheErr(*Binding, error, Args) {}
