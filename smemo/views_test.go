package smemo_test

import (
	"errors"
	"testing"

	"github.com/on-the-ground/smemo_go/smemo"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	doCount *smemo.Binding
	fibDo   *smemo.Binding
)

func init() {
	doCount = smemo.Wrap0(func(s smemo.Scope) (any, error) {
		return smemo.Getter(s).Call(s, doCount)
	}, smemo.Config{Ref: true, Persistence: smemo.Persistent})

	fibDo = smemo.Cached(func(s smemo.Scope, args smemo.Args) (any, error) {
		n := args.Arg(0).(int)
		if n <= 1 {
			return 1, nil
		}
		count, err := doCount.Call(s)
		if err != nil {
			return nil, err
		}
		*count.(*int)++
		return addCalls(s, fibDo, n)
	})
}

func TestViews_SetCacheInvalidatorCallOnly(t *testing.T) {
	s := smemo.NewSession()
	count := new(int)

	v, err := doCount.Call(s.SetCache(count, nil))
	require.NoError(t, err)
	assert.Nil(t, v)

	assert.Equal(t, 8, callInt(t, fibDo, s, 5))
	assert.Equal(t, 4, *count)
	assert.Equal(t, 8, callInt(t, fibDo, s, 5))
	assert.Equal(t, 4, *count)

	v, err = fibDo.Call(s.Inv(), 5)
	require.NoError(t, err)
	assert.Nil(t, v)
	assert.Equal(t, 4, *count)

	assert.Equal(t, 8, callInt(t, fibDo, s, 5))
	assert.Equal(t, 5, *count)

	assert.Equal(t, 8, callInt(t, fibDo, s.CallOnly(), 5))
	assert.Equal(t, 6, *count)

	_, err = doCount.Call(s.SetCache(nil, errors.New("error")))
	require.NoError(t, err)

	_, err = doCount.Call(s)
	assert.EqualError(t, err, "error")
	assert.True(t, smemo.IsCached(err))

	// an injected value replaces the injected error
	_, err = doCount.Call(s.SetCache(count, nil))
	require.NoError(t, err)
	v, err = doCount.Call(s)
	require.NoError(t, err)
	assert.Same(t, count, v)
}

func TestViews_SetCacheWithArgs(t *testing.T) {
	s, counter := newCountedSession(t)

	_, err := countedFib.Call(s.SetCache(100, nil), 10)
	require.NoError(t, err)
	assert.Equal(t, 0, *counter)
	assert.Equal(t, 100, callInt(t, countedFib, s, 10))
	assert.Equal(t, 0, *counter)

	// fib(11) = fib(10) + fib(9); fib(10) is forced
	assert.Equal(t, 155, callInt(t, countedFib, s, 11))

	boom := errors.New("boom")
	_, err = countedFib.Call(s.SetCache(nil, boom), 3)
	require.NoError(t, err)
	_, err = countedFib.Call(s, 3)
	assert.ErrorIs(t, err, boom)
}

func TestViews_InvalidatorZeroArg(t *testing.T) {
	s := smemo.NewSession()
	calls := 0
	b := smemo.Wrap0(func(smemo.Scope) (any, error) {
		calls++
		return calls, nil
	}, smemo.Config{})

	v, _ := b.Call(s)
	assert.Equal(t, 1, v)
	v, _ = b.Call(s)
	assert.Equal(t, 1, v)

	v, err := b.Call(s.Inv())
	require.NoError(t, err)
	assert.Nil(t, v)
	assert.Equal(t, 1, calls)

	v, _ = b.Call(s)
	assert.Equal(t, 2, v)
}

func TestViews_CallOnlyNeverStores(t *testing.T) {
	s := smemo.NewSession()
	calls := 0
	b := smemo.Cached(func(smemo.Scope, smemo.Args) (any, error) {
		calls++
		return calls, nil
	})

	v, _ := b.Call(s.CallOnly(), "k")
	assert.Equal(t, 1, v)
	v, _ = b.Call(s.CallOnly(), "k")
	assert.Equal(t, 2, v)
	assert.Equal(t, 0, s.Entries(b))

	v, _ = b.Call(s, "k")
	assert.Equal(t, 3, v)
	v, _ = b.Call(s.CallOnly(), "k")
	assert.Equal(t, 4, v)
	v, _ = b.Call(s, "k")
	assert.Equal(t, 3, v)
}

func TestViews_CallOnlyErrorsAreNotStored(t *testing.T) {
	s, counter := newCountedSession(t)

	_, err := failingArgs.Call(s.CallOnly(), 1)
	assert.EqualError(t, err, "bad input")
	_, err = failingArgs.Call(s, 1)
	assert.False(t, smemo.IsCached(err))
	assert.Equal(t, 2, *counter)
}
