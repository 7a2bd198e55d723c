package smemo_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/on-the-ground/smemo_go/smemo"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var typedFib smemo.BoundI1[int, int]

func init() {
	typedFib = smemo.BindI1(func(s smemo.Scope, n int) (int, error) {
		*smemo.MustGetVal[*int](s, "counter")++
		if n <= 1 {
			return 1, nil
		}
		a, err := typedFib.Call(s, n-1)
		if err != nil {
			return 0, err
		}
		b, err := typedFib.Call(s, n-2)
		if err != nil {
			return 0, err
		}
		return a + b, nil
	}, smemo.Config{Name: "typedFib"})
}

func TestBindI1(t *testing.T) {
	s, counter := newCountedSession(t)

	v, err := typedFib.Call(s, 5)
	require.NoError(t, err)
	assert.Equal(t, 8, v)
	assert.Equal(t, 6, *counter)

	v, err = typedFib.Call(s, 5)
	require.NoError(t, err)
	assert.Equal(t, 8, v)
	assert.Equal(t, 6, *counter)

	assert.Equal(t, "typedFib", typedFib.Binding().Name())
	s.Invalidate(typedFib.Binding(), 5)
	_, _ = typedFib.Call(s, 5)
	assert.Equal(t, 7, *counter)
}

func TestBindI0(t *testing.T) {
	s := smemo.NewSession()
	calls := 0
	boom := errors.New("boom")
	cfg := smemo.BindI0(func(smemo.Scope) (map[string]string, error) {
		calls++
		return map[string]string{"env": "test"}, nil
	}, smemo.Config{})
	failing := smemo.BindI0(func(smemo.Scope) (int, error) {
		calls++
		return 0, boom
	}, smemo.Config{})

	m, err := cfg.Call(s)
	require.NoError(t, err)
	m["env"] = "changed"
	m, err = cfg.Call(s)
	require.NoError(t, err)
	assert.Equal(t, "test", m["env"])
	assert.Equal(t, 1, calls)

	_, err = failing.Call(s)
	assert.True(t, err == boom)
	_, err = failing.Call(s)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 2, calls)
}

func TestBindI2(t *testing.T) {
	s := smemo.NewSession()
	calls := 0
	join := smemo.BindI2(func(_ smemo.Scope, a string, n int) (string, error) {
		calls++
		return fmt.Sprintf("%s-%d", a, n), nil
	}, smemo.Config{Ref: true})

	v, err := join.Call(s, "a", 1)
	require.NoError(t, err)
	assert.Equal(t, "a-1", v)
	_, _ = join.Call(s, "a", 1)
	_, _ = join.Call(s, "a", 2)
	assert.Equal(t, 2, calls)
	assert.Contains(t, join.Binding().Name(), "TestBindI2")
}

func TestBindI3(t *testing.T) {
	s := smemo.NewSession()
	calls := 0
	sum := smemo.BindI3(func(_ smemo.Scope, a, b, c int) (int, error) {
		calls++
		return a + b + c, nil
	}, smemo.Config{})

	v, err := sum.Call(s, 1, 2, 3)
	require.NoError(t, err)
	assert.Equal(t, 6, v)
	v, err = sum.Call(s, 1, 2, 3)
	require.NoError(t, err)
	assert.Equal(t, 6, v)
	assert.Equal(t, 1, calls)
}

func TestBound_SkippedCallGivesZeroValue(t *testing.T) {
	s := smemo.NewSession()
	double := smemo.BindI1(func(_ smemo.Scope, n int) (int, error) {
		return 2 * n, nil
	}, smemo.Config{})

	v, err := double.Call(s, 4)
	require.NoError(t, err)
	assert.Equal(t, 8, v)

	v, err = double.Call(s.Inv(), 4)
	require.NoError(t, err)
	assert.Equal(t, 0, v)
	assert.Equal(t, 0, s.Entries(double.Binding()))
}
