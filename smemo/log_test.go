package smemo_test

import (
	"testing"

	"github.com/on-the-ground/smemo_go/smemo"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func newObservedSession(level zap.AtomicLevel) (*smemo.Session, *observer.ObservedLogs) {
	core, logs := observer.New(level)
	return smemo.NewSession(smemo.WithLogger(zap.New(core))), logs
}

func TestLog_CacheEvents(t *testing.T) {
	s, logs := newObservedSession(zap.NewAtomicLevelAt(zap.DebugLevel))

	_, _ = fib.Call(s, 1)
	_, _ = fib.Call(s, 1)

	assert.Equal(t, 1, logs.FilterMessage(smemo.LogMiss).Len())
	assert.Equal(t, 1, logs.FilterMessage(smemo.LogStore).Len())
	assert.Equal(t, 1, logs.FilterMessage(smemo.LogHit).Len())

	entry := logs.FilterMessage(smemo.LogHit).All()[0]
	fields := entry.ContextMap()
	assert.Equal(t, s.ID(), fields["session"])
	assert.Equal(t, fib.Name(), fields["binding"])
	assert.Len(t, fields["key"], 16)

	s.Invalidate(fib, 1)
	s.InvalidateAll(nil)
	s.InvalidateByPKey("T")
	assert.Equal(t, 1, logs.FilterMessage(smemo.LogInvalidate).Len())
	assert.Equal(t, 1, logs.FilterMessage(smemo.LogInvalidateAll).Len())
	assert.Equal(t, 1, logs.FilterMessage(smemo.LogInvalidatePKey).FilterField(zap.String("pkey", "T")).Len())
}

func TestLog_NoCacheAndSkips(t *testing.T) {
	s, logs := newObservedSession(zap.NewAtomicLevelAt(zap.DebugLevel))

	_ = s.WithNoCache(func() error {
		_, _ = fib.Call(s, 1)
		return nil
	})
	assert.Equal(t, 1, logs.FilterMessage(smemo.LogNoCacheEnter).Len())
	assert.Equal(t, 1, logs.FilterMessage(smemo.LogNoCacheExit).Len())
	assert.Equal(t, 1, logs.FilterMessage(smemo.LogStoreSkipped).Len())

	_, _ = fib.Call(s.Inv(), 1)
	assert.Equal(t, 1, logs.FilterMessage(smemo.LogCallSkipped).Len())
}

func TestLog_ChildInheritsLogger(t *testing.T) {
	parent, logs := newObservedSession(zap.NewAtomicLevelAt(zap.DebugLevel))
	child := parent.NewChild()

	_, _ = fib.Call(child, 1)
	assert.Equal(t, 1, logs.FilterField(zap.String("session", child.ID())).FilterMessage(smemo.LogStore).Len())
}

func TestLog_QuietAboveDebug(t *testing.T) {
	s, logs := newObservedSession(zap.NewAtomicLevelAt(zap.InfoLevel))
	_, _ = fib.Call(s, 3)
	s.InvalidateAll(nil)
	assert.Equal(t, 0, logs.Len())
}

func TestLog_RegistryRegistrations(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	reg := smemo.NewRegistry().WithLogger(zap.New(core))

	newCountingBinding(reg, smemo.NotPersistent)
	newCountingBinding(reg, smemo.PersistentTag("T"))

	registered := logs.FilterMessage("registered persistent binding").All()
	if assert.Len(t, registered, 1) {
		assert.Equal(t, "persistent:T", registered[0].ContextMap()["persistence"])
	}
}
